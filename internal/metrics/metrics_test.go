package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/kirksw/orgscope/internal/github"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherCountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	fail := false

	f := NewFetcher(github.FetcherFunc(func(ctx context.Context, url string) (any, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return map[string]any{"login": "acme"}, nil
	}), reg)

	for i := 0; i < 2; i++ {
		_, err := f.GetJSON(context.Background(), "https://api.github.com/orgs/acme")
		require.NoError(t, err)
	}

	fail = true
	_, err := f.GetJSON(context.Background(), "https://api.github.com/orgs/acme")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.requests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.requests.WithLabelValues("error")))

	count, err := testutil.GatherAndCount(reg, "orgscope_json_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
