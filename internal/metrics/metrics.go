// Package metrics instruments the JSON fetch boundary with Prometheus
// counters and latency histograms.
package metrics

import (
	"context"
	"time"

	"github.com/kirksw/orgscope/internal/github"
	"github.com/prometheus/client_golang/prometheus"
)

type Fetcher struct {
	next     github.JSONFetcher
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewFetcher wraps next and registers its collectors with reg.
func NewFetcher(next github.JSONFetcher, reg prometheus.Registerer) *Fetcher {
	f := &Fetcher{
		next: next,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orgscope_json_fetch_total",
				Help: "Total number of upstream JSON fetches by result",
			}, []string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orgscope_json_fetch_duration_seconds",
				Help:    "Latency of upstream JSON fetches",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(f.requests, f.duration)
	return f
}

func (f *Fetcher) GetJSON(ctx context.Context, url string) (any, error) {
	start := time.Now()
	payload, err := f.next.GetJSON(ctx, url)
	f.duration.Observe(time.Since(start).Seconds())

	if err != nil {
		f.requests.WithLabelValues("error").Inc()
		return nil, err
	}

	f.requests.WithLabelValues("ok").Inc()
	return payload, nil
}
