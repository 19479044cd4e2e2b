package version

import (
	"strings"
	"testing"
)

func TestValueIsTrimmed(t *testing.T) {
	if Value == "" {
		t.Fatal("Value is empty")
	}
	if strings.TrimSpace(Value) != Value {
		t.Fatalf("Value = %q, want no surrounding whitespace", Value)
	}
	if got := UserAgent(); got != "orgscope/"+Value {
		t.Fatalf("UserAgent() = %q", got)
	}
}
