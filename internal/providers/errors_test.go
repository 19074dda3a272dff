package providers

import (
	"errors"
	"testing"

	"podium/internal/util"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]error{
		"insufficient_quota":     util.ErrQuotaExhausted,
		"429 rate":               util.ErrRateLimited,
		"request timeout":        util.ErrTransient,
		"service is unavailable": util.ErrTransient,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); !errors.Is(got, want) {
			t.Fatalf("classify %q: got %v want %v", msg, got, want)
		}
	}
	other := errors.New("bad request")
	if got := ClassifyError(other); got != other {
		t.Fatalf("unclassified errors pass through, got %v", got)
	}
	if ClassifyError(nil) != nil {
		t.Fatal("nil stays nil")
	}
}
