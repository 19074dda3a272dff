package util

import "errors"

var (
	// ErrNoDataset doubles as the result metadata message, hence the casing.
	ErrNoDataset = errors.New("No data loaded")

	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	ErrQuotaExhausted = errors.New("provider quota exhausted")
	ErrRateLimited    = errors.New("provider rate limited")
	ErrTransient      = errors.New("transient provider error")
)
