package collector

import "errors"

var (
	// ErrNotFound means the provider does not know the ticker or returned no usable rows.
	ErrNotFound = errors.New("ticker not found")

	// ErrProviderUnavailable means the provider could not be reached or answered garbage.
	ErrProviderUnavailable = errors.New("price provider unavailable")
)
