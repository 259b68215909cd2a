package collector

import "context"

// Fetcher defines the interface for fetching one year of daily bars for a ticker.
//
// Implementations return ErrNotFound when the provider reports a symbol error or
// no result, and wrap ErrProviderUnavailable for transport and decoding failures.
type Fetcher interface {
	FetchChart(ctx context.Context, ticker string) (*ChartResult, error)
	Name() string
}
