package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultYahooBaseURL is the public chart API host.
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

	chartRange    = "1y"
	chartInterval = "1d"

	// DefaultMaxChartBytes caps a chart response; a one-year daily chart is under 100 KB.
	DefaultMaxChartBytes = 4 << 20
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	MaxBytes  int64 // response body cap, 0 means DefaultMaxChartBytes
}

// NewYahooFetcher creates a fetcher with optional proxy support.
func NewYahooFetcher(baseURL, userAgent, proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	return &YahooFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// ChartResult is one entry of chart.result in the Yahoo chart response.
// Series are decoded loosely so a single malformed value only costs its own row.
type ChartResult struct {
	Meta struct {
		ShortName string `json:"shortName"`
		Symbol    string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []any `json:"timestamp"`
	Indicators struct {
		Quote    []QuoteSeries `json:"quote"`
		AdjClose []struct {
			AdjClose []any `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// QuoteSeries holds the parallel OHLCV arrays of indicators.quote[0].
type QuoteSeries struct {
	Open   []any `json:"open"`
	High   []any `json:"high"`
	Low    []any `json:"low"`
	Close  []any `json:"close"`
	Volume []any `json:"volume"`
}

// yahooChart is the response envelope from the Yahoo chart API.
type yahooChart struct {
	Chart struct {
		Result []*ChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) chartURL(ticker string) string {
	return fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		f.BaseURL, url.PathEscape(ticker), chartRange, chartInterval)
}

// FetchChart issues exactly one request for the fixed one-year daily window.
func (f *YahooFetcher) FetchChart(ctx context.Context, ticker string) (*ChartResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.chartURL(ticker), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrProviderUnavailable, err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo fetch: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxChartBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo read body: %w", ErrProviderUnavailable, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: yahoo response exceeds %d bytes", ErrProviderUnavailable, limit)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: yahoo decode (status %d): %w", ErrProviderUnavailable, resp.StatusCode, err)
	}
	// Yahoo answers unknown symbols with a 404 and a chart.error body.
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo: %s", ErrNotFound, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 || chart.Chart.Result[0] == nil {
		return nil, fmt.Errorf("%w: yahoo: no result for %s", ErrNotFound, ticker)
	}
	return chart.Chart.Result[0], nil
}
