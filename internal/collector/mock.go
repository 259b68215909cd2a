package collector

import (
	"context"
	"sync"
	"time"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Result *ChartResult
	Err    error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchChart(_ context.Context, ticker string) (*ChartResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// Calls returns the tickers requested so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// GenerateMockChart builds a chart of count consecutive weekdays starting at
// start, without an adjusted close series.
func GenerateMockChart(symbol, shortName string, basePrice float64, count int, start time.Time) *ChartResult {
	res := &ChartResult{}
	res.Meta.Symbol = symbol
	res.Meta.ShortName = shortName
	q := QuoteSeries{}
	day := start
	for i := 0; i < count; i++ {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		p := basePrice * (1 + float64(i-count/2)*0.001)
		res.Timestamp = append(res.Timestamp, float64(day.Unix()))
		q.Open = append(q.Open, p*0.999)
		q.High = append(q.High, p*1.005)
		q.Low = append(q.Low, p*0.995)
		q.Close = append(q.Close, p)
		q.Volume = append(q.Volume, float64(1000000+i))
		day = day.AddDate(0, 0, 1)
	}
	res.Indicators.Quote = []QuoteSeries{q}
	return res
}
