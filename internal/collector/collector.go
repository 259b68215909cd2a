package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"FinQuery/internal/model"
	"FinQuery/internal/notifier"
	"FinQuery/internal/store"
)

// Collector runs the fetch, normalize and cache path for one ticker at a time.
// It keeps no state across calls other than the per-ticker locks.
type Collector struct {
	Fetcher  Fetcher
	Store    store.Store
	Notifier notifier.Notifier
	Location *time.Location

	locks tickerLocks
}

// NewCollector creates a Collector. A nil notifier disables events and a nil
// location means the server's local time zone.
func NewCollector(fetcher Fetcher, st store.Store, n notifier.Notifier, loc *time.Location) *Collector {
	if n == nil {
		n = notifier.NewNoopNotifier()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Collector{Fetcher: fetcher, Store: st, Notifier: n, Location: loc}
}

// NormalizeTicker returns the canonical uppercase form of a user supplied ticker.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// FetchAndCache always calls the provider, replaces the cached rows of the
// ticker and records the query. Nothing is written unless at least one row
// survives normalization.
func (c *Collector) FetchAndCache(ctx context.Context, ticker string) (*model.History, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrNotFound)
	}

	unlock := c.locks.lock(ticker)
	defer unlock()

	res, err := c.Fetcher.FetchChart(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w: empty chart for %s", ErrNotFound, ticker)
	}

	h := &model.History{
		Ticker: ticker,
		Name:   DisplayName(res, ticker),
		Rows:   NormalizeRows(res, ticker, c.Location),
	}
	if len(h.Rows) == 0 {
		return nil, fmt.Errorf("%w: no usable rows for %s", ErrNotFound, ticker)
	}
	if skipped := len(res.Timestamp) - len(h.Rows); skipped > 0 {
		log.Debug().Str("ticker", ticker).Int("skipped", skipped).Msg("dropped incomplete bars")
	}

	// Rows and the query log entry land in one transaction.
	if err := c.Store.CommitFetch(ctx, ticker, h.Rows); err != nil {
		return nil, fmt.Errorf("cache history: %w", err)
	}

	evt := newFetchEvent(h, c.Fetcher.Name())
	if err := c.Notifier.NotifyFetched(ctx, evt); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("publish fetch event failed")
	}
	log.Info().Str("ticker", ticker).Int("rows", len(h.Rows)).Msg(notifier.FormatSummary(evt))
	return h, nil
}

func newFetchEvent(h *model.History, source string) *notifier.FetchEvent {
	evt := &notifier.FetchEvent{
		Ticker:    h.Ticker,
		Name:      h.Name,
		Rows:      len(h.Rows),
		Source:    source,
		FetchedAt: time.Now(),
	}
	if n := len(h.Rows); n > 0 {
		evt.FirstDate = h.Rows[0].Date
		evt.LastDate = h.Rows[n-1].Date
		evt.LastClose = h.Rows[n-1].Close
	}
	return evt
}

// tickerLocks serializes work on the same ticker.
type tickerLocks struct {
	mu sync.Mutex
	m  map[string]*tickerLock
}

type tickerLock struct {
	sync.Mutex
	refs int
}

func (l *tickerLocks) lock(ticker string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*tickerLock)
	}
	tl, ok := l.m[ticker]
	if !ok {
		tl = &tickerLock{}
		l.m[ticker] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.Lock()
	return func() {
		tl.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.m, ticker)
		}
		l.mu.Unlock()
	}
}
