package notifier

import (
	"context"
	"time"
)

// FetchEvent describes one successful fetch-and-cache.
type FetchEvent struct {
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	FirstDate string    `json:"first_date"`
	LastDate  string    `json:"last_date"`
	LastClose float64   `json:"last_close"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Notifier publishes fetch events. Delivery is best effort.
type Notifier interface {
	NotifyFetched(ctx context.Context, evt *FetchEvent) error
	Close() error
}

// NoopNotifier is used when no event sink is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (NoopNotifier) NotifyFetched(_ context.Context, _ *FetchEvent) error { return nil }
func (NoopNotifier) Close() error                                        { return nil }
