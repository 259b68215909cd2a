// Package store persists cached price history and the query log.
//
// Two backends share one SQL implementation: SQLite (default) and PostgreSQL.
// Every method is self-contained: it either fully applies or has no effect.
package store

import (
	"context"
	"time"

	"FinQuery/internal/model"
)

// Store is the persistence boundary used by the refresh pipeline and the web layer.
type Store interface {
	// ReplaceHistory deletes every cached row of ticker and inserts rows in order.
	ReplaceHistory(ctx context.Context, ticker string, rows []model.PriceRow) error

	// ReadHistory returns the cached rows of ticker ordered by col and ord.
	// An unknown ticker yields an empty slice.
	ReadHistory(ctx context.Context, ticker string, col model.SortColumn, ord model.SortOrder) ([]model.PriceRow, error)

	// CommitFetch replaces the rows of ticker and touches its query log entry
	// in one transaction: either both are visible afterwards or neither is.
	CommitFetch(ctx context.Context, ticker string, rows []model.PriceRow) error

	// TouchQuery upserts the query log entry of ticker with the current time.
	TouchQuery(ctx context.Context, ticker string) error

	// ListQueries returns the query log, most recent first.
	ListQueries(ctx context.Context) ([]model.QueryLogEntry, error)

	// ClearQueries empties the query log. Cached rows are kept.
	ClearQueries(ctx context.Context) error

	// DeleteQuery removes the log entry of ticker if present. Cached rows are kept.
	DeleteQuery(ctx context.Context, ticker string) error

	// PruneQueries removes log entries last queried before the cutoff.
	PruneQueries(ctx context.Context, before time.Time) (int64, error)

	Close() error
}
