package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"FinQuery/internal/model"
)

// dialect captures the few differences between the SQL backends.
type dialect struct {
	name         string
	numbered     bool // $1, $2 ... instead of ?
	createTables []string
}

// sqlStore implements Store on top of database/sql.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func newSQLStore(db *sql.DB, d dialect) *sqlStore {
	return &sqlStore{db: db, dialect: d, now: time.Now}
}

// SetClock replaces the clock used by TouchQuery.
func (s *sqlStore) SetClock(now func() time.Time) { s.now = now }

func (s *sqlStore) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.createTables {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders for dialects with numbered parameters.
func (s *sqlStore) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// inTx runs fn in one transaction and commits only if fn succeeds.
func (s *sqlStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *sqlStore) ReplaceHistory(ctx context.Context, ticker string, rows []model.PriceRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.replaceRows(ctx, tx, ticker, rows)
	})
}

func (s *sqlStore) CommitFetch(ctx context.Context, ticker string, rows []model.PriceRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.replaceRows(ctx, tx, ticker, rows); err != nil {
			return err
		}
		return s.touch(ctx, tx, ticker)
	})
}

func (s *sqlStore) replaceRows(ctx context.Context, tx *sql.Tx, ticker string, rows []model.PriceRow) error {
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM history WHERE ticker = ?`), ticker); err != nil {
		return fmt.Errorf("delete history %s: %w", ticker, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO history
		(ticker, date, open, high, low, close, adj_close, volume)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (ticker, date) DO UPDATE SET
		open=excluded.open, high=excluded.high, low=excluded.low, close=excluded.close,
		adj_close=excluded.adj_close, volume=excluded.volume`))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, ticker, r.Date, r.Open, r.High, r.Low, r.Close, r.AdjClose, r.Volume); err != nil {
			return fmt.Errorf("insert %s %s: %w", ticker, r.Date, err)
		}
	}
	return nil
}

// orderBy builds the ORDER BY clause from the closed enums only.
func orderBy(col model.SortColumn, ord model.SortOrder) string {
	clause := col.String() + " " + ord.String()
	if col != model.SortByDate {
		clause += ", date ASC"
	}
	return clause
}

func (s *sqlStore) ReadHistory(ctx context.Context, ticker string, col model.SortColumn, ord model.SortOrder) ([]model.PriceRow, error) {
	q := `SELECT ticker, date, open, high, low, close, adj_close, volume
		FROM history WHERE ticker = ? ORDER BY ` + orderBy(col, ord)
	rows, err := s.db.QueryContext(ctx, s.rebind(q), ticker)
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", ticker, err)
	}
	defer rows.Close()

	out := make([]model.PriceRow, 0)
	for rows.Next() {
		var r model.PriceRow
		if err := rows.Scan(&r.Ticker, &r.Date, &r.Open, &r.High, &r.Low, &r.Close, &r.AdjClose, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqlStore) TouchQuery(ctx context.Context, ticker string) error {
	return s.touch(ctx, s.db, ticker)
}

func (s *sqlStore) touch(ctx context.Context, ex execer, ticker string) error {
	_, err := ex.ExecContext(ctx, s.rebind(`INSERT INTO queries (ticker, last_query_ms) VALUES (?, ?)
		ON CONFLICT (ticker) DO UPDATE SET last_query_ms = excluded.last_query_ms`),
		ticker, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("touch query %s: %w", ticker, err)
	}
	return nil
}

func (s *sqlStore) ListQueries(ctx context.Context) ([]model.QueryLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, last_query_ms FROM queries ORDER BY last_query_ms DESC, ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	out := make([]model.QueryLogEntry, 0)
	for rows.Next() {
		var e model.QueryLogEntry
		var ms int64
		if err := rows.Scan(&e.Ticker, &ms); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		e.LastQueryAt = time.UnixMilli(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqlStore) ClearQueries(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM queries`); err != nil {
		return fmt.Errorf("clear queries: %w", err)
	}
	return nil
}

func (s *sqlStore) DeleteQuery(ctx context.Context, ticker string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM queries WHERE ticker = ?`), ticker); err != nil {
		return fmt.Errorf("delete query %s: %w", ticker, err)
	}
	return nil
}

func (s *sqlStore) PruneQueries(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM queries WHERE last_query_ms < ?`), before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune queries: %w", err)
	}
	return res.RowsAffected()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
