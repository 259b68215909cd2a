package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

var postgresDialect = dialect{
	name:     "postgres",
	numbered: true,
	createTables: []string{
		`CREATE TABLE IF NOT EXISTS history (
			id        BIGSERIAL PRIMARY KEY,
			ticker    TEXT NOT NULL,
			date      TEXT NOT NULL,
			open      DOUBLE PRECISION NOT NULL,
			high      DOUBLE PRECISION NOT NULL,
			low       DOUBLE PRECISION NOT NULL,
			close     DOUBLE PRECISION NOT NULL,
			adj_close DOUBLE PRECISION NOT NULL,
			volume    BIGINT NOT NULL,
			UNIQUE(ticker, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_ticker ON history(ticker)`,

		`CREATE TABLE IF NOT EXISTS queries (
			ticker        TEXT PRIMARY KEY,
			last_query_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_ts ON queries(last_query_ms)`,
	},
}

// PostgresStore keeps the cache in PostgreSQL through the pgx database/sql driver.
type PostgresStore struct {
	*sqlStore
}

// NewPostgres connects with dsn and runs migrations.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{sqlStore: newSQLStore(db, postgresDialect)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Msg("postgres store opened")
	return s, nil
}

var _ Store = (*PostgresStore)(nil)
