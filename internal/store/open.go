package store

import (
	"context"
	"fmt"
	"strings"
)

// Open builds the backend named by driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, sqlitePath, postgresDSN string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return NewSQLite(sqlitePath)
	case "postgres", "postgresql":
		return NewPostgres(ctx, postgresDSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
