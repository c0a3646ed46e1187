// Package store persists sections, comments, and matches to Postgres.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
)

// InitDB opens the shared connection pool for the given connection string.
// Only the first call has any effect; later calls return the first result.
func InitDB(ctx context.Context, databaseURL string) error {
	var initErr error
	poolOnce.Do(func() {
		if databaseURL == "" {
			initErr = fmt.Errorf("database URL is empty")
			return
		}
		cfg, err := pgxpool.ParseConfig(databaseURL)
		if err != nil {
			initErr = fmt.Errorf("invalid database URL: %w", err)
			return
		}
		pool, initErr = pgxpool.NewWithConfig(ctx, cfg)
	})
	return initErr
}

// GetPool returns the shared pool, nil before InitDB succeeds.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close shuts the shared pool down.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
