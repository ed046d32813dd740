// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kisan-intent/internal/common/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// SQLClient wraps an sqlx connection to Postgres or SQLite.
type SQLClient struct {
	DB     *sqlx.DB
	Driver string
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*SQLClient, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLClient{DB: db, Driver: "postgres"}, nil
}

// WrapSQL adapts an existing *sql.DB, e.g. one opened by sqlmock.
func WrapSQL(db *sql.DB, driver string) *SQLClient {
	return &SQLClient{DB: sqlx.NewDb(db, driver), Driver: driver}
}

// Ping tests the database connection
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Select runs query and scans every row into dest, a pointer to a slice.
func (c *SQLClient) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.DB.SelectContext(ctx, dest, c.DB.Rebind(query), args...)
}

// Exec executes a query that doesn't return rows
func (c *SQLClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, c.DB.Rebind(query), args...)
}
