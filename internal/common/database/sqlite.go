package database

import (
	"context"
	"fmt"

	"kisan-intent/internal/common/config"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TrainingQueriesDDL creates the table the SQL training sources read by
// default.
const TrainingQueriesDDL = `CREATE TABLE IF NOT EXISTS training_queries (
	id     INTEGER PRIMARY KEY,
	query  TEXT NOT NULL,
	intent TEXT NOT NULL
)`

// NewSQLite opens the database file at cfg.Path.
func NewSQLite(cfg config.SQLiteConfig) (*SQLClient, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("database.sqlite.path is required")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	return &SQLClient{DB: db, Driver: "sqlite"}, nil
}

// EnsureTrainingSchema creates the training_queries table when missing.
func (c *SQLClient) EnsureTrainingSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, TrainingQueriesDDL); err != nil {
		return fmt.Errorf("create training_queries: %w", err)
	}
	return nil
}
