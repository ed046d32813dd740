// Package training loads (query, intent) records from external sources and
// merges them into a keyword corpus. A source that cannot be read is logged
// and skipped; it never stops the corpus from being built.
package training

import (
	"context"

	"kisan-intent/internal/intent"
)

// Source types accepted in configuration.
const (
	TypeCSV           = "csv"
	TypeJSON          = "json"
	TypeYAML          = "yaml"
	TypePostgres      = "postgres"
	TypeSQLite        = "sqlite"
	TypeRedis         = "redis"
	TypeElasticsearch = "elasticsearch"
)

// DefaultSQLQuery reads the table created by database.TrainingQueriesDDL.
const DefaultSQLQuery = `SELECT query, intent FROM training_queries`

// Source yields training records. Load must honour ctx cancellation for any
// I/O it performs.
type Source interface {
	Name() string
	Type() string
	Load(ctx context.Context) ([]intent.TrainingRecord, error)
}

// brokenSource stands in for a source that could not even be constructed, so
// the failure is reported through the same path as a failed load.
type brokenSource struct {
	name string
	typ  string
	err  error
}

func (b *brokenSource) Name() string { return b.name }
func (b *brokenSource) Type() string { return b.typ }

func (b *brokenSource) Load(context.Context) ([]intent.TrainingRecord, error) {
	return nil, b.err
}
