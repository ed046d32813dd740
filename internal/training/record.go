package training

import (
	"context"
	"fmt"
	"strings"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/database"
	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/intent"
)

// Writable reports whether Record can append to sources of this type.
func Writable(sourceType string) bool {
	switch strings.ToLower(sourceType) {
	case TypeRedis, TypeElasticsearch:
		return true
	}
	return false
}

// FindSource returns the configured source called name.
func FindSource(sources []config.SourceConfig, name string) (config.SourceConfig, bool) {
	for _, s := range sources {
		if s.Name == name {
			return s, true
		}
	}
	return config.SourceConfig{}, false
}

// Record appends corrected (query, intent) pairs to the store behind a Redis
// or Elasticsearch source so that the next engine build merges them. Records
// are trimmed; an empty query or intent rejects the whole batch.
func Record(ctx context.Context, db config.DatabaseConfig, src config.SourceConfig, records ...intent.TrainingRecord) error {
	name := src.Name
	if name == "" {
		name = src.Type
	}
	if !Writable(src.Type) {
		return apperrors.NewTrainingSourceUnsupportedError(name, src.Type).
			WithMetadata("operation", "record")
	}

	clean := make([]intent.TrainingRecord, 0, len(records))
	for i, rec := range records {
		rec.Query = strings.TrimSpace(rec.Query)
		rec.Intent = strings.TrimSpace(rec.Intent)
		if rec.Query == "" || rec.Intent == "" {
			return apperrors.NewTrainingSourceMalformedError(name, fmt.Sprintf("record %d needs a query and an intent", i))
		}
		clean = append(clean, rec)
	}
	if len(clean) == 0 {
		return nil
	}

	switch strings.ToLower(src.Type) {
	case TypeRedis:
		if src.Key == "" {
			return apperrors.NewTrainingSourceMalformedError(name, "redis source needs a key")
		}
		c, err := database.NewRedis(db.Redis)
		if err != nil {
			return apperrors.NewTrainingSourceUnavailableError(name, err)
		}
		defer c.Close()
		if _, err := c.AppendTrainingRecords(ctx, src.Key, clean...); err != nil {
			return apperrors.NewTrainingSourceUnavailableError(name, err)
		}

	case TypeElasticsearch:
		if src.Index == "" {
			return apperrors.NewTrainingSourceMalformedError(name, "elasticsearch source needs an index")
		}
		c, err := database.NewElasticsearch(db.Elasticsearch)
		if err != nil {
			return apperrors.NewTrainingSourceUnavailableError(name, err)
		}
		es := NewElasticsearchSource(name, c.Client, src.Index, src.QueryField, src.IntentField, src.Limit)
		if err := c.IndexTrainingRecords(ctx, es.Index, es.QueryField, es.IntentField, true, clean...); err != nil {
			return apperrors.NewTrainingSourceUnavailableError(name, err)
		}
	}
	return nil
}
