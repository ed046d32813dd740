package training

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kisan-intent/internal/common/database"
	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/intent"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// ==========================
// SQL (Postgres, SQLite)
// ==========================

// SQLSource runs a query returning query and intent columns.
type SQLSource struct {
	Client *database.SQLClient
	Query  string
	name   string
	typ    string
}

func NewSQLSource(name, typ string, client *database.SQLClient, query string) *SQLSource {
	if strings.TrimSpace(query) == "" {
		query = DefaultSQLQuery
	}
	return &SQLSource{Client: client, Query: query, name: name, typ: typ}
}

func (s *SQLSource) Name() string { return s.name }
func (s *SQLSource) Type() string { return s.typ }

func (s *SQLSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	var records []intent.TrainingRecord
	if err := s.Client.Select(ctx, &records, s.Query); err != nil {
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name,
			apperrors.NewQueryExecutionFailedError(s.typ, err))
	}
	return records, nil
}

// ==========================
// Redis
// ==========================

// RedisSource reads a list whose elements are JSON {"query", "intent"}
// objects.
type RedisSource struct {
	Client redis.Cmdable
	Key    string
	name   string
}

func NewRedisSource(name string, client redis.Cmdable, key string) *RedisSource {
	return &RedisSource{Client: client, Key: key, name: name}
}

func (s *RedisSource) Name() string { return s.name }
func (s *RedisSource) Type() string { return TypeRedis }

func (s *RedisSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	kind, err := s.Client.Type(ctx, s.Key).Result()
	if err != nil {
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name, err)
	}
	switch kind {
	case "list":
	case "none":
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name, fmt.Errorf("key %q does not exist", s.Key))
	default:
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, fmt.Sprintf("key %q is a %s, want list", s.Key, kind))
	}

	items, err := s.Client.LRange(ctx, s.Key, 0, -1).Result()
	if err != nil {
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name, err)
	}

	records := make([]intent.TrainingRecord, 0, len(items))
	for i, item := range items {
		var rec intent.TrainingRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, apperrors.NewTrainingSourceMalformedError(s.name, fmt.Sprintf("element %d: %v", i, err))
		}
		records = append(records, rec)
	}
	return records, nil
}

// ==========================
// Elasticsearch
// ==========================

const defaultSearchLimit = 1000

// ElasticsearchSource pulls documents from an index, reading the query and
// intent from configurable top-level fields.
type ElasticsearchSource struct {
	Client      *elasticsearch.Client
	Index       string
	QueryField  string
	IntentField string
	Limit       int
	name        string
}

func NewElasticsearchSource(name string, client *elasticsearch.Client, index, queryField, intentField string, limit int) *ElasticsearchSource {
	if queryField == "" {
		queryField = "query"
	}
	if intentField == "" {
		intentField = "intent"
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return &ElasticsearchSource{
		Client:      client,
		Index:       index,
		QueryField:  queryField,
		IntentField: intentField,
		Limit:       limit,
		name:        name,
	}
}

func (s *ElasticsearchSource) Name() string { return s.name }
func (s *ElasticsearchSource) Type() string { return TypeElasticsearch }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	body := fmt.Sprintf(`{"size":%d,"_source":[%q,%q],"query":{"match_all":{}}}`, s.Limit, s.QueryField, s.IntentField)

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(strings.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name,
			apperrors.NewElasticsearchConnectionFailedError(err))
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name, apperrors.NewIndexNotFoundError(s.Index))
	}
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, apperrors.NewTrainingSourceUnavailableError(s.name,
			apperrors.NewSearchQueryFailedError(s.Index, fmt.Errorf("%s: %s", res.Status(), msg)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewTrainingSourceMalformedError(s.name, err.Error())
	}

	records := make([]intent.TrainingRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		q, _ := hit.Source[s.QueryField].(string)
		label, _ := hit.Source[s.IntentField].(string)
		records = append(records, intent.TrainingRecord{Query: q, Intent: label})
	}
	return records, nil
}
