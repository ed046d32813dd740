package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/database"
	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/intent"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// SQL
// ==========================

func TestSQLSource_SQLite(t *testing.T) {
	ctx := context.Background()
	c, err := database.NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.EnsureTrainingSchema(ctx))

	for _, r := range []intent.TrainingRecord{
		{Query: "मिट्टी की जांच कहाँ होगी", Intent: "soil_health"},
		{Query: "kcc loan kaise milega", Intent: "government_scheme"},
	} {
		_, err := c.Exec(ctx, `INSERT INTO training_queries (query, intent) VALUES (?, ?)`, r.Query, r.Intent)
		require.NoError(t, err)
	}

	records, err := NewSQLSource("sqlite", TypeSQLite, c, "").Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "soil_health", records[0].Intent)
}

func TestSQLSource_PostgresQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	c := database.WrapSQL(db, "postgres")
	defer c.Close()

	mock.ExpectQuery("SELECT query, intent FROM farmer_calls").
		WillReturnError(errors.New("relation does not exist"))

	_, err = NewSQLSource("pg", TypePostgres, c, "SELECT query, intent FROM farmer_calls").Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceUnavailable))
	assert.True(t, apperrors.HasCode(errors.Unwrap(err), apperrors.ErrCodeQueryExecutionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_PostgresRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	c := database.WrapSQL(db, "postgres")
	defer c.Close()

	mock.ExpectQuery("SELECT query, intent FROM training_queries").
		WillReturnRows(sqlmock.NewRows([]string{"query", "intent"}).
			AddRow("टमाटर में झुलसा", "crop_disease").
			AddRow("", "crop_disease"))

	records, err := NewSQLSource("pg", TypePostgres, c, "").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// ==========================
// Redis
// ==========================

func TestRedisSource_Load(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	require.NoError(t, rdb.RPush(context.Background(), "training:queries",
		`{"query":"प्याज का भाव","intent":"market_price"}`,
		`{"query":"aphid spray","intent":"pest_control"}`).Err())

	records, err := NewRedisSource("redis", rdb, "training:queries").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []intent.TrainingRecord{
		{Query: "प्याज का भाव", Intent: "market_price"},
		{Query: "aphid spray", Intent: "pest_control"},
	}, records)
}

func TestRedisSource_KeyProblems(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	_, err := NewRedisSource("r", rdb, "missing").Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceUnavailable))

	require.NoError(t, rdb.Set(ctx, "plain", "x", 0).Err())
	_, err = NewRedisSource("r", rdb, "plain").Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed))

	require.NoError(t, rdb.RPush(ctx, "bad", `{"query":"ok","intent":"x"}`, `not json`).Err())
	_, err = NewRedisSource("r", rdb, "bad").Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed))
}

func TestRedisSource_ConnectionError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectType("training:queries").SetErr(errors.New("connection refused"))

	_, err := NewRedisSource("r", rdb, "training:queries").Load(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Elasticsearch
// ==========================

func newESClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestElasticsearchSource_Load(t *testing.T) {
	var gotPath, gotBody string
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, `{"hits":{"hits":[
			{"_source":{"text":"गन्ने में कौन सी खाद","label":"fertilizer_advice"}},
			{"_source":{"text":"monsoon kab aayega","label":"weather_info"}}
		]}}`)
	})

	src := NewElasticsearchSource("es", es, "farmer-queries", "text", "label", 50)
	records, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/farmer-queries/_search", gotPath)
	assert.Contains(t, gotBody, `"size":50`)
	assert.Equal(t, []intent.TrainingRecord{
		{Query: "गन्ने में कौन सी खाद", Intent: "fertilizer_advice"},
		{Query: "monsoon kab aayega", Intent: "weather_info"},
	}, records)
}

func TestElasticsearchSource_Errors(t *testing.T) {
	notFound := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})
	_, err := NewElasticsearchSource("es", notFound, "gone", "", "", 0).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceUnavailable))
	assert.True(t, apperrors.HasCode(errors.Unwrap(err), apperrors.ErrCodeIndexNotFound))

	garbage := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits":`)
	})
	_, err = NewElasticsearchSource("es", garbage, "idx", "", "", 0).Load(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed))
}

func TestNewElasticsearchSource_Defaults(t *testing.T) {
	src := NewElasticsearchSource("es", nil, "idx", "", "", 0)
	assert.Equal(t, "query", src.QueryField)
	assert.Equal(t, "intent", src.IntentField)
	assert.Equal(t, defaultSearchLimit, src.Limit)
	assert.True(t, strings.HasPrefix(src.Name(), "es"))
}
