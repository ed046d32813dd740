package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/intent"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Query  string `db:"query"`
	Intent string `db:"intent"`
}

func TestSQLite_TrainingSchemaRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.EnsureTrainingSchema(ctx))
	require.NoError(t, c.EnsureTrainingSchema(ctx), "idempotent")

	_, err = c.Exec(ctx, `INSERT INTO training_queries (query, intent) VALUES (?, ?)`, "बीज कहाँ मिलेंगे", "seed_inquiry")
	require.NoError(t, err)

	var rows []row
	require.NoError(t, c.Select(ctx, &rows, `SELECT query, intent FROM training_queries`))
	assert.Equal(t, []row{{Query: "बीज कहाँ मिलेंगे", Intent: "seed_inquiry"}}, rows)
}

func TestNewSQLite_RequiresPath(t *testing.T) {
	_, err := NewSQLite(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestWrapSQL_RebindsForPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	c := WrapSQL(db, "postgres")
	defer c.Close()

	mock.ExpectQuery(`SELECT query, intent FROM training_queries WHERE intent = \$1`).
		WithArgs("market_price").
		WillReturnRows(sqlmock.NewRows([]string{"query", "intent"}).AddRow("मंडी भाव", "market_price"))

	var rows []row
	err = c.Select(context.Background(), &rows, `SELECT query, intent FROM training_queries WHERE intent = ?`, "market_price")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))
	assert.NotNil(t, c.GetClient())

	_, err = NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedis_AppendTrainingRecords(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	n, err := c.AppendTrainingRecords(ctx, "feedback",
		intent.TrainingRecord{Query: "प्याज का भाव", Intent: "market_price"},
		intent.TrainingRecord{Query: "aphid", Intent: "pest_control"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = c.AppendTrainingRecords(ctx, "feedback")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := c.GetClient().LRange(ctx, "feedback", 0, -1).Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"प्याज का भाव","intent":"market_price"}`, items[0])
}

func TestElasticsearch_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))

	_, err = NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}
