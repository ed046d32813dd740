package training

import (
	"context"
	"path/filepath"
	"testing"

	"kisan-intent/internal/common/config"
	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_ExpandsGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.csv", "query,intent\n")
	writeFile(t, dir, "two.csv", "query,intent\n")

	sources := FromConfig([]config.SourceConfig{
		{Name: "csvs", Type: "csv", Path: filepath.Join(dir, "*.csv")},
	}, Connections{})

	require.Len(t, sources, 2)
	for _, s := range sources {
		assert.Equal(t, TypeCSV, s.Type())
		assert.Contains(t, s.Name(), "csv:")
	}
}

func TestFromConfig_BrokenEntriesFailOnLoad(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.SourceConfig
		code apperrors.ErrorCode
	}{
		{"glob without matches", config.SourceConfig{Type: "json", Path: filepath.Join(dir, "*.json")}, apperrors.ErrCodeTrainingSourceUnavailable},
		{"unsupported type", config.SourceConfig{Type: "mongodb"}, apperrors.ErrCodeTrainingSourceUnsupported},
		{"no postgres connection", config.SourceConfig{Type: "postgres"}, apperrors.ErrCodeTrainingSourceUnavailable},
		{"no sqlite connection", config.SourceConfig{Type: "sqlite"}, apperrors.ErrCodeTrainingSourceUnavailable},
		{"no redis connection", config.SourceConfig{Type: "redis", Key: "k"}, apperrors.ErrCodeTrainingSourceUnavailable},
		{"no es connection", config.SourceConfig{Type: "elasticsearch", Index: "i"}, apperrors.ErrCodeTrainingSourceUnavailable},
		{"file without path", config.SourceConfig{Type: "csv"}, apperrors.ErrCodeTrainingSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := FromConfig([]config.SourceConfig{tt.cfg}, Connections{})
			require.Len(t, sources, 1)
			_, err := sources[0].Load(context.Background())
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestFromConfig_SkipsDisabled(t *testing.T) {
	sources := FromConfig([]config.SourceConfig{{Type: "csv", Path: "x.csv", Disabled: true}}, Connections{})
	assert.Empty(t, sources)
}

func TestFromConfig_StoreSources(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	conns, closeAll := OpenConnections(ctx, logger.NewTestLogger(t), config.DatabaseConfig{
		SQLite: config.SQLiteConfig{Path: ":memory:"},
		Redis:  config.RedisConfig{Address: mr.Addr()},
	}, []config.SourceConfig{
		{Type: "sqlite"},
		{Type: "redis", Key: "q"},
		{Type: "postgres", Disabled: true},
	})
	defer closeAll()

	require.NotNil(t, conns.SQLite)
	require.NotNil(t, conns.Redis)
	assert.Nil(t, conns.Postgres, "disabled sources open nothing")
	require.NoError(t, conns.SQLite.EnsureTrainingSchema(ctx))
	require.NoError(t, conns.Redis.RPush(ctx, "q", `{"query":"बीमा कैसे मिले","intent":"government_scheme"}`).Err())

	sources := FromConfig([]config.SourceConfig{
		{Name: "sqlite", Type: "sqlite"},
		{Name: "redis", Type: "redis", Key: "q"},
		{Name: "redis-no-key", Type: "redis"},
	}, conns)
	require.Len(t, sources, 3)

	assert.IsType(t, &SQLSource{}, sources[0])
	records, err := sources[1].Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = sources[2].Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed))
}
