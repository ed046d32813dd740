package training

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// CSV
// ==========================

func TestCSVSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "queries.csv",
		"\ufeffid,Intent, Query\n"+
			"1,seed_inquiry,अच्छे बीज कहाँ मिलेंगे\n"+
			"2,market_price,\"गेहूं का भाव, आज\"\n"+
			"3,weather_info\n")

	records, err := NewCSVSource("csv:queries.csv", path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []intent.TrainingRecord{
		{Query: "अच्छे बीज कहाँ मिलेंगे", Intent: "seed_inquiry"},
		{Query: "गेहूं का भाव, आज", Intent: "market_price"},
		{Query: "", Intent: "weather_info"},
	}, records)
}

func TestCSVSource_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code apperrors.ErrorCode
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), apperrors.ErrCodeTrainingSourceUnavailable},
		{"empty file", writeFile(t, dir, "empty.csv", ""), apperrors.ErrCodeTrainingSourceMalformed},
		{"no intent column", writeFile(t, dir, "bad.csv", "query,label\nx,y\n"), apperrors.ErrCodeTrainingSourceMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVSource(tt.name, tt.path).Load(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCSVSource_CancelledContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.csv", "query,intent\nx,y\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVSource("q", path).Load(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceUnavailable))
}

// ==========================
// JSON
// ==========================

func TestJSONSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.json", `[
		{"query": "धान में दीमक", "intent": "pest_control", "source": "helpline"},
		{"query": "soil testing lab", "intent": "soil_health"}
	]`)

	records, err := NewJSONSource("json", path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "pest_control", records[0].Intent)
}

func TestJSONSource_SchemaViolations(t *testing.T) {
	dir := t.TempDir()

	for name, body := range map[string]string{
		"object root":    `{"query": "x", "intent": "y"}`,
		"missing intent": `[{"query": "x"}]`,
		"wrong type":     `[{"query": 5, "intent": "y"}]`,
		"not json":       `[{"query":`,
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, "f.json", body)
			_, err := NewJSONSource(name, path).Load(context.Background())
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed), "got %v", err)
		})
	}
}

// ==========================
// YAML
// ==========================

func TestYAMLSource_ListForm(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.yaml", `
- query: नहर का पानी कब आएगा
  intent: irrigation_advice
- query: drip subsidy
  intent: government_scheme
`)

	records, err := NewYAMLSource("yaml", path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []intent.TrainingRecord{
		{Query: "नहर का पानी कब आएगा", Intent: "irrigation_advice"},
		{Query: "drip subsidy", Intent: "government_scheme"},
	}, records)
}

func TestYAMLSource_MappingFormKeepsDocumentOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.yaml", `
weather_info:
  - कल बारिश होगी
  - पाला पड़ेगा क्या
market_price:
  - सरसों का रेट
`)

	records, err := NewYAMLSource("yaml", path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "weather_info", records[0].Intent)
	assert.Equal(t, "पाला पड़ेगा क्या", records[1].Query)
	assert.Equal(t, "market_price", records[2].Intent)
}

func TestYAMLSource_Malformed(t *testing.T) {
	dir := t.TempDir()

	scalar := writeFile(t, dir, "scalar.yaml", "just a string\n")
	_, err := NewYAMLSource("scalar", scalar).Load(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed))

	broken := writeFile(t, dir, "broken.yaml", "a: [b\n")
	_, err = NewYAMLSource("broken", broken).Load(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrainingSourceMalformed))

	empty := writeFile(t, dir, "empty.yaml", "")
	records, err := NewYAMLSource("empty", empty).Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, records)
}
