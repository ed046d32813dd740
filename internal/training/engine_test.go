package training

import (
	"context"
	"path/filepath"
	"testing"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_FromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.yaml", "soil_health:\n  - केंचुआ खाद से मिट्टी सुधरेगी\n")

	cfg := &config.Config{
		Detector: config.DetectorConfig{
			ConfidenceThreshold: 0.5,
			FallbackConfidence:  0.2,
			FallbackIntent:      "unknown",
			RecentResults:       2,
		},
		Training: config.TrainingConfig{
			Timeout: 1000,
			Sources: []config.SourceConfig{
				{Name: "extra", Type: "yaml", Path: filepath.Join(dir, "extra.yaml")},
				{Name: "off", Type: "postgres", Disabled: true},
			},
		},
	}

	engine, report := NewEngine(context.Background(), cfg, logger.NewTestLogger(t))
	require.NotNil(t, engine)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 0, report.Failed)

	sc := engine.ScorerConfig()
	assert.Equal(t, 0.5, sc.ConfidenceThreshold)
	assert.Equal(t, "unknown", sc.FallbackIntent)
	assert.True(t, engine.Corpus().Has(intent.IntentSoilHealth, "केंचुआ"))

	// One hit out of three words is below the raised floor.
	r := engine.Analyze("बीज कहाँ मिलेगा")
	assert.Equal(t, "unknown", r.Intent)
	assert.Equal(t, 0.2, r.Confidence)
}

func TestScorerConfig_ZeroValuesFallBackToDefaults(t *testing.T) {
	engine := intent.NewEngine(nil, intent.WithScorerConfig(ScorerConfig(config.DetectorConfig{})))
	assert.Equal(t, intent.DefaultScorerConfig(), engine.ScorerConfig())
}
