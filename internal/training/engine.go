package training

import (
	"context"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/intent"
)

// NewEngine opens the stores the configured sources need, builds the corpus
// and returns an engine tuned by the detector section. Store connections are
// closed before it returns; the corpus is self-contained.
func NewEngine(ctx context.Context, cfg *config.Config, log logger.Logger) (*intent.Engine, Report) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	conns, closeConns := OpenConnections(ctx, log, cfg.Database, cfg.Training.Sources)
	defer closeConns()

	sources := FromConfig(cfg.Training.Sources, conns)
	corpus, report := BuildCorpus(ctx, log, config.GetDuration(cfg.Training.Timeout), sources...)

	engine := intent.NewEngine(corpus,
		intent.WithScorerConfig(ScorerConfig(cfg.Detector)),
		intent.WithRecentResults(cfg.Detector.RecentResults),
	)

	log.Info("Intent engine ready", map[string]interface{}{
		"intents":        len(corpus.Labels()),
		"sourcesLoaded":  report.Loaded,
		"sourcesFailed":  report.Failed,
		"recordsMerged":  report.Records,
		"tokensAdded":    report.TokensAdded,
		"threshold":      engine.ScorerConfig().ConfidenceThreshold,
		"fallbackIntent": engine.ScorerConfig().FallbackIntent,
	})
	return engine, report
}

// ScorerConfig maps the detector config section onto the scorer settings.
func ScorerConfig(d config.DetectorConfig) intent.ScorerConfig {
	return intent.ScorerConfig{
		ConfidenceThreshold: d.ConfidenceThreshold,
		FallbackConfidence:  d.FallbackConfidence,
		FallbackIntent:      d.FallbackIntent,
	}
}
