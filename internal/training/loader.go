package training

import (
	"context"
	"time"

	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/common/metrics"
	"kisan-intent/internal/intent"
)

const (
	StatusLoaded = "loaded"
	StatusFailed = "failed"
)

// SourceReport is the outcome of one source.
type SourceReport struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Status      string        `json:"status"`
	Records     int           `json:"records"`
	Skipped     int           `json:"skipped"`
	TokensAdded int           `json:"tokensAdded"`
	NewIntents  int           `json:"newIntents"`
	ErrorCode   string        `json:"errorCode,omitempty"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Report summarizes a whole load pass.
type Report struct {
	Sources     []SourceReport `json:"sources"`
	Loaded      int            `json:"loaded"`
	Failed      int            `json:"failed"`
	Records     int            `json:"records"`
	TokensAdded int            `json:"tokensAdded"`
}

// Loader merges sources into a corpus builder one by one.
type Loader struct {
	log     logger.Logger
	timeout time.Duration
}

// NewLoader returns a loader applying timeout to each source. A non-positive
// timeout means no per-source deadline beyond ctx.
func NewLoader(log logger.Logger, timeout time.Duration) *Loader {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Loader{log: log, timeout: timeout}
}

// Apply loads every source in order and merges the successful ones into b.
// Failures are logged at warn level and recorded in the report; they never
// abort the pass.
func (l *Loader) Apply(ctx context.Context, b *intent.CorpusBuilder, sources ...Source) Report {
	var report Report
	for _, src := range sources {
		sr := l.applyOne(ctx, b, src)
		report.Sources = append(report.Sources, sr)
		if sr.Status == StatusLoaded {
			report.Loaded++
			report.Records += sr.Records - sr.Skipped
			report.TokensAdded += sr.TokensAdded
		} else {
			report.Failed++
		}
	}
	return report
}

func (l *Loader) applyOne(ctx context.Context, b *intent.CorpusBuilder, src Source) SourceReport {
	sr := SourceReport{Name: src.Name(), Type: src.Type()}
	log := l.log.WithFields(map[string]interface{}{
		"source": sr.Name,
		"type":   sr.Type,
	})

	loadCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	records, err := src.Load(loadCtx)
	sr.Duration = time.Since(start)

	if err != nil {
		stdErr, ok := apperrors.AsStandardError(err)
		if !ok {
			stdErr = apperrors.NewTrainingSourceUnavailableError(sr.Name, err)
		}
		sr.Status = StatusFailed
		sr.ErrorCode = string(stdErr.Code)
		sr.Error = stdErr.Details
		metrics.TrainingSourceLoads.WithLabelValues(sr.Type, StatusFailed).Inc()
		log.WithError(err).Warn("Training source skipped", map[string]interface{}{
			"errorCode": sr.ErrorCode,
			"retryable": stdErr.Retryable,
		})
		return sr
	}

	stats := b.Merge(records)
	sr.Status = StatusLoaded
	sr.Records = stats.Records
	sr.Skipped = stats.Skipped
	sr.TokensAdded = stats.TokensAdded
	sr.NewIntents = stats.NewIntents

	metrics.TrainingSourceLoads.WithLabelValues(sr.Type, StatusLoaded).Inc()
	metrics.TrainingRecordsMerged.WithLabelValues(sr.Name).Add(float64(stats.Records - stats.Skipped))
	log.Info("Training source merged", map[string]interface{}{
		"records":     stats.Records,
		"skipped":     stats.Skipped,
		"tokensAdded": stats.TokensAdded,
		"newIntents":  stats.NewIntents,
		"durationMs":  sr.Duration.Milliseconds(),
	})
	return sr
}

// BuildCorpus loads the built-in base table, merges every source and freezes
// the result. It always returns a usable corpus.
func BuildCorpus(ctx context.Context, log logger.Logger, timeout time.Duration, sources ...Source) (*intent.Corpus, Report) {
	b := intent.NewCorpusBuilder().Load(intent.DefaultBaseTable())
	report := NewLoader(log, timeout).Apply(ctx, b, sources...)
	corpus := b.Build()
	metrics.SetCorpusSizes(corpus.Stats())
	return corpus, report
}
