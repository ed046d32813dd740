package training

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/common/metrics"
	"kisan-intent/internal/intent"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	name    string
	records []intent.TrainingRecord
	err     error
}

func (s *staticSource) Name() string { return s.name }
func (s *staticSource) Type() string { return "static" }

func (s *staticSource) Load(context.Context) ([]intent.TrainingRecord, error) {
	return s.records, s.err
}

type slowSource struct{}

func (slowSource) Name() string { return "slow" }
func (slowSource) Type() string { return "static" }

func (slowSource) Load(ctx context.Context) ([]intent.TrainingRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLoader_SkipsFailuresAndMergesTheRest(t *testing.T) {
	b := intent.NewCorpusBuilder().Load(intent.BaseTable{"market_price": {"भाव"}})
	failedBefore := testutil.ToFloat64(metrics.TrainingSourceLoads.WithLabelValues("static", StatusFailed))

	report := NewLoader(logger.NewTestLogger(t), time.Second).Apply(context.Background(), b,
		&staticSource{name: "broken", err: errors.New("disk on fire")},
		&staticSource{name: "good", records: []intent.TrainingRecord{
			{Query: "मंडी रेट बताओ", Intent: "market_price"},
			{Query: "", Intent: "market_price"},
		}},
	)

	require.Len(t, report.Sources, 2)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 1, report.Records)
	assert.Equal(t, 3, report.TokensAdded)

	broken := report.Sources[0]
	assert.Equal(t, StatusFailed, broken.Status)
	assert.Equal(t, "TRAINING_SOURCE_UNAVAILABLE", broken.ErrorCode)
	assert.Equal(t, "disk on fire", broken.Error)

	good := report.Sources[1]
	assert.Equal(t, StatusLoaded, good.Status)
	assert.Equal(t, 2, good.Records)
	assert.Equal(t, 1, good.Skipped)

	corpus := b.Build()
	assert.True(t, corpus.Has("market_price", "रेट"))
	assert.True(t, corpus.Has("market_price", "भाव"))

	assert.Equal(t, failedBefore+1, testutil.ToFloat64(metrics.TrainingSourceLoads.WithLabelValues("static", StatusFailed)))
}

func TestLoader_TimeoutPerSource(t *testing.T) {
	b := intent.NewCorpusBuilder()

	report := NewLoader(nil, 20*time.Millisecond).Apply(context.Background(), b, slowSource{})

	require.Len(t, report.Sources, 1)
	assert.Equal(t, StatusFailed, report.Sources[0].Status)
	assert.Equal(t, "TRAINING_SOURCE_UNAVAILABLE", report.Sources[0].ErrorCode)
}

func TestBuildCorpus_NoSourcesStillWorks(t *testing.T) {
	corpus, report := BuildCorpus(context.Background(), logger.NewNoOpLogger(), 0)

	assert.Empty(t, report.Sources)
	assert.Equal(t, intent.DefaultCorpus().Stats(), corpus.Stats())

	r := intent.NewDetector(corpus).Detect("मुझे बीज की जानकारी चाहिए")
	assert.Equal(t, intent.IntentSeedInquiry, r.Intent)
}

func TestBuildCorpus_FromConfiguredFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "query,intent\nट्रैक्टर किराये पर चाहिए,machinery_rental\n")
	writeFile(t, dir, "b.csv", "query,intent\nहार्वेस्टर कहाँ मिलेगा,machinery_rental\n")
	writeFile(t, dir, "c.json", `[{"query":"मंडी में सरसों","intent":"market_price"}]`)

	sources := FromConfig([]config.SourceConfig{
		{Type: "csv", Path: filepath.Join(dir, "*.csv")},
		{Name: "json", Type: "json", Path: filepath.Join(dir, "c.json")},
		{Name: "gone", Type: "yaml", Path: filepath.Join(dir, "missing.yaml")},
	}, Connections{})

	corpus, report := BuildCorpus(context.Background(), logger.NewTestLogger(t), time.Second, sources...)

	assert.Equal(t, 3, report.Loaded)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, corpus.Labels(), "machinery_rental")

	d := intent.NewDetector(corpus)
	r := d.Detect("ट्रैक्टर चाहिए")
	assert.Equal(t, "machinery_rental", r.Intent)
	assert.Equal(t, intent.CategoryGeneral, r.Category)
}
