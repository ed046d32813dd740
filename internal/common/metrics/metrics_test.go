package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDetection(t *testing.T) {
	before := testutil.ToFloat64(IntentDetections.WithLabelValues("seed_inquiry", "keyword_matching"))

	ObserveDetection("seed_inquiry", "keyword_matching", 0.2)

	after := testutil.ToFloat64(IntentDetections.WithLabelValues("seed_inquiry", "keyword_matching"))
	assert.Equal(t, before+1, after)
}

func TestSetCorpusSizes_ReplacesSeries(t *testing.T) {
	SetCorpusSizes(map[string]int{"a": 3, "b": 4})
	SetCorpusSizes(map[string]int{"a": 5})

	assert.Equal(t, 1, testutil.CollectAndCount(CorpusTokens))
	assert.Equal(t, 5.0, testutil.ToFloat64(CorpusTokens.WithLabelValues("a")))
}
