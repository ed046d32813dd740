package intent

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(label string, method Method) DetectionResult {
	return DetectionResult{
		Intent:   label,
		Category: CategoryFor(label),
		Method:   method,
	}
}

func TestTracker_EmptySummary(t *testing.T) {
	s := NewTracker(0).Summary()

	assert.Equal(t, 0, s.Total)
	assert.NotNil(t, s.IntentCounts)
	assert.NotNil(t, s.CategoryCounts)
	assert.Empty(t, s.IntentCounts)
	assert.Empty(t, s.TopIntent)
	assert.Empty(t, s.Recent)
}

func TestTracker_Accumulates(t *testing.T) {
	tr := NewTracker(3)
	tr.Record(result(IntentMarketPrice, MethodKeywordMatching))
	tr.Record(result(IntentCropDisease, MethodKeywordMatching))
	tr.Record(result(IntentPestControl, MethodKeywordMatching))
	tr.Record(result(IntentGeneralFarming, MethodFallback))
	tr.Record(result(IntentMarketPrice, MethodKeywordMatching))

	s := tr.Summary()
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.FallbackCount)
	assert.Equal(t, 2, s.IntentCounts[IntentMarketPrice])
	assert.Equal(t, 2, s.CategoryCounts[CategoryPlantProtection])
	assert.Equal(t, IntentMarketPrice, s.TopIntent)

	sum := 0
	for _, n := range s.IntentCounts {
		sum += n
	}
	assert.Equal(t, s.Total, sum)

	require.Len(t, s.Recent, 3)
	assert.Equal(t, IntentPestControl, s.Recent[0].Intent, "oldest kept result first")
	assert.Equal(t, IntentGeneralFarming, s.Recent[1].Intent)
	assert.Equal(t, IntentMarketPrice, s.Recent[2].Intent)
}

func TestTracker_TopIntentTieBreak(t *testing.T) {
	tr := NewTracker(0)
	tr.Record(result(IntentWeatherInfo, MethodKeywordMatching))
	tr.Record(result(IntentCropDisease, MethodKeywordMatching))

	assert.Equal(t, IntentCropDisease, tr.Summary().TopIntent)
}

func TestTracker_SummaryIsDetached(t *testing.T) {
	tr := NewTracker(0)
	r := result(IntentFertilizerAdvice, MethodKeywordMatching)
	r.Entities = Entities{Quantities: []string{"50 kg"}}
	r.Scores = map[string]float64{IntentFertilizerAdvice: 0.5}
	tr.Record(r)

	r.Entities.Quantities[0] = "changed"
	r.Scores[IntentFertilizerAdvice] = 0

	s := tr.Summary()
	s.IntentCounts[IntentFertilizerAdvice] = 99
	s.Recent[0].Entities.Quantities[0] = "changed again"

	fresh := tr.Summary()
	assert.Equal(t, 1, fresh.IntentCounts[IntentFertilizerAdvice])
	assert.Equal(t, []string{"50 kg"}, fresh.Recent[0].Entities.Quantities)
	assert.Equal(t, 0.5, fresh.Recent[0].Scores[IntentFertilizerAdvice])
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	tr := NewTracker(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tr.Record(result(fmt.Sprintf("intent_%d", i), MethodKeywordMatching))
			}
		}(i)
	}
	wg.Wait()

	s := tr.Summary()
	assert.Equal(t, 400, s.Total)
	assert.Len(t, s.IntentCounts, 8)
	assert.Len(t, s.Recent, DefaultRecentResults)
}
