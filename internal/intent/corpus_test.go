package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusBuilder_Load(t *testing.T) {
	corpus := NewCorpusBuilder().Load(BaseTable{
		" Seed_Inquiry ": {"बीज", "SEEDS", "seeds"},
		"":               {"ignored"},
		"empty_intent":   {},
	}).Build()

	assert.Equal(t, []string{"empty_intent", "seed_inquiry"}, corpus.Labels())
	assert.True(t, corpus.Has("seed_inquiry", "बीज"))
	assert.True(t, corpus.Has("seed_inquiry", "seeds"))
	assert.Equal(t, 2, corpus.Size("seed_inquiry"), "duplicates collapse after folding")
	assert.Equal(t, 0, corpus.Size("empty_intent"))
}

func TestDefaultCorpus_CoversBaseIntents(t *testing.T) {
	corpus := DefaultCorpus()

	for _, label := range []string{
		IntentSeedInquiry, IntentFertilizerAdvice, IntentCropDisease, IntentPestControl,
		IntentMarketPrice, IntentWeatherInfo, IntentIrrigationAdvice, IntentSoilHealth,
		IntentGovernmentScheme, IntentGeneralFarming,
	} {
		assert.Greater(t, corpus.Size(label), 0, label)
	}
}

func TestCorpusBuilder_Merge(t *testing.T) {
	b := NewCorpusBuilder().Load(BaseTable{IntentSeedInquiry: {"बीज"}})

	stats := b.Merge([]TrainingRecord{
		{Query: "अच्छी किस्म के बीज कहाँ मिलेंगे", Intent: IntentSeedInquiry},
		{Query: "Tractor rent kitna hai", Intent: "Machinery_Rental"},
		{Query: "", Intent: IntentSeedInquiry},
		{Query: "कुछ भी", Intent: "  "},
		{Query: "!!!", Intent: IntentSeedInquiry},
	})

	assert.Equal(t, 5, stats.Records)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, stats.NewIntents)
	// "बीज" was already present; the other five words of the first query are new,
	// plus four words of the machinery query.
	assert.Equal(t, 9, stats.TokensAdded)

	corpus := b.Build()
	assert.True(t, corpus.Has(IntentSeedInquiry, "किस्म"))
	assert.True(t, corpus.Has("machinery_rental", "tractor"))
	assert.Equal(t, []string{"machinery_rental", "seed_inquiry"}, corpus.Labels())
}

func TestCorpusBuilder_MergeIsMonotonic(t *testing.T) {
	b := NewCorpusBuilder().Load(DefaultBaseTable())
	before := b.Build()

	b.Merge([]TrainingRecord{
		{Query: "धान की नर्सरी कब डालें", Intent: IntentSeedInquiry},
		{Query: "बीज उपचार कैसे करें", Intent: IntentCropDisease},
		{Query: "मंडी में आज का भाव", Intent: IntentMarketPrice},
	})
	after := b.Build()

	for _, label := range before.Labels() {
		for _, token := range before.Triggers(label) {
			assert.True(t, after.Has(label, token), "%s lost %s", label, token)
		}
	}

	queries := []string{
		"मुझे बीज की जानकारी चाहिए",
		"गेहूं में कौन सी खाद डालें",
		"आज मंडी में प्याज का भाव",
	}
	for _, q := range queries {
		tokens := Tokenize(q)
		pre := NewScorer(before, DefaultScorerConfig()).Scores(tokens)
		post := NewScorer(after, DefaultScorerConfig()).Scores(tokens)
		for label, score := range pre {
			assert.GreaterOrEqual(t, post[label], score, "%q / %s", q, label)
		}
	}
}

func TestCorpusBuilder_BuildIsASnapshot(t *testing.T) {
	b := NewCorpusBuilder().Load(BaseTable{"weather_info": {"मौसम"}})
	corpus := b.Build()

	b.Merge([]TrainingRecord{{Query: "बारिश कब होगी", Intent: "weather_info"}})

	require.Equal(t, 1, corpus.Size("weather_info"))
	assert.False(t, corpus.Has("weather_info", "बारिश"))
	assert.Equal(t, map[string]int{"weather_info": 1}, corpus.Stats())
}

func TestDefaultBaseTable_ReturnsCopy(t *testing.T) {
	table := DefaultBaseTable()
	table[IntentSeedInquiry] = nil
	delete(table, IntentWeatherInfo)

	fresh := DefaultBaseTable()
	assert.NotEmpty(t, fresh[IntentSeedInquiry])
	assert.Contains(t, fresh, IntentWeatherInfo)
}
