package intent

const (
	DefaultConfidenceThreshold = 0.1
	DefaultFallbackConfidence  = 0.3
	DefaultFallbackIntent      = IntentGeneralFarming
)

// ScorerConfig tunes the confidence floor and the fallback outcome.
type ScorerConfig struct {
	ConfidenceThreshold float64
	FallbackConfidence  float64
	FallbackIntent      string
}

// DefaultScorerConfig returns the production thresholds.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		FallbackConfidence:  DefaultFallbackConfidence,
		FallbackIntent:      DefaultFallbackIntent,
	}
}

// Decision is the scorer's verdict before entities are attached.
type Decision struct {
	Intent     string
	Confidence float64
	Method     Method
	Scores     map[string]float64
}

// Scorer assigns an intent to tokenized input using a Corpus.
type Scorer struct {
	corpus *Corpus
	config ScorerConfig
}

func NewScorer(corpus *Corpus, cfg ScorerConfig) *Scorer {
	def := DefaultScorerConfig()
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if cfg.FallbackConfidence <= 0 {
		cfg.FallbackConfidence = def.FallbackConfidence
	}
	if cfg.FallbackIntent == "" {
		cfg.FallbackIntent = def.FallbackIntent
	}
	if corpus == nil {
		corpus = NewCorpusBuilder().Build()
	}
	return &Scorer{corpus: corpus, config: cfg}
}

// Scores returns, per intent, the fraction of tokens found in that intent's
// trigger set. Repeated tokens count every time. With no tokens every score
// is zero.
func (s *Scorer) Scores(tokens []string) map[string]float64 {
	scores := make(map[string]float64, len(s.corpus.labels))
	for _, label := range s.corpus.labels {
		if len(tokens) == 0 {
			scores[label] = 0
			continue
		}
		hits := 0
		for _, token := range tokens {
			if s.corpus.Has(label, token) {
				hits++
			}
		}
		scores[label] = float64(hits) / float64(len(tokens))
	}
	return scores
}

// Decide picks the best intent. Ties go to the lexically smallest label. A
// best score under the confidence threshold yields the fallback decision.
func (s *Scorer) Decide(tokens []string) Decision {
	scores := s.Scores(tokens)

	best, bestScore := "", 0.0
	for _, label := range s.corpus.labels {
		if score := scores[label]; score > bestScore {
			best, bestScore = label, score
		}
	}

	if best == "" || bestScore < s.config.ConfidenceThreshold {
		return s.fallback(scores)
	}
	return Decision{
		Intent:     best,
		Confidence: bestScore,
		Method:     MethodKeywordMatching,
		Scores:     scores,
	}
}

func (s *Scorer) fallback(scores map[string]float64) Decision {
	return Decision{
		Intent:     s.config.FallbackIntent,
		Confidence: s.config.FallbackConfidence,
		Method:     MethodFallback,
		Scores:     scores,
	}
}

// Config returns the effective configuration after defaults.
func (s *Scorer) Config() ScorerConfig {
	return s.config
}
