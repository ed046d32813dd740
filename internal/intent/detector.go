package intent

import "strings"

// Engine combines a frozen corpus, the scorer and the entity extractors. It
// holds no per-conversation state and may be shared between goroutines.
type Engine struct {
	corpus        *Corpus
	scorer        *Scorer
	recentResults int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScorerConfig overrides the confidence floor and fallback outcome.
func WithScorerConfig(cfg ScorerConfig) Option {
	return func(e *Engine) {
		e.scorer = NewScorer(e.corpus, cfg)
	}
}

// WithRecentResults sets how many results each detector's tracker keeps.
func WithRecentResults(n int) Option {
	return func(e *Engine) {
		e.recentResults = n
	}
}

// NewEngine builds an engine over corpus. A nil corpus uses DefaultCorpus.
func NewEngine(corpus *Corpus, opts ...Option) *Engine {
	if corpus == nil {
		corpus = DefaultCorpus()
	}
	e := &Engine{
		corpus:        corpus,
		scorer:        NewScorer(corpus, DefaultScorerConfig()),
		recentResults: DefaultRecentResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Corpus returns the engine's corpus.
func (e *Engine) Corpus() *Corpus {
	return e.corpus
}

// ScorerConfig returns the effective scorer configuration.
func (e *Engine) ScorerConfig() ScorerConfig {
	return e.scorer.Config()
}

// Analyze classifies text without recording it anywhere. Entities are always
// extracted, including when the intent falls back. Blank input, or input with
// no words at all, goes straight to the fallback outcome.
func (e *Engine) Analyze(text string) DetectionResult {
	entities := ExtractEntities(text)

	var tokens []string
	if strings.TrimSpace(text) != "" {
		tokens = Tokenize(text)
	}

	var decision Decision
	if len(tokens) == 0 {
		decision = e.scorer.fallback(nil)
	} else {
		decision = e.scorer.Decide(tokens)
	}

	return DetectionResult{
		Intent:     decision.Intent,
		Confidence: decision.Confidence,
		Entities:   entities,
		Category:   CategoryFor(decision.Intent),
		Method:     decision.Method,
		Tokens:     len(tokens),
		Scores:     decision.Scores,
	}
}

// NewDetector returns a detector with its own, empty conversation tracker.
func (e *Engine) NewDetector() *Detector {
	return &Detector{engine: e, tracker: NewTracker(e.recentResults)}
}

// Detector is the per-conversation entry point: every Detect call is recorded
// in the detector's tracker.
type Detector struct {
	engine  *Engine
	tracker *Tracker
}

// NewDetector is shorthand for NewEngine(corpus, opts...).NewDetector().
func NewDetector(corpus *Corpus, opts ...Option) *Detector {
	return NewEngine(corpus, opts...).NewDetector()
}

// Detect classifies text and records the result. It accepts any string.
func (d *Detector) Detect(text string) DetectionResult {
	result := d.engine.Analyze(text)
	d.tracker.Record(result)
	return result
}

// Summary returns the conversation statistics so far.
func (d *Detector) Summary() Summary {
	return d.tracker.Summary()
}

// Engine returns the shared engine behind d.
func (d *Detector) Engine() *Engine {
	return d.engine
}
