package intent

import "sync"

// DefaultRecentResults is how many results a Tracker keeps for inspection.
const DefaultRecentResults = 10

// Summary is a point-in-time snapshot of a conversation. It shares no memory
// with the Tracker that produced it.
type Summary struct {
	Total          int               `json:"total"`
	IntentCounts   map[string]int    `json:"intentCounts"`
	CategoryCounts map[Category]int  `json:"categoryCounts"`
	FallbackCount  int               `json:"fallbackCount"`
	TopIntent      string            `json:"topIntent,omitempty"`
	Recent         []DetectionResult `json:"recent"`
}

// Tracker accumulates per-turn results for one conversation.
type Tracker struct {
	mu             sync.Mutex
	total          int
	intentCounts   map[string]int
	categoryCounts map[Category]int
	fallbacks      int
	recent         []DetectionResult
	next           int
	capacity       int
}

// NewTracker creates an empty tracker keeping the last capacity results. A
// non-positive capacity uses DefaultRecentResults.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultRecentResults
	}
	return &Tracker{
		intentCounts:   make(map[string]int),
		categoryCounts: make(map[Category]int),
		recent:         make([]DetectionResult, 0, capacity),
		capacity:       capacity,
	}
}

// Record adds one turn.
func (t *Tracker) Record(result DetectionResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	t.intentCounts[result.Intent]++
	t.categoryCounts[result.Category]++
	if result.IsFallback() {
		t.fallbacks++
	}

	result.Entities = result.Entities.clone()
	result.Scores = cloneScores(result.Scores)
	if len(t.recent) < t.capacity {
		t.recent = append(t.recent, result)
		return
	}
	t.recent[t.next] = result
	t.next = (t.next + 1) % t.capacity
}

// Summary returns a snapshot. Recent results are ordered oldest first.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		Total:          t.total,
		IntentCounts:   make(map[string]int, len(t.intentCounts)),
		CategoryCounts: make(map[Category]int, len(t.categoryCounts)),
		FallbackCount:  t.fallbacks,
		Recent:         make([]DetectionResult, 0, len(t.recent)),
	}

	for label, n := range t.intentCounts {
		s.IntentCounts[label] = n
		if n > s.IntentCounts[s.TopIntent] || (n == s.IntentCounts[s.TopIntent] && label < s.TopIntent) {
			s.TopIntent = label
		}
	}
	for cat, n := range t.categoryCounts {
		s.CategoryCounts[cat] = n
	}

	for i := 0; i < len(t.recent); i++ {
		r := t.recent[(t.next+i)%len(t.recent)]
		r.Entities = r.Entities.clone()
		r.Scores = cloneScores(r.Scores)
		s.Recent = append(s.Recent, r)
	}
	return s
}

func cloneScores(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
