package intent

// Method records how a DetectionResult was produced.
type Method string

const (
	MethodKeywordMatching Method = "keyword_matching"
	MethodFallback        Method = "fallback"
)

// TrainingRecord is one (query, intent) row imported from an external source.
type TrainingRecord struct {
	Query  string `json:"query" yaml:"query" db:"query"`
	Intent string `json:"intent" yaml:"intent" db:"intent"`
}

// DetectionResult is the outcome of a single Detect call. It is never mutated
// after it is returned.
type DetectionResult struct {
	Intent     string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Entities   Entities           `json:"entities"`
	Category   Category           `json:"category"`
	Method     Method             `json:"method"`
	Tokens     int                `json:"tokens"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// IsFallback reports whether the keyword match was discarded.
func (r DetectionResult) IsFallback() bool {
	return r.Method == MethodFallback
}

// Entities holds the values extracted from a query. Crop, Fertilizer and
// Problem keep the first hit only; Quantities and Time keep every hit in input
// order. Zero fields mean "not detected".
type Entities struct {
	Crop       string   `json:"crop,omitempty"`
	Fertilizer string   `json:"fertilizer,omitempty"`
	Problem    string   `json:"problem,omitempty"`
	Quantities []string `json:"quantities,omitempty"`
	Time       []string `json:"time,omitempty"`
}

// IsEmpty reports whether no entity of any kind was found.
func (e Entities) IsEmpty() bool {
	return e.Crop == "" && e.Fertilizer == "" && e.Problem == "" &&
		len(e.Quantities) == 0 && len(e.Time) == 0
}

// Map returns the detected entities keyed by kind. Kinds that were not
// detected are absent.
func (e Entities) Map() map[string]interface{} {
	out := make(map[string]interface{})
	if e.Crop != "" {
		out["crop"] = e.Crop
	}
	if e.Fertilizer != "" {
		out["fertilizer"] = e.Fertilizer
	}
	if e.Problem != "" {
		out["problem"] = e.Problem
	}
	if len(e.Quantities) > 0 {
		out["quantities"] = append([]string(nil), e.Quantities...)
	}
	if len(e.Time) > 0 {
		out["time"] = append([]string(nil), e.Time...)
	}
	return out
}

func (e Entities) clone() Entities {
	c := e
	if e.Quantities != nil {
		c.Quantities = append([]string(nil), e.Quantities...)
	}
	if e.Time != nil {
		c.Time = append([]string(nil), e.Time...)
	}
	return c
}
