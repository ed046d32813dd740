package intent

import (
	"sort"
	"strings"
)

// Corpus is an immutable intent → trigger-token mapping. It is safe for
// concurrent reads.
type Corpus struct {
	triggers map[string]map[string]struct{}
	labels   []string
}

// Labels returns the intent labels in lexical order.
func (c *Corpus) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Has reports whether token is a trigger for label. The token must already be
// folded (see Tokenize).
func (c *Corpus) Has(label, token string) bool {
	_, ok := c.triggers[label][token]
	return ok
}

// Size returns the number of trigger tokens for label.
func (c *Corpus) Size(label string) int {
	return len(c.triggers[label])
}

// Triggers returns the sorted trigger tokens of label.
func (c *Corpus) Triggers(label string) []string {
	set := c.triggers[label]
	out := make([]string, 0, len(set))
	for token := range set {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// Stats returns the token count per label.
func (c *Corpus) Stats() map[string]int {
	out := make(map[string]int, len(c.triggers))
	for label, set := range c.triggers {
		out[label] = len(set)
	}
	return out
}

// MergeStats describes the effect of one Merge call.
type MergeStats struct {
	Records     int `json:"records"`
	Skipped     int `json:"skipped"`
	TokensAdded int `json:"tokensAdded"`
	NewIntents  int `json:"newIntents"`
}

// CorpusBuilder accumulates base and training vocabulary. It is not safe for
// concurrent use; Build produces the shareable Corpus.
type CorpusBuilder struct {
	triggers map[string]map[string]struct{}
}

func NewCorpusBuilder() *CorpusBuilder {
	return &CorpusBuilder{triggers: make(map[string]map[string]struct{})}
}

// Load installs a base table. Words are tokenized the same way queries are, so
// a multi-word entry contributes each of its words.
func (b *CorpusBuilder) Load(table BaseTable) *CorpusBuilder {
	for label, words := range table {
		label = normalizeLabel(label)
		if label == "" {
			continue
		}
		set := b.set(label)
		for _, w := range words {
			for _, token := range Tokenize(w) {
				set[token] = struct{}{}
			}
		}
	}
	return b
}

// Merge unions the vocabulary of each record's query into its intent's
// trigger set. Existing tokens are never removed. Records without an intent or
// without any word are skipped.
func (b *CorpusBuilder) Merge(records []TrainingRecord) MergeStats {
	stats := MergeStats{Records: len(records)}
	for _, rec := range records {
		label := normalizeLabel(rec.Intent)
		tokens := Tokenize(rec.Query)
		if label == "" || len(tokens) == 0 {
			stats.Skipped++
			continue
		}
		if _, ok := b.triggers[label]; !ok {
			stats.NewIntents++
		}
		set := b.set(label)
		for _, token := range tokens {
			if _, ok := set[token]; !ok {
				set[token] = struct{}{}
				stats.TokensAdded++
			}
		}
	}
	return stats
}

// Build returns a frozen copy of the accumulated vocabulary. Further calls on
// the builder do not affect corpora already built.
func (b *CorpusBuilder) Build() *Corpus {
	c := &Corpus{
		triggers: make(map[string]map[string]struct{}, len(b.triggers)),
		labels:   make([]string, 0, len(b.triggers)),
	}
	for label, set := range b.triggers {
		cp := make(map[string]struct{}, len(set))
		for token := range set {
			cp[token] = struct{}{}
		}
		c.triggers[label] = cp
		c.labels = append(c.labels, label)
	}
	sort.Strings(c.labels)
	return c
}

func (b *CorpusBuilder) set(label string) map[string]struct{} {
	set, ok := b.triggers[label]
	if !ok {
		set = make(map[string]struct{})
		b.triggers[label] = set
	}
	return set
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// DefaultCorpus builds a corpus from the built-in base table only.
func DefaultCorpus() *Corpus {
	return NewCorpusBuilder().Load(DefaultBaseTable()).Build()
}
