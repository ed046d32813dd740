package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "hindi sentence",
			input:    "मुझे बीज की जानकारी चाहिए",
			expected: []string{"मुझे", "बीज", "की", "जानकारी", "चाहिए"},
		},
		{
			name:     "english is case folded and punctuation dropped",
			input:    "Hello, WORLD!",
			expected: []string{"hello", "world"},
		},
		{
			name:     "code mixed with digits",
			input:    "Wheat में 50 kg Urea?",
			expected: []string{"wheat", "में", "50", "kg", "urea"},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    " \t\n ",
			expected: nil,
		},
		{
			name:     "punctuation only",
			input:    "?? !! ...",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestFold_NormalizesCaseAndComposition(t *testing.T) {
	assert.Equal(t, "urea", Fold("UREA"))
	// "é" precomposed and decomposed fold to the same string.
	assert.Equal(t, Fold("caf\u00e9"), Fold("cafe\u0301"))
}
