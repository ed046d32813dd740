// internal/workers/ai-conversation/detect-intent/models.go
package detectintent

import (
	"kisan-intent/internal/common/validation"
	"kisan-intent/internal/intent"
)

type Input struct {
	Question  string                 `json:"question"`
	SessionID string                 `json:"sessionId,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

type Output struct {
	IntentAnalysis IntentAnalysis  `json:"intentAnalysis"`
	Entities       intent.Entities `json:"entities"`
	PromptHints    PromptHints     `json:"promptHints"`
	SessionID      string          `json:"sessionId"`
	Turn           int             `json:"turn"`
}

type IntentAnalysis struct {
	PrimaryIntent string             `json:"primaryIntent"`
	Confidence    float64            `json:"confidence"`
	Method        string             `json:"method"`
	Category      string             `json:"category"`
	Scores        map[string]float64 `json:"scores,omitempty"`
}

// PromptHints is what the downstream answer-generation step folds into its
// prompt.
type PromptHints struct {
	Intent   string                 `json:"intent"`
	Category string                 `json:"category"`
	Entities map[string]interface{} `json:"entities"`
}

// InputSchema is the JSON schema job variables are validated against.
const InputSchema = `{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question":  {"type": "string", "maxLength": 2000},
		"sessionId": {"type": "string"},
		"context":   {"type": ["object", "null"]}
	}
}`

var inputSchema = validation.MustCompile(InputSchema)
