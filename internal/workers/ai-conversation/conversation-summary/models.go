// internal/workers/ai-conversation/conversation-summary/models.go
package conversationsummary

import (
	"kisan-intent/internal/common/validation"
	"kisan-intent/internal/intent"
)

type Input struct {
	SessionID string `json:"sessionId"`
	End       bool   `json:"end,omitempty"`
}

type Output struct {
	SessionID string         `json:"sessionId"`
	Summary   intent.Summary `json:"summary"`
	Ended     bool           `json:"ended"`
}

// InputSchema is the JSON schema job variables are validated against.
const InputSchema = `{
	"type": "object",
	"required": ["sessionId"],
	"properties": {
		"sessionId": {"type": "string", "minLength": 1},
		"end":       {"type": "boolean"}
	}
}`

var inputSchema = validation.MustCompile(InputSchema)
