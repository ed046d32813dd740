package detectintent

import (
	"encoding/json"

	"kisan-intent/internal/common/errors"
	"kisan-intent/pkg/registry"
)

// Activity describes this worker for the activity registry.
func Activity() registry.Activity {
	return registry.Activity{
		ID:          TaskType,
		DisplayName: "Detect Intent",
		Description: "Classifies a farmer question into an intent and extracts crops, locations, quantities and time words. Opens a conversation session when sessionId is absent.",
		Category:    "ai-conversation",
		TaskType:    TaskType,
		InputSchema: json.RawMessage(InputSchema),
		Outputs:     []string{"intentAnalysis", "entities", "promptHints", "sessionId", "turn"},
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeInvalidJobPayload],
			errors.BPMNErrorMapping[errors.ErrCodeSessionNotFound],
		},
		Timeout: LoadConfig().Timeout.String(),
		Retries: 3,
		Tags:    []string{"intent", "hindi", "nlp"},
	}
}
