package conversationsummary

import (
	"encoding/json"

	"kisan-intent/internal/common/errors"
	"kisan-intent/pkg/registry"
)

// Activity describes this worker for the activity registry.
func Activity() registry.Activity {
	return registry.Activity{
		ID:          TaskType,
		DisplayName: "Conversation Summary",
		Description: "Reports the intent distribution of a conversation session and optionally closes it.",
		Category:    "ai-conversation",
		TaskType:    TaskType,
		InputSchema: json.RawMessage(InputSchema),
		Outputs:     []string{"sessionId", "summary", "ended"},
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeInvalidJobPayload],
			errors.BPMNErrorMapping[errors.ErrCodeSessionNotFound],
		},
		Timeout: LoadConfig().Timeout.String(),
		Retries: 3,
		Tags:    []string{"session"},
	}
}
