// pkg/registry/schema.go
package registry

import "encoding/json"

// ActivityRegistry lists the job types a deployment serves. Process modellers
// use it to wire service tasks and their input mappings.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	TaskType    string          `json:"taskType"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
	Outputs     []string        `json:"outputs,omitempty"`
	ErrorCodes  []string        `json:"errorCodes"`
	Timeout     string          `json:"timeout"`
	Retries     int             `json:"retries"`
	Tags        []string        `json:"tags,omitempty"`
}
