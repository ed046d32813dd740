package registry

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Activity " + id,
		Category:    "ai-conversation",
		TaskType:    id,
		InputSchema: json.RawMessage(`{"type": "object"}`),
		Timeout:     "5s",
	}
}

func TestNew_SortsByID(t *testing.T) {
	reg := New(activity("b"), activity("a"))
	require.Len(t, reg.Activities, 2)
	assert.Equal(t, "a", reg.Activities[0].ID)
	assert.Equal(t, Version, reg.Version)
	assert.NotEmpty(t, reg.LastUpdated)
	assert.NoError(t, reg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	reg := New(activity("detect-intent"))
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Activities[0].ID, loaded.Activities[0].ID)
	assert.JSONEq(t, `{"type": "object"}`, string(loaded.Activities[0].InputSchema))

	a, ok := loaded.Find("detect-intent")
	assert.True(t, ok)
	assert.Equal(t, "Activity detect-intent", a.DisplayName)

	_, ok = loaded.Find("missing")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities = append(r.Activities, activity("a")) }, "duplicate activity ID"},
		{"duplicate task type", func(r *ActivityRegistry) {
			dup := activity("c")
			dup.TaskType = "a"
			r.Activities = append(r.Activities, dup)
		}, "duplicate task type"},
		{"missing display name", func(r *ActivityRegistry) { r.Activities[0].DisplayName = "" }, "DisplayName"},
		{"missing category", func(r *ActivityRegistry) { r.Activities[0].Category = "" }, "Category"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"bad schema", func(r *ActivityRegistry) { r.Activities[0].InputSchema = json.RawMessage(`{"type": 5}`) }, "invalid schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New(activity("a"), activity("b"))
			tt.mutate(reg)
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
