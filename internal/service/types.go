// Package service defines the backend-agnostic interface for task and auth operations.
package service

import "encoding/json"

// Priority values used by the backend.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a single task item as returned by the backend.
// The backend assigns IDs; clients never generate them.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`

	// Extra holds backend fields this client does not model.
	// They are carried through unchanged so newer server fields survive
	// a round-trip through local state.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownTaskFields are the JSON keys mapped to typed Task fields.
var knownTaskFields = map[string]bool{
	"id": true, "title": true, "description": true,
	"completed": true, "priority": true,
}

// UnmarshalJSON decodes the typed fields and stashes everything else in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownTaskFields[k] {
			delete(raw, k)
		}
	}
	*t = Task(a)
	if len(raw) > 0 {
		t.Extra = raw
	}
	return nil
}

// MarshalJSON re-emits the typed fields plus any passthrough fields.
func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+5)
	for k, v := range t.Extra {
		out[k] = v
	}
	out["id"] = t.ID
	out["title"] = t.Title
	out["description"] = t.Description
	out["completed"] = t.Completed
	out["priority"] = t.Priority
	return json.Marshal(out)
}

// TaskDraft holds the fields a client supplies when creating a task.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// TaskPatch holds the fields a client may change on an existing task.
// Nil fields are omitted from the request.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// User is the authenticated user's profile.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the result of a successful login or registration.
type Credentials struct {
	User  User
	Token string
}
