// Package api provides interfaces and implementations for talking to the
// research-workflow backend over HTTP. It abstracts the task and dependency
// endpoints to enable unit testing with mocks.
package api

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TaskID is an opaque task identifier. The backend emits both numeric and
// string ids, so the raw JSON token is preserved as text and numeric access
// is best-effort.
type TaskID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %s", data)
	}
	*id = TaskID(n.String())
	return nil
}

// Int64 returns the numeric value of the id and true when it parses as an
// integer. Host callbacks receive nil for non-numeric ids.
func (id TaskID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the raw id text.
func (id TaskID) String() string {
	return string(id)
}

// Task is a unit of work in a project's plan, as returned by the backend.
type Task struct {
	ID     TaskID `json:"id"`
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

// Dependency is a directed, kind-tagged relationship between two tasks.
// At most one record per (source, target, kind) is expected, but the backend
// does not deduplicate and neither does this client.
type Dependency struct {
	Source       TaskID `json:"source"`
	Target       TaskID `json:"target"`
	DataFlow     string `json:"data_flow"`
	Relationship string `json:"relationship_description"`
	DataSchema   string `json:"data_schema"`
}

// tasksEnvelope is the response body of GET /api/project/{id}/tasks.
type tasksEnvelope struct {
	Tasks []Task `json:"tasks"`
}

// dependenciesEnvelope is the response body of GET /api/project/{id}/dependencies.
type dependenciesEnvelope struct {
	Dependencies []Dependency `json:"dependencies"`
}

// errorEnvelope is the error body the backend attaches to non-2xx responses.
type errorEnvelope struct {
	Error string `json:"error"`
}
