package api

import "context"

// GraphReader provides read access to a project's task graph.
// Use this interface when you only need to render the graph.
type GraphReader interface {
	// Tasks retrieves all tasks for a project.
	Tasks(ctx context.Context, projectID int64) ([]Task, error)

	// Dependencies retrieves all task dependencies for a project.
	Dependencies(ctx context.Context, projectID int64) ([]Dependency, error)
}

// TaskMutator provides write operations on individual tasks.
type TaskMutator interface {
	// FleshOut asks the backend to expand a task into more detail/subtasks.
	FleshOut(ctx context.Context, id TaskID) error

	// Rename changes a task's display name.
	Rename(ctx context.Context, id TaskID, name string) error

	// Delete removes a task and its dependency records.
	Delete(ctx context.Context, id TaskID) error
}

// Client combines all backend operations the console needs.
type Client interface {
	GraphReader
	TaskMutator
}
