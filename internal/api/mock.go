package api

import (
	"context"
	"sync"
)

// DynamicTasksFunc is a callback for dynamic Tasks responses.
type DynamicTasksFunc func(ctx context.Context, projectID int64) ([]Task, error, bool)

// DynamicDependenciesFunc is a callback for dynamic Dependencies responses.
type DynamicDependenciesFunc func(ctx context.Context, projectID int64) ([]Dependency, error, bool)

// MockClient is a mock implementation of Client for testing.
// It records all calls and returns configured responses.
type MockClient struct {
	mu sync.Mutex

	// Configured responses
	TasksResponse        []Task
	TasksError           error
	DependenciesResponse []Dependency
	DependenciesError    error
	FleshOutError        error
	RenameError          error
	DeleteError          error

	// Dynamic response callbacks
	DynamicTasks        DynamicTasksFunc
	DynamicDependencies DynamicDependenciesFunc

	// Call tracking
	TasksCalls        []int64
	DependenciesCalls []int64
	FleshOutCalls     []TaskID
	RenameCalls       []RenameCall
	DeleteCalls       []TaskID
}

// RenameCall records a Rename call.
type RenameCall struct {
	ID   TaskID
	Name string
}

// NewMockClient creates a new MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Tasks implements GraphReader.
func (m *MockClient) Tasks(ctx context.Context, projectID int64) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TasksCalls = append(m.TasksCalls, projectID)

	if m.DynamicTasks != nil {
		if tasks, err, handled := m.DynamicTasks(ctx, projectID); handled {
			return tasks, err
		}
	}

	if m.TasksError != nil {
		return nil, m.TasksError
	}
	return m.TasksResponse, nil
}

// Dependencies implements GraphReader.
func (m *MockClient) Dependencies(ctx context.Context, projectID int64) ([]Dependency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DependenciesCalls = append(m.DependenciesCalls, projectID)

	if m.DynamicDependencies != nil {
		if deps, err, handled := m.DynamicDependencies(ctx, projectID); handled {
			return deps, err
		}
	}

	if m.DependenciesError != nil {
		return nil, m.DependenciesError
	}
	return m.DependenciesResponse, nil
}

// FleshOut implements TaskMutator.
func (m *MockClient) FleshOut(ctx context.Context, id TaskID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FleshOutCalls = append(m.FleshOutCalls, id)
	return m.FleshOutError
}

// Rename implements TaskMutator.
func (m *MockClient) Rename(ctx context.Context, id TaskID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RenameCalls = append(m.RenameCalls, RenameCall{ID: id, Name: name})
	return m.RenameError
}

// Delete implements TaskMutator.
func (m *MockClient) Delete(ctx context.Context, id TaskID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	return m.DeleteError
}

// Verify MockClient implements Client interface.
var _ Client = (*MockClient)(nil)
