package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/nwestfall/planview/internal/api"
	"github.com/nwestfall/planview/internal/bus"
	"github.com/nwestfall/planview/internal/config"
)

// TestConsoleLifecycleSmoke runs the full bubbletea program headlessly:
// start, fetch the graph from a mock backend, navigate, and quit cleanly.
func TestConsoleLifecycleSmoke(t *testing.T) {
	mock := api.NewMockClient()
	mock.TasksResponse = threeTasks()
	mock.DependenciesResponse = parentDeps()

	b := bus.New(bus.DefaultBufferSize)
	defer b.Close()

	cfg := config.Default()
	cfg.Project = 7
	cfg.API.Timeout = time.Second

	var quitCalled bool
	console := New(mock, cfg,
		WithBus(b),
		WithOnQuit(func() { quitCalled = true }),
	)
	m := newModel(console, cfg)

	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(100, 30),
	)

	// Let Init run and the mock fetch land
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	if fm == nil {
		t.Fatal("FinalModel returned nil")
	}
	if !quitCalled {
		t.Error("quit callback was not invoked")
	}

	out := tm.FinalOutput(t, teatest.WithFinalTimeout(5*time.Second))
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(out)
	if buf.Len() == 0 {
		t.Error("expected non-empty output from console")
	}

	if len(mock.TasksCalls) == 0 {
		t.Error("expected at least one Tasks fetch")
	}
	if len(mock.DependenciesCalls) == 0 {
		t.Error("expected at least one Dependencies fetch")
	}
}

// TestConsoleDeleteSelectedEndToEnd drives a delete of the selected task
// through the confirm modal against the mock backend.
func TestConsoleDeleteSelectedEndToEnd(t *testing.T) {
	mock := api.NewMockClient()
	mock.TasksResponse = threeTasks()
	mock.DependenciesResponse = parentDeps()

	cfg := config.Default()
	cfg.Project = 7
	cfg.API.Timeout = time.Second

	var notified []*int64
	console := New(mock, cfg,
		WithOnTaskSelected(func(id *int64) { notified = append(notified, id) }),
	)
	m := newModel(console, cfg)

	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(100, 30),
	)

	time.Sleep(100 * time.Millisecond)

	// Select the first task, open the confirm modal, accept
	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	// The confirm modal opens via a command goroutine; wait for it to
	// render before confirming so the 'y' is not swallowed as a graph key.
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Delete task?"))
	}, teatest.WithDuration(3*time.Second))
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	time.Sleep(100 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))

	if len(mock.DeleteCalls) != 1 {
		t.Fatalf("expected 1 delete call, got %d", len(mock.DeleteCalls))
	}
	if len(notified) == 0 || notified[len(notified)-1] != nil {
		t.Errorf("expected final notification nil after deleting selection, got %v", notified)
	}
}
