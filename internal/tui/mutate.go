package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwestfall/planview/internal/api"
)

// mutationKind identifies which task mutation completed.
type mutationKind int

const (
	mutationFleshOut mutationKind = iota
	mutationRename
	mutationDelete
)

// String returns a string representation of the mutationKind.
func (k mutationKind) String() string {
	switch k {
	case mutationFleshOut:
		return "flesh_out"
	case mutationRename:
		return "rename"
	case mutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// mutationDoneMsg carries the outcome of a task mutation request.
type mutationDoneMsg struct {
	kind mutationKind
	id   api.TaskID
	err  error
}

// startFleshOut remembers the selection marker and issues the expand
// request for the given task.
func (p GraphPane) startFleshOut(id api.TaskID) (GraphPane, tea.Cmd) {
	p.rememberSelection()
	return p, p.mutationCmd(mutationFleshOut, id, func(ctx context.Context) error {
		return p.client.FleshOut(ctx, id)
	})
}

// StartRename issues a rename request for the given task. The caller
// (the rename modal) has already validated the new name.
func (p GraphPane) StartRename(id api.TaskID, name string) (GraphPane, tea.Cmd) {
	p.rememberSelection()
	return p, p.mutationCmd(mutationRename, id, func(ctx context.Context) error {
		return p.client.Rename(ctx, id, name)
	})
}

// StartDelete issues a delete request for the given task. The caller
// (the confirm modal) has already collected confirmation.
func (p GraphPane) StartDelete(id api.TaskID) (GraphPane, tea.Cmd) {
	if p.selection.Kind != SelectionTask || p.selection.TaskID != id {
		// Deleting an unselected task leaves the selection untouched
		p.rememberSelection()
	}
	p.deleting = &id
	return p, p.mutationCmd(mutationDelete, id, func(ctx context.Context) error {
		return p.client.Delete(ctx, id)
	})
}

// rememberSelection records the selected task as the restore marker.
// The marker survives a failed mutation and is consumed by the next
// successful refetch.
func (p *GraphPane) rememberSelection() {
	if p.selection.Kind == SelectionTask {
		id := p.selection.TaskID
		p.pendingRestore = &id
	}
}

// mutationCmd runs a mutation request in the background.
func (p GraphPane) mutationCmd(kind mutationKind, id api.TaskID, fn func(context.Context) error) tea.Cmd {
	timeout := p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mutationDoneMsg{kind: kind, id: id, err: fn(ctx)}
	}
}

// handleMutationDone reacts to a completed mutation. Success triggers a
// refetch which restores the selection from the marker; failure logs
// and leaves the graph, the selection, and the marker untouched.
func (p GraphPane) handleMutationDone(msg mutationDoneMsg) (GraphPane, tea.Cmd) {
	if msg.err != nil {
		slog.Error("task mutation failed",
			"mutation", msg.kind.String(),
			"task", msg.id,
			"error", msg.err,
		)
		if msg.kind == mutationDelete {
			p.deleting = nil
		}
		return p, nil
	}

	if msg.kind == mutationDelete {
		p.deleting = nil
		if p.selection.Kind == SelectionTask && p.selection.TaskID == msg.id {
			p.pendingRestore = nil
			p.selectTarget(noSelection)
		}
	}

	// A refresh that predates the mutation may still be in flight.
	// Supersede it and fetch again so its result cannot stand in for
	// the post-mutation state.
	p.requestID++
	return p, p.forceRefreshCmd()
}
