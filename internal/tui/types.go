// Package tui provides the terminal console for browsing and editing a
// project's task-dependency graph using bubbletea.
package tui

import (
	"github.com/nwestfall/planview/internal/api"
	"github.com/nwestfall/planview/internal/graph"
)

// SelectionKind discriminates what, if anything, is selected in the
// graph pane.
type SelectionKind int

const (
	// SelectionNone means nothing is selected.
	SelectionNone SelectionKind = iota
	// SelectionTask means a single task node is selected.
	SelectionTask
	// SelectionEdge means a single dependency edge is selected.
	SelectionEdge
)

// String returns a string representation of the SelectionKind.
func (k SelectionKind) String() string {
	switch k {
	case SelectionTask:
		return "task"
	case SelectionEdge:
		return "edge"
	default:
		return "none"
	}
}

// Selection is the graph pane's selection state. Exactly one of the
// payload fields is meaningful, keyed by Kind: TaskID for SelectionTask,
// EdgeIndex for SelectionEdge.
type Selection struct {
	Kind      SelectionKind
	TaskID    api.TaskID
	EdgeIndex int
}

// noSelection is the zero selection.
var noSelection = Selection{Kind: SelectionNone}

// taskSelection builds a task selection.
func taskSelection(id api.TaskID) Selection {
	return Selection{Kind: SelectionTask, TaskID: id}
}

// edgeSelection builds an edge selection by index into the pane's edge
// slice.
func edgeSelection(idx int) Selection {
	return Selection{Kind: SelectionEdge, EdgeIndex: idx}
}

// collapseActivation reduces a multi-target activation (for example an
// ambiguous click that hits several overlapping elements) to a single
// selection: first task wins, then first edge, then nothing.
func collapseActivation(taskIDs []api.TaskID, edgeIdxs []int) Selection {
	if len(taskIDs) > 0 {
		return taskSelection(taskIDs[0])
	}
	if len(edgeIdxs) > 0 {
		return edgeSelection(edgeIdxs[0])
	}
	return noSelection
}

// hostTaskID converts a selection to the value reported to the host:
// the numeric task id when a task is selected and its id parses as an
// integer, nil in every other case.
func hostTaskID(sel Selection) *int64 {
	if sel.Kind != SelectionTask {
		return nil
	}
	n, ok := sel.TaskID.Int64()
	if !ok {
		return nil
	}
	return &n
}

// edgeAt returns the edge at idx, or nil when the index is out of range.
func edgeAt(edges []graph.Edge, idx int) *graph.Edge {
	if idx < 0 || idx >= len(edges) {
		return nil
	}
	return &edges[idx]
}
