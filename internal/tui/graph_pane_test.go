package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwestfall/planview/internal/api"
	"github.com/nwestfall/planview/internal/config"
	"github.com/nwestfall/planview/internal/graph"
)

// notifySink records host selection notifications.
type notifySink struct {
	calls []*int64
}

func (s *notifySink) record(id *int64) {
	s.calls = append(s.calls, id)
}

func (s *notifySink) reset() {
	s.calls = nil
}

func testGraphConfig() *config.GraphConfig {
	return &config.GraphConfig{NodeWidth: 10, NodeHeight: 1, RowGap: 1, ColGap: 2, SidePad: 1}
}

func testPane(sink *notifySink) GraphPane {
	var fn func(*int64)
	if sink != nil {
		fn = sink.record
	}
	pane := NewGraphPane(api.NewMockClient(), testGraphConfig(), 7, time.Second, fn)
	pane.width = 80
	pane.height = 24
	return pane
}

func threeTasks() []api.Task {
	return []api.Task{
		{ID: "1", Name: "Task Plan: research"},
		{ID: "2", Name: "Task gather sources"},
		{ID: "3", Name: "Task consolidate findings"},
	}
}

func parentDeps() []api.Dependency {
	return []api.Dependency{
		{Source: "2", Target: "1", DataFlow: graph.KindParentSubtask},
		{Source: "3", Target: "2", DataFlow: graph.KindParentSubtask},
	}
}

func loadPane(t *testing.T, pane GraphPane, tasks []api.Task, deps []api.Dependency) GraphPane {
	t.Helper()
	pane.requestID = 1
	pane.loading = true
	newPane, _ := pane.Update(graphResultMsg{tasks: tasks, deps: deps, requestID: 1})
	return newPane
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestGraphPane_HandleResultSuccess(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())

	if pane.loading {
		t.Error("expected loading to be false after result")
	}
	if pane.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", pane.NodeCount())
	}
	if len(pane.edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(pane.edges))
	}
	if pane.maxLevel != 2 {
		t.Errorf("expected max level 2, got %d", pane.maxLevel)
	}
}

func TestGraphPane_HandleResultErrorKeepsOldGraph(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())

	pane.requestID = 2
	pane.loading = true
	pane, _ = pane.Update(graphResultMsg{err: errors.New("boom"), requestID: 2})

	if pane.loading {
		t.Error("expected loading to stop after a failed fetch")
	}
	if pane.NodeCount() != 3 {
		t.Errorf("expected previous graph retained, got %d nodes", pane.NodeCount())
	}
	if view := pane.View(); strings.Contains(view, "Error") || strings.Contains(view, "boom") {
		t.Error("fetch failures must stay in the log, not the display")
	}
}

func TestGraphPane_DropsStaleResults(t *testing.T) {
	pane := testPane(nil)
	pane.requestID = 5
	pane.loading = true

	pane, _ = pane.Update(graphResultMsg{tasks: threeTasks(), requestID: 3})

	if !pane.loading {
		t.Error("stale result should not stop loading")
	}
	if pane.NodeCount() != 0 {
		t.Error("stale result should not replace the graph")
	}
}

func TestGraphPane_StartLoadingBumpsRequestID(t *testing.T) {
	pane := testPane(nil)

	pane, _ = pane.Update(graphStartLoadingMsg{requestID: 3})

	if pane.requestID != 3 {
		t.Errorf("expected requestID=3, got %d", pane.requestID)
	}
	if !pane.loading {
		t.Error("expected loading after start message")
	}
}

func TestGraphPane_FetchCmdFetchesBoth(t *testing.T) {
	mock := api.NewMockClient()
	mock.TasksResponse = threeTasks()
	mock.DependenciesResponse = parentDeps()

	pane := NewGraphPane(mock, testGraphConfig(), 7, time.Second, nil)
	msg := pane.fetchCmd(1, 7)()

	result, ok := msg.(graphResultMsg)
	if !ok {
		t.Fatalf("expected graphResultMsg, got %T", msg)
	}
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.tasks) != 3 || len(result.deps) != 2 {
		t.Errorf("expected 3 tasks and 2 deps, got %d and %d", len(result.tasks), len(result.deps))
	}
	if len(mock.TasksCalls) != 1 || mock.TasksCalls[0] != 7 {
		t.Errorf("expected one Tasks call for project 7, got %v", mock.TasksCalls)
	}
	if len(mock.DependenciesCalls) != 1 || mock.DependenciesCalls[0] != 7 {
		t.Errorf("expected one Dependencies call for project 7, got %v", mock.DependenciesCalls)
	}
}

func TestGraphPane_FetchCmdPartialFailureFails(t *testing.T) {
	mock := api.NewMockClient()
	mock.TasksResponse = threeTasks()
	mock.DependenciesError = errors.New("deps down")

	pane := NewGraphPane(mock, testGraphConfig(), 7, time.Second, nil)
	msg := pane.fetchCmd(1, 7)()

	result := msg.(graphResultMsg)
	if result.err == nil {
		t.Error("expected error when one fetch fails")
	}
}

func TestGraphPane_SelectTaskNotifiesNumericID(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	sink.reset()

	pane, _ = pane.Update(keyMsg("right"))

	if pane.selection.Kind != SelectionTask {
		t.Fatalf("expected task selection, got %v", pane.selection.Kind)
	}
	if len(sink.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sink.calls))
	}
	if sink.calls[0] == nil {
		t.Fatal("expected numeric id, got nil")
	}
}

func TestGraphPane_SelectNonNumericTaskNotifiesNil(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, []api.Task{{ID: "alpha", Name: "Task alpha"}}, nil)
	pane.focused = true
	sink.reset()

	pane, _ = pane.Update(keyMsg("right"))

	if pane.selection.Kind != SelectionTask {
		t.Fatal("expected task selection")
	}
	if len(sink.calls) != 1 || sink.calls[0] != nil {
		t.Errorf("expected one nil notification, got %v", sink.calls)
	}
}

func TestGraphPane_SelectEdgeNotifiesNil(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	sink.reset()

	pane, _ = pane.Update(keyMsg("f"))

	if pane.selection.Kind != SelectionEdge {
		t.Fatalf("expected edge selection, got %v", pane.selection.Kind)
	}
	if len(sink.calls) != 1 || sink.calls[0] != nil {
		t.Errorf("expected one nil notification, got %v", sink.calls)
	}
}

func TestGraphPane_EscClearsSelection(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	pane, _ = pane.Update(keyMsg("right"))
	sink.reset()

	pane, _ = pane.Update(keyMsg("esc"))

	if pane.selection.Kind != SelectionNone {
		t.Error("expected selection cleared on esc")
	}
	if len(sink.calls) != 1 || sink.calls[0] != nil {
		t.Errorf("expected one nil notification, got %v", sink.calls)
	}
}

func TestGraphPane_NavigationFollowsBandOrder(t *testing.T) {
	pane := testPane(nil)
	tasks := []api.Task{
		{ID: "10", Name: "Task zeta"},
		{ID: "11", Name: "Task Alpha"},
		{ID: "12", Name: "Task beta"},
	}
	pane = loadPane(t, pane, tasks, nil)
	pane.focused = true

	// All in band 0, collated label order: Alpha, beta, zeta
	pane, _ = pane.Update(keyMsg("right"))
	if pane.selection.TaskID != api.TaskID("11") {
		t.Errorf("expected first selection Alpha (11), got %s", pane.selection.TaskID)
	}
	pane, _ = pane.Update(keyMsg("right"))
	if pane.selection.TaskID != api.TaskID("12") {
		t.Errorf("expected second selection beta (12), got %s", pane.selection.TaskID)
	}
	pane, _ = pane.Update(keyMsg("left"))
	pane, _ = pane.Update(keyMsg("left"))
	if pane.selection.TaskID != api.TaskID("10") {
		t.Errorf("expected wrap to zeta (10), got %s", pane.selection.TaskID)
	}
}

func TestGraphPane_BandNavigation(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true

	pane, _ = pane.Update(keyMsg("right")) // task 1, level 0
	if pane.selection.TaskID != api.TaskID("1") {
		t.Fatalf("expected task 1, got %s", pane.selection.TaskID)
	}
	pane, _ = pane.Update(keyMsg("down"))
	if pane.selection.TaskID != api.TaskID("2") {
		t.Errorf("expected task 2 one band down, got %s", pane.selection.TaskID)
	}
	pane, _ = pane.Update(keyMsg("up"))
	if pane.selection.TaskID != api.TaskID("1") {
		t.Errorf("expected task 1 one band up, got %s", pane.selection.TaskID)
	}
}

func TestGraphPane_CycleEdgeSkipsHidden(t *testing.T) {
	pane := testPane(nil)
	tasks := threeTasks()
	deps := []api.Dependency{
		{Source: "2", Target: "1", DataFlow: "gated by user feedback"},
		{Source: "3", Target: "2", DataFlow: "uses result"},
	}
	pane = loadPane(t, pane, tasks, deps)
	pane.focused = true

	pane, _ = pane.Update(keyMsg("f"))
	if pane.selection.Kind != SelectionEdge {
		t.Fatal("expected edge selection")
	}
	if pane.selection.EdgeIndex != 1 {
		t.Errorf("expected hidden edge skipped, got index %d", pane.selection.EdgeIndex)
	}

	// Cycling wraps back onto the only visible edge
	pane, _ = pane.Update(keyMsg("f"))
	if pane.selection.EdgeIndex != 1 {
		t.Errorf("expected cycle to stay on index 1, got %d", pane.selection.EdgeIndex)
	}
}

func TestGraphPane_SetProjectClearsSelectionExactlyOnce(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	pane, _ = pane.Update(keyMsg("right"))
	sink.reset()

	cmd := pane.SetProject(9)

	if cmd == nil {
		t.Error("expected refresh command on project switch")
	}
	if pane.selection.Kind != SelectionNone {
		t.Error("expected selection cleared")
	}
	if len(sink.calls) != 1 || sink.calls[0] != nil {
		t.Errorf("expected exactly one nil notification, got %v", sink.calls)
	}
	if pane.NodeCount() != 0 {
		t.Error("expected old project's graph dropped")
	}
	if pane.ProjectID() != 9 {
		t.Errorf("expected project 9, got %d", pane.ProjectID())
	}
}

func TestGraphPane_SetProjectDropsInFlightResult(t *testing.T) {
	pane := testPane(nil)

	// A fetch for project 7 is in flight when the project switches.
	// Its start message has been processed but its result has not.
	pane, _ = pane.Update(graphStartLoadingMsg{requestID: 1})
	if cmd := pane.SetProject(8); cmd == nil {
		t.Fatal("expected refresh command on project switch")
	}

	// The old project's result lands before the new fetch starts.
	pane, _ = pane.Update(graphResultMsg{tasks: threeTasks(), deps: parentDeps(), requestID: 1})

	if pane.NodeCount() != 0 {
		t.Errorf("old project's data applied under project 8: %d nodes", pane.NodeCount())
	}
}

func TestGraphPane_SelectionSurvivesRefetch(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	pane, _ = pane.Update(keyMsg("right"))
	selected := pane.selection.TaskID
	sink.reset()

	pane = loadPane(t, pane, threeTasks(), parentDeps())

	if pane.selection.Kind != SelectionTask || pane.selection.TaskID != selected {
		t.Errorf("expected selection retained, got %+v", pane.selection)
	}
	if len(sink.calls) != 0 {
		t.Errorf("expected no notification for surviving selection, got %v", sink.calls)
	}
}

func TestGraphPane_VanishedSelectionCleared(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	pane, _ = pane.Update(keyMsg("right"))
	sink.reset()

	// Refetch without the selected task
	pane = loadPane(t, pane, []api.Task{{ID: "2", Name: "Task gather sources"}}, nil)

	if pane.selection.Kind != SelectionNone {
		t.Error("expected selection cleared when task vanished")
	}
	if len(sink.calls) != 1 || sink.calls[0] != nil {
		t.Errorf("expected one nil notification, got %v", sink.calls)
	}
}

func TestGraphPane_EdgeSelectionClearedOnRefetch(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	pane, _ = pane.Update(keyMsg("f"))

	pane = loadPane(t, pane, threeTasks(), parentDeps())

	if pane.selection.Kind != SelectionNone {
		t.Error("expected edge selection cleared after data change")
	}
}

func TestGraphPane_PendingRestoreWins(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	marker := api.TaskID("3")
	pane.pendingRestore = &marker
	sink.reset()

	pane = loadPane(t, pane, threeTasks(), parentDeps())

	if pane.selection.Kind != SelectionTask || pane.selection.TaskID != marker {
		t.Errorf("expected restore marker applied, got %+v", pane.selection)
	}
	if pane.pendingRestore != nil {
		t.Error("expected marker consumed")
	}
}

func TestGraphPane_PendingRestoreClearedWhenMissing(t *testing.T) {
	pane := testPane(nil)
	marker := api.TaskID("99")
	pane.pendingRestore = &marker

	pane = loadPane(t, pane, threeTasks(), parentDeps())

	if pane.pendingRestore != nil {
		t.Error("expected marker consumed even when task is gone")
	}
	if pane.selection.Kind != SelectionNone {
		t.Error("expected no selection restored")
	}
}

func TestGraphPane_ActivateAtCollapsesToFirstTask(t *testing.T) {
	sink := &notifySink{}
	pane := testPane(sink)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	sink.reset()

	pos := pane.positions[api.TaskID("1")]
	pane.ActivateAt(pos.X-pane.offsetX, pos.Y-pane.offsetY)

	if pane.selection.Kind != SelectionTask || pane.selection.TaskID != api.TaskID("1") {
		t.Errorf("expected task 1 selected, got %+v", pane.selection)
	}
}

func TestGraphPane_ActivateAtEmptyClearsSelection(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.selection = taskSelection("1")

	pane.ActivateAt(-100, -100)

	if pane.selection.Kind != SelectionNone {
		t.Error("expected background click to clear selection")
	}
}

func TestGraphPane_RefitSupersededBySeq(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.offsetX, pane.offsetY = 42, 42
	pane.refitSeq = 5

	pane, _ = pane.Update(refitMsg{seq: 4})

	if pane.offsetX != 42 || pane.offsetY != 42 {
		t.Error("superseded refit should not move the viewport")
	}

	pane, _ = pane.Update(refitMsg{seq: 5})
	if pane.offsetX == 42 && pane.offsetY == 42 {
		t.Error("current refit should reframe the viewport")
	}
}

func TestGraphPane_RefreshCmdNilWhenLoading(t *testing.T) {
	pane := testPane(nil)
	pane.loading = true

	if pane.refreshCmd() != nil {
		t.Error("expected nil command while loading")
	}
}

func TestGraphPane_KeysIgnoredWhenUnfocused(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = false

	pane, _ = pane.Update(keyMsg("right"))

	if pane.selection.Kind != SelectionNone {
		t.Error("unfocused pane should ignore keys")
	}
}

func TestGraphPane_EscAfterFailedFetchClearsSelection(t *testing.T) {
	pane := testPane(nil)
	pane = loadPane(t, pane, threeTasks(), parentDeps())
	pane.focused = true
	pane.selection = taskSelection("1")

	pane.requestID = 2
	pane.loading = true
	pane, _ = pane.Update(graphResultMsg{err: errors.New("boom"), requestID: 2})
	pane, _ = pane.Update(keyMsg("esc"))

	if pane.selection.Kind != SelectionNone {
		t.Error("expected esc to clear the selection")
	}
	if !pane.focused {
		t.Error("expected first esc to leave the pane focused")
	}
}

func TestGraphPane_SelectedSchema(t *testing.T) {
	pane := testPane(nil)
	tasks := []api.Task{{ID: "1", Name: "Task alpha", Schema: `{"type":"object"}`}}
	pane = loadPane(t, pane, tasks, nil)
	pane.selection = taskSelection("1")

	if got := pane.SelectedSchema(); got != `{"type":"object"}` {
		t.Errorf("unexpected schema %q", got)
	}
}

func TestGraphPane_ViewStatesRender(t *testing.T) {
	pane := testPane(nil)

	if view := pane.View(); view == "" {
		t.Error("expected placeholder view for empty pane")
	}

	pane = loadPane(t, pane, threeTasks(), parentDeps())
	if view := pane.View(); view == "" {
		t.Error("expected graph view with data")
	}
}
