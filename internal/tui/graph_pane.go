package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/nwestfall/planview/internal/api"
	"github.com/nwestfall/planview/internal/config"
	"github.com/nwestfall/planview/internal/graph"
)

const (
	// graphTickInterval is the interval for updating elapsed time during refresh.
	graphTickInterval = 100 * time.Millisecond
	// refitDelay is how long a layout waits before resetting the viewport
	// to frame all nodes. A newer layout within this window supersedes
	// the pending re-fit.
	refitDelay = 50 * time.Millisecond
)

// GraphPane is the TUI component for task-dependency graph visualization.
// It owns the last good graph model, the selection, and the fetch
// lifecycle for the active project.
type GraphPane struct {
	client  api.Client
	cfg     *config.GraphConfig
	timeout time.Duration

	projectID int64

	// Last good graph. Replaced wholesale on every successful refetch;
	// a failed fetch leaves all of these untouched.
	nodes     []graph.Node
	edges     []graph.Edge
	schemas   map[api.TaskID]string
	levels    map[api.TaskID]int
	maxLevel  int
	positions map[api.TaskID]graph.Point
	order     []api.TaskID // band-major navigation order

	selection      Selection
	onTaskSelected func(*int64)

	// pendingRestore remembers which task to re-select after a mutation
	// refetch. Cleared on every successful refetch whether or not the
	// task survived.
	pendingRestore *api.TaskID
	// deleting is the id of the task whose delete request is in flight.
	deleting *api.TaskID

	spinner   spinner.Model
	loading   bool
	startedAt time.Time

	width   int
	height  int
	offsetX int
	offsetY int
	focused bool

	requestID int // For staleness detection
	refitSeq  int // For cancelling superseded re-fits
}

// graphTickMsg signals a tick for updating elapsed time during refresh.
type graphTickMsg time.Time

// graphStartLoadingMsg signals the start of a loading operation.
type graphStartLoadingMsg struct {
	requestID  int
	startFetch bool // when true, start the fetch after processing this message
}

// graphResultMsg carries the result of a concurrent tasks+dependencies fetch.
type graphResultMsg struct {
	tasks     []api.Task
	deps      []api.Dependency
	err       error
	requestID int
}

// refitMsg asks the pane to reset its viewport so all nodes are framed.
type refitMsg struct {
	seq int
}

// GraphRenameRequestMsg is emitted when 'r' is pressed on a selected task.
// The parent model opens the rename modal.
type GraphRenameRequestMsg struct {
	ID    api.TaskID
	Label string
}

// GraphDeleteRequestMsg is emitted when 'd' is pressed on a selected task.
// The parent model opens the confirm modal.
type GraphDeleteRequestMsg struct {
	ID    api.TaskID
	Label string
}

// NewGraphPane creates a new GraphPane for the given project.
func NewGraphPane(client api.Client, cfg *config.GraphConfig, projectID int64, timeout time.Duration, onTaskSelected func(*int64)) GraphPane {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}

	return GraphPane{
		client:         client,
		cfg:            cfg,
		timeout:        timeout,
		projectID:      projectID,
		selection:      noSelection,
		onTaskSelected: onTaskSelected,
		spinner:        sp,
	}
}

// geometry maps the pane's config to layout geometry.
func (p GraphPane) geometry() graph.Geometry {
	geo := graph.DefaultGeometry
	if p.cfg != nil {
		geo.NodeWidth = p.cfg.NodeWidth
		geo.NodeHeight = p.cfg.NodeHeight
		geo.RowGap = p.cfg.RowGap
		geo.ColGap = p.cfg.ColGap
		geo.SidePad = p.cfg.SidePad
	}
	return geo
}

// Init returns initial commands for the graph pane.
func (p GraphPane) Init() tea.Cmd {
	return p.refreshCmd()
}

// Update handles messages and returns the updated pane and any commands.
func (p GraphPane) Update(msg tea.Msg) (GraphPane, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.focused {
			return p.handleKey(msg)
		}
		return p, nil

	case graphTickMsg:
		if p.loading {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return p, tea.Batch(cmd, p.tickCmd())
		}
		return p, nil

	case graphStartLoadingMsg:
		// Track this request and start loading. The fetch only starts
		// after requestID is recorded so the staleness check in
		// graphResultMsg cannot race a fast response.
		p.requestID = msg.requestID
		p.loading = true
		p.startedAt = time.Now()
		if msg.startFetch {
			return p, tea.Batch(p.fetchCmd(msg.requestID, p.projectID), p.tickCmd())
		}
		return p, nil

	case graphResultMsg:
		// Drop stale results
		if msg.requestID != p.requestID {
			return p, nil
		}
		p.loading = false
		if msg.err != nil {
			// Previous graph stays on screen; diagnostics go to the
			// log only, never the display.
			slog.Warn("graph fetch failed", "project", p.projectID, "error", msg.err)
			return p, nil
		}
		return p, p.applyResult(msg.tasks, msg.deps)

	case refitMsg:
		// A newer layout supersedes the pending re-fit
		if msg.seq != p.refitSeq {
			return p, nil
		}
		p.refit()
		return p, nil

	case mutationDoneMsg:
		return p.handleMutationDone(msg)

	case spinner.TickMsg:
		if p.loading {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return p, cmd
		}
		return p, nil

	default:
		return p, nil
	}
}

// handleKey processes keyboard input when focused.
func (p GraphPane) handleKey(msg tea.KeyMsg) (GraphPane, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		p.selectOffset(-1)
		return p, nil

	case "right", "l":
		p.selectOffset(1)
		return p, nil

	case "up", "k":
		p.selectBand(-1)
		return p, nil

	case "down", "j":
		p.selectBand(1)
		return p, nil

	case "f":
		p.cycleEdge()
		return p, nil

	case "R":
		return p, p.refreshCmd()

	case "e":
		if p.selection.Kind == SelectionTask {
			return p.startFleshOut(p.selection.TaskID)
		}
		return p, nil

	case "r":
		if p.selection.Kind == SelectionTask {
			id := p.selection.TaskID
			label := p.labelFor(id)
			return p, func() tea.Msg {
				return GraphRenameRequestMsg{ID: id, Label: label}
			}
		}
		return p, nil

	case "d":
		if p.selection.Kind == SelectionTask {
			id := p.selection.TaskID
			label := p.labelFor(id)
			return p, func() tea.Msg {
				return GraphDeleteRequestMsg{ID: id, Label: label}
			}
		}
		return p, nil

	case "esc":
		if p.selection.Kind != SelectionNone {
			p.selectTarget(noSelection)
			return p, nil
		}
		p.focused = false
		return p, nil

	default:
		return p, nil
	}
}

// refreshCmd returns a command that fetches the graph for the active
// project. No-op while a fetch is already in flight.
func (p GraphPane) refreshCmd() tea.Cmd {
	if p.loading {
		return nil
	}
	return p.forceRefreshCmd()
}

// forceRefreshCmd starts a fetch even while one is in flight. Callers
// bump requestID first so the superseded fetch is dropped on arrival.
func (p GraphPane) forceRefreshCmd() tea.Cmd {
	reqID := p.requestID + 1

	return tea.Batch(
		p.spinner.Tick,
		func() tea.Msg {
			return graphStartLoadingMsg{requestID: reqID, startFetch: true}
		},
	)
}

// fetchCmd fetches tasks and dependencies concurrently. Both must
// succeed; a single failure keeps the previous graph on screen.
func (p GraphPane) fetchCmd(requestID int, projectID int64) tea.Cmd {
	client := p.client
	timeout := p.timeout
	return func() tea.Msg {
		if client == nil {
			return graphResultMsg{requestID: requestID}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			tasks []api.Task
			deps  []api.Dependency
		)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			tasks, err = client.Tasks(ctx, projectID)
			return err
		})
		g.Go(func() error {
			var err error
			deps, err = client.Dependencies(ctx, projectID)
			return err
		})
		err := g.Wait()

		return graphResultMsg{tasks: tasks, deps: deps, err: err, requestID: requestID}
	}
}

// tickCmd returns a command that sends a tick message.
func (p GraphPane) tickCmd() tea.Cmd {
	return tea.Tick(graphTickInterval, func(t time.Time) tea.Msg {
		return graphTickMsg(t)
	})
}

// applyResult replaces the graph model with fresh data, recomputes the
// layout, reconciles the selection, and schedules a deferred re-fit.
func (p *GraphPane) applyResult(tasks []api.Task, deps []api.Dependency) tea.Cmd {
	p.nodes, p.edges = graph.Build(tasks, deps)

	p.schemas = make(map[api.TaskID]string, len(tasks))
	for _, t := range tasks {
		if t.Schema != "" {
			p.schemas[t.ID] = t.Schema
		}
	}

	ids := make([]api.TaskID, len(p.nodes))
	for i, n := range p.nodes {
		ids[i] = n.ID
	}
	p.levels, p.maxLevel = graph.AssignLevels(ids, deps)
	for i := range p.nodes {
		p.nodes[i].Level = p.levels[p.nodes[i].ID]
	}

	p.relayout()
	p.reconcileSelection()
	return p.scheduleRefit()
}

// relayout recomputes positions and navigation order for the current
// viewport. Called on data change and resize, never on selection change.
func (p *GraphPane) relayout() {
	w, h := p.contentSize()
	p.positions = graph.Layout(p.nodes, p.levels, p.maxLevel, w, h, p.geometry())
	p.order = graph.BandOrder(p.nodes, p.levels, p.positions)
}

// reconcileSelection carries the selection across a data change. The
// restore marker wins when its task survived; otherwise a selection
// pointing at vanished data is cleared. The marker is consumed either way.
func (p *GraphPane) reconcileSelection() {
	if p.pendingRestore != nil {
		id := *p.pendingRestore
		p.pendingRestore = nil
		if p.hasNode(id) {
			p.selectTarget(taskSelection(id))
			return
		}
	}

	switch p.selection.Kind {
	case SelectionTask:
		if !p.hasNode(p.selection.TaskID) {
			p.selectTarget(noSelection)
		}
	case SelectionEdge:
		// Edge indices do not survive a rebuild
		p.selectTarget(noSelection)
	}
}

// scheduleRefit defers the frame-all viewport reset by one tick so a
// superseding layout can cancel it.
func (p *GraphPane) scheduleRefit() tea.Cmd {
	p.refitSeq++
	seq := p.refitSeq
	return tea.Tick(refitDelay, func(time.Time) tea.Msg {
		return refitMsg{seq: seq}
	})
}

// refit recenters the viewport on the graph's bounding box.
func (p *GraphPane) refit() {
	minX, minY, maxX, maxY, ok := graph.Bounds(p.positions, p.geometry())
	if !ok {
		p.offsetX, p.offsetY = 0, 0
		return
	}
	w, h := p.contentSize()
	p.offsetX = minX - (w-(maxX-minX))/2
	p.offsetY = minY - (h-(maxY-minY))/2
}

// SetProject switches the active project: the selection resets to none
// with a single nil host notification, the old graph is dropped, and a
// fresh fetch starts. An in-flight fetch for the old project is
// superseded by the bumped request id.
func (p *GraphPane) SetProject(projectID int64) tea.Cmd {
	p.projectID = projectID
	p.selection = noSelection
	p.pendingRestore = nil
	p.deleting = nil
	p.notifyHost()

	p.nodes = nil
	p.edges = nil
	p.schemas = nil
	p.levels = nil
	p.maxLevel = 0
	p.positions = nil
	p.order = nil
	p.offsetX, p.offsetY = 0, 0
	p.loading = false

	// Bump before the new fetch is scheduled so a result for the old
	// project that lands first already mismatches.
	p.requestID++
	return p.refreshCmd()
}

// ProjectID returns the active project id.
func (p GraphPane) ProjectID() int64 {
	return p.projectID
}

// selectTarget sets the selection and notifies the host. Tasks report
// their numeric id when it parses; edges and empty selections report nil.
func (p *GraphPane) selectTarget(sel Selection) {
	p.selection = sel
	p.notifyHost()
}

// notifyHost reports the current selection to the host callback.
func (p *GraphPane) notifyHost() {
	if p.onTaskSelected != nil {
		p.onTaskSelected(hostTaskID(p.selection))
	}
}

// ActivateAt resolves a click at content coordinates to a selection.
// Overlapping hits collapse to the first task, then the first edge,
// then nothing.
func (p *GraphPane) ActivateAt(x, y int) {
	wx, wy := x+p.offsetX, y+p.offsetY
	geo := p.geometry()

	var hitTasks []api.TaskID
	for _, id := range p.order {
		pos, ok := p.positions[id]
		if !ok {
			continue
		}
		if wx >= pos.X && wx < pos.X+geo.NodeWidth && wy >= pos.Y && wy < pos.Y+geo.NodeHeight {
			hitTasks = append(hitTasks, id)
		}
	}

	var hitEdges []int
	for i := range p.edges {
		if p.edges[i].Hidden {
			continue
		}
		for _, cell := range p.edgeCells(&p.edges[i]) {
			if cell.X == wx && cell.Y == wy {
				hitEdges = append(hitEdges, i)
				break
			}
		}
	}

	p.selectTarget(collapseActivation(hitTasks, hitEdges))
}

// selectOffset moves the task selection along the band-major order,
// wrapping at the ends. With no selection it selects the first task.
func (p *GraphPane) selectOffset(delta int) {
	if len(p.order) == 0 {
		return
	}
	if p.selection.Kind != SelectionTask {
		p.selectTarget(taskSelection(p.order[0]))
		return
	}
	for i, id := range p.order {
		if id == p.selection.TaskID {
			next := (i + delta + len(p.order)) % len(p.order)
			p.selectTarget(taskSelection(p.order[next]))
			return
		}
	}
	p.selectTarget(taskSelection(p.order[0]))
}

// selectBand moves the task selection to the nearest node in the band
// above (delta -1) or below (delta +1).
func (p *GraphPane) selectBand(delta int) {
	if len(p.order) == 0 {
		return
	}
	if p.selection.Kind != SelectionTask {
		p.selectTarget(taskSelection(p.order[0]))
		return
	}

	cur := p.selection.TaskID
	curLevel, ok := p.levels[cur]
	if !ok {
		return
	}
	target := curLevel + delta
	curPos := p.positions[cur]

	var best *api.TaskID
	bestDist := 0
	for _, id := range p.order {
		if p.levels[id] != target {
			continue
		}
		pos := p.positions[id]
		dist := pos.X - curPos.X
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			id := id
			best = &id
			bestDist = dist
		}
	}
	if best != nil {
		p.selectTarget(taskSelection(*best))
	}
}

// cycleEdge advances the edge selection through the drawable edges.
func (p *GraphPane) cycleEdge() {
	visible := p.visibleEdges()
	if len(visible) == 0 {
		return
	}
	if p.selection.Kind == SelectionEdge {
		for i, idx := range visible {
			if idx == p.selection.EdgeIndex {
				p.selectTarget(edgeSelection(visible[(i+1)%len(visible)]))
				return
			}
		}
	}
	p.selectTarget(edgeSelection(visible[0]))
}

// visibleEdges returns indices of edges that are drawable: not hidden
// and with both endpoints positioned.
func (p GraphPane) visibleEdges() []int {
	var out []int
	for i := range p.edges {
		e := &p.edges[i]
		if e.Hidden {
			continue
		}
		if _, ok := p.positions[e.Source]; !ok {
			continue
		}
		if _, ok := p.positions[e.Target]; !ok {
			continue
		}
		out = append(out, i)
	}
	return out
}

// hasNode reports whether a task id exists in the current graph.
func (p GraphPane) hasNode(id api.TaskID) bool {
	for i := range p.nodes {
		if p.nodes[i].ID == id {
			return true
		}
	}
	return false
}

// labelFor returns the display label for a task id, or its id string.
func (p GraphPane) labelFor(id api.TaskID) string {
	for i := range p.nodes {
		if p.nodes[i].ID == id {
			return p.nodes[i].Label
		}
	}
	return id.String()
}

// Selection returns the current selection.
func (p GraphPane) Selection() Selection {
	return p.selection
}

// SelectedEdge returns the selected edge, or nil if no edge is selected.
func (p GraphPane) SelectedEdge() *graph.Edge {
	if p.selection.Kind != SelectionEdge {
		return nil
	}
	return edgeAt(p.edges, p.selection.EdgeIndex)
}

// SelectedNode returns the selected node, or nil if no task is selected.
func (p GraphPane) SelectedNode() *graph.Node {
	if p.selection.Kind != SelectionTask {
		return nil
	}
	for i := range p.nodes {
		if p.nodes[i].ID == p.selection.TaskID {
			n := p.nodes[i]
			return &n
		}
	}
	return nil
}

// SelectedSchema returns the schema text for the selected task, if any.
func (p GraphPane) SelectedSchema() string {
	if p.selection.Kind != SelectionTask {
		return ""
	}
	return p.schemas[p.selection.TaskID]
}

// SetSize updates the pane dimensions and recomputes the layout.
func (p *GraphPane) SetSize(width, height int) tea.Cmd {
	p.width = width
	p.height = height
	if len(p.nodes) == 0 {
		return nil
	}
	p.relayout()
	return p.scheduleRefit()
}

// SetFocused updates the focus state.
func (p *GraphPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns true if the pane is focused.
func (p GraphPane) IsFocused() bool {
	return p.focused
}

// IsLoading returns true if a fetch is in progress.
func (p GraphPane) IsLoading() bool {
	return p.loading
}

// NodeCount returns the number of nodes in the current graph.
func (p GraphPane) NodeCount() int {
	return len(p.nodes)
}

// contentSize returns the dimensions of the drawable graph area.
func (p GraphPane) contentSize() (int, int) {
	return safeWidth(p.width - 2), safeHeight(p.height - 3)
}

// View renders the graph pane.
func (p GraphPane) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	contentWidth, contentHeight := p.contentSize()

	var sections []string
	sections = append(sections, p.renderStatusBar(contentWidth))
	sections = append(sections, p.renderGraph(contentWidth, contentHeight))

	return strings.Join(sections, "\n")
}

// renderStatusBar renders the loading/summary line above the graph.
func (p GraphPane) renderStatusBar(width int) string {
	if p.loading {
		elapsed := time.Since(p.startedAt).Round(100 * time.Millisecond)
		status := p.spinner.View() + " Loading tasks... (" + elapsed.String() + " elapsed)"
		return styles.Loading.Width(width).Render(status)
	}

	info := pluralize(len(p.nodes), "task", "tasks")
	if sel := p.SelectedNode(); sel != nil {
		info += " | " + truncateString(sel.Label, width/2)
	} else if e := p.SelectedEdge(); e != nil {
		info += " | edge " + e.Source.String() + " -> " + e.Target.String()
	}
	hint := " | e:expand r:rename d:delete f:edges R:refresh"
	if len(info)+len(hint) <= width {
		info += hint
	}

	return styles.Footer.Width(width).Render(info)
}

// renderGraph renders the graph drawing area.
func (p GraphPane) renderGraph(width, height int) string {
	if height < 1 {
		height = 1
	}

	if len(p.nodes) == 0 {
		placeholder := "No tasks to display. Press R to refresh."
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(width).
			Height(height).
			Render(placeholder)
	}

	return p.renderToGrid(width, height)
}
