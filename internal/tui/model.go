package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwestfall/planview/internal/bus"
	"github.com/nwestfall/planview/internal/config"
)

// Layout size constants.
const (
	// headerRows is the height of the title line.
	headerRows = 1
	// footerRows is the height of the key-hint line.
	footerRows = 1
	// detailsCols is the preferred width of the details pane.
	detailsCols = 34
	// minDetailsCols is the minimum width for the details pane.
	minDetailsCols = 24
	// minGraphCols is the minimum width for the graph pane.
	minGraphCols = 40
	// minWidth/minHeight are the smallest usable terminal dimensions.
	minWidth  = 60
	minHeight = 12
)

// model is the bubbletea model for the console.
type model struct {
	busCh <-chan bus.ProjectChanged
	bus   *bus.Bus

	graphPane    GraphPane
	detailsPane  DetailsPane
	renameModal  RenameModal
	confirmModal ConfirmModal

	projectID int64
	// recent holds project ids seen this session, cycled with 'p'.
	recent []int64

	width  int
	height int

	onProjectChanged func(int64)
	onQuit           func()
}

// projectChangedMsg wraps a bus broadcast for the message loop.
type projectChangedMsg bus.ProjectChanged

// busClosedMsg signals that the bus subscription was closed.
type busClosedMsg struct{}

// newModel creates the console model.
func newModel(t *TUI, cfg *config.Config) model {
	m := model{
		bus:              t.bus,
		projectID:        cfg.Project,
		onProjectChanged: t.onProjectChanged,
		onQuit:           t.onQuit,
		renameModal:      NewRenameModal(),
	}
	m.graphPane = NewGraphPane(t.client, &cfg.Graph, cfg.Project, cfg.API.Timeout, t.onTaskSelected)
	m.graphPane.SetFocused(true)
	m.rememberProject(cfg.Project)

	if t.bus != nil {
		m.busCh = t.bus.Subscribe()
	}
	return m
}

// waitForProjectChange waits for the next bus broadcast.
func waitForProjectChange(ch <-chan bus.ProjectChanged) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return busClosedMsg{}
		}
		return projectChangedMsg(ev)
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.graphPane.Init(),
		waitForProjectChange(m.busCh),
		tea.EnterAltScreen,
	)
}

// rememberProject records a project id for the 'p' cycle, ignoring
// duplicates and the zero id.
func (m *model) rememberProject(id int64) {
	if id == 0 {
		return
	}
	for _, r := range m.recent {
		if r == id {
			return
		}
	}
	m.recent = append(m.recent, id)
}

// switchProject makes id the active project. The graph pane resets its
// selection (one nil notification) and refetches; the host callback
// fires; when publish is set the change is rebroadcast on the bus.
func (m *model) switchProject(id int64, publish bool) tea.Cmd {
	if id == m.projectID {
		return nil
	}
	m.projectID = id
	m.rememberProject(id)

	cmd := m.graphPane.SetProject(id)
	if m.onProjectChanged != nil {
		m.onProjectChanged(id)
	}
	if publish && m.bus != nil {
		pid := id
		m.bus.Publish(bus.ProjectChanged{ProjectID: &pid})
	}
	return cmd
}

// cycleProject switches to the next known project id after the current one.
func (m *model) cycleProject() tea.Cmd {
	if len(m.recent) < 2 {
		return nil
	}
	for i, id := range m.recent {
		if id == m.projectID {
			return m.switchProject(m.recent[(i+1)%len(m.recent)], true)
		}
	}
	return m.switchProject(m.recent[0], true)
}

// updatePaneSizes recalculates pane dimensions from the terminal size.
func (m *model) updatePaneSizes() tea.Cmd {
	paneH := safeHeight(m.height - headerRows - footerRows)

	detailsW := detailsCols
	if m.width-detailsW < minGraphCols {
		detailsW = m.width / 3
	}
	if detailsW < minDetailsCols {
		detailsW = minDetailsCols
	}
	graphW := safeWidth(m.width - detailsW)

	m.detailsPane.SetSize(detailsW-2, paneH-2)
	return m.graphPane.SetSize(graphW-2, paneH-2)
}

// graphContentOrigin returns the terminal coordinates of the graph
// drawing area's top-left cell, for mouse hit testing.
func (m model) graphContentOrigin() (int, int) {
	// border left; header, border top, status bar
	return 1, headerRows + 2
}

// modalOpen returns true when any modal captures input.
func (m model) modalOpen() bool {
	return m.renameModal.IsOpen() || m.confirmModal.IsOpen()
}
