package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model. It handles all message types and updates
// the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.updatePaneSizes()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case projectChangedMsg:
		var cmd tea.Cmd
		if msg.ProjectID != nil {
			cmd = m.switchProject(*msg.ProjectID, false)
		}
		return m, tea.Batch(cmd, waitForProjectChange(m.busCh))

	case busClosedMsg:
		slog.Info("project bus closed, exiting console")
		return m, tea.Quit

	case GraphRenameRequestMsg:
		return m, m.renameModal.Open(msg.ID, msg.Label)

	case GraphDeleteRequestMsg:
		m.confirmModal.Open(msg.ID, msg.Label)
		return m, nil

	case RenameSubmitMsg:
		var cmd tea.Cmd
		m.graphPane, cmd = m.graphPane.StartRename(msg.ID, msg.Name)
		return m, cmd

	case DeleteConfirmMsg:
		var cmd tea.Cmd
		m.graphPane, cmd = m.graphPane.StartDelete(msg.ID)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.graphPane, cmd = m.graphPane.Update(msg)
		return m, cmd
	}
}

// handleKey processes keyboard input, routing to modals first.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// ctrl+c always quits
	if key == "ctrl+c" {
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	}

	// Open modals capture everything else
	if m.renameModal.IsOpen() {
		var cmd tea.Cmd
		m.renameModal, cmd = m.renameModal.Update(msg)
		return m, cmd
	}
	if m.confirmModal.IsOpen() {
		var cmd tea.Cmd
		m.confirmModal, cmd = m.confirmModal.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "p":
		return m, m.cycleProject()

	default:
		var cmd tea.Cmd
		m.graphPane, cmd = m.graphPane.Update(msg)
		// Navigation can unfocus the pane on esc; keep it focused so
		// keys keep working in the single-focus console.
		m.graphPane.SetFocused(true)
		return m, cmd
	}
}

// handleMouse translates clicks into graph activations.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modalOpen() {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	ox, oy := m.graphContentOrigin()
	m.graphPane.ActivateAt(msg.X-ox, msg.Y-oy)
	return m, nil
}
