package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nwestfall/planview/internal/api"
)

// RenameSubmitMsg is emitted when the rename modal is submitted with a
// changed, non-empty name.
type RenameSubmitMsg struct {
	ID   api.TaskID
	Name string
}

// DeleteConfirmMsg is emitted when the confirm modal accepts a delete.
type DeleteConfirmMsg struct {
	ID api.TaskID
}

// RenameModal collects a new name for a task. It is seeded with the
// stripped display label and submits nothing when the value comes back
// empty or unchanged.
type RenameModal struct {
	input    textinput.Model
	taskID   api.TaskID
	original string
	open     bool
}

// NewRenameModal creates a closed RenameModal.
func NewRenameModal() RenameModal {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50
	return RenameModal{input: ti}
}

// Open opens the modal for the given task, seeding the input with its
// current label.
func (m *RenameModal) Open(id api.TaskID, label string) tea.Cmd {
	m.open = true
	m.taskID = id
	m.original = label
	m.input.SetValue(label)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Close closes the modal.
func (m *RenameModal) Close() {
	m.open = false
	m.input.Blur()
	m.input.SetValue("")
}

// IsOpen returns true if the modal is open.
func (m RenameModal) IsOpen() bool {
	return m.open
}

// Update handles messages for the modal.
func (m RenameModal) Update(msg tea.Msg) (RenameModal, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.Close()
			return m, nil

		case "enter":
			name := strings.TrimSpace(m.input.Value())
			id := m.taskID
			m.Close()
			// Empty or unchanged value is a no-op
			if name == "" || name == m.original {
				return m, nil
			}
			return m, func() tea.Msg {
				return RenameSubmitMsg{ID: id, Name: name}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the modal box.
func (m RenameModal) View(parentWidth, parentHeight int) string {
	if !m.open {
		return ""
	}

	content := styles.Title.Render("Rename task "+m.taskID.String()) + "\n\n" +
		m.input.View() + "\n\n" +
		styles.Footer.Render("[Enter] save | [Esc] cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(parentWidth, parentHeight, lipgloss.Center, lipgloss.Center, box)
}

// ConfirmModal asks for confirmation before deleting a task.
type ConfirmModal struct {
	taskID api.TaskID
	label  string
	open   bool
}

// Open opens the modal for the given task.
func (m *ConfirmModal) Open(id api.TaskID, label string) {
	m.open = true
	m.taskID = id
	m.label = label
}

// Close closes the modal.
func (m *ConfirmModal) Close() {
	m.open = false
}

// IsOpen returns true if the modal is open.
func (m ConfirmModal) IsOpen() bool {
	return m.open
}

// Update handles messages for the modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "enter":
			id := m.taskID
			m.Close()
			return m, func() tea.Msg {
				return DeleteConfirmMsg{ID: id}
			}

		case "n", "esc":
			m.Close()
			return m, nil
		}
	}

	return m, nil
}

// View renders the modal box.
func (m ConfirmModal) View(parentWidth, parentHeight int) string {
	if !m.open {
		return ""
	}

	content := styles.Title.Render("Delete task?") + "\n\n" +
		styles.DetailsValue.Render(truncateString(m.label, 50)) + "\n\n" +
		styles.Footer.Render("[y/Enter] delete | [n/Esc] cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(parentWidth, parentHeight, lipgloss.Center, lipgloss.Center, box)
}
