package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	if m.renameModal.IsOpen() {
		return m.renameModal.View(m.width, m.height)
	}
	if m.confirmModal.IsOpen() {
		return m.confirmModal.View(m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderPanes())
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderTooSmall renders a resize prompt for tiny terminals.
func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d). Resize to at least %dx%d.",
		m.width, m.height, minWidth, minHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.Error.Render(msg))
}

// renderHeader renders the title line.
func (m model) renderHeader() string {
	title := styles.Title.Render("planview")
	project := styles.Project.Render(fmt.Sprintf("project %d", m.projectID))
	if m.projectID == 0 {
		project = styles.Footer.Render("no project")
	}
	return title + "  " + project
}

// renderPanes renders the graph and details panes side by side.
func (m model) renderPanes() string {
	paneH := safeHeight(m.height - headerRows - footerRows)

	detailsW := detailsCols
	if m.width-detailsW < minGraphCols {
		detailsW = m.width / 3
	}
	if detailsW < minDetailsCols {
		detailsW = minDetailsCols
	}
	graphW := safeWidth(m.width - detailsW)

	graphBox := styles.FocusedBorder.
		Width(graphW - 2).
		Height(paneH - 2).
		Render(m.graphPane.View())

	details := m.detailsPane.View(
		m.graphPane.SelectedNode(),
		m.graphPane.SelectedSchema(),
		m.graphPane.SelectedEdge(),
	)
	detailsBox := styles.UnfocusedBorder.
		Width(detailsW - 2).
		Height(paneH - 2).
		Render(details)

	return lipgloss.JoinHorizontal(lipgloss.Top, graphBox, detailsBox)
}

// renderFooter renders the key-hint line.
func (m model) renderFooter() string {
	hints := "arrows: navigate | f: edges | e: expand | r: rename | d: delete | p: project | R: refresh | q: quit"
	return styles.Footer.Render(truncateString(hints, safeWidth(m.width)))
}
