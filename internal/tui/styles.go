package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nwestfall/planview/internal/graph"
)

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Title   lipgloss.Style
	Project lipgloss.Style

	// Footer style
	Footer lipgloss.Style

	// Status styles
	Loading lipgloss.Style
	Error   lipgloss.Style

	// Details pane styles
	DetailsLabel lipgloss.Style
	DetailsValue lipgloss.Style

	// Focus indicators
	FocusedBorder   lipgloss.Style
	UnfocusedBorder lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Project: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Loading: lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	DetailsLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("250")),

	DetailsValue: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")),

	FocusedBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")), // Bright blue for focused

	UnfocusedBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")), // Dimmed gray for unfocused
}

// graphStyles contains styles specific to graph rendering.
var graphStyles = struct {
	Node         lipgloss.Style // Default node style
	NodeSelected lipgloss.Style // Selected node

	// Background hint styles, keyed off the label classification
	NodePlanning    lipgloss.Style
	NodeGather      lipgloss.Style
	NodeIdentify    lipgloss.Style
	NodeConsolidate lipgloss.Style

	Edge         lipgloss.Style
	EdgeSelected lipgloss.Style
}{
	Node: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")),

	NodeSelected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")). // Bright cyan for selection
		Background(lipgloss.Color("236")), // Subtle background

	NodePlanning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")), // Gray

	NodeGather: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")), // Green

	NodeIdentify: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")), // Yellow

	NodeConsolidate: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")), // Red

	Edge: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	EdgeSelected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),
}

// styleForNode returns the render style for a node given its hint and
// selection state. Selection takes precedence over the hint color.
func styleForNode(hint graph.Hint, selected bool) lipgloss.Style {
	if selected {
		return graphStyles.NodeSelected
	}
	switch hint {
	case graph.HintPlanning:
		return graphStyles.NodePlanning
	case graph.HintGather:
		return graphStyles.NodeGather
	case graph.HintIdentify:
		return graphStyles.NodeIdentify
	case graph.HintConsolidate:
		return graphStyles.NodeConsolidate
	default:
		return graphStyles.Node
	}
}
