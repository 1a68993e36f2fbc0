package tui

import (
	"strings"

	"github.com/nwestfall/planview/internal/graph"
)

// DetailsPane renders the side panel describing the current selection:
// the selected task's id, label, and schema, or the selected edge's
// kind, relationship description, and data schema.
type DetailsPane struct {
	width  int
	height int
}

// SetSize updates the pane dimensions.
func (p *DetailsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the details for the given selection context.
func (p DetailsPane) View(node *graph.Node, schema string, edge *graph.Edge) string {
	w := safeWidth(p.width - 2)

	var lines []string
	switch {
	case node != nil:
		lines = append(lines, styles.DetailsLabel.Render("Task "+node.ID.String()))
		lines = append(lines, "")
		lines = append(lines, styles.DetailsValue.Render(wordWrap(node.Label, w)))
		if node.Hint != graph.HintNone {
			lines = append(lines, "")
			lines = append(lines, styles.Footer.Render("phase: "+node.Hint.String()))
		}
		if schema != "" {
			lines = append(lines, "")
			lines = append(lines, styles.DetailsLabel.Render("Schema"))
			lines = append(lines, styles.DetailsValue.Render(wordWrap(schema, w)))
		}

	case edge != nil:
		lines = append(lines, styles.DetailsLabel.Render("Dependency"))
		lines = append(lines, "")
		lines = append(lines, styles.DetailsValue.Render(edge.Source.String()+" -> "+edge.Target.String()))
		if edge.Kind != "" {
			lines = append(lines, styles.Footer.Render(edge.Kind))
		}
		if edge.Relationship != "" {
			lines = append(lines, "")
			lines = append(lines, styles.DetailsLabel.Render("Relationship"))
			lines = append(lines, styles.DetailsValue.Render(wordWrap(edge.Relationship, w)))
		}
		if edge.DataSchema != "" {
			lines = append(lines, "")
			lines = append(lines, styles.DetailsLabel.Render("Data schema"))
			lines = append(lines, styles.DetailsValue.Render(wordWrap(edge.DataSchema, w)))
		}

	default:
		lines = append(lines, styles.Footer.Render("Nothing selected"))
		lines = append(lines, "")
		lines = append(lines, styles.Footer.Render("Use arrows to pick a task,"))
		lines = append(lines, styles.Footer.Render("f to cycle dependencies."))
	}

	return strings.Join(lines, "\n")
}
