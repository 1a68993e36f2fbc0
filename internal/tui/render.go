package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nwestfall/planview/internal/graph"
)

// renderToGrid draws the graph into a character grid the size of the
// pane content area, honoring the viewport offsets.
func (p GraphPane) renderToGrid(width, height int) string {
	grid := newGrid(width, height)

	// Edges first so nodes draw on top
	for i := range p.edges {
		e := &p.edges[i]
		if e.Hidden {
			continue
		}
		p.renderEdge(grid, e, p.selection.Kind == SelectionEdge && p.selection.EdgeIndex == i)
	}

	for i := range p.nodes {
		p.renderNode(grid, &p.nodes[i])
	}

	return grid.String()
}

// renderNode draws a single node box at its layout position.
func (p GraphPane) renderNode(grid *charGrid, n *graph.Node) {
	pos, ok := p.positions[n.ID]
	if !ok {
		return
	}
	geo := p.geometry()

	x := pos.X - p.offsetX
	y := pos.Y - p.offsetY
	if x+geo.NodeWidth < 0 || x >= grid.width || y+geo.NodeHeight < 0 || y >= grid.height {
		return
	}

	selected := p.selection.Kind == SelectionTask && p.selection.TaskID == n.ID
	label := truncateString(n.Label, geo.NodeWidth-2)
	text := "[" + label + "]"
	if len(text) < geo.NodeWidth {
		text += strings.Repeat(" ", geo.NodeWidth-len(text))
	}

	st := styleForNode(n.Hint, selected)
	grid.writeStyledString(x, y, text, &st)
}

// renderEdge draws an edge along its anchor-to-anchor path.
func (p GraphPane) renderEdge(grid *charGrid, e *graph.Edge, selected bool) {
	cells := p.edgeCells(e)
	if len(cells) == 0 {
		return
	}

	hChar, vChar := '─', '│'
	if e.Dashed {
		hChar, vChar = '╌', '╎'
	}

	for i, cell := range cells {
		x := cell.X - p.offsetX
		y := cell.Y - p.offsetY

		r := hChar
		if i+1 < len(cells) && cells[i+1].X == cell.X {
			r = vChar
		} else if i > 0 && cells[i-1].X == cell.X && (i+1 >= len(cells) || cells[i+1].Y == cell.Y) {
			r = '└'
		}
		if i == len(cells)-1 && e.Arrow {
			r = arrowFor(e.TargetAnchor)
		}
		grid.writeStyledRune(x, y, r, selected)
	}
}

// edgeCells returns the world-coordinate cells an edge passes through.
// Edges with an unpositioned endpoint yield no cells and are dropped.
func (p GraphPane) edgeCells(e *graph.Edge) []graph.Point {
	src, ok := p.positions[e.Source]
	if !ok {
		return nil
	}
	dst, ok := p.positions[e.Target]
	if !ok {
		return nil
	}
	geo := p.geometry()

	a := anchorPoint(src, e.SourceAnchor, geo)
	b := anchorPoint(dst, e.TargetAnchor, geo)

	verticalFirst := e.SourceAnchor == graph.AnchorTop || e.SourceAnchor == graph.AnchorBottom
	return elbowPath(a, b, verticalFirst)
}

// anchorPoint computes the cell just outside a node where an edge attaches.
func anchorPoint(pos graph.Point, a graph.Anchor, geo graph.Geometry) graph.Point {
	switch a {
	case graph.AnchorTop:
		return graph.Point{X: pos.X + geo.NodeWidth/2, Y: pos.Y - 1}
	case graph.AnchorBottom:
		return graph.Point{X: pos.X + geo.NodeWidth/2, Y: pos.Y + geo.NodeHeight}
	case graph.AnchorLeft:
		return graph.Point{X: pos.X - 1, Y: pos.Y + geo.NodeHeight/2}
	default: // AnchorRight
		return graph.Point{X: pos.X + geo.NodeWidth, Y: pos.Y + geo.NodeHeight/2}
	}
}

// elbowPath routes an L-shaped path from a to b, one segment axis first.
func elbowPath(a, b graph.Point, verticalFirst bool) []graph.Point {
	var cells []graph.Point

	if verticalFirst {
		for _, y := range stepRange(a.Y, b.Y) {
			cells = append(cells, graph.Point{X: a.X, Y: y})
		}
		for _, x := range stepRange(a.X, b.X) {
			if x == a.X {
				continue
			}
			cells = append(cells, graph.Point{X: x, Y: b.Y})
		}
	} else {
		for _, x := range stepRange(a.X, b.X) {
			cells = append(cells, graph.Point{X: x, Y: a.Y})
		}
		for _, y := range stepRange(a.Y, b.Y) {
			if y == a.Y {
				continue
			}
			cells = append(cells, graph.Point{X: b.X, Y: y})
		}
	}

	return cells
}

// stepRange walks from a to b inclusive, in either direction.
func stepRange(a, b int) []int {
	step := 1
	if b < a {
		step = -1
	}
	out := make([]int, 0, (b-a)*step+1)
	for v := a; ; v += step {
		out = append(out, v)
		if v == b {
			break
		}
	}
	return out
}

// arrowFor returns the arrowhead rune pointing into the target anchor.
func arrowFor(a graph.Anchor) rune {
	switch a {
	case graph.AnchorTop:
		return 'v'
	case graph.AnchorBottom:
		return '^'
	case graph.AnchorLeft:
		return '>'
	default: // AnchorRight
		return '<'
	}
}

// Shared edge style pointers so adjacent edge cells collapse into one
// styled run in String.
var (
	edgeStyle         = &graphStyles.Edge
	edgeSelectedStyle = &graphStyles.EdgeSelected
)

// charGrid is a 2D character grid for rendering. Cells hold plain runes;
// styling is applied when the grid is flattened so escape sequences never
// occupy grid columns.
type charGrid struct {
	width  int
	height int
	cells  [][]rune
	styles [][]*lipgloss.Style
}

// newGrid creates a new character grid filled with spaces.
func newGrid(width, height int) *charGrid {
	cells := make([][]rune, height)
	cellStyles := make([][]*lipgloss.Style, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]rune, width)
		cellStyles[y] = make([]*lipgloss.Style, width)
		for x := 0; x < width; x++ {
			cells[y][x] = ' '
		}
	}
	return &charGrid{
		width:  width,
		height: height,
		cells:  cells,
		styles: cellStyles,
	}
}

// setCell writes a rune and its style at the given position.
func (g *charGrid) setCell(x, y int, r rune, st *lipgloss.Style) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = r
		g.styles[y][x] = st
	}
}

// writeRune writes an unstyled rune at the given position.
func (g *charGrid) writeRune(x, y int, r rune) {
	g.setCell(x, y, r, nil)
}

// writeStyledRune writes an edge stroke, promoting dashed strokes to
// solid when selected.
func (g *charGrid) writeStyledRune(x, y int, r rune, selected bool) {
	st := edgeStyle
	if selected {
		st = edgeSelectedStyle
		switch r {
		case '╌':
			r = '─'
		case '╎':
			r = '│'
		}
	}
	g.setCell(x, y, r, st)
}

// writeString writes an unstyled string starting at the given position.
func (g *charGrid) writeString(x, y int, s string) {
	g.writeStyledString(x, y, s, nil)
}

// writeStyledString writes a string cell by cell with one shared style.
func (g *charGrid) writeStyledString(x, y int, s string, st *lipgloss.Style) {
	i := 0
	for _, r := range s {
		g.setCell(x+i, y, r, st)
		i++
	}
}

// String flattens the grid, rendering maximal same-style runs per row.
func (g *charGrid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < g.width {
			st := g.styles[y][x]
			start := x
			for x < g.width && g.styles[y][x] == st {
				x++
			}
			if st != nil {
				b.WriteString(st.Render(string(row[start:x])))
			} else {
				b.WriteString(string(row[start:x]))
			}
		}
	}
	return b.String()
}
