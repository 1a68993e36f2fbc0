package graph

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nwestfall/planview/internal/api"
)

// Geometry holds the fixed node dimensions and spacing for the banded
// layout. All values are in cells/pixels of the rendering surface.
type Geometry struct {
	NodeWidth  int
	NodeHeight int
	RowGap     int // minimum vertical gap between bands
	ColGap     int // minimum horizontal gap between nodes in a band
	SidePad    int // fixed padding before the first node in a band
	BandPad    int // top/bottom padding subtracted before centering
}

// DefaultGeometry is the standard sizing for terminal rendering.
var DefaultGeometry = Geometry{
	NodeWidth:  26,
	NodeHeight: 1,
	RowGap:     1,
	ColGap:     2,
	SidePad:    2,
	BandPad:    0,
}

// Layout partitions vertical space into one horizontal band per level and
// places nodes left-to-right within their band, ordered by a
// case-insensitive locale-aware comparison of their labels. It is pure
// and idempotent: identical inputs always yield identical positions.
//
// Callers re-run Layout when the viewport size or the node/edge set
// changes, never on pure selection changes.
func Layout(nodes []Node, levels map[api.TaskID]int, maxLevel, viewW, viewH int, geo Geometry) map[api.TaskID]Point {
	positions := make(map[api.TaskID]Point, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	bands := make(map[int][]Node)
	for _, n := range nodes {
		lvl := levels[n.ID]
		bands[lvl] = append(bands[lvl], n)
	}

	bandHeight := geo.NodeHeight + geo.RowGap
	if maxLevel >= 0 && viewH/(maxLevel+1) > bandHeight {
		bandHeight = viewH / (maxLevel + 1)
	}

	cl := collate.New(language.English, collate.IgnoreCase)
	usable := viewW - 2*geo.SidePad

	for lvl, band := range bands {
		// Stable, deterministic order: collated label, id as tie-break.
		sort.SliceStable(band, func(i, j int) bool {
			if c := cl.CompareString(band[i].Label, band[j].Label); c != 0 {
				return c < 0
			}
			return band[i].ID < band[j].ID
		})

		step := geo.NodeWidth + geo.ColGap
		if len(band) > 0 && usable/len(band) > step {
			step = usable / len(band)
		}

		inner := bandHeight - 2*geo.BandPad
		yOff := geo.BandPad + (inner-geo.NodeHeight)/2
		if yOff < 0 {
			yOff = 0
		}

		for i, n := range band {
			positions[n.ID] = Point{
				X: geo.SidePad + i*step,
				Y: lvl*bandHeight + yOff,
			}
		}
	}

	return positions
}

// BandOrder returns all node ids in render order: bands top to bottom,
// nodes left to right within each band. This is the keyboard navigation
// order for the graph pane.
func BandOrder(nodes []Node, levels map[api.TaskID]int, positions map[api.TaskID]Point) []api.TaskID {
	out := make([]api.TaskID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := levels[out[i]], levels[out[j]]
		if li != lj {
			return li < lj
		}
		return positions[out[i]].X < positions[out[j]].X
	})
	return out
}

// Bounds returns the bounding box of all positioned nodes, for the
// post-layout re-fit. ok is false when nothing is positioned.
func Bounds(positions map[api.TaskID]Point, geo Geometry) (minX, minY, maxX, maxY int, ok bool) {
	first := true
	for _, p := range positions {
		if first {
			minX, minY = p.X, p.Y
			maxX, maxY = p.X+geo.NodeWidth, p.Y+geo.NodeHeight
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X+geo.NodeWidth > maxX {
			maxX = p.X + geo.NodeWidth
		}
		if p.Y+geo.NodeHeight > maxY {
			maxY = p.Y + geo.NodeHeight
		}
	}
	return minX, minY, maxX, maxY, !first
}
