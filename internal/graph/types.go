// Package graph builds the task-dependency graph model and computes its
// layered layout. Everything here is pure: the same tasks, dependencies,
// and viewport always produce the same nodes, levels, and positions.
package graph

import "github.com/nwestfall/planview/internal/api"

// Dependency kinds with dedicated presentation. The vocabulary is open;
// any other kind takes the default presentation.
const (
	// KindParentSubtask is the only kind that drives leveling.
	KindParentSubtask = "parent task-subtask"
	// KindRethink marks a revision loop back over a previous task.
	KindRethink = "rethinking the previous task"
	// KindGated exists in the model for completeness but is never drawn
	// and never interactive.
	KindGated = "gated by user feedback"
)

// Anchor identifies the side of a node an edge attaches to.
type Anchor int

const (
	// AnchorTop is the top-center of a node.
	AnchorTop Anchor = iota
	// AnchorBottom is the bottom-center of a node.
	AnchorBottom
	// AnchorLeft is the left-center of a node (dataflow target side).
	AnchorLeft
	// AnchorRight is the right-center of a node (dataflow source side).
	AnchorRight
)

// String returns a string representation of the Anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorTop:
		return "top"
	case AnchorBottom:
		return "bottom"
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	default:
		return "unknown"
	}
}

// CurveKind selects how an edge is routed.
type CurveKind int

const (
	// CurveStraight routes the edge as a straight line.
	CurveStraight CurveKind = iota
	// CurveBezier routes the edge as a curved line.
	CurveBezier
)

// Hint classifies a node's background by keyword heuristics on the
// task name. First matching class wins; HintNone means default background.
type Hint int

const (
	// HintNone leaves the default background.
	HintNone Hint = iota
	// HintPlanning marks planning-related tasks (neutral gray).
	HintPlanning
	// HintGather marks gather/collect/summarize tasks (green).
	HintGather
	// HintIdentify marks identify/select/choose tasks (yellow).
	HintIdentify
	// HintConsolidate marks consolidate/develop/design tasks (red).
	HintConsolidate
)

// String returns a string representation of the Hint.
func (h Hint) String() string {
	switch h {
	case HintPlanning:
		return "planning"
	case HintGather:
		return "gather"
	case HintIdentify:
		return "identify"
	case HintConsolidate:
		return "consolidate"
	default:
		return "none"
	}
}

// Presentation describes how an edge is drawn.
type Presentation struct {
	Curve        CurveKind
	Dashed       bool
	Arrow        bool
	SourceAnchor Anchor
	TargetAnchor Anchor
	Hidden       bool // present in the model but never drawn or clickable
}

// Node is a task prepared for rendering. Nodes are owned by a single
// render cycle and replaced wholesale on every successful refetch.
type Node struct {
	ID    api.TaskID
	Label string // derived display label (prefixes stripped)
	Hint  Hint
	Level int // band index, assigned by AssignLevels
}

// Edge is a dependency prepared for rendering. The raw relationship and
// schema descriptions are carried along for the details pane.
type Edge struct {
	Source api.TaskID
	Target api.TaskID
	Kind   string
	Presentation
	Relationship string
	DataSchema   string
}

// Point is a node's top-left pixel position in the layout.
type Point struct {
	X int
	Y int
}
