package graph

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/nwestfall/planview/internal/api"
)

// presentations is the closed lookup table from dependency kind to edge
// presentation. Kinds not present here take defaultPresentation.
var presentations = map[string]Presentation{
	KindParentSubtask: {
		Curve:        CurveStraight,
		Dashed:       true,
		Arrow:        false,
		SourceAnchor: AnchorBottom,
		TargetAnchor: AnchorTop,
	},
	KindRethink: {
		Curve:        CurveBezier,
		Dashed:       true,
		Arrow:        true,
		SourceAnchor: AnchorRight,
		TargetAnchor: AnchorLeft,
	},
	KindGated: {
		Curve:        CurveBezier,
		Dashed:       false,
		Arrow:        true,
		SourceAnchor: AnchorRight,
		TargetAnchor: AnchorLeft,
		Hidden:       true,
	},
}

// defaultPresentation is used for any kind outside the known vocabulary.
var defaultPresentation = Presentation{
	Curve:        CurveBezier,
	Dashed:       false,
	Arrow:        true,
	SourceAnchor: AnchorRight,
	TargetAnchor: AnchorLeft,
}

// hintRules classify task names in priority order; first match wins.
var hintRules = []struct {
	re   *regexp.Regexp
	hint Hint
}{
	{regexp.MustCompile(`(?i)plan`), HintPlanning},
	{regexp.MustCompile(`(?i)gather|collect|summariz`), HintGather},
	{regexp.MustCompile(`(?i)identif|select|choos`), HintIdentify},
	{regexp.MustCompile(`(?i)consolidat|develop|design`), HintConsolidate},
}

// Build transforms raw task and dependency records into nodes and edges.
// Node levels are zero until AssignLevels runs. Dependencies referencing
// unknown task ids are retained in the edge list; the renderer drops
// edges without positioned endpoints. Duplicate dependency records are
// preserved and render as overlapping edges.
func Build(tasks []api.Task, deps []api.Dependency) ([]Node, []Edge) {
	nodes := make([]Node, 0, len(tasks))
	known := make(map[api.TaskID]bool, len(tasks))
	for _, t := range tasks {
		nodes = append(nodes, Node{
			ID:    t.ID,
			Label: DisplayLabel(t.Name),
			Hint:  classifyHint(t.Name),
		})
		known[t.ID] = true
	}

	edges := make([]Edge, 0, len(deps))
	for _, d := range deps {
		if !known[d.Source] || !known[d.Target] {
			slog.Debug("dependency references unknown task",
				"source", d.Source,
				"target", d.Target,
				"kind", d.DataFlow,
			)
		}
		edges = append(edges, Edge{
			Source:       d.Source,
			Target:       d.Target,
			Kind:         d.DataFlow,
			Presentation: PresentationFor(d.DataFlow),
			Relationship: d.Relationship,
			DataSchema:   d.DataSchema,
		})
	}

	return nodes, edges
}

// PresentationFor returns the presentation for a dependency kind,
// falling back to the default for unknown kinds.
func PresentationFor(kind string) Presentation {
	if p, ok := presentations[kind]; ok {
		return p
	}
	return defaultPresentation
}

// DisplayLabel derives the presentation label from a raw task name:
// a leading "Task" token is stripped case-insensitively and a leading
// "Plan:" token is replaced with a "-" marker.
func DisplayLabel(name string) string {
	s := strings.TrimSpace(name)

	if rest, ok := cutToken(s, "task"); ok {
		s = rest
	}
	if rest, ok := cutToken(s, "plan:"); ok {
		s = "- " + rest
	}

	return strings.TrimSpace(s)
}

// cutToken removes a leading token case-insensitively. The token only
// matches when followed by a break (space, colon already part of the
// token, or end of string), so "Taskmaster" keeps its name.
func cutToken(s, token string) (string, bool) {
	if len(s) < len(token) {
		return s, false
	}
	if !strings.EqualFold(s[:len(token)], token) {
		return s, false
	}
	rest := s[len(token):]
	if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasSuffix(token, ":") {
		return s, false
	}
	return strings.TrimSpace(rest), true
}

// classifyHint applies hintRules against the raw task name.
func classifyHint(name string) Hint {
	for _, rule := range hintRules {
		if rule.re.MatchString(name) {
			return rule.hint
		}
	}
	return HintNone
}
