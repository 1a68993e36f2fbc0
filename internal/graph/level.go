package graph

import "github.com/nwestfall/planview/internal/api"

// AssignLevels computes a level per task id from the parent/subtask
// subset of the dependencies. Levels are longest-path-from-any-root:
// a node with two parents at different depths takes the deeper value,
// so no child is ever leveled above a parent.
//
// Edges of other kinds are ignored, as are parent/subtask edges whose
// endpoints are not in ids. If the parent/subtask subgraph has no
// zero-in-degree node (a cycle, or a data error), or ids is empty, every
// node gets level 0 and the maximum level is 0 - a deliberate flat
// fallback instead of an error. Nodes never reached by the relaxation
// also stay at level 0.
func AssignLevels(ids []api.TaskID, deps []api.Dependency) (map[api.TaskID]int, int) {
	levels := make(map[api.TaskID]int, len(ids))
	known := make(map[api.TaskID]bool, len(ids))
	for _, id := range ids {
		levels[id] = 0
		known[id] = true
	}

	children := make(map[api.TaskID][]api.TaskID)
	indegree := make(map[api.TaskID]int)
	for _, d := range deps {
		if d.DataFlow != KindParentSubtask {
			continue
		}
		if !known[d.Source] || !known[d.Target] {
			// Dangling references are dropped for leveling only.
			continue
		}
		children[d.Source] = append(children[d.Source], d.Target)
		indegree[d.Target]++
	}

	var queue []api.TaskID
	for _, id := range ids {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	// Kahn's algorithm with a max-relaxation instead of plain BFS order.
	// A cycle never reaches in-degree zero, so its members (and anything
	// downstream of them) simply keep level 0 and the loop terminates.
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range children[u] {
			if levels[u]+1 > levels[v] {
				levels[v] = levels[u] + 1
			}
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	maxLevel := 0
	for _, lvl := range levels {
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	return levels, maxLevel
}
