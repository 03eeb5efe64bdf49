// Package dependency validates task dependency edges.
//
// The validator is pure: it receives the task under validation, a snapshot of
// every task it could depend on, and the proposed dependency ids, and returns
// either the validated set or an error describing the violation. It never
// mutates its inputs and owns no state.
package dependency

import (
	"errors"
	"fmt"
	"strings"
)

// Task is the minimal view of a task the validator needs.
type Task struct {
	ID        string
	DependsOn []string
}

// Sentinel errors for errors.Is checks. The typed errors below unwrap to
// these and carry the offending ids for diagnostics.
var (
	ErrUnknownDependency  = errors.New("unknown dependency")
	ErrSelfDependency     = errors.New("task cannot depend on itself")
	ErrCircularDependency = errors.New("circular dependency")
)

// UnknownDependencyError reports proposed ids that reference no task in scope.
type UnknownDependencyError struct {
	TaskID  string
	Missing []string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency of %s: %s", e.TaskID, strings.Join(e.Missing, ", "))
}

func (e *UnknownDependencyError) Unwrap() error { return ErrUnknownDependency }

// SelfDependencyError reports a task listing its own id as a dependency.
type SelfDependencyError struct {
	TaskID string
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("task %s cannot depend on itself", e.TaskID)
}

func (e *SelfDependencyError) Unwrap() error { return ErrSelfDependency }

// CycleError reports a dependency cycle. Path holds one offending cycle in
// edge order, with the starting task repeated at the end (a -> b -> a).
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "circular dependency: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCircularDependency }

// Validate checks the proposed dependency set for taskID against a snapshot
// of all tasks in scope.
//
// Checks run in order: existence of every proposed id, self-reference, then
// acyclicity of the full graph with taskID's edges replaced by the proposed
// set. Duplicate proposed ids are deduplicated (order preserved) before any
// check; an empty proposed set is always valid.
//
// On success the deduplicated set is returned unchanged. The caller decides
// whether to persist.
func Validate(taskID string, all []Task, proposed []string) ([]string, error) {
	deps := dedupe(proposed)

	// Arena of task-index nodes. The task under validation may be new and
	// absent from the snapshot; it still gets a node.
	index := make(map[string]int, len(all)+1)
	ids := make([]string, 0, len(all)+1)

	for _, t := range all {
		if _, ok := index[t.ID]; ok {
			continue
		}

		index[t.ID] = len(ids)
		ids = append(ids, t.ID)
	}

	if _, ok := index[taskID]; !ok {
		index[taskID] = len(ids)
		ids = append(ids, taskID)
	}

	known := make(map[string]struct{}, len(all))
	for _, t := range all {
		known[t.ID] = struct{}{}
	}

	var missing []string

	for _, dep := range deps {
		// Self-references are handled by the dedicated check below, even
		// when the task is new and absent from the snapshot.
		if dep == taskID {
			continue
		}

		if _, ok := known[dep]; !ok {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return nil, &UnknownDependencyError{TaskID: taskID, Missing: missing}
	}

	for _, dep := range deps {
		if dep == taskID {
			return nil, &SelfDependencyError{TaskID: taskID}
		}
	}

	// Edge A -> B means "A depends on B". The proposed set replaces the
	// validated task's existing edges; every other task keeps its own.
	adj := make([][]int, len(ids))

	for _, t := range all {
		from := index[t.ID]

		if t.ID == taskID {
			continue
		}

		for _, dep := range t.DependsOn {
			to, ok := index[dep]
			if !ok {
				// Dangling edge in the snapshot. Not this task's
				// violation; skip it rather than fail validation.
				continue
			}

			adj[from] = append(adj[from], to)
		}
	}

	self := index[taskID]
	for _, dep := range deps {
		adj[self] = append(adj[self], index[dep])
	}

	if cycle := findCycle(ids, adj, self); cycle != nil {
		return nil, &CycleError{Path: cycle}
	}

	return deps, nil
}

// Traversal colors.
const (
	white = 0 // unvisited
	gray  = 1 // on the current DFS path
	black = 2 // fully explored
)

// findCycle runs a color-marking DFS over the arena and returns one cycle
// path, or nil if the graph is acyclic. The start node is explored first so
// a cycle introduced by the proposed edges is the one reported.
func findCycle(ids []string, adj [][]int, start int) []string {
	color := make([]int, len(ids))
	parent := make([]int, len(ids))

	for i := range parent {
		parent[i] = -1
	}

	var dfs func(node int) []int

	dfs = func(node int) []int {
		color[node] = gray

		for _, next := range adj[node] {
			if color[next] == gray {
				// Back-edge node -> next closes a cycle. Walk parents
				// from node back to next to reconstruct it.
				cycle := []int{next}

				for cur := node; cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}

				// Reverse into forward edge order and close the loop.
				for i, j := 1, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}

				return append(cycle, next)
			}

			if color[next] == white {
				parent[next] = node

				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}

		color[node] = black

		return nil
	}

	order := make([]int, 0, len(ids))
	order = append(order, start)

	for i := range ids {
		if i != start {
			order = append(order, i)
		}
	}

	for _, node := range order {
		if color[node] != white {
			continue
		}

		if cycle := dfs(node); cycle != nil {
			path := make([]string, len(cycle))
			for i, idx := range cycle {
				path[i] = ids[idx]
			}

			return path
		}
	}

	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
