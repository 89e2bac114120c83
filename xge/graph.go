package xge

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/octobuild/octobuild/octerror"
)

// Graph is a parsed, validated task DAG: every node without predecessors is
// implicitly rooted, every node without successors is a sink.
type Graph struct {
	Tasks []*Task
	byID  map[string]*Task
}

// BuildGraph links DependsOn ids into predecessor/successor edges and
// verifies acyclicity with a topological pass. A GraphError names one
// cycle member when a cycle is found, or an unresolved dependency id.
func BuildGraph(tasks []*Task) (*Graph, error) {
	g := &Graph{Tasks: tasks, byID: make(map[string]*Task, len(tasks))}
	for _, t := range tasks {
		if _, dup := g.byID[t.ID]; dup {
			return nil, &octerror.GraphError{Reason: fmt.Sprintf("duplicate task id %q", t.ID)}
		}
		g.byID[t.ID] = t
	}

	for _, t := range tasks {
		t.pendingPredecessors = len(t.DependsOn)
		for _, depID := range t.DependsOn {
			dep, ok := g.byID[depID]
			if !ok {
				return nil, &octerror.GraphError{Reason: fmt.Sprintf("task %q depends on unknown task %q", t.ID, depID)}
			}
			dep.successors = append(dep.successors, t)
			t.predecessors = append(t.predecessors, dep)
		}
	}

	if cycle := findCycleMember(tasks); cycle != "" {
		return nil, &octerror.GraphError{Reason: fmt.Sprintf("dependency cycle involving task %q", cycle)}
	}

	return g, nil
}

// findCycleMember runs a standard white/gray/black DFS and returns one
// task id on a cycle, or "" if the graph is acyclic.
func findCycleMember(tasks []*Task) string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(tasks))

	var visit func(t *Task) string
	visit = func(t *Task) string {
		color[t.ID] = gray
		for _, s := range t.successors {
			switch color[s.ID] {
			case gray:
				return s.ID
			case white:
				if found := visit(s); found != "" {
					return found
				}
			}
		}
		color[t.ID] = black
		return ""
	}

	for _, t := range tasks {
		if color[t.ID] == white {
			if found := visit(t); found != "" {
				return found
			}
		}
	}
	return ""
}

// Roots returns every task with no predecessors -- the initial ready set.
func (g *Graph) Roots() []*Task {
	var roots []*Task
	for _, t := range g.Tasks {
		if t.pendingPredecessors == 0 {
			roots = append(roots, t)
		}
	}
	return roots
}

// IDs returns every task id known to the graph, sorted -- used by
// diagnostics that need a deterministic listing of the task set rather
// than map iteration order.
func (g *Graph) IDs() []string {
	ids := maps.Keys(g.byID)
	slices.Sort(ids)
	return ids
}

// Lookup resolves a task id back to its Task, or nil if unknown.
func (g *Graph) Lookup(id string) *Task {
	return g.byID[id]
}
