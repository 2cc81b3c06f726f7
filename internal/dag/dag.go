// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed-graph operations over task names: cycle
// detection with human-readable cycle reconstruction, and dependency-respecting
// schedule computation. Nodes are identified by string keys; edges point from a
// task to each of its declared dependencies.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the dependency relation contains a cycle.
	CycleError struct {
		// Cycle contains the tasks that form the cycle, in dependency order:
		// each entry depends on the next, and the last depends on the first.
		Cycle []string
	}

	// Graph is a directed graph keyed by task name.
	// An edge from A to B means "A depends on B": B must run before A.
	Graph struct {
		// adjacency maps each node to its dependencies in declaration order.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic traversal.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}

	// frame is one entry of the iterative DFS stack used by Schedule.
	frame struct {
		node string
		next int
	}
)

// Error renders the cycle as a fixed message depending on its length.
func (e *CycleError) Error() string {
	var explanation string
	switch len(e.Cycle) {
	case 0:
		explanation = "empty cycle"
	case 1:
		explanation = fmt.Sprintf("%q depends on itself", e.Cycle[0])
	case 2:
		explanation = fmt.Sprintf("%q and %q depend on each other", e.Cycle[0], e.Cycle[1])
	default:
		clauses := make([]string, len(e.Cycle))
		for i, node := range e.Cycle {
			clauses[i] = fmt.Sprintf("%q depends on %q", node, e.Cycle[(i+1)%len(e.Cycle)])
		}
		explanation = series(clauses)
	}
	return "dependencies are cyclic: " + explanation
}

// series joins items into an English enumeration ("a", "a and b",
// "a, b, and c").
func series(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" depends on "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasNode reports whether the graph contains the given node.
func (g *Graph) HasNode(name string) bool {
	return g.nodeSet[name]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// DetectCycle checks the whole graph for cycles and returns a CycleError
// describing the first one found, or nil if the graph is acyclic.
//
// The traversal is an explicit-stack DFS rather than recursion, since task
// graphs may be adversarially deep. The frontier holds (node, depth) pairs; a
// parallel ancestors stack and set are trimmed back to the popped node's depth
// on every step, which keeps the ancestor set exactly equal to the current
// path even though frontier entries are pushed depth-tagged rather than
// removed eagerly. A global visited set ensures every node is expanded at most
// once, bounding total work to O(V+E) while the ancestor check still runs on
// every pop, so cycles reachable through shared sub-paths are not missed.
func (g *Graph) DetectCycle() *CycleError {
	visited := make(map[string]bool, len(g.nodes))

	for _, root := range g.nodes {
		type depthNode struct {
			name  string
			depth int
		}
		frontier := []depthNode{{root, 0}}
		ancestorsSet := make(map[string]bool)
		var ancestorsStack []string

		for len(frontier) > 0 {
			top := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]

			// Trim the ancestors back to this node's depth.
			for len(ancestorsStack) > top.depth {
				removed := ancestorsStack[len(ancestorsStack)-1]
				ancestorsStack = ancestorsStack[:len(ancestorsStack)-1]
				delete(ancestorsSet, removed)
			}

			// An ancestor reached again through a dependency edge is a cycle.
			if ancestorsSet[top.name] {
				start := 0
				for i, name := range ancestorsStack {
					if name == top.name {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(ancestorsStack)-start)
				cycle = append(cycle, ancestorsStack[start:]...)
				return &CycleError{Cycle: cycle}
			}

			// Only expand nodes we have never seen; their ancestor-set check
			// above still runs for revisits, which is what catches cycles that
			// share a sub-path with an earlier expansion.
			if !visited[top.name] {
				visited[top.name] = true

				ancestorsSet[top.name] = true
				ancestorsStack = append(ancestorsStack, top.name)

				for _, dep := range g.adjacency[top.name] {
					frontier = append(frontier, depthNode{dep, top.depth + 1})
				}
			}
		}
	}

	return nil
}

// Schedule computes the deduplicated, dependency-respecting execution order
// for the transitive dependency closure of root: every dependency appears
// before every task that depends on it. Ties between mutually-independent
// tasks are broken deterministically by following each task's dependency
// declaration order depth-first.
//
// The graph must already be known to be acyclic (see DetectCycle); Schedule
// does not re-check.
func (g *Graph) Schedule(root string) ([]string, error) {
	if !g.nodeSet[root] {
		return nil, fmt.Errorf("unknown task %q", root)
	}

	visited := map[string]bool{root: true}
	stack := []frame{{node: root}}
	var order []string

	// Iterative post-order: a node is emitted only after all of its
	// dependencies have been emitted.
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := g.adjacency[top.node]
		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++
			if !visited[dep] {
				visited[dep] = true
				stack = append(stack, frame{node: dep})
			}
			continue
		}
		order = append(order, top.node)
		stack = stack[:len(stack)-1]
	}

	return order, nil
}
