package semantic

import (
	"fmt"
	"sort"
	"strings"
)

// DependencyGraph is a directed graph over entity names, built from the
// reference list (spec.md §4.4's "dependency graph" requirement). Edges
// point from a dependent entity to the entity it depends on, so that a
// topological sort yields a safe processing order (dependencies first).
type DependencyGraph struct {
	nodes map[string]bool
	edges map[string]map[string]bool
}

// NewDependencyGraph builds a graph from refs, adding a node for every
// reference's From and Target (even targets with no further outgoing edges,
// e.g. built-in FHIR types), so has_path/dependents queries work uniformly.
func NewDependencyGraph(refs []Reference) *DependencyGraph {
	g := &DependencyGraph{
		nodes: make(map[string]bool),
		edges: make(map[string]map[string]bool),
	}
	for _, r := range refs {
		g.addNode(r.From)
		g.addNode(r.Target)
		g.addEdge(r.From, r.Target)
	}
	return g
}

func (g *DependencyGraph) addNode(name string) {
	if _, ok := g.nodes[name]; !ok {
		g.nodes[name] = true
		g.edges[name] = make(map[string]bool)
	}
}

func (g *DependencyGraph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.edges[from][to] = true
}

// Dependencies returns the names name directly depends on, sorted.
func (g *DependencyGraph) Dependencies(name string) []string {
	return sortedKeys(g.edges[name])
}

// Dependents returns every name that directly depends on target, sorted.
func (g *DependencyGraph) Dependents(target string) []string {
	var out []string
	for from, tos := range g.edges {
		if tos[target] {
			out = append(out, from)
		}
	}
	sort.Strings(out)
	return out
}

// HasPath reports whether there is a directed path from -> to.
func (g *DependencyGraph) HasPath(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.edges[n] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Cycle describes a strongly-connected component of size > 1, or a single
// self-referencing node, discovered during TopologicalSort.
type Cycle struct {
	Members []string
}

func (c Cycle) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(c.Members, " -> "))
}

// tarjan state for one run of Tarjan's SCC algorithm.
type tarjan struct {
	g        *DependencyGraph
	index    map[string]int
	lowlink  map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	sccs     [][]string
}

// TopologicalSort returns entity names ordered so that every dependency
// appears before its dependent, using Tarjan's SCC algorithm with
// lexicographic tie-breaking for determinism (spec.md §4.4). Any SCC of
// size > 1 (or a self-loop) is reported as a Cycle rather than silently
// broken; the returned order still places the cyclic group as a unit.
func (g *DependencyGraph) TopologicalSort() (order []string, cycles []Cycle) {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	names := sortedKeys(g.nodes)
	for _, n := range names {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}
	// Tarjan closes an SCC only after every SCC reachable from it (its
	// dependencies) has been closed, so sccs is already in
	// dependencies-first order.
	for i := 0; i < len(t.sccs); i++ {
		scc := t.sccs[i]
		sort.Strings(scc)
		order = append(order, scc...)
		if len(scc) > 1 || (len(scc) == 1 && g.edges[scc[0]][scc[0]]) {
			cycles = append(cycles, Cycle{Members: scc})
		}
	}
	return order, cycles
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range sortedKeys(t.g.edges[v]) {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

// ProcessingBatches groups TopologicalSort's order into independent layers:
// every member of batch N depends only on members of batches < N, so all
// members of one batch can be processed concurrently (spec.md §5's worker
// pool model relies on this).
func (g *DependencyGraph) ProcessingBatches() ([][]string, []Cycle) {
	order, cycles := g.TopologicalSort()
	depth := make(map[string]int, len(order))
	maxDepth := 0
	for _, n := range order {
		d := 0
		for dep := range g.edges[n] {
			if dep == n {
				continue
			}
			if dd, ok := depth[dep]; ok && dd+1 > d {
				d = dd + 1
			}
		}
		depth[n] = d
		if d > maxDepth {
			maxDepth = d
		}
	}
	batches := make([][]string, maxDepth+1)
	for _, n := range order {
		d := depth[n]
		batches[d] = append(batches[d], n)
	}
	for _, b := range batches {
		sort.Strings(b)
	}
	return batches, cycles
}

// ToDot renders the graph as Graphviz DOT source for debugging
// (spec.md §4.4's debug-serialization requirement).
func (g *DependencyGraph) ToDot() string {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	for _, n := range sortedKeys(g.nodes) {
		sb.WriteString(fmt.Sprintf("  %q;\n", n))
	}
	for _, from := range sortedKeys(g.edges) {
		for _, to := range sortedKeys(g.edges[from]) {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", from, to))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
