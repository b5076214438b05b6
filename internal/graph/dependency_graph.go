// Package graph builds the internal module dependency graph and derives its summaries.
//
// The graph is a plain value of types.DependencyGraph. Cycle detection converts it to a
// gonum directed graph and runs Tarjan's strongly connected components; cycles are
// reported and never broken.
package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/standardbeagle/codeaudit/internal/debug"
	"github.com/standardbeagle/codeaudit/internal/types"
)

// NodeDegree pairs a node with one of its degrees
type NodeDegree struct {
	ID     string
	Degree int
}

// Build assembles the graph from the known module IDs and every resolved dependency.
// External dependencies are ignored. Internal targets with no module of their own become
// phantom nodes. Duplicate edges collapse and self edges are dropped.
func Build(moduleIDs []string, deps []types.ResolvedDependency) *types.DependencyGraph {
	nodes := make(map[string]bool, len(moduleIDs))
	for _, id := range moduleIDs {
		nodes[id] = true
	}

	phantom := make(map[string]bool)
	seen := make(map[types.Edge]bool)
	var edges []types.Edge

	for _, d := range deps {
		if d.Kind != types.DependencyInternal || d.Source == d.Target {
			continue
		}
		if !nodes[d.Source] {
			nodes[d.Source] = true
		}
		if !nodes[d.Target] {
			nodes[d.Target] = true
			phantom[d.Target] = true
		}

		e := types.Edge{Source: d.Source, Target: d.Target}
		if seen[e] {
			continue
		}
		seen[e] = true
		edges = append(edges, e)
	}

	g := &types.DependencyGraph{
		Nodes:     sortedKeys(nodes),
		Edges:     edges,
		Phantom:   sortedKeys(phantom),
		InDegree:  make(map[string]int, len(nodes)),
		OutDegree: make(map[string]int, len(nodes)),
	}
	if g.Edges == nil {
		g.Edges = []types.Edge{}
	}

	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].Target < g.Edges[j].Target
	})

	for _, n := range g.Nodes {
		g.InDegree[n] = 0
		g.OutDegree[n] = 0
	}
	for _, e := range g.Edges {
		g.OutDegree[e.Source]++
		g.InDegree[e.Target]++
	}

	g.Cycles = DetectCycles(g)
	g.HasCycle = len(g.Cycles) > 0

	debug.Log("GRAPH", "%d nodes (%d phantom), %d edges, %d cycles",
		len(g.Nodes), len(g.Phantom), len(g.Edges), len(g.Cycles))

	return g
}

// DetectCycles uses gonum's Tarjan SCC to find cycles. Each cycle lists its members in
// sorted order and cycles are ordered by their first member.
func DetectCycles(g *types.DependencyGraph) [][]string {
	if len(g.Nodes) == 0 {
		return nil
	}

	directed := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[n] = int64(i)
		directed.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.Edges {
		from, fromOK := ids[e.Source]
		to, toOK := ids[e.Target]
		if fromOK && toOK && from != to {
			directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(directed) {
		if len(scc) < 2 {
			continue
		}
		members := make([]string, 0, len(scc))
		for _, node := range scc {
			members = append(members, g.Nodes[node.ID()])
		}
		sort.Strings(members)
		cycles = append(cycles, members)
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// TopFanIn returns up to n nodes with the highest in-degree, ties broken by ID.
// Nodes with no incoming edges are omitted.
func TopFanIn(g *types.DependencyGraph, n int) []NodeDegree {
	return topByDegree(g.Nodes, g.InDegree, n)
}

// TopFanOut returns up to n nodes with the highest out-degree
func TopFanOut(g *types.DependencyGraph, n int) []NodeDegree {
	return topByDegree(g.Nodes, g.OutDegree, n)
}

// Isolated returns nodes with no edges at all
func Isolated(g *types.DependencyGraph) []string {
	var out []string
	for _, id := range g.Nodes {
		if g.InDegree[id] == 0 && g.OutDegree[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

func topByDegree(nodes []string, degree map[string]int, n int) []NodeDegree {
	var ranked []NodeDegree
	for _, id := range nodes {
		if d := degree[id]; d > 0 {
			ranked = append(ranked, NodeDegree{ID: id, Degree: d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Degree != ranked[j].Degree {
			return ranked[i].Degree > ranked[j].Degree
		}
		return ranked[i].ID < ranked[j].ID
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
