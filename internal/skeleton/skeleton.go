// Package skeleton is the graph container adapter: the skeleton graph
// G of SPEC_FULL.md §3, an undirected node/neighbour structure with 3D
// positions. It is deliberately minimal — the core algorithm only ever
// needs node IDs, positions, neighbours, valence, and the average edge
// length — grounded on the adjacency-list shape used throughout
// github.com/katalvlaran/lvlath's core package, trimmed to what a
// single-shot, single-threaded conversion needs (no locking: a Graph
// is built once and handed to the converter, never mutated
// concurrently with a conversion in flight).
package skeleton

import "feq/internal/frame"

// NodeID identifies a node within a single Graph. IDs are dense
// arena indices assigned in AddNode order.
type NodeID int

// Graph is an undirected node/neighbour structure with 3D positions.
type Graph struct {
	positions []frame.Vec3
	adjacency [][]NodeID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node at position p and returns its ID.
//
// Complexity: O(1) amortised.
func (g *Graph) AddNode(p frame.Vec3) NodeID {
	id := NodeID(len(g.positions))
	g.positions = append(g.positions, p)
	g.adjacency = append(g.adjacency, nil)
	return id
}

// AddEdge connects a and b. Both directions are recorded since the
// skeleton graph is undirected; duplicate edges are not de-duplicated
// by this call — callers building from an already-simple graph (the
// common case) never trigger the distinction.
//
// Complexity: O(1) amortised.
func (g *Graph) AddEdge(a, b NodeID) {
	g.adjacency[a] = append(g.adjacency[a], b)
	g.adjacency[b] = append(g.adjacency[b], a)
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.positions) }

// Position returns the 3D position of node n.
func (g *Graph) Position(n NodeID) frame.Vec3 { return g.positions[n] }

// Neighbours returns the node IDs adjacent to n, in the order edges
// were added (this order is the deterministic iteration order the
// whole pipeline relies on, per SPEC_FULL.md §5).
func (g *Graph) Neighbours(n NodeID) []NodeID { return g.adjacency[n] }

// Valence returns len(Neighbours(n)).
func (g *Graph) Valence(n NodeID) int { return len(g.adjacency[n]) }

// IsJunction reports whether n has valence > 2.
func (g *Graph) IsJunction(n NodeID) bool { return g.Valence(n) > 2 }

// IsChain reports whether n has valence <= 2.
func (g *Graph) IsChain(n NodeID) bool { return g.Valence(n) <= 2 }

// IsLeaf reports whether n has valence <= 1.
func (g *Graph) IsLeaf(n NodeID) bool { return g.Valence(n) <= 1 }

// Nodes iterates node IDs in ascending (insertion) order.
func (g *Graph) Nodes(yield func(NodeID) bool) {
	for i := range g.positions {
		if !yield(NodeID(i)) {
			return
		}
	}
}

// HasEdges reports whether the graph has at least one edge anywhere;
// a graph with none is the §7 "Graph-degenerate" (totally isolated)
// case, which the top-level conversion short-circuits to an empty mesh.
func (g *Graph) HasEdges() bool {
	for _, nbrs := range g.adjacency {
		if len(nbrs) > 0 {
			return true
		}
	}
	return false
}

// AverageEdgeLength returns the mean Euclidean length of all edges
// (each undirected edge counted once). Returns 1 for a graph with no
// edges, so radius computations never divide by zero.
func (g *Graph) AverageEdgeLength() float64 {
	var sum float64
	count := 0
	for n := range g.positions {
		from := NodeID(n)
		for _, to := range g.adjacency[from] {
			if to > from {
				sum += g.positions[from].Sub(g.positions[to]).Len()
				count++
			}
		}
	}
	if count == 0 {
		return 1
	}
	return sum / float64(count)
}

// Centroid returns the mean position over every node with at least one
// neighbour (isolated nodes are excluded, matching the seed-selection
// rule in §4.5 which only ever walks non-isolated nodes).
func (g *Graph) Centroid() frame.Vec3 {
	var sum frame.Vec3
	count := 0
	for i, p := range g.positions {
		if len(g.adjacency[i]) > 0 {
			sum = sum.Add(p)
			count++
		}
	}
	if count == 0 {
		return sum
	}
	return sum.Mul(1.0 / float64(count))
}

// HasJunction reports whether any node has valence > 2.
func (g *Graph) HasJunction() bool {
	for i := range g.positions {
		if len(g.adjacency[i]) > 2 {
			return true
		}
	}
	return false
}

// ClosestNonIsolatedTo returns the non-isolated node nearest to p, or
// -1 if every node is isolated.
func (g *Graph) ClosestNonIsolatedTo(p frame.Vec3) NodeID {
	best := NodeID(-1)
	bestD := 0.0
	for i, q := range g.positions {
		if len(g.adjacency[i]) == 0 {
			continue
		}
		d := q.Sub(p).Dot(q.Sub(p))
		if best == -1 || d < bestD {
			best, bestD = NodeID(i), d
		}
	}
	return best
}

// ClosestJunctionTo returns the junction nearest to p, or -1 if the
// graph has no junctions.
func (g *Graph) ClosestJunctionTo(p frame.Vec3) NodeID {
	best := NodeID(-1)
	bestD := 0.0
	for i, q := range g.positions {
		if len(g.adjacency[i]) <= 2 {
			continue
		}
		d := q.Sub(p).Dot(q.Sub(p))
		if best == -1 || d < bestD {
			best, bestD = NodeID(i), d
		}
	}
	return best
}
