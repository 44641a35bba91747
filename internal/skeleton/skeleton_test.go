package skeleton

import (
	"testing"

	"feq/internal/frame"
)

// yGraph builds a Y-junction: centre node 0 with three leaf arms.
func yGraph() *Graph {
	g := New()
	g.AddNode(frame.Vec3{0, 0, 0})  // 0: junction
	g.AddNode(frame.Vec3{1, 0, 0})  // 1: leaf
	g.AddNode(frame.Vec3{0, 1, 0})  // 2: leaf
	g.AddNode(frame.Vec3{0, 0, 1})  // 3: leaf
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(0, 3)
	return g
}

func TestValenceAndClassification(t *testing.T) {
	g := yGraph()
	if g.Valence(0) != 3 {
		t.Fatalf("expected junction valence 3, got %d", g.Valence(0))
	}
	if !g.IsJunction(0) {
		t.Fatalf("node 0 should be a junction")
	}
	if !g.IsLeaf(1) || !g.IsChain(1) {
		t.Fatalf("node 1 should be a leaf and a chain node")
	}
	if g.IsJunction(1) {
		t.Fatalf("node 1 should not be a junction")
	}
}

func TestHasJunctionAndHasEdges(t *testing.T) {
	g := yGraph()
	if !g.HasJunction() {
		t.Fatalf("expected HasJunction true")
	}
	if !g.HasEdges() {
		t.Fatalf("expected HasEdges true")
	}

	empty := New()
	empty.AddNode(frame.Vec3{0, 0, 0})
	if empty.HasJunction() || empty.HasEdges() {
		t.Fatalf("an edgeless graph should report no junctions and no edges")
	}
}

func TestAverageEdgeLength(t *testing.T) {
	g := New()
	g.AddNode(frame.Vec3{0, 0, 0})
	g.AddNode(frame.Vec3{2, 0, 0})
	g.AddNode(frame.Vec3{2, 4, 0})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	got := g.AverageEdgeLength()
	want := (2.0 + 4.0) / 2.0
	if got != want {
		t.Fatalf("AverageEdgeLength() = %v, want %v", got, want)
	}

	if New().AverageEdgeLength() != 1 {
		t.Fatalf("an edgeless graph should default AverageEdgeLength to 1")
	}
}

func TestCentroidExcludesIsolatedNodes(t *testing.T) {
	g := New()
	g.AddNode(frame.Vec3{0, 0, 0})
	g.AddNode(frame.Vec3{2, 0, 0})
	g.AddNode(frame.Vec3{100, 100, 100}) // isolated
	g.AddEdge(0, 1)

	c := g.Centroid()
	if c != (frame.Vec3{1, 0, 0}) {
		t.Fatalf("Centroid() = %v, want {1,0,0} (isolated node excluded)", c)
	}
}

func TestClosestJunctionAndNonIsolated(t *testing.T) {
	g := yGraph()
	j := g.ClosestJunctionTo(frame.Vec3{0.1, 0, 0})
	if j != 0 {
		t.Fatalf("ClosestJunctionTo = %d, want 0", j)
	}

	chainOnly := New()
	chainOnly.AddNode(frame.Vec3{0, 0, 0})
	chainOnly.AddNode(frame.Vec3{1, 0, 0})
	chainOnly.AddEdge(0, 1)
	if chainOnly.ClosestJunctionTo(frame.Vec3{0, 0, 0}) != -1 {
		t.Fatalf("expected -1 when no junction exists")
	}
	if n := chainOnly.ClosestNonIsolatedTo(frame.Vec3{0.9, 0, 0}); n != 1 {
		t.Fatalf("ClosestNonIsolatedTo = %d, want 1", n)
	}
}

func TestNodesIterationOrderIsAscending(t *testing.T) {
	g := yGraph()
	var seen []NodeID
	g.Nodes(func(n NodeID) bool {
		seen = append(seen, n)
		return true
	})
	for i, n := range seen {
		if int(n) != i {
			t.Fatalf("Nodes() out of ascending order at index %d: got %d", i, n)
		}
	}
}
