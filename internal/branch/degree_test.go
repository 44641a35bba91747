package branch

import (
	"testing"

	"feq/internal/bnp"
	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
	"feq/internal/skeleton"
)

func yJunctionGraph() *skeleton.Graph {
	g := skeleton.New()
	g.AddNode(frame.Vec3{0, 0, 0}) // 0: junction
	g.AddNode(frame.Vec3{1, 0, 0}) // 1: leaf
	g.AddNode(frame.Vec3{0, 1, 0}) // 2: leaf
	g.AddNode(frame.Vec3{0, 0, 1}) // 3: leaf
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(0, 3)
	return g
}

func TestInitBranchDegreeAgreesWithPathDegree(t *testing.T) {
	g := yJunctionGraph()
	m := halfedge.NewMesh()
	st := feqstate.New()
	if !bnp.Build(m, g, st, nil, 0, 1.0) {
		t.Fatalf("BNP build failed for Y-junction")
	}

	InitBranchDegree(m, g, st)

	for _, nn := range g.Neighbours(0) {
		arc := feqstate.Arc{N: 0, NN: nn}
		jnDeg, ok := st.BranchDeg(arc)
		if !ok {
			t.Fatalf("expected branch_deg set for arc to %d", nn)
		}
		pathDeg, ok := st.Val2Deg(nn)
		if !ok {
			t.Fatalf("expected val2_deg set for leaf %d", nn)
		}
		if pathDeg != 2*jnDeg {
			t.Errorf("leaf %d: path_deg = %d, want 2*jn_deg = %d", nn, pathDeg, 2*jnDeg)
		}
	}
}

func TestInitBranchDegreeChainGraphFallback(t *testing.T) {
	// A pure chain (no junctions) falls back to val2_deg = 4 everywhere.
	g := skeleton.New()
	g.AddNode(frame.Vec3{0, 0, 0})
	g.AddNode(frame.Vec3{1, 0, 0})
	g.AddNode(frame.Vec3{2, 0, 0})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)

	m := halfedge.NewMesh()
	st := feqstate.New()
	InitBranchDegree(m, g, st)

	g.Nodes(func(n skeleton.NodeID) bool {
		deg, ok := st.Val2Deg(n)
		if !ok || deg != 4 {
			t.Errorf("node %d: val2_deg = (%d, %v), want (4, true)", n, deg, ok)
		}
		return true
	})
}
