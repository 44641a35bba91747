package bnp

import (
	"testing"

	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
	"feq/internal/skeleton"
)

func TestBuildYJunctionProducesVertexPerArc(t *testing.T) {
	g := skeleton.New()
	g.AddNode(frame.Vec3{0, 0, 0}) // 0: junction
	g.AddNode(frame.Vec3{1, 0, 0})
	g.AddNode(frame.Vec3{0, 1, 0})
	g.AddNode(frame.Vec3{0, 0, 1})
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(0, 3)

	m := halfedge.NewMesh()
	st := feqstate.New()
	ok := Build(m, g, st, nil, 0, 1.0)
	if !ok {
		t.Fatalf("Build returned false for a well-formed Y-junction")
	}

	for _, nn := range g.Neighbours(0) {
		arc := feqstate.Arc{N: 0, NN: nn}
		v := st.BranchBestVertex(arc)
		if v == halfedge.InvalidVertex {
			t.Fatalf("arc to neighbour %d has no branch_best_vertex", nn)
		}
		if !m.InUseVertex(v) {
			t.Fatalf("branch_best_vertex for neighbour %d is not a live vertex", nn)
		}
	}

	count := 0
	m.Faces(func(f halfedge.FaceID) bool { count++; return true })
	if count == 0 {
		t.Fatalf("expected at least one live face after Build")
	}
}

func TestBuildXJunctionRadiusProjection(t *testing.T) {
	g := skeleton.New()
	g.AddNode(frame.Vec3{0, 0, 0})
	g.AddNode(frame.Vec3{1, 0, 0})
	g.AddNode(frame.Vec3{-1, 0, 0})
	g.AddNode(frame.Vec3{0, 1, 0})
	g.AddNode(frame.Vec3{0, -1, 0})
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(0, 3)
	g.AddEdge(0, 4)

	m := halfedge.NewMesh()
	st := feqstate.New()
	const radius = 2.5
	ok := Build(m, g, st, nil, 0, radius)
	if !ok {
		t.Fatalf("Build returned false for a well-formed X-junction")
	}

	centre := g.Position(0)
	m.Vertices(func(v halfedge.VertexID) bool {
		d := m.Position(v).Sub(centre).Len()
		if d < radius-1e-6 || d > radius+1e-6 {
			t.Errorf("vertex %d at distance %v from centre, want %v", v, d, radius)
		}
		return true
	})
}

func TestBuildIsolatedNodeReturnsFalse(t *testing.T) {
	g := skeleton.New()
	g.AddNode(frame.Vec3{0, 0, 0})
	m := halfedge.NewMesh()
	st := feqstate.New()
	if Build(m, g, st, nil, 0, 1.0) {
		t.Fatalf("Build should return false for a node with no neighbours")
	}
}
