package branch

import (
	"testing"

	"feq/internal/bnp"
	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
	"feq/internal/skeleton"
)

func TestBranch2FaceSetsBranchFaceForEveryArc(t *testing.T) {
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
	if !bnp.Build(m, g, st, nil, 0, 1.0) {
		t.Fatalf("BNP build failed for X-junction")
	}
	InitBranchDegree(m, g, st)
	Branch2Face(m, g, st)

	for _, nn := range g.Neighbours(0) {
		arc := feqstate.Arc{N: 0, NN: nn}
		f, ok := st.BranchFace(arc)
		if !ok {
			t.Fatalf("expected branch_face set for arc to %d", nn)
		}
		if !m.InUseFace(f) {
			t.Fatalf("branch_face for arc to %d (%d) is not a live face", nn, f)
		}
		deg, _ := st.BranchDeg(arc)
		if m.FaceSize(f) != deg {
			t.Errorf("arc to %d: branch_face size %d, want branch_deg %d", nn, m.FaceSize(f), deg)
		}
	}
}

func TestPickBestFaceChoosesAnIncidentFace(t *testing.T) {
	m := halfedge.NewMesh()
	f0 := m.AddFace([]frame.Vec3{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0, 0, 0}})
	f1 := m.AddFace([]frame.Vec3{{1, 0, 0}, {0, 0, 0}, {0, 0, -1}, {1, 0, -1}})
	m.StitchMesh(feqstate.StitchTolerance)

	var v halfedge.VertexID
	m.Vertices(func(vv halfedge.VertexID) bool {
		if m.Position(vv) == (frame.Vec3{0, 0, 0}) {
			v = vv
			return false
		}
		return true
	})

	p := frame.Vec3{2, 2, 0}
	q := frame.Vec3{3, 3, 0}
	best := pickBestFace(m, v, p, q)
	if best != f0 && best != f1 {
		t.Errorf("pickBestFace returned %d, want one of the two faces incident to v", best)
	}
}
