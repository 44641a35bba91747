package feqstate

import (
	"testing"

	"feq/internal/halfedge"
	"feq/internal/skeleton"
)

func TestArcFieldsDefaultBeforeSet(t *testing.T) {
	s := New()
	arc := Arc{N: 0, NN: 1}

	if _, ok := s.BranchDeg(arc); ok {
		t.Fatalf("BranchDeg should report ok=false before SetBranchDeg")
	}
	if v := s.BranchBestVertex(arc); v != halfedge.InvalidVertex {
		t.Fatalf("BranchBestVertex should default to InvalidVertex, got %v", v)
	}
	if _, ok := s.BranchFace(arc); ok {
		t.Fatalf("BranchFace should report ok=false before SetBranchFace")
	}
}

func TestArcFieldsRoundTrip(t *testing.T) {
	s := New()
	arc := Arc{N: 2, NN: 5}

	s.SetBranchDeg(arc, 4)
	if d, ok := s.BranchDeg(arc); !ok || d != 4 {
		t.Fatalf("BranchDeg round-trip = (%d, %v), want (4, true)", d, ok)
	}

	s.SetBranchBestVertex(arc, halfedge.VertexID(7))
	if v := s.BranchBestVertex(arc); v != halfedge.VertexID(7) {
		t.Fatalf("BranchBestVertex round-trip = %v, want 7", v)
	}

	s.SetBranchFace(arc, halfedge.FaceID(3))
	if f, ok := s.BranchFace(arc); !ok || f != halfedge.FaceID(3) {
		t.Fatalf("BranchFace round-trip = (%v, %v), want (3, true)", f, ok)
	}

	s.SetBranchToVert(arc, [3]float64{1, 2, 3})
	if p, ok := s.BranchToVert(arc); !ok || p != [3]float64{1, 2, 3} {
		t.Fatalf("BranchToVert round-trip = (%v, %v)", p, ok)
	}
}

func TestVal2DegAndVal2Faces(t *testing.T) {
	s := New()
	n := skeleton.NodeID(3)
	if _, ok := s.Val2Deg(n); ok {
		t.Fatalf("Val2Deg should default to not-set")
	}
	s.SetVal2Deg(n, 6)
	if d, ok := s.Val2Deg(n); !ok || d != 6 {
		t.Fatalf("Val2Deg round-trip = (%d, %v), want (6, true)", d, ok)
	}

	f := halfedge.FaceID(9)
	if s.IsVal2Face(f) {
		t.Fatalf("IsVal2Face should default to false")
	}
	s.MarkVal2Face(f)
	if !s.IsVal2Face(f) {
		t.Fatalf("IsVal2Face should be true after MarkVal2Face")
	}
}

func TestFaceVertexAndOneRingFaceVertexDefaults(t *testing.T) {
	s := New()
	f := halfedge.FaceID(1)
	if v := s.FaceVertex(f); v != halfedge.InvalidVertex {
		t.Fatalf("FaceVertex should default to InvalidVertex, got %v", v)
	}
	s.SetFaceVertex(f, halfedge.VertexID(4))
	if v := s.FaceVertex(f); v != halfedge.VertexID(4) {
		t.Fatalf("FaceVertex round-trip = %v, want 4", v)
	}

	if v := s.OneRingFaceVertex(f); v != halfedge.InvalidVertex {
		t.Fatalf("OneRingFaceVertex should default to InvalidVertex, got %v", v)
	}
	s.SetOneRingFaceVertex(f, halfedge.VertexID(8))
	if v := s.OneRingFaceVertex(f); v != halfedge.VertexID(8) {
		t.Fatalf("OneRingFaceVertex round-trip = %v, want 8", v)
	}
}

func TestNodeFacesAddAndRemove(t *testing.T) {
	s := New()
	n := skeleton.NodeID(0)
	s.AddNodeFace(n, halfedge.FaceID(1))
	s.AddNodeFace(n, halfedge.FaceID(2))
	s.AddNodeFace(n, halfedge.FaceID(3))

	faces := s.NodeFaces(n)
	if len(faces) != 3 {
		t.Fatalf("expected 3 faces, got %d", len(faces))
	}

	s.RemoveNodeFace(n, halfedge.FaceID(2))
	faces = s.NodeFaces(n)
	if len(faces) != 2 {
		t.Fatalf("expected 2 faces after removal, got %d", len(faces))
	}
	for _, f := range faces {
		if f == halfedge.FaceID(2) {
			t.Fatalf("face 2 should have been removed")
		}
	}
}
