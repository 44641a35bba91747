package subdivide

import (
	"testing"

	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
)

func tetrahedron() *halfedge.Mesh {
	m := halfedge.NewMesh()
	a := frame.Vec3{1, 1, 1}
	b := frame.Vec3{1, -1, -1}
	c := frame.Vec3{-1, 1, -1}
	d := frame.Vec3{-1, -1, 1}
	m.AddFace([]frame.Vec3{a, b, c})
	m.AddFace([]frame.Vec3{a, c, d})
	m.AddFace([]frame.Vec3{a, d, b})
	m.AddFace([]frame.Vec3{b, d, c})
	m.StitchMesh(feqstate.StitchTolerance)
	return m
}

func TestIDPreservingCCProducesAllQuads(t *testing.T) {
	m := tetrahedron()
	var faces []halfedge.FaceID
	m.Faces(func(f halfedge.FaceID) bool {
		faces = append(faces, f)
		return true
	})

	IDPreservingCC(m, faces)

	count := 0
	m.Faces(func(f halfedge.FaceID) bool {
		count++
		if m.FaceSize(f) != 4 {
			t.Errorf("face %d has size %d after subdivision, want 4", f, m.FaceSize(f))
		}
		return true
	})
	if count == 0 {
		t.Fatalf("expected surviving faces after subdivision")
	}
}

func TestQuadMeshLeavesFoldsPentagonToQuads(t *testing.T) {
	m := halfedge.NewMesh()
	pts := []frame.Vec3{
		{1, 0, 0}, {0.31, 0.95, 0}, {-0.81, 0.59, 0}, {-0.81, -0.59, 0}, {0.31, -0.95, 0},
	}
	f := m.AddFace(pts)
	st := feqstate.New()
	st.MarkVal2Face(f)

	var ref halfedge.VertexID
	m.Vertices(func(v halfedge.VertexID) bool { ref = v; return false })
	st.SetOneRingFaceVertex(f, ref)

	QuadMeshLeaves(m, st)

	m.Faces(func(fid halfedge.FaceID) bool {
		if m.FaceSize(fid) != 4 && m.FaceSize(fid) != 3 {
			t.Errorf("unexpected face size %d after leaf quadification", m.FaceSize(fid))
		}
		return true
	})
}
