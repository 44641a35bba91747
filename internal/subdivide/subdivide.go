// Package subdivide implements the two mesh-refinement passes of
// SPEC_FULL.md §4.7/§4.8: an ID-preserving Catmull-Clark-like step
// that turns a patch of (mostly triangular) faces into quads while
// keeping every original face's ID valid on one of its children, and
// leaf quadification, which folds any leftover non-quad face (or a
// chain-node box face whose one-ring got merged) down to quads around
// a reference "pole" vertex.
package subdivide

import (
	"feq/internal/feqstate"
	"feq/internal/halfedge"
	"feq/internal/profiling"
)

// IDPreservingCC subdivides each face in faces into quads: every face
// is fanned from a new centre vertex, every one of its boundary edges
// gets a midpoint (shared with the neighbour across that edge, split
// only once), each resulting triangle is cut from its midpoint to the
// centre, and finally the original fan "spoke" edges are dissolved,
// merging each pair of corner triangles into the quad the spec's
// pseudocode describes. Faces not in the slice are untouched; boundary
// edges shared between two faces in the slice are each split exactly
// once.
func IDPreservingCC(m *halfedge.Mesh, faces []halfedge.FaceID) {
	if len(faces) == 0 {
		return
	}
	centreOf := make(map[halfedge.FaceID]halfedge.VertexID, len(faces))
	fragOwner := make(map[halfedge.FaceID]halfedge.FaceID)
	// origEdge records each fragment's original boundary edge before any
	// SplitFaceByEdge moves the fragment's anchor onto a new diagonal.
	type fragment struct {
		face     halfedge.FaceID
		origEdge halfedge.HalfEdgeID
	}
	var frags []fragment
	var spokes []halfedge.HalfEdgeID

	for _, f := range faces {
		c, fanSpokes, fragments := m.SplitFaceByVertex(f)
		centreOf[f] = c
		spokes = append(spokes, fanSpokes...)
		for _, nf := range fragments {
			fragOwner[nf] = f
			frags = append(frags, fragment{nf, m.FaceEdge(nf)})
		}
	}

	touched := make(map[halfedge.HalfEdgeID]bool)
	for _, fr := range frags {
		nf, owner, orig := fr.face, fragOwner[fr.face], fr.origEdge
		if touched[orig] {
			continue
		}
		touched[orig] = true
		twin := m.Twin(orig)
		if twin != halfedge.InvalidHalfEdge {
			touched[twin] = true
		}
		mid := m.SplitEdge(orig)
		m.SplitFaceByEdge(nf, mid, centreOf[owner])
		if twin != halfedge.InvalidHalfEdge {
			nf2 := m.Face(twin)
			if owner2, ok := fragOwner[nf2]; ok {
				m.SplitFaceByEdge(nf2, mid, centreOf[owner2])
			}
		}
	}

	for _, h := range spokes {
		if m.InUseEdge(h) {
			m.MergeFaces(m.Face(h), h)
		}
	}
}

// QuadMeshLeaves scans the current mesh for faces that are not quads,
// or that are chain-node box faces (§4.5) whose one-ring got merged
// (§4.4) and so still carry an `one_ring_face_vertex` pole, and folds
// each down to an n/2 fan of quads around its pole vertex (§4.8).
func QuadMeshLeaves(m *halfedge.Mesh, st *feqstate.State) {
	defer profiling.Track("subdivide.QuadMeshLeaves")()

	var targets []halfedge.FaceID
	m.Faces(func(f halfedge.FaceID) bool {
		if m.FaceSize(f) != 4 {
			targets = append(targets, f)
		} else if st.IsVal2Face(f) {
			if st.OneRingFaceVertex(f) != halfedge.InvalidVertex {
				targets = append(targets, f)
			}
		}
		return true
	})
	for _, f := range targets {
		if m.InUseFace(f) {
			quadifyAroundPole(m, st, f)
		}
	}
}

func quadifyAroundPole(m *halfedge.Mesh, st *feqstate.State, f halfedge.FaceID) {
	ref := st.OneRingFaceVertex(f)
	if ref == halfedge.InvalidVertex {
		ref = st.FaceVertex(f)
	}
	loop := m.FaceLoop(f)
	refIdx := 0
	if ref != halfedge.InvalidVertex {
		for i, v := range loop {
			if v == ref {
				refIdx = i
				break
			}
		}
	}
	_, spokes, _ := m.SplitFaceByVertex(f)
	parity := refIdx % 2
	for i, h := range spokes {
		if i%2 != parity && m.InUseEdge(h) {
			m.MergeFaces(m.Face(h), h)
		}
	}
}
