// Package feqstate is the per-invocation state store of SPEC_FULL.md
// §3/§9: every per-arc and per-face map the pipeline mutates as it
// runs, owned by a single State value that one GraphToFEQ call
// allocates, threads through every stage by explicit parameter, and
// discards when the conversion returns. Nothing here is a package
// level global — that was the one pattern deliberately NOT carried
// over from the teacher's internal/registry, because registry data is
// compile-time-fixed and state here is per-call mutable (SPEC_FULL.md
// §3).
package feqstate

import (
	"feq/internal/halfedge"
	"feq/internal/skeleton"
)

// Tolerances, fixed per §6 of SPEC_FULL.md.
const (
	StitchTolerance       = 1e-10
	PositionEqualityTolSq = 1e-4
	PlanarityCosine       = 0.75
	RelaxationPasses      = 3
)

// Arc is an ordered (node, neighbour) pair, the key for every per-arc
// map in §3.
type Arc struct {
	N, NN skeleton.NodeID
}

// arcData bundles every per-arc map's entry for one arc so State only
// needs a single map lookup per arc instead of six.
type arcData struct {
	branchDeg        int
	hasBranchDeg     bool
	branchBestFace   halfedge.FaceID
	branchBestVertex halfedge.VertexID
	branchFace       halfedge.FaceID
	hasBranchFace    bool
	oneRingVertex    halfedge.VertexID
	branchToVert     [3]float64
	hasBranchToVert  bool
}

// State holds all per-invocation maps. Zero value is not usable; use
// New.
type State struct {
	arcs map[Arc]*arcData

	val2Deg map[skeleton.NodeID]int

	faceVertex         map[halfedge.FaceID]halfedge.VertexID
	oneRingFaceVertex  map[halfedge.FaceID]halfedge.VertexID
	val2Faces          map[halfedge.FaceID]bool
	nodeFaces          map[skeleton.NodeID][]halfedge.FaceID
}

// New allocates an empty per-invocation state.
func New() *State {
	return &State{
		arcs:              make(map[Arc]*arcData),
		val2Deg:           make(map[skeleton.NodeID]int),
		faceVertex:        make(map[halfedge.FaceID]halfedge.VertexID),
		oneRingFaceVertex: make(map[halfedge.FaceID]halfedge.VertexID),
		val2Faces:         make(map[halfedge.FaceID]bool),
		nodeFaces:         make(map[skeleton.NodeID][]halfedge.FaceID),
	}
}

func (s *State) arc(a Arc) *arcData {
	d, ok := s.arcs[a]
	if !ok {
		d = &arcData{
			branchBestVertex: halfedge.InvalidVertex,
			oneRingVertex:    halfedge.InvalidVertex,
		}
		s.arcs[a] = d
	}
	return d
}

// --- branch_deg ---

func (s *State) SetBranchDeg(a Arc, d int) {
	ad := s.arc(a)
	ad.branchDeg, ad.hasBranchDeg = d, true
}
func (s *State) BranchDeg(a Arc) (int, bool) {
	d, ok := s.arcs[a]
	if !ok {
		return 0, false
	}
	return d.branchDeg, d.hasBranchDeg
}

// --- branch_best_face / branch_best_vertex ---

func (s *State) SetBranchBestFace(a Arc, f halfedge.FaceID) { s.arc(a).branchBestFace = f }
func (s *State) BranchBestFace(a Arc) halfedge.FaceID {
	d, ok := s.arcs[a]
	if !ok {
		return halfedge.InvalidFace
	}
	return d.branchBestFace
}

func (s *State) SetBranchBestVertex(a Arc, v halfedge.VertexID) { s.arc(a).branchBestVertex = v }
func (s *State) BranchBestVertex(a Arc) halfedge.VertexID {
	d, ok := s.arcs[a]
	if !ok {
		return halfedge.InvalidVertex
	}
	return d.branchBestVertex
}

// --- branch_face ---

func (s *State) SetBranchFace(a Arc, f halfedge.FaceID) {
	ad := s.arc(a)
	ad.branchFace, ad.hasBranchFace = f, true
}
func (s *State) BranchFace(a Arc) (halfedge.FaceID, bool) {
	d, ok := s.arcs[a]
	if !ok {
		return halfedge.InvalidFace, false
	}
	return d.branchFace, d.hasBranchFace
}

// --- one_ring_vertex ---

func (s *State) SetOneRingVertex(a Arc, v halfedge.VertexID) { s.arc(a).oneRingVertex = v }
func (s *State) OneRingVertex(a Arc) halfedge.VertexID {
	d, ok := s.arcs[a]
	if !ok {
		return halfedge.InvalidVertex
	}
	return d.oneRingVertex
}

// --- branch_to_vert ---

func (s *State) SetBranchToVert(a Arc, p [3]float64) {
	ad := s.arc(a)
	ad.branchToVert, ad.hasBranchToVert = p, true
}
func (s *State) BranchToVert(a Arc) ([3]float64, bool) {
	d, ok := s.arcs[a]
	if !ok {
		return [3]float64{}, false
	}
	return d.branchToVert, d.hasBranchToVert
}

// --- val2_deg ---

func (s *State) SetVal2Deg(n skeleton.NodeID, d int) { s.val2Deg[n] = d }
func (s *State) Val2Deg(n skeleton.NodeID) (int, bool) {
	d, ok := s.val2Deg[n]
	return d, ok
}

// --- face_vertex / one_ring_face_vertex / val2_faces ---

func (s *State) SetFaceVertex(f halfedge.FaceID, v halfedge.VertexID) { s.faceVertex[f] = v }
func (s *State) FaceVertex(f halfedge.FaceID) halfedge.VertexID {
	v, ok := s.faceVertex[f]
	if !ok {
		return halfedge.InvalidVertex
	}
	return v
}

func (s *State) SetOneRingFaceVertex(f halfedge.FaceID, v halfedge.VertexID) {
	s.oneRingFaceVertex[f] = v
}
func (s *State) OneRingFaceVertex(f halfedge.FaceID) halfedge.VertexID {
	v, ok := s.oneRingFaceVertex[f]
	if !ok {
		return halfedge.InvalidVertex
	}
	return v
}

func (s *State) MarkVal2Face(f halfedge.FaceID)      { s.val2Faces[f] = true }
func (s *State) IsVal2Face(f halfedge.FaceID) bool   { return s.val2Faces[f] }

// --- node -> BNP face set (§4.1 step 9) ---

func (s *State) AddNodeFace(n skeleton.NodeID, f halfedge.FaceID) {
	s.nodeFaces[n] = append(s.nodeFaces[n], f)
}
func (s *State) NodeFaces(n skeleton.NodeID) []halfedge.FaceID { return s.nodeFaces[n] }
func (s *State) RemoveNodeFace(n skeleton.NodeID, f halfedge.FaceID) {
	list := s.nodeFaces[n]
	for i, ff := range list {
		if ff == f {
			s.nodeFaces[n] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
