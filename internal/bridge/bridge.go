// Package bridge implements SPEC_FULL.md §4.6: walking every arc from
// a junction (or, in a junction-less graph, every edge) out to its far
// end, matching the two boundary faces it meets, and welding them into
// a tube of quads.
package bridge

import (
	"math"

	"feq/internal/feqstate"
	"feq/internal/halfedge"
	"feq/internal/profiling"
	"feq/internal/skeleton"
	"feq/internal/trace"
)

type linkKey struct{ a, b skeleton.NodeID }

func canon(a, b skeleton.NodeID) linkKey {
	if a < b {
		return linkKey{a, b}
	}
	return linkKey{b, a}
}

// Run bridges every arc of the graph. Junctions supply their arcs
// directly; a graph with no junction at all is walked starting from
// every node's edges instead (each undirected link is only ever
// bridged once, tracked by a canonicalised visited-link set, since a
// tube between two junctions would otherwise be reachable — and
// re-walked — from both ends).
func Run(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, tr *trace.Recorder) {
	defer profiling.Track("bridge.Run")()

	visited := make(map[linkKey]bool)
	hasJunction := g.HasJunction()
	g.Nodes(func(n skeleton.NodeID) bool {
		if hasJunction && !g.IsJunction(n) {
			return true
		}
		for _, nn := range g.Neighbours(n) {
			walkArc(m, g, st, tr, n, nn, visited)
		}
		return true
	})
}

func walkArc(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, tr *trace.Recorder, start, next skeleton.NodeID, visited map[linkKey]bool) {
	for {
		key := canon(start, next)
		if visited[key] {
			return
		}
		visited[key] = true

		f0 := pickStartFace(m, g, st, start, next)
		f1 := pickStartFace(m, g, st, next, start)
		if f0 == halfedge.InvalidFace || f1 == halfedge.InvalidFace {
			return
		}

		if m.FaceSize(f0) != m.FaceSize(f1) {
			tr.Record(trace.BridgeMismatch, "arc (%d,%d): unequal face loop sizes, leaving both ends open", start, next)
			return
		}
		pairs, ok := match(m, st, f0, f1)
		if !ok {
			tr.Record(trace.PoleConflict, "arc (%d,%d): one-ring pole propagation conflict", start, next)
			return
		}

		if g.Valence(next) > g.Valence(start) {
			m.BridgeFaces(f1, f0, reversePairs(pairs))
		} else {
			m.BridgeFaces(f0, f1, pairs)
		}

		fwd := forwardNeighbour(g, start, next)
		if fwd == -1 {
			return
		}
		start, next = next, fwd
	}
}

func forwardNeighbour(g *skeleton.Graph, prev, cur skeleton.NodeID) skeleton.NodeID {
	fwd := skeleton.NodeID(-1)
	count := 0
	for _, nb := range g.Neighbours(cur) {
		if nb != prev {
			fwd = nb
			count++
		}
	}
	if count != 1 {
		return -1
	}
	return fwd
}

// pickStartFace implements §4.6 step 1/2: a junction's recorded
// branch_face for this arc, with its branch_best_vertex promoted to
// face_vertex; otherwise the face in from's node face set whose normal
// best faces the direction to `to`.
func pickStartFace(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, from, to skeleton.NodeID) halfedge.FaceID {
	arc := feqstate.Arc{N: from, NN: to}
	if g.IsJunction(from) {
		if f, ok := st.BranchFace(arc); ok && m.InUseFace(f) {
			if bv := st.BranchBestVertex(arc); bv != halfedge.InvalidVertex {
				st.SetFaceVertex(f, bv)
			}
			return f
		}
	}

	dir := g.Position(to).Sub(g.Position(from)).Normalize()
	faces := st.NodeFaces(from)
	best := halfedge.InvalidFace
	bestDot := math.Inf(-1)
	for _, f := range faces {
		if !m.InUseFace(f) {
			continue
		}
		d := m.FaceNormal(f).Dot(dir)
		if d > bestDot {
			bestDot, best = d, f
		}
	}
	if best != halfedge.InvalidFace {
		st.RemoveNodeFace(from, best)
	}
	return best
}

func match(m *halfedge.Mesh, st *feqstate.State, f0, f1 halfedge.FaceID) ([][2]halfedge.VertexID, bool) {
	l0, l1 := m.FaceLoop(f0), m.FaceLoop(f1)
	if len(l0) != len(l1) {
		return nil, false
	}
	fv0, fv1 := st.FaceVertex(f0), st.FaceVertex(f1)
	if fv0 != halfedge.InvalidVertex && fv1 != halfedge.InvalidVertex {
		return faceMatchCareful(l0, l1, fv0, fv1)
	}
	return faceMatchOneRing(m, st, f0, f1, l0, l1)
}

// faceMatchOneRing implements face_match_one_ring: brute-force search
// over cyclic offsets for the one minimising total squared vertex
// distance, then propagates one_ring_face_vertex between the two
// faces per the §4.6 step 3 rules.
func faceMatchOneRing(m *halfedge.Mesh, st *feqstate.State, f0, f1 halfedge.FaceID, l0, l1 []halfedge.VertexID) ([][2]halfedge.VertexID, bool) {
	L := len(l0)
	bestJ := 0
	bestScore := math.Inf(1)
	for j := 0; j < L; j++ {
		score := 0.0
		for i := 0; i < L; i++ {
			d := m.Position(l0[i]).Sub(m.Position(l1[(L+j-i)%L]))
			score += d.Dot(d)
		}
		if score < bestScore {
			bestScore, bestJ = score, j
		}
	}
	pairs := make([][2]halfedge.VertexID, L)
	for i := 0; i < L; i++ {
		pairs[i] = [2]halfedge.VertexID{l0[i], l1[(L+bestJ-i)%L]}
	}

	orv0, orv1 := st.OneRingFaceVertex(f0), st.OneRingFaceVertex(f1)
	switch {
	case orv0 != halfedge.InvalidVertex && orv1 == halfedge.InvalidVertex:
		if p := partnerOf(pairs, orv0, 0); p != halfedge.InvalidVertex {
			st.SetOneRingFaceVertex(f1, p)
			propagateAcross(m, st, f1, p)
		}
	case orv1 != halfedge.InvalidVertex && orv0 == halfedge.InvalidVertex:
		if p := partnerOf(pairs, orv1, 1); p != halfedge.InvalidVertex {
			st.SetOneRingFaceVertex(f0, p)
			propagateAcross(m, st, f0, p)
		}
	case orv0 == halfedge.InvalidVertex && orv1 == halfedge.InvalidVertex:
		st.SetOneRingFaceVertex(f0, pairs[0][0])
		st.SetOneRingFaceVertex(f1, pairs[0][1])
	default:
		if !pairsContain(pairs, orv0, orv1) {
			return nil, false
		}
	}
	return pairs, true
}

// propagateAcross pushes a newly-assigned one_ring_face_vertex one hop
// further, onto the face across an arbitrary boundary half-edge of f —
// the coaxial twin a chain-node box contributes (§4.5), which otherwise
// never gets tagged and so would be skipped by subdivide.QuadMeshLeaves.
func propagateAcross(m *halfedge.Mesh, st *feqstate.State, f halfedge.FaceID, v halfedge.VertexID) {
	if opp := oppositeFace(m, f); opp != halfedge.InvalidFace {
		st.SetOneRingFaceVertex(opp, v)
	}
}

// oppositeFace returns the face across the first live, twinned
// half-edge of f it finds, or InvalidFace if f has no such neighbour.
func oppositeFace(m *halfedge.Mesh, f halfedge.FaceID) halfedge.FaceID {
	opp := halfedge.InvalidFace
	m.WalkFace(f)(func(h halfedge.HalfEdgeID) bool {
		twin := m.Twin(h)
		if twin == halfedge.InvalidHalfEdge {
			return true
		}
		nf := m.Face(twin)
		if nf == f || !m.InUseFace(nf) {
			return true
		}
		opp = nf
		return false
	})
	return opp
}

func partnerOf(pairs [][2]halfedge.VertexID, v halfedge.VertexID, side int) halfedge.VertexID {
	for _, p := range pairs {
		if p[side] == v {
			return p[1-side]
		}
	}
	return halfedge.InvalidVertex
}

func pairsContain(pairs [][2]halfedge.VertexID, a, b halfedge.VertexID) bool {
	for _, p := range pairs {
		if p[0] == a && p[1] == b {
			return true
		}
	}
	return false
}

// faceMatchCareful implements face_match_careful: rotate (pick the
// cyclic offset) so the recorded pole vertex of each face lines up
// with the other's.
func faceMatchCareful(l0, l1 []halfedge.VertexID, fv0, fv1 halfedge.VertexID) ([][2]halfedge.VertexID, bool) {
	L := len(l0)
	p0, p1 := indexOf(l0, fv0), indexOf(l1, fv1)
	if p0 < 0 || p1 < 0 {
		return nil, false
	}
	j := (p0 + p1) % L
	pairs := make([][2]halfedge.VertexID, L)
	for i := 0; i < L; i++ {
		pairs[i] = [2]halfedge.VertexID{l0[i], l1[(L+j-i)%L]}
	}
	return pairs, true
}

func indexOf(loop []halfedge.VertexID, v halfedge.VertexID) int {
	for i, lv := range loop {
		if lv == v {
			return i
		}
	}
	return -1
}

func reversePairs(pairs [][2]halfedge.VertexID) [][2]halfedge.VertexID {
	out := make([][2]halfedge.VertexID, len(pairs))
	for i, p := range pairs {
		out[i] = [2]halfedge.VertexID{p[1], p[0]}
	}
	return out
}
