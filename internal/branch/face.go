package branch

import (
	"math"

	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
	"feq/internal/profiling"
	"feq/internal/skeleton"
)

// Branch2Face implements §4.4: for every junction arc it picks the BNP
// face best facing the arc (branch2face) and then reduces that face's
// neighbourhood to exactly branch_deg edges (merge_branch_faces).
func Branch2Face(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State) {
	defer profiling.Track("branch.Branch2Face")()

	g.Nodes(func(n skeleton.NodeID) bool {
		if !g.IsJunction(n) {
			return true
		}
		p := g.Position(n)
		for _, nn := range g.Neighbours(n) {
			arc := feqstate.Arc{N: n, NN: nn}
			v := st.BranchBestVertex(arc)
			if v == halfedge.InvalidVertex {
				continue
			}
			q := g.Position(nn)
			f := pickBestFace(m, v, p, q)
			if f == halfedge.InvalidFace {
				continue
			}
			st.SetBranchBestFace(arc, f)
			mergeBranchFace(m, st, arc, v, f, p, q)
		}
		return true
	})
}

// pickBestFace chooses, among the faces incident to v, the one whose
// plane intersects the ray p->q closest to its own centre.
func pickBestFace(m *halfedge.Mesh, v halfedge.VertexID, p, q frame.Vec3) halfedge.FaceID {
	best := halfedge.InvalidFace
	bestD := math.Inf(1)
	m.WalkVertex(v)(func(h halfedge.HalfEdgeID) bool {
		f := m.Face(h)
		d := rayPlaneDistSq(m, f, p, q)
		if d < bestD {
			bestD, best = d, f
		}
		return true
	})
	return best
}

// rayPlaneDistSq returns the squared distance between face f's centre
// and the point where the ray p->q crosses f's plane, or +Inf if the
// ray runs parallel to the plane.
func rayPlaneDistSq(m *halfedge.Mesh, f halfedge.FaceID, p, q frame.Vec3) float64 {
	n := m.FaceNormal(f)
	c := m.FaceCentre(f)
	dir := q.Sub(p)
	denom := n.Dot(dir)
	if math.Abs(denom) < 1e-15 {
		return math.Inf(1)
	}
	t := n.Dot(c.Sub(p)) / denom
	hit := p.Add(dir.Mul(t))
	d := hit.Sub(c)
	return d.Dot(d)
}

// mergeBranchFace implements merge_branch_faces for a single arc: if
// v's valency already matches the target degree, the whole one-ring is
// merged into a single face; otherwise the face is iteratively grown
// by merging across whichever of its two v-incident edges leads to the
// face closer to the arc line, branch_deg-1 times.
func mergeBranchFace(m *halfedge.Mesh, st *feqstate.State, arc feqstate.Arc, v halfedge.VertexID, f halfedge.FaceID, p, q frame.Vec3) {
	deg, _ := st.BranchDeg(arc)

	if m.Valency(v) == deg {
		survivor := arbitraryRingNeighbour(m, v)
		merged := m.MergeOneRing(v)
		st.SetOneRingVertex(arc, survivor)
		st.SetOneRingFaceVertex(merged, survivor)
		st.SetBranchFace(arc, merged)
		st.SetBranchBestVertex(arc, halfedge.InvalidVertex)
		return
	}

	cur := f
	for i := 0; i < deg-1; i++ {
		h1, h2 := incidentEdges(m, cur, v)
		cand1 := acrossFace(m, h1)
		cand2 := acrossFace(m, h2)
		d1, d2 := math.Inf(1), math.Inf(1)
		if cand1 != halfedge.InvalidFace {
			d1 = rayPlaneDistSq(m, cand1, p, q)
		}
		if cand2 != halfedge.InvalidFace {
			d2 = rayPlaneDistSq(m, cand2, p, q)
		}

		var chosen halfedge.HalfEdgeID
		switch {
		case cand1 == halfedge.InvalidFace && cand2 == halfedge.InvalidFace:
			st.SetBranchFace(arc, cur)
			return
		case cand1 == halfedge.InvalidFace:
			chosen = h2
		case cand2 == halfedge.InvalidFace:
			chosen = h1
		case d1 <= d2:
			chosen = h1
		default:
			chosen = h2
		}
		cur = m.MergeFaces(cur, chosen)
	}
	st.SetBranchFace(arc, cur)
}

// incidentEdges returns the two half-edges of f incident to v (the one
// originating at v, and the one terminating at v).
func incidentEdges(m *halfedge.Mesh, f halfedge.FaceID, v halfedge.VertexID) (out, in halfedge.HalfEdgeID) {
	out, in = halfedge.InvalidHalfEdge, halfedge.InvalidHalfEdge
	m.WalkFace(f)(func(h halfedge.HalfEdgeID) bool {
		if m.Origin(h) == v {
			out = h
		}
		if m.Dest(h) == v {
			in = h
		}
		return true
	})
	return out, in
}

// acrossFace returns the face across h, or InvalidFace if h has no
// twin or that twin's face is no longer live.
func acrossFace(m *halfedge.Mesh, h halfedge.HalfEdgeID) halfedge.FaceID {
	if h == halfedge.InvalidHalfEdge {
		return halfedge.InvalidFace
	}
	twin := m.Twin(h)
	if twin == halfedge.InvalidHalfEdge {
		return halfedge.InvalidFace
	}
	nf := m.Face(twin)
	if !m.InUseFace(nf) {
		return halfedge.InvalidFace
	}
	return nf
}

// arbitraryRingNeighbour returns a deterministic surviving neighbour
// vertex from v's one-ring, per the §5 reproducibility rule: the first
// vertex encountered in circulation order.
func arbitraryRingNeighbour(m *halfedge.Mesh, v halfedge.VertexID) halfedge.VertexID {
	result := halfedge.InvalidVertex
	m.WalkVertex(v)(func(h halfedge.HalfEdgeID) bool {
		result = m.Dest(h)
		return false
	})
	return result
}
