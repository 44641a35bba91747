package bnp

import (
	"feq/internal/feqstate"
	"feq/internal/halfedge"
)

// isPlanar implements the §4.2 step 1 predicate for a half-edge
// shared by two faces: either an outward-bulging pair, or two faces
// whose normals agree closely enough (cosine >= PlanarityCosine).
func isPlanar(m *halfedge.Mesh, h halfedge.HalfEdgeID) bool {
	twin := m.Twin(h)
	if twin == halfedge.InvalidHalfEdge {
		return false
	}
	f1, f2 := m.Face(h), m.Face(twin)
	n1, n2 := m.FaceNormal(f1), m.FaceNormal(f2)
	c1, c2 := m.FaceCentre(f1), m.FaceCentre(f2)
	dot := n1.Dot(n2)
	if dot < 0 {
		return false
	}
	bulging := n1.Dot(c2.Sub(c1)) > 0 && n2.Dot(c1.Sub(c2)) > 0
	agreeing := dot >= feqstate.PlanarityCosine
	return bulging || agreeing
}

// retopologize runs §4.2: it BFS-collects maximal planar-connected
// components of the patch faces, stellates each component of >= 3
// faces into quads, and finishes with a flip pass over every planar
// half-edge of the patch pointing at an auxiliary vertex; that pass
// does not skip half-edges the stellation step already handled.
func retopologize(m *halfedge.Mesh, patch []halfedge.FaceID) {
	inPatch := make(map[halfedge.FaceID]bool, len(patch)*2)
	for _, f := range patch {
		inPatch[f] = true
	}

	components := planarComponents(m, patch, inPatch)
	aux := make(map[halfedge.VertexID]bool)
	for _, comp := range components {
		if len(comp) < 3 {
			continue
		}
		stellateComponent(m, comp, inPatch, aux)
	}
	finalFlipPass(m, inPatch, aux)
}

func planarComponents(m *halfedge.Mesh, patch []halfedge.FaceID, inPatch map[halfedge.FaceID]bool) [][]halfedge.FaceID {
	visited := make(map[halfedge.FaceID]bool, len(patch))
	var comps [][]halfedge.FaceID
	for _, start := range patch {
		if visited[start] {
			continue
		}
		queue := []halfedge.FaceID{start}
		visited[start] = true
		var comp []halfedge.FaceID
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			comp = append(comp, f)
			m.WalkFace(f)(func(h halfedge.HalfEdgeID) bool {
				twin := m.Twin(h)
				if twin == halfedge.InvalidHalfEdge {
					return true
				}
				nf := m.Face(twin)
				if inPatch[nf] && !visited[nf] && isPlanar(m, h) {
					visited[nf] = true
					queue = append(queue, nf)
				}
				return true
			})
		}
		comps = append(comps, comp)
	}
	return comps
}

// stellateComponent implements §4.2 step 3: LIE-split or flip every
// planar interior half-edge of the component until none remain.
func stellateComponent(m *halfedge.Mesh, comp []halfedge.FaceID, inPatch map[halfedge.FaceID]bool, aux map[halfedge.VertexID]bool) {
	compSet := make(map[halfedge.FaceID]bool, len(comp))
	for _, f := range comp {
		compSet[f] = true
	}
	visited := make(map[halfedge.HalfEdgeID]bool)

	var queue []halfedge.HalfEdgeID
	for _, f := range comp {
		m.WalkFace(f)(func(h halfedge.HalfEdgeID) bool {
			twin := m.Twin(h)
			if twin != halfedge.InvalidHalfEdge && compSet[m.Face(twin)] && isPlanar(m, h) {
				queue = append(queue, h)
			}
			return true
		})
	}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] || !m.InUseEdge(h) {
			continue
		}
		twin := m.Twin(h)
		if twin == halfedge.InvalidHalfEdge || !m.InUseEdge(twin) {
			continue
		}
		if !compSet[m.Face(h)] || !compSet[m.Face(twin)] || !isPlanar(m, h) {
			continue
		}
		visited[h], visited[twin] = true, true

		apexA := m.Origin(m.Prev(h))
		apexB := m.Origin(m.Prev(twin))

		if aux[apexA] && aux[apexB] {
			m.FlipEdge(h)
			continue
		}

		v := m.SplitEdge(h)
		faceA, faceB := m.Face(h), m.Face(twin)
		newA := m.SplitFaceByEdge(faceA, v, apexA)
		newB := m.SplitFaceByEdge(faceB, v, apexB)
		aux[v] = true
		inPatch[newA], inPatch[newB] = true, true
		compSet[newA], compSet[newB] = true, true

		m.WalkVertex(v)(func(h2 halfedge.HalfEdgeID) bool {
			t2 := m.Twin(h2)
			if t2 == halfedge.InvalidHalfEdge {
				return true
			}
			if !compSet[m.Face(h2)] || !compSet[m.Face(t2)] {
				return true
			}
			if visited[h2] || visited[t2] {
				return true
			}
			if isPlanar(m, h2) {
				m.FlipEdge(h2)
				visited[h2], visited[t2] = true, true
			}
			return true
		})
	}
}

// finalFlipPass implements §4.2 step 4.
func finalFlipPass(m *halfedge.Mesh, inPatch map[halfedge.FaceID]bool, aux map[halfedge.VertexID]bool) {
	var candidates []halfedge.HalfEdgeID
	for f := range inPatch {
		if !m.InUseFace(f) {
			continue
		}
		m.WalkFace(f)(func(h halfedge.HalfEdgeID) bool {
			candidates = append(candidates, h)
			return true
		})
	}
	for _, h := range candidates {
		if !m.InUseEdge(h) {
			continue
		}
		twin := m.Twin(h)
		if twin == halfedge.InvalidHalfEdge || !m.InUseEdge(twin) {
			continue
		}
		if aux[m.Dest(h)] && isPlanar(m, h) {
			m.FlipEdge(h)
		}
	}
}
