// Package bnp builds the branch node polyhedron (BNP) around a
// junction: the spherical Delaunay triangulation of its arc
// directions (§4.1), optional planar retopology (§4.2), projection to
// a sphere of the requested radius, and bookkeeping that lets
// internal/branch later find the mesh vertex standing in for each
// outgoing arc.
package bnp

import (
	"feq/internal/config"
	"feq/internal/delaunay"
	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
	"feq/internal/profiling"
	"feq/internal/skeleton"
	"feq/internal/subdivide"
	"feq/internal/trace"
)

// Build constructs the BNP for junction n at the given radius, merges
// it into m, and records branch_to_vert and branch_best_vertex for
// every arc out of n. Returns false (and records a BNPDegenerate trace
// event) if the direction set yields no hull triangles at all — the
// §7 "skip that junction" behaviour; its arcs are simply left
// unbridged by the rest of the pipeline.
func Build(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, tr *trace.Recorder, n skeleton.NodeID, radius float64) bool {
	defer profiling.Track("bnp.Build")()

	p := g.Position(n)
	neighbours := g.Neighbours(n)
	k := len(neighbours)
	if k == 0 {
		return false
	}
	dirs := make([]frame.Vec3, k)
	for i, nn := range neighbours {
		dirs[i] = g.Position(nn).Sub(p).Normalize()
	}

	ghosts := ghostDirections(dirs, config.GetGhostPolicy())
	allDirs := make([]frame.Vec3, 0, k+len(ghosts))
	allDirs = append(allDirs, dirs...)
	allDirs = append(allDirs, ghosts...)

	tris := delaunay.Hull(allDirs)
	if len(tris) == 0 {
		tr.Record(trace.BNPDegenerate, "junction %d: no hull triangles over %d directions", n, len(allDirs))
		return false
	}

	vStart := halfedge.VertexID(m.NumVertSlots())
	fStart := halfedge.FaceID(m.NumFaceSlots())
	for _, t := range tris {
		m.AddFace([]frame.Vec3{allDirs[t[0]], allDirs[t[1]], allDirs[t[2]]})
	}
	m.StitchMesh(feqstate.StitchTolerance)

	vertFor := make([]halfedge.VertexID, k)
	for i := 0; i < k; i++ {
		vertFor[i] = findVertexNear(m, vStart, dirs[i])
	}

	if k > 3 && len(ghosts) == 0 {
		livePatch := collectInUse(m, fStart)
		retopologize(m, livePatch)
	}

	for pass := 0; pass < feqstate.RelaxationPasses; pass++ {
		relaxPass(m, vStart)
	}
	for v := vStart; int(v) < m.NumVertSlots(); v++ {
		if !m.InUseVertex(v) {
			continue
		}
		pos := m.Position(v)
		m.SetPosition(v, pos.Normalize().Mul(radius).Add(p))
	}

	for i, nn := range neighbours {
		arc := feqstate.Arc{N: n, NN: nn}
		if vertFor[i] == halfedge.InvalidVertex {
			continue
		}
		fp := m.Position(vertFor[i])
		st.SetBranchToVert(arc, [3]float64{fp[0], fp[1], fp[2]})
		st.SetBranchBestVertex(arc, vertFor[i])
	}

	localFaces := collectInUse(m, fStart)
	for _, f := range localFaces {
		st.AddNodeFace(n, f)
	}
	subdivide.IDPreservingCC(m, localFaces)
	m.StitchMesh(feqstate.StitchTolerance)

	// node face set must reflect post-subdivision reality: the
	// original localFaces IDs all still denote live (now quad) faces
	// since IDPreservingCC preserves one child's ID per parent, so no
	// further bookkeeping is required here.
	return true
}

func collectInUse(m *halfedge.Mesh, from halfedge.FaceID) []halfedge.FaceID {
	var out []halfedge.FaceID
	for f := from; int(f) < m.NumFaceSlots(); f++ {
		if m.InUseFace(f) {
			out = append(out, f)
		}
	}
	return out
}

func findVertexNear(m *halfedge.Mesh, from halfedge.VertexID, dir frame.Vec3) halfedge.VertexID {
	for v := from; int(v) < m.NumVertSlots(); v++ {
		if !m.InUseVertex(v) {
			continue
		}
		d := m.Position(v).Sub(dir)
		if d.Dot(d) < feqstate.PositionEqualityTolSq {
			return v
		}
	}
	return halfedge.InvalidVertex
}

func relaxPass(m *halfedge.Mesh, from halfedge.VertexID) {
	end := m.NumVertSlots()
	for v := from; int(v) < end; v++ {
		if !m.InUseVertex(v) {
			continue
		}
		n := vertexNormal(m, v)
		pos := n.Mul(0.5).Add(m.Position(v))
		if pos.Len() > 1e-18 {
			pos = pos.Normalize()
		}
		m.SetPosition(v, pos)
	}
}

func vertexNormal(m *halfedge.Mesh, v halfedge.VertexID) frame.Vec3 {
	var sum frame.Vec3
	count := 0
	m.WalkVertex(v)(func(h halfedge.HalfEdgeID) bool {
		sum = sum.Add(m.FaceNormal(m.Face(h)))
		count++
		return true
	})
	if count == 0 {
		return sum
	}
	return sum.Mul(1.0 / float64(count))
}

// ghostDirections implements §4.1 step 2: a 3-arc junction gets one or
// three auxiliary direction points appended so spherical Delaunay
// yields more than a single degenerate triangle.
func ghostDirections(dirs []frame.Vec3, policy config.GhostPolicy) []frame.Vec3 {
	if len(dirs) != 3 {
		return nil
	}
	if policy == config.TripleGhost {
		return []frame.Vec3{
			dirs[0].Add(dirs[1]).Normalize(),
			dirs[1].Add(dirs[2]).Normalize(),
			dirs[2].Add(dirs[0]).Normalize(),
		}
	}
	pairs := [3][2]int{{0, 1}, {1, 2}, {2, 0}}
	bestI, bestJ := pairs[0][0], pairs[0][1]
	bestDot := dirs[bestI].Dot(dirs[bestJ])
	for _, pr := range pairs[1:] {
		d := dirs[pr[0]].Dot(dirs[pr[1]])
		if d > bestDot {
			bestDot = d
			bestI, bestJ = pr[0], pr[1]
		}
	}
	return []frame.Vec3{dirs[bestI].Add(dirs[bestJ]).Normalize()}
}
