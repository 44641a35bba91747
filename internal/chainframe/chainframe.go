// Package chainframe implements SPEC_FULL.md §4.5: picking a seed
// node, propagating an orthonormal frame across the skeleton graph by
// BFS, and emitting the coaxial pair of cross-section faces every
// chain node contributes to the tube it sits on.
package chainframe

import (
	"math"

	"feq/internal/config"
	"feq/internal/feqstate"
	"feq/internal/frame"
	"feq/internal/halfedge"
	"feq/internal/profiling"
	"feq/internal/skeleton"
)

// Val2NodesToBoxes runs val2nodes_to_boxes: it selects the seed node,
// walks the graph breadth-first propagating a local frame, and emits
// a cross-section box at every chain node reached (and at the seed
// itself when the graph has no junction at all, per the §4.5 step 4
// traversal rule). radiusOf returns the cross-section scale for a
// given node — 0.5*average edge length for graph_to_FEQ, or the
// per-node radius array for graph_to_FEQ_radius.
func Val2NodesToBoxes(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, radiusOf func(skeleton.NodeID) float64) {
	defer profiling.Track("chainframe.Val2NodesToBoxes")()

	seed := chooseSeed(g)
	if seed == -1 {
		return
	}

	frames := map[skeleton.NodeID]frame.Frame{seed: frame.Identity()}
	axisOf := map[skeleton.NodeID]int{seed: 0}
	visited := map[skeleton.NodeID]bool{seed: true}

	// A junction-less seed has no branch face to orient against, so its
	// own box must be framed from its actual chain direction instead of
	// an arbitrary global axis — otherwise a chain lying along, say, Z
	// would get a cross-section cut in the XY-plane regardless of the
	// skeleton's real orientation.
	pretouch := g.IsJunction(seed)
	if !pretouch {
		seedFrame, seedAxis := frame.Identity(), 0
		if nbrs := g.Neighbours(seed); len(nbrs) > 0 {
			v := g.Position(seed).Sub(g.Position(nbrs[0]))
			seedFrame = frame.Propagate(frame.Identity(), v)
			seedAxis, _ = frame.DominantAxis(v)
		}
		emitBox(m, g, st, seed, seedFrame, seedAxis, radiusOf(seed))
	}

	queue := []skeleton.NodeID{seed}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		mn := frames[n]
		for _, c := range g.Neighbours(n) {
			if visited[c] {
				continue
			}
			visited[c] = true
			v := g.Position(c).Sub(g.Position(n))
			w := mn.Apply(v)
			axis, _ := frame.DominantAxis(w)
			mc := frame.Propagate(mn, v)
			frames[c] = mc
			axisOf[c] = axis
			if g.IsChain(c) {
				emitBox(m, g, st, c, mc, axis, radiusOf(c))
			}
			queue = append(queue, c)
		}
	}
}

func chooseSeed(g *skeleton.Graph) skeleton.NodeID {
	c := g.Centroid()
	if j := g.ClosestJunctionTo(c); j != -1 {
		return j
	}
	return g.ClosestNonIsolatedTo(c)
}

// emitBox implements §4.5 step 3: a coaxial pair of val2_deg[n]-gon
// faces at pos(n), lying in the plane orthogonal to local axis a of
// the frame transpose(Mn), radius-scaled by r. The faces are wound
// oppositely so each one later serves as the starting face for
// bridging toward a different one of n's (at most two) neighbours.
func emitBox(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, n skeleton.NodeID, mn frame.Frame, axis int, r float64) {
	deg, ok := st.Val2Deg(n)
	if !ok {
		deg = 4
	}
	if deg < 3 {
		deg = 3
	}
	p := g.Position(n)
	mt := mn.Transpose()

	step := angleStep(deg)
	points := make([]frame.Vec3, deg)
	for i := 0; i < deg; i++ {
		theta := float64(i) * step
		local := localPoint(axis, theta)
		points[i] = p.Add(mt.Apply(local).Mul(r))
	}

	rev := make([]frame.Vec3, deg)
	for i := 0; i < deg; i++ {
		rev[i] = points[((1-i)%deg+deg)%deg]
	}

	f1 := m.AddFace(points)
	f2 := m.AddFace(rev)
	m.StitchMesh(feqstate.StitchTolerance)

	st.MarkVal2Face(f1)
	st.MarkVal2Face(f2)
	st.AddNodeFace(n, f1)
	st.AddNodeFace(n, f2)
}

// angleStep returns the per-vertex angle increment for an N-gon
// face-point template, using the literal 2*22/(7N) approximation of
// the original implementation unless config.SetPiApproximation(false)
// has been called.
func angleStep(n int) float64 {
	if config.UsePiLiteral() {
		return 2.0 * (22.0 / 7.0) / float64(n)
	}
	return 2.0 * math.Pi / float64(n)
}

// localPoint places 0 on component axis and (0.5*cos theta, 0.5*sin
// theta) on the other two components in ascending index order.
func localPoint(axis int, theta float64) frame.Vec3 {
	var v frame.Vec3
	c, s := 0.5*math.Cos(theta), 0.5*math.Sin(theta)
	vals := [2]float64{c, s}
	j := 0
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		v[i] = vals[j]
		j++
	}
	return v
}
