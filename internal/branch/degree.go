// Package branch implements the per-junction bookkeeping of
// SPEC_FULL.md §4.3/§4.4: computing the target cross-section degree
// for every outgoing arc, then picking and reducing the BNP face that
// will carry that arc's bridge.
package branch

import (
	"feq/internal/feqstate"
	"feq/internal/halfedge"
	"feq/internal/profiling"
	"feq/internal/skeleton"
)

// InitBranchDegree implements §4.3. For every junction and each of its
// arcs it walks the chain beyond that arc until a junction or leaf is
// reached, reconciles the two end valencies into jn_deg/path_deg, and
// records branch_deg for the arc plus val2_deg for every chain node
// walked. Graphs with no junction at all get every unrecorded chain
// node's val2_deg forced to 4, per the junction-less fallback.
func InitBranchDegree(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State) {
	defer profiling.Track("branch.InitBranchDegree")()

	hasJunction := g.HasJunction()
	g.Nodes(func(n skeleton.NodeID) bool {
		if g.IsJunction(n) {
			for _, nn := range g.Neighbours(n) {
				computeArcDegree(m, g, st, n, nn)
			}
		}
		return true
	})
	if !hasJunction {
		g.Nodes(func(n skeleton.NodeID) bool {
			if _, ok := st.Val2Deg(n); !ok {
				st.SetVal2Deg(n, 4)
			}
			return true
		})
	}
}

func computeArcDegree(m *halfedge.Mesh, g *skeleton.Graph, st *feqstate.State, n, nn skeleton.NodeID) {
	arc := feqstate.Arc{N: n, NN: nn}
	s := valencyOf(m, st, arc)

	path, other, prevChain, reachedLeaf := walkChain(g, n, nn)

	d := s
	if !reachedLeaf {
		otherArc := feqstate.Arc{N: other, NN: prevChain}
		d = valencyOf(m, st, otherArc)
	}

	var jnDeg, pathDeg int
	switch {
	case d < s:
		jnDeg, pathDeg = d-1, 2*d
	case d == s:
		jnDeg, pathDeg = d, 2*d
	default:
		jnDeg, pathDeg = s-1, 2*s
	}

	st.SetBranchDeg(arc, jnDeg)
	for _, c := range path {
		st.SetVal2Deg(c, pathDeg)
	}
}

func valencyOf(m *halfedge.Mesh, st *feqstate.State, arc feqstate.Arc) int {
	v := st.BranchBestVertex(arc)
	if v == halfedge.InvalidVertex {
		return 0
	}
	return m.Valency(v)
}

// walkChain walks from start through next and onward while each
// intermediate node is a chain node with an unambiguous forward
// neighbour, stopping at either another junction (returning it as
// other, with prevChain the chain node immediately before it, or
// start itself if next is already a junction) or a leaf/dead end
// (reachedLeaf true). path collects every chain node visited along
// the way, in walk order, for val2_deg assignment.
func walkChain(g *skeleton.Graph, start, next skeleton.NodeID) (path []skeleton.NodeID, other, prevChain skeleton.NodeID, reachedLeaf bool) {
	prev := start
	cur := next
	for {
		if g.IsJunction(cur) {
			return path, cur, prev, false
		}
		path = append(path, cur)
		if g.IsLeaf(cur) {
			return path, -1, prev, true
		}
		fwd := skeleton.NodeID(-1)
		for _, nb := range g.Neighbours(cur) {
			if nb != prev {
				fwd = nb
				break
			}
		}
		if fwd == -1 {
			return path, -1, prev, true
		}
		prev, cur = cur, fwd
	}
}
