// Package feq converts an abstract 3D skeletal graph into a
// watertight, quad-dominant surface mesh: a branch node polyhedron at
// every junction, tubed cross-sections along every chain, bridged
// together and quad-finished at the leaves. See SPEC_FULL.md for the
// full component breakdown; this file only wires the pipeline stages
// together in dependency order.
package feq

import (
	"feq/internal/bnp"
	"feq/internal/branch"
	"feq/internal/bridge"
	"feq/internal/chainframe"
	"feq/internal/feqstate"
	"feq/internal/halfedge"
	"feq/internal/profiling"
	"feq/internal/skeleton"
	"feq/internal/subdivide"
	"feq/internal/trace"
)

// GraphToFEQ converts g into an FEQ mesh with uniform BNP/tube radius
// 0.5 * g.AverageEdgeLength(). Equivalent to GraphToFEQRadius with a
// nil radius slice.
func GraphToFEQ(g *skeleton.Graph) *halfedge.Mesh {
	return GraphToFEQRadius(g, nil)
}

// GraphToFEQRadius converts g into an FEQ mesh, optionally overriding
// the default radius per node: the effective BNP radius at node n is
// max(0.5*average_edge_length, radius[n]); the chain-node cross
// section scale at n is radius[n] directly. Nodes past the end of the
// radius slice (every node, for a nil slice) fall back to
// 0.5*average_edge_length.
func GraphToFEQRadius(g *skeleton.Graph, radius []float64) *halfedge.Mesh {
	m, _ := convert(g, radius, nil)
	return m
}

// GraphToFEQWithTrace is GraphToFEQ plus a diagnostic channel: tr
// receives a trace.Event for every §7 condition the conversion hits
// (degenerate BNP, bridge mismatch, pole conflict). tr may be nil.
func GraphToFEQWithTrace(g *skeleton.Graph, tr *trace.Recorder) *halfedge.Mesh {
	m, _ := convert(g, nil, tr)
	return m
}

// GraphToFEQRadiusWithTrace is GraphToFEQRadius plus a diagnostic
// channel; see GraphToFEQWithTrace.
func GraphToFEQRadiusWithTrace(g *skeleton.Graph, radius []float64, tr *trace.Recorder) *halfedge.Mesh {
	m, _ := convert(g, radius, tr)
	return m
}

func convert(g *skeleton.Graph, radius []float64, tr *trace.Recorder) (*halfedge.Mesh, *feqstate.State) {
	profiling.Reset()
	defer profiling.Track("feq.convert")()

	m := halfedge.NewMesh()
	if !g.HasEdges() {
		return m, nil
	}

	base := 0.5 * g.AverageEdgeLength()
	// bnpRadiusAt is construct_bnps_radius: the polyhedron never shrinks
	// below the skeleton's own scale, whatever radius[n] says.
	bnpRadiusAt := func(n skeleton.NodeID) float64 {
		if int(n) < len(radius) && radius[n] > base {
			return radius[n]
		}
		return base
	}
	// chainRadiusAt is val2nodes_to_boxes_radius: the tube cross-section
	// follows radius[n] directly, with no floor against base — only a
	// missing or out-of-range entry falls back to it.
	chainRadiusAt := func(n skeleton.NodeID) float64 {
		if int(n) < len(radius) {
			return radius[n]
		}
		return base
	}

	st := feqstate.New()

	g.Nodes(func(n skeleton.NodeID) bool {
		if g.IsJunction(n) {
			bnp.Build(m, g, st, tr, n, bnpRadiusAt(n))
		}
		return true
	})

	branch.InitBranchDegree(m, g, st)
	branch.Branch2Face(m, g, st)

	chainframe.Val2NodesToBoxes(m, g, st, chainRadiusAt)

	bridge.Run(m, g, st, tr)

	subdivide.QuadMeshLeaves(m, st)
	m.StitchMesh(feqstate.StitchTolerance)

	return m, st
}
