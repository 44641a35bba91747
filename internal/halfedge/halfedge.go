// Package halfedge implements the half-edge mesh adapter the FEQ core
// algorithm is written against: add_face, split_face_by_vertex,
// split_face_by_edge, split_edge, merge_faces, merge_one_ring,
// flip_edge, bridge_faces, stitch_mesh, plus walkers and geometry
// queries. IDs are arena indices, never pointers, so a kept ID stays
// meaningful (or becomes detectably stale via InUse) across merges
// that invalidate other IDs, per the arena-index design note in
// SPEC_FULL.md §9.
package halfedge

import (
	"math"

	"feq/internal/frame"
)

type VertexID int
type HalfEdgeID int
type FaceID int

const (
	InvalidVertex   VertexID   = -1
	InvalidHalfEdge HalfEdgeID = -1
	InvalidFace     FaceID     = -1
)

type vertex struct {
	pos    frame.Vec3
	edge   HalfEdgeID // one half-edge with Origin == this vertex
	inUse  bool
	tagVal int // scratch slot for valency caches; unused elsewhere
}

type halfEdge struct {
	origin VertexID
	twin   HalfEdgeID
	next   HalfEdgeID
	prev   HalfEdgeID
	face   FaceID
	inUse  bool
}

type face struct {
	edge  HalfEdgeID
	inUse bool
}

// Mesh is a 2-manifold half-edge mesh. All mutating operations are
// documented in terms of the §6 adapter contract; the package does not
// know anything about skeletons, BNPs or bridging — it is the pure
// mesh-surgery layer the rest of the module is built on.
type Mesh struct {
	verts []vertex
	edges []halfEdge
	faces []face
}

func NewMesh() *Mesh {
	return &Mesh{}
}

// --- basic accessors -------------------------------------------------

func (m *Mesh) InUseVertex(v VertexID) bool {
	return v >= 0 && int(v) < len(m.verts) && m.verts[v].inUse
}
func (m *Mesh) InUseEdge(h HalfEdgeID) bool {
	return h >= 0 && int(h) < len(m.edges) && m.edges[h].inUse
}
func (m *Mesh) InUseFace(f FaceID) bool {
	return f >= 0 && int(f) < len(m.faces) && m.faces[f].inUse
}

func (m *Mesh) Position(v VertexID) frame.Vec3 { return m.verts[v].pos }
func (m *Mesh) SetPosition(v VertexID, p frame.Vec3) {
	m.verts[v].pos = p
}

func (m *Mesh) FaceEdge(f FaceID) HalfEdgeID { return m.faces[f].edge }

func (m *Mesh) Next(h HalfEdgeID) HalfEdgeID { return m.edges[h].next }
func (m *Mesh) Prev(h HalfEdgeID) HalfEdgeID { return m.edges[h].prev }
func (m *Mesh) Twin(h HalfEdgeID) HalfEdgeID { return m.edges[h].twin }
func (m *Mesh) Origin(h HalfEdgeID) VertexID { return m.edges[h].origin }
func (m *Mesh) Dest(h HalfEdgeID) VertexID   { return m.edges[m.edges[h].next].origin }
func (m *Mesh) Face(h HalfEdgeID) FaceID     { return m.edges[h].face }

// NumFaceSlots and NumVertSlots let callers snapshot arena bounds
// before a pass that must only touch pre-existing entities (§4.7).
func (m *Mesh) NumFaceSlots() int  { return len(m.faces) }
func (m *Mesh) NumEdgeSlots() int  { return len(m.edges) }
func (m *Mesh) NumVertSlots() int  { return len(m.verts) }

// Faces iterates every in-use face ID in ascending arena order.
func (m *Mesh) Faces(yield func(FaceID) bool) {
	for i := range m.faces {
		if m.faces[i].inUse {
			if !yield(FaceID(i)) {
				return
			}
		}
	}
}

// Vertices iterates every in-use vertex ID in ascending arena order.
func (m *Mesh) Vertices(yield func(VertexID) bool) {
	for i := range m.verts {
		if m.verts[i].inUse {
			if !yield(VertexID(i)) {
				return
			}
		}
	}
}

// --- geometry queries --------------------------------------------------

// FaceLoop returns the vertices of f in face-loop (CCW) order.
func (m *Mesh) FaceLoop(f FaceID) []VertexID {
	start := m.faces[f].edge
	out := make([]VertexID, 0, 4)
	h := start
	for {
		out = append(out, m.edges[h].origin)
		h = m.edges[h].next
		if h == start {
			break
		}
	}
	return out
}

// FaceSize returns the number of edges bounding f.
func (m *Mesh) FaceSize(f FaceID) int {
	start := m.faces[f].edge
	n := 0
	h := start
	for {
		n++
		h = m.edges[h].next
		if h == start {
			break
		}
	}
	return n
}

// FaceCentre returns the average position of f's loop vertices.
func (m *Mesh) FaceCentre(f FaceID) frame.Vec3 {
	loop := m.FaceLoop(f)
	var sum frame.Vec3
	for _, v := range loop {
		sum = sum.Add(m.verts[v].pos)
	}
	return sum.Mul(1.0 / float64(len(loop)))
}

// FaceNormal returns the Newell-method normal of f's loop, normalised.
func (m *Mesh) FaceNormal(f FaceID) frame.Vec3 {
	loop := m.FaceLoop(f)
	var n frame.Vec3
	for i := range loop {
		a := m.verts[loop[i]].pos
		b := m.verts[loop[(i+1)%len(loop)]].pos
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	if n.Len() < 1e-18 {
		return n
	}
	return n.Normalize()
}

// Valency returns the number of edges incident to v.
func (m *Mesh) Valency(v VertexID) int {
	n := 0
	m.WalkVertex(v)(func(HalfEdgeID) bool { n++; return true })
	return n
}

// --- walkers -----------------------------------------------------------

// WalkFace returns an iterator over the half-edges bounding f, in loop
// order, restartable (a fresh call always starts from f's anchor edge).
func (m *Mesh) WalkFace(f FaceID) func(yield func(HalfEdgeID) bool) {
	return func(yield func(HalfEdgeID) bool) {
		start := m.faces[f].edge
		h := start
		for {
			if !yield(h) {
				return
			}
			h = m.edges[h].next
			if h == start {
				return
			}
		}
	}
}

// WalkVertex returns an iterator over the half-edges whose origin is v,
// circulating via twin->next. Restartable like WalkFace.
func (m *Mesh) WalkVertex(v VertexID) func(yield func(HalfEdgeID) bool) {
	return func(yield func(HalfEdgeID) bool) {
		start := m.verts[v].edge
		if start == InvalidHalfEdge {
			return
		}
		h := start
		for {
			if !yield(h) {
				return
			}
			twin := m.edges[h].twin
			if twin == InvalidHalfEdge {
				return
			}
			h = m.edges[twin].next
			if h == start {
				return
			}
		}
	}
}

// --- mutation ------------------------------------------------------------

func (m *Mesh) newVertex(p frame.Vec3) VertexID {
	id := VertexID(len(m.verts))
	m.verts = append(m.verts, vertex{pos: p, edge: InvalidHalfEdge, inUse: true})
	return id
}

func (m *Mesh) newHalfEdge(origin VertexID, f FaceID) HalfEdgeID {
	id := HalfEdgeID(len(m.edges))
	m.edges = append(m.edges, halfEdge{origin: origin, twin: InvalidHalfEdge, face: f, inUse: true})
	if m.verts[origin].edge == InvalidHalfEdge {
		m.verts[origin].edge = id
	}
	return id
}

func (m *Mesh) newFace(edge HalfEdgeID) FaceID {
	id := FaceID(len(m.faces))
	m.faces = append(m.faces, face{edge: edge, inUse: true})
	return id
}

// AddFace creates a new face whose loop visits positions in order,
// each position getting a brand-new vertex (coincident vertices are
// reconciled later by StitchMesh). Returns the new face's ID.
func (m *Mesh) AddFace(positions []frame.Vec3) FaceID {
	n := len(positions)
	verts := make([]VertexID, n)
	for i, p := range positions {
		verts[i] = m.newVertex(p)
	}
	f := m.newFace(InvalidHalfEdge)
	edges := make([]HalfEdgeID, n)
	for i := range verts {
		edges[i] = m.newHalfEdge(verts[i], f)
	}
	for i := 0; i < n; i++ {
		m.edges[edges[i]].next = edges[(i+1)%n]
		m.edges[edges[i]].prev = edges[(i+n-1)%n]
	}
	m.faces[f].edge = edges[0]
	return f
}

// AddFaceVerts creates a new face over already-existing vertices, used
// when callers (e.g. bridge stitching) know the loop shares vertices
// with other faces. Twins are not inferred; call StitchMesh to pair
// them up from coincident or matching-endpoint half-edges.
func (m *Mesh) AddFaceVerts(verts []VertexID) FaceID {
	n := len(verts)
	f := m.newFace(InvalidHalfEdge)
	edges := make([]HalfEdgeID, n)
	for i := range verts {
		edges[i] = m.newHalfEdge(verts[i], f)
	}
	for i := 0; i < n; i++ {
		m.edges[edges[i]].next = edges[(i+1)%n]
		m.edges[edges[i]].prev = edges[(i+n-1)%n]
	}
	m.faces[f].edge = edges[0]
	return f
}

// SplitFaceByVertex adds a centre vertex at f's centroid and replaces f
// with a fan of triangles, one per original edge. The first triangle
// keeps f's face ID so identity survives (§4.7); later triangles get
// fresh IDs. Returns the centre vertex and the spoke half-edges
// (centre -> original vertex) created by the split, which the
// ID-preserving subdivision pass dissolves back together once edge
// midpoints exist.
func (m *Mesh) SplitFaceByVertex(f FaceID) (centre VertexID, spokes []HalfEdgeID, newFaces []FaceID) {
	// Collect the ORIGINAL boundary half-edges (not just vertices): they
	// keep their existing twin links to neighbouring faces, so only the
	// n new radial edges need wiring.
	origEdges := make([]HalfEdgeID, 0, 4)
	m.WalkFace(f)(func(h HalfEdgeID) bool {
		origEdges = append(origEdges, h)
		return true
	})
	n := len(origEdges)
	centre = m.newVertex(m.FaceCentre(f))
	newFaces = make([]FaceID, n)
	spokes = make([]HalfEdgeID, n)

	verts := make([]VertexID, n)
	for i, e := range origEdges {
		verts[i] = m.edges[e].origin
	}

	// radial[i]: centre -> verts[i]; radialRev[i]: verts[i] -> centre.
	radial := make([]HalfEdgeID, n)
	radialRev := make([]HalfEdgeID, n)
	for i := 0; i < n; i++ {
		radial[i] = m.newHalfEdge(centre, InvalidFace)
		radialRev[i] = m.newHalfEdge(verts[i], InvalidFace)
		m.edges[radial[i]].twin = radialRev[i]
		m.edges[radialRev[i]].twin = radial[i]
	}
	spokes = radial

	for i := 0; i < n; i++ {
		var fid FaceID
		if i == 0 {
			fid = f
		} else {
			fid = m.newFace(InvalidHalfEdge)
		}
		newFaces[i] = fid

		e := origEdges[i]
		next := radialRev[(i+1)%n]
		prev := radial[i]

		m.edges[e].next = next
		m.edges[next].prev = e
		m.edges[next].next = prev
		m.edges[prev].prev = next
		m.edges[prev].next = e
		m.edges[e].prev = prev

		m.edges[e].face = fid
		m.edges[next].face = fid
		m.edges[prev].face = fid
		m.faces[fid].edge = e
	}
	return centre, spokes, newFaces
}

// SplitEdge inserts a midpoint vertex into h (and its twin, if any),
// extending both adjacent faces by one edge. Returns the new vertex.
func (m *Mesh) SplitEdge(h HalfEdgeID) VertexID {
	a := m.edges[h].origin
	b := m.Dest(h)
	mid := m.newVertex(m.verts[a].pos.Add(m.verts[b].pos).Mul(0.5))

	twin := m.edges[h].twin
	newH := m.newHalfEdge(mid, m.edges[h].face)
	m.spliceAfter(h, newH)

	if twin != InvalidHalfEdge {
		newTwin := m.newHalfEdge(mid, m.edges[twin].face)
		m.spliceAfter(twin, newTwin)
		m.edges[h].twin = newTwin
		m.edges[newTwin].twin = h
		m.edges[twin].twin = newH
		m.edges[newH].twin = twin
	}
	return mid
}

// spliceAfter inserts a new half-edge immediately after h in h's face
// loop, with origin set by the caller before calling spliceAfter is not
// required: newH.origin is already set; this just wires next/prev.
func (m *Mesh) spliceAfter(h, newH HalfEdgeID) {
	next := m.edges[h].next
	m.edges[h].next = newH
	m.edges[newH].prev = h
	m.edges[newH].next = next
	m.edges[next].prev = newH
	m.edges[newH].face = m.edges[h].face
}

// SplitFaceByEdge splits f into two faces by inserting a new edge
// between v1 and v2, both of which must already lie on f's loop. The
// loop segment starting at v2 (inclusive) up to v1 (exclusive, walking
// forward), closed by the new v1->v2 edge, keeps f's ID; the segment
// from v1 up to v2, closed by the new v2->v1 edge, gets a new face ID.
func (m *Mesh) SplitFaceByEdge(f FaceID, v1, v2 VertexID) FaceID {
	start := m.faces[f].edge
	var h1, h2 HalfEdgeID = InvalidHalfEdge, InvalidHalfEdge
	h := start
	for {
		if m.edges[h].origin == v1 {
			h1 = h
		}
		if m.edges[h].origin == v2 {
			h2 = h
		}
		h = m.edges[h].next
		if h == start {
			break
		}
	}
	e12 := m.newHalfEdge(v1, f)
	e21 := m.newHalfEdge(v2, InvalidFace)
	m.edges[e12].twin = e21
	m.edges[e21].twin = e12

	prev1, next2 := m.edges[h1].prev, h2
	prev2, next1 := m.edges[h2].prev, h1

	m.edges[prev1].next = e12
	m.edges[e12].prev = prev1
	m.edges[e12].next = next2
	m.edges[next2].prev = e12

	m.edges[prev2].next = e21
	m.edges[e21].prev = prev2
	m.edges[e21].next = next1
	m.edges[next1].prev = e21

	newFace := m.newFace(e21)
	m.faces[f].edge = e12
	hh := e21
	for {
		m.edges[hh].face = newFace
		hh = m.edges[hh].next
		if hh == e21 {
			break
		}
	}
	hh = e12
	for {
		m.edges[hh].face = f
		hh = m.edges[hh].next
		if hh == e12 {
			break
		}
	}
	return newFace
}

// MergeFaces dissolves the shared edge h (and its twin), merging the
// two faces it borders into one. The surviving face keeps ID f if f is
// one of the two faces bordering h; otherwise the face on h's side
// survives. The other face's ID is marked not-in-use.
func (m *Mesh) MergeFaces(f FaceID, h HalfEdgeID) FaceID {
	twin := m.edges[h].twin
	fa := m.edges[h].face
	fb := InvalidFace
	if twin != InvalidHalfEdge {
		fb = m.edges[twin].face
	}
	survive := fa
	dead := fb
	if f == fb {
		survive, dead = fb, fa
	}

	prevH, nextH := m.edges[h].prev, m.edges[h].next
	if twin != InvalidHalfEdge {
		prevT, nextT := m.edges[twin].prev, m.edges[twin].next
		m.edges[prevH].next = nextT
		m.edges[nextT].prev = prevH
		m.edges[prevT].next = nextH
		m.edges[nextH].prev = prevT
		if m.verts[m.edges[h].origin].edge == h || m.verts[m.edges[h].origin].edge == twin {
			m.verts[m.edges[h].origin].edge = nextT
		}
		if m.verts[m.edges[twin].origin].edge == twin || m.verts[m.edges[twin].origin].edge == h {
			m.verts[m.edges[twin].origin].edge = nextH
		}
		m.edges[twin].inUse = false
	} else {
		// open boundary edge: just drop it from the loop
		m.edges[prevH].next = nextH
		m.edges[nextH].prev = prevH
	}
	m.edges[h].inUse = false

	if dead != InvalidFace && dead != survive {
		hh := nextH
		for {
			m.edges[hh].face = survive
			hh = m.edges[hh].next
			if hh == nextH {
				break
			}
		}
		m.faces[dead].inUse = false
	}
	m.faces[survive].edge = nextH
	return survive
}

// MergeOneRing merges every face in v's star into a single face,
// dissolving all edges incident to v in the process. Returns the
// surviving face.
func (m *Mesh) MergeOneRing(v VertexID) FaceID {
	spokes := make([]HalfEdgeID, 0, 6)
	m.WalkVertex(v)(func(h HalfEdgeID) bool {
		spokes = append(spokes, h)
		return true
	})
	if len(spokes) == 0 {
		return InvalidFace
	}
	survive := m.edges[spokes[0]].face
	for i := 1; i < len(spokes); i++ {
		h := spokes[i]
		if !m.edges[h].inUse {
			continue
		}
		survive = m.MergeFaces(survive, m.edges[h].prev)
	}
	// the last spoke's own edge (from v) also needs dissolving to fully
	// remove v from the loop; find any remaining edge rooted at v.
	for {
		found := InvalidHalfEdge
		m.WalkVertex(v)(func(h HalfEdgeID) bool {
			found = h
			return false
		})
		if found == InvalidHalfEdge || !m.edges[found].inUse {
			break
		}
		survive = m.MergeFaces(survive, found)
	}
	m.verts[v].inUse = false
	return survive
}

// FlipEdge replaces the diagonal h (shared by two triangles) with the
// other diagonal of the resulting quad, used by planar retopology.
func (m *Mesh) FlipEdge(h HalfEdgeID) {
	twin := m.edges[h].twin
	if twin == InvalidHalfEdge {
		return
	}
	fa, fb := m.edges[h].face, m.edges[twin].face
	aNext, aPrev := m.edges[h].next, m.edges[h].prev
	bNext, bPrev := m.edges[twin].next, m.edges[twin].prev

	newA := m.edges[aNext].origin // apex of triangle a opposite h
	newB := m.edges[bNext].origin // apex of triangle b opposite twin

	m.edges[h].origin = newB
	m.edges[twin].origin = newA

	m.edges[h].next = aPrev
	m.edges[aPrev].prev = h
	m.edges[aPrev].next = bNext
	m.edges[bNext].prev = aPrev
	m.edges[bNext].next = h
	m.edges[h].prev = bNext

	m.edges[twin].next = bPrev
	m.edges[bPrev].prev = twin
	m.edges[bPrev].next = aNext
	m.edges[aNext].prev = bPrev
	m.edges[aNext].next = twin
	m.edges[twin].prev = aNext

	m.edges[aPrev].face = fa
	m.edges[bNext].face = fa
	m.edges[h].face = fa
	m.edges[bPrev].face = fb
	m.edges[aNext].face = fb
	m.edges[twin].face = fb

	m.faces[fa].edge = h
	m.faces[fb].edge = twin

	fixVertEdge := func(v VertexID, preferred HalfEdgeID) {
		m.verts[v].edge = preferred
	}
	fixVertEdge(newB, h)
	fixVertEdge(newA, twin)
}

// BridgeFaces welds two equal-sized, open faces into a ring of quads
// connecting corresponding vertex pairs, consuming both input faces.
// pairs[i] = {a, b} means loop-vertex a on f0 connects to loop-vertex b
// on f1. Returns the IDs of the quad faces created (length == L).
func (m *Mesh) BridgeFaces(f0, f1 FaceID, pairs [][2]VertexID) []FaceID {
	// Retire both input faces' half-edges and free their neighbours'
	// twins so StitchTopologyOnly can pair those with the new quads.
	for _, f := range []FaceID{f0, f1} {
		m.WalkFace(f)(func(h HalfEdgeID) bool {
			if t := m.edges[h].twin; t != InvalidHalfEdge && m.edges[t].twin == h {
				m.edges[t].twin = InvalidHalfEdge
			}
			m.edges[h].inUse = false
			if o := m.edges[h].origin; m.verts[o].edge == h {
				m.verts[o].edge = InvalidHalfEdge
			}
			return true
		})
	}
	m.faces[f0].inUse = false
	m.faces[f1].inUse = false

	n := len(pairs)
	out := make([]FaceID, 0, n)
	for i := 0; i < n; i++ {
		a0, b0 := pairs[i][0], pairs[i][1]
		a1, b1 := pairs[(i+1)%n][0], pairs[(i+1)%n][1]
		quad := m.AddFaceVerts([]VertexID{a0, a1, b1, b0})
		out = append(out, quad)
	}
	m.StitchTopologyOnly()
	return out
}

// StitchTopologyOnly pairs up twins for any half-edge lacking one by
// matching directed (origin,dest) pairs against their reverse, without
// moving any vertex. Used after BridgeFaces, whose new quads share
// vertices (not just positions) with their neighbours.
func (m *Mesh) StitchTopologyOnly() {
	type key struct{ a, b VertexID }
	pending := make(map[key]HalfEdgeID)
	for i := range m.edges {
		h := HalfEdgeID(i)
		if !m.edges[h].inUse || m.edges[h].twin != InvalidHalfEdge {
			continue
		}
		o, d := m.edges[h].origin, m.Dest(h)
		if partner, ok := pending[key{d, o}]; ok {
			m.edges[h].twin = partner
			m.edges[partner].twin = h
			delete(pending, key{d, o})
		} else {
			pending[key{o, d}] = h
		}
	}
}

// StitchMesh merges vertices within squared-distance tol of each other
// and re-pairs half-edge twins accordingly. Deterministic: vertices are
// visited in ascending ID order and the first vertex seen in a merged
// cluster becomes its representative (§5 reproducibility requirement).
func (m *Mesh) StitchMesh(tol float64) {
	cell := math.Sqrt(tol)
	if cell <= 0 {
		cell = 1e-12
	}
	type cellKey [3]int64
	buckets := make(map[cellKey][]VertexID)
	keyOf := func(p frame.Vec3) cellKey {
		return cellKey{
			int64(math.Floor(p[0] / cell)),
			int64(math.Floor(p[1] / cell)),
			int64(math.Floor(p[2] / cell)),
		}
	}
	redirect := make([]VertexID, len(m.verts))
	for i := range redirect {
		redirect[i] = VertexID(i)
	}

	for i := range m.verts {
		v := VertexID(i)
		if !m.verts[v].inUse {
			continue
		}
		p := m.verts[v].pos
		k := keyOf(p)
		found := InvalidVertex
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					nk := cellKey{k[0] + dx, k[1] + dy, k[2] + dz}
					for _, cand := range buckets[nk] {
						d := m.verts[cand].pos.Sub(p)
						if d.Dot(d) < tol {
							found = cand
							break search
						}
					}
				}
			}
		}
		if found != InvalidVertex {
			redirect[v] = found
		} else {
			buckets[k] = append(buckets[k], v)
		}
	}

	for i := range m.edges {
		h := HalfEdgeID(i)
		if !m.edges[h].inUse {
			continue
		}
		o := m.edges[h].origin
		if redirect[o] != o {
			m.edges[h].origin = redirect[o]
			m.verts[o].inUse = false
		}
	}
	for i := range redirect {
		if redirect[i] != VertexID(i) {
			m.verts[VertexID(i)].edge = InvalidHalfEdge
		}
	}
	for i := range m.verts {
		v := VertexID(i)
		if m.verts[v].inUse && m.verts[v].edge == InvalidHalfEdge {
			for j := range m.edges {
				if m.edges[j].inUse && m.edges[j].origin == v {
					m.verts[v].edge = HalfEdgeID(j)
					break
				}
			}
		}
	}
	m.StitchTopologyOnly()
}

// Cleanup compacts vertex/edge/face arenas, dropping not-in-use slots
// and remapping IDs. Returns maps from old to new IDs for callers (e.g.
// feqstate maps) that must follow the remap; most of this module's
// passes avoid needing Cleanup mid-conversion by checking InUse*
// instead, per the arena-index design note.
func (m *Mesh) Cleanup() (vmap map[VertexID]VertexID, fmap map[FaceID]FaceID) {
	vmap = make(map[VertexID]VertexID)
	fmap = make(map[FaceID]FaceID)
	newVerts := make([]vertex, 0, len(m.verts))
	for i, v := range m.verts {
		if v.inUse {
			vmap[VertexID(i)] = VertexID(len(newVerts))
			newVerts = append(newVerts, v)
		}
	}
	newFaces := make([]face, 0, len(m.faces))
	for i, f := range m.faces {
		if f.inUse {
			fmap[FaceID(i)] = FaceID(len(newFaces))
			newFaces = append(newFaces, f)
		}
	}
	newEdges := make([]halfEdge, 0, len(m.edges))
	emap := make(map[HalfEdgeID]HalfEdgeID)
	for i, e := range m.edges {
		if e.inUse {
			emap[HalfEdgeID(i)] = HalfEdgeID(len(newEdges))
			newEdges = append(newEdges, e)
		}
	}
	for i := range newEdges {
		e := &newEdges[i]
		e.origin = vmap[e.origin]
		e.next = emap[e.next]
		e.prev = emap[e.prev]
		if e.twin != InvalidHalfEdge {
			e.twin = emap[e.twin]
		}
		e.face = fmap[e.face]
	}
	for i := range newVerts {
		if newVerts[i].edge != InvalidHalfEdge {
			newVerts[i].edge = emap[newVerts[i].edge]
		}
	}
	for i := range newFaces {
		newFaces[i].edge = emap[newFaces[i].edge]
	}
	m.verts, m.edges, m.faces = newVerts, newEdges, newFaces
	return vmap, fmap
}
