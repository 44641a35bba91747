// Package delaunay is the spherical Delaunay adapter §6 of
// SPEC_FULL.md requires: given N >= 3 unit vectors, return the index
// triples of the triangles forming the convex hull of those points on
// the sphere (equivalently, their spherical Delaunay triangulation).
//
// The core treats this as an external primitive; this package is the
// concrete implementation backing it, a brute-force "beneath-beyond"
// convex hull appropriate for the small point counts (one per outgoing
// arc at a junction) the BNP builder ever calls it with.
package delaunay

import "feq/internal/frame"

// Triangle is a triple of indices into the input point slice, wound so
// that Triangle's outward normal (via the right-hand rule over
// p[b]-p[a], p[c]-p[a]) points away from the remaining points.
type Triangle [3]int

const coplanarTol = 1e-9

// Hull computes the convex hull of pts, returned as outward-wound
// triangles. Returns nil if pts has fewer than 3 points, and no
// triangles if every triple is collinear — the §7 "BNP degenerate"
// condition. Points lying in a candidate triangle's plane (within
// coplanarTol) do not disqualify it, so for a coplanar point set every
// non-collinear triple is returned and the triangles overlap.
func Hull(pts []frame.Vec3) []Triangle {
	n := len(pts)
	if n < 3 {
		return nil
	}
	var tris []Triangle
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				t, ok := faceFromTriple(pts, i, j, k)
				if ok {
					tris = append(tris, t)
				}
			}
		}
	}
	return tris
}

// faceFromTriple reports whether (i,j,k) forms a hull face and, if so,
// returns it wound outward.
func faceFromTriple(pts []frame.Vec3, i, j, k int) (Triangle, bool) {
	a, b, c := pts[i], pts[j], pts[k]
	normal := b.Sub(a).Cross(c.Sub(a))
	if normal.Len() < coplanarTol {
		return Triangle{}, false
	}
	side := 0
	for l := range pts {
		if l == i || l == j || l == k {
			continue
		}
		d := normal.Dot(pts[l].Sub(a))
		if d > coplanarTol {
			if side < 0 {
				return Triangle{}, false
			}
			side = 1
		} else if d < -coplanarTol {
			if side > 0 {
				return Triangle{}, false
			}
			side = -1
		}
	}
	if side <= 0 {
		// every other point on the non-positive side: normal already
		// points outward (away from the rest of the point set).
		return Triangle{i, j, k}, true
	}
	// every other point on the positive side: normal points
	// inward, flip winding so the returned triangle faces outward.
	return Triangle{i, k, j}, true
}
