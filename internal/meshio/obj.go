// Package meshio writes the result of a conversion out to disk. It
// sits outside the core algorithm boundary per SPEC_FULL.md §2 — the
// core never imports it, only cmd/feqgen and tests do.
package meshio

import (
	"bufio"
	"fmt"
	"io"

	"feq/internal/halfedge"
)

// WriteOBJ writes m as a Wavefront OBJ: one "v" line per vertex in
// ascending arena order, then one "f" line per face listing its loop
// vertices as 1-based OBJ indices.
func WriteOBJ(w io.Writer, m *halfedge.Mesh) error {
	bw := bufio.NewWriter(w)

	index := make(map[halfedge.VertexID]int)
	n := 0
	m.Vertices(func(v halfedge.VertexID) bool {
		n++
		index[v] = n
		p := m.Position(v)
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2]); err != nil {
			return false
		}
		return true
	})

	var faceErr error
	m.Faces(func(f halfedge.FaceID) bool {
		loop := m.FaceLoop(f)
		if _, err := bw.WriteString("f"); err != nil {
			faceErr = err
			return false
		}
		for _, v := range loop {
			if _, err := fmt.Fprintf(bw, " %d", index[v]); err != nil {
				faceErr = err
				return false
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			faceErr = err
			return false
		}
		return true
	})
	if faceErr != nil {
		return faceErr
	}
	return bw.Flush()
}
