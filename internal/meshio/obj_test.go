package meshio

import (
	"bytes"
	"strings"
	"testing"

	"feq/internal/frame"
	"feq/internal/halfedge"
)

func TestWriteOBJProducesOneVLinePerVertexAndFLinePerFace(t *testing.T) {
	m := halfedge.NewMesh()
	m.AddFace([]frame.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatalf("WriteOBJ returned an error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	vCount, fCount := 0, 0
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "v "):
			vCount++
		case strings.HasPrefix(l, "f"):
			fCount++
			fields := strings.Fields(l)
			if len(fields) != 5 {
				t.Errorf("face line %q has %d fields, want 5 (f + 4 indices)", l, len(fields))
			}
		}
	}
	if vCount != 4 {
		t.Errorf("expected 4 vertex lines, got %d", vCount)
	}
	if fCount != 1 {
		t.Errorf("expected 1 face line, got %d", fCount)
	}
}

func TestWriteOBJIndicesAreOneBasedAndInRange(t *testing.T) {
	m := halfedge.NewMesh()
	m.AddFace([]frame.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatalf("WriteOBJ returned an error: %v", err)
	}
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.HasPrefix(l, "f") {
			continue
		}
		for _, field := range strings.Fields(l)[1:] {
			if field == "0" {
				t.Errorf("found a 0 vertex index in face line %q; OBJ indices are 1-based", l)
			}
		}
	}
}
