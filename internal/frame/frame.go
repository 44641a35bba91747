// Package frame provides the small set of 3D algebra primitives the
// skeleton-to-FEQ conversion needs on top of github.com/go-gl/mathgl/mgl64:
// an orthonormal frame type and the quaternion-driven propagation step
// used to carry a local coordinate frame along a graph traversal.
package frame

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 and Quat are re-exported so callers outside this package never
// have to import mgl64 directly for the types that cross the frame API.
type (
	Vec3 = mgl64.Vec3
	Quat = mgl64.Quat
)

// Frame is an orthonormal 3x3 basis, stored as its three row vectors.
// Row i is the direction the i-th local axis points in world space.
type Frame struct {
	Rows [3]Vec3
}

// Identity returns the world-aligned frame.
func Identity() Frame {
	return Frame{Rows: [3]Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

// Apply computes M*v treating each row of M as a basis vector, i.e.
// the standard row-major matrix-vector product.
func (f Frame) Apply(v Vec3) Vec3 {
	return Vec3{f.Rows[0].Dot(v), f.Rows[1].Dot(v), f.Rows[2].Dot(v)}
}

// Transpose returns the frame whose columns are this frame's rows.
func (f Frame) Transpose() Frame {
	var out Frame
	for r := 0; r < 3; r++ {
		out.Rows[r] = Vec3{f.Rows[0][r], f.Rows[1][r], f.Rows[2][r]}
	}
	return out
}

// Rotate applies quaternion q to every row of f, returning the rotated
// frame. This is the row-vector equivalent of transpose(q*transpose(f)).
func (f Frame) Rotate(q Quat) Frame {
	var out Frame
	for i, row := range f.Rows {
		out.Rows[i] = q.Rotate(row)
	}
	return out
}

// Scale returns the frame with each row scaled by s, matching the
// S = scale(r) construction used when projecting a chain-node frame to
// a given cross-section radius.
func (f Frame) Scale(s float64) Frame {
	var out Frame
	for i, row := range f.Rows {
		out.Rows[i] = row.Mul(s)
	}
	return out
}

// DominantAxis returns the index of the component of w with the greatest
// magnitude, and that component's sign. Called with w = f.Apply(v), it
// picks the row of f best aligned with v, i.e. argmax_a |f.Apply(v)[a]|.
func DominantAxis(w Vec3) (axis int, sign float64) {
	axis = 0
	best := math.Abs(w[0])
	for a := 1; a < 3; a++ {
		if m := math.Abs(w[a]); m > best {
			best = m
			axis = a
		}
	}
	if w[axis] < 0 {
		sign = -1
	} else {
		sign = 1
	}
	return axis, sign
}

// Propagate builds the child frame reached from parent frame mn via the
// displacement v = pos(child) - pos(parent), per §4.5 of the skeleton
// frame-propagation step: find the parent axis best aligned with v,
// build the quaternion that rotates that axis onto the signed,
// normalised displacement, and rotate the whole frame by it.
func Propagate(mn Frame, v Vec3) Frame {
	w := mn.Apply(v)
	axis, sign := DominantAxis(w)
	target := v.Normalize().Mul(sign)
	q := mgl64.QuatBetweenVectors(mn.Rows[axis], target)
	return mn.Rotate(q)
}

// Axis returns column a of f (row a of its transpose): the components
// of world axis a in f's local coordinates.
func (f Frame) Axis(a int) Vec3 {
	return f.Transpose().Rows[a]
}
