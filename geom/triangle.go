package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Triangle struct {
	A, B, C mgl32.Vec2
}

func (t Triangle) Points() [3]mgl32.Vec2 {
	return [3]mgl32.Vec2{t.A, t.B, t.C}
}

func (t Triangle) Edges() [3]Edge {
	return [3]Edge{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// SignedArea is positive for counter-clockwise triangles.
func (t Triangle) SignedArea() float32 {
	return float32(Cross3(t.A, t.B, t.C) / 2)
}

func (t Triangle) Area() float32 {
	return math32.Abs(t.SignedArea())
}

func (t Triangle) Centroid() mgl32.Vec2 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// HasVertex reports whether p is one of the corners.
func (t Triangle) HasVertex(p mgl32.Vec2) bool {
	return Equal(t.A, p) || Equal(t.B, p) || Equal(t.C, p)
}

// InCircumcircle reports whether p lies strictly inside the circle through the
// three corners. The incircle determinant is multiplied by the orientation of the
// triangle, so the result does not depend on winding.
func (t Triangle) InCircumcircle(p mgl32.Vec2) bool {
	ax := float64(t.A[0]) - float64(p[0])
	ay := float64(t.A[1]) - float64(p[1])
	bx := float64(t.B[0]) - float64(p[0])
	by := float64(t.B[1]) - float64(p[1])
	cx := float64(t.C[0]) - float64(p[0])
	cy := float64(t.C[1]) - float64(p[1])

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	if Cross3(t.A, t.B, t.C) < 0 {
		det = -det
	}
	return det > 0
}

// Contains reports whether p lies inside or on the border of the triangle.
func (t Triangle) Contains(p mgl32.Vec2) bool {
	d1 := Orient(t.A, t.B, p)
	d2 := Orient(t.B, t.C, p)
	d3 := Orient(t.C, t.A, p)
	hasNeg := d1 == Clockwise || d2 == Clockwise || d3 == Clockwise
	hasPos := d1 == CounterClockwise || d2 == CounterClockwise || d3 == CounterClockwise
	return !(hasNeg && hasPos)
}

// Bounds returns the triangle's axis-aligned bounds.
func (t Triangle) Bounds() Bounds {
	return BoundsOf([]mgl32.Vec2{t.A, t.B, t.C})
}
