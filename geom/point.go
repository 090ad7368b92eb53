// Package geom holds the 2D primitives shared by every other package: points
// (mgl32.Vec2), unordered edges, axis-aligned bounds and triangles, together with
// the orientation and incircle predicates the hull, triangulation and collision
// code rely on.
//
// Coordinates are float32. Predicates that multiply coordinates together are
// evaluated in float64 so that the super triangle used by the triangulation does
// not swamp the sign of small determinants.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the default per-axis tolerance used by Equal.
const Epsilon float32 = 1e-6

// Orientation of an ordered point triple.
type Orientation int

const (
	Clockwise        Orientation = -1
	Collinear        Orientation = 0
	CounterClockwise Orientation = 1
)

// Equal reports whether a and b are within Epsilon on both axes.
func Equal(a, b mgl32.Vec2) bool {
	return EqualEps(a, b, Epsilon)
}

// EqualEps reports whether a and b are within eps on both axes.
func EqualEps(a, b mgl32.Vec2, eps float32) bool {
	return math32.Abs(a[0]-b[0]) <= eps && math32.Abs(a[1]-b[1]) <= eps
}

// Less orders points lexicographically, x first.
func Less(a, b mgl32.Vec2) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b mgl32.Vec2) float32 {
	return a[0]*b[1] - a[1]*b[0]
}

// Cross3 returns (b-a)x(c-a), computed in float64. It is twice the signed area of
// the triangle abc, positive when abc turns counter-clockwise.
func Cross3(a, b, c mgl32.Vec2) float64 {
	abx := float64(b[0]) - float64(a[0])
	aby := float64(b[1]) - float64(a[1])
	acx := float64(c[0]) - float64(a[0])
	acy := float64(c[1]) - float64(a[1])
	return abx*acy - aby*acx
}

// Orient classifies the turn a -> b -> c.
func Orient(a, b, c mgl32.Vec2) Orientation {
	cross := Cross3(a, b, c)
	switch {
	case cross > 0:
		return CounterClockwise
	case cross < 0:
		return Clockwise
	}
	return Collinear
}

// Perp rotates v by 90 degrees counter-clockwise.
func Perp(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{-v[1], v[0]}
}

// TripleProduct returns (a x b) x c restricted to the plane, i.e. b(a.c) - a(b.c)
// evaluated as in the 3D vector triple product with z = 0.
func TripleProduct(a, b, c mgl32.Vec2) mgl32.Vec2 {
	ac := a.Dot(c)
	bc := b.Dot(c)
	return b.Mul(ac).Sub(a.Mul(bc))
}

// Normalize returns v scaled to unit length, or fallback when v is shorter than
// Epsilon.
func Normalize(v, fallback mgl32.Vec2) mgl32.Vec2 {
	l := v.Len()
	if l < Epsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

// Mean returns the arithmetic mean of points, the zero vector for an empty slice.
func Mean(points []mgl32.Vec2) mgl32.Vec2 {
	if len(points) == 0 {
		return mgl32.Vec2{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += float64(p[0])
		sy += float64(p[1])
	}
	n := float64(len(points))
	return mgl32.Vec2{float32(sx / n), float32(sy / n)}
}

// SignedArea is the shoelace area of the closed ring points, positive for a
// counter-clockwise ring.
func SignedArea(points []mgl32.Vec2) float32 {
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		sum += float64(a[0])*float64(b[1]) - float64(b[0])*float64(a[1])
	}
	return float32(sum / 2)
}

// IndexOf returns the index of the first point Equal to p, or -1.
func IndexOf(points []mgl32.Vec2, p mgl32.Vec2) int {
	for i, q := range points {
		if Equal(p, q) {
			return i
		}
	}
	return -1
}
