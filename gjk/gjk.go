// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for 2D
// collision detection.
//
// GJK decides whether two convex polygons overlap by testing whether their
// Minkowski difference contains the origin. The simplex grows from a point to a
// line to a triangle, and is reduced to the feature closest to the origin after
// every support query. Convex input converges in a handful of iterations.
//
// For concave polygons GJK tests their convex hulls, which over-reports contact.
// Use the sat package for those.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxIterations bounds the number of support queries of one GJK run.
const MaxIterations = 32

// Simplex holds 1 to 3 points of the Minkowski difference, newest last.
// When GJK reports a collision it is a triangle enclosing the origin, which EPA
// uses as its starting polytope.
type Simplex struct {
	Points [3]mgl32.Vec2
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(p mgl32.Vec2) {
	s.Points[s.Count] = p
	s.Count++
}

// Slice returns the live points of the simplex.
func (s *Simplex) Slice() []mgl32.Vec2 {
	return s.Points[:s.Count]
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the point of the Minkowski difference A - B furthest
// along direction: a.Support(direction) - b.Support(-direction).
//
// Polygons only need to answer support queries for GJK and EPA to work on them.
func MinkowskiSupport(a, b polygon.Polygon, direction mgl32.Vec2) mgl32.Vec2 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// GJK reports whether a and b overlap. Touching counts as overlapping.
//
// The search starts along the direction from A's centroid to B's, falling back to
// +X when the centroids coincide. It exits early as soon as a support point fails
// to pass the origin, which proves separation.
//
// simplex is overwritten. On a collision it holds the final simplex, usually a
// triangle around the origin; touching contacts may stop at a point or a line.
func GJK(a, b polygon.Polygon, simplex *Simplex) bool {
	simplex.Reset()
	if a.Len() == 0 || b.Len() == 0 {
		return false
	}

	direction := b.Centroid().Sub(a.Centroid())
	if direction.LenSqr() < 1e-12 {
		direction = mgl32.Vec2{1, 0}
	}

	simplex.push(MinkowskiSupport(a, b, direction))

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-12 {
		// the first support point is the origin: the shapes touch
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		p := MinkowskiSupport(a, b, direction)

		// the new point does not pass the origin, so the origin is unreachable
		if p.Dot(direction) <= 0 {
			return false
		}

		simplex.push(p)
		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	return false
}

// containsOrigin reduces the simplex to its feature closest to the origin and
// points direction at the origin from it. It reports true once the origin is
// enclosed, or lies on the simplex.
func containsOrigin(simplex *Simplex, direction *mgl32.Vec2) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}
	return false
}

// line handles a 2-point simplex, newest point A, older point B.
func line(simplex *Simplex, direction *mgl32.Vec2) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-12 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return ao.LenSqr() < 1e-12
	}

	// origin behind A: only A matters
	if ab.Dot(ao) <= 0 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	perp := geom.TripleProduct(ab, ao, ab)
	if perp.LenSqr() < 1e-12 {
		// origin on the segment
		return true
	}
	*direction = perp
	return false
}

// triangle handles a 3-point simplex, newest point A. The origin can only lie
// beyond AB or AC, since it was already found to be past BC.
func triangle(simplex *Simplex, direction *mgl32.Vec2) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	if geom.Cross(ab, ac)*geom.Cross(ab, ac) < 1e-12 {
		// collinear: drop C and treat as a line
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return line(simplex, direction)
	}

	abPerp := geom.TripleProduct(ac, ab, ab)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = abPerp
		return false
	}

	acPerp := geom.TripleProduct(ab, ac, ac)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = acPerp
		return false
	}

	return true
}
