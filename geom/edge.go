package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Edge is an unordered segment. Edge{a, b} and Edge{b, a} are Equal.
type Edge struct {
	A, B mgl32.Vec2
}

// EdgeKey is the canonical form of an edge, usable as a map key. Two edges built
// from the same point values produce the same key regardless of direction.
type EdgeKey [4]float32

func (e Edge) Key() EdgeKey {
	a, b := e.A, e.B
	if Less(b, a) {
		a, b = b, a
	}
	return EdgeKey{a[0], a[1], b[0], b[1]}
}

// Equal compares both endpoint assignments within Epsilon.
func (e Edge) Equal(o Edge) bool {
	return (Equal(e.A, o.A) && Equal(e.B, o.B)) || (Equal(e.A, o.B) && Equal(e.B, o.A))
}

func (e Edge) Len() float32 {
	return e.B.Sub(e.A).Len()
}

func (e Edge) Midpoint() mgl32.Vec2 {
	return e.A.Add(e.B).Mul(0.5)
}

// Normal is the unit vector perpendicular to the edge, rotated counter-clockwise
// from A->B. Degenerate edges return the zero vector.
func (e Edge) Normal() mgl32.Vec2 {
	return Normalize(Perp(e.B.Sub(e.A)), mgl32.Vec2{})
}

// SharesEndpoint reports whether the two edges have an endpoint in common.
func (e Edge) SharesEndpoint(o Edge) bool {
	return Equal(e.A, o.A) || Equal(e.A, o.B) || Equal(e.B, o.A) || Equal(e.B, o.B)
}

// HasPoint reports whether p is one of the edge's endpoints.
func (e Edge) HasPoint(p mgl32.Vec2) bool {
	return Equal(e.A, p) || Equal(e.B, p)
}

// Crosses reports a proper crossing: the segments intersect at a single point
// interior to both. Touching at endpoints and collinear overlap do not cross.
func (e Edge) Crosses(o Edge) bool {
	if e.SharesEndpoint(o) {
		return false
	}
	d1 := Orient(o.A, o.B, e.A)
	d2 := Orient(o.A, o.B, e.B)
	d3 := Orient(e.A, e.B, o.A)
	d4 := Orient(e.A, e.B, o.B)
	return d1*d2 < 0 && d3*d4 < 0
}

// Intersects is the inclusive segment test: touching and collinear overlap count.
func (e Edge) Intersects(o Edge) bool {
	d1 := Orient(o.A, o.B, e.A)
	d2 := Orient(o.A, o.B, e.B)
	d3 := Orient(e.A, e.B, o.A)
	d4 := Orient(e.A, e.B, o.B)

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == Collinear && onSegment(o.A, o.B, e.A)) ||
		(d2 == Collinear && onSegment(o.A, o.B, e.B)) ||
		(d3 == Collinear && onSegment(e.A, e.B, o.A)) ||
		(d4 == Collinear && onSegment(e.A, e.B, o.B))
}

// Intersection returns the crossing point of the two supporting segments, if
// they intersect at a single point.
func (e Edge) Intersection(o Edge) (mgl32.Vec2, bool) {
	r := e.B.Sub(e.A)
	s := o.B.Sub(o.A)
	denom := Cross(r, s)
	if math32.Abs(denom) < Epsilon*Epsilon {
		return mgl32.Vec2{}, false
	}
	qp := o.A.Sub(e.A)
	t := Cross(qp, s) / denom
	u := Cross(qp, r) / denom
	if t < -Epsilon || t > 1+Epsilon || u < -Epsilon || u > 1+Epsilon {
		return mgl32.Vec2{}, false
	}
	return e.A.Add(r.Mul(t)), true
}

// DistanceTo returns the distance from p to the closest point of the segment.
func (e Edge) DistanceTo(p mgl32.Vec2) float32 {
	ab := e.B.Sub(e.A)
	lenSqr := ab.Dot(ab)
	if lenSqr < Epsilon*Epsilon {
		return p.Sub(e.A).Len()
	}
	t := p.Sub(e.A).Dot(ab) / lenSqr
	t = math32.Max(0, math32.Min(1, t))
	return p.Sub(e.A.Add(ab.Mul(t))).Len()
}

// onSegment assumes a, b, p are collinear.
func onSegment(a, b, p mgl32.Vec2) bool {
	return p[0] >= math32.Min(a[0], b[0])-Epsilon && p[0] <= math32.Max(a[0], b[0])+Epsilon &&
		p[1] >= math32.Min(a[1], b[1])-Epsilon && p[1] <= math32.Max(a[1], b[1])+Epsilon
}

// EdgesOf returns the closed edge cycle of points: i -> i+1, wrapping to 0.
func EdgesOf(points []mgl32.Vec2) []Edge {
	n := len(points)
	if n < 2 {
		return nil
	}
	edges := make([]Edge, n)
	for i := range n {
		edges[i] = Edge{A: points[i], B: points[(i+1)%n]}
	}
	return edges
}

// ContainsEdge reports whether edges holds an edge Equal to e.
func ContainsEdge(edges []Edge, e Edge) bool {
	for _, o := range edges {
		if o.Equal(e) {
			return true
		}
	}
	return false
}
