// Package polygon provides the two representations of a closed 2D polygon used by
// the engine, behind a single Polygon interface:
//
//   - Indexed: a dense, index-addressable point container with a fixed capacity,
//     guarded by a coarse mutex, suited to random access and bulk construction.
//   - Ring: a circular doubly-linked vertex list stored in an arena of nodes, suited
//     to neighbour traversal, with per-vertex turning angle and concavity.
//
// Both are mutually convertible. Insertion order defines winding; callers insert
// points in a consistent order (clockwise by convention).
package polygon

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/parallel"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	// ParallelThreshold is the point count from which read-many operations
	// (centroid, area, bounds, support, duplicate checks) fan out.
	ParallelThreshold = 1000

	// TranslateParallelThreshold is the point count from which Translate fans out.
	TranslateParallelThreshold = 10000
)

var (
	ErrDuplicatePoint   = errors.New("polygon: duplicate point")
	ErrCapacityExceeded = errors.New("polygon: capacity exceeded")
	ErrTooFewPoints     = errors.New("polygon: fewer than 3 points")
	ErrNilPoints        = errors.New("polygon: nil point list")
	ErrIndexOutOfRange  = errors.New("polygon: index out of range")
	ErrPointNotFound    = errors.New("polygon: point not found")
)

// Polygon is a closed 2D polygon. Edges join consecutive points and the last
// point back to the first.
type Polygon interface {
	Len() int
	// Points returns a copy of the points in polygon order.
	Points() []mgl32.Vec2
	// Edges returns a copy of the closed edge cycle.
	Edges() []geom.Edge
	Bounds() geom.Bounds
	// Centroid is the arithmetic mean of the points.
	Centroid() mgl32.Vec2
	// Area is the signed shoelace area, positive for counter-clockwise winding.
	Area() float32
	// Contains reports whether p is inside the polygon or on its border.
	Contains(p mgl32.Vec2) bool
	// Support returns the point furthest along direction.
	Support(direction mgl32.Vec2) mgl32.Vec2
	Translate(dx, dy float32)
}

type sum2 struct {
	x, y float64
}

func centroidOf(points []mgl32.Vec2) mgl32.Vec2 {
	if len(points) == 0 {
		return mgl32.Vec2{}
	}
	s := parallel.Choose(len(points), ParallelThreshold)
	total := parallel.Reduce(s, points, sum2{},
		func(acc sum2, p mgl32.Vec2) sum2 {
			return sum2{acc.x + float64(p[0]), acc.y + float64(p[1])}
		},
		func(a, b sum2) sum2 {
			return sum2{a.x + b.x, a.y + b.y}
		})
	n := float64(len(points))
	return mgl32.Vec2{float32(total.x / n), float32(total.y / n)}
}

func areaOf(edges []geom.Edge) float32 {
	s := parallel.Choose(len(edges), ParallelThreshold)
	twice := parallel.Reduce(s, edges, 0.0,
		func(acc float64, e geom.Edge) float64 {
			return acc + float64(e.A[0])*float64(e.B[1]) - float64(e.B[0])*float64(e.A[1])
		},
		func(a, b float64) float64 { return a + b })
	return float32(twice / 2)
}

type extent struct {
	min, max mgl32.Vec2
	set      bool
}

func boundsOf(points []mgl32.Vec2) geom.Bounds {
	s := parallel.Choose(len(points), ParallelThreshold)
	e := parallel.Reduce(s, points, extent{},
		func(acc extent, p mgl32.Vec2) extent {
			return mergeExtent(acc, extent{min: p, max: p, set: true})
		},
		mergeExtent)
	return geom.Bounds{X: e.min[0], Y: e.min[1], W: e.max[0] - e.min[0], H: e.max[1] - e.min[1]}
}

func mergeExtent(a, b extent) extent {
	if !a.set {
		return b
	}
	if !b.set {
		return a
	}
	return extent{
		min: mgl32.Vec2{min(a.min[0], b.min[0]), min(a.min[1], b.min[1])},
		max: mgl32.Vec2{max(a.max[0], b.max[0]), max(a.max[1], b.max[1])},
		set: true,
	}
}

type candidate struct {
	point mgl32.Vec2
	dot   float32
	set   bool
}

// supportOf keeps the first point reaching the maximum, so both strategies agree
// on ties.
func supportOf(points []mgl32.Vec2, direction mgl32.Vec2) mgl32.Vec2 {
	s := parallel.Choose(len(points), ParallelThreshold)
	best := parallel.Reduce(s, points, candidate{},
		func(acc candidate, p mgl32.Vec2) candidate {
			return mergeCandidate(acc, candidate{point: p, dot: p.Dot(direction), set: true})
		},
		mergeCandidate)
	return best.point
}

func mergeCandidate(a, b candidate) candidate {
	if !a.set || (b.set && b.dot > a.dot) {
		return b
	}
	return a
}

// containsPoint is the even-odd ray-cast test against edges; points on an edge
// count as inside.
func containsPoint(edges []geom.Edge, p mgl32.Vec2) bool {
	s := parallel.Choose(len(edges), ParallelThreshold)
	onBorder := parallel.Any(s, len(edges), func(i int) bool {
		return edges[i].DistanceTo(p) <= geom.Epsilon
	})
	if onBorder {
		return true
	}

	crossings := parallel.Reduce(s, edges, 0,
		func(acc int, e geom.Edge) int {
			a, b := e.A, e.B
			if (a[1] > p[1]) != (b[1] > p[1]) {
				x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
				if p[0] < x {
					return acc + 1
				}
			}
			return acc
		},
		func(a, b int) int { return a + b })
	return crossings%2 == 1
}

func hasDuplicate(points []mgl32.Vec2, p mgl32.Vec2) bool {
	s := parallel.Choose(len(points), ParallelThreshold)
	return parallel.Any(s, len(points), func(i int) bool {
		return geom.Equal(points[i], p)
	})
}

func translatePoints(points []mgl32.Vec2, dx, dy float32) {
	s := parallel.Choose(len(points), TranslateParallelThreshold)
	parallel.For(s, len(points), func(i int) {
		points[i] = mgl32.Vec2{points[i][0] + dx, points[i][1] + dy}
	})
}

// IsConvex reports whether every turn of p goes the same way. Collinear vertices
// are ignored. Polygons with fewer than 3 points are not convex.
func IsConvex(p Polygon) bool {
	points := p.Points()
	n := len(points)
	if n < 3 {
		return false
	}
	var sign geom.Orientation
	for i := range n {
		o := geom.Orient(points[i], points[(i+1)%n], points[(i+2)%n])
		if o == geom.Collinear {
			continue
		}
		if sign == geom.Collinear {
			sign = o
		} else if o != sign {
			return false
		}
	}
	return sign != geom.Collinear
}

// Winding returns CounterClockwise or Clockwise from the sign of the area, and
// Collinear for degenerate polygons.
func Winding(p Polygon) geom.Orientation {
	area := p.Area()
	switch {
	case area > 0:
		return geom.CounterClockwise
	case area < 0:
		return geom.Clockwise
	}
	return geom.Collinear
}

// ToRing returns p as a Ring, converting when needed.
func ToRing(p Polygon) (*Ring, error) {
	if r, ok := p.(*Ring); ok {
		return r, nil
	}
	return NewRing(p.Points())
}

// ToIndexed returns p as an Indexed polygon, converting when needed.
func ToIndexed(p Polygon) (*Indexed, error) {
	if ix, ok := p.(*Indexed); ok {
		return ix, nil
	}
	return NewIndexedFrom(p.Points())
}

// Outline produces a flat vertex buffer (x, y pairs) and a line-list index
// buffer tracing the closed boundary of p.
func Outline(p Polygon) ([]float32, []uint32) {
	points := p.Points()
	vertices := make([]float32, 0, len(points)*2)
	indices := make([]uint32, 0, len(points)*2)
	for i, pt := range points {
		vertices = append(vertices, pt[0], pt[1])
		indices = append(indices, uint32(i), uint32((i+1)%len(points)))
	}
	return vertices, indices
}
