// Package sat detects collisions between possibly concave polygons with the
// Separating Axis Test, applied to the triangles of their constrained Delaunay
// triangulations.
//
// Two polygons collide when some triangle of one overlaps some triangle of the
// other. The normal and depth come from the first overlapping pair only and
// approximate the contact; they are not a minimum translation for the whole
// polygons. Cost grows with the product of the triangle counts, so this suits
// shapes with few triangles.
package sat

import (
	"github.com/akmonengine/feather2d/delaunay"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/parallel"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AxisParallelThreshold is the combined point count of two polygons from which
// axis filtering and the separating-axis search use the caller's strategy.
const AxisParallelThreshold = 10000

// Result of a SAT test. Normal is unit length and points from A toward B.
type Result struct {
	Colliding bool
	Normal    mgl32.Vec2
	Depth     float32
	Contacts  []mgl32.Vec2
}

// Triangles returns the constrained triangulation of p.
func Triangles(p polygon.Polygon) ([]geom.Triangle, error) {
	result, err := delaunay.TriangulatePolygon(p)
	if err != nil {
		return nil, err
	}
	return result.Triangles, nil
}

// Collide tests a against b. Polygons that cannot be triangulated never collide.
func Collide(a, b polygon.Polygon, s parallel.Strategy) Result {
	trisA, err := Triangles(a)
	if err != nil {
		return Result{}
	}
	trisB, err := Triangles(b)
	if err != nil {
		return Result{}
	}

	if a.Len()+b.Len() < AxisParallelThreshold {
		s = parallel.Sequential
	}
	return collide(trisA, trisB, b.Centroid().Sub(a.Centroid()), s)
}

// collide finds the first overlapping pair, scanning trisA in order and trisB
// in order for each. direction orients the normal.
func collide(trisA, trisB []geom.Triangle, direction mgl32.Vec2, s parallel.Strategy) Result {
	for _, ta := range trisA {
		boundsA := ta.Bounds()
		for _, tb := range trisB {
			if !boundsA.Intersects(tb.Bounds()) {
				continue
			}

			axis, depth, ok := overlap(ta, tb, s)
			if !ok {
				continue
			}

			if axis.Dot(direction) < 0 {
				axis = axis.Mul(-1)
			}
			return Result{
				Colliding: true,
				Normal:    axis,
				Depth:     depth,
				Contacts:  contacts(ta, tb),
			}
		}
	}
	return Result{}
}

// axes returns the unit normals of the six edges of ta and tb, degenerate and
// parallel ones removed.
func axes(ta, tb geom.Triangle, s parallel.Strategy) []mgl32.Vec2 {
	candidates := make([]mgl32.Vec2, 0, 6)
	for _, t := range [2]geom.Triangle{ta, tb} {
		for _, e := range t.Edges() {
			candidates = append(candidates, e.Normal())
		}
	}

	candidates = parallel.Filter(s, candidates, func(axis mgl32.Vec2) bool {
		return axis.LenSqr() > 0
	})

	unique := candidates[:0]
	for _, axis := range candidates {
		duplicate := false
		for _, u := range unique {
			if math32.Abs(geom.Cross(axis, u)) < geom.Epsilon {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, axis)
		}
	}
	return unique
}

// overlap reports whether ta and tb overlap, touching included, and if so the
// axis of least overlap with that overlap.
func overlap(ta, tb geom.Triangle, s parallel.Strategy) (mgl32.Vec2, float32, bool) {
	candidates := axes(ta, tb, s)

	if s.IsParallel() {
		separated := parallel.Any(s, len(candidates), func(i int) bool {
			return projectionOverlap(ta, tb, candidates[i]) < 0
		})
		if separated {
			return mgl32.Vec2{}, 0, false
		}
	}

	best := -1
	var bestDepth float32
	for i, axis := range candidates {
		d := projectionOverlap(ta, tb, axis)
		if d < 0 {
			return mgl32.Vec2{}, 0, false
		}
		if best < 0 || d < bestDepth {
			best, bestDepth = i, d
		}
	}
	if best < 0 {
		return mgl32.Vec2{}, 0, false
	}
	return candidates[best], bestDepth, true
}

// projectionOverlap is the length shared by the projections of ta and tb on
// axis, negative when they are apart.
func projectionOverlap(ta, tb geom.Triangle, axis mgl32.Vec2) float32 {
	minA, maxA := project(ta, axis)
	minB, maxB := project(tb, axis)
	return min(maxA, maxB) - max(minA, minB)
}

func project(t geom.Triangle, axis mgl32.Vec2) (float32, float32) {
	a := t.A.Dot(axis)
	b := t.B.Dot(axis)
	c := t.C.Dot(axis)
	return min(a, b, c), max(a, b, c)
}

// contacts returns the corners of each triangle lying in the other.
func contacts(ta, tb geom.Triangle) []mgl32.Vec2 {
	var points []mgl32.Vec2
	add := func(p mgl32.Vec2) {
		if geom.IndexOf(points, p) < 0 {
			points = append(points, p)
		}
	}
	for _, p := range ta.Points() {
		if tb.Contains(p) {
			add(p)
		}
	}
	for _, p := range tb.Points() {
		if ta.Contains(p) {
			add(p)
		}
	}
	return points
}
