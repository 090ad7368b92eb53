// Package hull computes convex hulls with the Graham scan.
package hull

import (
	"cmp"
	"slices"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GrahamScan returns the convex hull of points in counter-clockwise order,
// starting from the lowest point (leftmost on ties). Collinear points on the hull
// boundary are dropped.
//
// Inputs of 3 points or fewer are returned unchanged: they are trivially convex.
func GrahamScan(points []mgl32.Vec2) []mgl32.Vec2 {
	if len(points) <= 3 {
		return slices.Clone(points)
	}

	pivotIndex := 0
	for i, p := range points[1:] {
		pivot := points[pivotIndex]
		if p[1] < pivot[1] || (p[1] == pivot[1] && p[0] < pivot[0]) {
			pivotIndex = i + 1
		}
	}
	pivot := points[pivotIndex]

	rest := make([]mgl32.Vec2, 0, len(points)-1)
	for i, p := range points {
		if i != pivotIndex && !geom.Equal(p, pivot) {
			rest = append(rest, p)
		}
	}
	sortByPolarAngle(pivot, rest)

	stack := make([]mgl32.Vec2, 0, len(points))
	stack = append(stack, pivot)
	for _, p := range rest {
		for len(stack) >= 2 && geom.Orient(stack[len(stack)-2], stack[len(stack)-1], p) != geom.CounterClockwise {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}
	return stack
}

// polarAngle returns the angle of p around pivot in [0, 2π).
func polarAngle(pivot, p mgl32.Vec2) float32 {
	a := math32.Atan2(p[1]-pivot[1], p[0]-pivot[0])
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}

// sortByPolarAngle orders points by angle around pivot, nearer first on ties.
func sortByPolarAngle(pivot mgl32.Vec2, points []mgl32.Vec2) {
	slices.SortStableFunc(points, func(a, b mgl32.Vec2) int {
		if c := cmp.Compare(polarAngle(pivot, a), polarAngle(pivot, b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Sub(pivot).LenSqr(), b.Sub(pivot).LenSqr())
	})
}

// Of returns the convex hull of a polygon's points.
func Of(p polygon.Polygon) []mgl32.Vec2 {
	return GrahamScan(p.Points())
}

// Edges closes the hull into an edge cycle, the last edge running from the final
// hull point back to the pivot. Hulls of fewer than 3 points have no edges.
func Edges(hull []mgl32.Vec2) []geom.Edge {
	if len(hull) < 3 {
		return nil
	}
	return geom.EdgesOf(hull)
}
