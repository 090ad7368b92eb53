// Package epa implements the Expanding Polytope Algorithm for computing
// penetration depth in 2D.
//
// EPA runs after GJK has found two convex polygons overlapping. Starting from
// GJK's final simplex, it grows a polygon inside the Minkowski difference toward
// its boundary. Once the edge closest to the origin can no longer be pushed
// outward, that edge's normal and distance are the Minimum Translation Vector.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/gjk"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	// MaxIterations limits polytope expansion.
	MaxIterations = 64

	// Tolerance is how far a new support point may lie past the closest edge
	// before the edge is accepted as the boundary of the Minkowski difference.
	Tolerance = 1e-4

	// NormalSnapThreshold clamps nearly-zero normal components to exactly zero,
	// so axis-aligned contacts give axis-aligned normals.
	NormalSnapThreshold = 1e-6

	// DegeneratePenetrationEstimate is the depth reported when the simplex cannot
	// be grown into a polygon, as happens for touching shapes.
	DegeneratePenetrationEstimate = 0.01
)

var ErrNoConvergence = errors.New("epa: failed to converge")

// Penetration is the Minimum Translation Vector of two overlapping polygons.
// Normal points from A toward B and has unit length; moving B by Normal*Depth
// separates them.
type Penetration struct {
	Normal mgl32.Vec2
	Depth  float32
}

// edge is a polytope edge with its outward normal and distance to the origin.
type edge struct {
	index    int
	normal   mgl32.Vec2
	distance float32
}

// EPA computes the penetration of a and b from the simplex left by a successful
// gjk.GJK call.
//
// Simplexes with fewer than 3 points are first expanded with extra support
// queries. When that fails the penetration is estimated from the simplex or, as
// a last resort, from the centroids.
func EPA(a, b polygon.Polygon, simplex *gjk.Simplex) (Penetration, error) {
	polytope := make([]mgl32.Vec2, 0, 8)
	polytope = append(polytope, simplex.Slice()...)

	if len(polytope) < 3 {
		var ok bool
		polytope, ok = expand(a, b, polytope)
		if !ok {
			return handleDegenerateSimplex(a, b, polytope), nil
		}
	}

	// edge normals are only outward on a counter-clockwise polytope
	if geom.Cross3(polytope[0], polytope[1], polytope[2]) < 0 {
		polytope[1], polytope[2] = polytope[2], polytope[1]
	}

	for i := 0; i < MaxIterations; i++ {
		closest := closestEdge(polytope)

		support := gjk.MinkowskiSupport(a, b, closest.normal)
		distance := support.Dot(closest.normal)

		if distance-closest.distance < Tolerance || geom.IndexOf(polytope, support) >= 0 {
			return Penetration{
				Normal: snapNormalToAxis(closest.normal),
				Depth:  max(closest.distance, 0),
			}, nil
		}

		// insert between the two points of the closest edge
		polytope = append(polytope, mgl32.Vec2{})
		copy(polytope[closest.index+2:], polytope[closest.index+1:])
		polytope[closest.index+1] = support
	}

	return Penetration{}, errors.Wrapf(ErrNoConvergence, "after %d iterations", MaxIterations)
}

// closestEdge returns the polytope edge nearest the origin; the first one wins
// on ties.
func closestEdge(polytope []mgl32.Vec2) edge {
	best := edge{distance: math32.MaxFloat32}
	for i := range polytope {
		a := polytope[i]
		b := polytope[(i+1)%len(polytope)]
		e := b.Sub(a)

		normal := geom.Normalize(mgl32.Vec2{e[1], -e[0]}, mgl32.Vec2{})
		if normal.LenSqr() == 0 {
			continue
		}
		distance := normal.Dot(a)
		if distance < best.distance {
			best = edge{index: i, normal: normal, distance: distance}
		}
	}
	return best
}

// expand grows a 1 or 2 point simplex into a triangle. It reports false when the
// Minkowski difference is too thin in every tried direction.
func expand(a, b polygon.Polygon, points []mgl32.Vec2) ([]mgl32.Vec2, bool) {
	if len(points) == 0 {
		return points, false
	}

	if len(points) == 1 {
		for _, d := range []mgl32.Vec2{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			p := gjk.MinkowskiSupport(a, b, d)
			if !geom.Equal(p, points[0]) {
				points = append(points, p)
				break
			}
		}
		if len(points) == 1 {
			return points, false
		}
	}

	n := geom.Perp(points[1].Sub(points[0]))
	for _, d := range []mgl32.Vec2{n, n.Mul(-1)} {
		p := gjk.MinkowskiSupport(a, b, d)
		if math32.Abs(float32(geom.Cross3(points[0], points[1], p))) > geom.Epsilon {
			return append(points, p), true
		}
	}
	return points, false
}

// handleDegenerateSimplex estimates a penetration when no polytope can be built.
// With points left it uses the one closest to the origin; otherwise it falls back
// to the direction between the centroids.
func handleDegenerateSimplex(a, b polygon.Polygon, points []mgl32.Vec2) Penetration {
	if len(points) > 0 {
		closest := points[0]
		for _, p := range points[1:] {
			if p.LenSqr() < closest.LenSqr() {
				closest = p
			}
		}
		if closest.Len() >= geom.Epsilon {
			return Penetration{Normal: snapNormalToAxis(closest.Normalize()), Depth: closest.Len()}
		}
	}

	normal := geom.Normalize(b.Centroid().Sub(a.Centroid()), mgl32.Vec2{0, 1})
	return Penetration{Normal: snapNormalToAxis(normal), Depth: DegeneratePenetrationEstimate}
}

// snapNormalToAxis clamps tiny components to zero and renormalizes.
func snapNormalToAxis(normal mgl32.Vec2) mgl32.Vec2 {
	x, y := normal[0], normal[1]
	if math32.Abs(x) < NormalSnapThreshold {
		x = 0
	}
	if math32.Abs(y) < NormalSnapThreshold {
		y = 0
	}
	return geom.Normalize(mgl32.Vec2{x, y}, mgl32.Vec2{0, 1})
}
