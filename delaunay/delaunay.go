// Package delaunay builds Delaunay triangulations with the Bowyer-Watson
// algorithm and trims them against a polygon boundary.
//
// The constrained result is an approximation: edges crossing the boundary are
// dropped rather than recovered, so a boundary edge missing from the Delaunay
// triangulation leaves a gap. It is meant for rendering and convex decomposition,
// not as a conforming constrained triangulation.
package delaunay

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/hull"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// SuperTriangleScale is how many times the larger dimension of the input bounds
// the super triangle is grown by.
const SuperTriangleScale = 10

var (
	ErrTooFewPoints = errors.New("delaunay: fewer than 3 distinct points")
	ErrDegenerate   = errors.New("delaunay: collinear or degenerate points")
)

// Triangulate returns the Delaunay triangulation of points, every triangle wound
// counter-clockwise. Points Equal to an earlier point are skipped. Fewer than 3
// distinct points, or only collinear ones, give no triangles.
//
// The super triangle is symbolic: its corners sit at the SuperTriangleScale
// triangle scaled by a factor growing without bound, so no circumcircle of the
// input, however thin the triangle, can reach past it.
func Triangulate(points []mgl32.Vec2) []geom.Triangle {
	unique := distinct(points)
	if len(unique) < 3 {
		return nil
	}

	vertices := superVertices(geom.BoundsOf(unique))
	for _, p := range unique {
		vertices = append(vertices, vertex{x: float64(p[0]), y: float64(p[1])})
	}

	triangles := []triangle{{0, 1, 2}}
	for i := len(superCorners); i < len(vertices); i++ {
		triangles = insert(triangles, vertices, i)
	}

	result := make([]geom.Triangle, 0, len(triangles))
	for _, t := range triangles {
		if t.touchesSuper() {
			continue
		}
		n := len(superCorners)
		result = append(result, geom.Triangle{A: unique[t[0]-n], B: unique[t[1]-n], C: unique[t[2]-n]})
	}
	return result
}

func distinct(points []mgl32.Vec2) []mgl32.Vec2 {
	unique := make([]mgl32.Vec2, 0, len(points))
	for _, p := range points {
		if geom.IndexOf(unique, p) < 0 {
			unique = append(unique, p)
		}
	}
	return unique
}

// triangle indexes three counter-clockwise vertices. The first three vertices
// are the super triangle's.
type triangle [3]int

func (t triangle) touchesSuper() bool {
	n := len(superCorners)
	return t[0] < n || t[1] < n || t[2] < n
}

type directedEdge struct {
	from, to int
}

// insert adds vertex p to the triangulation: every triangle whose circumcircle
// holds p is removed, and the hole is re-triangulated from its boundary edges to p.
func insert(triangles []triangle, vertices []vertex, p int) []triangle {
	bad := make([]bool, len(triangles))
	inRegion := make(map[directedEdge]bool)
	var region []directedEdge

	for i, t := range triangles {
		if !inCircle(vertices[t[0]], vertices[t[1]], vertices[t[2]], vertices[p]) {
			continue
		}
		bad[i] = true
		for k := range 3 {
			e := directedEdge{t[k], t[(k+1)%3]}
			inRegion[e] = true
			region = append(region, e)
		}
	}

	kept := make([]triangle, 0, len(triangles)+2)
	for i, t := range triangles {
		if !bad[i] {
			kept = append(kept, t)
		}
	}

	// an edge bounding two bad triangles is interior to the hole
	for _, e := range region {
		if inRegion[directedEdge{e.to, e.from}] {
			continue
		}
		kept = append(kept, triangle{e.from, e.to, p})
	}
	return kept
}

// vertex is the point (x, y) + R*(dx, dy) for the symbolic scale R. Input points
// have no direction.
type vertex struct {
	x, y, dx, dy float64
}

// superCorners are the corner directions of the super triangle, counter-clockwise,
// in units of SuperTriangleScale times the larger input dimension.
var superCorners = [3][2]float64{{-2, -1}, {2, -1}, {0, 2}}

// superVertices returns the super triangle around b: centred on b, and at R = 1
// the triangle enclosing b grown by SuperTriangleScale times its larger dimension.
func superVertices(b geom.Bounds) []vertex {
	d := float64(max(b.W, b.H)) * SuperTriangleScale
	if d == 0 {
		d = SuperTriangleScale
	}
	mid := b.Center()

	vertices := make([]vertex, 0, len(superCorners))
	for _, c := range superCorners {
		vertices = append(vertices, vertex{x: float64(mid[0]), y: float64(mid[1]), dx: c[0] * d, dy: c[1] * d})
	}
	return vertices
}

// poly is a polynomial in R, lowest degree first.
type poly [5]float64

func (a poly) add(b poly) poly {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

func (a poly) sub(b poly) poly {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

func (a poly) mul(b poly) poly {
	var out poly
	for i := range a {
		if a[i] == 0 {
			continue
		}
		for j := 0; i+j < len(out); j++ {
			out[i+j] += a[i] * b[j]
		}
	}
	return out
}

// sign is the sign of the polynomial as R grows without bound.
func (a poly) sign() int {
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] > 0:
			return 1
		case a[i] < 0:
			return -1
		}
	}
	return 0
}

// relative returns the coordinates of v - p. p must be an input point.
func (v vertex) relative(p vertex) (poly, poly) {
	return poly{v.x - p.x, v.dx}, poly{v.y - p.y, v.dy}
}

// inCircle reports whether p lies strictly inside the circumcircle of the
// counter-clockwise triangle abc. It is the incircle determinant of
// geom.Triangle.InCircumcircle, evaluated for R growing without bound.
func inCircle(a, b, c, p vertex) bool {
	ax, ay := a.relative(p)
	bx, by := b.relative(p)
	cx, cy := c.relative(p)

	aw := ax.mul(ax).add(ay.mul(ay))
	bw := bx.mul(bx).add(by.mul(by))
	cw := cx.mul(cx).add(cy.mul(cy))

	det := aw.mul(bx.mul(cy).sub(cx.mul(by))).
		sub(bw.mul(ax.mul(cy).sub(cx.mul(ay)))).
		add(cw.mul(ax.mul(by).sub(bx.mul(ay))))
	return det.sign() > 0
}

// Result is a triangulation trimmed against a polygon boundary.
type Result struct {
	// Edges are the boundary edges followed by every surviving triangulation edge.
	Edges []geom.Edge
	// Triangles are the triangles lying inside the polygon.
	Triangles []geom.Triangle
	// Pinched are polygon points shared by two or more hull edges that are not
	// boundary edges.
	Pinched []mgl32.Vec2
	// Boundary is the polygon's points without the pinched ones.
	Boundary []mgl32.Vec2
}

// Constrain filters a triangulation of poly's points against poly's boundary.
// A triangulation edge is dropped when it crosses a boundary edge or equals a hull
// edge that is not a boundary edge. A triangle survives when none of its edges was
// dropped and its centroid lies inside poly.
//
// Pinched points are found in a single pass over the hull and are only reported.
func Constrain(triangles []geom.Triangle, poly polygon.Polygon) Result {
	boundary := poly.Edges()
	points := poly.Points()

	var bad []geom.Edge
	for _, e := range hull.Edges(hull.Of(poly)) {
		if !geom.ContainsEdge(boundary, e) {
			bad = append(bad, e)
		}
	}

	var result Result
	for _, p := range points {
		shared := 0
		for _, e := range bad {
			if e.HasPoint(p) {
				shared++
			}
		}
		if shared >= 2 {
			result.Pinched = append(result.Pinched, p)
		} else {
			result.Boundary = append(result.Boundary, p)
		}
	}

	seen := make(map[geom.EdgeKey]bool, len(boundary)+3*len(triangles))
	dropped := make(map[geom.EdgeKey]bool)
	result.Edges = make([]geom.Edge, 0, len(boundary)+3*len(triangles))
	for _, e := range boundary {
		seen[e.Key()] = true
		result.Edges = append(result.Edges, e)
	}

	for _, t := range triangles {
		for _, e := range t.Edges() {
			key := e.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			if geom.ContainsEdge(boundary, e) {
				continue
			}
			if crossesAny(e, boundary) || geom.ContainsEdge(bad, e) {
				dropped[key] = true
				continue
			}
			result.Edges = append(result.Edges, e)
		}
	}

	for _, t := range triangles {
		keep := true
		for _, e := range t.Edges() {
			if dropped[e.Key()] {
				keep = false
				break
			}
		}
		if keep && poly.Contains(t.Centroid()) {
			result.Triangles = append(result.Triangles, t)
		}
	}
	return result
}

func crossesAny(e geom.Edge, edges []geom.Edge) bool {
	for _, o := range edges {
		if e.Crosses(o) {
			return true
		}
	}
	return false
}

// TriangulatePolygon triangulates poly's points and constrains the result to its
// boundary.
func TriangulatePolygon(poly polygon.Polygon) (Result, error) {
	if poly.Len() < 3 {
		return Result{}, errors.Wrapf(ErrTooFewPoints, "triangulate polygon of %d points", poly.Len())
	}
	points := poly.Points()
	if n := len(distinct(points)); n < 3 {
		return Result{}, errors.Wrapf(ErrTooFewPoints, "triangulate polygon of %d distinct points", n)
	}
	triangles := Triangulate(points)
	if len(triangles) == 0 {
		return Result{}, errors.Wrap(ErrDegenerate, "triangulate polygon")
	}
	return Constrain(triangles, poly), nil
}

// Area sums the unsigned areas of triangles.
func Area(triangles []geom.Triangle) float32 {
	var total float64
	for _, t := range triangles {
		total += float64(t.Area())
	}
	return float32(total)
}
