package delaunay

import (
	"math/rand"
	"testing"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/hull"
	"github.com/akmonengine/feather2d/internal/fixture"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(r *rand.Rand, n int) []mgl32.Vec2 {
	points := make([]mgl32.Vec2, n)
	for i := range points {
		points[i] = mgl32.Vec2{float32(r.Intn(100)), float32(r.Intn(100))}
	}
	return points
}

func TestTriangulateDegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl32.Vec2
	}{
		{"nil", nil},
		{"one point", []mgl32.Vec2{{1, 1}}},
		{"two points", []mgl32.Vec2{{0, 0}, {1, 0}}},
		{"duplicates of two points", []mgl32.Vec2{{0, 0}, {1, 0}, {0, 0}, {1, 0}}},
		{"collinear", []mgl32.Vec2{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Triangulate(tt.points))
		})
	}
}

func TestTriangulateSkipsDuplicates(t *testing.T) {
	triangles := Triangulate([]mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {0, 0}, {1, 0}})
	require.Len(t, triangles, 1)
	assert.InDelta(t, 0.5, triangles[0].SignedArea(), 1e-6)
}

func TestTriangulateSquare(t *testing.T) {
	triangles := Triangulate(fixture.MustLoad("square"))
	assert.Len(t, triangles, 2)
	assert.InDelta(t, 16, Area(triangles), 1e-4)
}

func TestTriangulateIsDelaunay(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for round := 0; round < 5; round++ {
		points := randomPoints(r, 60)
		triangles := Triangulate(points)
		require.NotEmpty(t, triangles)

		for _, tri := range triangles {
			assert.Greater(t, tri.SignedArea(), float32(0), "triangle %v is not counter-clockwise", tri)
			for _, p := range points {
				if tri.HasVertex(p) {
					continue
				}
				if tri.InCircumcircle(p) {
					t.Fatalf("round %d: %v lies inside the circumcircle of %v", round, p, tri)
				}
			}
		}

		hullArea := geom.SignedArea(hullOf(t, points))
		assert.InDelta(t, hullArea, Area(triangles), 1e-2)
	}
}

func hullOf(t *testing.T, points []mgl32.Vec2) []mgl32.Vec2 {
	t.Helper()
	var unique []mgl32.Vec2
	for _, p := range points {
		if geom.IndexOf(unique, p) < 0 {
			unique = append(unique, p)
		}
	}
	return hull.GrahamScan(unique)
}

func TestTriangulatePolygon(t *testing.T) {
	tests := []struct {
		fixture   string
		triangles int
		area      float32
	}{
		{"square", 2, 16},
		{"lshape", 4, 12},
		{"comb", 10, 44},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			poly, err := polygon.NewIndexedFrom(fixture.MustLoad(tt.fixture))
			require.NoError(t, err)

			result, err := TriangulatePolygon(poly)
			require.NoError(t, err)

			assert.Len(t, result.Triangles, tt.triangles)
			assert.InDelta(t, tt.area, Area(result.Triangles), 1e-3)
			assert.InDelta(t, tt.area, poly.Area(), 1e-3)
			for _, tri := range result.Triangles {
				assert.True(t, poly.Contains(tri.Centroid()))
			}
			assert.Empty(t, result.Pinched)
			assert.Equal(t, poly.Points(), result.Boundary)
		})
	}
}

func TestConstrainDropsNotch(t *testing.T) {
	poly, err := polygon.NewRing(fixture.MustLoad("lshape"))
	require.NoError(t, err)

	result, err := TriangulatePolygon(poly)
	require.NoError(t, err)

	notch := geom.Edge{A: mgl32.Vec2{4, 2}, B: mgl32.Vec2{2, 4}}
	assert.False(t, geom.ContainsEdge(result.Edges, notch))
	for _, tri := range result.Triangles {
		assert.False(t, tri.HasVertex(notch.A) && tri.HasVertex(notch.B), "notch triangle %v kept", tri)
	}

	// boundary edges lead the edge list
	boundary := poly.Edges()
	require.GreaterOrEqual(t, len(result.Edges), len(boundary))
	assert.Equal(t, boundary, result.Edges[:len(boundary)])
}

func TestConstrainStar(t *testing.T) {
	points := fixture.MustLoad("star")
	poly, err := polygon.NewIndexedFrom(points)
	require.NoError(t, err)

	result, err := TriangulatePolygon(poly)
	require.NoError(t, err)

	assert.InDelta(t, poly.Area(), Area(result.Triangles), 1e-2)

	// every tip is shared by two hull edges missing from the boundary
	assert.Len(t, result.Pinched, 5)
	assert.Len(t, result.Boundary, 5)
	for i, p := range points {
		if i%2 == 0 {
			assert.Contains(t, result.Pinched, p)
		} else {
			assert.Contains(t, result.Boundary, p)
		}
	}
}

func TestTriangulatePolygonErrors(t *testing.T) {
	collinear, err := polygon.NewIndexedFrom([]mgl32.Vec2{{0, 0}, {1, 0}, {2, 0}})
	require.NoError(t, err)
	_, err = TriangulatePolygon(collinear)
	assert.True(t, errors.Is(err, ErrDegenerate))
	assert.False(t, errors.Is(err, ErrTooFewPoints))

	small, err := polygon.NewIndexedFrom([]mgl32.Vec2{{0, 0}, {1, 0}})
	require.NoError(t, err)
	_, err = TriangulatePolygon(small)
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

var sliver = []mgl32.Vec2{{-0.295, 0.329}, {0.313, -3.155}, {-0.588, 1.699}}

func TestTriangulateSliver(t *testing.T) {
	want := geom.SignedArea(sliver)
	if want < 0 {
		want = -want
	}

	triangles := Triangulate(sliver)
	require.Len(t, triangles, 1)
	assert.Greater(t, triangles[0].SignedArea(), float32(0))
	assert.InDelta(t, want, triangles[0].Area(), 1e-4)

	poly, err := polygon.NewIndexedFrom(sliver)
	require.NoError(t, err)
	result, err := TriangulatePolygon(poly)
	require.NoError(t, err)
	assert.Len(t, result.Triangles, 1)
	assert.InDelta(t, want, Area(result.Triangles), 1e-4)
}

func TestInCircleAtInfinity(t *testing.T) {
	supers := superVertices(geom.Bounds{W: 1, H: 1})
	a := vertex{x: 0, y: 0}
	b := vertex{x: 1, y: 0}

	tests := []struct {
		name string
		p    vertex
		want bool
	}{
		{"left of edge", vertex{x: 0.5, y: 1}, true},
		{"right of edge", vertex{x: 0.5, y: -1}, false},
		{"between on line", vertex{x: 0.5, y: 0}, true},
		{"beyond on line", vertex{x: 2, y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the super corner at the top sees edge ab as a half-plane
			assert.Equal(t, tt.want, inCircle(a, b, supers[2], tt.p))
		})
	}

	assert.True(t, inCircle(supers[0], supers[1], supers[2], vertex{x: 1e6, y: -1e6}))
}
