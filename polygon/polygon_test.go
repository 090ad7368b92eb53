package polygon

import (
	"testing"

	"github.com/akmonengine/feather2d/geom"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions

func rect(x, y, w, h float32) []mgl32.Vec2 {
	return []mgl32.Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

func regular(n int, cx, cy, radius float32) []mgl32.Vec2 {
	points := make([]mgl32.Vec2, n)
	for i := range n {
		a := 2 * math32.Pi * float32(i) / float32(n)
		points[i] = mgl32.Vec2{cx + radius*math32.Cos(a), cy + radius*math32.Sin(a)}
	}
	return points
}

// lShape is concave at (2, 2).
func lShape() []mgl32.Vec2 {
	return []mgl32.Vec2{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}
}

func bothForms(t *testing.T, points []mgl32.Vec2) map[string]Polygon {
	t.Helper()
	ix, err := NewIndexedFrom(points)
	require.NoError(t, err)
	r, err := NewRing(points)
	require.NoError(t, err)
	return map[string]Polygon{"indexed": ix, "ring": r}
}

func TestArea(t *testing.T) {
	for name, p := range bothForms(t, []mgl32.Vec2{{5, 2}, {7, 2}, {7, 4}, {5, 4}}) {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 4, p.Area(), 1e-6)
			assert.Equal(t, geom.CounterClockwise, Winding(p))
		})
	}

	clockwise := []mgl32.Vec2{{5, 4}, {7, 4}, {7, 2}, {5, 2}}
	for name, p := range bothForms(t, clockwise) {
		t.Run(name+" clockwise", func(t *testing.T) {
			assert.InDelta(t, -4, p.Area(), 1e-6)
			assert.Equal(t, geom.Clockwise, Winding(p))
		})
	}
}

func TestCentroidOfRegularPolygons(t *testing.T) {
	for n := 3; n <= 64; n++ {
		for name, p := range bothForms(t, regular(n, 12.5, -3, 7)) {
			c := p.Centroid()
			if !geom.EqualEps(c, mgl32.Vec2{12.5, -3}, 1e-4) {
				t.Errorf("%s %d-gon: centroid = %v, want (12.5, -3)", name, n, c)
			}
		}
	}
}

func TestBounds(t *testing.T) {
	for name, p := range bothForms(t, lShape()) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, geom.Bounds{X: 0, Y: 0, W: 4, H: 4}, p.Bounds())
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		point    mgl32.Vec2
		expected bool
	}{
		{"inside lower arm", mgl32.Vec2{3, 1}, true},
		{"inside upper arm", mgl32.Vec2{1, 3}, true},
		{"in the notch", mgl32.Vec2{3, 3}, false},
		{"outside", mgl32.Vec2{-1, 1}, false},
		{"on border", mgl32.Vec2{4, 1}, true},
		{"on vertex", mgl32.Vec2{2, 2}, true},
	}

	for name, p := range bothForms(t, lShape()) {
		for _, tt := range tests {
			t.Run(name+" "+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, p.Contains(tt.point))
			})
		}
	}
}

func TestSupport(t *testing.T) {
	for name, p := range bothForms(t, rect(0, 0, 4, 2)) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, mgl32.Vec2{4, 2}, p.Support(mgl32.Vec2{1, 1}))
			assert.Equal(t, mgl32.Vec2{0, 0}, p.Support(mgl32.Vec2{-1, -1}))
			// ties keep the first point in polygon order
			assert.Equal(t, mgl32.Vec2{4, 0}, p.Support(mgl32.Vec2{1, 0}))
		})
	}
}

func TestTranslateKeepsCachesConsistent(t *testing.T) {
	for name, p := range bothForms(t, lShape()) {
		t.Run(name, func(t *testing.T) {
			area := p.Area()
			p.Translate(10, -5)

			assert.InDelta(t, area, p.Area(), 1e-4)
			assert.Equal(t, geom.Bounds{X: 10, Y: -5, W: 4, H: 4}, p.Bounds())
			assert.Equal(t, mgl32.Vec2{10, -5}, p.Points()[0])
			assert.Equal(t, geom.Edge{A: mgl32.Vec2{10, -5}, B: mgl32.Vec2{14, -5}}, p.Edges()[0])
			assert.True(t, p.Contains(mgl32.Vec2{13, -4}))
			assert.False(t, p.Contains(mgl32.Vec2{3, 1}))
		})
	}
}

func TestIsConvex(t *testing.T) {
	for name, p := range bothForms(t, rect(0, 0, 2, 2)) {
		assert.True(t, IsConvex(p), name)
	}
	for name, p := range bothForms(t, lShape()) {
		assert.False(t, IsConvex(p), name)
	}
	// collinear middle vertex is ignored
	ix, err := NewIndexedFrom([]mgl32.Vec2{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}})
	require.NoError(t, err)
	assert.True(t, IsConvex(ix))
}

func TestConversionsRoundTrip(t *testing.T) {
	ix, err := NewIndexedFrom(lShape())
	require.NoError(t, err)

	r, err := ix.Ring()
	require.NoError(t, err)
	assert.Equal(t, ix.Points(), r.Points())
	assert.Equal(t, ix.Edges(), r.Edges())
	assert.Equal(t, ix.Area(), r.Area())

	back, err := r.Indexed()
	require.NoError(t, err)
	assert.Equal(t, ix.Points(), back.Points())

	same, err := ToRing(r)
	require.NoError(t, err)
	assert.Same(t, r, same)

	sameIx, err := ToIndexed(ix)
	require.NoError(t, err)
	assert.Same(t, ix, sameIx)
}

func TestOutline(t *testing.T) {
	ix, err := NewIndexedFrom(rect(0, 0, 1, 1))
	require.NoError(t, err)

	vertices, indices := Outline(ix)
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 1}, vertices)
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 3, 3, 0}, indices)
}

func TestLargePolygonsAgreeWithMean(t *testing.T) {
	// above ParallelThreshold, read-many operations fan out
	points := regular(5000, 3, 4, 100)
	for name, p := range bothForms(t, points) {
		t.Run(name, func(t *testing.T) {
			assert.True(t, geom.EqualEps(geom.Mean(points), p.Centroid(), 1e-4))
			assert.InDelta(t, geom.SignedArea(points), p.Area(), 1e-1)
			assert.Equal(t, geom.BoundsOf(points), p.Bounds())
		})
	}
}

func TestErrorsAreWrapped(t *testing.T) {
	ix := NewIndexed(1)
	require.NoError(t, ix.Insert(mgl32.Vec2{0, 0}))
	err := ix.Insert(mgl32.Vec2{1, 1})
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Contains(t, err.Error(), "capacity 1")
}
