package sat

import (
	"testing"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/internal/fixture"
	"github.com/akmonengine/feather2d/parallel"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(t *testing.T, x, y, size float32) polygon.Polygon {
	t.Helper()
	p, err := polygon.NewIndexedFrom([]mgl32.Vec2{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}})
	require.NoError(t, err)
	return p
}

func lShape(t *testing.T) polygon.Polygon {
	t.Helper()
	p, err := polygon.NewRing(fixture.MustLoad("lshape"))
	require.NoError(t, err)
	return p
}

func TestCollide(t *testing.T) {
	tests := []struct {
		name      string
		a, b      polygon.Polygon
		colliding bool
	}{
		{"overlapping squares", square(t, 0, 0, 4), square(t, 2, 2, 4), true},
		{"separated squares", square(t, 0, 0, 4), square(t, 10, 10, 4), false},
		{"touching squares", square(t, 0, 0, 4), square(t, 4, 0, 4), true},
		{"square inside square", square(t, 0, 0, 10), square(t, 4, 4, 1), true},
		{"square in the notch of an L", lShape(t), square(t, 2.5, 2.5, 1), false},
		{"square over the arm of an L", lShape(t), square(t, 3, 1, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Collide(tt.a, tt.b, parallel.Sequential)
			assert.Equal(t, tt.colliding, r.Colliding)

			swapped := Collide(tt.b, tt.a, parallel.Sequential)
			assert.Equal(t, tt.colliding, swapped.Colliding, "swapped")

			if !r.Colliding {
				assert.Zero(t, r.Depth)
				assert.Empty(t, r.Contacts)
				return
			}
			assert.InDelta(t, 1, r.Normal.Len(), 1e-5)
			assert.GreaterOrEqual(t, r.Depth, float32(0))
		})
	}
}

func TestCollideNormalPointsFromAToB(t *testing.T) {
	a := square(t, 0, 0, 4)
	b := square(t, 3, 0, 4)

	r := Collide(a, b, parallel.Sequential)
	require.True(t, r.Colliding)
	assert.Greater(t, r.Normal.X(), float32(0))
	assert.Greater(t, r.Depth, float32(0))

	r = Collide(b, a, parallel.Sequential)
	require.True(t, r.Colliding)
	assert.Less(t, r.Normal.X(), float32(0))
}

func TestCollideContacts(t *testing.T) {
	big := square(t, 0, 0, 10)
	small := square(t, 4, 4, 1)

	r := Collide(big, small, parallel.Sequential)
	require.True(t, r.Colliding)
	require.NotEmpty(t, r.Contacts)
	for _, c := range r.Contacts {
		assert.True(t, small.Contains(c), "contact %v", c)
	}
}

func TestCollideStrategiesAgree(t *testing.T) {
	pairs := [][2]polygon.Polygon{
		{square(t, 0, 0, 4), square(t, 2, 2, 4)},
		{square(t, 0, 0, 4), square(t, 10, 10, 4)},
		{lShape(t), square(t, 3, 1, 2)},
		{lShape(t), square(t, 2.5, 2.5, 1)},
	}

	for _, pair := range pairs {
		trisA, err := Triangles(pair[0])
		require.NoError(t, err)
		trisB, err := Triangles(pair[1])
		require.NoError(t, err)
		direction := pair[1].Centroid().Sub(pair[0].Centroid())

		assert.Equal(t,
			collide(trisA, trisB, direction, parallel.Sequential),
			collide(trisA, trisB, direction, parallel.Parallel(4)),
		)
	}
}

func TestAxes(t *testing.T) {
	a := geom.Triangle{A: mgl32.Vec2{0, 0}, B: mgl32.Vec2{1, 0}, C: mgl32.Vec2{0, 1}}
	b := geom.Triangle{A: mgl32.Vec2{5, 5}, B: mgl32.Vec2{6, 5}, C: mgl32.Vec2{5, 6}}

	// the same triangle shape shares all three axes
	assert.Len(t, axes(a, b, parallel.Sequential), 3)

	c := geom.Triangle{A: mgl32.Vec2{0, 0}, B: mgl32.Vec2{2, 1}, C: mgl32.Vec2{1, 3}}
	assert.Len(t, axes(a, c, parallel.Sequential), 6)
}

func TestOverlap(t *testing.T) {
	a := geom.Triangle{A: mgl32.Vec2{0, 0}, B: mgl32.Vec2{4, 0}, C: mgl32.Vec2{0, 4}}

	far := geom.Triangle{A: mgl32.Vec2{3, 3}, B: mgl32.Vec2{5, 3}, C: mgl32.Vec2{3, 5}}
	_, _, ok := overlap(a, far, parallel.Sequential)
	assert.False(t, ok)

	near := geom.Triangle{A: mgl32.Vec2{3, 0}, B: mgl32.Vec2{6, 0}, C: mgl32.Vec2{3, 3}}
	axis, depth, ok := overlap(a, near, parallel.Sequential)
	require.True(t, ok)
	assert.InDelta(t, 1, axis.Len(), 1e-6)
	assert.Greater(t, depth, float32(0))
}

func TestCollideUntriangulable(t *testing.T) {
	flat, err := polygon.NewIndexedFrom([]mgl32.Vec2{{0, 0}, {1, 0}, {2, 0}})
	require.NoError(t, err)

	assert.False(t, Collide(flat, square(t, 0, -1, 4), parallel.Sequential).Colliding)
}

func TestCollideSliver(t *testing.T) {
	sliver, err := polygon.NewIndexedFrom([]mgl32.Vec2{{-0.29, 0.33}, {0.31, -3.16}, {-0.59, 1.70}})
	require.NoError(t, err)

	// the sliver's first vertex lies inside the square
	result := Collide(square(t, -1, 0, 1), sliver, parallel.Sequential)
	assert.True(t, result.Colliding)
}
