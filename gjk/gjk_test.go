package gjk

import (
	"testing"

	"github.com/akmonengine/feather2d/polygon"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions

func square(t *testing.T, x, y, size float32) polygon.Polygon {
	t.Helper()
	p, err := polygon.NewIndexedFrom([]mgl32.Vec2{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}})
	require.NoError(t, err)
	return p
}

func shape(t *testing.T, points ...mgl32.Vec2) polygon.Polygon {
	t.Helper()
	p, err := polygon.NewRing(points)
	require.NoError(t, err)
	return p
}

func TestMinkowskiSupport(t *testing.T) {
	a := square(t, 0, 0, 4)
	b := square(t, 10, 0, 4)

	assert.Equal(t, mgl32.Vec2{-6, 0}, MinkowskiSupport(a, b, mgl32.Vec2{1, 0}))
	assert.Equal(t, mgl32.Vec2{-14, 0}, MinkowskiSupport(a, b, mgl32.Vec2{-1, 0}))
}

func TestGJK(t *testing.T) {
	tests := []struct {
		name      string
		a, b      polygon.Polygon
		colliding bool
	}{
		{
			name:      "overlapping squares",
			a:         square(t, 0, 0, 4),
			b:         square(t, 2, 2, 4),
			colliding: true,
		},
		{
			name:      "separated squares",
			a:         square(t, 0, 0, 4),
			b:         square(t, 10, 10, 4),
			colliding: false,
		},
		{
			name:      "touching edges",
			a:         square(t, 0, 0, 4),
			b:         square(t, 4, 0, 4),
			colliding: true,
		},
		{
			name:      "identical squares",
			a:         square(t, 0, 0, 4),
			b:         square(t, 0, 0, 4),
			colliding: true,
		},
		{
			name:      "overlapping bounds, separated shapes",
			a:         shape(t, mgl32.Vec2{0, 0}, mgl32.Vec2{4, 0}, mgl32.Vec2{0, 4}),
			b:         square(t, 3, 3, 2),
			colliding: false,
		},
		{
			name:      "square inside square",
			a:         square(t, 0, 0, 10),
			b:         square(t, 4, 4, 1),
			colliding: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := SimplexPool.Get().(*Simplex)
			defer SimplexPool.Put(simplex)

			assert.Equal(t, tt.colliding, GJK(tt.a, tt.b, simplex))
			assert.Equal(t, tt.colliding, GJK(tt.b, tt.a, simplex), "swapped")
		})
	}
}

func TestGJKSimplexEnclosesOriginOrTouches(t *testing.T) {
	var simplex Simplex
	require.True(t, GJK(square(t, 0, 0, 4), square(t, 2, 2, 4), &simplex))
	assert.GreaterOrEqual(t, simplex.Count, 1)
	assert.LessOrEqual(t, simplex.Count, 3)
	assert.Len(t, simplex.Slice(), simplex.Count)
}

func TestGJKTestsConvexHull(t *testing.T) {
	l := shape(t,
		mgl32.Vec2{0, 0}, mgl32.Vec2{4, 0}, mgl32.Vec2{4, 2},
		mgl32.Vec2{2, 2}, mgl32.Vec2{2, 4}, mgl32.Vec2{0, 4},
	)
	// sits in the notch of the L, inside its hull
	notch := square(t, 2.5, 2.5, 1)

	var simplex Simplex
	assert.True(t, GJK(l, notch, &simplex))
}

func TestGJKEmptyPolygon(t *testing.T) {
	var simplex Simplex
	assert.False(t, GJK(polygon.NewIndexed(4), square(t, 0, 0, 4), &simplex))
	assert.Zero(t, simplex.Count)
}

func TestSimplexReset(t *testing.T) {
	s := Simplex{Count: 3}
	s.Reset()
	assert.Zero(t, s.Count)
	assert.Empty(t, s.Slice())
}
