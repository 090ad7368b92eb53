package feather2d

import (
	"testing"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/internal/fixture"
	"github.com/akmonengine/feather2d/parallel"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions

func createBody(t testing.TB, id uint64, points []mgl32.Vec2, bodyType actor.BodyType) *actor.RigidBody {
	t.Helper()
	shape, err := polygon.NewIndexedFrom(points)
	require.NoError(t, err)

	rb := actor.NewRigidBody(shape, bodyType, 1)
	rb.ID = id
	return rb
}

func createBox(t testing.TB, id uint64, x, y, w, h float32, bodyType actor.BodyType) *actor.RigidBody {
	t.Helper()
	return createBody(t, id, []mgl32.Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, bodyType)
}

func createL(t testing.TB, id uint64) *actor.RigidBody {
	t.Helper()
	shape, err := polygon.NewRing(fixture.MustLoad("lshape"))
	require.NoError(t, err)

	rb := actor.NewRigidBody(shape, actor.BodyTypeStatic, 1)
	rb.ID = id
	return rb
}

func pairIDs(pairs []Pair) [][2]uint64 {
	ids := make([][2]uint64, 0, len(pairs))
	for _, p := range pairs {
		ids = append(ids, [2]uint64{p.BodyA.ID, p.BodyB.ID})
	}
	return ids
}

func TestBroadPhase(t *testing.T) {
	tests := []struct {
		name   string
		bodies []*actor.RigidBody
		want   [][2]uint64
	}{
		{
			name:   "no bodies",
			bodies: nil,
			want:   [][2]uint64{},
		},
		{
			name: "separated",
			bodies: []*actor.RigidBody{
				createBox(t, 1, 0, 0, 1, 1, actor.BodyTypeDynamic),
				createBox(t, 2, 5, 5, 1, 1, actor.BodyTypeDynamic),
			},
			want: [][2]uint64{},
		},
		{
			name: "overlapping",
			bodies: []*actor.RigidBody{
				createBox(t, 1, 0, 0, 2, 2, actor.BodyTypeDynamic),
				createBox(t, 2, 1, 1, 2, 2, actor.BodyTypeDynamic),
				createBox(t, 3, 10, 10, 2, 2, actor.BodyTypeDynamic),
				createBox(t, 4, 2.5, 2.5, 2, 2, actor.BodyTypeDynamic),
			},
			want: [][2]uint64{{1, 2}, {2, 4}},
		},
		{
			name: "static pairs are skipped",
			bodies: []*actor.RigidBody{
				createBox(t, 1, 0, 0, 2, 2, actor.BodyTypeStatic),
				createBox(t, 2, 1, 1, 2, 2, actor.BodyTypeStatic),
			},
			want: [][2]uint64{},
		},
		{
			name: "small body at the end of a long ground",
			bodies: []*actor.RigidBody{
				createBox(t, 1, 0, 0, 100, 2, actor.BodyTypeStatic),
				createBox(t, 2, 95, 1, 2, 2, actor.BodyTypeDynamic),
			},
			want: [][2]uint64{{1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pairIDs(BroadPhase(tt.bodies, parallel.Sequential)))
			assert.Equal(t, tt.want, pairIDs(BroadPhase(tt.bodies, parallel.Parallel(4))), "parallel")
		})
	}
}

func TestBroadPhaseSleepingBodies(t *testing.T) {
	a := createBox(t, 1, 0, 0, 2, 2, actor.BodyTypeDynamic)
	b := createBox(t, 2, 1, 1, 2, 2, actor.BodyTypeDynamic)
	a.Sleep()
	b.Sleep()
	assert.Empty(t, BroadPhase([]*actor.RigidBody{a, b}, parallel.Sequential))

	b.Awake()
	assert.Len(t, BroadPhase([]*actor.RigidBody{a, b}, parallel.Sequential), 1)
}

func TestBroadPhaseGrid(t *testing.T) {
	// a 20x20 grid of touching unit boxes: every box touches its right, upper and
	// diagonal neighbours
	var bodies []*actor.RigidBody
	id := uint64(0)
	for y := range 20 {
		for x := range 20 {
			id++
			bodies = append(bodies, createBox(t, id, float32(x), float32(y), 1, 1, actor.BodyTypeDynamic))
		}
	}

	pairs := BroadPhase(bodies, parallel.Parallel(4))
	// horizontal + vertical + two diagonals
	want := 19*20 + 20*19 + 2*19*19
	assert.Len(t, pairs, want)
	assert.Equal(t, pairIDs(BroadPhase(bodies, parallel.Sequential)), pairIDs(pairs))
}

func TestNarrowPhase(t *testing.T) {
	overlapping := []Pair{{
		BodyA: createBox(t, 1, 0, 0, 4, 4, actor.BodyTypeDynamic),
		BodyB: createBox(t, 2, 2, 2, 4, 4, actor.BodyTypeDynamic),
	}}
	notch := []Pair{{
		BodyA: createL(t, 1),
		BodyB: createBox(t, 2, 2.5, 2.5, 1, 1, actor.BodyTypeDynamic),
	}}

	tests := []struct {
		name      string
		pairs     []Pair
		detector  Detector
		colliding bool
	}{
		{"auto on squares", overlapping, DetectorAuto, true},
		{"sat on squares", overlapping, DetectorSAT, true},
		{"ring on squares", overlapping, DetectorRing, true},
		{"auto on the notch of an L", notch, DetectorAuto, false},
		{"ring on the notch of an L", notch, DetectorRing, false},
		{"gjk tests the hull of an L", notch, DetectorGJK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collisions := NarrowPhase(tt.pairs, 2, tt.detector)
			if !tt.colliding {
				assert.Empty(t, collisions)
				return
			}
			require.Len(t, collisions, 1)
			assert.True(t, collisions[0].Colliding)
			assert.InDelta(t, 1, collisions[0].Normal.Len(), 1e-5)
		})
	}
}

func TestNarrowPhaseOrdersByPair(t *testing.T) {
	var pairs []Pair
	for i := range 10 {
		id := uint64(20 - 2*i)
		x := float32(i * 10)
		pairs = append(pairs, Pair{
			BodyA: createBox(t, id, x, 0, 2, 2, actor.BodyTypeDynamic),
			BodyB: createBox(t, id-1, x+1, 0, 2, 2, actor.BodyTypeDynamic),
		})
	}

	collisions := NarrowPhase(pairs, 4, DetectorAuto)
	require.Len(t, collisions, 10)
	for i := 1; i < len(collisions); i++ {
		assert.Negative(t, collisions[i-1].Compare(collisions[i]))
	}
}

func TestDetectGJK(t *testing.T) {
	a := createBox(t, 1, 0, 0, 4, 4, actor.BodyTypeDynamic)
	b := createBox(t, 2, 3, 0, 4, 4, actor.BodyTypeDynamic)

	c := DetectGJK(a, b)
	require.True(t, c.Colliding)
	assert.False(t, c.Incomplete)
	assert.InDelta(t, 1, c.Depth, 1e-4)
	assert.InDelta(t, 1, c.Normal.X(), 1e-4)
	assert.NotEmpty(t, c.Contacts)
	assert.False(t, c.Time.IsZero())

	far := createBox(t, 3, 10, 10, 4, 4, actor.BodyTypeDynamic)
	c = DetectGJK(a, far)
	assert.False(t, c.Colliding)
	assert.Zero(t, c.Depth)
}

func TestDetectSAT(t *testing.T) {
	l := createL(t, 1)
	arm := createBox(t, 2, 3, 1, 2, 2, actor.BodyTypeDynamic)

	c := DetectSAT(l, arm, parallel.Sequential)
	assert.True(t, c.Colliding)
	assert.Same(t, l, c.BodyA)
	assert.Same(t, arm, c.BodyB)

	c = Detect(l, createBox(t, 3, 2.5, 2.5, 1, 1, actor.BodyTypeDynamic), DetectorAuto)
	assert.False(t, c.Colliding)
}

func TestDetectRing(t *testing.T) {
	a := createBox(t, 1, 0, 0, 4, 4, actor.BodyTypeDynamic)

	// one-sided containment
	inner := createBox(t, 2, 1, 1, 1, 1, actor.BodyTypeDynamic)
	c := DetectRing(a, inner)
	assert.True(t, c.Colliding)
	assert.True(t, c.Incomplete)

	// corners inside each other
	corner := createBox(t, 3, 3, 3, 4, 4, actor.BodyTypeDynamic)
	c = Detect(a, corner, DetectorRing)
	assert.True(t, c.Colliding)
	assert.False(t, c.Incomplete)
}

func TestDetectorNames(t *testing.T) {
	for _, d := range []Detector{DetectorAuto, DetectorGJK, DetectorSAT, DetectorRing} {
		parsed, ok := ParseDetector(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, parsed)
	}
	_, ok := ParseDetector("nope")
	assert.False(t, ok)
}
