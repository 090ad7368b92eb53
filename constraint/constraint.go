// Package constraint holds the result of a pairwise collision test and resolves
// it with a single velocity impulse.
package constraint

import (
	"cmp"
	"time"

	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl32"
)

// PairKey identifies an unordered pair of bodies by their IDs, lowest first.
type PairKey struct {
	Min, Max uint64
}

func NewPairKey(a, b uint64) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Min: a, Max: b}
}

// Compare orders keys by Min, then by Max.
func (k PairKey) Compare(o PairKey) int {
	if c := cmp.Compare(k.Min, o.Min); c != 0 {
		return c
	}
	return cmp.Compare(k.Max, o.Max)
}

// Collision is the outcome of testing two bodies. Normal is unit length and
// points from BodyA toward BodyB; Depth is never negative. Contacts may be empty.
// Incomplete marks contact data the detector could only partly fill in.
//
// Two records are equal when they involve the same two bodies, in either order.
type Collision struct {
	BodyA, BodyB *actor.RigidBody

	Colliding  bool
	Normal     mgl32.Vec2
	Depth      float32
	Contacts   []mgl32.Vec2
	Incomplete bool

	Time time.Time
}

// New returns a non-colliding record for a and b stamped with the current time.
func New(a, b *actor.RigidBody) *Collision {
	return &Collision{BodyA: a, BodyB: b, Time: time.Now()}
}

func (c *Collision) Key() PairKey {
	return NewPairKey(c.BodyA.ID, c.BodyB.ID)
}

func (c *Collision) Compare(o *Collision) int {
	return c.Key().Compare(o.Key())
}

func (c *Collision) Equal(o *Collision) bool {
	return c.Key() == o.Key()
}

// IsTrigger reports whether either body is a trigger.
func (c *Collision) IsTrigger() bool {
	return c.BodyA.IsTrigger || c.BodyB.IsTrigger
}

// ComputeRestitution is the bounciness of a contact: a pair bounces no more than
// its least bouncy body.
func ComputeRestitution(matA, matB actor.Material) float32 {
	return min(matA.Restitution, matB.Restitution)
}

// Resolve applies one impulse along Normal, changing the velocities of the
// dynamic bodies of a colliding pair. Pairs already separating along Normal, pairs
// of two immovable bodies and a body colliding with itself are left alone. It
// reports whether an impulse was applied.
//
// Both bodies are locked for the duration, in ID order.
func (c *Collision) Resolve() bool {
	if !c.Colliding || c.BodyA == c.BodyB {
		return false
	}

	first, second := c.BodyA, c.BodyB
	if second.ID < first.ID {
		first, second = second, first
	}
	first.Mutex.Lock()
	defer first.Mutex.Unlock()
	second.Mutex.Lock()
	defer second.Mutex.Unlock()

	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassA := inverseMass(bodyA)
	invMassB := inverseMass(bodyB)
	if invMassA+invMassB == 0 {
		return false
	}

	normalVel := bodyB.Velocity.Sub(bodyA.Velocity).Dot(c.Normal)
	if normalVel > 0 {
		return false
	}

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)
	j := -(1 + restitution) * normalVel / (invMassA + invMassB)
	impulse := c.Normal.Mul(j)

	if bodyA.IsDynamic() {
		bodyA.Velocity = bodyA.Velocity.Sub(impulse.Mul(invMassA))
		bodyA.Awake()
		clampSmallVelocities(bodyA)
	}
	if bodyB.IsDynamic() {
		bodyB.Velocity = bodyB.Velocity.Add(impulse.Mul(invMassB))
		bodyB.Awake()
		clampSmallVelocities(bodyB)
	}
	return true
}

func inverseMass(rb *actor.RigidBody) float32 {
	if !rb.IsDynamic() {
		return 0
	}
	return rb.Material.InverseMass()
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl32.Vec2{}
	}
}
