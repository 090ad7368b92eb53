package actor

import (
	"sync"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are moved by their velocity and by collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass (ground, walls)
	BodyTypeStatic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	}
	return "unknown"
}

type Material struct {
	Density     float32
	mass        float32
	Restitution float32 // 0= no rebound, 1= perfect restitution

	LinearDamping float32 // 0.0 - 1.0, typically 0.01
}

// GetMass is +Inf for static bodies.
func (material Material) GetMass() float32 {
	return material.mass
}

// InverseMass is 0 for static bodies.
func (material Material) InverseMass() float32 {
	if material.mass == 0 || math32.IsInf(material.mass, 1) {
		return 0
	}
	return 1 / material.mass
}

// RigidBody is a polygon moving without rotation. Its shape is kept in world
// space and translated in place on every integration step.
type RigidBody struct {
	// ID is assigned by the world the body is added to; 0 means unassigned.
	ID   uint64
	Name string

	Velocity         mgl32.Vec2
	accumulatedForce mgl32.Vec2

	IsSleeping bool
	SleepTimer float32

	Material  Material
	BodyType  BodyType
	IsTrigger bool // triggers report overlaps but are never resolved

	Shape polygon.Polygon

	// Mutex guards Velocity while collisions are resolved concurrently.
	Mutex sync.Mutex
}

// NewRigidBody creates a body around shape. density gives the mass of dynamic
// bodies from the shape's area and is ignored for static ones.
func NewRigidBody(shape polygon.Polygon, bodyType BodyType, density float32) *RigidBody {
	rb := &RigidBody{
		Shape:    shape,
		BodyType: bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{mass: math32.Inf(1)}
	} else {
		rb.Material = Material{
			Density: density,
			mass:    density * math32.Abs(shape.Area()),
		}
	}

	return rb
}

func (rb *RigidBody) IsDynamic() bool {
	return rb.BodyType == BodyTypeDynamic
}

func (rb *RigidBody) Bounds() geom.Bounds {
	return rb.Shape.Bounds()
}

func (rb *RigidBody) Position() mgl32.Vec2 {
	return rb.Shape.Centroid()
}

func (rb *RigidBody) TrySleep(dt float32, timeThreshold float32, velocityThreshold float32) {
	if rb.Velocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.ClearForces()
	rb.Velocity = mgl32.Vec2{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances the body by dt: gravity and accumulated forces change the
// velocity, damping is applied, and the shape is translated by velocity*dt.
// Static and sleeping bodies do not move.
func (rb *RigidBody) Integrate(dt float32, gravity mgl32.Vec2) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.Material.InverseMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math32.Exp(-rb.Material.LinearDamping * dt))

	delta := rb.Velocity.Mul(dt)
	if delta[0] != 0 || delta[1] != 0 {
		rb.Shape.Translate(delta[0], delta[1])
	}

	rb.ClearForces()
}

// AddForce wakes the body; the force applies on the next Integrate.
func (rb *RigidBody) AddForce(force mgl32.Vec2) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl32.Vec2{}
}
