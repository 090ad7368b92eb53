// Package feather2d ties the 2D geometry packages into a simulation world:
// bodies are integrated, paired by a quadtree broad phase, tested by GJK+EPA or
// SAT, reported as events and resolved by an impulse solver.
package feather2d

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/parallel"
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	Config Config
	Solver *Solver

	Events Events

	nextID uint64
}

func NewWorld(config Config) *World {
	config = config.withDefaults()
	return &World{
		Config: config,
		Solver: NewSolver(config.SolverParallelThreshold),
		Events: NewEvents(),
	}
}

// AddBody adds a rigid body to the world and assigns it the next free ID.
func (w *World) AddBody(body *actor.RigidBody) {
	w.nextID++
	body.ID = w.nextID
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// Body returns the body with the given ID, or nil.
func (w *World) Body(id uint64) *actor.RigidBody {
	for _, b := range w.Bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Step advances the world by dt, split in Config.Substeps substeps. It returns
// the colliding records of the last substep, triggers included.
func (w *World) Step(dt float32) []*constraint.Collision {
	w.Config = w.Config.withDefaults()
	if w.Solver == nil {
		w.Solver = NewSolver(w.Config.SolverParallelThreshold)
	}
	w.Solver.ParallelThreshold = w.Config.SolverParallelThreshold
	if w.Events.listeners == nil {
		w.Events = NewEvents()
	}

	h := dt / float32(w.Config.Substeps)
	var collisions []*constraint.Collision

	for range w.Config.Substeps {
		w.integrate(h)

		// Phase 2.0: Collision pair finding - Broad phase
		// Phase 2.1: Collision pair finding - narrow phase
		collisions = w.detectCollision()

		solvable := w.Events.recordCollisions(append([]*constraint.Collision(nil), collisions...))

		// Phase 3: single impulse per colliding pair
		for _, c := range solvable {
			w.Solver.AddCollision(c)
		}
		w.Solver.Solve()

		w.trySleep(h)
	}

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()

	return collisions
}

func (w *World) strategy(threshold int) parallel.Strategy {
	if len(w.Bodies) < threshold || w.Config.Workers <= 1 {
		return parallel.Sequential
	}
	return parallel.Parallel(w.Config.Workers)
}

func (w *World) integrate(h float32) {
	parallel.For(w.strategy(w.Config.BroadPhaseParallelThreshold), len(w.Bodies), func(i int) {
		w.Bodies[i].Integrate(h, w.Config.Gravity)
	})
}

func (w *World) detectCollision() []*constraint.Collision {
	pairs := BroadPhase(w.Bodies, w.strategy(w.Config.BroadPhaseParallelThreshold))
	return NarrowPhase(pairs, w.Config.Workers, w.Config.Detector)
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float32) {
	if w.Config.SleepTime <= 0 {
		return
	}
	for _, body := range w.Bodies {
		if !body.IsDynamic() {
			continue
		}
		body.TrySleep(h, w.Config.SleepTime, w.Config.SleepVelocity)
	}
}
