package feather2d

import (
	"slices"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case TRIGGER_ENTER:
		return "trigger-enter"
	case COLLISION_ENTER:
		return "collision-enter"
	case TRIGGER_STAY:
		return "trigger-stay"
	case COLLISION_STAY:
		return "collision-stay"
	case TRIGGER_EXIT:
		return "trigger-exit"
	case COLLISION_EXIT:
		return "collision-exit"
	case ON_SLEEP:
		return "sleep"
	case ON_WAKE:
		return "wake"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// PairEvent reports a change in the contact state of two bodies. BodyA has the
// lower ID.
type PairEvent struct {
	EventType EventType
	BodyA     *actor.RigidBody
	BodyB     *actor.RigidBody
}

func (e PairEvent) Type() EventType { return e.EventType }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

type activePair struct {
	bodyA, bodyB *actor.RigidBody
}

func (p activePair) isTrigger() bool {
	return p.bodyA.IsTrigger || p.bodyB.IsTrigger
}

// Events buffers collision, trigger and sleep state changes during a step and
// delivers them to listeners on flush.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[constraint.PairKey]activePair
	currentActivePairs  map[constraint.PairKey]activePair

	sleepStates map[uint64]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[constraint.PairKey]activePair),
		currentActivePairs:  make(map[constraint.PairKey]activePair),
		sleepStates:         make(map[uint64]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions marks every pair as active for this step and returns the
// records to solve: trigger pairs are reported but never resolved.
func (e *Events) recordCollisions(collisions []*constraint.Collision) []*constraint.Collision {
	n := 0
	for _, c := range collisions {
		bodyA, bodyB := c.BodyA, c.BodyB
		if bodyB.ID < bodyA.ID {
			bodyA, bodyB = bodyB, bodyA
		}
		e.currentActivePairs[c.Key()] = activePair{bodyA: bodyA, bodyB: bodyB}

		if !c.IsTrigger() {
			collisions[n] = c
			n++
		}
	}
	return collisions[:n]
}

// forget drops every tracked state of body.
func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body.ID)
	for key, pair := range e.previousActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.previousActivePairs, key)
		}
	}
	for key, pair := range e.currentActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.currentActivePairs, key)
		}
	}
}

// processCollisionEvents compares current and previous pairs to detect
// Enter/Stay/Exit. Pairs are visited in key order so events come out in a
// stable order.
func (e *Events) processCollisionEvents() {
	for _, key := range sortedKeys(e.currentActivePairs) {
		pair := e.currentActivePairs[key]
		// both asleep: no stay spam
		if pair.bodyA.IsSleeping && pair.bodyB.IsSleeping {
			continue
		}

		var eventType EventType
		_, wasActive := e.previousActivePairs[key]
		switch {
		case wasActive && pair.isTrigger():
			eventType = TRIGGER_STAY
		case wasActive:
			eventType = COLLISION_STAY
		case pair.isTrigger():
			eventType = TRIGGER_ENTER
		default:
			eventType = COLLISION_ENTER
		}
		e.buffer = append(e.buffer, PairEvent{EventType: eventType, BodyA: pair.bodyA, BodyB: pair.bodyB})
	}

	for _, key := range sortedKeys(e.previousActivePairs) {
		if _, ok := e.currentActivePairs[key]; ok {
			continue
		}
		pair := e.previousActivePairs[key]
		eventType := COLLISION_EXIT
		if pair.isTrigger() {
			eventType = TRIGGER_EXIT
		}
		e.buffer = append(e.buffer, PairEvent{EventType: eventType, BodyA: pair.bodyA, BodyB: pair.bodyB})
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body.ID]
		if !exists {
			e.sleepStates[body.ID] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body.ID] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body.ID] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}

func sortedKeys(m map[constraint.PairKey]activePair) []constraint.PairKey {
	keys := make([]constraint.PairKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, constraint.PairKey.Compare)
	return keys
}
