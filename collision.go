package feather2d

import (
	"slices"
	"sync"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/epa"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/gjk"
	"github.com/akmonengine/feather2d/parallel"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/akmonengine/feather2d/quadtree"
	"github.com/akmonengine/feather2d/sat"
	"github.com/go-gl/mathgl/mgl32"
)

// Pair - two bodies whose bounds overlap
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// CollisionPair is a pair GJK found overlapping, carrying its simplex to EPA.
type CollisionPair struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	simplex *gjk.Simplex
}

// BroadPhase returns the pairs of bodies whose bounds overlap, each pair once and
// in body order. Bodies are indexed in a quadtree by centroid. Each body queries
// its bounds grown by the largest body extent, which catches every neighbour
// whose shape reaches into its bounds wherever that neighbour's centroid is.
//
// Pairs of two static bodies, or of two sleeping ones, are skipped.
func BroadPhase(bodies []*actor.RigidBody, s parallel.Strategy) []Pair {
	if len(bodies) < 2 {
		return nil
	}

	bounds := make([]geom.Bounds, len(bodies))
	world := bodies[0].Bounds()
	var reach float32
	for i, body := range bodies {
		bounds[i] = body.Bounds()
		world = world.Union(bounds[i])
		reach = max(reach, bounds[i].W, bounds[i].H)
	}

	tree := quadtree.New[int](quadtree.FromBounds(world.Expand(geom.Epsilon)))
	for i, body := range bodies {
		c := body.Position()
		tree.Insert(c[0], c[1], i)
	}

	perBody := make([][]Pair, len(bodies))
	parallel.For(s, len(bodies), func(i int) {
		bodyA := bodies[i]

		var candidates []int
		for _, node := range tree.Find(quadtree.FromBounds(bounds[i].Expand(reach))) {
			j := node.Value
			if j <= i {
				continue
			}
			bodyB := bodies[j]
			if !bodyA.IsDynamic() && !bodyB.IsDynamic() {
				continue
			}
			if bodyA.IsSleeping && bodyB.IsSleeping {
				continue
			}
			if bounds[i].Intersects(bounds[j]) {
				candidates = append(candidates, j)
			}
		}
		slices.Sort(candidates)

		for _, j := range candidates {
			perBody[i] = append(perBody[i], Pair{BodyA: bodyA, BodyB: bodies[j]})
		}
	})

	var pairs []Pair
	for _, p := range perBody {
		pairs = append(pairs, p...)
	}
	return pairs
}

// NarrowPhase tests every pair and returns the colliding ones ordered by pair
// key. Pairs are dispatched to a GJK/EPA pipeline or to SAT workers according to
// detector, each stage running workersCount goroutines.
func NarrowPhase(pairs []Pair, workersCount int, detector Detector) []*constraint.Collision {
	workersCount = max(DEFAULT_WORKERS, workersCount)

	source := make(chan Pair, workersCount)
	go func() {
		defer close(source)
		for _, p := range pairs {
			source <- p
		}
	}()

	// Dispatcher: convex pairs go to GJK, the rest to SAT or the ring test
	gjkPairs := make(chan Pair, workersCount)
	otherPairs := make(chan Pair, workersCount)
	go func() {
		defer close(gjkPairs)
		defer close(otherPairs)

		for p := range source {
			if useGJK(p, detector) {
				gjkPairs <- p
			} else {
				otherPairs <- p
			}
		}
	}()

	all := make(chan *constraint.Collision, workersCount*2)
	var wg sync.WaitGroup

	// Path 1: GJK/EPA for convex shapes
	wg.Add(1)
	go func() {
		defer wg.Done()
		for c := range EPA(GJK(gjkPairs, workersCount), workersCount) {
			all <- c
		}
	}()

	// Path 2: SAT or ring overlap for everything else
	wg.Add(1)
	go func() {
		defer wg.Done()
		for c := range collideOther(otherPairs, workersCount, detector) {
			all <- c
		}
	}()

	go func() {
		wg.Wait()
		close(all)
	}()

	collisions := make([]*constraint.Collision, 0)
	for c := range all {
		collisions = append(collisions, c)
	}
	slices.SortFunc(collisions, (*constraint.Collision).Compare)
	return collisions
}

func useGJK(p Pair, detector Detector) bool {
	switch detector {
	case DetectorGJK:
		return true
	case DetectorAuto:
		return polygon.IsConvex(p.BodyA.Shape) && polygon.IsConvex(p.BodyB.Shape)
	}
	return false
}

func GJK(pairChan <-chan Pair, workersCount int) <-chan CollisionPair {
	collisionChan := make(chan CollisionPair, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(collisionChan)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for p := range pairChan {
					simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
					simplex.Reset()

					if collision := gjk.GJK(p.BodyA.Shape, p.BodyB.Shape, simplex); collision {
						collisionChan <- CollisionPair{
							BodyA:   p.BodyA,
							BodyB:   p.BodyB,
							simplex: simplex,
						}
					} else {
						gjk.SimplexPool.Put(simplex)
					}
				}
			}()
		}
		wg.Wait()
	}()

	return collisionChan
}

func EPA(p <-chan CollisionPair, workersCount int) <-chan *constraint.Collision {
	ch := make(chan *constraint.Collision, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range p {
					c := penetrate(pair.BodyA, pair.BodyB, pair.simplex)
					gjk.SimplexPool.Put(pair.simplex)
					ch <- c
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

func collideOther(pairs <-chan Pair, workersCount int, detector Detector) <-chan *constraint.Collision {
	ch := make(chan *constraint.Collision, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range pairs {
					var c *constraint.Collision
					if detector == DetectorRing {
						c = DetectRing(pair.BodyA, pair.BodyB)
					} else {
						c = DetectSAT(pair.BodyA, pair.BodyB, parallel.Sequential)
					}
					if c.Colliding {
						ch <- c
					}
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

// Detect tests a single pair with the chosen detector.
func Detect(a, b *actor.RigidBody, detector Detector) *constraint.Collision {
	switch {
	case detector == DetectorRing:
		return DetectRing(a, b)
	case useGJK(Pair{BodyA: a, BodyB: b}, detector):
		return DetectGJK(a, b)
	}
	return DetectSAT(a, b, parallel.Sequential)
}

// DetectGJK tests two convex bodies with GJK, then measures the penetration with
// EPA. Concave shapes are tested through their convex hulls.
func DetectGJK(a, b *actor.RigidBody) *constraint.Collision {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	if !gjk.GJK(a.Shape, b.Shape, simplex) {
		return constraint.New(a, b)
	}
	return penetrate(a, b, simplex)
}

// penetrate builds the record of a pair GJK reported overlapping. When EPA does
// not converge the record is marked Incomplete, with the centroid direction as
// normal and no depth.
func penetrate(a, b *actor.RigidBody, simplex *gjk.Simplex) *constraint.Collision {
	c := constraint.New(a, b)
	c.Colliding = true
	c.Contacts = containedVertices(a.Shape, b.Shape)

	p, err := epa.EPA(a.Shape, b.Shape, simplex)
	if err != nil {
		c.Incomplete = true
		c.Normal = geom.Normalize(b.Position().Sub(a.Position()), mgl32.Vec2{0, 1})
		return c
	}
	c.Normal = p.Normal
	c.Depth = p.Depth
	return c
}

// DetectSAT tests two bodies of any shape through their triangulations.
func DetectSAT(a, b *actor.RigidBody, s parallel.Strategy) *constraint.Collision {
	c := constraint.New(a, b)
	r := sat.Collide(a.Shape, b.Shape, s)
	c.Colliding = r.Colliding
	c.Normal = r.Normal
	c.Depth = r.Depth
	c.Contacts = r.Contacts
	return c
}

// DetectRing tests two bodies with the linked-form overlap query. The record is
// Incomplete when the contacts are one-sided.
func DetectRing(a, b *actor.RigidBody) *constraint.Collision {
	c := constraint.New(a, b)
	ring, err := polygon.ToRing(a.Shape)
	if err != nil {
		return c
	}

	o := ring.Overlap(b.Shape)
	c.Colliding = o.Colliding
	c.Normal = o.Normal
	c.Depth = o.Depth
	c.Contacts = o.Contacts
	c.Incomplete = o.Incomplete
	return c
}

// containedVertices returns the vertices of each shape lying inside the other.
func containedVertices(a, b polygon.Polygon) []mgl32.Vec2 {
	var contacts []mgl32.Vec2
	for _, p := range a.Points() {
		if b.Contains(p) {
			contacts = append(contacts, p)
		}
	}
	for _, p := range b.Points() {
		if a.Contains(p) && geom.IndexOf(contacts, p) < 0 {
			contacts = append(contacts, p)
		}
	}
	return contacts
}
