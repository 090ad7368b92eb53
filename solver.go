package feather2d

import (
	"slices"
	"sync"

	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/parallel"
)

// Solver resolves collisions once each. Pending records are keyed by body pair,
// so a pair is queued at most once until it is solved.
//
// AddCollision may run concurrently with Solve: Solve works on a snapshot, and
// removes exactly the records it resolved.
type Solver struct {
	mu      sync.Mutex
	pending map[constraint.PairKey]*constraint.Collision

	stagedMu sync.Mutex
	staged   []*constraint.Collision

	// ParallelThreshold is the pending count from which Solve resolves in parallel.
	ParallelThreshold int
}

func NewSolver(parallelThreshold int) *Solver {
	return &Solver{
		pending:           make(map[constraint.PairKey]*constraint.Collision),
		ParallelThreshold: parallelThreshold,
	}
}

// AddCollision queues c. Records of a body with itself, and records of a pair
// already pending, are dropped. It reports whether c was queued.
func (s *Solver) AddCollision(c *constraint.Collision) bool {
	if c.BodyA == c.BodyB || c.BodyA.ID == c.BodyB.ID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.Key()
	if _, ok := s.pending[key]; ok {
		return false
	}
	s.pending[key] = c
	return true
}

// Pending returns the queued records ordered by pair key.
func (s *Solver) Pending() []*constraint.Collision {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Solver) snapshot() []*constraint.Collision {
	records := make([]*constraint.Collision, 0, len(s.pending))
	for _, c := range s.pending {
		records = append(records, c)
	}
	slices.SortFunc(records, (*constraint.Collision).Compare)
	return records
}

func (s *Solver) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Solve resolves every pending record and removes it from the queue. It returns
// how many records applied an impulse.
func (s *Solver) Solve() int {
	s.mu.Lock()
	records := s.snapshot()
	s.mu.Unlock()

	if len(records) == 0 {
		return 0
	}

	strategy := parallel.Choose(len(records), max(1, s.ParallelThreshold))
	applied := parallel.Reduce(strategy, records, 0,
		func(n int, c *constraint.Collision) int {
			resolved := c.Resolve()
			s.stage(c)
			if resolved {
				n++
			}
			return n
		},
		func(a, b int) int { return a + b },
	)

	s.stagedMu.Lock()
	staged := s.staged
	s.staged = nil
	s.stagedMu.Unlock()

	s.mu.Lock()
	for _, c := range staged {
		if s.pending[c.Key()] == c {
			delete(s.pending, c.Key())
		}
	}
	s.mu.Unlock()

	return applied
}

func (s *Solver) stage(c *constraint.Collision) {
	s.stagedMu.Lock()
	s.staged = append(s.staged, c)
	s.stagedMu.Unlock()
}
