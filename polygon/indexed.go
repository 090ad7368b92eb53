package polygon

import (
	"sync"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/parallel"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Indexed stores points under dense keys 0..Len()-1 in insertion order, up to a
// fixed capacity. Centroid, area, bounds and edges are cached and refreshed after
// every mutation.
//
// A single RWMutex guards the whole polygon for the duration of each operation,
// parallel ones included. Indexed is safe for concurrent use.
type Indexed struct {
	mu       sync.RWMutex
	points   []mgl32.Vec2
	capacity int

	centroid mgl32.Vec2
	area     float32
	bounds   geom.Bounds
	edges    []geom.Edge
}

// NewIndexed returns an empty polygon able to hold capacity points.
func NewIndexed(capacity int) *Indexed {
	return &Indexed{
		points:   make([]mgl32.Vec2, 0, max(0, capacity)),
		capacity: max(0, capacity),
	}
}

// NewIndexedFrom builds a polygon holding exactly points, in order. The duplicate
// check runs in parallel above ParallelThreshold points.
func NewIndexedFrom(points []mgl32.Vec2) (*Indexed, error) {
	if points == nil {
		return nil, ErrNilPoints
	}

	s := parallel.Choose(len(points), ParallelThreshold)
	duplicate := parallel.Any(s, len(points), func(i int) bool {
		for j := 0; j < i; j++ {
			if geom.Equal(points[i], points[j]) {
				return true
			}
		}
		return false
	})
	if duplicate {
		return nil, errors.Wrap(ErrDuplicatePoint, "new indexed polygon")
	}

	ix := NewIndexed(len(points))
	ix.points = append(ix.points, points...)
	ix.refresh()
	return ix, nil
}

// Insert appends p under key Len(). Inserting past capacity or a point Equal to a
// stored one fails and leaves the polygon unchanged.
func (ix *Indexed) Insert(p mgl32.Vec2) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(ix.points) >= ix.capacity {
		return errors.Wrapf(ErrCapacityExceeded, "insert %v (capacity %d)", p, ix.capacity)
	}
	if hasDuplicate(ix.points, p) {
		return errors.Wrapf(ErrDuplicatePoint, "insert %v", p)
	}

	ix.points = append(ix.points, p)
	ix.refresh()
	return nil
}

// RemoveAt deletes the point under key i. Later keys shift down by one.
func (ix *Indexed) RemoveAt(i int) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	return ix.removeAt(i)
}

// Remove deletes the stored point Equal to p.
func (ix *Indexed) Remove(p mgl32.Vec2) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	i := geom.IndexOf(ix.points, p)
	if i < 0 {
		return errors.Wrapf(ErrPointNotFound, "remove %v", p)
	}
	return ix.removeAt(i)
}

func (ix *Indexed) removeAt(i int) error {
	if i < 0 || i >= len(ix.points) {
		return errors.Wrapf(ErrIndexOutOfRange, "remove index %d of %d", i, len(ix.points))
	}
	ix.points = append(ix.points[:i], ix.points[i+1:]...)
	ix.refresh()
	return nil
}

// At returns the point under key i.
func (ix *Indexed) At(i int) (mgl32.Vec2, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if i < 0 || i >= len(ix.points) {
		return mgl32.Vec2{}, false
	}
	return ix.points[i], true
}

func (ix *Indexed) Translate(dx, dy float32) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	translatePoints(ix.points, dx, dy)
	ix.refresh()
}

// refresh recomputes every cache. Callers hold the write lock.
func (ix *Indexed) refresh() {
	ix.edges = geom.EdgesOf(ix.points)
	ix.centroid = centroidOf(ix.points)
	ix.area = areaOf(ix.edges)
	ix.bounds = boundsOf(ix.points)
}

func (ix *Indexed) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.points)
}

func (ix *Indexed) Capacity() int {
	return ix.capacity
}

func (ix *Indexed) Points() []mgl32.Vec2 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]mgl32.Vec2(nil), ix.points...)
}

func (ix *Indexed) Edges() []geom.Edge {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]geom.Edge(nil), ix.edges...)
}

func (ix *Indexed) Bounds() geom.Bounds {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.bounds
}

func (ix *Indexed) Centroid() mgl32.Vec2 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.centroid
}

func (ix *Indexed) Area() float32 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.area
}

func (ix *Indexed) Contains(p mgl32.Vec2) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.edges) < 3 {
		return false
	}
	return containsPoint(ix.edges, p)
}

func (ix *Indexed) Support(direction mgl32.Vec2) mgl32.Vec2 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return supportOf(ix.points, direction)
}

// Ring converts the polygon to its linked form.
func (ix *Indexed) Ring() (*Ring, error) {
	return NewRing(ix.Points())
}
