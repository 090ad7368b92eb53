package polygon

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// NoVertex is the link value of a detached vertex.
const NoVertex = -1

type vertex struct {
	point      mgl32.Vec2
	next, prev int
	angle      float32
	concave    bool
}

// Ring is a circular doubly-linked vertex list. Vertices live in an arena and link
// to each other by arena index. After every structural mutation the arena is
// rewritten in traversal order, so a vertex's index is its position in the ring
// and indices stay contiguous from 0.
//
// Each vertex caches its interior angle and whether it is concave; the ring caches
// its points, edges and bounds. Ring is not safe for concurrent mutation.
type Ring struct {
	nodes  []vertex
	points []mgl32.Vec2
	edges  []geom.Edge
	bounds geom.Bounds
}

// NewRing links points into a closed ring, in order.
func NewRing(points []mgl32.Vec2) (*Ring, error) {
	if points == nil {
		return nil, ErrNilPoints
	}
	if len(points) < 3 {
		return nil, errors.Wrapf(ErrTooFewPoints, "new ring with %d points", len(points))
	}

	r := &Ring{nodes: make([]vertex, len(points))}
	n := len(points)
	for i, p := range points {
		r.nodes[i] = vertex{point: p, next: (i + 1) % n, prev: (i + n - 1) % n}
	}
	r.refresh()
	r.bounds = geom.BoundsOf(r.points)
	return r, nil
}

// NewDetached returns a single unlinked vertex. It is a valid starting point for
// building a ring with InsertAfter.
func NewDetached(p mgl32.Vec2) *Ring {
	r := &Ring{nodes: []vertex{{point: p, next: NoVertex, prev: NoVertex}}}
	r.refresh()
	r.bounds = geom.Bounds{X: p[0], Y: p[1]}
	return r
}

func (r *Ring) Len() int {
	return len(r.nodes)
}

// At returns the point of vertex i.
func (r *Ring) At(i int) (mgl32.Vec2, bool) {
	if i < 0 || i >= len(r.nodes) {
		return mgl32.Vec2{}, false
	}
	return r.nodes[i].point, true
}

// Next returns the index following i, or NoVertex for a detached vertex.
func (r *Ring) Next(i int) int {
	return r.nodes[i].next
}

// Prev returns the index preceding i, or NoVertex for a detached vertex.
func (r *Ring) Prev(i int) int {
	return r.nodes[i].prev
}

// Angle is the cached interior angle at vertex i, in radians within [0, 2π).
func (r *Ring) Angle(i int) float32 {
	return r.nodes[i].angle
}

// IsConcave reports whether the interior angle at vertex i exceeds π.
func (r *Ring) IsConcave(i int) bool {
	return r.nodes[i].concave
}

// IsAcute reports whether the interior angle at vertex i is below π/2.
func (r *Ring) IsAcute(i int) bool {
	return !r.nodes[i].concave && r.nodes[i].angle < math32.Pi/2
}

// IsConvex reports whether no vertex is concave.
func (r *Ring) IsConvex() bool {
	if len(r.nodes) < 3 {
		return false
	}
	for _, v := range r.nodes {
		if v.concave {
			return false
		}
	}
	return true
}

// InsertAfter links p after vertex i and returns the index p ends up at.
func (r *Ring) InsertAfter(i int, p mgl32.Vec2) (int, error) {
	if i < 0 || i >= len(r.nodes) {
		return NoVertex, errors.Wrapf(ErrIndexOutOfRange, "insert after %d of %d", i, len(r.nodes))
	}
	if geom.IndexOf(r.points, p) >= 0 {
		return NoVertex, errors.Wrapf(ErrDuplicatePoint, "insert %v", p)
	}

	k := len(r.nodes)
	r.nodes = append(r.nodes, vertex{point: p})
	if r.nodes[i].next == NoVertex {
		r.nodes[i].next, r.nodes[i].prev = k, k
		r.nodes[k].next, r.nodes[k].prev = i, i
	} else {
		next := r.nodes[i].next
		r.nodes[k].prev, r.nodes[k].next = i, next
		r.nodes[next].prev = k
		r.nodes[i].next = k
	}

	r.reindex(0)
	r.bounds = r.bounds.Union(geom.Bounds{X: p[0], Y: p[1]})
	// the traversal starts from the old head, which keeps index 0
	return i + 1, nil
}

// RemoveAt unlinks vertex i. A ring reduced to one vertex becomes detached.
func (r *Ring) RemoveAt(i int) error {
	if i < 0 || i >= len(r.nodes) {
		return errors.Wrapf(ErrIndexOutOfRange, "remove index %d of %d", i, len(r.nodes))
	}

	if len(r.nodes) == 1 {
		r.nodes = r.nodes[:0]
		r.refresh()
		r.bounds = geom.Bounds{}
		return nil
	}

	prev, next := r.nodes[i].prev, r.nodes[i].next
	r.nodes[prev].next = next
	r.nodes[next].prev = prev

	start := 0
	if i == 0 {
		start = next
	}
	r.nodes[i].next, r.nodes[i].prev = NoVertex, NoVertex
	r.reindex(start)
	r.bounds = geom.BoundsOf(r.points)
	return nil
}

// Remove unlinks the vertex Equal to p.
func (r *Ring) Remove(p mgl32.Vec2) error {
	i := geom.IndexOf(r.points, p)
	if i < 0 {
		return errors.Wrapf(ErrPointNotFound, "remove %v", p)
	}
	return r.RemoveAt(i)
}

// Translate moves every vertex. Angles are unchanged; points, edges and bounds
// are updated in place.
func (r *Ring) Translate(dx, dy float32) {
	for i := range r.nodes {
		r.nodes[i].point = mgl32.Vec2{r.nodes[i].point[0] + dx, r.nodes[i].point[1] + dy}
	}
	translatePoints(r.points, dx, dy)
	for i := range r.edges {
		r.edges[i].A = mgl32.Vec2{r.edges[i].A[0] + dx, r.edges[i].A[1] + dy}
		r.edges[i].B = mgl32.Vec2{r.edges[i].B[0] + dx, r.edges[i].B[1] + dy}
	}
	r.bounds = r.bounds.Translate(dx, dy)
}

// reindex rewrites the arena in traversal order starting from start, dropping
// vertices that are no longer reachable.
func (r *Ring) reindex(start int) {
	if len(r.nodes) == 0 {
		r.refresh()
		return
	}

	ordered := make([]vertex, 0, len(r.nodes))
	i := start
	for {
		ordered = append(ordered, r.nodes[i])
		i = r.nodes[i].next
		if i == NoVertex || i == start {
			break
		}
	}

	n := len(ordered)
	for k := range ordered {
		if n == 1 {
			ordered[k].next, ordered[k].prev = NoVertex, NoVertex
			continue
		}
		ordered[k].next = (k + 1) % n
		ordered[k].prev = (k + n - 1) % n
	}
	r.nodes = ordered
	r.refresh()
}

// refresh rebuilds the point and edge caches and every vertex angle. Bounds are
// maintained by the callers.
func (r *Ring) refresh() {
	r.points = make([]mgl32.Vec2, len(r.nodes))
	for i, v := range r.nodes {
		r.points[i] = v.point
	}
	if len(r.nodes) >= 2 {
		r.edges = geom.EdgesOf(r.points)
	} else {
		r.edges = nil
	}

	if len(r.nodes) < 3 {
		for i := range r.nodes {
			r.nodes[i].angle, r.nodes[i].concave = 0, false
		}
		return
	}

	winding := geom.SignedArea(r.points)
	for i := range r.nodes {
		v := &r.nodes[i]
		prev := r.nodes[v.prev].point
		next := r.nodes[v.next].point
		v.angle, v.concave = interiorAngle(prev, v.point, next, winding)
	}
}

// interiorAngle measures the angle at b between a and c on the polygon's interior
// side. winding is the polygon's signed area.
func interiorAngle(a, b, c mgl32.Vec2, winding float32) (float32, bool) {
	u := a.Sub(b)
	w := c.Sub(b)
	theta := math32.Atan2(math32.Abs(geom.Cross(u, w)), u.Dot(w))

	turn := geom.Cross3(a, b, c)
	if turn == 0 || winding == 0 {
		return theta, false
	}
	if (turn > 0) != (winding > 0) {
		return 2*math32.Pi - theta, true
	}
	return theta, false
}

func (r *Ring) Points() []mgl32.Vec2 {
	return append([]mgl32.Vec2(nil), r.points...)
}

func (r *Ring) Edges() []geom.Edge {
	return append([]geom.Edge(nil), r.edges...)
}

func (r *Ring) Bounds() geom.Bounds {
	return r.bounds
}

func (r *Ring) Centroid() mgl32.Vec2 {
	return centroidOf(r.points)
}

func (r *Ring) Area() float32 {
	if len(r.nodes) < 3 {
		return 0
	}
	return areaOf(r.edges)
}

func (r *Ring) Contains(p mgl32.Vec2) bool {
	if len(r.nodes) < 3 {
		return false
	}
	return containsPoint(r.edges, p)
}

func (r *Ring) Support(direction mgl32.Vec2) mgl32.Vec2 {
	return supportOf(r.points, direction)
}

// Indexed converts the ring to its index form.
func (r *Ring) Indexed() (*Indexed, error) {
	return NewIndexedFrom(r.Points())
}
