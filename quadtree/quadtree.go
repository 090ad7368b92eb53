// Package quadtree is a point-region quadtree used as the broad phase.
//
// Every node stores one value tagged with a point, and that point splits the
// node's region into four quadrants for the values inserted after it. The shape
// of a tree therefore depends on insertion order: inserting sorted points
// degenerates to a list. Shuffle or insert in a spatially mixed order when that
// matters.
package quadtree

import "github.com/akmonengine/feather2d/geom"

// Quad is an axis-aligned region anchored at its minimum corner.
type Quad struct {
	X, Y, W, H float32
}

func FromBounds(b geom.Bounds) Quad {
	return Quad{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// Contains reports whether (x, y) lies in q, borders included.
func (q Quad) Contains(x, y float32) bool {
	return x >= q.X && x <= q.X+q.W && y >= q.Y && y <= q.Y+q.H
}

// Intersects reports whether q and o overlap, touching borders included.
func (q Quad) Intersects(o Quad) bool {
	return q.X <= o.X+o.W && o.X <= q.X+q.W && q.Y <= o.Y+o.H && o.Y <= q.Y+q.H
}

// Quadrants of a node, relative to its point.
const (
	SouthWest = iota // x < X, y < Y
	SouthEast        // x >= X, y < Y
	NorthWest        // x < X, y >= Y
	NorthEast        // x >= X, y >= Y
)

type Node[T any] struct {
	X, Y  float32
	Value T

	children [4]*Node[T]
}

func (n *Node[T]) quadrant(x, y float32) int {
	q := SouthWest
	if x >= n.X {
		q |= SouthEast
	}
	if y >= n.Y {
		q |= NorthWest
	}
	return q
}

// region returns the part of parent covered by quadrant q of n.
func (n *Node[T]) region(parent Quad, q int) Quad {
	r := parent
	if q&SouthEast != 0 {
		r.W = parent.X + parent.W - n.X
		r.X = n.X
	} else {
		r.W = n.X - parent.X
	}
	if q&NorthWest != 0 {
		r.H = parent.Y + parent.H - n.Y
		r.Y = n.Y
	} else {
		r.H = n.Y - parent.Y
	}
	return r
}

// Child returns the subtree in quadrant q, or nil.
func (n *Node[T]) Child(q int) *Node[T] {
	return n.children[q]
}

// Tree is not safe for concurrent mutation; concurrent Find calls are fine.
type Tree[T any] struct {
	boundary Quad
	root     *Node[T]
	size     int
}

func New[T any](boundary Quad) *Tree[T] {
	return &Tree[T]{boundary: boundary}
}

func (t *Tree[T]) Boundary() Quad {
	return t.boundary
}

func (t *Tree[T]) Len() int {
	return t.size
}

func (t *Tree[T]) Clear() {
	t.root = nil
	t.size = 0
}

// Insert stores v at (x, y). Points outside the boundary are rejected.
// Points may repeat; each insert adds a node.
func (t *Tree[T]) Insert(x, y float32, v T) bool {
	if !t.boundary.Contains(x, y) {
		return false
	}

	node := &Node[T]{X: x, Y: y, Value: v}
	t.size++
	if t.root == nil {
		t.root = node
		return true
	}

	current := t.root
	for {
		q := current.quadrant(x, y)
		if current.children[q] == nil {
			current.children[q] = node
			return true
		}
		current = current.children[q]
	}
}

// Find returns the nodes whose point lies inside q, in pre-order. Subtrees whose
// region does not touch q are skipped.
func (t *Tree[T]) Find(q Quad) []*Node[T] {
	var found []*Node[T]
	if t.root == nil || !t.boundary.Intersects(q) {
		return found
	}
	find(t.root, t.boundary, q, &found)
	return found
}

func find[T any](n *Node[T], region, q Quad, found *[]*Node[T]) {
	if q.Contains(n.X, n.Y) {
		*found = append(*found, n)
	}
	for i, child := range n.children {
		if child == nil {
			continue
		}
		r := n.region(region, i)
		if r.Intersects(q) {
			find(child, r, q, found)
		}
	}
}

// Walk visits every node in pre-order until fn returns false.
func (t *Tree[T]) Walk(fn func(*Node[T]) bool) {
	walk(t.root, fn)
}

func walk[T any](n *Node[T], fn func(*Node[T]) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// Depth is the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Depth() int {
	return depth(t.root)
}

func depth[T any](n *Node[T]) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, child := range n.children {
		deepest = max(deepest, depth(child))
	}
	return deepest + 1
}
