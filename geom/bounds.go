package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned rectangle anchored at its minimum corner.
type Bounds struct {
	X, Y, W, H float32
}

// BoundsOf returns the tightest bounds around points.
func BoundsOf(points []mgl32.Vec2) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	minX, minY := points[0][0], points[0][1]
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math32.Min(minX, p[0])
		minY = math32.Min(minY, p[1])
		maxX = math32.Max(maxX, p[0])
		maxY = math32.Max(maxY, p[1])
	}
	return Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (b Bounds) Min() mgl32.Vec2 { return mgl32.Vec2{b.X, b.Y} }
func (b Bounds) Max() mgl32.Vec2 { return mgl32.Vec2{b.X + b.W, b.Y + b.H} }

func (b Bounds) Center() mgl32.Vec2 {
	return mgl32.Vec2{b.X + b.W/2, b.Y + b.H/2}
}

// Contains checks if (px, py) lies inside or on the border, within Epsilon.
func (b Bounds) Contains(px, py float32) bool {
	return px >= b.X-Epsilon && px <= b.X+b.W+Epsilon &&
		py >= b.Y-Epsilon && py <= b.Y+b.H+Epsilon
}

// Intersects checks if two bounds overlap, touching included.
func (b Bounds) Intersects(o Bounds) bool {
	return b.X <= o.X+o.W+Epsilon && o.X <= b.X+b.W+Epsilon &&
		b.Y <= o.Y+o.H+Epsilon && o.Y <= b.Y+b.H+Epsilon
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(o Bounds) Bounds {
	minX := math32.Min(b.X, o.X)
	minY := math32.Min(b.Y, o.Y)
	maxX := math32.Max(b.X+b.W, o.X+o.W)
	maxY := math32.Max(b.Y+b.H, o.Y+o.H)
	return Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Expand grows the bounds by margin on every side.
func (b Bounds) Expand(margin float32) Bounds {
	return Bounds{X: b.X - margin, Y: b.Y - margin, W: b.W + 2*margin, H: b.H + 2*margin}
}

// Translate moves the bounds by (dx, dy).
func (b Bounds) Translate(dx, dy float32) Bounds {
	return Bounds{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}
