// Package debugdraw renders polygons, triangulations and collisions to PNG,
// and can print them inline in terminals that speak the iTerm image protocol.
package debugdraw

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl32"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

// Padding in pixels around the drawn region
const padding = 20

var (
	Background = color.RGBA{0, 0, 0, 255}
	Fill       = color.RGBA{0, 128, 0, 160}
	Outline    = color.RGBA{0, 255, 255, 255}
	Hull       = color.RGBA{255, 255, 0, 255}
	Mesh       = color.RGBA{255, 255, 255, 120}
	Contact    = color.RGBA{255, 0, 0, 255}
	Normal     = color.RGBA{255, 0, 255, 255}
)

// Canvas maps world coordinates onto an image, with Y pointing up.
type Canvas struct {
	ctx    *gg.Context
	scale  float64
	bounds geom.Bounds
}

// New creates a canvas covering bounds, at scale pixels per world unit.
func New(bounds geom.Bounds, scale float64) *Canvas {
	width := int(scale*float64(bounds.W)) + padding*2
	height := int(scale*float64(bounds.H)) + padding*2

	c := gg.NewContext(width, height)
	c.SetColor(Background)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	c.SetFillRuleEvenOdd()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(padding, padding)
	c.Scale(scale, scale)
	c.Translate(-float64(bounds.X), -float64(bounds.Y))

	return &Canvas{ctx: c, scale: scale, bounds: bounds}
}

// NewFor creates a canvas covering every polygon.
func NewFor(scale float64, polygons ...polygon.Polygon) *Canvas {
	var bounds geom.Bounds
	for i, p := range polygons {
		if i == 0 {
			bounds = p.Bounds()
			continue
		}
		bounds = bounds.Union(p.Bounds())
	}
	return New(bounds, scale)
}

// lineWidth converts pixels into world units.
func (c *Canvas) lineWidth(px float64) {
	c.ctx.SetLineWidth(px / c.scale)
}

func (c *Canvas) path(points []mgl32.Vec2) {
	if len(points) == 0 {
		return
	}
	c.ctx.MoveTo(float64(points[0][0]), float64(points[0][1]))
	for _, p := range points[1:] {
		c.ctx.LineTo(float64(p[0]), float64(p[1]))
	}
	c.ctx.ClosePath()
}

// Polygon fills p and strokes its outline.
func (c *Canvas) Polygon(p polygon.Polygon, fill color.Color) {
	c.path(p.Points())
	c.ctx.SetColor(fill)
	c.ctx.FillPreserve()
	c.ctx.SetColor(Outline)
	c.lineWidth(2)
	c.ctx.Stroke()
}

// Loop strokes a closed loop of points, such as a convex hull.
func (c *Canvas) Loop(points []mgl32.Vec2, stroke color.Color) {
	c.path(points)
	c.ctx.SetColor(stroke)
	c.lineWidth(1)
	c.ctx.Stroke()
}

// Triangles strokes every triangle.
func (c *Canvas) Triangles(triangles []geom.Triangle) {
	c.ctx.SetColor(Mesh)
	c.lineWidth(1)
	for _, t := range triangles {
		p := t.Points()
		c.path(p[:])
		c.ctx.Stroke()
	}
}

// Points marks each point with a dot of radius px pixels.
func (c *Canvas) Points(points []mgl32.Vec2, px float64, fill color.Color) {
	c.ctx.SetColor(fill)
	for _, p := range points {
		c.ctx.DrawCircle(float64(p[0]), float64(p[1]), px/c.scale)
		c.ctx.Fill()
	}
}

// Collision marks the contacts of col and draws its normal from BodyA's
// centroid, scaled by the depth with a minimum of one unit.
func (c *Canvas) Collision(col *constraint.Collision) {
	if !col.Colliding {
		return
	}
	c.Points(col.Contacts, 3, Contact)

	from := col.BodyA.Position()
	to := from.Add(col.Normal.Mul(max(1, col.Depth)))
	c.ctx.SetColor(Normal)
	c.lineWidth(2)
	c.ctx.DrawLine(float64(from[0]), float64(from[1]), float64(to[0]), float64(to[1]))
	c.ctx.Stroke()
}

func (c *Canvas) Image() image.Image {
	return c.ctx.Image()
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return errors.Wrap(c.ctx.EncodePNG(w), "encode png")
}

func (c *Canvas) SavePNG(path string) error {
	return errors.Wrapf(c.ctx.SavePNG(path), "save %s", path)
}

// Show prints the canvas to w as an inline terminal image.
func (c *Canvas) Show(w io.Writer) error {
	dir, err := os.MkdirTemp("", "feather2d")
	if err != nil {
		return errors.Wrap(err, "show")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "canvas.png")
	if err := c.SavePNG(path); err != nil {
		return err
	}
	return errors.Wrap(imgcat.CatFile(path, w), "show")
}
