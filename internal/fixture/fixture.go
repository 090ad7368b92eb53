// Package fixture loads polygons from SVG documents. Only <polygon> elements and
// their points attribute are read; this is not a general SVG parser.
//
// A set of named fixtures is embedded for tests and the CLI, available by file
// name without extension.
package fixture

import (
	"embed"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//go:embed fixtures
var fixtures embed.FS

var ErrNoPolygon = errors.New("fixture: no polygon found")

// Parse returns the points of every <polygon> element in the document, in
// document order.
func Parse(r io.Reader) ([][]mgl32.Vec2, error) {
	root, err := svgparser.Parse(r, true)
	if err != nil {
		return nil, errors.Wrap(err, "parse svg")
	}

	elements := root.FindAll("polygon")
	if len(elements) == 0 {
		return nil, ErrNoPolygon
	}

	polygons := make([][]mgl32.Vec2, 0, len(elements))
	for i, el := range elements {
		points, err := parsePoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		polygons = append(polygons, points)
	}
	return polygons, nil
}

func parsePoints(attr string) ([]mgl32.Vec2, error) {
	fields := strings.Fields(attr)
	points := make([]mgl32.Vec2, 0, len(fields))
	for _, field := range fields {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, errors.Errorf("invalid point %q", field)
		}
		x, err := strconv.ParseFloat(xy[0], 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x in %q", field)
		}
		y, err := strconv.ParseFloat(xy[1], 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y in %q", field)
		}
		points = append(points, mgl32.Vec2{float32(x), float32(y)})
	}
	return points, nil
}

// Load returns every polygon of the named embedded fixture.
func Load(name string) ([][]mgl32.Vec2, error) {
	f, err := fixtures.Open(path.Join("fixtures", name+".svg"))
	if err != nil {
		return nil, errors.Wrapf(err, "open fixture %q", name)
	}
	defer f.Close()

	polygons, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %q", name)
	}
	return polygons, nil
}

// MustLoad returns the first polygon of the named fixture and panics on error.
func MustLoad(name string) []mgl32.Vec2 {
	polygons, err := Load(name)
	if err != nil {
		panic(err)
	}
	return polygons[0]
}

// Names lists the embedded fixtures.
func Names() []string {
	entries, err := fixtures.ReadDir("fixtures")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".svg"))
	}
	sort.Strings(names)
	return names
}
