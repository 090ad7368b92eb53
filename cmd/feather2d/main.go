// Command feather2d inspects the geometry packages on SVG fixtures and runs small
// simulations, printing results to the terminal.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/delaunay"
	"github.com/akmonengine/feather2d/hull"
	"github.com/akmonengine/feather2d/internal/debugdraw"
	"github.com/akmonengine/feather2d/internal/fixture"
	"github.com/akmonengine/feather2d/polygon"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app     = kingpin.New("feather2d", "2D geometry and collision toolbox.")
	noColor = app.Flag("no-color", "Disable colored output.").Bool()
	out     = app.Flag("out", "Write a PNG rendering to this path.").Short('o').String()
	show    = app.Flag("show", "Print the rendering inline (iTerm image protocol).").Bool()
	scale   = app.Flag("scale", "Pixels per world unit.").Default("20").Float64()
	ring    = app.Flag("ring", "Build polygons in linked form.").Bool()

	listCmd = app.Command("list", "List the embedded fixtures.")

	hullCmd     = app.Command("hull", "Print the convex hull of a polygon.")
	hullFixture = hullCmd.Arg("polygon", "Fixture name or .svg path.").Required().String()

	triCmd     = app.Command("triangulate", "Triangulate a polygon.")
	triFixture = triCmd.Arg("polygon", "Fixture name or .svg path.").Required().String()

	collideCmd = app.Command("collide", "Test two polygons for collision.")
	collideA   = collideCmd.Arg("a", "Fixture name or .svg path.").Required().String()
	collideB   = collideCmd.Arg("b", "Fixture name or .svg path.").Required().String()
	offsetX    = collideCmd.Flag("dx", "Translate b along X.").Default("0").Float32()
	offsetY    = collideCmd.Flag("dy", "Translate b along Y.").Default("0").Float32()
	detector   = collideCmd.Flag("detector", "Narrow phase test.").Default("auto").Enum("auto", "gjk", "sat", "ring")

	simCmd      = app.Command("simulate", "Drop fixtures onto a static ground.")
	simBodies   = simCmd.Flag("bodies", "Number of falling bodies.").Default("8").Int()
	simSteps    = simCmd.Flag("steps", "Number of world steps.").Default("120").Int()
	simDt       = simCmd.Flag("dt", "Step duration in seconds.").Default("0.016").Float32()
	simSubsteps = simCmd.Flag("substeps", "Substeps per step.").Default("4").Int()
	simWorkers  = simCmd.Flag("workers", "Narrow phase workers.").Default("4").Int()
	simSeed     = simCmd.Flag("seed", "Random seed for placement.").Default("1").Int64()
	simVerbose  = simCmd.Flag("verbose", "Print stay events too.").Short('v').Bool()
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("feather2d: ")

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	au := aurora.NewAurora(!*noColor)

	var err error
	switch command {
	case listCmd.FullCommand():
		for _, name := range fixture.Names() {
			fmt.Println(name)
		}
	case hullCmd.FullCommand():
		err = runHull(au, *hullFixture)
	case triCmd.FullCommand():
		err = runTriangulate(au, *triFixture)
	case collideCmd.FullCommand():
		err = runCollide(au, *collideA, *collideB)
	case simCmd.FullCommand():
		err = runSimulate(au)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// load reads the first polygon of a fixture, or of an SVG file when name ends in
// .svg.
func load(name string) (polygon.Polygon, error) {
	var points []mgl32.Vec2
	if strings.HasSuffix(name, ".svg") {
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrap(err, "load")
		}
		defer f.Close()

		polygons, err := fixture.Parse(f)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", name)
		}
		points = polygons[0]
	} else {
		polygons, err := fixture.Load(name)
		if err != nil {
			return nil, err
		}
		points = polygons[0]
	}

	if *ring {
		r, err := polygon.NewRing(points)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", name)
		}
		return r, nil
	}
	ix, err := polygon.NewIndexedFrom(points)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	return ix, nil
}

func render(c *debugdraw.Canvas) error {
	if *out != "" {
		if err := c.SavePNG(*out); err != nil {
			return err
		}
	}
	if *show {
		return c.Show(os.Stdout)
	}
	return nil
}

func printPoints(au aurora.Aurora, label string, points []mgl32.Vec2) {
	fmt.Printf("%s (%d)\n", au.Bold(label), len(points))
	for _, p := range points {
		fmt.Printf("  %s\n", au.Cyan(fmt.Sprintf("%.3f, %.3f", p[0], p[1])))
	}
}

func runHull(au aurora.Aurora, name string) error {
	shape, err := load(name)
	if err != nil {
		return err
	}

	h := hull.Of(shape)
	printPoints(au, "hull", h)
	convex := au.Green("convex")
	if !polygon.IsConvex(shape) {
		convex = au.Yellow("concave")
	}
	fmt.Printf("%s is %s, area %.3f\n", name, convex, shape.Area())

	c := debugdraw.NewFor(*scale, shape)
	c.Polygon(shape, debugdraw.Fill)
	c.Loop(h, debugdraw.Hull)
	c.Points(h, 3, debugdraw.Hull)
	return render(c)
}

func runTriangulate(au aurora.Aurora, name string) error {
	shape, err := load(name)
	if err != nil {
		return err
	}

	result, err := delaunay.TriangulatePolygon(shape)
	if err != nil {
		return errors.Wrapf(err, "triangulate %s", name)
	}
	mesh, err := feather2d.BuildMesh(shape)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d triangles, %d edges, area %.3f of %.3f\n",
		au.Bold(name), len(result.Triangles), len(result.Edges),
		delaunay.Area(result.Triangles), shape.Area())
	fmt.Printf("mesh: %d vertices, %d indices\n", len(mesh.Vertices)/2, len(mesh.Indices))
	if len(result.Pinched) > 0 {
		printPoints(au, "pinched", result.Pinched)
	}

	c := debugdraw.NewFor(*scale, shape)
	c.Polygon(shape, debugdraw.Fill)
	c.Triangles(result.Triangles)
	c.Points(result.Pinched, 4, debugdraw.Contact)
	return render(c)
}

func runCollide(au aurora.Aurora, nameA, nameB string) error {
	shapeA, err := load(nameA)
	if err != nil {
		return err
	}
	shapeB, err := load(nameB)
	if err != nil {
		return err
	}
	shapeB.Translate(*offsetX, *offsetY)

	d, _ := feather2d.ParseDetector(*detector)
	a := actor.NewRigidBody(shapeA, actor.BodyTypeStatic, 1)
	b := actor.NewRigidBody(shapeB, actor.BodyTypeDynamic, 1)
	a.ID, b.ID = 1, 2

	col := feather2d.Detect(a, b, d)
	if !col.Colliding {
		fmt.Printf("%s and %s: %s\n", nameA, nameB, au.Green("separated"))
	} else {
		status := au.Red("colliding")
		if col.Incomplete {
			status = au.Yellow("colliding (incomplete)")
		}
		fmt.Printf("%s and %s: %s\n", nameA, nameB, status)
		fmt.Printf("  normal %.4f, %.4f depth %.4f\n", col.Normal[0], col.Normal[1], col.Depth)
		printPoints(au, "contacts", col.Contacts)
	}

	c := debugdraw.NewFor(*scale, shapeA, shapeB)
	c.Polygon(shapeA, debugdraw.Fill)
	c.Polygon(shapeB, debugdraw.Fill)
	c.Collision(col)
	return render(c)
}

func runSimulate(au aurora.Aurora) error {
	config := feather2d.DefaultConfig()
	config.Gravity = mgl32.Vec2{0, -9.81}
	config.Substeps = *simSubsteps
	config.Workers = *simWorkers
	config.SleepTime = 0.5
	config.SleepVelocity = 0.05
	world := feather2d.NewWorld(config)

	shapes := []string{"square", "lshape", "arrow", "star", "comb"}
	width := float32(*simBodies) * 24

	ground, err := polygon.NewIndexedFrom([]mgl32.Vec2{{-10, -2}, {width + 10, -2}, {width + 10, 0}, {-10, 0}})
	if err != nil {
		return err
	}
	groundBody := actor.NewRigidBody(ground, actor.BodyTypeStatic, 1)
	groundBody.Name = "ground"
	world.AddBody(groundBody)

	petname.NonDeterministicMode()
	rng := rand.New(rand.NewSource(*simSeed))
	for i := range *simBodies {
		shape, err := load(shapes[rng.Intn(len(shapes))])
		if err != nil {
			return err
		}
		corner := shape.Bounds().Min()
		shape.Translate(float32(i)*24-corner[0], 5+rng.Float32()*20-corner[1])

		body := actor.NewRigidBody(shape, actor.BodyTypeDynamic, 1)
		body.Name = petname.Generate(2, "-")
		body.Material.Restitution = 0.2 + rng.Float32()*0.5
		world.AddBody(body)
	}

	pair := func(color func(interface{}) aurora.Value) feather2d.EventListener {
		return func(e feather2d.Event) {
			pe := e.(feather2d.PairEvent)
			fmt.Printf("%s %s %s\n", color(pe.EventType), pe.BodyA.Name, pe.BodyB.Name)
		}
	}
	world.Events.Subscribe(feather2d.COLLISION_ENTER, pair(au.Green))
	world.Events.Subscribe(feather2d.COLLISION_EXIT, pair(au.Red))
	world.Events.Subscribe(feather2d.TRIGGER_ENTER, pair(au.Green))
	world.Events.Subscribe(feather2d.TRIGGER_EXIT, pair(au.Red))
	if *simVerbose {
		world.Events.Subscribe(feather2d.COLLISION_STAY, pair(au.Faint))
	}
	world.Events.Subscribe(feather2d.ON_SLEEP, func(e feather2d.Event) {
		fmt.Printf("%s %s\n", au.Cyan(e.Type()), e.(feather2d.SleepEvent).Body.Name)
	})
	world.Events.Subscribe(feather2d.ON_WAKE, func(e feather2d.Event) {
		fmt.Printf("%s %s\n", au.Yellow(e.Type()), e.(feather2d.WakeEvent).Body.Name)
	})

	for step := range *simSteps {
		collisions := world.Step(*simDt)
		if *simVerbose {
			log.Printf("step %d: %d collisions", step, len(collisions))
		}
	}

	c := debugdraw.NewFor(*scale, shapesOf(world.Bodies)...)
	for _, body := range world.Bodies {
		c.Polygon(body.Shape, debugdraw.Fill)
	}
	return render(c)
}

func shapesOf(bodies []*actor.RigidBody) []polygon.Polygon {
	shapes := make([]polygon.Polygon, 0, len(bodies))
	for _, b := range bodies {
		shapes = append(shapes, b.Shape)
	}
	return shapes
}
