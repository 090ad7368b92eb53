package feather2d

import (
	"github.com/go-gl/mathgl/mgl32"
)

const DEFAULT_WORKERS = 1

const (
	// DEFAULT_SOLVER_PARALLEL_THRESHOLD is the pending collision count from which
	// the solver resolves in parallel.
	DEFAULT_SOLVER_PARALLEL_THRESHOLD = 1000
	// DEFAULT_BROADPHASE_PARALLEL_THRESHOLD is the body count from which the
	// broad phase queries the quadtree in parallel.
	DEFAULT_BROADPHASE_PARALLEL_THRESHOLD = 1000
)

// Detector selects the narrow phase test.
type Detector uint8

const (
	// DetectorAuto uses GJK+EPA when both shapes are convex, SAT otherwise.
	DetectorAuto Detector = iota
	DetectorGJK
	DetectorSAT
	// DetectorRing uses the linked-form polygon overlap test.
	DetectorRing
)

func (d Detector) String() string {
	switch d {
	case DetectorAuto:
		return "auto"
	case DetectorGJK:
		return "gjk"
	case DetectorSAT:
		return "sat"
	case DetectorRing:
		return "ring"
	}
	return "unknown"
}

// ParseDetector maps a name returned by Detector.String back to its Detector.
func ParseDetector(name string) (Detector, bool) {
	for d := DetectorAuto; d <= DetectorRing; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return DetectorAuto, false
}

type Config struct {
	// Gravity acceleration applied to dynamic bodies
	Gravity  mgl32.Vec2
	Substeps int
	Workers  int
	Detector Detector

	SolverParallelThreshold     int
	BroadPhaseParallelThreshold int

	// Bodies slower than SleepVelocity for SleepTime seconds are put to sleep.
	// A zero SleepTime disables sleeping.
	SleepTime     float32
	SleepVelocity float32
}

func DefaultConfig() Config {
	return Config{
		Substeps:                    1,
		Workers:                     DEFAULT_WORKERS,
		Detector:                    DetectorAuto,
		SolverParallelThreshold:     DEFAULT_SOLVER_PARALLEL_THRESHOLD,
		BroadPhaseParallelThreshold: DEFAULT_BROADPHASE_PARALLEL_THRESHOLD,
	}
}

// withDefaults replaces unset fields with their default.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	c.Substeps = max(1, c.Substeps)
	c.Workers = max(DEFAULT_WORKERS, c.Workers)
	if c.SolverParallelThreshold <= 0 {
		c.SolverParallelThreshold = d.SolverParallelThreshold
	}
	if c.BroadPhaseParallelThreshold <= 0 {
		c.BroadPhaseParallelThreshold = d.BroadPhaseParallelThreshold
	}
	return c
}
