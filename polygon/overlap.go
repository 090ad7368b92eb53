package polygon

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Overlap is the result of a ring-vs-polygon contact query.
type Overlap struct {
	Colliding bool
	// Normal points from the receiver towards the other polygon.
	Normal   mgl32.Vec2
	Depth    float32
	Contacts []mgl32.Vec2
	// Incomplete is set when the contacts came from one side only, or only from
	// crossing edges. Depth then holds the summed distance of the contained
	// vertices to the other boundary and is not a penetration depth.
	Incomplete bool
}

// Overlap tests the ring against other using contained vertices and crossing
// edges. It works for concave shapes but only yields a true penetration depth
// when each polygon has at least one vertex inside the other.
func (r *Ring) Overlap(other Polygon) Overlap {
	if r.Len() < 3 || other.Len() < 3 {
		return Overlap{}
	}
	if !r.Bounds().Intersects(other.Bounds()) {
		return Overlap{}
	}

	otherPoints := other.Points()
	otherEdges := other.Edges()

	var inOther, inRing []mgl32.Vec2
	for _, p := range r.points {
		if other.Contains(p) {
			inOther = append(inOther, p)
		}
	}
	for _, p := range otherPoints {
		if r.Contains(p) {
			inRing = append(inRing, p)
		}
	}

	var crossings []mgl32.Vec2
	for _, e := range r.edges {
		for _, o := range otherEdges {
			if !e.Crosses(o) {
				continue
			}
			if x, ok := e.Intersection(o); ok {
				crossings = append(crossings, x)
			}
		}
	}

	if len(inOther) == 0 && len(inRing) == 0 && len(crossings) == 0 {
		return Overlap{}
	}

	normal := geom.Normalize(other.Centroid().Sub(r.Centroid()), mgl32.Vec2{1, 0})
	contacts := make([]mgl32.Vec2, 0, len(inOther)+len(inRing)+len(crossings))
	contacts = append(contacts, inOther...)
	contacts = append(contacts, inRing...)
	contacts = append(contacts, crossings...)

	result := Overlap{Colliding: true, Normal: normal, Contacts: contacts}

	switch {
	case len(inOther) > 0 && len(inRing) > 0:
		// deepest vertex of the ring along the normal against the shallowest of other
		deepest := inOther[0].Dot(normal)
		for _, p := range inOther[1:] {
			deepest = max(deepest, p.Dot(normal))
		}
		shallowest := inRing[0].Dot(normal)
		for _, p := range inRing[1:] {
			shallowest = min(shallowest, p.Dot(normal))
		}
		result.Depth = max(0, deepest-shallowest)
	case len(inOther) > 0:
		result.Incomplete = true
		result.Depth = totalDistance(inOther, otherEdges)
	case len(inRing) > 0:
		result.Incomplete = true
		result.Depth = totalDistance(inRing, r.edges)
	default:
		result.Incomplete = true
	}
	return result
}

func totalDistance(points []mgl32.Vec2, edges []geom.Edge) float32 {
	var total float32
	for _, p := range points {
		best := edges[0].DistanceTo(p)
		for _, e := range edges[1:] {
			best = min(best, e.DistanceTo(p))
		}
		total += best
	}
	return total
}
