package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	// Rays closer to parallel with a plane than this are treated as
	// non-intersecting.
	epsParallel = 1e-9
	// Intersections at or behind the ray origin are discarded.
	epsBehind = 1e-9
)

// Ray is a half-line in room space. Direction need not be normalized.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// PointAt returns Origin + t*Direction.
func (r Ray) PointAt(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Plane is an infinite plane in room space, the set of points P with
// Normal·P = Offset.
type Plane struct {
	Normal r3.Vector
	Offset float64
}

// IntersectRay solves for the ray parameter t at which the ray crosses
// the plane. The second return is false when the ray is parallel to the
// plane or the crossing lies at or behind the ray origin; both are
// ordinary misses, not errors.
func (p Plane) IntersectRay(ray Ray) (float64, bool) {
	denom := ray.Direction.Dot(p.Normal)
	if math.Abs(denom) < epsParallel {
		return 0, false
	}
	t := (p.Offset - ray.Origin.Dot(p.Normal)) / denom
	if t <= epsBehind {
		return 0, false
	}
	return t, true
}

// DistanceToPoint returns the signed distance from pt to the plane,
// positive on the side the normal points toward. Assumes a unit normal.
func (p Plane) DistanceToPoint(pt r3.Vector) float64 {
	return pt.Dot(p.Normal) - p.Offset
}
