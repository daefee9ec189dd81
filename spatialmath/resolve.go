package spatialmath

import (
	"github.com/golang/geo/r3"
)

// BoundsTolerance widens each wall's rectangular bounds so that clicks
// landing just past an edge still resolve, in room length units.
const BoundsTolerance = 0.1

// WallHit is the first room wall crossed by a ray.
type WallHit struct {
	Wall WallName
	// Point is the intersection in room space.
	Point r3.Vector
	// Distance is the euclidean distance from the ray origin to Point.
	Distance float64
}

// ResolveWallHit intersects the ray with every wall in the given set and
// returns the closest in-bounds hit. The second return is false when the
// ray misses every wall, which is a common outcome (the click landed
// outside the room), not an error.
//
// Walls are tried in the order given; AllWalls and WallsWithoutCeiling
// are lexically ordered, which fixes the winner when two walls are hit
// at the same distance (a ray through a room edge or corner).
func (rd RoomDimensions) ResolveWallHit(ray Ray, walls []WallName) (WallHit, bool) {
	var best WallHit
	bestT := 0.0
	found := false
	for _, name := range walls {
		plane, err := rd.WallPlane(name)
		if err != nil {
			continue
		}
		t, ok := plane.IntersectRay(ray)
		if !ok {
			continue
		}
		pt := ray.PointAt(t)
		if !rd.contains(pt, BoundsTolerance) {
			continue
		}
		if found && t >= bestT {
			continue
		}
		best = WallHit{Wall: name, Point: pt, Distance: t * ray.Direction.Norm()}
		bestT = t
		found = true
	}
	return best, found
}
