package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrInvalidRoomDimensions is returned when a room is constructed with a
// non-positive width, height, or depth.
var ErrInvalidRoomDimensions = errors.New("room dimensions must be positive")

// RoomDimensions is the size of the rectangular room in meters. The room
// origin is its floor/front/left corner: x grows to the right (width),
// y grows up (height), z grows into the room toward the back (depth).
type RoomDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Validate returns ErrInvalidRoomDimensions unless all dimensions are
// strictly positive.
func (rd RoomDimensions) Validate() error {
	if rd.Width <= 0 || rd.Height <= 0 || rd.Depth <= 0 {
		return errors.Wrapf(ErrInvalidRoomDimensions,
			"got width=%v height=%v depth=%v", rd.Width, rd.Height, rd.Depth)
	}
	return nil
}

// String returns a human readable string that represents the room.
func (rd RoomDimensions) String() string {
	return fmt.Sprintf("Room | W:%.2f H:%.2f D:%.2f", rd.Width, rd.Height, rd.Depth)
}

// WallName identifies one of the room's six bounding walls.
type WallName string

const (
	WallFront   WallName = "front"
	WallBack    WallName = "back"
	WallLeft    WallName = "left"
	WallRight   WallName = "right"
	WallFloor   WallName = "floor"
	WallCeiling WallName = "ceiling"
)

// AllWalls is the full wall set, in lexical order. Lexical order is the
// documented tie-break when two walls are hit at the same distance.
var AllWalls = []WallName{WallBack, WallCeiling, WallFloor, WallFront, WallLeft, WallRight}

// WallsWithoutCeiling is the wall set used by annotation surfaces that
// never receive ceiling shadows. Call sites choose their set; the two
// variants are not interchangeable.
var WallsWithoutCeiling = []WallName{WallBack, WallFloor, WallFront, WallLeft, WallRight}

// ValidWall reports whether name is a member of the given wall set.
func ValidWall(name WallName, walls []WallName) bool {
	for _, w := range walls {
		if w == name {
			return true
		}
	}
	return false
}

// WallPlane returns the plane equation of the named wall, with the
// normal pointing into the room.
func (rd RoomDimensions) WallPlane(name WallName) (Plane, error) {
	switch name {
	case WallFront:
		return Plane{Normal: r3.Vector{Z: 1}}, nil
	case WallBack:
		return Plane{Normal: r3.Vector{Z: -1}, Offset: -rd.Depth}, nil
	case WallLeft:
		return Plane{Normal: r3.Vector{X: 1}}, nil
	case WallRight:
		return Plane{Normal: r3.Vector{X: -1}, Offset: -rd.Width}, nil
	case WallFloor:
		return Plane{Normal: r3.Vector{Y: 1}}, nil
	case WallCeiling:
		return Plane{Normal: r3.Vector{Y: -1}, Offset: -rd.Height}, nil
	default:
		return Plane{}, errors.Errorf("unknown wall name %q", name)
	}
}

// WallCenter returns the geometric center of the named wall.
func (rd RoomDimensions) WallCenter(name WallName) (r3.Vector, error) {
	c := r3.Vector{X: rd.Width / 2, Y: rd.Height / 2, Z: rd.Depth / 2}
	switch name {
	case WallFront:
		c.Z = 0
	case WallBack:
		c.Z = rd.Depth
	case WallLeft:
		c.X = 0
	case WallRight:
		c.X = rd.Width
	case WallFloor:
		c.Y = 0
	case WallCeiling:
		c.Y = rd.Height
	default:
		return r3.Vector{}, errors.Errorf("unknown wall name %q", name)
	}
	return c, nil
}

// contains reports whether pt lies within the room box expanded by tol
// on every side. For a point already on a wall plane this is exactly the
// wall's rectangular bounds test.
func (rd RoomDimensions) contains(pt r3.Vector, tol float64) bool {
	return pt.X >= -tol && pt.X <= rd.Width+tol &&
		pt.Y >= -tol && pt.Y <= rd.Height+tol &&
		pt.Z >= -tol && pt.Z <= rd.Depth+tol
}
