// Package transform maps between room space, the camera's screen space,
// and the on-screen placement of the calibration photograph. It owns the
// one pinhole projection model used everywhere; divergent per-caller
// projection formulas are deliberately not a thing here.
package transform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/jowCode/shadowgeo/spatialmath"
	"github.com/jowCode/shadowgeo/utils"
)

// ErrInvalidCameraParameters is returned when a camera is constructed
// with a degenerate field of view or aspect ratio.
var ErrInvalidCameraParameters = errors.New("invalid camera parameters")

func newInvalidCameraError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidCameraParameters, format, args...)
}

// ScreenPoint is a point in the camera's normalized device coordinates:
// x and y in [-1,1] across the viewport, y up. This is the projection
// engine's one canonical output; conversions to image or pixel
// conventions live on the boundary, below.
type ScreenPoint struct {
	X float64
	Y float64
}

// ToImagePoint remaps NDC into normalized image coordinates in [0,1]²,
// origin top-left, y down.
func (s ScreenPoint) ToImagePoint() r2.Point {
	return r2.Point{X: (s.X + 1) / 2, Y: (1 - s.Y) / 2}
}

// ImagePointToScreen is the inverse of ToImagePoint.
func ImagePointToScreen(p r2.Point) ScreenPoint {
	return ScreenPoint{X: 2*p.X - 1, Y: 1 - 2*p.Y}
}

// ToCanvasPixel remaps NDC to device pixels in a width x height viewport.
func (s ScreenPoint) ToCanvasPixel(width, height float64) r2.Point {
	img := s.ToImagePoint()
	return r2.Point{X: img.X * width, Y: img.Y * height}
}

// CanvasPixelToScreen is the inverse of ToCanvasPixel.
func CanvasPixelToScreen(p r2.Point, width, height float64) ScreenPoint {
	return ImagePointToScreen(r2.Point{X: p.X / width, Y: p.Y / height})
}

// PinholeCamera is the calibrated camera: position and field of view are
// shared across all screenshots of a session, rotation varies per
// screenshot. Camera space has z growing away from the camera.
type PinholeCamera struct {
	Position    r3.Vector
	Rotation    spatialmath.EulerAngles
	FOVY        float64 // vertical field of view, degrees
	AspectRatio float64 // viewport width / height
}

// NewPinholeCamera validates the camera parameters. FOVY outside (0,180)
// or a non-positive aspect ratio cannot project and are rejected here,
// at construction, so per-call projection never fails on them.
func NewPinholeCamera(
	position r3.Vector,
	rotation spatialmath.EulerAngles,
	fovY, aspectRatio float64,
) (*PinholeCamera, error) {
	if fovY <= 0 || fovY >= 180 {
		return nil, newInvalidCameraError("fovY %v out of range (0, 180)", fovY)
	}
	if aspectRatio <= 0 {
		return nil, newInvalidCameraError("aspect ratio %v must be positive", aspectRatio)
	}
	return &PinholeCamera{
		Position:    position,
		Rotation:    rotation,
		FOVY:        fovY,
		AspectRatio: aspectRatio,
	}, nil
}

// focal is the perspective scale chosen so that a point at the vertical
// half-FOV angle lands exactly on the viewport edge.
func (c *PinholeCamera) focal() float64 {
	return 1 / math.Tan(utils.DegToRad(c.FOVY)/2)
}

// Project maps a room-space point onto the screen. The second return is
// false when the point is behind the camera plane; such points have no
// finite screen position and callers must suppress drawing or picking,
// not treat the miss as an error.
func (c *PinholeCamera) Project(world r3.Vector) (ScreenPoint, bool) {
	rel := c.Rotation.RotateVector(world.Sub(c.Position))
	if rel.Z <= 0 {
		return ScreenPoint{}, false
	}
	k := c.focal()
	return ScreenPoint{
		X: rel.X / rel.Z * k / c.AspectRatio,
		Y: rel.Y / rel.Z * k,
	}, true
}

// PixelToRay inverts Project for a screen position: the returned ray
// starts at the camera position and passes through every room point that
// projects onto pt. Its direction is normalized.
func (c *PinholeCamera) PixelToRay(pt ScreenPoint) spatialmath.Ray {
	k := c.focal()
	camDir := r3.Vector{
		X: pt.X * c.AspectRatio / k,
		Y: pt.Y / k,
		Z: 1,
	}
	return spatialmath.Ray{
		Origin:    c.Position,
		Direction: c.Rotation.InverseRotateVector(camDir).Normalize(),
	}
}
