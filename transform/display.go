package transform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/jowCode/shadowgeo/utils"
)

// Rotations closer to zero than this are skipped on both mapping paths.
const rotationEpsilonDeg = 0.1

// DisplayParameters describe how the fixed-resolution photograph is
// placed inside the render viewport, with CSS background semantics:
// scale and offsets in percent, rotation in degrees about the image
// center. They carry no 3D meaning and are consumed only by the
// canvas/normalized mapping below.
type DisplayParameters struct {
	Scale    float64 `json:"backgroundScale"`
	Rotation float64 `json:"backgroundRotation"`
	OffsetX  float64 `json:"backgroundOffsetX"`
	OffsetY  float64 `json:"backgroundOffsetY"`
}

// Validate rejects a non-positive scale, which would make the placement
// non-invertible.
func (d DisplayParameters) Validate() error {
	if d.Scale <= 0 {
		return errors.Errorf("display scale must be positive, got %v", d.Scale)
	}
	return nil
}

// CanvasToNormalized maps a device-pixel position in a canvasW x canvasH
// viewport to the photograph's normalized [0,1]² coordinates. Results
// outside [0,1]² mean the position lies outside the visible photograph;
// they are valid and are never clamped.
func (d DisplayParameters) CanvasToNormalized(px r2.Point, canvasW, canvasH float64) r2.Point {
	percentX := 100 * px.X / canvasW
	percentY := 100 * px.Y / canvasH
	scale := d.Scale / 100
	n := r2.Point{
		X: (percentX-d.OffsetX)/(100*scale) + 0.5,
		Y: (percentY-d.OffsetY)/(100*scale) + 0.5,
	}
	if utils.AngleDiffDeg(d.Rotation, 0) > rotationEpsilonDeg {
		n = rotateAboutImageCenter(n, -d.Rotation)
	}
	return n
}

// NormalizedToCanvas is the exact algebraic inverse of
// CanvasToNormalized: the rotation is applied before the scale/offset
// placement, mirroring the reverse composition on the other path. The
// pair round-trips to within 1e-6 for any positive scale.
func (d DisplayParameters) NormalizedToCanvas(np r2.Point, canvasW, canvasH float64) r2.Point {
	if utils.AngleDiffDeg(d.Rotation, 0) > rotationEpsilonDeg {
		np = rotateAboutImageCenter(np, d.Rotation)
	}
	scale := d.Scale / 100
	percentX := (np.X-0.5)*(100*scale) + d.OffsetX
	percentY := (np.Y-0.5)*(100*scale) + d.OffsetY
	return r2.Point{
		X: percentX * canvasW / 100,
		Y: percentY * canvasH / 100,
	}
}

func rotateAboutImageCenter(p r2.Point, degrees float64) r2.Point {
	rad := utils.DegToRad(degrees)
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-0.5, p.Y-0.5
	return r2.Point{
		X: dx*cos - dy*sin + 0.5,
		Y: dx*sin + dy*cos + 0.5,
	}
}
