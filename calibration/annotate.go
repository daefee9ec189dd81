package calibration

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/jowCode/shadowgeo/spatialmath"
	"github.com/jowCode/shadowgeo/transform"
)

// Annotator classifies raw device-pixel clicks for one screenshot. Each
// click yields two things: the stable normalized photograph coordinates
// that get persisted, and, for shadow tips, the wall the click ray first
// crosses. The annotator snapshots the calibration step it is built
// from, so later edits to the session do not shift points mid-annotation.
type Annotator struct {
	camera  *transform.PinholeCamera
	room    spatialmath.RoomDimensions
	walls   []spatialmath.WallName
	display transform.DisplayParameters
	canvasW float64
	canvasH float64
}

// NewAnnotator builds an annotator for one screenshot of a calibration
// record, for the current viewport size and the given active wall set.
func NewAnnotator(
	record *CalibrationRecord,
	screenshotID string,
	canvasW, canvasH float64,
	walls []spatialmath.WallName,
) (*Annotator, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return nil, errors.Errorf("viewport size must be positive, got %vx%v", canvasW, canvasH)
	}
	step, ok := record.Step(screenshotID)
	if !ok {
		return nil, errors.Errorf("no calibration step for screenshot %q", screenshotID)
	}
	camera, err := record.CameraForScreenshot(screenshotID, canvasW/canvasH)
	if err != nil {
		return nil, err
	}
	return &Annotator{
		camera:  camera,
		room:    record.Room,
		walls:   walls,
		display: step.Display,
		canvasW: canvasW,
		canvasH: canvasH,
	}, nil
}

// NormalizedAt maps a device-pixel position to photograph-normalized
// coordinates under the screenshot's display parameters. Results outside
// [0,1]² mean the click missed the visible photograph and are returned
// as-is.
func (a *Annotator) NormalizedAt(px r2.Point) NormalizedPoint {
	n := a.display.CanvasToNormalized(px, a.canvasW, a.canvasH)
	return NormalizedPoint{NormalizedX: n.X, NormalizedY: n.Y}
}

// CanvasAt is the inverse of NormalizedAt, used to redraw persisted
// points under the current display parameters.
func (a *Annotator) CanvasAt(np NormalizedPoint) r2.Point {
	return a.display.NormalizedToCanvas(np.Point(), a.canvasW, a.canvasH)
}

// WallHitAt casts the camera ray through a device-pixel position and
// resolves the first wall it crosses. A false return means the click
// missed every wall; callers prompt the user, they do not error.
func (a *Annotator) WallHitAt(px r2.Point) (spatialmath.WallHit, bool) {
	screen := transform.CanvasPixelToScreen(px, a.canvasW, a.canvasH)
	ray := a.camera.PixelToRay(screen)
	return a.room.ResolveWallHit(ray, a.walls)
}

// ShadowPointAt combines NormalizedAt and WallHitAt into the persisted
// shadow-tip representation. The 3D point is recorded as derived debug
// data only.
func (a *Annotator) ShadowPointAt(px r2.Point) (ShadowPoint, bool) {
	hit, ok := a.WallHitAt(px)
	if !ok {
		return ShadowPoint{}, false
	}
	world := FromVector(hit.Point)
	return ShadowPoint{
		NormalizedPoint: a.NormalizedAt(px),
		Wall:            hit.Wall,
		World3D:         &world,
	}, true
}
