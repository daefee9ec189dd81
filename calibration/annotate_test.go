package calibration

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/jowCode/shadowgeo/spatialmath"
)

func testRecord(t *testing.T) *CalibrationRecord {
	t.Helper()
	record, err := DecodeCalibrationRecord(strings.NewReader(calibrationJSON))
	test.That(t, err, test.ShouldBeNil)
	return record
}

func TestNewAnnotatorValidation(t *testing.T) {
	record := testRecord(t)

	_, err := NewAnnotator(record, "shot-9", 800, 600, spatialmath.AllWalls)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewAnnotator(record, "shot-1", 0, 600, spatialmath.AllWalls)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewAnnotator(record, "shot-1", 800, 600, spatialmath.AllWalls)
	test.That(t, err, test.ShouldBeNil)
}

func TestAnnotatorCenterClick(t *testing.T) {
	record := testRecord(t)
	annotator, err := NewAnnotator(record, "shot-1", 800, 600, spatialmath.WallsWithoutCeiling)
	test.That(t, err, test.ShouldBeNil)

	center := r2.Point{X: 400, Y: 300}

	// shot-1 shows the photograph centered at 100% scale, so the
	// viewport center is the photograph center
	np := annotator.NormalizedAt(center)
	test.That(t, np.NormalizedX, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, np.NormalizedY, test.ShouldAlmostEqual, 0.5, 1e-9)

	// the camera is yawed 180° at mid-height: the center ray lands on
	// the front wall at mid-height
	hit, ok := annotator.WallHitAt(center)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Wall, test.ShouldEqual, spatialmath.WallFront)
	test.That(t, hit.Point.X, test.ShouldAlmostEqual, 2, 1e-6)
	test.That(t, hit.Point.Y, test.ShouldAlmostEqual, record.Room.Height/2, 1e-6)
	test.That(t, hit.Point.Z, test.ShouldAlmostEqual, 0, 1e-6)

	shadow, ok := annotator.ShadowPointAt(center)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, shadow.Wall, test.ShouldEqual, spatialmath.WallFront)
	test.That(t, shadow.World3D, test.ShouldNotBeNil)
	test.That(t, shadow.World3D.Y, test.ShouldAlmostEqual, record.Room.Height/2, 1e-6)

	// the persisted normalized point redraws at the original pixel
	back := annotator.CanvasAt(shadow.NormalizedPoint)
	test.That(t, back.X, test.ShouldAlmostEqual, center.X, 1e-6)
	test.That(t, back.Y, test.ShouldAlmostEqual, center.Y, 1e-6)
}

func TestAnnotatorWallSetChangesOutcome(t *testing.T) {
	record := testRecord(t)

	// the ray through the top-center pixel leaves through the ceiling
	topCenter := r2.Point{X: 400, Y: 0}

	full, err := NewAnnotator(record, "shot-1", 800, 600, spatialmath.AllWalls)
	test.That(t, err, test.ShouldBeNil)
	hit, ok := full.WallHitAt(topCenter)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Wall, test.ShouldEqual, spatialmath.WallCeiling)

	// without the ceiling in the set the same click is a plain miss
	reduced, err := NewAnnotator(record, "shot-1", 800, 600, spatialmath.WallsWithoutCeiling)
	test.That(t, err, test.ShouldBeNil)
	_, ok = reduced.WallHitAt(topCenter)
	test.That(t, ok, test.ShouldBeFalse)

	_, ok = reduced.ShadowPointAt(topCenter)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestAnnotatorRoundTripAcrossDisplayChanges(t *testing.T) {
	// the same click, annotated under one display placement, must redraw
	// at a well-defined pixel under a different placement: the persisted
	// normalized point is the stable representation
	record := testRecord(t)

	one, err := NewAnnotator(record, "shot-1", 800, 600, spatialmath.AllWalls)
	test.That(t, err, test.ShouldBeNil)
	two, err := NewAnnotator(record, "shot-2", 800, 600, spatialmath.AllWalls)
	test.That(t, err, test.ShouldBeNil)

	np := one.NormalizedAt(r2.Point{X: 520, Y: 180})
	pxOne := one.CanvasAt(np)
	pxTwo := two.CanvasAt(np)

	test.That(t, pxOne.X, test.ShouldAlmostEqual, 520, 1e-6)
	test.That(t, pxOne.Y, test.ShouldAlmostEqual, 180, 1e-6)
	// shot-2 pans and zooms differently, so the pixel moves
	test.That(t, pxTwo.X, test.ShouldNotEqual, pxOne.X)

	// but mapping back under shot-2's display recovers the same
	// normalized point
	npTwo := two.NormalizedAt(pxTwo)
	test.That(t, npTwo.NormalizedX, test.ShouldAlmostEqual, np.NormalizedX, 1e-9)
	test.That(t, npTwo.NormalizedY, test.ShouldAlmostEqual, np.NormalizedY, 1e-9)
}
