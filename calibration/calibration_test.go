package calibration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/jowCode/shadowgeo/spatialmath"
	"github.com/jowCode/shadowgeo/transform"
)

const calibrationJSON = `{
	"version": 1,
	"room": {"width": 4, "height": 2.5, "depth": 5},
	"camera": {"position": {"x": 2, "y": 1.25, "z": 3}, "fovY": 60},
	"screenshots": [
		{
			"screenshotId": "shot-1",
			"cameraRotation": {"x": 0, "y": 180, "z": 0},
			"display": {
				"backgroundScale": 100,
				"backgroundRotation": 0,
				"backgroundOffsetX": 50,
				"backgroundOffsetY": 50
			},
			"completed": true
		},
		{
			"screenshotId": "shot-2",
			"cameraRotation": {"x": -5, "y": 170, "z": 1},
			"display": {
				"backgroundScale": 80,
				"backgroundRotation": 2,
				"backgroundOffsetX": 45,
				"backgroundOffsetY": 55
			},
			"completed": true
		}
	]
}`

func TestDecodeCalibrationRecord(t *testing.T) {
	record, err := DecodeCalibrationRecord(strings.NewReader(calibrationJSON))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, record.Room, test.ShouldResemble, spatialmath.RoomDimensions{Width: 4, Height: 2.5, Depth: 5})
	test.That(t, record.Camera.FOVY, test.ShouldEqual, 60)
	test.That(t, len(record.Screenshots), test.ShouldEqual, 2)
	test.That(t, record.Screenshots[1].CameraRotation.Yaw, test.ShouldEqual, 170)
	test.That(t, record.Screenshots[1].Display.Scale, test.ShouldEqual, 80)
	test.That(t, record.Usable(), test.ShouldBeTrue)

	step, ok := record.Step("shot-2")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, step.CameraRotation.Pitch, test.ShouldEqual, -5)
	_, ok = record.Step("shot-9")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestDecodeCalibrationRecordRejectsUnknownFields(t *testing.T) {
	withUnknown := strings.Replace(calibrationJSON, `"version": 1,`, `"version": 1, "extra": true,`, 1)
	_, err := DecodeCalibrationRecord(strings.NewReader(withUnknown))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown field")
}

func TestDecodeCalibrationRecordRejectsMissingVersion(t *testing.T) {
	withoutVersion := strings.Replace(calibrationJSON, `"version": 1,`, ``, 1)
	_, err := DecodeCalibrationRecord(strings.NewReader(withoutVersion))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "version")
}

func TestCalibrationRecordValidate(t *testing.T) {
	base, err := DecodeCalibrationRecord(strings.NewReader(calibrationJSON))
	test.That(t, err, test.ShouldBeNil)

	bad := *base
	bad.Room.Height = 0
	err = bad.Validate()
	test.That(t, errors.Is(err, spatialmath.ErrInvalidRoomDimensions), test.ShouldBeTrue)

	bad = *base
	bad.Camera.FOVY = 181
	err = bad.Validate()
	test.That(t, errors.Is(err, transform.ErrInvalidCameraParameters), test.ShouldBeTrue)

	bad = *base
	bad.Screenshots = append([]ScreenshotCalibration{}, base.Screenshots...)
	bad.Screenshots[1].ScreenshotID = "shot-1"
	err = bad.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate")

	bad = *base
	bad.Screenshots = append([]ScreenshotCalibration{}, base.Screenshots...)
	bad.Screenshots[0].Display.Scale = 0
	test.That(t, bad.Validate(), test.ShouldNotBeNil)
}

func TestCalibrationRecordUsable(t *testing.T) {
	record, err := DecodeCalibrationRecord(strings.NewReader(calibrationJSON))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, record.Usable(), test.ShouldBeTrue)

	record.Screenshots[1].Completed = false
	test.That(t, record.Usable(), test.ShouldBeFalse)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	record, err := DecodeCalibrationRecord(strings.NewReader(calibrationJSON))
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, EncodeCalibrationRecord(&buf, record), test.ShouldBeNil)
	decoded, err := DecodeCalibrationRecord(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, decoded, test.ShouldResemble, record)
}

func TestCameraForScreenshot(t *testing.T) {
	record, err := DecodeCalibrationRecord(strings.NewReader(calibrationJSON))
	test.That(t, err, test.ShouldBeNil)

	cam, err := record.CameraForScreenshot("shot-1", 4.0/3.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.Position.Y, test.ShouldEqual, 1.25)
	test.That(t, cam.Rotation.Yaw, test.ShouldEqual, 180)
	test.That(t, cam.FOVY, test.ShouldEqual, 60)

	_, err = record.CameraForScreenshot("shot-9", 4.0/3.0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadCalibrationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	test.That(t, os.WriteFile(path, []byte(calibrationJSON), 0o600), test.ShouldBeNil)

	record, err := ReadCalibrationFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, record.Camera.Position.Vector().Z, test.ShouldEqual, 3)

	_, err = ReadCalibrationFile(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
