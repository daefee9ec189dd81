// Package calibration holds the persisted calibration and shadow
// records, their strict JSON boundary, and the copy-on-commit editing
// session that keeps per-screenshot state from aliasing.
package calibration

import (
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/jowCode/shadowgeo/spatialmath"
	"github.com/jowCode/shadowgeo/transform"
)

// RecordVersion is the schema version written to and required from every
// persisted record. Records without it, or with a different version, are
// rejected at the boundary rather than silently defaulted.
const RecordVersion = 1

// Point3 is a JSON-friendly room-space point in meters.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector converts to the geometry representation.
func (p Point3) Vector() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVector converts from the geometry representation.
func FromVector(v r3.Vector) Point3 {
	return Point3{X: v.X, Y: v.Y, Z: v.Z}
}

// CameraConfig is the part of the camera shared across all screenshots
// of a session: the camera never moves, only its rotation varies.
type CameraConfig struct {
	Position Point3  `json:"position"`
	FOVY     float64 `json:"fovY"`
}

// Validate checks the shared camera parameters.
func (c CameraConfig) Validate() error {
	if c.FOVY <= 0 || c.FOVY >= 180 {
		return errors.Wrapf(transform.ErrInvalidCameraParameters, "fovY %v out of range (0, 180)", c.FOVY)
	}
	return nil
}

// ScreenshotCalibration is one calibration step: the per-screenshot
// camera rotation and photograph placement. It is a value type on
// purpose; copies of it are handed in and out of the editing session so
// that no two screenshots ever share a mutable record.
type ScreenshotCalibration struct {
	ScreenshotID   string                      `json:"screenshotId"`
	CameraRotation spatialmath.EulerAngles     `json:"cameraRotation"`
	Display        transform.DisplayParameters `json:"display"`
	Completed      bool                        `json:"completed"`
}

// Validate checks a single step.
func (s ScreenshotCalibration) Validate() error {
	if s.ScreenshotID == "" {
		return errors.New("screenshot id must not be empty")
	}
	if err := s.Display.Validate(); err != nil {
		return errors.Wrapf(err, "screenshot %q", s.ScreenshotID)
	}
	return nil
}

// CalibrationRecord is the persisted calibration: room and shared camera
// plus one step per screenshot.
type CalibrationRecord struct {
	Version     int                        `json:"version"`
	Room        spatialmath.RoomDimensions `json:"room"`
	Camera      CameraConfig               `json:"camera"`
	Screenshots []ScreenshotCalibration    `json:"screenshots"`
}

// Validate checks the whole record, including duplicate screenshot IDs.
func (r *CalibrationRecord) Validate() error {
	if r.Version != RecordVersion {
		return errors.Errorf("unsupported record version %d, want %d", r.Version, RecordVersion)
	}
	if err := r.Room.Validate(); err != nil {
		return err
	}
	if err := r.Camera.Validate(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, s := range r.Screenshots {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ScreenshotID] {
			return errors.Errorf("duplicate screenshot id %q", s.ScreenshotID)
		}
		seen[s.ScreenshotID] = true
	}
	return nil
}

// Usable reports whether the calibration has enough completed steps for
// downstream triangulation; two completed screenshots are the minimum.
func (r *CalibrationRecord) Usable() bool {
	completed := 0
	for _, s := range r.Screenshots {
		if s.Completed {
			completed++
		}
	}
	return completed >= 2
}

// Step returns a copy of the step for the given screenshot.
func (r *CalibrationRecord) Step(screenshotID string) (ScreenshotCalibration, bool) {
	for _, s := range r.Screenshots {
		if s.ScreenshotID == screenshotID {
			return s, true
		}
	}
	return ScreenshotCalibration{}, false
}

// CameraForScreenshot builds the projection camera for one screenshot,
// combining the shared position/FOV with that screenshot's rotation.
func (r *CalibrationRecord) CameraForScreenshot(
	screenshotID string,
	aspectRatio float64,
) (*transform.PinholeCamera, error) {
	step, ok := r.Step(screenshotID)
	if !ok {
		return nil, errors.Errorf("no calibration step for screenshot %q", screenshotID)
	}
	return transform.NewPinholeCamera(r.Camera.Position.Vector(), step.CameraRotation, r.Camera.FOVY, aspectRatio)
}

// DecodeCalibrationRecord reads and validates a calibration record.
// Decoding is strict: unknown fields are a boundary error, not ignored.
func DecodeCalibrationRecord(r io.Reader) (*CalibrationRecord, error) {
	record := &CalibrationRecord{}
	if err := decodeStrict(r, record); err != nil {
		return nil, errors.Wrap(err, "error parsing calibration record")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// EncodeCalibrationRecord validates and writes a calibration record.
func EncodeCalibrationRecord(w io.Writer, record *CalibrationRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(record)
}

// ReadCalibrationFile loads a calibration record from a JSON file.
func ReadCalibrationFile(path string) (*CalibrationRecord, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening calibration file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return DecodeCalibrationRecord(f)
}

func decodeStrict(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
