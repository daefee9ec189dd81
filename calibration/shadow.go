package calibration

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/jowCode/shadowgeo/spatialmath"
)

// PairsPerObject is the number of (object tip, shadow tip) pairs a
// shadow object needs before downstream triangulation can use it: three
// points fix a plane and a direction.
const PairsPerObject = 3

// NormalizedPoint is a position within the original photograph, in
// [0,1]², independent of viewport size or pan/zoom. This is the only
// coordinate representation that is persisted.
type NormalizedPoint struct {
	NormalizedX float64 `json:"normalizedX"`
	NormalizedY float64 `json:"normalizedY"`
}

// Point converts to the 2D geometry representation.
func (p NormalizedPoint) Point() r2.Point {
	return r2.Point{X: p.NormalizedX, Y: p.NormalizedY}
}

// Validate rejects non-finite coordinates. Values outside [0,1] are
// representable on purpose; only NaN/Inf are malformed.
func (p NormalizedPoint) Validate() error {
	if math.IsNaN(p.NormalizedX) || math.IsInf(p.NormalizedX, 0) ||
		math.IsNaN(p.NormalizedY) || math.IsInf(p.NormalizedY, 0) {
		return errors.New("normalized point coordinates must be finite")
	}
	return nil
}

// ShadowPoint is the shadow-tip half of a pair: where the shadow lands,
// annotated with the wall it landed on. World3D is derived debug data
// and never authoritative; re-resolving the wall hit is.
type ShadowPoint struct {
	NormalizedPoint
	Wall    spatialmath.WallName `json:"wall"`
	World3D *Point3              `json:"world3D,omitempty"`
}

// ShadowPointPair ties an object tip to its shadow tip.
type ShadowPointPair struct {
	ObjectPoint NormalizedPoint `json:"objectPoint"`
	ShadowPoint ShadowPoint     `json:"shadowPoint"`
}

// Validate checks both halves of the pair against the active wall set.
func (p ShadowPointPair) Validate(walls []spatialmath.WallName) error {
	if err := p.ObjectPoint.Validate(); err != nil {
		return errors.Wrap(err, "object point")
	}
	if err := p.ShadowPoint.Validate(); err != nil {
		return errors.Wrap(err, "shadow point")
	}
	if !spatialmath.ValidWall(p.ShadowPoint.Wall, walls) {
		return errors.Errorf("shadow point wall %q not in active wall set", p.ShadowPoint.Wall)
	}
	return nil
}

// ShadowObject is one annotated object and its shadow, as point pairs.
type ShadowObject struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Pairs []ShadowPointPair `json:"pairs"`
}

// NewShadowObject creates an empty object with a fresh ID.
func NewShadowObject(name string) *ShadowObject {
	return &ShadowObject{ID: uuid.NewString(), Name: name}
}

// Usable reports whether the object carries exactly the pair count
// triangulation needs.
func (o *ShadowObject) Usable() bool {
	return len(o.Pairs) == PairsPerObject
}

// Validate checks the object's identity and every pair.
func (o *ShadowObject) Validate(walls []spatialmath.WallName) error {
	if o.ID == "" {
		return errors.New("shadow object id must not be empty")
	}
	for i, pair := range o.Pairs {
		if err := pair.Validate(walls); err != nil {
			return errors.Wrapf(err, "object %q pair %d", o.ID, i)
		}
	}
	return nil
}

// ImageDimensions is the pixel size of the original photograph.
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScreenshotShadows is every annotated object on one screenshot.
type ScreenshotShadows struct {
	ScreenshotID string          `json:"screenshotId"`
	Dimensions   ImageDimensions `json:"screenshotDimensions"`
	Objects      []ShadowObject  `json:"objects"`
}

// ShadowRecord is the persisted annotation data for a session.
type ShadowRecord struct {
	Version     int                 `json:"version"`
	Screenshots []ScreenshotShadows `json:"screenshots"`
}

// Validate checks the record against the active wall set.
func (r *ShadowRecord) Validate(walls []spatialmath.WallName) error {
	if r.Version != RecordVersion {
		return errors.Errorf("unsupported record version %d, want %d", r.Version, RecordVersion)
	}
	for _, s := range r.Screenshots {
		if s.ScreenshotID == "" {
			return errors.New("screenshot id must not be empty")
		}
		if s.Dimensions.Width <= 0 || s.Dimensions.Height <= 0 {
			return errors.Errorf("screenshot %q has invalid dimensions %dx%d",
				s.ScreenshotID, s.Dimensions.Width, s.Dimensions.Height)
		}
		for i := range s.Objects {
			if err := s.Objects[i].Validate(walls); err != nil {
				return errors.Wrapf(err, "screenshot %q", s.ScreenshotID)
			}
		}
	}
	return nil
}

// DecodeShadowRecord reads and validates a shadow record against the
// active wall set. Decoding is strict; unknown fields are rejected.
func DecodeShadowRecord(r io.Reader, walls []spatialmath.WallName) (*ShadowRecord, error) {
	record := &ShadowRecord{}
	if err := decodeStrict(r, record); err != nil {
		return nil, errors.Wrap(err, "error parsing shadow record")
	}
	if err := record.Validate(walls); err != nil {
		return nil, err
	}
	return record, nil
}

// EncodeShadowRecord validates and writes a shadow record.
func EncodeShadowRecord(w io.Writer, record *ShadowRecord, walls []spatialmath.WallName) error {
	if err := record.Validate(walls); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(record)
}

// ReadShadowFile loads a shadow record from a JSON file.
func ReadShadowFile(path string, walls []spatialmath.WallName) (*ShadowRecord, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening shadow file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return DecodeShadowRecord(f, walls)
}
