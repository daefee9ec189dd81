package calibration

import (
	"github.com/edaniels/golog"

	"github.com/jowCode/shadowgeo/spatialmath"
)

// Session accumulates a calibration one screenshot at a time. Steps are
// checked out and committed by value: the session never hands a caller a
// reference into its own state, so edits to one screenshot cannot leak
// into another. The previous incarnation of this tool shared one mutable
// display/pose record across screenshots and corrupted neighbors on
// edit; value copies are the fix, keep it that way.
type Session struct {
	logger golog.Logger
	room   spatialmath.RoomDimensions
	camera CameraConfig
	steps  map[string]ScreenshotCalibration
	order  []string
}

// NewSession validates the shared room and camera configuration and
// returns an empty session.
func NewSession(
	room spatialmath.RoomDimensions,
	camera CameraConfig,
	logger golog.Logger,
) (*Session, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	if err := camera.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		logger: logger,
		room:   room,
		camera: camera,
		steps:  map[string]ScreenshotCalibration{},
	}, nil
}

// Checkout returns a detached copy of the step for the given screenshot,
// creating a blank one on first checkout. Mutating the returned value
// has no effect until it is committed.
func (s *Session) Checkout(screenshotID string) ScreenshotCalibration {
	if step, ok := s.steps[screenshotID]; ok {
		return step
	}
	return ScreenshotCalibration{ScreenshotID: screenshotID}
}

// Commit validates and stores a copy of the given step, replacing any
// previous commit for the same screenshot.
func (s *Session) Commit(step ScreenshotCalibration) error {
	if err := step.Validate(); err != nil {
		return err
	}
	if _, ok := s.steps[step.ScreenshotID]; !ok {
		s.order = append(s.order, step.ScreenshotID)
	}
	s.steps[step.ScreenshotID] = step
	s.logger.Debugw("committed calibration step",
		"screenshot", step.ScreenshotID, "completed", step.Completed)
	return nil
}

// Delete removes the step for the given screenshot, if present.
func (s *Session) Delete(screenshotID string) {
	if _, ok := s.steps[screenshotID]; !ok {
		return
	}
	delete(s.steps, screenshotID)
	for i, id := range s.order {
		if id == screenshotID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Debugw("deleted calibration step", "screenshot", screenshotID)
}

// Usable reports whether at least two committed steps are completed.
func (s *Session) Usable() bool {
	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	return completed >= 2
}

// Record produces a point-in-time snapshot of the session as a
// persistable record, in commit order. The snapshot shares no state with
// the session.
func (s *Session) Record() *CalibrationRecord {
	record := &CalibrationRecord{
		Version: RecordVersion,
		Room:    s.room,
		Camera:  s.camera,
	}
	for _, id := range s.order {
		record.Screenshots = append(record.Screenshots, s.steps[id])
	}
	return record
}
