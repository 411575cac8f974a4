package equipment

import (
	"fmt"

	deverr "github.com/optobench/optobench/equipment/errors"
	"github.com/optobench/optobench/motion"
	"github.com/optobench/optobench/units"
)

// positions are reported rounded to this many decimal places
const positionDigits = 4

// Stage drives a linear or rotation stage. Positions are engineering
// units (mm or degrees); the encoder factor from the device record
// converts them to the counts the controller understands.
type Stage struct {
	*kinesis
	factor float64
	unit   string
	min    float64
	max    float64
	info   map[string]interface{}
}

func NewStage(alias string, ctrl Controller, rec DeviceRecord, notifier motion.Notifier) (*Stage, error) {
	if rec.EncoderFactor == 0 {
		return nil, fmt.Errorf("cannot determine the encoder factor for %q; define encoder_factor in its device record", alias)
	}
	unit := rec.Unit
	if unit == "" {
		unit = "mm"
	}
	s := &Stage{
		factor: rec.EncoderFactor,
		unit:   unit,
		min:    rec.MinPosition,
		max:    rec.MaxPosition,
		info: map[string]interface{}{
			"unit":    unit,
			"minimum": rec.MinPosition,
			"maximum": rec.MaxPosition,
		},
	}
	s.kinesis = newKinesis(alias, ctrl, rec, notifier, s.payload)
	return s, nil
}

// Info returns the unit and travel range of the stage.
func (s *Stage) Info() map[string]interface{} {
	return s.info
}

// GetEncoder returns the raw encoder count.
func (s *Stage) GetEncoder() (int64, error) {
	encoder, err := s.ctrl.ReadRawPosition()
	if err != nil {
		return 0, &motion.HardwareCommandError{Device: s.alias, Op: "read position", Err: err}
	}
	return encoder, nil
}

// GetPosition returns the position of the stage in mm or degrees.
func (s *Stage) GetPosition() (float64, error) {
	encoder, err := s.GetEncoder()
	if err != nil {
		return 0, err
	}
	return units.ToHuman(encoder, s.factor, positionDigits), nil
}

// SetPosition moves the stage to position (in mm or degrees). Targets
// outside the configured travel range are rejected before any hardware
// command is issued. With wait the call blocks until motion stops.
func (s *Stage) SetPosition(position float64, wait bool) error {
	if position < s.min || position > s.max {
		return deverr.InvalidTargetError{
			Device:   s.alias,
			Position: position,
			Unit:     s.unit,
			Min:      s.min,
			Max:      s.max,
		}
	}
	encoder := units.ToEncoder(position, s.factor)
	s.logger.Printf("set %q to %v%s [encoder: %d]", s.alias, position, s.unit, encoder)
	return s.move(position, encoder, wait)
}

// Home homes the stage.
func (s *Stage) Home(wait bool) error {
	return s.home(wait)
}

// payload builds the stage status update published on every hardware
// event. A missing or undecodable vendor message degrades to homed =
// false rather than failing the stream.
func (s *Stage) payload() motion.Update {
	u := motion.Update{}
	encoder, err := s.ctrl.ReadRawPosition()
	if err != nil {
		return u
	}
	u.Encoder = &encoder
	u.Position = units.ToHuman(encoder, s.factor, positionDigits)

	homed := false
	if msg, err := s.ctrl.ReadLastMessage(); err == nil {
		homed = msg.Homed()
	}
	u.Homed = &homed
	return u
}
