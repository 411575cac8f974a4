package equipment

import (
	"github.com/optobench/optobench/motion"
	"github.com/optobench/optobench/units"
)

// DEFAULT_PULSES_PER_REV is the pulse count of one full revolution of
// the SHOT-702 continuously-variable filter wheel.
const DEFAULT_PULSES_PER_REV = 144000

// Wheel drives a continuously-variable filter wheel. Angles are
// degrees; readouts are folded into [0, 360) unless a caller asks for
// the unbounded multi-revolution value.
type Wheel struct {
	*kinesis
	degreesPerPulse float64
}

func NewWheel(alias string, ctrl Controller, rec DeviceRecord, notifier motion.Notifier) *Wheel {
	pulses := rec.PulsesPerRev
	if pulses <= 0 {
		pulses = DEFAULT_PULSES_PER_REV
	}
	w := &Wheel{degreesPerPulse: 360.0 / float64(pulses)}
	w.kinesis = newKinesis(alias, ctrl, rec, notifier, w.payload)
	return w
}

// DegreesPerPulse returns the angular resolution of the wheel.
func (w *Wheel) DegreesPerPulse() float64 {
	return w.degreesPerPulse
}

// Info returns the unit and resolution of the wheel.
func (w *Wheel) Info() map[string]interface{} {
	return map[string]interface{}{
		"unit":              "deg",
		"degrees_per_pulse": w.degreesPerPulse,
	}
}

// DegreesToPosition converts an angle to an encoder position.
func (w *Wheel) DegreesToPosition(degrees float64) int64 {
	return units.ToEncoder(degrees, 1/w.degreesPerPulse)
}

// PositionToDegrees converts an encoder position to an angle. With
// bound the angle is normalized into [0, 360); without it the raw
// multi-revolution angle is returned for diagnostics.
func (w *Wheel) PositionToDegrees(position int64, bound bool) float64 {
	degrees := units.RoundTo(float64(position)*w.degreesPerPulse, positionDigits)
	if bound {
		return units.RoundTo(units.NormalizeAngle(degrees, true), positionDigits)
	}
	return degrees
}

// GetAngle returns the bounded angle of the wheel in degrees.
func (w *Wheel) GetAngle() (float64, error) {
	position, err := w.ctrl.ReadRawPosition()
	if err != nil {
		return 0, &motion.HardwareCommandError{Device: w.alias, Op: "read position", Err: err}
	}
	return w.PositionToDegrees(position, true), nil
}

// SetAngle rotates the wheel to the given angle in degrees.
func (w *Wheel) SetAngle(degrees float64, wait bool) error {
	position := w.DegreesToPosition(degrees)
	w.logger.Printf("%q set to %v degrees [position: %d]", w.alias, degrees, position)
	return w.move(degrees, position, wait)
}

// GetPosition returns the bounded angle; it is the wheel's position in
// the uniform driver interface.
func (w *Wheel) GetPosition() (float64, error) {
	return w.GetAngle()
}

// SetPosition rotates to the given angle. Any finite angle is valid:
// the wheel is continuous and multi-revolution targets just wrap.
func (w *Wheel) SetPosition(position float64, wait bool) error {
	return w.SetAngle(position, wait)
}

// Home homes the wheel.
func (w *Wheel) Home(wait bool) error {
	return w.home(wait)
}

func (w *Wheel) payload() motion.Update {
	u := motion.Update{}
	position, err := w.ctrl.ReadRawPosition()
	if err != nil {
		return u
	}
	u.Encoder = &position
	u.Position = w.PositionToDegrees(position, true)

	homed := false
	if msg, err := w.ctrl.ReadLastMessage(); err == nil {
		homed = msg.Homed()
	}
	u.Homed = &homed
	return u
}
