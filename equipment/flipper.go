package equipment

import (
	deverr "github.com/optobench/optobench/equipment/errors"
	"github.com/optobench/optobench/motion"
)

// Flipper drives a two-position filter flipper. Positions are the slot
// indices 1 and 2; the controller reports 0 mid-flip.
type Flipper struct {
	*kinesis
	slots map[int]string
}

func NewFlipper(alias string, ctrl Controller, rec DeviceRecord, notifier motion.Notifier) *Flipper {
	slots := map[int]string{1: "Position 1", 2: "Position 2"}
	for slot, name := range rec.Slots {
		if slot == 1 || slot == 2 {
			slots[slot] = name
		}
	}
	f := &Flipper{slots: slots}
	f.kinesis = newKinesis(alias, ctrl, rec, notifier, f.payload)
	return f
}

// Info returns what optical component is installed in each slot.
func (f *Flipper) Info() map[string]interface{} {
	return map[string]interface{}{
		"1": f.slots[1],
		"2": f.slots[2],
	}
}

// GetPosition returns the current slot, 1 or 2 (0 during a move).
func (f *Flipper) GetPosition() (float64, error) {
	raw, err := f.ctrl.ReadRawPosition()
	if err != nil {
		return 0, &motion.HardwareCommandError{Device: f.alias, Op: "read position", Err: err}
	}
	return float64(raw), nil
}

// SetPosition flips to slot 1 or 2. Anything else is rejected before a
// hardware command is issued.
func (f *Flipper) SetPosition(position float64, wait bool) error {
	slot := int(position)
	if float64(slot) != position || slot < 1 || slot > 2 {
		return deverr.InvalidTargetError{
			Device:   f.alias,
			Position: position,
			Min:      1,
			Max:      2,
		}
	}
	f.logger.Printf("move %q to position %d [%s]", f.alias, slot, f.slots[slot])
	return f.move(position, int64(slot), wait)
}

// payload for a flipper is the bare slot index; encoder and homed stay
// null in the published update.
func (f *Flipper) payload() motion.Update {
	u := motion.Update{}
	raw, err := f.ctrl.ReadRawPosition()
	if err != nil {
		return u
	}
	u.Position = float64(raw)
	return u
}
