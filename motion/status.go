// Package motion holds the synchronization core shared by every
// motorized driver: the tracked moving/idle state, the bridge that turns
// vendor event callbacks into structured updates, and the blocking wait
// primitive.
package motion

import "time"

// Status bits reported by Kinesis-style motion controllers.
const (
	MOVING_CLOCKWISE         uint32 = 0x00000010
	MOVING_COUNTERCLOCKWISE  uint32 = 0x00000020
	JOGGING_CLOCKWISE        uint32 = 0x00000040
	JOGGING_COUNTERCLOCKWISE uint32 = 0x00000080
	HOMING                   uint32 = 0x00000200
	HOMED                    uint32 = 0x00000400

	// MOVING masks every bit that means the device is in motion.
	MOVING = MOVING_CLOCKWISE | MOVING_COUNTERCLOCKWISE |
		JOGGING_CLOCKWISE | JOGGING_COUNTERCLOCKWISE | HOMING
)

// Status is a snapshot of the tracked motion state of one device.
type Status struct {
	Bits      uint32
	Moving    bool
	UpdatedAt time.Time
}

// Message is the most recent event message decoded from the vendor
// controller. Only the message identifier matters to this layer.
type Message struct {
	ID string
}

// Homed reports whether the message announces a completed homing move.
func (m Message) Homed() bool {
	return m.ID == "Homed"
}

// Controller is the slice of a vendor motion controller that the
// synchronization core talks to. Implementations wrap an SDK handle and
// may block on I/O; the core never calls them while holding its state
// lock.
type Controller interface {
	ReadStatusBits() (uint32, error)
	ReadRawPosition() (int64, error)
	ReadLastMessage() (Message, error)
	IssueMove(target int64) error
	RegisterEventCallback(fn func())
	PollingInterval() time.Duration
}
