package motion

import (
	"sync"
	"time"
)

// DefaultGrace is how long after a move command the device is assumed to
// be moving regardless of what the hardware reports. Motors have nonzero
// start latency; a poll issued right after the command would read "not
// moving" and confuse waiters. The value is hardware-dependent, so
// Config can override it.
const DefaultGrace = 200 * time.Millisecond

// DefaultPollInterval matches the polling rate requested from Kinesis
// controllers at connect time.
const DefaultPollInterval = 100 * time.Millisecond

// Config carries the timing knobs of the tracker. PollInterval is fixed
// at device-connect time from the hardware's reported polling duration.
type Config struct {
	PollInterval time.Duration
	Grace        time.Duration
	// StaleAfter is the age at which a cached moving flag is no longer
	// trusted. Zero means twice the polling interval.
	StaleAfter time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 2 * c.PollInterval
	}
	return c
}

// Tracker is the single source of truth for "is this device moving".
// It is updated from two directions: the vendor event callback (via
// Bridge) and on-demand polling. All state is scoped to one device
// instance and guarded by one mutex; hardware round-trips happen outside
// that lock so the callback context is never stalled behind a slow poll.
type Tracker struct {
	device string
	ctrl   Controller
	cfg    Config
	now    func() time.Time

	mu         sync.Mutex
	bits       uint32
	moving     bool
	known      bool // false until the first status read
	updatedAt  time.Time
	moveIssued time.Time
	target     float64
}

func NewTracker(device string, ctrl Controller, cfg Config) *Tracker {
	return &Tracker{
		device: device,
		ctrl:   ctrl,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
	}
}

// NoteMove marks the device as moving before the hardware confirms it
// and records the attempted target for error reporting. Call it
// immediately before issuing any move or home command.
func (t *Tracker) NoteMove(target float64) {
	now := t.now()
	t.mu.Lock()
	t.moving = true
	t.known = true
	t.moveIssued = now
	t.target = target
	t.mu.Unlock()
}

// Refresh reads the status bits from the controller and recomputes the
// moving flag. The vendor callback calls this on every event; callers
// may also invoke it directly to force a fresh read.
func (t *Tracker) Refresh() (Status, error) {
	bits, err := t.ctrl.ReadStatusBits()
	if err != nil {
		return t.Status(), &HardwareCommandError{Device: t.device, Op: "read status bits", Err: err}
	}
	now := t.now()

	t.mu.Lock()
	t.bits = bits
	t.moving = bits&MOVING != 0
	t.known = true
	if now.After(t.updatedAt) { // keep UpdatedAt monotonic
		t.updatedAt = now
	}
	st := t.statusLocked()
	t.mu.Unlock()
	return st, nil
}

// IsMoving reports whether the device is currently moving, using the
// configured grace period.
//
// Within the grace period of the last issued move it reports true
// unconditionally. A cached moving flag older than Config.StaleAfter
// forces a Refresh first, so a missed vendor callback can never leave
// the flag stuck at moving. Every other call answers from cache without
// a hardware round-trip.
func (t *Tracker) IsMoving() (bool, error) {
	return t.IsMovingDelay(t.cfg.Grace)
}

// IsMovingDelay is IsMoving with a per-call grace period, for callers
// driving hardware whose start latency differs from the configured
// default.
func (t *Tracker) IsMovingDelay(grace time.Duration) (bool, error) {
	now := t.now()

	t.mu.Lock()
	inGrace := !t.moveIssued.IsZero() && now.Sub(t.moveIssued) < grace
	known := t.known
	moving := t.moving
	stale := moving && now.Sub(t.updatedAt) > t.cfg.StaleAfter
	t.mu.Unlock()

	if inGrace {
		return true, nil
	}
	if !known || stale {
		st, err := t.Refresh()
		if err != nil {
			return moving, err
		}
		return st.Moving, nil
	}
	return moving, nil
}

// Status returns the cached snapshot without touching the hardware.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

// Target returns the target of the most recent move command.
func (t *Tracker) Target() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// PollInterval returns the cadence at which fresh status can be
// expected from the hardware.
func (t *Tracker) PollInterval() time.Duration {
	return t.cfg.PollInterval
}

func (t *Tracker) statusLocked() Status {
	return Status{Bits: t.bits, Moving: t.moving, UpdatedAt: t.updatedAt}
}
