package motion

import (
	"errors"
	"time"
)

// ErrNoTimeout is returned by Wait for a non-positive timeout. Callers
// that really want an unbounded wait must opt in via WaitForever.
var ErrNoTimeout = errors.New("wait requires a positive timeout; use WaitForever to block indefinitely")

// Waiter blocks callers until the tracked device stops moving. It
// re-checks the tracker once per polling interval, which is as fast as
// new information can arrive from the hardware, and never sleeps while
// holding the tracker's lock.
type Waiter struct {
	tracker *Tracker
	sleep   func(time.Duration)
	now     func() time.Time
}

func NewWaiter(tracker *Tracker) *Waiter {
	return &Waiter{
		tracker: tracker,
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// Wait blocks until the device stops moving or timeout elapses. On
// timeout it returns a *MotionTimeoutError carrying the device, the
// attempted target and the elapsed time; the device keeps moving and
// the caller may retry or query status.
func (w *Waiter) Wait(timeout time.Duration) error {
	if timeout <= 0 {
		return ErrNoTimeout
	}
	return w.wait(timeout, true)
}

// WaitForever blocks until the device stops moving, with no deadline.
// Any outer cancellation policy is the caller's responsibility.
func (w *Waiter) WaitForever() error {
	return w.wait(0, false)
}

func (w *Waiter) wait(timeout time.Duration, bounded bool) error {
	start := w.now()
	for {
		moving, err := w.tracker.IsMoving()
		if err != nil {
			return err
		}
		if !moving {
			return nil
		}
		if bounded {
			if elapsed := w.now().Sub(start); elapsed > timeout {
				return &MotionTimeoutError{
					Device:  w.tracker.device,
					Target:  w.tracker.Target(),
					Timeout: timeout,
					Elapsed: elapsed,
				}
			}
		}
		w.sleep(w.tracker.PollInterval())
	}
}
