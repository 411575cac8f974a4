package motion

import (
	"fmt"
	"time"
)

// MotionTimeoutError is returned by Waiter.Wait when a bounded wait
// elapses while the device still reports motion. It is recoverable: the
// caller may retry the wait or query status directly.
type MotionTimeoutError struct {
	Device  string
	Target  float64
	Timeout time.Duration
	Elapsed time.Duration
}

func (e *MotionTimeoutError) Error() string {
	return fmt.Sprintf("waiting for %q to finish moving to %v took longer than %s (elapsed %s)",
		e.Device, e.Target, e.Timeout, e.Elapsed)
}

// HardwareCommandError wraps an I/O failure from the vendor controller.
// The failed command is not retried and the device connection stays up;
// retry policy belongs to the caller.
type HardwareCommandError struct {
	Device string
	Op     string
	Err    error
}

func (e *HardwareCommandError) Error() string {
	return fmt.Sprintf("%s failed on %q: %v", e.Op, e.Device, e.Err)
}

func (e *HardwareCommandError) Unwrap() error {
	return e.Err
}
