package equipment

import (
	"log"
	"os"
	"time"

	"github.com/Masterminds/semver"

	deverr "github.com/optobench/optobench/equipment/errors"
	"github.com/optobench/optobench/motion"
)

// FIRMWARE_VERSION is the controller firmware constraint a device must
// satisfy before the bench will drive it. "DEV" builds are let through.
const FIRMWARE_VERSION = "~1.0"

func checkFirmware(alias, version string) error {
	if version == "DEV" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return deverr.FirmwareVersionError{Device: alias, Version: version, Require: FIRMWARE_VERSION}
	}
	constraint, err := semver.NewConstraint(FIRMWARE_VERSION)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return deverr.FirmwareVersionError{Device: alias, Version: version, Require: FIRMWARE_VERSION}
	}
	return nil
}

// kinesis is the shared core of every driver in this package: one
// tracker, one callback bridge and one waiter per device instance.
type kinesis struct {
	alias   string
	ctrl    Controller
	tracker *motion.Tracker
	waiter  *motion.Waiter
	bridge  *motion.Bridge
	local   *motion.Broadcaster
	logger  *log.Logger
}

// newKinesis wires the synchronization core around ctrl. payload is the
// driver's status-payload builder, invoked by the bridge after every
// refresh.
func newKinesis(alias string, ctrl Controller, rec DeviceRecord, notifier motion.Notifier, payload func() motion.Update) *kinesis {
	k := &kinesis{
		alias:  alias,
		ctrl:   ctrl,
		local:  motion.NewBroadcaster(),
		logger: log.New(os.Stderr, "equipment: ", log.LstdFlags),
	}
	k.tracker = motion.NewTracker(alias, ctrl, rec.Timing(ctrl.PollingInterval()))
	k.waiter = motion.NewWaiter(k.tracker)
	k.bridge = motion.NewBridge(k.tracker, payload, k.local, notifier)
	k.bridge.Attach(ctrl)
	return k
}

// IsMoving reports whether the device is moving right now.
func (k *kinesis) IsMoving() (bool, error) {
	return k.tracker.IsMoving()
}

// IsMovingDelay is IsMoving with a per-call start-latency allowance.
func (k *kinesis) IsMovingDelay(delay time.Duration) (bool, error) {
	return k.tracker.IsMovingDelay(delay)
}

// Status returns the cached motion snapshot without a hardware read.
func (k *kinesis) Status() motion.Status {
	return k.tracker.Status()
}

// Wait blocks until the device stops moving or timeout elapses.
func (k *kinesis) Wait(timeout time.Duration) error {
	return k.waiter.Wait(timeout)
}

// Subscribe attaches a local observer to the device's update stream.
func (k *kinesis) Subscribe() (<-chan motion.Update, func()) {
	return k.local.Subscribe()
}

// Stop halts the current move immediately.
func (k *kinesis) Stop() error {
	if err := k.ctrl.Stop(); err != nil {
		return &motion.HardwareCommandError{Device: k.alias, Op: "stop", Err: err}
	}
	k.logger.Printf("stop moving %q", k.alias)
	return nil
}

// home issues the homing command, eagerly marking the device as moving
// first since homing motors share the same start latency as moves.
func (k *kinesis) home(wait bool) error {
	k.tracker.NoteMove(0)
	if err := k.ctrl.Home(); err != nil {
		return &motion.HardwareCommandError{Device: k.alias, Op: "home", Err: err}
	}
	k.logger.Printf("homing %q", k.alias)
	if wait {
		return k.waiter.WaitForever()
	}
	return nil
}

// move converts and issues a move command. The tracker is marked moving
// before the hardware sees the command.
func (k *kinesis) move(target float64, encoder int64, wait bool) error {
	k.tracker.NoteMove(target)
	if err := k.ctrl.IssueMove(encoder); err != nil {
		return &motion.HardwareCommandError{Device: k.alias, Op: "move", Err: err}
	}
	if wait {
		return k.waiter.WaitForever()
	}
	return nil
}
