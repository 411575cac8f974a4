// Package equipment exposes heterogeneous motorized hardware through a
// uniform driver interface. Each driver wraps a vendor controller
// behind the motion synchronization core and presents positions in
// engineering units.
package equipment

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/optobench/optobench/equipment/errors"
	"github.com/optobench/optobench/motion"
)

// Controller extends the motion-core controller surface with the
// device-management calls drivers need. Vendor SDK bindings implement
// it; simulator.go provides an in-process implementation.
type Controller interface {
	motion.Controller

	Home() error
	Stop() error
	FirmwareVersion() string
}

// SDK is the process-wide vendor entry point. BuildDeviceList must run
// once before the first Open; the bench guards that.
type SDK interface {
	BuildDeviceList() error
	Open(record DeviceRecord) (Controller, error)
}

// MotionDevice is the capability interface every motorized driver
// satisfies, whatever the underlying instrument kind.
type MotionDevice interface {
	GetPosition() (float64, error)
	SetPosition(position float64, wait bool) error
	IsMoving() (bool, error)
	Status() motion.Status
	Stop() error
	Wait(timeout time.Duration) error
	Info() map[string]interface{}
	Subscribe() (<-chan motion.Update, func())
}

type deviceKind int

const (
	kindUnknown deviceKind = iota
	kindStage
	kindFlipper
	kindWheel
)

// model patterns per driver; matching a connected instrument to its
// driver is a plain first-match lookup
var driverModels = []struct {
	kind  deviceKind
	model *regexp.Regexp
}{
	{kindFlipper, regexp.MustCompile(`^MFF10[12]$`)},
	{kindStage, regexp.MustCompile(`^(BSC201|K10CR1|KDC101|KST101|LTS150|LTS300)$`)},
	{kindWheel, regexp.MustCompile(`^SHOT-702$`)},
}

func kindFor(rec DeviceRecord) deviceKind {
	for _, d := range driverModels {
		if d.model.MatchString(rec.Model) {
			return d.kind
		}
	}
	return kindUnknown
}

// Bench owns every connected device, keyed by alias. Devices are
// independent: nothing is shared or locked across instances.
type Bench struct {
	Devices map[string]MotionDevice

	sdk      SDK
	listOnce sync.Once
	listErr  error
}

// NewBench connects every device in the config. notifier may be nil
// when no remote listeners will ever attach.
func NewBench(sdk SDK, cfg BenchConfig, notifier motion.Notifier) (*Bench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Bench{
		Devices: make(map[string]MotionDevice, len(cfg.Devices)),
		sdk:     sdk,
	}

	for alias, rec := range cfg.Devices {
		dev, err := b.Connect(alias, rec, notifier)
		if err != nil {
			return nil, err
		}
		b.Devices[alias] = dev
	}
	return b, nil
}

// Connect opens one device and wraps it in the driver selected by its
// model. The vendor device list is built lazily on the first call and
// never again for the lifetime of the process.
func (b *Bench) Connect(alias string, rec DeviceRecord, notifier motion.Notifier) (MotionDevice, error) {
	b.listOnce.Do(func() {
		b.listErr = b.sdk.BuildDeviceList()
	})
	if b.listErr != nil {
		return nil, b.listErr
	}

	ctrl, err := b.sdk.Open(rec)
	if err != nil {
		return nil, err
	}
	if err := checkFirmware(alias, ctrl.FirmwareVersion()); err != nil {
		return nil, err
	}

	switch kindFor(rec) {
	case kindStage:
		return NewStage(alias, ctrl, rec, notifier)
	case kindFlipper:
		return NewFlipper(alias, ctrl, rec, notifier), nil
	case kindWheel:
		return NewWheel(alias, ctrl, rec, notifier), nil
	default:
		return nil, fmt.Errorf("no driver for %s %s (device %q)", rec.Manufacturer, rec.Model, alias)
	}
}

// Device returns the driver for alias.
func (b *Bench) Device(alias string) (MotionDevice, error) {
	dev, ok := b.Devices[alias]
	if !ok {
		return nil, errors.UnknownDeviceError{Alias: alias}
	}
	return dev, nil
}
