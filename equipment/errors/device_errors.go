package errors

import "fmt"

// InvalidTargetError rejects a requested position before any hardware
// command is issued.
type InvalidTargetError struct {
	Device   string
	Position float64
	Unit     string
	Min      float64
	Max      float64
}

func (err InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid %q position %v%s; must be in the range [%v, %v]",
		err.Device, err.Position, err.Unit, err.Min, err.Max)
}

// UnknownDeviceError reports a lookup of an alias the bench does not hold.
type UnknownDeviceError struct {
	Alias string
}

func (err UnknownDeviceError) Error() string {
	return fmt.Sprintf("no such device %q", err.Alias)
}

// FirmwareVersionError rejects a controller whose reported firmware
// falls outside the supported constraint.
type FirmwareVersionError struct {
	Device  string
	Version string
	Require string
}

func (err FirmwareVersionError) Error() string {
	return fmt.Sprintf("unable to use device %q: received firmware version %s - require %s",
		err.Device, err.Version, err.Require)
}
