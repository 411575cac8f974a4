package equipment

import (
	"fmt"
	"time"

	"github.com/optobench/optobench/motion"
)

// BenchConfig is the yaml description of every instrument on the bench,
// keyed by alias.
type BenchConfig struct {
	Devices map[string]DeviceRecord `yaml:"devices"`
}

// DeviceRecord identifies one instrument and carries its unit profile.
// Records are read-only once the bench is built.
type DeviceRecord struct {
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
	Serial       string `yaml:"serial"`

	// stages: counts per mm or per degree; the settings files shipped
	// with vendor SDKs have a history of bugs, so the factor is given
	// explicitly per device
	EncoderFactor float64 `yaml:"encoder_factor"`
	Unit          string  `yaml:"unit"`
	MinPosition   float64 `yaml:"min_position"`
	MaxPosition   float64 `yaml:"max_position"`

	// wheels: encoder pulses per full revolution
	PulsesPerRev int `yaml:"pulses_per_rev"`

	// flippers: what is installed in each slot
	Slots map[int]string `yaml:"slots"`

	// motion timing; empirically chosen and hardware-dependent, so both
	// are overridable per device
	GraceMS     int     `yaml:"grace_ms"`
	StaleFactor float64 `yaml:"stale_factor"`
}

// Timing converts the record's knobs into a motion config for a
// controller polling at interval.
func (r DeviceRecord) Timing(interval time.Duration) motion.Config {
	cfg := motion.Config{PollInterval: interval}
	if r.GraceMS > 0 {
		cfg.Grace = time.Duration(r.GraceMS) * time.Millisecond
	}
	if r.StaleFactor > 0 {
		cfg.StaleAfter = time.Duration(r.StaleFactor * float64(interval))
	}
	return cfg
}

// Validate rejects records that cannot produce a working driver.
func (c BenchConfig) Validate() error {
	if len(c.Devices) == 0 {
		return fmt.Errorf("config defines no devices")
	}
	for alias, rec := range c.Devices {
		if rec.Model == "" {
			return fmt.Errorf("device %q has no model", alias)
		}
		kind := kindFor(rec)
		if kind == kindUnknown {
			return fmt.Errorf("device %q: no driver for %s %s", alias, rec.Manufacturer, rec.Model)
		}
		if kind == kindStage && rec.EncoderFactor == 0 {
			return fmt.Errorf("device %q: cannot determine the encoder factor; define encoder_factor in its record", alias)
		}
	}
	return nil
}
