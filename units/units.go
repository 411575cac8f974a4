// Package units converts raw encoder counts reported by motion hardware
// into engineering units (millimetres or degrees) and back, and folds
// angles into a canonical range.
//
// All rounding in this package is half-to-even so that a position read
// back through ToHuman and re-encoded with ToEncoder lands within one
// count of the original.
package units

import "math"

// ToHuman converts an encoder count to engineering units using a linear
// scale factor, rounded to ndigits decimal places.
func ToHuman(encoder int64, factor float64, ndigits int) float64 {
	return RoundTo(float64(encoder)/factor, ndigits)
}

// ToEncoder converts a position in engineering units to an encoder count.
func ToEncoder(position float64, factor float64) int64 {
	return int64(math.RoundToEven(position * factor))
}

// RoundTo rounds v to ndigits decimal places, half to even.
func RoundTo(v float64, ndigits int) float64 {
	p := math.Pow(10, float64(ndigits))
	return math.RoundToEven(v*p) / p
}

// NormalizeAngle folds an angle in degrees into [0, 360) when bound is
// true. Negative angles wrap (-22.5 becomes 337.5) and exact multiples
// of 360 map to 0. When bound is false the angle passes through
// unchanged, which callers use for multi-revolution readouts.
func NormalizeAngle(degrees float64, bound bool) float64 {
	if !bound {
		return degrees
	}
	m := math.Mod(degrees, 360)
	if m < 0 {
		m += 360
	}
	// adding 360 to a tiny negative remainder can round to exactly 360
	if m >= 360 {
		m -= 360
	}
	if m == 0 {
		return 0 // fold -0 into +0
	}
	return m
}
