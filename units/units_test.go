package units

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEncoderConversion(t *testing.T) {
	// counts for one full revolution of the test stage
	const twoPi = int64(1920000)
	factor := float64(twoPi) / 360.0

	Convey("Encoder counts convert to degrees and back", t, func() {
		So(ToHuman(twoPi/16, factor, 4), ShouldEqual, 22.5)
		So(ToHuman(-twoPi/16, factor, 4), ShouldEqual, -22.5)
		So(ToHuman(3*twoPi/2, factor, 4), ShouldEqual, 540.0)
		So(ToEncoder(22.5, factor), ShouldEqual, twoPi/16)

		Convey("negative angles normalize only when asked", func() {
			So(NormalizeAngle(ToHuman(-twoPi/16, factor, 4), true), ShouldEqual, 337.5)
			So(NormalizeAngle(ToHuman(3*twoPi/2, factor, 4), false), ShouldEqual, 540.0)
			So(NormalizeAngle(ToHuman(3*twoPi/2, factor, 4), true), ShouldEqual, 180.0)
		})
	})

	Convey("Round-tripping an encoder count stays within one count", t, func() {
		factors := []float64{24576.0 / 360, 136533.33 / 360, 409600.0, 34304.0}
		encoders := []int64{0, 1, -1, 12345, -98765, 2048000, -7340032}
		for _, f := range factors {
			for _, e := range encoders {
				back := ToEncoder(ToHuman(e, f, 4), f)
				diff := back - e
				if diff < 0 {
					diff = -diff
				}
				So(diff, ShouldBeLessThanOrEqualTo, 1)
			}
		}
	})

	Convey("Reported positions use half-to-even rounding", t, func() {
		So(RoundTo(0.00005, 4), ShouldEqual, 0.0)
		So(RoundTo(0.00035, 4), ShouldAlmostEqual, 0.0004, 1e-12)
		So(RoundTo(2.5, 0), ShouldEqual, 2.0)
		So(RoundTo(3.5, 0), ShouldEqual, 4.0)
	})
}

func TestNormalizeAngle(t *testing.T) {
	Convey("Bounded angles always land in [0, 360)", t, func() {
		cases := map[float64]float64{
			0:         0,
			-22.5:     337.5,
			360:       0,
			-360:      0,
			360 * 10:  0,
			-360 * 7:  0,
			540:       180,
			719.75:    359.75,
			-0.25:     359.75,
			-1083.221: 356.779,
		}
		for in, want := range cases {
			So(NormalizeAngle(in, true), ShouldAlmostEqual, want, 1e-9)
		}

		Convey("including negative zero", func() {
			got := NormalizeAngle(math.Copysign(0, -1), true)
			So(got, ShouldEqual, 0.0)
			So(math.Signbit(got), ShouldBeFalse)
		})

		Convey("including very large magnitudes", func() {
			for _, in := range []float64{1e12 + 42.0, -1e12, 123456789.875, -123456789.875} {
				got := NormalizeAngle(in, true)
				So(got, ShouldBeGreaterThanOrEqualTo, 0)
				So(got, ShouldBeLessThan, 360)
			}
		})

		Convey("including remainders that would round up to a full turn", func() {
			got := NormalizeAngle(-1e-13, true)
			So(got, ShouldBeGreaterThanOrEqualTo, 0)
			So(got, ShouldBeLessThan, 360)
		})
	})

	Convey("Unbounded angles pass through untouched", t, func() {
		for _, in := range []float64{-22.5, 0, 540, 1234.5678} {
			So(NormalizeAngle(in, false), ShouldEqual, in)
		}
	})
}
