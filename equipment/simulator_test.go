package equipment

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulatedMove(t *testing.T) {
	Convey("A simulated stage completes a full move/wait cycle", t, func() {
		sdk := &SimSDK{}
		defer sdk.Close()

		stageDev, err := (&Bench{sdk: sdk}).Connect("sim-stage", stageRecord(), nil)
		So(err, ShouldBeNil)
		stage := stageDev.(*Stage)

		sub, cancel := stage.Subscribe()
		defer cancel()

		// 24000 counts away: two simulator ticks
		So(stage.SetPosition(4.5, false), ShouldBeNil)

		moving, err := stage.IsMoving()
		So(err, ShouldBeNil)
		So(moving, ShouldBeTrue)

		So(stage.Wait(5*time.Second), ShouldBeNil)

		pos, err := stage.GetPosition()
		So(err, ShouldBeNil)
		So(pos, ShouldEqual, 4.5)

		Convey("and the callback stream published updates along the way", func() {
			deadline := time.After(2 * time.Second)
			got := false
			for !got {
				select {
				case u := <-sub:
					So(u.Device, ShouldEqual, "sim-stage")
					So(u.Encoder, ShouldNotBeNil)
					got = true
				case <-deadline:
					t.Fatal("no update published by the simulator callback")
				}
			}
		})
	})

	Convey("A simulated home lands at zero and reports homed", t, func() {
		sdk := &SimSDK{}
		defer sdk.Close()

		ctrl, err := sdk.Open(stageRecord())
		So(err, ShouldBeNil)
		sim := ctrl.(*SimController)
		sim.mu.Lock()
		sim.current = 20000
		sim.mu.Unlock()

		stage, err := NewStage("sim-stage", sim, stageRecord(), nil)
		So(err, ShouldBeNil)

		So(stage.Home(true), ShouldBeNil)

		enc, err := stage.GetEncoder()
		So(err, ShouldBeNil)
		So(enc, ShouldEqual, 0)

		u := stage.payload()
		So(*u.Homed, ShouldBeTrue)
	})
}
