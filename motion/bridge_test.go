package motion

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type mockNotifier struct {
	updates []Update
}

func (n *mockNotifier) Notify(u Update) {
	n.updates = append(n.updates, u)
}

func TestBridgeDelivery(t *testing.T) {
	Convey("An event delivery refreshes status before building the payload", t, func() {
		ctrl := &mockController{bits: HOMING}
		tr, _ := newTestTracker(ctrl)
		local := NewBroadcaster()
		remote := &mockNotifier{}

		var readsAtPayload int
		encoder := int64(86430)
		payload := func() Update {
			readsAtPayload = ctrl.reads()
			return Update{Position: 22.5, Encoder: &encoder}
		}

		bridge := NewBridge(tr, payload, local, remote)
		bridge.Attach(ctrl)
		So(ctrl.callback, ShouldNotBeNil)

		sub, cancel := local.Subscribe()
		defer cancel()

		ctrl.callback()

		Convey("the payload saw post-refresh state", func() {
			So(readsAtPayload, ShouldEqual, 1)
			So(tr.Status().Moving, ShouldBeTrue)
		})

		Convey("both sinks received the update", func() {
			var got Update
			select {
			case got = <-sub:
			default:
				t.Fatal("no local update published")
			}
			So(got.Device, ShouldEqual, "stage-x")
			So(got.Position, ShouldEqual, 22.5)
			So(*got.Encoder, ShouldEqual, 86430)
			So(got.Moving, ShouldBeTrue)

			So(len(remote.updates), ShouldEqual, 1)
			So(remote.updates[0], ShouldResemble, got)
		})
	})

	Convey("A bridge without remote listeners still feeds local subscribers", t, func() {
		ctrl := &mockController{}
		tr, _ := newTestTracker(ctrl)
		local := NewBroadcaster()

		bridge := NewBridge(tr, func() Update { return Update{Position: 1} }, local, nil)
		sub, cancel := local.Subscribe()
		defer cancel()

		So(bridge.Fire, ShouldNotPanic)
		So(len(sub), ShouldEqual, 1)
	})
}

func TestBridgeFailureContainment(t *testing.T) {
	Convey("A failed refresh drops the update instead of publishing stale state", t, func() {
		ctrl := &mockController{bitsErr: errors.New("controller unplugged")}
		tr, _ := newTestTracker(ctrl)
		local := NewBroadcaster()
		remote := &mockNotifier{}

		called := false
		bridge := NewBridge(tr, func() Update { called = true; return Update{} }, local, remote)
		bridge.Fire()

		So(called, ShouldBeFalse)
		So(len(remote.updates), ShouldEqual, 0)
	})

	Convey("Nothing escapes the callback context", t, func() {
		ctrl := &mockController{}
		tr, _ := newTestTracker(ctrl)
		local := NewBroadcaster()

		bridge := NewBridge(tr, func() Update { panic("malformed vendor message") }, local, nil)
		So(bridge.Fire, ShouldNotPanic)
	})
}

func TestBroadcaster(t *testing.T) {
	Convey("Subscribers receive published updates independently", t, func() {
		b := NewBroadcaster()
		a, cancelA := b.Subscribe()
		c, cancelC := b.Subscribe()
		defer cancelC()

		b.Publish(Update{Device: "wheel-1", Position: 45})
		So(len(a), ShouldEqual, 1)
		So(len(c), ShouldEqual, 1)
		So((<-a).Device, ShouldEqual, "wheel-1")

		Convey("a cancelled subscriber stops receiving", func() {
			cancelA()
			b.Publish(Update{Device: "wheel-1", Position: 90})
			So(b.Len(), ShouldEqual, 1)
			So(len(c), ShouldEqual, 2)
		})

		Convey("a full subscriber is skipped, not blocked on", func() {
			for i := 0; i < 40; i++ {
				b.Publish(Update{Position: float64(i)})
			}
			So(len(c), ShouldEqual, 16)
		})
	})
}
