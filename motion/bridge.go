package motion

import (
	"log"
	"os"
)

// Bridge adapts the vendor's fire-and-forget event callback into
// structured updates. The callback context belongs to the vendor
// runtime: it must return quickly and nothing may escape it, so every
// failure inside the handler degrades or is logged, never propagated.
type Bridge struct {
	tracker *Tracker
	payload func() Update
	local   *Broadcaster
	remote  Notifier
	logger  *log.Logger
}

// NewBridge wires a bridge to its tracker and sinks. payload builds the
// device-kind-specific part of the update (stages report position,
// encoder and homed; flippers report the slot alone). remote may be nil.
func NewBridge(tracker *Tracker, payload func() Update, local *Broadcaster, remote Notifier) *Bridge {
	return &Bridge{
		tracker: tracker,
		payload: payload,
		local:   local,
		remote:  remote,
		logger:  log.New(os.Stderr, "motion: ", log.LstdFlags),
	}
}

// Attach registers the bridge as the controller's event callback.
func (b *Bridge) Attach(ctrl Controller) {
	ctrl.RegisterEventCallback(b.handle)
}

// Fire runs one callback delivery. Exposed for drivers that want to
// push an update outside the vendor event path, e.g. after enabling a
// channel.
func (b *Bridge) Fire() {
	b.handle()
}

func (b *Bridge) handle() {
	defer func() {
		// a panic escaping a vendor callback is fatal in the vendor runtime
		if r := recover(); r != nil {
			b.logger.Printf("recovered from callback panic for %q: %v", b.tracker.device, r)
		}
	}()

	// The refresh must happen before the payload is built: it is what
	// updates the authoritative moving flag the payload reports.
	st, err := b.tracker.Refresh()
	if err != nil {
		b.logger.Printf("dropping update for %q: %v", b.tracker.device, err)
		return
	}

	u := b.payload()
	u.Device = b.tracker.device
	u.Moving = st.Moving

	b.local.Publish(u)
	if b.remote != nil {
		b.remote.Notify(u)
	}
}
