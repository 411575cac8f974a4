package motion

import "sync"

// Update is published to subscribers after every status-changing
// hardware event. Encoder and Homed are only meaningful for stages;
// they stay nil for two-position actuators, matching what remote
// listeners receive as JSON null.
type Update struct {
	Device   string  `json:"device"`
	Position float64 `json:"position"`
	Encoder  *int64  `json:"encoder"`
	Homed    *bool   `json:"homed"`
	Moving   bool    `json:"moving"`
}

// Notifier delivers updates to externally linked listeners. A nil
// Notifier is valid and drops every update.
type Notifier interface {
	Notify(u Update)
}

// Broadcaster fans updates out to in-process subscribers (waiters, UI).
// Delivery is non-blocking: a subscriber that falls behind misses
// updates rather than stalling the hardware callback.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan Update]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Update]struct{})}
}

// Subscribe returns a channel of updates and a cancel function. The
// caller must invoke cancel when done listening.
func (b *Broadcaster) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Publish delivers u to every subscriber that has room in its buffer.
func (b *Broadcaster) Publish(u Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- u:
		default:
			// subscriber full, skip
		}
	}
}

// Len returns the number of attached subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
