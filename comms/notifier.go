// Package comms pushes device status updates to externally linked
// listeners over websockets and serves read-only bench information.
// Driving devices remotely is out of scope here: commands stay with the
// in-process callers.
package comms

import (
	"log"
	"os"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/optobench/optobench/motion"
)

// Conductor fans motion updates out to the websocket listeners linked
// to each device. With no listeners attached Notify is a no-op, so
// benches that never serve remote clients pay nothing for it.
type Conductor struct {
	mu        sync.Mutex
	listeners map[string][]*websocket.Conn
	logger    *log.Logger
}

func NewConductor() *Conductor {
	return &Conductor{
		listeners: make(map[string][]*websocket.Conn),
		logger:    log.New(os.Stderr, "comms: ", log.LstdFlags),
	}
}

// Link attaches a listener to the update stream of one device. The
// conductor owns the connection from here on and closes it on the first
// failed write.
func (c *Conductor) Link(device string, conn *websocket.Conn) {
	c.mu.Lock()
	c.listeners[device] = append(c.listeners[device], conn)
	n := len(c.listeners[device])
	c.mu.Unlock()
	c.logger.Printf("linked listener %d to %q", n, device)
}

// Notify implements motion.Notifier. It runs on the callback path, so a
// listener that errors is dropped rather than retried.
func (c *Conductor) Notify(u motion.Update) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conns := c.listeners[u.Device]
	if len(conns) == 0 {
		return
	}

	alive := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteJSON(u); err != nil {
			c.logger.Printf("dropping listener on %q: %v", u.Device, err)
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	c.listeners[u.Device] = alive
}

// Listeners returns how many remote listeners are linked to device.
func (c *Conductor) Listeners(device string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners[device])
}

// Close drops every linked listener.
func (c *Conductor) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for device, conns := range c.listeners {
		for _, conn := range conns {
			conn.Close()
		}
		delete(c.listeners, device)
	}
}
