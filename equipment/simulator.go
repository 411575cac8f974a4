package equipment

import (
	"sync"
	"time"

	"github.com/optobench/optobench/motion"
)

// Simulated hardware for developing against a bench with no instruments
// attached. The simulator honors the full Controller contract: it moves
// toward its target over several poll ticks and fires the registered
// event callback on every tick, so the synchronization core behaves as
// it does against real controllers.

const SIM_INTERVAL = time.Second / 10
const SIM_STEP = 12000 // encoder counts per tick

// SimSDK opens a simulated controller for every record.
type SimSDK struct {
	mu     sync.Mutex
	builds int
	opened []*SimController
}

func (s *SimSDK) BuildDeviceList() error {
	s.mu.Lock()
	s.builds++
	s.mu.Unlock()
	return nil
}

func (s *SimSDK) Open(rec DeviceRecord) (Controller, error) {
	ctrl := NewSimController()
	s.mu.Lock()
	s.opened = append(s.opened, ctrl)
	s.mu.Unlock()
	return ctrl, nil
}

// Close stops the update goroutine of every opened controller.
func (s *SimSDK) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ctrl := range s.opened {
		ctrl.Close()
	}
}

type SimController struct {
	mu       sync.Mutex
	current  int64
	target   int64
	moving   bool
	homing   bool
	homed    bool
	lastMsg  motion.Message
	callback func()
	open     bool
}

func NewSimController() *SimController {
	c := &SimController{open: true}
	go c.update()
	return c
}

func (c *SimController) update() {
	for {
		c.mu.Lock()
		if !c.open {
			c.mu.Unlock()
			return
		}
		if c.moving {
			delta := c.target - c.current
			switch {
			case delta > SIM_STEP:
				c.current += SIM_STEP
			case delta < -SIM_STEP:
				c.current -= SIM_STEP
			default:
				c.current = c.target
				c.moving = false
				if c.homing {
					c.homing = false
					c.homed = true
					c.lastMsg = motion.Message{ID: "Homed"}
				} else {
					c.lastMsg = motion.Message{ID: "Moved"}
				}
			}
		}
		cb := c.callback
		c.mu.Unlock()

		if cb != nil {
			cb()
		}
		time.Sleep(SIM_INTERVAL)
	}
}

func (c *SimController) ReadStatusBits() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var bits uint32
	if c.homing {
		bits |= motion.HOMING
	} else if c.moving {
		if c.target >= c.current {
			bits |= motion.MOVING_CLOCKWISE
		} else {
			bits |= motion.MOVING_COUNTERCLOCKWISE
		}
	}
	if c.homed {
		bits |= motion.HOMED
	}
	return bits, nil
}

func (c *SimController) ReadRawPosition() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, nil
}

func (c *SimController) ReadLastMessage() (motion.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMsg, nil
}

func (c *SimController) IssueMove(target int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.moving = true
	return nil
}

func (c *SimController) RegisterEventCallback(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = fn
}

func (c *SimController) PollingInterval() time.Duration {
	return SIM_INTERVAL
}

func (c *SimController) Home() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = 0
	c.moving = true
	c.homing = true
	return nil
}

func (c *SimController) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = c.current
	c.moving = false
	c.homing = false
	return nil
}

func (c *SimController) FirmwareVersion() string {
	return "1.0.4"
}

func (c *SimController) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}
