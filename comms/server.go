package comms

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"github.com/optobench/optobench/equipment"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DevicePayload is the read-only description of one bench device.
type DevicePayload struct {
	Alias  string                 `json:"alias"`
	Moving bool                   `json:"moving"`
	Info   map[string]interface{} `json:"info"`
}

func (p *DevicePayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ErrPayload is the JSON body of a failed request.
type ErrPayload struct {
	Status int    `json:"-"`
	Error  string `json:"error"`
}

func (e *ErrPayload) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Status)
	return nil
}

// Router serves the notification stream and read-only bench info:
//
//	GET /devices                  list aliases and device info
//	GET /devices/{alias}          one device
//	GET /devices/{alias}/notify   websocket update stream
func (c *Conductor) Router(bench *equipment.Bench) chi.Router {
	r := chi.NewRouter()

	r.Get("/devices", func(w http.ResponseWriter, req *http.Request) {
		payloads := make([]render.Renderer, 0, len(bench.Devices))
		for alias, dev := range bench.Devices {
			payloads = append(payloads, devicePayload(alias, dev))
		}
		render.RenderList(w, req, payloads)
	})

	r.Get("/devices/{alias}", func(w http.ResponseWriter, req *http.Request) {
		alias := chi.URLParam(req, "alias")
		dev, err := bench.Device(alias)
		if err != nil {
			render.Render(w, req, &ErrPayload{Status: http.StatusNotFound, Error: err.Error()})
			return
		}
		render.Render(w, req, devicePayload(alias, dev))
	})

	r.Get("/devices/{alias}/notify", func(w http.ResponseWriter, req *http.Request) {
		alias := chi.URLParam(req, "alias")
		if _, err := bench.Device(alias); err != nil {
			render.Render(w, req, &ErrPayload{Status: http.StatusNotFound, Error: err.Error()})
			return
		}
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			c.logger.Printf("upgrade failed for %q: %v", alias, err)
			return
		}
		c.Link(alias, conn)
	})

	return r
}

func devicePayload(alias string, dev equipment.MotionDevice) *DevicePayload {
	return &DevicePayload{
		Alias:  alias,
		Moving: dev.Status().Moving,
		Info:   dev.Info(),
	}
}
