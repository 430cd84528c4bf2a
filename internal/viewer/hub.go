// Package viewer streams rendered frames to browsers over a websocket.
package viewer

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/metrics"
	"github.com/normanking/cortexface/internal/render"
)

const (
	// publishHz caps the stream rate; browsers do not need the full
	// render rate and PNG encoding is not free.
	publishHz = 12

	writeWait   = 5 * time.Second
	sendBacklog = 4
)

// Hub fans rendered frames out to any number of browser viewers. The render
// loop calls Publish; PNG encoding and socket writes happen on hub
// goroutines, so a slow viewer never stalls a frame.
type Hub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	frames chan *image.RGBA
	done   chan struct{}
	wg     sync.WaitGroup

	// lastPublish is only touched from the render loop.
	lastPublish time.Time
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	quit chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.quit)
		c.conn.Close()
	})
}

func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		log: log.With().Str("component", "viewer").Logger(),
		upgrader: websocket.Upgrader{
			// Local debugging tool; the page and the socket share a host.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		frames:  make(chan *image.RGBA, 1),
		done:    make(chan struct{}),
	}
	h.wg.Add(1)
	go h.encodeLoop()
	return h
}

// Publish offers the current frame to connected viewers and returns
// immediately. Frames are skipped when nobody is watching, when the publish
// interval has not elapsed, or when the encoder is still busy.
func (h *Hub) Publish(s *render.Surface) {
	if h.ClientCount() == 0 {
		return
	}
	now := time.Now()
	if now.Sub(h.lastPublish) < time.Second/publishHz {
		return
	}
	select {
	case h.frames <- s.Snapshot():
		h.lastPublish = now
	default:
	}
}

// ClientCount is the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and serves frames until the viewer leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("viewer upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBacklog),
		quit: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	viewers := len(h.clients)
	h.mu.Unlock()

	metrics.ViewerClients.Inc()
	h.log.Info().Str("remote", conn.RemoteAddr().String()).Int("viewers", viewers).Msg("viewer connected")

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every viewer and stops the encoder.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	close(h.done)
	for _, c := range clients {
		h.drop(c)
	}
	h.wg.Wait()
}

func (h *Hub) encodeLoop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case frame := <-h.frames:
			var buf bytes.Buffer
			if err := png.Encode(&buf, frame); err != nil {
				h.log.Error().Err(err).Msg("frame encode failed")
				continue
			}
			h.broadcast(buf.Bytes())
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Viewer is behind; it skips this frame.
		}
	}
}

func (h *Hub) writePump(c *client) {
	for {
		select {
		case <-c.quit:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

// readPump discards anything the browser sends and notices disconnects.
func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
	}
	viewers := len(h.clients)
	h.mu.Unlock()

	c.close()
	if present {
		metrics.ViewerClients.Dec()
		h.log.Info().Int("viewers", viewers).Msg("viewer disconnected")
	}
}
