// Package broadcast pushes JSON payloads to every open WebSocket connection.
//
// Delivery is fire-and-forget: a payload is serialized once and written to
// each connection that is open at publish time. There are no acknowledgments,
// no retries and no per-connection queue, so a client receives a payload at
// most once and only if it was connected when it was published.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWriteTimeout = 2 * time.Second
	maxInboundMessage   = 64 * 1024
	maxParallelWrites   = 64
)

// Conn is the subset of *websocket.Conn used by the hub.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Event is the envelope pushed to clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	id   uint64
	conn Conn
	open *atomic.Bool

	// gorilla/websocket allows a single concurrent writer per connection.
	writeMu sync.Mutex
}

func (c *client) write(msg []byte, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.open.Load() {
		return fmt.Errorf("connection %d closed", c.id)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *client) close() {
	if c.open.CompareAndSwap(true, false) {
		_ = c.conn.Close()
	}
}

// Hub is the registry of open connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]*client

	nextID    *atomic.Uint64
	delivered *atomic.Uint64

	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	log          echo.Logger
}

// NewHub creates an empty hub logging through logger.
func NewHub(logger echo.Logger) *Hub {
	return &Hub{
		clients:   make(map[uint64]*client),
		nextID:    atomic.NewUint64(0),
		delivered: atomic.NewUint64(0),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from a different origin than the socket port.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		writeTimeout: defaultWriteTimeout,
		log:          logger,
	}
}

// Register adds conn to the registry and returns a function that removes and
// closes it. The returned function is safe to call more than once.
func (h *Hub) Register(conn Conn) (unregister func()) {
	c := &client{
		id:   h.nextID.Inc(),
		conn: conn,
		open: atomic.NewBool(true),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.log.Infof("ws client %d connected", c.id)
	return func() { h.remove(c) }
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	c.close()
	if ok {
		h.log.Infof("ws client %d disconnected", c.id)
	}
}

// Serve registers conn and reads from it until the peer goes away. Inbound
// messages are logged and otherwise ignored.
func (h *Hub) Serve(conn Conn) {
	unregister := h.Register(conn)
	defer unregister()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("ws read: %v", err)
			}
			return
		}
		h.log.Infof("ws message received: %s", msg)
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and serves it
// until it closes.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.log.Warnf("ws upgrade: %v", err)
		return nil
	}
	conn.SetReadLimit(maxInboundMessage)
	h.Serve(conn)
	return nil
}

// Publish serializes payload once and writes it to every open connection in
// parallel, so one stalled peer delays the call by at most the write timeout.
// It returns how many connections the payload was written to. Connections
// that fail the write are dropped; that never fails the publish.
func (h *Hub) Publish(ctx context.Context, payload interface{}) (int, error) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal broadcast payload: %w", err)
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := atomic.NewInt64(0)
	var g errgroup.Group
	g.SetLimit(maxParallelWrites)
	for _, c := range targets {
		if ctx.Err() != nil {
			break
		}
		if !c.open.Load() {
			continue
		}
		g.Go(func() error {
			if err := c.write(msg, h.writeTimeout); err != nil {
				h.log.Warnf("ws write to client %d: %v", c.id, err)
				h.remove(c)
				return nil
			}
			sent.Inc()
			return nil
		})
	}
	_ = g.Wait()

	n := int(sent.Load())
	h.delivered.Add(uint64(n))
	return n, nil
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Delivered returns the total number of payload writes that succeeded.
func (h *Hub) Delivered() uint64 {
	return h.delivered.Load()
}

// Close closes every registered connection.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uint64]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
