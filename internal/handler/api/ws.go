package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	models "TradePulse/internal/domain/models"
	xlogger "TradePulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsSendBuffer   = 8
)

// WSHub pushes every published cycle to connected dashboard clients. It
// doubles as a SignalSink so the scanner needs no websocket awareness.
type WSHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan *models.CycleResult
}

func NewWSHub(logger *xlogger.Logger) *WSHub {
	return &WSHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

func (h *WSHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and streams cycles until the client leaves.
func (h *WSHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &wsClient{conn: conn, send: make(chan *models.CycleResult, wsSendBuffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("ws client connected", xlogger.Int("clients", h.count()))

	go h.writeLoop(client)
	h.readLoop(client)
	return nil
}

// Publish fans the cycle out to every client. Slow consumers get dropped
// rather than blocking the scan loop.
func (h *WSHub) Publish(_ context.Context, cycle *models.CycleResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- cycle:
		default:
			h.dropLocked(client)
			h.logger.Warn("ws client too slow, dropped")
		}
	}
	return nil
}

func (h *WSHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.dropLocked(client)
	}
	return nil
}

func (h *WSHub) writeLoop(client *wsClient) {
	for cycle := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := client.conn.WriteJSON(cycle); err != nil {
			h.remove(client)
			_ = client.conn.Close()
			return
		}
	}
	_ = client.conn.Close()
}

// readLoop exists to notice disconnects; inbound frames are discarded.
func (h *WSHub) readLoop(client *wsClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			h.remove(client)
			return
		}
	}
}

func (h *WSHub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *WSHub) dropLocked(client *wsClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *WSHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
