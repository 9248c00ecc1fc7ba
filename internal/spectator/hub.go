// Package spectator streams round events to read-only websocket clients.
package spectator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/game"
)

// Hub fans round events out to every connected spectator. It implements
// game.EventSubscriber; OnEvent never blocks on a slow client.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*connection]struct{}
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHub creates an empty hub. A nil logger discards.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		conns: make(map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // read-only feed, any origin may watch
			},
		},
		logger: logger.WithPrefix("spectator"),
	}
}

// OnEvent broadcasts event to all spectators. Clients whose buffer is full
// are disconnected.
func (h *Hub) OnEvent(event game.RoundEvent) {
	msg, err := NewMessage(event)
	if err != nil {
		h.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}

	h.mu.RLock()
	var slow []*connection
	for c := range h.conns {
		if !c.enqueue(msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Spectator too slow, disconnecting")
		c.close()
		h.remove(c)
	}
}

// Clients returns the number of connected spectators
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Handler serves /ws and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	c := newConnection(conn, h.logger)
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("Spectator connected", "remote", r.RemoteAddr)

	go c.writePump()
	go c.readPump(func() {
		h.remove(c)
		h.logger.Info("Spectator disconnected", "remote", r.RemoteAddr)
	})
}

func (h *Hub) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK\n")
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[*connection]struct{})
	h.mu.Unlock()

	for c := range conns {
		c.close()
	}
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("spectator listen: %w", err)
	}
	return h.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (h *Hub) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("Spectator feed listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
