// Package daemon implements the tablero change-notification daemon. Live
// clients (TUI instances) connect over a Unix domain socket, announce which
// board they are viewing, and receive a batched notification whenever
// another client commits a change to that board.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tablero-app/tablero/internal/events"
)

// client represents a connected client to the daemon
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // Protects subscription and lastPong
	closeOnce    sync.Once  // Ensures send channel is closed only once
}

// Server represents the tablero event daemon
type Server struct {
	socketPath      string
	listener        net.Listener
	clients         map[*client]bool
	mu              sync.RWMutex
	ctx             context.Context
	cancel          context.CancelFunc
	broadcast       chan events.Event
	metrics         *Metrics
	sequenceCounter atomic.Int64
	shutdownOnce    sync.Once
}

// NewServer creates a new daemon server listening on socketPath.
func NewServer(socketPath string) (*Server, error) {
	dir := filepath.Dir(socketPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		clients:    make(map[*client]bool),
		ctx:        ctx,
		cancel:     cancel,
		broadcast:  make(chan events.Event, 100),
		metrics:    NewMetrics(),
	}, nil
}

// Metrics returns the daemon's statistics counters.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Broadcast queues an event for delivery to subscribed clients.
// Returns an error if the broadcast queue is full.
func (s *Server) Broadcast(event events.Event) error {
	select {
	case s.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Start runs the daemon until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon starting", "socket", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-s.ctx.Done()
		cancel()
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop error", "error", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Deadline lets us poll for context cancellation
		if err := s.listener.(*net.UnixListener).SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
			slog.Error("error setting listener deadline", "error", err)
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, 10),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Debug("client connected", "total", s.clientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop distributes events to subscribed clients
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncEventsBroadcast()

			s.mu.RLock()
			for c := range s.clients {
				c.mu.Lock()
				// Deliver if the event is board-wide, the client watches
				// all boards, or the boards match.
				subscribed := event.BoardID == 0 || c.subscription.BoardID == 0 || c.subscription.BoardID == event.BoardID
				c.mu.Unlock()

				if subscribed {
					msg := events.Message{Type: "event", Event: &event}
					if !s.sendToClient(c, msg) {
						slog.Debug("client send queue full, event dropped")
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "total", s.clientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "event":
			if msg.Event != nil {
				s.metrics.IncEventsReceived()
				select {
				case s.broadcast <- *msg.Event:
				default:
					slog.Warn("broadcast channel full, event dropped")
				}
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "board", msg.Subscribe.BoardID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter sends queued messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth sends ping messages and removes stale clients
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(60 * time.Second)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			s.mu.RLock()
			clients := make([]*client, 0, len(s.clients))
			for c := range s.clients {
				clients = append(clients, c)
			}
			s.mu.RUnlock()

			pingMsg := events.Message{
				Type:  "ping",
				Event: &events.Event{Type: events.EventPing},
			}
			for _, c := range clients {
				if !s.sendToClient(c, pingMsg) {
					slog.Debug("failed to ping client, queue full")
				}
			}

		case <-healthTicker.C:
			// Collect stale clients first, then remove, so the client
			// mutexes are never held under the server lock.
			s.mu.RLock()
			var stale []*client
			now := time.Now()
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()
				if now.Sub(lastPong) > 90*time.Second {
					stale = append(stale, c)
				}
			}
			s.mu.RUnlock()

			for _, c := range stale {
				slog.Debug("removing stale client")
				s.removeClient(c)
			}
		}
	}
}

// sendToClient performs a non-blocking send to the client's queue.
// Returns false if the queue is full.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// removeClient unregisters a client and closes its resources.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, c)
	s.mu.Unlock()

	c.closeOnce.Do(func() { close(c.send) })
	_ = c.conn.Close()
	s.updateClientCount()
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.clientCount()))
}

// Shutdown stops the daemon and disconnects all clients.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cancel()
		err = s.listener.Close()

		s.mu.Lock()
		clients := make([]*client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		for _, c := range clients {
			s.removeClient(c)
		}

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Error("failed to remove socket file", "error", removeErr)
		}
	})
	return err
}
