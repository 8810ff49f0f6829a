package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Client represents a connection to the tablero daemon for live updates.
// It handles event sending, receiving, debounced batching, reconnection,
// and board subscriptions.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Batching configuration
	eventQueue chan Event
	debounce   time.Duration
	started    bool // batcher goroutine running
	closed     bool // Prevent double-close panics

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	// Subscription state
	currentBoardID int

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	batcherDone chan struct{}
}

// DefaultSocketPath returns the daemon socket location, ~/.tablero/daemon.sock.
func DefaultSocketPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tablero", "daemon.sock"), nil
}

// NewClient creates a new event client but does not connect.
// The debounce duration controls event batching and can be overridden with
// the TABLERO_EVENT_DEBOUNCE_MS environment variable.
func NewClient(socketPath string) *Client {
	debounceMs := 100
	if envVal := os.Getenv("TABLERO_EVENT_DEBOUNCE_MS"); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			debounceMs = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		socketPath:  socketPath,
		eventQueue:  make(chan Event, 100),
		debounce:    time.Duration(debounceMs) * time.Millisecond,
		maxRetries:  5,
		baseDelay:   1 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}
}

// Connect establishes a connection to the daemon socket.
// It sends an initial subscription message for all boards.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)

	msg := Message{
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{BoardID: c.currentBoardID},
	}
	if err := c.encoder.Encode(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("error closing connection", "error", closeErr)
		}
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	if !c.started {
		c.started = true
		go c.startBatcher()
	}

	return nil
}

// SendEvent queues an event to be sent to the daemon.
// Events are batched and sent in bursts within the debounce window.
// Returns an error if the queue is full (non-blocking send).
func (c *Client) SendEvent(event Event) error {
	select {
	case c.eventQueue <- event:
		return nil
	default:
		return fmt.Errorf("event queue full")
	}
}

// startBatcher collapses bursts of queued events into one notification per
// debounce window. If events for multiple boards are collapsed together the
// batched event carries board 0 (all boards).
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var pending bool
	var boardID int

	flushPending := func() {
		if !pending {
			return
		}
		if err := c.sendToSocket(Event{
			Type:      EventBoardChanged,
			BoardID:   boardID,
			Timestamp: time.Now(),
		}); err != nil {
			slog.Debug("failed to send batched event", "error", err)
		}
		pending = false
	}

	for {
		select {
		case <-c.ctx.Done():
			flushPending()
			return

		case event, ok := <-c.eventQueue:
			if !ok {
				flushPending()
				return
			}
			if !pending {
				pending = true
				boardID = event.BoardID
			} else if boardID != event.BoardID {
				boardID = 0
			}

		case <-ticker.C:
			flushPending()
		}
	}
}

// sendToSocket sends an event to the daemon socket.
func (c *Client) sendToSocket(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to daemon")
	}

	// Short write deadline to detect dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	return c.encoder.Encode(Message{Type: "event", Event: &event})
}

// Listen starts listening for events from the daemon.
// It returns a channel that receives events and handles reconnection
// automatically. The channel is closed when ctx is done or reconnection
// gives up.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.readEvents(ctx, eventChan); err != nil {
				slog.Debug("daemon connection lost, reconnecting", "error", err)
				if c.reconnect(ctx) {
					continue
				}
				slog.Warn("failed to reconnect to daemon, giving up", "attempts", c.maxRetries)
				return
			}
		}
	}
}

// readEvents decodes messages until the connection breaks or ctx is done.
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		c.mu.Lock()
		decoder := c.decoder
		c.mu.Unlock()
		if decoder == nil {
			return fmt.Errorf("not connected to daemon")
		}

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return err
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return nil
			}
		case "ping":
			if err := c.pong(); err != nil {
				return err
			}
		}
	}
}

func (c *Client) pong() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.encoder == nil {
		return fmt.Errorf("not connected to daemon")
	}
	return c.encoder.Encode(Message{Type: "pong"})
}

// reconnect retries the connection with exponential backoff. Returns true
// when the connection is re-established.
func (c *Client) reconnect(ctx context.Context) bool {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		delay := c.baseDelay * (1 << attempt)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()

		dialer := net.Dialer{}
		conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
		if err != nil {
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.encoder = json.NewEncoder(conn)
		c.decoder = json.NewDecoder(conn)
		boardID := c.currentBoardID
		c.mu.Unlock()

		// Restore the subscription on the fresh connection.
		if err := c.Subscribe(boardID); err != nil {
			continue
		}
		return true
	}
	return false
}

// Subscribe changes the subscription to a specific board (0 = all boards).
func (c *Client) Subscribe(boardID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentBoardID = boardID
	if c.encoder == nil {
		return nil // Not connected yet; Connect sends the subscription.
	}
	return c.encoder.Encode(Message{
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{BoardID: boardID},
	})
}

// Close closes the connection to the daemon and stops all goroutines.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	c.mu.Unlock()

	c.cancel()
	close(c.eventQueue)
	if started {
		<-c.batcherDone
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
