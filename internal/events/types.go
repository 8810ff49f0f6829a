package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardChanged EventType = "board_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// Event represents a board change notification
type Event struct {
	Type       EventType
	BoardID    int       // For filtering - which board was modified
	Timestamp  time.Time // When the event occurred
	SequenceID int64     // Monotonically increasing sequence number for ordering
}

// SubscribeMessage is sent by clients to subscribe to specific board updates
type SubscribeMessage struct {
	BoardID int // 0 = all boards, >0 = specific board
}

// Message wraps events and control messages for wire protocol
type Message struct {
	Type      string            // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
}
