package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics using atomic operations for thread-safety
type Metrics struct {
	EventsReceived   atomic.Int64
	EventsBroadcast  atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// IncEventsReceived increments the events received counter
func (m *Metrics) IncEventsReceived() {
	m.EventsReceived.Add(1)
}

// IncEventsBroadcast increments the events broadcast counter
func (m *Metrics) IncEventsBroadcast() {
	m.EventsBroadcast.Add(1)
}

// SetConnectedClients sets the current connected clients count
func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// GetEventsReceived returns the total events received
func (m *Metrics) GetEventsReceived() int64 {
	return m.EventsReceived.Load()
}

// GetEventsBroadcast returns the total events broadcast
func (m *Metrics) GetEventsBroadcast() int64 {
	return m.EventsBroadcast.Load()
}

// GetConnectedClients returns the current connected clients count
func (m *Metrics) GetConnectedClients() int32 {
	return m.ConnectedClients.Load()
}

// Uptime returns how long the daemon has been running
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsReceived   int64     `json:"events_received"`
	EventsBroadcast  int64     `json:"events_broadcast"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsReceived:   m.GetEventsReceived(),
		EventsBroadcast:  m.GetEventsBroadcast(),
		ConnectedClients: m.GetConnectedClients(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).String(),
	}
}
