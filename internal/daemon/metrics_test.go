package daemon

import (
	"sync"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m == nil {
		t.Fatal("Expected NewMetrics to return non-nil")
	}

	// Verify all counters start at zero
	if m.GetEventsReceived() != 0 {
		t.Errorf("Expected EventsReceived to be 0, got %d", m.GetEventsReceived())
	}
	if m.GetEventsBroadcast() != 0 {
		t.Errorf("Expected EventsBroadcast to be 0, got %d", m.GetEventsBroadcast())
	}
	if m.GetConnectedClients() != 0 {
		t.Errorf("Expected ConnectedClients to be 0, got %d", m.GetConnectedClients())
	}

	// Verify StartTime is set to a recent time (within last second)
	if time.Since(m.StartTime) > time.Second {
		t.Errorf("Expected StartTime to be recent, got %v", m.StartTime)
	}
}

func TestIncEventsReceived(t *testing.T) {
	m := NewMetrics()

	m.IncEventsReceived()
	if m.GetEventsReceived() != 1 {
		t.Errorf("Expected EventsReceived to be 1, got %d", m.GetEventsReceived())
	}

	for i := 0; i < 10; i++ {
		m.IncEventsReceived()
	}
	if m.GetEventsReceived() != 11 {
		t.Errorf("Expected EventsReceived to be 11, got %d", m.GetEventsReceived())
	}
}

func TestIncEventsBroadcast(t *testing.T) {
	m := NewMetrics()

	m.IncEventsBroadcast()
	if m.GetEventsBroadcast() != 1 {
		t.Errorf("Expected EventsBroadcast to be 1, got %d", m.GetEventsBroadcast())
	}

	for i := 0; i < 5; i++ {
		m.IncEventsBroadcast()
	}
	if m.GetEventsBroadcast() != 6 {
		t.Errorf("Expected EventsBroadcast to be 6, got %d", m.GetEventsBroadcast())
	}
}

func TestSetConnectedClients(t *testing.T) {
	m := NewMetrics()

	m.SetConnectedClients(5)
	if m.GetConnectedClients() != 5 {
		t.Errorf("Expected ConnectedClients to be 5, got %d", m.GetConnectedClients())
	}

	m.SetConnectedClients(0)
	if m.GetConnectedClients() != 0 {
		t.Errorf("Expected ConnectedClients to be 0, got %d", m.GetConnectedClients())
	}

	m.SetConnectedClients(100)
	if m.GetConnectedClients() != 100 {
		t.Errorf("Expected ConnectedClients to be 100, got %d", m.GetConnectedClients())
	}
}

func TestGetSnapshot(t *testing.T) {
	m := NewMetrics()

	m.IncEventsReceived()
	m.IncEventsReceived()
	m.IncEventsBroadcast()
	m.SetConnectedClients(3)

	// Give it a moment so uptime is measurable
	time.Sleep(10 * time.Millisecond)

	snapshot := m.GetSnapshot()

	if snapshot.EventsReceived != 2 {
		t.Errorf("Expected EventsReceived to be 2, got %d", snapshot.EventsReceived)
	}
	if snapshot.EventsBroadcast != 1 {
		t.Errorf("Expected EventsBroadcast to be 1, got %d", snapshot.EventsBroadcast)
	}
	if snapshot.ConnectedClients != 3 {
		t.Errorf("Expected ConnectedClients to be 3, got %d", snapshot.ConnectedClients)
	}

	if !snapshot.StartTime.Equal(m.StartTime) {
		t.Errorf("Expected StartTime to match, got %v vs %v", snapshot.StartTime, m.StartTime)
	}

	if snapshot.Uptime == "" {
		t.Error("Expected Uptime to be populated")
	}

	if actual := time.Since(m.StartTime); actual < 10*time.Millisecond {
		t.Errorf("Expected uptime >= 10ms, got %v", actual)
	}
}

func TestMetricsSnapshot_IsImmutable(t *testing.T) {
	m := NewMetrics()

	m.IncEventsReceived()
	snapshot1 := m.GetSnapshot()

	// Change metrics after taking snapshot
	m.IncEventsReceived()
	m.IncEventsReceived()

	if snapshot1.EventsReceived != 1 {
		t.Errorf("Snapshot should be immutable, expected EventsReceived=1, got %d", snapshot1.EventsReceived)
	}

	snapshot2 := m.GetSnapshot()
	if snapshot2.EventsReceived != 3 {
		t.Errorf("Second snapshot should reflect changes, expected EventsReceived=3, got %d", snapshot2.EventsReceived)
	}
}

func TestMetricsConcurrency_AllOperations(t *testing.T) {
	m := NewMetrics()

	numGoroutines := 100
	opsPerGoroutine := 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 3)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				m.IncEventsReceived()
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				m.IncEventsBroadcast()
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		go func(val int32) {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				m.SetConnectedClients(val)
			}
		}(int32(i))
	}

	wg.Wait()

	expectedCount := int64(numGoroutines * opsPerGoroutine)
	if m.GetEventsReceived() != expectedCount {
		t.Errorf("Expected EventsReceived to be %d, got %d", expectedCount, m.GetEventsReceived())
	}
	if m.GetEventsBroadcast() != expectedCount {
		t.Errorf("Expected EventsBroadcast to be %d, got %d", expectedCount, m.GetEventsBroadcast())
	}

	// ConnectedClients is set (not incremented), so it should be one of the values
	clientCount := m.GetConnectedClients()
	if clientCount < 0 || clientCount >= int32(numGoroutines) {
		t.Errorf("Expected ConnectedClients to be in range [0, %d), got %d", numGoroutines, clientCount)
	}
}
