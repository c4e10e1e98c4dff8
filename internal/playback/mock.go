// internal/playback/mock.go
package playback

import (
	"sync"
	"time"
)

// MockMedia is a test double for MediaPort.
// Events are delivered only when a test calls one of the Simulate helpers.
type MockMedia struct {
	mu       sync.Mutex
	observer func(MediaEvent)
	loads    []LoadRequest
	plays    int
	pauses   int
	releases int
	seeks    []time.Duration
	volume   float64
}

// NewMockMedia creates a new mock media engine.
func NewMockMedia() *MockMedia {
	return &MockMedia{volume: 1}
}

func (m *MockMedia) Load(req LoadRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, req)
}

func (m *MockMedia) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
}

func (m *MockMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
}

func (m *MockMedia) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, pos)
}

func (m *MockMedia) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

func (m *MockMedia) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases++
}

func (m *MockMedia) Observe(fn func(MediaEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// Test helpers

// Loads returns every load request received so far.
func (m *MockMedia) Loads() []LoadRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LoadRequest(nil), m.loads...)
}

// LastLoad returns the most recent load request, or a zero request.
func (m *MockMedia) LastLoad() LoadRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.loads) == 0 {
		return LoadRequest{}
	}
	return m.loads[len(m.loads)-1]
}

func (m *MockMedia) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

func (m *MockMedia) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *MockMedia) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

func (m *MockMedia) Seeks() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

func (m *MockMedia) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Emit delivers e to the observer.
func (m *MockMedia) Emit(e MediaEvent) {
	m.mu.Lock()
	fn := m.observer
	m.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

// SimulateStarted reports that request id is ready and playing.
func (m *MockMedia) SimulateStarted(id uint64, duration time.Duration) {
	m.Emit(MediaEvent{Kind: EventPlayStarted, Request: id})
	if duration > 0 {
		m.Emit(MediaEvent{Kind: EventDurationKnown, Request: id, Duration: duration})
	}
}

// SimulateError reports a failure for request id.
func (m *MockMedia) SimulateError(id uint64, err error) {
	m.Emit(MediaEvent{Kind: EventError, Request: id, Err: err})
}

// SimulateEnded reports natural completion of request id.
func (m *MockMedia) SimulateEnded(id uint64) {
	m.Emit(MediaEvent{Kind: EventEnded, Request: id})
}

// SimulateTime reports a position update for request id.
func (m *MockMedia) SimulateTime(id uint64, pos time.Duration) {
	m.Emit(MediaEvent{Kind: EventTimeUpdate, Request: id, Position: pos})
}
