package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the live sessions and the single clock that drives every
// countdown. Sessions never schedule anything themselves; the manager ticks
// them at a fixed cadence and forwards whatever expired to the handler
// provided at construction (the server layer turns those into websocket
// events and follow-up jobs).
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	cadence time.Duration
	onTick  func(*Session, TickEvent)

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// NewManager creates a manager ticking at the given cadence (1s in
// production, shorter in tests). onTick may be nil.
func NewManager(cadence time.Duration, onTick func(*Session, TickEvent)) *Manager {
	if cadence <= 0 {
		cadence = time.Second
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		cadence:  cadence,
		onTick:   onTick,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the clock goroutine.
func (m *Manager) Start() {
	go m.run()
}

// Stop halts the clock and waits for the loop to exit. Safe to call twice.
func (m *Manager) Stop() {
	m.once.Do(func() { close(m.stopCh) })
	<-m.doneCh
}

func (m *Manager) run() {
	defer close(m.doneCh)
	ticker := time.NewTicker(m.cadence)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.TickAll()
		}
	}
}

// TickAll advances every live session by one second and dispatches expiry
// events. Exported so tests can drive time deterministically without the
// clock goroutine.
func (m *Manager) TickAll() {
	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	for _, s := range live {
		ev := s.Tick()
		if ev == nil {
			continue
		}
		if m.onTick != nil {
			m.onTick(s, *ev)
		}
	}
}

// Add registers a session with the clock. A user starting a new interview
// while one is live simply gets the old one replaced; there is no merge.
func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
}

// Get returns the live session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session from the clock. Done once the session is terminal
// and its record has been persisted.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports how many sessions are currently live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
