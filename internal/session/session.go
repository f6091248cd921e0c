package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
	"github.com/oatsaysai/letters-to-kopi/internal/view"
)

// Session is one logged-in browser. It lives in memory only.
type Session struct {
	Token string
	Role  models.Role

	mu       sync.Mutex
	view     *view.Controller
	lastSeen time.Time
}

// View runs fn with exclusive access to the session's view controller
func (s *Session) View(fn func(c *view.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.view)
}

// State returns a snapshot of the session's view state
func (s *Session) State() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.State()
}

// Manager holds the live sessions. Nothing here is written to durable
// storage, so a restart logs everyone out.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

// NewManager creates a manager that forgets sessions idle for longer than idle.
// A zero idle keeps sessions until logout or restart.
func NewManager(idle time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

// Start opens a session for role, positioned on the role's initial view
func (m *Manager) Start(role models.Role) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()
	s := &Session{
		Token:    uuid.NewString(),
		Role:     role,
		view:     view.New(role),
		lastSeen: m.now(),
	}
	m.sessions[s.Token] = s
	log.Printf("Session started for role %s", role)
	return s
}

// Get returns the live session for token and marks it as seen
func (m *Manager) Get(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if m.expiredLocked(s) {
		delete(m.sessions, token)
		return nil, false
	}
	s.lastSeen = m.now()
	return s, true
}

// Logout forgets the session for token
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		delete(m.sessions, token)
		log.Printf("Session ended for role %s", s.Role)
	}
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

func (m *Manager) expiredLocked(s *Session) bool {
	return m.idle > 0 && m.now().Sub(s.lastSeen) > m.idle
}

func (m *Manager) sweepLocked() {
	for token, s := range m.sessions {
		if m.expiredLocked(s) {
			delete(m.sessions, token)
		}
	}
}
