package terminal

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const maxHistory = 100

// Session is the per-user state a Dispatcher carries between commands.
type Session struct {
	ID string

	mu       sync.Mutex
	lastRead int
	hasRead  bool
	history  []string
}

// NewSession returns an empty session with a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// LastRead returns the id of the last successfully read article.
func (s *Session) LastRead() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRead, s.hasRead
}

func (s *Session) setLastRead(id int) {
	s.mu.Lock()
	s.lastRead, s.hasRead = id, true
	s.mu.Unlock()
}

func (s *Session) record(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, input)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}

// History returns the commands entered so far, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// ReferralCode is derived from the session id so it is stable per session.
func (s *Session) ReferralCode() string {
	id := strings.ReplaceAll(s.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "REKT-" + strings.ToUpper(id)
}
