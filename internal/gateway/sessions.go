package gateway

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/google/uuid"
)

// SessionHeader carries the client session id on command and chat requests.
const SessionHeader = "X-Session-ID"

const sessionIdleTTL = 30 * time.Minute

type clientSession struct {
	dispatcher *terminal.Dispatcher
	chat       *ai.Conversation
	lastSeen   time.Time
}

// sessionStore keeps one dispatcher and conversation per client id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*clientSession
	create   func(id string) *clientSession
	now      func() time.Time
}

func newSessionStore(create func(id string) *clientSession) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*clientSession),
		create:   create,
		now:      time.Now,
	}
}

// forRequest returns the session named by the request header, creating one
// (with a fresh uuid) when the header is absent or unknown. The effective
// id is echoed on the response.
func (s *sessionStore) forRequest(w http.ResponseWriter, r *http.Request) *clientSession {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.sessions[id]
	if !ok {
		cs = s.create(id)
		s.sessions[id] = cs
	}
	cs.lastSeen = s.now()
	w.Header().Set(SessionHeader, id)
	return cs
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep drops sessions idle for longer than sessionIdleTTL.
func (s *sessionStore) sweep() {
	cutoff := s.now().Add(-sessionIdleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cs := range s.sessions {
		if cs.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
