package calculator

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/obs"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

const sweepInterval = time.Minute

type session struct {
	ledgers  map[Kind]*pricing.Ledger
	lastSeen time.Time
}

// Sessions owns the history ledgers of every operator session. A session and its
// ledgers are dropped once idle for longer than the TTL.
type Sessions struct {
	mu        sync.Mutex
	ttl       time.Duration
	sessions  map[string]*session
	lastSweep time.Time
	Now       func() time.Time
}

// NewSessions constructs a session registry. A non-positive ttl keeps sessions forever.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, sessions: make(map[string]*session)}
}

func (s *Sessions) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Ledger returns the ledger for kind in session id, creating both when missing.
func (s *Sessions) Ledger(id string, kind Kind) *pricing.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{ledgers: make(map[Kind]*pricing.Ledger)}
		s.sessions[id] = sess
	}
	sess.lastSeen = now
	ledger, ok := sess.ledgers[kind]
	if !ok {
		ledger = pricing.NewLedger()
		sess.ledgers[kind] = ledger
	}
	s.reportLocked()
	return ledger
}

// History returns the entries recorded for kind in session id, most recent first.
func (s *Sessions) History(id string, kind Kind) []pricing.Entry {
	s.mu.Lock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	var ledger *pricing.Ledger
	if ok {
		sess.lastSeen = now
		ledger = sess.ledgers[kind]
	}
	s.reportLocked()
	s.mu.Unlock()
	if ledger == nil {
		return []pricing.Entry{}
	}
	return ledger.Entries()
}

// End discards a session and its history.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	s.reportLocked()
}

// Active reports how many sessions are held.
func (s *Sessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *Sessions) reportLocked() {
	if obs.ActiveSessions != nil {
		obs.ActiveSessions.Set(float64(len(s.sessions)))
	}
}

// Middleware resolves the operator session from the X-Session-ID header, issuing a
// new identifier when the header is missing or malformed, and echoes it back.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(common.SessionHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(common.SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), id)))
	})
}
