package state

import (
	"anbsupport/app/config"
	"sync"
	"time"

	"github.com/samber/do"
)

const FiredPrefix = "⏰ Reminder: "

// Store is the process-wide state: every session and the sales ledger,
// guarded by one mutex.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ledger   *Ledger
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)
	return NewStore(cfg.Ledger.DefaultAmount), nil
}

func NewStore(defaultAmount int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ledger:   NewLedger(defaultAmount),
	}
}

// Do runs fn with the session (created on first use) and the ledger while
// holding the store lock. fn must not block.
func (s *Store) Do(sessionID string, now time.Time, fn func(sess *Session, ledger *Ledger)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = newSession(sessionID, now)
		s.sessions[sessionID] = sess
	}
	sess.LastActivity = now

	fn(sess, s.ledger)
}

// Ledger runs fn with the ledger while holding the store lock.
func (s *Store) Ledger(fn func(ledger *Ledger)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.ledger)
}

// FireDue moves every elapsed reminder into its session's fired slot and
// returns how many fired.
func (s *Store) FireDue(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	fired := 0
	for _, sess := range s.sessions {
		if sess.fireIfDue(now) {
			fired++
		}
	}

	return fired
}

// EvictIdle forgets sessions idle for at least ttl, including any reminder
// they still hold.
func (s *Store) EvictIdle(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.idle(now, ttl) {
			delete(s.sessions, id)
			evicted++
		}
	}

	return evicted
}

func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
