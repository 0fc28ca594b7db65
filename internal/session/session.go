// Package session keeps calculators for clients that press keys over several
// requests.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrtronium/keycalc"
)

var (
	// ErrNotFound is returned for an ID with no live session.
	ErrNotFound = errors.New("session not found")
	// ErrFull is returned by Create when the store is at its session limit.
	ErrFull = errors.New("too many sessions")
)

// State is a snapshot of a session's calculator.
type State struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Error      string `json:"error,omitempty"`
}

// Session is one calculator. Its methods are safe for concurrent use.
type Session struct {
	id string

	mu   sync.Mutex
	b    *keycalc.Builder
	used time.Time
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// Do calls f with the session's builder while holding the session's lock and
// returns the state afterward. f must not keep the builder.
func (s *Session) Do(now time.Time, f func(b *keycalc.Builder) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if f != nil {
		err = f(s.b)
	}
	s.used = now
	return s.state(), err
}

// state must be called with s.mu held.
func (s *Session) state() State {
	st := State{
		ID:         s.id,
		Expression: s.b.Text(),
		Result:     s.b.Result(),
	}
	if err := s.b.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

// Options configures a Store.
type Options struct {
	// MaxSessions limits the number of live sessions. 0 is no limit.
	MaxSessions int
	// MaxExprLen limits each session's expression length. 0 is no limit.
	MaxExprLen int
	// Logger receives session lifecycle events. Nil means slog.Default.
	Logger *slog.Logger
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// Store holds live sessions by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts Options
	log  *slog.Logger
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		log:      log.With(slog.String("component", "sessions")),
	}
}

// Now returns the store's current time.
func (st *Store) Now() time.Time {
	return st.opts.Now()
}

// Create starts a new session with an empty calculator.
func (st *Store) Create() (*Session, error) {
	s := &Session{
		id:   uuid.NewString(),
		b:    keycalc.NewBuilder(keycalc.MaxLen(st.opts.MaxExprLen)),
		used: st.opts.Now(),
	}
	st.mu.Lock()
	if st.opts.MaxSessions > 0 && len(st.sessions) >= st.opts.MaxSessions {
		st.mu.Unlock()
		st.log.Warn("session limit reached", slog.Int("max", st.opts.MaxSessions))
		return nil, ErrFull
	}
	st.sessions[s.id] = s
	st.mu.Unlock()
	st.log.Debug("session created", slog.String("id", s.id))
	return s, nil
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s := st.sessions[id]
	st.mu.RUnlock()
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session. It returns ErrNotFound if there was none.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	st.log.Debug("session deleted", slog.String("id", id))
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions unused for longer than idle and returns how many
// were removed.
func (st *Store) Sweep(idle time.Duration) int {
	cutoff := st.opts.Now().Add(-idle)
	st.mu.Lock()
	n := 0
	for id, s := range st.sessions {
		if s.lastUsed().Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	left := len(st.sessions)
	st.mu.Unlock()
	if n > 0 {
		st.log.Info("swept idle sessions", slog.Int("removed", n), slog.Int("remaining", left))
	}
	return n
}

// Run sweeps sessions idle for longer than idle every interval until ctx is
// done.
func (st *Store) Run(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep(idle)
		}
	}
}
