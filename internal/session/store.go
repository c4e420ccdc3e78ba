package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/techvote/techvote/internal/journey"
	"github.com/techvote/techvote/internal/preview"
	"github.com/techvote/techvote/internal/report"
	"github.com/techvote/techvote/internal/rumor"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the state of one view instance. Report and Journey are only
// touched under Do; Rumor gates itself so a slow check never holds the lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	Report  *report.Form
	Rumor   *rumor.Cycle
	Journey *journey.View

	mu     sync.Mutex
	state  State
	closed atomic.Bool
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// State returns the application state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the application state under the lock.
func (s *Session) Update(fn func(*State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(&s.state)
	return s.state, err
}

func (s *Session) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Report.Close()
	s.Journey.Stop()
}

func (s *Session) isClosed() bool {
	return s.closed.Load()
}

// Deps are the shared services each new session is wired to.
type Deps struct {
	Selector      *report.Selector
	Previews      *preview.Registry
	Sink          report.Sink
	ReportOptions report.Options
	Assessor      rumor.Assessor
}

// Store holds live sessions with a sliding TTL. Evicted or deleted sessions
// release their preview handles.
type Store struct {
	deps  Deps
	cache *gocache.Cache
}

// NewStore creates a session store. A cleanupInterval of zero disables the
// background sweep; call Sweep instead.
func NewStore(deps Deps, ttl, cleanupInterval time.Duration) *Store {
	c := gocache.New(ttl, cleanupInterval)
	c.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.close()
			log.Debug().Str("session_id", id).Msg("Session closed")
		}
	})
	return &Store{deps: deps, cache: c}
}

// Create starts a new session.
func (st *Store) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Report:    report.NewForm(st.deps.Selector, st.deps.Previews, st.deps.Sink, st.deps.ReportOptions),
		Rumor:     rumor.NewCycle(st.deps.Assessor),
		Journey:   journey.NewView(),
		state:     DefaultState(),
	}
	st.cache.SetDefault(s.ID, s)
	return s
}

// Get returns a live session and extends its lifetime.
func (st *Store) Get(id string) (*Session, error) {
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s := v.(*Session)
	if !s.isClosed() {
		st.cache.SetDefault(id, s)
		if !s.isClosed() {
			return s, nil
		}
	}
	// Evicted between the lookup and the refresh; drop the stale entry.
	st.cache.Delete(id)
	return nil, ErrNotFound
}

// Delete ends a session.
func (st *Store) Delete(id string) bool {
	if _, ok := st.cache.Get(id); !ok {
		return false
	}
	st.cache.Delete(id)
	return true
}

// Len returns the number of stored sessions, expired ones included until swept.
func (st *Store) Len() int {
	return st.cache.ItemCount()
}

// Sweep evicts expired sessions.
func (st *Store) Sweep() {
	st.cache.DeleteExpired()
}

// Close ends every session.
func (st *Store) Close() {
	st.cache.DeleteExpired()
	for id := range st.cache.Items() {
		st.cache.Delete(id)
	}
}
