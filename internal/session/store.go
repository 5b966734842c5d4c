// Package session keeps one registration form and one user list per visitor.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/signup-site/internal/event"
	"github.com/nekogravitycat/signup-site/internal/registration"
	"github.com/nekogravitycat/signup-site/internal/userlist"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

// API is everything a visitor's flows need from the remote API.
type API interface {
	userlist.Lister
	registration.API
}

// Session is the state of one visitor.
type Session struct {
	ID        string
	CreatedAt time.Time
	Users     *userlist.Flow
	Form      *registration.Flow

	lastSeen    time.Time
	unsubscribe func()
}

// Mount loads the positions and the first page of users concurrently. Each
// load degrades on its own; the first failure is returned for logging.
func (s *Session) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.Form.LoadPositions(ctx) })
	g.Go(func() error { return s.Users.Refresh(ctx) })
	return g.Wait()
}

// Options configures a Store.
type Options struct {
	API      API
	Rules    *validation.Rules
	Preview  registration.Previewer
	PageSize int
	TTL      time.Duration
	// MaxSessions bounds the sessions held; the least recently seen one is
	// evicted to make room. Zero means unbounded.
	MaxSessions int
	Logger      *logrus.Entry
}

// Store is an in-memory session registry with idle expiry.
type Store struct {
	opts   Options
	logger *logrus.Entry
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.Rules == nil {
		opts.Rules = validation.NewRules()
	}
	opts.Logger = logger

	return &Store{
		opts:     opts,
		logger:   logger.WithField("component", "session"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session with fresh flows. The user list is
// subscribed to the form's registration events.
func (s *Store) Create() *Session {
	id := uuid.NewString()
	logger := s.opts.Logger.WithField("session_id", id)

	bus := event.NewBus(logger)
	users := userlist.NewFlow(s.opts.API, s.opts.PageSize, logger)
	form := registration.NewFlow(s.opts.API, s.opts.Rules, bus, s.opts.Preview, logger)

	now := s.now()
	sess := &Session{
		ID:          id,
		CreatedAt:   now,
		Users:       users,
		Form:        form,
		lastSeen:    now,
		unsubscribe: bus.Subscribe(users.HandleUserRegistered),
	}

	s.mu.Lock()
	s.makeRoom(now)
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.WithField("session_id", id).Debug("session created")
	return sess
}

// Get returns a live session and marks it as seen.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.expired(sess, now) {
		s.remove(id)
		return nil, false
	}

	sess.lastSeen = now
	return sess, true
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(id)
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep removes every idle session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			s.remove(id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.WithField("removed", n).Info("expired sessions swept")
			}
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.opts.TTL > 0 && now.Sub(sess.lastSeen) > s.opts.TTL
}

// makeRoom drops expired sessions, then the least recently seen ones, until a
// new session fits under MaxSessions. Callers hold s.mu.
func (s *Store) makeRoom(now time.Time) {
	limit := s.opts.MaxSessions
	if limit <= 0 || len(s.sessions) < limit {
		return
	}

	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			s.remove(id)
		}
	}

	for len(s.sessions) >= limit {
		var oldest *Session
		for _, sess := range s.sessions {
			if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
				oldest = sess
			}
		}
		s.logger.WithField("session_id", oldest.ID).Warn("session limit reached, evicting least recently seen")
		s.remove(oldest.ID)
	}
}

// remove drops a session. Callers hold s.mu.
func (s *Store) remove(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	if sess.unsubscribe != nil {
		sess.unsubscribe()
	}
	delete(s.sessions, id)

	s.logger.WithFields(logrus.Fields{
		"session_id": id,
		"age":        s.now().Sub(sess.CreatedAt).String(),
	}).Debug("session removed")
}
