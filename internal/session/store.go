// Package session keeps per-client navigator state in an expiring
// in-memory cache.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/enfoco/enfoco/internal/carousel"
	"github.com/enfoco/enfoco/internal/metrics"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 30 * time.Minute

// Session is one client's navigator state. All access goes through the
// session mutex so inputs apply one at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	state    carousel.State
	rotor    *carousel.Rotor
	turns    float64
	searches map[string]uint64
}

// View is the client-facing snapshot of a session.
type View struct {
	ID              string           `json:"id"`
	ActiveIndex     int              `json:"active_index"`
	ActiveItem      carousel.Item    `json:"active_item"`
	Mode            carousel.Mode    `json:"mode"`
	Detail          carousel.Kind    `json:"detail,omitempty"`
	TargetAngle     float64          `json:"target_angle"`
	Angle           float64          `json:"angle"`
	CounterRotation float64          `json:"counter_rotation"`
	Outcome         carousel.Outcome `json:"outcome,omitempty"`
}

// Store holds sessions keyed by id.
type Store struct {
	// mu makes the existence check and removal in Delete one step.
	mu     sync.Mutex
	nav    *carousel.Navigator
	cache  *cache.Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates a session store. Sessions expire ttl after their last
// use; ttl <= 0 takes DefaultTTL.
func NewStore(nav *carousel.Navigator, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ interface{}) {
		metrics.SessionClosed()
		logger.Debug("session evicted", zap.String("session", id))
	})
	return &Store{nav: nav, cache: c, logger: logger, now: time.Now}
}

// Navigator returns the ring configuration shared by all sessions.
func (s *Store) Navigator() *carousel.Navigator { return s.nav }

// Create opens a new session at the first item.
func (s *Store) Create() View {
	sess := &Session{
		ID:       uuid.NewString(),
		state:    s.nav.Initial(),
		rotor:    carousel.NewRotor(0, carousel.DefaultOmega, s.now()),
		searches: make(map[string]uint64),
	}
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	metrics.SessionOpened()
	s.logger.Debug("session created", zap.String("session", sess.ID))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess, "")
}

func (s *Store) lookup(id string) (*Session, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	// Replace refreshes the expiration and fails once the key is gone, so a
	// concurrent Delete is never undone.
	if err := s.cache.Replace(id, x, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return x.(*Session), true
}

// Get returns the current view of a session.
func (s *Store) Get(id string) (View, bool) {
	sess, ok := s.lookup(id)
	if !ok {
		return View{}, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess, ""), true
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.cache.Get(id); !found {
		return false
	}
	s.cache.Delete(id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.cache.ItemCount() }

// Next steps the session's ring forward.
func (s *Store) Next(id string) (View, bool) {
	return s.apply(id, "next", func(st carousel.State, _ time.Time) (carousel.State, carousel.Outcome) {
		return s.nav.Next(st)
	})
}

// Previous steps the session's ring backward.
func (s *Store) Previous(id string) (View, bool) {
	return s.apply(id, "previous", func(st carousel.State, _ time.Time) (carousel.State, carousel.Outcome) {
		return s.nav.Previous(st)
	})
}

// Select routes a click on the item with itemID.
func (s *Store) Select(id string, itemID int) (View, bool) {
	return s.apply(id, "select", func(st carousel.State, _ time.Time) (carousel.State, carousel.Outcome) {
		return s.nav.Select(st, itemID)
	})
}

// Back closes the session's detail view.
func (s *Store) Back(id string) (View, bool) {
	return s.apply(id, "back", func(st carousel.State, _ time.Time) (carousel.State, carousel.Outcome) {
		return s.nav.Back(st)
	})
}

// Scroll feeds a wheel delta through the debounce.
func (s *Store) Scroll(id string, delta float64) (View, bool) {
	return s.apply(id, "scroll", func(st carousel.State, now time.Time) (carousel.State, carousel.Outcome) {
		return s.nav.Scroll(st, delta, now)
	})
}

func (s *Store) apply(id, action string, fn func(carousel.State, time.Time) (carousel.State, carousel.Outcome)) (View, bool) {
	sess, ok := s.lookup(id)
	if !ok {
		return View{}, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.now()
	next, outcome := fn(sess.state, now)
	if turn := s.nav.Turn(sess.state, next); turn != 0 {
		sess.turns += turn
		sess.rotor.SetTarget(sess.turns, now)
	}
	sess.state = next
	metrics.ObserveTransition(action, string(outcome))
	return s.view(sess, outcome), true
}

// BeginSearch opens a new search generation for section and returns it.
func (s *Store) BeginSearch(id, section string) (uint64, bool) {
	sess, ok := s.lookup(id)
	if !ok {
		return 0, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.searches[section]++
	return sess.searches[section], true
}

// FinishSearch reports whether generation is still the latest search for
// section. A session that expired meanwhile makes every search stale.
func (s *Store) FinishSearch(id, section string, generation uint64) bool {
	x, found := s.cache.Get(id)
	if !found {
		return false
	}
	sess := x.(*Session)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.searches[section] == generation
}

// view must be called with sess.mu held.
func (s *Store) view(sess *Session, outcome carousel.Outcome) View {
	angle := sess.rotor.Advance(s.now())
	return View{
		ID:              sess.ID,
		ActiveIndex:     sess.state.Active,
		ActiveItem:      s.nav.ActiveItem(sess.state),
		Mode:            sess.state.Mode,
		Detail:          sess.state.Detail,
		TargetAngle:     s.nav.Angle(sess.state),
		Angle:           angle,
		CounterRotation: sess.rotor.CounterRotation(),
		Outcome:         outcome,
	}
}
