package carousel

import (
	"math"
	"time"
)

// Mode is the navigator's top-level state.
type Mode string

const (
	ModeIdle   Mode = "idle"
	ModeDetail Mode = "detail"
)

// Outcome describes what a transition did.
type Outcome string

const (
	OutcomeMoved      Outcome = "moved"
	OutcomeOpened     Outcome = "opened"
	OutcomeClosed     Outcome = "closed"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeCooldown   Outcome = "cooldown"
)

const (
	// DefaultScrollThreshold is the minimum |delta| treated as a deliberate
	// step. Smaller deltas are trackpad jitter.
	DefaultScrollThreshold = 20.0
	// DefaultScrollCooldown is how long further deltas are ignored after a step.
	DefaultScrollCooldown = time.Second
)

// State is the navigator state. It is a plain value; transitions return a
// new State rather than mutating their input.
type State struct {
	Active        int       `json:"active_index"`
	Mode          Mode      `json:"mode"`
	Detail        Kind      `json:"detail,omitempty"`
	CooldownUntil time.Time `json:"-"`
}

// DetailOpen reports whether an item's detail view is shown.
func (s State) DetailOpen() bool { return s.Mode == ModeDetail }

// Config holds the scroll debounce parameters.
type Config struct {
	ScrollThreshold float64
	ScrollCooldown  time.Duration
}

// Navigator holds the immutable ring and debounce configuration.
type Navigator struct {
	items     []Item
	positions map[int]int
	threshold float64
	cooldown  time.Duration
}

// New creates a navigator over items. Zero config values take the defaults.
func New(items []Item, cfg Config) (*Navigator, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	if cfg.ScrollThreshold <= 0 {
		cfg.ScrollThreshold = DefaultScrollThreshold
	}
	if cfg.ScrollCooldown <= 0 {
		cfg.ScrollCooldown = DefaultScrollCooldown
	}

	n := &Navigator{
		items:     append([]Item(nil), items...),
		positions: make(map[int]int, len(items)),
		threshold: cfg.ScrollThreshold,
		cooldown:  cfg.ScrollCooldown,
	}
	for i, it := range items {
		n.positions[it.ID] = i
	}
	return n, nil
}

// Len returns the ring size.
func (n *Navigator) Len() int { return len(n.items) }

// Items returns a copy of the ring in order.
func (n *Navigator) Items() []Item { return append([]Item(nil), n.items...) }

// Initial returns the starting state: first item active, no detail view.
func (n *Navigator) Initial() State {
	return State{Active: 0, Mode: ModeIdle}
}

// ActiveItem returns the item at the state's active index.
func (n *Navigator) ActiveItem(s State) Item {
	return n.items[n.wrap(s.Active)]
}

// Lookup returns the item with the given id.
func (n *Navigator) Lookup(id int) (Item, bool) {
	i, ok := n.positions[id]
	if !ok {
		return Item{}, false
	}
	return n.items[i], true
}

func (n *Navigator) wrap(i int) int {
	size := len(n.items)
	return ((i % size) + size) % size
}

// Next advances to the following item, wrapping at the end of the ring.
func (n *Navigator) Next(s State) (State, Outcome) {
	if s.DetailOpen() {
		return s, OutcomeSuppressed
	}
	s.Active = n.wrap(s.Active + 1)
	return s, OutcomeMoved
}

// Previous steps back to the preceding item, wrapping at the start.
func (n *Navigator) Previous(s State) (State, Outcome) {
	if s.DetailOpen() {
		return s, OutcomeSuppressed
	}
	s.Active = n.wrap(s.Active - 1 + len(n.items))
	return s, OutcomeMoved
}

// Select resolves id against the ring. Selecting the active item opens its
// detail view; selecting any other item moves the ring to it. Unknown ids
// are ignored.
func (n *Navigator) Select(s State, id int) (State, Outcome) {
	if s.DetailOpen() {
		return s, OutcomeSuppressed
	}
	i, ok := n.positions[id]
	if !ok {
		return s, OutcomeIgnored
	}
	if i == n.wrap(s.Active) {
		s.Mode = ModeDetail
		s.Detail = n.items[i].Kind
		return s, OutcomeOpened
	}
	s.Active = i
	return s, OutcomeMoved
}

// Back closes an open detail view.
func (n *Navigator) Back(s State) (State, Outcome) {
	if !s.DetailOpen() {
		return s, OutcomeIgnored
	}
	s.Mode = ModeIdle
	s.Detail = ""
	return s, OutcomeClosed
}

// Scroll turns a continuous delta into at most one step per cooldown window.
// Deltas at or below the threshold are dropped without starting a cooldown.
// Nothing moves while a detail view is open.
func (n *Navigator) Scroll(s State, delta float64, now time.Time) (State, Outcome) {
	if s.DetailOpen() {
		return s, OutcomeSuppressed
	}
	if now.Before(s.CooldownUntil) {
		return s, OutcomeCooldown
	}
	if math.Abs(delta) <= n.threshold {
		return s, OutcomeIgnored
	}

	if delta > 0 {
		s, _ = n.Next(s)
	} else {
		s, _ = n.Previous(s)
	}
	s.CooldownUntil = now.Add(n.cooldown)
	return s, OutcomeMoved
}

// Angle returns the target ring rotation in degrees for the active index.
func (n *Navigator) Angle(s State) float64 {
	return float64(n.wrap(s.Active)) * 360.0 / float64(len(n.items))
}

// Turn returns the shortest signed rotation in degrees that carries the ring
// from one state's active item to another's. A half-turn is positive.
func (n *Navigator) Turn(from, to State) float64 {
	size := len(n.items)
	d := n.wrap(to.Active - from.Active)
	if d > size/2 {
		d -= size
	}
	return float64(d) * 360.0 / float64(size)
}
