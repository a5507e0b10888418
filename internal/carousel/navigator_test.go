package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	n, err := New(DefaultItems(), Config{})
	require.NoError(t, err)
	return n
}

func TestNewRejectsBadRings(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err, "empty ring")

	_, err = New([]Item{{ID: 1, Kind: KindBook}, {ID: 1, Kind: KindVault}}, Config{})
	assert.Error(t, err, "duplicate id")

	_, err = New([]Item{{ID: 1, Kind: "podcast"}}, Config{})
	assert.Error(t, err, "unknown kind")
}

func TestNewAppliesDefaults(t *testing.T) {
	n := newTestNavigator(t)
	assert.Equal(t, DefaultScrollThreshold, n.threshold)
	assert.Equal(t, DefaultScrollCooldown, n.cooldown)
	assert.Equal(t, 6, n.Len())
}

func TestNextIsCyclic(t *testing.T) {
	for size := 1; size <= 7; size++ {
		items := make([]Item, size)
		for i := range items {
			items[i] = Item{ID: i + 10, Kind: KindArticle}
		}
		n, err := New(items, Config{})
		require.NoError(t, err)

		for start := 0; start < size; start++ {
			s := State{Active: start, Mode: ModeIdle}
			for i := 0; i < size; i++ {
				s, _ = n.Next(s)
			}
			assert.Equal(t, start, s.Active, "size=%d start=%d", size, start)
		}
	}
}

func TestPreviousInvertsNext(t *testing.T) {
	n := newTestNavigator(t)
	for start := 0; start < n.Len(); start++ {
		s := State{Active: start, Mode: ModeIdle}

		next, _ := n.Next(s)
		back, _ := n.Previous(next)
		assert.Equal(t, start, back.Active)

		prev, _ := n.Previous(s)
		fwd, _ := n.Next(prev)
		assert.Equal(t, start, fwd.Active)
	}
}

func TestPreviousWrapsFromFirst(t *testing.T) {
	n := newTestNavigator(t)
	s, out := n.Previous(n.Initial())
	assert.Equal(t, OutcomeMoved, out)
	assert.Equal(t, 5, s.Active)
	assert.Equal(t, KindVault, n.ActiveItem(s).Kind)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	n := newTestNavigator(t)
	s := n.Initial()
	_, _ = n.Next(s)
	_, _ = n.Select(s, 1)
	assert.Equal(t, n.Initial(), s)
}

func TestSelectActiveOpensDetail(t *testing.T) {
	n := newTestNavigator(t)
	s, out := n.Select(n.Initial(), 1)
	assert.Equal(t, OutcomeOpened, out)
	assert.True(t, s.DetailOpen())
	assert.Equal(t, KindArticle, s.Detail)
	assert.Equal(t, 0, s.Active)
}

func TestSelectOtherMovesWithoutOpening(t *testing.T) {
	n := newTestNavigator(t)
	s, out := n.Select(n.Initial(), 4)
	assert.Equal(t, OutcomeMoved, out)
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Equal(t, 3, s.Active)

	// Selecting it again is the confirmation.
	s, out = n.Select(s, 4)
	assert.Equal(t, OutcomeOpened, out)
	assert.Equal(t, KindAudio, s.Detail)
}

func TestSelectUnknownIsNoop(t *testing.T) {
	n := newTestNavigator(t)
	start := State{Active: 2, Mode: ModeIdle}
	s, out := n.Select(start, 99)
	assert.Equal(t, OutcomeIgnored, out)
	assert.Equal(t, start, s)
}

func TestDetailOpenSuppressesNavigation(t *testing.T) {
	n := newTestNavigator(t)
	open, _ := n.Select(n.Initial(), 1)

	s, out := n.Next(open)
	assert.Equal(t, OutcomeSuppressed, out)
	assert.Equal(t, open, s)

	s, out = n.Previous(open)
	assert.Equal(t, OutcomeSuppressed, out)
	assert.Equal(t, open, s)

	s, out = n.Select(open, 3)
	assert.Equal(t, OutcomeSuppressed, out)
	assert.Equal(t, open, s)
}

func TestScrollNeverMovesWhileDetailOpen(t *testing.T) {
	n := newTestNavigator(t)
	open, _ := n.Select(n.Initial(), 1)
	now := time.Now()

	for _, delta := range []float64{-1e9, -500, -21, 0, 5, 21, 500, 1e9} {
		s, out := n.Scroll(open, delta, now)
		assert.Equal(t, OutcomeSuppressed, out)
		assert.Equal(t, open.Active, s.Active, "delta=%v", delta)
	}
}

func TestBackClosesDetail(t *testing.T) {
	n := newTestNavigator(t)
	open, _ := n.Select(n.Initial(), 1)

	s, out := n.Back(open)
	assert.Equal(t, OutcomeClosed, out)
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Empty(t, s.Detail)

	_, out = n.Back(s)
	assert.Equal(t, OutcomeIgnored, out)
}

func TestScrollDirectionAndThreshold(t *testing.T) {
	n := newTestNavigator(t)
	now := time.Now()

	s, out := n.Scroll(n.Initial(), 20, now)
	assert.Equal(t, OutcomeIgnored, out, "threshold is exclusive")
	assert.Equal(t, 0, s.Active)
	assert.True(t, s.CooldownUntil.IsZero(), "jitter must not start a cooldown")

	s, out = n.Scroll(n.Initial(), 20.5, now)
	assert.Equal(t, OutcomeMoved, out)
	assert.Equal(t, 1, s.Active)

	s, out = n.Scroll(n.Initial(), -40, now)
	assert.Equal(t, OutcomeMoved, out)
	assert.Equal(t, 5, s.Active)
}

func TestScrollCooldownAllowsOneStep(t *testing.T) {
	n, err := New(DefaultItems(), Config{ScrollCooldown: 500 * time.Millisecond})
	require.NoError(t, err)
	now := time.Now()

	s, out := n.Scroll(n.Initial(), 100, now)
	require.Equal(t, OutcomeMoved, out)

	s, out = n.Scroll(s, 100, now.Add(100*time.Millisecond))
	assert.Equal(t, OutcomeCooldown, out)
	assert.Equal(t, 1, s.Active, "second delta inside the window is ignored")

	s, out = n.Scroll(s, 100, now.Add(500*time.Millisecond))
	assert.Equal(t, OutcomeMoved, out)
	assert.Equal(t, 2, s.Active)
}

func TestAngle(t *testing.T) {
	n := newTestNavigator(t)
	for i := 0; i < n.Len(); i++ {
		assert.InDelta(t, float64(i)*60, n.Angle(State{Active: i}), 1e-9)
	}
}

func TestLookup(t *testing.T) {
	n := newTestNavigator(t)
	it, ok := n.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, KindBook, it.Kind)

	_, ok = n.Lookup(0)
	assert.False(t, ok)
}

func TestTurnTakesShortestPath(t *testing.T) {
	n := newTestNavigator(t)
	assert.InDelta(t, 60, n.Turn(State{Active: 5}, State{Active: 0}), 1e-9)
	assert.InDelta(t, -60, n.Turn(State{Active: 0}, State{Active: 5}), 1e-9)
	assert.InDelta(t, 120, n.Turn(State{Active: 1}, State{Active: 3}), 1e-9)
	assert.InDelta(t, 180, n.Turn(State{Active: 0}, State{Active: 3}), 1e-9)
	assert.Zero(t, n.Turn(State{Active: 2}, State{Active: 2}))
}
