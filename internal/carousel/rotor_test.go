package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRotorConvergesMonotonically(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewRotor(0, 0, start)
	r.SetTarget(60, start)

	prev := r.Position()
	for i := 1; i <= 300; i++ {
		pos := r.Advance(start.Add(time.Duration(i) * 16 * time.Millisecond))
		assert.GreaterOrEqual(t, pos, prev, "step %d moved backwards", i)
		assert.LessOrEqual(t, pos, 60.0, "step %d overshot", i)
		prev = pos
	}
	assert.True(t, r.Settled())
	assert.Equal(t, 60.0, r.Position())
	assert.Equal(t, -60.0, r.CounterRotation())
}

func TestRotorRetargetWithoutOvershoot(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewRotor(0, 0, start)
	r.SetTarget(300, start)

	// Halfway there, reverse to 0 (wrap from the last item back to the first).
	now := start.Add(150 * time.Millisecond)
	r.SetTarget(0, now)
	prev := r.Position()
	for i := 1; i <= 400; i++ {
		pos := r.Advance(now.Add(time.Duration(i) * 10 * time.Millisecond))
		assert.LessOrEqual(t, pos, prev, "step %d moved away from target", i)
		assert.GreaterOrEqual(t, pos, 0.0, "step %d overshot", i)
		prev = pos
	}
	assert.True(t, r.Settled())
}

func TestRotorLargeStepLandsOnTarget(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewRotor(120, DefaultOmega, start)
	r.SetTarget(180, start)
	assert.Equal(t, 180.0, r.Advance(start.Add(time.Hour)))
	assert.Equal(t, 180.0, r.Target())
}

func TestRotorIgnoresTimeGoingBackwards(t *testing.T) {
	start := time.Unix(100, 0)
	r := NewRotor(0, 0, start)
	r.SetTarget(60, start)
	pos := r.Advance(start.Add(-time.Second))
	assert.Equal(t, 0.0, pos)
}
