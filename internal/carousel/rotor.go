package carousel

import (
	"math"
	"time"
)

// DefaultOmega is the rotor's natural frequency in rad/s, matching a spring
// of stiffness 60 on a mass of 1.5.
var DefaultOmega = math.Sqrt(60 / 1.5)

// settleEpsilon is the distance and speed below which the rotor snaps to
// its target.
const settleEpsilon = 1e-3

// Rotor eases the displayed ring angle toward a target with a critically
// damped spring. The approach is monotonic and never overshoots.
//
// A Rotor is not safe for concurrent use.
type Rotor struct {
	omega    float64
	position float64
	velocity float64
	target   float64
	last     time.Time
}

// NewRotor creates a rotor at rest at angle.
func NewRotor(angle, omega float64, now time.Time) *Rotor {
	if omega <= 0 {
		omega = DefaultOmega
	}
	return &Rotor{omega: omega, position: angle, target: angle, last: now}
}

// SetTarget advances the rotor to now and retargets it. Velocity pointing
// away from the new target is discarded so the approach stays monotonic.
func (r *Rotor) SetTarget(target float64, now time.Time) {
	r.Advance(now)
	r.target = target
	if (target-r.position)*r.velocity <= 0 {
		r.velocity = 0
	}
}

// Advance integrates the spring up to now and returns the current angle.
func (r *Rotor) Advance(now time.Time) float64 {
	dt := now.Sub(r.last).Seconds()
	if dt <= 0 {
		return r.position
	}
	r.last = now

	c1 := r.position - r.target
	if c1 == 0 {
		r.velocity = 0
		return r.position
	}
	c2 := r.velocity + r.omega*c1
	decay := math.Exp(-r.omega * dt)

	offset := (c1 + c2*dt) * decay
	velocity := (c2 - r.omega*(c1+c2*dt)) * decay

	// Crossing the target means overshoot; clamp to it.
	if offset*c1 < 0 || (math.Abs(offset) < settleEpsilon && math.Abs(velocity) < settleEpsilon) {
		r.position = r.target
		r.velocity = 0
		return r.position
	}

	r.position = r.target + offset
	r.velocity = velocity
	return r.position
}

// Position returns the last computed angle.
func (r *Rotor) Position() float64 { return r.position }

// Target returns the angle the rotor is converging on.
func (r *Rotor) Target() float64 { return r.target }

// Settled reports whether the rotor has reached its target.
func (r *Rotor) Settled() bool { return r.position == r.target && r.velocity == 0 }

// CounterRotation is the transform that keeps ring widgets upright.
func (r *Rotor) CounterRotation() float64 { return -r.position }
