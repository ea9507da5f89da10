package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidState indicates a body diverged to NaN or Inf.
	ErrInvalidState = errors.New("physics: invalid body state (NaN or Inf detected)")

	// ErrInvalidStep indicates a non-positive timestep.
	ErrInvalidStep = errors.New("physics: timestep must be positive")
)

// World steps a set of rigid bodies. Body order is preserved and is part of the
// simulation: two worlds with the same bodies in the same order step identically.
type World struct {
	Gravity    mgl64.Vec3
	Iterations int
	SleepSpeed float64
	SleepTime  float64

	// Penetration allowed before the solver pushes bodies apart.
	Slop float64

	// Fraction of the remaining penetration resolved per step.
	Baumgarte float64

	// Approach speeds below this do not bounce.
	RestitutionThreshold float64

	bodies      []*Body
	contacts    []contact
	lastImpulse float64
}

func NewWorld() *World {
	return &World{
		Gravity:              mgl64.Vec3{0, -9.82, 0},
		Iterations:           10,
		SleepSpeed:           0.1,
		SleepTime:            1,
		Slop:                 0.01,
		Baumgarte:            0.2,
		RestitutionThreshold: 1,
	}
}

// AddBody appends b. Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) {
	if b == nil || w.IndexOf(b) >= 0 {
		return
	}
	w.bodies = append(w.bodies, b)
}

func (w *World) RemoveBody(b *Body) {
	if i := w.IndexOf(b); i >= 0 {
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
	}
}

func (w *World) IndexOf(b *Body) int {
	for i, cur := range w.bodies {
		if cur == b {
			return i
		}
	}
	return -1
}

func (w *World) Len() int { return len(w.bodies) }

// Bodies returns a copy of the body list in step order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// LastImpulse is the largest normal impulse applied during the last step.
func (w *World) LastImpulse() float64 { return w.lastImpulse }

// Clone deep-copies the world. Bodies keep their index, so w.Bodies()[i] and
// clone.Bodies()[i] describe the same object.
func (w *World) Clone() *World {
	c := *w
	c.bodies = make([]*Body, len(w.bodies))
	for i, b := range w.bodies {
		c.bodies[i] = b.clone()
	}
	c.contacts = nil
	return &c
}

// Step advances the world by dt: contact detection, gravity, an iterative impulse
// solve, integration and sleep bookkeeping.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: %f", ErrInvalidStep, dt)
	}

	w.contacts = w.detect(w.contacts[:0])

	for _, b := range w.bodies {
		if b.IsStatic() || b.Sleeping {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))
	}

	threshold := math.Max(w.RestitutionThreshold, 1.5*w.Gravity.Len()*dt)
	for i := range w.contacts {
		w.contacts[i].prepare(dt, threshold, w.Slop, w.Baumgarte)
	}
	for it := 0; it < w.Iterations; it++ {
		for i := range w.contacts {
			w.contacts[i].solve()
		}
	}

	w.lastImpulse = 0
	for i := range w.contacts {
		w.lastImpulse = math.Max(w.lastImpulse, w.contacts[i].jn)
	}

	for i, b := range w.bodies {
		if b.IsStatic() || b.Sleeping {
			continue
		}
		b.integrate(dt)
		if !b.isFinite() {
			return fmt.Errorf("%w: body %d", ErrInvalidState, i)
		}
		w.updateSleep(b, dt)
	}
	return nil
}

func (w *World) updateSleep(b *Body, dt float64) {
	if w.SleepSpeed <= 0 {
		return
	}
	speedSq := b.Velocity.Dot(b.Velocity) + b.AngularVelocity.Dot(b.AngularVelocity)
	if speedSq >= w.SleepSpeed*w.SleepSpeed {
		b.idleTime = 0
		return
	}
	b.idleTime += dt
	if b.idleTime >= w.SleepTime {
		b.Sleep()
	}
}

// Settled reports whether every dynamic body is asleep.
func (w *World) Settled() bool {
	for _, b := range w.bodies {
		if !b.IsStatic() && !b.Sleeping {
			return false
		}
	}
	return true
}
