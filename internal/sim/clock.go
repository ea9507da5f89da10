package sim

import (
	"context"
	"fmt"
)

// Clock advances a State one fixed step per tick. Every collaborator error stops
// the clock and is returned as a TickError.
type Clock struct {
	state     *State
	renderer  Renderer
	controls  Controls
	metrics   []Metric
	observers []Observer

	tick int
	time float64
}

func New(state *State, renderer Renderer, controls Controls) *Clock {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if controls == nil {
		controls = NopControls{}
	}
	return &Clock{
		state:     state,
		renderer:  renderer,
		controls:  controls,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (c *Clock) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Clock) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Clock) State() *State { return c.state }
func (c *Clock) Ticks() int    { return c.tick }
func (c *Clock) Time() float64 { return c.time }

// Metrics returns the current value of every registered metric by name.
func (c *Clock) Metrics() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// ResetMetrics clears metric state, typically right after a throw.
func (c *Clock) ResetMetrics() {
	for _, m := range c.metrics {
		m.Reset()
	}
}

// Tick runs one frame: input bookkeeping, at most one rebuild or re-throw,
// one physics step, mesh sync, camera update and render.
func (c *Clock) Tick() error {
	s := c.state
	s.Tracker.Advance()

	if s.Tracker.ConsumeDirty() {
		sel := s.Tracker.Selection()
		s.Tracker.ConsumeThrow()
		if err := s.Pool.Rebuild(sel.Count, sel.TypeIndex); err != nil {
			return c.fail(fmt.Errorf("rebuild: %w", err))
		}
		c.ResetMetrics()
	} else if s.Tracker.ConsumeThrow() {
		if err := s.Pool.Throw(); err != nil {
			return c.fail(err)
		}
		c.ResetMetrics()
	}

	if err := s.World.Step(s.Dt); err != nil {
		return c.fail(fmt.Errorf("physics: %w", err))
	}

	pool := s.Pool.Dice()
	for _, d := range pool {
		d.SyncMesh()
	}

	c.controls.Update(&s.Camera)
	if err := c.renderer.RenderFrame(s.Scene, s.Camera); err != nil {
		return c.fail(fmt.Errorf("render: %w", err))
	}

	c.tick++
	c.time += s.Dt

	for _, m := range c.metrics {
		m.Observe(pool, c.time)
	}
	for _, o := range c.observers {
		o.OnTick(c.tick, s)
	}
	return nil
}

func (c *Clock) fail(err error) error {
	return TickError{Tick: c.tick, Err: err}
}

// Run ticks until maxTicks is reached or ctx is cancelled. maxTicks <= 0 runs
// until cancellation.
func (c *Clock) Run(ctx context.Context, maxTicks int) (*Result, error) {
	start := c.tick
	for maxTicks <= 0 || c.tick-start < maxTicks {
		select {
		case <-ctx.Done():
			return c.result(), ctx.Err()
		default:
		}
		if err := c.Tick(); err != nil {
			return c.result(), err
		}
	}
	return c.result(), nil
}

// RunWithCallback ticks until the callback returns false, maxTicks is reached
// or ctx is cancelled. The callback sees the state after each tick.
func (c *Clock) RunWithCallback(ctx context.Context, maxTicks int, callback func(tick int, s *State) bool) error {
	start := c.tick
	for maxTicks <= 0 || c.tick-start < maxTicks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.Tick(); err != nil {
			return err
		}
		if !callback(c.tick, c.state) {
			return nil
		}
	}
	return nil
}

func (c *Clock) result() *Result {
	s := c.state
	pool := s.Pool.Dice()
	faces := make([]int, len(pool))
	for i, d := range pool {
		faces[i] = d.Faces
	}
	return &Result{
		Seed:    s.Seed,
		Ticks:   c.tick,
		Time:    c.time,
		Settled: s.Settled(),
		Faces:   faces,
		Targets: s.Dispatcher.LastTargets(),
		Values:  s.Values(),
		Metrics: c.Metrics(),
	}
}
