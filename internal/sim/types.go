package sim

import (
	"fmt"

	"github.com/san-kum/dicesim/internal/arena"
	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/input"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/pool"
	"github.com/san-kum/dicesim/internal/scene"
	"github.com/san-kum/dicesim/internal/throw"
)

// State is everything one running simulation owns.
type State struct {
	Scene      *scene.Graph
	World      *physics.World
	Arena      *arena.Arena
	Pool       *pool.Manager
	Tracker    *input.Tracker
	Dispatcher *throw.Dispatcher
	Reconciler *dice.Reconciler
	Camera     scene.Camera
	Dt         float64
	Seed       int64
}

// Values returns the value each die currently shows, in pool order.
func (s *State) Values() []int {
	pool := s.Pool.Dice()
	out := make([]int, len(pool))
	for i, d := range pool {
		out[i] = d.Value()
	}
	return out
}

// Settled reports whether every die has come to rest.
func (s *State) Settled() bool {
	for _, d := range s.Pool.Dice() {
		if !d.Settled() {
			return false
		}
	}
	return true
}

type Renderer interface {
	RenderFrame(g *scene.Graph, cam scene.Camera) error
}

type Controls interface {
	Update(cam *scene.Camera)
}

type NopRenderer struct{}

func (NopRenderer) RenderFrame(*scene.Graph, scene.Camera) error { return nil }

type NopControls struct{}

func (NopControls) Update(*scene.Camera) {}

type Metric interface {
	Name() string
	Observe(pool []*dice.Die, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tick int, s *State)
}

// Result summarizes one headless run.
type Result struct {
	Seed    int64              `json:"seed"`
	Ticks   int                `json:"ticks"`
	Time    float64            `json:"time"`
	Settled bool               `json:"settled"`
	Faces   []int              `json:"faces"`
	Targets []int              `json:"targets"`
	Values  []int              `json:"values"`
	Metrics map[string]float64 `json:"metrics"`
}

// TickError is returned when a collaborator fails during a tick.
type TickError struct {
	Tick int
	Err  error
}

func (e TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Err)
}

func (e TickError) Unwrap() error { return e.Err }
