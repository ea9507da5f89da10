// Package pool owns the dice currently in play and rebuilds them when the
// selected count or type changes.
package pool

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/input"
	"github.com/san-kum/dicesim/internal/scene"
)

var (
	ErrCountOutOfRange = errors.New("pool: dice count out of range")
	ErrTypeOutOfRange  = errors.New("pool: dice type out of range")
)

type DieFactory interface {
	CreateDie(faces int, color scene.Color) (*dice.Die, error)
}

type Thrower interface {
	Throw(pool []*dice.Die) error
}

type Manager struct {
	scene    dice.SceneGraph
	world    dice.BodyWorld
	factory  DieFactory
	thrower  Thrower
	palette  []scene.Color
	fallback scene.Color
	logger   *log.Logger

	dice []*dice.Die
}

func NewManager(
	sceneGraph dice.SceneGraph,
	world dice.BodyWorld,
	factory DieFactory,
	thrower Thrower,
	palette []scene.Color,
	fallback scene.Color,
	logger *log.Logger,
) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		scene:    sceneGraph,
		world:    world,
		factory:  factory,
		thrower:  thrower,
		palette:  append([]scene.Color(nil), palette...),
		fallback: fallback,
		logger:   logger,
	}
}

// Rebuild replaces the pool with count dice of the given type and throws them.
// Arguments are checked before anything is removed.
func (m *Manager) Rebuild(count, typeIndex int) error {
	if count < input.MinCount || count > input.MaxCount {
		return fmt.Errorf("%w: %d", ErrCountOutOfRange, count)
	}
	faces, err := dice.FacesForType(typeIndex)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrTypeOutOfRange, typeIndex)
	}

	for _, d := range m.dice {
		d.Detach(m.scene, m.world)
	}
	m.dice = m.dice[:0]

	for i := 0; i < count; i++ {
		d, err := m.factory.CreateDie(faces, m.colorFor(i))
		if err != nil {
			return fmt.Errorf("create die %d: %w", i, err)
		}
		d.Attach(m.scene, m.world)
		m.dice = append(m.dice, d)
	}
	m.logger.Printf("rebuilt %d x d%d", count, faces)

	return m.Throw()
}

// Throw launches the current pool again.
func (m *Manager) Throw() error {
	if err := m.thrower.Throw(m.dice); err != nil {
		return fmt.Errorf("throw: %w", err)
	}
	return nil
}

// Dice returns a copy of the current pool.
func (m *Manager) Dice() []*dice.Die {
	return append([]*dice.Die(nil), m.dice...)
}

func (m *Manager) Len() int { return len(m.dice) }

func (m *Manager) colorFor(i int) scene.Color {
	if i < len(m.palette) {
		return m.palette[i]
	}
	return m.fallback
}
