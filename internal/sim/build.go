package sim

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/arena"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/input"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/pool"
	"github.com/san-kum/dicesim/internal/scene"
	"github.com/san-kum/dicesim/internal/throw"
)

// Build wires a complete simulation from cfg and throws the initial pool.
// A zero seed is replaced with one from crypto/rand.
func Build(cfg *config.Config, renderer Renderer, controls Controls, logger *log.Logger) (*Clock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = throw.NewSeed(); err != nil {
			return nil, err
		}
	}

	world := physics.NewWorld()
	world.Gravity = mgl64.Vec3{0, cfg.Physics.Gravity, 0}
	world.Iterations = cfg.Physics.Iterations
	world.SleepSpeed = cfg.Physics.SleepSpeed
	world.SleepTime = cfg.Physics.SleepTime

	mat := physics.Material{Friction: cfg.Physics.Friction, Restitution: cfg.Physics.Restitution}
	graph := scene.NewGraph()
	ar, err := arena.Build(graph, world, cfg.Arena, mat)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}

	factory, err := dice.NewFactory(dice.FactoryConfig{
		Size:           cfg.Dice.Size,
		Mass:           cfg.Dice.Mass,
		Material:       mat,
		LinearDamping:  cfg.Physics.LinearDamping,
		AngularDamping: cfg.Physics.AngularDamping,
	})
	if err != nil {
		return nil, err
	}

	palette := make([]scene.Color, 0, len(cfg.Dice.Palette))
	for _, hex := range cfg.Dice.Palette {
		c, err := scene.ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		palette = append(palette, c)
	}
	fallback, err := scene.ParseColor(cfg.Dice.FallbackColor)
	if err != nil {
		return nil, fmt.Errorf("fallback color: %w", err)
	}

	reconciler := dice.NewReconciler(world, cfg.Physics.Dt, cfg.Physics.SettleSteps)
	dispatcher := throw.NewDispatcher(
		throw.ParamsFromConfig(cfg.Throw),
		rand.New(rand.NewSource(seed)),
		reconciler,
		prefixed(logger, "throw: "),
	)
	manager := pool.NewManager(graph, world, factory, dispatcher, palette, fallback, prefixed(logger, "pool: "))

	tracker := input.NewTracker(input.Selection{Count: cfg.Dice.Count, TypeIndex: cfg.Dice.TypeIndex})
	tracker.RepeatDelay = cfg.Input.RepeatDelay
	tracker.RepeatInterval = cfg.Input.RepeatInterval

	camera := scene.NewCamera(mgl64.Vec3(cfg.Camera.Position), mgl64.Vec3(cfg.Camera.Target), cfg.Camera.Fovy)
	state := &State{
		Scene:      graph,
		World:      world,
		Arena:      ar,
		Pool:       manager,
		Tracker:    tracker,
		Dispatcher: dispatcher,
		Reconciler: reconciler,
		Camera:     camera,
		Dt:         cfg.Physics.Dt,
		Seed:       seed,
	}

	sel := tracker.Selection()
	if err := manager.Rebuild(sel.Count, sel.TypeIndex); err != nil {
		return nil, fmt.Errorf("initial pool: %w", err)
	}
	logger.Printf("seed %d, %d x d%d", seed, sel.Count, sel.Faces())

	return New(state, renderer, controls), nil
}

func prefixed(l *log.Logger, prefix string) *log.Logger {
	return log.New(l.Writer(), prefix, l.Flags())
}
