package gui

import (
	"fmt"
	"log"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/dicesim/internal/audio"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/input"
	"github.com/san-kum/dicesim/internal/scene"
	"github.com/san-kum/dicesim/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// keyCodes maps raylib keys to the tracker's key codes.
var keyCodes = map[int32]int{
	rl.KeyLeft:  input.KeyLeft,
	rl.KeyUp:    input.KeyUp,
	rl.KeyRight: input.KeyRight,
	rl.KeyDown:  input.KeyDown,
	rl.KeySpace: input.KeySpace,
}

type Options struct {
	Sound bool
}

type App struct {
	Clock    *sim.Clock
	Renderer *Renderer
	Controls *OrbitControls
	Audio    *audio.Processor
	Font     rl.Font

	pressAt rl.Vector2
	dragged bool
}

func initWindow(w config.WindowConfig) {
	rl.InitWindow(int32(w.Width), int32(w.Height), "dicesim")
	rl.SetTargetFPS(int32(w.FPS))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and drives the simulation clock once per frame until
// the window closes or a tick fails.
func Run(cfg *config.Config, opts Options, logger *log.Logger) error {
	initWindow(cfg.Window)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, opts, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.RunLoop()
}

func NewApp(cfg *config.Config, opts Options, logger *log.Logger) (*App, error) {
	font := loadFont()
	renderer := NewRenderer(font, cfg.Window.Width)
	controls := NewOrbitControls()

	clock, err := sim.Build(cfg, renderer, controls, logger)
	if err != nil {
		return nil, err
	}
	renderer.Attach(clock.State())

	app := &App{
		Clock:    clock,
		Renderer: renderer,
		Controls: controls,
		Font:     font,
	}

	if opts.Sound {
		proc := audio.NewProcessor()
		if err := proc.Start(); err != nil {
			logger.Printf("sound disabled: %v", err)
		} else {
			clock.AddObserver(proc)
			app.Audio = proc
		}
	}

	return app, nil
}

func (a *App) Close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			return nil
		}
		a.pollInput()
		if err := a.Clock.Tick(); err != nil {
			return fmt.Errorf("simulation stopped: %w", err)
		}
	}
	return nil
}

// pollInput forwards key edges to the tracker. A left click that did not
// drag the camera requests a throw.
func (a *App) pollInput() {
	tracker := a.Clock.State().Tracker
	for key, code := range keyCodes {
		if rl.IsKeyPressed(key) {
			tracker.KeyDown(code)
		}
		if rl.IsKeyReleased(key) {
			tracker.KeyUp(code)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.pressAt = rl.GetMousePosition()
		a.dragged = false
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		p := rl.GetMousePosition()
		if math.Hypot(float64(p.X-a.pressAt.X), float64(p.Y-a.pressAt.Y)) > 4 {
			a.dragged = true
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) && !a.dragged {
		tracker.RequestThrow()
	}
}

// OrbitControls turns mouse drags into camera orbits and the wheel into zoom.
// It implements sim.Controls.
type OrbitControls struct {
	Sensitivity float64
	ZoomStep    float64
	MinDistance float64
	MaxDistance float64
}

func NewOrbitControls() *OrbitControls {
	return &OrbitControls{
		Sensitivity: 0.005,
		ZoomStep:    0.1,
		MinDistance: 10,
		MaxDistance: 120,
	}
}

func (o *OrbitControls) Update(cam *scene.Camera) {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			cam.Orbit(-float64(delta.X)*o.Sensitivity, float64(delta.Y)*o.Sensitivity)
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.Zoom(1-float64(wheel)*o.ZoomStep, o.MinDistance, o.MaxDistance)
	}
}
