package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultGravity    = -9.82 * 20
	DefaultIterations = 16
	DefaultDieSize    = 1.5
	DefaultSettle     = 1200
	MinDice           = 1
	MaxDice           = 5
	DieTypes          = 6
)

// DefaultPalette is the color cycle for dice slots; slots past its end use FallbackColor.
var DefaultPalette = []string{"#ff0000", "#ffff00", "#00ff00", "#0000ff", "#ff00ff"}

type Config struct {
	Seed    int64         `yaml:"seed"`
	Dice    DiceConfig    `yaml:"dice"`
	Physics PhysicsConfig `yaml:"physics"`
	Throw   ThrowConfig   `yaml:"throw"`
	Arena   ArenaConfig   `yaml:"arena"`
	Camera  CameraConfig  `yaml:"camera"`
	Input   InputConfig   `yaml:"input"`
	Window  WindowConfig  `yaml:"window"`
}

type DiceConfig struct {
	Count         int      `yaml:"count"`
	TypeIndex     int      `yaml:"type_index"`
	Size          float64  `yaml:"size"`
	Mass          float64  `yaml:"mass"`
	Palette       []string `yaml:"palette"`
	FallbackColor string   `yaml:"fallback_color"`
}

type PhysicsConfig struct {
	Dt             float64 `yaml:"dt"`
	Gravity        float64 `yaml:"gravity"`
	Iterations     int     `yaml:"iterations"`
	Friction       float64 `yaml:"friction"`
	Restitution    float64 `yaml:"restitution"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	SleepSpeed     float64 `yaml:"sleep_speed"`
	SleepTime      float64 `yaml:"sleep_time"`
	SettleSteps    int     `yaml:"settle_steps"`
}

type ThrowConfig struct {
	Base           [3]float64 `yaml:"base"`
	Spacing        float64    `yaml:"spacing"`
	TiltDegrees    float64    `yaml:"tilt_degrees"`
	VelocityBias   [3]float64 `yaml:"velocity_bias"`
	VelocityJitter [3]float64 `yaml:"velocity_jitter"`
	AngularSpeed   float64    `yaml:"angular_speed"`
}

type ArenaConfig struct {
	Width         float64 `yaml:"width"`
	Depth         float64 `yaml:"depth"`
	WallHeight    float64 `yaml:"wall_height"`
	WallThickness float64 `yaml:"wall_thickness"`
	FloorColor    string  `yaml:"floor_color"`
	WallColor     string  `yaml:"wall_color"`
}

type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	Fovy     float64    `yaml:"fovy"`
}

// InputConfig tunes hold-to-repeat, counted in ticks. Zero disables repeat.
type InputConfig struct {
	RepeatDelay    int `yaml:"repeat_delay"`
	RepeatInterval int `yaml:"repeat_interval"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Dice: DiceConfig{
			Count:         1,
			TypeIndex:     0,
			Size:          DefaultDieSize,
			Mass:          1,
			Palette:       append([]string(nil), DefaultPalette...),
			FallbackColor: "#000000",
		},
		Physics: PhysicsConfig{
			Dt:             DefaultDt,
			Gravity:        DefaultGravity,
			Iterations:     DefaultIterations,
			Friction:       0.4,
			Restitution:    0.45,
			LinearDamping:  0.1,
			AngularDamping: 0.1,
			SleepSpeed:     0.5,
			SleepTime:      0.5,
			SettleSteps:    DefaultSettle,
		},
		Throw: ThrowConfig{
			Base:           [3]float64{-15, 2, -15},
			Spacing:        1.5,
			TiltDegrees:    45,
			VelocityBias:   [3]float64{25, 40, 15},
			VelocityJitter: [3]float64{5, 20, 5},
			AngularSpeed:   10,
		},
		Arena: ArenaConfig{
			Width:         50,
			Depth:         40,
			WallHeight:    14,
			WallThickness: 1,
			FloorColor:    "#1f5f3a",
			WallColor:     "#6b4226",
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 30, 30},
			Fovy:     75,
		},
		Input: InputConfig{
			RepeatDelay:    30,
			RepeatInterval: 10,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			FPS:    60,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that would make the simulation unusable.
func (c *Config) Validate() error {
	if c.Dice.Count < MinDice || c.Dice.Count > MaxDice {
		return fmt.Errorf("dice count must be in [%d,%d], got %d", MinDice, MaxDice, c.Dice.Count)
	}
	if c.Dice.TypeIndex < 0 || c.Dice.TypeIndex >= DieTypes {
		return fmt.Errorf("dice type index must be in [0,%d], got %d", DieTypes-1, c.Dice.TypeIndex)
	}
	if c.Dice.Size <= 0 {
		return fmt.Errorf("dice size must be positive, got %f", c.Dice.Size)
	}
	if c.Dice.Mass <= 0 {
		return fmt.Errorf("dice mass must be positive, got %f", c.Dice.Mass)
	}
	if c.Physics.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Physics.Dt)
	}
	if c.Physics.Iterations <= 0 {
		return fmt.Errorf("solver iterations must be positive, got %d", c.Physics.Iterations)
	}
	if c.Physics.SettleSteps <= 0 {
		return fmt.Errorf("settle steps must be positive, got %d", c.Physics.SettleSteps)
	}
	if c.Arena.Width <= 0 || c.Arena.Depth <= 0 {
		return fmt.Errorf("arena must have positive width and depth, got %fx%f", c.Arena.Width, c.Arena.Depth)
	}
	if c.Input.RepeatDelay < 0 || c.Input.RepeatInterval < 0 {
		return fmt.Errorf("input repeat settings must not be negative")
	}
	return nil
}
