package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dice.Count != 1 {
		t.Errorf("expected 1 die, got %d", cfg.Dice.Count)
	}
	if cfg.Dice.TypeIndex != 0 {
		t.Errorf("expected type index 0, got %d", cfg.Dice.TypeIndex)
	}
	if cfg.Physics.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if len(cfg.Dice.Palette) != 5 {
		t.Errorf("expected 5 palette entries, got %d", len(cfg.Dice.Palette))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dice", func(c *Config) { c.Dice.Count = 0 }},
		{"too many dice", func(c *Config) { c.Dice.Count = 6 }},
		{"negative type", func(c *Config) { c.Dice.TypeIndex = -1 }},
		{"type past end", func(c *Config) { c.Dice.TypeIndex = 6 }},
		{"zero dt", func(c *Config) { c.Physics.Dt = 0 }},
		{"zero iterations", func(c *Config) { c.Physics.Iterations = 0 }},
		{"zero size", func(c *Config) { c.Dice.Size = 0 }},
		{"flat arena", func(c *Config) { c.Arena.Depth = 0 }},
		{"negative repeat", func(c *Config) { c.Input.RepeatInterval = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dice.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Dice.Count = 3
	cfg.Dice.TypeIndex = 4
	cfg.Throw.AngularSpeed = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Dice.Count != 3 || loaded.Dice.TypeIndex != 4 {
		t.Errorf("loaded config mismatch: %+v", loaded.Dice)
	}
	if loaded.Throw.AngularSpeed != 7 {
		t.Errorf("expected angular speed 7, got %f", loaded.Throw.AngularSpeed)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("chaos")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Dice.Count != MaxDice {
		t.Errorf("expected %d dice, got %d", MaxDice, cfg.Dice.Count)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
