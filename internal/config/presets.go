package config

import "sort"

// Presets adjust the defaults for a particular feel of throw.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"gentle": func(c *Config) {
		c.Throw.VelocityBias = [3]float64{15, 20, 10}
		c.Throw.VelocityJitter = [3]float64{3, 8, 3}
		c.Throw.AngularSpeed = 6
	},
	"chaos": func(c *Config) {
		c.Dice.Count = MaxDice
		c.Throw.VelocityBias = [3]float64{35, 55, 25}
		c.Throw.VelocityJitter = [3]float64{10, 25, 10}
		c.Throw.AngularSpeed = 20
		c.Physics.Restitution = 0.6
	},
	"tabletop": func(c *Config) {
		c.Dice.Count = 2
		c.Dice.TypeIndex = 4
		c.Arena.Width = 30
		c.Arena.Depth = 24
		c.Throw.Base = [3]float64{-10, 2, -8}
		c.Throw.VelocityBias = [3]float64{18, 30, 10}
		c.Camera.Position = [3]float64{0, 22, 20}
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
