package config

import "sort"

// Presets tweak the defaults. Each entry receives a fresh DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"calm": func(c *Config) {
		c.Particles.Count = 20
		c.Particles.Speed = 0.5
		c.Physics.Attraction = 0.0005
		c.Energy.DecayRate = 0.25
	},
	"dense": func(c *Config) {
		c.Particles.Count = 90
		c.Particles.Size = Range{Min: 10, Max: 20}
		c.Physics.ConnectionRadius = 90
		c.Physics.Builder = "grid"
	},
	"storm": func(c *Config) {
		c.Particles.Speed = 3
		c.Physics.Friction = 0.995
		c.Physics.Restitution = 1.0
		c.Physics.Attraction = 0.003
		c.Energy.DecayRate = 1.0
		c.Energy.RegenMax = 6
	},
	"mono": func(c *Config) {
		c.Particles.Hue = Range{Min: 200, Max: 200}
		c.Render.Saturation = 0.2
		c.Render.Lightness = 0.75
	},
}

// GetPreset returns a new config with the named preset applied, or nil.
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
