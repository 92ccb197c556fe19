package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/san-kum/symfield/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultParticleCount    = 35
	DefaultConnectionRadius = 120.0
	DefaultFriction         = 0.999
	DefaultRestitution      = 0.8
	DefaultAttraction       = 0.001
	DefaultMaxEnergy        = 100.0
	DefaultDecayRate        = 0.5
	DefaultRegenThreshold   = 20.0
	DefaultRegenMax         = 2.0
	DefaultHueMin           = 220.0
	DefaultHueMax           = 280.0
	DefaultBuilder          = "pairwise"
	DefaultFPS              = 60
)

// DefaultSymbols is the mathematical symbol palette.
var DefaultSymbols = []string{
	"∫", "∑", "∆", "∇", "∂", "∞", "π", "θ", "λ", "μ", "σ", "Φ", "Ω",
	"α", "β", "γ", "≈", "≠", "≤", "≥", "±", "×", "÷", "√", "∛",
	"sin", "cos", "tan", "log", "ln", "e^x", "x²", "x³", "f(x)",
	"dy/dx", "∮", "∏", "∈", "∉", "⊂", "⊃", "∪", "∩", "∅",
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Span() float64 { return r.Max - r.Min }

type Config struct {
	Seed      int64           `yaml:"seed"`
	Particles ParticlesConfig `yaml:"particles"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Energy    EnergyConfig    `yaml:"energy"`
	Render    RenderConfig    `yaml:"render"`
	Window    WindowConfig    `yaml:"window"`
}

type ParticlesConfig struct {
	Count   int      `yaml:"count"`
	Symbols []string `yaml:"symbols"`
	// Palette names a registered symbol set that replaces Symbols when set.
	Palette string `yaml:"palette,omitempty"`
	Hue     Range    `yaml:"hue"`
	Size    Range    `yaml:"size"`
	Opacity Range    `yaml:"opacity"`
	// Speed scales the initial velocity components, sampled in [-Speed, Speed].
	Speed float64 `yaml:"speed"`
}

type PhysicsConfig struct {
	ConnectionRadius float64 `yaml:"connection_radius"`
	Friction         float64 `yaml:"friction"`
	Restitution      float64 `yaml:"restitution"`
	Attraction       float64 `yaml:"attraction"`
	Builder          string  `yaml:"builder"`
}

type EnergyConfig struct {
	Max            float64 `yaml:"max"`
	DecayRate      float64 `yaml:"decay_rate"`
	RegenThreshold float64 `yaml:"regen_threshold"`
	RegenMax       float64 `yaml:"regen_max"`
}

type RenderConfig struct {
	BackgroundInner string  `yaml:"background_inner"`
	BackgroundOuter string  `yaml:"background_outer"`
	Saturation      float64 `yaml:"saturation"`
	Lightness       float64 `yaml:"lightness"`
	ConnectionAlpha float64 `yaml:"connection_alpha"`
	ConnectionWidth float64 `yaml:"connection_width"`
	PulseAmplitude  float64 `yaml:"pulse_amplitude"`
	// PulseRate is the pulse phase advance in radians per millisecond.
	PulseRate     float64 `yaml:"pulse_rate"`
	GlowScale     float64 `yaml:"glow_scale"`
	RingThreshold float64 `yaml:"ring_threshold"`
	RingAlpha     float64 `yaml:"ring_alpha"`
	RingGap       float64 `yaml:"ring_gap"`
	RingWidth     float64 `yaml:"ring_width"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: ParticlesConfig{
			Count:   DefaultParticleCount,
			Symbols: append([]string(nil), DefaultSymbols...),
			Hue:     Range{Min: DefaultHueMin, Max: DefaultHueMax},
			Size:    Range{Min: 12, Max: 28},
			Opacity: Range{Min: 0.4, Max: 1.0},
			Speed:   1.0,
		},
		Physics: PhysicsConfig{
			ConnectionRadius: DefaultConnectionRadius,
			Friction:         DefaultFriction,
			Restitution:      DefaultRestitution,
			Attraction:       DefaultAttraction,
			Builder:          DefaultBuilder,
		},
		Energy: EnergyConfig{
			Max:            DefaultMaxEnergy,
			DecayRate:      DefaultDecayRate,
			RegenThreshold: DefaultRegenThreshold,
			RegenMax:       DefaultRegenMax,
		},
		Render: RenderConfig{
			BackgroundInner: "#1a1a2e",
			BackgroundOuter: "#16213e",
			Saturation:      0.7,
			Lightness:       0.6,
			ConnectionAlpha: 0.3,
			ConnectionWidth: 2,
			PulseAmplitude:  3,
			PulseRate:       0.01,
			GlowScale:       15,
			RingThreshold:   0.7,
			RingAlpha:       0.5,
			RingGap:         5,
			RingWidth:       2,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "symfield",
			FPS:    DefaultFPS,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Particles.Symbols = append([]string(nil), c.Particles.Symbols...)
	return &cp
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver applies the file at path on top of a copy of base. Fields the
// file leaves out keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
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

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return dynamo.ErrInvalidConfig }

// Validate rejects out-of-range values. Nothing is clamped.
func (c *Config) Validate() error {
	v := &validator{}

	p := c.Particles
	v.check(p.Count >= 0, "particles.count must be >= 0, got %d", p.Count)
	v.check(len(p.Symbols) > 0, "particles.symbols must not be empty")
	for i, s := range p.Symbols {
		v.check(s != "", "particles.symbols[%d] is empty", i)
	}
	v.rng("particles.hue", p.Hue, math.Inf(-1), math.Inf(1))
	v.rng("particles.size", p.Size, 0, math.Inf(1))
	v.check(p.Size.Min > 0, "particles.size.min must be > 0, got %g", p.Size.Min)
	v.rng("particles.opacity", p.Opacity, 0, 1)
	v.check(p.Speed >= 0, "particles.speed must be >= 0, got %g", p.Speed)

	ph := c.Physics
	v.check(ph.ConnectionRadius > 0, "physics.connection_radius must be > 0, got %g", ph.ConnectionRadius)
	v.check(ph.Friction > 0 && ph.Friction < 1, "physics.friction must be in (0,1), got %g", ph.Friction)
	v.check(ph.Restitution >= 0 && ph.Restitution <= 1, "physics.restitution must be in [0,1], got %g", ph.Restitution)
	v.check(ph.Attraction >= 0, "physics.attraction must be >= 0, got %g", ph.Attraction)
	v.check(ph.Builder != "", "physics.builder must be set")

	e := c.Energy
	v.check(e.Max > 0, "energy.max must be > 0, got %g", e.Max)
	v.check(e.DecayRate >= 0, "energy.decay_rate must be >= 0, got %g", e.DecayRate)
	v.check(e.RegenThreshold >= 0 && e.RegenThreshold <= e.Max, "energy.regen_threshold must be in [0,max], got %g", e.RegenThreshold)
	v.check(e.RegenMax >= 0, "energy.regen_max must be >= 0, got %g", e.RegenMax)

	r := c.Render
	v.color("render.background_inner", r.BackgroundInner)
	v.color("render.background_outer", r.BackgroundOuter)
	v.unit("render.saturation", r.Saturation)
	v.unit("render.lightness", r.Lightness)
	v.unit("render.connection_alpha", r.ConnectionAlpha)
	v.unit("render.ring_threshold", r.RingThreshold)
	v.unit("render.ring_alpha", r.RingAlpha)
	v.check(r.ConnectionWidth >= 0, "render.connection_width must be >= 0, got %g", r.ConnectionWidth)
	v.check(r.PulseAmplitude >= 0, "render.pulse_amplitude must be >= 0, got %g", r.PulseAmplitude)
	v.check(r.PulseRate >= 0, "render.pulse_rate must be >= 0, got %g", r.PulseRate)
	v.check(r.GlowScale >= 0, "render.glow_scale must be >= 0, got %g", r.GlowScale)
	v.check(r.RingWidth >= 0, "render.ring_width must be >= 0, got %g", r.RingWidth)

	w := c.Window
	v.check(w.Width > 0 && w.Height > 0, "window size must be positive, got %dx%d", w.Width, w.Height)
	v.check(w.FPS > 0, "window.fps must be > 0, got %d", w.FPS)

	return v.err()
}

type validator struct {
	problems []string
}

func (v *validator) check(ok bool, format string, args ...interface{}) {
	if !ok {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

func (v *validator) unit(name string, x float64) {
	v.check(x >= 0 && x <= 1, "%s must be in [0,1], got %g", name, x)
}

func (v *validator) rng(name string, r Range, lo, hi float64) {
	v.check(r.Min <= r.Max, "%s.min (%g) exceeds max (%g)", name, r.Min, r.Max)
	v.check(r.Min >= lo && r.Max <= hi, "%s must lie in [%g,%g], got [%g,%g]", name, lo, hi, r.Min, r.Max)
}

func (v *validator) color(name, hex string) {
	_, err := colorful.Hex(hex)
	v.check(err == nil, "%s: %q is not a #rrggbb color", name, hex)
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}
