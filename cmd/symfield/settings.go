package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/registry"
)

const envPrefix = "SYMFIELD"

// override binds one config key to a flag and a SYMFIELD_* variable.
type override struct {
	key   string
	flag  string
	apply func(v *viper.Viper, c *config.Config)
}

var overrides = []override{
	{"seed", "seed", func(v *viper.Viper, c *config.Config) { c.Seed = v.GetInt64("seed") }},
	{"particles.count", "count", func(v *viper.Viper, c *config.Config) { c.Particles.Count = v.GetInt("particles.count") }},
	{"particles.palette", "palette", func(v *viper.Viper, c *config.Config) { c.Particles.Palette = v.GetString("particles.palette") }},
	{"physics.connection_radius", "radius", func(v *viper.Viper, c *config.Config) {
		c.Physics.ConnectionRadius = v.GetFloat64("physics.connection_radius")
	}},
	{"physics.friction", "friction", func(v *viper.Viper, c *config.Config) { c.Physics.Friction = v.GetFloat64("physics.friction") }},
	{"physics.restitution", "restitution", func(v *viper.Viper, c *config.Config) {
		c.Physics.Restitution = v.GetFloat64("physics.restitution")
	}},
	{"physics.attraction", "attraction", func(v *viper.Viper, c *config.Config) {
		c.Physics.Attraction = v.GetFloat64("physics.attraction")
	}},
	{"physics.builder", "builder", func(v *viper.Viper, c *config.Config) { c.Physics.Builder = v.GetString("physics.builder") }},
	{"energy.max", "max-energy", func(v *viper.Viper, c *config.Config) { c.Energy.Max = v.GetFloat64("energy.max") }},
	{"energy.decay_rate", "decay", func(v *viper.Viper, c *config.Config) { c.Energy.DecayRate = v.GetFloat64("energy.decay_rate") }},
	{"window.fps", "fps", func(v *viper.Viper, c *config.Config) { c.Window.FPS = v.GetInt("window.fps") }},
}

func addConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml)")
	fs.String("preset", "default", "preset applied before the config file")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "write logs to this file instead of stderr")

	d := config.DefaultConfig()
	fs.Int64("seed", 0, "random seed (0 picks one from the clock)")
	fs.Int("count", d.Particles.Count, "particle count")
	fs.String("palette", "", "symbol palette (see 'symfield presets')")
	fs.Float64("radius", d.Physics.ConnectionRadius, "connection radius")
	fs.Float64("friction", d.Physics.Friction, "velocity multiplier per tick, in (0,1)")
	fs.Float64("restitution", d.Physics.Restitution, "bounce energy kept, in [0,1]")
	fs.Float64("attraction", d.Physics.Attraction, "neighbor attraction coefficient")
	fs.String("builder", d.Physics.Builder, "neighbor graph builder (pairwise, grid)")
	fs.Float64("max-energy", d.Energy.Max, "energy cap")
	fs.Float64("decay", d.Energy.DecayRate, "energy decay per tick")
	fs.Int("fps", d.Window.FPS, "frames per second")
}

// resolveConfig layers flag > env > file > preset > defaults and checks
// the result against the registry.
func resolveConfig(fs *pflag.FlagSet) (*config.Config, error) {
	return resolveWithPreset(fs, "")
}

// resolveWithPreset is resolveConfig with preset standing in for the preset
// layer unless --preset or SYMFIELD_PRESET names one explicitly.
func resolveWithPreset(fs *pflag.FlagSet, preset string) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, o := range overrides {
		if f := fs.Lookup(o.flag); f != nil {
			if err := v.BindPFlag(o.key, f); err != nil {
				return nil, errors.Wrapf(err, "bind %s", o.flag)
			}
		}
	}
	for _, name := range []string{"config", "preset"} {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, errors.Wrapf(err, "bind %s", name)
			}
		}
	}

	if preset == "" || v.IsSet("preset") {
		preset = v.GetString("preset")
	}
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, errors.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
	}

	if path := v.GetString("config"); path != "" {
		loaded, err := config.LoadOver(path, cfg)
		if err != nil {
			return nil, errors.Wrap(err, "load config")
		}
		cfg = loaded
	}

	for _, o := range overrides {
		if v.IsSet(o.key) {
			o.apply(v, cfg)
		}
	}

	if err := registry.New().Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger. quiet discards output when no log
// file is given, for hosts that own the terminal.
func newLogger(fs *pflag.FlagSet, quiet bool) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	levelName, _ := fs.GetString("log-level")
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "log level")
	}
	log.SetLevel(level)

	path, _ := fs.GetString("log-file")
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open log file")
		}
		log.SetOutput(f)
		return log, f, nil
	case quiet:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return log, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
