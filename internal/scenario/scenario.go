// Package scenario runs scripted headless sessions from YAML files.
//
// A script names a preset, a seed and a starting viewport, then lists steps.
// Each step does exactly one thing: advance some frames, resize the
// viewport, or write a snapshot. Frame time advances a fixed 1/fps per
// frame, so a seeded script renders the same snapshots on every run.
package scenario

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/export"
	"github.com/san-kum/symfield/internal/metrics"
	"github.com/san-kum/symfield/internal/render"
	"github.com/san-kum/symfield/internal/sim"
)

var ErrInvalidScript = errors.New("scenario: invalid script")

type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (s Size) Viewport() dynamo.Viewport {
	return dynamo.Viewport{Width: s.Width, Height: s.Height}
}

type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Preset is the preset layer the caller resolves the base config from;
	// config files, env and flags still apply on top of it.
	Preset string `yaml:"preset"`
	Seed        int64  `yaml:"seed"`
	Viewport    Size   `yaml:"viewport"`
	Steps       []Step `yaml:"steps"`

	// dir resolves relative snapshot paths.
	dir string
}

type Step struct {
	Frames   int    `yaml:"frames,omitempty"`
	Resize   *Size  `yaml:"resize,omitempty"`
	Snapshot string `yaml:"snapshot,omitempty"`
}

func (s Step) kind() string {
	switch {
	case s.Frames > 0:
		return "frames"
	case s.Resize != nil:
		return "resize"
	case s.Snapshot != "":
		return "snapshot"
	}
	return ""
}

// Load reads and validates a script. Snapshot paths are relative to the
// script's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if !sc.Viewport.Viewport().Valid() {
		return errors.Wrapf(ErrInvalidScript, "viewport %gx%g", sc.Viewport.Width, sc.Viewport.Height)
	}
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return errors.Wrapf(ErrInvalidScript, "unknown preset %q", sc.Preset)
	}
	for i, st := range sc.Steps {
		actions := 0
		if st.Frames != 0 {
			actions++
		}
		if st.Resize != nil {
			actions++
		}
		if st.Snapshot != "" {
			actions++
		}
		if actions != 1 {
			return errors.Wrapf(ErrInvalidScript, "step %d must have exactly one action", i+1)
		}
		if st.Frames < 0 {
			return errors.Wrapf(ErrInvalidScript, "step %d: frames must be positive", i+1)
		}
		if st.Resize != nil && !st.Resize.Viewport().Valid() {
			return errors.Wrapf(ErrInvalidScript, "step %d: resize to %gx%g", i+1, st.Resize.Width, st.Resize.Height)
		}
	}
	return nil
}

// Config returns a copy of base with the script's seed applied.
func (sc *Scenario) Config(base *config.Config) *config.Config {
	cfg := base.Clone()
	if sc.Seed != 0 {
		cfg.Seed = sc.Seed
	}
	return cfg
}

type StepReport struct {
	Index    int                `yaml:"index"`
	Kind     string             `yaml:"kind"`
	Frame    uint64             `yaml:"frame"`
	Viewport dynamo.Viewport    `yaml:"viewport"`
	Path     string             `yaml:"path,omitempty"`
	Metrics  map[string]float64 `yaml:"metrics"`
}

type Report struct {
	Name      string        `yaml:"name"`
	Particles int           `yaml:"particles"`
	Frames    uint64        `yaml:"frames"`
	Elapsed   time.Duration `yaml:"elapsed"`
	Steps     []StepReport  `yaml:"steps"`
	Snapshot  dynamo.Frame  `yaml:"-"`
}

// FrameStep is the frame time of one tick at fps, defaulting to 60.
func FrameStep(fps int) time.Duration {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Run executes the script on a fresh scheduler and stops it on return.
func Run(ctx context.Context, sc *Scenario, base *config.Config, log logrus.FieldLogger) (*Report, error) {
	cfg := sc.Config(base)
	renderer, err := render.New(cfg.Render, cfg.Energy.Max)
	if err != nil {
		return nil, errors.Wrap(dynamo.ErrInvalidConfig, err.Error())
	}

	rec := metrics.NewRecorder(0, metrics.Defaults(cfg.Energy.Max, cfg.Render.RingThreshold)...)
	sched := sim.New(cfg, sim.WithLogger(log), sim.WithFixedStep(FrameStep(cfg.Window.FPS)))
	sched.AddObserver(rec)
	if err := sched.Start(sc.Viewport.Viewport(), render.Discard{}); err != nil {
		return nil, err
	}
	defer sched.Stop()

	log = log.WithField("scenario", sc.Name)
	report := &Report{Name: sc.Name}
	start := time.Now()

	for i, st := range sc.Steps {
		sr := StepReport{Index: i + 1, Kind: st.kind()}
		switch {
		case st.Frames > 0:
			for n := 0; n < st.Frames; n++ {
				if err := ctx.Err(); err != nil {
					return report, err
				}
				sched.Frame()
			}
		case st.Resize != nil:
			sched.OnResize(st.Resize.Viewport())
		case st.Snapshot != "":
			path := st.Snapshot
			if !filepath.IsAbs(path) && sc.dir != "" {
				path = filepath.Join(sc.dir, path)
			}
			if err := export.WriteFrame(path, renderer, sched.Snapshot()); err != nil {
				return report, errors.Wrapf(err, "step %d", i+1)
			}
			sr.Path = path
		}
		sr.Frame = sched.Frames()
		sr.Viewport = sched.Viewport()
		sr.Metrics = rec.Latest()
		report.Steps = append(report.Steps, sr)

		log.WithFields(logrus.Fields{
			"step":  sr.Index,
			"kind":  sr.Kind,
			"frame": sr.Frame,
		}).Debug("scenario step done")
	}

	report.Frames = sched.Frames()
	report.Elapsed = time.Since(start)
	report.Snapshot = sched.Snapshot()
	report.Particles = len(report.Snapshot.Particles)
	log.WithFields(logrus.Fields{"frames": report.Frames, "elapsed": report.Elapsed}).Info("scenario finished")
	return report, nil
}
