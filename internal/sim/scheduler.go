// Package sim drives the tick and render cycle.
//
// A Scheduler moves between Stopped and Running. Hosts call Frame once per
// display callback; headless callers use Run with a clock channel. Every
// method is safe to call from the host's event goroutine and from the frame
// callback, and a tick always completes before a resize or stop is applied.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/graph"
	"github.com/san-kum/symfield/internal/physics"
	"github.com/san-kum/symfield/internal/registry"
	"github.com/san-kum/symfield/internal/render"
)

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

type Observer interface {
	OnFrame(f dynamo.Frame)
}

type ObserverFunc func(f dynamo.Frame)

func (fn ObserverFunc) OnFrame(f dynamo.Frame) { fn(f) }

type Option func(*Scheduler)

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithClock replaces time.Now, used for the pulse phase and default seeding.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithFixedStep makes frame time advance by step per tick instead of
// following the clock, so offline renders depend only on the seed.
func WithFixedStep(step time.Duration) Option {
	return func(s *Scheduler) { s.step = step }
}

// WithBuilder overrides the builder named in the physics config.
func WithBuilder(b graph.Builder) Option {
	return func(s *Scheduler) { s.builder = b }
}

func WithRegistry(r *registry.Registry) Option {
	return func(s *Scheduler) { s.registry = r }
}

type Scheduler struct {
	mu        sync.Mutex
	cfg       *config.Config
	log       logrus.FieldLogger
	now       func() time.Time
	step      time.Duration
	builder   graph.Builder
	registry  *registry.Registry
	observers []Observer

	state      State
	vp         dynamo.Viewport
	surface    render.Surface
	renderer   *render.Renderer
	integrator *physics.Integrator
	particles  []*dynamo.Particle
	conns      dynamo.Adjacency
	frames     uint64
	seed       int64
	started    time.Time
	done       chan struct{}
}

func New(cfg *config.Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:  cfg.Clone(),
		log:  logrus.StandardLogger(),
		now:  time.Now,
		done: make(chan struct{}),
	}
	close(s.done)
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	return s
}

func (s *Scheduler) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Start validates the configuration, builds a fresh population inside vp and
// moves to Running. Nothing is ticked until the first Frame.
func (s *Scheduler) Start(vp dynamo.Viewport, surface render.Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return dynamo.ErrAlreadyRunning
	}

	cfg := s.cfg.Clone()
	if err := s.registry.Apply(cfg); err != nil {
		return errors.Wrap(dynamo.ErrInvalidConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "start")
	}
	if surface == nil {
		return dynamo.ErrNoSurface
	}
	if !vp.Valid() {
		return errors.Wrapf(dynamo.ErrInvalidViewport, "%gx%g", vp.Width, vp.Height)
	}

	builder := s.builder
	if builder == nil {
		b, err := s.registry.Builder(cfg.Physics.Builder)
		if err != nil {
			return errors.Wrap(dynamo.ErrInvalidConfig, err.Error())
		}
		builder = b
	}
	renderer, err := render.New(cfg.Render, cfg.Energy.Max)
	if err != nil {
		return errors.Wrap(dynamo.ErrInvalidConfig, err.Error())
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- visual jitter only

	s.vp = vp
	s.surface = surface
	s.renderer = renderer
	s.integrator = physics.NewIntegrator(cfg, builder, rng)
	s.particles = physics.NewPopulation(cfg.Particles, cfg.Energy.Max, vp, rng)
	s.conns = builder.Build(s.particles, cfg.Physics.ConnectionRadius)
	s.frames = 0
	s.seed = seed
	s.started = s.now()
	s.done = make(chan struct{})
	s.state = Running

	s.log.WithFields(logrus.Fields{
		"particles": len(s.particles),
		"width":     vp.Width,
		"height":    vp.Height,
		"builder":   builder.Name(),
		"seed":      seed,
	}).Info("simulation started")
	return nil
}

// Stop cancels the loop. Calling it while stopped does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.state == Stopped {
		return
	}
	s.state = Stopped
	close(s.done)
	s.log.WithField("frames", s.frames).Info("simulation stopped")
}

// Restart stops and starts again with the current viewport and surface.
func (s *Scheduler) Restart() error {
	s.mu.Lock()
	vp, surface := s.vp, s.surface
	s.stopLocked()
	s.mu.Unlock()
	return s.Start(vp, surface)
}

// OnResize records the new viewport for the next tick. Particles outside a
// shrunk viewport are clamped by their next boundary check. Non-positive or
// non-finite sizes are ignored.
func (s *Scheduler) OnResize(vp dynamo.Viewport) {
	if !vp.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vp == vp {
		return
	}
	s.vp = vp
	s.log.WithFields(logrus.Fields{"width": vp.Width, "height": vp.Height}).Debug("viewport resized")
}

// SetSurface swaps the drawing target, for hosts that receive a new target
// on every draw callback.
func (s *Scheduler) SetSurface(surface render.Surface) {
	if surface == nil {
		return
	}
	s.mu.Lock()
	s.surface = surface
	s.mu.Unlock()
}

// Tick advances the simulation one step. It reports false when stopped.
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return false
	}
	s.conns = s.integrator.Tick(s.particles, s.vp)
	s.frames++
	return true
}

// Render draws the current state onto the surface.
func (s *Scheduler) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return
	}
	s.renderer.Render(s.surface, s.frameLocked())
}

// Frame is one scheduling callback: tick, render, then notify observers.
// It reports false once the scheduler has stopped so the host can stop
// rescheduling.
func (s *Scheduler) Frame() bool {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return false
	}
	s.conns = s.integrator.Tick(s.particles, s.vp)
	s.frames++
	s.renderer.Render(s.surface, s.frameLocked())

	var snap dynamo.Frame
	observers := s.observers
	if len(observers) > 0 {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnFrame(snap)
	}
	return true
}

// Run calls Frame on every clock tick until ctx ends or Stop is called.
// Cancelling ctx stops the scheduler.
func (s *Scheduler) Run(ctx context.Context, clock <-chan time.Time) error {
	done := s.Done()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-done:
			return nil
		case <-clock:
			if !s.Frame() {
				return nil
			}
		}
	}
}

// Done is closed when the current run stops. It is already closed before
// the first Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Viewport() dynamo.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vp
}

func (s *Scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Seed is the seed the current population was drawn from. A zero config
// seed is replaced by the start time.
func (s *Scheduler) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Config returns a copy of the scheduler's configuration.
func (s *Scheduler) Config() *config.Config {
	return s.cfg.Clone()
}

// Snapshot returns a deep copy of the latest frame.
func (s *Scheduler) Snapshot() dynamo.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Scheduler) frameLocked() dynamo.Frame {
	var elapsed time.Duration
	switch {
	case s.step > 0:
		elapsed = time.Duration(s.frames) * s.step
	case !s.started.IsZero():
		elapsed = s.now().Sub(s.started)
	}
	return dynamo.Frame{
		Index:       s.frames,
		Elapsed:     elapsed,
		Viewport:    s.vp,
		Particles:   s.particles,
		Connections: s.conns,
	}
}

func (s *Scheduler) snapshotLocked() dynamo.Frame {
	f := s.frameLocked()
	ps := make([]*dynamo.Particle, len(f.Particles))
	for i, p := range f.Particles {
		cp := *p
		ps[i] = &cp
	}
	conns := make(dynamo.Adjacency, len(f.Connections))
	for i, list := range f.Connections {
		conns[i] = append([]dynamo.Connection(nil), list...)
	}
	f.Particles = ps
	f.Connections = conns
	return f
}
