package sim_test

import (
	"context"
	"image/color"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/render"
	"github.com/san-kum/symfield/internal/sim"
)

type countingSurface struct {
	backgrounds, lines, circles, glyphs int
}

func (c *countingSurface) FillBackground(dynamo.Viewport, render.Gradient) { c.backgrounds++ }
func (c *countingSurface) StrokeLine(_, _ dynamo.Vec2, _ float64, _ color.NRGBA) {
	c.lines++
}
func (c *countingSurface) StrokeCircle(dynamo.Vec2, float64, float64, color.NRGBA) { c.circles++ }
func (c *countingSurface) DrawGlyph(render.Glyph) { c.glyphs++ }

var _ = Describe("Scheduler", func() {
	var (
		cfg     *config.Config
		surface *countingSurface
		hook    *logtest.Hook
		sched   *sim.Scheduler
		vp      dynamo.Viewport
	)

	newScheduler := func() *sim.Scheduler {
		logger, h := logtest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		hook = h
		return sim.New(cfg, sim.WithLogger(logger))
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Seed = 42
		surface = &countingSurface{}
		vp = dynamo.Viewport{Width: 800, Height: 600}
		sched = newScheduler()
	})

	Describe("lifecycle", func() {
		It("starts stopped with a closed done channel", func() {
			Expect(sched.State()).To(Equal(sim.Stopped))
			Expect(sched.Done()).To(BeClosed())
			Expect(sched.Frame()).To(BeFalse())
		})

		It("moves to running on start and logs it", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			Expect(sched.State()).To(Equal(sim.Running))
			Expect(sched.Done()).NotTo(BeClosed())
			Expect(sched.Snapshot().Particles).To(HaveLen(cfg.Particles.Count))

			entry := hook.LastEntry()
			Expect(entry.Message).To(Equal("simulation started"))
			Expect(entry.Data).To(HaveKeyWithValue("particles", cfg.Particles.Count))
			Expect(entry.Data).To(HaveKeyWithValue("builder", "pairwise"))
		})

		It("rejects a second start while running", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			err := sched.Start(vp, surface)
			Expect(errors.Is(err, dynamo.ErrAlreadyRunning)).To(BeTrue())
		})

		It("can be started again after stopping", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			sched.Stop()
			Expect(sched.Start(vp, surface)).To(Succeed())
			Expect(sched.Frames()).To(BeZero())
		})

		It("restarts with a fresh population", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			for i := 0; i < 10; i++ {
				sched.Frame()
			}
			Expect(sched.Restart()).To(Succeed())
			Expect(sched.State()).To(Equal(sim.Running))
			Expect(sched.Frames()).To(BeZero())
		})
	})

	Describe("start errors", func() {
		It("rejects invalid configuration without clamping", func() {
			cfg.Physics.Friction = 1.0
			cfg.Particles.Count = -1
			sched = newScheduler()

			err := sched.Start(vp, surface)
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("physics.friction"))
			Expect(err.Error()).To(ContainSubstring("particles.count"))
			Expect(sched.State()).To(Equal(sim.Stopped))
		})

		It("rejects an unknown builder", func() {
			cfg.Physics.Builder = "octree"
			sched = newScheduler()
			Expect(errors.Is(sched.Start(vp, surface), dynamo.ErrInvalidConfig)).To(BeTrue())
		})

		It("fails when no surface is available", func() {
			Expect(sched.Start(vp, nil)).To(MatchError(dynamo.ErrNoSurface))
			Expect(sched.State()).To(Equal(sim.Stopped))
		})

		It("rejects an empty viewport", func() {
			err := sched.Start(dynamo.Viewport{Width: 0, Height: 600}, surface)
			Expect(errors.Is(err, dynamo.ErrInvalidViewport)).To(BeTrue())
		})
	})

	Describe("frames", func() {
		BeforeEach(func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
		})

		It("ticks then renders once per frame", func() {
			Expect(sched.Frame()).To(BeTrue())
			Expect(sched.Frame()).To(BeTrue())
			Expect(sched.Frames()).To(Equal(uint64(2)))
			Expect(surface.backgrounds).To(Equal(2))
			Expect(surface.glyphs).To(Equal(2 * cfg.Particles.Count))
		})

		It("notifies observers with a detached copy", func() {
			var seen []dynamo.Frame
			sched.AddObserver(sim.ObserverFunc(func(f dynamo.Frame) { seen = append(seen, f) }))

			sched.Frame()
			Expect(seen).To(HaveLen(1))
			Expect(seen[0].Index).To(Equal(uint64(1)))

			seen[0].Particles[0].Energy = -1
			Expect(sched.Snapshot().Particles[0].Energy).To(BeNumerically(">=", 0))
		})

		It("keeps particles and energy in bounds", func() {
			for i := 0; i < 500; i++ {
				sched.Frame()
			}
			for _, p := range sched.Snapshot().Particles {
				Expect(vp.Contains(p.Pos)).To(BeTrue())
				Expect(p.Energy).To(BeNumerically(">=", 0))
				Expect(p.Energy).To(BeNumerically("<=", cfg.Energy.Max))
			}
		})

		It("Tick advances without drawing", func() {
			Expect(sched.Tick()).To(BeTrue())
			Expect(surface.backgrounds).To(BeZero())
			sched.Render()
			Expect(surface.backgrounds).To(Equal(1))
		})
	})

	Describe("frame time", func() {
		var quiet *logrus.Logger
		BeforeEach(func() {
			quiet, _ = logtest.NewNullLogger()
		})

		It("follows the clock by default", func() {
			now := time.Unix(100, 0)
			sched = sim.New(cfg, sim.WithLogger(quiet), sim.WithClock(func() time.Time { return now }))
			Expect(sched.Start(vp, surface)).To(Succeed())
			now = now.Add(250 * time.Millisecond)
			sched.Frame()
			Expect(sched.Snapshot().Elapsed).To(Equal(250 * time.Millisecond))
		})

		It("advances by a fixed step per frame regardless of the clock", func() {
			now := time.Unix(100, 0)
			sched = sim.New(cfg,
				sim.WithLogger(quiet),
				sim.WithClock(func() time.Time { return now }),
				sim.WithFixedStep(20*time.Millisecond))
			Expect(sched.Start(vp, surface)).To(Succeed())
			for i := 0; i < 3; i++ {
				now = now.Add(time.Second)
				sched.Frame()
			}
			Expect(sched.Snapshot().Elapsed).To(Equal(60 * time.Millisecond))
		})

		It("reports the seed the population was drawn from", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			Expect(sched.Seed()).To(Equal(int64(42)))
		})
	})

	Describe("stop", func() {
		It("is idempotent and freezes the population", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			sched.Frame()

			sched.Stop()
			Expect(func() { sched.Stop() }).NotTo(Panic())
			Expect(sched.State()).To(Equal(sim.Stopped))
			Expect(sched.Done()).To(BeClosed())

			before := sched.Snapshot()
			Expect(sched.Frame()).To(BeFalse())
			Expect(sched.Tick()).To(BeFalse())
			after := sched.Snapshot()
			Expect(after.Particles).To(Equal(before.Particles))
			Expect(after.Connections).To(Equal(before.Connections))
			Expect(sched.Frames()).To(Equal(uint64(1)))
		})

		It("logs the frame count once", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			sched.Frame()
			sched.Stop()
			sched.Stop()

			stops := 0
			for _, e := range hook.AllEntries() {
				if e.Message == "simulation stopped" {
					stops++
					Expect(e.Data).To(HaveKeyWithValue("frames", uint64(1)))
				}
			}
			Expect(stops).To(Equal(1))
		})
	})

	Describe("resize", func() {
		BeforeEach(func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
		})

		It("updates the viewport without resetting particles", func() {
			before := sched.Snapshot()
			sched.OnResize(dynamo.Viewport{Width: 1024, Height: 768})
			Expect(sched.Viewport()).To(Equal(dynamo.Viewport{Width: 1024, Height: 768}))
			Expect(sched.Snapshot().Particles).To(Equal(before.Particles))
		})

		It("clamps particles into a shrunk viewport on the next tick", func() {
			small := dynamo.Viewport{Width: 100, Height: 80}
			sched.OnResize(small)
			sched.Frame()
			for _, p := range sched.Snapshot().Particles {
				Expect(small.Contains(p.Pos)).To(BeTrue())
			}
		})

		It("ignores invalid sizes", func() {
			sched.OnResize(dynamo.Viewport{Width: -5, Height: 10})
			sched.OnResize(dynamo.Viewport{})
			Expect(sched.Viewport()).To(Equal(vp))
		})

		It("is idempotent", func() {
			other := newScheduler()
			Expect(other.Start(vp, &countingSurface{})).To(Succeed())

			next := dynamo.Viewport{Width: 640, Height: 480}
			sched.OnResize(next)
			other.OnResize(next)
			other.OnResize(next)

			for i := 0; i < 50; i++ {
				sched.Frame()
				other.Frame()
			}
			a, b := sched.Snapshot(), other.Snapshot()
			Expect(b.Particles).To(Equal(a.Particles))
			Expect(b.Connections).To(Equal(a.Connections))
		})
	})

	Describe("Run", func() {
		It("advances on each clock tick and stops on cancel", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())

			clock := make(chan time.Time)
			ctx, cancel := context.WithCancel(context.Background())
			errc := make(chan error, 1)
			go func() { errc <- sched.Run(ctx, clock) }()

			for i := 0; i < 3; i++ {
				clock <- time.Now()
			}
			Eventually(sched.Frames).Should(Equal(uint64(3)))

			cancel()
			Eventually(errc).Should(Receive(MatchError(context.Canceled)))
			Expect(sched.State()).To(Equal(sim.Stopped))
		})

		It("returns when stopped elsewhere", func() {
			Expect(sched.Start(vp, surface)).To(Succeed())
			errc := make(chan error, 1)
			go func() { errc <- sched.Run(context.Background(), make(chan time.Time)) }()

			sched.Stop()
			Eventually(errc).Should(Receive(BeNil()))
		})
	})
})
