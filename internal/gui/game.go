// Package gui is the desktop window host built on ebiten.
//
// Game maps ebiten's callbacks onto the scheduler: Layout reports the
// window size (starting the run the first time), Update ticks and Draw
// renders. The window is resizable and the field follows it.
package gui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/sim"
)

type Game struct {
	sched   *sim.Scheduler
	surface *Surface
	log     logrus.FieldLogger

	started bool
	paused  bool
	hud     bool
	err     error
}

func NewGame(s *sim.Scheduler, surface *Surface, log logrus.FieldLogger) *Game {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Game{sched: s, surface: surface, log: log}
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR) && g.started:
		if err := g.sched.Restart(); err != nil {
			g.log.WithError(err).Error("restart failed")
			return err
		}
		g.log.WithField("seed", g.sched.Seed()).Debug("restarted")
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.hud = !g.hud
	}
	if g.started && !g.paused {
		g.sched.Tick()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.SetTarget(screen)
	g.sched.Render()
	if g.hud {
		snap := g.sched.Snapshot()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frame %d  links %d  tps %.0f",
			snap.Index, snap.Connections.Edges(), ebiten.ActualTPS()), 8, 8)
	}
}

// Layout keeps one logical pixel per window pixel so the viewport tracks
// the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := dynamo.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if !g.started {
		if g.err == nil {
			if err := g.sched.Start(vp, g.surface); err != nil {
				g.log.WithError(err).Error("start failed")
				g.err = err
			} else {
				g.started = true
			}
		}
	} else {
		g.sched.OnResize(vp)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Scheduler, w config.WindowConfig, log logrus.FieldLogger) error {
	surface, err := NewSurface()
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.FPS)

	g := NewGame(s, surface, log)
	err = ebiten.RunGame(g)
	s.Stop()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "window")
	}
	log.Debug("window closed")
	return nil
}
