// Package render draws a simulation frame onto a Surface.
//
// Paint order is fixed: background gradient, every connection, then each
// particle's glyph followed by its energy ring. Rendering never mutates
// particle state.
package render

import (
	"image/color"
	"math"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
)

type Renderer struct {
	cfg       config.RenderConfig
	maxEnergy float64
	bg        Gradient
}

func New(cfg config.RenderConfig, maxEnergy float64) (*Renderer, error) {
	inner, err := Hex(cfg.BackgroundInner)
	if err != nil {
		return nil, err
	}
	outer, err := Hex(cfg.BackgroundOuter)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:       cfg,
		maxEnergy: maxEnergy,
		bg:        Gradient{Inner: inner, Outer: outer},
	}, nil
}

// Background returns the gradient for vp, anchored at its centre.
func (r *Renderer) Background(vp dynamo.Viewport) Gradient {
	g := r.bg
	g.Center = vp.Center()
	g.Radius = math.Max(vp.Width, vp.Height) / 2
	return g
}

func (r *Renderer) Render(s Surface, f dynamo.Frame) {
	s.FillBackground(f.Viewport, r.Background(f.Viewport))

	f.Connections.Pairs(func(c dynamo.Connection) {
		if c.From >= len(f.Particles) || c.To >= len(f.Particles) {
			return
		}
		from, to := f.Particles[c.From], f.Particles[c.To]
		s.StrokeLine(from.Pos, to.Pos, c.Strength*r.cfg.ConnectionWidth, r.color(from.Hue, c.Strength*r.cfg.ConnectionAlpha))
	})

	phase := math.Sin(float64(f.Elapsed.Milliseconds()) * r.cfg.PulseRate)
	for _, p := range f.Particles {
		r.drawParticle(s, p, phase)
	}
}

func (r *Renderer) drawParticle(s Surface, p *dynamo.Particle, phase float64) {
	ratio := r.ratio(p.Energy)
	size := r.PulseSize(p, ratio, phase)

	s.DrawGlyph(Glyph{
		Text:  p.Symbol,
		At:    p.Pos,
		Size:  size,
		Color: r.color(p.Hue, p.Opacity),
		Glow:  r.color(p.Hue, ratio),
		Blur:  ratio * r.cfg.GlowScale,
	})

	if ratio > r.cfg.RingThreshold {
		ringAlpha := (ratio - r.cfg.RingThreshold) * r.cfg.RingAlpha
		s.StrokeCircle(p.Pos, size+r.cfg.RingGap, r.cfg.RingWidth, r.color(p.Hue, ringAlpha))
	}
}

// PulseSize is the glyph size for the shared pulse phase in [-1, 1].
func (r *Renderer) PulseSize(p *dynamo.Particle, ratio, phase float64) float64 {
	return math.Max(1, p.Size+phase*ratio*r.cfg.PulseAmplitude)
}

func (r *Renderer) ratio(energy float64) float64 {
	if r.maxEnergy <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, energy/r.maxEnergy))
}

func (r *Renderer) color(hue, a float64) color.NRGBA {
	return HSLA(hue, r.cfg.Saturation, r.cfg.Lightness, a)
}
