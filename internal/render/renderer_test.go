package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
)

type call struct {
	op     string
	from   dynamo.Vec2
	to     dynamo.Vec2
	width  float64
	radius float64
	color  color.NRGBA
	glyph  Glyph
	grad   Gradient
}

type recorder struct{ calls []call }

func (r *recorder) FillBackground(vp dynamo.Viewport, g Gradient) {
	r.calls = append(r.calls, call{op: "bg", grad: g})
}

func (r *recorder) StrokeLine(from, to dynamo.Vec2, width float64, c color.NRGBA) {
	r.calls = append(r.calls, call{op: "line", from: from, to: to, width: width, color: c})
}

func (r *recorder) StrokeCircle(center dynamo.Vec2, radius, width float64, c color.NRGBA) {
	r.calls = append(r.calls, call{op: "ring", from: center, radius: radius, width: width, color: c})
}

func (r *recorder) DrawGlyph(g Glyph) {
	r.calls = append(r.calls, call{op: "glyph", glyph: g})
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
	}
	return out
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	cfg := config.DefaultConfig()
	r, err := New(cfg.Render, cfg.Energy.Max)
	require.NoError(t, err)
	return r
}

func twoParticleFrame() dynamo.Frame {
	a := &dynamo.Particle{ID: 0, Pos: dynamo.Vec2{X: 100, Y: 100}, Symbol: "∑", Size: 20, Mass: 2, Opacity: 0.5, Hue: 220, Energy: 50}
	b := &dynamo.Particle{ID: 1, Pos: dynamo.Vec2{X: 150, Y: 100}, Symbol: "π", Size: 16, Mass: 1.6, Opacity: 1, Hue: 270, Energy: 90}
	conns := make(dynamo.Adjacency, 2)
	strength := 1 - 50.0/120
	conns[0] = []dynamo.Connection{{From: 0, To: 1, Distance: 50, Strength: strength}}
	conns[1] = []dynamo.Connection{{From: 1, To: 0, Distance: 50, Strength: strength}}
	return dynamo.Frame{
		Viewport:    dynamo.Viewport{Width: 800, Height: 600},
		Particles:   []*dynamo.Particle{a, b},
		Connections: conns,
	}
}

func TestRenderPaintOrder(t *testing.T) {
	r := newRenderer(t)
	rec := &recorder{}
	r.Render(rec, twoParticleFrame())

	// b has ratio 0.9, above the ring threshold; a at 0.5 is not.
	assert.Equal(t, []string{"bg", "line", "glyph", "glyph", "ring"}, rec.ops())
}

func TestRenderBackground(t *testing.T) {
	r := newRenderer(t)
	rec := &recorder{}
	r.Render(rec, twoParticleFrame())

	g := rec.calls[0].grad
	assert.Equal(t, dynamo.Vec2{X: 400, Y: 300}, g.Center)
	assert.Equal(t, 400.0, g.Radius)
	assert.Equal(t, color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}, g.Inner)
	assert.Equal(t, color.NRGBA{R: 0x16, G: 0x21, B: 0x3e, A: 255}, g.Outer)
}

func TestRenderConnectionOncePerPair(t *testing.T) {
	r := newRenderer(t)
	rec := &recorder{}
	f := twoParticleFrame()
	r.Render(rec, f)

	var lines []call
	for _, c := range rec.calls {
		if c.op == "line" {
			lines = append(lines, c)
		}
	}
	require.Len(t, lines, 1)
	line := lines[0]
	strength := 1 - 50.0/120
	assert.InDelta(t, strength*2, line.width, 1e-9)
	assert.Equal(t, f.Particles[0].Pos, line.from)
	assert.Equal(t, f.Particles[1].Pos, line.to)
	assert.Equal(t, HSLA(220, 0.7, 0.6, strength*0.3), line.color)
}

func TestRenderGlyphAtRestPhase(t *testing.T) {
	r := newRenderer(t)
	rec := &recorder{}
	f := twoParticleFrame()
	r.Render(rec, f)

	// Elapsed zero means sin(0) = 0, so glyphs draw at base size.
	g := rec.calls[2].glyph
	assert.Equal(t, "∑", g.Text)
	assert.Equal(t, 20.0, g.Size)
	assert.InDelta(t, 0.5*15, g.Blur, 1e-9)
	assert.Equal(t, HSLA(220, 0.7, 0.6, 0.5), g.Color)
	assert.Equal(t, HSLA(220, 0.7, 0.6, 0.5), g.Glow)
}

func TestRenderRing(t *testing.T) {
	r := newRenderer(t)
	rec := &recorder{}
	r.Render(rec, twoParticleFrame())

	ring := rec.calls[4]
	assert.Equal(t, dynamo.Vec2{X: 150, Y: 100}, ring.from)
	assert.Equal(t, 21.0, ring.radius)
	assert.Equal(t, 2.0, ring.width)
	assert.Equal(t, HSLA(270, 0.7, 0.6, (0.9-0.7)*0.5), ring.color)
}

func TestRenderPulse(t *testing.T) {
	r := newRenderer(t)
	f := twoParticleFrame()
	// 0.01 rad/ms * 157ms ≈ π/2, the pulse peak.
	f.Elapsed = 157 * time.Millisecond
	rec := &recorder{}
	r.Render(rec, f)

	g := rec.calls[3].glyph
	assert.InDelta(t, 16+0.9*3, g.Size, 1e-3)
}

func TestRenderDoesNotMutate(t *testing.T) {
	r := newRenderer(t)
	f := twoParticleFrame()
	before := *f.Particles[1]
	r.Render(&recorder{}, f)
	assert.Equal(t, before, *f.Particles[1])
}

func TestRenderEmptyFrame(t *testing.T) {
	r := newRenderer(t)
	rec := &recorder{}
	r.Render(rec, dynamo.Frame{Viewport: dynamo.Viewport{Width: 10, Height: 10}})
	assert.Equal(t, []string{"bg"}, rec.ops())
}

func TestNewRejectsBadColour(t *testing.T) {
	cfg := config.DefaultConfig().Render
	cfg.BackgroundInner = "navy"
	_, err := New(cfg, 100)
	assert.Error(t, err)
}

func TestGradientAt(t *testing.T) {
	g := Gradient{Radius: 10, Inner: color.NRGBA{A: 255}, Outer: color.NRGBA{R: 200, A: 255}}
	assert.Equal(t, uint8(0), g.At(0).R)
	assert.Equal(t, uint8(100), g.At(5).R)
	assert.Equal(t, uint8(200), g.At(50).R)
}

func TestHexRoundTrip(t *testing.T) {
	c, err := Hex("#16213e")
	require.NoError(t, err)
	assert.Equal(t, "#16213e", ToHex(c))
}
