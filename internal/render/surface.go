package render

import (
	"image/color"

	"github.com/san-kum/symfield/internal/dynamo"
)

// Surface is a drawing target. Implementations exist for the window, the
// terminal canvas, SVG and raster images. Calls arrive in paint order.
type Surface interface {
	FillBackground(vp dynamo.Viewport, g Gradient)
	StrokeLine(from, to dynamo.Vec2, width float64, c color.NRGBA)
	StrokeCircle(center dynamo.Vec2, radius, width float64, c color.NRGBA)
	DrawGlyph(g Glyph)
}

// Gradient is a two-stop radial gradient.
type Gradient struct {
	Center dynamo.Vec2
	Radius float64
	Inner  color.NRGBA
	Outer  color.NRGBA
}

// At returns the gradient colour at distance d from the centre.
func (g Gradient) At(d float64) color.NRGBA {
	t := 1.0
	if g.Radius > 0 {
		t = d / g.Radius
	}
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	return Lerp(g.Inner, g.Outer, t)
}

// Glyph is a centred text symbol with an optional glow halo of Blur radius.
type Glyph struct {
	Text  string
	At    dynamo.Vec2
	Size  float64
	Color color.NRGBA
	Glow  color.NRGBA
	Blur  float64
}

func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Discard is a Surface that draws nothing, for headless runs.
type Discard struct{}

func (Discard) FillBackground(dynamo.Viewport, Gradient) {}
func (Discard) StrokeLine(_, _ dynamo.Vec2, _ float64, _ color.NRGBA) {}
func (Discard) StrokeCircle(dynamo.Vec2, float64, float64, color.NRGBA) {}
func (Discard) DrawGlyph(Glyph) {}
