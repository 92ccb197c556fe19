package gui

import (
	"bytes"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/render"
	"github.com/san-kum/symfield/internal/typeface"
)

// glowLayers approximates a blur with stacked translucent discs.
const glowLayers = 4

// Surface draws onto an ebiten image. The target is replaced on every Draw
// callback via SetTarget.
type Surface struct {
	dst   *ebiten.Image
	fonts []*text.GoTextFaceSource
	faces map[int]text.Face

	bg     *ebiten.Image
	bgSize dynamo.Viewport
	bgGrad render.Gradient
}

func NewSurface() (*Surface, error) {
	s := &Surface{faces: make(map[int]text.Face)}
	for i, data := range typeface.Sources() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "load glyph font %d", i)
		}
		s.fonts = append(s.fonts, src)
	}
	return s, nil
}

func (s *Surface) SetTarget(dst *ebiten.Image) { s.dst = dst }

func (s *Surface) FillBackground(vp dynamo.Viewport, g render.Gradient) {
	if s.dst == nil {
		return
	}
	if s.bg == nil || s.bgSize != vp || s.bgGrad != g {
		w, h := int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height))
		if w < 1 || h < 1 {
			return
		}
		if s.bg != nil {
			s.bg.Deallocate()
		}
		s.bg = ebiten.NewImage(w, h)
		s.bg.WritePixels(gradientPixels(w, h, g))
		s.bgSize, s.bgGrad = vp, g
	}
	s.dst.DrawImage(s.bg, nil)
}

// gradientPixels rasterizes g into opaque RGBA bytes.
func gradientPixels(w, h int, g render.Gradient) []byte {
	pix := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-g.Center.X, float64(y)+0.5-g.Center.Y)
			c := g.At(d)
			i := 4 * (y*w + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 255
		}
	}
	return pix
}

func (s *Surface) StrokeLine(from, to dynamo.Vec2, width float64, c color.NRGBA) {
	if s.dst == nil || c.A == 0 || width <= 0 {
		return
	}
	vector.StrokeLine(s.dst, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(width), c, true)
}

func (s *Surface) StrokeCircle(center dynamo.Vec2, radius, width float64, c color.NRGBA) {
	if s.dst == nil || c.A == 0 || radius <= 0 {
		return
	}
	vector.StrokeCircle(s.dst, float32(center.X), float32(center.Y), float32(radius), float32(width), c, true)
}

func (s *Surface) DrawGlyph(g render.Glyph) {
	if s.dst == nil || g.Text == "" {
		return
	}
	if g.Blur > 0 && g.Glow.A > 0 {
		for _, layer := range glowDiscs(g) {
			vector.DrawFilledCircle(s.dst, float32(g.At.X), float32(g.At.Y), float32(layer.radius), layer.color, true)
		}
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(g.At.X, g.At.Y)
	op.ColorScale.ScaleWithColor(g.Color)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(s.dst, g.Text, s.face(g.Size), op)
}

// face stacks one GoTextFace per font so runes missing from the primary
// font fall through to the next.
func (s *Surface) face(size float64) text.Face {
	key := int(math.Round(size))
	if key < 1 {
		key = 1
	}
	if f, ok := s.faces[key]; ok {
		return f
	}
	stack := make([]text.Face, len(s.fonts))
	for i, src := range s.fonts {
		stack[i] = &text.GoTextFace{Source: src, Size: float64(key)}
	}
	var f text.Face = stack[0]
	if len(stack) > 1 {
		if multi, err := text.NewMultiFace(stack...); err == nil {
			f = multi
		}
	}
	s.faces[key] = f
	return f
}

type disc struct {
	radius float64
	color  color.NRGBA
}

// glowDiscs returns the halo from the outermost, faintest disc inwards.
// Their combined alpha at the centre stays below the glow alpha.
func glowDiscs(g render.Glyph) []disc {
	base := g.Size / 2
	out := make([]disc, glowLayers)
	for i := 0; i < glowLayers; i++ {
		c := g.Glow
		c.A = uint8(float64(g.Glow.A) / (glowLayers * 2))
		out[i] = disc{
			radius: base + g.Blur*float64(glowLayers-i)/glowLayers,
			color:  c,
		}
	}
	return out
}
