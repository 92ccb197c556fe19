package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/render"
	"github.com/san-kum/symfield/internal/typeface"
)

// Raster is a Surface backed by an RGBA image. Shapes are scan-converted
// with an anti-aliasing rasterizer and glyphs use the typeface stack, one
// run per font.
type Raster struct {
	img   *image.RGBA
	fonts *typeface.Set
	faces map[faceKey]font.Face
}

type faceKey struct {
	font, size int
}

func NewRaster() (*Raster, error) {
	set, err := typeface.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load glyph fonts")
	}
	return &Raster{fonts: set, faces: make(map[faceKey]font.Face)}, nil
}

// Image returns the last frame drawn.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) EncodePNG(w io.Writer) error {
	if r.img == nil {
		return errors.New("export: nothing rendered")
	}
	return errors.Wrap(png.Encode(w, r.img), "encode png")
}

func (r *Raster) FillBackground(vp dynamo.Viewport, g render.Gradient) {
	w, h := int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height))
	if r.img == nil || r.img.Bounds().Dx() != w || r.img.Bounds().Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-g.Center.X, float64(y)+0.5-g.Center.Y)
			c := g.At(d)
			i := r.img.PixOffset(x, y)
			r.img.Pix[i], r.img.Pix[i+1], r.img.Pix[i+2], r.img.Pix[i+3] = c.R, c.G, c.B, 255
		}
	}
}

func (r *Raster) StrokeLine(from, to dynamo.Vec2, width float64, c color.NRGBA) {
	if r.img == nil || c.A == 0 || width <= 0 {
		return
	}
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		return
	}
	half := math.Max(width, 1) / 2
	n := dynamo.Vec2{X: -d.Y / l * half, Y: d.X / l * half}

	z := r.rasterizer()
	moveTo(z, from.Add(n))
	lineTo(z, to.Add(n))
	lineTo(z, to.Sub(n))
	lineTo(z, from.Sub(n))
	z.ClosePath()
	r.fill(z, c)
}

func (r *Raster) StrokeCircle(center dynamo.Vec2, radius, width float64, c color.NRGBA) {
	if r.img == nil || c.A == 0 || radius <= 0 {
		return
	}
	half := math.Max(width, 1) / 2
	z := r.rasterizer()
	circle(z, center, radius+half, false)
	if inner := radius - half; inner > 0 {
		circle(z, center, inner, true)
	}
	r.fill(z, c)
}

func (r *Raster) DrawGlyph(g render.Glyph) {
	if r.img == nil || g.Text == "" {
		return
	}
	if g.Blur > 0 && g.Glow.A > 0 {
		for _, l := range glowRings(g) {
			z := r.rasterizer()
			circle(z, g.At, l.radius, false)
			r.fill(z, l.color)
		}
	}

	runs := r.fonts.Runs(g.Text)
	d := &font.Drawer{Dst: r.img, Src: image.NewUniform(g.Color)}
	var adv fixed.Int26_6
	for _, run := range runs {
		d.Face = r.face(run.Font, g.Size)
		adv += d.MeasureString(run.Text)
	}
	m := r.face(0, g.Size).Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(g.At.X*64) - adv/2,
		Y: fixed.Int26_6(g.At.Y*64) + (m.Ascent-m.Descent)/2,
	}
	for _, run := range runs {
		d.Face = r.face(run.Font, g.Size)
		d.DrawString(run.Text)
	}
}

func (r *Raster) face(idx int, size float64) font.Face {
	key := faceKey{font: idx, size: int(math.Round(size))}
	if key.size < 1 {
		key.size = 1
	}
	if f, ok := r.faces[key]; ok {
		return f
	}
	f, err := opentype.NewFace(r.fonts.Fonts()[idx], &opentype.FaceOptions{Size: float64(key.size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	r.faces[key] = f
	return f
}

func (r *Raster) rasterizer() *vector.Rasterizer {
	b := r.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (r *Raster) fill(z *vector.Rasterizer, c color.NRGBA) {
	z.DrawOp = draw.Over
	z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func moveTo(z *vector.Rasterizer, p dynamo.Vec2) { z.MoveTo(float32(p.X), float32(p.Y)) }

func lineTo(z *vector.Rasterizer, p dynamo.Vec2) { z.LineTo(float32(p.X), float32(p.Y)) }

// circle adds a closed polygonal circle. Reverse winding cuts a hole.
func circle(z *vector.Rasterizer, c dynamo.Vec2, radius float64, reverse bool) {
	steps := int(radius) + 16
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		if reverse {
			a = -a
		}
		p := dynamo.Vec2{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
		if i == 0 {
			moveTo(z, p)
		} else {
			lineTo(z, p)
		}
	}
	z.ClosePath()
}

type ring struct {
	radius float64
	color  color.NRGBA
}

const glowLayers = 4

func glowRings(g render.Glyph) []ring {
	base := g.Size / 2
	out := make([]ring, glowLayers)
	for i := range out {
		c := g.Glow
		c.A = uint8(float64(g.Glow.A) / (glowLayers * 2))
		out[i] = ring{radius: base + g.Blur*float64(glowLayers-i)/glowLayers, color: c}
	}
	return out
}
