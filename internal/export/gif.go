package export

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/pkg/errors"
)

// GIFRecorder collects raster frames into an animated GIF. Frames are
// quantized to the Plan 9 palette with Floyd-Steinberg dithering.
type GIFRecorder struct {
	delay  int
	limit  int
	frames []*image.Paletted
}

// NewGIFRecorder keeps at most limit frames (0 for no limit), each shown for
// delay hundredths of a second.
func NewGIFRecorder(delay, limit int) *GIFRecorder {
	if delay < 1 {
		delay = 2
	}
	return &GIFRecorder{delay: delay, limit: limit}
}

func (g *GIFRecorder) Capture(img image.Image) {
	if img == nil {
		return
	}
	if g.limit > 0 && len(g.frames) >= g.limit {
		g.frames = g.frames[1:]
	}
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	g.frames = append(g.frames, p)
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Reset() { g.frames = nil }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return errors.New("export: no frames captured")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range g.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, g.delay)
	}
	return errors.Wrap(gif.EncodeAll(w, &anim), "encode gif")
}
