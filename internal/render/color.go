package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// HSLA converts hue in degrees and saturation, lightness, alpha in [0,1].
func HSLA(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(math.Mod(h, 360), s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha(a)}
}

// Hex parses #rrggbb into an opaque colour.
func Hex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "parse colour %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ToHex formats the RGB channels as #rrggbb.
func ToHex(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// Over composites c onto an opaque background by its alpha.
func Over(bg, c color.NRGBA) color.NRGBA {
	out := Lerp(bg, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, float64(c.A)/255)
	out.A = 255
	return out
}

func alpha(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(a*255 + 0.5)
}
