package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/render"
)

// SVG is a Surface that accumulates an SVG document. Glow is expressed as a
// Gaussian blur filter, one per distinct blur radius.
type SVG struct {
	sb      strings.Builder
	filters map[int]bool
	open    bool
}

func NewSVG() *SVG {
	return &SVG{filters: make(map[int]bool)}
}

func (s *SVG) FillBackground(vp dynamo.Viewport, g render.Gradient) {
	s.sb.Reset()
	s.filters = make(map[int]bool)
	s.open = true

	s.sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<defs>
<radialGradient id="bg" gradientUnits="userSpaceOnUse" cx="%.1f" cy="%.1f" r="%.1f">
<stop offset="0" stop-color="%s"/>
<stop offset="1" stop-color="%s"/>
</radialGradient>
</defs>
<rect width="100%%" height="100%%" fill="url(#bg)"/>
`, vp.Width, vp.Height, vp.Width, vp.Height,
		g.Center.X, g.Center.Y, g.Radius, render.ToHex(g.Inner), render.ToHex(g.Outer)))
}

func (s *SVG) StrokeLine(from, to dynamo.Vec2, width float64, c color.NRGBA) {
	if c.A == 0 || width <= 0 {
		return
	}
	s.sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f" stroke-linecap="round"/>
`, from.X, from.Y, to.X, to.Y, render.ToHex(c), opacity(c), width))
}

func (s *SVG) StrokeCircle(center dynamo.Vec2, radius, width float64, c color.NRGBA) {
	if c.A == 0 || radius <= 0 {
		return
	}
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>
`, center.X, center.Y, radius, render.ToHex(c), opacity(c), width))
}

func (s *SVG) DrawGlyph(g render.Glyph) {
	if g.Text == "" {
		return
	}
	var body bytes.Buffer
	_ = xml.EscapeText(&body, []byte(g.Text))

	if blur := int(math.Round(g.Blur)); blur > 0 && g.Glow.A > 0 {
		id := s.filter(blur)
		s.sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s" fill-opacity="%.3f" filter="url(#%s)">%s</text>
`, g.At.X, g.At.Y, g.Size, render.ToHex(g.Glow), opacity(g.Glow), id, body.String()))
	}
	s.sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s" fill-opacity="%.3f">%s</text>
`, g.At.X, g.At.Y, g.Size, render.ToHex(g.Color), opacity(g.Color), body.String()))
}

// filter writes a blur filter definition the first time a radius is used.
// The filter is inlined where first needed since defs may appear anywhere.
func (s *SVG) filter(blur int) string {
	id := fmt.Sprintf("glow%d", blur)
	if !s.filters[blur] {
		s.filters[blur] = true
		s.sb.WriteString(fmt.Sprintf(`<filter id="%s" x="-100%%" y="-100%%" width="300%%" height="300%%"><feGaussianBlur stdDeviation="%.1f"/></filter>
`, id, float64(blur)/2))
	}
	return id
}

// String returns the closed document.
func (s *SVG) String() string {
	if !s.open {
		return ""
	}
	return s.sb.String() + "</svg>\n"
}

func opacity(c color.NRGBA) float64 { return float64(c.A) / 255 }
