package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/render"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	brailleBase = 0x2800

	// CellWidth and CellHeight are the viewport units covered by one
	// terminal cell. A braille dot is DotSize units square.
	CellWidth  = 8
	CellHeight = 16
	DotSize    = 4
)

type cell struct {
	dots rune
	text rune
	fg   color.NRGBA
	bg   color.NRGBA
}

// Canvas is a terminal Surface. Lines and rings land on a braille dot grid,
// glyphs overwrite whole cells, and every cell carries its own colours.
type Canvas struct {
	Width, Height int
	cells         [][]cell
	pen           color.NRGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid to w x h cells.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.cells = make([][]cell, h)
	for i := range c.cells {
		c.cells[i] = make([]cell, w)
	}
}

// Viewport is the simulation area the canvas covers.
func (c *Canvas) Viewport() dynamo.Viewport {
	return dynamo.Viewport{Width: float64(c.Width * CellWidth), Height: float64(c.Height * CellHeight)}
}

// Set lights a dot at sub-pixel (x, y) in the current pen colour.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	cl := &c.cells[row][col]
	cl.dots |= pixelMap[y%4][x%2]
	cl.fg = render.Over(cl.bg, c.pen)
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col].dots &^= pixelMap[y%4][x%2]
}

// Clear drops dots and glyphs but keeps the background.
func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j].dots = 0
			c.cells[i][j].text = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) FillBackground(_ dynamo.Viewport, g render.Gradient) {
	for row := range c.cells {
		for col := range c.cells[row] {
			center := dynamo.Vec2{
				X: float64(col*CellWidth + CellWidth/2),
				Y: float64(row*CellHeight + CellHeight/2),
			}
			c.cells[row][col] = cell{bg: g.At(center.Sub(g.Center).Len())}
		}
	}
}

func (c *Canvas) StrokeLine(from, to dynamo.Vec2, _ float64, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	c.pen = col
	c.DrawLine(sub(from.X), sub(from.Y), sub(to.X), sub(to.Y))
}

func (c *Canvas) StrokeCircle(center dynamo.Vec2, radius, _ float64, col color.NRGBA) {
	if col.A == 0 || radius <= 0 {
		return
	}
	c.pen = col
	steps := int(2*math.Pi*radius/DotSize) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(sub(center.X+radius*math.Cos(a)), sub(center.Y+radius*math.Sin(a)))
	}
}

// DrawGlyph centres the symbol's runes on the cell under g.At. The glow
// tints the background of the covered cells.
func (c *Canvas) DrawGlyph(g render.Glyph) {
	runes := []rune(g.Text)
	if len(runes) == 0 || g.At.Y < 0 || g.At.X < 0 {
		return
	}
	row := int(g.At.Y / CellHeight)
	if row >= c.Height {
		return
	}
	start := int(g.At.X/CellWidth) - len(runes)/2
	for i, r := range runes {
		col := start + i
		if col < 0 || col >= c.Width {
			continue
		}
		cl := &c.cells[row][col]
		if g.Blur > 0 && g.Glow.A > 0 {
			glow := g.Glow
			glow.A /= 3
			cl.bg = render.Over(cl.bg, glow)
		}
		cl.text = r
		cl.fg = render.Over(cl.bg, g.Color)
	}
}

func (c *Canvas) cellRune(cl cell) rune {
	switch {
	case cl.text != 0:
		return cl.text
	case cl.dots != 0:
		return brailleBase + cl.dots
	default:
		return ' '
	}
}

// Plain returns the canvas without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for _, row := range c.cells {
		for _, cl := range row {
			b.WriteRune(c.cellRune(cl))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders each row as runs of cells sharing colours.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		var run strings.Builder
		var fg, bg color.NRGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(render.ToHex(fg))).
				Background(lipgloss.Color(render.ToHex(bg)))
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for _, cl := range row {
			r := c.cellRune(cl)
			blank := r == ' '
			if run.Len() > 0 && (cl.bg != bg || (!blank && cl.fg != fg)) {
				flush()
			}
			if run.Len() == 0 || !blank {
				fg = cl.fg
			}
			bg = cl.bg
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func sub(v float64) int { return int(math.Floor(v / DotSize)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
