package dynamo

import (
	"math"
	"time"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Viewport is the drawable area. Positions live in [0, Width] x [0, Height].
type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 && !math.IsInf(v.Width, 0) && !math.IsInf(v.Height, 0)
}

func (v Viewport) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= v.Width && p.Y >= 0 && p.Y <= v.Height
}

func (v Viewport) Center() Vec2 { return Vec2{v.Width / 2, v.Height / 2} }

// Particle is one animated symbol. ID is its index in the owning population.
type Particle struct {
	ID     int
	Pos    Vec2
	Vel    Vec2
	Symbol string
	Size   float64
	// Mass is Size/10. It is carried for observers and does not enter the dynamics.
	Mass    float64
	Opacity float64
	Hue     float64
	Energy  float64
}

// Connection is a frame-scoped edge from particle From to particle To.
type Connection struct {
	From     int
	To       int
	Distance float64
	Strength float64
}

// Adjacency maps a particle ID (slice index) to its connections ordered by
// neighbor ID.
type Adjacency [][]Connection

func (a Adjacency) Of(id int) []Connection {
	if id < 0 || id >= len(a) {
		return nil
	}
	return a[id]
}

// Pairs calls fn once per unordered pair, with From < To.
func (a Adjacency) Pairs(fn func(Connection)) {
	for _, conns := range a {
		for _, c := range conns {
			if c.From < c.To {
				fn(c)
			}
		}
	}
}

// Edges returns the number of unordered pairs.
func (a Adjacency) Edges() int {
	n := 0
	a.Pairs(func(Connection) { n++ })
	return n
}

// Frame is the state of one completed tick.
type Frame struct {
	Index       uint64
	Elapsed     time.Duration
	Viewport    Viewport
	Particles   []*Particle
	Connections Adjacency
}
