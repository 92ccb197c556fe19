package graph

import (
	"math"
	"slices"

	"github.com/san-kum/symfield/internal/dynamo"
)

type cellKey struct{ cx, cy int }

// Grid is a uniform spatial hash with cell size equal to the radius. Buckets
// are reused between builds, so a Grid must not be shared across goroutines.
type Grid struct {
	cells map[cellKey][]int
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[cellKey][]int)}
}

func (*Grid) Name() string { return "grid" }

func (g *Grid) Build(particles []*dynamo.Particle, radius float64) dynamo.Adjacency {
	adj := newAdjacency(len(particles))
	if radius <= 0 || len(particles) == 0 {
		return adj
	}

	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
	keys := make([]cellKey, len(particles))
	for i, p := range particles {
		k := cellKey{int(math.Floor(p.Pos.X / radius)), int(math.Floor(p.Pos.Y / radius))}
		keys[i] = k
		g.cells[k] = append(g.cells[k], i)
	}

	for i, k := range keys {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				for _, j := range g.cells[cellKey{k.cx + dx, k.cy + dy}] {
					if j > i {
						link(adj, particles, i, j, radius)
					}
				}
			}
		}
	}

	for i := range adj {
		slices.SortFunc(adj[i], func(a, b dynamo.Connection) int { return a.To - b.To })
	}

	// Drop buckets that stayed empty so the map does not grow without bound
	// as particles wander across a large viewport.
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
		}
	}
	return adj
}
