// Package graph builds the per-tick proximity graph between particles.
//
// Two builders produce identical output: [Pairwise] scans every unordered
// pair, [Grid] buckets particles into square cells one radius wide and only
// compares neighboring cells. Both emit each connection on both endpoints
// with the same distance and strength, ordered by neighbor ID.
package graph

import (
	"math"

	"github.com/san-kum/symfield/internal/dynamo"
)

type Builder interface {
	Name() string
	Build(particles []*dynamo.Particle, radius float64) dynamo.Adjacency
}

// Strength is the linear falloff 1 - d/radius, zero at and beyond radius.
func Strength(distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	if distance <= 0 {
		return 1
	}
	return 1 - distance/radius
}

func newAdjacency(n int) dynamo.Adjacency {
	return make(dynamo.Adjacency, n)
}

// link appends the symmetric pair (i, j) if they are closer than radius.
func link(adj dynamo.Adjacency, particles []*dynamo.Particle, i, j int, radius float64) {
	d := particles[i].Pos.Sub(particles[j].Pos).Len()
	if d >= radius || math.IsNaN(d) {
		return
	}
	s := Strength(d, radius)
	adj[i] = append(adj[i], dynamo.Connection{From: i, To: j, Distance: d, Strength: s})
	adj[j] = append(adj[j], dynamo.Connection{From: j, To: i, Distance: d, Strength: s})
}

// Pairwise is the O(n²) reference builder.
type Pairwise struct{}

func NewPairwise() *Pairwise { return &Pairwise{} }

func (Pairwise) Name() string { return "pairwise" }

func (Pairwise) Build(particles []*dynamo.Particle, radius float64) dynamo.Adjacency {
	adj := newAdjacency(len(particles))
	if radius <= 0 {
		return adj
	}
	for i := 0; i < len(particles); i++ {
		for j := i + 1; j < len(particles); j++ {
			link(adj, particles, i, j, radius)
		}
	}
	return adj
}
