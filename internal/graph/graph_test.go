package graph

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func population(points ...dynamo.Vec2) []*dynamo.Particle {
	ps := make([]*dynamo.Particle, len(points))
	for i, p := range points {
		ps[i] = &dynamo.Particle{ID: i, Pos: p}
	}
	return ps
}

func randomPopulation(rng *rand.Rand, n int, w, h float64) []*dynamo.Particle {
	ps := make([]*dynamo.Particle, n)
	for i := range ps {
		ps[i] = &dynamo.Particle{ID: i, Pos: dynamo.Vec2{X: rng.Float64() * w, Y: rng.Float64() * h}}
	}
	return ps
}

func builders() []Builder {
	return []Builder{NewPairwise(), NewGrid()}
}

func TestStrength(t *testing.T) {
	const radius = 120.0

	assert.Equal(t, 1.0, Strength(0, radius))
	assert.Equal(t, 0.0, Strength(radius, radius))
	assert.Equal(t, 0.0, Strength(radius+1, radius))
	assert.Equal(t, 0.0, Strength(10, 0))

	prev := Strength(0, radius)
	for d := 1.0; d <= radius; d++ {
		s := Strength(d, radius)
		assert.Less(t, s, prev, "strength must decrease at d=%v", d)
		prev = s
	}
}

func TestBuild_TwoParticlesAtFifty(t *testing.T) {
	for _, b := range builders() {
		t.Run(b.Name(), func(t *testing.T) {
			ps := population(dynamo.Vec2{X: 100, Y: 100}, dynamo.Vec2{X: 130, Y: 140})
			adj := b.Build(ps, 120)

			require.Len(t, adj, 2)
			require.Len(t, adj[0], 1)
			require.Len(t, adj[1], 1)
			assert.Equal(t, 1, adj.Edges())

			a, c := adj[0][0], adj[1][0]
			assert.Equal(t, 1, a.To)
			assert.Equal(t, 0, c.To)
			assert.InDelta(t, 50, a.Distance, 1e-9)
			assert.InDelta(t, 1-50.0/120.0, a.Strength, 1e-9)
			assert.InDelta(t, 0.583, a.Strength, 1e-3)
			assert.Equal(t, a.Distance, c.Distance)
			assert.Equal(t, a.Strength, c.Strength)
		})
	}
}

func TestBuild_ExactlyAtRadiusIsNotConnected(t *testing.T) {
	for _, b := range builders() {
		ps := population(dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 120, Y: 0})
		adj := b.Build(ps, 120)
		assert.Zero(t, adj.Edges(), b.Name())
	}
}

func TestBuild_Degenerate(t *testing.T) {
	for _, b := range builders() {
		assert.Empty(t, b.Build(nil, 120), b.Name())

		ps := population(dynamo.Vec2{X: 1, Y: 1}, dynamo.Vec2{X: 1, Y: 1})
		adj := b.Build(ps, 0)
		assert.Zero(t, adj.Edges(), b.Name())

		adj = b.Build(ps, 10)
		require.Equal(t, 1, adj.Edges(), b.Name())
		assert.Equal(t, 1.0, adj[0][0].Strength)
	}
}

func TestBuild_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ps := randomPopulation(rng, 60, 800, 600)

	for _, b := range builders() {
		adj := b.Build(ps, 120)
		for i, conns := range adj {
			for _, c := range conns {
				require.Equal(t, i, c.From)
				var found bool
				for _, back := range adj[c.To] {
					if back.To == i {
						found = true
						assert.Equal(t, c.Distance, back.Distance)
						assert.Equal(t, c.Strength, back.Strength)
					}
				}
				assert.True(t, found, "%s: %d->%d has no reverse", b.Name(), i, c.To)
				assert.Less(t, c.Distance, 120.0)
				assert.GreaterOrEqual(t, c.Strength, 0.0)
				assert.LessOrEqual(t, c.Strength, 1.0)
			}
		}
	}
}

func TestGrid_MatchesPairwise(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	grid := NewGrid()

	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(120)
		radius := 20 + rng.Float64()*150
		ps := randomPopulation(rng, n, 1000, 700)

		want := NewPairwise().Build(ps, radius)
		got := grid.Build(ps, radius)
		require.Equal(t, len(want), len(got))
		for i := range want {
			require.Equal(t, len(want[i]), len(got[i]), "trial %d particle %d", trial, i)
			for k := range want[i] {
				assert.Equal(t, want[i][k].To, got[i][k].To)
				assert.True(t, math.Abs(want[i][k].Distance-got[i][k].Distance) < 1e-12)
			}
		}
	}
}

func TestPairwise_OrderedByNeighbor(t *testing.T) {
	ps := population(
		dynamo.Vec2{X: 50, Y: 50},
		dynamo.Vec2{X: 60, Y: 50},
		dynamo.Vec2{X: 40, Y: 50},
		dynamo.Vec2{X: 50, Y: 60},
	)
	adj := NewPairwise().Build(ps, 120)
	for _, conns := range adj {
		for k := 1; k < len(conns); k++ {
			assert.Less(t, conns[k-1].To, conns[k].To)
		}
	}
}

func benchmarkBuilder(b *testing.B, builder Builder, n int) {
	rng := rand.New(rand.NewSource(1))
	ps := randomPopulation(rng, n, 1920, 1080)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		builder.Build(ps, 120)
	}
}

func BenchmarkPairwise35(b *testing.B) { benchmarkBuilder(b, NewPairwise(), 35) }
func BenchmarkGrid35(b *testing.B) { benchmarkBuilder(b, NewGrid(), 35) }
func BenchmarkPairwise500(b *testing.B) { benchmarkBuilder(b, NewPairwise(), 500) }
func BenchmarkGrid500(b *testing.B) { benchmarkBuilder(b, NewGrid(), 500) }
