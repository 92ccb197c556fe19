package physics

import (
	"math/rand"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
)

// NewPopulation creates count particles uniformly inside vp. Symbols, hue,
// size and opacity are drawn from p; energy starts in [0, maxEnergy).
func NewPopulation(p config.ParticlesConfig, maxEnergy float64, vp dynamo.Viewport, rng *rand.Rand) []*dynamo.Particle {
	if p.Count <= 0 || len(p.Symbols) == 0 {
		return []*dynamo.Particle{}
	}

	particles := make([]*dynamo.Particle, p.Count)
	for i := range particles {
		size := sample(rng, p.Size)
		particles[i] = &dynamo.Particle{
			ID: i,
			Pos: dynamo.Vec2{
				X: rng.Float64() * vp.Width,
				Y: rng.Float64() * vp.Height,
			},
			Vel: dynamo.Vec2{
				X: (rng.Float64() - 0.5) * 2 * p.Speed,
				Y: (rng.Float64() - 0.5) * 2 * p.Speed,
			},
			Symbol:  p.Symbols[rng.Intn(len(p.Symbols))],
			Size:    size,
			Mass:    size / 10,
			Opacity: sample(rng, p.Opacity),
			Hue:     sample(rng, p.Hue),
			Energy:  rng.Float64() * maxEnergy,
		}
	}
	return particles
}

func sample(rng *rand.Rand, r config.Range) float64 {
	return r.Min + rng.Float64()*r.Span()
}
