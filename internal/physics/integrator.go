package physics

import (
	"math/rand"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/graph"
)

type Integrator struct {
	radius      float64
	friction    float64
	restitution float64
	attraction  float64
	energy      EnergyCycle
	builder     graph.Builder
	rng         *rand.Rand
}

// NewIntegrator expects a validated config.
func NewIntegrator(cfg *config.Config, builder graph.Builder, rng *rand.Rand) *Integrator {
	return &Integrator{
		radius:      cfg.Physics.ConnectionRadius,
		friction:    cfg.Physics.Friction,
		restitution: cfg.Physics.Restitution,
		attraction:  cfg.Physics.Attraction,
		energy:      NewEnergyCycle(cfg.Energy),
		builder:     builder,
		rng:         rng,
	}
}

func (in *Integrator) Energy() EnergyCycle { return in.energy }

// Tick advances every particle by one unit step inside vp and returns the
// connection graph the attraction phase used.
func (in *Integrator) Tick(particles []*dynamo.Particle, vp dynamo.Viewport) dynamo.Adjacency {
	for _, p := range particles {
		p.Pos = p.Pos.Add(p.Vel)
		Bounce(p, vp, in.restitution)
		p.Vel = p.Vel.Scale(in.friction)
	}

	adj := in.builder.Build(particles, in.radius)

	for _, p := range particles {
		Attract(p, particles, adj.Of(p.ID), in.attraction)
		p.Energy = in.energy.Step(p.Energy, in.rng)
	}
	return adj
}

// Bounce clamps each axis independently. An axis that left [0, dim] gets its
// velocity component pointed back inward and scaled by restitution.
func Bounce(p *dynamo.Particle, vp dynamo.Viewport, restitution float64) {
	p.Pos.X, p.Vel.X = reflect(p.Pos.X, p.Vel.X, vp.Width, restitution)
	p.Pos.Y, p.Vel.Y = reflect(p.Pos.Y, p.Vel.Y, vp.Height, restitution)
}

func reflect(pos, vel, limit, restitution float64) (float64, float64) {
	switch {
	case pos < 0:
		return 0, abs(vel) * restitution
	case pos > limit:
		return limit, -abs(vel) * restitution
	}
	return pos, vel
}

// Attract nudges p toward each connected neighbor along the unit
// displacement, scaled by coeff.
func Attract(p *dynamo.Particle, particles []*dynamo.Particle, conns []dynamo.Connection, coeff float64) {
	if coeff == 0 {
		return
	}
	for _, c := range conns {
		if c.Distance <= 0 {
			continue
		}
		toward := particles[c.To].Pos.Sub(p.Pos)
		p.Vel = p.Vel.Add(toward.Scale(coeff / c.Distance))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
