package physics

import (
	"math"
	"math/rand"

	"github.com/san-kum/symfield/internal/config"
)

// EnergyCycle decays energy every tick and, while it sits below Threshold,
// adds a random increment in [0, RegenMax). The result stays in [0, Max].
type EnergyCycle struct {
	Max       float64
	Decay     float64
	Threshold float64
	RegenMax  float64
}

func NewEnergyCycle(e config.EnergyConfig) EnergyCycle {
	return EnergyCycle{
		Max:       e.Max,
		Decay:     e.DecayRate,
		Threshold: e.RegenThreshold,
		RegenMax:  e.RegenMax,
	}
}

func (c EnergyCycle) Step(energy float64, rng *rand.Rand) float64 {
	energy = math.Max(0, energy-c.Decay)
	if energy < c.Threshold {
		energy += rng.Float64() * c.RegenMax
	}
	return math.Min(energy, c.Max)
}

// Ratio is energy normalized to [0, 1].
func (c EnergyCycle) Ratio(energy float64) float64 {
	if c.Max <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, energy/c.Max))
}
