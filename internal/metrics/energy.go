package metrics

import "github.com/san-kum/symfield/internal/dynamo"

// MeanEnergy is the particle energy averaged over the most recent frame.
type MeanEnergy struct {
	name  string
	value float64
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "mean_energy"}
}

func (m *MeanEnergy) Name() string { return m.name }

func (m *MeanEnergy) Observe(f dynamo.Frame) {
	if len(f.Particles) == 0 {
		m.value = 0
		return
	}
	var total float64
	for _, p := range f.Particles {
		total += p.Energy
	}
	m.value = total / float64(len(f.Particles))
}

func (m *MeanEnergy) Value() float64 { return m.value }

func (m *MeanEnergy) Reset() { m.value = 0 }

// ChargedFraction is the share of particles whose energy ratio exceeds a
// threshold, the same cut the renderer uses for rings.
type ChargedFraction struct {
	name      string
	maxEnergy float64
	threshold float64
	value     float64
}

func NewChargedFraction(maxEnergy, threshold float64) *ChargedFraction {
	return &ChargedFraction{name: "charged_fraction", maxEnergy: maxEnergy, threshold: threshold}
}

func (c *ChargedFraction) Name() string { return c.name }

func (c *ChargedFraction) Observe(f dynamo.Frame) {
	if len(f.Particles) == 0 || c.maxEnergy <= 0 {
		c.value = 0
		return
	}
	n := 0
	for _, p := range f.Particles {
		if p.Energy/c.maxEnergy > c.threshold {
			n++
		}
	}
	c.value = float64(n) / float64(len(f.Particles))
}

func (c *ChargedFraction) Value() float64 { return c.value }

func (c *ChargedFraction) Reset() { c.value = 0 }
