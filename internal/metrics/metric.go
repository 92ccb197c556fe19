// Package metrics summarizes simulation frames.
package metrics

import "github.com/san-kum/symfield/internal/dynamo"

type Metric interface {
	Name() string
	Observe(f dynamo.Frame)
	Value() float64
	Reset()
}

// Defaults returns the standard metric set for a given energy cap.
func Defaults(maxEnergy, chargedAt float64) []Metric {
	return []Metric{
		NewMeanEnergy(),
		NewConnections(),
		NewChargedFraction(maxEnergy, chargedAt),
	}
}
