// Package registry resolves neighbor-graph builders and symbol palettes by
// name.
package registry

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/graph"
)

var ErrUnknown = errors.New("registry: unknown name")

type Registry struct {
	builders map[string]func() graph.Builder
	palettes map[string][]string
}

func New() *Registry {
	r := &Registry{
		builders: make(map[string]func() graph.Builder),
		palettes: make(map[string][]string),
	}

	r.builders["pairwise"] = func() graph.Builder { return graph.NewPairwise() }
	r.builders["grid"] = func() graph.Builder { return graph.NewGrid() }

	r.palettes["math"] = config.DefaultSymbols
	r.palettes["greek"] = []string{
		"α", "β", "γ", "δ", "ε", "ζ", "η", "θ", "λ", "μ", "ξ", "π", "ρ", "σ", "τ", "φ", "χ", "ψ", "ω",
		"Γ", "Δ", "Θ", "Λ", "Ξ", "Π", "Σ", "Φ", "Ψ", "Ω",
	}
	r.palettes["calculus"] = []string{"∫", "∬", "∭", "∮", "∂", "∇", "∑", "∏", "lim", "dx", "dy", "∞", "Δ", "′", "″"}
	r.palettes["sets"] = []string{"∈", "∉", "⊂", "⊃", "⊆", "⊇", "∪", "∩", "∅", "ℕ", "ℤ", "ℚ", "ℝ", "ℂ", "∀", "∃", "¬", "∧", "∨"}
	r.palettes["operators"] = []string{"+", "−", "×", "÷", "±", "=", "≠", "≈", "≤", "≥", "√", "∝", "≡", "⊕", "⊗"}

	return r
}

// Builder returns a fresh builder instance; builders may hold scratch state.
func (r *Registry) Builder(name string) (graph.Builder, error) {
	fn, ok := r.builders[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknown, "builder %q", name)
	}
	return fn(), nil
}

// Palette returns a copy of the named symbol set.
func (r *Registry) Palette(name string) ([]string, error) {
	p, ok := r.palettes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknown, "palette %q", name)
	}
	return append([]string(nil), p...), nil
}

func (r *Registry) ListBuilders() []string { return keys(r.builders) }

func (r *Registry) ListPalettes() []string { return keys(r.palettes) }

// Apply resolves the palette and validates the builder named by cfg.
func (r *Registry) Apply(cfg *config.Config) error {
	if name := cfg.Particles.Palette; name != "" {
		p, err := r.Palette(name)
		if err != nil {
			return err
		}
		cfg.Particles.Symbols = p
	}
	if _, ok := r.builders[cfg.Physics.Builder]; !ok {
		return errors.Wrapf(ErrUnknown, "builder %q", cfg.Physics.Builder)
	}
	return nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
