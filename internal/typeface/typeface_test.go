package typeface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/registry"
)

func TestEveryPaletteSymbolHasAnOutline(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	reg := registry.New()
	for _, name := range reg.ListPalettes() {
		symbols, err := reg.Palette(name)
		require.NoError(t, err)
		for _, sym := range symbols {
			for _, r := range sym {
				assert.Truef(t, set.Covers(r), "palette %s: %q has no glyph", name, r)
			}
		}
	}
	for _, sym := range config.DefaultSymbols {
		for _, r := range sym {
			assert.Truef(t, set.Covers(r), "default symbol %q has no glyph", r)
		}
	}
}

func TestPickPrefersPrimary(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, set.Pick('x'))
	assert.Equal(t, 0, set.Pick('π'))
	for _, r := range "∇∛∮∈∉⊂⊃∅" {
		assert.Equalf(t, 1, set.Pick(r), "%q should come from the fallback font", r)
	}
}

func TestRuns(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []Run{{Font: 0, Text: "dy/dx"}}, set.Runs("dy/dx"))
	assert.Equal(t, []Run{{Font: 1, Text: "∈"}}, set.Runs("∈"))
	assert.Equal(t, []Run{{Font: 0, Text: "x"}, {Font: 1, Text: "∈ℝ"}}, set.Runs("x∈ℝ"))
	assert.Empty(t, set.Runs(""))
}
