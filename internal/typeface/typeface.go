// Package typeface loads the glyph fonts shared by the window and raster
// surfaces. Go Regular draws first; M+ 1p covers the mathematical symbols
// Go Regular has no outline for (∇, ∈, ⊂, ∅, ℝ and friends).
package typeface

import (
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Sources returns the font files in priority order.
func Sources() [][]byte {
	return [][]byte{goregular.TTF, fonts.MPlus1pRegular_ttf}
}

// Set is the parsed font stack. It is not safe for concurrent use.
type Set struct {
	fonts []*opentype.Font
	buf   sfnt.Buffer
}

func Load() (*Set, error) {
	s := &Set{}
	for i, src := range Sources() {
		f, err := opentype.Parse(src)
		if err != nil {
			return nil, errors.Wrapf(err, "parse font %d", i)
		}
		s.fonts = append(s.fonts, f)
	}
	return s, nil
}

func (s *Set) Fonts() []*opentype.Font { return s.fonts }

// Covers reports whether some font in the set has an outline for r.
func (s *Set) Covers(r rune) bool {
	_, ok := s.lookup(r)
	return ok
}

// Pick returns the index of the first font with an outline for r. Runes no
// font covers go to the primary font, which draws its notdef box.
func (s *Set) Pick(r rune) int {
	i, _ := s.lookup(r)
	return i
}

func (s *Set) lookup(r rune) (int, bool) {
	for i, f := range s.fonts {
		if g, err := f.GlyphIndex(&s.buf, r); err == nil && g != 0 {
			return i, true
		}
	}
	return 0, false
}

// Run is a stretch of text drawn with one font.
type Run struct {
	Font int
	Text string
}

// Runs splits text into maximal runs that share a font.
func (s *Set) Runs(text string) []Run {
	var runs []Run
	start, cur := 0, -1
	for i, r := range text {
		f := s.Pick(r)
		if f != cur && cur >= 0 {
			runs = append(runs, Run{Font: cur, Text: text[start:i]})
			start = i
		}
		cur = f
	}
	if cur >= 0 && utf8.RuneCountInString(text[start:]) > 0 {
		runs = append(runs, Run{Font: cur, Text: text[start:]})
	}
	return runs
}
