package text

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Measurer returns the advance width of s set at size. Both are millipoints.
type Measurer interface {
	Width(s string, size int) int
}

// FontMeasurer measures with the metrics of an OpenType font. It is not safe
// for concurrent use.
type FontMeasurer struct {
	font *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6
	upem int64

	glyphs   map[rune]sfnt.GlyphIndex
	advances map[sfnt.GlyphIndex]fixed.Int26_6
}

// NewFontMeasurer parses an OpenType or TrueType font.
func NewFontMeasurer(data []byte) (*FontMeasurer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font: %w", err)
	}
	upem := int(f.UnitsPerEm())
	if upem <= 0 {
		return nil, errors.New("font has no units per em")
	}
	return &FontMeasurer{
		font:     f,
		ppem:     fixed.I(upem),
		upem:     int64(upem),
		glyphs:   make(map[rune]sfnt.GlyphIndex),
		advances: make(map[sfnt.GlyphIndex]fixed.Int26_6),
	}, nil
}

// DefaultMeasurer measures with Go Regular.
func DefaultMeasurer() *FontMeasurer {
	m, err := NewFontMeasurer(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *FontMeasurer) glyph(r rune) sfnt.GlyphIndex {
	if g, ok := m.glyphs[r]; ok {
		return g
	}
	g, err := m.font.GlyphIndex(&m.buf, r)
	if err != nil {
		g = 0
	}
	m.glyphs[r] = g
	return g
}

func (m *FontMeasurer) advance(g sfnt.GlyphIndex) fixed.Int26_6 {
	if a, ok := m.advances[g]; ok {
		return a
	}
	// with ppem equal to units per em the advance comes back in font units
	a, err := m.font.GlyphAdvance(&m.buf, g, m.ppem, font.HintingNone)
	if err != nil {
		a = 0
	}
	m.advances[g] = a
	return a
}

// Width sums glyph advances and kerning.
func (m *FontMeasurer) Width(s string, size int) int {
	var (
		total fixed.Int26_6
		prev  sfnt.GlyphIndex
	)
	for i, r := range s {
		g := m.glyph(r)
		if i > 0 {
			if k, err := m.font.Kern(&m.buf, prev, g, m.ppem, font.HintingNone); err == nil {
				total += k
			}
		}
		total += m.advance(g)
		prev = g
	}
	return int(int64(total) * int64(size) / (m.upem * 64))
}

// Monospace gives every character the same advance, Advance thousandths of
// the font size.
type Monospace struct {
	Advance int
}

func (m Monospace) Width(s string, size int) int {
	return utf8.RuneCountInString(s) * size * m.Advance / 1000
}
