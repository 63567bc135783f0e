package fo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"foflow/common"
	"foflow/css"
	"foflow/layout/knuth"
)

// Space is a space-before or space-after specification.
type Space struct {
	Length     knuth.MinOptMax
	Discard    bool
	Precedence int
}

// Edge is a border or padding width in block-progression direction.
type Edge struct {
	Width   int
	Discard bool
}

// Keep is a keep constraint: auto, always or an integer strength.
type Keep struct {
	Strength int
	Always   bool
}

// IsAuto reports whether the keep imposes nothing.
func (k Keep) IsAuto() bool {
	return !k.Always && k.Strength == 0
}

func (k Keep) String() string {
	switch {
	case k.Always:
		return "always"
	case k.Strength > 0:
		return strconv.Itoa(k.Strength)
	}
	return "auto"
}

// Stronger returns the stronger of two keeps.
func (k Keep) Stronger(o Keep) Keep {
	if k.Always || (!o.Always && k.Strength >= o.Strength) {
		return k
	}
	return o
}

// Properties are the computed traits of a node. Extents are millipoints.
type Properties struct {
	// Inherited.
	FontSize      int
	LineHeight    int
	TextAlign     common.Alignment
	TextAlignLast common.Alignment
	Orphans       int
	Widows        int
	Language      language.Tag
	Hyphenate     bool

	lastSet bool

	TextIndent  int
	StartIndent int
	EndIndent   int

	SpaceBefore, SpaceAfter     Space
	BorderBefore, BorderAfter   Edge
	PaddingBefore, PaddingAfter Edge
	// Inline-progression borders and paddings narrow the content rectangle.
	BorderStart, BorderEnd   int
	PaddingStart, PaddingEnd int

	KeepTogether     Keep
	KeepWithNext     Keep
	KeepWithPrevious Keep
	BreakBefore      common.BreakClass
	BreakAfter       common.BreakClass

	// List blocks.
	ProvisionalDistance   int
	ProvisionalSeparation int

	// Tables: one entry per column.
	Columns []Length
}

// Defaults are the initial values of the root node.
type Defaults struct {
	FontSize int
	// LineHeight is a factor of the font size.
	LineHeight float64
	Language   language.Tag
	Hyphenate  bool
	TextAlign  common.Alignment
}

// DefaultProperties returns root properties for the defaults.
func DefaultProperties(d Defaults) Properties {
	if d.FontSize <= 0 {
		d.FontSize = 10000
	}
	if d.LineHeight <= 0 {
		d.LineHeight = 1.2
	}
	return Properties{
		FontSize:              d.FontSize,
		LineHeight:            int(math.Round(float64(d.FontSize) * d.LineHeight)),
		TextAlign:             d.TextAlign,
		TextAlignLast:         lastFor(d.TextAlign),
		Orphans:               2,
		Widows:                2,
		Language:              d.Language,
		Hyphenate:             d.Hyphenate,
		ProvisionalDistance:   24000,
		ProvisionalSeparation: 6000,
	}.withConditionality()
}

func lastFor(a common.Alignment) common.Alignment {
	if a == common.AlignmentJustify {
		return common.AlignmentStart
	}
	return a
}

// Inherited returns the properties a child starts with.
func (p Properties) Inherited() Properties {
	return Properties{
		FontSize:              p.FontSize,
		LineHeight:            p.LineHeight,
		TextAlign:             p.TextAlign,
		TextAlignLast:         p.TextAlignLast,
		Orphans:               p.Orphans,
		Widows:                p.Widows,
		Language:              p.Language,
		Hyphenate:             p.Hyphenate,
		lastSet:               p.lastSet,
		ProvisionalDistance:   p.ProvisionalDistance,
		ProvisionalSeparation: p.ProvisionalSeparation,
	}.withConditionality()
}

// withConditionality sets the initial "discard" conditionality of spaces,
// borders and paddings.
func (p Properties) withConditionality() Properties {
	p.SpaceBefore.Discard, p.SpaceAfter.Discard = true, true
	p.BorderBefore.Discard, p.BorderAfter.Discard = true, true
	p.PaddingBefore.Discard, p.PaddingAfter.Discard = true, true
	return p
}

// Summary lists non-default block-level properties for dumps.
func (p Properties) Summary() string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}
	if !p.SpaceBefore.Length.IsZero() {
		add("space-before=%s", p.SpaceBefore.Length)
	}
	if !p.SpaceAfter.Length.IsZero() {
		add("space-after=%s", p.SpaceAfter.Length)
	}
	if p.BorderBefore.Width != 0 || p.BorderAfter.Width != 0 {
		add("border=%d/%d", p.BorderBefore.Width, p.BorderAfter.Width)
	}
	if p.PaddingBefore.Width != 0 || p.PaddingAfter.Width != 0 {
		add("padding=%d/%d", p.PaddingBefore.Width, p.PaddingAfter.Width)
	}
	if !p.KeepTogether.IsAuto() {
		add("keep-together=%s", p.KeepTogether)
	}
	if !p.KeepWithNext.IsAuto() {
		add("keep-with-next=%s", p.KeepWithNext)
	}
	if !p.KeepWithPrevious.IsAuto() {
		add("keep-with-previous=%s", p.KeepWithPrevious)
	}
	if p.BreakBefore.Forces() {
		add("break-before=%s", p.BreakBefore)
	}
	if p.BreakAfter.Forces() {
		add("break-after=%s", p.BreakAfter)
	}
	return strings.Join(parts, " ")
}

// Set applies one property. Lengths in ems refer to the font size already
// computed, so font-size should be set first.
func (p *Properties) Set(name string, v css.Value, parent *Properties) error {
	name = strings.ToLower(name)
	base, component, _ := strings.Cut(name, ".")

	switch base {
	case "font-size":
		ref := p.FontSize
		if parent != nil {
			ref = parent.FontSize
		}
		var size int
		if v.Unit == "%" {
			size = int(math.Round(float64(ref) * v.Value / 100))
		} else {
			var err error
			if size, err = lengthOf(v, ref); err != nil {
				return err
			}
		}
		if size <= 0 {
			return fmt.Errorf("font size %q must be positive", v.Raw)
		}
		factor := float64(p.LineHeight) / float64(max(p.FontSize, 1))
		p.FontSize = size
		p.LineHeight = int(math.Round(float64(size) * factor))

	case "line-height":
		switch {
		case v.Keyword == "normal":
			p.LineHeight = int(math.Round(float64(p.FontSize) * 1.2))
		case v.Unit == "" && v.IsNumeric():
			p.LineHeight = int(math.Round(float64(p.FontSize) * v.Value))
		case v.Unit == "%":
			p.LineHeight = int(math.Round(float64(p.FontSize) * v.Value / 100))
		default:
			h, err := lengthOf(v, p.FontSize)
			if err != nil {
				return err
			}
			p.LineHeight = h
		}

	case "text-align":
		a, err := parseAlignment(v)
		if err != nil {
			return err
		}
		p.TextAlign = a
		if !p.lastSet {
			p.TextAlignLast = lastFor(a)
		}

	case "text-align-last":
		if v.Keyword == "relative" {
			p.TextAlignLast = lastFor(p.TextAlign)
			p.lastSet = false
			break
		}
		a, err := parseAlignment(v)
		if err != nil {
			return err
		}
		p.TextAlignLast = a
		p.lastSet = true

	case "text-indent":
		return p.setLength(&p.TextIndent, v)
	case "start-indent", "margin-left":
		return p.setLength(&p.StartIndent, v)
	case "end-indent", "margin-right":
		return p.setLength(&p.EndIndent, v)

	case "space-before", "margin-top":
		return p.setSpace(&p.SpaceBefore, component, v)
	case "space-after", "margin-bottom":
		return p.setSpace(&p.SpaceAfter, component, v)

	case "border-before-width":
		return p.setEdge(&p.BorderBefore, component, v)
	case "border-after-width":
		return p.setEdge(&p.BorderAfter, component, v)
	case "border-start-width":
		return p.setLength(&p.BorderStart, v)
	case "border-end-width":
		return p.setLength(&p.BorderEnd, v)
	case "border-width":
		return p.setAll(&p.BorderBefore, &p.BorderAfter, &p.BorderStart, &p.BorderEnd, v)

	case "padding-before", "padding-top":
		return p.setEdge(&p.PaddingBefore, component, v)
	case "padding-after", "padding-bottom":
		return p.setEdge(&p.PaddingAfter, component, v)
	case "padding-start", "padding-left":
		return p.setLength(&p.PaddingStart, v)
	case "padding-end", "padding-right":
		return p.setLength(&p.PaddingEnd, v)
	case "padding":
		return p.setAll(&p.PaddingBefore, &p.PaddingAfter, &p.PaddingStart, &p.PaddingEnd, v)

	case "keep-together":
		return setKeep(&p.KeepTogether, v)
	case "keep-with-next":
		return setKeep(&p.KeepWithNext, v)
	case "keep-with-previous":
		return setKeep(&p.KeepWithPrevious, v)

	case "break-before", "page-break-before":
		return setBreak(&p.BreakBefore, v)
	case "break-after", "page-break-after":
		return setBreak(&p.BreakAfter, v)

	case "orphans":
		return setCount(&p.Orphans, v)
	case "widows":
		return setCount(&p.Widows, v)

	case "language", "xml:lang":
		tag, err := language.Parse(v.Raw)
		if err != nil {
			return fmt.Errorf("language %q: %w", v.Raw, err)
		}
		p.Language = tag

	case "hyphenate":
		switch v.Keyword {
		case "true":
			p.Hyphenate = true
		case "false":
			p.Hyphenate = false
		default:
			return fmt.Errorf("hyphenate must be true or false, got %q", v.Raw)
		}

	case "provisional-distance-between-starts":
		return p.setLength(&p.ProvisionalDistance, v)
	case "provisional-label-separation":
		return p.setLength(&p.ProvisionalSeparation, v)

	default:
		return errUnsupported
	}
	return nil
}

var errUnsupported = errors.New("unsupported property")

func (p *Properties) setLength(dst *int, v css.Value) error {
	l, err := lengthOf(v, p.FontSize)
	if err != nil {
		return err
	}
	*dst = l
	return nil
}

func (p *Properties) setSpace(s *Space, component string, v css.Value) error {
	switch component {
	case "", "optimum", "minimum", "maximum":
		l, err := lengthOf(v, p.FontSize)
		if err != nil {
			return err
		}
		switch component {
		case "":
			s.Length = knuth.Fixed(l)
		case "optimum":
			s.Length = knuth.NewMinOptMax(s.Length.Min, l, s.Length.Max)
		case "minimum":
			s.Length = knuth.NewMinOptMax(l, max(s.Length.Opt, l), max(s.Length.Max, l))
		case "maximum":
			s.Length = knuth.NewMinOptMax(min(s.Length.Min, l), min(s.Length.Opt, l), l)
		}
	case "conditionality":
		return setConditionality(&s.Discard, v)
	case "precedence":
		if v.Keyword == "force" {
			s.Precedence = knuth.ForcePrecedence
			break
		}
		n, err := integerOf(v)
		if err != nil {
			return err
		}
		s.Precedence = n
	default:
		return errUnsupported
	}
	return nil
}

func (p *Properties) setEdge(e *Edge, component string, v css.Value) error {
	switch component {
	case "", "length":
		return p.setLength(&e.Width, v)
	case "conditionality":
		return setConditionality(&e.Discard, v)
	}
	return errUnsupported
}

func (p *Properties) setAll(before, after *Edge, start, end *int, v css.Value) error {
	l, err := lengthOf(v, p.FontSize)
	if err != nil {
		return err
	}
	before.Width, after.Width, *start, *end = l, l, l, l
	return nil
}

func setConditionality(discard *bool, v css.Value) error {
	switch v.Keyword {
	case "discard":
		*discard = true
	case "retain":
		*discard = false
	default:
		return fmt.Errorf("conditionality must be discard or retain, got %q", v.Raw)
	}
	return nil
}

func setKeep(k *Keep, v css.Value) error {
	switch v.Keyword {
	case "auto":
		*k = Keep{}
		return nil
	case "always":
		*k = Keep{Always: true}
		return nil
	}
	n, err := integerOf(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("keep must be auto, always or a positive integer, got %q", v.Raw)
	}
	*k = Keep{Strength: n}
	return nil
}

func setBreak(b *common.BreakClass, v css.Value) error {
	name := v.Keyword
	if name == "always" {
		name = "page"
	}
	class, err := common.ParseBreakClass(name)
	if err != nil {
		return err
	}
	*b = class
	return nil
}

func setCount(dst *int, v css.Value) error {
	n, err := integerOf(v)
	if err != nil || n < 1 {
		return fmt.Errorf("expected a positive integer, got %q", v.Raw)
	}
	*dst = n
	return nil
}

func integerOf(v css.Value) (int, error) {
	if v.Unit != "" || !v.IsNumeric() || v.Value != math.Trunc(v.Value) {
		return 0, fmt.Errorf("%q is not an integer", v.Raw)
	}
	return int(v.Value), nil
}

// alignmentAliases maps CSS and relative text-align values to their
// writing-mode neutral names.
var alignmentAliases = map[string]string{
	"left":      "start",
	"inside":    "start",
	"right":     "end",
	"outside":   "end",
	"centre":    "center",
	"justified": "justify",
}

func parseAlignment(v css.Value) (common.Alignment, error) {
	name := strings.ToLower(v.Keyword)
	if alias, ok := alignmentAliases[name]; ok {
		name = alias
	}
	return common.ParseAlignment(name)
}
