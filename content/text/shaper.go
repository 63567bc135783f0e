package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"foflow/common"
	"foflow/layout/knuth"
)

// Span is a piece of paragraph text set in one size.
type Span struct {
	Text string
	// Size is the font size in millipoints.
	Size int
	Node knuth.NodeID
}

// SegmentKind tells what a segment stands for.
type SegmentKind uint8

const (
	SegmentWord SegmentKind = iota
	SegmentSpace
	SegmentHyphen
)

// Segment is the text behind one or more elements of a shaped run. Element
// positions index the segment table of their run.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Run is a shaped paragraph.
type Run struct {
	List     knuth.List
	Segments []Segment
}

// Options tune shaping.
type Options struct {
	// HyphenPenalty is the cost of breaking at a hyphenation point.
	HyphenPenalty int
	// ExplicitHyphenPenalty is the cost of breaking after a hyphen in text.
	ExplicitHyphenPenalty int
	// MinWordLength is the shortest word that is hyphenated.
	MinWordLength int
	// FrenchSpacing turns off the extra stretch after sentences.
	FrenchSpacing bool
	// SentenceStretch multiplies the stretch of spaces ending sentences.
	SentenceStretch float64
}

// DefaultOptions returns TeX like values.
func DefaultOptions() Options {
	return Options{
		HyphenPenalty:         50,
		ExplicitHyphenPenalty: 50,
		MinWordLength:         5,
		SentenceStretch:       1.5,
	}
}

// Shaper converts paragraph text into boxes, glues and penalties.
type Shaper struct {
	measure Measurer
	hyph    *Hyphenator
	split   *Splitter
	opt     Options
}

// NewShaper returns a shaper. Hyphenator and splitter may be nil.
func NewShaper(m Measurer, h *Hyphenator, sp *Splitter, opt Options) *Shaper {
	if m == nil {
		m = DefaultMeasurer()
	}
	return &Shaper{measure: m, hyph: h, split: sp, opt: opt}
}

// Shape produces the element list of a paragraph. Whitespace collapses into
// single interword glues, leading and trailing whitespace disappears and the
// list ends with the usual fill glue and forced break. A paragraph without
// text yields an empty run.
func (s *Shaper) Shape(spans []Span) Run {
	var joined strings.Builder
	texts := make([]string, len(spans))
	for i, sp := range spans {
		texts[i] = norm.NFC.String(sp.Text)
		joined.WriteString(texts[i])
	}

	sentenceEnds := make(map[int]bool)
	if !s.opt.FrenchSpacing {
		for _, e := range s.split.Ends(joined.String()) {
			sentenceEnds[e] = true
		}
	}

	st := &shapeState{Shaper: s}
	base := 0
	for i, sp := range spans {
		sp.Text = texts[i]
		for off, r := range sp.Text {
			switch {
			case r == '\u00A0':
				st.flushWord()
				st.pending = false
				st.nbsp(sp)
			case isSeparator(r, false):
				st.flushWord()
				if !st.pending {
					st.pending = true
					st.pendingSpan = sp
					st.sentence = sentenceEnds[base+off]
				}
			default:
				if st.pending {
					st.space()
				}
				st.word.WriteRune(r)
				st.wordSpan = sp
			}
		}
		st.flushWord()
		base += len(sp.Text)
	}
	return st.finish()
}

type shapeState struct {
	*Shaper
	run Run

	word     strings.Builder
	wordSpan Span

	pending     bool
	pendingSpan Span
	sentence    bool
}

func (st *shapeState) segment(kind SegmentKind, text string, node knuth.NodeID) knuth.Position {
	st.run.Segments = append(st.run.Segments, Segment{Kind: kind, Text: text})
	return knuth.At(node, len(st.run.Segments)-1)
}

func (st *shapeState) lastIsGlue() bool {
	l := st.run.List
	return len(l) > 0 && l[len(l)-1].IsGlue()
}

// space emits the pending interword glue unless nothing precedes it.
func (st *shapeState) space() {
	st.pending = false
	if len(st.run.List) == 0 || st.lastIsGlue() {
		return
	}
	sp := st.pendingSpan
	w := st.measure.Width(" ", sp.Size)
	stretch := w / 2
	if st.sentence && st.opt.SentenceStretch > 0 {
		stretch = int(float64(stretch) * st.opt.SentenceStretch)
	}
	pos := st.segment(SegmentSpace, " ", sp.Node)
	st.run.List = append(st.run.List, knuth.NewGlue(w, stretch, w/3, pos))
}

// nbsp emits a space nobody may break at.
func (st *shapeState) nbsp(sp Span) {
	if st.lastIsGlue() {
		return
	}
	w := st.measure.Width(" ", sp.Size)
	pos := st.segment(SegmentSpace, " ", sp.Node)
	st.run.List = append(st.run.List, knuth.NewKeep(pos), knuth.NewGlue(w, w/2, w/3, pos))
}

// flushWord emits the collected word, allowing breaks after explicit hyphens
// and at hyphenation points.
func (st *shapeState) flushWord() {
	if st.word.Len() == 0 {
		return
	}
	word := st.word.String()
	st.word.Reset()
	sp := st.wordSpan

	parts := splitAfterHyphens(word)
	for i, part := range parts {
		st.syllables(part, sp)
		if i < len(parts)-1 {
			pos := st.segment(SegmentHyphen, "", sp.Node)
			st.run.List = append(st.run.List, knuth.NewPenalty(0, st.opt.ExplicitHyphenPenalty, true, pos))
		}
	}
}

func (st *shapeState) syllables(part string, sp Span) {
	prefix, core, suffix, ok := splitCore(part)
	syl := []string{core}
	if ok && st.hyph != nil && utf8.RuneCountInString(core) >= st.opt.MinWordLength {
		syl = st.hyph.Syllables(core)
	}
	syl[0] = prefix + syl[0]
	syl[len(syl)-1] += suffix

	hw := st.measure.Width("-", sp.Size)
	for i, text := range syl {
		if i > 0 {
			pos := st.segment(SegmentHyphen, "-", sp.Node)
			st.run.List = append(st.run.List, knuth.NewPenalty(hw, st.opt.HyphenPenalty, true, pos))
		}
		pos := st.segment(SegmentWord, text, sp.Node)
		st.run.List = append(st.run.List, knuth.NewBox(st.measure.Width(text, sp.Size), pos))
	}
}

func (st *shapeState) finish() Run {
	l := st.run.List
	for len(l) > 0 && !l[len(l)-1].IsBox() {
		l = l[:len(l)-1]
	}
	if len(l) == 0 {
		return Run{}
	}
	st.run.List = append(l,
		knuth.NewKeep(knuth.NoPosition),
		knuth.NewGlue(0, knuth.Fil, 0, knuth.NoPosition),
		knuth.NewForcedBreak(common.BreakClassAuto, knuth.NoPosition),
	)
	return st.run
}

func isHyphen(r rune) bool {
	return r == '-' || r == '\u2010'
}

// splitAfterHyphens cuts word after every hyphen that has letters on both
// sides.
func splitAfterHyphens(word string) []string {
	var (
		parts []string
		start int
		prev  rune
	)
	for i, r := range word {
		if isHyphen(prev) && unicode.IsLetter(r) && i-utf8.RuneLen(prev) > start {
			parts = append(parts, word[start:i])
			start = i
		}
		prev = r
	}
	return append(parts, word[start:])
}

// splitCore separates leading and trailing punctuation from the letters of
// a word. It fails when letters are mixed with other characters.
func splitCore(word string) (prefix, core, suffix string, ok bool) {
	isLetter := func(r rune) bool { return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) }
	first := strings.IndexFunc(word, isLetter)
	if first < 0 {
		return "", word, "", false
	}
	last := strings.LastIndexFunc(word, isLetter)
	_, size := utf8.DecodeRuneInString(word[last:])
	core = word[first : last+size]
	if strings.IndexFunc(core, func(r rune) bool { return !isLetter(r) }) >= 0 {
		return "", word, "", false
	}
	return word[:first], core, word[last+size:], true
}

// Text returns the text standing behind elements start..end of l, a list built
// from the run's elements. The element at end is the break: glue there is
// dropped and a penalty with a width shows its hyphen.
func (r Run) Text(l knuth.List, start, end int) string {
	var b strings.Builder
	for i := start; i <= end && i < len(l); i++ {
		e := l[i]
		off := e.Pos.Offset
		if !e.Pos.Valid() || off < 0 || off >= len(r.Segments) {
			continue
		}
		switch {
		case e.IsBox():
			b.WriteString(r.Segments[off].Text)
		case e.IsGlue() && i < end:
			if b.Len() > 0 {
				b.WriteString(r.Segments[off].Text)
			}
		case e.IsPenalty() && i == end && e.Width > 0:
			b.WriteString(r.Segments[off].Text)
		}
	}
	return b.String()
}

func isSeparator(r rune, ignoreNBSP bool) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		// exclude NBSP from the list of white space separators for latin1 symbols
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85:
			return true
		case 0xA0: // NBSP
			return ignoreNBSP
		}
		return false
	}
	return unicode.IsSpace(r)
}
