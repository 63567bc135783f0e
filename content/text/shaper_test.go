package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"

	"foflow/layout/breaker"
	"foflow/layout/knuth"
)

// every character is half an em: 5pt at 10pt
var mono = Monospace{Advance: 500}

func kinds(l knuth.List) string {
	out := make([]byte, len(l))
	for i, e := range l {
		switch {
		case e.IsBox():
			out[i] = 'B'
		case e.IsGlue():
			out[i] = 'G'
		case e.IsForcedBreak():
			out[i] = 'F'
		case e.IsForbiddenBreak():
			out[i] = 'K'
		default:
			out[i] = 'P'
		}
	}
	return string(out)
}

func TestShapeWords(t *testing.T) {
	s := NewShaper(mono, nil, nil, DefaultOptions())
	run := s.Shape([]Span{{Text: "  Hello   big\tworld \n", Size: 10000, Node: 3}})

	if diff := cmp.Diff("BGBGBKGF", kinds(run.List)); diff != "" {
		t.Fatalf("element kinds mismatch (-want +got):\n%s", diff)
	}
	if run.List[0].Width != 25000 || run.List[2].Width != 15000 {
		t.Errorf("box widths = %d, %d", run.List[0].Width, run.List[2].Width)
	}
	g := run.List[1]
	if g.Width != 5000 || g.Stretch != 2500 || g.Shrink != 1666 {
		t.Errorf("interword glue = %s", g)
	}
	if run.List[6].Stretch != knuth.Fil {
		t.Errorf("paragraph must end with fill glue, got %s", run.List[6])
	}
	if run.List[2].Pos != knuth.At(3, 2) {
		t.Errorf("position of 'big' = %s", run.List[2].Pos)
	}
	if err := run.List.Validate(3); err != nil {
		t.Fatal(err)
	}
	if got := run.Text(run.List, 0, len(run.List)-1); got != "Hello big world" {
		t.Errorf("Text() = %q", got)
	}
	if got := run.Text(run.List, 0, 1); got != "Hello" {
		t.Errorf("Text() up to a glue break = %q", got)
	}
}

func TestShapeEmpty(t *testing.T) {
	s := NewShaper(mono, nil, nil, DefaultOptions())
	for _, spans := range [][]Span{nil, {{Text: " \n\t", Size: 10000}}} {
		if run := s.Shape(spans); len(run.List) != 0 || len(run.Segments) != 0 {
			t.Errorf("Shape(%v) = %v", spans, run.List)
		}
	}
}

func TestShapeNoBreakSpace(t *testing.T) {
	s := NewShaper(mono, nil, nil, DefaultOptions())
	run := s.Shape([]Span{{Text: "10\u00A0pt and\u00A0more\u00A0", Size: 10000, Node: 1}})

	if diff := cmp.Diff("BKGBGBKGBKGF", kinds(run.List)); diff != "" {
		t.Fatalf("element kinds mismatch (-want +got):\n%s", diff)
	}
	if got := run.Text(run.List, 0, len(run.List)-1); got != "10 pt and more" {
		t.Errorf("Text() = %q", got)
	}
}

func TestShapeHyphenation(t *testing.T) {
	opt := DefaultOptions()
	s := NewShaper(mono, buildHyphenator(t, ""), nil, opt)
	run := s.Shape([]Span{{Text: "hyphenation", Size: 10000, Node: 2}})

	if diff := cmp.Diff("BPBPBKGF", kinds(run.List)); diff != "" {
		t.Fatalf("element kinds mismatch (-want +got):\n%s", diff)
	}
	p := run.List[1]
	if p.Width != 5000 || p.Penalty != opt.HyphenPenalty || !p.Flagged {
		t.Errorf("hyphenation penalty = %s", p)
	}
	if got := run.Text(run.List, 0, 1); got != "hy-" {
		t.Errorf("Text() at a hyphenation break = %q", got)
	}
	if got := run.Text(run.List, 2, len(run.List)-1); got != "phenation" {
		t.Errorf("Text() of the rest = %q", got)
	}

	opt.MinWordLength = 20
	s = NewShaper(mono, buildHyphenator(t, ""), nil, opt)
	if run := s.Shape([]Span{{Text: "hyphenation", Size: 10000}}); kinds(run.List) != "BKGF" {
		t.Errorf("short words must not be hyphenated: %s", run.List)
	}
}

func TestShapePunctuation(t *testing.T) {
	s := NewShaper(mono, buildHyphenator(t, ""), nil, DefaultOptions())
	run := s.Shape([]Span{{Text: "(hyphenation), self-hyphenation", Size: 10000}})

	var words []string
	for _, seg := range run.Segments {
		if seg.Kind == SegmentWord {
			words = append(words, seg.Text)
		}
	}
	want := []string{"(hy", "phen", "ation),", "self-", "hy", "phen", "ation"}
	if diff := cmp.Diff(want, words); diff != "" {
		t.Fatalf("words mismatch (-want +got):\n%s", diff)
	}

	explicit := run.List[7]
	if !explicit.IsPenalty() || explicit.Width != 0 || !explicit.Flagged {
		t.Errorf("explicit hyphen break = %s", explicit)
	}
}

func TestShapeSentences(t *testing.T) {
	logger := zaptest.NewLogger(t)
	text := []Span{{Text: "This is a test. This is another test.", Size: 10000}}

	s := NewShaper(mono, nil, NewSplitter(language.English, logger), DefaultOptions())
	run := s.Shape(text)
	for i, e := range run.List {
		if !e.IsGlue() || e.Stretch == knuth.Fil {
			continue
		}
		want := 2500
		if i == 7 {
			want = 3750
		}
		if e.Stretch != want {
			t.Errorf("glue %d stretch = %d, want %d", i, e.Stretch, want)
		}
	}

	opt := DefaultOptions()
	opt.FrenchSpacing = true
	s = NewShaper(mono, nil, NewSplitter(language.English, logger), opt)
	if g := s.Shape(text).List[7]; g.Stretch != 2500 {
		t.Errorf("french spacing glue = %s", g)
	}
}

func TestShapeSpans(t *testing.T) {
	s := NewShaper(mono, nil, nil, DefaultOptions())
	run := s.Shape([]Span{
		{Text: "Big ", Size: 20000, Node: 1},
		{Text: "small", Size: 10000, Node: 2},
		{Text: "er", Size: 10000, Node: 3},
	})

	if diff := cmp.Diff("BGBBKGF", kinds(run.List)); diff != "" {
		t.Fatalf("element kinds mismatch (-want +got):\n%s", diff)
	}
	tests := []struct {
		index int
		width int
		node  knuth.NodeID
	}{
		{0, 30000, 1},
		{1, 10000, 1},
		{2, 25000, 2},
		{3, 10000, 3},
	}
	for _, tt := range tests {
		e := run.List[tt.index]
		if e.Width != tt.width || e.Pos.Node != tt.node {
			t.Errorf("element %d = %s at %s, want width %d from node %d", tt.index, e, e.Pos, tt.width, tt.node)
		}
	}
}

func TestShapeAndBreak(t *testing.T) {
	s := NewShaper(mono, nil, nil, DefaultOptions())
	run := s.Shape([]Span{{Text: "aaaa bbbb cccc dddd eeee", Size: 10000, Node: 1}})

	// four characters and a space are 25pt, two words fit into 50pt
	bps, err := breaker.FindBreaks(run.List, breaker.Constraints{Width: 50000}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	for i, b := range bps {
		lines = append(lines, run.Text(run.List, breaker.ContentStart(run.List, b, i == 0), b.End))
	}
	if diff := cmp.Diff([]string{"aaaa bbbb", "cccc dddd", "eeee"}, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}
