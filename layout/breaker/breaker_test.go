package breaker

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"foflow/common"
	"foflow/layout/diag"
	"foflow/layout/knuth"
	"foflow/utils/debug"
)

// paragraph builds words of equal width separated by justifiable spaces and
// closed the way the text shaper closes paragraphs.
func paragraph(words, width int) knuth.List {
	var l knuth.List
	for i := range words {
		if i > 0 {
			l = append(l, knuth.NewGlue(5, 3, 2, knuth.At(1, i)))
		}
		l = append(l, knuth.NewBox(width, knuth.At(1, i)))
	}
	return append(l,
		knuth.NewPenalty(0, knuth.Infinite, false, knuth.NoPosition),
		knuth.NewGlue(0, knuth.Fil, 0, knuth.NoPosition),
		knuth.NewForcedBreak(common.BreakClassAuto, knuth.NoPosition),
	)
}

func checkPartition(t *testing.T, l knuth.List, bps []Breakpoint) {
	t.Helper()
	if len(bps) == 0 {
		t.Fatal("no breakpoints")
	}
	next := 0
	for i, bp := range bps {
		if bp.Start != next {
			t.Fatalf("fragment %d starts at %d, want %d", i, bp.Start, next)
		}
		if bp.End < bp.Start {
			t.Fatalf("fragment %d is inverted: %d..%d", i, bp.Start, bp.End)
		}
		if i < len(bps)-1 && !l.IsLegalBreak(bp.End) {
			t.Fatalf("fragment %d ends at %d which is not a legal break", i, bp.End)
		}
		next = bp.End + 1
	}
	if next != len(l) {
		t.Fatalf("fragments end at %d, list has %d elements", next, len(l))
	}
}

func TestScenarioPenaltyBreak(t *testing.T) {
	l := knuth.List{
		knuth.NewBox(100, knuth.At(1, 0)),
		knuth.NewGlue(10, 5, 5, knuth.NoPosition),
		knuth.NewBox(100, knuth.At(1, 1)),
		knuth.NewPenalty(0, 0, false, knuth.NoPosition),
		knuth.NewBox(100, knuth.At(1, 2)),
	}

	for _, strategy := range []common.Strategy{common.StrategyTotalFit, common.StrategyFirstFit} {
		for _, last := range []common.Alignment{common.AlignmentStart, common.AlignmentJustify} {
			t.Run(strategy.String()+"/"+last.String(), func(t *testing.T) {
				dc := diag.New()
				bps, err := FindBreaks(l, Constraints{
					Width:         210,
					Strategy:      strategy,
					Alignment:     common.AlignmentJustify,
					LastAlignment: last,
				}, dc)
				if err != nil {
					t.Fatalf("FindBreaks() error = %v", err)
				}
				checkPartition(t, l, bps)
				if len(bps) != 2 {
					t.Fatalf("got %d fragments, want 2", len(bps))
				}
				if bps[0].End != 3 || bps[0].Width != 210 || bps[0].Ratio != 0 {
					t.Errorf("first fragment = %+v, want [0..3] width 210 ratio 0", bps[0])
				}
				if bps[1].Start != 4 || bps[1].Width != 100 || bps[1].Ratio != 0 {
					t.Errorf("second fragment = %+v, want [4..4] width 100 ratio 0", bps[1])
				}
				if dc.Len() != 0 {
					t.Errorf("unexpected diagnostics: %v", dc.Items())
				}
			})
		}
	}
}

func TestScenarioOverfull(t *testing.T) {
	l := knuth.List{
		knuth.NewBox(150, knuth.At(4, 0)),
		knuth.NewPenalty(0, knuth.Infinite, false, knuth.NoPosition),
		knuth.NewBox(150, knuth.At(4, 1)),
	}
	for _, strategy := range []common.Strategy{common.StrategyTotalFit, common.StrategyFirstFit} {
		dc := diag.New()
		bps, err := FindBreaks(l, Constraints{Width: 150, Strategy: strategy}, dc)
		if err != nil {
			t.Fatalf("%s: FindBreaks() error = %v", strategy, err)
		}
		if len(bps) != 1 || bps[0].Start != 0 || bps[0].End != 2 {
			t.Fatalf("%s: got %+v, want a single fragment [0..2]", strategy, bps)
		}
		if !bps[0].Overfull || bps[0].Ratio < -1 {
			t.Errorf("%s: fragment %+v must be overfull with ratio >= -1", strategy, bps[0])
		}
		if dc.Count(diag.CodeOverfull) != 1 {
			t.Fatalf("%s: diagnostics = %v, want one overfull", strategy, dc.Items())
		}
		d := dc.Items()[0]
		if d.Amount != 150 || d.Pos != knuth.At(4, 0) || d.Fragment != 0 {
			t.Errorf("%s: diagnostic = %+v", strategy, d)
		}
	}
}

func TestJustifiedParagraph(t *testing.T) {
	l := paragraph(12, 20)
	for _, strategy := range []common.Strategy{common.StrategyTotalFit, common.StrategyFirstFit} {
		dc := diag.New()
		bps, err := FindBreaks(l, Constraints{
			Width:         100,
			Strategy:      strategy,
			Alignment:     common.AlignmentJustify,
			LastAlignment: common.AlignmentJustify,
		}, dc)
		if err != nil {
			t.Fatalf("%s: FindBreaks() error = %v", strategy, err)
		}
		checkPartition(t, l, bps)
		if got, want := Ends(bps), []int{7, 15, 25}; !slices.Equal(got, want) {
			t.Fatalf("%s: breaks = %v, want %v", strategy, got, want)
		}
		for i, bp := range bps[:len(bps)-1] {
			if bp.Adjusted() != bp.Target {
				t.Errorf("%s: line %d adjusts to %d, want %d", strategy, i, bp.Adjusted(), bp.Target)
			}
			if math.Abs(bp.Ratio-5.0/9.0) > 1e-9 {
				t.Errorf("%s: line %d ratio = %f", strategy, i, bp.Ratio)
			}
			if bp.Fitness != FitnessLoose {
				t.Errorf("%s: line %d fitness = %s", strategy, i, bp.Fitness)
			}
		}
		if !bps[2].Forced {
			t.Errorf("%s: last line must end at the forced break", strategy)
		}
		if dc.Len() != 0 {
			t.Errorf("%s: unexpected diagnostics %v", strategy, dc.Items())
		}
	}
}

func TestForcedBreakInside(t *testing.T) {
	l := knuth.List{
		knuth.NewBox(50, knuth.At(1, 0)),
		knuth.NewForcedBreak(common.BreakClassPage, knuth.At(1, 1)),
		knuth.NewBox(50, knuth.At(2, 0)),
	}
	bps, err := FindBreaks(l, Constraints{Width: 100, Mode: ModePage}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := Ends(bps); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("breaks = %v, want [1 2]", got)
	}
	if !bps[0].Forced || l[bps[0].End].Class != common.BreakClassPage {
		t.Errorf("first fragment must end at the page break: %+v", bps[0])
	}
	if bps[0].Ratio != 0 || bps[1].Ratio != 0 {
		t.Error("underfull pages keep their natural extent")
	}
}

func TestShrinkLimit(t *testing.T) {
	l := knuth.List{
		knuth.NewBox(100, knuth.NoPosition),
		knuth.NewPenalty(0, knuth.Infinite, false, knuth.NoPosition),
		knuth.NewGlue(10, 0, 5, knuth.NoPosition),
		knuth.NewBox(100, knuth.At(3, 0)),
	}
	c := Constraints{Width: 205, Alignment: common.AlignmentJustify, LastAlignment: common.AlignmentJustify}

	dc := diag.New()
	bps, err := FindBreaks(l, c, dc)
	if err != nil {
		t.Fatal(err)
	}
	if len(bps) != 1 || bps[0].Ratio != -1 || bps[0].Overfull || dc.Len() != 0 {
		t.Fatalf("fully shrunk fragment expected, got %+v %v", bps, dc.Items())
	}

	c.Width = 204
	bps, err = FindBreaks(l, c, dc)
	if err != nil {
		t.Fatal(err)
	}
	if len(bps) != 1 || !bps[0].Overfull || bps[0].Ratio != -1 {
		t.Fatalf("overfull fragment expected, got %+v", bps)
	}
	if items := dc.Items(); len(items) != 1 || items[0].Amount != 1 || items[0].Pos != knuth.At(3, 0) {
		t.Errorf("diagnostics = %v", items)
	}
}

func TestAlignmentIndent(t *testing.T) {
	l := knuth.List{knuth.NewBox(60, knuth.At(1, 0))}
	tests := []struct {
		align  common.Alignment
		indent int
	}{
		{common.AlignmentStart, 0},
		{common.AlignmentCenter, 20},
		{common.AlignmentEnd, 40},
	}
	for _, tt := range tests {
		bps, err := FindBreaks(l, Constraints{Width: 100, Alignment: tt.align, LastAlignment: tt.align}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if bps[0].Indent != tt.indent || bps[0].Ratio != 0 || bps[0].Width != 60 {
			t.Errorf("%s: got %+v, want indent %d", tt.align, bps[0], tt.indent)
		}
	}
}

func TestVaryingWidths(t *testing.T) {
	l := knuth.List{
		knuth.NewBox(40, knuth.At(1, 0)),
		knuth.NewGlue(10, 0, 0, knuth.NoPosition),
		knuth.NewBox(40, knuth.At(1, 1)),
		knuth.NewGlue(10, 0, 0, knuth.NoPosition),
		knuth.NewBox(40, knuth.At(1, 2)),
	}
	bps, err := FindBreaks(l, Constraints{Widths: []int{50, 100}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := Ends(bps); !slices.Equal(got, []int{1, 4}) {
		t.Fatalf("breaks = %v, want [1 4]", got)
	}
	if bps[0].Target != 50 || bps[1].Target != 100 {
		t.Errorf("targets = %d, %d", bps[0].Target, bps[1].Target)
	}
	if bps[1].Width != 90 {
		t.Errorf("glue after the break must be discarded, second fragment width = %d", bps[1].Width)
	}
}

func TestPageModeFirstFit(t *testing.T) {
	var l knuth.List
	for i := range 4 {
		if i > 0 {
			l = append(l, knuth.NewPenalty(0, 0, false, knuth.NoPosition))
		}
		l = append(l, knuth.NewBox(30, knuth.At(knuth.NodeID(i), 0)))
	}
	c := Constraints{Width: 70, Mode: ModePage}
	if c.strategy() != common.StrategyFirstFit {
		t.Fatalf("auto strategy in page mode = %s", c.strategy())
	}
	bps, err := FindBreaks(l, c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := Ends(bps); !slices.Equal(got, []int{3, 6}) {
		t.Fatalf("breaks = %v, want [3 6]", got)
	}
	for i, bp := range bps {
		if bp.Width != 60 || bp.Ratio != 0 {
			t.Errorf("page %d = %+v", i, bp)
		}
	}
}

func TestUnderfullFallback(t *testing.T) {
	// A word too long for any line forces an underfull line before it and an
	// overfull one for itself.
	l := knuth.List{
		knuth.NewBox(50, knuth.At(1, 0)),
		knuth.NewGlue(10, 1, 1, knuth.NoPosition),
		knuth.NewBox(500, knuth.At(1, 1)),
	}
	dc := diag.New()
	bps, err := FindBreaks(l, Constraints{Width: 100, Alignment: common.AlignmentJustify}, dc)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, l, bps)
	if got := Ends(bps); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("breaks = %v, want [1 2]", got)
	}
	if !bps[0].Underfull || !bps[1].Overfull {
		t.Errorf("fragments = %+v", bps)
	}
	if dc.Count(diag.CodeUnderfull) != 1 || dc.Count(diag.CodeOverfull) != 1 {
		t.Errorf("diagnostics = %v", dc.Items())
	}
}

func TestEmptyAndMalformed(t *testing.T) {
	bps, err := FindBreaks(nil, Constraints{Width: 10}, nil)
	if err != nil || bps != nil {
		t.Fatalf("empty list: got %v, %v", bps, err)
	}

	dc := diag.New()
	l := knuth.List{knuth.NewUnresolved(knuth.Conditional{Kind: knuth.CondSpace, Length: knuth.Fixed(5)}, knuth.At(8, 0))}
	_, err = FindBreaks(l, Constraints{Width: 10}, dc)
	var ie *knuth.InvariantError
	if !errors.As(err, &ie) || ie.Node != 8 {
		t.Fatalf("error = %v, want invariant error on node 8", err)
	}
	if dc.Err() == nil {
		t.Error("error must be recorded in the collector")
	}

	if _, err := FindBreaks(knuth.List{knuth.NewBox(1, knuth.NoPosition)}, Constraints{Width: -1}, nil); err == nil {
		t.Error("negative width must be rejected")
	}
}

func TestAdjust(t *testing.T) {
	g := knuth.NewGlue(10, 4, 2, knuth.NoPosition)
	if got := Adjust(g, 0.5); got != 12 {
		t.Errorf("stretched glue = %d, want 12", got)
	}
	if got := Adjust(g, -1); got != 8 {
		t.Errorf("shrunk glue = %d, want 8", got)
	}
	if got := Adjust(knuth.NewBox(7, knuth.NoPosition), 3); got != 7 {
		t.Errorf("boxes are rigid, got %d", got)
	}
}

func TestDump(t *testing.T) {
	bps, err := FindBreaks(paragraph(4, 20), Constraints{Width: 100}, nil)
	if err != nil {
		t.Fatal(err)
	}
	tw := debug.NewTreeWriter()
	Dump(tw, 1, bps)
	if !strings.Contains(tw.String(), "forced") {
		t.Errorf("dump = %q", tw.String())
	}
}
