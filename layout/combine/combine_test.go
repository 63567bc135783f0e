package combine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"foflow/common"
	"foflow/layout/breaker"
	"foflow/layout/diag"
	"foflow/layout/knuth"
)

func box(w int) knuth.Element {
	return knuth.NewBox(w, knuth.At(1, w))
}

func pen(cost int) knuth.Element {
	return knuth.NewPenalty(0, cost, false, knuth.NoPosition)
}

func extents(r *Result) []int {
	out := make([]int, len(r.Positions))
	for i, cp := range r.Positions {
		out[i] = cp.Extent
	}
	return out
}

func TestScenarioForcedBreakInOneStream(t *testing.T) {
	a := knuth.List{box(80)}
	b := knuth.List{box(40), knuth.NewForcedBreak(common.BreakClassPage, knuth.NoPosition), box(60)}

	res, err := Combine([]knuth.List{a, b}, Options{Owner: 9}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []CombinedPosition{
		{Step: 0, Extent: 80, Ranges: []Range{{0, 0}, {0, 1}}},
		{Step: 1, Extent: 60, Ranges: []Range{{1, 0}, {2, 2}}},
	}
	if diff := cmp.Diff(want, res.Positions); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
	if len(res.List) != 3 || !res.List[1].IsForcedBreak() || res.List[1].Class != common.BreakClassPage {
		t.Fatalf("combined list:\n%s", res.List)
	}
	if !res.Positions[1].Ranges[0].Empty() {
		t.Error("stream A contributes nothing to the second step")
	}
	for i, e := range res.List {
		if e.Pos.Node != 9 {
			t.Errorf("element %d carries %s", i, e.Pos)
		}
	}
	if cp, ok := res.Step(res.List[2].Pos); !ok || cp.Step != 1 {
		t.Errorf("Step() = %v, %v", cp, ok)
	}
}

func TestFirstStepTakesMaximum(t *testing.T) {
	res, err := Combine([]knuth.List{{box(50)}, {box(120)}}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{120}, extents(res)); diff != "" {
		t.Fatalf("extents mismatch (-want +got):\n%s", diff)
	}
	cp := res.Positions[0]
	if cp.Ranges[0] != (Range{0, 0}) || cp.Ranges[1] != (Range{0, 0}) {
		t.Errorf("both streams belong to the first step: %s", cp)
	}
	if res.List.NaturalWidth() != 120 {
		t.Errorf("combined extent = %d, want 120", res.List.NaturalWidth())
	}
}

func TestLaterStepsTakeMinimum(t *testing.T) {
	label := knuth.List{box(40), pen(0), box(40)}
	body := knuth.List{box(30), pen(0), box(30), pen(0), box(30)}

	res, err := Combine([]knuth.List{label, body}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// the body is padded to 40 by the first step, then the streams take
	// turns: body break at 70, label end at 80, body end at 100
	want := []CombinedPosition{
		{Step: 0, Extent: 40, Ranges: []Range{{0, 1}, {0, 1}}},
		{Step: 1, Extent: 30, Ranges: []Range{{2, 1}, {2, 3}}},
		{Step: 2, Extent: 10, Ranges: []Range{{2, 2}, {4, 3}}},
		{Step: 3, Extent: 20, Ranges: []Range{{3, 2}, {4, 4}}},
	}
	if diff := cmp.Diff(want, res.Positions); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
	if w := res.List.NaturalWidth(); w != 100 {
		t.Errorf("combined extent = %d, want 100", w)
	}
}

func TestStepsFollowCombinedExtent(t *testing.T) {
	tests := []struct {
		name    string
		streams []knuth.List
		want    []int
	}{
		{
			name: "interleaved breaks",
			streams: []knuth.List{
				{box(10), pen(0), box(20), pen(0), box(20)},
				{box(10), pen(0), box(15), pen(0), box(15), pen(0), box(15)},
			},
			// breaks at 10, then 25 and 30, 40, 50, 55
			want: []int{10, 15, 5, 10, 10, 5},
		},
		{
			name: "one stream far behind",
			streams: []knuth.List{
				{box(10), pen(0), box(100)},
				{box(10), pen(0), box(20), pen(0), box(20), pen(0), box(20)},
			},
			want: []int{10, 20, 20, 20, 40},
		},
		{
			name: "shared break",
			streams: []knuth.List{
				{box(10), pen(0), box(30), pen(0), box(10)},
				{box(10), pen(0), box(10), pen(0), box(20), pen(0), box(10)},
			},
			want: []int{10, 10, 20, 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Combine(tt.streams, Options{}, nil)
			if err != nil {
				t.Fatal(err)
			}
			coverage(t, res)
			if diff := cmp.Diff(tt.want, extents(res)); diff != "" {
				t.Errorf("extents mismatch (-want +got):\n%s", diff)
			}
			tallest := 0
			for _, l := range tt.streams {
				tallest = max(tallest, l.NaturalWidth())
			}
			if w := res.List.NaturalWidth(); w != tallest {
				t.Errorf("combined extent = %d, want the tallest stream %d", w, tallest)
			}
		})
	}
}

// coverage checks that the ranges of every stream are contiguous and cover
// it completely.
func coverage(t *testing.T, res *Result) {
	t.Helper()
	for s, l := range res.Streams {
		next := 0
		for _, cp := range res.Positions {
			r := cp.Ranges[s]
			if r.Empty() {
				continue
			}
			if r.First != next {
				t.Fatalf("stream %d: step %d starts at %d, want %d", s, cp.Step, r.First, next)
			}
			next = r.Last + 1
		}
		if next != len(l) {
			t.Fatalf("stream %d covered up to %d of %d", s, next, len(l))
		}
	}
}

func TestIdenticalStreams(t *testing.T) {
	s := knuth.List{
		box(10), pen(0), box(10),
		knuth.NewGlue(5, 2, 2, knuth.NoPosition),
		box(10),
	}
	res, err := Combine([]knuth.List{s, s}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	coverage(t, res)
	if res.List.NaturalWidth() != s.NaturalWidth() {
		t.Fatalf("combined extent %d differs from stream extent %d", res.List.NaturalWidth(), s.NaturalWidth())
	}

	for _, width := range []int{15, 25, 35} {
		c := breaker.Constraints{Width: width, Mode: breaker.ModePage, Strategy: common.StrategyTotalFit}
		alone, err := breaker.FindBreaks(s, c, nil)
		if err != nil {
			t.Fatal(err)
		}
		together, err := breaker.FindBreaks(res.List, c, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(alone) != len(together) {
			t.Fatalf("width %d: %d fragments alone, %d combined", width, len(alone), len(together))
		}
		for i := range alone {
			last := res.List[together[i].End].Pos.Offset
			if got := res.Positions[last].Ranges[0].Last; got != alone[i].End {
				t.Errorf("width %d: fragment %d ends at stream element %d, want %d", width, i, got, alone[i].End)
			}
		}
	}
}

func TestCombinedPenalty(t *testing.T) {
	a := knuth.List{box(10), pen(50), box(10)}
	b := knuth.List{box(10), knuth.NewPenalty(3, 20, true, knuth.NoPosition), box(10)}

	res, err := Combine([]knuth.List{a, b}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := res.List[1]
	if !p.IsPenalty() || p.Penalty != 50 || p.Width != 3 || !p.Flagged {
		t.Errorf("combined penalty = %s", p)
	}

	dc := diag.New()
	res, err = Combine([]knuth.List{a, b}, Options{KeepTogether: true}, dc)
	if err != nil {
		t.Fatal(err)
	}
	if !res.List[1].IsForbiddenBreak() {
		t.Errorf("keep-together must forbid the break, got %s", res.List[1])
	}

	forced := knuth.List{box(10), knuth.NewForcedBreak(common.BreakClassColumn, knuth.NoPosition), box(10)}
	res, err = Combine([]knuth.List{a, forced}, Options{KeepTogether: true}, dc)
	if err != nil {
		t.Fatal(err)
	}
	if !res.List[1].IsForcedBreak() || res.List[1].Class != common.BreakClassColumn {
		t.Errorf("forced break must survive keep-together, got %s", res.List[1])
	}
	if dc.Count(diag.CodeKeep) != 1 {
		t.Errorf("diagnostics = %v", dc.Items())
	}
}

func TestPassiveStreams(t *testing.T) {
	glueOnly := knuth.List{knuth.NewGlue(4, 0, 0, knuth.NoPosition)}
	res, err := Combine([]knuth.List{nil, {box(10), pen(0), box(5)}, glueOnly}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	coverage(t, res)
	if diff := cmp.Diff([]int{10, 5}, extents(res)); diff != "" {
		t.Fatalf("extents mismatch (-want +got):\n%s", diff)
	}
	if !res.Positions[0].Ranges[0].Empty() || res.Positions[0].Ranges[2] != (Range{0, 0}) {
		t.Errorf("first step = %s", res.Positions[0])
	}

	res, err = Combine(nil, Options{}, nil)
	if err != nil || len(res.List) != 0 {
		t.Fatalf("no streams: %v, %v", res, err)
	}
}

func TestUnresolvedStream(t *testing.T) {
	bad := knuth.List{knuth.NewUnresolved(knuth.Conditional{Kind: knuth.CondSpace}, knuth.NoPosition)}
	dc := diag.New()
	_, err := Combine([]knuth.List{{box(1)}, bad}, Options{Owner: 4}, dc)
	var ie *knuth.InvariantError
	if !errors.As(err, &ie) || ie.Node != 4 {
		t.Fatalf("error = %v, want invariant error naming node 4", err)
	}
	if dc.Err() == nil {
		t.Error("collector must hold the error")
	}
}
