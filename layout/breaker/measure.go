package breaker

import (
	"math"

	"foflow/common"
	"foflow/layout/knuth"
)

// infBad is the badness cap, as in TeX.
const infBad = 10000

// sums holds prefix totals over boxes and glues so any fragment can be
// measured in constant time from any restart point.
type sums struct {
	width, stretch, shrink []int
}

func newSums(l knuth.List) sums {
	s := sums{
		width:   make([]int, len(l)+1),
		stretch: make([]int, len(l)+1),
		shrink:  make([]int, len(l)+1),
	}
	for i, e := range l {
		s.width[i+1], s.stretch[i+1], s.shrink[i+1] = s.width[i], s.stretch[i], s.shrink[i]
		switch {
		case e.IsBox():
			s.width[i+1] += e.Width
		case e.IsGlue():
			s.width[i+1] += e.Width
			s.stretch[i+1] += e.Stretch
			s.shrink[i+1] += e.Shrink
		}
	}
	return s
}

// discardFrom returns the first index at or after i which is not discarded
// following a break: glue and optional penalties vanish up to the next box.
// Forced breaks stop discarding so they are never skipped.
func discardFrom(l knuth.List, i int) int {
	for i < len(l) && !l[i].IsBox() && !l[i].IsForcedBreak() {
		i++
	}
	return i
}

// extent is the natural measure of a candidate fragment.
type extent struct {
	width, stretch, shrink int
}

// measure returns the extent of elements [start, b) plus the width of the
// break penalty at b, if any. b == len(l) stands for the end of the list.
func (e *engine) measure(start, b int) extent {
	x := extent{
		width:   e.sums.width[b] - e.sums.width[start],
		stretch: e.sums.stretch[b] - e.sums.stretch[start],
		shrink:  e.sums.shrink[b] - e.sums.shrink[start],
	}
	if b < len(e.list) && e.list[b].IsPenalty() {
		x.width += e.list[b].Width
	}
	return x
}

// verdict classifies a candidate fragment against its target.
type verdict int

const (
	feasible verdict = iota
	tooShort
	tooLong
)

// fit is the result of fitting one candidate fragment.
type fit struct {
	verdict verdict
	// ratio is the reported adjustment ratio.
	ratio float64
	// rank is the ratio badness is computed from. Non-justified fragments rank
	// by how much of the target they leave empty.
	rank   float64
	indent int
}

// fitFragment computes the adjustment ratio for a fragment and decides
// whether it is feasible.
func (e *engine) fitFragment(x extent, target int, forced bool) fit {
	diff := target - x.width
	tol := e.c.tolerance()

	if diff < 0 {
		if x.shrink <= 0 {
			return fit{verdict: tooLong, ratio: -1, rank: -1}
		}
		r := float64(diff) / float64(x.shrink)
		if r < -1 {
			return fit{verdict: tooLong, ratio: -1, rank: -1}
		}
		return fit{verdict: feasible, ratio: r, rank: r}
	}

	align := e.c.alignment(forced)
	if align != common.AlignmentJustify {
		// Ragged fragments keep their natural width; a virtual stretch of one
		// target extent makes fuller fragments rank better. The last fragment
		// is never ranked by its emptiness.
		rank := 0.0
		if !forced {
			rank = float64(diff) / float64(max(target, 1)+x.stretch)
		}
		return fit{verdict: feasible, rank: rank, indent: indentFor(align, diff)}
	}

	if forced && e.c.Mode == ModePage {
		return fit{verdict: feasible}
	}
	r := math.Inf(1)
	switch {
	case diff == 0:
		r = 0
	case x.stretch > 0:
		r = float64(diff) / float64(x.stretch)
	}
	if r <= tol {
		return fit{verdict: feasible, ratio: r, rank: r}
	}
	if forced {
		// Underfull last fragments are acceptable and left at natural width.
		return fit{verdict: feasible, ratio: 0, rank: 0}
	}
	if math.IsInf(r, 1) {
		return fit{verdict: tooShort, ratio: 0, rank: r}
	}
	return fit{verdict: tooShort, ratio: r, rank: r}
}

func indentFor(align common.Alignment, slack int) int {
	switch align {
	case common.AlignmentEnd:
		return slack
	case common.AlignmentCenter:
		return slack / 2
	}
	return 0
}

func badness(r float64) float64 {
	if math.IsInf(r, 0) {
		return infBad
	}
	return min(100*math.Abs(r*r*r), infBad)
}

// demerits of a fragment ending at break index b, not including the
// predecessor's accumulated total.
func (e *engine) demerits(f fit, b int, prev *node, fitness Fitness) float64 {
	p := &e.c.Policy
	d := float64(p.LinePenalty) + badness(f.rank)
	d *= d
	if b < len(e.list) && e.list[b].IsPenalty() {
		pen := float64(e.list[b].Penalty)
		switch {
		case e.list[b].IsForcedBreak():
		case pen >= 0:
			d += pen * pen
		default:
			d -= pen * pen
		}
		if prev.flagged && e.list[b].Flagged {
			d += float64(p.FlaggedDemerits)
		}
	}
	if prev.pos >= 0 && absInt(int(fitness)-int(prev.fitness)) > 1 {
		d += float64(p.FitnessDemerits)
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
