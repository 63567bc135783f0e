package breaker

import (
	"math"

	"foflow/layout/knuth"
	"foflow/utils/debug"
)

// Fitness classifies fragments by their adjustment ratio.
type Fitness int

const (
	FitnessVeryTight Fitness = iota
	FitnessDecent
	FitnessLoose
	FitnessVeryLoose
)

func (f Fitness) String() string {
	switch f {
	case FitnessVeryTight:
		return "tight"
	case FitnessDecent:
		return "decent"
	case FitnessLoose:
		return "loose"
	default:
		return "very-loose"
	}
}

func fitnessOf(r float64) Fitness {
	switch {
	case r < -0.5:
		return FitnessVeryTight
	case r <= 0.5:
		return FitnessDecent
	case r <= 1:
		return FitnessLoose
	default:
		return FitnessVeryLoose
	}
}

// Breakpoint describes one fragment: elements Start..End inclusive. End is
// the index of the break element, except for the final fragment which ends at
// the last element of the list.
type Breakpoint struct {
	Start, End int

	// Natural extent of the fragment after discarding elements that follow the
	// previous break.
	Width, Stretch, Shrink int

	// Ratio is the glue adjustment: -1 fully shrunk, 0 natural, >0 stretched.
	Ratio float64
	// Demerits accumulated up to and including this fragment.
	Demerits float64
	Fitness  Fitness

	// Indent shifts non-justified fragments inside the target extent.
	Indent int
	// Target is the extent the fragment was measured against.
	Target int

	Forced    bool
	Overfull  bool
	Underfull bool
}

// Len returns the number of elements in the fragment.
func (b Breakpoint) Len() int {
	return b.End - b.Start + 1
}

// Adjusted returns the extent of the fragment after applying its ratio.
func (b Breakpoint) Adjusted() int {
	switch {
	case b.Ratio > 0:
		return b.Width + int(math.Round(b.Ratio*float64(b.Stretch)))
	case b.Ratio < 0:
		return b.Width + int(math.Round(b.Ratio*float64(b.Shrink)))
	}
	return b.Width
}

// Adjust returns the width of an element inside a fragment with the
// given ratio. Only glue is elastic.
func Adjust(e knuth.Element, ratio float64) int {
	if !e.IsGlue() {
		return e.Width
	}
	switch {
	case ratio > 0:
		return e.Width + int(math.Round(ratio*float64(e.Stretch)))
	case ratio < 0:
		return e.Width + int(math.Round(ratio*float64(e.Shrink)))
	}
	return e.Width
}

// ContentStart returns the first element of the fragment that counts toward
// its extent: elements discarded after the previous break are skipped.
func ContentStart(l knuth.List, b Breakpoint, first bool) int {
	if first {
		return b.Start
	}
	return discardFrom(l, b.Start)
}

// Ends returns the End index of every breakpoint, the form the space resolver
// commits against.
func Ends(bps []Breakpoint) []int {
	out := make([]int, len(bps))
	for i, b := range bps {
		out[i] = b.End
	}
	return out
}

// Dump writes a human readable summary.
func Dump(tw *debug.TreeWriter, depth int, bps []Breakpoint) {
	for i, b := range bps {
		flags := ""
		if b.Forced {
			flags += " forced"
		}
		if b.Overfull {
			flags += " overfull"
		}
		if b.Underfull {
			flags += " underfull"
		}
		tw.Line(depth, "%3d [%d..%d] w=%s/%s r=%.3f d=%.0f %s indent=%s%s",
			i, b.Start, b.End, debug.Pt(b.Width), debug.Pt(b.Target), b.Ratio, b.Demerits, b.Fitness, debug.Pt(b.Indent), flags)
	}
}
