package combine

import (
	"foflow/layout/knuth"
)

// stream is the cursor over one parallel list.
type stream struct {
	list knuth.List
	// next is the first element not yet assigned to a step.
	next int
	// total is the combined extent at the stream's last break, padding
	// from the first step included.
	total int
}

// exhausted reports that nothing but discardable material remains.
func (s *stream) exhausted() bool {
	for _, e := range s.list[s.next:] {
		if e.IsBox() || e.IsForcedBreak() {
			return false
		}
	}
	return true
}

// move is the outcome of advancing a stream to its next break.
type move struct {
	// end is the last element of the step, the break element itself.
	end int
	inc int
	// pen is the break penalty, nil for glue breaks and the end of the list.
	pen *knuth.Element
	// bonus is the extent discarded when the break is taken, which the
	// stream keeps when it is not.
	bonus knuth.MinOptMax
}

// advance finds the next break of the stream and measures the increment
// since the previous one. Material discarded after the previous break does
// not count.
func (s *stream) advance() move {
	n := len(s.list)
	i := s.next
	if i > 0 {
		for i < n && !s.list[i].IsBox() && !s.list[i].IsForcedBreak() {
			i++
		}
	}

	inc, seenBox := 0, false
	for k := i; k < n; k++ {
		e := s.list[k]
		if s.list.IsLegalBreak(k) && (seenBox || e.IsForcedBreak()) {
			p := move{end: k, inc: inc, bonus: s.bonusAt(k)}
			if e.IsPenalty() {
				p.pen = &s.list[k]
			}
			return p
		}
		switch {
		case e.IsBox():
			inc += e.Width
			seenBox = true
		case e.IsGlue():
			inc += e.Width
		}
	}
	return move{end: n - 1, inc: inc}
}

// bonusAt sums the glue discarded by a break at k: the break glue itself and
// every glue up to the next box.
func (s *stream) bonusAt(k int) knuth.MinOptMax {
	b := knuth.Zero
	for i := k; i < len(s.list); i++ {
		e := s.list[i]
		if e.IsBox() || (i > k && e.IsForcedBreak()) {
			break
		}
		if e.IsGlue() {
			b = b.Plus(e.Span())
		}
	}
	return b
}
