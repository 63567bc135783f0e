// Package combine synchronises parallel element lists: the label and body of
// a list item, or the cells of a table row. The streams are stepped together
// from break to break and every step becomes one box of a combined list the
// page breaker can work with.
package combine

import (
	"fmt"
	"strings"

	"foflow/common"
	"foflow/layout/diag"
	"foflow/layout/knuth"
)

// Range is the slice of a stream consumed by one step. First > Last means
// the stream contributed nothing.
type Range struct {
	First, Last int
}

func (r Range) Empty() bool {
	return r.First > r.Last
}

func (r Range) String() string {
	if r.Empty() {
		return "-"
	}
	return fmt.Sprintf("%d..%d", r.First, r.Last)
}

// CombinedPosition records what every stream contributed to a step.
type CombinedPosition struct {
	Step   int
	Extent int
	Ranges []Range
}

func (cp CombinedPosition) String() string {
	parts := make([]string, len(cp.Ranges))
	for i, r := range cp.Ranges {
		parts[i] = r.String()
	}
	return fmt.Sprintf("step %d extent=%d [%s]", cp.Step, cp.Extent, strings.Join(parts, " "))
}

// Options configure a combination.
type Options struct {
	// Owner is the node whose positions the combined elements carry.
	Owner knuth.NodeID
	// KeepTogether forbids breaks between steps.
	KeepTogether bool
}

// Result is the combined list and its mapping back to the streams. Every
// element of List carries Position{Owner, step}.
type Result struct {
	List      knuth.List
	Positions []CombinedPosition
	Streams   []knuth.List
}

// Step returns the combined position an element of List refers to.
func (r *Result) Step(pos knuth.Position) (CombinedPosition, bool) {
	if r == nil || pos.Offset < 0 || pos.Offset >= len(r.Positions) {
		return CombinedPosition{}, false
	}
	return r.Positions[pos.Offset], true
}

// Combine steps the streams together. The first step waits for the tallest
// stream and pads the others; every later step ends at the nearest break any
// stream reaches, measured from the start of the combination, and streams
// whose break lies further roll back. Streams must not contain unresolved
// elements.
func Combine(streams []knuth.List, opt Options, dc *diag.Collector) (*Result, error) {
	for i, l := range streams {
		if err := l.Validate(opt.Owner); err != nil {
			dc.Error(err)
			return nil, fmt.Errorf("stream %d: %w", i, err)
		}
	}

	ss := make([]*stream, len(streams))
	for i, l := range streams {
		ss[i] = &stream{list: l}
	}
	res := &Result{Streams: streams}

	combined := 0
	for step := 0; ; step++ {
		var active []int
		for i, s := range ss {
			if !s.exhausted() {
				active = append(active, i)
			}
		}
		if len(active) == 0 {
			break
		}

		// Every stream proposes the combined extent at which its next break
		// would fall.
		moves := make([]move, len(ss))
		target := -1
		for _, i := range active {
			moves[i] = ss[i].advance()
			at := ss[i].total + moves[i].inc
			switch {
			case target < 0:
				target = at
			case step == 0:
				target = max(target, at)
			default:
				target = min(target, at)
			}
		}
		ext := target - combined

		cp := CombinedPosition{Step: step, Extent: ext, Ranges: make([]Range, len(ss))}
		for i, s := range ss {
			cp.Ranges[i] = Range{First: s.next, Last: s.next - 1}
		}

		var (
			brk      joint
			bonus    knuth.MinOptMax
			advanced bool
		)
		for _, i := range active {
			p, s := moves[i], ss[i]
			if step > 0 && s.total+p.inc > target {
				continue
			}
			cp.Ranges[i] = Range{First: s.next, Last: p.end}
			s.next = p.end + 1
			s.total += p.inc
			advanced = true
			brk.add(p.pen)
			if s.exhausted() {
				cp.Ranges[i].Last = len(s.list) - 1
				s.next = len(s.list)
				continue
			}
			if p.bonus.Opt > bonus.Opt {
				bonus = p.bonus
			}
		}
		if !advanced {
			err := knuth.Invariantf(opt.Owner, -1, "combined step %d: no stream can advance", step)
			dc.Error(err)
			return nil, err
		}
		if step == 0 {
			// Streams without content ride along with the first step, and
			// every stream is padded to it.
			for i, s := range ss {
				if s.next == 0 && s.exhausted() && len(s.list) > 0 {
					cp.Ranges[i] = Range{First: 0, Last: len(s.list) - 1}
					s.next = len(s.list)
				}
				s.total = target
			}
		}

		pos := knuth.At(opt.Owner, step)
		res.List = append(res.List, knuth.NewBox(ext, pos))
		res.Positions = append(res.Positions, cp)
		combined = target

		if !hasContent(ss) {
			break
		}
		pen := brk.element(opt, pos)
		if pen.IsForcedBreak() && opt.KeepTogether {
			dc.Warnf(diag.CodeKeep, pos, step, 0, "forced %s break inside keep-together", pen.Class)
		}
		res.List = append(res.List, pen)
		if !bonus.IsZero() {
			res.List = append(res.List, bonus.Glue(pos))
		}
	}

	for i, s := range ss {
		if s.total > combined {
			err := knuth.Invariantf(opt.Owner, -1, "stream %d extent %d exceeds combined extent %d", i, s.total, combined)
			dc.Error(err)
			return nil, err
		}
	}
	return res, nil
}

func hasContent(ss []*stream) bool {
	for _, s := range ss {
		if !s.exhausted() {
			return true
		}
	}
	return false
}

// joint merges the break penalties of the streams ending a step.
type joint struct {
	forced  bool
	class   common.BreakClass
	penalty bool
	cost    int
	width   int
	flagged bool
}

func (j *joint) add(pen *knuth.Element) {
	if pen == nil {
		return
	}
	j.width = max(j.width, pen.Width)
	j.flagged = j.flagged || pen.Flagged
	if pen.IsForcedBreak() {
		j.forced = true
		j.class = j.class.Stronger(pen.Class)
		return
	}
	if !j.penalty || pen.Penalty > j.cost {
		j.cost = pen.Penalty
	}
	j.penalty = true
}

func (j *joint) element(opt Options, pos knuth.Position) knuth.Element {
	switch {
	case j.forced:
		e := knuth.NewForcedBreak(j.class, pos)
		e.Width = j.width
		return e
	case opt.KeepTogether:
		e := knuth.NewKeep(pos)
		e.Width = j.width
		return e
	}
	return knuth.NewPenalty(j.width, j.cost, j.flagged, pos)
}
