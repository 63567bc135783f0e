// Package space resolves conditional spaces, borders and paddings.
//
// Resolution happens in two passes. Resolve replaces every run of unresolved
// elements with glue and penalties whose widths are right both when the run
// is broken and when it is not, so the Break Engine can see the list. Once
// breaks are chosen, Plan.Commit decides each conditional definitively and
// notifies the content nodes owning them.
package space

import (
	"fmt"
	"slices"

	"foflow/layout/knuth"
	"foflow/utils/debug"
)

// Listener receives the definitive decision for every conditional element.
type Listener interface {
	Notify(d Decision)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Decision)

func (f ListenerFunc) Notify(d Decision) { f(d) }

// Listeners dispatches decisions to the listener registered for the node
// owning the conditional. Decisions for unregistered nodes are dropped.
type Listeners map[knuth.NodeID]Listener

func (ls Listeners) Notify(d Decision) {
	if l, ok := ls[d.Pos.Node]; ok && l != nil {
		l.Notify(d)
	}
}

// Decision is the definitive outcome for one conditional element.
type Decision struct {
	Pos  knuth.Position
	Cond knuth.Conditional
	// Retained is false when the element was discarded at a break, vanished
	// because no break happened (continuation segments) or lost space
	// resolution against a neighbour.
	Retained bool
	// Length is the effective length; zero when not retained.
	Length knuth.MinOptMax
	// Glue replaces the element, nil when the element is not retained.
	Glue *knuth.Element
	// Broken reports that the run holding the element was broken.
	Broken bool
	// At is the index in the resolved list the element belongs to: fragments
	// covering At own the decision.
	At int
}

func (d Decision) String() string {
	state := "discarded"
	if d.Retained {
		state = "retained " + d.Length.String()
	}
	return fmt.Sprintf("%s %s @%d: %s", d.Pos, d.Cond.Kind, d.At, state)
}

type runKind uint8

const (
	runMiddle runKind = iota
	runLeading
	runTrailing
	runWhole
)

// run is one group of conditionals and the break opportunity between them.
type run struct {
	kind  runKind
	items []item
	// split is the number of items preceding the break penalty.
	split int
	// penalty is the index of the break penalty in the resolved list, -1
	// when the run cannot be broken.
	penalty int
	// start is the index of the first element emitted for the run.
	start int
}

// Plan remembers the runs replaced by Resolve.
type Plan struct {
	runs []run
}

// Runs returns the number of runs resolved.
func (p *Plan) Runs() int {
	if p == nil {
		return 0
	}
	return len(p.runs)
}

// BreakIndices returns the indices of penalties at which runs may break.
func (p *Plan) BreakIndices() []int {
	var out []int
	for _, r := range p.runs {
		if r.penalty >= 0 {
			out = append(out, r.penalty)
		}
	}
	return out
}

// Resolve performs the speculative pass. The returned list holds no
// unresolved elements; a list without any is returned as is.
func Resolve(l knuth.List) (knuth.List, *Plan, error) {
	plan := &Plan{}
	if !l.HasUnresolved() {
		return l, plan, nil
	}

	out := make(knuth.List, 0, len(l)+8)
	for i := 0; i < len(l); {
		j := i
		for j < len(l) && (l[j].IsUnresolved() || l[j].IsPenalty()) {
			j++
		}
		if j == i {
			out = append(out, l[i])
			i++
			continue
		}
		seq := l[i:j]
		if !seq.HasUnresolved() {
			out = append(out, seq...)
			i = j
			continue
		}

		kind := runMiddle
		switch {
		case i == 0 && j == len(l):
			kind = runWhole
		case i == 0:
			kind = runLeading
		case j == len(l):
			kind = runTrailing
		}
		var follow *knuth.Element
		if j < len(l) && l[j].IsGlue() {
			follow = &l[j]
		}
		var used bool
		out, used = plan.emit(out, seq, kind, follow)
		i = j
		switch {
		case used:
			i++
		case follow != nil && len(out) > 0 && out[len(out)-1].IsGlue():
			// two glues in a row cover the same break opportunities as one
			last := &out[len(out)-1]
			*last = last.Span().Plus(follow.Span()).Glue(last.Pos)
			i++
		}
	}

	for i := range plan.runs {
		plan.runs[i].start = min(plan.runs[i].start, max(len(out)-1, 0))
	}
	if err := out.Validate(knuth.NoNode); err != nil {
		return nil, nil, fmt.Errorf("space resolution: %w", err)
	}
	return out, plan, nil
}

// edges returns where fragments may start or end around the items of r:
// when it is not broken, and before and after its break when it is.
func (r run) edges() (whole, before, after edge) {
	before, after = edgeEnd, edgeStart
	if r.kind == runLeading || r.kind == runWhole {
		whole |= edgeStart
		before |= edgeStart
	}
	if r.kind == runTrailing || r.kind == runWhole {
		whole |= edgeEnd
		after |= edgeEnd
	}
	return whole, before, after
}

// emit appends the encoding of one run to out. follow is the glue coming
// right after the run, if any; emit reports whether it took it over. Such
// glue goes away with the break like the rest of the run, so it joins the
// run right behind the penalty.
func (p *Plan) emit(out knuth.List, seq knuth.List, kind runKind, follow *knuth.Element) (knuth.List, bool) {
	r := run{kind: kind, penalty: -1, start: len(out)}

	var (
		pen    knuth.Element
		hasPen bool
	)
	for _, e := range seq {
		if e.IsUnresolved() {
			r.items = append(r.items, item{cond: *e.Cond, pos: e.Pos})
			continue
		}
		if !hasPen || stronger(e, pen) {
			pen, hasPen = e, true
			r.split = len(r.items)
		}
	}
	pos := r.items[0].pos
	atWhole, atBefore, atAfter := r.edges()

	// Only forced breaks survive at the edges of the list.
	breakable := hasPen && !pen.IsForbiddenBreak() && (kind == runMiddle || pen.IsForcedBreak())
	if !breakable {
		if whole, _ := resolve(r.items, atWhole, false); !whole.IsZero() {
			if kind != runLeading && kind != runWhole {
				out = append(out, knuth.NewKeep(pos))
			}
			out = append(out, whole.Glue(pos))
		}
		p.runs = append(p.runs, r)
		return out, false
	}

	before, _ := resolve(r.items[:r.split], atBefore, true)
	after, _ := resolve(r.items[r.split:], atAfter, true)
	rest := knuth.Zero
	if kind == runMiddle {
		whole, _ := resolve(r.items, atWhole, false)
		rest = whole.Minus(before).Minus(after)
	}

	if !before.IsZero() {
		out = append(out, knuth.NewKeep(pos), before.Glue(pos))
	}
	r.penalty = len(out)
	out = append(out, pen)
	switch {
	case follow != nil && rest.IsZero():
		out = append(out, *follow)
	case follow != nil:
		out = append(out, rest.Plus(follow.Span()).Glue(pos))
	case !rest.IsZero():
		out = append(out, rest.Glue(pos))
	}
	if !after.IsZero() {
		out = append(out, knuth.NewAuxBox(pos), knuth.NewKeep(pos), after.Glue(pos))
	}
	p.runs = append(p.runs, r)
	return out, follow != nil
}

// stronger tells whether penalty a takes over b when a run holds several: a
// forced break wins, then a keep, then the cheapest break.
func stronger(a, b knuth.Element) bool {
	switch {
	case b.IsForcedBreak():
		return false
	case a.IsForcedBreak():
		return true
	case b.IsForbiddenBreak():
		return false
	case a.IsForbiddenBreak():
		return true
	}
	return a.Penalty < b.Penalty
}

// Commit performs the definitive pass against the chosen break indices (the
// End of every fragment) and notifies the listener of every decision.
func (p *Plan) Commit(breaks []int, lis Listener) []Decision {
	if p == nil {
		return nil
	}
	if !slices.IsSorted(breaks) {
		breaks = slices.Sorted(slices.Values(breaks))
	}
	broken := func(i int) bool {
		_, found := slices.BinarySearch(breaks, i)
		return found
	}

	var out []Decision
	add := func(items []item, shares []share, at int, isBroken bool) {
		for i, it := range items {
			d := Decision{Pos: it.pos, Cond: it.cond, Broken: isBroken, At: at}
			if shares[i].kept {
				d.Retained = true
				d.Length = shares[i].length
				g := knuth.NewGlue(d.Length.Opt, 0, 0, it.pos)
				d.Glue = &g
			}
			out = append(out, d)
		}
	}

	for _, r := range p.runs {
		atWhole, atBefore, atAfter := r.edges()
		if r.penalty < 0 || !broken(r.penalty) {
			_, shares := resolve(r.items, atWhole, false)
			add(r.items, shares, r.start, false)
			continue
		}
		_, before := resolve(r.items[:r.split], atBefore, true)
		add(r.items[:r.split], before, r.penalty, true)
		_, after := resolve(r.items[r.split:], atAfter, true)
		add(r.items[r.split:], after, r.penalty+1, true)
	}

	if lis != nil {
		for _, d := range out {
			lis.Notify(d)
		}
	}
	return out
}

// Dump writes the runs and their break opportunities.
func (p *Plan) Dump(tw *debug.TreeWriter, depth int) {
	for i, r := range p.runs {
		tw.Line(depth, "run %d @%d penalty=%d split=%d", i, r.start, r.penalty, r.split)
		for _, it := range r.items {
			tw.Line(depth+1, "%s %s", it.pos, it.cond)
		}
	}
}
