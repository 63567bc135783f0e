// Package breaker finds break points in element lists. It implements the
// total-fit search of Knuth and Plass, generalised so the same engine breaks
// paragraphs into lines and block lists into pages, plus a greedy first-fit
// variant.
//
// The engine never fails on content that does not fit: it degrades to
// underfull or overfull fragments and reports them through the diagnostics
// collector. Errors are returned for malformed lists only.
package breaker

import (
	"foflow/common"
	"foflow/layout/diag"
	"foflow/layout/knuth"
	"foflow/utils/debug"
)

// FindBreaks partitions the list into fragments. The returned breakpoints
// cover every element exactly once and in order; an empty list yields no
// breakpoints.
func FindBreaks(l knuth.List, c Constraints, dc *diag.Collector) ([]Breakpoint, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return nil, nil
	}
	if err := l.Validate(c.Owner); err != nil {
		dc.Error(err)
		return nil, err
	}

	e := &engine{list: l, c: &c, sums: newSums(l)}

	var (
		last *node
		err  error
	)
	if c.strategy() == common.StrategyFirstFit {
		last = e.firstFit()
	} else {
		last, err = e.totalFit()
	}
	if err != nil {
		dc.Error(err)
		return nil, err
	}
	return e.trace(last, dc), nil
}

// node is a break in the search graph together with the fragment ending at it.
type node struct {
	// pos is the break index, -1 for the start and len(list) for the end.
	pos int
	// start is the first counted element of the fragment following this break.
	start   int
	line    int
	fitness Fitness
	flagged bool
	total   float64

	bp     Breakpoint
	excess int
	prev   *node
}

type engine struct {
	list knuth.List
	c    *Constraints
	sums sums
}

func (e *engine) startNode() *node {
	return &node{pos: -1, fitness: FitnessDecent}
}

// breakAt reports whether b is a usable break and whether it is forced. The
// end of the list is a forced break unless the list already ends with one.
func (e *engine) breakAt(b int) (legal, forced bool) {
	n := len(e.list)
	if b == n {
		return !e.list[n-1].IsForcedBreak(), true
	}
	if !e.list.IsLegalBreak(b) {
		return false, false
	}
	return true, e.list[b].IsForcedBreak()
}

// newNode creates the node for a break at b reached from prev.
func (e *engine) newNode(prev *node, b int, x extent, f fit, target int, fitness Fitness, demerits float64) *node {
	n := len(e.list)
	nd := &node{
		pos:     b,
		start:   n,
		line:    prev.line + 1,
		fitness: fitness,
		total:   prev.total + demerits,
		prev:    prev,
	}
	if b < n {
		nd.start = discardFrom(e.list, b+1)
		nd.flagged = e.list[b].IsPenalty() && e.list[b].Flagged
	}
	nd.bp = Breakpoint{
		Start:    prev.pos + 1,
		End:      min(b, n-1),
		Width:    x.width,
		Stretch:  x.stretch,
		Shrink:   x.shrink,
		Ratio:    f.ratio,
		Demerits: nd.total,
		Fitness:  fitness,
		Indent:   f.indent,
		Target:   target,
		Forced:   b < n && e.list[b].IsForcedBreak(),
	}
	return nd
}

// overfullNode commits a fragment that cannot be made to fit.
func (e *engine) overfullNode(prev *node, b int, x extent, target int) *node {
	f := fit{verdict: tooLong}
	if x.shrink > 0 {
		f.ratio = -1
	}
	p := &e.c.Policy
	d := float64(p.LinePenalty + infBad)
	nd := e.newNode(prev, b, x, f, target, FitnessVeryTight, d*d+float64(p.OverfullDemerits))
	nd.bp.Overfull = true
	nd.excess = x.width - x.shrink - target
	return nd
}

// underfullNode commits a fragment which stays short of its target.
func (e *engine) underfullNode(prev *node, b int, x extent, f fit, target int) *node {
	fitness := FitnessVeryLoose
	nd := e.newNode(prev, b, x, f, target, fitness, e.demerits(f, b, prev, fitness))
	nd.bp.Underfull = true
	nd.excess = target - x.width - int(e.c.tolerance()*float64(x.stretch))
	return nd
}

// trace collects the breakpoints of a solution and reports degraded fragments.
func (e *engine) trace(last *node, dc *diag.Collector) []Breakpoint {
	var out []Breakpoint
	for nd := range e.chain(last) {
		i, bp := len(out), nd.bp
		out = append(out, bp)
		if !bp.Overfull && !bp.Underfull {
			continue
		}
		pos := e.list.FirstPosition(bp.Start, bp.End)
		if !pos.Valid() {
			pos = knuth.At(e.c.Owner, -1)
		}
		if bp.Overfull {
			dc.Warnf(diag.CodeOverfull, pos, i, nd.excess,
				"%s %d overfull by %s", e.c.Mode, i, debug.Pt(nd.excess))
		} else {
			dc.Warnf(diag.CodeUnderfull, pos, i, nd.excess,
				"%s %d underfull by %s", e.c.Mode, i, debug.Pt(nd.excess))
		}
	}
	return out
}

// chain yields the nodes of a solution from first to last.
func (e *engine) chain(last *node) func(yield func(*node) bool) {
	return func(yield func(*node) bool) {
		var nodes []*node
		for nd := last; nd != nil && nd.pos >= 0; nd = nd.prev {
			nodes = append(nodes, nd)
		}
		for i := len(nodes) - 1; i >= 0; i-- {
			if !yield(nodes[i]) {
				return
			}
		}
	}
}
