package breaker

import (
	"slices"

	"foflow/layout/knuth"
)

// fallback remembers the degraded fragments to commit when no feasible
// solution survives.
type fallback struct {
	short *node
	long  *node
}

// offerShort keeps the latest too-short candidate, the one leaving the least
// empty space behind, and the cheaper one for equal positions.
func (fb *fallback) offerShort(nd *node) {
	if fb.short == nil || nd.pos > fb.short.pos || (nd.pos == fb.short.pos && nd.total < fb.short.total) {
		fb.short = nd
	}
}

// offerLong keeps the least overflowing too-long candidate.
func (fb *fallback) offerLong(nd *node) {
	if fb.long == nil || nd.excess < fb.long.excess || (nd.excess == fb.long.excess && nd.total < fb.long.total) {
		fb.long = nd
	}
}

func (fb *fallback) reset() {
	fb.short, fb.long = nil, nil
}

// candidate is a feasible way to reach the current break.
type candidate struct {
	class   int
	fitness Fitness
	nd      *node
}

// totalFit runs the Knuth-Plass search over all feasible breaks. Active nodes
// are kept per target class and fitness so only the cheapest way to reach a
// break in each class survives.
func (e *engine) totalFit() (*node, error) {
	n := len(e.list)
	active := []*node{e.startNode()}
	var fb fallback

	for b := 0; b <= n; b++ {
		legal, forced := e.breakAt(b)
		if !legal {
			continue
		}
		active = e.tryBreak(active, b, forced, &fb)
		if len(active) > 0 {
			continue
		}

		// Dead end: restart from the best too-short fragment when there is
		// one, otherwise give up on fitting and accept an overfull fragment.
		restart := fb.short
		if restart == nil {
			restart = fb.long
		}
		if restart == nil {
			return nil, knuth.Invariantf(e.c.Owner, b, "no break candidate survives")
		}
		fb.reset()
		active = []*node{restart}
		b = restart.pos
	}

	var best *node
	for _, a := range active {
		if best == nil || a.total < best.total {
			best = a
		}
	}
	if best == nil {
		return nil, knuth.Invariantf(e.c.Owner, n, "search ended without a solution")
	}
	return best, nil
}

// tryBreak evaluates break b against every active node and returns the new
// active set.
func (e *engine) tryBreak(active []*node, b int, forced bool, fb *fallback) []*node {
	var cands []candidate
	kept := active[:0]

	for _, a := range active {
		if a.start >= b && !forced {
			// Nothing but discarded material since a.
			kept = append(kept, a)
			continue
		}

		x := e.measure(a.start, b)
		target := e.c.Target(a.line)
		f := e.fitFragment(x, target, forced)

		if f.verdict != tooLong && !forced {
			kept = append(kept, a)
		}

		switch f.verdict {
		case feasible:
			fitness := fitnessOf(f.rank)
			nd := e.newNode(a, b, x, f, target, fitness, e.demerits(f, b, a, fitness))
			class := e.c.targetClass(nd.line)
			i := slices.IndexFunc(cands, func(c candidate) bool {
				return c.class == class && c.fitness == fitness
			})
			switch {
			case i < 0:
				cands = append(cands, candidate{class: class, fitness: fitness, nd: nd})
			case nd.total < cands[i].nd.total:
				cands[i].nd = nd
			}
		case tooShort:
			fb.offerShort(e.underfullNode(a, b, x, f, target))
		case tooLong:
			fb.offerLong(e.overfullNode(a, b, x, target))
		}
	}

	if len(cands) == 0 {
		return kept
	}

	// Within a target class, nodes much worse than the best cannot win
	// against it whatever fitness follows.
	bound := map[int]float64{}
	for _, c := range cands {
		if d, ok := bound[c.class]; !ok || c.nd.total < d {
			bound[c.class] = c.nd.total
		}
	}
	slack := float64(e.c.Policy.FitnessDemerits)
	for _, c := range cands {
		if c.nd.total <= bound[c.class]+slack {
			kept = append(kept, c.nd)
		}
	}
	return kept
}
