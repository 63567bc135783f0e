package breaker

// firstFit commits fragments greedily. Candidates are collected since the
// last committed break; once the fragment overflows, or a forced break is
// reached, the cheapest candidate in that window is committed and the scan
// resumes right after it.
func (e *engine) firstFit() *node {
	n := len(e.list)
	cur := e.startNode()

	var (
		window []*node
		short  *node
	)
	for b := 0; b <= n; b++ {
		legal, forced := e.breakAt(b)
		if !legal {
			continue
		}
		if cur.start >= b && !forced {
			continue
		}

		x := e.measure(cur.start, b)
		target := e.c.Target(cur.line)
		f := e.fitFragment(x, target, forced)

		if f.verdict == tooLong {
			next := cheapest(window)
			if next == nil {
				next = short
			}
			if next == nil {
				next = e.overfullNode(cur, b, x, target)
			}
			cur, window, short = next, nil, nil
			b = next.pos
			continue
		}

		if f.verdict == tooShort {
			short = e.underfullNode(cur, b, x, f, target)
			continue
		}

		fitness := fitnessOf(f.rank)
		nd := e.newNode(cur, b, x, f, target, fitness, e.demerits(f, b, cur, fitness))
		if forced {
			cur, window, short = nd, nil, nil
			continue
		}
		window = append(window, nd)
	}
	return cur
}

// cheapest returns the candidate with the lowest demerits, preferring the
// later one on ties.
func cheapest(window []*node) *node {
	var best *node
	for _, nd := range window {
		if best == nil || nd.total <= best.total {
			best = nd
		}
	}
	return best
}
