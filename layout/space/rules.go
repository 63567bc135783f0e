package space

import (
	"foflow/layout/knuth"
)

// edge tells which sides of a run of conditionals touch a fragment boundary.
type edge uint8

const (
	noEdge edge = 0
	// edgeStart: a fragment starts right before the items.
	edgeStart edge = 1 << 0
	// edgeEnd: a fragment ends right after the items.
	edgeEnd edge = 1 << 1
)

// item is an unresolved element taken out of the list.
type item struct {
	cond knuth.Conditional
	pos  knuth.Position
}

// share is the outcome for one item.
type share struct {
	kept   bool
	length knuth.MinOptMax
}

// resolve applies the conditionality and space resolution rules to a
// sequence of conditionals and returns the total they amount to together with
// the outcome for every item. broken tells whether a break occurs inside the
// areas owning the items, which is what makes continuation segments exist.
func resolve(items []item, at edge, broken bool) (knuth.MinOptMax, []share) {
	shares := make([]share, len(items))
	present := make([]bool, len(items))
	for i, it := range items {
		c := it.cond
		present[i] = !c.Continuation || (broken && !c.Discard)
	}

	// Discardable spaces touching the edge vanish. A retained non-zero border
	// or padding shields spaces behind it.
	if at&edgeStart != 0 {
		for i := 0; i < len(items); i++ {
			if !present[i] {
				continue
			}
			if separates(items[i].cond) {
				break
			}
			if items[i].cond.Kind == knuth.CondSpace && items[i].cond.Discard {
				present[i] = false
			}
		}
	}
	if at&edgeEnd != 0 {
		for i := len(items) - 1; i >= 0; i-- {
			if !present[i] {
				continue
			}
			if separates(items[i].cond) {
				break
			}
			if items[i].cond.Kind == knuth.CondSpace && items[i].cond.Discard {
				present[i] = false
			}
		}
	}

	total := knuth.Zero
	var group []int
	flush := func() {
		total = total.Plus(resolveGroup(items, group, shares))
		group = group[:0]
	}
	for i, it := range items {
		if !present[i] {
			continue
		}
		if it.cond.Kind == knuth.CondSpace {
			group = append(group, i)
			continue
		}
		if separates(it.cond) {
			flush()
		}
		shares[i] = share{kept: true, length: it.cond.Length}
		total = total.Plus(it.cond.Length)
	}
	flush()
	return total, shares
}

// separates reports a border or padding segment which keeps spaces on either
// side of it from being resolved together.
func separates(c knuth.Conditional) bool {
	return c.Kind != knuth.CondSpace && !c.Length.IsZero()
}

// resolveGroup resolves adjacent spaces into one: forcing spaces are summed,
// otherwise the space with the highest precedence wins and among those the
// one with the greatest optimum.
func resolveGroup(items []item, group []int, shares []share) knuth.MinOptMax {
	if len(group) == 0 {
		return knuth.Zero
	}

	forced := knuth.Zero
	anyForced := false
	for _, i := range group {
		if items[i].cond.Forcing() {
			anyForced = true
			forced = forced.Plus(items[i].cond.Length)
			shares[i] = share{kept: true, length: items[i].cond.Length}
		}
	}
	if anyForced {
		return forced
	}

	winner := group[0]
	for _, i := range group[1:] {
		c, w := items[i].cond, items[winner].cond
		if c.Precedence > w.Precedence || (c.Precedence == w.Precedence && c.Length.Opt > w.Length.Opt) {
			winner = i
		}
	}
	shares[winner] = share{kept: true, length: items[winner].cond.Length}
	return items[winner].cond.Length
}
