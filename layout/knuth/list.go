package knuth

import (
	"foflow/utils/debug"
)

// List is an ordered sequence of elements. Order is significant. A list is
// mutable while it is built and read-only once handed to a breaker.
type List []Element

// IsLegalBreak reports whether a break may occur at index i: at a penalty
// whose cost is below Infinite, or at a glue immediately preceded by a box.
func (l List) IsLegalBreak(i int) bool {
	if i < 0 || i >= len(l) {
		return false
	}
	switch e := l[i]; e.Kind {
	case KindPenalty:
		return e.Penalty < Infinite
	case KindGlue:
		return i > 0 && l[i-1].IsBox()
	}
	return false
}

// NaturalWidth sums boxes and glues. Penalty widths only count when a break is
// taken at them and are ignored here.
func (l List) NaturalWidth() int {
	w := 0
	for _, e := range l {
		if e.IsBox() || e.IsGlue() {
			w += e.Width
		}
	}
	return w
}

// HasContent reports whether the list holds at least one non-auxiliary box.
func (l List) HasContent() bool {
	for _, e := range l {
		if e.IsBox() && !e.Aux {
			return true
		}
	}
	return false
}

// HasUnresolved reports whether space resolution still has work to do.
func (l List) HasUnresolved() bool {
	for _, e := range l {
		if e.IsUnresolved() {
			return true
		}
	}
	return false
}

// FirstPosition returns the position of the first content box in [start,end],
// or of the first element with a valid position, or NoPosition.
func (l List) FirstPosition(start, end int) Position {
	start = max(start, 0)
	end = min(end, len(l)-1)
	fallback := NoPosition
	for i := start; i <= end; i++ {
		if l[i].IsBox() && !l[i].Aux && l[i].Pos.Valid() {
			return l[i].Pos
		}
		if !fallback.Valid() && l[i].Pos.Valid() {
			fallback = l[i].Pos
		}
	}
	return fallback
}

// Validate checks the structural invariants a breaker relies on. owner names
// the node reported in the error.
func (l List) Validate(owner NodeID) error {
	for i, e := range l {
		switch e.Kind {
		case KindUnresolved:
			return Invariantf(nodeOf(e, owner), i, "unresolved %s element reached breaking", e.Cond)
		case KindGlue:
			if e.Stretch < 0 || e.Shrink < 0 {
				return Invariantf(nodeOf(e, owner), i, "glue with negative elasticity %s", e)
			}
			if i > 0 && l[i-1].IsGlue() {
				return Invariantf(nodeOf(e, owner), i, "glue directly follows glue")
			}
		case KindBox, KindPenalty:
		default:
			return Invariantf(nodeOf(e, owner), i, "unknown element kind %s", e.Kind)
		}
	}
	return nil
}

func nodeOf(e Element, owner NodeID) NodeID {
	if e.Pos.Valid() {
		return e.Pos.Node
	}
	return owner
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Dump writes one line per element.
func (l List) Dump(tw *debug.TreeWriter, depth int) {
	for i, e := range l {
		tw.Line(depth, "%4d %-40s %s", i, e.String(), e.Pos)
	}
}

func (l List) String() string {
	tw := debug.NewTreeWriter()
	l.Dump(tw, 0)
	return tw.String()
}
