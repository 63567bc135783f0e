// Package knuth defines the breakable element model: boxes, glues and
// penalties in the sense of Knuth and Plass, together with the conditional
// (space, border, padding) elements that exist in a list until space
// resolution replaces them.
//
// All extents are millipoints. Elements are small values; a List owns them and
// positions point back into an externally owned content arena by handle.
package knuth

import (
	"fmt"

	"foflow/common"
)

// Infinite is the penalty cost sentinel: cost >= Infinite forbids a break,
// cost <= -Infinite forces one.
const Infinite = 1000

// Fil is the stretch given to fill glue (end of paragraph, centering). It is
// large enough to dominate any natural stretch and small enough to keep ratio
// arithmetic exact in float64.
const Fil = 1 << 30

// Kind discriminates the element variants.
type Kind uint8

const (
	KindBox Kind = iota
	KindGlue
	KindPenalty
	// KindUnresolved is a conditional space/border/padding element which must be
	// replaced by the space resolver before breaking.
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindGlue:
		return "glue"
	case KindPenalty:
		return "penalty"
	case KindUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Element is a single breakable element.
type Element struct {
	Kind  Kind
	Width int

	// Glue only.
	Stretch int
	Shrink  int

	// Penalty only.
	Penalty int
	Flagged bool
	Class   common.BreakClass

	// Aux elements were generated by layout and map to no content.
	Aux bool

	// Cond is set for KindUnresolved only.
	Cond *Conditional

	Pos Position
}

// NewBox returns a box of the given width.
func NewBox(width int, pos Position) Element {
	return Element{Kind: KindBox, Width: width, Pos: pos}
}

// NewAuxBox returns a zero-width auxiliary box. It stops glue discarding after a
// break without contributing content.
func NewAuxBox(pos Position) Element {
	return Element{Kind: KindBox, Aux: true, Pos: pos}
}

// NewGlue returns a glue with natural width and elasticity.
func NewGlue(width, stretch, shrink int, pos Position) Element {
	return Element{Kind: KindGlue, Width: width, Stretch: stretch, Shrink: shrink, Pos: pos}
}

// NewPenalty returns a penalty. Costs outside the +-Infinite range are clamped.
func NewPenalty(width, cost int, flagged bool, pos Position) Element {
	return Element{Kind: KindPenalty, Width: width, Penalty: clampPenalty(cost), Flagged: flagged, Pos: pos}
}

// NewForcedBreak returns a mandatory break of the given class.
func NewForcedBreak(class common.BreakClass, pos Position) Element {
	return Element{Kind: KindPenalty, Penalty: -Infinite, Class: class, Pos: pos}
}

// NewKeep returns an infinite penalty which forbids breaking at its location.
func NewKeep(pos Position) Element {
	return Element{Kind: KindPenalty, Penalty: Infinite, Aux: true, Pos: pos}
}

// NewUnresolved wraps a conditional specification.
func NewUnresolved(c Conditional, pos Position) Element {
	return Element{Kind: KindUnresolved, Cond: &c, Pos: pos}
}

func clampPenalty(cost int) int {
	return min(max(cost, -Infinite), Infinite)
}

func (e Element) IsBox() bool        { return e.Kind == KindBox }
func (e Element) IsGlue() bool       { return e.Kind == KindGlue }
func (e Element) IsPenalty() bool    { return e.Kind == KindPenalty }
func (e Element) IsUnresolved() bool { return e.Kind == KindUnresolved }

// IsForcedBreak reports a penalty with the forced sentinel.
func (e Element) IsForcedBreak() bool {
	return e.Kind == KindPenalty && e.Penalty <= -Infinite
}

// IsForbiddenBreak reports a penalty with the infinite sentinel.
func (e Element) IsForbiddenBreak() bool {
	return e.Kind == KindPenalty && e.Penalty >= Infinite
}

// Span is the range a glue covers. Other elements span their width.
func (e Element) Span() MinOptMax {
	if e.Kind != KindGlue {
		return Fixed(e.Width)
	}
	return MinOptMax{Min: e.Width - e.Shrink, Opt: e.Width, Max: e.Width + e.Stretch}
}

func (e Element) String() string {
	switch e.Kind {
	case KindBox:
		if e.Aux {
			return fmt.Sprintf("Box[w=%d aux]", e.Width)
		}
		return fmt.Sprintf("Box[w=%d]", e.Width)
	case KindGlue:
		return fmt.Sprintf("Glue[w=%d +%d -%d]", e.Width, e.Stretch, e.Shrink)
	case KindPenalty:
		switch {
		case e.IsForcedBreak():
			return fmt.Sprintf("Penalty[w=%d p=-inf %s]", e.Width, e.Class)
		case e.IsForbiddenBreak():
			return fmt.Sprintf("Penalty[w=%d p=inf]", e.Width)
		case e.Flagged:
			return fmt.Sprintf("Penalty[w=%d p=%d flagged]", e.Width, e.Penalty)
		}
		return fmt.Sprintf("Penalty[w=%d p=%d]", e.Width, e.Penalty)
	case KindUnresolved:
		if e.Cond == nil {
			return "Unresolved[?]"
		}
		return "Unresolved[" + e.Cond.String() + "]"
	}
	return "?"
}
