package knuth

import (
	"fmt"
	"math"
	"strings"
)

// CondKind is the kind of a conditional element.
type CondKind uint8

const (
	CondSpace CondKind = iota
	CondBorder
	CondPadding
)

func (k CondKind) String() string {
	switch k {
	case CondSpace:
		return "space"
	case CondBorder:
		return "border"
	case CondPadding:
		return "padding"
	default:
		return fmt.Sprintf("CondKind(%d)", int(k))
	}
}

// Side is the relative edge of the owning area in block-progression direction.
type Side uint8

const (
	SideBefore Side = iota
	SideAfter
)

func (s Side) String() string {
	if s == SideAfter {
		return "after"
	}
	return "before"
}

// ForcePrecedence is the precedence value of space specifiers with
// precedence="force".
const ForcePrecedence = math.MaxInt32

// Conditional is a space, border or padding segment whose presence depends on
// where breaks fall.
type Conditional struct {
	Kind   CondKind
	Side   Side
	Length MinOptMax

	// Discard is the "discard" conditionality: the segment vanishes at a
	// fragment edge produced by a break.
	Discard bool

	// Precedence applies to spaces only.
	Precedence int

	// Continuation marks border/padding segments that exist only when a break
	// happens inside the owning area (the after edge of a non-last fragment,
	// the before edge of a non-first one).
	Continuation bool
}

// Forcing reports a space with forcing precedence.
func (c Conditional) Forcing() bool {
	return c.Kind == CondSpace && c.Precedence == ForcePrecedence
}

func (c Conditional) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-%s %s", c.Kind, c.Side, c.Length)
	if c.Discard {
		b.WriteString(" discard")
	} else {
		b.WriteString(" retain")
	}
	if c.Kind == CondSpace {
		if c.Forcing() {
			b.WriteString(" force")
		} else if c.Precedence != 0 {
			fmt.Fprintf(&b, " prec=%d", c.Precedence)
		}
	}
	if c.Continuation {
		b.WriteString(" cont")
	}
	return b.String()
}
