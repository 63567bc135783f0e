package build

import (
	"fmt"

	"foflow/common"
	"foflow/layout/knuth"
)

// KeepSignal tells a parent whether the edge of a child's list must stay
// with its neighbour.
type KeepSignal uint8

const (
	// KeepNone imposes nothing.
	KeepNone KeepSignal = iota
	// KeepPending is a keep raised by a descendant at the edge of the list.
	// It applies to whatever ends up next to the list, which the descendant
	// could not know.
	KeepPending
	// KeepMust is the keep of the node the list was built for.
	KeepMust
)

func (k KeepSignal) String() string {
	switch k {
	case KeepNone:
		return "none"
	case KeepPending:
		return "pending"
	case KeepMust:
		return "must"
	}
	return fmt.Sprintf("KeepSignal(%d)", int(k))
}

// Keeps reports whether the signal forbids breaking at the edge.
func (k KeepSignal) Keeps() bool {
	return k != KeepNone
}

// escalate turns a child's signal into the one its parent reports when the
// child sits at the parent's edge.
func (k KeepSignal) escalate() KeepSignal {
	if k.Keeps() {
		return KeepPending
	}
	return KeepNone
}

// Result is the element list of a node together with the constraints that
// apply to its edges.
type Result struct {
	Elements knuth.List

	// StartKeep is keep-with-previous, EndKeep keep-with-next.
	StartKeep KeepSignal
	EndKeep   KeepSignal

	BreakBefore common.BreakClass
	BreakAfter  common.BreakClass
}

// Empty reports whether the result holds no elements.
func (r Result) Empty() bool {
	return len(r.Elements) == 0
}

// Context is the geometry available to a node: the content rectangle of its
// parent in inline-progression direction, relative to the body region.
type Context struct {
	Start, Width int
	// Columns are table column widths, set for table rows.
	Columns []int
}

// Frame records where a node was laid out in inline-progression direction.
// X and Width cover the border rectangle, ContentX and ContentWidth the
// content rectangle.
type Frame struct {
	X, Width               int
	ContentX, ContentWidth int
}
