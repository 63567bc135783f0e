package knuth

import "fmt"

// NodeID is a handle into the content arena which owns formatting objects.
// Elements keep handles instead of pointers, so content nodes may hold the
// lists they produced without creating reference cycles.
type NodeID int32

// NoNode marks elements which do not originate from any content node.
const NoNode NodeID = -1

// Position maps an element back to the content that generated it. Offset is
// interpreted by the owner: a segment index for text, a line index for
// paragraph line boxes, a step index for combined list-item and table-row
// boxes.
type Position struct {
	Node   NodeID
	Offset int
}

// NoPosition is the zero back-reference.
var NoPosition = Position{Node: NoNode, Offset: -1}

// At is a shortcut for Position{Node: id, Offset: offset}.
func At(id NodeID, offset int) Position {
	return Position{Node: id, Offset: offset}
}

// Valid reports whether the position refers to a content node.
func (p Position) Valid() bool {
	return p.Node != NoNode
}

func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("#%d.%d", p.Node, p.Offset)
}
