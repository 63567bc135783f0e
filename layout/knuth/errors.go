package knuth

import "fmt"

// InvariantError reports a structurally broken element list or a
// synchronisation failure between parallel lists. It indicates a bug in list
// construction and aborts the layout of the offending subtree.
type InvariantError struct {
	Node   NodeID
	Index  int
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed element list (node #%d, element %d): %s", e.Node, e.Index, e.Reason)
	}
	return fmt.Sprintf("malformed element list (node #%d): %s", e.Node, e.Reason)
}

// Invariantf builds an InvariantError.
func Invariantf(node NodeID, index int, format string, args ...any) error {
	return &InvariantError{Node: node, Index: index, Reason: fmt.Sprintf(format, args...)}
}
