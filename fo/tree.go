// Package fo holds formatting objects in an arena. Nodes refer to each other
// by knuth.NodeID and element positions produced by layout point back into the
// same arena.
package fo

import (
	"fmt"
	"strings"

	"foflow/layout/knuth"
	"foflow/utils/debug"
)

// Kind of formatting object.
type Kind uint8

const (
	KindRoot Kind = iota
	KindFlow
	KindBlock
	KindInline
	KindText
	KindListBlock
	KindListItem
	KindListItemLabel
	KindListItemBody
	KindTable
	KindTableRow
	KindTableCell
)

var kindNames = []string{
	"root", "flow", "block", "inline", "text",
	"list-block", "list-item", "list-item-label", "list-item-body",
	"table", "table-row", "table-cell",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsInline reports whether nodes of the kind take part in line building.
func (k Kind) IsInline() bool {
	return k == KindInline || k == KindText
}

// Node is a formatting object.
type Node struct {
	ID       knuth.NodeID
	Kind     Kind
	Parent   knuth.NodeID
	Children []knuth.NodeID
	Props    Properties

	// Name is the value of the id attribute.
	Name string
	// Text is the character data of text nodes.
	Text string
}

// PageGeometry is the simple page master: page size and margins around the
// body region, in millipoints.
type PageGeometry struct {
	Width, Height                                    int
	MarginTop, MarginBottom, MarginLeft, MarginRight int
}

// BodyWidth is the inline extent of the body region.
func (g PageGeometry) BodyWidth() int {
	return max(g.Width-g.MarginLeft-g.MarginRight, 0)
}

// BodyHeight is the block extent of the body region.
func (g PageGeometry) BodyHeight() int {
	return max(g.Height-g.MarginTop-g.MarginBottom, 0)
}

// Tree is the content arena. Node 0 is the root.
type Tree struct {
	nodes []Node
	Page  PageGeometry
	// Flow is the node holding the flow content, NoNode for an empty tree.
	Flow knuth.NodeID
}

// NewTree returns a tree holding only the root with the given properties.
func NewTree(page PageGeometry, root Properties) *Tree {
	t := &Tree{Page: page, Flow: knuth.NoNode}
	t.nodes = append(t.nodes, Node{ID: 0, Kind: KindRoot, Parent: knuth.NoNode, Props: root})
	return t
}

// Root returns the root id.
func (t *Tree) Root() knuth.NodeID {
	return 0
}

// Add appends a child to parent. Inherited properties are taken from the
// parent when props is nil.
func (t *Tree) Add(parent knuth.NodeID, kind Kind, props *Properties) knuth.NodeID {
	id := knuth.NodeID(len(t.nodes))
	n := Node{ID: id, Kind: kind, Parent: parent}
	if props != nil {
		n.Props = *props
	} else {
		n.Props = t.Node(parent).Props.Inherited()
	}
	t.nodes = append(t.nodes, n)
	p := &t.nodes[parent]
	p.Children = append(p.Children, id)
	if kind == KindFlow && t.Flow == knuth.NoNode {
		t.Flow = id
	}
	return id
}

// AddText appends character data to parent.
func (t *Tree) AddText(parent knuth.NodeID, text string) knuth.NodeID {
	id := t.Add(parent, KindText, nil)
	t.nodes[id].Text = text
	return id
}

// Node returns the node with the id or nil.
func (t *Tree) Node(id knuth.NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Len is the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Text returns the character data below id.
func (t *Tree) Text(id knuth.NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(t.Text(c))
	}
	return b.String()
}

// Path names the node and its ancestors for messages, e.g. "flow/block[2]".
func (t *Tree) Path(id knuth.NodeID) string {
	var parts []string
	for n := t.Node(id); n != nil && n.Kind != KindRoot; n = t.Node(n.Parent) {
		part := n.Kind.String()
		if p := t.Node(n.Parent); p != nil {
			for i, c := range p.Children {
				if c == n.ID {
					part = fmt.Sprintf("%s[%d]", part, i)
					break
				}
			}
		}
		parts = append(parts, part)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Dump writes the tree for debugging.
func (t *Tree) Dump(tw *debug.TreeWriter) {
	tw.Line(0, "page %sx%s body %sx%s", debug.Pt(t.Page.Width), debug.Pt(t.Page.Height),
		debug.Pt(t.Page.BodyWidth()), debug.Pt(t.Page.BodyHeight()))
	t.dump(tw, t.Root(), 0)
}

func (t *Tree) dump(tw *debug.TreeWriter, id knuth.NodeID, depth int) {
	n := t.Node(id)
	if n.Kind == KindText {
		tw.TextBlock(depth, fmt.Sprintf("#%d text", id), n.Text)
		return
	}
	line := fmt.Sprintf("#%d %s", id, n.Kind)
	if n.Name != "" {
		line += fmt.Sprintf(" id=%q", n.Name)
	}
	if props := n.Props.Summary(); props != "" {
		line += " " + props
	}
	tw.Line(depth, "%s", line)
	for _, c := range n.Children {
		t.dump(tw, c, depth+1)
	}
}
