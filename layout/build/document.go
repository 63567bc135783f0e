package build

import (
	"strconv"

	"foflow/content/text"
	"foflow/fo"
	"foflow/layout/breaker"
	"foflow/layout/combine"
	"foflow/layout/knuth"
	"foflow/layout/space"
	"foflow/utils/debug"
)

// Line is one line of a broken paragraph.
type Line struct {
	Text string
	// Width is the adjusted extent of the line content.
	Width  int
	Indent int
	Height int
	Ratio  float64

	Hyphenated bool
	Overfull   bool
	Underfull  bool
}

// Paragraph records a run of inline content broken into lines. The line
// boxes of the block list carry Position{Key, line}.
type Paragraph struct {
	Key   knuth.NodeID
	Block knuth.NodeID

	Run      text.Run
	Elements knuth.List
	Breaks   []breaker.Breakpoint
	Lines    []Line
}

// Combination records the synchronised streams of a list item or table
// row. The combined boxes carry Position{Owner, step}.
type Combination struct {
	Owner knuth.NodeID
	// Parts are the nodes the streams were built for: label and body, or
	// the cells of a row.
	Parts  []knuth.NodeID
	Result *combine.Result
	// Plans commit the conditionals of each resolved stream.
	Plans []*space.Plan
}

// StreamBreaks returns the indices at which stream i breaks when the
// combined list is broken after the given steps.
func (c *Combination) StreamBreaks(i int, broken map[int]bool) []int {
	var out []int
	stream := c.Result.Streams[i]
	for k, cp := range c.Result.Positions {
		r := cp.Ranges[i]
		if !broken[k] || r.Empty() || r.Last >= len(stream)-1 {
			continue
		}
		out = append(out, r.Last)
	}
	return out
}

// Document is the element list of a whole flow and everything needed to map
// it back to content.
type Document struct {
	Tree *fo.Tree

	// List is the resolved flow list.
	List knuth.List
	Plan *space.Plan
	// Signals of the flow before resolution.
	Result Result

	Paragraphs   map[knuth.NodeID]*Paragraph
	Combinations map[knuth.NodeID]*Combination
	Frames       map[knuth.NodeID]Frame
}

func newDocument(tree *fo.Tree) *Document {
	return &Document{
		Tree:         tree,
		Paragraphs:   make(map[knuth.NodeID]*Paragraph),
		Combinations: make(map[knuth.NodeID]*Combination),
		Frames:       make(map[knuth.NodeID]Frame),
	}
}

// Conditional elements use negative offsets so they never clash with line,
// step or child indices.
func conditionalAt(id knuth.NodeID, kind knuth.CondKind, side knuth.Side) knuth.Position {
	return knuth.At(id, -2-(int(kind)*2+int(side)))
}

// ConditionalOf decodes the position of a conditional element.
func ConditionalOf(pos knuth.Position) (kind knuth.CondKind, side knuth.Side, ok bool) {
	code := -2 - pos.Offset
	if !pos.Valid() || code < 0 || code > int(knuth.CondPadding)*2+1 {
		return 0, 0, false
	}
	return knuth.CondKind(code / 2), knuth.Side(code % 2), true
}

// Owner returns the node whose area holds the element at pos. Spaces lie
// outside the node they were specified on, borders and paddings inside.
func (d *Document) Owner(pos knuth.Position) knuth.NodeID {
	if !pos.Valid() {
		return knuth.NoNode
	}
	if p, ok := d.Paragraphs[pos.Node]; ok {
		return p.Block
	}
	if kind, _, ok := ConditionalOf(pos); ok && kind == knuth.CondSpace {
		if n := d.Tree.Node(pos.Node); n != nil {
			return n.Parent
		}
	}
	return pos.Node
}

// Dump writes paragraphs, combinations and the resolved flow list.
func (d *Document) Dump(tw *debug.TreeWriter) {
	tw.Line(0, "flow: %d elements, %d conditional runs", len(d.List), d.Plan.Runs())
	if d.Plan != nil {
		d.Plan.Dump(tw, 1)
	}
	d.List.Dump(tw, 1)

	d.walk(d.Tree.Flow, func(id knuth.NodeID) {
		if p, ok := d.Paragraphs[id]; ok {
			tw.Line(0, "paragraph #%d in %s: %d lines", id, d.Tree.Path(p.Block), len(p.Lines))
			breaker.Dump(tw, 1, p.Breaks)
			for i, l := range p.Lines {
				tw.TextBlock(1, debug.Pt(l.Height)+" line "+strconv.Itoa(i), l.Text)
			}
		}
		if c, ok := d.Combinations[id]; ok {
			tw.Line(0, "combination %s: %d steps", d.Tree.Path(id), len(c.Result.Positions))
			for _, cp := range c.Result.Positions {
				tw.Line(1, "%s", cp)
			}
		}
	})
}

func (d *Document) walk(id knuth.NodeID, fn func(knuth.NodeID)) {
	n := d.Tree.Node(id)
	if n == nil {
		return
	}
	fn(id)
	for _, c := range n.Children {
		d.walk(c, fn)
	}
}
