// Package build turns formatting objects into element lists. Every node
// yields a Result: its elements plus keep and break signals for its edges,
// which the parent resolves against its other children.
package build

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"foflow/common"
	"foflow/content/text"
	"foflow/fo"
	"foflow/layout/breaker"
	"foflow/layout/diag"
	"foflow/layout/knuth"
	"foflow/layout/space"
)

// Options configure element list construction.
type Options struct {
	Measurer text.Measurer
	Shaping  text.Options

	// Hyphenator and Splitter return the helpers for a language, nil when
	// none is available. Either may be nil.
	Hyphenator func(language.Tag) *text.Hyphenator
	Splitter   func(language.Tag) *text.Splitter

	// Line breaking parameters. Alignment and widths come from the content.
	LineStrategy common.Strategy
	Tolerance    float64
	Policy       breaker.Policy
}

type shaperKey struct {
	lang      string
	hyphenate bool
}

// Builder builds element lists for the nodes of one tree.
type Builder struct {
	tree    *fo.Tree
	opt     Options
	dc      *diag.Collector
	log     *zap.Logger
	doc     *Document
	shapers map[shaperKey]*text.Shaper
}

// New returns a builder. Infeasible line fits are reported to dc.
func New(tree *fo.Tree, opt Options, dc *diag.Collector, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.Measurer == nil {
		opt.Measurer = text.DefaultMeasurer()
	}
	return &Builder{
		tree:    tree,
		opt:     opt,
		dc:      dc,
		log:     log.Named("build"),
		doc:     newDocument(tree),
		shapers: make(map[shaperKey]*text.Shaper),
	}
}

// Document builds the flow and resolves its conditional elements.
func (b *Builder) Document() (*Document, error) {
	if b.tree.Flow == knuth.NoNode {
		return nil, fmt.Errorf("tree has no flow")
	}
	res, err := b.Build(b.tree.Flow, Context{Width: b.tree.Page.BodyWidth()})
	if err != nil {
		return nil, err
	}
	list, plan, err := space.Resolve(res.Elements)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	b.doc.Result = res
	b.doc.List = list
	b.doc.Plan = plan
	b.log.Debug("Flow built",
		zap.Int("elements", len(list)),
		zap.Int("paragraphs", len(b.doc.Paragraphs)),
		zap.Int("combinations", len(b.doc.Combinations)),
		zap.Int("runs", plan.Runs()))
	return b.doc, nil
}

// Build returns the element list of node id laid out in ctx.
func (b *Builder) Build(id knuth.NodeID, ctx Context) (Result, error) {
	n := b.tree.Node(id)
	if n == nil {
		return Result{}, fmt.Errorf("no node %d", id)
	}
	if n.Kind.IsInline() {
		// inline content outside of a paragraph forms one of its own
		parent := b.tree.Node(n.Parent)
		return b.paragraph(parent, []knuth.NodeID{id}, ctx, true)
	}

	inner := b.frame(n, ctx)
	var (
		content Result
		err     error
	)
	switch n.Kind {
	case fo.KindFlow, fo.KindBlock, fo.KindListItemLabel, fo.KindListItemBody, fo.KindTableCell:
		var parts []Result
		if parts, err = b.blockContent(n, inner); err == nil {
			content = b.stack(n, parts)
		}
	case fo.KindListBlock:
		content, err = b.children(n, fo.KindListItem, inner)
	case fo.KindTable:
		inner.Columns = b.columns(n, inner.Width)
		content, err = b.children(n, fo.KindTableRow, inner)
	case fo.KindListItem:
		content, err = b.listItem(n, inner)
	case fo.KindTableRow:
		content, err = b.tableRow(n, inner)
	default:
		return Result{}, fmt.Errorf("%s: unable to build %s", b.tree.Path(id), n.Kind)
	}
	if err != nil {
		return Result{}, err
	}
	res := b.wrap(n, content)
	if ce := b.log.Check(zap.DebugLevel, "Element list"); ce != nil {
		ce.Write(zap.String("node", b.tree.Path(id)),
			zap.Int("elements", len(res.Elements)),
			zap.Stringer("start-keep", res.StartKeep),
			zap.Stringer("end-keep", res.EndKeep))
	}
	return res, nil
}

// frame records the geometry of n and returns the context of its content.
func (b *Builder) frame(n *fo.Node, ctx Context) Context {
	p := n.Props
	f := Frame{
		X:     ctx.Start + p.StartIndent,
		Width: max(ctx.Width-p.StartIndent-p.EndIndent, 0),
	}
	f.ContentX = f.X + p.BorderStart + p.PaddingStart
	f.ContentWidth = max(f.Width-p.BorderStart-p.BorderEnd-p.PaddingStart-p.PaddingEnd, 0)
	b.doc.Frames[n.ID] = f
	return Context{Start: f.ContentX, Width: f.ContentWidth, Columns: ctx.Columns}
}

// blockContent builds the children of a block container. Adjacent inline
// children form paragraphs.
func (b *Builder) blockContent(n *fo.Node, ctx Context) ([]Result, error) {
	var (
		parts []Result
		group []knuth.NodeID
	)
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		r, err := b.paragraph(n, group, ctx, len(parts) == 0)
		group = nil
		if err != nil {
			return err
		}
		parts = append(parts, r)
		return nil
	}
	for _, c := range n.Children {
		child := b.tree.Node(c)
		if child.Kind.IsInline() {
			group = append(group, c)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		r, err := b.Build(c, ctx)
		if err != nil {
			return nil, err
		}
		parts = append(parts, r)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return parts, nil
}

// children builds and stacks the children of n of the given kind.
func (b *Builder) children(n *fo.Node, kind fo.Kind, ctx Context) (Result, error) {
	var parts []Result
	for _, c := range n.Children {
		child := b.tree.Node(c)
		if child.Kind != kind {
			if child.Kind != fo.KindText {
				b.log.Warn("Unexpected child, ignoring", zap.String("node", b.tree.Path(c)), zap.Stringer("expected", kind))
			}
			continue
		}
		r, err := b.Build(c, ctx)
		if err != nil {
			return Result{}, err
		}
		parts = append(parts, r)
	}
	return b.stack(n, parts), nil
}

// stack joins child lists in block-progression direction. Between two
// children goes a forced break when either asks for one, a keep when either
// signals one, and a free break otherwise. Signals of the outer children
// escalate to the result.
func (b *Builder) stack(n *fo.Node, parts []Result) Result {
	var (
		out     Result
		prev    *Result
		pending = common.BreakClassAuto
	)
	for i := range parts {
		r := &parts[i]
		if r.Empty() {
			pending = pending.Stronger(r.BreakBefore).Stronger(r.BreakAfter)
			continue
		}
		if prev == nil {
			out.BreakBefore = pending.Stronger(r.BreakBefore)
			out.StartKeep = r.StartKeep.escalate()
		} else {
			pos := knuth.At(n.ID, i)
			class := pending.Stronger(prev.BreakAfter).Stronger(r.BreakBefore)
			switch {
			case class.Forces():
				out.Elements = append(out.Elements, knuth.NewForcedBreak(class, pos))
			case prev.EndKeep.Keeps() || r.StartKeep.Keeps():
				out.Elements = append(out.Elements, knuth.NewKeep(pos))
			default:
				out.Elements = append(out.Elements, knuth.NewPenalty(0, 0, false, pos))
			}
		}
		pending = common.BreakClassAuto
		out.Elements = append(out.Elements, r.Elements...)
		prev = r
	}
	if prev != nil {
		out.EndKeep = prev.EndKeep.escalate()
		out.BreakAfter = prev.BreakAfter.Stronger(pending)
	} else {
		out.BreakBefore = pending
	}
	return out
}

// wrap adds the node's own spaces, borders and paddings around its content
// and applies keep-together and the node's keep and break properties.
func (b *Builder) wrap(n *fo.Node, content Result) Result {
	p := n.Props
	l := content.Elements

	if !p.KeepTogether.IsAuto() {
		l = b.keepTogether(n, l)
	}
	l = continuations(n, l)

	framed := p.BorderBefore.Width != 0 || p.BorderAfter.Width != 0 || p.PaddingBefore.Width != 0 || p.PaddingAfter.Width != 0
	res := Result{
		StartKeep:   content.StartKeep.escalate(),
		EndKeep:     content.EndKeep.escalate(),
		BreakBefore: p.BreakBefore.Stronger(content.BreakBefore),
		BreakAfter:  p.BreakAfter.Stronger(content.BreakAfter),
	}
	if !p.KeepWithPrevious.IsAuto() {
		res.StartKeep = KeepMust
	}
	if !p.KeepWithNext.IsAuto() {
		res.EndKeep = KeepMust
	}
	if len(l) == 0 && !framed {
		return res
	}

	out := make(knuth.List, 0, len(l)+6)
	if !p.SpaceBefore.Length.IsZero() {
		out = append(out, spaceElement(n.ID, knuth.SideBefore, p.SpaceBefore))
	}
	out = appendEdge(out, n.ID, knuth.CondBorder, knuth.SideBefore, p.BorderBefore, false)
	out = appendEdge(out, n.ID, knuth.CondPadding, knuth.SideBefore, p.PaddingBefore, false)
	out = append(out, l...)
	out = appendEdge(out, n.ID, knuth.CondPadding, knuth.SideAfter, p.PaddingAfter, false)
	out = appendEdge(out, n.ID, knuth.CondBorder, knuth.SideAfter, p.BorderAfter, false)
	if !p.SpaceAfter.Length.IsZero() {
		out = append(out, spaceElement(n.ID, knuth.SideAfter, p.SpaceAfter))
	}
	res.Elements = out
	return res
}

// keepTogether forbids every optional break inside l.
func (b *Builder) keepTogether(n *fo.Node, l knuth.List) knuth.List {
	out := l.Clone()
	for i, e := range out {
		if !e.IsPenalty() {
			continue
		}
		if e.IsForcedBreak() {
			b.dc.Warnf(diag.CodeKeep, e.Pos, -1, 0, "forced %s break inside keep-together of %s", e.Class, b.tree.Path(n.ID))
			continue
		}
		out[i].Penalty = knuth.Infinite
	}
	return out
}

// continuations surrounds every legal break of l with the node's retained
// after and before edges, which show only when the break is taken.
func continuations(n *fo.Node, l knuth.List) knuth.List {
	p := n.Props
	retained := func(e fo.Edge) bool { return e.Width != 0 && !e.Discard }
	if !retained(p.BorderBefore) && !retained(p.BorderAfter) && !retained(p.PaddingBefore) && !retained(p.PaddingAfter) {
		return l
	}
	out := make(knuth.List, 0, len(l))
	for _, e := range l {
		if !e.IsPenalty() || e.IsForbiddenBreak() {
			out = append(out, e)
			continue
		}
		out = appendEdge(out, n.ID, knuth.CondPadding, knuth.SideAfter, p.PaddingAfter, true)
		out = appendEdge(out, n.ID, knuth.CondBorder, knuth.SideAfter, p.BorderAfter, true)
		out = append(out, e)
		out = appendEdge(out, n.ID, knuth.CondBorder, knuth.SideBefore, p.BorderBefore, true)
		out = appendEdge(out, n.ID, knuth.CondPadding, knuth.SideBefore, p.PaddingBefore, true)
	}
	return out
}

func spaceElement(id knuth.NodeID, side knuth.Side, s fo.Space) knuth.Element {
	return knuth.NewUnresolved(knuth.Conditional{
		Kind:       knuth.CondSpace,
		Side:       side,
		Length:     s.Length,
		Discard:    s.Discard,
		Precedence: s.Precedence,
	}, conditionalAt(id, knuth.CondSpace, side))
}

// appendEdge appends a border or padding conditional. Continuation edges that
// are discarded at breaks would never show and are left out.
func appendEdge(l knuth.List, id knuth.NodeID, kind knuth.CondKind, side knuth.Side, e fo.Edge, continuation bool) knuth.List {
	if e.Width == 0 || (continuation && e.Discard) {
		return l
	}
	return append(l, knuth.NewUnresolved(knuth.Conditional{
		Kind:         kind,
		Side:         side,
		Length:       knuth.Fixed(e.Width),
		Discard:      e.Discard,
		Continuation: continuation,
	}, conditionalAt(id, kind, side)))
}
