package build

import (
	"fmt"

	"go.uber.org/zap"

	"foflow/fo"
	"foflow/layout/combine"
	"foflow/layout/diag"
	"foflow/layout/knuth"
	"foflow/layout/space"
)

// listItem builds label and body side by side. The label gets the
// provisional distance between starts less the label separation, the body
// starts at the provisional distance.
func (b *Builder) listItem(n *fo.Node, ctx Context) (Result, error) {
	list := b.tree.Node(n.Parent).Props
	dist := min(list.ProvisionalDistance, ctx.Width)
	labelWidth := max(dist-list.ProvisionalSeparation, 0)

	var parts []knuth.NodeID
	var ctxs []Context
	for _, c := range n.Children {
		switch b.tree.Node(c).Kind {
		case fo.KindListItemLabel:
			parts = append(parts, c)
			ctxs = append(ctxs, Context{Start: ctx.Start, Width: labelWidth})
		case fo.KindListItemBody:
			parts = append(parts, c)
			ctxs = append(ctxs, Context{Start: ctx.Start + dist, Width: ctx.Width - dist})
		}
	}
	return b.combine(n, parts, ctxs)
}

// tableRow builds the cells of a row in their columns.
func (b *Builder) tableRow(n *fo.Node, ctx Context) (Result, error) {
	var (
		parts []knuth.NodeID
		ctxs  []Context
		x     = ctx.Start
	)
	for _, c := range n.Children {
		if b.tree.Node(c).Kind != fo.KindTableCell {
			continue
		}
		w := 0
		if col := len(parts); col < len(ctx.Columns) {
			w = ctx.Columns[col]
		} else {
			b.log.Warn("Cell outside of table columns", zap.String("node", b.tree.Path(c)))
		}
		parts = append(parts, c)
		ctxs = append(ctxs, Context{Start: x, Width: w})
		x += w
	}
	return b.combine(n, parts, ctxs)
}

// combine builds and resolves every part as a stream and steps the streams
// together.
func (b *Builder) combine(n *fo.Node, parts []knuth.NodeID, ctxs []Context) (Result, error) {
	var (
		res     Result
		streams = make([]knuth.List, len(parts))
		plans   = make([]*space.Plan, len(parts))
	)
	for i, id := range parts {
		r, err := b.Build(id, ctxs[i])
		if err != nil {
			return Result{}, err
		}
		if streams[i], plans[i], err = space.Resolve(r.Elements); err != nil {
			return Result{}, fmt.Errorf("%s: %w", b.tree.Path(id), err)
		}
		if r.StartKeep.Keeps() {
			res.StartKeep = KeepPending
		}
		if r.EndKeep.Keeps() {
			res.EndKeep = KeepPending
		}
		res.BreakBefore = res.BreakBefore.Stronger(r.BreakBefore)
		res.BreakAfter = res.BreakAfter.Stronger(r.BreakAfter)
	}
	if len(parts) == 0 {
		return res, nil
	}

	cr, err := combine.Combine(streams, combine.Options{
		Owner:        n.ID,
		KeepTogether: !n.Props.KeepTogether.IsAuto(),
	}, b.dc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.tree.Path(n.ID), err)
	}
	b.doc.Combinations[n.ID] = &Combination{Owner: n.ID, Parts: parts, Result: cr, Plans: plans}
	res.Elements = cr.List
	return res, nil
}

// columns resolves table column widths. Columns without a width share what
// the others leave; rows with more cells than declared columns add columns
// without a width.
func (b *Builder) columns(n *fo.Node, width int) []int {
	cols := append([]fo.Length(nil), n.Props.Columns...)
	for _, r := range n.Children {
		row := b.tree.Node(r)
		if row.Kind != fo.KindTableRow {
			continue
		}
		cells := 0
		for _, c := range row.Children {
			if b.tree.Node(c).Kind == fo.KindTableCell {
				cells++
			}
		}
		for len(cols) < cells {
			cols = append(cols, fo.Length{})
		}
	}

	out := make([]int, len(cols))
	used, auto := 0, 0
	for i, c := range cols {
		if !c.Relative && c.Abs == 0 {
			auto++
			continue
		}
		out[i] = c.Resolve(width)
		used += out[i]
	}
	if used > width {
		b.dc.Warnf(diag.CodeOverfull, knuth.At(n.ID, 0), -1, used-width, "table columns exceed available width")
	}
	if auto > 0 {
		share := max(width-used, 0) / auto
		for i, c := range cols {
			if !c.Relative && c.Abs == 0 {
				out[i] = share
			}
		}
	}
	return out
}
