package build

import (
	"fmt"

	"go.uber.org/zap"

	"foflow/content/text"
	"foflow/fo"
	"foflow/layout/breaker"
	"foflow/layout/knuth"
)

// shaper returns the shaper for the language and hyphenation setting of a
// block.
func (b *Builder) shaper(p fo.Properties) *text.Shaper {
	key := shaperKey{lang: p.Language.String(), hyphenate: p.Hyphenate}
	if s, ok := b.shapers[key]; ok {
		return s
	}
	var (
		h  *text.Hyphenator
		sp *text.Splitter
	)
	if p.Hyphenate && b.opt.Hyphenator != nil {
		h = b.opt.Hyphenator(p.Language)
	}
	if b.opt.Splitter != nil {
		sp = b.opt.Splitter(p.Language)
	}
	s := text.NewShaper(b.opt.Measurer, h, sp, b.opt.Shaping)
	b.shapers[key] = s
	return s
}

// spans collects the text below the inline nodes in document order.
func (b *Builder) spans(ids []knuth.NodeID, out []text.Span) []text.Span {
	for _, id := range ids {
		n := b.tree.Node(id)
		switch n.Kind {
		case fo.KindText:
			out = append(out, text.Span{Text: n.Text, Size: n.Props.FontSize, Node: id})
		case fo.KindInline:
			out = b.spans(n.Children, out)
		}
	}
	return out
}

// paragraph shapes the inline nodes of block, breaks them into lines and
// returns one box per line. Breaks between lines violating orphans or widows
// are forbidden.
func (b *Builder) paragraph(block *fo.Node, ids []knuth.NodeID, ctx Context, first bool) (Result, error) {
	p := block.Props
	run := b.shaper(p).Shape(b.spans(ids, nil))
	if len(run.List) == 0 {
		return Result{}, nil
	}

	inline := run.List
	if first && p.TextIndent != 0 {
		inline = append(knuth.List{knuth.NewBox(p.TextIndent, knuth.NoPosition)}, run.List...)
	}

	c := breaker.Constraints{
		Width:         ctx.Width,
		Mode:          breaker.ModeLine,
		Strategy:      b.opt.LineStrategy,
		Alignment:     p.TextAlign,
		LastAlignment: p.TextAlignLast,
		Tolerance:     b.opt.Tolerance,
		Policy:        b.opt.Policy,
		Owner:         block.ID,
	}
	bps, err := breaker.FindBreaks(inline, c, b.dc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.tree.Path(block.ID), err)
	}

	para := &Paragraph{
		Key:      ids[0],
		Block:    block.ID,
		Run:      run,
		Elements: inline,
		Breaks:   bps,
		Lines:    make([]Line, len(bps)),
	}
	for i, bp := range bps {
		start := breaker.ContentStart(inline, bp, i == 0)
		end := inline[bp.End]
		para.Lines[i] = Line{
			Text:       run.Text(inline, start, bp.End),
			Width:      bp.Adjusted(),
			Indent:     bp.Indent,
			Height:     b.lineHeight(inline[start:bp.End+1], p.LineHeight),
			Ratio:      bp.Ratio,
			Hyphenated: end.IsPenalty() && end.Flagged && end.Width > 0,
			Overfull:   bp.Overfull,
			Underfull:  bp.Underfull,
		}
	}
	b.doc.Paragraphs[para.Key] = para
	b.log.Debug("Paragraph broken", zap.String("block", b.tree.Path(block.ID)), zap.Int("lines", len(bps)))

	var res Result
	last := len(para.Lines) - 1
	for i, line := range para.Lines {
		pos := knuth.At(para.Key, i)
		res.Elements = append(res.Elements, knuth.NewBox(line.Height, pos))
		if i == last {
			break
		}
		if i+1 < p.Orphans || last-i < p.Widows {
			res.Elements = append(res.Elements, knuth.NewKeep(pos))
		} else {
			res.Elements = append(res.Elements, knuth.NewPenalty(0, 0, false, pos))
		}
	}
	return res, nil
}

// lineHeight is the largest line height of the content in a line.
func (b *Builder) lineHeight(l knuth.List, base int) int {
	h := base
	for _, e := range l {
		if !e.IsBox() || !e.Pos.Valid() {
			continue
		}
		if n := b.tree.Node(e.Pos.Node); n != nil {
			h = max(h, n.Props.LineHeight)
		}
	}
	return h
}
