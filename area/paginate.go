package area

import (
	"fmt"

	"go.uber.org/zap"

	"foflow/common"
	"foflow/fo"
	"foflow/layout/breaker"
	"foflow/layout/build"
	"foflow/layout/diag"
	"foflow/layout/knuth"
	"foflow/layout/space"
)

// Options configure page breaking.
type Options struct {
	Strategy common.Strategy
	// Alignment of page content in block-progression direction. Justified
	// pages stretch their spaces to the body height.
	Alignment common.Alignment
	Tolerance float64
	Policy    breaker.Policy

	// Listener, when set, receives every conditional decision.
	Listener space.Listener
}

type generator struct {
	doc *build.Document
	log *zap.Logger

	// broken steps of every combination
	broken map[knuth.NodeID]map[int]bool
	// page holding every combined step
	steps map[knuth.NodeID]map[int]*Page
}

// Paginate breaks the flow list into pages and generates their areas.
func Paginate(doc *build.Document, opt Options, dc *diag.Collector, log *zap.Logger) (*Tree, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &generator{
		doc:    doc,
		log:    log.Named("area"),
		broken: make(map[knuth.NodeID]map[int]bool),
		steps:  make(map[knuth.NodeID]map[int]*Page),
	}

	bps, err := PageBreaks(doc, opt, dc)
	if err != nil {
		return nil, err
	}

	geo := doc.Tree.Page
	tree := &Tree{}
	for i, bp := range bps {
		page := &Page{
			Index:     i + 1,
			Width:     geo.Width,
			Height:    geo.Height,
			BodyX:     geo.MarginLeft,
			BodyY:     geo.MarginTop,
			Start:     bp.Start,
			End:       bp.End,
			Ratio:     bp.Ratio,
			Overfull:  bp.Overfull,
			Underfull: bp.Underfull,
		}
		root := &Area{Kind: KindBlock, Node: doc.Tree.Flow, FO: fo.KindFlow.String(), Width: geo.BodyWidth()}
		p := &placer{g: g, page: page, root: root, stop: doc.Tree.Flow}
		p.walk(doc.List, breaker.ContentStart(doc.List, bp, i == 0), bp.End, bp.Ratio)
		page.Areas = root.Children
		tree.Pages = append(tree.Pages, page)
		if i < len(bps)-1 {
			g.markBreak(doc.List, bp.End)
		}
	}

	// conditionals of the flow belong to the page holding the element
	// they were resolved at
	for _, d := range doc.Plan.Commit(breaker.Ends(bps), opt.Listener) {
		for _, page := range tree.Pages {
			if d.At >= page.Start && d.At <= page.End {
				page.Decisions = append(page.Decisions, decisionOf(d))
				break
			}
		}
	}
	g.commitStreams(opt.Listener)

	g.log.Debug("Paginated", zap.Int("pages", len(tree.Pages)), zap.Int("elements", len(doc.List)))
	return tree, nil
}

// PageBreaks breaks the flow list of the document into pages.
func PageBreaks(doc *build.Document, opt Options, dc *diag.Collector) ([]breaker.Breakpoint, error) {
	c := breaker.Constraints{
		Width:         doc.Tree.Page.BodyHeight(),
		Mode:          breaker.ModePage,
		Strategy:      opt.Strategy,
		Alignment:     opt.Alignment,
		LastAlignment: common.AlignmentStart,
		Tolerance:     opt.Tolerance,
		Policy:        opt.Policy,
		Owner:         doc.Tree.Flow,
	}
	bps, err := breaker.FindBreaks(doc.List, c, dc)
	if err != nil {
		return nil, fmt.Errorf("unable to break pages: %w", err)
	}
	return bps, nil
}

// markBreak records that the list is broken at index at. Breaks at the
// penalty following a combined step break every stream ending there.
func (g *generator) markBreak(l knuth.List, at int) {
	e := l[at]
	if !e.IsPenalty() {
		return
	}
	c, ok := g.doc.Combinations[e.Pos.Node]
	if !ok {
		return
	}
	steps := g.broken[c.Owner]
	if steps == nil {
		steps = make(map[int]bool)
		g.broken[c.Owner] = steps
	}
	steps[e.Pos.Offset] = true
	for i, stream := range c.Result.Streams {
		for _, b := range c.StreamBreaks(i, steps) {
			g.markBreak(stream, b)
		}
	}
}

// commitStreams commits the conditionals of every combined stream and
// hands them to the pages holding their steps.
func (g *generator) commitStreams(lis space.Listener) {
	for owner, c := range g.doc.Combinations {
		for i, plan := range c.Plans {
			for _, d := range plan.Commit(c.StreamBreaks(i, g.broken[owner]), lis) {
				page := g.stepPage(c, i, d.At)
				if page == nil {
					g.log.Debug("Decision outside of pages", zap.Stringer("pos", d.Pos))
					continue
				}
				page.Decisions = append(page.Decisions, decisionOf(d))
			}
		}
	}
}

func (g *generator) stepPage(c *build.Combination, stream, at int) *Page {
	var last *Page
	for _, cp := range c.Result.Positions {
		page := g.steps[c.Owner][cp.Step]
		if page != nil {
			last = page
		}
		if r := cp.Ranges[stream]; !r.Empty() && at >= r.First && at <= r.Last {
			return page
		}
	}
	return last
}

// placer stacks areas in block-progression direction, opening and closing
// block areas so every area ends up inside the areas of its ancestors.
type placer struct {
	g    *generator
	page *Page
	root *Area
	// stop is the node the root area stands for.
	stop knuth.NodeID
	open []*Area
	y    int
}

func producesArea(k fo.Kind) bool {
	switch k {
	case fo.KindBlock, fo.KindListBlock, fo.KindListItem, fo.KindTable, fo.KindTableRow:
		return true
	}
	return false
}

// container returns the area content of owner goes into.
func (p *placer) container(owner knuth.NodeID) *Area {
	tree := p.g.doc.Tree
	var chain []knuth.NodeID
	for id := owner; id != p.stop && id != knuth.NoNode; {
		n := tree.Node(id)
		if n == nil {
			break
		}
		if producesArea(n.Kind) {
			chain = append(chain, id)
		}
		id = n.Parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	k := 0
	for k < len(p.open) && k < len(chain) && p.open[k].Node == chain[k] {
		k++
	}
	p.open = p.open[:k]
	for _, id := range chain[k:] {
		a := p.block(id)
		parent := p.root
		if len(p.open) > 0 {
			parent = p.open[len(p.open)-1]
		}
		parent.Children = append(parent.Children, a)
		p.open = append(p.open, a)
	}
	if len(p.open) == 0 {
		return p.root
	}
	return p.open[len(p.open)-1]
}

func (p *placer) block(id knuth.NodeID) *Area {
	n := p.g.doc.Tree.Node(id)
	f := p.g.doc.Frames[id]
	return &Area{Kind: KindBlock, Node: id, FO: n.Kind.String(), Name: n.Name, X: f.X, Y: p.y, Width: f.Width}
}

func (p *placer) place(a *Area, owner knuth.NodeID) {
	parent := p.container(owner)
	a.Y = p.y
	parent.Children = append(parent.Children, a)
	p.y += a.Height
	for _, o := range p.open {
		o.Height = p.y - o.Y
	}
	p.root.Height = max(p.root.Height, p.y-p.root.Y)
}

// walk places elements start..end of l. Glue at end is the break and takes no
// room unless it closes the list.
func (p *placer) walk(l knuth.List, start, end int, ratio float64) {
	doc := p.g.doc
	for k := start; k <= end && k < len(l); k++ {
		e := l[k]
		switch {
		case e.IsBox():
			if e.Aux {
				continue
			}
			if para, ok := doc.Paragraphs[e.Pos.Node]; ok {
				p.line(para, e)
				continue
			}
			if c, ok := doc.Combinations[e.Pos.Node]; ok {
				p.step(c, e)
				continue
			}
			owner := doc.Owner(e.Pos)
			f := doc.Frames[owner]
			p.place(&Area{Kind: KindBlock, Node: e.Pos.Node, X: f.ContentX, Width: f.ContentWidth, Height: e.Width}, owner)
		case e.IsGlue():
			if k == end && k < len(l)-1 {
				continue
			}
			w := breaker.Adjust(e, ratio)
			if w == 0 {
				continue
			}
			owner := doc.Owner(e.Pos)
			f := doc.Frames[owner]
			p.place(&Area{Kind: KindSpace, Node: e.Pos.Node, X: f.X, Width: f.Width, Height: w}, owner)
		}
	}
}

func (p *placer) line(para *build.Paragraph, e knuth.Element) {
	line := para.Lines[e.Pos.Offset]
	f := p.g.doc.Frames[para.Block]
	p.place(&Area{
		Kind:   KindLine,
		Node:   para.Block,
		X:      f.ContentX + line.Indent,
		Width:  line.Width,
		Height: e.Width,
		Text:   line.Text,
		Ratio:  line.Ratio,
	}, para.Block)
}

// step places one combined step: a row or item area holding the slice of
// every stream side by side.
func (p *placer) step(c *build.Combination, e knuth.Element) {
	doc := p.g.doc
	cp := c.Result.Positions[e.Pos.Offset]
	kind := KindRow
	if n := doc.Tree.Node(c.Owner); n != nil && n.Kind == fo.KindListItem {
		kind = KindItem
	}
	f := doc.Frames[c.Owner]
	a := &Area{Kind: kind, Node: c.Owner, X: f.ContentX, Width: f.ContentWidth, Height: e.Width}
	p.place(a, c.Owner)

	if p.g.steps[c.Owner] == nil {
		p.g.steps[c.Owner] = make(map[int]*Page)
	}
	p.g.steps[c.Owner][cp.Step] = p.page

	for i, r := range cp.Ranges {
		part := c.Parts[i]
		n := doc.Tree.Node(part)
		pf := doc.Frames[part]
		pa := &Area{Kind: KindBlock, Node: part, FO: n.Kind.String(), Name: n.Name, X: pf.X, Y: a.Y, Width: pf.Width, Height: a.Height}
		a.Children = append(a.Children, pa)
		if r.Empty() {
			continue
		}
		stream := c.Result.Streams[i]
		sub := &placer{g: p.g, page: p.page, root: &Area{Y: a.Y}, stop: part, y: a.Y}
		sub.walk(stream, breaker.ContentStart(stream, breaker.Breakpoint{Start: r.First}, r.First == 0), r.Last, 0)
		pa.Children = sub.root.Children
	}
}
