package fo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"foflow/common"
	"foflow/css"
	"foflow/layout/knuth"
)

// Options control loading.
type Options struct {
	// Page is used when the document has no simple-page-master.
	Page     PageGeometry
	Defaults Defaults
}

// Attributes that are not properties.
var structural = map[string]bool{
	"id":                      true,
	"style":                   true,
	"master-name":             true,
	"master-reference":        true,
	"flow-name":               true,
	"region-name":             true,
	"column-width":            true,
	"column-number":           true,
	"number-columns-repeated": true,
	"number-columns-spanned":  true,
	"character":               true,
	"font-family":             true,
	"font-weight":             true,
	"font-style":              true,
	"color":                   true,
	"background-color":        true,
	"xmlns":                   true,
}

type loader struct {
	tree   *Tree
	style  *css.Parser
	log    *zap.Logger
	master bool
}

// LoadFile reads an XSL-FO document from a file.
func LoadFile(path string, opt Options, log *zap.Logger) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open source: %w", err)
	}
	defer f.Close()

	return Load(f, opt, log)
}

// Load reads an XSL-FO document into a new tree. Unknown elements and
// unsupported or invalid property values are reported and skipped.
func Load(r io.Reader, opt Options, log *zap.Logger) (*Tree, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read FO: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	if root.Tag != "root" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	l := &loader{
		style: css.NewParser(log),
		log:   log.Named("fo"),
	}
	rootProps := DefaultProperties(opt.Defaults)
	l.tree = NewTree(opt.Page, rootProps)
	l.apply(root, &l.tree.nodes[0].Props, nil)

	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "layout-master-set":
			l.masters(child)
		case "page-sequence":
			l.pageSequence(child)
		case "declarations":
		default:
			l.unexpected(root, child)
		}
	}
	if l.tree.Flow == knuth.NoNode {
		return nil, errors.New("document has no flow")
	}
	return l.tree, nil
}

func (l *loader) unexpected(parent, el *etree.Element) {
	l.log.Warn("Unexpected tag, ignoring", zap.String("parent", parent.Tag), zap.String("tag", el.Tag))
}

// masters takes the page geometry from the first simple-page-master. Margins
// of its region-body add to the page margins.
func (l *loader) masters(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if child.Tag != "simple-page-master" {
			continue
		}
		if l.master {
			l.log.Debug("Only the first simple-page-master is used", zap.String("master-name", child.SelectAttrValue("master-name", "")))
			continue
		}
		l.master = true

		page := &l.tree.Page
		size := l.tree.nodes[0].Props.FontSize
		l.geometry(child, size, map[string]*int{
			"page-width":    &page.Width,
			"page-height":   &page.Height,
			"margin-top":    &page.MarginTop,
			"margin-bottom": &page.MarginBottom,
			"margin-left":   &page.MarginLeft,
			"margin-right":  &page.MarginRight,
		}, false)
		if body := child.SelectElement("region-body"); body != nil {
			l.geometry(body, size, map[string]*int{
				"margin-top":    &page.MarginTop,
				"margin-bottom": &page.MarginBottom,
				"margin-left":   &page.MarginLeft,
				"margin-right":  &page.MarginRight,
			}, true)
		}
	}
}

func (l *loader) geometry(el *etree.Element, fontSize int, dst map[string]*int, add bool) {
	if m := el.SelectAttr("margin"); m != nil {
		if v, err := ParseLength(m.Value, fontSize); err == nil {
			for _, side := range []string{"margin-top", "margin-bottom", "margin-left", "margin-right"} {
				if add {
					*dst[side] += v
				} else {
					*dst[side] = v
				}
			}
		} else {
			l.log.Warn("Invalid page geometry, ignoring", zap.String("tag", el.Tag), zap.String("attr", "margin"), zap.Error(err))
		}
	}
	for _, a := range el.Attr {
		p, ok := dst[a.Key]
		if !ok {
			continue
		}
		if a.Value == "auto" || a.Value == "indefinite" {
			continue
		}
		v, err := ParseLength(a.Value, fontSize)
		if err != nil {
			l.log.Warn("Invalid page geometry, ignoring", zap.String("tag", el.Tag), zap.String("attr", a.Key), zap.Error(err))
			continue
		}
		if add {
			*p += v
		} else {
			*p = v
		}
	}
}

// pageSequence loads the flow of a page sequence. Following sequences go into
// the same flow and start on a new page.
func (l *loader) pageSequence(el *etree.Element) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "flow":
			if name := child.SelectAttrValue("flow-name", "xsl-region-body"); name != "xsl-region-body" {
				l.log.Debug("Skipping flow", zap.String("flow-name", name))
				continue
			}
			seq := l.tree.Node(l.tree.Root()).Props.Inherited()
			l.apply(el, &seq, &l.tree.Node(l.tree.Root()).Props)

			var parent knuth.NodeID
			if l.tree.Flow == knuth.NoNode {
				parent = l.tree.Add(l.tree.Root(), KindFlow, &seq)
			} else {
				props := seq
				props.BreakBefore = common.BreakClassPage
				parent = l.tree.Add(l.tree.Flow, KindBlock, &props)
			}
			l.apply(child, &l.tree.Node(parent).Props, &seq)
			l.blocks(child, parent)
		case "static-content", "title":
			l.log.Debug("Skipping page sequence content", zap.String("tag", child.Tag))
		default:
			l.unexpected(el, child)
		}
	}
}

// blocks loads block-level content. Character data is kept, the builder
// decides what whitespace means.
func (l *loader) blocks(el *etree.Element, parent knuth.NodeID) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			l.text(parent, t.Data)
		case *etree.Element:
			l.element(el, t, parent)
		}
	}
}

func (l *loader) text(parent knuth.NodeID, data string) {
	if data == "" {
		return
	}
	if strings.TrimSpace(data) == "" {
		// whitespace between block-level children
		if n := l.tree.Node(parent); len(n.Children) == 0 || !l.tree.Node(n.Children[len(n.Children)-1]).Kind.IsInline() {
			return
		}
	}
	l.tree.AddText(parent, data)
}

func (l *loader) element(parentEl, el *etree.Element, parent knuth.NodeID) {
	switch el.Tag {
	case "block", "block-container":
		l.blocks(el, l.add(el, parent, KindBlock))
	case "inline", "wrapper", "basic-link", "page-number-citation":
		l.blocks(el, l.add(el, parent, KindInline))
	case "character":
		id := l.add(el, parent, KindInline)
		l.tree.AddText(id, el.SelectAttrValue("character", ""))
	case "list-block":
		l.listBlock(el, l.add(el, parent, KindListBlock))
	case "table-and-caption":
		for _, child := range el.ChildElements() {
			if child.Tag == "table" {
				l.table(child, l.add(child, parent, KindTable))
			}
		}
	case "table":
		l.table(el, l.add(el, parent, KindTable))
	case "footnote", "float", "marker", "external-graphic", "instream-foreign-object", "leader":
		l.log.Debug("Unsupported formatting object, ignoring", zap.String("tag", el.Tag))
	default:
		l.unexpected(parentEl, el)
		// keep the text of unknown wrappers
		l.blocks(el, l.add(el, parent, KindInline))
	}
}

func (l *loader) listBlock(el *etree.Element, id knuth.NodeID) {
	for _, item := range el.ChildElements() {
		if item.Tag != "list-item" {
			l.unexpected(el, item)
			continue
		}
		itemID := l.add(item, id, KindListItem)
		var label, body *etree.Element
		for _, child := range item.ChildElements() {
			switch child.Tag {
			case "list-item-label":
				label = child
			case "list-item-body":
				body = child
			default:
				l.unexpected(item, child)
			}
		}
		// label first, an absent part stays empty
		for _, part := range []struct {
			el   *etree.Element
			kind Kind
		}{{label, KindListItemLabel}, {body, KindListItemBody}} {
			if part.el == nil {
				l.tree.Add(itemID, part.kind, nil)
				continue
			}
			l.blocks(part.el, l.add(part.el, itemID, part.kind))
		}
	}
}

func (l *loader) table(el *etree.Element, id knuth.NodeID) {
	props := &l.tree.Node(id).Props
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "table-column":
			props.Columns = append(props.Columns, l.columns(child, props.FontSize)...)
		case "table-header", "table-body", "table-footer":
			l.rows(child, id)
		case "table-row", "table-cell":
			l.rows(el, id)
			return
		default:
			l.unexpected(el, child)
		}
	}
}

func (l *loader) columns(el *etree.Element, fontSize int) []Length {
	var width Length
	if s := el.SelectAttrValue("column-width", ""); s != "" && s != "auto" && !strings.HasPrefix(s, "proportional-column-width") {
		w, err := ParseRelativeLength(s, fontSize)
		if err != nil {
			l.log.Warn("Invalid column width, ignoring", zap.String("value", s), zap.Error(err))
		} else {
			width = w
		}
	}
	n := 1
	if s := el.SelectAttrValue("number-columns-repeated", ""); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			l.log.Warn("Invalid number-columns-repeated, ignoring", zap.String("value", s))
		} else {
			n = v
		}
	}
	cols := make([]Length, n)
	for i := range cols {
		cols[i] = width
	}
	return cols
}

// rows loads table rows. Cells given without rows share one implied row.
func (l *loader) rows(el *etree.Element, table knuth.NodeID) {
	implied := knuth.NoNode
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "table-row":
			implied = knuth.NoNode
			row := l.add(child, table, KindTableRow)
			for _, cell := range child.ChildElements() {
				if cell.Tag != "table-cell" {
					l.unexpected(child, cell)
					continue
				}
				l.blocks(cell, l.add(cell, row, KindTableCell))
			}
		case "table-cell":
			if implied == knuth.NoNode || child.SelectAttrValue("starts-row", "") == "true" {
				implied = l.tree.Add(table, KindTableRow, nil)
			}
			l.blocks(child, l.add(child, implied, KindTableCell))
			if child.SelectAttrValue("ends-row", "") == "true" {
				implied = knuth.NoNode
			}
		case "table-column":
		default:
			l.unexpected(el, child)
		}
	}
}

// add creates a node for el with its properties computed against parent.
func (l *loader) add(el *etree.Element, parent knuth.NodeID, kind Kind) knuth.NodeID {
	parentProps := l.tree.Node(parent).Props
	props := parentProps.Inherited()
	l.apply(el, &props, &parentProps)
	id := l.tree.Add(parent, kind, &props)
	l.tree.Node(id).Name = el.SelectAttrValue("id", "")
	return id
}

// apply sets properties from attributes and then from the style attribute.
// font-size goes first in both since other lengths depend on it.
func (l *loader) apply(el *etree.Element, p, parent *Properties) {
	type decl struct {
		name  string
		value css.Value
	}
	var attrs []decl
	for _, a := range el.Attr {
		name := a.Key
		if a.Space == "xmlns" || structural[name] {
			continue
		}
		if a.Space == "xml" {
			if name != "lang" {
				continue
			}
			name = "xml:lang"
		} else if a.Space != "" {
			continue
		}
		v, err := css.ParseValue(a.Value)
		if err != nil {
			l.log.Warn("Invalid property value, ignoring", zap.String("tag", el.Tag), zap.String("property", name), zap.Error(err))
			continue
		}
		if name == "language" || name == "xml:lang" {
			v.Raw = strings.TrimSpace(a.Value)
		}
		attrs = append(attrs, decl{name, v})
	}
	if s := el.SelectAttrValue("style", ""); s != "" {
		decls := l.style.ParseInline([]byte(s), el.Tag)
		for _, name := range decls.Names() {
			v, _ := decls.Get(name)
			attrs = append(attrs, decl{name, v})
		}
	}

	set := func(d decl) {
		err := p.Set(d.name, d.value, parent)
		switch {
		case err == nil:
		case errors.Is(err, errUnsupported):
			l.log.Debug("Unsupported property, ignoring", zap.String("tag", el.Tag), zap.String("property", d.name))
		default:
			l.log.Warn("Invalid property value, ignoring", zap.String("tag", el.Tag), zap.String("property", d.name), zap.Error(err))
		}
	}
	for _, d := range attrs {
		if d.name == "font-size" {
			set(d)
		}
	}
	for _, d := range attrs {
		if d.name != "font-size" {
			set(d)
		}
	}
}
