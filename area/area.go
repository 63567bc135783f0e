// Package area turns the element list of a document into pages of
// positioned areas.
package area

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"foflow/layout/knuth"
	"foflow/layout/space"
	"foflow/utils/debug"
)

// Kind of area.
type Kind uint8

const (
	// KindBlock is the fragment of a block-level formatting object on a page.
	KindBlock Kind = iota
	KindLine
	// KindRow and KindItem are the combined steps of table rows and list
	// items, holding one block per cell or per label and body.
	KindRow
	KindItem
	// KindSpace is resolved space, border or padding.
	KindSpace
)

var kindNames = []string{"block", "line", "row", "item", "space"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Area is a positioned rectangle. Coordinates are millipoints relative to the
// top left corner of the body region.
type Area struct {
	Kind Kind         `yaml:"kind"`
	Node knuth.NodeID `yaml:"node"`
	// FO is the kind of formatting object a block area was generated for.
	FO   string `yaml:"fo,omitempty"`
	Name string `yaml:"id,omitempty"`

	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	Text  string  `yaml:"text,omitempty"`
	Ratio float64 `yaml:"ratio,omitempty"`

	Children []*Area `yaml:"children,omitempty"`
}

// Decision is the fate of one conditional space, border or padding on a page.
type Decision struct {
	Node     knuth.NodeID `yaml:"node"`
	Trait    string       `yaml:"trait"`
	Retained bool         `yaml:"retained"`
	Length   int          `yaml:"length,omitempty"`
	Broken   bool         `yaml:"broken,omitempty"`
}

func decisionOf(d space.Decision) Decision {
	out := Decision{
		Node:     d.Pos.Node,
		Trait:    d.Cond.Kind.String() + "-" + d.Cond.Side.String(),
		Retained: d.Retained,
		Broken:   d.Broken,
	}
	if d.Retained {
		out.Length = d.Length.Opt
	}
	return out
}

// Page is one page of the area tree.
type Page struct {
	Index  int `yaml:"index"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Body region offset on the page.
	BodyX int `yaml:"body-x"`
	BodyY int `yaml:"body-y"`

	// Elements of the flow list on the page.
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Ratio float64 `yaml:"ratio,omitempty"`

	Overfull  bool `yaml:"overfull,omitempty"`
	Underfull bool `yaml:"underfull,omitempty"`

	Areas     []*Area    `yaml:"areas"`
	Decisions []Decision `yaml:"decisions,omitempty"`
}

// Tree is the paginated result.
type Tree struct {
	Pages []*Page `yaml:"pages"`
}

// YAML returns the tree marshalled as YAML.
func (t *Tree) YAML() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal area tree: %w", err)
	}
	return data, nil
}

// Dump writes the tree as indented text.
func (t *Tree) Dump(tw *debug.TreeWriter) {
	for _, p := range t.Pages {
		flags := ""
		if p.Overfull {
			flags += " overfull"
		}
		if p.Underfull {
			flags += " underfull"
		}
		tw.Line(0, "page %d [%d..%d] r=%.3f%s", p.Index, p.Start, p.End, p.Ratio, flags)
		for _, a := range p.Areas {
			a.dump(tw, 1)
		}
		for _, d := range p.Decisions {
			state := "discarded"
			if d.Retained {
				state = "retained " + debug.Pt(d.Length)
			}
			tw.Line(1, "#%d %s %s", d.Node, d.Trait, state)
		}
	}
}

func (a *Area) dump(tw *debug.TreeWriter, depth int) {
	label := a.Kind.String()
	if a.FO != "" && a.FO != label {
		label += " " + a.FO
	}
	if a.Name != "" {
		label += fmt.Sprintf(" id=%q", a.Name)
	}
	geometry := fmt.Sprintf("#%d %s x=%s y=%s w=%s h=%s", a.Node, label,
		debug.Pt(a.X), debug.Pt(a.Y), debug.Pt(a.Width), debug.Pt(a.Height))
	if a.Kind == KindLine {
		tw.TextBlock(depth, geometry, a.Text)
		return
	}
	tw.Line(depth, "%s", geometry)
	for _, c := range a.Children {
		c.dump(tw, depth+1)
	}
}

// Walk calls fn for a and every area below it, depth first.
func (a *Area) Walk(fn func(*Area)) {
	fn(a)
	for _, c := range a.Children {
		c.Walk(fn)
	}
}
