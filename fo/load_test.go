package fo

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"foflow/common"
	"foflow/layout/knuth"
	"foflow/utils/debug"
)

const sampleFO = `<?xml version="1.0" encoding="utf-8"?>
<fo:root xmlns:fo="http://www.w3.org/1999/XSL/Format" font-size="11pt" xml:lang="en">
  <fo:layout-master-set>
    <fo:simple-page-master master-name="A5" page-width="148mm" page-height="210mm" margin="10mm">
      <fo:region-body margin-top="5mm"/>
    </fo:simple-page-master>
  </fo:layout-master-set>
  <fo:page-sequence master-reference="A5">
    <fo:static-content flow-name="xsl-region-before"><fo:block>header</fo:block></fo:static-content>
    <fo:flow flow-name="xsl-region-body">
      <fo:block id="title" font-size="2em" space-after="6pt" keep-with-next="always">Title</fo:block>
      <fo:block text-align="justify" space-before.conditionality="retain" style="text-indent: 1em">
        Some <fo:inline font-size="8pt">small</fo:inline> text<fo:character character="!"/>
      </fo:block>
      <fo:list-block provisional-distance-between-starts="20pt">
        <fo:list-item>
          <fo:list-item-label><fo:block>1.</fo:block></fo:list-item-label>
          <fo:list-item-body><fo:block>First</fo:block></fo:list-item-body>
        </fo:list-item>
      </fo:list-block>
      <fo:table>
        <fo:table-column column-width="30%"/>
        <fo:table-column column-width="2cm" number-columns-repeated="2"/>
        <fo:table-body>
          <fo:table-row>
            <fo:table-cell><fo:block>a</fo:block></fo:table-cell>
            <fo:table-cell><fo:block>b</fo:block></fo:table-cell>
          </fo:table-row>
        </fo:table-body>
      </fo:table>
    </fo:flow>
  </fo:page-sequence>
  <fo:page-sequence master-reference="A5">
    <fo:flow flow-name="xsl-region-body"><fo:block>Second</fo:block></fo:flow>
  </fo:page-sequence>
</fo:root>`

func load(t *testing.T, src string, log *zap.Logger) *Tree {
	t.Helper()
	tree, err := Load(strings.NewReader(src), Options{Page: PageGeometry{Width: 1, Height: 1}}, log)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tree
}

func kindsOf(tree *Tree, id knuth.NodeID) []Kind {
	var out []Kind
	for _, c := range tree.Node(id).Children {
		out = append(out, tree.Node(c).Kind)
	}
	return out
}

func TestLoad(t *testing.T) {
	tree := load(t, sampleFO, zaptest.NewLogger(t))

	mm := func(v float64) int { return int(v*7200/2.54 + 0.5) }
	if tree.Page.Width != mm(148) || tree.Page.Height != mm(210) {
		t.Errorf("page %dx%d", tree.Page.Width, tree.Page.Height)
	}
	if tree.Page.MarginTop != mm(10)+mm(5) || tree.Page.MarginLeft != mm(10) {
		t.Errorf("margins %+v", tree.Page)
	}

	flow := tree.Node(tree.Flow)
	if flow == nil || flow.Kind != KindFlow {
		t.Fatalf("flow not found")
	}
	want := []Kind{KindBlock, KindBlock, KindListBlock, KindTable, KindBlock}
	got := kindsOf(tree, tree.Flow)
	if len(got) != len(want) {
		t.Fatalf("flow children %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d: %s, want %s", i, got[i], want[i])
		}
	}

	title := tree.Node(flow.Children[0])
	if title.Name != "title" || title.Props.FontSize != 22000 || title.Props.SpaceAfter.Length.Opt != 6000 || !title.Props.KeepWithNext.Always {
		t.Errorf("title %+v", title.Props)
	}
	if tree.Text(title.ID) != "Title" {
		t.Errorf("title text %q", tree.Text(title.ID))
	}

	para := tree.Node(flow.Children[1])
	if para.Props.TextAlign != common.AlignmentJustify || para.Props.TextIndent != 11000 || para.Props.SpaceBefore.Discard {
		t.Errorf("paragraph %+v", para.Props)
	}
	if text := strings.Join(strings.Fields(tree.Text(para.ID)), " "); text != "Some small text!" {
		t.Errorf("paragraph text %q", text)
	}
	small := tree.Node(para.Children[1])
	if small.Kind != KindInline || small.Props.FontSize != 8000 {
		t.Errorf("inline %s %d", small.Kind, small.Props.FontSize)
	}

	list := tree.Node(flow.Children[2])
	if list.Props.ProvisionalDistance != 20000 {
		t.Errorf("provisional distance %d", list.Props.ProvisionalDistance)
	}
	item := list.Children[0]
	if k := kindsOf(tree, item); len(k) != 2 || k[0] != KindListItemLabel || k[1] != KindListItemBody {
		t.Errorf("list item parts %v", k)
	}

	table := tree.Node(flow.Children[3])
	if len(table.Props.Columns) != 3 || !table.Props.Columns[0].Relative || table.Props.Columns[2].Abs != 56693 {
		t.Errorf("columns %v", table.Props.Columns)
	}
	if k := kindsOf(tree, table.ID); len(k) != 1 || k[0] != KindTableRow {
		t.Errorf("table rows %v", k)
	}

	second := tree.Node(flow.Children[4])
	if second.Props.BreakBefore != common.BreakClassPage {
		t.Errorf("second page sequence must start on a new page, got %s", second.Props.BreakBefore)
	}

	if p := tree.Path(small.ID); p != "flow[0]/block[1]/inline[1]" {
		t.Errorf("path %q", p)
	}
}

func TestLoadWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tree := load(t, `<root><page-sequence><flow>
		<block space-before="12" font-variant="small-caps">x</block>
		<blink>y</blink>
	</flow></page-sequence></root>`, zap.New(core))

	if n := logs.FilterMessage("Invalid property value, ignoring").FilterField(zap.String("property", "space-before")).Len(); n != 1 {
		t.Errorf("expected invalid value warning, got %d", n)
	}
	if n := logs.FilterMessage("Unsupported property, ignoring").Len(); n != 1 {
		t.Errorf("expected unsupported property message, got %d", n)
	}
	if n := logs.FilterMessage("Unexpected tag, ignoring").FilterField(zap.String("tag", "blink")).Len(); n != 1 {
		t.Errorf("expected unexpected tag warning, got %d", n)
	}
	// text of unknown elements survives
	if text := strings.TrimSpace(tree.Text(tree.Flow)); !strings.Contains(text, "y") {
		t.Errorf("flow text %q", text)
	}
}

func TestLoadDefaults(t *testing.T) {
	tree, err := Load(strings.NewReader(`<root><page-sequence><flow><block>x</block></flow></page-sequence></root>`),
		Options{
			Page:     PageGeometry{Width: 100000, Height: 200000, MarginTop: 10000},
			Defaults: Defaults{FontSize: 12000, TextAlign: common.AlignmentEnd},
		}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Page.BodyHeight() != 190000 || tree.Page.BodyWidth() != 100000 {
		t.Errorf("page %+v", tree.Page)
	}
	block := tree.Node(tree.Node(tree.Flow).Children[0])
	if block.Props.FontSize != 12000 || block.Props.TextAlign != common.AlignmentEnd {
		t.Errorf("block %+v", block.Props)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"malformed": "<root><page-sequence>",
		"root":      "<html/>",
		"no flow":   "<root><layout-master-set/></root>",
		"empty":     "",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(src), Options{}, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTreeDump(t *testing.T) {
	tree := load(t, `<root><page-sequence><flow><block id="b" keep-together="always">Hello</block></flow></page-sequence></root>`, nil)
	tw := debug.NewTreeWriter()
	tree.Dump(tw)
	out := tw.String()
	for _, want := range []string{`block id="b" keep-together=always`, "text", "Hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump misses %q:\n%s", want, out)
		}
	}
}
