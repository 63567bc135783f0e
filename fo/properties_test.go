package fo

import (
	"errors"
	"testing"

	"golang.org/x/text/language"

	"foflow/common"
	"foflow/css"
	"foflow/layout/knuth"
)

func value(t *testing.T, s string) css.Value {
	t.Helper()
	v, err := css.ParseValue(s)
	if err != nil {
		t.Fatalf("ParseValue(%q): %v", s, err)
	}
	return v
}

func TestDefaultProperties(t *testing.T) {
	p := DefaultProperties(Defaults{TextAlign: common.AlignmentJustify})
	if p.FontSize != 10000 || p.LineHeight != 12000 {
		t.Errorf("font %d line %d", p.FontSize, p.LineHeight)
	}
	if p.TextAlignLast != common.AlignmentStart {
		t.Errorf("last line of justified text must start align, got %s", p.TextAlignLast)
	}
	if !p.SpaceBefore.Discard || !p.BorderAfter.Discard || !p.PaddingBefore.Discard {
		t.Error("conditionality must default to discard")
	}
	if p.Orphans != 2 || p.Widows != 2 {
		t.Errorf("orphans %d widows %d", p.Orphans, p.Widows)
	}
}

func TestInherited(t *testing.T) {
	p := DefaultProperties(Defaults{FontSize: 12000, Language: language.German, Hyphenate: true})
	p.SpaceBefore.Length = knuth.Fixed(6000)
	p.KeepTogether = Keep{Always: true}
	p.BreakBefore = common.BreakClassPage
	p.StartIndent = 5000

	c := p.Inherited()
	if c.FontSize != 12000 || c.Language != language.German || !c.Hyphenate {
		t.Errorf("inherited traits lost: %+v", c)
	}
	if !c.SpaceBefore.Length.IsZero() || !c.KeepTogether.IsAuto() || c.BreakBefore.Forces() || c.StartIndent != 0 {
		t.Errorf("non-inherited traits leaked: %+v", c)
	}
}

func TestSet(t *testing.T) {
	parent := DefaultProperties(Defaults{})

	tests := []struct {
		name  string
		value string
		check func(p Properties) bool
	}{
		{"font-size", "12pt", func(p Properties) bool { return p.FontSize == 12000 && p.LineHeight == 14400 }},
		{"font-size", "150%", func(p Properties) bool { return p.FontSize == 15000 }},
		{"font-size", "2em", func(p Properties) bool { return p.FontSize == 20000 }},
		{"line-height", "1.5", func(p Properties) bool { return p.LineHeight == 15000 }},
		{"line-height", "14pt", func(p Properties) bool { return p.LineHeight == 14000 }},
		{"line-height", "normal", func(p Properties) bool { return p.LineHeight == 12000 }},
		{"text-align", "justify", func(p Properties) bool {
			return p.TextAlign == common.AlignmentJustify && p.TextAlignLast == common.AlignmentStart
		}},
		{"text-align", "center", func(p Properties) bool { return p.TextAlignLast == common.AlignmentCenter }},
		{"text-align-last", "justify", func(p Properties) bool { return p.TextAlignLast == common.AlignmentJustify }},
		{"text-align", "left", func(p Properties) bool { return p.TextAlign == common.AlignmentStart }},
		{"text-align", "right", func(p Properties) bool { return p.TextAlign == common.AlignmentEnd }},
		{"text-align-last", "outside", func(p Properties) bool { return p.TextAlignLast == common.AlignmentEnd }},
		{"text-indent", "1em", func(p Properties) bool { return p.TextIndent == 10000 }},
		{"margin-left", "6pt", func(p Properties) bool { return p.StartIndent == 6000 }},
		{"space-before", "6pt", func(p Properties) bool { return p.SpaceBefore.Length == knuth.Fixed(6000) }},
		{"space-after.optimum", "4pt", func(p Properties) bool { return p.SpaceAfter.Length.Opt == 4000 }},
		{"space-before.conditionality", "retain", func(p Properties) bool { return !p.SpaceBefore.Discard }},
		{"space-before.precedence", "force", func(p Properties) bool { return p.SpaceBefore.Precedence == knuth.ForcePrecedence }},
		{"space-after.precedence", "3", func(p Properties) bool { return p.SpaceAfter.Precedence == 3 }},
		{"border-before-width", "1pt", func(p Properties) bool { return p.BorderBefore.Width == 1000 }},
		{"border-after-width.conditionality", "retain", func(p Properties) bool { return !p.BorderAfter.Discard }},
		{"border-width", "2pt", func(p Properties) bool {
			return p.BorderBefore.Width == 2000 && p.BorderAfter.Width == 2000 && p.BorderStart == 2000 && p.BorderEnd == 2000
		}},
		{"padding", "3pt", func(p Properties) bool { return p.PaddingBefore.Width == 3000 && p.PaddingEnd == 3000 }},
		{"padding-top", "1pt", func(p Properties) bool { return p.PaddingBefore.Width == 1000 }},
		{"keep-together", "always", func(p Properties) bool { return p.KeepTogether.Always }},
		{"keep-with-next", "5", func(p Properties) bool { return p.KeepWithNext.Strength == 5 }},
		{"keep-with-previous", "auto", func(p Properties) bool { return p.KeepWithPrevious.IsAuto() }},
		{"break-before", "page", func(p Properties) bool { return p.BreakBefore == common.BreakClassPage }},
		{"page-break-after", "always", func(p Properties) bool { return p.BreakAfter == common.BreakClassPage }},
		{"break-after", "odd-page", func(p Properties) bool { return p.BreakAfter == common.BreakClassOddPage }},
		{"orphans", "3", func(p Properties) bool { return p.Orphans == 3 }},
		{"hyphenate", "true", func(p Properties) bool { return p.Hyphenate }},
		{"language", "de", func(p Properties) bool { return p.Language == language.German }},
		{"provisional-distance-between-starts", "18pt", func(p Properties) bool { return p.ProvisionalDistance == 18000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			p := parent.Inherited()
			if err := p.Set(tt.name, value(t, tt.value), &parent); err != nil {
				t.Fatal(err)
			}
			if !tt.check(p) {
				t.Errorf("unexpected result %+v", p)
			}
		})
	}
}

func TestSetSpaceComponents(t *testing.T) {
	p := DefaultProperties(Defaults{})
	for _, d := range [][2]string{
		{"space-before.optimum", "10pt"},
		{"space-before.minimum", "0pt"},
		{"space-before.maximum", "20pt"},
	} {
		if err := p.Set(d[0], value(t, d[1]), nil); err != nil {
			t.Fatal(err)
		}
	}
	if want := knuth.NewMinOptMax(0, 10000, 20000); p.SpaceBefore.Length != want {
		t.Errorf("got %s, want %s", p.SpaceBefore.Length, want)
	}
}

func TestSetTextAlignLastSticks(t *testing.T) {
	p := DefaultProperties(Defaults{})
	if err := p.Set("text-align-last", value(t, "end"), nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Set("text-align", value(t, "justify"), nil); err != nil {
		t.Fatal(err)
	}
	if p.TextAlignLast != common.AlignmentEnd {
		t.Errorf("explicit text-align-last overridden: %s", p.TextAlignLast)
	}
	c := p.Inherited()
	if err := c.Set("text-align", value(t, "center"), &p); err != nil {
		t.Fatal(err)
	}
	if c.TextAlignLast != common.AlignmentEnd {
		t.Errorf("inherited text-align-last overridden: %s", c.TextAlignLast)
	}
}

func TestSetErrors(t *testing.T) {
	tests := []struct{ name, value string }{
		{"font-size", "-2pt"},
		{"space-before", "12"},
		{"space-before.conditionality", "sometimes"},
		{"keep-together", "-1"},
		{"break-before", "sideways"},
		{"orphans", "0"},
		{"hyphenate", "maybe"},
		{"text-align", "diagonal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProperties(Defaults{})
			if err := p.Set(tt.name, value(t, tt.value), nil); err == nil {
				t.Errorf("expected error for %s=%s", tt.name, tt.value)
			}
		})
	}

	p := DefaultProperties(Defaults{})
	if err := p.Set("font-variant", value(t, "small-caps"), nil); !errors.Is(err, errUnsupported) {
		t.Errorf("expected unsupported, got %v", err)
	}
}
