package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rupor-github/gencfg"

	"foflow/common"
	"foflow/content/text"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	want := LayoutConfig{
		Page: PageConfig{Width: 595.28, Height: 841.89, MarginTop: 72, MarginBottom: 72, MarginLeft: 72, MarginRight: 72},
		Font: FontConfig{Size: 10, LineHeight: 1.2},
		Breaking: BreakingConfig{
			LineStrategy:          common.StrategyAuto,
			PageStrategy:          common.StrategyAuto,
			PageAlignment:         common.AlignmentStart,
			Tolerance:             2,
			LinePenalty:           10,
			FlaggedDemerits:       100,
			FitnessDemerits:       100,
			OverfullDemerits:      100000,
			HyphenPenalty:         50,
			ExplicitHyphenPenalty: 50,
		},
		Hyphenation: HyphenationConfig{Enable: true, MinWordLength: 5, LeftMin: 2, RightMin: 3, Patterns: map[string]text.PatternSource{}},
		Text:        TextConfig{Language: "en", SentenceStretch: 1.5},
	}
	if diff := cmp.Diff(want, cfg.Layout); diff != "" {
		t.Errorf("default layout mismatch (-want +got):\n%s", diff)
	}
	// console logging is quiet under go test
	if cfg.Logging.ConsoleLogger.Level != "none" {
		t.Errorf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	dir := t.TempDir()
	patterns := filepath.Join(dir, "hyph-xx.pat.txt")
	if err := os.WriteFile(patterns, []byte("a1b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path := writeConfig(t, `version: 1
layout:
  page:
    width: 420
    height: 595
  breaking:
    line_strategy: first-fit
    page_alignment: justify
    tolerance: 3
  hyphenation:
    patterns:
      xx:
        patterns: `+patterns+`
  text:
    language: de
    french_spacing: true
output:
  file_name_transliterate: true
logging:
  console:
    level: normal
  file:
    level: debug
    destination: `+filepath.Join(dir, "test.log")+`
    mode: append
reporting:
  destination: `+filepath.Join(dir, "report.zip")+`
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	l := cfg.Layout
	if l.Page.Width != 420 || l.Page.Height != 595 || l.Page.MarginTop != 72 {
		t.Errorf("page = %+v, margins must keep their defaults", l.Page)
	}
	if l.Breaking.LineStrategy != common.StrategyFirstFit || l.Breaking.PageAlignment != common.AlignmentJustify || l.Breaking.Tolerance != 3 {
		t.Errorf("breaking = %+v", l.Breaking)
	}
	if l.Breaking.LinePenalty != 10 {
		t.Errorf("LinePenalty = %d, want default 10", l.Breaking.LinePenalty)
	}
	if src, ok := l.Hyphenation.Patterns["xx"]; !ok || src.Patterns != patterns {
		t.Errorf("patterns = %+v", l.Hyphenation.Patterns)
	}
	if l.Text.Language != "de" || !l.Text.FrenchSpacing {
		t.Errorf("text = %+v", l.Text)
	}
	if !cfg.Output.FileNameTransliterate {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("file log mode = %q", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nlayout:\n  page: true\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"wrong version", "version: 2\n"},
		{"bad strategy", "version: 1\nlayout:\n  breaking:\n    line_strategy: greedy\n"},
		{"centered pages", "version: 1\nlayout:\n  breaking:\n    page_alignment: center\n"},
		{"zero page", "version: 1\nlayout:\n  page:\n    width: 0\n"},
		{"bad language", "version: 1\nlayout:\n  text:\n    language: \"not a tag!\"\n"},
		{"pattern without file", "version: 1\nlayout:\n  hyphenation:\n    patterns:\n      xx:\n        exceptions: x.txt\n"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: verbose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if strings.Contains(string(data), "{{") {
		t.Errorf("template was not expanded:\n%s", data)
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Layout.Breaking.PageStrategy = common.StrategyTotalFit

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "page_strategy: total-fit") {
		t.Errorf("strategies are not written by name:\n%s", data)
	}

	back, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if diff := cmp.Diff(cfg, back); diff != "" {
		t.Errorf("dump/load mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("validation only when processing", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`version: 7`), &Config{}, false); err != nil {
			t.Errorf("unexpected error = %v", err)
		}
		if _, err := unmarshalConfig([]byte(`version: 7`), &Config{}, true); err == nil {
			t.Errorf("expected validation error")
		}
	})
}
