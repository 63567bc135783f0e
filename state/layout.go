package state

import (
	"fmt"
	"math"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"foflow/area"
	"foflow/content/text"
	"foflow/fo"
	"foflow/layout/breaker"
	"foflow/layout/build"
)

func points(v float64) int {
	return int(math.Round(v * 1000))
}

// LoadOptions returns the fallback page master and the root property
// defaults from configuration.
func (e *LocalEnv) LoadOptions() fo.Options {
	l := &e.Cfg.Layout
	lang, err := language.Parse(l.Text.Language)
	if err != nil {
		// validated when configuration was loaded
		lang = language.English
	}
	return fo.Options{
		Page: fo.PageGeometry{
			Width:        points(l.Page.Width),
			Height:       points(l.Page.Height),
			MarginTop:    points(l.Page.MarginTop),
			MarginBottom: points(l.Page.MarginBottom),
			MarginLeft:   points(l.Page.MarginLeft),
			MarginRight:  points(l.Page.MarginRight),
		},
		Defaults: fo.Defaults{
			FontSize:   points(l.Font.Size),
			LineHeight: l.Font.LineHeight,
			Language:   lang,
			Hyphenate:  l.Hyphenation.Enable,
		},
	}
}

func (e *LocalEnv) policy() breaker.Policy {
	b := &e.Cfg.Layout.Breaking
	return breaker.Policy{
		LinePenalty:      b.LinePenalty,
		FlaggedDemerits:  b.FlaggedDemerits,
		FitnessDemerits:  b.FitnessDemerits,
		OverfullDemerits: b.OverfullDemerits,
	}
}

// BuildOptions returns element list builder options. Measurer, hyphenators
// and splitters are created once and shared by every document.
func (e *LocalEnv) BuildOptions() (build.Options, error) {
	m, err := e.Measurer()
	if err != nil {
		return build.Options{}, err
	}
	l := &e.Cfg.Layout
	return build.Options{
		Measurer: m,
		Shaping: text.Options{
			HyphenPenalty:         l.Breaking.HyphenPenalty,
			ExplicitHyphenPenalty: l.Breaking.ExplicitHyphenPenalty,
			MinWordLength:         l.Hyphenation.MinWordLength,
			FrenchSpacing:         l.Text.FrenchSpacing,
			SentenceStretch:       l.Text.SentenceStretch,
		},
		Hyphenator:   e.Hyphenator,
		Splitter:     e.Splitter,
		LineStrategy: l.Breaking.LineStrategy,
		Tolerance:    l.Breaking.Tolerance,
		Policy:       e.policy(),
	}, nil
}

// PaginateOptions returns page breaking options.
func (e *LocalEnv) PaginateOptions() area.Options {
	b := &e.Cfg.Layout.Breaking
	return area.Options{
		Strategy:  b.PageStrategy,
		Alignment: b.PageAlignment,
		Tolerance: b.Tolerance,
		Policy:    e.policy(),
	}
}

// Measurer returns the advance width source: the configured font or Go
// Regular.
func (e *LocalEnv) Measurer() (text.Measurer, error) {
	if e.measurer != nil {
		return e.measurer, nil
	}
	path := e.Cfg.Layout.Font.Path
	if path == "" {
		e.measurer = text.DefaultMeasurer()
		return e.measurer, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read font: %w", err)
	}
	m, err := text.NewFontMeasurer(data)
	if err != nil {
		return nil, fmt.Errorf("unable to use font '%s': %w", path, err)
	}
	e.log().Debug("Using font metrics", zap.String("font", path))
	e.measurer = m
	return m, nil
}

// Hyphenator returns the cached hyphenator for the language, nil when there
// are no patterns for it.
func (e *LocalEnv) Hyphenator(lang language.Tag) *text.Hyphenator {
	key := strings.ToLower(lang.String())
	if h, ok := e.hyphenators[key]; ok {
		return h
	}
	hc := &e.Cfg.Layout.Hyphenation
	h := text.NewHyphenator(lang, hc.Patterns, e.log())
	if h != nil {
		h.LeftMin, h.RightMin = hc.LeftMin, hc.RightMin
		e.log().Debug("Hyphenation dictionary loaded", zap.Stringer("language", lang), zap.String("dictionary", h.Language()))
	}
	e.hyphenators[key] = h
	return h
}

// Splitter returns the cached sentence splitter for the language.
func (e *LocalEnv) Splitter(lang language.Tag) *text.Splitter {
	key := strings.ToLower(lang.String())
	if s, ok := e.splitters[key]; ok {
		return s
	}
	s := text.NewSplitter(lang, e.log())
	e.splitters[key] = s
	return s
}

func (e *LocalEnv) log() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
