// Package text turns character data into breakable elements: it segments
// words and spaces, finds hyphenation points with Liang's pattern algorithm,
// detects sentence ends and measures advance widths.
package text

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed patterns/*.txt
var patternFiles embed.FS

// SOFTHYPHEN is used when hyphenation points are made visible in text.
const SOFTHYPHEN = "\u00AD"

// Some languages require additional specification.
var langMap = map[string]string{
	"en":    "en-us",
	"en-gb": "en-us",
	"de":    "de-1996",
	"de-de": "de-1996",
	"el":    "el-monoton",
	"sr":    "sr-cyrl",
}

// PatternSource names pattern and exception files for a language. Exceptions
// are optional.
type PatternSource struct {
	Patterns   string `yaml:"patterns" validate:"required"`
	Exceptions string `yaml:"exceptions,omitempty"`
}

// Hyphenator finds hyphenation points with TeX patterns. A nil Hyphenator
// never hyphenates.
type Hyphenator struct {
	patterns   *trie
	exceptions map[string][]int
	language   string

	// LeftMin and RightMin are the shortest word parts left before and after
	// a hyphen.
	LeftMin, RightMin int
}

// LoadHyphenator reads patterns and exceptions (one hyphenated word per line)
// from the readers. Lines starting with '%' are comments.
func LoadHyphenator(name string, patterns, exceptions io.Reader) (*Hyphenator, error) {
	h := &Hyphenator{
		patterns:   newTrie(),
		exceptions: make(map[string][]int, 20),
		language:   name,
		LeftMin:    2,
		RightMin:   3,
	}
	if err := scanFields(patterns, h.patterns.addPattern); err != nil {
		return nil, fmt.Errorf("unable to load patterns for %s: %w", name, err)
	}
	if exceptions != nil {
		if err := scanFields(exceptions, h.addException); err != nil {
			return nil, fmt.Errorf("unable to load exceptions for %s: %w", name, err)
		}
	}
	return h, nil
}

func scanFields(r io.Reader, add func(string) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		for field := range strings.FieldsSeq(line) {
			if err := add(field); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func (h *Hyphenator) addException(s string) error {
	var (
		points []int
		word   strings.Builder
		n      int
	)
	for _, sym := range s {
		if sym == '-' {
			points = append(points, n)
			continue
		}
		word.WriteRune(unicode.ToLower(sym))
		n++
	}
	if n == 0 {
		return fmt.Errorf("exception %q: no letters", s)
	}
	h.exceptions[word.String()] = points
	return nil
}

// NewHyphenator picks patterns for the language: files from sources first,
// then the built-in ones. The exact tag is tried before the mapped and base
// tags. Returns nil (hyphenation off) when nothing suitable is found.
func NewHyphenator(lang language.Tag, sources map[string]PatternSource, log *zap.Logger) *Hyphenator {
	if log == nil {
		log = zap.NewNop()
	}

	candidates := []string{strings.ToLower(lang.String())}
	if mapped, ok := langMap[candidates[0]]; ok {
		candidates = append(candidates, mapped)
	}
	if base, confidence := lang.Base(); confidence != language.No {
		name := strings.ToLower(base.String())
		candidates = append(candidates, name)
		if mapped, ok := langMap[name]; ok {
			candidates = append(candidates, mapped)
		}
	} else {
		log.Warn("Unable to determine language base", zap.Stringer("tag", lang))
	}

	for _, name := range candidates {
		if src, ok := sources[name]; ok {
			h, err := loadFiles(name, src)
			if err != nil {
				log.Warn("Unable to load hyphenation dictionary", zap.String("name", name), zap.Error(err))
				continue
			}
			return h
		}
		if h, err := loadBuiltin(name); err == nil {
			return h
		}
	}
	log.Warn("Unable to find suitable hyphenation dictionary, turning off hyphenation", zap.Stringer("language", lang))
	return nil
}

func loadFiles(name string, src PatternSource) (*Hyphenator, error) {
	pf, err := os.Open(src.Patterns)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	var exceptions io.Reader
	if src.Exceptions != "" {
		ef, err := os.Open(src.Exceptions)
		if err != nil {
			return nil, err
		}
		defer ef.Close()
		exceptions = ef
	}
	return LoadHyphenator(name, pf, exceptions)
}

func loadBuiltin(name string) (*Hyphenator, error) {
	pf, err := patternFiles.Open(fmt.Sprintf("patterns/hyph-%s.pat.txt", name))
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	var exceptions io.Reader
	if ef, err := patternFiles.Open(fmt.Sprintf("patterns/hyph-%s.hyp.txt", name)); err == nil {
		defer ef.Close()
		exceptions = ef
	}
	return LoadHyphenator(name, pf, exceptions)
}

// Language returns the name of the loaded dictionary.
func (h *Hyphenator) Language() string {
	if h == nil {
		return ""
	}
	return h.language
}

// Points returns the rune indices before which word may be hyphenated.
func (h *Hyphenator) Points(word string) []int {
	if h == nil {
		return nil
	}
	n := utf8.RuneCountInString(word)
	if n < h.LeftMin+h.RightMin {
		return nil
	}
	lower := strings.Map(unicode.ToLower, word)

	var points []int
	if exc, ok := h.exceptions[lower]; ok {
		for _, p := range exc {
			if p >= h.LeftMin && n-p >= h.RightMin {
				points = append(points, p)
			}
		}
		return points
	}

	w := []rune("." + lower + ".")
	levels := make([]int, len(w)+1)
	for i := range w {
		h.patterns.match(w, i, func(v []int) {
			for j, l := range v {
				levels[i+j] = max(levels[i+j], l)
			}
		})
	}
	// letter k of the word is w[k+1]
	for k := h.LeftMin; k <= n-h.RightMin; k++ {
		if levels[k+1]%2 != 0 {
			points = append(points, k)
		}
	}
	return points
}

// Syllables splits word at its hyphenation points.
func (h *Hyphenator) Syllables(word string) []string {
	points := h.Points(word)
	if len(points) == 0 {
		return []string{word}
	}
	runes := []rune(word)
	out := make([]string, 0, len(points)+1)
	prev := 0
	for _, p := range points {
		out = append(out, string(runes[prev:p]))
		prev = p
	}
	return append(out, string(runes[prev:]))
}

// Hyphenate inserts hyphen into every word of in at its hyphenation points.
func (h *Hyphenator) Hyphenate(in, hyphen string) string {
	if h == nil {
		return in
	}
	var (
		b    strings.Builder
		word strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			b.WriteString(strings.Join(h.Syllables(word.String()), hyphen))
			word.Reset()
		}
	}
	for _, sym := range in {
		if unicode.IsLetter(sym) || unicode.Is(unicode.Mn, sym) {
			word.WriteRune(sym)
			continue
		}
		flush()
		b.WriteRune(sym)
	}
	flush()
	return b.String()
}
