package text

import (
	"iter"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Splitter detects sentence boundaries. A nil Splitter treats its input as a
// single sentence.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter returns a splitter for the language or nil when there is no
// trained model for it.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	if log == nil {
		log = zap.NewNop()
	}
	base, confidence := lang.Base()
	if confidence == language.No {
		log.Warn("Unable to determine language base", zap.Stringer("tag", lang), zap.Stringer("base", base))
		return nil
	}
	if en, _ := language.English.Base(); base != en {
		log.Warn("Unable to find suitable sentence tokenizer model, turning off sentence detection", zap.Stringer("language", lang))
		return nil
	}
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentences tokenizer data", zap.Stringer("tag", lang), zap.Error(err))
		return nil
	}
	return &Splitter{tok}
}

// Split returns the sentences of in. Whitespace between sentences stays with
// the sentence it follows, so the parts concatenate back to in.
func (s *Splitter) Split(in string) []string {
	var out []string
	for sentence := range s.Sentences(in) {
		out = append(out, sentence)
	}
	return out
}

// Sentences returns an iterator over sentences.
func (s *Splitter) Sentences(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if s == nil {
			yield(in)
			return
		}

		parts := s.Tokenize(in)
		for i := 0; i < len(parts)-1; i++ {
			text := parts[i].Text

			// The tokenizer attaches whitespace to the sentence that follows,
			// move it back.
			next := parts[i+1].Text
			if idx := strings.IndexFunc(next, func(r rune) bool { return !unicode.IsSpace(r) }); idx > 0 {
				text += next[:idx]
				parts[i+1].Text = next[idx:]
			}
			if !yield(text) {
				return
			}
		}
		if len(parts) > 0 {
			yield(parts[len(parts)-1].Text)
		}
	}
}

// Ends returns byte offsets into in just past the last non-space character of
// every sentence but the final one.
func (s *Splitter) Ends(in string) []int {
	if s == nil {
		return nil
	}
	var (
		ends   []int
		offset int
	)
	parts := s.Split(in)
	for _, sentence := range parts[:max(len(parts)-1, 0)] {
		core := strings.TrimSpace(sentence)
		idx := strings.Index(in[offset:], core)
		if core == "" || idx < 0 {
			continue
		}
		offset += idx + len(core)
		ends = append(ends, offset)
	}
	return ends
}
