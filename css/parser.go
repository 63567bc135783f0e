// Package css parses the CSS-like syntax used in inline style attributes and
// property values of formatting objects.
package css

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses inline declarations and single property values.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseInline parses the body of a style attribute: "a: 1pt; b: c".
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) ParseInline(data []byte, source ...string) Declarations {
	var decls Declarations

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing style", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("Style parse error", zap.Error(err))
			}
			return decls
		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) > 0 {
				decls.Set(string(data), parsePropertyValue(values))
			}
		case css.CustomPropertyGrammar:
			// custom properties (--var) are not supported
			continue
		default:
			p.log.Debug("Skipping style grammar", zap.Stringer("grammar", gt), zap.ByteString("data", data))
		}
	}
}

// ParseValue parses a single property value such as "12pt" or "always".
func ParseValue(s string) (Value, error) {
	lexer := css.NewLexer(parse.NewInputString(s))
	var tokens []css.Token
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err.Error() != "EOF" {
				return Value{}, fmt.Errorf("unable to parse value %q: %w", s, err)
			}
			break
		}
		tokens = append(tokens, css.Token{TokenType: tt, Data: bytes.Clone(data)})
	}
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return Value{}, fmt.Errorf("empty value")
	}
	return parsePropertyValue(tokens), nil
}

// parsePropertyValue turns the tokens of one declaration into a Value. A
// single dimension, percentage, number, identifier or string is decoded, any
// longer sequence is kept as a keyword holding the normalised text.
func parsePropertyValue(tokens []css.Token) Value {
	var (
		b           strings.Builder
		significant []css.Token
		gap         bool
	)
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			gap = b.Len() > 0
			continue
		}
		if gap {
			b.WriteByte(' ')
			gap = false
		}
		b.Write(t.Data)
		significant = append(significant, t)
	}

	val := Value{Raw: b.String()}
	if len(significant) != 1 {
		val.Keyword = val.Raw
		return val
	}

	t := significant[0]
	text := string(t.Data)
	switch t.TokenType {
	case css.DimensionToken:
		val.Value, val.Unit = splitDimension(text)
	case css.PercentageToken:
		val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		val.Unit = "%"
	case css.NumberToken:
		val.Value, _ = strconv.ParseFloat(text, 64)
	case css.IdentToken:
		val.Keyword = strings.ToLower(text)
	case css.StringToken:
		val.Keyword = unquote(text)
	default:
		val.Keyword = val.Raw
	}
	return val
}

// splitDimension separates "12.5pt" into 12.5 and "pt".
func splitDimension(s string) (float64, string) {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && !strings.ContainsRune(".+-", r)
	})
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:end], 64)
	return num, strings.ToLower(s[end:])
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
