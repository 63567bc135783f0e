// Package debug contains helpers producing human readable dumps of element
// lists, breakpoints and area trees.
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TreeWriter accumulates an indented text dump, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

// WriteTo copies the dump to w.
func (tw TreeWriter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, tw.w.String())
	return int64(n), err
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label and a quoted value, so whitespace in text runs stays
// visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// Pt formats a millipoint extent as points with up to three decimals.
func Pt(mpt int) string {
	s := strconv.FormatFloat(float64(mpt)/1000, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s + "pt"
}
