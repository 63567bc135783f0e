//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ReportName turns a path into a single archive entry name: separators are
// replaced, leading dots dropped.
func ReportName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == os.PathSeparator || sym == os.PathListSeparator {
			return '_'
		}
		return sym
	}, in), "._")
	if len(out) == 0 {
		out = "_unnamed_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
