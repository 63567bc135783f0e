// Package common holds the small enumerations shared by configuration, the
// formatting object model and the layout packages. Keeping them here lets
// config stay independent from layout code.
package common

//go:generate go tool go-enum --marshal --names --nocase

// Alignment is the inline (text-align) or block alignment of fragment content.
// ENUM(start, center, end, justify)
type Alignment int

// BreakClass is the context a forced break applies to (break-before/after values).
// ENUM(auto, column, page, even-page, odd-page)
type BreakClass int

// Forces reports whether the class requests a break at all.
func (b BreakClass) Forces() bool {
	return b != BreakClassAuto
}

// Stronger returns the more demanding of two break classes. Page-level classes
// override column breaks.
func (b BreakClass) Stronger(other BreakClass) BreakClass {
	return max(b, other)
}

// Strategy selects the breaking search. Auto picks total-fit for lines and
// first-fit for pages.
// ENUM(auto, total-fit, first-fit)
type Strategy int

// Specification of the area tree dump format.
// ENUM(text, yaml)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtYaml:
		return ".yaml"
	default:
		return ".txt"
	}
}
