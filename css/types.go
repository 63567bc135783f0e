package css

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original value string (e.g., "1.2em", "always", "6pt")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "pt", "%", "mm", etc.
	Keyword string  // Keyword if applicable: "always", "justify", "retain", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0pt".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

func (v Value) String() string {
	return v.Raw
}

// Declarations maps property names to values in declaration order.
type Declarations struct {
	names  []string
	values map[string]Value
}

// Set adds or replaces a declaration. Replaced declarations keep their place.
func (d *Declarations) Set(name string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	name = strings.ToLower(name)
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = v
}

// Get returns the value declared for name.
func (d Declarations) Get(name string) (Value, bool) {
	v, ok := d.values[strings.ToLower(name)]
	return v, ok
}

// Names returns declared property names in declaration order.
func (d Declarations) Names() []string {
	return slices.Clone(d.names)
}

// Len is the number of declarations.
func (d Declarations) Len() int {
	return len(d.names)
}

// String renders declarations back in inline form.
func (d Declarations) String() string {
	var b strings.Builder
	for i, name := range d.names {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", name, d.values[name].Raw)
	}
	return b.String()
}
