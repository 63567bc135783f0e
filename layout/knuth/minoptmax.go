package knuth

import "fmt"

// MinOptMax is a length range with a preferred value, as used by XSL space
// specifications. Min <= Opt <= Max holds for values built with NewMinOptMax.
type MinOptMax struct {
	Min, Opt, Max int
}

// Zero is the empty length.
var Zero = MinOptMax{}

// NewMinOptMax orders the triple so the invariant holds.
func NewMinOptMax(minimum, optimum, maximum int) MinOptMax {
	minimum = min(minimum, optimum)
	maximum = max(maximum, optimum)
	return MinOptMax{Min: minimum, Opt: optimum, Max: maximum}
}

// Fixed returns an inelastic length.
func Fixed(v int) MinOptMax {
	return MinOptMax{Min: v, Opt: v, Max: v}
}

func (m MinOptMax) IsZero() bool {
	return m.Min == 0 && m.Opt == 0 && m.Max == 0
}

// IsElastic reports whether the length can stretch or shrink.
func (m MinOptMax) IsElastic() bool {
	return m.Min != m.Opt || m.Opt != m.Max
}

func (m MinOptMax) Plus(o MinOptMax) MinOptMax {
	return MinOptMax{Min: m.Min + o.Min, Opt: m.Opt + o.Opt, Max: m.Max + o.Max}
}

func (m MinOptMax) Minus(o MinOptMax) MinOptMax {
	return MinOptMax{Min: m.Min - o.Min, Opt: m.Opt - o.Opt, Max: m.Max - o.Max}
}

// Stretch is the amount the length may grow beyond its optimum.
func (m MinOptMax) Stretch() int {
	return max(m.Max-m.Opt, 0)
}

// Shrink is the amount the length may lose below its optimum.
func (m MinOptMax) Shrink() int {
	return max(m.Opt-m.Min, 0)
}

// Glue turns the range into a glue element.
func (m MinOptMax) Glue(pos Position) Element {
	return NewGlue(m.Opt, m.Stretch(), m.Shrink(), pos)
}

func (m MinOptMax) String() string {
	if !m.IsElastic() {
		return fmt.Sprintf("%d", m.Opt)
	}
	return fmt.Sprintf("%d/%d/%d", m.Min, m.Opt, m.Max)
}
