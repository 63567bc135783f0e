package fo

import (
	"fmt"
	"math"
	"strings"

	"foflow/css"
)

// Millipoints per unit.
var unitScale = map[string]float64{
	"pt": 1000,
	"pc": 12000,
	"in": 72000,
	"cm": 72000 / 2.54,
	"mm": 7200 / 2.54,
	"px": 750,
}

// Length is an absolute extent or a percentage of a base resolved later.
type Length struct {
	Abs     int
	Percent float64
	// Relative marks percentages.
	Relative bool
}

// Resolve returns the extent for the given percentage base.
func (l Length) Resolve(base int) int {
	if l.Relative {
		return int(math.Round(float64(base) * l.Percent / 100))
	}
	return l.Abs
}

func (l Length) String() string {
	if l.Relative {
		return fmt.Sprintf("%g%%", l.Percent)
	}
	return fmt.Sprintf("%dmpt", l.Abs)
}

// ParseLength parses an absolute length. Ems are relative to fontSize; both
// are millipoints. Percentages are rejected.
func ParseLength(s string, fontSize int) (int, error) {
	v, err := css.ParseValue(s)
	if err != nil {
		return 0, err
	}
	return lengthOf(v, fontSize)
}

// ParseRelativeLength parses a length that may be a percentage.
func ParseRelativeLength(s string, fontSize int) (Length, error) {
	v, err := css.ParseValue(s)
	if err != nil {
		return Length{}, err
	}
	if v.Unit == "%" {
		return Length{Percent: v.Value, Relative: true}, nil
	}
	abs, err := lengthOf(v, fontSize)
	if err != nil {
		return Length{}, err
	}
	return Length{Abs: abs}, nil
}

func lengthOf(v css.Value, fontSize int) (int, error) {
	if !v.IsNumeric() {
		return 0, fmt.Errorf("%q is not a length", v.Raw)
	}
	switch unit := strings.ToLower(v.Unit); unit {
	case "":
		if v.Value != 0 {
			return 0, fmt.Errorf("length %q has no unit", v.Raw)
		}
		return 0, nil
	case "em":
		return int(math.Round(v.Value * float64(fontSize))), nil
	case "%":
		return 0, fmt.Errorf("percentage %q is not allowed here", v.Raw)
	default:
		scale, ok := unitScale[unit]
		if !ok {
			return 0, fmt.Errorf("length %q has unknown unit %q", v.Raw, unit)
		}
		return int(math.Round(v.Value * scale)), nil
	}
}
