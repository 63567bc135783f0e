package breaker

import (
	"fmt"

	"foflow/common"
	"foflow/layout/knuth"
)

// Mode tells the engine whether fragments are lines or pages.
type Mode int

const (
	ModeLine Mode = iota
	ModePage
)

func (m Mode) String() string {
	if m == ModePage {
		return "page"
	}
	return "line"
}

// DefaultTolerance is the largest stretch ratio considered feasible.
const DefaultTolerance = 2.0

// Policy holds the demerit weights. Exact values are a tuning matter; the
// defaults follow TeX.
type Policy struct {
	// LinePenalty is added to the badness of every fragment before squaring.
	LinePenalty int
	// FlaggedDemerits is charged when two consecutive breaks are flagged.
	FlaggedDemerits int
	// FitnessDemerits is charged when adjacent fragments differ by more than
	// one fitness class.
	FitnessDemerits int
	// OverfullDemerits is charged for fragments committed by the fallback.
	OverfullDemerits int
}

// DefaultPolicy returns TeX-like weights.
func DefaultPolicy() Policy {
	return Policy{
		LinePenalty:      10,
		FlaggedDemerits:  100,
		FitnessDemerits:  100,
		OverfullDemerits: 100000,
	}
}

// Constraints describe the target geometry and the search to perform.
type Constraints struct {
	// Width is the target extent of every fragment unless Widths is set.
	Width int
	// Widths gives per-fragment targets; the last value repeats.
	Widths []int

	Mode     Mode
	Strategy common.Strategy

	// Alignment applies to fragments ending at optional breaks,
	// LastAlignment to fragments ending at forced breaks and at the end.
	Alignment     common.Alignment
	LastAlignment common.Alignment

	// Tolerance is the maximum stretch ratio; zero means DefaultTolerance.
	Tolerance float64

	Policy Policy

	// Owner is reported in errors about the list as a whole.
	Owner knuth.NodeID
}

// Target returns the extent for the fragment with the given zero based index.
func (c *Constraints) Target(fragment int) int {
	if len(c.Widths) == 0 {
		return c.Width
	}
	return c.Widths[min(fragment, len(c.Widths)-1)]
}

// targetClass groups fragment indices sharing all future targets.
func (c *Constraints) targetClass(fragment int) int {
	if len(c.Widths) == 0 {
		return 0
	}
	return min(fragment, len(c.Widths)-1)
}

func (c *Constraints) tolerance() float64 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

func (c *Constraints) strategy() common.Strategy {
	if c.Strategy != common.StrategyAuto {
		return c.Strategy
	}
	if c.Mode == ModePage {
		return common.StrategyFirstFit
	}
	return common.StrategyTotalFit
}

func (c *Constraints) alignment(forced bool) common.Alignment {
	if forced {
		return c.LastAlignment
	}
	return c.Alignment
}

func (c *Constraints) validate() error {
	if c.Width < 0 {
		return fmt.Errorf("negative target extent %d", c.Width)
	}
	for i, w := range c.Widths {
		if w < 0 {
			return fmt.Errorf("negative target extent %d for fragment %d", w, i)
		}
	}
	if c.Policy == (Policy{}) {
		c.Policy = DefaultPolicy()
	}
	return nil
}
