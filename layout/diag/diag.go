// Package diag collects layout diagnostics. Breakers and combiners report into
// a Collector handed to them by the caller instead of logging, so results and
// their warnings travel together and can be inspected in tests.
package diag

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"foflow/layout/knuth"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Code classifies diagnostics.
type Code string

const (
	CodeOverfull  Code = "overfull"
	CodeUnderfull Code = "underfull"
	CodeKeep      Code = "keep-violated"
	CodeInvariant Code = "invariant"
	CodeHyphen    Code = "hyphenation"
)

// Diagnostic is a single report tied to the content position that caused it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Pos      knuth.Position
	// Fragment is the index of the offending fragment, -1 when not applicable.
	Fragment int
	// Amount is the overflow (positive) or missing fill, in millipoints.
	Amount  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s at %s: %s", d.Severity, d.Code, d.Pos, d.Message)
}

// Collector accumulates diagnostics. The zero value is ready to use and a nil
// collector silently drops everything.
type Collector struct {
	items []Diagnostic
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add records a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	c.items = append(c.items, d)
}

// Warnf records a warning.
func (c *Collector) Warnf(code Code, pos knuth.Position, fragment, amount int, format string, args ...any) {
	c.Add(Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Pos:      pos,
		Fragment: fragment,
		Amount:   amount,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Error records an error diagnostic. Invariant errors carry their node.
func (c *Collector) Error(err error) {
	if c == nil || err == nil {
		return
	}
	d := Diagnostic{Severity: SeverityError, Code: CodeInvariant, Pos: knuth.NoPosition, Fragment: -1, Message: err.Error()}
	var ie *knuth.InvariantError
	if errors.As(err, &ie) {
		d.Pos = knuth.At(ie.Node, ie.Index)
	}
	c.Add(d)
}

// Items returns collected diagnostics in report order.
func (c *Collector) Items() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.items
}

// Len is the number of collected diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Count returns how many diagnostics carry the code.
func (c *Collector) Count(code Code) int {
	n := 0
	for _, d := range c.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Merge appends other's diagnostics.
func (c *Collector) Merge(other *Collector) {
	if c == nil || other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// Err combines error severity diagnostics into a single error, nil if none.
func (c *Collector) Err() error {
	var err error
	for _, d := range c.Items() {
		if d.Severity == SeverityError {
			err = multierr.Append(err, errors.New(d.String()))
		}
	}
	return err
}

// Log writes collected diagnostics through the logger.
func (c *Collector) Log(log *zap.Logger) {
	if log == nil {
		return
	}
	for _, d := range c.Items() {
		fields := []zap.Field{
			zap.String("code", string(d.Code)),
			zap.Stringer("position", d.Pos),
		}
		if d.Fragment >= 0 {
			fields = append(fields, zap.Int("fragment", d.Fragment))
		}
		if d.Amount != 0 {
			fields = append(fields, zap.Int("amount", d.Amount))
		}
		switch d.Severity {
		case SeverityError:
			log.Error(d.Message, fields...)
		case SeverityWarning:
			log.Warn(d.Message, fields...)
		default:
			log.Debug(d.Message, fields...)
		}
	}
}
