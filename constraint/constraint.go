// Package constraint describes goal regions as predicates over planar positions in a named
// frame, and the grammars that compile them.
package constraint

import (
	"errors"

	"go.viam.com/utils"
)

// ErrCompileFailed is wrapped by every error a Compiler returns for a bad expression.
var ErrCompileFailed = errors.New("constraint expression failed to compile")

// PositionConstraint is a predicate expression evaluated on (x, y) positions expressed in Frame.
type PositionConstraint struct {
	Frame      string `json:"frame"`
	Expression string `json:"expression"`
}

// IsEmpty reports whether the constraint carries neither a frame nor an expression.
func (c PositionConstraint) IsEmpty() bool {
	return c.Frame == "" && c.Expression == ""
}

// Equal compares both fields exactly.
func (c PositionConstraint) Equal(other PositionConstraint) bool {
	return c == other
}

// Validate ensures all parts of the config are valid.
func (c *PositionConstraint) Validate(path string) error {
	if c.Frame == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "frame")
	}
	if c.Expression == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "expression")
	}
	return nil
}

// Predicate decides membership of a single position.
type Predicate interface {
	Evaluate(x, y float64) bool
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(x, y float64) bool

// Evaluate calls f.
func (f PredicateFunc) Evaluate(x, y float64) bool {
	return f(x, y)
}

// Compiler turns an expression string into a Predicate.
type Compiler interface {
	Compile(expr string) (Predicate, error)
}

// CompilerFunc adapts a plain function to Compiler.
type CompilerFunc func(expr string) (Predicate, error)

// Compile calls f.
func (f CompilerFunc) Compile(expr string) (Predicate, error) {
	return f(expr)
}
