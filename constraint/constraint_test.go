package constraint

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestPositionConstraint(t *testing.T) {
	a := PositionConstraint{Frame: "table", Expression: "x < 1"}
	test.That(t, a.IsEmpty(), test.ShouldBeFalse)
	test.That(t, PositionConstraint{}.IsEmpty(), test.ShouldBeTrue)
	test.That(t, PositionConstraint{Frame: "table"}.IsEmpty(), test.ShouldBeFalse)

	test.That(t, a.Equal(PositionConstraint{Frame: "table", Expression: "x < 1"}), test.ShouldBeTrue)
	test.That(t, a.Equal(PositionConstraint{Frame: "table", Expression: "x < 2"}), test.ShouldBeFalse)
	test.That(t, a.Equal(PositionConstraint{Frame: "tablE", Expression: "x < 1"}), test.ShouldBeFalse)

	test.That(t, a.Validate("goal"), test.ShouldBeNil)
	test.That(t, (&PositionConstraint{Expression: "x"}).Validate("goal").Error(), test.ShouldContainSubstring, "frame")
	test.That(t, (&PositionConstraint{Frame: "f"}).Validate("goal").Error(), test.ShouldContainSubstring, "expression")
}

func TestGrammarRegistry(t *testing.T) {
	halfPlane := func() (Compiler, error) {
		return CompilerFunc(func(expr string) (Predicate, error) {
			if expr != "right" {
				return nil, ErrCompileFailed
			}
			return PredicateFunc(func(x, _ float64) bool { return x > 0 }), nil
		}), nil
	}
	RegisterGrammar("test_half_plane", halfPlane)
	test.That(t, func() { RegisterGrammar("test_half_plane", halfPlane) }, test.ShouldPanic)
	test.That(t, func() { RegisterGrammar("test_nil", nil) }, test.ShouldPanic)
	test.That(t, Grammars(), test.ShouldContain, "test_half_plane")

	compiler, err := NewCompiler("test_half_plane")
	test.That(t, err, test.ShouldBeNil)
	pred, err := compiler.Compile("right")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pred.Evaluate(1, 0), test.ShouldBeTrue)
	test.That(t, pred.Evaluate(-1, 0), test.ShouldBeFalse)

	_, err = compiler.Compile("left")
	test.That(t, errors.Is(err, ErrCompileFailed), test.ShouldBeTrue)

	_, err = NewCompiler("nope")
	test.That(t, err, test.ShouldNotBeNil)
}
