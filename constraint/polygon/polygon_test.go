package polygon

import (
	"errors"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/cbrobotics/regionplanner/constraint"
)

func TestEvaluate(t *testing.T) {
	square, err := Parse("0,0 2,0 2,2 0,2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, square.Evaluate(1, 1), test.ShouldBeTrue)
	test.That(t, square.Evaluate(1.99, 0.01), test.ShouldBeTrue)
	test.That(t, square.Evaluate(3, 1), test.ShouldBeFalse)
	test.That(t, square.Evaluate(-0.1, 1), test.ShouldBeFalse)
	test.That(t, square.Vertices(), test.ShouldHaveLength, 4)
	test.That(t, square.Vertices()[2], test.ShouldResemble, r2.Point{X: 2, Y: 2})

	// L shape: the notch at the upper right is outside
	ell, err := Parse("0,0 4,0 4,1 1,1 1,4 0,4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ell.Evaluate(0.5, 3), test.ShouldBeTrue)
	test.That(t, ell.Evaluate(3, 0.5), test.ShouldBeTrue)
	test.That(t, ell.Evaluate(3, 3), test.ShouldBeFalse)

	tri, err := Parse("-1,-1  1,-1\t0,1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tri.Evaluate(0, 0), test.ShouldBeTrue)
	test.That(t, tri.Evaluate(0.9, 0.9), test.ShouldBeFalse)
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"", "0,0 1,1", "0,0 1;1 2,2", "0,0 a,1 2,2", "0,0 1,b 2,2"} {
		_, err := Parse(expr)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, constraint.ErrCompileFailed), test.ShouldBeTrue)
	}
}

func TestRegistered(t *testing.T) {
	compiler, err := constraint.NewCompiler(GrammarName)
	test.That(t, err, test.ShouldBeNil)
	pred, err := compiler.Compile("0,0 1,0 1,1 0,1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pred.Evaluate(0.5, 0.5), test.ShouldBeTrue)
}

func TestCompileErrorHasNoPredicate(t *testing.T) {
	pred, err := Compiler{}.Compile("0,0 1,1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, pred == nil, test.ShouldBeTrue)
}
