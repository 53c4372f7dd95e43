package celexpr

import (
	"errors"
	"testing"

	"go.viam.com/test"

	"github.com/cbrobotics/regionplanner/constraint"
)

func TestCompile(t *testing.T) {
	c, err := NewCompiler()
	test.That(t, err, test.ShouldBeNil)

	disk, err := c.Compile("x*x + y*y <= 1.0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, disk.Evaluate(0, 0), test.ShouldBeTrue)
	test.That(t, disk.Evaluate(0.6, 0.6), test.ShouldBeTrue)
	test.That(t, disk.Evaluate(1, 0.1), test.ShouldBeFalse)

	// int literals compare against doubles
	band, err := c.Compile("x > 1 && x < 3 && y >= -1 && y <= 1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, band.Evaluate(2, 0), test.ShouldBeTrue)
	test.That(t, band.Evaluate(3, 0), test.ShouldBeFalse)

	ring, err := c.Compile("hypot(x - 1.0, y) < 0.5 || abs(y) > 10.0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ring.Evaluate(1.2, 0.2), test.ShouldBeTrue)
	test.That(t, ring.Evaluate(0, 0), test.ShouldBeFalse)
	test.That(t, ring.Evaluate(0, -11), test.ShouldBeTrue)

	never, err := c.Compile("false")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, never.Evaluate(0, 0), test.ShouldBeFalse)
}

func TestCompileErrors(t *testing.T) {
	c, err := NewCompiler()
	test.That(t, err, test.ShouldBeNil)

	for _, expr := range []string{"x <", "x + y", "z > 1", ""} {
		_, err := c.Compile(expr)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, constraint.ErrCompileFailed), test.ShouldBeTrue)
	}
}

func TestRegistered(t *testing.T) {
	test.That(t, constraint.Grammars(), test.ShouldContain, GrammarName)
	compiler, err := constraint.NewCompiler(GrammarName)
	test.That(t, err, test.ShouldBeNil)
	pred, err := compiler.Compile("y < 0.0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pred.Evaluate(5, -1), test.ShouldBeTrue)
}
