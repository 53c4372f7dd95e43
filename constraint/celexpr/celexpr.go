// Package celexpr compiles goal region expressions written in the Common Expression Language.
// Expressions see the position as the double variables x and y and must evaluate to a bool,
// for example "x*x + y*y <= 1.0 && y > 0". Besides the standard library, hypot(a, b) and
// abs(a) are available.
package celexpr

import (
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/pkg/errors"

	"github.com/cbrobotics/regionplanner/constraint"
)

// GrammarName is the name this grammar registers under.
const GrammarName = "cel"

func init() {
	constraint.RegisterGrammar(GrammarName, func() (constraint.Compiler, error) {
		return NewCompiler()
	})
}

// Compiler compiles CEL expressions. A single Compiler may be reused for many expressions.
type Compiler struct {
	env *cel.Env
}

var _ constraint.Compiler = (*Compiler)(nil)

// NewCompiler builds the CEL environment.
func NewCompiler() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("x", cel.DoubleType),
		cel.Variable("y", cel.DoubleType),
		cel.CrossTypeNumericComparisons(true),
		cel.Function("hypot",
			cel.Overload("hypot_double_double",
				[]*cel.Type{cel.DoubleType, cel.DoubleType}, cel.DoubleType,
				cel.BinaryBinding(func(a, b ref.Val) ref.Val {
					return types.Double(math.Hypot(float64(a.(types.Double)), float64(b.(types.Double))))
				}),
			),
		),
		cel.Function("abs",
			cel.Overload("abs_double",
				[]*cel.Type{cel.DoubleType}, cel.DoubleType,
				cel.UnaryBinding(func(a ref.Val) ref.Val {
					return types.Double(math.Abs(float64(a.(types.Double))))
				}),
			),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build CEL environment")
	}
	return &Compiler{env: env}, nil
}

// Compile parses and type-checks expr. The result must be boolean.
func (c *Compiler) Compile(expr string) (constraint.Predicate, error) {
	ast, iss := c.env.Compile(expr)
	if iss.Err() != nil {
		return nil, errors.Wrapf(constraint.ErrCompileFailed, "%q: %v", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.Wrapf(constraint.ErrCompileFailed, "%q evaluates to %v, not bool", expr, ast.OutputType())
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(constraint.ErrCompileFailed, "%q: %v", expr, err)
	}
	return &predicate{prg: prg}, nil
}

type predicate struct {
	prg cel.Program
}

// Evaluate returns false when evaluation errors.
func (p *predicate) Evaluate(x, y float64) bool {
	out, _, err := p.prg.Eval(map[string]interface{}{"x": x, "y": y})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
