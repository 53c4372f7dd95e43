package inject

import (
	"sync/atomic"

	"github.com/cbrobotics/regionplanner/constraint"
)

// Compiler is an injectable constraint.Compiler that counts compilations.
type Compiler struct {
	constraint.Compiler
	CompileFunc func(expr string) (constraint.Predicate, error)

	compiles atomic.Int64
}

// Compile calls the injected Compile or the real version.
func (c *Compiler) Compile(expr string) (constraint.Predicate, error) {
	c.compiles.Add(1)
	if c.CompileFunc == nil {
		return c.Compiler.Compile(expr)
	}
	return c.CompileFunc(expr)
}

// Compiles returns how many times Compile has been called.
func (c *Compiler) Compiles() int {
	return int(c.compiles.Load())
}
