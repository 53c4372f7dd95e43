// Package polygon compiles goal regions given as a closed polygon: whitespace separated
// "x,y" vertices such as "0,0 2,0 2,1 0,1". Containment follows the even-odd rule.
package polygon

import (
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/cbrobotics/regionplanner/constraint"
)

// GrammarName is the name this grammar registers under.
const GrammarName = "polygon"

func init() {
	constraint.RegisterGrammar(GrammarName, func() (constraint.Compiler, error) {
		return Compiler{}, nil
	})
}

// Compiler parses polygon vertex lists.
type Compiler struct{}

var _ constraint.Compiler = Compiler{}

// Compile parses expr into a Polygon.
func (Compiler) Compile(expr string) (constraint.Predicate, error) {
	poly, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return poly, nil
}

// Polygon is a simple or self-intersecting closed ring.
type Polygon struct {
	vertices []r2.Point
	bound    r2.Rect
}

// Parse reads at least three "x,y" vertices.
func Parse(expr string) (*Polygon, error) {
	fields := strings.Fields(expr)
	if len(fields) < 3 {
		return nil, errors.Wrapf(constraint.ErrCompileFailed, "polygon %q needs at least 3 vertices, got %d", expr, len(fields))
	}
	vertices := make([]r2.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, errors.Wrapf(constraint.ErrCompileFailed, "vertex %q is not of the form x,y", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, errors.Wrapf(constraint.ErrCompileFailed, "vertex %q: %v", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, errors.Wrapf(constraint.ErrCompileFailed, "vertex %q: %v", f, err)
		}
		vertices = append(vertices, r2.Point{X: x, Y: y})
	}
	return &Polygon{vertices: vertices, bound: r2.RectFromPoints(vertices...)}, nil
}

// Vertices returns a copy of the polygon's vertices.
func (p *Polygon) Vertices() []r2.Point {
	return append([]r2.Point(nil), p.vertices...)
}

// Evaluate reports whether (x, y) lies inside the polygon.
func (p *Polygon) Evaluate(x, y float64) bool {
	pt := r2.Point{X: x, Y: y}
	if !p.bound.ContainsPoint(pt) {
		return false
	}
	inside := false
	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.vertices[i], p.vertices[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
