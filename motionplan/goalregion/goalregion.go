// Package goalregion turns a position constraint into the set of grid cells a plan may end in.
//
// Resolution happens in two steps. Rebuild evaluates the constraint once over every cell of the
// grid and keeps the satisfying positions in the constraint's own frame. Project maps those
// positions back onto the current grid, dropping the ones that fell off the grid or landed on an
// obstacle, and is meant to run on every planning call.
package goalregion

import (
	"errors"

	"github.com/golang/geo/r3"
	pkgerrors "github.com/pkg/errors"

	"github.com/cbrobotics/regionplanner/constraint"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/spatialmath"
)

// Region holds the positions that satisfied a constraint, in the constraint's frame, in the
// order the grid was scanned (x outer, y inner).
type Region struct {
	Frame  string
	Points []r3.Vector
}

// Len returns the number of positions in the region.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Points)
}

// Copy returns a deep copy of the region.
func (r *Region) Copy() *Region {
	if r == nil {
		return nil
	}
	return &Region{Frame: r.Frame, Points: append([]r3.Vector(nil), r.Points...)}
}

// GoalSet is a region projected onto a grid. Cells and Points are parallel; every cell is on the
// grid and traversable, and every point is the projected grid frame position that landed in that cell.
type GoalSet struct {
	Cells  []costmap.Cell
	Points []r3.Vector
}

// Len returns the number of goals.
func (gs *GoalSet) Len() int {
	if gs == nil {
		return 0
	}
	return len(gs.Cells)
}

// Rebuild compiles c and evaluates it at the center of every grid cell. toConstraint maps grid
// frame points into the constraint frame. The returned region may be empty.
func Rebuild(
	grid costmap.Grid,
	c constraint.PositionConstraint,
	toConstraint spatialmath.Pose,
	compiler constraint.Compiler,
) (*Region, error) {
	pred, err := compiler.Compile(c.Expression)
	if err != nil {
		if !errors.Is(err, constraint.ErrCompileFailed) {
			err = pkgerrors.Wrapf(constraint.ErrCompileFailed, "%v", err)
		}
		return nil, err
	}
	region := &Region{Frame: c.Frame}
	for x := 0; x < grid.SizeX(); x++ {
		for y := 0; y < grid.SizeY(); y++ {
			pt := spatialmath.TransformPoint(toConstraint, grid.MapToWorld(costmap.Cell{X: x, Y: y}))
			if pred.Evaluate(pt.X, pt.Y) {
				region.Points = append(region.Points, pt)
			}
		}
	}
	return region, nil
}

// Project maps region onto grid through fromConstraint, which takes constraint frame points into
// the grid frame.
func Project(region *Region, grid costmap.Grid, fromConstraint spatialmath.Pose) *GoalSet {
	goals := &GoalSet{}
	if region == nil {
		return goals
	}
	for _, pt := range region.Points {
		projected := spatialmath.TransformPoint(fromConstraint, pt)
		cell, ok := grid.WorldToMap(projected)
		if !ok || costmap.IsObstacle(grid.CostAt(cell)) {
			continue
		}
		goals.Cells = append(goals.Cells, cell)
		goals.Points = append(goals.Points, projected)
	}
	return goals
}
