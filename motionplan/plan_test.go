package motionplan

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/motionplan/gridsearch"
)

func diagonalPath(n int) gridsearch.Path {
	path := gridsearch.Path{}
	for i := 0; i < n; i++ {
		path = append(path, costmap.Cell{X: i, Y: i})
	}
	return path
}

func TestNewPlanFromCells(t *testing.T) {
	grid := newTestGrid(t, 10, 10)
	stamp := time.Unix(100, 0)

	// straight east for 4 cells, then north for 4
	path := gridsearch.Path{}
	for x := 0; x < 4; x++ {
		path = append(path, costmap.Cell{X: x, Y: 0})
	}
	for y := 1; y < 5; y++ {
		path = append(path, costmap.Cell{X: 3, Y: y})
	}
	plan := NewPlanFromCells(path, grid, "map", stamp, 2)
	test.That(t, plan.Len(), test.ShouldEqual, len(path))
	test.That(t, plan.Frame, test.ShouldEqual, "map")
	test.That(t, plan.Stamp, test.ShouldEqual, stamp)
	test.That(t, plan.ID.String(), test.ShouldNotBeEmpty)

	for i, pose := range plan.Poses {
		test.That(t, pose.Point(), test.ShouldResemble, grid.MapToWorld(path[i]))
	}
	test.That(t, plan.Poses[0].Heading(), test.ShouldAlmostEqual, 0)
	// cell 2 looks at cell 4, one up and one over
	test.That(t, plan.Poses[2].Heading(), test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, plan.Poses[3].Heading(), test.ShouldAlmostEqual, math.Pi/2)
	// the last two cells have nothing two steps ahead and keep the previous heading
	test.That(t, plan.Poses[6].Heading(), test.ShouldAlmostEqual, plan.Poses[5].Heading())
	test.That(t, plan.Poses[7].Heading(), test.ShouldAlmostEqual, math.Pi/2)

	test.That(t, plan.Length(), test.ShouldAlmostEqual, 7)
	inFrame := plan.PosesInFrame()
	test.That(t, inFrame, test.ShouldHaveLength, 8)
	test.That(t, inFrame[0].Parent(), test.ShouldEqual, "map")
}

func TestNewPlanShortPath(t *testing.T) {
	grid := newTestGrid(t, 10, 10)
	plan := NewPlanFromCells(diagonalPath(5), grid, "map", time.Time{}, 5)
	test.That(t, plan.Len(), test.ShouldEqual, 5)
	for _, pose := range plan.Poses {
		test.That(t, pose.Heading(), test.ShouldEqual, 0)
	}

	plan = NewPlanFromCells(diagonalPath(6), grid, "map", time.Time{}, 5)
	for _, pose := range plan.Poses {
		test.That(t, pose.Heading(), test.ShouldAlmostEqual, math.Pi/4)
	}

	empty := NewPlanFromCells(nil, grid, "map", time.Time{}, 5)
	test.That(t, empty.Len(), test.ShouldEqual, 0)
	test.That(t, (*Plan)(nil).Len(), test.ShouldEqual, 0)
}

func TestCheckPlan(t *testing.T) {
	grid := newTestGrid(t, 10, 10)
	plan := NewPlanFromCells(diagonalPath(10), grid, "map", time.Time{}, 5)
	test.That(t, CheckPlan(plan, grid), test.ShouldBeTrue)

	test.That(t, grid.SetCost(costmap.Cell{X: 4, Y: 4}, 200), test.ShouldBeNil)
	test.That(t, CheckPlan(plan, grid), test.ShouldBeTrue)

	test.That(t, grid.SetCost(costmap.Cell{X: 4, Y: 4}, costmap.LethalObstacle), test.ShouldBeNil)
	test.That(t, CheckPlan(plan, grid), test.ShouldBeFalse)

	// poses off the grid are skipped
	shrunk := newTestGrid(t, 3, 3)
	test.That(t, CheckPlan(plan, shrunk), test.ShouldBeTrue)
	test.That(t, CheckPlan(nil, grid), test.ShouldBeTrue)
}

func TestCostStats(t *testing.T) {
	grid := newTestGrid(t, 10, 10)
	for i, cost := range []uint8{0, 10, 20, 30} {
		test.That(t, grid.SetCost(costmap.Cell{X: i, Y: i}, cost), test.ShouldBeNil)
	}
	plan := NewPlanFromCells(diagonalPath(4), grid, "map", time.Time{}, 5)
	s, err := plan.CostStats(grid)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Mean, test.ShouldAlmostEqual, 15)
	test.That(t, s.Median, test.ShouldAlmostEqual, 15)
	test.That(t, s.Max, test.ShouldEqual, 30)

	_, err = (&Plan{}).CostStats(grid)
	test.That(t, err, test.ShouldNotBeNil)
}

func newTestGrid(t *testing.T, sizeX, sizeY int) *costmap.Costmap {
	t.Helper()
	cm, err := costmap.NewCostmap(sizeX, sizeY, 1, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	return cm
}
