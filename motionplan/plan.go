package motionplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/motionplan/gridsearch"
	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/spatialmath"
)

// Plan is a sequence of poses in the grid frame, one per cell of the searched path, each facing
// along the path.
type Plan struct {
	ID    uuid.UUID
	Frame string
	Stamp time.Time
	Poses []spatialmath.Pose
}

// NewPlanFromCells places a pose at the center of every cell. The heading of pose i points at the
// cell lookahead steps further along; poses too close to the end reuse the previous heading, and
// a path no longer than lookahead keeps every heading at zero.
func NewPlanFromCells(cells gridsearch.Path, grid costmap.Grid, frame string, stamp time.Time, lookahead int) *Plan {
	plan := &Plan{ID: uuid.New(), Frame: frame, Stamp: stamp}
	if len(cells) == 0 {
		return plan
	}
	points := make([]spatialmath.Pose, 0, len(cells))
	heading := 0.0
	for i, c := range cells {
		pt := grid.MapToWorld(c)
		if i+lookahead < len(cells) {
			heading = spatialmath.Bearing(pt, grid.MapToWorld(cells[i+lookahead]))
		}
		points = append(points, spatialmath.NewPose(pt, heading))
	}
	plan.Poses = points
	return plan
}

// Len returns the number of poses.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Poses)
}

// PosesInFrame returns the poses tagged with the plan's frame.
func (p *Plan) PosesInFrame() []*referenceframe.PoseInFrame {
	out := make([]*referenceframe.PoseInFrame, 0, len(p.Poses))
	for _, pose := range p.Poses {
		out = append(out, referenceframe.NewPoseInFrame(p.Frame, pose))
	}
	return out
}

// Length returns the travelled distance along the poses, in meters.
func (p *Plan) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Poses); i++ {
		total += p.Poses[i].Point().Sub(p.Poses[i-1].Point()).Norm()
	}
	return total
}

// CostStats summarizes the costs of the cells a plan crosses.
type CostStats struct {
	Mean   float64
	Median float64
	Max    float64
	P90    float64
}

// CostStats returns statistics of the grid cost under every on-grid pose.
func (p *Plan) CostStats(grid costmap.Grid) (CostStats, error) {
	var costs stats.Float64Data
	for _, pose := range p.Poses {
		if c, ok := grid.WorldToMap(pose.Point()); ok {
			costs = append(costs, float64(grid.CostAt(c)))
		}
	}
	var out CostStats
	var err error
	if out.Mean, err = costs.Mean(); err != nil {
		return CostStats{}, err
	}
	if out.Median, err = costs.Median(); err != nil {
		return CostStats{}, err
	}
	if out.Max, err = costs.Max(); err != nil {
		return CostStats{}, err
	}
	if out.P90, err = costs.Percentile(90); err != nil {
		return CostStats{}, err
	}
	return out, nil
}

// CheckPlan reports whether every pose of plan still sits on a traversable cell. Poses that fall
// outside the grid are not checked.
func CheckPlan(plan *Plan, grid costmap.Grid) bool {
	if plan == nil {
		return true
	}
	for _, pose := range plan.Poses {
		c, ok := grid.WorldToMap(pose.Point())
		if !ok {
			continue
		}
		if costmap.IsObstacle(grid.CostAt(c)) {
			return false
		}
	}
	return true
}
