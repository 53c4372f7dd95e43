package motionplan

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"github.com/cbrobotics/regionplanner/constraint"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/logging"
	"github.com/cbrobotics/regionplanner/motionplan/goalregion"
	"github.com/cbrobotics/regionplanner/motionplan/gridsearch"
	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/spatialmath"
)

// PlannerState is the stage a planning call is in, or ended in.
type PlannerState int

// The stages of a planning call, in order.
const (
	Idle PlannerState = iota
	ResolvingConstraint
	Searching
	Fallback
	Synthesizing
	Done
)

func (s PlannerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case ResolvingConstraint:
		return "resolving_constraint"
	case Searching:
		return "searching"
	case Fallback:
		return "fallback"
	case Synthesizing:
		return "synthesizing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("PlannerState(%d)", int(s))
	}
}

// Request is a single planning call. Start is expressed in the grid frame. Grid is only read
// during the call.
type Request struct {
	Start      spatialmath.Pose
	Constraint constraint.PositionConstraint
	Grid       costmap.Grid
}

// Response is the outcome of a planning call. GoalPositions lists the grid frame positions of
// every goal cell considered, for diagnostics.
type Response struct {
	Plan          *Plan
	GoalPositions []r3.Vector
	UsedFallback  bool
	FinalState    PlannerState
}

// RegionPlanner plans from a start pose to any cell satisfying a position constraint. It caches
// the resolved goal region of the last constraint it saw and only rebuilds it when the
// constraint changes. A RegionPlanner is not safe for concurrent use.
type RegionPlanner struct {
	gridFrame string
	frames    referenceframe.TransformProvider
	compiler  constraint.Compiler
	opts      PlannerOptions
	search    *gridsearch.Search
	clk       clock.Clock
	logger    logging.Logger

	cached constraint.PositionConstraint
	region *goalregion.Region
	state  PlannerState
}

// NewRegionPlanner returns a planner for grids expressed in gridFrame. nil opts means defaults
// and a nil clock is the wall clock.
func NewRegionPlanner(
	gridFrame string,
	frames referenceframe.TransformProvider,
	compiler constraint.Compiler,
	opts *PlannerOptions,
	clk clock.Clock,
	logger logging.Logger,
) (*RegionPlanner, error) {
	if frames == nil || compiler == nil || logger == nil {
		return nil, newPlanningError(ErrNotInitialized, fmt.Errorf("missing dependency (frames=%v, compiler=%v, logger=%v)",
			frames != nil, compiler != nil, logger != nil))
	}
	if opts == nil {
		opts = NewDefaultPlannerOptions()
	}
	if err := opts.Validate("planner"); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	logger.Infow("region planner initialized",
		"grid_frame", gridFrame, "cost_weight", opts.CostWeight, "heading_lookahead", opts.HeadingLookahead)
	return &RegionPlanner{
		gridFrame: gridFrame,
		frames:    frames,
		compiler:  compiler,
		opts:      *opts,
		search:    gridsearch.NewSearch(opts.searchOptions(), logger.Sublogger("search")),
		clk:       clk,
		logger:    logger,
	}, nil
}

// Options returns a copy of the planner's options.
func (p *RegionPlanner) Options() PlannerOptions {
	return p.opts
}

// CachedConstraint returns the constraint whose region is cached, and false if there is none.
func (p *RegionPlanner) CachedConstraint() (constraint.PositionConstraint, bool) {
	return p.cached, p.region != nil
}

// CachedRegion returns a copy of the cached goal region, or nil.
func (p *RegionPlanner) CachedRegion() *goalregion.Region {
	return p.region.Copy()
}

// State returns the stage the last call ended in.
func (p *RegionPlanner) State() PlannerState {
	return p.state
}

// CheckPlan reports whether plan is still free of obstacles on grid.
func (p *RegionPlanner) CheckPlan(plan *Plan, grid costmap.Grid) bool {
	return CheckPlan(plan, grid)
}

// MakePlan plans from req.Start to the region described by req.Constraint. Failures that happen
// after the goal region has been projected also return a Response carrying the goal positions.
func (p *RegionPlanner) MakePlan(ctx context.Context, req Request) (*Response, error) {
	if p == nil || p.frames == nil || p.compiler == nil || p.search == nil || p.logger == nil {
		return nil, newPlanningError(ErrNotInitialized, nil)
	}
	if req.Grid == nil {
		return nil, p.fail(ctx, newPlanningError(ErrNotInitialized, fmt.Errorf("no costmap given")))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.transition(ctx, ResolvingConstraint)

	if req.Constraint.IsEmpty() {
		return nil, p.fail(ctx, newPlanningError(ErrNoConstraint, nil))
	}
	if req.Start == nil {
		return nil, p.fail(ctx, newPlanningError(ErrStartOffGrid, fmt.Errorf("no start pose given")))
	}
	start, ok := req.Grid.WorldToMap(req.Start.Point())
	if !ok {
		p.logger.Warnw("the robot's start position is off the global costmap", "start", req.Start.Point())
		return nil, p.fail(ctx, newPlanningError(ErrStartOffGrid, nil))
	}

	if err := p.resolveConstraint(ctx, req.Constraint, req.Grid); err != nil {
		return nil, p.fail(ctx, err)
	}

	fromConstraint, err := p.frames.Lookup(p.cached.Frame, p.gridFrame, time.Time{})
	if err != nil {
		return nil, p.fail(ctx, newPlanningError(ErrTransformUnavailable, err))
	}
	goals := goalregion.Project(p.region, req.Grid, fromConstraint)
	resp := &Response{GoalPositions: goals.Points}
	if goals.Len() == 0 {
		p.logger.Errorw("goal area is empty, nothing of it is reachable on the costmap", "constraint", p.cached.Expression)
		return p.failWith(ctx, resp, newPlanningError(ErrNoReachableGoal, nil))
	}

	p.transition(ctx, Searching)
	path := p.search.Plan(goals.Cells, start, req.Grid, false)
	if len(path) == 0 {
		p.transition(ctx, Fallback)
		seed := p.fallbackSeed(goals)
		p.logger.CDebugw(ctx, "forward search failed, trying from the goal area back", "seed", seed)
		path = lo.Reverse(p.search.Plan([]costmap.Cell{start}, seed, req.Grid, true))
		resp.UsedFallback = true
	}
	if len(path) == 0 {
		p.logger.Errorw("failed to find a path to the goal area", "goals", goals.Len(), "start", start)
		return p.failWith(ctx, resp, newPlanningError(ErrSearchExhausted, nil))
	}

	p.transition(ctx, Synthesizing)
	plan := NewPlanFromCells(path, req.Grid, p.gridFrame, p.clk.Now(), p.opts.HeadingLookahead)
	if plan.Len() == 0 {
		return p.failWith(ctx, resp, newPlanningError(ErrSynthesisEmpty, nil))
	}
	resp.Plan = plan

	p.transition(ctx, Done)
	resp.FinalState = Done
	p.logger.Infow("found a path to the goal area",
		"poses", plan.Len(), "length", plan.Length(), "fallback", resp.UsedFallback, "plan_id", plan.ID)
	return resp, nil
}

// resolveConstraint rebuilds the cached region when c differs from the cached constraint. The
// cache is only replaced when the rebuild succeeds.
func (p *RegionPlanner) resolveConstraint(ctx context.Context, c constraint.PositionConstraint, grid costmap.Grid) error {
	if p.region != nil && c.Equal(p.cached) {
		return nil
	}
	p.logger.Infow("goal constraint changed, rebuilding goal area", "frame", c.Frame, "expression", c.Expression)

	toConstraint, err := p.frames.Lookup(p.gridFrame, c.Frame, time.Time{})
	if err != nil {
		return newPlanningError(ErrTransformUnavailable, err)
	}
	region, err := goalregion.Rebuild(grid, c, toConstraint, p.compiler)
	if err != nil {
		return newPlanningError(ErrConstraintCompileFailed, err)
	}
	p.cached, p.region = c, region
	p.logger.CDebugw(ctx, "goal area rebuilt", "cells", region.Len())
	return nil
}

// fallbackSeed picks the goal the reversed search starts from.
func (p *RegionPlanner) fallbackSeed(goals *goalregion.GoalSet) costmap.Cell {
	if p.opts.FallbackSeed != FallbackSeedCentroid {
		return goals.Cells[goals.Len()/2]
	}
	xs := make(stats.Float64Data, 0, goals.Len())
	ys := make(stats.Float64Data, 0, goals.Len())
	for _, pt := range goals.Points {
		xs = append(xs, pt.X)
		ys = append(ys, pt.Y)
	}
	// non-empty input never errors
	cx, _ := xs.Mean()
	cy, _ := ys.Mean()
	centroid := r3.Vector{X: cx, Y: cy}

	best, bestDist := 0, math.Inf(1)
	for i, pt := range goals.Points {
		if d := pt.Sub(centroid).Norm2(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return goals.Cells[best]
}

func (p *RegionPlanner) transition(ctx context.Context, next PlannerState) {
	p.logger.CDebugw(ctx, "planner state", "from", p.state, "to", next)
	p.state = next
}

func (p *RegionPlanner) fail(ctx context.Context, err error) error {
	p.logger.CDebugw(ctx, "planning failed", "state", p.state, "error", err)
	return err
}

func (p *RegionPlanner) failWith(ctx context.Context, resp *Response, err error) (*Response, error) {
	resp.FinalState = p.state
	return resp, p.fail(ctx, err)
}
