// Package builtin contains the default global planner: A* over the costmap to a goal region.
package builtin

import (
	"context"
	"errors"
	"sync"

	"github.com/benbjohnson/clock"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cbrobotics/regionplanner/constraint"
	// registers the constraint grammars.
	_ "github.com/cbrobotics/regionplanner/constraint/celexpr"
	_ "github.com/cbrobotics/regionplanner/constraint/polygon"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/logging"
	"github.com/cbrobotics/regionplanner/motionplan"
	"github.com/cbrobotics/regionplanner/services/globalplanner"
	"github.com/cbrobotics/regionplanner/spatialmath"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// Model is the name the planner registers under.
const Model = "astar"

var errClosed = errors.New("global planner is closed")

func init() {
	globalplanner.Register(Model, globalplanner.Registration{
		Constructor: NewBuiltIn,
		AttributeMapConverter: func(attrs rutils.AttributeMap) (interface{}, error) {
			opts, err := motionplan.NewPlannerOptionsFromAttributes(attrs)
			if err != nil {
				return nil, err
			}
			if grammars := constraint.Grammars(); !lo.Contains(grammars, opts.ConstraintGrammar) {
				return nil, pkgerrors.Errorf("unknown constraint grammar %q, registered: %v", opts.ConstraintGrammar, grammars)
			}
			return opts, nil
		},
	})
}

// builtIn serializes calls into a single RegionPlanner.
type builtIn struct {
	mu      sync.Mutex
	name    string
	source  costmap.Source
	planner *motionplan.RegionPlanner
	logger  logging.Logger
	closed  bool
}

// NewBuiltIn returns a new global planner for the given config.
func NewBuiltIn(
	ctx context.Context,
	deps globalplanner.Dependencies,
	conf globalplanner.Config,
	logger logging.Logger,
) (globalplanner.GlobalPlanner, error) {
	opts := motionplan.NewDefaultPlannerOptions()
	if conf.ConvertedAttributes != nil {
		var err error
		if opts, err = rutils.AssertType[*motionplan.PlannerOptions](conf.ConvertedAttributes); err != nil {
			return nil, err
		}
	}
	compiler, err := constraint.NewCompiler(opts.ConstraintGrammar)
	if err != nil {
		return nil, err
	}
	planner, err := motionplan.NewRegionPlanner(deps.Costmap.GlobalFrame(), deps.Transforms, compiler, opts, clock.New(), logger)
	if err != nil {
		return nil, err
	}
	return &builtIn{
		name:    conf.Name,
		source:  deps.Costmap,
		planner: planner,
		logger:  logger,
	}, nil
}

func (svc *builtIn) Name() string {
	return svc.name
}

func (svc *builtIn) MakePlan(
	ctx context.Context,
	start spatialmath.Pose,
	goal constraint.PositionConstraint,
) globalplanner.PlanResponse {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.closed {
		return globalplanner.PlanResponse{Failure: errClosed.Error(), Err: errClosed}
	}

	grid := svc.source.Costmap()
	resp, err := svc.planner.MakePlan(ctx, motionplan.Request{Start: start, Constraint: goal, Grid: grid})
	out := globalplanner.PlanResponse{Frame: svc.source.GlobalFrame()}
	if resp != nil {
		out.GoalPositions = resp.GoalPositions
		out.UsedFallback = resp.UsedFallback
	}
	if err != nil {
		out.Failure = err.Error()
		out.Err = err
		return out
	}
	out.Succeeded = true
	out.PlanID = resp.Plan.ID.String()
	out.Frame = resp.Plan.Frame
	out.Stamp = resp.Plan.Stamp
	out.Poses = resp.Plan.Poses
	return out
}

func (svc *builtIn) CheckPlan(ctx context.Context, poses []spatialmath.Pose) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.closed {
		return false
	}
	grid := svc.source.Costmap()
	ok := svc.planner.CheckPlan(&motionplan.Plan{Frame: svc.source.GlobalFrame(), Poses: poses}, grid)
	if !ok {
		svc.logger.CDebugw(ctx, "plan is blocked", "poses", len(poses))
	}
	return ok
}

func (svc *builtIn) Close(ctx context.Context) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.closed = true
	return nil
}
