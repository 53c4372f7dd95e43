package cli

import (
	"context"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"

	"github.com/cbrobotics/regionplanner/config"
	"github.com/cbrobotics/regionplanner/constraint"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/logging"
	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/services/globalplanner"
	// registers the astar planner.
	_ "github.com/cbrobotics/regionplanner/services/globalplanner/builtin"
	"github.com/cbrobotics/regionplanner/spatialmath"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// environment is everything a config describes, loaded and wired together.
type environment struct {
	grid    *costmap.Costmap
	frames  *referenceframe.FrameSystem
	planner globalplanner.GlobalPlanner
}

func newEnvironment(ctx context.Context, cfg *config.Config, logger logging.Logger) (*environment, error) {
	grid, err := cfg.Map.Load()
	if err != nil {
		return nil, err
	}
	frames := referenceframe.NewFrameSystem(cfg.Map.Frame, nil)
	if err := frames.AddLinks(cfg.Frames); err != nil {
		return nil, errors.Wrap(err, "cannot build frame system")
	}
	deps := globalplanner.Dependencies{
		Transforms: frames,
		Costmap:    &costmap.StaticSource{Grid: grid, Frame: cfg.Map.Frame},
	}
	planner, err := globalplanner.New(ctx, deps, cfg.Planner, logger)
	if err != nil {
		return nil, err
	}
	logger.Debugw("environment ready",
		"map", cfg.Map.Image, "size_x", grid.SizeX(), "size_y", grid.SizeY(), "frames", frames.FrameNames())
	return &environment{grid: grid, frames: frames, planner: planner}, nil
}

func (env *environment) Close(ctx context.Context) error {
	return env.planner.Close(ctx)
}

// newLogger returns the CLI logger, at debug level when --debug is set.
func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(debugFlag) {
		return logging.NewDebugLogger("regionplanner")
	}
	return logging.NewLogger("regionplanner")
}

// applyLogConfig sets the configured level, unless --debug is set, and adds the rotating file
// if one is configured. Subloggers made later for planners share both. The returned function
// flushes and closes the log outputs.
func applyLogConfig(c *cli.Context, logger logging.Logger, lc config.LogConfig) func() error {
	if !c.Bool(debugFlag) {
		logger.SetLevel(lc.ParsedLevel())
	}
	if lc.File == "" {
		return logger.Sync
	}
	return logging.AddFileAppender(logger, logging.FileConfig{
		Path:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
	})
}

// parseStart parses "x,y" or "x,y,theta_degs" in the map frame.
func parseStart(raw string) (config.Start, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return config.Start{}, errors.Errorf("start %q must be x,y or x,y,theta_degs", raw)
	}
	vals := make([]float64, len(parts))
	for i, part := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(part))
		if err != nil {
			return config.Start{}, errors.Wrapf(err, "invalid start %q", raw)
		}
		vals[i] = v
	}
	start := config.Start{X: vals[0], Y: vals[1]}
	if len(vals) == 3 {
		start.ThetaDegs = vals[2]
	}
	return start, nil
}

func startPose(start config.Start) spatialmath.Pose {
	return spatialmath.NewPose(r3.Vector{X: start.X, Y: start.Y}, rutils.DegToRad(start.ThetaDegs))
}

// goalFromFlags overlays --frame and --constraint on the configured goal. A goal without a frame
// is expressed in the map frame.
func goalFromFlags(c *cli.Context, cfg *config.Config) (constraint.PositionConstraint, error) {
	goal := cfg.Goal
	if c.IsSet(frameFlag) {
		goal.Frame = c.String(frameFlag)
	}
	if c.IsSet(constraintFlag) {
		goal.Expression = c.String(constraintFlag)
	}
	if goal.Expression == "" {
		return constraint.PositionConstraint{}, errors.Errorf("no goal constraint: set goal in the config or pass --%s", constraintFlag)
	}
	if goal.Frame == "" {
		goal.Frame = cfg.Map.Frame
	}
	return goal, nil
}
