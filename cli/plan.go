package cli

import (
	"context"
	"encoding/json"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/cbrobotics/regionplanner/config"
	"github.com/cbrobotics/regionplanner/logging"
)

// PlanAction is the corresponding Action for 'plan'.
func PlanAction(c *cli.Context) (err error) {
	logger := newLogger(c)
	cfg, err := config.Read(c.Path(configFlag), logger)
	if err != nil {
		return err
	}
	closeLogs := applyLogConfig(c, logger, cfg.Log)
	defer func() {
		//nolint:errcheck
		closeLogs()
	}()

	start := cfg.Start
	if c.IsSet(startFlag) {
		if start, err = parseStart(c.String(startFlag)); err != nil {
			return err
		}
	}
	goal, err := goalFromFlags(c, cfg)
	if err != nil {
		return err
	}

	ctx := c.Context
	if c.Bool(debugFlag) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	env, err := newEnvironment(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, env.Close(context.Background()))
	}()

	resp := env.planner.MakePlan(ctx, startPose(start), goal)
	printPlan(c.App.Writer, resp, env.grid)
	if !resp.Succeeded {
		return errors.Errorf("no plan to %q in %q", goal.Expression, goal.Frame)
	}
	if c.Bool(checkFlag) {
		if !env.planner.CheckPlan(ctx, resp.Poses) {
			return errors.New("plan crosses an obstacle")
		}
		printf(c.App.Writer, "plan is obstacle free")
	}
	return nil
}

// WatchAction is the corresponding Action for 'watch'. It plans with the configured start and
// goal, then again after every valid change to the config file, until interrupted.
func WatchAction(c *cli.Context) error {
	logger := newLogger(c)
	path := c.Path(configFlag)
	cfg, err := config.Read(path, logger)
	if err != nil {
		return err
	}
	closeLogs := applyLogConfig(c, logger, cfg.Log)
	defer func() {
		//nolint:errcheck
		closeLogs()
	}()

	watcher, err := config.NewWatcher(path, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Errorw("error closing config watcher", "error", err)
		}
	}()

	for {
		if err := replan(c, cfg, logger); err != nil {
			logger.Errorw("replanning failed", "error", err)
		}
		select {
		case <-c.Context.Done():
			return nil
		case cfg = <-watcher.Config():
			if !c.Bool(debugFlag) {
				logger.SetLevel(cfg.Log.ParsedLevel())
			}
			logger.Infow("config changed", "path", path)
		}
	}
}

func replan(c *cli.Context, cfg *config.Config, logger logging.Logger) (err error) {
	if cfg.Goal.IsEmpty() {
		warningf(c.App.Writer, "config has no goal, nothing to plan")
		return nil
	}
	env, err := newEnvironment(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, env.Close(context.Background()))
	}()
	resp := env.planner.MakePlan(c.Context, startPose(cfg.Start), cfg.Goal)
	printPlan(c.App.Writer, resp, env.grid)
	return nil
}

// SchemaAction is the corresponding Action for 'schema'.
func SchemaAction(c *cli.Context) error {
	schema := config.Schema()
	if c.Bool(plannerFlag) {
		schema = config.PlannerAttributesSchema()
	}
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

// VersionAction is the corresponding Action for 'version'.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	if c.Bool(debugFlag) {
		printf(c.App.Writer, "%s", info.String())
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	version := "?"
	if rev, ok := settings["vcs.revision"]; ok && len(rev) >= 8 {
		version = rev[:8]
		if settings["vcs.modified"] == "true" {
			version += "+"
		}
	}
	celVersion := "?"
	for _, dep := range info.Deps {
		if dep.Path == "github.com/google/cel-go" {
			celVersion = dep.Version
		}
	}
	printf(c.App.Writer, "version %s git=%s cel=%s", info.Main.Version, version, celVersion)
	return nil
}
