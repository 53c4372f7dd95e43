// Package config reads the JSON file that describes a planning setup: the map, the frames
// around it, the planner, and a default start and goal.
package config

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/cbrobotics/regionplanner/constraint"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/logging"
	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/services/globalplanner"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// defaults applied to an unset planner section.
const (
	DefaultPlannerName  = "global"
	DefaultPlannerModel = "astar"
)

// Config is the whole planning setup.
type Config struct {
	ConfigFilePath string `json:"-"`

	Map     costmap.MapConfig             `json:"map"`
	Frames  []referenceframe.LinkConfig   `json:"frames,omitempty"`
	Planner globalplanner.Config          `json:"planner"`
	Start   Start                         `json:"start"`
	Goal    constraint.PositionConstraint `json:"goal"`
	Log     LogConfig                     `json:"log"`
}

// Start is the default start pose, in the map frame.
type Start struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ThetaDegs float64 `json:"theta_degs,omitempty"`
}

// LogConfig controls where and how verbosely the planner logs.
type LogConfig struct {
	Level string `json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	// File additionally writes logs to a rotating file.
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (lc *LogConfig) Validate(path string) error {
	if lc.Level != "" {
		if _, err := logging.LevelFromString(lc.Level); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	if lc.MaxSizeMB < 0 || lc.MaxBackups < 0 || lc.MaxAgeDays < 0 {
		return utils.NewConfigValidationError(path, errors.New("rotation limits cannot be negative"))
	}
	return nil
}

// ParsedLevel returns the configured level, defaulting to info.
func (lc *LogConfig) ParsedLevel() logging.Level {
	level, err := logging.LevelFromString(lc.Level)
	if err != nil {
		return logging.INFO
	}
	return level
}

// Ensure fills in defaults and validates every section, reporting all problems at once.
func (c *Config) Ensure() error {
	if c.Planner.Name == "" {
		c.Planner.Name = DefaultPlannerName
	}
	if c.Planner.Model == "" {
		c.Planner.Model = DefaultPlannerModel
	}

	var errs error
	errs = multierr.Append(errs, c.Map.Validate("map"))
	names := map[string]bool{c.Map.Frame: true}
	for idx := range c.Frames {
		path := fmt.Sprintf("%s.%d", "frames", idx)
		link := &c.Frames[idx]
		if err := link.Validate(path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := rutils.ValidateName(link.Name); err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
		}
		if names[link.Name] {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path, referenceframe.NewFrameAlreadyExistsError(link.Name)))
		}
		if !names[link.Parent] {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("parent %q must be the map frame or listed before %q", link.Parent, link.Name)))
		}
		names[link.Name] = true
	}
	errs = multierr.Append(errs, c.Planner.Validate("planner"))
	if !c.Goal.IsEmpty() {
		if err := c.Goal.Validate("goal"); err != nil {
			errs = multierr.Append(errs, err)
		} else if !names[c.Goal.Frame] {
			errs = multierr.Append(errs, utils.NewConfigValidationError("goal", errors.Errorf("unknown frame %q", c.Goal.Frame)))
		}
	}
	errs = multierr.Append(errs, c.Log.Validate("log"))
	return errs
}
