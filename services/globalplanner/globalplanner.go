// Package globalplanner exposes planners to a navigation host: a planner is built from a named
// model and a config, and answers plan requests with the host's response shape.
package globalplanner

import (
	"context"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/cbrobotics/regionplanner/constraint"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/spatialmath"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// A GlobalPlanner plans paths across the global costmap.
type GlobalPlanner interface {
	Name() string
	// MakePlan never returns an error: failures come back with Succeeded unset and a Failure
	// message.
	MakePlan(ctx context.Context, start spatialmath.Pose, goal constraint.PositionConstraint) PlanResponse
	// CheckPlan reports whether poses, in the costmap's frame, are still obstacle free.
	CheckPlan(ctx context.Context, poses []spatialmath.Pose) bool
	Close(ctx context.Context) error
}

// PlanResponse is what a host receives for each plan request.
type PlanResponse struct {
	Succeeded     bool
	PlanID        string
	Frame         string
	Stamp         time.Time
	Poses         []spatialmath.Pose
	GoalPositions []r3.Vector
	UsedFallback  bool
	Failure       string
	// Err is the underlying planning error, for hosts that branch on it.
	Err error
}

// Dependencies are the collaborators a planner is given by its host.
type Dependencies struct {
	Transforms referenceframe.TransformProvider
	Costmap    costmap.Source
}

// Validate ensures every dependency is present.
func (deps Dependencies) Validate() error {
	if deps.Transforms == nil {
		return errors.New("global planner requires a transform provider")
	}
	if deps.Costmap == nil {
		return errors.New("global planner requires a costmap source")
	}
	return nil
}

// Config describes how to configure a planner.
type Config struct {
	Name       string              `json:"name"`
	Model      string              `json:"model"`
	Attributes rutils.AttributeMap `json:"attributes,omitempty"`

	ConvertedAttributes interface{} `json:"-"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if err := rutils.ValidateName(conf.Name); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if conf.Model == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "model")
	}
	reg, ok := Lookup(conf.Model)
	if !ok {
		return utils.NewConfigValidationError(path, errors.Errorf("unknown model %q, registered: %v", conf.Model, RegisteredModels()))
	}
	if reg.AttributeMapConverter == nil {
		return nil
	}
	converted, err := reg.AttributeMapConverter(conf.Attributes)
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if v, ok := converted.(interface{ Validate(path string) error }); ok {
		if err := v.Validate(path + ".attributes"); err != nil {
			return err
		}
	}
	conf.ConvertedAttributes = converted
	return nil
}
