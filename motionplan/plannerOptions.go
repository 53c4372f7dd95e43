package motionplan

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/cbrobotics/regionplanner/motionplan/gridsearch"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// default values for planning options.
const (
	// number of cells ahead used to aim each pose's heading.
	defaultHeadingLookahead = 5

	defaultConstraintGrammar = "cel"
)

// the supported fallback seeds.
const (
	// FallbackSeedMiddle starts the reversed search from the goal in the middle of the goal list.
	FallbackSeedMiddle = "middle"
	// FallbackSeedCentroid starts the reversed search from the goal closest to the goal centroid.
	FallbackSeedCentroid = "centroid"
)

// PlannerOptions are the tunables of a RegionPlanner.
type PlannerOptions struct {
	HeadingLookahead  int     `json:"heading_lookahead" jsonschema:"minimum=1,default=5"`
	CostWeight        float64 `json:"cost_weight" jsonschema:"minimum=0,default=0.01"`
	FallbackSeed      string  `json:"fallback_seed" jsonschema:"enum=middle,enum=centroid,default=middle"`
	ConstraintGrammar string  `json:"constraint_grammar" jsonschema:"default=cel"`
}

// NewDefaultPlannerOptions returns the options used when nothing is configured.
func NewDefaultPlannerOptions() *PlannerOptions {
	return &PlannerOptions{
		HeadingLookahead:  defaultHeadingLookahead,
		CostWeight:        gridsearch.DefaultCostWeight,
		FallbackSeed:      FallbackSeedMiddle,
		ConstraintGrammar: defaultConstraintGrammar,
	}
}

// NewPlannerOptionsFromAttributes overlays the given attributes on the defaults.
func NewPlannerOptionsFromAttributes(attrs rutils.AttributeMap) (*PlannerOptions, error) {
	opts := NewDefaultPlannerOptions()
	if err := attrs.Decode(opts); err != nil {
		return nil, errors.Wrap(err, "cannot convert planner attributes")
	}
	return opts, nil
}

// Validate ensures all parts of the options are valid.
func (opts *PlannerOptions) Validate(path string) error {
	if opts.HeadingLookahead < 1 {
		return utils.NewConfigValidationError(path, errors.Errorf("heading_lookahead must be at least 1, got %d", opts.HeadingLookahead))
	}
	if opts.CostWeight < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("cost_weight cannot be negative, got %v", opts.CostWeight))
	}
	switch opts.FallbackSeed {
	case FallbackSeedMiddle, FallbackSeedCentroid:
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown fallback_seed %q", opts.FallbackSeed))
	}
	if opts.ConstraintGrammar == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "constraint_grammar")
	}
	return nil
}

func (opts *PlannerOptions) searchOptions() gridsearch.Options {
	return gridsearch.Options{CostWeight: opts.CostWeight}
}
