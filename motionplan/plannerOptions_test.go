package motionplan

import (
	"testing"

	"go.viam.com/test"

	rutils "github.com/cbrobotics/regionplanner/utils"
)

func TestPlannerOptions(t *testing.T) {
	opts := NewDefaultPlannerOptions()
	test.That(t, opts.Validate("planner"), test.ShouldBeNil)
	test.That(t, opts.HeadingLookahead, test.ShouldEqual, 5)
	test.That(t, opts.CostWeight, test.ShouldEqual, 0.01)
	test.That(t, opts.FallbackSeed, test.ShouldEqual, FallbackSeedMiddle)

	opts, err := NewPlannerOptionsFromAttributes(rutils.AttributeMap{
		"heading_lookahead": float64(3),
		"fallback_seed":     "centroid",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.HeadingLookahead, test.ShouldEqual, 3)
	test.That(t, opts.FallbackSeed, test.ShouldEqual, FallbackSeedCentroid)
	test.That(t, opts.CostWeight, test.ShouldEqual, 0.01)
	test.That(t, opts.ConstraintGrammar, test.ShouldEqual, "cel")

	_, err = NewPlannerOptionsFromAttributes(rutils.AttributeMap{"lookahead": 3})
	test.That(t, err, test.ShouldNotBeNil)

	for _, bad := range []PlannerOptions{
		{HeadingLookahead: 0, FallbackSeed: FallbackSeedMiddle, ConstraintGrammar: "cel"},
		{HeadingLookahead: 5, CostWeight: -1, FallbackSeed: FallbackSeedMiddle, ConstraintGrammar: "cel"},
		{HeadingLookahead: 5, FallbackSeed: "random", ConstraintGrammar: "cel"},
		{HeadingLookahead: 5, FallbackSeed: FallbackSeedMiddle},
	} {
		test.That(t, bad.Validate("planner"), test.ShouldNotBeNil)
	}
}
