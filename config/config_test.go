package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/cbrobotics/regionplanner/constraint"
	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/logging"
	"github.com/cbrobotics/regionplanner/motionplan"
	"github.com/cbrobotics/regionplanner/referenceframe"
	"github.com/cbrobotics/regionplanner/services/globalplanner"
	_ "github.com/cbrobotics/regionplanner/services/globalplanner/builtin"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

const validConfig = `{
	"map": {"image": "floor.png", "frame": "map", "resolution": 0.05, "origin": {"x": -1, "y": -2}},
	"frames": [
		{"name": "table", "parent": "map", "translation": {"x": 2, "y": 1}, "theta_degs": 90},
		{"name": "tray", "parent": "table", "translation": {"x": 0.1, "y": 0}}
	],
	"planner": {"attributes": {"heading_lookahead": 3, "constraint_grammar": "${GRAMMAR}"}},
	"start": {"x": 0.5, "y": 0.5},
	"goal": {"frame": "table", "expression": "x > 0.0"},
	"log": {"level": "debug"}
}`

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "planner.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestRead(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	t.Setenv("GRAMMAR", "cel")

	cfg, err := Read(writeConfig(t, dir, validConfig), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Map.Image, test.ShouldEqual, filepath.Join(dir, "floor.png"))
	test.That(t, cfg.Map.Origin, test.ShouldResemble, costmap.Origin{X: -1, Y: -2})
	test.That(t, cfg.Frames, test.ShouldHaveLength, 2)
	test.That(t, cfg.Planner.Name, test.ShouldEqual, DefaultPlannerName)
	test.That(t, cfg.Planner.Model, test.ShouldEqual, DefaultPlannerModel)
	test.That(t, cfg.Log.ParsedLevel(), test.ShouldEqual, logging.DEBUG)

	opts, ok := cfg.Planner.ConvertedAttributes.(*motionplan.PlannerOptions)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, opts.HeadingLookahead, test.ShouldEqual, 3)
	test.That(t, opts.ConstraintGrammar, test.ShouldEqual, "cel")
	test.That(t, opts.FallbackSeed, test.ShouldEqual, motionplan.FallbackSeedMiddle)

	t.Run("absolute image path is kept", func(t *testing.T) {
		abs := strings.Replace(validConfig, `"floor.png"`, `"/maps/floor.png"`, 1)
		cfg, err := Read(writeConfig(t, t.TempDir(), abs), logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Map.Image, test.ShouldEqual, "/maps/floor.png")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(dir, "nope.json"), logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("unknown grammar from environment", func(t *testing.T) {
		t.Setenv("GRAMMAR", "lisp")
		_, err := Read(writeConfig(t, t.TempDir(), validConfig), logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "lisp")
	})
}

func TestFromReaderRejectsUnknownFields(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := FromReader("", strings.NewReader(`{"map": {"image": "a.png", "frame": "map", "resolution": 1}, "bogus": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bogus")

	cfg, err := FromReader("", strings.NewReader(`{"map": {"image": "a.png", "frame": "map", "resolution": 1}}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Map.Image, test.ShouldEqual, "a.png")
	test.That(t, cfg.Goal.IsEmpty(), test.ShouldBeTrue)
	test.That(t, cfg.Log.ParsedLevel(), test.ShouldEqual, logging.INFO)
}

func TestEnsureReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Map: costmap.MapConfig{Frame: "map", Resolution: 1},
		Frames: []referenceframe.LinkConfig{
			{Name: "a", Parent: "b"},
			{Name: "b", Parent: "map"},
			{Name: "b", Parent: "map"},
			{Name: "bad name!", Parent: "map"},
		},
		Planner: globalplanner.Config{Attributes: rutils.AttributeMap{"cost_weight": -1.0}},
		Goal:    constraint.PositionConstraint{Frame: "elsewhere", Expression: "x > 0"},
		Log:     LogConfig{Level: "loud", MaxBackups: -1},
	}
	err := cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	msg := err.Error()
	for _, want := range []string{
		"image",
		`parent "b" must be the map frame or listed before "a"`,
		`frame with name "b" already in frame system`,
		`bad name!`,
		"cost_weight",
		`unknown frame "elsewhere"`,
		"loud",
	} {
		test.That(t, msg, test.ShouldContainSubstring, want)
	}
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 7)

	t.Run("rotation limits", func(t *testing.T) {
		lc := LogConfig{MaxBackups: -1}
		test.That(t, lc.Validate("log"), test.ShouldNotBeNil)
	})
}

func TestSchema(t *testing.T) {
	schema := Schema()
	test.That(t, schema, test.ShouldNotBeNil)
	raw, err := schema.MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	for _, field := range []string{"map", "frames", "planner", "goal", "occupied_thresh", "theta_degs"} {
		test.That(t, string(raw), test.ShouldContainSubstring, `"`+field+`"`)
	}

	raw, err = PlannerAttributesSchema().MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(raw), test.ShouldContainSubstring, "heading_lookahead")
	test.That(t, string(raw), test.ShouldContainSubstring, "centroid")
}

func TestWatcher(t *testing.T) {
	logger := logging.NewTestLogger(t)
	t.Setenv("GRAMMAR", "polygon")
	dir := t.TempDir()
	path := writeConfig(t, dir, validConfig)

	w, err := NewWatcher(path, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, w.Close(), test.ShouldBeNil)
	}()

	// an unrelated file in the same directory is ignored
	test.That(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o600), test.ShouldBeNil)

	updated := strings.Replace(validConfig, `"x": 0.5`, `"x": 1.5`, 1)
	writeConfig(t, dir, updated)

	select {
	case cfg := <-w.Config():
		test.That(t, cfg.Start.X, test.ShouldEqual, 1.5)
		test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config update")
	}
}
