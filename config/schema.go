package config

import (
	"github.com/invopop/jsonschema"

	"github.com/cbrobotics/regionplanner/motionplan"
)

// Schema returns the JSON schema of the config file.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

// PlannerAttributesSchema returns the JSON schema of the astar planner's attributes.
func PlannerAttributesSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&motionplan.PlannerOptions{})
}
