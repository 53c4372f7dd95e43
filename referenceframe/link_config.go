package referenceframe

import (
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/utils"

	"github.com/cbrobotics/regionplanner/spatialmath"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// Translation is the planar offset of a frame from its parent, in meters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// LinkConfig describes a frame attached to a parent in the frame system.
type LinkConfig struct {
	Name        string      `json:"name"`
	Parent      string      `json:"parent"`
	Translation Translation `json:"translation"`
	ThetaDegs   float64     `json:"theta_degs"`
	// MaxAge makes the frame dynamic: its pose is treated as a sample stamped at load time that
	// expires after this duration. Empty means static.
	MaxAge string `json:"max_age,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *LinkConfig) Validate(path string) error {
	if cfg.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if cfg.Parent == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "parent")
	}
	if cfg.MaxAge != "" {
		if _, err := time.ParseDuration(cfg.MaxAge); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	return nil
}

// Pose returns the configured pose of the frame in its parent.
func (cfg *LinkConfig) Pose() spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: cfg.Translation.X, Y: cfg.Translation.Y, Z: cfg.Translation.Z},
		rutils.DegToRad(cfg.ThetaDegs),
	)
}

// AddLinks adds every link to fs in order, so parents must be listed before their children.
// Dynamic links receive their configured pose stamped at the frame system's current time.
func (fs *FrameSystem) AddLinks(links []LinkConfig) error {
	for i := range links {
		cfg := &links[i]
		if cfg.MaxAge == "" {
			if err := fs.AddStaticFrame(cfg.Name, cfg.Parent, cfg.Pose()); err != nil {
				return err
			}
			continue
		}
		maxAge, err := time.ParseDuration(cfg.MaxAge)
		if err != nil {
			return err
		}
		if err := fs.AddDynamicFrame(cfg.Name, cfg.Parent, maxAge); err != nil {
			return err
		}
		if err := fs.UpdateFrame(cfg.Name, cfg.Pose(), fs.clk.Now()); err != nil {
			return err
		}
	}
	return nil
}
