package costmap

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Origin is the world position of the lower-left corner of a map image.
type Origin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MapConfig describes an occupancy image in the usual map-server layout: dark pixels are
// occupied, light pixels free, and the first image row is the top of the map.
type MapConfig struct {
	Image          string  `json:"image"`
	Frame          string  `json:"frame"`
	Resolution     float64 `json:"resolution"`
	Origin         Origin  `json:"origin"`
	OccupiedThresh float64 `json:"occupied_thresh,omitempty"`
	FreeThresh     float64 `json:"free_thresh,omitempty"`
	Negate         bool    `json:"negate,omitempty"`
	// InflationRadius, in meters, grows lethal cells into inscribed obstacles.
	InflationRadius float64 `json:"inflation_radius,omitempty"`
}

const (
	defaultOccupiedThresh = 0.65
	defaultFreeThresh     = 0.196
)

// Validate ensures all parts of the config are valid.
func (cfg *MapConfig) Validate(path string) error {
	if cfg.Image == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "image")
	}
	if cfg.Frame == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "frame")
	}
	if cfg.Resolution <= 0 {
		return utils.NewConfigValidationError(path, errors.New("resolution must be positive"))
	}
	occ, free := cfg.thresholds()
	if free >= occ || occ > 1 || free < 0 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("thresholds must satisfy 0 <= free_thresh (%v) < occupied_thresh (%v) <= 1", free, occ))
	}
	if cfg.InflationRadius < 0 {
		return utils.NewConfigValidationError(path, errors.New("inflation_radius cannot be negative"))
	}
	return nil
}

func (cfg *MapConfig) thresholds() (float64, float64) {
	occ, free := cfg.OccupiedThresh, cfg.FreeThresh
	if occ == 0 {
		occ = defaultOccupiedThresh
	}
	if free == 0 {
		free = defaultFreeThresh
	}
	return occ, free
}

// Load reads the configured image from disk and converts it.
func (cfg *MapConfig) Load() (*Costmap, error) {
	img, err := imaging.Open(cfg.Image)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open map image %q", cfg.Image)
	}
	return FromImage(img, cfg)
}

// FromImage converts an occupancy image into a costmap. Pixels darker than the occupied
// threshold become LethalObstacle, pixels lighter than the free threshold FreeSpace, and
// everything else NoInformation.
func FromImage(img image.Image, cfg *MapConfig) (*Costmap, error) {
	gray := imaging.FlipV(imaging.Grayscale(img))
	bounds := gray.Bounds()
	cm, err := NewCostmap(bounds.Dx(), bounds.Dy(), cfg.Resolution, r3.Vector{X: cfg.Origin.X, Y: cfg.Origin.Y})
	if err != nil {
		return nil, err
	}
	occ, free := cfg.thresholds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			// grayscale output keeps R=G=B
			v := float64(gray.Pix[y*gray.Stride+x*4]) / 255
			occupancy := 1 - v
			if cfg.Negate {
				occupancy = v
			}
			cost := NoInformation
			switch {
			case occupancy > occ:
				cost = LethalObstacle
			case occupancy < free:
				cost = FreeSpace
			}
			cm.data[y*cm.sizeX+x] = cost
		}
	}
	cm.Inflate(cfg.InflationRadius)
	return cm, nil
}
