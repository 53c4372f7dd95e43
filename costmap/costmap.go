// Package costmap defines the occupancy grid the planner searches over and a dense in-memory
// implementation of it.
package costmap

import (
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Cost values with special meaning. Everything in between is a traversal penalty.
const (
	FreeSpace                 uint8 = 0
	InscribedInflatedObstacle uint8 = 253
	LethalObstacle            uint8 = 254
	NoInformation             uint8 = 255
)

// IsObstacle reports whether a cell with the given cost may never be entered.
// Unknown space is traversable at its (high) cost.
func IsObstacle(cost uint8) bool {
	return cost == InscribedInflatedObstacle || cost == LethalObstacle
}

// Cell is an integer grid index.
type Cell struct {
	X int
	Y int
}

// Grid is the read-only view of a costmap used for one planning call.
type Grid interface {
	SizeX() int
	SizeY() int
	// MapToWorld returns the center of the cell in the grid's frame.
	MapToWorld(c Cell) r3.Vector
	// WorldToMap returns the cell containing pt, and false when pt lies outside the grid.
	WorldToMap(pt r3.Vector) (Cell, bool)
	CostAt(c Cell) uint8
}

// Source hands out the current grid and names the frame its world coordinates are in.
type Source interface {
	Costmap() Grid
	GlobalFrame() string
}

// Costmap is a dense row-major grid of costs anchored at a world origin. It is safe for
// concurrent use.
type Costmap struct {
	mu         sync.RWMutex
	sizeX      int
	sizeY      int
	resolution float64
	origin     r3.Vector
	data       []uint8
}

var _ Grid = (*Costmap)(nil)

// NewCostmap returns a free grid of sizeX by sizeY cells, each resolution meters wide, whose
// lower-left corner sits at origin.
func NewCostmap(sizeX, sizeY int, resolution float64, origin r3.Vector) (*Costmap, error) {
	if sizeX <= 0 || sizeY <= 0 {
		return nil, errors.Errorf("costmap size must be positive, got %dx%d", sizeX, sizeY)
	}
	if resolution <= 0 {
		return nil, errors.Errorf("costmap resolution must be positive, got %v", resolution)
	}
	return &Costmap{
		sizeX:      sizeX,
		sizeY:      sizeY,
		resolution: resolution,
		origin:     origin,
		data:       make([]uint8, sizeX*sizeY),
	}, nil
}

// SizeX returns the number of columns.
func (cm *Costmap) SizeX() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.sizeX
}

// SizeY returns the number of rows.
func (cm *Costmap) SizeY() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.sizeY
}

// Resolution returns the width of a cell in meters.
func (cm *Costmap) Resolution() float64 {
	return cm.resolution
}

// Origin returns the world position of the lower-left corner of cell (0, 0).
func (cm *Costmap) Origin() r3.Vector {
	return cm.origin
}

// MapToWorld returns the center of c.
func (cm *Costmap) MapToWorld(c Cell) r3.Vector {
	return r3.Vector{
		X: cm.origin.X + (float64(c.X)+0.5)*cm.resolution,
		Y: cm.origin.Y + (float64(c.Y)+0.5)*cm.resolution,
	}
}

// WorldToMap returns the cell containing pt.
func (cm *Costmap) WorldToMap(pt r3.Vector) (Cell, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if pt.X < cm.origin.X || pt.Y < cm.origin.Y {
		return Cell{}, false
	}
	c := Cell{
		X: int(math.Floor((pt.X - cm.origin.X) / cm.resolution)),
		Y: int(math.Floor((pt.Y - cm.origin.Y) / cm.resolution)),
	}
	if !cm.inBounds(c) {
		return Cell{}, false
	}
	return c, true
}

// CostAt returns the cost of c, or NoInformation when c is outside the grid.
func (cm *Costmap) CostAt(c Cell) uint8 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if !cm.inBounds(c) {
		return NoInformation
	}
	return cm.data[c.Y*cm.sizeX+c.X]
}

// SetCost sets the cost of a single cell.
func (cm *Costmap) SetCost(c Cell, cost uint8) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if !cm.inBounds(c) {
		return errors.Errorf("cell %v outside %dx%d costmap", c, cm.sizeX, cm.sizeY)
	}
	cm.data[c.Y*cm.sizeX+c.X] = cost
	return nil
}

// Fill sets every cell to cost.
func (cm *Costmap) Fill(cost uint8) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for i := range cm.data {
		cm.data[i] = cost
	}
}

// Resize changes the grid extent, keeping the costs of cells that remain in bounds. New cells
// are free.
func (cm *Costmap) Resize(sizeX, sizeY int) error {
	if sizeX <= 0 || sizeY <= 0 {
		return errors.Errorf("costmap size must be positive, got %dx%d", sizeX, sizeY)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	data := make([]uint8, sizeX*sizeY)
	for y := 0; y < sizeY && y < cm.sizeY; y++ {
		for x := 0; x < sizeX && x < cm.sizeX; x++ {
			data[y*sizeX+x] = cm.data[y*cm.sizeX+x]
		}
	}
	cm.sizeX, cm.sizeY, cm.data = sizeX, sizeY, data
	return nil
}

// Inflate marks every traversable cell within radius meters of a lethal cell as
// InscribedInflatedObstacle.
func (cm *Costmap) Inflate(radius float64) {
	cells := int(math.Ceil(radius / cm.resolution))
	if cells <= 0 {
		return
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	var lethal []Cell
	for y := 0; y < cm.sizeY; y++ {
		for x := 0; x < cm.sizeX; x++ {
			if cm.data[y*cm.sizeX+x] == LethalObstacle {
				lethal = append(lethal, Cell{X: x, Y: y})
			}
		}
	}
	limit := radius / cm.resolution
	for _, l := range lethal {
		for dy := -cells; dy <= cells; dy++ {
			for dx := -cells; dx <= cells; dx++ {
				c := Cell{X: l.X + dx, Y: l.Y + dy}
				if !cm.inBounds(c) || math.Hypot(float64(dx), float64(dy)) > limit {
					continue
				}
				if idx := c.Y*cm.sizeX + c.X; cm.data[idx] != LethalObstacle {
					cm.data[idx] = InscribedInflatedObstacle
				}
			}
		}
	}
}

func (cm *Costmap) inBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < cm.sizeX && c.Y < cm.sizeY
}

// StaticSource serves a fixed grid in a fixed frame.
type StaticSource struct {
	Grid  Grid
	Frame string
}

// Costmap returns the grid.
func (s *StaticSource) Costmap() Grid {
	return s.Grid
}

// GlobalFrame returns the frame of the grid.
func (s *StaticSource) GlobalFrame() string {
	return s.Frame
}
