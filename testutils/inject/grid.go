// Package inject provides function-field fakes of the planner's collaborators. Each fake falls
// back to its embedded implementation when a function is left nil.
package inject

import (
	"github.com/golang/geo/r3"

	"github.com/cbrobotics/regionplanner/costmap"
)

// Grid is an injectable costmap.Grid.
type Grid struct {
	costmap.Grid
	SizeXFunc      func() int
	SizeYFunc      func() int
	MapToWorldFunc func(c costmap.Cell) r3.Vector
	WorldToMapFunc func(pt r3.Vector) (costmap.Cell, bool)
	CostAtFunc     func(c costmap.Cell) uint8
}

// SizeX calls the injected SizeX or the real version.
func (g *Grid) SizeX() int {
	if g.SizeXFunc == nil {
		return g.Grid.SizeX()
	}
	return g.SizeXFunc()
}

// SizeY calls the injected SizeY or the real version.
func (g *Grid) SizeY() int {
	if g.SizeYFunc == nil {
		return g.Grid.SizeY()
	}
	return g.SizeYFunc()
}

// MapToWorld calls the injected MapToWorld or the real version.
func (g *Grid) MapToWorld(c costmap.Cell) r3.Vector {
	if g.MapToWorldFunc == nil {
		return g.Grid.MapToWorld(c)
	}
	return g.MapToWorldFunc(c)
}

// WorldToMap calls the injected WorldToMap or the real version.
func (g *Grid) WorldToMap(pt r3.Vector) (costmap.Cell, bool) {
	if g.WorldToMapFunc == nil {
		return g.Grid.WorldToMap(pt)
	}
	return g.WorldToMapFunc(pt)
}

// CostAt calls the injected CostAt or the real version.
func (g *Grid) CostAt(c costmap.Cell) uint8 {
	if g.CostAtFunc == nil {
		return g.Grid.CostAt(c)
	}
	return g.CostAtFunc(c)
}

// CostmapSource is an injectable costmap.Source.
type CostmapSource struct {
	costmap.Source
	CostmapFunc     func() costmap.Grid
	GlobalFrameFunc func() string
}

// Costmap calls the injected Costmap or the real version.
func (s *CostmapSource) Costmap() costmap.Grid {
	if s.CostmapFunc == nil {
		return s.Source.Costmap()
	}
	return s.CostmapFunc()
}

// GlobalFrame calls the injected GlobalFrame or the real version.
func (s *CostmapSource) GlobalFrame() string {
	if s.GlobalFrameFunc == nil {
		return s.Source.GlobalFrame()
	}
	return s.GlobalFrameFunc()
}
