// Package gridsearch finds cost-weighted shortest paths on an 8-connected costmap from a start
// cell to the nearest of a set of goal cells.
package gridsearch

import (
	"container/heap"
	"math"

	"github.com/samber/lo"

	"github.com/cbrobotics/regionplanner/costmap"
	"github.com/cbrobotics/regionplanner/logging"
)

// DefaultCostWeight scales cell costs into step penalties.
const DefaultCostWeight = 0.01

// Path is a sequence of cells ordered from start to goal. An empty path means no route exists.
type Path []costmap.Cell

// Options tunes the search.
type Options struct {
	// CostWeight turns a cell cost c into the multiplier (1 + CostWeight*c) on the length of
	// the step entering that cell.
	CostWeight float64 `json:"cost_weight"`
}

// NewDefaultOptions returns the default search options.
func NewDefaultOptions() Options {
	return Options{CostWeight: DefaultCostWeight}
}

var neighbors = [8]struct {
	dx, dy int
	length float64
}{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// Search runs A* over a costmap. Its scratch buffers are reused between calls and resized when
// the grid dimensions change; the grid itself is never retained. A Search is not safe for
// concurrent use.
type Search struct {
	opts   Options
	logger logging.Logger

	sizeX, sizeY int
	g            []float64
	parent       []int
	closed       []bool
	isGoal       []bool
	open         frontier
	seq          uint64
}

// NewSearch returns a Search with the given options.
func NewSearch(opts Options, logger logging.Logger) *Search {
	return &Search{opts: opts, logger: logger}
}

// Options returns the options the search was built with.
func (s *Search) Options() Options {
	return s.opts
}

// Plan returns the cheapest path from start to whichever goal is reached first, or an empty
// path when the start is blocked or off-grid, no goal is usable, or the goals are unreachable.
// reversed only labels the search in logs.
func (s *Search) Plan(goals []costmap.Cell, start costmap.Cell, grid costmap.Grid, reversed bool) Path {
	s.reset(grid.SizeX(), grid.SizeY())

	if !s.inBounds(start) || costmap.IsObstacle(grid.CostAt(start)) {
		s.logger.Debugw("search start unusable", "start", start, "reversed", reversed)
		return nil
	}

	usable := lo.Filter(lo.Uniq(goals), func(c costmap.Cell, _ int) bool {
		return s.inBounds(c) && !costmap.IsObstacle(grid.CostAt(c))
	})
	if len(usable) == 0 {
		s.logger.Debugw("no usable goals", "goals", len(goals), "reversed", reversed)
		return nil
	}
	for _, c := range usable {
		s.isGoal[s.index(c)] = true
	}

	startIdx := s.index(start)
	s.g[startIdx] = 0
	s.push(startIdx, 0, heuristic(start, usable))

	expanded := 0
	for s.open.Len() > 0 {
		n := heap.Pop(&s.open).(node)
		if s.closed[n.idx] || n.g > s.g[n.idx] {
			continue
		}
		s.closed[n.idx] = true
		expanded++

		if s.isGoal[n.idx] {
			path := s.reconstruct(n.idx)
			s.logger.Debugw("search reached goal",
				"goal", path[len(path)-1], "cells", len(path), "cost", n.g, "expanded", expanded, "reversed", reversed)
			return path
		}

		cur := s.cell(n.idx)
		for _, nb := range neighbors {
			next := costmap.Cell{X: cur.X + nb.dx, Y: cur.Y + nb.dy}
			if !s.inBounds(next) {
				continue
			}
			nextIdx := s.index(next)
			if s.closed[nextIdx] {
				continue
			}
			cost := grid.CostAt(next)
			if costmap.IsObstacle(cost) {
				continue
			}
			g := n.g + nb.length*(1+s.opts.CostWeight*float64(cost))
			if g < s.g[nextIdx] {
				s.g[nextIdx] = g
				s.parent[nextIdx] = n.idx
				s.push(nextIdx, g, heuristic(next, usable))
			}
		}
	}
	s.logger.Debugw("search exhausted frontier", "expanded", expanded, "reversed", reversed)
	return nil
}

func (s *Search) reset(sizeX, sizeY int) {
	n := sizeX * sizeY
	if sizeX != s.sizeX || sizeY != s.sizeY {
		s.sizeX, s.sizeY = sizeX, sizeY
		s.g = make([]float64, n)
		s.parent = make([]int, n)
		s.closed = make([]bool, n)
		s.isGoal = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		s.g[i] = math.Inf(1)
		s.parent[i] = -1
		s.closed[i] = false
		s.isGoal[i] = false
	}
	s.open = s.open[:0]
	s.seq = 0
}

func (s *Search) push(idx int, g, h float64) {
	heap.Push(&s.open, node{idx: idx, g: g, h: h, f: g + h, seq: s.seq})
	s.seq++
}

func (s *Search) reconstruct(goalIdx int) Path {
	var path Path
	for idx := goalIdx; idx != -1; idx = s.parent[idx] {
		path = append(path, s.cell(idx))
	}
	return lo.Reverse(path)
}

func (s *Search) inBounds(c costmap.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.sizeX && c.Y < s.sizeY
}

func (s *Search) index(c costmap.Cell) int {
	return c.Y*s.sizeX + c.X
}

func (s *Search) cell(idx int) costmap.Cell {
	return costmap.Cell{X: idx % s.sizeX, Y: idx / s.sizeX}
}

// heuristic is the octile distance to the closest goal, which never overestimates because
// every step costs at least its length.
func heuristic(c costmap.Cell, goals []costmap.Cell) float64 {
	best := math.Inf(1)
	for _, goal := range goals {
		if d := Octile(c, goal); d < best {
			best = d
		}
	}
	return best
}

// Octile is the length of the shortest 8-connected route between two cells on a free grid.
func Octile(a, b costmap.Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// PathCost is the weighted cost the search assigns to path. Every step costs its length times
// (1 + costWeight * cost of the entered cell).
func PathCost(path Path, grid costmap.Grid, costWeight float64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		dx, dy := path[i].X-path[i-1].X, path[i].Y-path[i-1].Y
		length := 1.0
		if dx != 0 && dy != 0 {
			length = math.Sqrt2
		}
		total += length * (1 + costWeight*float64(grid.CostAt(path[i])))
	}
	return total
}
