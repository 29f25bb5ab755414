package drc

import (
	"math"
)

const (
	// indexCellSize is the uniform grid pitch in board length units (mm for
	// metric boards).
	indexCellSize = 10.0

	// indexThreshold is the object count above which the grid is built.
	// Below it, brute-force pairing is cheaper than the bookkeeping.
	indexThreshold = 100
)

type cellKey struct {
	X, Y int
}

// spatialIndex is a uniform grid over the board extent. Built once per run
// from the arena and discarded at run end; pairwise checkers only compare
// objects from the same or adjacent cells.
type spatialIndex struct {
	cells map[cellKey][]int // Arena indices per cell
}

// buildIndex buckets every arena object into the grid cells its bounds
// overlap. Returns nil below the size threshold; callers fall back to
// scanning all objects.
func buildIndex(arena []object) *spatialIndex {
	if len(arena) <= indexThreshold {
		return nil
	}

	idx := &spatialIndex{cells: make(map[cellKey][]int)}
	for i := range arena {
		b := arena[i].Bounds
		x0 := int(math.Floor(b.X / indexCellSize))
		y0 := int(math.Floor(b.Y / indexCellSize))
		x1 := int(math.Floor((b.X + b.Width) / indexCellSize))
		y1 := int(math.Floor((b.Y + b.Height) / indexCellSize))
		for cx := x0; cx <= x1; cx++ {
			for cy := y0; cy <= y1; cy++ {
				k := cellKey{X: cx, Y: cy}
				idx.cells[k] = append(idx.cells[k], i)
			}
		}
	}
	return idx
}

// candidates returns the arena indices found in the cells covered by the
// object's bounds plus one ring of adjacent cells. The same index can appear
// more than once; callers filter with an ordering test anyway.
func (idx *spatialIndex) candidates(o *object, out []int) []int {
	b := o.Bounds
	x0 := int(math.Floor(b.X/indexCellSize)) - 1
	y0 := int(math.Floor(b.Y/indexCellSize)) - 1
	x1 := int(math.Floor((b.X+b.Width)/indexCellSize)) + 1
	y1 := int(math.Floor((b.Y+b.Height)/indexCellSize)) + 1

	out = out[:0]
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			out = append(out, idx.cells[cellKey{X: cx, Y: cy}]...)
		}
	}
	return out
}

// pairCandidates yields each unordered candidate pair (i, j) with i < j
// exactly once, via the index when present or all pairs otherwise.
func pairCandidates(arena []object, idx *spatialIndex, visit func(i, j int)) {
	if idx == nil {
		for i := 0; i < len(arena); i++ {
			for j := i + 1; j < len(arena); j++ {
				visit(i, j)
			}
		}
		return
	}

	var buf []int
	for i := range arena {
		buf = idx.candidates(&arena[i], buf)
		seen := make(map[int]bool, len(buf))
		for _, j := range buf {
			if j <= i || seen[j] {
				continue
			}
			seen[j] = true
			visit(i, j)
		}
	}
}
