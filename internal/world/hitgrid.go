package world

import (
	"math"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
)

// hitGrid buckets live enemies into square cells so projectile hit tests only
// look at nearby enemies. Rebuilt once per step from the enemy pool.
// Accessed only from the simulation goroutine, no locks.

const hitCellSize = 64.0

type cellKey struct {
	cx int32
	cy int32
}

func toCellCoord(v float64) int32 {
	return int32(math.Floor(v / hitCellSize))
}

type hitGrid struct {
	cells map[cellKey][]handle.ID // insertion order = pool order
	reach int32                   // neighbourhood radius in cells
}

func newHitGrid() *hitGrid {
	return &hitGrid{
		cells: make(map[cellKey][]handle.ID),
		reach: 1,
	}
}

func (g *hitGrid) key(p geom.Vec2) cellKey {
	return cellKey{cx: toCellCoord(p.X), cy: toCellCoord(p.Y)}
}

// reset empties every cell but keeps their backing arrays.
func (g *hitGrid) reset() {
	for k, c := range g.cells {
		g.cells[k] = c[:0]
	}
	g.reach = 1
}

// add places an enemy of hit radius size at p. Enemies larger than a cell
// widen the neighbourhood every query scans.
func (g *hitGrid) add(ref handle.ID, p geom.Vec2, size float64) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], ref)
	if r := int32(math.Ceil(size / hitCellSize)); r > g.reach {
		g.reach = r
	}
}

// nearby calls fn for every enemy in the neighbourhood of p, in a fixed
// order, until fn returns true. Caller does the exact distance check.
func (g *hitGrid) nearby(p geom.Vec2, fn func(ref handle.ID) bool) {
	cx := toCellCoord(p.X)
	cy := toCellCoord(p.Y)
	for dx := -g.reach; dx <= g.reach; dx++ {
		for dy := -g.reach; dy <= g.reach; dy++ {
			for _, ref := range g.cells[cellKey{cx: cx + dx, cy: cy + dy}] {
				if fn(ref) {
					return
				}
			}
		}
	}
}
