package multiblock

import (
	"fmt"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// Value returns the scalar stored at global cell d by the block owning it.
func (g *Grid) Value(d box.Dot) float64 {
	b := g.owner(d)
	return b.Field().At(d.Sub(b.Location()))
}

// SetValue stores v at global cell d in the block owning it. Envelopes are
// not refreshed.
func (g *Grid) SetValue(d box.Dot, v float64) {
	b := g.owner(d)
	b.Field().Set(d.Sub(b.Location()), v)
}

// Snapshot returns the bulk values of the whole grid in x-major order over
// the bounding box. Two grids with the same bounding box but different
// layouts produce comparable snapshots.
func (g *Grid) Snapshot() []float64 {
	bb := g.BoundingBox()
	ext := bb.Extent()
	out := make([]float64, bb.Volume())
	for _, id := range g.ids {
		b := g.blocks[id]
		f := b.Field()
		loc := b.Location()
		b.Bulk().Each(func(d box.Dot) {
			r := d.Sub(bb.Lo)
			out[(r[0]*ext[1]+r[1])*ext[2]+r[2]] = f.At(d.Sub(loc))
		})
	}
	return out
}

func (g *Grid) owner(d box.Dot) *sim.AtomicBlock {
	for _, id := range g.ids {
		if b := g.blocks[id]; b.Bulk().ContainsDot(d) {
			return b
		}
	}
	panic(fmt.Sprintf("multiblock: cell %s is outside grid %s", d, g.name))
}
