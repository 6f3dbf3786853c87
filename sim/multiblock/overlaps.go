package multiblock

import (
	"github.com/sirupsen/logrus"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// overlap is one envelope region of dst that mirrors bulk cells of src.
type overlap struct {
	src, dst  int
	srcRegion box.Box // src-local
	dstOrigin box.Dot // dst-local lower corner
}

// communicationPattern lists every envelope region that another block (or a
// periodic image of any block) owns. Regions outside the bounding box on
// non-periodic axes have no owner and are left alone.
func (g *Grid) communicationPattern() []overlap {
	if g.pattern != nil {
		return g.pattern
	}
	shifts := g.periodicShifts()
	pattern := make([]overlap, 0)
	for _, dst := range g.ids {
		dstBlock := g.blocks[dst]
		env := dstBlock.BulkAndEnvelope()
		for _, s := range shifts {
			for _, src := range g.ids {
				if src == dst && s.IsZero() {
					continue
				}
				srcBlock := g.blocks[src]
				region, ok := env.Intersect(srcBlock.Bulk().Shift(s))
				if !ok {
					continue
				}
				pattern = append(pattern, overlap{
					src:       src,
					dst:       dst,
					srcRegion: region.Shift(s.Neg()).Shift(srcBlock.Location().Neg()),
					dstOrigin: region.Lo.Sub(dstBlock.Location()),
				})
			}
		}
	}
	g.pattern = pattern
	return pattern
}

// DuplicateOverlaps copies neighbouring bulk data into every envelope so
// that ghost cells agree with their owners again. ModifNothing is a no-op.
func (g *Grid) DuplicateOverlaps(m sim.Modif) {
	if m == sim.ModifNothing {
		return
	}
	pattern := g.communicationPattern()
	for _, o := range pattern {
		g.blocks[o.dst].Storage().CopyRegion(g.blocks[o.src].Storage(), o.srcRegion, o.dstOrigin)
	}
	logrus.Debugf("[grid %s] refreshed %d envelope regions after %s modification", g.name, len(pattern), m)
}
