package multiblock

import (
	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// claim is a candidate region together with the block that owns the data.
type claim struct {
	domain box.Box
	id     int
}

// extractDomains lists the candidate regions of every block of g, in
// ascending block id order. For an envelope-only domain the reference grid
// contributes the ghost layer pieces of each block while the other grids
// contribute their full bulk+envelope, since any of their cells may serve as
// data for the reference ghost cells.
func extractDomains(g *Grid, kind sim.DomainKind, isReference bool) []claim {
	var out []claim
	for _, id := range g.BlockIDs() {
		bulk := g.Bulk(id)
		switch kind {
		case sim.Bulk:
			out = append(out, claim{bulk, id})
		case sim.BulkAndEnvelope:
			out = append(out, claim{g.BulkAndEnvelope(id), id})
		case sim.Envelope:
			env := g.BulkAndEnvelope(id)
			if !isReference {
				out = append(out, claim{env, id})
				continue
			}
			for _, piece := range env.Except(bulk) {
				out = append(out, claim{piece, id})
			}
		}
	}
	return out
}

// rescale maps claims into the index space of a grid levelDelta levels finer.
func rescale(claims []claim, s box.Scaler, levelDelta int) {
	if levelDelta == 0 {
		return
	}
	for i := range claims {
		claims[i].domain = s.ScaleBox(claims[i].domain, levelDelta)
	}
}

// nonOverlapping trims claims so that no cell is claimed twice: each claim
// keeps what earlier claims left over. The input order decides who wins a
// contested cell, so callers pass claims in ascending block id order.
func nonOverlapping(claims []claim) []claim {
	var accepted []claim
	for _, c := range claims {
		pieces := []box.Box{c.domain}
		for _, a := range accepted {
			var next []box.Box
			for _, p := range pieces {
				next = append(next, p.Except(a.domain)...)
			}
			pieces = next
			if len(pieces) == 0 {
				break
			}
		}
		for _, p := range pieces {
			accepted = append(accepted, claim{p, c.id})
		}
	}
	return accepted
}
