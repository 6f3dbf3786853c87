package multiblock

import (
	"fmt"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// Plan is the result of subdividing one generator over a list of grids:
// one retained, block-local generator per piece of work, with the block of
// every grid it must be bound to.
type Plan struct {
	Kind      sim.DomainKind
	Reference int // index of the reference grid

	Generators []sim.Generator // shifted into the local frame of the reference block
	BlockIDs   [][]int         // one id per grid, in grid order
	Shifts     []box.Dot       // periodic image offset applied before extraction
	Domains    []box.Box       // global cells covered, in the frame of the periodic image
}

// domainer is implemented by generators that expose their box domain.
// Plans of other generators record the intersection they were restricted to.
type domainer interface {
	Domain() box.Box
}

// Len returns the number of retained generators.
func (p *Plan) Len() int { return len(p.Generators) }

// Blocks returns the atomic blocks piece i is bound to.
func (p *Plan) Blocks(i int, grids []*Grid) []*sim.AtomicBlock {
	ids := p.BlockIDs[i]
	if len(ids) != len(grids) {
		panic(fmt.Sprintf("multiblock: piece %d has %d block ids for %d grids", i, len(ids), len(grids)))
	}
	blocks := make([]*sim.AtomicBlock, len(grids))
	for k, g := range grids {
		blocks[k] = g.Component(ids[k])
	}
	return blocks
}

// Unit groups the pieces bound to the same combination of blocks.
type Unit struct {
	BlockIDs []int
	Pieces   []int // indices into the plan
}

// Units groups pieces by block combination, in order of first appearance.
func (p *Plan) Units() []Unit {
	index := make(map[string]int)
	var units []Unit
	for i, ids := range p.BlockIDs {
		key := fmt.Sprint(ids)
		u, ok := index[key]
		if !ok {
			u = len(units)
			index[key] = u
			units = append(units, Unit{BlockIDs: ids})
		}
		units[u].Pieces = append(units[u].Pieces, i)
	}
	return units
}

// subdivide runs the intersection engine: extract candidate regions per
// grid, trim read-only grids, join all grids, replicate over periodic
// images, restrict clones of gen to each piece and localize the survivors.
func subdivide(cfg Config, gen sim.Generator, grids []*Grid) *Plan {
	if len(grids) == 0 {
		panic("multiblock: data processor executed on no grids")
	}
	isWritten := gen.ModificationPattern()
	if len(isWritten) != len(grids) {
		panic(fmt.Sprintf("multiblock: generator declares %d participants but %d grids were given", len(isWritten), len(grids)))
	}
	kind := gen.AppliesTo()
	if kind.UsesEnvelope() {
		writers := 0
		for _, w := range isWritten {
			if w {
				writers++
			}
		}
		if writers > 1 {
			panic(fmt.Sprintf("multiblock: %d grids written by a generator applying to %s; at most one is allowed", writers, kind))
		}
	}
	ref := sim.ReferenceIndex(isWritten)
	refGrid := grids[ref]

	lists := make([][]claim, len(grids))
	for i, g := range grids {
		lists[i] = extractDomains(g, kind, i == ref)
		rescale(lists[i], cfg.scaler(), refGrid.Level()-g.Level())
		if kind.UsesEnvelope() && !isWritten[i] {
			lists[i] = nonOverlapping(lists[i])
		}
	}
	pieces := joinAll(cfg.Join, lists)

	plan := &Plan{Kind: kind, Reference: ref}
	shifts := []box.Dot{{}}
	if kind.UsesEnvelope() {
		shifts = refGrid.periodicShifts()
	}
	for _, s := range shifts {
		shifted := gen.Clone()
		shifted.Shift(s)
		for _, p := range pieces {
			g := shifted.Clone()
			if !g.Extract(p.domain) {
				continue
			}
			covered := p.domain
			if d, ok := g.(domainer); ok {
				covered = d.Domain()
			}
			plan.Generators = append(plan.Generators, g)
			plan.BlockIDs = append(plan.BlockIDs, p.ids)
			plan.Shifts = append(plan.Shifts, s)
			plan.Domains = append(plan.Domains, covered)
		}
	}

	// Localize: processors see coordinates relative to the lower corner of
	// bulk+envelope of their block in the reference grid.
	for i, g := range plan.Generators {
		origin := refGrid.BulkAndEnvelope(plan.BlockIDs[i][ref]).Lo
		g.Shift(origin.Neg())
	}
	return plan
}

// gridsWhichRequireUpdate returns the grids gen declares modified, with the
// modification, unless the domain includes the envelope.
func gridsWhichRequireUpdate(gen sim.Generator, grids []*Grid) ([]*Grid, []sim.Modif) {
	var updated []*Grid
	var modifs []sim.Modif
	if gen.AppliesTo().UsesEnvelope() {
		return updated, modifs
	}
	for i, m := range declaredModifications(gen, grids) {
		if m != sim.ModifNothing {
			updated = append(updated, grids[i])
			modifs = append(modifs, m)
		}
	}
	return updated, modifs
}

// declaredModifications validates and returns gen.TypeOfModification().
func declaredModifications(gen sim.Generator, grids []*Grid) []sim.Modif {
	modifs := gen.TypeOfModification()
	if len(modifs) != len(grids) {
		panic(fmt.Sprintf("multiblock: generator declares %d modifications for %d grids", len(modifs), len(grids)))
	}
	for i, m := range modifs {
		if m == sim.ModifUndefined {
			panic(fmt.Sprintf("multiblock: generator leaves the modification of grid %d (%s) undefined", i, grids[i].Name()))
		}
	}
	return modifs
}
