// Package processors provides generators built from functionals, the usual
// way of describing work for the scheduler: a functional says what to do on
// a box of cells, and the generator carries the box through cloning,
// shifting and extraction.
package processors

import (
	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// BoxFunctional is work over a box of cells on one or more blocks. The box
// passed to Process is local to the reference block (see sim.ReferenceIndex);
// use RelativeOffset to reach the same cells in the other blocks.
type BoxFunctional interface {
	Process(domain box.Box, blocks []*sim.AtomicBlock)
	AppliesTo() sim.DomainKind
	ModificationPattern() []bool
	TypeOfModification() []sim.Modif
	Clone() BoxFunctional
}

// BoxGenerator turns a BoxFunctional and a global domain into a sim.Generator.
type BoxGenerator struct {
	functional BoxFunctional
	domain     box.Box
	minExtent  int
}

// NewBoxGenerator applies f to domain (global coordinates).
func NewBoxGenerator(f BoxFunctional, domain box.Box) *BoxGenerator {
	return &BoxGenerator{functional: f, domain: domain}
}

// WithMinExtent makes Extract fail when the restricted domain would be
// thinner than n cells along any axis the domain spans, for stencils that
// cannot run on slivers.
func (g *BoxGenerator) WithMinExtent(n int) *BoxGenerator {
	g.minExtent = n
	return g
}

// Domain returns the current domain.
func (g *BoxGenerator) Domain() box.Box { return g.domain }

// Functional returns the wrapped functional.
func (g *BoxGenerator) Functional() BoxFunctional { return g.functional }

func (g *BoxGenerator) AppliesTo() sim.DomainKind       { return g.functional.AppliesTo() }
func (g *BoxGenerator) ModificationPattern() []bool     { return g.functional.ModificationPattern() }
func (g *BoxGenerator) TypeOfModification() []sim.Modif { return g.functional.TypeOfModification() }
func (g *BoxGenerator) Shift(d box.Dot)                 { g.domain = g.domain.Shift(d) }

func (g *BoxGenerator) Clone() sim.Generator {
	return &BoxGenerator{functional: g.functional.Clone(), domain: g.domain, minExtent: g.minExtent}
}

func (g *BoxGenerator) Extract(sub box.Box) bool {
	d, ok := restrict(g.domain, sub, g.minExtent)
	if ok {
		g.domain = d
	}
	return ok
}

func (g *BoxGenerator) Generate(blocks []*sim.AtomicBlock) sim.Processor {
	return &boxProcessor{functional: g.functional, domain: g.domain, blocks: blocks}
}

type boxProcessor struct {
	functional BoxFunctional
	domain     box.Box
	blocks     []*sim.AtomicBlock
}

func (p *boxProcessor) Process() { p.functional.Process(p.domain, p.blocks) }

// restrict intersects domain with sub and applies the minimum extent.
func restrict(domain, sub box.Box, minExtent int) (box.Box, bool) {
	d, ok := domain.Intersect(sub)
	if !ok {
		return box.Box{}, false
	}
	if minExtent > 1 {
		full, ext := domain.Extent(), d.Extent()
		for a := 0; a < 3; a++ {
			if full[a] > 1 && ext[a] < minExtent {
				return box.Box{}, false
			}
		}
	}
	return d, true
}

// ReductiveBoxFunctional is a BoxFunctional that gathers statistics.
type ReductiveBoxFunctional interface {
	Process(domain box.Box, blocks []*sim.AtomicBlock, stats *sim.BlockStatistics)
	AppliesTo() sim.DomainKind
	ModificationPattern() []bool
	TypeOfModification() []sim.Modif
	// Subscribe registers the reductions the functional gathers.
	Subscribe(stats *sim.BlockStatistics)
	Clone() ReductiveBoxFunctional
}

// ReductiveBoxGenerator turns a ReductiveBoxFunctional into a
// sim.ReductiveGenerator. Clones start with empty statistics of the same
// layout, so every piece gathers its own partial result.
type ReductiveBoxGenerator struct {
	functional ReductiveBoxFunctional
	domain     box.Box
	stats      *sim.BlockStatistics
}

// NewReductiveBoxGenerator applies f to domain (global coordinates).
func NewReductiveBoxGenerator(f ReductiveBoxFunctional, domain box.Box) *ReductiveBoxGenerator {
	stats := sim.NewBlockStatistics()
	f.Subscribe(stats)
	return &ReductiveBoxGenerator{functional: f, domain: domain, stats: stats}
}

func (g *ReductiveBoxGenerator) Domain() box.Box                  { return g.domain }
func (g *ReductiveBoxGenerator) Statistics() *sim.BlockStatistics { return g.stats }
func (g *ReductiveBoxGenerator) AppliesTo() sim.DomainKind        { return g.functional.AppliesTo() }
func (g *ReductiveBoxGenerator) ModificationPattern() []bool      { return g.functional.ModificationPattern() }
func (g *ReductiveBoxGenerator) TypeOfModification() []sim.Modif  { return g.functional.TypeOfModification() }
func (g *ReductiveBoxGenerator) Shift(d box.Dot)                  { g.domain = g.domain.Shift(d) }

func (g *ReductiveBoxGenerator) Clone() sim.Generator {
	return &ReductiveBoxGenerator{functional: g.functional.Clone(), domain: g.domain, stats: g.stats.Fresh()}
}

func (g *ReductiveBoxGenerator) Extract(sub box.Box) bool {
	d, ok := restrict(g.domain, sub, 0)
	if ok {
		g.domain = d
	}
	return ok
}

func (g *ReductiveBoxGenerator) Generate(blocks []*sim.AtomicBlock) sim.Processor {
	return &reductiveBoxProcessor{functional: g.functional, domain: g.domain, blocks: blocks, stats: g.stats}
}

type reductiveBoxProcessor struct {
	functional ReductiveBoxFunctional
	domain     box.Box
	blocks     []*sim.AtomicBlock
	stats      *sim.BlockStatistics
}

func (p *reductiveBoxProcessor) Process() { p.functional.Process(p.domain, p.blocks, p.stats) }

// RelativeOffset returns what to add to a coordinate local to from to get
// the coordinate of the same global cell local to to.
func RelativeOffset(from, to *sim.AtomicBlock) box.Dot {
	return from.Location().Sub(to.Location())
}
