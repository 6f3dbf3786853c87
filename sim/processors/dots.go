package processors

import (
	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// DotFunctional is work on an explicit list of cells.
type DotFunctional interface {
	Process(dots []box.Dot, blocks []*sim.AtomicBlock)
	AppliesTo() sim.DomainKind
	ModificationPattern() []bool
	TypeOfModification() []sim.Modif
	Clone() DotFunctional
}

// DotGenerator turns a DotFunctional and a list of global cells into a
// sim.Generator. Extract keeps the dots inside the sub-domain and fails when
// none are left.
type DotGenerator struct {
	functional DotFunctional
	dots       []box.Dot
}

// NewDotGenerator applies f to dots (global coordinates).
func NewDotGenerator(f DotFunctional, dots []box.Dot) *DotGenerator {
	return &DotGenerator{functional: f, dots: append([]box.Dot(nil), dots...)}
}

// Dots returns the current dots.
func (g *DotGenerator) Dots() []box.Dot { return g.dots }

func (g *DotGenerator) AppliesTo() sim.DomainKind       { return g.functional.AppliesTo() }
func (g *DotGenerator) ModificationPattern() []bool     { return g.functional.ModificationPattern() }
func (g *DotGenerator) TypeOfModification() []sim.Modif { return g.functional.TypeOfModification() }

func (g *DotGenerator) Clone() sim.Generator {
	return &DotGenerator{functional: g.functional.Clone(), dots: append([]box.Dot(nil), g.dots...)}
}

func (g *DotGenerator) Shift(d box.Dot) {
	for i := range g.dots {
		g.dots[i] = g.dots[i].Add(d)
	}
}

func (g *DotGenerator) Extract(sub box.Box) bool {
	var kept []box.Dot
	for _, d := range g.dots {
		if sub.ContainsDot(d) {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return false
	}
	g.dots = kept
	return true
}

func (g *DotGenerator) Generate(blocks []*sim.AtomicBlock) sim.Processor {
	return &dotProcessor{functional: g.functional, dots: g.dots, blocks: blocks}
}

type dotProcessor struct {
	functional DotFunctional
	dots       []box.Dot
	blocks     []*sim.AtomicBlock
}

func (p *dotProcessor) Process() { p.functional.Process(p.dots, p.blocks) }
