package processors

import (
	"fmt"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// AssignFunctional writes a constant into one scalar grid.
type AssignFunctional struct {
	Value float64
	Kind  sim.DomainKind
}

func (f AssignFunctional) Process(domain box.Box, blocks []*sim.AtomicBlock) {
	field := blocks[0].Field()
	domain.Each(func(d box.Dot) { field.Set(d, f.Value) })
}

func (f AssignFunctional) AppliesTo() sim.DomainKind       { return f.Kind }
func (f AssignFunctional) ModificationPattern() []bool     { return []bool{true} }
func (f AssignFunctional) TypeOfModification() []sim.Modif { return []sim.Modif{sim.ModifFor(f.Kind)} }
func (f AssignFunctional) Clone() BoxFunctional            { return f }

// InitializeFunctional writes F(global cell) into the bulk of one scalar grid.
type InitializeFunctional struct {
	F func(global box.Dot) float64
}

func (f InitializeFunctional) Process(domain box.Box, blocks []*sim.AtomicBlock) {
	field := blocks[0].Field()
	loc := blocks[0].Location()
	domain.Each(func(d box.Dot) { field.Set(d, f.F(d.Add(loc))) })
}

func (f InitializeFunctional) AppliesTo() sim.DomainKind       { return sim.Bulk }
func (f InitializeFunctional) ModificationPattern() []bool     { return []bool{true} }
func (f InitializeFunctional) TypeOfModification() []sim.Modif { return []sim.Modif{sim.ModifBulk} }
func (f InitializeFunctional) Clone() BoxFunctional            { return f }

// CopyFunctional copies the bulk of blocks[0] into blocks[1].
type CopyFunctional struct{}

func (CopyFunctional) Process(domain box.Box, blocks []*sim.AtomicBlock) {
	src, dst := blocks[0], blocks[1]
	off := RelativeOffset(dst, src)
	sf, df := src.Field(), dst.Field()
	domain.Each(func(d box.Dot) { df.Set(d, sf.At(d.Add(off))) })
}

func (CopyFunctional) AppliesTo() sim.DomainKind   { return sim.Bulk }
func (CopyFunctional) ModificationPattern() []bool { return []bool{false, true} }
func (CopyFunctional) TypeOfModification() []sim.Modif {
	return []sim.Modif{sim.ModifNothing, sim.ModifBulk}
}
func (f CopyFunctional) Clone() BoxFunctional { return f }

// DiffusionFunctional performs one explicit diffusion step from blocks[0]
// into blocks[1]: u + Alpha*(sum of axis neighbours - 2*dims*u). The
// neighbours are read from the source envelope, which must be at least one
// cell wide and up to date.
type DiffusionFunctional struct {
	Alpha float64
}

func (f DiffusionFunctional) Process(domain box.Box, blocks []*sim.AtomicBlock) {
	src, dst := blocks[0], blocks[1]
	if src.EnvelopeWidth() < 1 {
		panic(fmt.Sprintf("processors: diffusion needs an envelope on source block %d", src.ID()))
	}
	off := RelativeOffset(dst, src)
	sf, df := src.Field(), dst.Field()
	dims := src.Dims()
	domain.Each(func(d box.Dot) {
		s := d.Add(off)
		u := sf.At(s)
		var lap float64
		for a := 0; a < dims; a++ {
			lo, hi := s, s
			lo[a]--
			hi[a]++
			lap += sf.At(lo) + sf.At(hi)
		}
		lap -= float64(2*dims) * u
		df.Set(d, u+f.Alpha*lap)
	})
}

func (DiffusionFunctional) AppliesTo() sim.DomainKind   { return sim.Bulk }
func (DiffusionFunctional) ModificationPattern() []bool { return []bool{false, true} }
func (DiffusionFunctional) TypeOfModification() []sim.Modif {
	return []sim.Modif{sim.ModifNothing, sim.ModifBulk}
}
func (f DiffusionFunctional) Clone() BoxFunctional { return f }

// PokeFunctional writes Value at a list of cells of one scalar grid.
type PokeFunctional struct {
	Value float64
}

func (f PokeFunctional) Process(dots []box.Dot, blocks []*sim.AtomicBlock) {
	field := blocks[0].Field()
	for _, d := range dots {
		field.Set(d, f.Value)
	}
}

func (f PokeFunctional) AppliesTo() sim.DomainKind       { return sim.Bulk }
func (f PokeFunctional) ModificationPattern() []bool     { return []bool{true} }
func (f PokeFunctional) TypeOfModification() []sim.Modif { return []sim.Modif{sim.ModifBulk} }
func (f PokeFunctional) Clone() DotFunctional            { return f }

// SumFunctional reduces one scalar grid to its sum, maximum, average and
// cell count.
type SumFunctional struct {
	sum, avg, max, cells int
}

// NewSumFunctional returns a SumFunctional ready to be wrapped in a
// ReductiveBoxGenerator.
func NewSumFunctional() *SumFunctional { return &SumFunctional{} }

func (f *SumFunctional) Subscribe(stats *sim.BlockStatistics) {
	f.sum = stats.SubscribeSum()
	f.avg = stats.SubscribeAverage()
	f.max = stats.SubscribeMax()
	f.cells = stats.SubscribeIntSum()
}

func (f *SumFunctional) Process(domain box.Box, blocks []*sim.AtomicBlock, stats *sim.BlockStatistics) {
	field := blocks[0].Field()
	domain.Each(func(d box.Dot) {
		v := field.At(d)
		stats.GatherSum(f.sum, v)
		stats.GatherAverage(f.avg, v)
		stats.GatherMax(f.max, v)
		stats.GatherIntSum(f.cells, 1)
		stats.IncrementCells()
	})
}

func (f *SumFunctional) AppliesTo() sim.DomainKind       { return sim.Bulk }
func (f *SumFunctional) ModificationPattern() []bool     { return []bool{false} }
func (f *SumFunctional) TypeOfModification() []sim.Modif { return []sim.Modif{sim.ModifNothing} }

func (f *SumFunctional) Clone() ReductiveBoxFunctional {
	c := *f
	return &c
}

func (f *SumFunctional) Sum(s *sim.BlockStatistics) float64     { return s.Sum(f.sum) }
func (f *SumFunctional) Average(s *sim.BlockStatistics) float64 { return s.Average(f.avg) }
func (f *SumFunctional) Max(s *sim.BlockStatistics) float64     { return s.Max(f.max) }
func (f *SumFunctional) Cells(s *sim.BlockStatistics) int64     { return s.IntSum(f.cells) }
