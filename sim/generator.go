package sim

import "github.com/srohmen/palabos/sim/box"

// Processor is a unit of work bound to concrete atomic blocks.
type Processor interface {
	Process()
}

// Generator describes work over one or more grids without being bound to
// any block. The engine clones, shifts and restricts generators until each
// copy fits a single combination of blocks, then asks it to Generate a
// Processor.
type Generator interface {
	// AppliesTo returns the part of each block the work covers.
	AppliesTo() DomainKind
	// ModificationPattern has one entry per participating grid, true when
	// the grid is written.
	ModificationPattern() []bool
	// TypeOfModification has one entry per participating grid.
	TypeOfModification() []Modif
	Clone() Generator
	// Shift translates the generator's domain by d.
	Shift(d box.Dot)
	// Extract restricts the generator to sub. It returns false when nothing
	// remains to be done inside sub; the generator must then be discarded.
	Extract(sub box.Box) bool
	// Generate binds the generator to blocks, one per participating grid,
	// in participation order.
	Generate(blocks []*AtomicBlock) Processor
}

// ReductiveGenerator is a Generator whose processors accumulate
// statistics. Each clone owns its own partial statistics.
type ReductiveGenerator interface {
	Generator
	Statistics() *BlockStatistics
}
