package sim

import (
	"fmt"

	"github.com/srohmen/palabos/sim/box"
)

// AtomicBlock is one rectangular piece of a distributed grid: the cells it
// owns (bulk), a ghost layer of fixed width around them (envelope), the
// storage for both, and the internal processors bound to it.
//
// Processors address cells in the block's local frame, whose origin is the
// lower corner of bulk+envelope. Location maps that origin back to global
// coordinates for processors that need absolute positions.
type AtomicBlock struct {
	id       int
	bulk     box.Box
	envelope int
	dims     int
	storage  Storage
	internal LevelQueue[Processor]
}

// NewAtomicBlock creates a block owning bulk (global coordinates). dims is 2
// or 3; 2D blocks never grow an envelope along z.
func NewAtomicBlock(id int, bulk box.Box, envelope, dims int, factory StorageFactory) *AtomicBlock {
	if dims != 2 && dims != 3 {
		panic(fmt.Sprintf("sim: block %d has unsupported dimensionality %d", id, dims))
	}
	b := &AtomicBlock{id: id, bulk: bulk, envelope: envelope, dims: dims}
	b.storage = factory(b.BulkAndEnvelope().Extent())
	return b
}

// ID returns the block id within its grid.
func (b *AtomicBlock) ID() int { return b.id }

// Dims returns 2 or 3.
func (b *AtomicBlock) Dims() int { return b.dims }

// Bulk returns the owned cells in global coordinates.
func (b *AtomicBlock) Bulk() box.Box { return b.bulk }

// EnvelopeWidth returns the ghost layer width.
func (b *AtomicBlock) EnvelopeWidth() int { return b.envelope }

// BulkAndEnvelope returns bulk grown by the envelope, in global coordinates.
func (b *AtomicBlock) BulkAndEnvelope() box.Box { return b.bulk.Enlarge(b.envelope, b.dims) }

// Location returns the global coordinate of the local origin.
func (b *AtomicBlock) Location() box.Dot { return b.BulkAndEnvelope().Lo }

// LocalBulk returns the owned cells in local coordinates.
func (b *AtomicBlock) LocalBulk() box.Box { return b.bulk.Shift(b.Location().Neg()) }

// LocalDomain returns bulk+envelope in local coordinates.
func (b *AtomicBlock) LocalDomain() box.Box { return b.BulkAndEnvelope().Shift(b.Location().Neg()) }

// Storage returns the cell storage.
func (b *AtomicBlock) Storage() Storage { return b.storage }

// Field returns the storage as a ScalarField and panics for any other kind.
func (b *AtomicBlock) Field() *ScalarField {
	f, ok := b.storage.(*ScalarField)
	if !ok {
		panic(fmt.Sprintf("sim: block %d stores %T, not a scalar field", b.id, b.storage))
	}
	return f
}

// IntegrateProcessor defers p until level runs on this block.
func (b *AtomicBlock) IntegrateProcessor(p Processor, level int) {
	b.internal.Push(level, p)
}

// InternalLevels returns the levels with at least one processor.
func (b *AtomicBlock) InternalLevels() []int { return b.internal.Levels() }

// NumInternalProcessors returns the number of deferred processors.
func (b *AtomicBlock) NumInternalProcessors() int { return b.internal.Len() }

// ExecuteInternalProcessors runs the processors registered at level in
// registration order.
func (b *AtomicBlock) ExecuteInternalProcessors(level int) {
	for _, p := range b.internal.At(level) {
		p.Process()
	}
}
