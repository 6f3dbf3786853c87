package sim

import (
	"fmt"

	"github.com/srohmen/palabos/sim/box"
)

// Storage holds the cell data of one atomic block in block-local
// coordinates. The engine never looks inside; it only asks storages to copy
// regions between each other when envelopes are refreshed.
type Storage interface {
	// Extent is the number of cells along each axis, envelope included.
	Extent() box.Dot
	// CopyRegion copies srcRegion of src (src-local coordinates) so that its
	// lower corner lands on dstOrigin (local to the receiver).
	CopyRegion(src Storage, srcRegion box.Box, dstOrigin box.Dot)
}

// StorageFactory allocates storage for a block of the given extent.
type StorageFactory func(extent box.Dot) Storage

// ScalarStorage is the StorageFactory for ScalarField.
func ScalarStorage(extent box.Dot) Storage { return NewScalarField(extent) }

// ScalarField is a dense float64 per cell, stored x-major.
type ScalarField struct {
	extent box.Dot
	data   []float64
}

// NewScalarField allocates a zeroed field. A 2D block uses extent z = 1.
func NewScalarField(extent box.Dot) *ScalarField {
	return &ScalarField{
		extent: extent,
		data:   make([]float64, extent[0]*extent[1]*extent[2]),
	}
}

// Extent implements Storage.
func (f *ScalarField) Extent() box.Dot { return f.extent }

func (f *ScalarField) index(d box.Dot) int {
	if !f.Domain().ContainsDot(d) {
		panic(fmt.Sprintf("sim: cell %s outside field of extent %s", d, f.extent))
	}
	return (d[0]*f.extent[1]+d[1])*f.extent[2] + d[2]
}

// At returns the value at local cell d.
func (f *ScalarField) At(d box.Dot) float64 { return f.data[f.index(d)] }

// Set stores v at local cell d.
func (f *ScalarField) Set(d box.Dot, v float64) { f.data[f.index(d)] = v }

// Domain returns the full local box of the field.
func (f *ScalarField) Domain() box.Box {
	return box.Box{Hi: f.extent.Sub(box.Dot{1, 1, 1})}
}

// CopyRegion implements Storage. Mixing storage types is a wiring error.
func (f *ScalarField) CopyRegion(src Storage, srcRegion box.Box, dstOrigin box.Dot) {
	s, ok := src.(*ScalarField)
	if !ok {
		panic(fmt.Sprintf("sim: ScalarField cannot copy from %T", src))
	}
	offset := dstOrigin.Sub(srcRegion.Lo)
	srcRegion.Each(func(d box.Dot) {
		f.Set(d.Add(offset), s.At(d))
	})
}
