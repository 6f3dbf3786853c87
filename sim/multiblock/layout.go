package multiblock

import (
	"fmt"
	"math/rand"

	"github.com/srohmen/palabos/sim/box"
)

// Layout describes how a bounding box is tiled into block bulks. Block ids
// are the indices into Bulks.
type Layout struct {
	Bounding box.Box
	Bulks    []box.Box
	Envelope int // ghost layer width shared by every block
	Dims     int // 2 or 3; 2D boxes are flat in z
}

// Validate checks that the bulks tile the bounding box exactly.
func (l Layout) Validate() error {
	if l.Dims != 2 && l.Dims != 3 {
		return fmt.Errorf("layout dims must be 2 or 3, got %d", l.Dims)
	}
	if l.Envelope < 0 {
		return fmt.Errorf("layout envelope must be >= 0, got %d", l.Envelope)
	}
	if l.Bounding.Empty() {
		return fmt.Errorf("layout bounding box %s is empty", l.Bounding)
	}
	if len(l.Bulks) == 0 {
		return fmt.Errorf("layout has no blocks")
	}
	if l.Dims == 2 && (l.Bounding.Lo[2] != 0 || l.Bounding.Hi[2] != 0) {
		return fmt.Errorf("2D layout bounding box %s must be flat in z", l.Bounding)
	}
	total := 0
	for i, b := range l.Bulks {
		if b.Empty() {
			return fmt.Errorf("block %d has an empty bulk", i)
		}
		if !l.Bounding.Contains(b) {
			return fmt.Errorf("block %d bulk %s escapes bounding box %s", i, b, l.Bounding)
		}
		for j := 0; j < i; j++ {
			if b.Intersects(l.Bulks[j]) {
				return fmt.Errorf("blocks %d and %d overlap: %s and %s", j, i, l.Bulks[j], b)
			}
		}
		total += b.Volume()
	}
	if total != l.Bounding.Volume() {
		return fmt.Errorf("blocks cover %d cells, bounding box has %d", total, l.Bounding.Volume())
	}
	return nil
}

// RegularLayout cuts every axis of bounding into counts[a] slabs of nearly
// equal width. counts[2] is ignored in 2D.
func RegularLayout(bounding box.Box, dims int, counts [3]int, envelope int) (Layout, error) {
	if dims == 2 {
		counts[2] = 1
	}
	ext := bounding.Extent()
	var cuts [3][]int
	for a := 0; a < 3; a++ {
		k := counts[a]
		if k < 1 || k > ext[a] {
			return Layout{}, fmt.Errorf("cannot split axis %d of extent %d into %d blocks", a, ext[a], k)
		}
		for i := 0; i <= k; i++ {
			cuts[a] = append(cuts[a], bounding.Lo[a]+i*ext[a]/k)
		}
	}
	l := Layout{Bounding: bounding, Envelope: envelope, Dims: dims}
	for ix := 0; ix < counts[0]; ix++ {
		for iy := 0; iy < counts[1]; iy++ {
			for iz := 0; iz < counts[2]; iz++ {
				l.Bulks = append(l.Bulks, box.Box{
					Lo: box.Dot{cuts[0][ix], cuts[1][iy], cuts[2][iz]},
					Hi: box.Dot{cuts[0][ix+1] - 1, cuts[1][iy+1] - 1, cuts[2][iz+1] - 1},
				})
			}
		}
	}
	return l, l.Validate()
}

// RandomLayout bisects bounding until it holds n blocks: the largest
// splittable block is cut along its longest axis at a position drawn from
// rng. The same rng state always yields the same layout.
func RandomLayout(rng *rand.Rand, bounding box.Box, dims, n, envelope int) (Layout, error) {
	bulks := []box.Box{bounding}
	for len(bulks) < n {
		best := -1
		for i, b := range bulks {
			if longestAxis(b, dims) < 0 {
				continue
			}
			if best < 0 || b.Volume() > bulks[best].Volume() {
				best = i
			}
		}
		if best < 0 {
			return Layout{}, fmt.Errorf("cannot split %s into %d blocks", bounding, n)
		}
		b := bulks[best]
		a := longestAxis(b, dims)
		cut := b.Lo[a] + 1 + rng.Intn(b.Extent()[a]-1)
		lower, upper := b, b
		lower.Hi[a] = cut - 1
		upper.Lo[a] = cut
		bulks[best] = lower
		bulks = append(bulks, upper)
	}
	l := Layout{Bounding: bounding, Bulks: bulks, Envelope: envelope, Dims: dims}
	return l, l.Validate()
}

// longestAxis returns the longest axis of extent >= 2, or -1.
func longestAxis(b box.Box, dims int) int {
	best := -1
	ext := b.Extent()
	for a := 0; a < dims; a++ {
		if ext[a] >= 2 && (best < 0 || ext[a] > ext[best]) {
			best = a
		}
	}
	return best
}
