package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// BlockStatistics accumulates the reductions of one reductive processor:
// subscribed sums, averages, maxima and integer sums, plus the number of
// cells that contributed to the averages.
//
// Averages are kept as running sums and divided by the cell count on read,
// so partial statistics combine exactly like sums.
type BlockStatistics struct {
	sums     []float64
	averages []float64
	maxima   []float64
	intSums  []int64
	numCells int64
}

// NewBlockStatistics returns statistics with no subscriptions.
func NewBlockStatistics() *BlockStatistics {
	return &BlockStatistics{}
}

// SubscribeSum adds a sum and returns its handle.
func (s *BlockStatistics) SubscribeSum() int {
	s.sums = append(s.sums, 0)
	return len(s.sums) - 1
}

// SubscribeAverage adds an average and returns its handle.
func (s *BlockStatistics) SubscribeAverage() int {
	s.averages = append(s.averages, 0)
	return len(s.averages) - 1
}

// SubscribeMax adds a maximum and returns its handle.
func (s *BlockStatistics) SubscribeMax() int {
	s.maxima = append(s.maxima, math.Inf(-1))
	return len(s.maxima) - 1
}

// SubscribeIntSum adds an integer sum and returns its handle.
func (s *BlockStatistics) SubscribeIntSum() int {
	s.intSums = append(s.intSums, 0)
	return len(s.intSums) - 1
}

// GatherSum adds v to sum h.
func (s *BlockStatistics) GatherSum(h int, v float64) { s.sums[h] += v }

// GatherAverage adds v to average h.
func (s *BlockStatistics) GatherAverage(h int, v float64) { s.averages[h] += v }

// GatherIntSum adds v to integer sum h.
func (s *BlockStatistics) GatherIntSum(h int, v int64) { s.intSums[h] += v }

// GatherMax raises maximum h to v if v is larger.
func (s *BlockStatistics) GatherMax(h int, v float64) {
	if v > s.maxima[h] {
		s.maxima[h] = v
	}
}

// IncrementCells counts one more cell towards the averages.
func (s *BlockStatistics) IncrementCells() { s.numCells++ }

// Sum returns sum h.
func (s *BlockStatistics) Sum(h int) float64 { return s.sums[h] }

// Max returns maximum h, -Inf when nothing was gathered.
func (s *BlockStatistics) Max(h int) float64 { return s.maxima[h] }

// IntSum returns integer sum h.
func (s *BlockStatistics) IntSum(h int) int64 { return s.intSums[h] }

// NumCells returns the number of cells counted towards the averages.
func (s *BlockStatistics) NumCells() int64 { return s.numCells }

// Average returns the mean of the gathered values, 0 when no cell was counted.
func (s *BlockStatistics) Average(h int) float64 {
	if s.numCells == 0 {
		return 0
	}
	return s.averages[h] / float64(s.numCells)
}

// Fresh returns statistics with the same subscriptions and no data.
func (s *BlockStatistics) Fresh() *BlockStatistics {
	f := &BlockStatistics{
		sums:     make([]float64, len(s.sums)),
		averages: make([]float64, len(s.averages)),
		maxima:   make([]float64, len(s.maxima)),
		intSums:  make([]int64, len(s.intSums)),
	}
	for i := range f.maxima {
		f.maxima[i] = math.Inf(-1)
	}
	return f
}

// Reset clears gathered data and keeps the subscriptions.
func (s *BlockStatistics) Reset() { *s = *s.Fresh() }

func (s *BlockStatistics) sameLayout(o *BlockStatistics) bool {
	return len(s.sums) == len(o.sums) && len(s.averages) == len(o.averages) &&
		len(s.maxima) == len(o.maxima) && len(s.intSums) == len(o.intSums)
}

// Combiner folds the partial statistics of every processor of one reductive
// execution into result, overwriting it.
type Combiner interface {
	Combine(partials []*BlockStatistics, result *BlockStatistics)
}

// SerialCombiner combines partials held in the current process. Values are
// sorted before summation, so every permutation of the partials produces
// bit-identical results.
type SerialCombiner struct{}

// Combine implements Combiner.
func (SerialCombiner) Combine(partials []*BlockStatistics, result *BlockStatistics) {
	for i, p := range partials {
		if !result.sameLayout(p) {
			panic(fmt.Sprintf("sim: partial statistics %d do not match the subscriptions of the result", i))
		}
	}
	column := func(get func(*BlockStatistics) float64) []float64 {
		vals := make([]float64, len(partials))
		for i, p := range partials {
			vals[i] = get(p)
		}
		sort.Float64s(vals)
		return vals
	}
	for h := range result.sums {
		result.sums[h] = floats.Sum(column(func(p *BlockStatistics) float64 { return p.sums[h] }))
	}
	for h := range result.averages {
		result.averages[h] = floats.Sum(column(func(p *BlockStatistics) float64 { return p.averages[h] }))
	}
	for h := range result.maxima {
		result.maxima[h] = math.Inf(-1)
		if len(partials) > 0 {
			result.maxima[h] = floats.Max(column(func(p *BlockStatistics) float64 { return p.maxima[h] }))
		}
	}
	for h := range result.intSums {
		var total int64
		for _, p := range partials {
			total += p.intSums[h]
		}
		result.intSums[h] = total
	}
	var cells int64
	for _, p := range partials {
		cells += p.numCells
	}
	result.numCells = cells
}
