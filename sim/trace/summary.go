package trace

// TraceSummary aggregates statistics from an ExtractionTrace.
type TraceSummary struct {
	TotalCalls        int
	TotalPieces       int
	WrappedPieces     int
	TotalCells        int
	UniqueBlockTuples int
	BlockDistribution map[string]int // block ids → pieces bound to them
	ModeDistribution  map[Mode]int
}

// Summarize computes aggregate statistics from an ExtractionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(et *ExtractionTrace) *TraceSummary {
	summary := &TraceSummary{
		BlockDistribution: make(map[string]int),
		ModeDistribution:  make(map[Mode]int),
	}
	if et == nil {
		return summary
	}

	summary.TotalCalls = et.calls
	summary.TotalPieces = len(et.Units)
	for _, u := range et.Units {
		if u.Wrapped() {
			summary.WrappedPieces++
		}
		summary.TotalCells += u.Cells
		summary.BlockDistribution[u.BlockIDs]++
		summary.ModeDistribution[u.Mode]++
	}
	summary.UniqueBlockTuples = len(summary.BlockDistribution)

	return summary
}
