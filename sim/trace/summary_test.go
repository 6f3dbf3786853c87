package trace

import (
	"testing"
)

func TestSummarize_NilTrace_ReturnsZeroSummary(t *testing.T) {
	s := Summarize(nil)
	if s.TotalPieces != 0 || s.TotalCalls != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if s.BlockDistribution == nil {
		t.Error("expected non-nil distribution map")
	}
}

func TestSummarize_CountsPiecesCellsAndWraps(t *testing.T) {
	// GIVEN two calls with three pieces, one from a periodic image
	et := NewExtractionTrace(TraceConfig{Level: LevelUnits})
	c0 := et.BeginCall()
	et.RecordUnit(UnitRecord{Call: c0, Mode: ModeExecute, BlockIDs: "0", Cells: 10})
	et.RecordUnit(UnitRecord{Call: c0, Mode: ModeExecute, BlockIDs: "0", Cells: 4, ShiftX: 20})
	c1 := et.BeginCall()
	et.RecordUnit(UnitRecord{Call: c1, Mode: ModeInternal, BlockIDs: "1", Cells: 6})

	// WHEN summarized
	s := Summarize(et)

	// THEN totals and distributions match the records
	if s.TotalCalls != 2 {
		t.Errorf("TotalCalls = %d, want 2", s.TotalCalls)
	}
	if s.TotalPieces != 3 {
		t.Errorf("TotalPieces = %d, want 3", s.TotalPieces)
	}
	if s.WrappedPieces != 1 {
		t.Errorf("WrappedPieces = %d, want 1", s.WrappedPieces)
	}
	if s.TotalCells != 20 {
		t.Errorf("TotalCells = %d, want 20", s.TotalCells)
	}
	if s.UniqueBlockTuples != 2 || s.BlockDistribution["0"] != 2 {
		t.Errorf("unexpected block distribution %v", s.BlockDistribution)
	}
	if s.ModeDistribution[ModeInternal] != 1 {
		t.Errorf("unexpected mode distribution %v", s.ModeDistribution)
	}
}
