// Package testutil provides shared test infrastructure for the scheduler.
// It holds the golden plan dataset and assertion helpers used across the
// sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/srohmen/palabos/sim/box"
)

// GoldenPlans represents the structure of testdata/plan_golden.json.
type GoldenPlans struct {
	Tests []GoldenPlanCase `json:"tests"`
}

// GoldenPlanCase describes one grid, one assign generator, and the plan
// the engine must produce for it.
type GoldenPlanCase struct {
	Name          string       `json:"name"`
	NX            int          `json:"nx"`
	NY            int          `json:"ny"`
	NZ            int          `json:"nz"` // 0 or 1 means 2D
	BlocksX       int          `json:"blocks_x"`
	BlocksY       int          `json:"blocks_y"`
	BlocksZ       int          `json:"blocks_z"`
	Envelope      int          `json:"envelope"`
	PeriodicX     bool         `json:"periodic_x"`
	PeriodicY     bool         `json:"periodic_y"`
	Domain        string       `json:"domain"`         // domain kind name
	EnlargeDomain bool         `json:"enlarge_domain"` // grow the generator domain by the envelope width
	Written       bool         `json:"written"`
	Expected      GoldenCounts `json:"expected"`
}

// GoldenCounts are the exact plan metrics of a golden case.
type GoldenCounts struct {
	Pieces  int `json:"pieces"`
	Units   int `json:"units"`
	Wrapped int `json:"wrapped"`
	Cells   int `json:"cells"`
}

// Dims returns 2 or 3.
func (c GoldenPlanCase) Dims() int {
	if c.NZ > 1 {
		return 3
	}
	return 2
}

// Bounding returns the grid bounding box anchored at the origin.
func (c GoldenPlanCase) Bounding() box.Box {
	if c.Dims() == 3 {
		return box.New3D(0, c.NX-1, 0, c.NY-1, 0, c.NZ-1)
	}
	return box.New2D(0, c.NX-1, 0, c.NY-1)
}

// LoadGoldenPlans loads the golden plan dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenPlans(t *testing.T) *GoldenPlans {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "plan_golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden plans: %v", err)
	}

	var plans GoldenPlans
	if err := json.Unmarshal(data, &plans); err != nil {
		t.Fatalf("Failed to parse golden plans: %v", err)
	}

	return &plans
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// Wave is a deterministic, non-trivial initial field for partition tests.
func Wave(d box.Dot) float64 {
	return math.Sin(0.3*float64(d[0])) + math.Cos(0.7*float64(d[1])) + 0.1*float64(d[2]) + 0.01*float64((7*d[0]+13*d[1])%11)
}
