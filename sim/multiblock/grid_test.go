package multiblock

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
	"github.com/srohmen/palabos/sim/internal/testutil"
	"github.com/srohmen/palabos/sim/processors"
)

func fillLinear(g *Grid) {
	g.BoundingBox().Each(func(d box.Dot) { g.SetValue(d, float64(100*d[0]+d[1])) })
}

func TestDuplicateOverlaps_CopiesNeighbourBulk(t *testing.T) {
	// GIVEN two blocks with distinct bulk values and empty envelopes
	g := twoBlockGrid(t)
	fillLinear(g)
	left, right := g.Component(0), g.Component(1)

	// WHEN overlaps are duplicated
	g.DuplicateOverlaps(sim.ModifBulk)

	// THEN each envelope mirrors the neighbour's bulk
	for y := 0; y <= 9; y++ {
		assert.Equal(t, float64(1000+y), left.Field().At(box.Dot2D(10, y).Sub(left.Location())))
		assert.Equal(t, float64(900+y), right.Field().At(box.Dot2D(9, y).Sub(right.Location())))
	}
	// THEN ghost cells outside a non-periodic domain are untouched
	assert.Equal(t, 0.0, left.Field().At(box.Dot2D(-1, 3).Sub(left.Location())))
	assert.Equal(t, 0.0, left.Field().At(box.Dot2D(10, -1).Sub(left.Location())))
}

func TestDuplicateOverlaps_PeriodicImages(t *testing.T) {
	g := twoBlockGrid(t)
	fillLinear(g)
	g.DuplicateOverlaps(sim.ModifBulk)
	left, right := g.Component(0), g.Component(1)
	require.Equal(t, 0.0, left.Field().At(box.Dot2D(-1, 3).Sub(left.Location())))

	// WHEN x becomes periodic
	g.SetPeriodic(0, true)
	g.DuplicateOverlaps(sim.ModifBulk)

	// THEN the outer envelopes wrap around
	for y := 0; y <= 9; y++ {
		assert.Equal(t, float64(1900+y), left.Field().At(box.Dot2D(-1, y).Sub(left.Location())))
		assert.Equal(t, float64(y), right.Field().At(box.Dot2D(20, y).Sub(right.Location())))
	}
	assert.Equal(t, 0.0, left.Field().At(box.Dot2D(-1, -1).Sub(left.Location())), "y is still not periodic")
}

func TestDuplicateOverlaps_NothingIsNoop(t *testing.T) {
	g := twoBlockGrid(t)
	fillLinear(g)
	g.DuplicateOverlaps(sim.ModifNothing)
	left := g.Component(0)
	assert.Equal(t, 0.0, left.Field().At(box.Dot2D(10, 4).Sub(left.Location())))
}

func TestSetPeriodic_AxisOutOfRangePanics(t *testing.T) {
	g := twoBlockGrid(t)
	assert.Panics(t, func() { g.SetPeriodic(2, true) })
}

// diffusionPipeline registers a diffusion step from u into v at level 0
// and the copy back into u at level 1.
func diffusionPipeline(e *Engine, u, v *Grid, alpha float64) {
	bb := u.BoundingBox()
	e.AddInternalProcessor(processors.NewBoxGenerator(processors.DiffusionFunctional{Alpha: alpha}, bb), 0, u, v)
	e.AddInternalProcessor(processors.NewBoxGenerator(processors.CopyFunctional{}, bb), 1, v, u)
}

func step(u, v *Grid) {
	u.ExecuteInternalProcessors()
	v.ExecuteInternalProcessors()
}

func TestAddInternalProcessor_DeferredUntilLevelRuns(t *testing.T) {
	// GIVEN an initialised source and an empty target
	u := twoBlockGrid(t, WithName("u"))
	v := twoBlockGrid(t, WithName("v"))
	ExecuteDataProcessor(processors.NewBoxGenerator(processors.InitializeFunctional{F: testutil.Wave}, u.BoundingBox()), u)

	// WHEN a diffusion processor is registered
	out := AddInternalProcessor(processors.NewBoxGenerator(processors.DiffusionFunctional{Alpha: 0.1}, u.BoundingBox()), 0, u, v)

	// THEN nothing runs yet, and v is subscribed for refresh
	assert.True(t, out.Deferred)
	assert.Equal(t, []*Grid{v}, out.Updated)
	assert.Equal(t, []sim.Modif{sim.ModifBulk}, out.Modifications)
	for _, x := range v.Snapshot() {
		require.Zero(t, x)
	}
	assert.Equal(t, 1, u.Component(0).NumInternalProcessors())
	assert.Equal(t, 0, v.Component(0).NumInternalProcessors())
	require.Len(t, u.StoredProcessors(), 1)
	assert.Equal(t, []*Grid{u, v}, u.StoredProcessors()[0].Grids)

	// WHEN the pipeline runs
	u.ExecuteInternalProcessors()

	// THEN v holds the result and its envelopes were refreshed
	left := v.Component(0)
	assert.NotZero(t, v.Value(box.Dot2D(10, 4)))
	assert.Equal(t, v.Value(box.Dot2D(10, 4)), left.Field().At(box.Dot2D(10, 4).Sub(left.Location())))
}

func TestAddInternalProcessor_EnvelopeDomainSubscribesWithoutRefresh(t *testing.T) {
	g := twoBlockGrid(t)
	out := AddInternalProcessor(processors.NewBoxGenerator(processors.AssignFunctional{Value: 3, Kind: sim.BulkAndEnvelope}, g.BoundingBox().Enlarge(1, 2)), 2, g)

	assert.Empty(t, out.Updated)
	assert.Equal(t, []int{2}, g.InternalLevels())
	g.ExecuteInternalProcessors()
	b := g.Component(1)
	assert.Equal(t, 3.0, b.Field().At(box.Dot2D(0, 0)))
}

func TestPartitionInvariance_Pipeline2D(t *testing.T) {
	bounding := box.New2D(0, 23, 0, 15)
	layouts := []Layout{
		regularLayout(t, bounding, 2, [3]int{1, 1, 1}, 1),
		regularLayout(t, bounding, 2, [3]int{3, 2, 1}, 1),
	}
	for _, n := range []int{7, 11} {
		l, err := RandomLayout(rand.New(rand.NewSource(int64(n))), bounding, 2, n, 1+n%2)
		require.NoError(t, err)
		layouts = append(layouts, l)
	}

	var want []float64
	var wantSum float64
	for i, l := range layouts {
		// GIVEN the same periodic problem on a different partition
		u := mustGrid(t, l, WithName("u"), WithPeriodicity(true, true, false))
		v := mustGrid(t, l, WithName("v"), WithPeriodicity(true, true, false))
		e := NewEngine(DefaultConfig())
		e.ExecuteDataProcessor(processors.NewBoxGenerator(processors.InitializeFunctional{F: testutil.Wave}, bounding), u)
		diffusionPipeline(e, u, v, 0.15)

		// WHEN the pipeline steps
		for s := 0; s < 4; s++ {
			step(u, v)
		}

		// THEN the bulk is bit-identical to the single-block run
		got := u.Snapshot()
		f := processors.NewSumFunctional()
		gen := processors.NewReductiveBoxGenerator(f, bounding)
		e.ExecuteReductiveDataProcessor(gen, u)
		if i == 0 {
			want, wantSum = got, f.Sum(gen.Statistics())
			continue
		}
		assert.Equal(t, want, got, "layout %d", i)
		testutil.AssertFloat64Equal(t, "sum", wantSum, f.Sum(gen.Statistics()), 1e-12)
	}
}

func TestPartitionInvariance_Pipeline3D(t *testing.T) {
	bounding := box.New3D(0, 7, 0, 5, 0, 5)
	single := regularLayout(t, bounding, 3, [3]int{1, 1, 1}, 1)
	random, err := RandomLayout(rand.New(rand.NewSource(4)), bounding, 3, 6, 1)
	require.NoError(t, err)

	var snapshots [][]float64
	for _, l := range []Layout{single, random} {
		u := mustGrid(t, l, WithPeriodicity(true, false, false))
		v := mustGrid(t, l, WithPeriodicity(true, false, false))
		e := NewEngine(DefaultConfig())
		e.ExecuteDataProcessor(processors.NewBoxGenerator(processors.InitializeFunctional{F: testutil.Wave}, bounding), u)
		diffusionPipeline(e, u, v, 0.1)
		step(u, v)
		step(u, v)
		snapshots = append(snapshots, u.Snapshot())
	}
	assert.Equal(t, snapshots[0], snapshots[1])
}

func TestReinstall_RebuildsPipelineOnNewPartition(t *testing.T) {
	// GIVEN a pipeline registered on one partition
	bounding := box.New2D(0, 19, 0, 13)
	u := mustGrid(t, regularLayout(t, bounding, 2, [3]int{2, 2, 1}, 1), WithPeriodicity(true, false, false))
	v := mustGrid(t, regularLayout(t, bounding, 2, [3]int{2, 2, 1}, 1), WithPeriodicity(true, false, false))
	e := NewEngine(DefaultConfig())
	initGen := processors.NewBoxGenerator(processors.InitializeFunctional{F: testutil.Wave}, bounding)
	e.ExecuteDataProcessor(initGen, u)
	diffusionPipeline(e, u, v, 0.2)

	// WHEN the archive is replayed on a different partition
	rl, err := RandomLayout(rand.New(rand.NewSource(9)), bounding, 2, 5, 1)
	require.NoError(t, err)
	u2 := mustGrid(t, rl, WithPeriodicity(true, false, false))
	v2 := mustGrid(t, rl, WithPeriodicity(true, false, false))
	e.ExecuteDataProcessor(initGen, u2)
	stored := append(append([]StoredProcessor(nil), u.StoredProcessors()...), v.StoredProcessors()...)
	e.Reinstall(stored, map[*Grid]*Grid{u: u2, v: v2})

	// THEN both pipelines evolve identically
	for s := 0; s < 3; s++ {
		step(u, v)
		step(u2, v2)
	}
	assert.Equal(t, u.Snapshot(), u2.Snapshot())
	assert.Len(t, u2.StoredProcessors(), 1)
	assert.Len(t, v2.StoredProcessors(), 1)
}

func TestDotGenerator_RoutedToOwningBlocks(t *testing.T) {
	g := twoBlockGrid(t)
	dots := []box.Dot{box.Dot2D(0, 0), box.Dot2D(9, 9), box.Dot2D(10, 0), box.Dot2D(19, 5)}

	out := ExecuteDataProcessor(processors.NewDotGenerator(processors.PokeFunctional{Value: 7}, dots), g)

	assert.Equal(t, 2, out.Retained)
	for _, d := range dots {
		assert.Equal(t, 7.0, g.Value(d))
	}
	// Refresh after a bulk write makes the neighbour's envelope agree.
	left := g.Component(0)
	assert.Equal(t, 7.0, left.Field().At(box.Dot2D(10, 0).Sub(left.Location())))
}
