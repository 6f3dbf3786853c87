package multiblock

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
)

// Grid is a distributed grid: a bounding box tiled into atomic blocks that
// share one envelope width, one refinement level and one periodicity.
//
// Besides the blocks, a grid owns the bookkeeping of deferred work registered
// through it: which grids to refresh after each pipeline level, and an
// archive of the generators that produced its internal processors.
type Grid struct {
	name     string
	layout   Layout
	level    int
	periodic [3]bool
	factory  sim.StorageFactory
	combiner sim.Combiner

	ids    []int
	blocks map[int]*sim.AtomicBlock

	subscriptions sim.LevelQueue[subscription]
	stored        []StoredProcessor
	lastModif     sim.Modif

	pattern []overlap // nil until the first refresh after a periodicity change
}

// subscription lists the grids whose envelopes are refreshed once a
// pipeline level has run.
type subscription struct {
	grids            []*Grid
	modifs           []sim.Modif
	includesEnvelope bool
}

// StoredProcessor archives an internal processor registration so that it
// can be replayed on other grids.
type StoredProcessor struct {
	Generator sim.Generator
	Grids     []*Grid
	Level     int
}

// Option configures a Grid.
type Option func(*Grid)

// WithName labels the grid in logs and traces.
func WithName(name string) Option { return func(g *Grid) { g.name = name } }

// WithLevel sets the refinement level. Higher levels are finer.
func WithLevel(level int) Option { return func(g *Grid) { g.level = level } }

// WithPeriodicity sets per-axis periodicity.
func WithPeriodicity(x, y, z bool) Option {
	return func(g *Grid) { g.periodic = [3]bool{x, y, z} }
}

// WithStorage selects the per-block storage. Defaults to sim.ScalarStorage.
func WithStorage(f sim.StorageFactory) Option { return func(g *Grid) { g.factory = f } }

// WithCombiner selects how reductive partial statistics are combined.
// Defaults to sim.SerialCombiner.
func WithCombiner(c sim.Combiner) Option { return func(g *Grid) { g.combiner = c } }

// NewGrid allocates one atomic block per bulk of layout.
func NewGrid(layout Layout, opts ...Option) (*Grid, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	g := &Grid{
		name:      "grid",
		layout:    layout,
		factory:   sim.ScalarStorage,
		combiner:  sim.SerialCombiner{},
		blocks:    make(map[int]*sim.AtomicBlock, len(layout.Bulks)),
		lastModif: sim.ModifNothing,
	}
	for _, opt := range opts {
		opt(g)
	}
	for id, bulk := range layout.Bulks {
		g.ids = append(g.ids, id)
		g.blocks[id] = sim.NewAtomicBlock(id, bulk, layout.Envelope, layout.Dims, g.factory)
	}
	logrus.Debugf("[grid %s] %d blocks over %s, envelope %d, level %d, periodic %v",
		g.name, len(g.ids), layout.Bounding, layout.Envelope, g.level, g.periodic)
	return g, nil
}

// Name returns the label used in logs and traces.
func (g *Grid) Name() string { return g.name }

// Layout returns the partition the grid was built from.
func (g *Grid) Layout() Layout { return g.layout }

// Dims returns 2 or 3.
func (g *Grid) Dims() int { return g.layout.Dims }

// Level returns the refinement level.
func (g *Grid) Level() int { return g.level }

// EnvelopeWidth returns the ghost layer width shared by all blocks.
func (g *Grid) EnvelopeWidth() int { return g.layout.Envelope }

// BoundingBox returns the global box tiled by the bulks.
func (g *Grid) BoundingBox() box.Box { return g.layout.Bounding }

// Combiner returns the combiner for reductive partial statistics.
func (g *Grid) Combiner() sim.Combiner { return g.combiner }

// Extent returns the number of cells of the bounding box along each axis.
func (g *Grid) Extent() box.Dot { return g.layout.Bounding.Extent() }

// BlockIDs returns the block ids in ascending order.
func (g *Grid) BlockIDs() []int { return g.ids }

// Component returns the atomic block with the given id.
func (g *Grid) Component(id int) *sim.AtomicBlock {
	b, ok := g.blocks[id]
	if !ok {
		panic(fmt.Sprintf("multiblock: grid %s has no block %d", g.name, id))
	}
	return b
}

// Bulk returns the bulk of block id in global coordinates.
func (g *Grid) Bulk(id int) box.Box { return g.Component(id).Bulk() }

// BulkAndEnvelope returns bulk plus envelope of block id in global coordinates.
func (g *Grid) BulkAndEnvelope(id int) box.Box { return g.Component(id).BulkAndEnvelope() }

// Periodic reports whether axis wraps around.
func (g *Grid) Periodic(axis int) bool { return g.periodic[axis] }

// SetPeriodic toggles periodicity of axis.
func (g *Grid) SetPeriodic(axis int, periodic bool) {
	if axis < 0 || axis >= g.Dims() {
		panic(fmt.Sprintf("multiblock: grid %s has no axis %d", g.name, axis))
	}
	if g.periodic[axis] != periodic {
		g.periodic[axis] = periodic
		g.pattern = nil
	}
}

// LastModification returns what the most recent execution declared it
// changed in this grid. ModifNothing until something writes the grid.
func (g *Grid) LastModification() sim.Modif { return g.lastModif }

// periodicShifts returns the zero shift followed by every non-zero image
// offset allowed by the grid's periodic axes.
func (g *Grid) periodicShifts() []box.Dot {
	ext := g.Extent()
	var orient [3][]int
	for a := 0; a < 3; a++ {
		orient[a] = []int{0}
		if a < g.Dims() && g.periodic[a] {
			orient[a] = []int{-1, 0, 1}
		}
	}
	shifts := []box.Dot{{}}
	for _, ox := range orient[0] {
		for _, oy := range orient[1] {
			for _, oz := range orient[2] {
				if ox == 0 && oy == 0 && oz == 0 {
					continue
				}
				shifts = append(shifts, box.Dot{ox * ext[0], oy * ext[1], oz * ext[2]})
			}
		}
	}
	return shifts
}

// SubscribeProcessor records that, once level has run, grids must have
// their envelopes refreshed with the matching modifications. Subscriptions
// whose domain includes the envelope never trigger a refresh.
func (g *Grid) SubscribeProcessor(level int, grids []*Grid, modifs []sim.Modif, includesEnvelope bool) {
	if len(grids) != len(modifs) {
		panic(fmt.Sprintf("multiblock: SubscribeProcessor got %d grids and %d modifications", len(grids), len(modifs)))
	}
	g.subscriptions.Push(level, subscription{grids: grids, modifs: modifs, includesEnvelope: includesEnvelope})
}

// StoreProcessor archives a registration. gen is kept as given; callers
// must not mutate it afterwards.
func (g *Grid) StoreProcessor(gen sim.Generator, grids []*Grid, level int) {
	g.stored = append(g.stored, StoredProcessor{Generator: gen, Grids: grids, Level: level})
}

// StoredProcessors returns the archived registrations in registration order.
func (g *Grid) StoredProcessors() []StoredProcessor { return g.stored }

// InternalLevels returns every level with processors or subscriptions.
func (g *Grid) InternalLevels() []int {
	lists := [][]int{g.subscriptions.Levels()}
	for _, id := range g.ids {
		lists = append(lists, g.blocks[id].InternalLevels())
	}
	return sim.MergeLevels(lists...)
}

// ExecuteInternalProcessors runs every level in ascending order.
func (g *Grid) ExecuteInternalProcessors() {
	for _, level := range g.InternalLevels() {
		g.ExecuteInternalProcessorsAt(level)
	}
}

// ExecuteInternalProcessorsAt runs the processors of level on every block,
// then refreshes the envelopes subscribed for that level.
func (g *Grid) ExecuteInternalProcessorsAt(level int) {
	for _, id := range g.ids {
		g.blocks[id].ExecuteInternalProcessors(level)
	}
	for _, s := range g.subscriptions.At(level) {
		if s.includesEnvelope {
			continue
		}
		for i, target := range s.grids {
			target.DuplicateOverlaps(s.modifs[i])
		}
	}
}
