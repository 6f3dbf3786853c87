package multiblock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
	"github.com/srohmen/palabos/sim/trace"
)

// parallelThreshold is the minimum number of pieces before Workers > 1
// takes effect.
const parallelThreshold = 4

// Config controls an Engine. The zero value is usable and equivalent to
// DefaultConfig.
type Config struct {
	Scaler  box.Scaler            // level rescaling policy; nil means box.PowerTwo
	Join    JoinStrategy          // empty means JoinRTree
	Workers int                   // reference blocks processed concurrently when > 1
	Trace   *trace.ExtractionTrace // nil disables recording
}

// DefaultConfig returns serial execution with R-tree joins and power-of-two
// level scaling.
func DefaultConfig() Config {
	return Config{Scaler: box.PowerTwo{}, Join: JoinRTree, Workers: 1}
}

func (c Config) scaler() box.Scaler {
	if c.Scaler == nil {
		return box.PowerTwo{}
	}
	return c.Scaler
}

// Outcome reports what one façade call did.
type Outcome struct {
	Retained      int        // retained block-local generators
	Units         int        // distinct block combinations among them
	Updated       []*Grid    // grids whose envelopes were (or will be) refreshed
	Modifications []sim.Modif // modification per entry of Updated
	Deferred      bool       // processors were registered, not run
}

// Engine subdivides generators over distributed grids and executes or
// registers the resulting processors.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Plan subdivides gen over grids without running anything.
func (e *Engine) Plan(gen sim.Generator, grids ...*Grid) *Plan {
	plan := subdivide(e.cfg, gen, grids)
	logrus.Debugf("[engine] %s generator over %d grids: %d pieces in %d units",
		plan.Kind, len(grids), plan.Len(), len(plan.Units()))
	return plan
}

// ExecuteDataProcessor runs gen once on every piece of grids, then
// refreshes the envelopes of the grids it modified. Envelope-inclusive
// domains skip the refresh: the processor already wrote the ghost cells.
func (e *Engine) ExecuteDataProcessor(gen sim.Generator, grids ...*Grid) Outcome {
	plan := e.Plan(gen, grids...)
	e.record(trace.ModeExecute, plan, grids)
	e.run(plan, func(i int) {
		sim.ExecuteProcessor(plan.Generators[i], plan.Blocks(i, grids))
	})
	markModified(gen, grids)
	return e.refresh(plan, gen, grids)
}

// ExecuteReductiveDataProcessor is ExecuteDataProcessor for reductive
// generators. The partial statistics of every piece are combined into
// gen.Statistics() by the combiner of grids[0].
func (e *Engine) ExecuteReductiveDataProcessor(gen sim.ReductiveGenerator, grids ...*Grid) Outcome {
	plan := e.Plan(gen, grids...)
	e.record(trace.ModeReductive, plan, grids)
	partials := make([]*sim.BlockStatistics, plan.Len())
	e.run(plan, func(i int) {
		rg, ok := plan.Generators[i].(sim.ReductiveGenerator)
		if !ok {
			panic(fmt.Sprintf("multiblock: clone of reductive generator is %T", plan.Generators[i]))
		}
		sim.ExecuteReductiveProcessor(rg, plan.Blocks(i, grids))
		partials[i] = rg.Statistics()
	})
	grids[0].Combiner().Combine(partials, gen.Statistics())
	markModified(gen, grids)
	return e.refresh(plan, gen, grids)
}

// AddInternalProcessor registers the processors of gen at level instead of
// running them. Each processor lives in its block of grids[0]; grids[0]
// remembers which envelopes to refresh after the level runs and archives
// the registration for Reinstall.
func (e *Engine) AddInternalProcessor(gen sim.Generator, level int, grids ...*Grid) Outcome {
	plan := e.Plan(gen, grids...)
	e.record(trace.ModeInternal, plan, grids)
	for i := range plan.Generators {
		sim.AddInternalProcessor(plan.Generators[i], plan.Blocks(i, grids), level)
	}
	updated, modifs := gridsWhichRequireUpdate(gen, grids)
	grids[0].SubscribeProcessor(level, updated, modifs, gen.AppliesTo().UsesEnvelope())
	grids[0].StoreProcessor(gen.Clone(), grids, level)
	return Outcome{
		Retained:      plan.Len(),
		Units:         len(plan.Units()),
		Updated:       updated,
		Modifications: modifs,
		Deferred:      true,
	}
}

// Reinstall replays archived registrations, substituting grids through
// remap. Grids missing from remap are reused as-is.
func (e *Engine) Reinstall(stored []StoredProcessor, remap map[*Grid]*Grid) {
	for _, sp := range stored {
		grids := make([]*Grid, len(sp.Grids))
		for i, g := range sp.Grids {
			grids[i] = g
			if r, ok := remap[g]; ok {
				grids[i] = r
			}
		}
		e.AddInternalProcessor(sp.Generator.Clone(), sp.Level, grids...)
	}
}

// run calls fn for every piece of plan. With Workers > 1, pieces bound to
// distinct reference blocks run concurrently while pieces sharing one run
// serially in plan order: periodic images of an envelope domain may cover
// the same ghost cells of one block.
func (e *Engine) run(plan *Plan, fn func(i int)) {
	n := plan.Len()
	if e.cfg.Workers <= 1 || n < parallelThreshold {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	groups := piecesByReferenceBlock(plan)
	if len(groups) == 1 {
		for _, i := range groups[0] {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for _, pieces := range groups {
		pieces := pieces
		g.Go(func() error {
			for _, i := range pieces {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// piecesByReferenceBlock groups piece indices by the reference block they
// are bound to, in order of first appearance.
func piecesByReferenceBlock(plan *Plan) [][]int {
	index := make(map[int]int)
	var groups [][]int
	for i, ids := range plan.BlockIDs {
		id := ids[plan.Reference]
		k, ok := index[id]
		if !ok {
			k = len(groups)
			index[id] = k
			groups = append(groups, nil)
		}
		groups[k] = append(groups[k], i)
	}
	return groups
}

func (e *Engine) refresh(plan *Plan, gen sim.Generator, grids []*Grid) Outcome {
	updated, modifs := gridsWhichRequireUpdate(gen, grids)
	for i, g := range updated {
		g.DuplicateOverlaps(modifs[i])
	}
	return Outcome{
		Retained:      plan.Len(),
		Units:         len(plan.Units()),
		Updated:       updated,
		Modifications: modifs,
	}
}

// markModified records the declared modification on every written grid.
func markModified(gen sim.Generator, grids []*Grid) {
	for i, m := range declaredModifications(gen, grids) {
		if m != sim.ModifNothing {
			grids[i].lastModif = m
		}
	}
}

func (e *Engine) record(mode trace.Mode, plan *Plan, grids []*Grid) {
	t := e.cfg.Trace
	if t == nil || t.Config.Level == trace.LevelNone {
		return
	}
	call := t.BeginCall()
	for i := range plan.Generators {
		ids := make([]string, len(plan.BlockIDs[i]))
		for k, id := range plan.BlockIDs[i] {
			ids[k] = strconv.Itoa(id)
		}
		d, s := plan.Domains[i], plan.Shifts[i]
		t.RecordUnit(trace.UnitRecord{
			Call:      call,
			Piece:     i,
			Mode:      mode,
			Domain:    plan.Kind.String(),
			Reference: grids[plan.Reference].Name(),
			BlockIDs:  strings.Join(ids, ","),
			ShiftX:    s[0], ShiftY: s[1], ShiftZ: s[2],
			X0: d.Lo[0], X1: d.Hi[0],
			Y0: d.Lo[1], Y1: d.Hi[1],
			Z0: d.Lo[2], Z1: d.Hi[2],
			Cells: d.Volume(),
		})
	}
}

// ExecuteDataProcessor runs gen with a default engine.
func ExecuteDataProcessor(gen sim.Generator, grids ...*Grid) Outcome {
	return NewEngine(DefaultConfig()).ExecuteDataProcessor(gen, grids...)
}

// ExecuteReductiveDataProcessor runs gen with a default engine.
func ExecuteReductiveDataProcessor(gen sim.ReductiveGenerator, grids ...*Grid) Outcome {
	return NewEngine(DefaultConfig()).ExecuteReductiveDataProcessor(gen, grids...)
}

// AddInternalProcessor registers gen with a default engine.
func AddInternalProcessor(gen sim.Generator, level int, grids ...*Grid) Outcome {
	return NewEngine(DefaultConfig()).AddInternalProcessor(gen, level, grids...)
}
