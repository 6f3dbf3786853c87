package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/box"
	"github.com/srohmen/palabos/sim/multiblock"
	"github.com/srohmen/palabos/sim/trace"
)

// Scenario is the full structure of a scenario YAML file.
// All sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Seed      int64         `yaml:"seed"` // drives the random partition and the field noise
	Grid      GridSpec      `yaml:"grid"`
	Partition PartitionSpec `yaml:"partition"`
	Engine    EngineSpec    `yaml:"engine"`
	Run       RunSpec       `yaml:"run"`
}

// GridSpec describes the bounding box shared by every grid of the scenario.
type GridSpec struct {
	Nx       int     `yaml:"nx"`
	Ny       int     `yaml:"ny"`
	Nz       int     `yaml:"nz"` // ignored when dims is 2
	Dims     int     `yaml:"dims"`
	Envelope int     `yaml:"envelope"`
	Periodic [3]bool `yaml:"periodic"`
}

// PartitionSpec selects how the bounding box is split into blocks.
type PartitionSpec struct {
	Kind   string `yaml:"kind"`   // "regular" or "random"
	Counts [3]int `yaml:"counts"` // regular: blocks per axis
	Blocks int    `yaml:"blocks"` // random: number of blocks
}

// EngineSpec configures the processor scheduler.
type EngineSpec struct {
	Join    string `yaml:"join"`
	Workers int    `yaml:"workers"`
}

// RunSpec configures the diffusion pipeline of `plb run`.
type RunSpec struct {
	Steps       int     `yaml:"steps"`
	Alpha       float64 `yaml:"alpha"`
	ReportEvery int     `yaml:"report_every"`
	Bump        Bump    `yaml:"bump"`
	Noise       float64 `yaml:"noise"` // amplitude of uniform noise added to the bump
}

// Bump is a Gaussian initial condition.
type Bump struct {
	Center    [3]float64 `yaml:"center"`
	Width     float64    `yaml:"width"`
	Amplitude float64    `yaml:"amplitude"`
}

// LoadScenario reads and validates a scenario file. Unknown keys are errors.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario: %w", err)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks the scenario for values the engine would reject later.
func (sc Scenario) Validate() error {
	g := sc.Grid
	if g.Dims != 2 && g.Dims != 3 {
		return fmt.Errorf("grid.dims must be 2 or 3, got %d", g.Dims)
	}
	if g.Nx <= 0 || g.Ny <= 0 || (g.Dims == 3 && g.Nz <= 0) {
		return fmt.Errorf("grid extent must be positive, got %dx%dx%d", g.Nx, g.Ny, g.Nz)
	}
	if g.Envelope < 0 {
		return fmt.Errorf("grid.envelope must be >= 0, got %d", g.Envelope)
	}
	if g.Dims == 2 && g.Periodic[2] {
		return fmt.Errorf("grid.periodic[2] set on a 2D grid")
	}
	switch sc.Partition.Kind {
	case "regular":
		for axis := 0; axis < g.Dims; axis++ {
			if c := sc.Partition.Counts[axis]; c <= 0 {
				return fmt.Errorf("partition.counts[%d] must be positive, got %d", axis, c)
			}
		}
	case "random":
		if sc.Partition.Blocks <= 0 {
			return fmt.Errorf("partition.blocks must be positive, got %d", sc.Partition.Blocks)
		}
	default:
		return fmt.Errorf("unknown partition.kind %q; valid: regular, random", sc.Partition.Kind)
	}
	if sc.Engine.Join != "" && !multiblock.IsValidJoinStrategy(sc.Engine.Join) {
		return fmt.Errorf("unknown engine.join %q; valid: rtree, pairwise", sc.Engine.Join)
	}
	if sc.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", sc.Engine.Workers)
	}
	if sc.Run.Steps < 0 || sc.Run.ReportEvery < 0 {
		return fmt.Errorf("run.steps and run.report_every must be >= 0")
	}
	if sc.Run.Alpha < 0 || sc.Run.Alpha > 1/float64(2*g.Dims) {
		return fmt.Errorf("run.alpha must be in [0, %g] for a stable explicit step, got %g", 1/float64(2*g.Dims), sc.Run.Alpha)
	}
	if sc.Run.Noise < 0 {
		return fmt.Errorf("run.noise must be >= 0, got %g", sc.Run.Noise)
	}
	if sc.Run.Bump.Width <= 0 {
		return fmt.Errorf("run.bump.width must be positive, got %g", sc.Run.Bump.Width)
	}
	return nil
}

// Bounding returns the global box of the scenario.
func (sc Scenario) Bounding() box.Box {
	g := sc.Grid
	if g.Dims == 2 {
		return box.New2D(0, g.Nx-1, 0, g.Ny-1)
	}
	return box.New3D(0, g.Nx-1, 0, g.Ny-1, 0, g.Nz-1)
}

// Layout builds the partition described by the scenario.
func (sc Scenario) Layout() (multiblock.Layout, error) {
	p := sc.Partition
	if p.Kind == "random" {
		rng := sim.NewRandomStreams(sc.Seed).Stream(sim.StreamPartition)
		return multiblock.RandomLayout(rng, sc.Bounding(), sc.Grid.Dims, p.Blocks, sc.Grid.Envelope)
	}
	return multiblock.RegularLayout(sc.Bounding(), sc.Grid.Dims, p.Counts, sc.Grid.Envelope)
}

// SingleBlockLayout covers the scenario bounding box with one block.
func (sc Scenario) SingleBlockLayout() (multiblock.Layout, error) {
	return multiblock.RegularLayout(sc.Bounding(), sc.Grid.Dims, [3]int{1, 1, 1}, sc.Grid.Envelope)
}

// EngineConfig returns the engine configuration, recording into et when non-nil.
func (sc Scenario) EngineConfig(et *trace.ExtractionTrace) multiblock.Config {
	cfg := multiblock.DefaultConfig()
	if sc.Engine.Join != "" {
		cfg.Join = multiblock.JoinStrategy(sc.Engine.Join)
	}
	if sc.Engine.Workers > 0 {
		cfg.Workers = sc.Engine.Workers
	}
	cfg.Trace = et
	return cfg
}

// GridOptions returns the options shared by every grid of the scenario.
func (sc Scenario) GridOptions(name string) []multiblock.Option {
	p := sc.Grid.Periodic
	return []multiblock.Option{multiblock.WithName(name), multiblock.WithPeriodicity(p[0], p[1], p[2])}
}
