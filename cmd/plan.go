package cmd

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/srohmen/palabos/sim"
	"github.com/srohmen/palabos/sim/multiblock"
	"github.com/srohmen/palabos/sim/processors"
	"github.com/srohmen/palabos/sim/trace"
)

var (
	planDomain string // Domain kind of the planned generator
	planOut    string // CSV output path
)

// planCmd shows how a generator is subdivided over the scenario partition
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Subdivide an assign generator over the scenario grid and export the pieces as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		sc := mustLoadScenario()
		kind, err := sim.ParseDomainKind(planDomain)
		if err != nil {
			logrus.Fatalf("Invalid --domain: %v", err)
		}

		var w io.Writer = os.Stdout
		if planOut != "" {
			f, err := os.Create(planOut)
			if err != nil {
				logrus.Fatalf("Failed to create %s: %v", planOut, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		summary, err := WritePlan(sc, kind, w)
		if err != nil {
			logrus.Fatalf("Plan failed: %v", err)
		}
		logrus.Infof("%d pieces (%d wrapped) over %d block tuples, %d cells",
			summary.TotalPieces, summary.WrappedPieces, summary.UniqueBlockTuples, summary.TotalCells)
	},
}

// WritePlan runs an assign generator of the given domain kind over a grid
// built from sc and writes one CSV row per retained piece to w.
func WritePlan(sc Scenario, kind sim.DomainKind, w io.Writer) (*trace.TraceSummary, error) {
	layout, err := sc.Layout()
	if err != nil {
		return nil, err
	}
	g, err := multiblock.NewGrid(layout, sc.GridOptions("a")...)
	if err != nil {
		return nil, err
	}
	et := trace.NewExtractionTrace(trace.TraceConfig{Level: trace.LevelUnits})
	e := multiblock.NewEngine(sc.EngineConfig(et))

	domain := sc.Bounding()
	if kind.UsesEnvelope() {
		domain = domain.Enlarge(sc.Grid.Envelope, sc.Grid.Dims)
	}
	e.ExecuteDataProcessor(processors.NewBoxGenerator(processors.AssignFunctional{Value: 1, Kind: kind}, domain), g)

	if err := gocsv.Marshal(et.Units, w); err != nil {
		return nil, err
	}
	return trace.Summarize(et), nil
}
