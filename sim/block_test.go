package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srohmen/palabos/sim/box"
)

type recordingProcessor struct {
	name string
	log  *[]string
}

func (p recordingProcessor) Process() { *p.log = append(*p.log, p.name) }

type recordingGenerator struct {
	name   string
	log    *[]string
	blocks []*AtomicBlock
}

func (g *recordingGenerator) AppliesTo() DomainKind        { return Bulk }
func (g *recordingGenerator) ModificationPattern() []bool  { return []bool{true} }
func (g *recordingGenerator) TypeOfModification() []Modif  { return []Modif{ModifBulk} }
func (g *recordingGenerator) Clone() Generator             { c := *g; return &c }
func (g *recordingGenerator) Shift(box.Dot)                {}
func (g *recordingGenerator) Extract(box.Box) bool         { return true }
func (g *recordingGenerator) Generate(blocks []*AtomicBlock) Processor {
	g.blocks = blocks
	return recordingProcessor{name: g.name, log: g.log}
}

func TestAtomicBlock_LocalFrame(t *testing.T) {
	b := NewAtomicBlock(3, box.New2D(10, 19, 0, 9), 2, 2, ScalarStorage)

	assert.Equal(t, box.Dot2D(8, -2), b.Location())
	assert.Equal(t, box.New2D(2, 11, 2, 11), b.LocalBulk())
	assert.Equal(t, box.New2D(0, 13, 0, 13), b.LocalDomain())
	assert.Equal(t, box.Dot{14, 14, 1}, b.Storage().Extent())
}

func TestAtomicBlock_UnsupportedDimsPanics(t *testing.T) {
	assert.Panics(t, func() { NewAtomicBlock(0, box.New2D(0, 1, 0, 1), 1, 4, ScalarStorage) })
}

func TestAtomicBlock_InternalProcessorsRunByLevelThenOrder(t *testing.T) {
	// GIVEN processors registered out of level order
	var log []string
	b := NewAtomicBlock(0, box.New2D(0, 3, 0, 3), 1, 2, ScalarStorage)
	b.IntegrateProcessor(recordingProcessor{"late-a", &log}, 1)
	b.IntegrateProcessor(recordingProcessor{"early", &log}, 0)
	b.IntegrateProcessor(recordingProcessor{"late-b", &log}, 1)

	// WHEN every level runs in ascending order
	for _, level := range b.InternalLevels() {
		b.ExecuteInternalProcessors(level)
	}

	// THEN levels are ascending and registration order holds within a level
	assert.Equal(t, []string{"early", "late-a", "late-b"}, log)
	assert.Equal(t, []int{0, 1}, b.InternalLevels())
	assert.Equal(t, 3, b.NumInternalProcessors())
}

func TestAddInternalProcessor_IntegratesIntoFirstBlock(t *testing.T) {
	var log []string
	first := NewAtomicBlock(0, box.New2D(0, 3, 0, 3), 1, 2, ScalarStorage)
	second := NewAtomicBlock(1, box.New2D(4, 7, 0, 3), 1, 2, ScalarStorage)
	gen := &recordingGenerator{name: "p", log: &log}

	AddInternalProcessor(gen, []*AtomicBlock{first, second}, 2)

	require.Equal(t, 1, first.NumInternalProcessors())
	assert.Equal(t, 0, second.NumInternalProcessors())
	assert.Empty(t, log, "deferred processors must not run at registration")
	first.ExecuteInternalProcessors(2)
	assert.Equal(t, []string{"p"}, log)
}

func TestAddInternalProcessorOn_ExplicitActor(t *testing.T) {
	var log []string
	actor := NewAtomicBlock(9, box.New2D(0, 3, 0, 3), 1, 2, ScalarStorage)
	data := NewAtomicBlock(0, box.New2D(0, 3, 0, 3), 1, 2, ScalarStorage)
	AddInternalProcessorOn(&recordingGenerator{name: "p", log: &log}, actor, []*AtomicBlock{data}, 0)
	assert.Equal(t, 1, actor.NumInternalProcessors())
	assert.Equal(t, 0, data.NumInternalProcessors())
}

func TestExecuteProcessor_RunsOnceAndBindsBlocks(t *testing.T) {
	var log []string
	b := NewAtomicBlock(0, box.New2D(0, 3, 0, 3), 1, 2, ScalarStorage)
	gen := &recordingGenerator{name: "p", log: &log}

	ExecuteProcessor(gen, []*AtomicBlock{b})

	assert.Equal(t, []string{"p"}, log)
	assert.Equal(t, []*AtomicBlock{b}, gen.blocks)
}

func TestAtomicExecution_EmptyBlockListPanics(t *testing.T) {
	var log []string
	gen := &recordingGenerator{name: "p", log: &log}
	assert.Panics(t, func() { ExecuteProcessor(gen, nil) })
	assert.Panics(t, func() { AddInternalProcessor(gen, nil, 0) })
}

func TestScalarField_CopyRegion(t *testing.T) {
	src := NewScalarField(box.Dot{4, 4, 1})
	src.Domain().Each(func(d box.Dot) { src.Set(d, float64(10*d[0]+d[1])) })
	dst := NewScalarField(box.Dot{4, 4, 1})

	dst.CopyRegion(src, box.New2D(1, 2, 2, 3), box.Dot2D(0, 0))

	assert.Equal(t, 12.0, dst.At(box.Dot2D(0, 0)))
	assert.Equal(t, 23.0, dst.At(box.Dot2D(1, 1)))
	assert.Equal(t, 0.0, dst.At(box.Dot2D(3, 3)))
}

func TestReferenceIndex(t *testing.T) {
	assert.Equal(t, 0, ReferenceIndex([]bool{false, false}))
	assert.Equal(t, 1, ReferenceIndex([]bool{false, true, true}))
	assert.Equal(t, 0, ReferenceIndex(nil))
}

func TestScalarField_OutOfRangePanics(t *testing.T) {
	f := NewScalarField(box.Dot{4, 3, 1})
	tests := []struct {
		name string
		d    box.Dot
	}{
		{"one past y", box.Dot2D(0, 3)},
		{"negative x", box.Dot2D(-1, 2)},
		{"one past x", box.Dot2D(4, 0)},
		{"z in 2D", box.Dot{1, 1, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, func() { f.At(tc.d) })
			assert.Panics(t, func() { f.Set(tc.d, 1) })
		})
	}
	assert.NotPanics(t, func() { f.Set(box.Dot2D(3, 2), 5) })
	assert.Equal(t, 5.0, f.At(box.Dot2D(3, 2)))
}
