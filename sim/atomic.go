package sim

// ExecuteProcessor binds gen to blocks and runs the resulting processor once.
func ExecuteProcessor(gen Generator, blocks []*AtomicBlock) {
	requireBlocks("ExecuteProcessor", blocks)
	gen.Generate(blocks).Process()
}

// ExecuteReductiveProcessor is ExecuteProcessor for reductive generators;
// the partial statistics stay in gen.Statistics().
func ExecuteReductiveProcessor(gen ReductiveGenerator, blocks []*AtomicBlock) {
	requireBlocks("ExecuteReductiveProcessor", blocks)
	gen.Generate(blocks).Process()
}

// AddInternalProcessor binds gen to blocks and defers the processor to
// level on blocks[0].
func AddInternalProcessor(gen Generator, blocks []*AtomicBlock, level int) {
	requireBlocks("AddInternalProcessor", blocks)
	blocks[0].IntegrateProcessor(gen.Generate(blocks), level)
}

// AddInternalProcessorOn defers the processor to level on actor, which
// need not be one of blocks.
func AddInternalProcessorOn(gen Generator, actor *AtomicBlock, blocks []*AtomicBlock, level int) {
	requireBlocks("AddInternalProcessorOn", blocks)
	actor.IntegrateProcessor(gen.Generate(blocks), level)
}

func requireBlocks(op string, blocks []*AtomicBlock) {
	if len(blocks) == 0 {
		panic("sim: " + op + " called with no blocks")
	}
}
