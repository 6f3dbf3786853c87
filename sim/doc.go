// Package sim defines the block-level data model of the processor
// scheduler: atomic blocks, their storage, generators and the processors
// they produce, reductive statistics, and the atomic execution engine.
//
// # Reading Guide
//
// Start with these files:
//   - generator.go: the Generator capability interface every unit of work implements
//   - block.go: AtomicBlock, its local frame, and its deferred-processor queue
//   - atomic.go: running or deferring a generator on concrete blocks
//
// # Architecture
//
// The sim package knows nothing about how blocks are grouped. Sub-packages
// build on it:
//   - sim/box/: integer box algebra (intersection, difference, shifts, level scaling)
//   - sim/multiblock/: distributed grids, the multi-grid intersection engine,
//     envelope refresh and the execution façade
//   - sim/processors/: box and dot generators plus ready-made functionals
//   - sim/trace/: records of the engine's subdivision decisions
//
// # Key Interfaces
//
//   - Generator / ReductiveGenerator: describe work, clone, shift, restrict, bind to blocks
//   - Processor: work bound to blocks
//   - Storage: per-block cell data, opaque to the engine except for region copies
//   - Combiner: folds partial reductive statistics into one result
package sim
