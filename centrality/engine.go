// Package centrality is the BC state machine layered on the BSP engine:
// per source vertex, a forward relaxation round, two synchronization
// sweeps, and a backward dependency round, all expressed as bsp.Round
// hook sets over partition.State. The top-level driver lives in driver.go.
package centrality

import (
	"github.com/rs/zerolog/log"

	"github.com/aldergraph/hybridbc/bsp"
	"github.com/aldergraph/hybridbc/gid"
	"github.com/aldergraph/hybridbc/grooves"
	"github.com/aldergraph/hybridbc/partition"
)

// Engine binds a fixed set of partitions to a bsp.Engine and runs the
// four-round sequence (forward, distance-sync, numSPs-sync, backward) for
// one source vertex at a time.
type Engine struct {
	Partitions []*partition.State
	NumThreads int

	bspEngine *bsp.Engine
	fabrics   []*grooves.Fabric
}

// NewEngine wires partitions to a bsp.Engine whose exchange step drives
// the fabric's push/pull transfer between every partition pair.
func NewEngine(partitions []*partition.State, numThreads int) *Engine {
	fabrics := make([]*grooves.Fabric, len(partitions))
	for i, p := range partitions {
		fabrics[i] = p.Fabric
	}
	e := &Engine{Partitions: partitions, NumThreads: numThreads, fabrics: fabrics}
	e.bspEngine = bsp.NewEngine(len(partitions), func(d bsp.Direction) {
		switch d {
		case bsp.Push:
			grooves.ExchangePush(fabrics)
		case bsp.Pull:
			grooves.ExchangePull(fabrics)
		}
	})
	return e
}

// InitRun allocates every partition's per-run arrays; call once before the
// first source.
func (e *Engine) InitRun() {
	for _, p := range e.Partitions {
		p.InitRun()
	}
}

// runForward executes the forward relaxation round to convergence
// (section 4.3), seeding the source partition's local array at init.
func (e *Engine) runForward(src gid.Global) {
	srcPartition, srcLocal := src.Expand()
	e.bspEngine.Execute(bsp.Round{
		Direction: bsp.Push,
		Init: func(p int) {
			e.Partitions[p].ResetForward(p == int(srcPartition), srcLocal)
		},
		Kernel: func(p int, superstep int) {
			e.Partitions[p].ForwardKernel(e.NumThreads, func() { e.bspEngine.ReportNotFinished(p) })
		},
		Scatter: func(p int) {
			e.Partitions[p].Scatter(func() { e.bspEngine.ReportNotFinished(p) })
		},
	})
	log.Debug().Int("supersteps", e.bspEngine.Superstep()).Msg("forward round converged")
}

// runDistanceSync and runNumSPsSync are section 4.4's two self-contained
// PULL rounds: superstep 1 stages the owner's authoritative local array
// into requesters' pull buffers and reports not-finished; superstep 2
// copies the delivered values into every partition's remote mirrors.
func (e *Engine) runDistanceSync() {
	e.runFullArraySync(
		func(p int) { e.Partitions[p].DistanceSyncGather() },
		func(p int) { e.Partitions[p].DistanceSyncApply() },
	)
}

func (e *Engine) runNumSPsSync() {
	e.runFullArraySync(
		func(p int) { e.Partitions[p].NumSPsSyncGather() },
		func(p int) { e.Partitions[p].NumSPsSyncApply() },
	)
}

func (e *Engine) runFullArraySync(gather func(int), apply func(int)) {
	e.bspEngine.Execute(bsp.Round{
		Direction: bsp.Pull,
		Kernel: func(p int, superstep int) {
			if superstep == 1 {
				e.bspEngine.ReportNotFinished(p)
				return
			}
			apply(p)
		},
		Gather: func(p int) {
			if e.bspEngine.Superstep() == 1 {
				gather(p)
			}
		},
	})
}

// syncMaxLevel resolves every partition's MaxLevelSeen to the single
// highest level discovered by ANY partition during the forward round
// (invariant 5: backward starts at the last level on which any vertex was
// discovered, not just the last level this partition's own vertices were
// discovered at). Partitions whose own vertices are only ever reached
// through remote edges would otherwise start backward at level 0 and never
// run it at all.
func (e *Engine) syncMaxLevel() {
	max := 0
	for _, p := range e.Partitions {
		if p.MaxLevelSeen > max {
			max = p.MaxLevelSeen
		}
	}
	for _, p := range e.Partitions {
		p.MaxLevelSeen = max
	}
}

// runBackward executes the backward dependency round to convergence
// (section 4.5). The first superstep does no kernel work; it exists only
// to let the gather from the max level land before real computation, and
// aggregation (writing betweenness, done inside the kernel itself here)
// runs continuously as levels descend, finishing on Finalize/Aggregate of
// the last superstep.
func (e *Engine) runBackward(onAggregate func(p int)) {
	e.bspEngine.Execute(bsp.Round{
		Direction: bsp.Pull,
		Init: func(p int) {
			e.Partitions[p].ResetBackward()
			if e.Partitions[p].Level > 0 {
				e.bspEngine.ReportNotFinished(p)
			}
		},
		Kernel: func(p int, superstep int) {
			e.Partitions[p].BackwardKernel(superstep, e.NumThreads, func() { e.bspEngine.ReportNotFinished(p) })
		},
		Gather: func(p int) {
			e.Partitions[p].BackwardGather()
		},
		Aggregate: func(p int) {
			if onAggregate != nil {
				onAggregate(p)
			}
		},
	})
	log.Debug().Int("supersteps", e.bspEngine.Superstep()).Msg("backward round converged")
}

// RunSource runs the full four-round sequence for one source vertex.
// onAggregate is invoked on every partition once the backward round
// converges (the driver uses this to fold betweenness into the final
// score array on the last source, per 4.6/4.7).
func (e *Engine) RunSource(src gid.Global, onAggregate func(partition int)) {
	e.runForward(src)
	e.runDistanceSync()
	e.runNumSPsSync()
	e.syncMaxLevel()
	e.runBackward(onAggregate)
}
