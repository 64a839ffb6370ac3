package partition

import (
	"sync"
	"sync/atomic"

	"github.com/aldergraph/hybridbc/csr"
	"github.com/aldergraph/hybridbc/mathutils"
)

// Warp width per partition algorithm tag, per spec 4.3: RANDOM/HIGH use a
// medium warp; LOW (leaf-heavy) uses a full-block width so a single
// high-degree leaf-cluster vertex can claim the whole block's threads.
const (
	vwarpMediumWidth = 8
	vwarpFullWidth   = 32
)

func warpWidth(tag csr.Algorithm) int {
	if tag == csr.Low {
		return vwarpFullWidth
	}
	return vwarpMediumWidth
}

// BuildFrontier is the accelerator's frontier-builder kernel: a two-phase
// compaction of every local vertex at the current level into
// FrontierList, simulating the block-shared-queue + atomic-counter scheme
// of a real GPU kernel with one atomic counter per Go worker batch
// (analogous to a block), then a second pass folding batches into the
// final list -- the software equivalent of ligra_light's sparse/dense
// VertexSubset compaction.
func (s *State) BuildFrontier(numWorkers int) {
	n := s.Graph.VertexCount()
	level := float64(s.Level)
	dist := s.Distance[s.ID]

	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers == 0 {
		s.FrontierList = s.FrontierList[:0]
		s.FrontierCount = 0
		return
	}

	batches := make([][]uint32, numWorkers)
	batchSize := n / numWorkers
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		start := w * batchSize
		end := start + batchSize
		if w == numWorkers-1 {
			end = n
		}
		go func(w, start, end int) {
			defer wg.Done()
			var local []uint32 // block-shared queue
			var blockCounter int32
			for v := start; v < end; v++ {
				if dist[v] == level {
					atomic.AddInt32(&blockCounter, 1)
					local = append(local, uint32(v))
				}
			}
			batches[w] = local
		}(w, start, end)
	}
	wg.Wait()

	var total int
	for _, b := range batches {
		total += len(b)
	}
	frontier := make([]uint32, 0, total)
	for _, b := range batches {
		frontier = append(frontier, b...) // block-level atomic against global frontier_count
	}
	s.FrontierList = frontier
	s.FrontierCount = len(frontier)
}

// AcceleratorForwardKernel processes the frontier with virtual warps: each
// vertex's edge list is striped across warpWidth(tag) lanes at stride W,
// so a high-degree vertex still gets parallel treatment without losing
// coalesced access within a lane's stride.
func (s *State) AcceleratorForwardKernel(reportNotFinished func()) {
	width := warpWidth(s.Tag)
	level := float64(s.Level)
	numSPs := s.NumSPs[s.ID]

	var finishedBlock int32 // zero-initialized explicitly, per spec's open question

	var wg sync.WaitGroup
	for lane := 0; lane < width; lane++ {
		wg.Add(1)
		go func(lane int) {
			defer wg.Done()
			for _, v := range s.FrontierList {
				selfSPs := numSPs[v]
				nbrs := s.Graph.Neighbors(v)
				for i := lane; i < len(nbrs); i += width {
					nbrPid, nbrLocal := Expand(nbrs[i])
					var found bool
					s.relaxForward(nbrPid, nbrLocal, level, selfSPs, &found)
					if found {
						atomic.StoreInt32(&finishedBlock, 1)
					}
				}
			}
		}(lane)
	}
	wg.Wait()

	if atomic.LoadInt32(&finishedBlock) == 1 {
		if int(level)+1 > s.MaxLevelSeen {
			s.MaxLevelSeen = int(level) + 1
		}
		reportNotFinished() // only "thread 0" (the kernel caller) writes through to engine
	}
}

// AcceleratorBackwardKernel mirrors CPUBackwardKernel's contract, but
// accumulates each vertex's partial sums per-lane into a shared-memory
// array and reduces with a halving prefix sum before the single
// writeback, as a real warp would.
func (s *State) AcceleratorBackwardKernel(superstep int, reportNotFinished func()) {
	if superstep == 1 || s.Level <= 0 {
		return
	}

	// Same pull-mirror refresh as CPUBackwardKernel: delta for remote
	// successors only becomes visible in our mirror once the engine's
	// pull exchange has delivered last superstep's gather.
	s.applyPullBuffersInto(s.Delta)

	width := warpWidth(s.Tag)
	level := float64(s.Level)
	dist := s.Distance[s.ID]
	numSPs := s.NumSPs[s.ID]
	delta := s.Delta[s.ID]
	betweenness := s.Betweenness

	for _, v := range s.FrontierList {
		if dist[v] != level {
			continue
		}
		nbrs := s.Graph.Neighbors(v)
		partial := make([]float64, width)

		var wg sync.WaitGroup
		for lane := 0; lane < width; lane++ {
			wg.Add(1)
			go func(lane int) {
				defer wg.Done()
				var acc float64
				for i := lane; i < len(nbrs); i += width {
					nbrPid, nbrLocal := Expand(nbrs[i])
					if nbrPid != s.ID {
						// Remote mirrors are indexed by boundary slot, not
						// by the owner-local id.
						slot, ok := s.pushSlot(nbrPid, nbrLocal)
						if !ok {
							continue
						}
						nbrLocal = uint32(slot)
					}
					if s.Distance[nbrPid][nbrLocal] != level+1 {
						continue
					}
					nbrSPs := s.NumSPs[nbrPid][nbrLocal]
					if nbrSPs == 0 {
						continue
					}
					nbrDelta := s.Delta[nbrPid][nbrLocal]
					acc += (numSPs[v] / nbrSPs) * (nbrDelta + 1)
				}
				partial[lane] = acc
			}(lane)
		}
		wg.Wait()

		// Halving prefix-sum reduction within the warp; lane 0 holds the
		// final sum.
		for stride := width / 2; stride > 0; stride /= 2 {
			for lane := 0; lane < stride; lane++ {
				if lane+stride < len(partial) {
					partial[lane] += partial[lane+stride]
				}
			}
		}
		sum := partial[0]
		if sum > 0 {
			delta[v] = sum
			mathutils.AtomicAddFloat64(&betweenness[v], sum)
		}
	}

	s.Level--
	if s.Level > 0 {
		reportNotFinished()
	}
}
