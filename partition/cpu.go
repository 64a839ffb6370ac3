package partition

import (
	"sync"

	"github.com/aldergraph/hybridbc/mathutils"
)

// parallelFor splits [0, n) into numThreads contiguous batches and runs fn
// over each batch on its own goroutine, mirroring the teacher's
// framework/sync.go ConvergeSync batch-split (only the outer loop is
// parallelized -- no nested parallelism within a partition).
func parallelFor(n int, numThreads int, fn func(start, end int)) {
	if numThreads < 1 {
		numThreads = 1
	}
	if numThreads > n {
		numThreads = n
	}
	if numThreads <= 1 {
		fn(0, n)
		return
	}
	batch := n / numThreads
	var wg sync.WaitGroup
	wg.Add(numThreads)
	for t := 0; t < numThreads; t++ {
		start := t * batch
		end := start + batch
		if t == numThreads-1 {
			end = n
		}
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}

// CPUForwardKernel is spec 4.3's forward kernel contract: for each local
// vertex at the current level, relax its neighbors, pushing numSPs
// increments to remote partitions through the outbox alias.
func (s *State) CPUForwardKernel(numThreads int, reportNotFinished func()) {
	level := float64(s.Level)
	dist := s.Distance[s.ID]
	numSPs := s.NumSPs[s.ID]

	found := false
	var foundMu sync.Mutex

	parallelFor(s.Graph.VertexCount(), numThreads, func(start, end int) {
		localFound := false
		for v := start; v < end; v++ {
			if dist[v] != level {
				continue
			}
			selfSPs := numSPs[v]
			for _, n := range s.Graph.Neighbors(uint32(v)) {
				nbrPid, nbrLocal := Expand(n)
				s.relaxForward(nbrPid, nbrLocal, level, selfSPs, &localFound)
			}
		}
		if localFound {
			foundMu.Lock()
			found = true
			foundMu.Unlock()
		}
	})

	if found {
		if level+1 > float64(s.MaxLevelSeen) {
			s.MaxLevelSeen = int(level) + 1
		}
		reportNotFinished()
	}
}

// relaxForward applies the kernel's two guarded writes for a single
// encoded neighbor, local or remote.
func (s *State) relaxForward(nbrPid int, nbrLocal uint32, level float64, selfSPs float64, localFound *bool) {
	if nbrPid == s.ID {
		d := &s.Distance[s.ID][nbrLocal]
		if mathutils.CompareAndSwapFloat64(d, Inf, level+1) {
			*localFound = true
		}
		if *d == level+1 {
			mathutils.AtomicAddFloat64(&s.NumSPs[s.ID][nbrLocal], selfSPs)
		}
		return
	}
	// Remote: the local mirror Distance[nbrPid] only reflects the last
	// synchronized value, so "discovery" for a never-yet-seen remote
	// vertex is left to that partition's own owner-side distance array;
	// we only ever forward the numSPs contribution, which is always safe
	// to accumulate (consult 4.3's scatter double-guard on the owner
	// side for the corresponding read).
	s.AddNumSPs(nbrPid, nbrLocal, selfSPs)
}

// CPUScatter is spec 4.3's scatter hook: consume the inbox's push values
// (numSPs contributions from requesters), applying the double guard.
func (s *State) CPUScatter(reportNotFinished func()) {
	level := float64(s.Level)
	dist := s.Distance[s.ID]
	numSPs := s.NumSPs[s.ID]
	found := false

	for sender := 0; sender < s.NumPartitions; sender++ {
		if sender == s.ID {
			continue
		}
		b := s.Fabric.AsOwner[sender]
		if b == nil {
			continue
		}
		inbox := s.Fabric.Inbox[sender].PushValues
		for i, amount := range inbox {
			if amount == 0 {
				continue
			}
			vid := b.RemoteNeighbors[i]
			if dist[vid] == Inf {
				dist[vid] = level
				found = true
			}
			if dist[vid] == level {
				numSPs[vid] += amount
			}
		}
	}
	if found {
		// A vertex discovered through the inbox is just as much a forward
		// discovery as one found by relaxForward's local branch -- both
		// must feed MaxLevelSeen, since ResetBackward's starting level
		// depends on having seen every discovery, not just local ones.
		if level > float64(s.MaxLevelSeen) {
			s.MaxLevelSeen = int(level)
		}
		reportNotFinished()
	}
	// Level advancement happens exactly once per partition per superstep,
	// regardless of whether this partition itself found new work this
	// round -- the barrier means every partition's reads next superstep
	// must see the same, newly-incremented level.
	s.Level++
}

// CPUBackwardKernel is spec 4.5's backward kernel contract: accumulate
// dependency for each vertex at the current level from its successors.
func (s *State) CPUBackwardKernel(superstep int, numThreads int, reportNotFinished func()) {
	if superstep == 1 || s.Level <= 0 {
		// First backward superstep performs no kernel work: it exists only
		// to let the gather from max_level land before real computation.
		// A partition whose level already hit 0 has nothing left to
		// descend into, even while siblings with a deeper frontier keep
		// the round alive.
		return
	}

	// Delta for remote successors was staged by their owner's gather last
	// superstep and delivered by the engine's pull exchange; pull it into
	// our mirror before reading it below, the same way DistanceSyncApply/
	// NumSPsSyncApply apply their own pulled mirrors.
	s.applyPullBuffersInto(s.Delta)

	level := float64(s.Level)
	dist := s.Distance[s.ID]
	numSPs := s.NumSPs[s.ID]
	delta := s.Delta[s.ID]
	betweenness := s.Betweenness

	parallelFor(s.Graph.VertexCount(), numThreads, func(start, end int) {
		for v := start; v < end; v++ {
			if dist[v] != level {
				continue
			}
			var sum float64
			for _, n := range s.Graph.Neighbors(uint32(v)) {
				nbrPid, nbrLocal := Expand(n)
				if nbrPid != s.ID {
					// Remote mirrors are indexed by boundary slot, not by
					// the owner-local id.
					slot, ok := s.pushSlot(nbrPid, nbrLocal)
					if !ok {
						continue
					}
					nbrLocal = uint32(slot)
				}
				nbrDist := s.Distance[nbrPid][nbrLocal]
				if nbrDist != level+1 {
					continue
				}
				nbrSPs := s.NumSPs[nbrPid][nbrLocal]
				if nbrSPs == 0 {
					continue
				}
				nbrDelta := s.Delta[nbrPid][nbrLocal]
				sum += (numSPs[v] / nbrSPs) * (nbrDelta + 1)
			}
			// Single-writer discipline: this goroutine owns [start,end)
			// exclusively, so delta[v] needs no atomic. betweenness[v] is
			// accumulated across sources and does.
			delta[v] = sum
			mathutils.AtomicAddFloat64(&betweenness[v], sum)
		}
	})

	s.Level--
	if s.Level > 0 {
		reportNotFinished()
	}
}

// CPUBackwardGather is spec 4.5's gather hook: stage delta for any
// boundary vertex at level+1 into the outbox pull buffer.
func (s *State) CPUBackwardGather() {
	level := float64(s.Level)
	dist := s.Distance[s.ID]
	delta := s.Delta[s.ID]

	for requester := 0; requester < s.NumPartitions; requester++ {
		if requester == s.ID {
			continue
		}
		b := s.Fabric.AsOwner[requester]
		if b == nil {
			continue
		}
		for i, vid := range b.RemoteNeighbors {
			if dist[vid] == level+1 {
				b.PullValues[i] = delta[vid]
			}
		}
	}
}

// DistanceSyncGather stages this partition's authoritative local distance
// into every requester's pull slot (4.4's distance-sync gather).
func (s *State) DistanceSyncGather() {
	s.stageLocalIntoPullBuffers(s.Distance[s.ID])
}

// DistanceSyncApply copies received pull_values into the local distance
// mirror for every remote partition (4.4's second superstep).
func (s *State) DistanceSyncApply() {
	s.applyPullBuffersInto(s.Distance)
}

// NumSPsSyncGather is numSPs-sync's gather, identical shape to distance
// sync but over the numSPs array.
func (s *State) NumSPsSyncGather() {
	s.stageLocalIntoPullBuffers(s.NumSPs[s.ID])
}

// NumSPsSyncApply is numSPs-sync's apply, identical shape to distance
// sync's apply.
func (s *State) NumSPsSyncApply() {
	s.applyPullBuffersInto(s.NumSPs)
}

func (s *State) stageLocalIntoPullBuffers(local []float64) {
	for requester := 0; requester < s.NumPartitions; requester++ {
		if requester == s.ID {
			continue
		}
		b := s.Fabric.AsOwner[requester]
		if b == nil {
			continue
		}
		for i, vid := range b.RemoteNeighbors {
			b.PullValues[i] = local[vid]
		}
	}
}

func (s *State) applyPullBuffersInto(mirrors [][]float64) {
	for owner := 0; owner < s.NumPartitions; owner++ {
		if owner == s.ID {
			continue
		}
		if s.Fabric.AsRequester[owner] == nil {
			continue
		}
		copy(mirrors[owner], s.Fabric.Inbox[owner].PullValues)
	}
}
