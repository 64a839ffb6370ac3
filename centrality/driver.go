package centrality

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aldergraph/hybridbc/enforce"
	"github.com/aldergraph/hybridbc/gid"
	"github.com/aldergraph/hybridbc/mathutils"
	"github.com/aldergraph/hybridbc/partition"
	"github.com/aldergraph/hybridbc/sampler"
)

// Exact is the epsilon sentinel requesting exact BC (section 4.7).
const Exact = -1.0

// Run holds everything BetweennessHybrid needs across the whole BC
// computation: the partitions, an engine bound to them, and the sampler
// used in approximate mode.
type Run struct {
	Partitions []*partition.State
	NumThreads int
	Sampler    sampler.Sampler
}

// BetweennessHybrid is the public entry point of section 6's invocation
// contract: betweenness_hybrid(epsilon, out_scores). epsilon is either
// Exact or a positive accuracy target; out_scores must be caller-allocated
// with length equal to the total vertex count across all partitions. It
// returns the one value the C-shaped ABI this is grounded on would return
// as a status code: an error, nil on success.
func (r *Run) BetweennessHybrid(epsilon float64, outScores []float64) (err error) {
	// enforce.ENFORCE/enforce.FAIL panic on unrecoverable invariant
	// violations; this is the one boundary that turns such a panic into
	// a returned error instead of crashing the process.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("betweenness_hybrid: %v", rec)
		}
	}()

	total := totalVertices(r.Partitions)
	enforce.ENFORCE(len(outScores) == total)

	for i := range outScores {
		outScores[i] = 0
	}
	if total == 0 {
		return nil
	}

	sources, scale := r.selectSources(epsilon, total)
	if len(sources) == 0 {
		return nil
	}

	var watch mathutils.Watch
	watch.Start()

	engine := NewEngine(r.Partitions, r.NumThreads)
	engine.InitRun()

	for i, src := range sources {
		last := i == len(sources)-1
		engine.RunSource(src, func(p int) {
			if last {
				aggregate(r.Partitions[p], outScores, scale)
			}
		})
	}

	log.Debug().
		Int("sources", len(sources)).
		Float64("scale", scale).
		Dur("elapsed", watch.Elapsed()).
		Msg("betweenness_hybrid complete")

	return nil
}

// selectSources resolves epsilon into the concrete source list and the
// aggregation scale factor (section 4.6/4.7): exact mode visits every
// vertex with scale 1; approximate mode samples sampler.SampleCount
// sources uniformly and scales by V_total/num_samples.
func (r *Run) selectSources(epsilon float64, total int) ([]gid.Global, float64) {
	if epsilon == Exact {
		sources := make([]gid.Global, 0, total)
		for _, p := range r.Partitions {
			for local := 0; local < p.Graph.VertexCount(); local++ {
				sources = append(sources, gid.Encode(uint32(p.ID), uint32(local)))
			}
		}
		return sources, 1
	}

	s := r.Sampler
	if s == nil {
		s = sampler.UniformSampler{}
	}
	count := sampler.SampleCount(total, epsilon)
	picked := s.Sample(total, count)
	if len(picked) == 0 {
		return nil, 1
	}

	rawToGlobal := buildRawToGlobal(r.Partitions)
	dense := make([]gid.Global, len(picked))
	for i, raw := range picked {
		g, ok := rawToGlobal[raw]
		enforce.ENFORCE(ok, "sampler returned an id outside the partition map", raw)
		dense[i] = g
	}
	return dense, float64(total) / float64(len(picked))
}

// buildRawToGlobal inverts every partition's PartitionMap (local -> raw)
// into a single raw -> composite-id lookup, since the sampler and
// out_scores both operate in the original engine-wide id space while the
// engine itself only ever addresses vertices by (partition, local).
func buildRawToGlobal(partitions []*partition.State) map[int]gid.Global {
	m := make(map[int]gid.Global, totalVertices(partitions))
	for _, p := range partitions {
		for local, raw := range p.Map {
			m[int(raw)] = gid.Encode(uint32(p.ID), uint32(local))
		}
	}
	return m
}

// aggregate folds one partition's betweenness array into the shared
// out_scores array, translating local ids back to engine-wide ids through
// the partition map and applying the approximate-mode scale factor
// (section 4.6; scale is 1 in exact mode).
func aggregate(p *partition.State, outScores []float64, scale float64) {
	for local, v := range p.Betweenness {
		if v == 0 {
			continue
		}
		orig := p.Map[local]
		outScores[orig] += v * scale
	}
}

func totalVertices(partitions []*partition.State) int {
	n := 0
	for _, p := range partitions {
		n += p.Graph.VertexCount()
	}
	return n
}
