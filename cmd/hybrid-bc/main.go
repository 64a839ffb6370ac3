// Command hybrid-bc loads a partitioned edge-list graph and runs hybrid
// CPU/accelerator betweenness centrality over it, printing the top-N
// vertices by score. Flag shape follows the teacher's graph.FlagsToOptions
// idiom, narrowed to the options this engine actually consumes.
package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/aldergraph/hybridbc/bsp"
	"github.com/aldergraph/hybridbc/centrality"
	"github.com/aldergraph/hybridbc/csr"
	"github.com/aldergraph/hybridbc/grooves"
	"github.com/aldergraph/hybridbc/mathutils"
	"github.com/aldergraph/hybridbc/partition"
	"github.com/aldergraph/hybridbc/utils"
)

func main() {
	opts, graphPath, algoName, acceleratorFrac, topN := parseFlags()

	if graphPath == "" {
		log.Info().Msg("Usage: hybrid-bc -g <edgelist> [-p partitions] [-algo random|high|low] [-u] [-epsilon e]")
		flag.Usage()
		return
	}

	algo, err := parseAlgorithm(algoName)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -algo value")
	}

	loaded, err := csr.BuildFromEdgeList(graphPath, opts.Undirected, int(opts.NumPartitions), algo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}

	boundaries := csr.DeriveBoundaries(loaded)
	fabrics := grooves.BuildFabrics(int(opts.NumPartitions), boundaries)

	partitions := make([]*partition.State, opts.NumPartitions)
	numAccel := int(float64(opts.NumPartitions) * acceleratorFrac)
	for p := 0; p < int(opts.NumPartitions); p++ {
		kind := partition.CPU
		if p < numAccel {
			kind = partition.Accelerator
		}
		partitions[p] = partition.NewState(p, kind, algo, loaded.Partitions[p], loaded.Maps[p], fabrics[p], int(opts.NumPartitions))
	}

	run := &centrality.Run{Partitions: partitions, NumThreads: int(opts.NumThreads)}
	scores := make([]float64, loaded.NumVerts)

	epsilon := centrality.Exact
	if opts.Epsilon >= 0 {
		epsilon = opts.Epsilon
	}

	watch := &mathutils.Watch{}
	watch.Start()
	if err := run.BetweennessHybrid(epsilon, scores); err != nil {
		log.Fatal().Err(err).Msg("betweenness_hybrid failed")
	}
	log.Info().
		Int("vertices", loaded.NumVerts).
		Uint32("partitions", opts.NumPartitions).
		Dur("elapsed", watch.Elapsed()).
		Msg("betweenness centrality complete")

	if opts.Undirected {
		// The engine never divides by 2 for undirected graphs; that's the
		// caller's responsibility (spec's invocation contract).
		for i := range scores {
			scores[i] /= 2
		}
	}

	printTop(scores, topN)
}

// parseFlags builds a bsp.EngineOptions from the command line, following
// the teacher's FlagsToOptions shape: declare every flag, parse once, wire
// debug level and colour straight into the logger, and return a single
// options struct instead of scattering *flag.Value derefs through main.
func parseFlags() (opts bsp.EngineOptions, graphPath string, algoName string, acceleratorFrac float64, topN int) {
	graphPtr := flag.String("g", "", "Graph edge-list file.")
	partitionsPtr := flag.Uint("p", 4, "Number of partitions.")
	algoPtr := flag.String("algo", "random", "Partitioning algorithm: random, high, or low.")
	undirectedPtr := flag.Bool("u", false, "Treat the input graph as undirected.")
	epsilonPtr := flag.Float64("epsilon", -1, "Accuracy target for approximate mode; -1 (or any negative) requests exact BC.")
	acceleratorFracPtr := flag.Float64("accel-frac", 0, "Fraction of partitions, by id, to run on the simulated accelerator worker instead of CPU.")
	threadPtr := flag.Uint("t", uint(runtime.NumCPU()), "Thread count for the per-partition worker pool.")
	pollPtr := flag.Uint("poll", 500, "Polling rate (ms) for long-running superstep progress logging.")
	topNPtr := flag.Int("top", 10, "Number of highest-scoring vertices to print.")
	debugPtr := flag.Int("debug", 0, "0 for info, 1 for debug, 2+ for trace.")
	colourPtr := flag.Bool("nc", false, "Disable coloured log output.")
	flag.Parse()

	if *colourPtr {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(*debugPtr)

	opts = bsp.EngineOptions{
		NumThreads:    uint32(*threadPtr),
		NumPartitions: uint32(*partitionsPtr),
		DebugLevel:    uint8(*debugPtr),
		Epsilon:       *epsilonPtr,
		PollingRate:   uint32(*pollPtr),
		ColourOutput:  !*colourPtr,
		Undirected:    *undirectedPtr,
	}
	return opts, *graphPtr, *algoPtr, *acceleratorFracPtr, *topNPtr
}

func parseAlgorithm(s string) (csr.Algorithm, error) {
	switch s {
	case "random":
		return csr.Random, nil
	case "high":
		return csr.High, nil
	case "low":
		return csr.Low, nil
	default:
		return 0, fmt.Errorf("unknown partitioning algorithm %q", s)
	}
}

func printTop(scores []float64, n int) {
	indexed := mathutils.NewIndexedFloat64Slice(scores)
	sort.Sort(sort.Reverse(indexed))
	if n > len(indexed.Idx) {
		n = len(indexed.Idx)
	}
	for i := 0; i < n; i++ {
		vid := indexed.Idx[i]
		fmt.Printf("%d\t%v\n", vid, scores[vid])
	}
}
