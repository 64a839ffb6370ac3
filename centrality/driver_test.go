package centrality

import (
	"testing"

	"github.com/aldergraph/hybridbc/csr"
	"github.com/aldergraph/hybridbc/grooves"
	"github.com/aldergraph/hybridbc/internal/oracle"
	"github.com/aldergraph/hybridbc/partition"
)

// buildRun partitions pairs across numPartitions (using the HIGH, modulo
// placement so the split is deterministic and test-reproducible) and
// returns a Run ready for BetweennessHybrid. The raw-id oracle graph for
// comparison is built separately by oracleGraph.
func buildRun(t *testing.T, pairs [][2]uint32, numVerts int, undirected bool, numPartitions int, kind partition.Kind) *Run {
	t.Helper()
	loaded, err := csr.BuildFromPairs(pairs, undirected, numPartitions, csr.High)
	if err != nil {
		t.Fatalf("BuildFromPairs: %v", err)
	}
	boundaries := csr.DeriveBoundaries(loaded)
	fabrics := grooves.BuildFabrics(numPartitions, boundaries)

	partitions := make([]*partition.State, numPartitions)
	for p := 0; p < numPartitions; p++ {
		partitions[p] = partition.NewState(p, kind, csr.High, loaded.Partitions[p], loaded.Maps[p], fabrics[p], numPartitions)
	}
	return &Run{Partitions: partitions, NumThreads: 2}
}

// oracleGraph builds the serial oracle's graph. Tests call
// oracle.Betweenness on it with undirected=false: the engine never halves
// undirected scores, so the oracle must not halve them either.
func oracleGraph(pairs [][2]uint32, numVerts int, undirected bool) *oracle.Graph {
	g := oracle.NewGraph(numVerts)
	for _, e := range pairs {
		g.AddEdge(int(e[0]), int(e[1]))
		if undirected {
			g.AddEdge(int(e[1]), int(e[0]))
		}
	}
	return g
}

func assertScoresClose(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for v := range want {
		if diff := got[v] - want[v]; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("vertex %d: got %v want %v (full got=%v want=%v)", v, got[v], want[v], got, want)
		}
	}
}

func pathPairs() [][2]uint32 {
	return [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}}
}

func TestBetweennessHybridSinglePartitionMatchesOracle(t *testing.T) {
	pairs := pathPairs()
	run := buildRun(t, pairs, 5, true, 1, partition.CPU)
	out := make([]float64, 5)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	want := oracle.Betweenness(oracleGraph(pairs, 5, true), false)
	assertScoresClose(t, out, want)
}

func TestBetweennessHybridMultiPartitionMatchesOracle(t *testing.T) {
	pairs := pathPairs()
	run := buildRun(t, pairs, 5, true, 3, partition.CPU)
	out := make([]float64, 5)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	want := oracle.Betweenness(oracleGraph(pairs, 5, true), false)
	assertScoresClose(t, out, want)
}

func TestBetweennessHybridHeterogeneousKindsMatchesOracle(t *testing.T) {
	pairs := pathPairs()
	loaded, err := csr.BuildFromPairs(pairs, true, 2, csr.High)
	if err != nil {
		t.Fatalf("BuildFromPairs: %v", err)
	}
	boundaries := csr.DeriveBoundaries(loaded)
	fabrics := grooves.BuildFabrics(2, boundaries)
	partitions := []*partition.State{
		partition.NewState(0, partition.CPU, csr.High, loaded.Partitions[0], loaded.Maps[0], fabrics[0], 2),
		partition.NewState(1, partition.Accelerator, csr.Low, loaded.Partitions[1], loaded.Maps[1], fabrics[1], 2),
	}
	run := &Run{Partitions: partitions, NumThreads: 2}

	out := make([]float64, 5)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	want := oracle.Betweenness(oracleGraph(pairs, 5, true), false)
	assertScoresClose(t, out, want)
}

func TestBetweennessHybridTriangleIsZero(t *testing.T) {
	pairs := [][2]uint32{{0, 1}, {1, 2}, {2, 0}}
	run := buildRun(t, pairs, 3, true, 1, partition.CPU)
	out := make([]float64, 3)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	for v, s := range out {
		if s != 0 {
			t.Fatalf("vertex %d: expected 0 in a triangle, got %v", v, s)
		}
	}
}

func TestBetweennessHybridStarCenterDominates(t *testing.T) {
	pairs := [][2]uint32{{0, 1}, {0, 2}, {0, 3}, {0, 4}}
	run := buildRun(t, pairs, 5, true, 2, partition.CPU)
	out := make([]float64, 5)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	want := oracle.Betweenness(oracleGraph(pairs, 5, true), false)
	assertScoresClose(t, out, want)
	if out[0] <= 0 {
		t.Fatalf("expected center to dominate, got %v", out)
	}
}

func TestBetweennessHybridTwoDisconnectedComponents(t *testing.T) {
	// 0-1-2 and 3-4-5, no edges between the halves.
	pairs := [][2]uint32{{0, 1}, {1, 2}, {3, 4}, {4, 5}}
	run := buildRun(t, pairs, 6, true, 2, partition.CPU)
	out := make([]float64, 6)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	want := oracle.Betweenness(oracleGraph(pairs, 6, true), false)
	assertScoresClose(t, out, want)
}

func TestBetweennessHybridEmptyGraphShortCircuits(t *testing.T) {
	run := &Run{Partitions: nil, NumThreads: 1}
	var out []float64
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
}

func TestBetweennessHybridSingleVertexIsZero(t *testing.T) {
	// A single isolated vertex has no edges, so BuildFromPairs would see
	// zero vertices; synthesize the one-vertex subgraph directly.
	sg := &csr.Subgraph{Offsets: []uint32{0, 0}}
	loaded := &csr.Loaded{
		Partitions: []*csr.Subgraph{sg},
		Maps:       []csr.PartitionMap{{0}},
		NumVerts:   1,
	}

	boundaries := csr.DeriveBoundaries(loaded)
	fabrics := grooves.BuildFabrics(1, boundaries)
	run := &Run{
		Partitions: []*partition.State{
			partition.NewState(0, partition.CPU, csr.High, sg, loaded.Maps[0], fabrics[0], 1),
		},
		NumThreads: 1,
	}
	out := make([]float64, 1)
	if err := run.BetweennessHybrid(Exact, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	if out[0] != 0 {
		t.Fatalf("expected 0 for an isolated vertex, got %v", out[0])
	}
}

func TestBetweennessHybridApproximateModeScalesAndStaysNonNegative(t *testing.T) {
	// A larger star so the sampler has room to pick a strict subset.
	pairs := make([][2]uint32, 0, 40)
	for leaf := uint32(1); leaf <= 40; leaf++ {
		pairs = append(pairs, [2]uint32{0, leaf})
	}
	run := buildRun(t, pairs, 41, true, 4, partition.CPU)
	out := make([]float64, 41)
	if err := run.BetweennessHybrid(0.5, out); err != nil {
		t.Fatalf("BetweennessHybrid: %v", err)
	}
	if out[0] <= 0 {
		t.Fatalf("expected center to accumulate positive betweenness, got %v", out[0])
	}
	for v := 1; v <= 40; v++ {
		if out[v] != 0 {
			t.Fatalf("leaf %d: expected 0, got %v", v, out[v])
		}
	}
}
