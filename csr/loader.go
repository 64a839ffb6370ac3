package csr

import (
	"bufio"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/aldergraph/hybridbc/enforce"

	"github.com/aldergraph/hybridbc/gid"
)

// rawEdge is one line of an edge-list file, before partition placement.
type rawEdge struct {
	src, dst uint32
}

// Loaded is the result of partitioning a raw edge list: one Subgraph and
// one PartitionMap per partition, plus the total vertex count seen.
type Loaded struct {
	Partitions []*Subgraph
	Maps       []PartitionMap
	NumVerts   int
}

// assigner decides which partition a newly-seen raw vertex id lands in.
// Grounded on the placement family in the teacher's graph/partitioning.go
// (FindVertexPlacementModulo/Random/RoundRobin), generalized from "thread"
// to "partition" and re-exposed under the Algorithm tags this spec names.
type assigner func(raw uint32, seenSoFar int, numPartitions int) int

func assignerFor(algo Algorithm) assigner {
	switch algo {
	case Random:
		return func(_ uint32, _ int, numPartitions int) int {
			return rand.Intn(numPartitions)
		}
	case High:
		// Modulo placement by raw id: deterministic for a given id, with
		// consecutive raw ids landing on different partitions -- mirrors
		// FindVertexPlacementModulo.
		return func(raw uint32, _ int, numPartitions int) int {
			return int(raw) % numPartitions
		}
	case Low:
		// Round-robin assignment in discovery order spreads high-degree
		// hubs evenly, at the cost of locality -- mirrors
		// FindVertexPlacementRoundRobin.
		return func(_ uint32, seenSoFar int, numPartitions int) int {
			return seenSoFar % numPartitions
		}
	default:
		enforce.FAIL("unknown partition algorithm tag", algo)
		return nil
	}
}

// BuildFromEdgeList reads a plain "src dst" (or "src dst weight", weight
// ignored) edge-list file in the teacher's graph/io.go format, assigns
// every raw vertex id to a partition per algo, and builds one CSR Subgraph
// per partition.
func BuildFromEdgeList(path string, undirected bool, numPartitions int, algo Algorithm) (*Loaded, error) {
	enforce.ENFORCE(numPartitions > 0, "numPartitions must be positive")

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	assign := assignerFor(algo)

	rawToGlobal := make(map[uint32]gid.Global)
	partitionLocalCount := make([]int, numPartitions)
	seen := 0

	place := func(raw uint32) gid.Global {
		if g, ok := rawToGlobal[raw]; ok {
			return g
		}
		p := assign(raw, seen, numPartitions)
		seen++
		local := uint32(partitionLocalCount[p])
		partitionLocalCount[p]++
		g := gid.Encode(uint32(p), local)
		rawToGlobal[raw] = g
		return g
	}

	var edges []rawEdge
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		enforce.ENFORCE(len(fields) == 2 || len(fields) == 3, "malformed edge line", line)
		src, err := strconv.Atoi(fields[0])
		enforce.ENFORCE(err)
		dst, err := strconv.Atoi(fields[1])
		enforce.ENFORCE(err)

		edges = append(edges, rawEdge{uint32(src), uint32(dst)})
		place(uint32(src))
		place(uint32(dst))
		if undirected {
			edges = append(edges, rawEdge{uint32(dst), uint32(src)})
		}
	}
	enforce.ENFORCE(scanner.Err())

	return build(edges, rawToGlobal, partitionLocalCount)
}

// BuildFromPairs is BuildFromEdgeList's in-memory twin, used by tests and
// by callers that already have edges as (src, dst) raw id pairs.
func BuildFromPairs(pairs [][2]uint32, undirected bool, numPartitions int, algo Algorithm) (*Loaded, error) {
	enforce.ENFORCE(numPartitions > 0, "numPartitions must be positive")

	assign := assignerFor(algo)
	rawToGlobal := make(map[uint32]gid.Global)
	partitionLocalCount := make([]int, numPartitions)
	seen := 0

	place := func(raw uint32) gid.Global {
		if g, ok := rawToGlobal[raw]; ok {
			return g
		}
		p := assign(raw, seen, numPartitions)
		seen++
		local := uint32(partitionLocalCount[p])
		partitionLocalCount[p]++
		g := gid.Encode(uint32(p), local)
		rawToGlobal[raw] = g
		return g
	}

	var edges []rawEdge
	for _, pr := range pairs {
		edges = append(edges, rawEdge{pr[0], pr[1]})
		place(pr[0])
		place(pr[1])
		if undirected {
			edges = append(edges, rawEdge{pr[1], pr[0]})
		}
	}

	return build(edges, rawToGlobal, partitionLocalCount)
}

// build assembles the CSR representation for every partition from a flat
// edge list and the already-decided raw-id -> composite-id placement.
func build(edges []rawEdge, rawToGlobal map[uint32]gid.Global, partitionLocalCount []int) (*Loaded, error) {
	numPartitions := len(partitionLocalCount)

	maps := make([]PartitionMap, numPartitions)
	for p, n := range partitionLocalCount {
		maps[p] = make(PartitionMap, n)
	}
	for raw, g := range rawToGlobal {
		p, l := g.Expand()
		maps[p][l] = raw
	}

	adjacency := make([][][]gid.Global, numPartitions)
	for p, n := range partitionLocalCount {
		adjacency[p] = make([][]gid.Global, n)
	}

	for _, e := range edges {
		srcG := rawToGlobal[e.src]
		dstG := rawToGlobal[e.dst]
		sp, sl := srcG.Expand()
		adjacency[sp][sl] = append(adjacency[sp][sl], dstG)
	}

	partitions := make([]*Subgraph, numPartitions)
	for p, adj := range adjacency {
		offsets := make([]uint32, len(adj)+1)
		var edgeList []gid.Global
		for v, nbrs := range adj {
			offsets[v] = uint32(len(edgeList))
			edgeList = append(edgeList, nbrs...)
		}
		offsets[len(adj)] = uint32(len(edgeList))
		partitions[p] = &Subgraph{Offsets: offsets, Edges: edgeList}
	}

	total := 0
	for _, n := range partitionLocalCount {
		total += n
	}

	return &Loaded{Partitions: partitions, Maps: maps, NumVerts: total}, nil
}
