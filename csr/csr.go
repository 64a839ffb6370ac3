// Package csr holds the read-only compressed-sparse-row subgraph each
// partition operates over, and the loader/partitioner that carves a raw
// edge-list graph into per-partition subgraphs. The partitioning algorithm
// itself is out of scope of the engine proper -- it is treated as an
// external collaborator, selected by an Algorithm tag that also chooses an
// accelerator partition's virtual-warp width.
package csr

import "github.com/aldergraph/hybridbc/gid"

// Algorithm tags the partitioning strategy used to build a graph, and
// doubles as the warp-width template selector for accelerator partitions.
type Algorithm int

const (
	Random Algorithm = iota
	High
	Low
)

func (a Algorithm) String() string {
	switch a {
	case Random:
		return "RANDOM"
	case High:
		return "HIGH"
	case Low:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// Subgraph is one partition's adjacency, stored compressed-sparse-row.
// Offsets has VertexCount()+1 entries; Edges[Offsets[v]:Offsets[v+1]] are
// v's out-neighbors, encoded as composite global ids so a remote neighbor
// resolves to (partition, local) without any lookup.
type Subgraph struct {
	Offsets []uint32
	Edges   []gid.Global
}

// VertexCount returns the number of local vertices in the subgraph.
func (s *Subgraph) VertexCount() int {
	if len(s.Offsets) == 0 {
		return 0
	}
	return len(s.Offsets) - 1
}

// Neighbors returns the out-edges of local vertex v.
func (s *Subgraph) Neighbors(v uint32) []gid.Global {
	return s.Edges[s.Offsets[v]:s.Offsets[v+1]]
}

// Degree returns the out-degree of local vertex v.
func (s *Subgraph) Degree(v uint32) int {
	return int(s.Offsets[v+1] - s.Offsets[v])
}

// PartitionMap maps a partition-local vertex id back to the original
// engine-wide raw id it was loaded from, for result reporting.
type PartitionMap []uint32
