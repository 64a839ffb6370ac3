// Package gid implements the composite global vertex identifier used to
// address a vertex anywhere in a partitioned graph without a lookup: the
// high bits carry the owning partition, the low bits the vertex's local
// offset inside that partition's subgraph.
package gid

const (
	// partitionShift splits a 64-bit id into a 32-bit partition half and a
	// 32-bit local half. Mirrors the teacher's THREAD_SHIFT/THREAD_MASK
	// split, generalized from thread id to partition id.
	partitionShift = 32
	localMask      = (1 << partitionShift) - 1
)

// Global is a composite vertex id: Partition()<<32 | Local().
type Global uint64

// Encode packs a partition id and a local vertex id into a Global.
func Encode(partition uint32, local uint32) Global {
	return Global(uint64(partition)<<partitionShift | uint64(local))
}

// Partition extracts the owning partition id.
func (g Global) Partition() uint32 {
	return uint32(uint64(g) >> partitionShift)
}

// Local extracts the local vertex offset within the owning partition.
func (g Global) Local() uint32 {
	return uint32(uint64(g) & localMask)
}

// Expand is the O(1) decode used by hot loops: both halves in one call.
func (g Global) Expand() (partition uint32, local uint32) {
	return g.Partition(), g.Local()
}

// SamePartition reports whether two global ids are owned by the same
// partition, without fully decoding either.
func SamePartition(a, b Global) bool {
	return a.Partition() == b.Partition()
}
