// Package partition holds the per-partition algorithm state and the two
// worker implementations -- CPU and accelerator -- that drive the forward
// and backward BC kernels over it. State's field layout mirrors spec
// section 3's per-partition table directly: distance/numSPs/delta are
// kept as one slice per partition (index p, the partition's own ID, is the
// local, full-sized copy; index q != p is the boundary-sized mirror of q's
// vertices that this partition references).
package partition

import (
	"math"

	"github.com/aldergraph/hybridbc/csr"
	"github.com/aldergraph/hybridbc/gid"
	"github.com/aldergraph/hybridbc/grooves"
	"github.com/aldergraph/hybridbc/mathutils"
)

// Inf is the unreached sentinel for distance, distinct from any valid
// BFS level (spec's INF_COST).
const Inf = math.MaxFloat64

// Kind tags which worker a partition is executed by -- the two-variant
// dispatch spec.md's DESIGN NOTES calls for in place of a processor-type
// switch.
type Kind int

const (
	CPU Kind = iota
	Accelerator
)

// State is one partition's complete algorithm-visible state for a single
// BC source iteration.
type State struct {
	ID   int
	Kind Kind
	Tag  csr.Algorithm // warp-width selector, meaningful only for Accelerator

	Graph *csr.Subgraph
	Map   csr.PartitionMap
	Fabric *grooves.Fabric

	NumPartitions int

	// Distance[q], NumSPs[q], Delta[q]: q == ID is the local, full-vertex
	// array; q != ID is the boundary mirror, indexed by the same slot
	// numbering as Fabric.AsRequester[q].
	Distance [][]float64
	NumSPs   [][]float64
	Delta    [][]float64

	Betweenness []float64

	// FrontierList/FrontierCount simulate the accelerator's device-resident
	// frontier buffer; unused by CPU partitions.
	FrontierList  []uint32
	FrontierCount int

	Level        int
	MaxLevelSeen int
}

// NewState allocates a partition's state shell. InitRun must be called
// once before use to size the per-source arrays.
func NewState(id int, kind Kind, tag csr.Algorithm, graph *csr.Subgraph, m csr.PartitionMap, fabric *grooves.Fabric, numPartitions int) *State {
	return &State{
		ID:            id,
		Kind:          kind,
		Tag:           tag,
		Graph:         graph,
		Map:           m,
		Fabric:        fabric,
		NumPartitions: numPartitions,
		Betweenness:   make([]float64, graph.VertexCount()),
	}
}

// InitRun allocates distance/numSPs/delta once per BC run (per spec's
// memory-lifecycle note: allocated on the first source iteration, reused
// across every source after that).
func (s *State) InitRun() {
	s.Distance = make([][]float64, s.NumPartitions)
	s.NumSPs = make([][]float64, s.NumPartitions)
	s.Delta = make([][]float64, s.NumPartitions)

	s.Distance[s.ID] = make([]float64, s.Graph.VertexCount())
	s.NumSPs[s.ID] = make([]float64, s.Graph.VertexCount())
	s.Delta[s.ID] = make([]float64, s.Graph.VertexCount())

	for q := 0; q < s.NumPartitions; q++ {
		if q == s.ID {
			continue
		}
		if b := s.Fabric.AsRequester[q]; b != nil {
			n := len(b.RemoteNeighbors)
			s.Distance[q] = make([]float64, n)
			s.NumSPs[q] = make([]float64, n)
			s.Delta[q] = make([]float64, n)
		}
	}

	for i := range s.Betweenness {
		s.Betweenness[i] = 0
	}
}

// ResetForward seeds per-source state (invariant 3: source seeding).
// isSource tells this partition whether localSrc (meaningful only if
// isSource) is the global source vertex.
func (s *State) ResetForward(isSource bool, localSrc uint32) {
	for q := 0; q < s.NumPartitions; q++ {
		arr := s.Distance[q]
		if arr == nil {
			continue
		}
		for i := range arr {
			arr[i] = Inf
		}
		for i := range s.NumSPs[q] {
			s.NumSPs[q][i] = 0
		}
	}
	if isSource {
		s.Distance[s.ID][localSrc] = 0
		s.NumSPs[s.ID][localSrc] = 1
	}
	s.Level = 0
	s.MaxLevelSeen = 0
	if s.Fabric != nil {
		s.Fabric.ResetPush()
	}
}

// ResetBackward zeroes delta (invariant 4) and starts level at the
// highest level forward discovered (invariant 5).
func (s *State) ResetBackward() {
	for q := 0; q < s.NumPartitions; q++ {
		for i := range s.Delta[q] {
			s.Delta[q][i] = 0
		}
	}
	s.Level = s.MaxLevelSeen
}

// pushSlot resolves the outbox slot a remote (owner, local) pair maps to
// in this partition's requester view -- the numSPs_f alias of spec 3/4.3.
func (s *State) pushSlot(owner int, local uint32) (int, bool) {
	b := s.Fabric.AsRequester[owner]
	if b == nil {
		return 0, false
	}
	slot, ok := b.SlotOf[local]
	return slot, ok
}

// AddNumSPs implements numSPs_f[nbrPid][nbr] += amount: local updates go
// straight to NumSPs[ID], remote updates land in the outbox push buffer
// aliased to that remote partition (invariant 6).
func (s *State) AddNumSPs(nbrPid int, nbrLocal uint32, amount float64) {
	if nbrPid == s.ID {
		mathutils.AtomicAddFloat64(&s.NumSPs[s.ID][nbrLocal], amount)
		return
	}
	slot, ok := s.pushSlot(nbrPid, nbrLocal)
	if !ok {
		return
	}
	mathutils.AtomicAddFloat64(&s.Fabric.AsRequester[nbrPid].PushValues[slot], amount)
}

// Expand decodes a composite neighbor id into its (partition, local) form.
// Thin wrapper so partition code need not import gid directly.
func Expand(n gid.Global) (int, uint32) {
	p, l := n.Expand()
	return int(p), l
}
