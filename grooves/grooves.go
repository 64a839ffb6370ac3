// Package grooves is the message fabric that moves values between
// partitions between supersteps. It generalizes the teacher's per-vertex
// VertexMailbox/Notification abstraction (graph/graph-vertex.go) from one
// mailbox per vertex to one boundary buffer per ordered partition pair: a
// partition-pair boundary records the remote vertices one partition may
// read or write on another, and carries two independent buffers -- one for
// values pushed by the requester, one for values staged by the owner for
// the requester to pull.
package grooves

// Boundary is the fabric's record of one directed partition-pair
// relationship: the set of vertices local to Owner that Requester may
// reference, plus the push/pull buffers attached to that relationship.
//
// A single Boundary instance is shared between the two partitions it
// connects: Requester's Fabric.AsRequester[Owner] and Owner's
// Fabric.AsOwner[Requester] both point at it. Requester writes
// PushValues during its own kernel; Owner writes PullValues during its
// own gather. Neither side writes the other's field.
type Boundary struct {
	Owner, Requester int

	// RemoteNeighbors[slot] is the Owner-local vid that relationship slot
	// addresses; SlotOf is its inverse, for O(1) lookup from an edge's
	// decoded (partition, local) pair.
	RemoteNeighbors []uint32
	SlotOf          map[uint32]int

	PushValues []float64
	PullValues []float64
}

func newBoundary(owner, requester int, remoteNeighbors []uint32) *Boundary {
	slotOf := make(map[uint32]int, len(remoteNeighbors))
	for i, v := range remoteNeighbors {
		slotOf[v] = i
	}
	return &Boundary{
		Owner:           owner,
		Requester:       requester,
		RemoteNeighbors: remoteNeighbors,
		SlotOf:          slotOf,
		PushValues:      make([]float64, len(remoteNeighbors)),
		PullValues:      make([]float64, len(remoteNeighbors)),
	}
}

// Inbox is what a partition reads once the engine has run an exchange:
// push content addressed to it (keyed by sender, meaning this partition is
// Owner of that relationship), and pull content it asked for (keyed by the
// owner it asked, meaning this partition is Requester of that
// relationship).
type Inbox struct {
	PushValues []float64
	PullValues []float64
}

// Fabric is one partition's complete view of the message system.
type Fabric struct {
	Self int

	// AsRequester[owner] is non-nil when Self references vertices local to
	// owner; AsOwner[requester] is non-nil when requester references
	// vertices local to Self.
	AsRequester []*Boundary
	AsOwner     []*Boundary

	Inbox []Inbox
}

func newFabric(self, numPartitions int) *Fabric {
	return &Fabric{
		Self:        self,
		AsRequester: make([]*Boundary, numPartitions),
		AsOwner:     make([]*Boundary, numPartitions),
		Inbox:       make([]Inbox, numPartitions),
	}
}

// BuildFabrics constructs one Fabric per partition from the boundary sets
// discovered by a loader: boundaries[requester][owner] lists the
// owner-local vids that requester references (nil/empty when requester
// touches nothing on owner).
func BuildFabrics(numPartitions int, boundaries [][][]uint32) []*Fabric {
	fabrics := make([]*Fabric, numPartitions)
	for p := 0; p < numPartitions; p++ {
		fabrics[p] = newFabric(p, numPartitions)
	}

	for requester := 0; requester < numPartitions; requester++ {
		for owner := 0; owner < numPartitions; owner++ {
			if requester == owner {
				continue
			}
			remote := boundaries[requester][owner]
			if len(remote) == 0 {
				continue
			}
			b := newBoundary(owner, requester, remote)
			fabrics[requester].AsRequester[owner] = b
			fabrics[owner].AsOwner[requester] = b
			fabrics[requester].Inbox[owner].PullValues = make([]float64, len(remote))
			fabrics[owner].Inbox[requester].PushValues = make([]float64, len(remote))
		}
	}
	return fabrics
}

// ExchangePush delivers every requester's push buffer to its owner's
// inbox, tagged by sender. Called by the engine at a push-direction
// superstep boundary.
func ExchangePush(fabrics []*Fabric) {
	for _, f := range fabrics {
		for owner, b := range f.AsRequester {
			if b == nil {
				continue
			}
			copy(fabrics[owner].Inbox[f.Self].PushValues, b.PushValues)
		}
	}
}

// ExchangePull delivers every owner's pull buffer to its requesters'
// inboxes, tagged by owner. Called by the engine at a pull-direction
// superstep boundary.
func ExchangePull(fabrics []*Fabric) {
	for _, f := range fabrics {
		for requester, b := range f.AsOwner {
			if b == nil {
				continue
			}
			copy(fabrics[requester].Inbox[f.Self].PullValues, b.PullValues)
		}
	}
}

// ResetPush zeroes every push buffer this fabric owns as a requester, so a
// fresh round starts without stale values from a previous round.
func (f *Fabric) ResetPush() {
	for _, b := range f.AsRequester {
		if b == nil {
			continue
		}
		for i := range b.PushValues {
			b.PushValues[i] = 0
		}
	}
}
