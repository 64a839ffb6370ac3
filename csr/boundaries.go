package csr

// DeriveBoundaries scans every partition's edge list and returns, for each
// ordered (requester, owner) pair, the sorted set of owner-local vids the
// requester partition references -- exactly the shape grooves.BuildFabrics
// wants. This is the one piece of bookkeeping the loader itself doesn't
// need: partitioning only has to assign vertices, not compute who ends up
// needing to talk to whom.
func DeriveBoundaries(loaded *Loaded) [][][]uint32 {
	n := len(loaded.Partitions)
	seen := make([]map[int]map[uint32]bool, n)
	for requester := range seen {
		seen[requester] = make(map[int]map[uint32]bool)
	}

	for requester, sg := range loaded.Partitions {
		for _, nbr := range sg.Edges {
			owner, local := int(nbr.Partition()), nbr.Local()
			if owner == requester {
				continue
			}
			if seen[requester][owner] == nil {
				seen[requester][owner] = make(map[uint32]bool)
			}
			seen[requester][owner][local] = true
		}
	}

	boundaries := make([][][]uint32, n)
	for requester := 0; requester < n; requester++ {
		boundaries[requester] = make([][]uint32, n)
		for owner := 0; owner < n; owner++ {
			locals := seen[requester][owner]
			if len(locals) == 0 {
				continue
			}
			list := make([]uint32, 0, len(locals))
			for l := range locals {
				list = append(list, l)
			}
			sortUint32(list)
			boundaries[requester][owner] = list
		}
	}
	return boundaries
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
