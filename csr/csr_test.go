package csr

import "testing"

func triangle() [][2]uint32 {
	return [][2]uint32{{0, 1}, {1, 2}, {2, 0}}
}

func TestBuildFromPairsSinglePartition(t *testing.T) {
	loaded, err := BuildFromPairs(triangle(), true, 1, Random)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.NumVerts != 3 {
		t.Fatalf("expected 3 vertices, got %d", loaded.NumVerts)
	}
	sg := loaded.Partitions[0]
	if sg.VertexCount() != 3 {
		t.Fatalf("expected 3 local vertices, got %d", sg.VertexCount())
	}
	for v := 0; v < 3; v++ {
		if sg.Degree(uint32(v)) != 2 {
			t.Fatalf("vertex %d: expected degree 2 in undirected triangle, got %d", v, sg.Degree(uint32(v)))
		}
	}
}

func TestBuildFromPairsMultiPartitionPreservesEdgeCount(t *testing.T) {
	loaded, err := BuildFromPairs(triangle(), true, 3, Low)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, sg := range loaded.Partitions {
		total += len(sg.Edges)
	}
	if total != 6 {
		t.Fatalf("expected 6 directed edges across partitions, got %d", total)
	}
}

func TestPartitionMapRoundTrip(t *testing.T) {
	loaded, err := BuildFromPairs(triangle(), false, 2, High)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[uint32]bool{}
	for p, m := range loaded.Maps {
		for local, raw := range m {
			seen[raw] = true
			if int(raw)%2 != p && len(loaded.Maps) == 2 {
				// HIGH assigns by raw % numPartitions; sanity check placement.
				t.Fatalf("raw %d local %d landed on partition %d, expected %d", raw, local, p, int(raw)%2)
			}
		}
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct raw vertices, got %d", len(seen))
	}
}
