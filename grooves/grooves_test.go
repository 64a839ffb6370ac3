package grooves

import "testing"

func twoPartitionBoundaries() [][][]uint32 {
	// Partition 0 references local vid 3 on partition 1; partition 1
	// references local vid 0 on partition 0.
	b := make([][][]uint32, 2)
	b[0] = make([][]uint32, 2)
	b[1] = make([][]uint32, 2)
	b[0][1] = []uint32{3}
	b[1][0] = []uint32{0}
	return b
}

func TestExchangePushDeliversToOwnerInbox(t *testing.T) {
	fabrics := BuildFabrics(2, twoPartitionBoundaries())

	fabrics[0].AsRequester[1].PushValues[0] = 42

	ExchangePush(fabrics)

	if got := fabrics[1].Inbox[0].PushValues[0]; got != 42 {
		t.Fatalf("expected owner inbox to see pushed value 42, got %v", got)
	}
}

func TestExchangePullDeliversToRequesterInbox(t *testing.T) {
	fabrics := BuildFabrics(2, twoPartitionBoundaries())

	fabrics[1].AsOwner[0].PullValues[0] = 7

	ExchangePull(fabrics)

	if got := fabrics[0].Inbox[1].PullValues[0]; got != 7 {
		t.Fatalf("expected requester inbox to see pulled value 7, got %v", got)
	}
}

func TestResetPushZeroesOnlyRequesterBuffers(t *testing.T) {
	fabrics := BuildFabrics(2, twoPartitionBoundaries())
	fabrics[0].AsRequester[1].PushValues[0] = 5
	fabrics[0].ResetPush()
	if fabrics[0].AsRequester[1].PushValues[0] != 0 {
		t.Fatal("expected push buffer to be zeroed")
	}
}

func TestSlotOfRoundTrip(t *testing.T) {
	fabrics := BuildFabrics(2, twoPartitionBoundaries())
	b := fabrics[0].AsRequester[1]
	slot, ok := b.SlotOf[3]
	if !ok || slot != 0 {
		t.Fatalf("expected remote vid 3 to map to slot 0, got slot=%d ok=%v", slot, ok)
	}
}
