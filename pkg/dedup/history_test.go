package dedup

import (
    "testing"

    "lightmesh/pkg/protocol"
)

func TestSeenOrRecord(t *testing.T) {
    h := New(4)
    if h.SeenOrRecord(1, 1) { t.Fatalf("first sighting reported as seen") }
    if !h.SeenOrRecord(1, 1) { t.Fatalf("second sighting not reported as seen") }
    if h.SeenOrRecord(1, 2) { t.Fatalf("different seq reported as seen") }
    if h.SeenOrRecord(2, 1) { t.Fatalf("different sender reported as seen") }
    if h.Len() != 3 { t.Fatalf("len = %d, want 3", h.Len()) }
}

func TestRingEvictsOldest(t *testing.T) {
    h := New(3)
    for seq := uint16(0); seq < 4; seq++ {
        if h.SeenOrRecord(7, seq) { t.Fatalf("seq %d reported as seen", seq) }
    }
    if h.Len() != 3 || h.Cap() != 3 { t.Fatalf("len/cap = %d/%d", h.Len(), h.Cap()) }
    // seq 0 was overwritten by seq 3
    if h.SeenOrRecord(7, 0) { t.Fatalf("evicted pair still reported as seen") }
    // recording seq 0 again evicted seq 1; 2 and 3 stay
    for _, seq := range []uint16{2, 3, 0} {
        if !h.SeenOrRecord(7, seq) { t.Fatalf("seq %d should be in window", seq) }
    }
}

func TestZeroCapacityFallsBack(t *testing.T) {
    h := New(0)
    if h.Cap() != DefaultCapacity { t.Fatalf("cap = %d", h.Cap()) }
}

func TestWindowHoldsCapacityDistinctPairs(t *testing.T) {
    h := New(DefaultCapacity)
    for i := 0; i < DefaultCapacity; i++ {
        h.SeenOrRecord(protocol.NodeID(i), uint16(i))
    }
    for i := 0; i < DefaultCapacity; i++ {
        if !h.SeenOrRecord(protocol.NodeID(i), uint16(i)) { t.Fatalf("pair %d missing", i) }
    }
}
