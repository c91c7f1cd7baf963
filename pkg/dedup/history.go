// Package dedup remembers recently seen (sender, seq) pairs so that flooded
// or re-delivered data is processed at most once within a bounded window.
package dedup

import "lightmesh/pkg/protocol"

// DefaultCapacity is the history size when none is configured.
const DefaultCapacity = 32

type key struct {
    sender protocol.NodeID
    seq    uint16
}

// History is a fixed ring of seen pairs. When full, the oldest slot is
// overwritten, so a pair older than Cap() insertions may be reported unseen
// again. Not safe for concurrent use; the node loop owns it.
type History struct {
    slots  []key
    cursor int
    count  int
}

func New(capacity int) *History {
    if capacity <= 0 { capacity = DefaultCapacity }
    return &History{slots: make([]key, capacity)}
}

// SeenOrRecord reports whether (sender, seq) is already in the window. If it
// is not, the pair is recorded at the cursor before returning false.
func (h *History) SeenOrRecord(sender protocol.NodeID, seq uint16) bool {
    k := key{sender: sender, seq: seq}
    for i := 0; i < h.count; i++ {
        if h.slots[i] == k { return true }
    }
    h.slots[h.cursor] = k
    h.cursor = (h.cursor + 1) % len(h.slots)
    if h.count < len(h.slots) { h.count++ }
    return false
}

// Len returns the number of occupied slots.
func (h *History) Len() int { return h.count }

// Cap returns the window size.
func (h *History) Cap() int { return len(h.slots) }
