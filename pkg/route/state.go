// Package route holds a node's single best path toward the sink.
package route

import "lightmesh/pkg/protocol"

// Tick is a wrapping millisecond counter from the node clock.
type Tick uint32

// Since returns the ticks elapsed from earlier to t, correct across one
// wraparound of the counter.
func (t Tick) Since(earlier Tick) uint32 { return uint32(t - earlier) }

// Snapshot is a copy of the route for logging and inspection.
type Snapshot struct {
    NextHop      protocol.NodeID
    HopCount     uint8
    LastBeaconAt Tick
}

// Routed reports whether the snapshot holds a usable route.
func (s Snapshot) Routed() bool { return s.NextHop != protocol.NoNode }

// State is NoRoute (hop infinity, next hop NoNode) or Routed(next, hops).
// The hop count only shrinks while routed; it is reset as a whole on expiry.
type State struct {
    nextHop  protocol.NodeID
    hopCount uint8
    lastAt   Tick
}

// New returns a state with no route.
func New() *State {
    return &State{nextHop: protocol.NoNode, hopCount: protocol.HopInfinity}
}

// Offer applies a beacon from sender advertising adv hops. The route is
// taken only when adv+1 is strictly smaller than the current hop count;
// otherwise nothing changes and false is returned.
func (s *State) Offer(sender protocol.NodeID, adv uint8, now Tick) bool {
    hops := int(adv) + 1
    if hops >= int(s.hopCount) { return false }
    s.nextHop = sender
    s.hopCount = uint8(hops)
    s.lastAt = now
    return true
}

// Expire drops the route when the last improving beacon is older than
// timeout. It returns true if a route was dropped.
func (s *State) Expire(now Tick, timeout uint32) bool {
    if !s.HasRoute() { return false }
    if now.Since(s.lastAt) <= timeout { return false }
    s.Reset()
    return true
}

// Reset returns the state to NoRoute.
func (s *State) Reset() {
    s.nextHop = protocol.NoNode
    s.hopCount = protocol.HopInfinity
    s.lastAt = 0
}

func (s *State) HasRoute() bool            { return s.nextHop != protocol.NoNode }
func (s *State) NextHop() protocol.NodeID  { return s.nextHop }
func (s *State) HopCount() uint8           { return s.hopCount }
func (s *State) LastBeaconAt() Tick        { return s.lastAt }

func (s *State) Snapshot() Snapshot {
    return Snapshot{NextHop: s.nextHop, HopCount: s.hopCount, LastBeaconAt: s.lastAt}
}
