// Package telemetry carries observational records out of the node: terminal
// deliveries at the sink and route changes on relays. Sinks are one-way and
// never feed back into protocol state.
package telemetry

import (
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/protocol"
)

// Delivery is one reading that reached the sink for the first time.
type Delivery struct {
    Sink     protocol.NodeID
    Sender   protocol.NodeID
    Light    uint16
    Seq      uint16
    HopCount uint8
    At       time.Time
}

// RouteEvent tells how a route changed.
type RouteEvent uint8

const (
    RouteLearned RouteEvent = iota + 1 // a strictly better beacon was taken
    RouteExpired                       // no improving beacon within the timeout
)

func (e RouteEvent) String() string {
    switch e {
    case RouteLearned:
        return "learned"
    case RouteExpired:
        return "expired"
    default:
        return "unknown"
    }
}

// RouteChange describes one transition of a relay's route.
type RouteChange struct {
    Node        protocol.NodeID
    Event       RouteEvent
    NextHop     protocol.NodeID
    HopCount    uint8
    PrevNextHop protocol.NodeID
    PrevHop     uint8
    At          time.Time
}

// EventSink receives records fire-and-forget. Implementations must not block
// the caller for long; the node loop is single-threaded.
type EventSink interface {
    Delivered(Delivery)
    RouteChanged(RouteChange)
}

// Discard drops every record.
type Discard struct{}

func (Discard) Delivered(Delivery)       {}
func (Discard) RouteChanged(RouteChange) {}

// ZapSink writes records as structured log entries.
type ZapSink struct{ log *zap.Logger }

// NewZapSink logs through l, or through the global logger when l is nil.
func NewZapSink(l *zap.Logger) *ZapSink {
    if l == nil { l = zap.L() }
    return &ZapSink{log: l}
}

func (s *ZapSink) Delivered(d Delivery) {
    s.log.Info("sink data",
        zap.Uint16("sender", uint16(d.Sender)),
        zap.Uint16("light", d.Light),
        zap.Uint16("seq", d.Seq),
        zap.Uint8("hops", d.HopCount),
    )
}

func (s *ZapSink) RouteChanged(c RouteChange) {
    s.log.Info("route "+c.Event.String(),
        zap.Uint16("node", uint16(c.Node)),
        zap.Uint16("next_hop", uint16(c.NextHop)),
        zap.Uint8("hops", c.HopCount),
        zap.Uint16("prev_next_hop", uint16(c.PrevNextHop)),
        zap.Uint8("prev_hops", c.PrevHop),
    )
}

// Multi fans records out to several sinks in order.
type Multi []EventSink

func (m Multi) Delivered(d Delivery) {
    for _, s := range m { s.Delivered(d) }
}

func (m Multi) RouteChanged(c RouteChange) {
    for _, s := range m { s.RouteChanged(c) }
}
