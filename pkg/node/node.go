// Package node is the protocol core of one sensor node: beacon-driven route
// maintenance, data origination and forwarding toward the sink, and terminal
// delivery at the sink. A Node is single-threaded; Runner owns it.
package node

import (
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/dedup"
    "lightmesh/pkg/observability"
    "lightmesh/pkg/protocol"
    "lightmesh/pkg/route"
    "lightmesh/pkg/telemetry"
)

// Role is fixed at startup.
type Role uint8

const (
    RoleRelay Role = iota // forwards data toward the sink and originates readings
    RoleSink              // tree root: originates beacons, terminates data
)

func (r Role) String() string {
    if r == RoleSink { return "sink" }
    return "relay"
}

// ParseRole maps a config role name to a Role. Anything but "sink" is a relay.
func ParseRole(s string) Role {
    if s == "sink" { return RoleSink }
    return RoleRelay
}

// Transmitter is the best-effort single-hop broadcast of the radio.
type Transmitter interface {
    Transmit(frame []byte) error
}

// Sensor yields the opaque reading carried in data packets.
type Sensor interface {
    Sample() uint16
}

// Indicator is the visual activity hook (an LED on real motes).
type Indicator interface {
    Toggle()
}

// Config holds the per-node protocol parameters.
type Config struct {
    ID              protocol.NodeID
    Role            Role
    BeaconInterval  time.Duration
    SampleInterval  time.Duration
    RouteTimeout    time.Duration // zero means 3 x BeaconInterval
    HistoryCapacity int
}

// Deps are the collaborators a node calls out to. Radio and Clock are
// required; the rest fall back to no-ops.
type Deps struct {
    Radio     Transmitter
    Clock     Clock
    Sensor    Sensor
    Events    telemetry.EventSink
    Indicator Indicator
    Metrics   *observability.NodeMetrics
    Logger    *zap.Logger
}

// Node is the context of one node: identity, route, seen history, sequence
// counter and timers.
type Node struct {
    id   protocol.NodeID
    role Role

    route *route.State
    seen  *dedup.History
    seq   uint16

    beaconEvery  uint32
    sampleEvery  uint32
    routeTimeout uint32
    lastBeacon   route.Tick
    beaconSent   bool
    lastSample   route.Tick

    radio   Transmitter
    clock   Clock
    sensor  Sensor
    events  telemetry.EventSink
    led     Indicator
    metrics *observability.NodeMetrics
    log     *zap.Logger
}

// New builds a node with no route. The sample timer starts now; a sink's
// first beacon is due on the first Poll.
func New(cfg Config, d Deps) *Node {
    if cfg.BeaconInterval <= 0 { cfg.BeaconInterval = 10 * time.Second }
    if cfg.SampleInterval <= 0 { cfg.SampleInterval = 5 * time.Second }
    if cfg.RouteTimeout <= 0 { cfg.RouteTimeout = 3 * cfg.BeaconInterval }
    if d.Clock == nil { d.Clock = NewSystemClock() }
    if d.Sensor == nil { d.Sensor = zeroSensor{} }
    if d.Events == nil { d.Events = telemetry.Discard{} }
    if d.Indicator == nil { d.Indicator = noLED{} }
    if d.Logger == nil { d.Logger = zap.L() }

    n := &Node{
        id:           cfg.ID,
        role:         cfg.Role,
        route:        route.New(),
        seen:         dedup.New(cfg.HistoryCapacity),
        beaconEvery:  ticks(cfg.BeaconInterval),
        sampleEvery:  ticks(cfg.SampleInterval),
        routeTimeout: ticks(cfg.RouteTimeout),
        radio:        d.Radio,
        clock:        d.Clock,
        sensor:       d.Sensor,
        events:       d.Events,
        led:          d.Indicator,
        metrics:      d.Metrics,
        log:          d.Logger.With(zap.Uint16("node", uint16(cfg.ID)), zap.Stringer("role", cfg.Role)),
    }
    n.lastSample = n.clock.Now()
    return n
}

func (n *Node) ID() protocol.NodeID { return n.id }
func (n *Node) Role() Role          { return n.role }

// Route returns a copy of the current route. A sink always reports itself
// at hop 0.
func (n *Node) Route() route.Snapshot {
    if n.role == RoleSink { return route.Snapshot{NextHop: n.id, HopCount: 0} }
    return n.route.Snapshot()
}

func (n *Node) nextSeq() uint16 {
    s := n.seq
    n.seq++
    return s
}

func (n *Node) transmit(p protocol.Packet, kind string) {
    if err := n.radio.Transmit(protocol.Encode(p)); err != nil {
        n.log.Warn("transmit failed", zap.Stringer("packet", p), zap.Error(err))
        n.metrics.TransmitFailed()
        return
    }
    n.metrics.Transmitted(kind)
}

func ticks(d time.Duration) uint32 { return uint32(d / time.Millisecond) }

type zeroSensor struct{}

func (zeroSensor) Sample() uint16 { return 0 }

type noLED struct{}

func (noLED) Toggle() {}
