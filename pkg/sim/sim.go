// Package sim runs a whole topology in one process over the mem radio. All
// nodes share a manual clock, and each step polls every node then hands out
// frames until the medium is quiet, so runs are deterministic.
package sim

import (
    "context"
    "fmt"
    "sort"
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/config"
    "lightmesh/pkg/node"
    "lightmesh/pkg/observability"
    "lightmesh/pkg/protocol"
    "lightmesh/pkg/radio/mem"
    "lightmesh/pkg/route"
    "lightmesh/pkg/sensor"
    "lightmesh/pkg/telemetry"
)

// Options are the shared collaborators of a simulated network.
type Options struct {
    Events  telemetry.EventSink
    Metrics *observability.Metrics
    Logger  *zap.Logger
    Queue   int
}

// Network is a built topology.
type Network struct {
    clock  *node.ManualClock
    medium *mem.Medium
    order  []protocol.NodeID
    nodes  map[protocol.NodeID]*member
    log    *zap.Logger
}

type member struct {
    n    *node.Node
    port *mem.Port
}

// Build attaches every configured node to a fresh medium and applies the
// links. Timers and the sensor kind come from nc.
func Build(nc config.NodeConfig, sc config.SimConfig, opts Options) (*Network, error) {
    if len(sc.Nodes) == 0 { return nil, fmt.Errorf("sim: no nodes configured") }
    if opts.Logger == nil { opts.Logger = zap.L() }
    w := &Network{
        clock:  node.NewManualClock(0),
        medium: mem.New(opts.Queue),
        nodes:  make(map[protocol.NodeID]*member, len(sc.Nodes)),
        log:    opts.Logger.Named("sim"),
    }
    for _, sn := range sc.Nodes {
        id := protocol.NodeID(sn.ID)
        port, err := w.medium.Attach(id)
        if err != nil { return nil, fmt.Errorf("sim: node %d: %w", sn.ID, err) }
        value := sn.SensorValue
        if value == 0 { value = nc.SensorValue }
        s, err := sensor.New(nc.Sensor, value, int64(sn.ID))
        if err != nil { return nil, fmt.Errorf("sim: node %d: %w", sn.ID, err) }
        n := node.New(node.Config{
            ID:              id,
            Role:            node.ParseRole(sn.Role),
            BeaconInterval:  nc.BeaconInterval(),
            SampleInterval:  nc.SampleInterval(),
            RouteTimeout:    nc.RouteTimeout(),
            HistoryCapacity: nc.HistoryCapacity,
        }, node.Deps{
            Radio:     port,
            Clock:     w.clock,
            Sensor:    s,
            Events:    opts.Events,
            Indicator: led{log: w.log, id: id},
            Metrics:   opts.Metrics.For(sn.ID),
            Logger:    opts.Logger,
        })
        w.nodes[id] = &member{n: n, port: port}
        w.order = append(w.order, id)
    }
    for _, l := range sc.Links {
        w.medium.Link(protocol.NodeID(l[0]), protocol.NodeID(l[1]))
    }
    w.log.Info("topology built", zap.Int("nodes", len(w.order)), zap.Int("links", len(sc.Links)))
    return w, nil
}

// Node returns the simulated node with the given id, or nil.
func (w *Network) Node(id protocol.NodeID) *node.Node {
    if m := w.nodes[id]; m != nil { return m.n }
    return nil
}

func (w *Network) Medium() *mem.Medium { return w.medium }
func (w *Network) Now() route.Tick     { return w.clock.Now() }

// Step advances the clock by d, polls every node and settles the medium.
func (w *Network) Step(d time.Duration) {
    w.clock.Advance(d)
    for _, id := range w.order { w.nodes[id].n.Poll() }
    w.Settle()
}

// Settle hands queued frames to their receivers, one per node per pass,
// until no frame is left in flight. It returns the number handled.
func (w *Network) Settle() int {
    handled := 0
    for {
        progress := false
        for _, id := range w.order {
            m := w.nodes[id]
            select {
            case b, ok := <-m.port.Frames():
                if !ok { continue }
                m.n.HandleFrame(b)
                handled++
                progress = true
            default:
            }
        }
        if !progress { return handled }
    }
}

// Run steps the network until duration of simulated time has passed or ctx
// is done. Simulated time does not track wall time.
func (w *Network) Run(ctx context.Context, duration, step time.Duration) error {
    if step <= 0 { step = 100 * time.Millisecond }
    for elapsed := time.Duration(0); elapsed < duration; elapsed += step {
        if err := ctx.Err(); err != nil { return err }
        w.Step(step)
    }
    return nil
}

// Routes returns every node's current route, keyed by id.
func (w *Network) Routes() map[protocol.NodeID]route.Snapshot {
    out := make(map[protocol.NodeID]route.Snapshot, len(w.nodes))
    for id, m := range w.nodes { out[id] = m.n.Route() }
    return out
}

// LogRoutes writes the route table in id order.
func (w *Network) LogRoutes() {
    ids := append([]protocol.NodeID(nil), w.order...)
    sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
    for _, id := range ids {
        r := w.nodes[id].n.Route()
        w.log.Info("route",
            zap.Uint16("node", uint16(id)),
            zap.Bool("routed", r.Routed()),
            zap.Uint16("next_hop", uint16(r.NextHop)),
            zap.Uint8("hops", r.HopCount),
        )
    }
}

// Close detaches every port.
func (w *Network) Close() {
    for _, m := range w.nodes { _ = m.port.Close() }
}

type led struct {
    log *zap.Logger
    id  protocol.NodeID
}

func (l led) Toggle() { l.log.Debug("led toggle", zap.Uint16("node", uint16(l.id))) }
