package node

import (
    "testing"

    "go.uber.org/zap"
    "go.uber.org/zap/zaptest/observer"
    "go.uber.org/zap/zapcore"

    "lightmesh/pkg/protocol"
    "lightmesh/pkg/route"
    "lightmesh/pkg/telemetry"
)

// air delivers every transmitted frame to the sender's neighbours in FIFO
// order. Nodes share one manual clock.
type air struct {
    clock   *ManualClock
    nodes   map[protocol.NodeID]*Node
    links   map[protocol.NodeID][]protocol.NodeID
    pending []airFrame
}

type airFrame struct {
    from  protocol.NodeID
    frame []byte
}

type airPort struct {
    a  *air
    id protocol.NodeID
}

func (p airPort) Transmit(b []byte) error {
    p.a.pending = append(p.a.pending, airFrame{from: p.id, frame: append([]byte(nil), b...)})
    return nil
}

func newAir() *air {
    return &air{clock: NewManualClock(0), nodes: map[protocol.NodeID]*Node{}, links: map[protocol.NodeID][]protocol.NodeID{}}
}

func (a *air) add(id protocol.NodeID, role Role, events telemetry.EventSink, log *zap.Logger) *Node {
    n := New(Config{ID: id, Role: role, BeaconInterval: beaconEvery, SampleInterval: sampleEvery},
        Deps{Radio: airPort{a: a, id: id}, Clock: a.clock, Sensor: fixedSensor(300), Events: events, Logger: log})
    a.nodes[id] = n
    return n
}

func (a *air) link(x, y protocol.NodeID) {
    a.links[x] = append(a.links[x], y)
    a.links[y] = append(a.links[y], x)
}

// settle hands out frames until nothing is left in flight.
func (a *air) settle() {
    for len(a.pending) > 0 {
        f := a.pending[0]
        a.pending = a.pending[1:]
        for _, to := range a.links[f.from] {
            a.nodes[to].HandleFrame(f.frame)
        }
    }
}

func TestFloodReachesDepthTwo(t *testing.T) {
    a := newAir()
    s := a.add(9999, RoleSink, nil, nil)
    n1 := a.add(1, RoleRelay, nil, nil)
    n2 := a.add(2, RoleRelay, nil, nil)
    a.link(9999, 1)
    a.link(1, 2)

    s.Poll()
    a.settle()

    if r := n1.Route(); r.NextHop != 9999 || r.HopCount != 1 { t.Fatalf("node 1 route = %+v", r) }
    if r := n2.Route(); r.NextHop != 1 || r.HopCount != 2 { t.Fatalf("node 2 route = %+v", r) }
}

func TestDiamondPrefersShortestPath(t *testing.T) {
    a := newAir()
    s := a.add(9999, RoleSink, nil, nil)
    for _, id := range []protocol.NodeID{1, 2, 3, 4} { a.add(id, RoleRelay, nil, nil) }
    // 9999-1-2-4 and 9999-3-4: node 4 must settle at two hops
    a.link(9999, 1)
    a.link(1, 2)
    a.link(2, 4)
    a.link(9999, 3)
    a.link(3, 4)

    s.Poll()
    a.settle()

    if r := a.nodes[4].Route(); r.NextHop != 3 || r.HopCount != 2 { t.Fatalf("node 4 route = %+v", r) }
    if r := a.nodes[2].Route(); r.HopCount != 2 { t.Fatalf("node 2 route = %+v", r) }
}

func TestReadingForwardedAndLoggedOnce(t *testing.T) {
    core, logs := observer.New(zapcore.InfoLevel)
    zl := zap.New(core)
    a := newAir()
    s := a.add(9999, RoleSink, telemetry.NewZapSink(zl), zl)
    a.add(1, RoleRelay, nil, zl)
    c := a.add(3, RoleRelay, nil, zl)
    a.link(9999, 1)
    a.link(1, 3)

    s.Poll()
    a.settle()
    c.seq = 5
    a.clock.Advance(sampleEvery)
    c.Poll()
    a.settle()

    entries := logs.FilterMessage("sink data").All()
    if len(entries) != 1 { t.Fatalf("sink data entries = %d", len(entries)) }
    f := entries[0].ContextMap()
    if f["sender"] != uint16(3) || f["seq"] != uint16(5) || f["light"] != uint16(300) {
        t.Fatalf("sink data fields = %v", f)
    }

    // a late duplicate of the same reading is not logged again
    a.pending = append(a.pending, airFrame{from: 1, frame: protocol.Encode(protocol.NewData(3, 5, 1, 300, 9999))})
    a.settle()
    if n := logs.FilterMessage("sink data").Len(); n != 1 { t.Fatalf("sink data entries after duplicate = %d", n) }
}

func TestRouteLossStopsTrafficUntilNextBeacon(t *testing.T) {
    a := newAir()
    s := a.add(9999, RoleSink, nil, nil)
    r := a.add(1, RoleRelay, nil, nil)
    a.link(9999, 1)
    s.Poll()
    a.settle()

    // the sink goes quiet: no Poll on it from here on
    for i := 0; i < 7; i++ {
        a.clock.Advance(sampleEvery)
        r.Poll()
    }
    if r.Route().Routed() { t.Fatalf("route survived %v of silence", 7*sampleEvery) }
    a.pending = nil

    a.clock.Advance(sampleEvery)
    r.Poll()
    if len(a.pending) != 0 { t.Fatalf("relay transmitted without a route") }

    s.Poll()
    a.settle()
    if got := r.Route(); got != (route.Snapshot{NextHop: 9999, HopCount: 1, LastBeaconAt: a.clock.Now()}) {
        t.Fatalf("route after heal = %+v", got)
    }
}
