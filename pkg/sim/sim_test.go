package sim

import (
    "context"
    "testing"
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/config"
    "lightmesh/pkg/protocol"
    "lightmesh/pkg/telemetry"
)

type deliveries struct{ got []telemetry.Delivery }

func (d *deliveries) Delivered(x telemetry.Delivery)   { d.got = append(d.got, x) }
func (d *deliveries) RouteChanged(telemetry.RouteChange) {}

func nodeConfig() config.NodeConfig {
    return config.NodeConfig{
        BeaconIntervalMS: 10000,
        SampleIntervalMS: 5000,
        RouteTimeoutMS:   30000,
        HistoryCapacity:  32,
        Sensor:           "constant",
        SensorValue:      100,
    }
}

// 9999 - 1 - 2 - 3, plus 9999 - 4 - 3: node 3 has two paths of length 2
// and 3 and must pick the shorter.
func topology() config.SimConfig {
    return config.SimConfig{
        Nodes: []config.SimNodeConfig{
            {ID: 9999, Role: "sink"},
            {ID: 1, Role: "relay", SensorValue: 11},
            {ID: 2, Role: "relay", SensorValue: 22},
            {ID: 3, Role: "relay", SensorValue: 33},
            {ID: 4, Role: "relay", SensorValue: 44},
        },
        Links: [][]uint16{{9999, 1}, {1, 2}, {2, 3}, {9999, 4}, {4, 3}},
    }
}

func TestTopologyConverges(t *testing.T) {
    w, err := Build(nodeConfig(), topology(), Options{Logger: zap.NewNop()})
    if err != nil { t.Fatalf("build: %v", err) }
    defer w.Close()

    w.Step(time.Millisecond)
    want := map[protocol.NodeID][2]uint16{1: {9999, 1}, 2: {1, 2}, 3: {4, 2}, 4: {9999, 1}}
    routes := w.Routes()
    for id, exp := range want {
        r := routes[id]
        if uint16(r.NextHop) != exp[0] || uint16(r.HopCount) != exp[1] { t.Fatalf("node %d route = %+v, want %v", id, r, exp) }
    }
    if r := routes[9999]; r.HopCount != 0 { t.Fatalf("sink route = %+v", r) }
}

func TestEveryReadingReachesSinkOnce(t *testing.T) {
    ev := &deliveries{}
    w, err := Build(nodeConfig(), topology(), Options{Events: ev, Logger: zap.NewNop()})
    if err != nil { t.Fatalf("build: %v", err) }
    defer w.Close()

    if err := w.Run(context.Background(), 20*time.Second, 100*time.Millisecond); err != nil { t.Fatalf("run: %v", err) }

    type key struct{ sender, seq uint16 }
    seen := map[key]bool{}
    perSender := map[protocol.NodeID]int{}
    for _, d := range ev.got {
        k := key{uint16(d.Sender), d.Seq}
        if seen[k] { t.Fatalf("delivered twice: %+v", d) }
        seen[k] = true
        perSender[d.Sender]++
        if d.Light != uint16(d.Sender)*11 { t.Fatalf("reading corrupted: %+v", d) }
    }
    for _, id := range []protocol.NodeID{1, 2, 3, 4} {
        if perSender[id] < 3 { t.Fatalf("node %d delivered %d readings", id, perSender[id]) }
    }
}

func TestBuildErrors(t *testing.T) {
    if _, err := Build(nodeConfig(), config.SimConfig{}, Options{}); err == nil { t.Fatalf("empty topology accepted") }
    bad := topology()
    bad.Nodes = append(bad.Nodes, config.SimNodeConfig{ID: 1})
    if _, err := Build(nodeConfig(), bad, Options{Logger: zap.NewNop()}); err == nil { t.Fatalf("duplicate node accepted") }
}

func TestRunStopsOnCancel(t *testing.T) {
    w, err := Build(nodeConfig(), topology(), Options{Logger: zap.NewNop()})
    if err != nil { t.Fatalf("build: %v", err) }
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    if err := w.Run(ctx, time.Hour, time.Second); err == nil { t.Fatalf("run ignored cancellation") }
    if w.Now() != 0 { t.Fatalf("clock advanced after cancel") }
}
