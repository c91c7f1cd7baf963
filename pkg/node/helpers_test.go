package node

import (
    "errors"
    "testing"
    "time"

    "lightmesh/pkg/protocol"
    "lightmesh/pkg/telemetry"
)

type captureRadio struct {
    frames [][]byte
    err    error
}

func (c *captureRadio) Transmit(b []byte) error {
    if c.err != nil { return c.err }
    c.frames = append(c.frames, append([]byte(nil), b...))
    return nil
}

func (c *captureRadio) packets(t *testing.T) []protocol.Packet {
    t.Helper()
    out := make([]protocol.Packet, 0, len(c.frames))
    for _, b := range c.frames {
        p, err := protocol.Decode(b)
        if err != nil { t.Fatalf("node sent an undecodable frame: %v", err) }
        out = append(out, p)
    }
    return out
}

func (c *captureRadio) reset() { c.frames = nil }

type recordingEvents struct {
    deliveries []telemetry.Delivery
    routes     []telemetry.RouteChange
}

func (r *recordingEvents) Delivered(d telemetry.Delivery)        { r.deliveries = append(r.deliveries, d) }
func (r *recordingEvents) RouteChanged(c telemetry.RouteChange)  { r.routes = append(r.routes, c) }

type fixedSensor uint16

func (f fixedSensor) Sample() uint16 { return uint16(f) }

type countingLED int

func (c *countingLED) Toggle() { *c++ }

type harness struct {
    node   *Node
    radio  *captureRadio
    clock  *ManualClock
    events *recordingEvents
    led    *countingLED
}

const (
    beaconEvery = 10 * time.Second
    sampleEvery = 5 * time.Second
)

func newHarness(id protocol.NodeID, role Role) *harness {
    h := &harness{radio: &captureRadio{}, clock: NewManualClock(1000), events: &recordingEvents{}, led: new(countingLED)}
    h.node = New(Config{
        ID:              id,
        Role:            role,
        BeaconInterval:  beaconEvery,
        SampleInterval:  sampleEvery,
        HistoryCapacity: 8,
    }, Deps{Radio: h.radio, Clock: h.clock, Sensor: fixedSensor(645), Events: h.events, Indicator: h.led})
    return h
}

func beacon(sender protocol.NodeID, hops uint8) []byte {
    return protocol.Encode(protocol.NewBeacon(sender, 1, hops))
}

func data(sender protocol.NodeID, seq uint16, next protocol.NodeID) []byte {
    return protocol.Encode(protocol.NewData(sender, seq, 3, 500, next))
}

var errRadio = errors.New("radio busy")
