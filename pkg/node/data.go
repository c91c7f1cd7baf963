package node

import (
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/protocol"
    "lightmesh/pkg/telemetry"
)

// originateData sends one fresh reading to the next hop. Nothing is sent
// without a route.
func (n *Node) originateData() {
    if !n.route.HasRoute() {
        n.log.Debug("sample skipped, no route")
        return
    }
    p := protocol.NewData(n.id, n.nextSeq(), n.route.HopCount(), n.sensor.Sample(), n.route.NextHop())
    n.log.Debug("data originated", zap.Uint16("seq", p.Seq), zap.Uint16("light", p.Light), zap.Uint16("next", uint16(p.NextDest)))
    n.transmit(p, "data")
    n.led.Toggle()
}

// handleData forwards packets addressed to this node one hop closer to the
// sink, or logs them when this node is the sink.
func (n *Node) handleData(p protocol.Packet) Outcome {
    if n.role == RoleSink { return n.deliver(p) }
    if p.NextDest != n.id { return NotForUs }
    if !n.route.HasRoute() {
        n.log.Debug("forward dropped, no route", zap.Uint16("sender", uint16(p.Sender)), zap.Uint16("seq", p.Seq))
        return NoRoute
    }
    if n.seen.SeenOrRecord(p.Sender, p.Seq) { return Duplicate }
    p.HopCount = n.route.HopCount()
    p.NextDest = n.route.NextHop()
    n.log.Debug("data forwarded", zap.Uint16("sender", uint16(p.Sender)), zap.Uint16("seq", p.Seq), zap.Uint16("next", uint16(p.NextDest)))
    n.transmit(p, "data_relay")
    n.led.Toggle()
    return Forwarded
}

// deliver is terminal: each (sender, seq) is reported once within the
// history window, whichever path or copy it arrived by.
func (n *Node) deliver(p protocol.Packet) Outcome {
    if n.seen.SeenOrRecord(p.Sender, p.Seq) { return Duplicate }
    n.metrics.Delivered()
    n.events.Delivered(telemetry.Delivery{
        Sink:     n.id,
        Sender:   p.Sender,
        Light:    p.Light,
        Seq:      p.Seq,
        HopCount: p.HopCount,
        At:       time.Now(),
    })
    return Delivered
}
