package node

import (
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/protocol"
    "lightmesh/pkg/route"
    "lightmesh/pkg/telemetry"
)

// originateBeacon starts a flood from the sink at hop 0.
func (n *Node) originateBeacon(now route.Tick) {
    n.lastBeacon = now
    n.beaconSent = true
    p := protocol.NewBeacon(n.id, n.nextSeq(), 0)
    n.log.Debug("beacon originated", zap.Uint16("seq", p.Seq))
    n.transmit(p, "beacon")
}

// handleBeacon takes strictly better routes and re-advertises them under
// this node's own identity and hop count. Equal or worse advertisements stop
// here, which bounds the flood and keeps count-to-infinity loops out.
func (n *Node) handleBeacon(p protocol.Packet, now route.Tick) Outcome {
    if n.role == RoleSink { return BeaconIgnored }
    prev := n.route.Snapshot()
    if !n.route.Offer(p.Sender, p.HopCount, now) {
        n.log.Debug("beacon ignored", zap.Uint16("from", uint16(p.Sender)), zap.Uint8("adv", p.HopCount), zap.Uint8("hops", prev.HopCount))
        return BeaconIgnored
    }
    n.routeChanged(telemetry.RouteLearned, prev)
    n.transmit(protocol.NewBeacon(n.id, p.Seq, n.route.HopCount()), "beacon_relay")
    return RouteLearned
}

// expireRoute drops a route whose last improving beacon is too old.
func (n *Node) expireRoute(now route.Tick) {
    if n.role == RoleSink { return }
    prev := n.route.Snapshot()
    if n.route.Expire(now, n.routeTimeout) {
        n.routeChanged(telemetry.RouteExpired, prev)
    }
}

func (n *Node) routeChanged(ev telemetry.RouteEvent, prev route.Snapshot) {
    cur := n.route.Snapshot()
    n.log.Info("route "+ev.String(),
        zap.Uint16("next_hop", uint16(cur.NextHop)),
        zap.Uint8("hops", cur.HopCount),
        zap.Uint16("prev_next_hop", uint16(prev.NextHop)),
        zap.Uint8("prev_hops", prev.HopCount),
    )
    n.metrics.RouteChanged(ev.String(), cur.HopCount)
    n.events.RouteChanged(telemetry.RouteChange{
        Node:        n.id,
        Event:       ev,
        NextHop:     cur.NextHop,
        HopCount:    cur.HopCount,
        PrevNextHop: prev.NextHop,
        PrevHop:     prev.HopCount,
        At:          time.Now(),
    })
}
