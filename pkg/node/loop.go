package node

import (
    "context"
    "errors"
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/protocol"
)

// Outcome is how one received frame was handled.
type Outcome uint8

const (
    Malformed Outcome = iota
    BeaconIgnored
    RouteLearned
    NotForUs
    NoRoute
    Duplicate
    Forwarded
    Delivered
)

func (o Outcome) String() string {
    switch o {
    case Malformed:
        return "malformed"
    case BeaconIgnored:
        return "beacon_ignored"
    case RouteLearned:
        return "route_learned"
    case NotForUs:
        return "not_for_us"
    case NoRoute:
        return "no_route"
    case Duplicate:
        return "duplicate"
    case Forwarded:
        return "forwarded"
    case Delivered:
        return "delivered"
    default:
        return "unknown"
    }
}

// HandleFrame is the single intake for received frames. Invalid frames are
// dropped before any state changes; nothing is ever reported back to the
// sender.
func (n *Node) HandleFrame(frame []byte) Outcome {
    out := n.handle(frame)
    n.metrics.FrameReceived(out.String())
    return out
}

func (n *Node) handle(frame []byte) Outcome {
    p, err := protocol.Decode(frame)
    if err != nil {
        n.log.Debug("frame dropped", zap.Int("len", len(frame)), zap.Error(err))
        return Malformed
    }
    switch p.Type {
    case protocol.TypeBeacon:
        return n.handleBeacon(p, n.clock.Now())
    default:
        return n.handleData(p)
    }
}

// Poll runs the time-driven work: beacon origination on the sink, route
// expiry and sampling on everyone else.
func (n *Node) Poll() {
    now := n.clock.Now()
    if n.role == RoleSink {
        if !n.beaconSent || now.Since(n.lastBeacon) >= n.beaconEvery {
            n.originateBeacon(now)
        }
        return
    }
    n.expireRoute(now)
    if now.Since(n.lastSample) >= n.sampleEvery {
        n.lastSample = now
        n.originateData()
    }
}

// ErrRadioClosed is returned by Run when the inbound frame channel closes.
var ErrRadioClosed = errors.New("node: radio closed")

// Runner drives a Node from one goroutine: inbound frames are handled one at
// a time and Poll runs on a short idle ticker.
type Runner struct {
    node  *Node
    rx    <-chan []byte
    every time.Duration
}

func NewRunner(n *Node, rx <-chan []byte, pollEvery time.Duration) *Runner {
    if pollEvery <= 0 { pollEvery = 50 * time.Millisecond }
    return &Runner{node: n, rx: rx, every: pollEvery}
}

// Run blocks until ctx is done or the radio closes.
func (r *Runner) Run(ctx context.Context) error {
    t := time.NewTicker(r.every)
    defer t.Stop()
    r.node.log.Info("node running", zap.Duration("poll", r.every))
    r.node.Poll()
    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case b, ok := <-r.rx:
            if !ok { return ErrRadioClosed }
            r.node.HandleFrame(b)
        case <-t.C:
            r.node.Poll()
        }
    }
}
