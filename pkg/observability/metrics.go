package observability

import (
    "net/http"
    "strconv"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the protocol counters shared by every node in the process.
// Series carry a "node" label so a simulation can host many nodes.
type Metrics struct {
    framesRx     *prometheus.CounterVec
    framesTx     *prometheus.CounterVec
    txErrors     *prometheus.CounterVec
    deliveries   *prometheus.CounterVec
    routeChanges *prometheus.CounterVec
    routeHops    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
    m := &Metrics{
        framesRx: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "lightmesh_frames_rx_total",
            Help: "Received frames by handling outcome.",
        }, []string{"node", "result"}),
        framesTx: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "lightmesh_frames_tx_total",
            Help: "Transmitted frames by kind.",
        }, []string{"node", "kind"}),
        txErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "lightmesh_tx_errors_total",
            Help: "Frames the radio refused to send.",
        }, []string{"node"}),
        deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "lightmesh_sink_deliveries_total",
            Help: "Readings logged at the sink, once per (sender, seq).",
        }, []string{"node"}),
        routeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "lightmesh_route_changes_total",
            Help: "Route transitions by event.",
        }, []string{"node", "event"}),
        routeHops: prometheus.NewGaugeVec(prometheus.GaugeOpts{
            Name: "lightmesh_route_hops",
            Help: "Current hop count toward the sink (255 = no route).",
        }, []string{"node"}),
    }
    reg.MustRegister(m.framesRx, m.framesTx, m.txErrors, m.deliveries, m.routeChanges, m.routeHops)
    return m
}

// Handler serves the registry in the prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
    return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// For returns the counters of one node. A nil Metrics yields a nil
// NodeMetrics, whose methods do nothing.
func (m *Metrics) For(node uint16) *NodeMetrics {
    if m == nil { return nil }
    id := strconv.Itoa(int(node))
    return &NodeMetrics{m: m, node: id}
}

// NodeMetrics records protocol events for a single node.
type NodeMetrics struct {
    m    *Metrics
    node string
}

func (n *NodeMetrics) FrameReceived(result string) {
    if n == nil { return }
    n.m.framesRx.WithLabelValues(n.node, result).Inc()
}

func (n *NodeMetrics) Transmitted(kind string) {
    if n == nil { return }
    n.m.framesTx.WithLabelValues(n.node, kind).Inc()
}

func (n *NodeMetrics) TransmitFailed() {
    if n == nil { return }
    n.m.txErrors.WithLabelValues(n.node).Inc()
}

func (n *NodeMetrics) Delivered() {
    if n == nil { return }
    n.m.deliveries.WithLabelValues(n.node).Inc()
}

func (n *NodeMetrics) RouteChanged(event string, hops uint8) {
    if n == nil { return }
    n.m.routeChanges.WithLabelValues(n.node, event).Inc()
    n.m.routeHops.WithLabelValues(n.node).Set(float64(hops))
}
