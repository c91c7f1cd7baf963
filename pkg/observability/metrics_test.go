package observability

import (
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNodeMetricsCounters(t *testing.T) {
    reg := prometheus.NewRegistry()
    m := NewMetrics(reg)
    n := m.For(17)
    n.FrameReceived("forwarded")
    n.FrameReceived("forwarded")
    n.FrameReceived("malformed")
    n.Transmitted("data")
    n.TransmitFailed()
    n.RouteChanged("learned", 2)

    if v := testutil.ToFloat64(m.framesRx.WithLabelValues("17", "forwarded")); v != 2 { t.Fatalf("forwarded = %v", v) }
    if v := testutil.ToFloat64(m.framesRx.WithLabelValues("17", "malformed")); v != 1 { t.Fatalf("malformed = %v", v) }
    if v := testutil.ToFloat64(m.framesTx.WithLabelValues("17", "data")); v != 1 { t.Fatalf("tx = %v", v) }
    if v := testutil.ToFloat64(m.txErrors.WithLabelValues("17")); v != 1 { t.Fatalf("tx errors = %v", v) }
    if v := testutil.ToFloat64(m.routeHops.WithLabelValues("17")); v != 2 { t.Fatalf("hops = %v", v) }
}

func TestNilNodeMetricsIsNoop(t *testing.T) {
    var m *Metrics
    n := m.For(1)
    n.FrameReceived("x")
    n.Transmitted("x")
    n.TransmitFailed()
    n.Delivered()
    n.RouteChanged("learned", 1)
}

func TestHandlerExposesSeries(t *testing.T) {
    reg := prometheus.NewRegistry()
    m := NewMetrics(reg)
    m.For(9999).Delivered()
    rec := httptest.NewRecorder()
    Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
    if !strings.Contains(rec.Body.String(), `lightmesh_sink_deliveries_total{node="9999"} 1`) {
        t.Fatalf("series missing from:\n%s", rec.Body.String())
    }
}
