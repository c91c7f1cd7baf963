package telemetry

import (
    "fmt"
    "io"
    "time"

    "go.uber.org/zap"

    "lightmesh/pkg/config"
    "lightmesh/pkg/protocol/codec"
)

// FromConfig assembles the sink's event pipeline: the structured log always,
// serial display lines on serial when enabled, and a broker uplink when one
// is configured. The returned close func releases the uplink.
func FromConfig(u config.UplinkConfig, serial io.Writer) (EventSink, func() error, error) {
    sinks := Multi{NewZapSink(nil)}
    if u.SerialFrames && serial != nil { sinks = append(sinks, NewSerialSink(serial)) }
    noop := func() error { return nil }
    if u.Kind == "" || u.Kind == "none" { return sinks, noop, nil }

    reg, err := codec.NewDefaultRegistry()
    if err != nil { return nil, nil, err }
    enc, err := NewRecordEncoder(reg, u.Format)
    if err != nil { return nil, nil, err }

    timeout := time.Duration(u.ConnectTimeoutMS) * time.Millisecond
    var (
        pub Publisher
        sep string
    )
    switch u.Kind {
    case "mqtt":
        pub, err = DialMQTT(u.URL, u.ClientID, byte(u.QoS), timeout)
        sep = "/"
    case "nats":
        pub, err = DialNATS(u.URL, u.ClientID)
        sep = "."
    default:
        return nil, nil, fmt.Errorf("telemetry: unknown uplink kind %q", u.Kind)
    }
    if err != nil { return nil, nil, err }
    zap.L().Info("uplink connected", zap.String("kind", u.Kind), zap.String("url", u.URL), zap.String("content_type", enc.ContentType()))
    up := NewUplinkSink(pub, enc, u.Topic, sep)
    return append(sinks, up), up.Close, nil
}
