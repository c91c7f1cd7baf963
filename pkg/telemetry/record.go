package telemetry

import (
    "fmt"

    "google.golang.org/protobuf/types/known/structpb"

    "lightmesh/pkg/protocol/codec"
)

// RecordEncoder turns deliveries into uplink payloads using one codec from
// the registry.
type RecordEncoder struct {
    c codec.Codec
}

// NewRecordEncoder picks the codec for format ("json", "cbor", "proto" or a
// content type).
func NewRecordEncoder(reg *codec.Registry, format string) (*RecordEncoder, error) {
    c := reg.Lookup(format)
    if c == nil { return nil, fmt.Errorf("telemetry: no codec for format %q", format) }
    return &RecordEncoder{c: c}, nil
}

// ContentType of the produced payloads.
func (e *RecordEncoder) ContentType() string { return e.c.ContentType() }

func (e *RecordEncoder) Encode(d Delivery) ([]byte, error) {
    fields := recordFields(d)
    if e.c.ContentType() == codec.ContentProto {
        st, err := structpb.NewStruct(fields)
        if err != nil { return nil, fmt.Errorf("telemetry: proto record: %w", err) }
        return e.c.Marshal(st)
    }
    return e.c.Marshal(fields)
}

func recordFields(d Delivery) map[string]any {
    m := map[string]any{
        "sink":   int64(d.Sink),
        "sender": int64(d.Sender),
        "light":  int64(d.Light),
        "seq":    int64(d.Seq),
        "hops":   int64(d.HopCount),
    }
    if !d.At.IsZero() { m["ts_unix_ms"] = d.At.UnixMilli() }
    return m
}
