// Package codec provides the payload encodings used for records that leave
// the radio network (uplink brokers, tooling).
package codec

import "strings"

const (
    ContentJSON  = "application/json"
    ContentCBOR  = "application/cbor"
    ContentProto = "application/x-protobuf"
)

// Codec defines a simple interface for marshaling typed messages.
// Implementations should be deterministic.
type Codec interface {
    ContentType() string
    Marshal(v any) ([]byte, error)
    Unmarshal(data []byte, v any) error
}

// Registry maps format names and content types to codecs.
type Registry struct {
    byType  map[string]Codec
    aliases map[string]string
}

// NewRegistry constructs a registry preloaded with the codecs that don't
// need initialization: JSON and Protobuf. CBOR is added via Register(CBOR()).
func NewRegistry() *Registry {
    r := &Registry{
        byType: make(map[string]Codec),
        aliases: map[string]string{
            "json":     ContentJSON,
            "cbor":     ContentCBOR,
            "proto":    ContentProto,
            "protobuf": ContentProto,
        },
    }
    r.Register(JSON())
    r.Register(Proto())
    return r
}

// NewDefaultRegistry returns a registry with JSON, Protobuf and CBOR.
func NewDefaultRegistry() (*Registry, error) {
    r := NewRegistry()
    c, err := CBOR()
    if err != nil { return nil, err }
    r.Register(c)
    return r, nil
}

// Register adds a codec.
func (r *Registry) Register(c Codec) { r.byType[c.ContentType()] = c }

// Get returns a codec by content type, or nil.
func (r *Registry) Get(contentType string) Codec { return r.byType[contentType] }

// Lookup resolves a short format name ("json", "cbor", "proto") or a content
// type. Empty means JSON. Returns nil when nothing matches.
func (r *Registry) Lookup(name string) Codec {
    n := strings.ToLower(strings.TrimSpace(name))
    if n == "" { n = "json" }
    if ct, ok := r.aliases[n]; ok { n = ct }
    return r.byType[n]
}
