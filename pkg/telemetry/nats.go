package telemetry

import (
    "fmt"

    "github.com/nats-io/nats.go"
)

// NATSPublisher publishes records to NATS subjects.
type NATSPublisher struct{ nc *nats.Conn }

func DialNATS(url, name string) (*NATSPublisher, error) {
    nc, err := nats.Connect(url, nats.Name(name))
    if err != nil { return nil, fmt.Errorf("nats connect %s: %w", url, err) }
    return &NATSPublisher{nc: nc}, nil
}

// Publish hands data to the client's outbound buffer.
func (p *NATSPublisher) Publish(subject string, data []byte) error { return p.nc.Publish(subject, data) }

func (p *NATSPublisher) Close() error {
    err := p.nc.Flush()
    p.nc.Close()
    return err
}
