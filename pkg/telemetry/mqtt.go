package telemetry

import (
    "fmt"
    "time"

    mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher publishes records to an MQTT broker.
type MQTTPublisher struct {
    c   mqtt.Client
    qos byte
}

// DialMQTT connects to broker (e.g. tcp://localhost:1883) and waits up to
// timeout for the CONNACK.
func DialMQTT(broker, clientID string, qos byte, timeout time.Duration) (*MQTTPublisher, error) {
    opts := mqtt.NewClientOptions().
        AddBroker(broker).
        SetClientID(clientID).
        SetAutoReconnect(true).
        SetConnectTimeout(timeout)
    c := mqtt.NewClient(opts)
    tok := c.Connect()
    if !tok.WaitTimeout(timeout) { return nil, fmt.Errorf("mqtt connect %s: timed out", broker) }
    if err := tok.Error(); err != nil { return nil, fmt.Errorf("mqtt connect %s: %w", broker, err) }
    return &MQTTPublisher{c: c, qos: qos}, nil
}

// Publish queues the message; only failures already known are returned.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
    tok := p.c.Publish(topic, p.qos, false, payload)
    select {
    case <-tok.Done():
        return tok.Error()
    default:
        return nil
    }
}

func (p *MQTTPublisher) Close() error {
    p.c.Disconnect(250)
    return nil
}
