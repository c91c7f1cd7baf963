package telemetry

import (
    "strconv"

    "go.uber.org/zap"
)

// Publisher moves encoded records to a broker. Publish must not wait for the
// broker to acknowledge.
type Publisher interface {
    Publish(subject string, payload []byte) error
    Close() error
}

// UplinkSink publishes every delivery to "<topic><sep><sender>".
type UplinkSink struct {
    pub   Publisher
    enc   *RecordEncoder
    topic string
    sep   string
}

// NewUplinkSink wires enc and pub together. sep is "/" for MQTT topics and
// "." for NATS subjects.
func NewUplinkSink(pub Publisher, enc *RecordEncoder, topic, sep string) *UplinkSink {
    return &UplinkSink{pub: pub, enc: enc, topic: topic, sep: sep}
}

func (u *UplinkSink) Delivered(d Delivery) {
    b, err := u.enc.Encode(d)
    if err != nil {
        zap.L().Warn("uplink encode failed", zap.Uint16("sender", uint16(d.Sender)), zap.Error(err))
        return
    }
    subj := u.topic + u.sep + strconv.Itoa(int(d.Sender))
    if err := u.pub.Publish(subj, b); err != nil {
        zap.L().Warn("uplink publish failed", zap.String("subject", subj), zap.Error(err))
    }
}

func (u *UplinkSink) RouteChanged(RouteChange) {}

// Close releases the underlying broker connection.
func (u *UplinkSink) Close() error { return u.pub.Close() }
