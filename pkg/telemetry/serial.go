package telemetry

import (
    "fmt"
    "io"
    "sync"
)

// SerialSink writes deliveries in the line framing the map display reads
// from the sink's serial port:
//
//  <START>DEBUG_INFO=SINK_DATA, ID=17, Light=645, Seq=3<END>
type SerialSink struct {
    mu sync.Mutex
    w  io.Writer
}

func NewSerialSink(w io.Writer) *SerialSink { return &SerialSink{w: w} }

func (s *SerialSink) Delivered(d Delivery) {
    s.mu.Lock(); defer s.mu.Unlock()
    _, _ = fmt.Fprintf(s.w, "<START>DEBUG_INFO=SINK_DATA, ID=%d, Light=%d, Seq=%d<END>\n", d.Sender, d.Light, d.Seq)
}

// RouteChanged is not part of the display framing.
func (s *SerialSink) RouteChanged(RouteChange) {}
