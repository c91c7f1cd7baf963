package node

import (
    "context"
    "errors"
    "testing"
    "time"
)

func TestRunnerStopsOnCancel(t *testing.T) {
    h := newHarness(9999, RoleSink)
    rx := make(chan []byte)
    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan error, 1)
    go func() { done <- NewRunner(h.node, rx, time.Millisecond).Run(ctx) }()
    cancel()
    select {
    case err := <-done:
        if !errors.Is(err, context.Canceled) { t.Fatalf("run err = %v", err) }
    case <-time.After(2 * time.Second):
        t.Fatalf("runner did not stop")
    }
}

func TestRunnerStopsWhenRadioCloses(t *testing.T) {
    h := newHarness(9999, RoleSink)
    rx := make(chan []byte, 1)
    rx <- data(4, 1, 9999)
    close(rx)
    err := NewRunner(h.node, rx, time.Hour).Run(context.Background())
    if !errors.Is(err, ErrRadioClosed) { t.Fatalf("run err = %v", err) }
    if len(h.radio.frames) != 1 { t.Fatalf("first poll should beacon, frames = %d", len(h.radio.frames)) }
    if len(h.events.deliveries) != 1 { t.Fatalf("queued frame not handled") }
}
