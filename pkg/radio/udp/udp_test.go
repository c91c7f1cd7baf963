package udp

import (
    "bytes"
    "errors"
    "net"
    "testing"
    "time"

    "lightmesh/pkg/protocol"
    "lightmesh/pkg/radio"
)

func listenLoopback(t *testing.T) *Radio {
    t.Helper()
    r, err := Listen("127.0.0.1:0", nil, 8)
    if err != nil { t.Fatalf("listen: %v", err) }
    t.Cleanup(func() { _ = r.Close() })
    return r
}

func waitFrame(t *testing.T, r *Radio) []byte {
    t.Helper()
    select {
    case b := <-r.Frames():
        return b
    case <-time.After(2 * time.Second):
        t.Fatalf("no frame received")
        return nil
    }
}

func TestLoopbackDelivery(t *testing.T) {
    a := listenLoopback(t)
    b := listenLoopback(t)
    if err := a.SetNeighbors([]string{b.LocalAddr().String()}); err != nil { t.Fatalf("neighbors: %v", err) }

    frame := protocol.Encode(protocol.NewData(4, 9, 2, 321, 7))
    if err := a.Transmit(frame); err != nil { t.Fatalf("transmit: %v", err) }
    if got := waitFrame(t, b); !bytes.Equal(got, frame) { t.Fatalf("got %x want %x", got, frame) }
}

func TestWrongSizeDiscarded(t *testing.T) {
    b := listenLoopback(t)
    c, err := net.DialUDP("udp", nil, b.LocalAddr().(*net.UDPAddr))
    if err != nil { t.Fatalf("dial: %v", err) }
    defer c.Close()

    good := protocol.Encode(protocol.NewBeacon(9999, 1, 0))
    _, _ = c.Write([]byte{1, 2, 3})
    _, _ = c.Write(append(append([]byte(nil), good...), 0))
    _, _ = c.Write(good)
    if got := waitFrame(t, b); !bytes.Equal(got, good) { t.Fatalf("first accepted frame = %x", got) }
}

func TestCloseEndsFrames(t *testing.T) {
    r, err := Listen("127.0.0.1:0", nil, 0)
    if err != nil { t.Fatalf("listen: %v", err) }
    _ = r.Close()
    select {
    case _, ok := <-r.Frames():
        if ok { t.Fatalf("frame after close") }
    case <-time.After(2 * time.Second):
        t.Fatalf("frames channel not closed")
    }
    if err := r.Transmit(make([]byte, protocol.PacketSize)); !errors.Is(err, radio.ErrClosed) { t.Fatalf("transmit after close = %v", err) }
}

func TestBadNeighbor(t *testing.T) {
    if _, err := Listen("127.0.0.1:0", []string{"not an address"}, 1); err == nil { t.Fatalf("bad neighbor accepted") }
}
