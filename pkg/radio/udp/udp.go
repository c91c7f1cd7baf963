// Package udp emulates the radio air with UDP datagrams between processes on
// a host or LAN. Each node listens on one address and "broadcasts" by
// sending every frame to each configured neighbour.
package udp

import (
    "errors"
    "fmt"
    "net"
    "sync"

    "go.uber.org/zap"

    "lightmesh/pkg/radio"
)

// Radio is a radio.Radio over one UDP socket.
type Radio struct {
    conn *net.UDPConn
    rx   chan []byte

    mu        sync.Mutex
    neighbors []*net.UDPAddr

    closeOnce sync.Once
    closed    chan struct{}
    log       *zap.Logger
}

var _ radio.Radio = (*Radio)(nil)

// Listen binds address and starts receiving. Frames that are not exactly one
// packet long are discarded on arrival.
func Listen(address string, neighbors []string, queue int) (*Radio, error) {
    laddr, err := net.ResolveUDPAddr("udp", address)
    if err != nil { return nil, fmt.Errorf("udp radio: resolve %q: %w", address, err) }
    c, err := net.ListenUDP("udp", laddr)
    if err != nil { return nil, fmt.Errorf("udp radio: listen: %w", err) }
    if queue <= 0 { queue = radio.DefaultQueue }
    r := &Radio{
        conn:   c,
        rx:     make(chan []byte, queue),
        closed: make(chan struct{}),
        log:    zap.L().With(zap.String("radio", "udp"), zap.Stringer("listen", c.LocalAddr())),
    }
    if err := r.SetNeighbors(neighbors); err != nil {
        _ = c.Close()
        return nil, err
    }
    go r.readLoop()
    return r, nil
}

// SetNeighbors replaces the set of addresses frames are sent to.
func (r *Radio) SetNeighbors(addrs []string) error {
    out := make([]*net.UDPAddr, 0, len(addrs))
    for _, a := range addrs {
        ua, err := net.ResolveUDPAddr("udp", a)
        if err != nil { return fmt.Errorf("udp radio: neighbor %q: %w", a, err) }
        out = append(out, ua)
    }
    r.mu.Lock()
    r.neighbors = out
    r.mu.Unlock()
    return nil
}

func (r *Radio) LocalAddr() net.Addr { return r.conn.LocalAddr() }

// Transmit sends frame to every neighbour. A neighbour that cannot be
// reached does not stop delivery to the others.
func (r *Radio) Transmit(frame []byte) error {
    select {
    case <-r.closed:
        return radio.ErrClosed
    default:
    }
    r.mu.Lock()
    nbrs := r.neighbors
    r.mu.Unlock()
    var errs []error
    for _, a := range nbrs {
        if _, err := r.conn.WriteToUDP(frame, a); err != nil {
            errs = append(errs, fmt.Errorf("%s: %w", a, err))
        }
    }
    return errors.Join(errs...)
}

func (r *Radio) Frames() <-chan []byte { return r.rx }

func (r *Radio) Close() error {
    var err error
    r.closeOnce.Do(func() {
        close(r.closed)
        err = r.conn.Close()
    })
    return err
}

func (r *Radio) readLoop() {
    defer close(r.rx)
    buf := make([]byte, 2048)
    for {
        n, from, err := r.conn.ReadFromUDP(buf)
        if err != nil {
            select {
            case <-r.closed:
            default:
                r.log.Warn("read failed", zap.Error(err))
            }
            return
        }
        if !radio.Acceptable(buf[:n]) {
            r.log.Debug("frame discarded", zap.Int("len", n), zap.Stringer("from", from))
            continue
        }
        pkt := make([]byte, n)
        copy(pkt, buf[:n])
        select {
        case r.rx <- pkt:
        default:
            r.log.Debug("rx queue full, frame dropped", zap.Stringer("from", from))
        }
    }
}
