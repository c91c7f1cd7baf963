// Package mem is an in-process broadcast medium. Nodes attach ports and the
// topology is set with explicit links, so a test or simulation decides who
// hears whom.
package mem

import (
    "errors"
    "sync"

    "lightmesh/pkg/protocol"
    "lightmesh/pkg/radio"
)

// Medium connects ports by undirected links.
type Medium struct {
    mu      sync.Mutex
    queue   int
    ports   map[protocol.NodeID]*Port
    links   map[protocol.NodeID]map[protocol.NodeID]struct{}
    dropped uint64
}

// New returns an empty medium. Each port gets a receive queue of the given
// depth.
func New(queue int) *Medium {
    if queue <= 0 { queue = radio.DefaultQueue }
    return &Medium{
        queue: queue,
        ports: make(map[protocol.NodeID]*Port),
        links: make(map[protocol.NodeID]map[protocol.NodeID]struct{}),
    }
}

// Attach creates the port of node id.
func (m *Medium) Attach(id protocol.NodeID) (*Port, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if _, ok := m.ports[id]; ok { return nil, errors.New("mem: port already attached") }
    p := &Port{m: m, id: id, rx: make(chan []byte, m.queue)}
    m.ports[id] = p
    return p, nil
}

// Link puts a and b in range of each other. Linking a node to itself is
// ignored.
func (m *Medium) Link(a, b protocol.NodeID) {
    if a == b { return }
    m.mu.Lock(); defer m.mu.Unlock()
    m.peer(a)[b] = struct{}{}
    m.peer(b)[a] = struct{}{}
}

// Unlink takes a and b out of range.
func (m *Medium) Unlink(a, b protocol.NodeID) {
    m.mu.Lock(); defer m.mu.Unlock()
    delete(m.links[a], b)
    delete(m.links[b], a)
}

// Neighbors returns the nodes in range of id, in no particular order.
func (m *Medium) Neighbors(id protocol.NodeID) []protocol.NodeID {
    m.mu.Lock(); defer m.mu.Unlock()
    out := make([]protocol.NodeID, 0, len(m.links[id]))
    for n := range m.links[id] { out = append(out, n) }
    return out
}

// Dropped counts frames lost to full receive queues.
func (m *Medium) Dropped() uint64 {
    m.mu.Lock(); defer m.mu.Unlock()
    return m.dropped
}

func (m *Medium) peer(id protocol.NodeID) map[protocol.NodeID]struct{} {
    s, ok := m.links[id]
    if !ok {
        s = make(map[protocol.NodeID]struct{})
        m.links[id] = s
    }
    return s
}

func (m *Medium) broadcast(from protocol.NodeID, frame []byte) {
    m.mu.Lock(); defer m.mu.Unlock()
    for to := range m.links[from] {
        p := m.ports[to]
        if p == nil || p.closed { continue }
        b := append([]byte(nil), frame...)
        select {
        case p.rx <- b:
        default:
            m.dropped++
        }
    }
}

// Port is one node's radio on the medium.
type Port struct {
    m      *Medium
    id     protocol.NodeID
    rx     chan []byte
    closed bool
}

var _ radio.Radio = (*Port)(nil)

func (p *Port) ID() protocol.NodeID { return p.id }

func (p *Port) Transmit(frame []byte) error {
    p.m.mu.Lock()
    closed := p.closed
    p.m.mu.Unlock()
    if closed { return radio.ErrClosed }
    p.m.broadcast(p.id, frame)
    return nil
}

func (p *Port) Frames() <-chan []byte { return p.rx }

// Close detaches the port and closes its frame channel.
func (p *Port) Close() error {
    p.m.mu.Lock(); defer p.m.mu.Unlock()
    if p.closed { return nil }
    p.closed = true
    delete(p.m.ports, p.id)
    close(p.rx)
    return nil
}
