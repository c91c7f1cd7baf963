// Package radio defines the link a node transmits and receives frames on,
// plus implementations that stand in for the 802.15.4 air on a host:
// an in-process medium (mem) and datagrams between processes (udp).
//
// Radios are best-effort broadcast: no acknowledgements, no retries and no
// ordering across senders. A full receive queue drops the frame.
package radio

import (
    "errors"
    "strings"

    "lightmesh/pkg/protocol"
)

// Kind identifies the radio implementation.
type Kind int

const (
    KindUnknown Kind = iota
    KindMem
    KindUDP
)

func (k Kind) String() string {
    switch k {
    case KindMem:
        return "mem"
    case KindUDP:
        return "udp"
    default:
        return "unknown"
    }
}

// ParseKind maps a config name to a Kind.
func ParseKind(s string) Kind {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "mem":
        return KindMem
    case "udp", "":
        return KindUDP
    default:
        return KindUnknown
    }
}

// Radio is one node's attachment to the medium. Transmit broadcasts a frame
// to every neighbour in range; Frames yields received frames and is closed
// when the radio is closed.
type Radio interface {
    Transmit(frame []byte) error
    Frames() <-chan []byte
    Close() error
}

// ErrClosed is returned by Transmit after Close.
var ErrClosed = errors.New("radio: closed")

// DefaultQueue is the receive queue depth used when none is configured.
const DefaultQueue = 64

// Acceptable reports whether a received frame has the on-air size. Anything
// else is what the hardware would have discarded before handing it up.
func Acceptable(frame []byte) bool { return len(frame) == protocol.PacketSize }
