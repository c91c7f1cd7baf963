package protocol

import "fmt"

// NodeID is the 16-bit identity a node answers to on air.
type NodeID uint16

// Type distinguishes the two packet shapes sharing the wire header.
type Type uint8

const (
    TypeUnknown Type = iota
    TypeBeacon       // route advertisement, flooded hop by hop
    TypeData         // sensor reading, forwarded next hop to next hop
)

func (t Type) String() string {
    switch t {
    case TypeBeacon:
        return "beacon"
    case TypeData:
        return "data"
    default:
        return fmt.Sprintf("type(%d)", uint8(t))
    }
}

const (
    // NoNode marks "no next hop". It is never a valid node identity.
    NoNode NodeID = 0xFFFF

    // HopInfinity is the hop count of a node without a route.
    HopInfinity uint8 = 255

    // DefaultSinkID is the gateway id the motes ship with.
    DefaultSinkID NodeID = 9999
)
