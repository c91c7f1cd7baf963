package protocol

import (
    "encoding/binary"
    "fmt"
)

// Fixed packet layout (11 bytes), integers little-endian.
//
//  0       Type       u8   1=beacon 2=data
//  1 ..2   Sender     u16
//  3 ..4   Seq        u16  wraps
//  5       HopCount   u8
//  6 ..7   Light      u16  zero for beacons
//  8 ..9   NextDest   u16  zero for beacons
//  10      Checksum   u8   XOR of bytes 0..9
const (
    PacketSize  = 11
    checksumPos = PacketSize - 1
)

// Packet is the decoded form of one radio frame.
type Packet struct {
    Type     Type
    Sender   NodeID
    Seq      uint16
    HopCount uint8
    Light    uint16
    NextDest NodeID
}

// NewBeacon builds a route advertisement from sender at the given distance.
func NewBeacon(sender NodeID, seq uint16, hops uint8) Packet {
    return Packet{Type: TypeBeacon, Sender: sender, Seq: seq, HopCount: hops}
}

// NewData builds a reading addressed to the next hop toward the sink.
func NewData(sender NodeID, seq uint16, hops uint8, light uint16, next NodeID) Packet {
    return Packet{Type: TypeData, Sender: sender, Seq: seq, HopCount: hops, Light: light, NextDest: next}
}

// Encode serialises p into its on-air form and stamps the checksum.
func Encode(p Packet) []byte {
    buf := make([]byte, PacketSize)
    buf[0] = byte(p.Type)
    binary.LittleEndian.PutUint16(buf[1:3], uint16(p.Sender))
    binary.LittleEndian.PutUint16(buf[3:5], p.Seq)
    buf[5] = p.HopCount
    binary.LittleEndian.PutUint16(buf[6:8], p.Light)
    binary.LittleEndian.PutUint16(buf[8:10], uint16(p.NextDest))
    buf[checksumPos] = Checksum(buf[:checksumPos])
    return buf
}

// Decode validates and parses one frame. Frames of the wrong size, with a
// checksum mismatch or with an unknown type are rejected as a whole.
func Decode(buf []byte) (Packet, error) {
    if len(buf) != PacketSize { return Packet{}, ErrSize }
    if Checksum(buf[:checksumPos]) != buf[checksumPos] { return Packet{}, ErrChecksum }
    p := Packet{
        Type:     Type(buf[0]),
        Sender:   NodeID(binary.LittleEndian.Uint16(buf[1:3])),
        Seq:      binary.LittleEndian.Uint16(buf[3:5]),
        HopCount: buf[5],
        Light:    binary.LittleEndian.Uint16(buf[6:8]),
        NextDest: NodeID(binary.LittleEndian.Uint16(buf[8:10])),
    }
    if p.Type != TypeBeacon && p.Type != TypeData { return Packet{}, ErrType }
    return p, nil
}

// Checksum XOR-folds b into one byte. It catches every single-bit flip but
// two flips in the same bit column cancel out; it is not a MAC.
func Checksum(b []byte) uint8 {
    var sum uint8
    for _, c := range b { sum ^= c }
    return sum
}

func (p Packet) String() string {
    if p.Type == TypeBeacon {
        return fmt.Sprintf("beacon{sender=%d seq=%d hops=%d}", p.Sender, p.Seq, p.HopCount)
    }
    return fmt.Sprintf("%s{sender=%d seq=%d hops=%d light=%d next=%d}", p.Type, p.Sender, p.Seq, p.HopCount, p.Light, p.NextDest)
}
