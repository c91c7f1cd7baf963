// Command lightmesh-frame builds and inspects on-air frames.
//
//  lightmesh-frame encode -type data -sender 17 -seq 3 -hops 2 -light 645 -next 4
//  lightmesh-frame decode 0211000300028502040091
package main

import (
    "encoding/hex"
    "flag"
    "fmt"
    "os"
    "strings"

    "lightmesh/pkg/protocol"
)

func main() {
    if len(os.Args) < 2 { usage() }
    var err error
    switch os.Args[1] {
    case "encode":
        err = encode(os.Args[2:])
    case "decode":
        err = decode(os.Args[2:])
    default:
        usage()
    }
    if err != nil {
        fmt.Fprintln(os.Stderr, "error:", err)
        os.Exit(1)
    }
}

func usage() {
    fmt.Fprintln(os.Stderr, "usage: lightmesh-frame encode [flags] | decode <hex>...")
    os.Exit(2)
}

func encode(args []string) error {
    fs := flag.NewFlagSet("encode", flag.ExitOnError)
    typ := fs.String("type", "data", "beacon or data")
    sender := fs.Uint("sender", 1, "sender id")
    seq := fs.Uint("seq", 0, "sequence number")
    hops := fs.Uint("hops", 0, "hop count")
    light := fs.Uint("light", 0, "light reading (data only)")
    next := fs.Uint("next", uint(protocol.DefaultSinkID), "next destination (data only)")
    _ = fs.Parse(args)

    var p protocol.Packet
    switch *typ {
    case "beacon":
        p = protocol.NewBeacon(protocol.NodeID(*sender), uint16(*seq), uint8(*hops))
    case "data":
        p = protocol.NewData(protocol.NodeID(*sender), uint16(*seq), uint8(*hops), uint16(*light), protocol.NodeID(*next))
    default:
        return fmt.Errorf("unknown type %q", *typ)
    }
    b := protocol.Encode(p)
    fmt.Printf("%s  %s\n", hex.EncodeToString(b), p)
    return nil
}

func decode(args []string) error {
    if len(args) == 0 { return fmt.Errorf("decode needs at least one hex frame") }
    failed := 0
    for _, a := range args {
        raw, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(a), " ", ""))
        if err != nil { return fmt.Errorf("%q: %w", a, err) }
        p, err := protocol.Decode(raw)
        if err != nil {
            fmt.Printf("%s  invalid: %v (want checksum %02x)\n", a, err, checksumOf(raw))
            failed++
            continue
        }
        fmt.Printf("%s  %s\n", a, p)
    }
    if failed > 0 { return fmt.Errorf("%d of %d frames invalid", failed, len(args)) }
    return nil
}

func checksumOf(b []byte) uint8 {
    if len(b) < protocol.PacketSize { return protocol.Checksum(b) }
    return protocol.Checksum(b[:protocol.PacketSize-1])
}
