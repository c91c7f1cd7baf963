// Package identity resolves the 16-bit node id a node runs under.
package identity

import (
    "encoding/binary"
    "encoding/hex"
    "errors"
    "fmt"
    "strings"

    "go.uber.org/zap"

    "lightmesh/pkg/config"
    "lightmesh/pkg/protocol"
)

var (
    ErrNoIdentity = errors.New("identity: neither node.id nor node.serial is set")
    ErrReserved   = errors.New("identity: id 0xFFFF is reserved")
)

// Resolve returns the configured id, or derives one from the device serial.
// The serial wins only when no id is configured.
func Resolve(c config.NodeConfig) (protocol.NodeID, error) {
    if c.ID != 0 {
        id := protocol.NodeID(c.ID)
        if id == protocol.NoNode { return 0, ErrReserved }
        return id, nil
    }
    if strings.TrimSpace(c.Serial) == "" { return 0, ErrNoIdentity }
    id, err := FromSerial(c.Serial)
    if err != nil { return 0, err }
    zap.L().Info("node id derived from serial", zap.String("serial", c.Serial), zap.Uint16("id", uint16(id)))
    return id, nil
}

// FromSerial takes the last 16-bit word of a hex device serial, read
// little-endian the way the mote's serial number chip lays it out in
// memory. Separators (':', '-', ' ') and a 0x prefix are ignored.
func FromSerial(serial string) (protocol.NodeID, error) {
    s := strings.ToLower(strings.TrimSpace(serial))
    s = strings.TrimPrefix(s, "0x")
    s = strings.NewReplacer(":", "", "-", "", " ", "").Replace(s)
    b, err := hex.DecodeString(s)
    if err != nil { return 0, fmt.Errorf("identity: serial %q: %w", serial, err) }
    if len(b) < 2 { return 0, fmt.Errorf("identity: serial %q is shorter than one word", serial) }
    id := protocol.NodeID(binary.LittleEndian.Uint16(b[len(b)-2:]))
    if id == protocol.NoNode { return 0, ErrReserved }
    return id, nil
}
