package protocol

import "errors"

var (
    ErrSize     = errors.New("packet: wrong frame size")
    ErrChecksum = errors.New("packet: checksum mismatch")
    ErrType     = errors.New("packet: unknown type")
)
