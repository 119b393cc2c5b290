package rcon

import (
	"encoding/binary"
	"fmt"
)

// PacketType is the 32-bit packet kind on the wire.
type PacketType int32

const (
	TypeResponse PacketType = 0
	TypeCommand  PacketType = 2
	TypeAuth     PacketType = 3
)

// Wire layout: a 4-byte little-endian length followed by exactly that many
// bytes = 4-byte id, 4-byte type, body, 2-byte null pad. The length field
// excludes itself and includes id+type+body+pad.
const (
	lenFieldSize = 4
	// packetOverhead is id + type + trailing pad, the bytes the length
	// field covers beyond the body.
	packetOverhead = 10
	padSize        = 2
)

// Packet is one framed request or response.
type Packet struct {
	ID   int32
	Type PacketType
	Body string
}

// encodePacket frames p including the length prefix.
func encodePacket(p Packet) []byte {
	length := packetOverhead + len(p.Body)
	buf := make([]byte, lenFieldSize+length)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(length))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(p.ID))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.Type))
	copy(buf[12:], p.Body)
	// trailing pad is already zero
	return buf
}

// decodePacket parses one frame body (the declared-length bytes after the
// length prefix).
func decodePacket(b []byte) (Packet, error) {
	if len(b) < packetOverhead {
		return Packet{}, fmt.Errorf("%w: frame of %d bytes", errMalformedFrame, len(b))
	}
	return Packet{
		ID:   int32(binary.LittleEndian.Uint32(b[0:4])),
		Type: PacketType(binary.LittleEndian.Uint32(b[4:8])),
		Body: string(b[8 : len(b)-padSize]),
	}, nil
}
