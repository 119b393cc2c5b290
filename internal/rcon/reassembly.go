package rcon

import (
	"encoding/binary"
	"fmt"
)

// reassembler reconstructs complete packets from an arbitrarily chunked
// byte stream. Reads may carry zero, one, or many complete packets, and may
// split anywhere including inside the length or id fields; bytes not yet
// forming a complete packet stay in the residual buffer.
type reassembler struct {
	residual []byte
	maxFrame int
}

func newReassembler(maxFrame int) *reassembler {
	return &reassembler{maxFrame: maxFrame}
}

// feed appends chunk to the residual buffer and slices off every complete
// packet now present. Packets decoded before a malformed frame are returned
// alongside the error.
func (r *reassembler) feed(chunk []byte) ([]Packet, error) {
	r.residual = append(r.residual, chunk...)
	var out []Packet
	for len(r.residual) >= lenFieldSize {
		declared := int(int32(binary.LittleEndian.Uint32(r.residual[:lenFieldSize])))
		if declared < packetOverhead || declared > r.maxFrame {
			return out, fmt.Errorf("%w: declared length %d", errMalformedFrame, declared)
		}
		total := lenFieldSize + declared
		if len(r.residual) < total {
			break
		}
		p, err := decodePacket(r.residual[lenFieldSize:total])
		if err != nil {
			return out, err
		}
		out = append(out, p)
		r.residual = append(r.residual[:0:0], r.residual[total:]...)
	}
	return out, nil
}
