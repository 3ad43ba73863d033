/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mndp

import (
	"encoding/binary"

	"github.com/eob-labs/mndpd/utils/comparison"
)

// MaxFieldLength is the largest value length expressible by a TLV length prefix.
const MaxFieldLength = 65535

// TypeValue is an individual TLV field within an MNDP packet. The wire
// length is implicit from the length of Value. Type codes outside the
// known set are carried verbatim so that vendor-specific fields survive
// a decode/encode cycle.
type TypeValue struct {
	Typ   uint16
	Value []byte
}

// Packet is a parsed MNDP packet: a 2-byte header and 2-byte sequence
// number (both preserved verbatim, semantics opaque) followed by TLV
// fields in wire order.
type Packet struct {
	Header   uint16
	Sequence uint16
	Fields   []TypeValue
}

// DecodePacket parses an MNDP packet from raw bytes. It returns
// ErrTooShort if fewer than 4 bytes are supplied; no other input is an
// error. A trailing TLV record whose declared length exceeds the bytes
// remaining is discarded, which keeps truncated captures usable. Value
// bytes are copied, so the returned packet does not alias wire.
func DecodePacket(wire []byte) (*Packet, error) {
	if len(wire) < 4 {
		return nil, ErrTooShort
	}

	p := new(Packet)
	p.Header = binary.BigEndian.Uint16(wire[0:2])
	p.Sequence = binary.BigEndian.Uint16(wire[2:4])

	buf := wire[4:]
	for len(buf) >= 4 {
		typ := binary.BigEndian.Uint16(buf[0:2])
		length := int(binary.BigEndian.Uint16(buf[2:4]))
		buf = buf[4:]

		if length > len(buf) {
			// Truncated trailing record
			break
		}

		value := make([]byte, length)
		copy(value, buf[:length])
		p.Fields = append(p.Fields, TypeValue{Typ: typ, Value: value})
		buf = buf[length:]
	}

	return p, nil
}

// Encode produces the wire representation of the packet. Fields are
// emitted in list order. A value longer than MaxFieldLength is truncated
// to that many bytes so the length prefix cannot overflow.
func (p *Packet) Encode() []byte {
	size := 4
	for i := range p.Fields {
		size += 4 + comparison.Min(len(p.Fields[i].Value), MaxFieldLength)
	}

	wire := make([]byte, 4, size)
	binary.BigEndian.PutUint16(wire[0:2], p.Header)
	binary.BigEndian.PutUint16(wire[2:4], p.Sequence)

	for _, tv := range p.Fields {
		length := comparison.Min(len(tv.Value), MaxFieldLength)
		var tl [4]byte
		binary.BigEndian.PutUint16(tl[0:2], tv.Typ)
		binary.BigEndian.PutUint16(tl[2:4], uint16(length))
		wire = append(wire, tl[:]...)
		wire = append(wire, tv.Value[:length]...)
	}

	return wire
}

// IsSolicit returns whether this packet is a discovery solicitation,
// i.e. carries no fields. RouterOS devices answer these with an
// immediate announcement.
func (p *Packet) IsSolicit() bool {
	return len(p.Fields) == 0
}

// MakeSolicitPacket creates the 4-byte all-zero packet that solicits
// announcements from listening devices.
func MakeSolicitPacket() *Packet {
	return new(Packet)
}
