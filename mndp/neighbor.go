/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mndp

import (
	"encoding/binary"
	"math"
	"net"
	"net/netip"
	"strings"
	"time"
	"unicode/utf8"
)

// Neighbor is a structured view of one device announcement. Every
// attribute is independently optional: nil pointer, nil slice, or the
// zero netip.Addr means the neighbor did not advertise it.
type Neighbor struct {
	Board         *string          `json:"board,omitempty"`
	Identity      *string          `json:"identity,omitempty"`
	InterfaceName *string          `json:"interface_name,omitempty"`
	IPv4Address   netip.Addr       `json:"ipv4_address,omitempty"`
	IPv6Address   netip.Addr       `json:"ipv6_address,omitempty"`
	MacAddress    net.HardwareAddr `json:"mac_address,omitempty"`
	Platform      *string          `json:"platform,omitempty"`
	SoftwareID    *string          `json:"software_id,omitempty"`
	Unpack        *Unpack          `json:"unpack,omitempty"`
	Uptime        *time.Duration   `json:"uptime,omitempty"`
	Version       *string          `json:"version,omitempty"`
}

// lossyString interprets value as UTF-8, replacing invalid sequences.
func lossyString(value []byte) *string {
	s := strings.ToValidUTF8(string(value), string(utf8.RuneError))
	return &s
}

// ToNeighbor maps the packet's TLV fields onto a Neighbor. Fields are
// folded in wire order with last-write-wins per attribute. Unknown type
// codes and fields with the wrong fixed width are skipped; a single
// malformed field never aborts the rest of the decode.
func (p *Packet) ToNeighbor() *Neighbor {
	n := new(Neighbor)

	for _, tv := range p.Fields {
		switch tv.Typ {
		case TypeBoard:
			n.Board = lossyString(tv.Value)
		case TypeIdentity:
			n.Identity = lossyString(tv.Value)
		case TypeInterfaceName:
			n.InterfaceName = lossyString(tv.Value)
		case TypeIPv4Address:
			if len(tv.Value) == 4 {
				n.IPv4Address, _ = netip.AddrFromSlice(tv.Value)
			}
		case TypeIPv6Address:
			if len(tv.Value) == 16 {
				n.IPv6Address, _ = netip.AddrFromSlice(tv.Value)
			}
		case TypeMacAddress:
			if len(tv.Value) == 6 {
				mac := make(net.HardwareAddr, 6)
				copy(mac, tv.Value)
				n.MacAddress = mac
			}
		case TypePlatform:
			n.Platform = lossyString(tv.Value)
		case TypeSoftwareID:
			n.SoftwareID = lossyString(tv.Value)
		case TypeUnpack:
			if len(tv.Value) >= 1 {
				switch tv.Value[0] {
				case 0:
					unpack := UnpackNone
					n.Unpack = &unpack
				case 1:
					unpack := UnpackSimple
					n.Unpack = &unpack
				}
				// Remaining byte values belong to the uncharacterized
				// compressed variants and are skipped rather than guessed.
			}
		case TypeUptime:
			if len(tv.Value) >= 4 {
				uptime := time.Duration(binary.LittleEndian.Uint32(tv.Value[0:4])) * time.Second
				n.Uptime = &uptime
			}
		case TypeVersion:
			n.Version = lossyString(tv.Value)
		}
	}

	return n
}

// ToPacket creates a Packet advertising every present attribute of the
// neighbor. Fields are emitted in a fixed canonical order so encoding is
// deterministic. An uptime whose second count does not fit in 32 bits is
// omitted rather than wrapped. Returns ErrUnpackUnsupported if the
// neighbor carries the unsupported unpack mode, which has no wire
// encoding.
func (n *Neighbor) ToPacket() (*Packet, error) {
	if n.Unpack != nil && *n.Unpack != UnpackNone && *n.Unpack != UnpackSimple {
		return nil, ErrUnpackUnsupported
	}

	p := new(Packet)

	if n.Board != nil {
		p.Fields = append(p.Fields, TypeValue{Typ: TypeBoard, Value: []byte(*n.Board)})
	}

	if n.Identity != nil {
		p.Fields = append(p.Fields, TypeValue{Typ: TypeIdentity, Value: []byte(*n.Identity)})
	}

	if n.InterfaceName != nil {
		p.Fields = append(p.Fields, TypeValue{Typ: TypeInterfaceName, Value: []byte(*n.InterfaceName)})
	}

	if n.IPv4Address.Is4() {
		addr := n.IPv4Address.As4()
		p.Fields = append(p.Fields, TypeValue{Typ: TypeIPv4Address, Value: addr[:]})
	}

	if n.IPv6Address.IsValid() {
		addr := n.IPv6Address.As16()
		p.Fields = append(p.Fields, TypeValue{Typ: TypeIPv6Address, Value: addr[:]})
	}

	if len(n.MacAddress) == 6 {
		mac := make([]byte, 6)
		copy(mac, n.MacAddress)
		p.Fields = append(p.Fields, TypeValue{Typ: TypeMacAddress, Value: mac})
	}

	if n.Platform != nil {
		p.Fields = append(p.Fields, TypeValue{Typ: TypePlatform, Value: []byte(*n.Platform)})
	}

	if n.SoftwareID != nil {
		p.Fields = append(p.Fields, TypeValue{Typ: TypeSoftwareID, Value: []byte(*n.SoftwareID)})
	}

	if n.Unpack != nil {
		var b byte
		if *n.Unpack == UnpackSimple {
			b = 1
		}
		p.Fields = append(p.Fields, TypeValue{Typ: TypeUnpack, Value: []byte{b}})
	}

	if n.Uptime != nil {
		secs := int64(*n.Uptime / time.Second)
		// Silently omit an uptime that won't fit into a u32
		if secs >= 0 && secs <= math.MaxUint32 {
			value := make([]byte, 4)
			binary.LittleEndian.PutUint32(value, uint32(secs))
			p.Fields = append(p.Fields, TypeValue{Typ: TypeUptime, Value: value})
		}
	}

	if n.Version != nil {
		p.Fields = append(p.Fields, TypeValue{Typ: TypeVersion, Value: []byte(*n.Version)})
	}

	return p, nil
}

func (n *Neighbor) String() string {
	var b strings.Builder
	b.WriteString("Neighbor")
	if n.MacAddress != nil {
		b.WriteString(", MAC=" + n.MacAddress.String())
	}
	if n.Identity != nil {
		b.WriteString(", Identity=" + *n.Identity)
	}
	if n.IPv4Address.IsValid() {
		b.WriteString(", IPv4=" + n.IPv4Address.String())
	}
	if n.IPv6Address.IsValid() {
		b.WriteString(", IPv6=" + n.IPv6Address.String())
	}
	return b.String()
}
