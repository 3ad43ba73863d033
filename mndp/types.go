/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package mndp implements the MikroTik Neighbor Discovery Protocol wire
// format: the TLV packet codec and the mapping between packets and
// structured neighbor records. The package performs no I/O.
package mndp

// MNDP field type codes.
const (
	TypeMacAddress    uint16 = 1
	TypeIdentity      uint16 = 5
	TypeVersion       uint16 = 7
	TypePlatform      uint16 = 8
	TypeUptime        uint16 = 10
	TypeSoftwareID    uint16 = 11
	TypeBoard         uint16 = 12
	TypeUnpack        uint16 = 14
	TypeIPv6Address   uint16 = 15
	TypeInterfaceName uint16 = 16
	TypeIPv4Address   uint16 = 17
)

// Unpack indicates the header compression mode advertised by a neighbor.
type Unpack int

// Unpack modes.
const (
	UnpackNone Unpack = iota
	UnpackSimple
	// UnpackUnsupported marks a compression variant whose wire encoding
	// is not characterized. It can be stored on a Neighbor but never
	// encoded into a packet.
	UnpackUnsupported
)

func (u Unpack) String() string {
	switch u {
	case UnpackNone:
		return "none"
	case UnpackSimple:
		return "simple"
	case UnpackUnsupported:
		return "unsupported"
	}
	return "unknown"
}
