/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mndp

import (
	"net"
	"net/netip"
	"time"
)

// Builder assembles a Neighbor attribute by attribute. Each setter
// overwrites one slot and returns the builder for chaining.
type Builder struct {
	inner Neighbor
}

// NewBuilder creates a Builder for an empty Neighbor.
func NewBuilder() *Builder {
	return new(Builder)
}

// Board sets the hardware board name.
func (b *Builder) Board(value string) *Builder {
	b.inner.Board = &value
	return b
}

// Identity sets the device identity.
func (b *Builder) Identity(value string) *Builder {
	b.inner.Identity = &value
	return b
}

// InterfaceName sets the name of the interface the announcement left through.
func (b *Builder) InterfaceName(value string) *Builder {
	b.inner.InterfaceName = &value
	return b
}

// IPv4Address sets the IPv4 address.
func (b *Builder) IPv4Address(value netip.Addr) *Builder {
	b.inner.IPv4Address = value
	return b
}

// IPv6Address sets the IPv6 address.
func (b *Builder) IPv6Address(value netip.Addr) *Builder {
	b.inner.IPv6Address = value
	return b
}

// MacAddress sets the MAC address. The value is copied.
func (b *Builder) MacAddress(value net.HardwareAddr) *Builder {
	mac := make(net.HardwareAddr, len(value))
	copy(mac, value)
	b.inner.MacAddress = mac
	return b
}

// Platform sets the platform name.
func (b *Builder) Platform(value string) *Builder {
	b.inner.Platform = &value
	return b
}

// SoftwareID sets the software license ID.
func (b *Builder) SoftwareID(value string) *Builder {
	b.inner.SoftwareID = &value
	return b
}

// Unpack sets the header compression mode. UnpackUnsupported is
// accepted here for record-keeping, but ToPacket will refuse to encode it.
func (b *Builder) Unpack(value Unpack) *Builder {
	b.inner.Unpack = &value
	return b
}

// Uptime sets the device uptime.
func (b *Builder) Uptime(value time.Duration) *Builder {
	b.inner.Uptime = &value
	return b
}

// Version sets the software version string.
func (b *Builder) Version(value string) *Builder {
	b.inner.Version = &value
	return b
}

// Build returns the finished Neighbor.
func (b *Builder) Build() *Neighbor {
	neighbor := b.inner
	return &neighbor
}
