/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mndp_test

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/eob-labs/mndpd/mndp"
	"github.com/stretchr/testify/assert"
)

func TestCaptureToNeighbor(t *testing.T) {
	packet, err := mndp.DecodePacket(captureBytes(t))
	assert.NoError(t, err)
	neighbor := packet.ToNeighbor()

	expectedMAC, _ := net.ParseMAC("c4:ad:34:bf:91:11")
	assert.Equal(t, expectedMAC, neighbor.MacAddress)
	assert.Equal(t, "eob-router1", *neighbor.Identity)
	assert.Equal(t, "6.48.1 (stable)", *neighbor.Version)
	assert.Equal(t, "MikroTik", *neighbor.Platform)
	assert.Equal(t, 3044673*time.Second, *neighbor.Uptime)
	assert.Equal(t, "2AP7-ZVC5", *neighbor.SoftwareID)
	assert.Equal(t, "RB760iGS", *neighbor.Board)
	assert.Equal(t, mndp.UnpackSimple, *neighbor.Unpack)
	assert.Equal(t, netip.MustParseAddr("2600:6c50:67f:7700::1"), neighbor.IPv6Address)
	assert.Equal(t, "vlan157", *neighbor.InterfaceName)
	assert.Equal(t, netip.MustParseAddr("172.18.157.1"), neighbor.IPv4Address)
}

func TestNeighborRoundTrip(t *testing.T) {
	mac, _ := net.ParseMAC("aa:bb:cc:dd:ee:ff")
	neighbor := mndp.NewBuilder().
		Board("RB5009UG").
		Identity("core-switch").
		InterfaceName("ether1").
		IPv4Address(netip.MustParseAddr("192.168.88.1")).
		IPv6Address(netip.MustParseAddr("fe80::1")).
		MacAddress(mac).
		Platform("MikroTik").
		SoftwareID("ABCD-1234").
		Unpack(mndp.UnpackNone).
		Uptime(450 * time.Second).
		Version("7.14.2").
		Build()

	packet, err := neighbor.ToPacket()
	assert.NoError(t, err)
	reDecoded, err := mndp.DecodePacket(packet.Encode())
	assert.NoError(t, err)
	assert.Equal(t, neighbor, reDecoded.ToNeighbor())
}

func TestToPacketCanonicalOrder(t *testing.T) {
	mac, _ := net.ParseMAC("aa:bb:cc:dd:ee:ff")
	neighbor := mndp.NewBuilder().
		Version("7.1").
		Uptime(time.Minute).
		Unpack(mndp.UnpackSimple).
		SoftwareID("X").
		Platform("MikroTik").
		MacAddress(mac).
		IPv6Address(netip.MustParseAddr("fe80::1")).
		IPv4Address(netip.MustParseAddr("10.0.0.1")).
		InterfaceName("ether1").
		Identity("r1").
		Board("RB1").
		Build()

	packet, err := neighbor.ToPacket()
	assert.NoError(t, err)

	types := make([]uint16, 0, len(packet.Fields))
	for _, tv := range packet.Fields {
		types = append(types, tv.Typ)
	}
	assert.Equal(t, []uint16{
		mndp.TypeBoard, mndp.TypeIdentity, mndp.TypeInterfaceName,
		mndp.TypeIPv4Address, mndp.TypeIPv6Address, mndp.TypeMacAddress,
		mndp.TypePlatform, mndp.TypeSoftwareID, mndp.TypeUnpack,
		mndp.TypeUptime, mndp.TypeVersion,
	}, types)
}

func TestAbsentAttributesEmitNothing(t *testing.T) {
	packet, err := mndp.NewBuilder().Identity("lonely").Build().ToPacket()
	assert.NoError(t, err)
	assert.Len(t, packet.Fields, 1)
	assert.Equal(t, mndp.TypeIdentity, packet.Fields[0].Typ)

	neighbor := packet.ToNeighbor()
	assert.Nil(t, neighbor.Board)
	assert.Nil(t, neighbor.MacAddress)
	assert.Nil(t, neighbor.Unpack)
	assert.Nil(t, neighbor.Uptime)
	assert.False(t, neighbor.IPv4Address.IsValid())
	assert.False(t, neighbor.IPv6Address.IsValid())
}

func TestTextDecodingNeverFails(t *testing.T) {
	packet := &mndp.Packet{Fields: []mndp.TypeValue{
		{Typ: mndp.TypeIdentity, Value: []byte{0xff, 0xfe, 'o', 'k', 0x80}},
	}}
	neighbor := packet.ToNeighbor()
	assert.NotNil(t, neighbor.Identity)
	assert.Contains(t, *neighbor.Identity, "ok")
	assert.True(t, len(*neighbor.Identity) > 0)
}

func TestFixedWidthMismatchDropsOnlyThatField(t *testing.T) {
	packet := &mndp.Packet{Fields: []mndp.TypeValue{
		{Typ: mndp.TypeIPv4Address, Value: []byte{10, 0, 0}},           // 3 bytes, dropped
		{Typ: mndp.TypeIPv6Address, Value: make([]byte, 15)},           // 15 bytes, dropped
		{Typ: mndp.TypeMacAddress, Value: []byte{1, 2, 3, 4, 5, 6, 7}}, // 7 bytes, dropped
		{Typ: mndp.TypeIdentity, Value: []byte("still-here")},
	}}
	neighbor := packet.ToNeighbor()
	assert.False(t, neighbor.IPv4Address.IsValid())
	assert.False(t, neighbor.IPv6Address.IsValid())
	assert.Nil(t, neighbor.MacAddress)
	assert.Equal(t, "still-here", *neighbor.Identity)
}

func TestUnknownTypeCodesIgnored(t *testing.T) {
	packet := &mndp.Packet{Fields: []mndp.TypeValue{
		{Typ: 0x4242, Value: []byte("vendor extension")},
		{Typ: mndp.TypeIdentity, Value: []byte("r1")},
	}}
	neighbor := packet.ToNeighbor()
	assert.Equal(t, "r1", *neighbor.Identity)
}

func TestLastWriteWins(t *testing.T) {
	packet := &mndp.Packet{Fields: []mndp.TypeValue{
		{Typ: mndp.TypeIdentity, Value: []byte("first")},
		{Typ: mndp.TypeIdentity, Value: []byte("second")},
	}}
	assert.Equal(t, "second", *packet.ToNeighbor().Identity)
}

func TestUnpackDecoding(t *testing.T) {
	for _, tt := range []struct {
		value    []byte
		expected *mndp.Unpack
	}{
		{[]byte{0}, unpackPtr(mndp.UnpackNone)},
		{[]byte{1}, unpackPtr(mndp.UnpackSimple)},
		{[]byte{2}, nil}, // uncharacterized variant
		{[]byte{}, nil},
	} {
		packet := &mndp.Packet{Fields: []mndp.TypeValue{{Typ: mndp.TypeUnpack, Value: tt.value}}}
		assert.Equal(t, tt.expected, packet.ToNeighbor().Unpack)
	}
}

func TestMalformedUnpackKeepsEarlierValue(t *testing.T) {
	packet := &mndp.Packet{Fields: []mndp.TypeValue{
		{Typ: mndp.TypeUnpack, Value: []byte{1}},
		{Typ: mndp.TypeUnpack, Value: []byte{9}},
	}}
	neighbor := packet.ToNeighbor()
	assert.Equal(t, mndp.UnpackSimple, *neighbor.Unpack)
}

func TestUptimeTooShortDropped(t *testing.T) {
	packet := &mndp.Packet{Fields: []mndp.TypeValue{
		{Typ: mndp.TypeUptime, Value: []byte{0x75, 0x41}},
	}}
	assert.Nil(t, packet.ToNeighbor().Uptime)
}

func TestUptimeOverflowOmittedOnEncode(t *testing.T) {
	neighbor := mndp.NewBuilder().
		Identity("r1").
		Uptime((1 << 33) * time.Second).
		Build()
	packet, err := neighbor.ToPacket()
	assert.NoError(t, err)
	for _, tv := range packet.Fields {
		assert.NotEqual(t, mndp.TypeUptime, tv.Typ)
	}
}

func TestUnsupportedUnpackRefusedOnEncode(t *testing.T) {
	neighbor := mndp.NewBuilder().Unpack(mndp.UnpackUnsupported).Build()
	packet, err := neighbor.ToPacket()
	assert.ErrorIs(t, err, mndp.ErrUnpackUnsupported)
	assert.Nil(t, packet)
}

func unpackPtr(u mndp.Unpack) *mndp.Unpack {
	return &u
}
