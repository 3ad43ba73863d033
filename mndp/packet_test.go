/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mndp_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/eob-labs/mndpd/mndp"
	"github.com/stretchr/testify/assert"
)

// routerCapture is an announcement captured from a RouterOS device
// (RB760iGS "eob-router1").
const routerCapture = "3cc6000000010006c4ad34bf91110005000b656f622d726f7574657231" +
	"0007000f362e34382e312028737461626c6529000800084d696b726f54696b" +
	"000a000441752e00000b0009324150372d5a564335000c0008524237363069" +
	"4753000e000101000f001026006c50067f770000000000000000010010" +
	"0007766c616e31353700110004ac129d01"

func captureBytes(t *testing.T) []byte {
	wire, err := hex.DecodeString(routerCapture)
	assert.NoError(t, err)
	return wire
}

func TestDecodeCapture(t *testing.T) {
	wire := captureBytes(t)
	packet, err := mndp.DecodePacket(wire)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x3cc6), packet.Header)
	assert.Equal(t, uint16(0), packet.Sequence)
	assert.Len(t, packet.Fields, 11)

	assert.Equal(t, mndp.TypeMacAddress, packet.Fields[0].Typ)
	assert.Equal(t, []byte{0xc4, 0xad, 0x34, 0xbf, 0x91, 0x11}, packet.Fields[0].Value)
	assert.Equal(t, mndp.TypeIdentity, packet.Fields[1].Typ)
	assert.Equal(t, []byte("eob-router1"), packet.Fields[1].Value)
	assert.Equal(t, mndp.TypeIPv4Address, packet.Fields[10].Typ)
	assert.Equal(t, []byte{0xac, 0x12, 0x9d, 0x01}, packet.Fields[10].Value)
}

func TestEncodeReproducesCapture(t *testing.T) {
	wire := captureBytes(t)
	packet, err := mndp.DecodePacket(wire)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(wire, packet.Encode()))
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	wire := captureBytes(t)
	packet, err := mndp.DecodePacket(wire)
	assert.NoError(t, err)

	wire[6] = 0xff
	assert.Equal(t, byte(0xc4), packet.Fields[0].Value[0])
}

func TestDecodeTooShort(t *testing.T) {
	for _, wire := range [][]byte{nil, {}, {0x3c}, {0x3c, 0xc6}, {0x3c, 0xc6, 0x00}} {
		packet, err := mndp.DecodePacket(wire)
		assert.ErrorIs(t, err, mndp.ErrTooShort)
		assert.Nil(t, packet)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	packet, err := mndp.DecodePacket([]byte{0x3c, 0xc6, 0x00, 0x07})
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x3cc6), packet.Header)
	assert.Equal(t, uint16(7), packet.Sequence)
	assert.Empty(t, packet.Fields)
	assert.True(t, packet.IsSolicit())
}

func TestDecodeDropsTruncatedTrailingRecord(t *testing.T) {
	wire := []byte{
		0x00, 0x00, 0x00, 0x01, // header, sequence
		0x00, 0x05, 0x00, 0x02, 'h', 'i', // complete identity field
		0x00, 0x07, 0x00, 0x10, 'x', // declares 16 bytes, only 1 remains
	}
	packet, err := mndp.DecodePacket(wire)
	assert.NoError(t, err)
	assert.Len(t, packet.Fields, 1)
	assert.Equal(t, mndp.TypeIdentity, packet.Fields[0].Typ)
	assert.Equal(t, []byte("hi"), packet.Fields[0].Value)
}

func TestDecodeZeroLengthValue(t *testing.T) {
	wire := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00}
	packet, err := mndp.DecodePacket(wire)
	assert.NoError(t, err)
	assert.Len(t, packet.Fields, 1)
	assert.Equal(t, mndp.TypeIdentity, packet.Fields[0].Typ)
	assert.Empty(t, packet.Fields[0].Value)
}

func TestDecodePreservesUnknownTypes(t *testing.T) {
	wire := []byte{0x00, 0x00, 0x00, 0x00, 0xbe, 0xef, 0x00, 0x03, 0x01, 0x02, 0x03}
	packet, err := mndp.DecodePacket(wire)
	assert.NoError(t, err)
	assert.Len(t, packet.Fields, 1)
	assert.Equal(t, uint16(0xbeef), packet.Fields[0].Typ)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, packet.Fields[0].Value)

	// Unknown fields must survive re-encoding
	reDecoded, err := mndp.DecodePacket(packet.Encode())
	assert.NoError(t, err)
	assert.Equal(t, packet.Fields, reDecoded.Fields)
}

func TestEncodeClampsOversizedValue(t *testing.T) {
	oversized := make([]byte, mndp.MaxFieldLength+1024)
	for i := range oversized {
		oversized[i] = byte(i)
	}
	packet := &mndp.Packet{
		Fields: []mndp.TypeValue{{Typ: mndp.TypeIdentity, Value: oversized}},
	}

	reDecoded, err := mndp.DecodePacket(packet.Encode())
	assert.NoError(t, err)
	assert.Len(t, reDecoded.Fields, 1)
	assert.Len(t, reDecoded.Fields[0].Value, mndp.MaxFieldLength)
	assert.Equal(t, oversized[:mndp.MaxFieldLength], reDecoded.Fields[0].Value)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	packet := &mndp.Packet{
		Header:   0x1234,
		Sequence: 42,
		Fields: []mndp.TypeValue{
			{Typ: mndp.TypeIdentity, Value: []byte("router")},
			{Typ: mndp.TypeUnpack, Value: []byte{1}},
			{Typ: 0x7777, Value: []byte{}},
		},
	}

	reDecoded, err := mndp.DecodePacket(packet.Encode())
	assert.NoError(t, err)
	assert.Equal(t, packet.Header, reDecoded.Header)
	assert.Equal(t, packet.Sequence, reDecoded.Sequence)
	assert.Equal(t, packet.Fields, reDecoded.Fields)
}

func TestSolicitPacket(t *testing.T) {
	solicit := mndp.MakeSolicitPacket()
	assert.True(t, solicit.IsSolicit())
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, solicit.Encode())
}
