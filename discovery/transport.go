/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/Link512/stealthpool"
	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/discovery/impl"
)

// MaxPacketSize is the largest MNDP datagram we accept, bounded by the
// Ethernet payload size.
const MaxPacketSize = 1500

// datagram is one received payload plus where it came from. block is
// the full pool buffer; only block[:size] is meaningful.
type datagram struct {
	block  []byte
	size   int
	remote net.Addr
	pooled bool
}

// UDPTransport sends and receives MNDP datagrams on the IPv4 broadcast
// domain. Receive buffers come from an off-heap block pool and are
// handed to the listener through recvQueue.
type UDPTransport struct {
	recvConn  net.PacketConn
	sendConn  *net.UDPConn
	groupAddr net.UDPAddr
	pool      *stealthpool.Pool
	recvQueue chan datagram
	nInBytes  uint64
	nOutBytes uint64
}

// MakeUDPTransport creates a UDP transport bound to the MNDP port.
func MakeUDPTransport() (*UDPTransport, error) {
	t := new(UDPTransport)
	t.groupAddr.IP = net.ParseIP(BroadcastAddress)
	t.groupAddr.Port = int(MNDPPort)
	if t.groupAddr.IP == nil {
		return nil, errors.New("invalid broadcast address: " + BroadcastAddress)
	}
	t.recvQueue = make(chan datagram, recvQueueSize)

	pool, err := stealthpool.New(recvQueueSize+8, stealthpool.WithBlockSize(MaxPacketSize))
	if err != nil {
		return nil, errors.New("unable to allocate receive buffer pool: " + err.Error())
	}
	t.pool = pool

	// Receive socket, shared with any other discovery tool on the host
	listenConfig := &net.ListenConfig{Control: impl.SyscallReuseAddr}
	t.recvConn, err = listenConfig.ListenPacket(context.Background(), "udp4",
		":"+strconv.FormatUint(uint64(MNDPPort), 10))
	if err != nil {
		t.pool.Close()
		return nil, errors.New("unable to create receive connection: " + err.Error())
	}

	// Send socket
	dialer := &net.Dialer{Control: impl.SyscallBroadcast}
	sendConn, err := dialer.Dial("udp4", t.groupAddr.String())
	if err != nil {
		t.recvConn.Close()
		t.pool.Close()
		return nil, errors.New("unable to create send connection to broadcast address: " + err.Error())
	}
	t.sendConn = sendConn.(*net.UDPConn)

	return t, nil
}

func (t *UDPTransport) String() string {
	return "UDPTransport, " + t.groupAddr.String()
}

// Send broadcasts one encoded packet.
func (t *UDPTransport) Send(wire []byte) {
	if len(wire) > MaxPacketSize {
		core.LogWarn(t, "Attempted to send frame larger than ", MaxPacketSize, " - DROP")
		return
	}

	core.LogDebug(t, "Sending frame of size ", len(wire))
	_, err := t.sendConn.Write(wire)
	if err != nil {
		core.LogWarn(t, "Unable to send on socket - DROP")
		return
	}
	t.nOutBytes += uint64(len(wire))
}

// SendTo sends one encoded packet to a specific remote, used for
// answering solicitations directly.
func (t *UDPTransport) SendTo(wire []byte, remote net.Addr) {
	if len(wire) > MaxPacketSize {
		core.LogWarn(t, "Attempted to send frame larger than ", MaxPacketSize, " - DROP")
		return
	}

	_, err := t.recvConn.WriteTo(wire, remote)
	if err != nil {
		core.LogWarn(t, "Unable to send to ", remote.String(), " - DROP")
		return
	}
	t.nOutBytes += uint64(len(wire))
}

func (t *UDPTransport) runReceive() {
	for {
		block, pooled := t.takeBlock()

		readSize, remoteAddr, err := t.recvConn.ReadFrom(block)
		if err != nil {
			t.putBack(block, pooled)
			if core.ShouldQuit {
				break
			}
			core.LogWarn(t, "Unable to read from socket (", err, ") - stopping")
			break
		}

		core.LogTrace(t, "Receive of size ", readSize, " from ", remoteAddr.String())
		t.nInBytes += uint64(readSize)

		select {
		case t.recvQueue <- datagram{block: block, size: readSize, remote: remoteAddr, pooled: pooled}:
		default:
			core.LogWarn(t, "Receive queue full - DROP")
			t.putBack(block, pooled)
		}
	}

	close(t.recvQueue)
}

// takeBlock fetches a receive buffer, falling back to the heap when the
// pool is exhausted.
func (t *UDPTransport) takeBlock() ([]byte, bool) {
	block, err := t.pool.Get()
	if err != nil {
		return make([]byte, MaxPacketSize), false
	}
	return block, true
}

func (t *UDPTransport) putBack(block []byte, pooled bool) {
	if pooled {
		if err := t.pool.Return(block); err != nil {
			core.LogWarn(t, "Unable to return block to pool: ", err)
		}
	}
}

func (t *UDPTransport) release(d datagram) {
	t.putBack(d.block, d.pooled)
}

// Close shuts the sockets down and releases the buffer pool.
func (t *UDPTransport) Close() {
	t.recvConn.Close()
	t.sendConn.Close()
}
