/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery

import (
	"sync/atomic"

	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/mndp"
)

// Listener consumes datagrams from a transport, drops duplicates,
// decodes announcements, and feeds the neighbor table. Solicitations
// are answered through the announcer when one is attached.
type Listener struct {
	transport *UDPTransport
	filter    *AnnouncementFilter
	table     *NeighborTable
	announcer *Announcer
	HasQuit   chan bool
	nReceived uint64
	nDropped  uint64
}

// MakeListener creates a Listener over the transport. announcer may be
// nil for listen-only operation.
func MakeListener(transport *UDPTransport, table *NeighborTable, announcer *Announcer) *Listener {
	l := new(Listener)
	l.transport = transport
	l.filter = NewAnnouncementFilter(dedupeLifetime)
	l.table = table
	l.announcer = announcer
	l.HasQuit = make(chan bool, 1)
	return l
}

func (l *Listener) String() string {
	return "Listener, " + l.transport.groupAddr.String()
}

// Run processes datagrams until the transport shuts down.
func (l *Listener) Run() {
	go l.transport.runReceive()

	for d := range l.transport.recvQueue {
		l.handleWire(d.block[:d.size], d.remote.String())
		l.transport.release(d)
	}

	l.transport.pool.Close()
	l.HasQuit <- true
}

// handleWire processes one raw MNDP payload. Also the entry point for
// passively captured datagrams.
func (l *Listener) handleWire(wire []byte, source string) {
	atomic.AddUint64(&l.nReceived, 1)

	if !l.filter.InsertIfNew(source, wire) {
		core.LogTrace(l, "Duplicate announcement from ", source, " - suppressed")
		return
	}

	packet, err := mndp.DecodePacket(wire)
	if err != nil {
		atomic.AddUint64(&l.nDropped, 1)
		core.LogDebug(l, "Unable to decode packet from ", source, ": ", err)
		return
	}

	if packet.IsSolicit() {
		core.LogDebug(l, "Solicitation from ", source)
		if l.announcer != nil {
			l.announcer.AnnounceNow()
		}
		return
	}

	neighbor := packet.ToNeighbor()
	if l.announcer != nil && l.announcer.IsSelf(neighbor) {
		core.LogTrace(l, "Own announcement - ignored")
		return
	}

	l.table.Insert(neighbor, packet.Sequence)
}

// Close shuts the underlying transport down, ending Run.
func (l *Listener) Close() {
	l.transport.Close()
}
