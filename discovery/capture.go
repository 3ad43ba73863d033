/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery

import (
	"strconv"
	"time"

	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/discovery/impl"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// Capture passively sniffs MNDP datagrams on an interface and feeds
// them to the listener. This picks up announcements sent to broadcast
// addresses the receive socket is not bound to.
type Capture struct {
	device     string
	pcap       impl.PcapHandle
	listener   *Listener
	shouldQuit chan bool
	HasQuit    chan bool
}

// MakeCapture creates a Capture sniffing the specified device.
func MakeCapture(device string, listener *Listener) (*Capture, error) {
	c := new(Capture)
	c.device = device
	c.listener = listener
	c.shouldQuit = make(chan bool, 1)
	c.HasQuit = make(chan bool, 1)

	// Set up inactive PCAP handle
	inactive, err := pcap.NewInactiveHandle(device)
	if err != nil {
		core.LogError(c, "Unable to create PCAP handle: ", err)
		return nil, err
	}

	err = inactive.SetTimeout(time.Minute)
	if err != nil {
		core.LogError(c, "Unable to set PCAP timeout: ", err)
		return nil, err
	}

	// Activate PCAP handle
	handle, err := inactive.Activate()
	if err != nil {
		core.LogError(c, "Unable to activate PCAP handle: ", err)
		return nil, err
	}
	c.pcap = handle

	// Set PCAP filter
	err = handle.SetBPFFilter("udp and dst port " + strconv.FormatUint(uint64(MNDPPort), 10))
	if err != nil {
		core.LogError(c, "Unable to set PCAP filter: ", err)
		handle.Close()
		return nil, err
	}

	return c, nil
}

func (c *Capture) String() string {
	return "Capture, " + c.device
}

// Run forwards captured datagrams to the listener until told to quit.
func (c *Capture) Run() {
	packetSource := gopacket.NewPacketSource(c.pcap, c.pcap.LinkType())
	for {
		select {
		case packet, ok := <-packetSource.Packets():
			if !ok {
				c.HasQuit <- true
				return
			}

			udpLayer := packet.Layer(layers.LayerTypeUDP)
			networkLayer := packet.NetworkLayer()
			if udpLayer == nil || networkLayer == nil {
				core.LogTrace(c, "Captured non-UDP packet - DROP")
				continue
			}

			source := networkLayer.NetworkFlow().Src().String()
			core.LogTrace(c, "Captured ", len(packet.Data()), " bytes from ", source)
			c.listener.handleWire(udpLayer.LayerPayload(), source)
		case <-c.shouldQuit:
			c.HasQuit <- true
			return
		}
	}
}

// TellToQuit stops the capture loop.
func (c *Capture) TellToQuit() {
	c.shouldQuit <- true
}

// Close closes the PCAP handle.
func (c *Capture) Close() {
	c.pcap.Close()
}
