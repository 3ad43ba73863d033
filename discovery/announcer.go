/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery

import (
	"bytes"
	"errors"
	"net"
	"net/netip"
	"os"
	"sync/atomic"
	"time"

	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/mndp"
)

// Announcer periodically advertises this host on the broadcast domain
// and answers solicitations.
type Announcer struct {
	transport *UDPTransport

	identity   string
	board      string
	platform   string
	softwareID string
	version    string

	iface       *net.Interface
	macAddr     net.HardwareAddr
	ipv4Addr    netip.Addr
	ipv6Addr    netip.Addr
	sequence    uint32
	Ticker      *time.Ticker
	shouldQuit  chan bool
	HasQuit     chan bool
	nAnnounced  uint64
}

// MakeAnnouncer creates an Announcer advertising the configured
// identity over the specified transport. The advertised addresses and
// MAC come from the configured interface, or the first usable one.
func MakeAnnouncer(transport *UDPTransport) (*Announcer, error) {
	a := new(Announcer)
	a.transport = transport
	a.shouldQuit = make(chan bool, 1)
	a.HasQuit = make(chan bool, 1)
	a.Ticker = time.NewTicker(AnnounceInterval)

	hostname, _ := os.Hostname()
	a.identity = core.GetConfigStringDefault("discovery.identity", hostname)
	a.board = core.GetConfigStringDefault("discovery.board", "")
	a.platform = core.GetConfigStringDefault("discovery.platform", "mndpd")
	a.softwareID = core.GetConfigStringDefault("discovery.software_id", "")
	a.version = core.GetConfigStringDefault("discovery.version", core.Version)

	var err error
	a.iface, err = selectInterface(core.GetConfigStringDefault("discovery.interface", ""))
	if err != nil {
		return nil, err
	}
	a.macAddr = a.iface.HardwareAddr
	a.ipv4Addr, a.ipv6Addr = interfaceAddrs(a.iface)

	return a, nil
}

func (a *Announcer) String() string {
	return "Announcer, " + a.identity + " on " + a.iface.Name
}

// Run solicits existing neighbors, then announces periodically until
// told to quit.
func (a *Announcer) Run() {
	a.SendSolicit()
	a.AnnounceNow()

	for {
		select {
		case <-a.Ticker.C:
			a.AnnounceNow()
		case <-a.shouldQuit:
			a.Ticker.Stop()
			a.HasQuit <- true
			return
		}
	}
}

// AnnounceNow broadcasts one self-announcement immediately. Safe to
// call from the listener goroutine when answering a solicitation.
func (a *Announcer) AnnounceNow() {
	packet, err := a.buildSelf().ToPacket()
	if err != nil {
		core.LogError(a, "Unable to encode announcement: ", err)
		return
	}
	packet.Sequence = uint16(atomic.AddUint32(&a.sequence, 1) - 1)

	a.transport.Send(packet.Encode())
	atomic.AddUint64(&a.nAnnounced, 1)
	core.LogDebug(a, "Announced, sequence=", packet.Sequence)
}

// SendSolicit broadcasts a solicitation so already-running devices
// announce themselves without waiting for their next interval.
func (a *Announcer) SendSolicit() {
	core.LogDebug(a, "Soliciting announcements")
	a.transport.Send(mndp.MakeSolicitPacket().Encode())
}

// IsSelf returns whether the announcement originates from this host.
func (a *Announcer) IsSelf(neighbor *mndp.Neighbor) bool {
	return neighbor.MacAddress != nil && bytes.Equal(neighbor.MacAddress, a.macAddr)
}

// TellToQuit stops the announcement loop.
func (a *Announcer) TellToQuit() {
	a.shouldQuit <- true
}

func (a *Announcer) buildSelf() *mndp.Neighbor {
	builder := mndp.NewBuilder().
		Identity(a.identity).
		InterfaceName(a.iface.Name).
		Platform(a.platform).
		Unpack(mndp.UnpackNone).
		Uptime(time.Since(core.StartTimestamp))
	if a.board != "" {
		builder.Board(a.board)
	}
	if a.softwareID != "" {
		builder.SoftwareID(a.softwareID)
	}
	if a.version != "" {
		builder.Version(a.version)
	}
	if len(a.macAddr) == 6 {
		builder.MacAddress(a.macAddr)
	}
	if a.ipv4Addr.IsValid() {
		builder.IPv4Address(a.ipv4Addr)
	}
	if a.ipv6Addr.IsValid() {
		builder.IPv6Address(a.ipv6Addr)
	}
	return builder.Build()
}

// selectInterface returns the named interface, or the first interface
// that is up, not loopback, and carries a 6-byte MAC.
func selectInterface(name string) (*net.Interface, error) {
	if name != "" {
		return net.InterfaceByName(name)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) != 6 {
			continue
		}
		return &ifaces[i], nil
	}
	return nil, errors.New("no usable interface for announcements")
}

// interfaceAddrs returns the first IPv4 and IPv6 address of the interface.
func interfaceAddrs(iface *net.Interface) (ipv4 netip.Addr, ipv6 netip.Addr) {
	addrs, err := iface.Addrs()
	if err != nil {
		return
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			if !ipv4.IsValid() {
				ipv4, _ = netip.AddrFromSlice(v4)
			}
		} else if !ipv6.IsValid() {
			ipv6, _ = netip.AddrFromSlice(ipNet.IP.To16())
		}
	}
	return
}
