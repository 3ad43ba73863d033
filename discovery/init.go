/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package discovery sends, receives, and tracks MNDP announcements on
// the local broadcast domain. The pure wire handling lives in the mndp
// package; everything socket-shaped lives here.
package discovery

import (
	"time"

	"github.com/eob-labs/mndpd/core"
)

// MNDPPort is the UDP port RouterOS devices announce on.
var MNDPPort uint16

// BroadcastAddress is the IPv4 address announcements are sent to.
var BroadcastAddress string

// AnnounceInterval is the delay between periodic self-announcements.
var AnnounceInterval time.Duration

// NeighborTimeout is how long a neighbor stays in the table without a
// fresh announcement.
var NeighborTimeout time.Duration

// dedupeLifetime is how long an identical announcement from the same
// source is suppressed.
var dedupeLifetime time.Duration

// recvQueueSize is the maximum number of datagrams buffered between the
// socket and the listener.
var recvQueueSize int

// CaptureDevice is the interface passive capture attaches to, empty if
// capture is disabled.
var CaptureDevice string

// Configure configures the discovery system.
func Configure() {
	MNDPPort = core.GetConfigUint16Default("discovery.port", 5678)
	BroadcastAddress = core.GetConfigStringDefault("discovery.broadcast_address", "255.255.255.255")
	AnnounceInterval = time.Duration(core.GetConfigIntDefault("discovery.interval", 60)) * time.Second
	NeighborTimeout = time.Duration(core.GetConfigIntDefault("discovery.neighbor_timeout", 180)) * time.Second
	dedupeLifetime = time.Duration(core.GetConfigIntDefault("discovery.dedupe_window", 5)) * time.Second
	recvQueueSize = core.GetConfigIntDefault("discovery.queue_size", 1024)
	CaptureDevice = ""
	if core.GetConfigBoolDefault("discovery.capture.enabled", false) {
		CaptureDevice = core.GetConfigStringDefault("discovery.capture.device", "")
	}
}
