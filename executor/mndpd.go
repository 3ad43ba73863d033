/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package executor wires the discovery components into a runnable
// daemon.
package executor

import (
	"time"

	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/discovery"
	"github.com/eob-labs/mndpd/server"
)

// MNDPdConfig is the configuration of MNDPd.
type MNDPdConfig struct {
	Version         string
	ConfigFileName  string
	LogFile         string
	CpuProfile      string
	MemProfile      string
	BlockProfile    string
	DisableAnnounce bool
	DisableServer   bool
}

// MNDPd is the wrapper class for the MikroTik Neighbor Discovery
// daemon. Note: only one instance of this class should be created.
type MNDPd struct {
	config   *MNDPdConfig
	profiler *Profiler

	transport *discovery.UDPTransport
	table     *discovery.NeighborTable
	announcer *discovery.Announcer
	listener  *discovery.Listener
	capture   *discovery.Capture
	server    *server.Server
}

// NewMNDPd creates an MNDPd. Don't call this function twice.
func NewMNDPd(config *MNDPdConfig) *MNDPd {
	// Provide metadata to other threads.
	core.Version = config.Version
	core.StartTimestamp = time.Now()

	// Initialize config file
	core.LoadConfig(config.ConfigFileName)
	core.InitializeLogger(config.LogFile)
	discovery.Configure()
	server.Configure()

	m := &MNDPd{config: config}
	m.profiler = NewProfiler(config)
	if err := m.profiler.Start(); err != nil {
		core.LogFatal("Main", "Unable to start profiler: ", err)
	}
	return m
}

// Start runs MNDPd. Note: this function may exit the program when
// there is error. This function is non-blocking.
func (m *MNDPd) Start() {
	core.LogInfo("Main", "Starting MNDPd")

	var err error
	m.transport, err = discovery.MakeUDPTransport()
	if err != nil {
		core.LogFatal("Main", "Unable to create UDP transport: ", err)
	}

	m.table = discovery.NewNeighborTable(discovery.NeighborTimeout)
	go m.table.Run()

	if !m.config.DisableAnnounce {
		m.announcer, err = discovery.MakeAnnouncer(m.transport)
		if err != nil {
			core.LogError("Main", "Unable to create announcer, running listen-only: ", err)
		} else {
			go m.announcer.Run()
			core.LogInfo("Main", "Created ", m.announcer)
		}
	}

	m.listener = discovery.MakeListener(m.transport, m.table, m.announcer)
	go m.listener.Run()
	core.LogInfo("Main", "Created ", m.listener)

	if discovery.CaptureDevice != "" {
		m.capture, err = discovery.MakeCapture(discovery.CaptureDevice, m.listener)
		if err != nil {
			core.LogError("Main", "Unable to create capture on ", discovery.CaptureDevice, ": ", err)
		} else {
			go m.capture.Run()
			core.LogInfo("Main", "Created ", m.capture)
		}
	}

	if server.Enabled && !m.config.DisableServer {
		m.server = server.NewServer(m.table)
		go m.server.Run()
		core.LogInfo("Main", "Created ", m.server)
	}
}

// Stop shuts down MNDPd.
func (m *MNDPd) Stop() {
	core.LogInfo("Main", "Daemon shutting down ...")
	core.ShouldQuit = true

	if m.server != nil {
		m.server.Close()
	}

	if m.capture != nil {
		m.capture.TellToQuit()
		m.capture.Close()
		<-m.capture.HasQuit
	}

	if m.announcer != nil {
		m.announcer.TellToQuit()
		<-m.announcer.HasQuit
	}

	// Closing the transport ends the listener's receive loop.
	m.listener.Close()
	<-m.listener.HasQuit

	m.table.TellToQuit()
	<-m.table.HasQuit

	m.profiler.Stop()
	core.ShutdownLogger()
}
