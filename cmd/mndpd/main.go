/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/executor"
)

// Version of MNDPd.
var Version string

// BuildTime contains the timestamp of when this version of MNDPd was built.
var BuildTime string

func main() {
	// Parse command line options
	var shouldPrintVersion bool
	flag.BoolVar(&shouldPrintVersion, "version", false, "Print version and exit")
	flag.BoolVar(&shouldPrintVersion, "V", false, "Print version and exit (short)")
	var configFileName string
	flag.StringVar(&configFileName, "config", "/usr/local/etc/mndpd/mndpd.toml", "Configuration file location")
	var logFile string
	flag.StringVar(&logFile, "log-file", "", "Log file location (defaults to stderr)")
	var disableAnnounce bool
	flag.BoolVar(&disableAnnounce, "disable-announce", false, "Listen only, do not announce this host")
	var disableServer bool
	flag.BoolVar(&disableServer, "disable-server", false, "Do not serve the neighbor table over HTTP")
	var cpuProfile string
	flag.StringVar(&cpuProfile, "cpu-profile", "", "If set, write CPU profile to file")
	var memProfile string
	flag.StringVar(&memProfile, "mem-profile", "", "If set, write memory profile to file")
	var blockProfile string
	flag.StringVar(&blockProfile, "block-profile", "", "If set, write block profile to file")
	flag.Parse()

	if shouldPrintVersion {
		fmt.Println("MNDPd: MikroTik Neighbor Discovery Protocol daemon")
		fmt.Println("Version " + Version + " (Built " + BuildTime + ")")
		fmt.Println("Copyright (C) 2026 eob-labs")
		fmt.Println("Released under the terms of the MIT License")
		return
	}

	config := &executor.MNDPdConfig{
		Version:         Version,
		ConfigFileName:  configFileName,
		LogFile:         logFile,
		CpuProfile:      cpuProfile,
		MemProfile:      memProfile,
		BlockProfile:    blockProfile,
		DisableAnnounce: disableAnnounce,
		DisableServer:   disableServer,
	}
	core.BuildTime = BuildTime

	daemon := executor.NewMNDPd(config)
	daemon.Start()

	// Set up signal handler channel and wait for interrupt
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-sigChannel
	core.LogInfo("Main", "Received signal ", receivedSig, " - exiting")

	daemon.Stop()
}
