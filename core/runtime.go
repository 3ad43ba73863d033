/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "time"

// Version of the daemon.
var Version string

// BuildTime contains the timestamp of when this version was built.
var BuildTime string

// StartTimestamp is the time the daemon was started.
var StartTimestamp time.Time

// ShouldQuit indicates whether the daemon is shutting down.
var ShouldQuit bool
