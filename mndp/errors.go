/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mndp

import "errors"

// MNDP common errors.
var (
	ErrTooShort          = errors.New("packet too short")
	ErrUnpackUnsupported = errors.New("unpack mode has no wire encoding")
)
