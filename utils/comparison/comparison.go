/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package comparison provides generic ordering helpers.
package comparison

import "golang.org/x/exp/constraints"

// Min returns the smaller of a and b.
func Min[V constraints.Ordered](a, b V) V {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[V constraints.Ordered](a, b V) V {
	if a > b {
		return a
	}
	return b
}
