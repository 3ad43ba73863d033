/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery

import (
	"time"

	"github.com/cespare/xxhash"
)

// AnnouncementFilter suppresses duplicate announcements: the same bytes
// from the same source within the lifetime window are delivered once.
// Not safe for concurrent use; only the listener goroutine touches it.
type AnnouncementFilter struct {
	seen     map[uint64]int64
	lifetime time.Duration
}

// NewAnnouncementFilter creates an AnnouncementFilter with the
// specified suppression window.
func NewAnnouncementFilter(lifetime time.Duration) *AnnouncementFilter {
	f := new(AnnouncementFilter)
	f.seen = make(map[uint64]int64)
	f.lifetime = lifetime
	return f
}

// InsertIfNew records the announcement and returns whether it was not
// already present.
func (f *AnnouncementFilter) InsertIfNew(source string, wire []byte) bool {
	hash := xxhash.Sum64(wire) ^ xxhash.Sum64String(source)
	now := time.Now()
	f.removeExpiredEntries(now)

	if expiry, ok := f.seen[hash]; ok && expiry > now.UnixNano() {
		return false
	}
	f.seen[hash] = now.Add(f.lifetime).UnixNano()
	return true
}

func (f *AnnouncementFilter) removeExpiredEntries(now time.Time) {
	evicted := 0
	for hash, expiry := range f.seen {
		if expiry >= now.UnixNano() {
			continue
		}
		delete(f.seen, hash)
		evicted += 1

		if evicted >= 100 {
			break
		}
	}
}
