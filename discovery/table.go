/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery

import (
	"sync"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/mndp"
)

// TableEvent describes a change to the neighbor table.
type TableEvent int

// Neighbor table events.
const (
	EventAdd TableEvent = iota
	EventUpdate
	EventExpire
)

func (e TableEvent) String() string {
	switch e {
	case EventAdd:
		return "add"
	case EventUpdate:
		return "update"
	case EventExpire:
		return "expire"
	}
	return "unknown"
}

// NeighborEntry is one tracked neighbor. Entries are immutable once
// stored; updates replace the whole entry.
type NeighborEntry struct {
	Neighbor       *mndp.Neighbor `json:"neighbor"`
	FirstSeen      time.Time      `json:"first_seen"`
	LastSeen       time.Time      `json:"last_seen"`
	LastSequence   uint16         `json:"last_sequence"`
	NAnnouncements uint64         `json:"announcements"`
}

// NeighborTable tracks every neighbor heard on the broadcast domain,
// keyed by MAC address. Reads and writes may come from different
// goroutines.
type NeighborTable struct {
	entries hashmap.HashMap
	timeout time.Duration

	subscribersMu sync.RWMutex
	subscribers   []func(TableEvent, string, *NeighborEntry)

	Ticker     *time.Ticker
	shouldQuit chan bool
	HasQuit    chan bool
}

// NewNeighborTable creates a NeighborTable whose entries expire after
// the specified timeout without a fresh announcement.
func NewNeighborTable(timeout time.Duration) *NeighborTable {
	t := new(NeighborTable)
	t.timeout = timeout
	t.Ticker = time.NewTicker(time.Second)
	t.shouldQuit = make(chan bool, 1)
	t.HasQuit = make(chan bool, 1)
	return t
}

func (t *NeighborTable) String() string {
	return "NeighborTable"
}

// Insert adds or refreshes the entry for the neighbor. Announcements
// without a MAC address carry no table key and are dropped.
func (t *NeighborTable) Insert(neighbor *mndp.Neighbor, sequence uint16) {
	if neighbor.MacAddress == nil {
		core.LogDebug(t, "Announcement without MAC address - DROP")
		return
	}

	key := neighbor.MacAddress.String()
	now := time.Now()
	entry := &NeighborEntry{
		Neighbor:       neighbor,
		FirstSeen:      now,
		LastSeen:       now,
		LastSequence:   sequence,
		NAnnouncements: 1,
	}

	event := EventAdd
	if previousRaw, ok := t.entries.GetStringKey(key); ok {
		previous := previousRaw.(*NeighborEntry)
		entry.FirstSeen = previous.FirstSeen
		entry.NAnnouncements = previous.NAnnouncements + 1
		event = EventUpdate
	}

	t.entries.Set(key, entry)
	core.LogDebug(t, event.String(), " ", neighbor.String())
	t.notify(event, key, entry)
}

// Get returns the entry for the specified MAC address string, or nil.
func (t *NeighborTable) Get(mac string) *NeighborEntry {
	entryRaw, ok := t.entries.GetStringKey(mac)
	if !ok {
		return nil
	}
	return entryRaw.(*NeighborEntry)
}

// Snapshot returns all current entries keyed by MAC address.
func (t *NeighborTable) Snapshot() map[string]*NeighborEntry {
	snapshot := make(map[string]*NeighborEntry, t.entries.Len())
	for kv := range t.entries.Iter() {
		snapshot[kv.Key.(string)] = kv.Value.(*NeighborEntry)
	}
	return snapshot
}

// Len returns the number of tracked neighbors.
func (t *NeighborTable) Len() int {
	return t.entries.Len()
}

// RemoveExpiredEntries removes every neighbor whose last announcement
// is older than the table timeout.
func (t *NeighborTable) RemoveExpiredEntries() {
	deadline := time.Now().Add(-t.timeout)
	for kv := range t.entries.Iter() {
		entry := kv.Value.(*NeighborEntry)
		if entry.LastSeen.After(deadline) {
			continue
		}
		key := kv.Key.(string)
		t.entries.Del(key)
		core.LogInfo(t, "Neighbor ", key, " expired")
		t.notify(EventExpire, key, entry)
	}
}

// Subscribe registers a callback invoked on every table change. The
// callback must not block.
func (t *NeighborTable) Subscribe(callback func(TableEvent, string, *NeighborEntry)) {
	t.subscribersMu.Lock()
	defer t.subscribersMu.Unlock()
	t.subscribers = append(t.subscribers, callback)
}

func (t *NeighborTable) notify(event TableEvent, mac string, entry *NeighborEntry) {
	t.subscribersMu.RLock()
	defer t.subscribersMu.RUnlock()
	for _, callback := range t.subscribers {
		callback(event, mac, entry)
	}
}

// Run sweeps expired entries until told to quit.
func (t *NeighborTable) Run() {
	for {
		select {
		case <-t.Ticker.C:
			t.RemoveExpiredEntries()
		case <-t.shouldQuit:
			t.Ticker.Stop()
			t.HasQuit <- true
			return
		}
	}
}

// TellToQuit stops the sweeper loop.
func (t *NeighborTable) TellToQuit() {
	t.shouldQuit <- true
}
