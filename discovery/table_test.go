/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package discovery_test

import (
	"net"
	"testing"
	"time"

	"github.com/eob-labs/mndpd/discovery"
	"github.com/eob-labs/mndpd/mndp"
	"github.com/stretchr/testify/assert"
)

func makeNeighbor(t *testing.T, mac string, identity string) *mndp.Neighbor {
	hwAddr, err := net.ParseMAC(mac)
	assert.NoError(t, err)
	return mndp.NewBuilder().MacAddress(hwAddr).Identity(identity).Build()
}

func TestTableInsertAndGet(t *testing.T) {
	table := discovery.NewNeighborTable(time.Minute)
	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1"), 7)

	entry := table.Get("c4:ad:34:bf:91:11")
	assert.NotNil(t, entry)
	assert.Equal(t, "router1", *entry.Neighbor.Identity)
	assert.Equal(t, uint16(7), entry.LastSequence)
	assert.Equal(t, uint64(1), entry.NAnnouncements)
	assert.Equal(t, 1, table.Len())

	assert.Nil(t, table.Get("00:00:00:00:00:00"))
}

func TestTableUpdateKeepsFirstSeen(t *testing.T) {
	table := discovery.NewNeighborTable(time.Minute)
	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1"), 1)
	first := table.Get("c4:ad:34:bf:91:11")

	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1-renamed"), 2)
	updated := table.Get("c4:ad:34:bf:91:11")

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "router1-renamed", *updated.Neighbor.Identity)
	assert.Equal(t, first.FirstSeen, updated.FirstSeen)
	assert.Equal(t, uint64(2), updated.NAnnouncements)
	assert.Equal(t, uint16(2), updated.LastSequence)
}

func TestTableDropsNeighborWithoutMac(t *testing.T) {
	table := discovery.NewNeighborTable(time.Minute)
	table.Insert(mndp.NewBuilder().Identity("ghost").Build(), 0)
	assert.Equal(t, 0, table.Len())
}

func TestTableSnapshot(t *testing.T) {
	table := discovery.NewNeighborTable(time.Minute)
	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1"), 0)
	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:22", "router2"), 0)

	snapshot := table.Snapshot()
	assert.Len(t, snapshot, 2)
	assert.Contains(t, snapshot, "c4:ad:34:bf:91:11")
	assert.Contains(t, snapshot, "c4:ad:34:bf:91:22")
}

func TestTableExpiry(t *testing.T) {
	// A zero timeout makes every entry eligible on the next sweep.
	table := discovery.NewNeighborTable(0)
	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1"), 0)
	assert.Equal(t, 1, table.Len())

	table.RemoveExpiredEntries()
	assert.Equal(t, 0, table.Len())
}

func TestTableSubscribe(t *testing.T) {
	table := discovery.NewNeighborTable(0)

	var events []discovery.TableEvent
	var macs []string
	table.Subscribe(func(event discovery.TableEvent, mac string, entry *discovery.NeighborEntry) {
		events = append(events, event)
		macs = append(macs, mac)
	})

	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1"), 0)
	table.Insert(makeNeighbor(t, "c4:ad:34:bf:91:11", "router1"), 1)
	table.RemoveExpiredEntries()

	assert.Equal(t, []discovery.TableEvent{discovery.EventAdd, discovery.EventUpdate, discovery.EventExpire}, events)
	assert.Equal(t, []string{"c4:ad:34:bf:91:11", "c4:ad:34:bf:91:11", "c4:ad:34:bf:91:11"}, macs)
}
