/* mndpd - MikroTik Neighbor Discovery Protocol daemon
 *
 * Copyright (C) 2026 eob-labs.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package server exposes the neighbor table over HTTP: a JSON snapshot
// at /neighbors and a WebSocket event stream at /events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/eob-labs/mndpd/core"
	"github.com/eob-labs/mndpd/discovery"
	"github.com/gorilla/websocket"
)

// Server configuration.
var (
	Enabled bool
	Bind    string
	Port    uint16
)

// Configure configures the server package.
func Configure() {
	Enabled = core.GetConfigBoolDefault("server.enabled", true)
	Bind = core.GetConfigStringDefault("server.bind", "127.0.0.1")
	Port = core.GetConfigUint16Default("server.port", 8472)
}

// tableEvent is one change to the neighbor table as sent to WebSocket
// subscribers.
type tableEvent struct {
	Event string                   `json:"event"`
	Mac   string                   `json:"mac"`
	Entry *discovery.NeighborEntry `json:"entry"`
}

// Server serves neighbor table contents and change events.
type Server struct {
	server   http.Server
	upgrader websocket.Upgrader
	table    *discovery.NeighborTable

	connsMu sync.Mutex
	conns   map[*websocket.Conn]*sync.Mutex
}

// NewServer creates a Server over the specified neighbor table.
func NewServer(table *discovery.NeighborTable) *Server {
	s := &Server{
		server: http.Server{Addr: net.JoinHostPort(Bind, strconv.FormatUint(uint64(Port), 10))},
		upgrader: websocket.Upgrader{
			WriteBufferPool: &sync.Pool{},
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		table: table,
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/neighbors", s.handleNeighbors)
	mux.HandleFunc("/events", s.handleEvents)
	s.server.Handler = mux

	table.Subscribe(s.broadcastEvent)
	return s
}

func (s *Server) String() string {
	return "Server, " + s.server.Addr
}

// Run serves until Close is called.
func (s *Server) Run() {
	core.LogInfo(s, "Starting neighbor server")
	err := s.server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		core.LogFatal(s, "Unable to start server: ", err)
	}
}

// Close shuts the server down, ending Run.
func (s *Server) Close() {
	core.LogInfo(s, "Stopping neighbor server")
	s.server.Shutdown(context.TODO())

	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for c := range s.conns {
		c.Close()
		delete(s.conns, c)
	}
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(s.table.Snapshot())
	if err != nil {
		core.LogWarn(s, "Unable to encode snapshot: ", err)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	core.LogInfo(s, "Accepting new WebSocket subscriber ", c.RemoteAddr())

	writeMu := new(sync.Mutex)
	s.connsMu.Lock()
	s.conns[c] = writeMu
	s.connsMu.Unlock()

	// Replay the current table so the subscriber starts consistent.
	for mac, entry := range s.table.Snapshot() {
		writeMu.Lock()
		err = c.WriteJSON(tableEvent{Event: discovery.EventAdd.String(), Mac: mac, Entry: entry})
		writeMu.Unlock()
		if err != nil {
			s.dropConn(c)
			return
		}
	}

	// Drain (and discard) client messages to detect disconnects.
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				s.dropConn(c)
				return
			}
		}
	}()
}

func (s *Server) broadcastEvent(event discovery.TableEvent, mac string, entry *discovery.NeighborEntry) {
	payload := tableEvent{Event: event.String(), Mac: mac, Entry: entry}

	s.connsMu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(s.conns))
	for c, mu := range s.conns {
		conns[c] = mu
	}
	s.connsMu.Unlock()

	for c, mu := range conns {
		mu.Lock()
		err := c.WriteJSON(payload)
		mu.Unlock()
		if err != nil {
			core.LogDebug(s, "Unable to write to subscriber - dropping")
			s.dropConn(c)
		}
	}
}

func (s *Server) dropConn(c *websocket.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if _, ok := s.conns[c]; ok {
		c.Close()
		delete(s.conns, c)
	}
}
