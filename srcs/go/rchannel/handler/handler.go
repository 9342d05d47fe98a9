package handler

import (
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

// Router dispatches accepted connections by type.
type Router struct {
	Collective *CollectiveEndpoint
	Control    *ControlHandler
	Ping       *PingHandler
}

// Handle implements connection.Handler
func (r *Router) Handle(conn connection.Connection) (int, error) {
	switch t := conn.Type(); t {
	case connection.ConnCollective:
		return r.Collective.Handle(conn)
	case connection.ConnControl:
		return r.Control.Handle(conn)
	case connection.ConnPing:
		return r.Ping.Handle(conn)
	default:
		return 0, connection.ErrInvalidConnectionType
	}
}
