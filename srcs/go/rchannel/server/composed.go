package server

import (
	"sync"

	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

// Server receives messages from remote endpoints
type Server interface {
	Start() error
	Close()
	SetToken(uint32)
}

// New creates a new Server
func New(self plan.PeerID, handler connection.Handler, useUnixSock bool) Server {
	tcpServer := newTCPServer(self, handler)
	var unixServer *server
	if useUnixSock {
		unixServer = newUnixServer(self, handler)
	}
	return &composedServer{
		tcpServer:  tcpServer,
		unixServer: unixServer,
	}
}

type composedServer struct {
	tcpServer  *server
	unixServer *server
	wg         sync.WaitGroup
}

func (s *composedServer) servers() []*server {
	srvs := []*server{s.tcpServer}
	if s.unixServer != nil {
		srvs = append(srvs, s.unixServer)
	}
	return srvs
}

func (s *composedServer) SetToken(token uint32) {
	for _, srv := range s.servers() {
		srv.SetToken(token)
	}
}

func (s *composedServer) Start() error {
	for i, srv := range s.servers() {
		if err := srv.Listen(); err != nil {
			for _, started := range s.servers()[:i] {
				started.Close()
			}
			return err
		}
	}
	for _, srv := range s.servers() {
		s.wg.Add(1)
		go func(srv *server) {
			defer s.wg.Done()
			srv.Serve()
		}(srv)
	}
	return nil
}

// Close stops accepting connections and waits for the accept loops to return.
func (s *composedServer) Close() {
	for _, srv := range s.servers() {
		srv.Close()
	}
	s.wg.Wait()
	log.Debugf("Server Closed")
}
