package monitor

import (
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/lsds/hia2a/srcs/go/log"
)

// Server exposes a Monitor over HTTP in the text exposition format.
type Server struct {
	srv *http.Server
}

func StartServer(m Monitor, port int) (*Server, error) {
	addr := net.JoinHostPort("0.0.0.0", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{srv: &http.Server{Handler: m}}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("monitoring server on %s stopped: %v", addr, err)
		}
	}()
	log.Debugf("monitoring server listening on %s", addr)
	return s, nil
}

func (s *Server) Close() error {
	return s.srv.Close()
}
