package client

import (
	"sync"

	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/lsds/hia2a/srcs/go/utils"
)

type connKey struct {
	a plan.PeerID
	t connection.ConnType
}

type connectionPool struct {
	sync.Mutex
	opts  connection.Options
	conns map[connKey]connection.Connection
}

func newConnectionPool(opts connection.Options) *connectionPool {
	return &connectionPool{
		opts:  opts,
		conns: make(map[connKey]connection.Connection),
	}
}

func (p *connectionPool) get(remote, local plan.PeerID, t connection.ConnType) connection.Connection {
	p.Lock()
	defer p.Unlock()
	key := connKey{remote, t}
	if conn, ok := p.conns[key]; ok {
		return conn
	}
	conn := connection.New(remote, local, t, p.opts)
	p.conns[key] = conn
	return conn
}

func (p *connectionPool) closeAll() error {
	p.Lock()
	defer p.Unlock()
	var errs []error
	for k, conn := range p.conns {
		errs = append(errs, conn.Close())
		delete(p.conns, k)
	}
	return utils.MergeErrors(errs, "close connections")
}
