package handler

import (
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

// CollectiveEndpoint queues named messages by source peer until they are received.
type CollectiveEndpoint struct {
	self  plan.PeerID
	recvQ *BufferPool
}

func NewCollectiveEndpoint(self plan.PeerID) *CollectiveEndpoint {
	return &CollectiveEndpoint{
		self:  self,
		recvQ: newBufferPool(),
	}
}

func (e *CollectiveEndpoint) Self() plan.PeerID {
	return e.self
}

// Handle implements connection.Handler
func (e *CollectiveEndpoint) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, connection.Accept, e.handle)
}

// Deliver enqueues a message as if it had arrived from a.Peer(); the endpoint takes
// ownership of m.Data.
func (e *CollectiveEndpoint) Deliver(a plan.Addr, m *connection.Message) {
	e.recvQ.put(a, m)
}

// Recv blocks until a message from a arrives or the endpoint is closed.
// The caller owns the returned Data and may hand it back with connection.PutBuf.
func (e *CollectiveEndpoint) Recv(a plan.Addr) (*connection.Message, error) {
	return e.recvQ.get(a)
}

// Close fails all pending and future receives with err.
func (e *CollectiveEndpoint) Close(err error) {
	e.recvQ.close(err)
}

func (e *CollectiveEndpoint) handle(name string, msg *connection.Message, conn connection.Connection) {
	e.recvQ.put(conn.Src().WithName(name), msg)
}
