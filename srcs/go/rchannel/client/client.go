package client

import (
	"context"
	"time"

	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/lsds/hia2a/srcs/go/utils"
)

type Client struct {
	self     plan.PeerID
	opts     connection.Options
	connPool *connectionPool
}

func New(self plan.PeerID, opts connection.Options) *Client {
	return &Client{
		self:     self,
		opts:     opts,
		connPool: newConnectionPool(opts),
	}
}

func (c *Client) Self() plan.PeerID {
	return c.self
}

func (c *Client) Ping(target plan.PeerID) (time.Duration, error) {
	t0 := time.Now()
	opts := c.opts
	opts.RetryCount = 0
	conn, err := connection.Open(target, c.self, connection.ConnPing, opts)
	if err != nil {
		return time.Since(t0), err
	}
	defer conn.Close()
	var empty connection.Message
	if err := conn.Send("ping", empty, connection.NoFlag); err != nil {
		return time.Since(t0), err
	}
	if err := conn.Read("ping", empty); err != nil {
		return time.Since(t0), err
	}
	return time.Since(t0), nil
}

// Wait waits a peer until it's accessible
func (c *Client) Wait(ctx context.Context, target plan.PeerID) (int, bool) {
	const period = 200 * time.Millisecond
	var last time.Time
	ping := func() bool {
		if d := time.Since(last); d < period {
			time.Sleep(period - d)
		}
		_, err := c.Ping(target)
		last = time.Now()
		return err == nil
	}
	return utils.Poll(ctx, ping)
}

// WaitAll waits every peer in pl, it fails as soon as one of them can't be reached.
func (c *Client) WaitAll(ctx context.Context, pl plan.PeerList) bool {
	for _, p := range pl {
		if _, ok := c.Wait(ctx, p); !ok {
			return false
		}
	}
	return true
}

// Send sends data in buf to given Addr
func (c *Client) Send(a plan.Addr, buf []byte, t connection.ConnType, flags uint32) error {
	msg := connection.Message{
		Length: uint32(len(buf)),
		Data:   buf,
	}
	conn := c.connPool.get(a.Peer(), c.self, t)
	return conn.Send(a.Name, msg, flags)
}

// Close closes all pooled connections.
func (c *Client) Close() error {
	return c.connPool.closeAll()
}
