package comm

import (
	"fmt"

	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/lsds/hia2a/srcs/go/utils"
)

func (c *Comm) p2pName(tag int) string {
	return fmt.Sprintf("%s:p%d", c.name, tag)
}

// Send sends buf to group rank dst.
func (c *Comm) Send(dst, tag int, buf []byte) error {
	if err := c.check("send"); err != nil {
		return err
	}
	if err := c.checkRank("send", dst); err != nil {
		return err
	}
	return c.send(dst, c.p2pName(tag), buf)
}

// Recv receives a message from group rank src into buf and returns its length.
// A message longer than buf fails with CodeTruncate.
func (c *Comm) Recv(src, tag int, buf []byte) (int, error) {
	if err := c.check("recv"); err != nil {
		return 0, err
	}
	if err := c.checkRank("recv", src); err != nil {
		return 0, err
	}
	return c.recvInto(src, c.p2pName(tag), buf)
}

func (c *Comm) recvInto(src int, name string, buf []byte) (int, error) {
	data, err := c.recv(src, name)
	if err != nil {
		return 0, err
	}
	defer connection.PutBuf(data)
	if len(data) > len(buf) {
		return 0, newError(CodeTruncate, "recv", "message of %d bytes from rank %d, buffer has %d", len(data), src, len(buf))
	}
	return copy(buf, data), nil
}

// Request is a pending non-blocking operation.
type Request struct {
	done chan struct{}
	n    int
	err  error
}

func startRequest(f func() (int, error)) *Request {
	r := &Request{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.n, r.err = f()
	}()
	return r
}

// Wait blocks until the request completes.
func (r *Request) Wait() error {
	<-r.done
	return r.err
}

// Count is the number of bytes transferred, valid after Wait.
func (r *Request) Count() int {
	<-r.done
	return r.n
}

// WaitAll waits for all requests and returns the first error.
func WaitAll(reqs ...*Request) error {
	errs := make([]error, len(reqs))
	for i, r := range reqs {
		errs[i] = r.Wait()
	}
	return utils.FirstError(errs)
}

// Isend starts sending buf to dst. buf must not be modified before Wait returns.
func (c *Comm) Isend(dst, tag int, buf []byte) *Request {
	if err := c.check("isend"); err != nil {
		return failedRequest(err)
	}
	if err := c.checkRank("isend", dst); err != nil {
		return failedRequest(err)
	}
	name := c.p2pName(tag)
	return startRequest(func() (int, error) {
		return len(buf), c.send(dst, name, buf)
	})
}

// Irecv starts receiving a message from src into buf.
func (c *Comm) Irecv(src, tag int, buf []byte) *Request {
	if err := c.check("irecv"); err != nil {
		return failedRequest(err)
	}
	if err := c.checkRank("irecv", src); err != nil {
		return failedRequest(err)
	}
	name := c.p2pName(tag)
	return startRequest(func() (int, error) {
		return c.recvInto(src, name, buf)
	})
}

func failedRequest(err error) *Request {
	r := &Request{done: make(chan struct{}), err: err}
	close(r.done)
	return r
}

// Sendrecv sends sendBuf to dst and receives from src into recvBuf. It returns the
// number of bytes received.
func (c *Comm) Sendrecv(sendBuf []byte, dst int, recvBuf []byte, src int, tag int) (int, error) {
	sr := c.Isend(dst, tag, sendBuf)
	n, err := c.Recv(src, tag, recvBuf)
	if serr := sr.Wait(); serr != nil {
		return n, serr
	}
	return n, err
}
