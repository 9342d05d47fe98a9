package alltoall

import (
	"os"

	"github.com/lsds/hia2a/srcs/go/base"
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/locality"
	"github.com/pkg/errors"
)

var lookupHostname = os.Hostname

// TopologyAwareAlltoall is Alltoall run over g renumbered so that the ranks sharing a
// host are contiguous, which keeps row traffic within hosts. Buffers are laid out by
// ranks of g, as for Alltoall.
func (e *Engine) TopologyAwareAlltoall(sendBuf []byte, sendCount int, sendType base.DataType,
	recvBuf []byte, recvCount int, recvType base.DataType, g *comm.Comm) error {
	if g == nil {
		return comm.Errorf(comm.CodeInvalidArg, "topology aware alltoall", "nil group")
	}
	if e.opts.Width <= 0 {
		return comm.Errorf(comm.CodeInvalidArg, "topology aware alltoall", "non-positive group width %d", e.opts.Width)
	}
	n := g.Size()
	for _, b := range []struct {
		op    string
		buf   []byte
		count int
		dtype base.DataType
	}{
		{"topology aware alltoall send", sendBuf, sendCount, sendType},
		{"topology aware alltoall recv", recvBuf, recvCount, recvType},
	} {
		counts, displs := uniform(n, b.count)
		if _, err := NewTransferPlan(b.op, n, counts, byteDispls(displs, b.dtype), repeat(b.dtype, n), len(b.buf)); err != nil {
			return err
		}
	}
	hostname := e.opts.Hostname
	if len(hostname) == 0 {
		var err error
		if hostname, err = lookupHostname(); err != nil {
			return e.fail(g, comm.Errorf(comm.CodeOther, "topology aware alltoall", "hostname: %v", err))
		}
	}
	m, err := locality.Resolve(g, hostname)
	if err != nil {
		return e.fail(g, err)
	}
	r, err := locality.Remap(g, m)
	if err != nil {
		return e.fail(g, err)
	}
	defer r.Close()

	sendCounts, recvCounts := make([]int, n), make([]int, n)
	sendDispls, recvDispls := make([]int, n), make([]int, n)
	for k := 0; k < n; k++ {
		old := r.Perm.Inverse(k)
		sendCounts[k], sendDispls[k] = sendCount, old*sendCount
		recvCounts[k], recvDispls[k] = recvCount, old*recvCount
	}
	if err := e.Alltoallv(sendBuf, sendCounts, sendDispls, sendType, recvBuf, recvCounts, recvDispls, recvType, r.Comm); err != nil {
		return errors.Wrapf(err, "alltoall over %s", r.Comm)
	}
	return nil
}

// TopologyAwareAlltoall runs Engine.TopologyAwareAlltoall with DefaultOptions.
func TopologyAwareAlltoall(sendBuf []byte, sendCount int, sendType base.DataType,
	recvBuf []byte, recvCount int, recvType base.DataType, g *comm.Comm) error {
	return NewEngine(DefaultOptions()).TopologyAwareAlltoall(sendBuf, sendCount, sendType, recvBuf, recvCount, recvType, g)
}
