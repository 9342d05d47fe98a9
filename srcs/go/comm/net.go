package comm

import (
	"os"

	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/monitor"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/client"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/lsds/hia2a/srcs/go/rchannel/handler"
	"github.com/pkg/errors"
)

// NetTransport sends messages to other peers through rchannel connections and receives
// them from the collective endpoint served by the local rchannel server.
type NetTransport struct {
	self     int
	peers    plan.PeerList
	client   *client.Client
	endpoint *handler.CollectiveEndpoint
	exit     func(code int)
	monitor  monitor.Monitor
}

// NetOption customises a NetTransport.
type NetOption func(*NetTransport)

// WithExit replaces os.Exit as the last step of an abort.
func WithExit(exit func(code int)) NetOption {
	return func(t *NetTransport) { t.exit = exit }
}

// WithMonitor counts the bytes exchanged with every peer in m.
func WithMonitor(m monitor.Monitor) NetOption {
	return func(t *NetTransport) { t.monitor = m }
}

// NewNetTransport creates the transport of the peer cl.Self() in peers.
func NewNetTransport(peers plan.PeerList, cl *client.Client, ep *handler.CollectiveEndpoint, opts ...NetOption) (*NetTransport, error) {
	self, ok := peers.Rank(cl.Self())
	if !ok {
		return nil, errors.Errorf("%s not in peer list %s", cl.Self(), peers)
	}
	t := &NetTransport{
		self:     self,
		peers:    peers,
		client:   cl,
		endpoint: ep,
		exit:     os.Exit,
		monitor:  monitor.New(false, 0),
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

func (t *NetTransport) Self() int { return t.self }

func (t *NetTransport) Size() int { return len(t.peers) }

func (t *NetTransport) checkRank(op string, r int) error {
	if r < 0 || r >= len(t.peers) {
		return newError(CodeInvalidArg, op, "rank %d out of range [0, %d)", r, len(t.peers))
	}
	return nil
}

func (t *NetTransport) Send(dst int, name string, buf []byte) error {
	if err := t.checkRank("send", dst); err != nil {
		return err
	}
	if dst == t.self {
		data := connection.GetBuf(len(buf))
		copy(data, buf)
		t.endpoint.Deliver(t.peers[t.self].WithName(name), &connection.Message{Length: uint32(len(data)), Data: data})
		return nil
	}
	if err := t.client.Send(t.peers[dst].WithName(name), buf, connection.ConnCollective, connection.NoFlag); err != nil {
		return &Error{Code: CodeTransport, Op: "send", Err: errors.Wrapf(err, "send %q to %s", name, t.peers[dst])}
	}
	t.monitor.Egress(int64(len(buf)), t.peers[dst])
	return nil
}

func (t *NetTransport) Recv(src int, name string) ([]byte, error) {
	if err := t.checkRank("recv", src); err != nil {
		return nil, err
	}
	msg, err := t.endpoint.Recv(t.peers[src].WithName(name))
	if err != nil {
		return nil, err
	}
	if src != t.self {
		t.monitor.Ingress(int64(len(msg.Data)), t.peers[src])
	}
	return msg.Data, nil
}

// Abort asks every other peer to abort, fails local receives and then exits.
func (t *NetTransport) Abort(code int) {
	log.Errorf("aborting %d peers with code %d", len(t.peers), code)
	name := handler.AbortMessageName(code)
	for _, p := range t.peers.Others(t.peers[t.self]) {
		if err := t.client.Send(p.WithName(name), nil, connection.ConnControl, connection.NoFlag); err != nil {
			log.Warnf("failed to notify %s of abort: %v", p, err)
		}
	}
	t.OnAbort(code)
}

// OnAbort handles an abort requested by this or another peer.
func (t *NetTransport) OnAbort(code int) {
	t.endpoint.Close(newError(CodeAborted, "abort", "aborted with code %d", code))
	t.exit(code)
}
