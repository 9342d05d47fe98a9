package comm

import (
	"fmt"
	"sync"

	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/lsds/hia2a/srcs/go/rchannel/handler"
)

// LocalWorld is an in-process world whose processes are goroutines sharing one hub.
type LocalWorld struct {
	peers     plan.PeerList
	endpoints []*handler.CollectiveEndpoint

	mu        sync.Mutex
	aborted   bool
	abortCode int
}

// NewLocalWorld creates a world of np in-process peers.
func NewLocalWorld(np int) *LocalWorld {
	w := &LocalWorld{}
	for i := 0; i < np; i++ {
		id := plan.PeerID{IPv4: plan.MustParseIPv4("127.0.0.1"), Port: uint16(i + 1)}
		w.peers = append(w.peers, id)
		w.endpoints = append(w.endpoints, handler.NewCollectiveEndpoint(id))
	}
	return w
}

func (w *LocalWorld) Size() int {
	return len(w.peers)
}

// Transport returns the transport of process rank.
func (w *LocalWorld) Transport(rank int) Transport {
	return &localTransport{world: w, self: rank}
}

// Comms returns a world group for every process.
func (w *LocalWorld) Comms() []*Comm {
	var cs []*Comm
	for i := range w.peers {
		cs = append(cs, New(w.Transport(i)))
	}
	return cs
}

// Aborted returns the code of the first abort, if any.
func (w *LocalWorld) Aborted() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.abortCode, w.aborted
}

// Run calls f for every rank in its own goroutine and waits for all of them.
func (w *LocalWorld) Run(f func(c *Comm) error) []error {
	cs := w.Comms()
	errs := make([]error, len(cs))
	var wg sync.WaitGroup
	for i, c := range cs {
		wg.Add(1)
		go func(i int, c *Comm) {
			defer wg.Done()
			errs[i] = f(c)
		}(i, c)
	}
	wg.Wait()
	return errs
}

func (w *LocalWorld) abort(by, code int) {
	w.mu.Lock()
	if w.aborted {
		w.mu.Unlock()
		return
	}
	w.aborted = true
	w.abortCode = code
	w.mu.Unlock()
	log.Debugf("local world aborted by rank %d with code %d", by, code)
	err := newError(CodeAborted, "abort", "rank %d aborted with code %d", by, code)
	for _, e := range w.endpoints {
		e.Close(err)
	}
}

func (w *LocalWorld) isAborted() bool {
	_, ok := w.Aborted()
	return ok
}

type localTransport struct {
	world *LocalWorld
	self  int
}

func (t *localTransport) Self() int { return t.self }

func (t *localTransport) Size() int { return t.world.Size() }

func (t *localTransport) checkRank(op string, r int) error {
	if r < 0 || r >= t.Size() {
		return newError(CodeInvalidArg, op, "rank %d out of range [0, %d)", r, t.Size())
	}
	return nil
}

func (t *localTransport) Send(dst int, name string, buf []byte) error {
	if err := t.checkRank("send", dst); err != nil {
		return err
	}
	if t.world.isAborted() {
		return newError(CodeAborted, "send", "world aborted")
	}
	data := connection.GetBuf(len(buf))
	copy(data, buf)
	msg := &connection.Message{Length: uint32(len(data)), Data: data}
	t.world.endpoints[dst].Deliver(t.world.peers[t.self].WithName(name), msg)
	return nil
}

func (t *localTransport) Recv(src int, name string) ([]byte, error) {
	if err := t.checkRank("recv", src); err != nil {
		return nil, err
	}
	msg, err := t.world.endpoints[t.self].Recv(t.world.peers[src].WithName(name))
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}

func (t *localTransport) Abort(code int) {
	t.world.abort(t.self, code)
}

func (t *localTransport) String() string {
	return fmt.Sprintf("local#%d/%d", t.self, t.Size())
}
