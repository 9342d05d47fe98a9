package handler

import (
	"sync"

	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

// queue is an unbounded FIFO of messages sharing one Addr, guarded by its BufferPool.
type queue struct {
	msgs    []*connection.Message
	notify  chan struct{}
	waiters int
}

func (q *queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// BufferPool holds one queue per (source peer, name) and fails every pending and
// future receive once closed. Queues are dropped when drained and unwatched, so
// names used once do not accumulate.
type BufferPool struct {
	sync.Mutex
	queues map[plan.Addr]*queue
	closed chan struct{}
	err    error
}

func newBufferPool() *BufferPool {
	return &BufferPool{
		queues: make(map[plan.Addr]*queue),
		closed: make(chan struct{}),
	}
}

func (p *BufferPool) require(a plan.Addr) *queue {
	q, ok := p.queues[a]
	if !ok {
		q = &queue{notify: make(chan struct{}, 1)}
		p.queues[a] = q
	}
	return q
}

func (p *BufferPool) put(a plan.Addr, m *connection.Message) {
	p.Lock()
	q := p.require(a)
	q.msgs = append(q.msgs, m)
	p.Unlock()
	q.signal()
}

func (p *BufferPool) tryPop(q *queue) (*connection.Message, bool) {
	p.Lock()
	defer p.Unlock()
	if len(q.msgs) == 0 {
		return nil, false
	}
	m := q.msgs[0]
	q.msgs[0] = nil
	q.msgs = q.msgs[1:]
	if len(q.msgs) > 0 {
		q.signal()
	}
	return m, true
}

func (p *BufferPool) get(a plan.Addr) (*connection.Message, error) {
	p.Lock()
	q := p.require(a)
	q.waiters++
	p.Unlock()
	defer func() {
		p.Lock()
		defer p.Unlock()
		q.waiters--
		if q.waiters == 0 && len(q.msgs) == 0 {
			delete(p.queues, a)
		}
	}()
	for {
		if m, ok := p.tryPop(q); ok {
			return m, nil
		}
		select {
		case <-q.notify:
		case <-p.closed:
			return nil, p.err
		}
	}
}

// close is idempotent, the first error wins.
func (p *BufferPool) close(err error) {
	p.Lock()
	defer p.Unlock()
	select {
	case <-p.closed:
		return
	default:
	}
	p.err = err
	close(p.closed)
}

func (p *BufferPool) size() int {
	p.Lock()
	defer p.Unlock()
	return len(p.queues)
}
