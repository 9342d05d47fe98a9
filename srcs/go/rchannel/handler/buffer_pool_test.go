package handler

import (
	"errors"
	"sync"
	"testing"

	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(s string) *connection.Message {
	return &connection.Message{Length: uint32(len(s)), Data: []byte(s)}
}

func Test_BufferPool_fifo(t *testing.T) {
	p := newBufferPool()
	a := plan.PeerID{IPv4: 1, Port: 2}.WithName("x")
	for _, s := range []string{"a", "b", "c"} {
		p.put(a, msg(s))
	}
	for _, s := range []string{"a", "b", "c"} {
		m, err := p.get(a)
		require.NoError(t, err)
		assert.Equal(t, s, string(m.Data))
	}
	assert.Equal(t, 0, p.size())
}

func Test_BufferPool_concurrent(t *testing.T) {
	p := newBufferPool()
	a := plan.PeerID{IPv4: 1, Port: 2}.WithName("x")
	const n = 100
	var wg sync.WaitGroup
	got := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := p.get(a)
			if err == nil {
				got <- string(m.Data)
			}
		}()
	}
	for i := 0; i < n; i++ {
		p.put(a, msg("m"))
	}
	wg.Wait()
	assert.Len(t, got, n)
}

func Test_BufferPool_close(t *testing.T) {
	p := newBufferPool()
	a := plan.PeerID{IPv4: 1, Port: 2}.WithName("x")
	errAborted := errors.New("aborted")
	done := make(chan error)
	go func() {
		_, err := p.get(a)
		done <- err
	}()
	p.close(errAborted)
	p.close(errors.New("second"))
	assert.Equal(t, errAborted, <-done)
	_, err := p.get(a)
	assert.Equal(t, errAborted, err)
}

func Test_AbortMessageName(t *testing.T) {
	var got int
	h := &ControlHandler{OnAbort: func(code int) { got = code }}
	h.handleControl(AbortMessageName(7), msg(""), nil)
	assert.Equal(t, 7, got)
}

func Test_InvalidAbortMessage(t *testing.T) {
	var called bool
	h := &ControlHandler{OnAbort: func(int) { called = true }}
	h.handleControl(abortPrefix+"x", msg(""), nil)
	h.handleControl("hello", msg(""), nil)
	assert.False(t, called)
}
