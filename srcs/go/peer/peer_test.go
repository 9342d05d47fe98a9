package peer

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/env"
	"github.com/lsds/hia2a/srcs/go/monitor"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loopbackConfigs(t *testing.T, np int, begin uint16) []*env.Config {
	hl := plan.HostList{{IPv4: plan.MustParseIPv4("127.0.0.1"), Slots: np}}
	pl, err := hl.GenPeerList(np, plan.PortRange{Begin: begin, End: begin + 100})
	require.NoError(t, err)
	id := uuid.New()
	var cfgs []*env.Config
	for _, self := range pl {
		cfgs = append(cfgs, &env.Config{Self: self, InitPeers: pl, JobID: id, Hostname: "localhost"})
	}
	return cfgs
}

func startAll(t *testing.T, cfgs []*env.Config, opts ...comm.NetOption) []*Peer {
	peers := make([]*Peer, len(cfgs))
	errs := make([]error, len(cfgs))
	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		p, err := NewFromConfig(cfg, opts...)
		require.NoError(t, err)
		peers[i] = p
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			errs[i] = peers[i].Start(ctx)
		}(i)
	}
	wg.Wait()
	require.NoError(t, utils.MergeErrors(errs, "start"))
	return peers
}

func runAll(peers []*Peer, f func(c *comm.Comm) error) error {
	errs := make([]error, len(peers))
	var wg sync.WaitGroup
	for i, p := range peers {
		wg.Add(1)
		go func(i int, p *Peer) {
			defer wg.Done()
			errs[i] = f(p.World())
		}(i, p)
	}
	wg.Wait()
	return utils.MergeErrors(errs, "run")
}

func Test_Peer_single(t *testing.T) {
	p, err := NewFromConfig(&env.Config{Single: true, Hostname: "h"})
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))
	defer p.Close()
	w := p.World()
	assert.Equal(t, 1, w.Size())
	assert.NoError(t, w.Barrier())
}

func Test_Peer_loopback(t *testing.T) {
	const np = 3
	peers := startAll(t, loopbackConfigs(t, np, 42100))
	defer func() {
		for _, p := range peers {
			p.Close()
		}
	}()
	err := runAll(peers, func(c *comm.Comm) error {
		xs, err := c.AllgatherInts(10 * c.Rank())
		if err != nil {
			return err
		}
		if fmt.Sprint(xs) != fmt.Sprint([]int{0, 10, 20}) {
			return fmt.Errorf("allgather got %v", xs)
		}
		next, prev := (c.Rank()+1)%np, (c.Rank()+np-1)%np
		payload := make([]byte, 1<<16)
		for i := range payload {
			payload[i] = byte(c.Rank() + i)
		}
		buf := make([]byte, len(payload))
		n, err := c.Sendrecv(payload, next, buf, prev, 0)
		if err != nil {
			return err
		}
		if n != len(buf) || buf[1] != byte(prev+1) {
			return fmt.Errorf("rank %d got %d bytes from %d", c.Rank(), n, prev)
		}
		return c.Barrier()
	})
	assert.NoError(t, err)
}

func Test_Peer_abort(t *testing.T) {
	const np = 2
	var mu sync.Mutex
	var codes []int
	exit := comm.WithExit(func(code int) {
		mu.Lock()
		defer mu.Unlock()
		codes = append(codes, code)
	})
	peers := startAll(t, loopbackConfigs(t, np, 42300), exit)
	defer func() {
		for _, p := range peers {
			p.Close()
		}
	}()
	errs := make([]error, np)
	var wg sync.WaitGroup
	for i, p := range peers {
		wg.Add(1)
		go func(i int, c *comm.Comm) {
			defer wg.Done()
			if i == 0 {
				c.Abort(comm.CodeNoMem)
				return
			}
			_, errs[i] = c.Recv(0, 0, nil)
		}(i, p.World())
	}
	wg.Wait()
	assert.True(t, comm.IsAborted(errs[1]))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{comm.CodeNoMem, comm.CodeNoMem}, codes)
}

func Test_Peer_monitor(t *testing.T) {
	m := monitor.New(true, 0)
	defer m.Stop()
	cfgs := loopbackConfigs(t, 2, 42400)
	peers := startAll(t, cfgs, comm.WithMonitor(m))
	defer func() {
		for _, p := range peers {
			p.Close()
		}
	}()
	err := runAll(peers, func(c *comm.Comm) error {
		if c.Rank() == 0 {
			return c.Send(1, 7, make([]byte, 100))
		}
		_, err := c.Recv(0, 7, make([]byte, 100))
		return err
	})
	require.NoError(t, err)
	var b bytes.Buffer
	m.WriteTo(&b)
	assert.Contains(t, b.String(), fmt.Sprintf("egress_total_bytes{peer=%q} 100", cfgs[1].Self.String()))
	assert.Contains(t, b.String(), fmt.Sprintf("ingress_total_bytes{peer=%q} 100", cfgs[0].Self.String()))
}
