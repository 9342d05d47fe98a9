package main

import (
	"testing"

	"github.com/lsds/hia2a/srcs/go/alltoall"
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_checks(t *testing.T) {
	hosts := []string{"b", "a", "b", "c", "a"}
	for _, ex := range []config.Exchange{config.ExchangeCollective, config.ExchangeAddressed} {
		for _, width := range []int{1, 2, 3, 8} {
			w := comm.NewLocalWorld(len(hosts))
			errs := w.Run(func(g *comm.Comm) error {
				opts := alltoall.Options{Width: width, Exchange: ex, Hostname: hosts[g.Rank()]}
				return runChecks(g, opts, checkNames(), 7, 2)
			})
			for r, err := range errs {
				assert.NoError(t, err, "rank %d, width %d, exchange %s", r, width, ex)
			}
		}
	}
}

func Test_verify(t *testing.T) {
	send := sendLayout(1, 3, skewedSize(2), mixedType)
	recv := recvLayout(0, 3, skewedSize(2), mixedType)
	assert.Equal(t, send.counts[0], recv.counts[1])
	copy(recv.block(1), send.block(0))
	assert.Error(t, verify(0, recv))
	for i := 0; i < 3; i++ {
		b := recv.block(i)
		for k := range b {
			b[k] = payload(i, 0, k)
		}
	}
	assert.NoError(t, verify(0, recv))
}

func Test_selectOps(t *testing.T) {
	ops, err := selectOps("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"alltoall", "alltoallv", "alltoallw", "topo"}, ops)
	ops, err = selectOps("topo")
	require.NoError(t, err)
	assert.Equal(t, []string{"topo"}, ops)
	_, err = selectOps("bcast")
	assert.Error(t, err)
	assert.Nil(t, parseHosts(""))
	assert.Equal(t, []string{"a", "b"}, parseHosts("a,b"))
}
