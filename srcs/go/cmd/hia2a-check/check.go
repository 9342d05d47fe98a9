package main

import (
	"fmt"
	"sort"

	"github.com/lsds/hia2a/srcs/go/alltoall"
	"github.com/lsds/hia2a/srcs/go/base"
	"github.com/lsds/hia2a/srcs/go/comm"
)

// payload is the k-th byte that rank i sends to rank j.
func payload(i, j, k int) byte {
	return byte(i*131 + j*31 + k + 1)
}

// blockSize is the element count rank i sends to rank j.
type blockSize func(i, j int) int

func uniformSize(count int) blockSize {
	return func(i, j int) int { return count }
}

func skewedSize(count int) blockSize {
	return func(i, j int) int { return count + (i+j)%3 }
}

// blockType is the element type rank i uses for the block it sends to rank j.
type blockType func(i, j int) base.DataType

func singleType(t base.DataType) blockType {
	return func(i, j int) base.DataType { return t }
}

func mixedType(i, j int) base.DataType {
	if (i+j)%2 == 0 {
		return base.U8
	}
	return base.I32
}

type layout struct {
	buf    []byte
	counts []int
	displs []int // in bytes
	types  []base.DataType
}

func (l layout) block(j int) []byte {
	return l.buf[l.displs[j] : l.displs[j]+l.counts[j]*l.types[j].Size()]
}

func (l layout) elemDispls() []int {
	displs := make([]int, len(l.displs))
	for j, d := range l.displs {
		displs[j] = d / l.types[j].Size()
	}
	return displs
}

// newLayout packs the n blocks of a rank contiguously, peer(j) gives the (sender,
// receiver) pair of block j.
func newLayout(n int, peer func(j int) (int, int), size blockSize, dtype blockType) layout {
	l := layout{
		counts: make([]int, n),
		displs: make([]int, n),
		types:  make([]base.DataType, n),
	}
	var off int
	for j := 0; j < n; j++ {
		src, dst := peer(j)
		l.counts[j] = size(src, dst)
		l.types[j] = dtype(src, dst)
		l.displs[j] = off
		off += l.counts[j] * l.types[j].Size()
	}
	l.buf = make([]byte, off)
	return l
}

func sendLayout(rank, n int, size blockSize, dtype blockType) layout {
	l := newLayout(n, func(j int) (int, int) { return rank, j }, size, dtype)
	for j := 0; j < n; j++ {
		b := l.block(j)
		for k := range b {
			b[k] = payload(rank, j, k)
		}
	}
	return l
}

func recvLayout(rank, n int, size blockSize, dtype blockType) layout {
	return newLayout(n, func(i int) (int, int) { return i, rank }, size, dtype)
}

func verify(rank int, recv layout) error {
	for i := range recv.counts {
		b := recv.block(i)
		for k, x := range b {
			if want := payload(i, rank, k); x != want {
				return fmt.Errorf("rank %d: byte %d of the block from rank %d is %d, want %d", rank, k, i, x, want)
			}
		}
	}
	return nil
}

type checkFunc func(e *alltoall.Engine, g *comm.Comm, count int) (int64, error)

var checks = map[string]checkFunc{
	"alltoall":  checkAlltoall,
	"alltoallv": checkAlltoallv,
	"alltoallw": checkAlltoallw,
	"topo":      checkTopologyAware,
}

func checkNames() []string {
	var names []string
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkAlltoall(e *alltoall.Engine, g *comm.Comm, count int) (int64, error) {
	return checkUniform(e.Alltoall, g, count)
}

func checkTopologyAware(e *alltoall.Engine, g *comm.Comm, count int) (int64, error) {
	return checkUniform(e.TopologyAwareAlltoall, g, count)
}

func checkUniform(f func([]byte, int, base.DataType, []byte, int, base.DataType, *comm.Comm) error, g *comm.Comm, count int) (int64, error) {
	rank, n := g.Rank(), g.Size()
	send := sendLayout(rank, n, uniformSize(count), singleType(base.I32))
	recv := recvLayout(rank, n, uniformSize(count), singleType(base.I32))
	if err := f(send.buf, count, base.I32, recv.buf, count, base.I32, g); err != nil {
		return 0, err
	}
	return int64(len(send.buf)), verify(rank, recv)
}

func checkAlltoallv(e *alltoall.Engine, g *comm.Comm, count int) (int64, error) {
	rank, n := g.Rank(), g.Size()
	send := sendLayout(rank, n, skewedSize(count), singleType(base.I32))
	recv := recvLayout(rank, n, skewedSize(count), singleType(base.I32))
	err := e.Alltoallv(send.buf, send.counts, send.elemDispls(), base.I32,
		recv.buf, recv.counts, recv.elemDispls(), base.I32, g)
	if err != nil {
		return 0, err
	}
	return int64(len(send.buf)), verify(rank, recv)
}

func checkAlltoallw(e *alltoall.Engine, g *comm.Comm, count int) (int64, error) {
	rank, n := g.Rank(), g.Size()
	send := sendLayout(rank, n, skewedSize(count), mixedType)
	recv := recvLayout(rank, n, skewedSize(count), mixedType)
	err := e.Alltoallw(send.buf, send.counts, send.displs, send.types,
		recv.buf, recv.counts, recv.displs, recv.types, g)
	if err != nil {
		return 0, err
	}
	return int64(len(send.buf)), verify(rank, recv)
}
