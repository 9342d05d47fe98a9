package alltoall

import (
	"github.com/lsds/hia2a/srcs/go/base"
	"github.com/lsds/hia2a/srcs/go/comm"
)

// Alltoall exchanges sendCount elements of sendType with every rank of g.
// The block for rank j starts at element j*sendCount of sendBuf, the block from
// rank i is stored at element i*recvCount of recvBuf.
func (e *Engine) Alltoall(sendBuf []byte, sendCount int, sendType base.DataType,
	recvBuf []byte, recvCount int, recvType base.DataType, g *comm.Comm) error {
	if g == nil {
		return comm.Errorf(comm.CodeInvalidArg, "alltoall", "nil group")
	}
	sendCounts, sendDispls := uniform(g.Size(), sendCount)
	recvCounts, recvDispls := uniform(g.Size(), recvCount)
	return e.Alltoallv(sendBuf, sendCounts, sendDispls, sendType, recvBuf, recvCounts, recvDispls, recvType, g)
}

// Alltoallv is Alltoallw with a single type and displacements counted in elements.
func (e *Engine) Alltoallv(sendBuf []byte, sendCounts, sendDispls []int, sendType base.DataType,
	recvBuf []byte, recvCounts, recvDispls []int, recvType base.DataType, g *comm.Comm) error {
	if g == nil {
		return comm.Errorf(comm.CodeInvalidArg, "alltoallv", "nil group")
	}
	if !sendType.Valid() || !recvType.Valid() {
		return comm.Errorf(comm.CodeInvalidArg, "alltoallv", "invalid data types %s, %s", sendType, recvType)
	}
	return e.Alltoallw(
		sendBuf, sendCounts, byteDispls(sendDispls, sendType), repeat(sendType, g.Size()),
		recvBuf, recvCounts, byteDispls(recvDispls, recvType), repeat(recvType, g.Size()),
		g)
}

func uniform(n, count int) ([]int, []int) {
	counts := make([]int, n)
	displs := make([]int, n)
	for i := range counts {
		counts[i] = count
		displs[i] = i * count
	}
	return counts, displs
}

func byteDispls(displs []int, dtype base.DataType) []int {
	bs := make([]int, len(displs))
	for i, d := range displs {
		bs[i] = d * dtype.Size()
	}
	return bs
}

func repeat(dtype base.DataType, n int) []base.DataType {
	ts := make([]base.DataType, n)
	for i := range ts {
		ts[i] = dtype
	}
	return ts
}

// Alltoall runs Engine.Alltoall with DefaultOptions.
func Alltoall(sendBuf []byte, sendCount int, sendType base.DataType,
	recvBuf []byte, recvCount int, recvType base.DataType, g *comm.Comm) error {
	return NewEngine(DefaultOptions()).Alltoall(sendBuf, sendCount, sendType, recvBuf, recvCount, recvType, g)
}

// Alltoallv runs Engine.Alltoallv with DefaultOptions.
func Alltoallv(sendBuf []byte, sendCounts, sendDispls []int, sendType base.DataType,
	recvBuf []byte, recvCounts, recvDispls []int, recvType base.DataType, g *comm.Comm) error {
	return NewEngine(DefaultOptions()).Alltoallv(sendBuf, sendCounts, sendDispls, sendType, recvBuf, recvCounts, recvDispls, recvType, g)
}
