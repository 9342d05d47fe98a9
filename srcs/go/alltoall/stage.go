package alltoall

import (
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

// stage holds the scratch buffers of one exchange stage.
type stage struct {
	partner  int
	maxBytes int
	bufs     [][]byte
}

func newStage(partner, maxBytes int) *stage {
	return &stage{partner: partner, maxBytes: maxBytes}
}

// alloc returns a pooled buffer of n bytes that lives until release.
func (s *stage) alloc(what string, n int) ([]byte, error) {
	if s.maxBytes > 0 && n > s.maxBytes {
		return nil, comm.Errorf(comm.CodeNoMem, "stage", "%s needs %d bytes, limit is %d", what, n, s.maxBytes)
	}
	buf := connection.GetBuf(n)
	s.bufs = append(s.bufs, buf)
	return buf, nil
}

func (s *stage) release() {
	for _, buf := range s.bufs {
		connection.PutBuf(buf)
	}
	s.bufs = nil
}

// pairTable holds the byte sizes declared by the members of the receiving row for
// every member of the sending row.
type pairTable struct {
	senders, receivers int
	bytes              []int // bytes[r*senders+p] from sender p to receiver r
}

func (t pairTable) at(p, r int) int {
	return t.bytes[r*t.senders+p]
}

// receiverTotals is the number of bytes each receiver expects from the sending row.
func (t pairTable) receiverTotals() []int {
	totals := make([]int, t.receivers)
	for r := range totals {
		for p := 0; p < t.senders; p++ {
			totals[r] += t.at(p, r)
		}
	}
	return totals
}

// regroup rewrites in, laid out sender-major, into out, laid out receiver-major.
func (t pairTable) regroup(out, in []byte) {
	offsets := make([]int, len(t.bytes))
	var off int
	for p := 0; p < t.senders; p++ {
		for r := 0; r < t.receivers; r++ {
			offsets[r*t.senders+p] = off
			off += t.at(p, r)
		}
	}
	var dst int
	for r := 0; r < t.receivers; r++ {
		for p := 0; p < t.senders; p++ {
			src := offsets[r*t.senders+p]
			dst += copy(out[dst:], in[src:src+t.at(p, r)])
		}
	}
}

func prefixSum(xs []int) ([]int, int) {
	displs := make([]int, len(xs))
	var total int
	for i, x := range xs {
		displs[i] = total
		total += x
	}
	return displs, total
}
