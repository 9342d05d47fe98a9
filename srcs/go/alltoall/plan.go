package alltoall

import (
	"github.com/lsds/hia2a/srcs/go/base"
	"github.com/lsds/hia2a/srcs/go/comm"
)

// TransferPlan describes, per peer rank, the byte range of a buffer exchanged with it.
type TransferPlan struct {
	Bytes  []int
	Displs []int
}

// NewTransferPlan converts element counts and byte displacements into a byte level
// plan for a group of size ranks, checking it against a buffer of bufLen bytes.
func NewTransferPlan(op string, size int, counts, displs []int, types []base.DataType, bufLen int) (*TransferPlan, error) {
	if len(types) != size {
		return nil, comm.Errorf(comm.CodeInvalidArg, op, "got %d types for group of %d", len(types), size)
	}
	if len(counts) != size || len(displs) != size {
		return nil, comm.Errorf(comm.CodeInvalidArg, op, "got %d counts and %d displacements for group of %d", len(counts), len(displs), size)
	}
	p := &TransferPlan{
		Bytes:  make([]int, size),
		Displs: make([]int, size),
	}
	for i := 0; i < size; i++ {
		if !types[i].Valid() {
			return nil, comm.Errorf(comm.CodeInvalidArg, op, "invalid data type %s for rank %d", types[i], i)
		}
		if counts[i] < 0 {
			return nil, comm.Errorf(comm.CodeInvalidArg, op, "negative count %d for rank %d", counts[i], i)
		}
		p.Bytes[i] = base.PackSize(counts[i], types[i])
		p.Displs[i] = displs[i]
	}
	if err := comm.CheckLayout(op, p.Bytes, p.Displs, size, bufLen); err != nil {
		return nil, err
	}
	return p, nil
}

// Total is the sum of Bytes over ranks [first, first+n).
func (p *TransferPlan) Total(first, n int) int {
	var total int
	for _, b := range p.Bytes[first : first+n] {
		total += b
	}
	return total
}
