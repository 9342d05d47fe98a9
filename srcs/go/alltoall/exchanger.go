package alltoall

import (
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/config"
)

// RowExchanger moves bytes between the members of a row and its coordinator (rank 0).
// counts, displs and the coordinator side buffer are only read at the coordinator.
type RowExchanger interface {
	// Aggregate places send of member r at agg[displs[r]:displs[r]+counts[r]].
	Aggregate(row *comm.Comm, send, agg []byte, counts, displs []int, tag int) error

	// Distribute fills recv of member r with out[displs[r]:displs[r]+counts[r]].
	Distribute(row *comm.Comm, out []byte, counts, displs []int, recv []byte, tag int) error
}

// NewRowExchanger returns the RowExchanger implementing e.
func NewRowExchanger(e config.Exchange) (RowExchanger, error) {
	switch e {
	case config.ExchangeCollective:
		return collectiveExchanger{}, nil
	case config.ExchangeAddressed:
		return addressedExchanger{}, nil
	default:
		return nil, comm.Errorf(comm.CodeInvalidArg, "exchange", "unknown exchange %d", int(e))
	}
}

type collectiveExchanger struct{}

func (collectiveExchanger) Aggregate(row *comm.Comm, send, agg []byte, counts, displs []int, tag int) error {
	return row.Gatherv(send, agg, counts, displs, 0)
}

func (collectiveExchanger) Distribute(row *comm.Comm, out []byte, counts, displs []int, recv []byte, tag int) error {
	return row.Scatterv(out, counts, displs, recv, 0)
}

func (collectiveExchanger) String() string { return config.ExchangeCollective.String() }

type addressedExchanger struct{}

func (addressedExchanger) Aggregate(row *comm.Comm, send, agg []byte, counts, displs []int, tag int) error {
	if !row.IsRoot() {
		return row.Send(0, tag, send)
	}
	if err := comm.CheckLayout("aggregate", counts, displs, row.Size(), len(agg)); err != nil {
		return err
	}
	if len(send) != counts[0] {
		return comm.Errorf(comm.CodeTruncate, "aggregate", "coordinator has %d bytes, expected %d", len(send), counts[0])
	}
	copy(agg[displs[0]:], send)
	var reqs []*comm.Request
	for r := 1; r < row.Size(); r++ {
		reqs = append(reqs, row.Irecv(r, tag, agg[displs[r]:displs[r]+counts[r]]))
	}
	if err := comm.WaitAll(reqs...); err != nil {
		return err
	}
	for i, req := range reqs {
		if n := req.Count(); n != counts[i+1] {
			return comm.Errorf(comm.CodeTruncate, "aggregate", "rank %d sent %d bytes, expected %d", i+1, n, counts[i+1])
		}
	}
	return nil
}

func (addressedExchanger) Distribute(row *comm.Comm, out []byte, counts, displs []int, recv []byte, tag int) error {
	if !row.IsRoot() {
		n, err := row.Recv(0, tag, recv)
		if err != nil {
			return err
		}
		if n != len(recv) {
			return comm.Errorf(comm.CodeTruncate, "distribute", "received %d bytes, expected %d", n, len(recv))
		}
		return nil
	}
	if err := comm.CheckLayout("distribute", counts, displs, row.Size(), len(out)); err != nil {
		return err
	}
	if len(recv) != counts[0] {
		return comm.Errorf(comm.CodeTruncate, "distribute", "coordinator expects %d bytes, has %d", len(recv), counts[0])
	}
	var reqs []*comm.Request
	for r := 1; r < row.Size(); r++ {
		reqs = append(reqs, row.Isend(r, tag, out[displs[r]:displs[r]+counts[r]]))
	}
	copy(recv, out[displs[0]:displs[0]+counts[0]])
	return comm.WaitAll(reqs...)
}

func (addressedExchanger) String() string { return config.ExchangeAddressed.String() }

var (
	_ RowExchanger = collectiveExchanger{}
	_ RowExchanger = addressedExchanger{}
)
