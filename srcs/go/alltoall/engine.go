package alltoall

import (
	"fmt"
	"time"

	"github.com/lsds/hia2a/srcs/go/base"
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/utils"
	"github.com/pkg/errors"
)

// Stats describes the last call of an Engine.
type Stats struct {
	Stages      int
	BytesPacked int64 // outbound bytes packed by this process
	BytesSent   int64 // bytes this process sent to other rows as coordinator
	Duration    time.Duration
	Members     []int // world ranks of the group, in group rank order
}

// Engine runs hierarchical personalized exchanges. An Engine is not safe for
// concurrent use.
type Engine struct {
	opts  Options
	stats Stats
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

func (e *Engine) Options() Options { return e.opts }

func (e *Engine) Stats() Stats { return e.stats }

// Alltoallw sends sendBuf[sendDispls[j]:] (sendCounts[j] elements of sendTypes[j]) to
// every rank j of g and receives recvCounts[i] elements of recvTypes[i] from every rank
// i at recvBuf[recvDispls[i]:]. Displacements are in bytes.
// Invalid arguments are rejected before any communication. Any later failure
// aborts g.
func (e *Engine) Alltoallw(sendBuf []byte, sendCounts, sendDispls []int, sendTypes []base.DataType,
	recvBuf []byte, recvCounts, recvDispls []int, recvTypes []base.DataType, g *comm.Comm) error {
	if g == nil {
		return comm.Errorf(comm.CodeInvalidArg, "alltoallw", "nil group")
	}
	if e.opts.Width <= 0 {
		return comm.Errorf(comm.CodeInvalidArg, "alltoallw", "non-positive group width %d", e.opts.Width)
	}
	ex, err := NewRowExchanger(e.opts.Exchange)
	if err != nil {
		return err
	}
	send, err := NewTransferPlan("alltoallw send", g.Size(), sendCounts, sendDispls, sendTypes, len(sendBuf))
	if err != nil {
		return err
	}
	recv, err := NewTransferPlan("alltoallw recv", g.Size(), recvCounts, recvDispls, recvTypes, len(recvBuf))
	if err != nil {
		return err
	}
	return e.run(g, ex, sendBuf, send, recvBuf, recv)
}

func (e *Engine) run(g *comm.Comm, ex RowExchanger, sendBuf []byte, send *TransferPlan, recvBuf []byte, recv *TransferPlan) error {
	if e.opts.StallPeriod > 0 {
		defer utils.InstallStallDetector(fmt.Sprintf("alltoallw(%s)", g), e.opts.StallPeriod).Stop()
	}
	t0 := time.Now()
	e.stats = Stats{Members: make([]int, g.Size())}
	for r := range e.stats.Members {
		e.stats.Members[r] = g.WorldRank(r)
	}
	defer func() { e.stats.Duration = time.Since(t0) }()

	t, err := NewTopology(g, e.opts.Width)
	if err != nil {
		return e.fail(g, err)
	}
	defer t.Close()
	log.Debugf("%s: %s, exchange %s", g, t, ex)
	for s := 0; s < t.NRows; s++ {
		if err := e.stage(t, s, ex, sendBuf, send, recvBuf, recv); err != nil {
			return e.fail(g, errors.Wrapf(err, "stage %d of %d", s, t.NRows))
		}
		e.stats.Stages++
	}
	return nil
}

// fail aborts g unless it is already aborted.
func (e *Engine) fail(g *comm.Comm, err error) error {
	code := comm.Status(err)
	if code == comm.CodeAborted {
		return err
	}
	log.Errorf("%s: alltoallw failed: %v", g, err)
	g.Abort(code)
	return err
}

func (e *Engine) stage(t *Topology, s int, ex RowExchanger, sendBuf []byte, send *TransferPlan, recvBuf []byte, recv *TransferPlan) error {
	st := newStage(PartnerRow(t.Row, s, t.NRows), e.opts.MaxStageBytes)
	defer st.release()
	first, n := t.RowRange(st.partner)
	log.Debugf("%s: stage %d, row %d <-> row %d", t.Base, s, t.Row, st.partner)

	// pack what this process owes to every member of the partner row
	packed, err := st.alloc("packed", send.Total(first, n))
	if err != nil {
		return err
	}
	packed = packed[:0]
	sc := e.opts.Profiler.Profile("pack")
	for d := first; d < first+n; d++ {
		if packed, err = base.Pack(packed, sendBuf, send.Displs[d], send.Bytes[d], base.Byte); err != nil {
			return comm.Errorf(comm.CodeInvalidArg, "pack", "%v", err)
		}
	}
	sc.Done()
	e.stats.BytesPacked += int64(len(packed))

	// declare the packed total and what is expected from every partner member
	decl := make([]int, 1+n)
	decl[0] = len(packed)
	copy(decl[1:], recv.Bytes[first:first+n])
	sc = e.opts.Profiler.Profile("declare")
	decls, err := t.RowGroup.GatherInts(decl, 0)
	if err != nil {
		return err
	}
	sc.Done()

	var (
		agg, out          []byte
		aggCounts, counts []int
		aggDispls, displs []int
	)
	if t.IsCoordinator() {
		m := t.RowGroup.Size()
		pairs := pairTable{senders: n, receivers: m, bytes: make([]int, n*m)}
		aggCounts = make([]int, m)
		for r := 0; r < m; r++ {
			row := decls[r*(1+n) : (r+1)*(1+n)]
			aggCounts[r] = row[0]
			copy(pairs.bytes[r*n:], row[1:])
		}
		var aggTotal int
		aggDispls, aggTotal = prefixSum(aggCounts)
		counts = pairs.receiverTotals()
		var inTotal int
		displs, inTotal = prefixSum(counts)
		if agg, err = st.alloc("aggregate", aggTotal); err != nil {
			return err
		}
		sc = e.opts.Profiler.Profile("aggregate")
		if err := ex.Aggregate(t.RowGroup, packed, agg, aggCounts, aggDispls, 2*s); err != nil {
			return err
		}
		sc.Done()
		in := agg
		if st.partner != t.Row {
			if in, err = st.alloc("inbound", inTotal); err != nil {
				return err
			}
			sc = e.opts.Profiler.Profile("exchange")
			got, err := t.ColGroup.Sendrecv(agg, st.partner, in, st.partner, s)
			if err != nil {
				return err
			}
			sc.Done()
			if got != inTotal {
				return comm.Errorf(comm.CodeTruncate, "exchange", "row %d sent %d bytes, row %d expects %d", st.partner, got, t.Row, inTotal)
			}
			e.stats.BytesSent += int64(len(agg))
		} else if aggTotal != inTotal {
			return comm.Errorf(comm.CodeTruncate, "exchange", "row %d packed %d bytes for itself, expects %d", t.Row, aggTotal, inTotal)
		}
		if out, err = st.alloc("outbound", inTotal); err != nil {
			return err
		}
		pairs.regroup(out, in)
	} else if err := ex.Aggregate(t.RowGroup, packed, nil, nil, nil, 2*s); err != nil {
		return err
	}

	mine, err := st.alloc("received", recv.Total(first, n))
	if err != nil {
		return err
	}
	sc = e.opts.Profiler.Profile("distribute")
	if err := ex.Distribute(t.RowGroup, out, counts, displs, mine, 2*s+1); err != nil {
		return err
	}
	sc.Done()

	// unpack into the slot of every originating rank
	defer e.opts.Profiler.Profile("unpack").Done()
	for src := first; src < first+n; src++ {
		k, err := base.Unpack(recvBuf, recv.Displs[src], mine, recv.Bytes[src], base.Byte)
		if err != nil {
			return comm.Errorf(comm.CodeInvalidArg, "unpack", "%v", err)
		}
		mine = mine[k:]
	}
	return nil
}

// Alltoallw runs Engine.Alltoallw with DefaultOptions.
func Alltoallw(sendBuf []byte, sendCounts, sendDispls []int, sendTypes []base.DataType,
	recvBuf []byte, recvCounts, recvDispls []int, recvTypes []base.DataType, g *comm.Comm) error {
	return NewEngine(DefaultOptions()).Alltoallw(sendBuf, sendCounts, sendDispls, sendTypes, recvBuf, recvCounts, recvDispls, recvTypes, g)
}
