package comm

import (
	"encoding/binary"

	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/pkg/errors"
)

func encodeInts(xs []int) []byte {
	bs := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(bs[8*i:], uint64(int64(x)))
	}
	return bs
}

func decodeInts(bs []byte) []int {
	xs := make([]int, len(bs)/8)
	for i := range xs {
		xs[i] = int(int64(binary.LittleEndian.Uint64(bs[8*i:])))
	}
	return xs
}

// CheckLayout validates a (counts, displs) description of n blocks inside a buffer of
// bufLen bytes.
func CheckLayout(op string, counts, displs []int, n, bufLen int) error {
	if len(counts) != n || len(displs) != n {
		return newError(CodeInvalidArg, op, "got %d counts and %d displacements for %d blocks", len(counts), len(displs), n)
	}
	for i := 0; i < n; i++ {
		if counts[i] < 0 || displs[i] < 0 {
			return newError(CodeInvalidArg, op, "negative count or displacement at %d", i)
		}
		if displs[i]+counts[i] > bufLen {
			return newError(CodeInvalidArg, op, "block %d [%d, %d) exceeds buffer of %d bytes", i, displs[i], displs[i]+counts[i], bufLen)
		}
	}
	return nil
}

// gatherRaw collects one message from every member at root. The root owns the
// returned buffers, others get nil.
func (c *Comm) gatherRaw(name string, send []byte, root int) ([][]byte, error) {
	if c.rank != root {
		return nil, c.send(root, name, send)
	}
	bufs := make([][]byte, len(c.members))
	for r := range c.members {
		if r == root {
			bufs[r] = connection.GetBuf(len(send))
			copy(bufs[r], send)
			continue
		}
		data, err := c.recv(r, name)
		if err != nil {
			putBufs(bufs)
			return nil, err
		}
		bufs[r] = data
	}
	return bufs, nil
}

func putBufs(bufs [][]byte) {
	for _, b := range bufs {
		if b != nil {
			connection.PutBuf(b)
		}
	}
}

// bcastRaw sends buf from root to every other member, which receive a new buffer.
func (c *Comm) bcastRaw(name string, buf []byte, root int) ([]byte, error) {
	if c.rank != root {
		return c.recv(root, name)
	}
	for r := range c.members {
		if r == root {
			continue
		}
		if err := c.send(r, name, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (c *Comm) begin(op string, root int) (string, error) {
	if err := c.check(op); err != nil {
		return "", err
	}
	if err := c.checkRank(op, root); err != nil {
		return "", err
	}
	return c.nextName(op), nil
}

// Gatherv collects send from every member into recv at root, the block of rank r
// is placed at recv[displs[r]:] and must be exactly counts[r] bytes long.
// recv, counts and displs are only used at root.
func (c *Comm) Gatherv(send, recv []byte, counts, displs []int, root int) error {
	name, err := c.begin("gatherv", root)
	if err != nil {
		return err
	}
	if c.rank == root {
		if err := CheckLayout("gatherv", counts, displs, len(c.members), len(recv)); err != nil {
			return err
		}
	}
	bufs, err := c.gatherRaw(name, send, root)
	if err != nil {
		return errors.Wrapf(err, "%s gatherv", c)
	}
	if c.rank != root {
		return nil
	}
	defer putBufs(bufs)
	for r, b := range bufs {
		if len(b) != counts[r] {
			return newError(CodeTruncate, "gatherv", "rank %d sent %d bytes, expected %d", r, len(b), counts[r])
		}
		copy(recv[displs[r]:], b)
	}
	return nil
}

// Scatterv sends send[displs[r]:displs[r]+counts[r]] from root to every rank r, which
// receives it into recv. The received block must fill recv exactly.
func (c *Comm) Scatterv(send []byte, counts, displs []int, recv []byte, root int) error {
	name, err := c.begin("scatterv", root)
	if err != nil {
		return err
	}
	if c.rank != root {
		data, err := c.recv(root, name)
		if err != nil {
			return errors.Wrapf(err, "%s scatterv", c)
		}
		defer connection.PutBuf(data)
		if len(data) != len(recv) {
			return newError(CodeTruncate, "scatterv", "received %d bytes, expected %d", len(data), len(recv))
		}
		copy(recv, data)
		return nil
	}
	if err := CheckLayout("scatterv", counts, displs, len(c.members), len(send)); err != nil {
		return err
	}
	if counts[root] != len(recv) {
		return newError(CodeTruncate, "scatterv", "root block has %d bytes, expected %d", counts[root], len(recv))
	}
	for r := range c.members {
		block := send[displs[r] : displs[r]+counts[r]]
		if r == root {
			copy(recv, block)
			continue
		}
		if err := c.send(r, name, block); err != nil {
			return errors.Wrapf(err, "%s scatterv", c)
		}
	}
	return nil
}

// GatherBytes collects a variable length message from every member at root.
func (c *Comm) GatherBytes(b []byte, root int) ([][]byte, error) {
	name, err := c.begin("gatherbytes", root)
	if err != nil {
		return nil, err
	}
	bufs, err := c.gatherRaw(name, b, root)
	if err != nil {
		return nil, errors.Wrapf(err, "%s gatherbytes", c)
	}
	if bufs == nil {
		return nil, nil
	}
	defer putBufs(bufs)
	out := make([][]byte, len(bufs))
	for i, b := range bufs {
		out[i] = append([]byte{}, b...)
	}
	return out, nil
}

// GatherInts concatenates xs of every member in rank order at root.
// Every member must pass the same number of ints.
func (c *Comm) GatherInts(xs []int, root int) ([]int, error) {
	name, err := c.begin("gatherints", root)
	if err != nil {
		return nil, err
	}
	bufs, err := c.gatherRaw(name, encodeInts(xs), root)
	if err != nil {
		return nil, errors.Wrapf(err, "%s gatherints", c)
	}
	if bufs == nil {
		return nil, nil
	}
	defer putBufs(bufs)
	all := make([]int, 0, len(xs)*len(bufs))
	for r, b := range bufs {
		if len(b) != 8*len(xs) {
			return nil, newError(CodeTruncate, "gatherints", "rank %d sent %d ints, expected %d", r, len(b)/8, len(xs))
		}
		all = append(all, decodeInts(b)...)
	}
	return all, nil
}

// Bcast copies buf from root to every member. All members pass buffers of the same length.
func (c *Comm) Bcast(buf []byte, root int) error {
	name, err := c.begin("bcast", root)
	if err != nil {
		return err
	}
	data, err := c.bcastRaw(name, buf, root)
	if err != nil {
		return errors.Wrapf(err, "%s bcast", c)
	}
	if c.rank == root {
		return nil
	}
	defer connection.PutBuf(data)
	if len(data) != len(buf) {
		return newError(CodeTruncate, "bcast", "received %d bytes, expected %d", len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// BcastInts copies xs from root to every member.
func (c *Comm) BcastInts(xs []int, root int) error {
	buf := encodeInts(xs)
	if err := c.Bcast(buf, root); err != nil {
		return err
	}
	copy(xs, decodeInts(buf))
	return nil
}

// allgather concatenates xs of every member in rank order.
// Every member must pass the same number of ints.
func (c *Comm) allgather(op string, xs []int) ([]int, error) {
	name, err := c.begin(op, 0)
	if err != nil {
		return nil, err
	}
	bufs, err := c.gatherRaw(name+".g", encodeInts(xs), 0)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", c, op)
	}
	var all []byte
	if bufs != nil {
		for r, b := range bufs {
			if len(b) != 8*len(xs) {
				putBufs(bufs)
				return nil, newError(CodeTruncate, op, "rank %d sent %d ints, expected %d", r, len(b)/8, len(xs))
			}
			all = append(all, b...)
		}
		putBufs(bufs)
	}
	data, err := c.bcastRaw(name+".b", all, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", c, op)
	}
	result := decodeInts(data)
	if c.rank != 0 {
		connection.PutBuf(data)
	}
	if len(result) != len(xs)*len(c.members) {
		return nil, newError(CodeTruncate, op, "received %d ints, expected %d", len(result), len(xs)*len(c.members))
	}
	return result, nil
}

// AllgatherInts returns x of every member in rank order.
func (c *Comm) AllgatherInts(x int) ([]int, error) {
	return c.allgather("allgatherints", []int{x})
}

// AllreduceSumInts returns the element-wise sum of xs over all members.
func (c *Comm) AllreduceSumInts(xs []int) ([]int, error) {
	all, err := c.allgather("allreduce", xs)
	if err != nil {
		return nil, err
	}
	sum := make([]int, len(xs))
	for i, x := range all {
		sum[i%len(xs)] += x
	}
	return sum, nil
}

// Barrier returns once every member has entered it.
func (c *Comm) Barrier() error {
	_, err := c.allgather("barrier", nil)
	return err
}
