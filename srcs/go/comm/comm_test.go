package comm

import (
	"fmt"
	"testing"

	"github.com/lsds/hia2a/srcs/go/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLocal(t *testing.T, np int, f func(c *Comm) error) {
	t.Helper()
	errs := NewLocalWorld(np).Run(f)
	require.NoError(t, utils.MergeErrors(errs, fmt.Sprintf("world of %d", np)))
}

func Test_Status(t *testing.T) {
	assert.Equal(t, 0, Status(nil))
	assert.Equal(t, CodeOther, Status(errors.New("x")))
	e := Errorf(CodeNoMem, "stage", "too big")
	assert.Equal(t, CodeNoMem, Status(e))
	assert.Equal(t, CodeNoMem, Status(errors.Wrap(errors.Wrapf(e, "a"), "b")))
	assert.Equal(t, CodeAborted, Status(fmt.Errorf("w: %w", &Error{Code: CodeAborted})))
	assert.True(t, IsAborted(&Error{Code: CodeAborted}))
}

func Test_SendRecv(t *testing.T) {
	runLocal(t, 4, func(c *Comm) error {
		next := (c.Rank() + 1) % c.Size()
		prev := (c.Rank() + c.Size() - 1) % c.Size()
		buf := make([]byte, 8)
		n, err := c.Sendrecv([]byte(fmt.Sprintf("from %d", c.Rank())), next, buf, prev, 3)
		if err != nil {
			return err
		}
		if got, want := string(buf[:n]), fmt.Sprintf("from %d", prev); got != want {
			return fmt.Errorf("got %q, want %q", got, want)
		}
		return nil
	})
}

func Test_SendRecv_self(t *testing.T) {
	runLocal(t, 1, func(c *Comm) error {
		buf := make([]byte, 3)
		n, err := c.Sendrecv([]byte("abc"), 0, buf, 0, 0)
		if err != nil {
			return err
		}
		if string(buf[:n]) != "abc" {
			return fmt.Errorf("got %q", buf[:n])
		}
		return nil
	})
}

func Test_Recv_truncate(t *testing.T) {
	errs := NewLocalWorld(2).Run(func(c *Comm) error {
		if c.Rank() == 0 {
			return c.Send(1, 0, []byte("too long"))
		}
		_, err := c.Recv(0, 0, make([]byte, 2))
		return err
	})
	assert.NoError(t, errs[0])
	assert.Equal(t, CodeTruncate, Status(errs[1]))
}

func Test_Irecv_order(t *testing.T) {
	runLocal(t, 2, func(c *Comm) error {
		const n = 16
		if c.Rank() == 0 {
			for i := 0; i < n; i++ {
				if err := c.Isend(1, 1, []byte{byte(i)}).Wait(); err != nil {
					return err
				}
			}
			return nil
		}
		for i := 0; i < n; i++ {
			buf := make([]byte, 1)
			if err := c.Irecv(0, 1, buf).Wait(); err != nil {
				return err
			}
			if buf[0] != byte(i) {
				return fmt.Errorf("message %d arrived as %d", buf[0], i)
			}
		}
		return nil
	})
}

func Test_Split(t *testing.T) {
	const np = 7
	subs := make([]*Comm, np)
	runLocal(t, np, func(c *Comm) error {
		color := c.Rank() % 3
		if c.Rank() == 6 {
			color = Undefined
		}
		sub, err := c.Split(color, -c.Rank())
		subs[c.Rank()] = sub
		return err
	})
	assert.Nil(t, subs[6])
	// color 0: ranks 0 and 3, ordered by descending rank
	assert.Equal(t, []int{3, 0}, subs[0].Members())
	assert.Equal(t, 1, subs[0].Rank())
	assert.Equal(t, 0, subs[3].Rank())
	assert.Equal(t, []int{4, 1}, subs[1].Members())
	assert.Equal(t, []int{5, 2}, subs[2].Members())
	assert.NotEqual(t, subs[0].Name(), subs[1].Name())
}

func Test_Split_collectives(t *testing.T) {
	runLocal(t, 6, func(c *Comm) error {
		row, err := c.Split(c.Rank()/3, c.Rank())
		if err != nil {
			return err
		}
		defer row.Free()
		col, err := c.Split(c.Rank()%3, c.Rank())
		if err != nil {
			return err
		}
		defer col.Free()
		rs, err := row.AllreduceSumInts([]int{c.Rank(), 1})
		if err != nil {
			return err
		}
		cs, err := col.AllreduceSumInts([]int{c.Rank(), 1})
		if err != nil {
			return err
		}
		wantRow := []int{0 + 1 + 2, 3}
		if c.Rank() >= 3 {
			wantRow = []int{3 + 4 + 5, 3}
		}
		wantCol := []int{c.Rank()%3*2 + 3, 2}
		if fmt.Sprint(rs) != fmt.Sprint(wantRow) || fmt.Sprint(cs) != fmt.Sprint(wantCol) {
			return fmt.Errorf("rank %d: row %v col %v", c.Rank(), rs, cs)
		}
		return nil
	})
}

func Test_Gatherv_Scatterv(t *testing.T) {
	const np = 5
	runLocal(t, np, func(c *Comm) error {
		counts := []int{0, 1, 2, 3, 4}
		displs := []int{10, 0, 1, 3, 6}
		send := make([]byte, counts[c.Rank()])
		for i := range send {
			send[i] = byte(10*c.Rank() + i)
		}
		var recv []byte
		if c.Rank() == 2 {
			recv = make([]byte, 10)
		}
		if err := c.Gatherv(send, recv, counts, displs, 2); err != nil {
			return err
		}
		if c.Rank() == 2 {
			want := []byte{10, 20, 21, 30, 31, 32, 40, 41, 42, 43}
			if !utils.BytesEq(want, recv) {
				return fmt.Errorf("gathered %v", recv)
			}
		}
		back := make([]byte, counts[c.Rank()])
		if err := c.Scatterv(recv, counts, displs, back, 2); err != nil {
			return err
		}
		if !utils.BytesEq(send, back) {
			return fmt.Errorf("rank %d scattered %v, want %v", c.Rank(), back, send)
		}
		return nil
	})
}

func Test_Gatherv_invalid(t *testing.T) {
	errs := NewLocalWorld(2).Run(func(c *Comm) error {
		return c.Gatherv([]byte{1}, make([]byte, 1), []int{1, 1}, []int{0, 1}, 0)
	})
	assert.Equal(t, CodeInvalidArg, Status(errs[0]))
}

func Test_Bcast_Allgather(t *testing.T) {
	runLocal(t, 5, func(c *Comm) error {
		buf := make([]byte, 4)
		if c.Rank() == 3 {
			copy(buf, "hia2")
		}
		if err := c.Bcast(buf, 3); err != nil {
			return err
		}
		if string(buf) != "hia2" {
			return fmt.Errorf("bcast got %q", buf)
		}
		xs := make([]int, 3)
		if c.Rank() == 0 {
			xs = []int{-1, 0, 1 << 40}
		}
		if err := c.BcastInts(xs, 0); err != nil {
			return err
		}
		if fmt.Sprint(xs) != fmt.Sprint([]int{-1, 0, 1 << 40}) {
			return fmt.Errorf("bcast ints got %v", xs)
		}
		all, err := c.AllgatherInts(c.Rank() * c.Rank())
		if err != nil {
			return err
		}
		if fmt.Sprint(all) != fmt.Sprint([]int{0, 1, 4, 9, 16}) {
			return fmt.Errorf("allgather got %v", all)
		}
		gs, err := c.GatherInts([]int{c.Rank() + 1, -c.Rank()}, 4)
		if err != nil {
			return err
		}
		if c.Rank() == 4 && fmt.Sprint(gs) != fmt.Sprint([]int{1, 0, 2, -1, 3, -2, 4, -3, 5, -4}) {
			return fmt.Errorf("gather got %v", gs)
		}
		bs, err := c.GatherBytes([]byte(fmt.Sprint(c.Rank())), 0)
		if err != nil {
			return err
		}
		if c.Rank() == 0 && len(bs) != 5 {
			return fmt.Errorf("gather bytes got %d", len(bs))
		}
		return c.Barrier()
	})
}

func Test_Free(t *testing.T) {
	runLocal(t, 1, func(c *Comm) error {
		sub, err := c.Split(0, 0)
		if err != nil {
			return err
		}
		sub.Free()
		sub.Free()
		if err := sub.Barrier(); Status(err) != CodeFreed {
			return fmt.Errorf("barrier on freed group: %v", err)
		}
		return c.Barrier()
	})
}

func Test_Abort(t *testing.T) {
	w := NewLocalWorld(3)
	errs := w.Run(func(c *Comm) error {
		if c.Rank() == 1 {
			c.Abort(CodeNoMem)
			return nil
		}
		_, err := c.Recv(1, 0, nil)
		return err
	})
	code, ok := w.Aborted()
	assert.True(t, ok)
	assert.Equal(t, CodeNoMem, code)
	assert.True(t, IsAborted(errs[0]))
	assert.True(t, IsAborted(errs[2]))
}
