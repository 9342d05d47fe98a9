package alltoall

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/lsds/hia2a/srcs/go/base"
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/lsds/hia2a/srcs/go/utils"
	"github.com/stretchr/testify/require"
)

func Test_Alltoall_matches_Alltoallw(t *testing.T) {
	const count = 3
	for _, ex := range exchanges {
		for _, np := range []int{1, 4, 7} {
			errs := comm.NewLocalWorld(np).Run(func(c *comm.Comm) error {
				e := NewEngine(testOptions(3, ex))
				dtype := base.F32
				block := count * dtype.Size()
				send := make([]byte, np*block)
				for j := 0; j < np; j++ {
					for k := 0; k < block; k++ {
						send[j*block+k] = payload(c.Rank(), j, k)
					}
				}
				got := make([]byte, np*block)
				if err := e.Alltoall(send, count, dtype, got, count, dtype, c); err != nil {
					return err
				}
				want := make([]byte, np*block)
				counts, displs := uniform(np, block)
				types := repeat(base.Byte, np)
				if err := e.Alltoallw(send, counts, displs, types, want, counts, displs, types, c); err != nil {
					return err
				}
				if !bytes.Equal(got, want) {
					return fmt.Errorf("rank %d: alltoall differs from alltoallw", c.Rank())
				}
				return verify(c.Rank(), got, counts, displs)
			})
			require.NoError(t, utils.MergeErrors(errs, fmt.Sprintf("np=%d", np)))
		}
	}
}

func Test_Alltoallv_matches_Alltoallw(t *testing.T) {
	const np = 6
	dtype := base.F64
	size := dtype.Size()
	errs := comm.NewLocalWorld(np).Run(func(c *comm.Comm) error {
		i := c.Rank()
		e := NewEngine(testOptions(4, config.ExchangeCollective))
		// element layouts with one element gap before every block
		elems := func(f func(k int) int) ([]int, []int, int) {
			counts := make([]int, np)
			displs := make([]int, np)
			var total int
			for k := 0; k < np; k++ {
				total++
				displs[k] = total
				counts[k] = f(k)
				total += counts[k]
			}
			return counts, displs, total
		}
		sc, sd, sn := elems(func(j int) int { return skewedSize(i, j) })
		rc, rd, rn := elems(func(j int) int { return skewedSize(j, i) })
		send := make([]byte, sn*size)
		for j := range sc {
			for k := 0; k < sc[j]*size; k++ {
				send[sd[j]*size+k] = payload(i, j, k)
			}
		}
		got := bytes.Repeat([]byte{gapByte}, rn*size)
		if err := e.Alltoallv(send, sc, sd, dtype, got, rc, rd, dtype, c); err != nil {
			return err
		}
		want := bytes.Repeat([]byte{gapByte}, rn*size)
		scb, sdb, rcb, rdb := make([]int, np), make([]int, np), make([]int, np), make([]int, np)
		for k := 0; k < np; k++ {
			scb[k], sdb[k] = sc[k]*size, sd[k]*size
			rcb[k], rdb[k] = rc[k]*size, rd[k]*size
		}
		types := repeat(base.Byte, np)
		if err := e.Alltoallw(send, scb, sdb, types, want, rcb, rdb, types, c); err != nil {
			return err
		}
		if !bytes.Equal(got, want) {
			return fmt.Errorf("rank %d: alltoallv differs from alltoallw", i)
		}
		return verify(i, got, rcb, rdb)
	})
	require.NoError(t, utils.MergeErrors(errs, "alltoallv"))
}
