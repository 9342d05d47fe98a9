package locality

import (
	"fmt"
	"testing"

	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HostTable(t *testing.T) {
	ht := NewHostTable()
	assert.Equal(t, 0, ht.ID("b"))
	assert.Equal(t, 1, ht.ID("a"))
	assert.Equal(t, 0, ht.ID("b"))
	id, ok := ht.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = ht.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, 2, ht.Len())
	assert.Equal(t, "a", ht.Name(1))
}

func Test_NewNodeMap(t *testing.T) {
	m, ht := NewNodeMap([]string{"n2", "n1", "n2", "n3", "n1"})
	assert.Equal(t, NodeMap{0, 1, 0, 2, 1}, m)
	assert.Equal(t, 3, ht.Len())
	assert.Equal(t, 3, m.NumNodes())
	assert.Equal(t, []int{2, 2, 1}, m.NodeSizes())
}

func Test_RankPermutation(t *testing.T) {
	p, err := NewRankPermutation([]int{2, 0, 1})
	require.NoError(t, err)
	for r := 0; r < p.Size(); r++ {
		assert.Equal(t, r, p.Inverse(p.Forward(r)))
		assert.Equal(t, r, p.Forward(p.Inverse(r)))
	}
	assert.False(t, p.IsIdentity())
	_, err = NewRankPermutation([]int{0, 0})
	assert.Error(t, err)
	_, err = NewRankPermutation([]int{0, 2})
	assert.Error(t, err)
}

func resolveAndRemap(t *testing.T, hosts []string) ([]NodeMap, []*Remapped) {
	t.Helper()
	np := len(hosts)
	maps := make([]NodeMap, np)
	remaps := make([]*Remapped, np)
	errs := comm.NewLocalWorld(np).Run(func(c *comm.Comm) error {
		m, err := Resolve(c, hosts[c.Rank()])
		if err != nil {
			return err
		}
		maps[c.Rank()] = m
		r, err := Remap(c, m)
		if err != nil {
			return err
		}
		remaps[c.Rank()] = r
		return r.Comm.Barrier()
	})
	require.NoError(t, utils.MergeErrors(errs, fmt.Sprintf("hosts %v", hosts)))
	return maps, remaps
}

func Test_Resolve_Remap(t *testing.T) {
	hosts := []string{"b", "a", "b", "c", "a", "b", "a"}
	maps, remaps := resolveAndRemap(t, hosts)
	want := NodeMap{0, 1, 0, 2, 1, 0, 1}
	for _, m := range maps {
		assert.Equal(t, want, m)
	}
	// node b = {0,2,5}, node a = {1,4,6}, node c = {3}
	wantForward := []int{0, 3, 1, 6, 4, 2, 5}
	for old, r := range remaps {
		assert.Equal(t, wantForward[old], r.Comm.Rank())
		assert.Equal(t, wantForward, r.Perm.forward)
		assert.Equal(t, old, r.Perm.Inverse(r.Perm.Forward(old)))
		assert.Equal(t, old, r.Comm.WorldRank(r.Comm.Rank()))
	}
	for _, r := range remaps {
		r.Close()
		r.Close()
	}
}

func Test_Remap_contiguous(t *testing.T) {
	for _, hosts := range [][]string{
		{"h"},
		{"h", "h", "h"},
		{"a", "b", "c"},
		{"x", "y", "x", "y", "x", "y", "z", "z"},
	} {
		maps, remaps := resolveAndRemap(t, hosts)
		m := maps[0]
		for old := range hosts {
			for other := range hosts {
				if old >= other || m[old] != m[other] {
					continue
				}
				// relative order is kept within a node
				assert.Less(t, remaps[old].Perm.Forward(old), remaps[old].Perm.Forward(other))
			}
		}
		// ranks of a node form one block
		byNew := make([]int, len(hosts))
		for old, r := range remaps {
			byNew[r.Comm.Rank()] = m[old]
		}
		seen := make(map[int]bool)
		for k := range byNew {
			if k > 0 && byNew[k] != byNew[k-1] {
				assert.False(t, seen[byNew[k]], "node %d split in %v", byNew[k], byNew)
			}
			seen[byNew[k]] = true
		}
		for _, r := range remaps {
			r.Close()
		}
	}
}

func Test_Remap_invalid(t *testing.T) {
	errs := comm.NewLocalWorld(2).Run(func(c *comm.Comm) error {
		_, err := Remap(c, NodeMap{0})
		return err
	})
	for _, err := range errs {
		assert.Equal(t, comm.CodeInvalidArg, comm.Status(err))
	}
}
