package locality

import (
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/pkg/errors"
)

// Remapped is a group renumbered so that the ranks of every node are contiguous.
type Remapped struct {
	Comm *comm.Comm
	Perm *RankPermutation

	node    *comm.Comm
	leaders *comm.Comm
}

// Close frees all groups created by Remap.
func (r *Remapped) Close() {
	r.Comm.Free()
	r.leaders.Free()
	r.node.Free()
}

// Remap orders the ranks of g by node, keeping their relative order within a node.
// m must be the same on all ranks. It is collective over g.
func Remap(g *comm.Comm, m NodeMap) (*Remapped, error) {
	if len(m) != g.Size() {
		return nil, comm.Errorf(comm.CodeInvalidArg, "remap", "node map of %d ranks for group of %d", len(m), g.Size())
	}
	nodeID := m[g.Rank()]
	r := &Remapped{}
	ok := false
	defer func() {
		if !ok {
			r.Close()
		}
	}()
	var err error
	if r.node, err = g.Split(nodeID, g.Rank()); err != nil {
		return nil, errors.Wrap(err, "split nodes")
	}
	color := comm.Undefined
	if r.node.IsRoot() {
		color = 0
	}
	if r.leaders, err = g.Split(color, nodeID); err != nil {
		return nil, errors.Wrap(err, "split node leaders")
	}
	offset := []int{0}
	if r.leaders != nil {
		sizes, err := r.leaders.AllgatherInts(r.node.Size())
		if err != nil {
			return nil, errors.Wrap(err, "scan node sizes")
		}
		for _, n := range sizes[:r.leaders.Rank()] {
			offset[0] += n
		}
	}
	if err := r.node.BcastInts(offset, 0); err != nil {
		return nil, errors.Wrap(err, "share node offset")
	}
	newRank := offset[0] + r.node.Rank()
	if r.Comm, err = g.Split(0, newRank); err != nil {
		return nil, errors.Wrap(err, "split remapped group")
	}
	forward, err := g.AllgatherInts(newRank)
	if err != nil {
		return nil, errors.Wrap(err, "exchange remapped ranks")
	}
	if r.Perm, err = NewRankPermutation(forward); err != nil {
		return nil, comm.Errorf(comm.CodeOther, "remap", "%v", err)
	}
	ok = true
	return r, nil
}
