package locality

import (
	"fmt"

	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/pkg/errors"
)

// NodeMap maps each rank to the id of its host, ids are assigned in order of the
// lowest rank on each host.
type NodeMap []int

// NewNodeMap builds the NodeMap of hosts, given in rank order.
func NewNodeMap(hosts []string) (NodeMap, *HostTable) {
	t := NewHostTable()
	m := make(NodeMap, len(hosts))
	for r, h := range hosts {
		m[r] = t.ID(h)
	}
	return m, t
}

func (m NodeMap) NumNodes() int {
	var n int
	for _, id := range m {
		if id+1 > n {
			n = id + 1
		}
	}
	return n
}

// NodeSizes returns the number of ranks on every node.
func (m NodeMap) NodeSizes() []int {
	sizes := make([]int, m.NumNodes())
	for _, id := range m {
		sizes[id]++
	}
	return sizes
}

func (m NodeMap) String() string {
	return fmt.Sprintf("NodeMap%v", []int(m))
}

const collector = 0

// Resolve discovers which ranks of g share a host. Every rank sends hostname to a
// collector, which numbers the hosts and broadcasts the resulting NodeMap.
// It is collective over g.
func Resolve(g *comm.Comm, hostname string) (NodeMap, error) {
	names, err := g.GatherBytes([]byte(hostname), collector)
	if err != nil {
		return nil, errors.Wrap(err, "collect host names")
	}
	m := make(NodeMap, g.Size())
	if g.Rank() == collector {
		hosts := make([]string, len(names))
		for i, name := range names {
			hosts[i] = string(name)
		}
		var t *HostTable
		m, t = NewNodeMap(hosts)
		log.Debugf("%s: %d ranks on %d nodes", g, g.Size(), t.Len())
	}
	if err := g.BcastInts(m, collector); err != nil {
		return nil, errors.Wrap(err, "broadcast node map")
	}
	return m, nil
}
