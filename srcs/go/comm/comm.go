package comm

import (
	"fmt"
	"sort"
)

// Undefined is the color of processes that join no group in Split.
const Undefined = -1

// Comm is an ordered group of processes sharing a Transport.
// Collective operations must be called by all members in the same order.
type Comm struct {
	t       Transport
	name    string
	members []int // world ranks, indexed by group rank
	rank    int

	seq    uint64
	splits int
	freed  bool
}

// New creates the group of the whole world of t.
func New(t Transport) *Comm {
	members := make([]int, t.Size())
	for i := range members {
		members[i] = i
	}
	return &Comm{
		t:       t,
		name:    "w",
		members: members,
		rank:    t.Self(),
	}
}

func (c *Comm) Size() int { return len(c.members) }

func (c *Comm) Rank() int { return c.rank }

func (c *Comm) IsRoot() bool { return c.rank == 0 }

func (c *Comm) Name() string { return c.name }

// WorldRank maps a group rank to the rank of the same process in the world.
func (c *Comm) WorldRank(r int) int { return c.members[r] }

// Members returns the world ranks of the group, in group rank order.
func (c *Comm) Members() []int {
	return append([]int(nil), c.members...)
}

func (c *Comm) String() string {
	return fmt.Sprintf("%s[%d/%d]", c.name, c.rank, len(c.members))
}

// Free releases the group. It is idempotent and every later operation fails
// with ErrFreed.
func (c *Comm) Free() {
	if c != nil {
		c.freed = true
	}
}

// Abort fails the whole world with code.
func (c *Comm) Abort(code int) {
	c.t.Abort(code)
}

func (c *Comm) check(op string) error {
	if c.freed {
		return &Error{Code: CodeFreed, Op: op}
	}
	return nil
}

func (c *Comm) checkRank(op string, r int) error {
	if r < 0 || r >= len(c.members) {
		return newError(CodeInvalidArg, op, "rank %d out of range [0, %d) in %s", r, len(c.members), c)
	}
	return nil
}

// nextName returns a fresh message name for one collective call.
func (c *Comm) nextName(op string) string {
	c.seq++
	return fmt.Sprintf("%s#%d:%s", c.name, c.seq, op)
}

func (c *Comm) send(dst int, name string, buf []byte) error {
	return c.t.Send(c.members[dst], name, buf)
}

func (c *Comm) recv(src int, name string) ([]byte, error) {
	return c.t.Recv(c.members[src], name)
}

// Split partitions the group by color. Members sharing a color form a new group
// ordered by (key, rank in c). Members passing Undefined get a nil group.
func (c *Comm) Split(color, key int) (*Comm, error) {
	if err := c.check("split"); err != nil {
		return nil, err
	}
	if color < 0 && color != Undefined {
		return nil, newError(CodeInvalidArg, "split", "invalid color %d", color)
	}
	c.splits++
	all, err := c.allgather("split", []int{color, key})
	if err != nil {
		return nil, err
	}
	if color == Undefined {
		return nil, nil
	}
	type entry struct{ key, rank int }
	var es []entry
	for r := 0; r < len(c.members); r++ {
		if all[2*r] == color {
			es = append(es, entry{key: all[2*r+1], rank: r})
		}
	}
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].key != es[j].key {
			return es[i].key < es[j].key
		}
		return es[i].rank < es[j].rank
	})
	sub := &Comm{
		t:    c.t,
		name: fmt.Sprintf("%s.%d:%d", c.name, c.splits, color),
	}
	for i, e := range es {
		sub.members = append(sub.members, c.members[e.rank])
		if e.rank == c.rank {
			sub.rank = i
		}
	}
	return sub, nil
}
