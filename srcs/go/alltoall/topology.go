package alltoall

import (
	"fmt"

	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/pkg/errors"
)

// Coord is the position of a rank in the virtual process matrix.
type Coord struct {
	Row, Col int
}

func CoordOf(rank, width int) Coord {
	return Coord{Row: rank / width, Col: rank % width}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// NumRows returns the number of rows of a matrix of size ranks and width columns.
func NumRows(size, width int) int {
	return (size + width - 1) / width
}

// Topology lays a group out as a matrix of rows of at most Width members. It owns
// one row group and one column group derived from Base.
type Topology struct {
	Base  *comm.Comm
	Width int
	Coord
	NRows int

	RowGroup *comm.Comm
	ColGroup *comm.Comm // a coordinator's rank in ColGroup is its row
}

// NewTopology splits base into rows and columns. It is collective over base.
func NewTopology(base *comm.Comm, width int) (*Topology, error) {
	if width <= 0 {
		return nil, comm.Errorf(comm.CodeInvalidArg, "topology", "non-positive group width %d", width)
	}
	t := &Topology{
		Base:  base,
		Width: width,
		Coord: CoordOf(base.Rank(), width),
		NRows: NumRows(base.Size(), width),
	}
	var err error
	if t.RowGroup, err = base.Split(t.Row, base.Rank()); err != nil {
		return nil, errors.Wrap(err, "split rows")
	}
	if t.ColGroup, err = base.Split(t.RowGroup.Rank(), t.Row); err != nil {
		t.RowGroup.Free()
		return nil, errors.Wrap(err, "split columns")
	}
	return t, nil
}

// RowRange returns the first base rank and the member count of row r.
func (t *Topology) RowRange(r int) (int, int) {
	first := r * t.Width
	n := t.Width
	if rest := t.Base.Size() - first; rest < n {
		n = rest
	}
	return first, n
}

func (t *Topology) IsCoordinator() bool {
	return t.RowGroup.IsRoot()
}

// Close frees the row and column groups, it is safe to call more than once.
func (t *Topology) Close() {
	t.ColGroup.Free()
	t.RowGroup.Free()
}

func (t *Topology) String() string {
	return fmt.Sprintf("topology{rank=%d, coord=%s, width=%d, rows=%d}", t.Base.Rank(), t.Coord, t.Width, t.NRows)
}
