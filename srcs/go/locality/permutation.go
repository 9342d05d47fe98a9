package locality

import "fmt"

// RankPermutation is a bijection from the ranks of a group to the ranks of its
// remapped group.
type RankPermutation struct {
	forward []int
	inverse []int
}

// NewRankPermutation checks that forward is a permutation of [0, len(forward)).
func NewRankPermutation(forward []int) (*RankPermutation, error) {
	inverse := make([]int, len(forward))
	for i := range inverse {
		inverse[i] = -1
	}
	for old, r := range forward {
		if r < 0 || r >= len(forward) || inverse[r] >= 0 {
			return nil, fmt.Errorf("not a permutation: %v", forward)
		}
		inverse[r] = old
	}
	return &RankPermutation{
		forward: append([]int(nil), forward...),
		inverse: inverse,
	}, nil
}

func (p *RankPermutation) Size() int { return len(p.forward) }

// Forward maps an original rank to its remapped rank.
func (p *RankPermutation) Forward(old int) int { return p.forward[old] }

// Inverse maps a remapped rank back to its original rank.
func (p *RankPermutation) Inverse(r int) int { return p.inverse[r] }

func (p *RankPermutation) IsIdentity() bool {
	for i, r := range p.forward {
		if i != r {
			return false
		}
	}
	return true
}

func (p *RankPermutation) String() string {
	return fmt.Sprintf("%v", p.forward)
}
