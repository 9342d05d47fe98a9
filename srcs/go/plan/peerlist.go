package plan

import (
	"strings"
)

type PeerList []PeerID

func (pl PeerList) String() string {
	var parts []string
	for _, p := range pl {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ",")
}

func (pl PeerList) Rank(ps PeerID) (int, bool) {
	for i, p := range pl {
		if p == ps {
			return i, true
		}
	}
	return -1, false
}

func (pl PeerList) LocalRank(ps PeerID) (int, bool) {
	var i int
	for _, p := range pl {
		if p == ps {
			return i, true
		}
		if ps.ColocatedWith(p) {
			i++
		}
	}
	return -1, false
}

func (pl PeerList) LocalSize(ps PeerID) int {
	return len(pl.On(ps.IPv4))
}

func (pl PeerList) HostCount() int {
	hosts := make(map[uint32]struct{})
	for _, p := range pl {
		hosts[p.IPv4] = struct{}{}
	}
	return len(hosts)
}

func (pl PeerList) Set() map[PeerID]struct{} {
	s := make(map[PeerID]struct{})
	for _, p := range pl {
		s[p] = struct{}{}
	}
	return s
}

func (pl PeerList) Others(self PeerID) PeerList {
	var ql PeerList
	for _, p := range pl {
		if p != self {
			ql = append(ql, p)
		}
	}
	return ql
}

func (pl PeerList) Eq(ql PeerList) bool {
	if len(pl) != len(ql) {
		return false
	}
	for i, p := range pl {
		if p != ql[i] {
			return false
		}
	}
	return true
}

func (pl PeerList) On(host uint32) PeerList {
	var ql PeerList
	for _, p := range pl {
		if p.IPv4 == host {
			ql = append(ql, p)
		}
	}
	return ql
}

func ParsePeerList(val string) (PeerList, error) {
	var pl PeerList
	if len(val) == 0 {
		return pl, nil
	}
	for _, p := range strings.Split(val, ",") {
		id, err := ParsePeerID(p)
		if err != nil {
			return nil, err
		}
		pl = append(pl, *id)
	}
	return pl, nil
}
