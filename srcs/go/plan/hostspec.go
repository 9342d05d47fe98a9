package plan

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

var errInvalidHostSpec = errors.New("invalid HostSpec")

// HostSpec is <internal IP>:<nslots>[:<public addr>]
type HostSpec struct {
	IPv4       uint32
	Slots      int
	PublicAddr string
}

var DefaultHostSpec = HostSpec{
	IPv4:       MustParseIPv4(`127.0.0.1`),
	Slots:      runtime.NumCPU(),
	PublicAddr: `127.0.0.1`,
}

var DefaultHostList = HostList{DefaultHostSpec}

func (h HostSpec) String() string {
	return fmt.Sprintf("%s:%d:%s", FormatIPv4(h.IPv4), h.Slots, h.PublicAddr)
}

func parseHostSpec(spec string) (*HostSpec, error) {
	parts := strings.Split(spec, ":")
	ipv4, err := ParseIPv4(parts[0])
	if err != nil {
		return nil, err
	}
	switch len(parts) {
	case 1:
		return &HostSpec{IPv4: ipv4, Slots: 1, PublicAddr: parts[0]}, nil
	case 2, 3:
		slots, err := strconv.Atoi(parts[1])
		if err != nil || slots < 0 {
			return nil, errInvalidHostSpec
		}
		pubAddr := parts[0]
		if len(parts) == 3 {
			pubAddr = parts[2]
		}
		return &HostSpec{IPv4: ipv4, Slots: slots, PublicAddr: pubAddr}, nil
	}
	return nil, errInvalidHostSpec
}

type HostList []HostSpec

func (hl HostList) String() string {
	var ss []string
	for _, h := range hl {
		ss = append(ss, h.String())
	}
	return strings.Join(ss, ",")
}

// Set implements flag.Value
func (hl *HostList) Set(val string) error {
	value, err := ParseHostList(val)
	if err != nil {
		return err
	}
	*hl = value
	return nil
}

func ParseHostList(hostlist string) (HostList, error) {
	var hostSpecs HostList
	for _, h := range strings.Split(hostlist, ",") {
		spec, err := parseHostSpec(h)
		if err != nil {
			return nil, err
		}
		hostSpecs = append(hostSpecs, *spec)
	}
	return hostSpecs, nil
}

func (hl HostList) Cap() int {
	var cap int
	for _, h := range hl {
		cap += h.Slots
	}
	return cap
}

func (hl HostList) LookupPublicAddr(ipv4 uint32) (string, bool) {
	for _, h := range hl {
		if h.IPv4 == ipv4 {
			return h.PublicAddr, true
		}
	}
	return "", false
}

type PortRange struct {
	Begin uint16
	End   uint16
}

var DefaultPortRange = PortRange{
	Begin: 10000,
	End:   11000,
}

const DefaultRunnerPort = uint16(38080)

var errInvalidPortRange = errors.New("invalid port range")

func ParsePortRange(val string) (*PortRange, error) {
	var begin, end uint16
	if _, err := fmt.Sscanf(val, "%d-%d", &begin, &end); err != nil {
		return nil, err
	}
	if end < begin {
		return nil, errInvalidPortRange
	}
	return &PortRange{Begin: begin, End: end}, nil
}

// Set implements flag.Value
func (pr *PortRange) Set(val string) error {
	value, err := ParsePortRange(val)
	if err != nil {
		return err
	}
	*pr = *value
	return nil
}

func (pr PortRange) Cap() int {
	return int(pr.End - pr.Begin + 1)
}

func (pr PortRange) String() string {
	return fmt.Sprintf("%d-%d", pr.Begin, pr.End)
}

func (hl HostList) genPeerList(np int, pr PortRange) PeerList {
	var pl PeerList
	for _, host := range hl {
		for j := 0; j < host.Slots; j++ {
			id := PeerID{
				IPv4: host.IPv4,
				Port: pr.Begin + uint16(j),
			}
			pl = append(pl, id)
			if len(pl) >= np {
				return pl
			}
		}
	}
	return pl
}

var errNoEnoughCapacity = errors.New("no enough capacity")

// GenPeerList fills hosts in order, one port per slot.
func (hl HostList) GenPeerList(np int, pr PortRange) (PeerList, error) {
	if hl.Cap() < np {
		return nil, errNoEnoughCapacity
	}
	for _, h := range hl {
		if pr.Cap() < h.Slots {
			return nil, errNoEnoughCapacity
		}
	}
	return hl.genPeerList(np, pr), nil
}

func (hl HostList) GenRunnerList(port uint16) PeerList {
	var pl PeerList
	for _, h := range hl {
		pl = append(pl, PeerID{IPv4: h.IPv4, Port: port})
	}
	return pl
}
