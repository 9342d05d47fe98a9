// Package clusterfile reads a YAML description of the hosts a job runs on.
//
//	port_range: 10000-10999
//	hosts:
//	  - ip: 192.168.1.11
//	    slots: 4
//	  - ip: 192.168.1.12
//	    slots: 4
//	    public_addr: node-12
package clusterfile

import (
	"fmt"
	"os"

	"github.com/lsds/hia2a/srcs/go/plan"
	"gopkg.in/yaml.v3"
)

type Host struct {
	IP         string `yaml:"ip"`
	Slots      int    `yaml:"slots"`
	PublicAddr string `yaml:"public_addr"`
}

type File struct {
	PortRange string `yaml:"port_range"`
	Hosts     []Host `yaml:"hosts"`
}

// Cluster is the resolved content of a cluster file.
type Cluster struct {
	HostList  plan.HostList
	PortRange plan.PortRange
}

func ParseFile(filename string) (*Cluster, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(bs)
}

func Parse(bs []byte) (*Cluster, error) {
	var f File
	if err := yaml.Unmarshal(bs, &f); err != nil {
		return nil, err
	}
	c := &Cluster{PortRange: plan.DefaultPortRange}
	if len(f.PortRange) > 0 {
		pr, err := plan.ParsePortRange(f.PortRange)
		if err != nil {
			return nil, fmt.Errorf("port_range: %v", err)
		}
		c.PortRange = *pr
	}
	if len(f.Hosts) == 0 {
		return nil, fmt.Errorf("no hosts")
	}
	for i, h := range f.Hosts {
		ipv4, err := plan.ParseIPv4(h.IP)
		if err != nil {
			return nil, fmt.Errorf("hosts[%d]: %v: %q", i, err, h.IP)
		}
		slots := h.Slots
		if slots == 0 {
			slots = 1
		}
		if slots < 0 {
			return nil, fmt.Errorf("hosts[%d]: invalid slots %d", i, h.Slots)
		}
		pubAddr := h.PublicAddr
		if len(pubAddr) == 0 {
			pubAddr = h.IP
		}
		c.HostList = append(c.HostList, plan.HostSpec{IPv4: ipv4, Slots: slots, PublicAddr: pubAddr})
	}
	return c, nil
}
