package job

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/lsds/hia2a/srcs/go/env"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/proc"
)

type Job struct {
	ID        uuid.UUID
	HostList  plan.HostList
	PortRange plan.PortRange
	Prog      string
	Args      []string
	LogDir    string
}

// New creates a Job with a fresh ID.
func New(hl plan.HostList, pr plan.PortRange, prog string, args []string, logDir string) Job {
	return Job{
		ID:        uuid.New(),
		HostList:  hl,
		PortRange: pr,
		Prog:      prog,
		Args:      args,
		LogDir:    logDir,
	}
}

func (j Job) NewProc(peer plan.PeerID, pl plan.PeerList) proc.Proc {
	envs := proc.Envs{
		env.SelfSpecEnvKey: peer.String(),
		env.PeerListEnvKey: pl.String(),
		env.JobIDEnvKey:    j.ID.String(),
	}
	allEnvs := proc.Merge(getConfigEnvs(), envs)
	pubAddr, _ := j.HostList.LookupPublicAddr(peer.IPv4)
	return proc.Proc{
		Name:    fmt.Sprintf("%s.%d", plan.FormatIPv4(peer.IPv4), peer.Port),
		Prog:    j.Prog,
		Args:    j.Args,
		Envs:    allEnvs,
		IPv4:    peer.IPv4,
		PubAddr: pubAddr,
		LogDir:  j.LogDir,
	}
}

func (j Job) CreateAllProcs(pl plan.PeerList) []proc.Proc {
	var ps []proc.Proc
	for _, self := range pl {
		ps = append(ps, j.NewProc(self, pl))
	}
	return ps
}

func (j Job) CreateProcs(pl plan.PeerList, host uint32) []proc.Proc {
	var ps []proc.Proc
	for _, self := range pl.On(host) {
		ps = append(ps, j.NewProc(self, pl))
	}
	return ps
}

func getConfigEnvs() proc.Envs {
	envs := make(proc.Envs)
	for _, k := range append(config.ConfigEnvKeys, env.HostnameEnvKey) {
		if val := os.Getenv(k); len(val) > 0 {
			envs[k] = val
		}
	}
	return envs
}
