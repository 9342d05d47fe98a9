package env

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lsds/hia2a/srcs/go/plan"
)

type Config struct {
	Self      plan.PeerID
	InitPeers plan.PeerList
	JobID     uuid.UUID
	Hostname  string

	Single bool
}

// Token is the connection token shared by all peers of a job.
func (c *Config) Token() uint32 {
	return c.JobID.ID()
}

func ParseConfigFromEnv() (*Config, error) {
	hostname, err := getHostname()
	if err != nil {
		return nil, err
	}
	if _, ok := os.LookupEnv(SelfSpecEnvKey); !ok {
		cfg := singleProcessEnv()
		cfg.Hostname = hostname
		return cfg, nil
	}
	self, err := getSelfFromEnv()
	if err != nil {
		return nil, err
	}
	initPeers, err := getInitPeersFromEnv()
	if err != nil {
		return nil, err
	}
	if _, ok := initPeers.Rank(*self); !ok {
		return nil, fmt.Errorf("%s=%s not in %s", SelfSpecEnvKey, self, PeerListEnvKey)
	}
	jobID, err := getJobIDFromEnv()
	if err != nil {
		return nil, err
	}
	return &Config{
		Self:      *self,
		InitPeers: initPeers,
		JobID:     jobID,
		Hostname:  hostname,
	}, nil
}

// SingleMachineEnv describes peer rank of a job of size peers on the default host.
func SingleMachineEnv(rank, size int, jobID uuid.UUID) (*Config, error) {
	host := plan.DefaultHostSpec
	host.Slots = size
	pl, err := plan.HostList{host}.GenPeerList(size, plan.DefaultPortRange)
	if err != nil {
		return nil, err
	}
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("invalid rank %d for size %d", rank, size)
	}
	hostname, err := getHostname()
	if err != nil {
		return nil, err
	}
	return &Config{
		Self:      pl[rank],
		InitPeers: pl,
		JobID:     jobID,
		Hostname:  hostname,
	}, nil
}

func singleProcessEnv() *Config {
	pl, _ := plan.DefaultHostList.GenPeerList(1, plan.DefaultPortRange)
	self := pl[0]
	return &Config{
		Self:      self,
		InitPeers: plan.PeerList{self},
		Single:    true,
	}
}

func getHostname() (string, error) {
	if name, ok := os.LookupEnv(HostnameEnvKey); ok && len(name) > 0 {
		return name, nil
	}
	return os.Hostname()
}

func getSelfFromEnv() (*plan.PeerID, error) {
	val, ok := os.LookupEnv(SelfSpecEnvKey)
	if !ok {
		return nil, fmt.Errorf("%s not set", SelfSpecEnvKey)
	}
	return plan.ParsePeerID(val)
}

func getInitPeersFromEnv() (plan.PeerList, error) {
	val, ok := os.LookupEnv(PeerListEnvKey)
	if !ok {
		return nil, fmt.Errorf("%s not set", PeerListEnvKey)
	}
	return plan.ParsePeerList(val)
}

func getJobIDFromEnv() (uuid.UUID, error) {
	val, ok := os.LookupEnv(JobIDEnvKey)
	if !ok {
		return uuid.Nil, fmt.Errorf("%s not set", JobIDEnvKey)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %v", JobIDEnvKey, err)
	}
	return id, nil
}
