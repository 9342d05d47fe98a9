package alltoall

import (
	"os"
	"time"

	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/lsds/hia2a/srcs/go/env"
	"github.com/lsds/hia2a/srcs/go/profile"
)

// Options configures an Engine. All processes of a call must use the same Width and
// Exchange.
type Options struct {
	Width    int
	Exchange config.Exchange

	// MaxStageBytes bounds every staging buffer of a stage, 0 means no bound.
	MaxStageBytes int

	// Hostname identifies the node of this process for TopologyAwareAlltoall.
	// An empty Hostname is looked up with os.Hostname.
	Hostname string

	// StallPeriod enables a stall warning for calls running longer than it.
	StallPeriod time.Duration

	// Profiler records the time spent in every phase of a stage if not nil.
	Profiler *profile.Profiler
}

const defaultStallPeriod = 10 * time.Second

// DefaultOptions reads the process configuration.
func DefaultOptions() Options {
	opts := Options{
		Width:         config.GroupWidth,
		Exchange:      config.DefaultExchange,
		MaxStageBytes: config.MaxStageBytes,
		Hostname:      os.Getenv(env.HostnameEnvKey),
	}
	if config.EnableStallDetection {
		opts.StallPeriod = defaultStallPeriod
	}
	return opts
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithHostname(name string) Options {
	o.Hostname = name
	return o
}

func (o Options) WithExchange(e config.Exchange) Options {
	o.Exchange = e
	return o
}
