package peer

import (
	"context"
	"errors"

	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/lsds/hia2a/srcs/go/env"
	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/monitor"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/rchannel/client"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
	"github.com/lsds/hia2a/srcs/go/rchannel/handler"
	"github.com/lsds/hia2a/srcs/go/rchannel/server"
)

// Peer is one worker process of a job.
type Peer struct {
	self     plan.PeerID
	peers    plan.PeerList
	hostname string
	token    uint32
	single   bool

	endpoint  *handler.CollectiveEndpoint
	client    *client.Client
	server    server.Server
	transport *comm.NetTransport
	world     *comm.Comm

	monitor       monitor.Monitor
	monitorServer *monitor.Server
}

func New(opts ...comm.NetOption) (*Peer, error) {
	cfg, err := env.ParseConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

func NewFromConfig(cfg *env.Config, opts ...comm.NetOption) (*Peer, error) {
	p := &Peer{
		self:     cfg.Self,
		peers:    cfg.InitPeers,
		hostname: cfg.Hostname,
		token:    cfg.Token(),
		single:   cfg.Single,
	}
	if p.single {
		p.world = comm.NewLocalWorld(1).Comms()[0]
		return p, nil
	}
	p.monitor = monitor.New(config.EnableMonitoring, config.MonitoringPeriod)
	p.endpoint = handler.NewCollectiveEndpoint(cfg.Self)
	p.client = client.New(cfg.Self, connection.DefaultOptions(p.token))
	opts = append([]comm.NetOption{comm.WithMonitor(p.monitor)}, opts...)
	t, err := comm.NewNetTransport(cfg.InitPeers, p.client, p.endpoint, opts...)
	if err != nil {
		return nil, err
	}
	p.transport = t
	p.world = comm.New(t)
	router := &handler.Router{
		Collective: p.endpoint,
		Control:    &handler.ControlHandler{OnAbort: t.OnAbort},
		Ping:       &handler.PingHandler{},
	}
	p.server = server.New(cfg.Self, router, config.UseUnixSock)
	return p, nil
}

var errWaitPeerFailed = errors.New("wait peer failed")

// Start serves incoming connections and waits until all other peers are reachable.
func (p *Peer) Start(ctx context.Context) error {
	if p.single {
		return nil
	}
	p.server.SetToken(p.token)
	if err := p.server.Start(); err != nil {
		return err
	}
	if config.EnableMonitoring {
		s, err := monitor.StartServer(p.monitor, int(p.self.Port)+config.MonitoringPortOffset)
		if err != nil {
			return err
		}
		p.monitorServer = s
	}
	if !p.client.WaitAll(ctx, p.peers.Others(p.self)) {
		return errWaitPeerFailed
	}
	log.Debugf("peer %s started, %d peers reachable", p.self, len(p.peers))
	return nil
}

// World returns the group of all peers of the job.
func (p *Peer) World() *comm.Comm {
	return p.world
}

func (p *Peer) Self() plan.PeerID { return p.self }

func (p *Peer) Peers() plan.PeerList { return p.peers }

func (p *Peer) Hostname() string { return p.hostname }

func (p *Peer) Close() error {
	if p.single {
		return nil
	}
	if p.monitorServer != nil {
		p.monitorServer.Close()
	}
	p.monitor.Stop()
	p.server.Close()
	return p.client.Close()
}
