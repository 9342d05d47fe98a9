package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lsds/hia2a/srcs/go/alltoall"
	"github.com/lsds/hia2a/srcs/go/comm"
	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/peer"
	"github.com/lsds/hia2a/srcs/go/profile"
	"github.com/lsds/hia2a/srcs/go/utils"
)

var (
	local    = flag.Bool("local", false, "run an in-process world instead of joining a launched job")
	np       = flag.Int("np", 4, "world size for -local")
	hosts    = flag.String("hosts", "", "comma separated host names of the ranks for -local, e.g. a,a,b,b")
	width    = flag.Int("width", config.GroupWidth, "group width")
	count    = flag.Int("count", 1024, "elements per block")
	op       = flag.String("op", "all", "all | "+strings.Join(checkNames(), " | "))
	epochs   = flag.Int("epochs", 3, "")
	timeout  = flag.Duration("timeout", time.Minute, "timeout for joining the job")
	profiled = flag.Bool("profile", false, "show the time spent in each phase on rank 0")
	exchange = config.DefaultExchange
)

func init() {
	flag.Var(&exchange, "exchange", strings.Join(config.ExchangeNames(), " | "))
}

func main() {
	flag.Parse()
	ops, err := selectOps(*op)
	if err != nil {
		utils.ExitErr(err)
	}
	opts := alltoall.DefaultOptions().WithWidth(*width).WithExchange(exchange)
	if *local {
		runLocal(*np, parseHosts(*hosts), opts, ops)
		return
	}
	p, err := peer.New()
	if err != nil {
		utils.ExitErr(err)
	}
	defer p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := p.Start(ctx); err != nil {
		utils.ExitErr(err)
	}
	g := p.World()
	log.SetPrefix(fmt.Sprintf("rank %d", g.Rank()))
	opts = opts.WithHostname(p.Hostname())
	if *profiled {
		opts.Profiler = profile.New()
	}
	if err := runChecks(g, opts, ops, *count, *epochs); err != nil {
		log.Exitf("%v", err)
	}
}

func runLocal(np int, hostnames []string, opts alltoall.Options, ops []string) {
	if len(hostnames) > 0 && len(hostnames) != np {
		utils.ExitErr(fmt.Errorf("-hosts has %d names for %d ranks", len(hostnames), np))
	}
	w := comm.NewLocalWorld(np)
	errs := w.Run(func(g *comm.Comm) error {
		o := opts
		if len(hostnames) > 0 {
			o = o.WithHostname(hostnames[g.Rank()])
		}
		if *profiled {
			o.Profiler = profile.New()
		}
		return runChecks(g, o, ops, *count, *epochs)
	})
	if err := utils.MergeErrors(errs, "local world"); err != nil {
		utils.ExitErr(err)
	}
}

func parseHosts(val string) []string {
	if len(val) == 0 {
		return nil
	}
	return strings.Split(val, ",")
}

func selectOps(name string) ([]string, error) {
	if name == "all" {
		return checkNames(), nil
	}
	if _, ok := checks[name]; !ok {
		return nil, fmt.Errorf("invalid -op %q", name)
	}
	return []string{name}, nil
}

func runChecks(g *comm.Comm, opts alltoall.Options, ops []string, count, epochs int) error {
	e := alltoall.NewEngine(opts)
	if g.IsRoot() {
		log.Infof("checking %s over %s, width %d, exchange %s, %d elements per block",
			strings.Join(ops, ","), g, opts.Width, opts.Exchange, count)
	}
	for _, name := range ops {
		var sent int64
		d, err := utils.Measure(func() error {
			for i := 0; i < epochs; i++ {
				n, err := checks[name](e, g, count)
				if err != nil {
					return err
				}
				sent += n
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: %v", name, err)
		}
		total, err := g.AllreduceSumInts([]int{int(sent)})
		if err != nil {
			return err
		}
		if g.IsRoot() {
			st := e.Stats()
			log.Infof("%-10s OK, %s in %s, rate: %s, last call: %d stages, %s across rows",
				name, utils.ShowSize(int64(total[0])), d, utils.ShowRate(utils.Rate(int64(total[0]), d)),
				st.Stages, utils.ShowSize(st.BytesSent))
		}
	}
	if opts.Profiler != nil && g.IsRoot() {
		opts.Profiler.WriteSummary(os.Stdout)
	}
	return nil
}
