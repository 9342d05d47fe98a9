package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lsds/hia2a/srcs/go/job"
	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/runner"
	"github.com/lsds/hia2a/srcs/go/utils"
)

var f runner.FlagSet

func init() { runner.Init(&f, os.Args) }

func main() {
	if len(f.Logfile) > 0 {
		lf, err := os.Create(f.Logfile)
		if err != nil {
			utils.ExitErr(err)
		}
		defer lf.Close()
		log.SetOutput(lf)
	}
	t0 := time.Now()
	defer func(prog string) { log.Infof("%s took %s", prog, time.Since(t0)) }(utils.ProgName())
	peers, err := f.HostList.GenPeerList(f.ClusterSize, f.PortRange)
	if err != nil {
		utils.ExitErr(fmt.Errorf("failed to create peers: %v", err))
	}
	j := job.New(f.HostList, f.PortRange, f.Prog, f.Args, f.LogDir)
	log.Infof("job %s: %d peers on %s", j.ID, len(peers), utils.Pluralize(peers.HostCount(), "host", "hosts"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	utils.Trap(func(sig os.Signal) {
		log.Warnf("%s received, stopping peers", sig)
		cancel()
	})
	if f.Remote {
		err = runner.RemoteRun(ctx, f.User, peers, j, f.VerboseLog)
	} else {
		selfIPv4, ierr := runner.InferSelfIPv4(f.Self, f.NIC)
		if ierr != nil {
			utils.ExitErr(ierr)
		}
		log.Infof("Using self=%s", plan.FormatIPv4(selfIPv4))
		err = runner.SimpleRun(ctx, selfIPv4, peers, j, f.VerboseLog)
	}
	if err != nil {
		utils.ExitErr(err)
	}
}
