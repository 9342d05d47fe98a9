package runner

import (
	"context"

	"github.com/lsds/hia2a/srcs/go/job"
	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/runner/local"
	"github.com/lsds/hia2a/srcs/go/runner/remote"
	"github.com/lsds/hia2a/srcs/go/utils"
)

// SimpleRun starts the peers of pl that live on selfIPv4 and waits for them.
func SimpleRun(ctx context.Context, selfIPv4 uint32, pl plan.PeerList, j job.Job, verboseLog bool) error {
	procs := j.CreateProcs(pl, selfIPv4)
	log.Infof("will parallel run %d instances of %s with %q", len(procs), j.Prog, j.Args)
	d, err := utils.Measure(func() error { return local.RunAll(ctx, procs, verboseLog) })
	log.Infof("all %d/%d local peers finished, took %s", len(procs), len(pl), d)
	return err
}

// RemoteRun starts every peer of pl over SSH and waits for them.
func RemoteRun(ctx context.Context, user string, pl plan.PeerList, j job.Job, verboseLog bool) error {
	procs := j.CreateAllProcs(pl)
	log.Infof("will run %d instances of %s on %s", len(procs), j.Prog, utils.Pluralize(pl.HostCount(), "host", "hosts"))
	d, err := utils.Measure(func() error { return remote.RemoteRunAll(ctx, user, procs, verboseLog, j.LogDir) })
	log.Infof("all %d peers finished, took %s", len(procs), d)
	return err
}
