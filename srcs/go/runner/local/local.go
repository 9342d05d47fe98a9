package local

import (
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/proc"
	"github.com/lsds/hia2a/srcs/go/utils/iostream"
	"github.com/lsds/hia2a/srcs/go/utils/xterm"
)

type Runner struct {
	Name          string
	Color         xterm.Color
	LogDir        string
	LogFilePrefix string
	VerboseLog    bool
}

// Run runs cmd until it exits, or sends SIGTERM to it when ctx is done.
func (r Runner) Run(ctx context.Context, cmd *exec.Cmd) error {
	return runWith(ctx, r.defaultRedirectors(), cmd)
}

func (r Runner) defaultRedirectors() []*iostream.StdWriters {
	var redirectors []*iostream.StdWriters
	if r.VerboseLog {
		redirectors = append(redirectors, iostream.NewXTermRedirector(r.Name, r.Color))
	}
	if len(r.LogFilePrefix) > 0 {
		redirectors = append(redirectors, iostream.NewFileRedirector(path.Join(r.LogDir, r.LogFilePrefix)))
	}
	return redirectors
}

func runWith(ctx context.Context, redirectors []*iostream.StdWriters, cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	defer stdout.Close()
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	defer stderr.Close()
	results := iostream.StdReaders{Stdout: stdout, Stderr: stderr}
	ioDone := results.Stream(redirectors...)
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cmd.Process.Signal(syscall.SIGTERM)
		case <-done:
		}
	}()
	ioDone.Wait() // call this before cmd.Wait!
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// RunAll runs ps in parallel, the first failure terminates the others.
func RunAll(ctx context.Context, ps []proc.Proc, verboseLog bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	var fail int32
	for i, p := range ps {
		wg.Add(1)
		go func(i int, p proc.Proc) {
			r := &Runner{
				Name:          p.Name,
				Color:         xterm.BasicColors.Choose(i),
				VerboseLog:    verboseLog,
				LogFilePrefix: logFilePrefix(p),
				LogDir:        p.LogDir,
			}
			if err := r.Run(ctx, p.Cmd()); err != nil {
				log.Errorf("#<%s> exited with error: %v", p.Name, err)
				atomic.AddInt32(&fail, 1)
				cancel()
			} else {
				log.Debugf("#<%s> finished successfully", p.Name)
			}
			wg.Done()
		}(i, p)
	}
	wg.Wait()
	if fail != 0 {
		return fmt.Errorf("%d tasks failed", fail)
	}
	return nil
}

func logFilePrefix(p proc.Proc) string {
	if len(p.LogDir) == 0 {
		return ""
	}
	return strings.Replace(p.Name, "/", "-", -1)
}
