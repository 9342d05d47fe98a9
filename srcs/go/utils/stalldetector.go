package utils

import (
	"time"

	"github.com/lsds/hia2a/srcs/go/log"
)

type StallDetector struct {
	name    string
	period  time.Duration
	stopped chan struct{}
	done    chan struct{}
}

// InstallStallDetector warns every period until Stop is called.
func InstallStallDetector(name string, period time.Duration) *StallDetector {
	s := &StallDetector{
		name:    name,
		period:  period,
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.start()
	return s
}

func (s *StallDetector) start() {
	defer close(s.done)
	tk := time.NewTicker(s.period)
	defer tk.Stop()
	t0 := time.Now()
	var hasStalled bool
	for {
		select {
		case <-tk.C:
			hasStalled = true
			log.Warnf("%s stalled for %s", s.name, time.Since(t0))
		case <-s.stopped:
			if hasStalled {
				log.Warnf("%s recovered after %s", s.name, time.Since(t0))
			}
			return
		}
	}
}

func (s *StallDetector) Stop() {
	close(s.stopped)
	<-s.done
}
