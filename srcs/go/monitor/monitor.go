// Package monitor counts the bytes a peer exchanges with each other peer.
package monitor

import (
	"io"
	"net/http"
	"time"

	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/plan"
)

type Monitor interface {
	http.Handler

	Egress(n int64, a plan.PeerID)
	Ingress(n int64, a plan.PeerID)

	GetEgressRates(addrs []plan.PeerID) []float64

	WriteTo(w io.Writer)
	Stop()
}

// New returns a Monitor that updates rates every p, or one that counts nothing if
// not enabled.
func New(enabled bool, p time.Duration) Monitor {
	if !enabled {
		return &noopMonitor{}
	}
	m := &netMetrics{
		egressCounters:  newRateAccumulatorGroup("egress"),
		ingressCounters: newRateAccumulatorGroup("ingress"),
		stopped:         make(chan struct{}),
		done:            make(chan struct{}),
	}
	if p > 0 {
		go m.start(p)
	} else {
		close(m.done)
	}
	return m
}

type noopMonitor struct{}

func (m *noopMonitor) Egress(n int64, a plan.PeerID) {}

func (m *noopMonitor) Ingress(n int64, a plan.PeerID) {}

func (m *noopMonitor) GetEgressRates(addrs []plan.PeerID) []float64 {
	log.Warnf("monitoring is not enabled")
	return make([]float64, len(addrs))
}

func (m *noopMonitor) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	http.Error(w, "monitoring is not enabled", http.StatusNotFound)
}

func (m *noopMonitor) WriteTo(w io.Writer) {}

func (m *noopMonitor) Stop() {}

type netMetrics struct {
	egressCounters  *rateAccumulatorGroup
	ingressCounters *rateAccumulatorGroup

	stopped chan struct{}
	done    chan struct{}
}

func (m *netMetrics) start(p time.Duration) {
	defer close(m.done)
	tk := time.NewTicker(p)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			m.egressCounters.update(p)
			m.ingressCounters.update(p)
		case <-m.stopped:
			return
		}
	}
}

func (m *netMetrics) Stop() {
	select {
	case <-m.stopped:
	default:
		close(m.stopped)
	}
	<-m.done
}

func (m *netMetrics) Egress(n int64, a plan.PeerID) {
	m.egressCounters.getOrCreate(a).a.Add(n)
}

func (m *netMetrics) Ingress(n int64, a plan.PeerID) {
	m.ingressCounters.getOrCreate(a).a.Add(n)
}

func (m *netMetrics) GetEgressRates(addrs []plan.PeerID) []float64 {
	return m.egressCounters.getRates(addrs)
}

func (m *netMetrics) WriteTo(w io.Writer) {
	m.egressCounters.WriteTo(w)
	m.ingressCounters.WriteTo(w)
}

func (m *netMetrics) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.WriteTo(w)
}
