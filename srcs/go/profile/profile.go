// Package profile accumulates the durations of named scopes.
package profile

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

var now = time.Now

type Profiler struct {
	sync.Mutex
	counts         map[string]int64
	minDurations   map[string]time.Duration
	maxDurations   map[string]time.Duration
	totalDurations map[string]time.Duration

	events []event
}

type Scope struct {
	name     string
	begin    time.Time
	profiler *Profiler
}

type event struct {
	Name    string
	BeginNs int64
	EndNs   int64
}

func New() *Profiler {
	return &Profiler{
		counts:         make(map[string]int64),
		minDurations:   make(map[string]time.Duration),
		maxDurations:   make(map[string]time.Duration),
		totalDurations: make(map[string]time.Duration),
	}
}

// Profile starts a scope named name, a nil Profiler profiles nothing.
func (p *Profiler) Profile(name string) *Scope {
	if p == nil {
		return nil
	}
	return &Scope{
		name:     name,
		begin:    now(),
		profiler: p,
	}
}

func (p *Profiler) add(name string, d time.Duration) {
	p.Lock()
	defer p.Unlock()
	p.counts[name]++
	p.totalDurations[name] += d
	if val, ok := p.minDurations[name]; !ok || d < val {
		p.minDurations[name] = d
	}
	if val, ok := p.maxDurations[name]; !ok || d > val {
		p.maxDurations[name] = d
	}
}

func (p *Profiler) logEvent(name string, begin, end time.Time) {
	p.Lock()
	defer p.Unlock()
	p.events = append(p.events, event{Name: name, BeginNs: begin.UnixNano(), EndNs: end.UnixNano()})
}

func (p *Profiler) WriteEvents(w io.Writer) {
	p.Lock()
	defer p.Unlock()
	for _, e := range p.events {
		fmt.Fprintf(w, "%d %d %s\n", e.BeginNs, e.EndNs, e.Name)
	}
}

func (p *Profiler) WriteSummary(w io.Writer) {
	p.Lock()
	defer p.Unlock()
	var names []string
	for name := range p.counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return p.totalDurations[names[i]] > p.totalDurations[names[j]] })

	type record struct {
		count int64
		min   time.Duration
		max   time.Duration
		total time.Duration
		name  string

		mean time.Duration
	}

	var records []record
	for _, name := range names {
		cnt := p.counts[name]
		tot := p.totalDurations[name]
		mean := tot / time.Duration(cnt)
		records = append(records, record{
			name:  name,
			min:   p.minDurations[name],
			max:   p.maxDurations[name],
			total: tot,
			count: cnt,
			mean:  mean,
		})
	}

	th := []string{"count", "mean", "min", "max", "total", "scope"}
	var rows [][]string
	for _, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.count),
			r.mean.String(),
			r.min.String(),
			r.max.String(),
			r.total.String(),
			r.name,
		})
	}
	showTable(w, th, rows)
}

func (s *Scope) Done() {
	if s == nil {
		return
	}
	end := now()
	d := end.Sub(s.begin)
	s.profiler.add(s.name, d)
	s.profiler.logEvent(s.name, s.begin, end)
}
