package profiler

import (
	"context"
	"time"

	"github.com/xaionaro-go/xsync"
)

type ProcessStats struct {
	Started      uint64
	Completed    uint64
	Dropped      uint64
	TotalLatency time.Duration
	MaxLatency   time.Duration
}

func (s ProcessStats) AverageLatency() time.Duration {
	if s.Completed == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Completed)
}

// Memory keeps start markers until the matching end marker arrives.
// It implements both Module and Pipeline.
type Memory struct {
	Locker      xsync.Mutex
	starts      map[string]map[RecordKey]time.Time
	stats       map[string]*ProcessStats
	inputs      uint64
	outputs     uint64
	maxInFlight int

	now func() time.Time
}

var _ Module = (*Memory)(nil)
var _ Pipeline = (*Memory)(nil)

// NewMemory creates a profiler; maxInFlight bounds the amount of pending
// start markers per process (markers for frames the decoder discarded never
// get an end marker). Zero means 4096.
func NewMemory(maxInFlight int) *Memory {
	if maxInFlight <= 0 {
		maxInFlight = 4096
	}
	return &Memory{
		starts:      map[string]map[RecordKey]time.Time{},
		stats:       map[string]*ProcessStats{},
		maxInFlight: maxInFlight,
		now:         time.Now,
	}
}

func (m *Memory) RecordProcessStart(processName string, key RecordKey) {
	m.Locker.Do(context.Background(), func() {
		starts := m.starts[processName]
		if starts == nil {
			starts = map[RecordKey]time.Time{}
			m.starts[processName] = starts
		}
		stats := m.getStats(processName)
		if len(starts) >= m.maxInFlight {
			for k := range starts {
				delete(starts, k)
				stats.Dropped++
				break
			}
		}
		starts[key] = m.now()
		stats.Started++
	})
}

func (m *Memory) RecordProcessEnd(processName string, key RecordKey) {
	m.Locker.Do(context.Background(), func() {
		startedAt, ok := m.starts[processName][key]
		if !ok {
			return
		}
		delete(m.starts[processName], key)
		latency := m.now().Sub(startedAt)
		stats := m.getStats(processName)
		stats.Completed++
		stats.TotalLatency += latency
		if latency > stats.MaxLatency {
			stats.MaxLatency = latency
		}
	})
}

func (m *Memory) getStats(processName string) *ProcessStats {
	stats := m.stats[processName]
	if stats == nil {
		stats = &ProcessStats{}
		m.stats[processName] = stats
	}
	return stats
}

func (m *Memory) RecordInput(RecordKey) {
	m.Locker.Do(context.Background(), func() {
		m.inputs++
	})
}

func (m *Memory) RecordOutput(RecordKey) {
	m.Locker.Do(context.Background(), func() {
		m.outputs++
	})
}

func (m *Memory) GetProcessStats(processName string) ProcessStats {
	return xsync.DoR1(context.Background(), &m.Locker, func() ProcessStats {
		if stats := m.stats[processName]; stats != nil {
			return *stats
		}
		return ProcessStats{}
	})
}

// GetPipelineCounters returns the amount of RecordInput and RecordOutput calls.
func (m *Memory) GetPipelineCounters() (inputs, outputs uint64) {
	m.Locker.Do(context.Background(), func() {
		inputs, outputs = m.inputs, m.outputs
	})
	return
}
