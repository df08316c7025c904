// Package profiler defines the optional instrumentation hooks a source
// handler records into, and an in-memory implementation of them.
package profiler

import (
	"fmt"
)

// ProcessProfilerName is the process name a source records decode latency under.
const ProcessProfilerName = "PROCESS"

// RecordKey identifies one unit of data travelling through the pipeline.
type RecordKey struct {
	StreamID string
	PTS      int64
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s@%d", k.StreamID, k.PTS)
}

// Module is the per-module profiler.
type Module interface {
	RecordProcessStart(processName string, key RecordKey)
	RecordProcessEnd(processName string, key RecordKey)
}

// Pipeline is the pipeline-wide profiler owned by the module container.
type Pipeline interface {
	RecordInput(key RecordKey)
	RecordOutput(key RecordKey)
}
