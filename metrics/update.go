package metrics

import "sync/atomic"

// RunCounters summarise one command run.
type RunCounters struct {
	Requests atomic.Int32
	Failed   atomic.Int32
	Items    atomic.Int32
}
