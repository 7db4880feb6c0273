package loadgen

import (
	"sort"
	"sync"
	"time"
)

// Stats counts outcomes per operation. Safe for concurrent use.
type Stats struct {
	mu     sync.Mutex
	counts map[Operation]map[Outcome]int
}

func newStats() *Stats {
	return &Stats{counts: make(map[Operation]map[Outcome]int)}
}

func (s *Stats) record(op Operation, out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byOutcome, ok := s.counts[op]
	if !ok {
		byOutcome = make(map[Outcome]int)
		s.counts[op] = byOutcome
	}
	byOutcome[out]++
}

// OpSummary is the result count of one operation.
type OpSummary struct {
	Op       Operation
	Sent     int
	OK       int
	Degraded int
	Rejected int
	Failed   int
	Dup      int
}

// Summary is the final report of a run.
type Summary struct {
	Ops           []OpSummary
	JobsAccepted  int
	JobsCompleted int
	JobsPending   int
	Duration      time.Duration
}

// Op returns the summary for op, or a zero value.
func (s *Summary) Op(op Operation) OpSummary {
	for _, o := range s.Ops {
		if o.Op == op {
			return o
		}
	}
	return OpSummary{Op: op}
}

// Total returns the number of requests sent across all operations.
func (s *Summary) Total() int {
	n := 0
	for _, o := range s.Ops {
		n += o.Sent
	}
	return n
}

func (s *Stats) summary() []OpSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]OpSummary, 0, len(s.counts))
	for op, c := range s.counts {
		o := OpSummary{
			Op:       op,
			OK:       c[OutcomeOK],
			Degraded: c[OutcomeDegraded],
			Rejected: c[OutcomeRejected],
			Failed:   c[OutcomeFailed],
			Dup:      c[OutcomeDup],
		}
		o.Sent = o.OK + o.Degraded + o.Rejected + o.Failed + o.Dup
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}
