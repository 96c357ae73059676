package taskqueue

import "sync"

// PendingInteractiveInput records one forwarded interactive keystroke
// awaiting a preview capture that shows it landed.
type PendingInteractiveInput struct {
	Seq         uint64
	Session     string
	ReceivedAt  int64 // unix nanos
	ForwardedAt int64
}

// TraceQueue is a bounded FIFO of PendingInteractiveInput, drop-oldest on
// overflow, keyed by session so draining one session doesn't disturb
// another's traces.
type TraceQueue struct {
	mu      sync.Mutex
	max     int
	seq     uint64
	entries []PendingInteractiveInput

	// Dropped counts drop-oldest events, for the "log an event" contract.
	Dropped int
}

func NewTraceQueue(max int) *TraceQueue {
	return &TraceQueue{max: max}
}

// Record appends a trace, dropping the oldest entry if the queue is full.
func (q *TraceQueue) Record(session string, receivedAt, forwardedAt int64) PendingInteractiveInput {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	entry := PendingInteractiveInput{Seq: q.seq, Session: session, ReceivedAt: receivedAt, ForwardedAt: forwardedAt}

	if len(q.entries) >= q.max {
		q.entries = q.entries[1:]
		q.Dropped++
	}
	q.entries = append(q.entries, entry)
	return entry
}

// DrainSession removes and returns all traces for session, in FIFO order.
func (q *TraceQueue) DrainSession(session string) []PendingInteractiveInput {
	q.mu.Lock()
	defer q.mu.Unlock()

	var drained, kept []PendingInteractiveInput
	for _, e := range q.entries {
		if e.Session == session {
			drained = append(drained, e)
		} else {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	return drained
}

// ClearSession drops all traces for session without returning them, for
// interactive-exit cleanup.
func (q *TraceQueue) ClearSession(session string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.entries[:0:0]
	for _, e := range q.entries {
		if e.Session != session {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

func (q *TraceQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// PollGeneration is a monotonically increasing counter used to discard
// stale async poll results.
type PollGeneration struct {
	mu  sync.Mutex
	cur uint64
}

// Next increments and returns the new generation.
func (g *PollGeneration) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur++
	return g.cur
}

// Current returns the generation without advancing it.
func (g *PollGeneration) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur
}

// IsStale reports whether a result carrying generation g predates the
// current generation.
func (g *PollGeneration) IsStale(resultGeneration uint64) bool {
	return resultGeneration < g.Current()
}
