package taskqueue

import "testing"

func TestTraceQueueDropsOldestOnOverflow(t *testing.T) {
	q := NewTraceQueue(2)
	q.Record("s1", 1, 1)
	q.Record("s1", 2, 2)
	q.Record("s1", 3, 3)

	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}
	if q.Dropped != 1 {
		t.Fatalf("expected 1 drop, got %d", q.Dropped)
	}

	entries := q.DrainSession("s1")
	if len(entries) != 2 || entries[0].ReceivedAt != 2 || entries[1].ReceivedAt != 3 {
		t.Fatalf("got %+v", entries)
	}
}

func TestTraceQueueFIFOOrderBySeq(t *testing.T) {
	q := NewTraceQueue(10)
	a := q.Record("s1", 1, 1)
	b := q.Record("s1", 2, 2)
	if b.Seq <= a.Seq {
		t.Fatalf("expected strictly increasing seq: a=%d b=%d", a.Seq, b.Seq)
	}
}

func TestTraceQueueDrainOnlyTargetsSession(t *testing.T) {
	q := NewTraceQueue(10)
	q.Record("s1", 1, 1)
	q.Record("s2", 2, 2)

	drained := q.DrainSession("s1")
	if len(drained) != 1 || drained[0].Session != "s1" {
		t.Fatalf("got %+v", drained)
	}
	if q.Len() != 1 {
		t.Fatalf("expected s2's trace to remain, len=%d", q.Len())
	}
}

func TestTraceQueueClearSession(t *testing.T) {
	q := NewTraceQueue(10)
	q.Record("s1", 1, 1)
	q.Record("s2", 2, 2)
	q.ClearSession("s1")
	if q.Len() != 1 {
		t.Fatalf("expected 1 remaining trace, got %d", q.Len())
	}
}

func TestPollGenerationStaleDetection(t *testing.T) {
	g := &PollGeneration{}
	gen1 := g.Next()
	gen2 := g.Next()

	if !g.IsStale(gen1) {
		t.Fatalf("expected generation %d to be stale relative to current %d", gen1, g.Current())
	}
	if g.IsStale(gen2) {
		t.Fatalf("expected current generation %d to not be stale", gen2)
	}
}
