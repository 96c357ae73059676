package taskqueue

import (
	"sync"
	"testing"
)

func TestSendQueueRunsFirstJobImmediately(t *testing.T) {
	q := &SendQueue{}
	ran := false
	q.Enqueue(func(done func()) {
		ran = true
		done()
	})
	if !ran {
		t.Fatalf("expected first job to run immediately")
	}
	if q.inFlight {
		t.Fatalf("expected in-flight to clear after done() with empty queue")
	}
}

func TestSendQueueSerializesJobs(t *testing.T) {
	q := &SendQueue{}
	var order []int
	var mu sync.Mutex

	var doneFns []func()
	q.Enqueue(func(done func()) {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		doneFns = append(doneFns, done)
	})
	q.Enqueue(func(done func()) {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		doneFns = append(doneFns, done)
	})

	mu.Lock()
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("expected only job 1 to have run, got %v", order)
	}
	mu.Unlock()

	doneFns[0]()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[1] != 2 {
		t.Fatalf("expected job 2 to run after job 1 completes, got %v", order)
	}
}

func TestSendQueueClearResetsState(t *testing.T) {
	q := &SendQueue{}
	q.Enqueue(func(done func()) {})
	q.Enqueue(func(done func()) {})
	if q.Len() != 1 {
		t.Fatalf("expected one queued job, got %d", q.Len())
	}
	q.Clear()
	if q.Len() != 0 || q.inFlight {
		t.Fatalf("expected clear to reset queue and in-flight flag")
	}
}
