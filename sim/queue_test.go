package sim

import (
	"testing"
)

func TestPendingQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with requests [A, B]
	pq := &PendingQueue{}
	reqA := newTestRequest(0, 1, 1, 1)
	reqB := newTestRequest(0, 2, 1, 1)
	pq.Enqueue(reqA)
	pq.Enqueue(reqB)

	// WHEN Peek() is called
	got := pq.Peek()

	// THEN it returns the front element without removing it
	if got != reqA {
		t.Errorf("Peek: got request %v, want %v", got, reqA)
	}
	if pq.Len() != 2 {
		t.Errorf("Peek modified queue length: got %d, want 2", pq.Len())
	}
}

func TestPendingQueue_Contains(t *testing.T) {
	pq := &PendingQueue{}
	reqA := newTestRequest(0, 1, 1, 1)
	reqB := newTestRequest(0, 1, 1, 1)
	pq.Enqueue(reqA)

	if !pq.Contains(reqA) {
		t.Error("Contains: queued request not found")
	}
	if pq.Contains(reqB) {
		t.Error("Contains: equal but distinct request reported as queued")
	}
	pq.Dequeue()
	if pq.Contains(reqA) {
		t.Error("Contains: dequeued request still reported")
	}
}

func TestPendingQueue_Peek_Empty_ReturnsNil(t *testing.T) {
	pq := &PendingQueue{}
	if got := pq.Peek(); got != nil {
		t.Errorf("Peek on empty queue: got %v, want nil", got)
	}
	if got := pq.Dequeue(); got != nil {
		t.Errorf("Dequeue on empty queue: got %v, want nil", got)
	}
}

func TestPendingQueue_Dequeue_RemovesFront(t *testing.T) {
	pq := &PendingQueue{}
	reqA := newTestRequest(0, 1, 1, 1)
	reqB := newTestRequest(0, 2, 1, 1)
	pq.Enqueue(reqA)
	pq.Enqueue(reqB)

	if got := pq.Dequeue(); got != reqA {
		t.Errorf("Dequeue: got %v, want %v", got, reqA)
	}
	if pq.Len() != 1 || pq.Peek() != reqB {
		t.Errorf("Dequeue left queue %v, want [B]", pq)
	}
}

func TestPendingQueue_Reorder_LengthChangePanics(t *testing.T) {
	pq := &PendingQueue{}
	pq.Enqueue(newTestRequest(0, 1, 1, 1))

	defer func() {
		if recover() == nil {
			t.Error("expected panic when fn changes queue length")
		}
	}()
	pq.Reorder(func([]*Request) {
		pq.queue = pq.queue[:0]
	})
}

func TestPendingQueue_Reorder_AppliesPolicy(t *testing.T) {
	pq := &PendingQueue{}
	big := newTestRequest(0, 1, 5, 1)
	small := newTestRequest(0, 2, 1, 1)
	pq.Enqueue(big)
	pq.Enqueue(small)

	pq.Reorder((&QubitDepthPriority{}).OrderQueue)

	if pq.Peek() != small {
		t.Errorf("Reorder: head got %v, want %v", pq.Peek(), small)
	}
}
