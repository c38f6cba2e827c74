// Implements the PendingQueue, which holds all requests waiting for a timeslot.
// Requests are enqueued on receipt and reordered by the PriorityPolicy before each pass.

package sim

import (
	"fmt"
	"strings"
)

// PendingQueue holds requests that have not been placed into a timeslot yet.
type PendingQueue struct {
	queue []*Request
}

// Enqueue adds a request to the back of the queue.
func (pq *PendingQueue) Enqueue(r *Request) {
	if r == nil {
		panic("Enqueue: req must not be nil")
	}
	pq.queue = append(pq.queue, r)
}

func (pq *PendingQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range pq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(pq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of requests in the queue.
func (pq *PendingQueue) Len() int {
	return len(pq.queue)
}

// Peek returns the request at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (pq *PendingQueue) Peek() *Request {
	if len(pq.queue) == 0 {
		return nil
	}
	return pq.queue[0]
}

// Contains reports whether r is already queued.
func (pq *PendingQueue) Contains(r *Request) bool {
	for _, q := range pq.queue {
		if q == r {
			return true
		}
	}
	return false
}

// Reorder applies fn to the queue contents, allowing in-place reordering.
// fn MUST NOT change the slice length (no append/delete).
func (pq *PendingQueue) Reorder(fn func([]*Request)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(pq.queue)
	fn(pq.queue)
	if len(pq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(pq.queue)))
	}
}

// Dequeue removes and returns the request at the front of the queue.
func (pq *PendingQueue) Dequeue() *Request {
	if len(pq.queue) == 0 {
		return nil
	}
	head := pq.queue[0]
	pq.queue[0] = nil
	pq.queue = pq.queue[1:]
	return head
}
