package engine

import (
	"sync"

	"github.com/roach88/farkas/internal/compiler"
)

// stepQueue is a thread-safe FIFO of certificate steps.
//
// Steps may be enqueued from any goroutine until Run closes the queue.
type stepQueue struct {
	mu     sync.Mutex
	steps  []compiler.Step
	closed bool
}

// newStepQueue creates an empty step queue.
func newStepQueue() *stepQueue {
	return &stepQueue{
		steps: make([]compiler.Step, 0, 16),
	}
}

// Enqueue adds a step to the back of the queue.
// Returns false if the queue is closed.
func (q *stepQueue) Enqueue(st compiler.Step) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.steps = append(q.steps, st)
	return true
}

// TryDequeue removes and returns the front step.
// Returns (compiler.Step{}, false) if the queue is empty.
func (q *stepQueue) TryDequeue() (compiler.Step, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.steps) == 0 {
		return compiler.Step{}, false
	}

	st := q.steps[0]

	// Nil out the slot so the backing array does not pin the step's
	// slices and maps.
	q.steps[0] = compiler.Step{}

	if len(q.steps) == 1 {
		q.steps = q.steps[:0]
	} else {
		q.steps = q.steps[1:]
	}

	return st, true
}

// Drain removes and returns every queued step in FIFO order.
func (q *stepQueue) Drain() []compiler.Step {
	var out []compiler.Step
	for {
		st, ok := q.TryDequeue()
		if !ok {
			return out
		}
		out = append(out, st)
	}
}

// Len returns the current queue length.
func (q *stepQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.steps)
}

// Close stops further enqueues. It reports whether this call closed the
// queue, so a second Close returns false.
func (q *stepQueue) Close() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.closed = true
	return true
}
