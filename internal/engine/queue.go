package engine

import "sync"

// readyQueue is the FIFO of tasks whose dependencies have all resolved,
// awaiting a free worker. It is unbounded so the ready intake never blocks a
// resolution callback, and strictly first-eligible-first-served: independent
// tasks submitted together are dispatched in submission order as workers
// free up.
type readyQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []*task
	closed bool
}

func newReadyQueue() *readyQueue {
	q := &readyQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a ready task and wakes one waiting worker.
func (q *readyQueue) push(t *task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a task is available or the queue is closed. The second
// return value is false only when the queue is closed and drained.
func (q *readyQueue) pop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.tasks) == 0 {
		return nil, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// close wakes all waiting workers; queued tasks are still handed out first.
func (q *readyQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
