package upgrade

import (
	"sync"
	"time"

	"worldupgrade/internal/store"
)

// Job is one chunk record waiting to be migrated.
type Job struct {
	Pos      store.ChunkPos
	QueuedAt time.Time
}

type Queue struct {
	mu      sync.Mutex
	pending []Job
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(jobs ...Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, jobs...)
}

// Drain removes up to max jobs from the front of the queue. A max of zero or
// less drains everything and releases the backing storage.
func (q *Queue) Drain(max int) []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	if max <= 0 || max >= len(q.pending) {
		batch := q.pending
		q.pending = nil
		return batch
	}
	batch := append([]Job(nil), q.pending[:max]...)
	q.pending = q.pending[max:]
	return batch
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
