package event

// Queue is a double-buffered typed queue. Items pushed while a Drain is
// running land in the back buffer and are delivered by the next Drain.
type Queue[T any] struct {
	front []T
	back  []T
}

func NewQueue[T any](hint int) *Queue[T] {
	return &Queue[T]{
		front: make([]T, 0, hint),
		back:  make([]T, 0, hint),
	}
}

// Push queues v for the next Drain.
func (q *Queue[T]) Push(v T) {
	q.back = append(q.back, v)
}

// Len returns the number of items waiting for the next Drain.
func (q *Queue[T]) Len() int { return len(q.back) }

// Drain swaps buffers and delivers everything that was queued before the call.
func (q *Queue[T]) Drain(fn func(T)) int {
	q.front, q.back = q.back, q.front[:0]
	n := len(q.front)
	for _, v := range q.front {
		fn(v)
	}
	var zero T
	for i := range q.front {
		q.front[i] = zero
	}
	q.front = q.front[:0]
	return n
}

// Reset drops everything queued.
func (q *Queue[T]) Reset() {
	q.back = q.back[:0]
}
