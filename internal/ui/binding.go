package ui

import "sync"

// Update is a change produced outside the renderer goroutine, such as a
// controlled prop changing value. Updates run on the renderer goroutine
// during Settle, RenderOnce or before an input primitive.
type Update func()

// maxSettleRounds bounds how often updates may enqueue further updates
// within one Settle.
const maxSettleRounds = 64

type updateQueue struct {
	mu      sync.Mutex
	pending []Update
	closed  bool
}

func (q *updateQueue) push(u Update) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, u)
	return true
}

func (q *updateQueue) take() []Update {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

func (q *updateQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}

func (q *updateQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Enqueue schedules u for the next settle. Safe for concurrent use.
func (r *Renderer) Enqueue(u Update) error {
	if u == nil {
		return nil
	}
	if !r.queue.push(u) {
		return newOpError("enqueue", "", ErrRendererDestroyed)
	}
	if r.wake != nil {
		r.wake()
	}
	return nil
}

// Pending returns the number of updates waiting for a settle.
func (r *Renderer) Pending() int {
	return r.queue.size()
}

// applyBatch runs one batch of updates. It stops if an update destroys
// the renderer.
func (r *Renderer) applyBatch(batch []Update) error {
	for _, u := range batch {
		if r.destroyed {
			return ErrRendererDestroyed
		}
		u()
	}
	if r.destroyed {
		return ErrRendererDestroyed
	}
	return nil
}

// drain applies updates until the queue stays empty.
func (r *Renderer) drain() error {
	for range maxSettleRounds {
		batch := r.queue.take()
		if len(batch) == 0 {
			return nil
		}
		if err := r.applyBatch(batch); err != nil {
			return err
		}
	}
	if r.queue.size() > 0 {
		return ErrUnsettled
	}
	return nil
}

// Settle applies every queued update, including updates enqueued while
// applying, then runs exactly one render pass.
func (r *Renderer) Settle() error {
	const op = "settle"
	if err := r.alive(op); err != nil {
		return err
	}
	if err := r.drain(); err != nil {
		return newOpError(op, "", err)
	}
	return r.render()
}

// RenderOnce applies the updates queued at call time and runs exactly one
// render pass. Updates they enqueue wait for the next settle.
func (r *Renderer) RenderOnce() error {
	const op = "render"
	if err := r.alive(op); err != nil {
		return err
	}
	if err := r.applyBatch(r.queue.take()); err != nil {
		return newOpError(op, "", err)
	}
	return r.render()
}
