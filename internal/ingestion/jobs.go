package ingestion

import (
	"context"
	"sync"
	"sync/atomic"
)

type rowJob struct {
	upsert func(ctx context.Context) (bool, error)
	batch  *batch
}

func processRow(ctx context.Context, job rowJob) error {
	changed, err := job.upsert(ctx)
	job.batch.done(changed, err)
	return err
}

// batch tracks the rows of one sync run through the worker pool.
type batch struct {
	total   int
	pending atomic.Int64
	changed atomic.Int64
	failed  atomic.Int64
	allDone chan struct{}

	mu  sync.Mutex
	err error
}

func newBatch(total int) *batch {
	b := &batch{total: total, allDone: make(chan struct{})}
	b.pending.Store(int64(total))
	if total == 0 {
		close(b.allDone)
	}
	return b
}

func (b *batch) done(changed bool, err error) {
	switch {
	case err != nil:
		b.failed.Add(1)
		b.mu.Lock()
		if b.err == nil {
			b.err = err
		}
		b.mu.Unlock()
	case changed:
		b.changed.Add(1)
	}
	if b.pending.Add(-1) == 0 {
		close(b.allDone)
	}
}

func (b *batch) wait(ctx context.Context) error {
	select {
	case <-b.allDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *batch) changedCount() int {
	return int(b.changed.Load())
}

func (b *batch) firstErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
