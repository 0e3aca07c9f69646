package prefs

import (
	"context"
	"errors"
	"sync"

	"github.com/smith3v/dove-bot/pkg/logger"
)

const defaultWriterBuffer = 256

var ErrWriterClosed = errors.New("preference writer closed")

type writeOp struct {
	userID int64
	patch  Patch
	done   chan struct{}
}

// Writer applies merges in submission order on a single goroutine. Merge
// returns once the patch is queued; failures are logged and reported to
// OnError, never to the submitter.
type Writer struct {
	store   Merger
	queue   chan writeOp
	OnError func(*WriteError)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewWriter(store Merger, buffer int) *Writer {
	if buffer <= 0 {
		buffer = defaultWriterBuffer
	}
	w := &Writer{
		store: store,
		queue: make(chan writeOp, buffer),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *Writer) Merge(ctx context.Context, userID int64, patch Patch) error {
	if len(patch) == 0 {
		return nil
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	return w.enqueue(ctx, writeOp{userID: userID, patch: patch})
}

// Flush waits until every merge queued before the call has been applied.
func (w *Writer) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := w.enqueue(ctx, writeOp{done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue and stops the committer.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Writer) enqueue(ctx context.Context, op writeOp) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}
	select {
	case w.queue <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer w.wg.Done()
	for op := range w.queue {
		if op.done != nil {
			close(op.done)
			continue
		}
		if err := w.store.Merge(context.Background(), op.userID, op.patch); err != nil {
			writeErr := &WriteError{UserID: op.userID, Keys: op.patch.Keys(), Err: err}
			logger.Error("failed to persist preference record", "user_id", op.userID, "keys", writeErr.Keys, "error", err)
			if w.OnError != nil {
				w.OnError(writeErr)
			}
		}
	}
}
