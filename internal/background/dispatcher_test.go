package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startDispatcher(t *testing.T, capacity, workers int) (*Dispatcher, context.CancelFunc) {
	t.Helper()
	q := NewQueue(capacity)
	d := NewDispatcher(q, workers, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("dispatcher did not drain on shutdown")
		}
	})
	return d, cancel
}

func TestRunWithSync_ReturnsPrimaryResultImmediately(t *testing.T) {
	t.Parallel()

	d, _ := startDispatcher(t, 4, 1)

	syncStarted := make(chan struct{})
	release := make(chan struct{})
	got, err := RunWithSync(d, "slow-sync",
		func() (string, error) { return "stored-id", nil },
		func(context.Context) {
			close(syncStarted)
			<-release
		},
	)

	require.NoError(t, err)
	assert.Equal(t, "stored-id", got)

	// The primary result came back before the sync finished.
	select {
	case <-syncStarted:
	case <-time.After(time.Second):
		t.Fatal("sync task was never dispatched")
	}
	close(release)
}

func TestRunWithSync_SyncPanicIsContained(t *testing.T) {
	t.Parallel()

	d, _ := startDispatcher(t, 4, 1)

	panicked := make(chan struct{})
	got, err := RunWithSync(d, "panicking-sync",
		func() (int, error) { return 42, nil },
		func(context.Context) {
			defer close(panicked)
			panic("sheet exploded")
		},
	)

	require.NoError(t, err)
	assert.Equal(t, 42, got)

	select {
	case <-panicked:
	case <-time.After(time.Second):
		t.Fatal("sync task never ran")
	}

	// The worker survived the panic and keeps consuming.
	ran := make(chan struct{})
	d.Dispatch(Task{Name: "after-panic", Run: func(context.Context) { close(ran) }})
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panicking task")
	}
}

func TestRunWithSync_PrimaryErrorSkipsSync(t *testing.T) {
	t.Parallel()

	d, _ := startDispatcher(t, 4, 1)

	primaryErr := errors.New("store down")
	synced := make(chan struct{}, 1)
	_, err := RunWithSync(d, "should-not-run",
		func() (string, error) { return "", primaryErr },
		func(context.Context) { synced <- struct{}{} },
	)

	require.ErrorIs(t, err, primaryErr)
	select {
	case <-synced:
		t.Fatal("sync must not run for a failed primary operation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatch_FullQueueDropsWithoutBlocking(t *testing.T) {
	t.Parallel()

	// No workers running: the queue fills and stays full.
	q := NewQueue(1)
	d := NewDispatcher(q, 1, zap.NewNop())

	d.Dispatch(Task{Name: "first", Run: func(context.Context) {}})

	done := make(chan struct{})
	go func() {
		d.Dispatch(Task{Name: "second", Run: func(context.Context) {}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func TestQueue_EnqueueDequeueRespectContext(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	require.Error(t, err)

	require.NoError(t, q.Enqueue(context.Background(), Task{Name: "fits"}))
	err = q.Enqueue(ctx, Task{Name: "blocked"})
	require.Error(t, err)
}

func TestQueue_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	q.Close()
	q.Close()

	_, err := q.Dequeue(context.Background())
	require.Error(t, err)
}
