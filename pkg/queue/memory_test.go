package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	q := NewInMemoryQueue(4)
	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	assert.Equal(t, 2, q.Size())

	ctx := context.Background()
	first, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", first)

	second, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", second)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_Full(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue(1))

	err := q.Enqueue(2)
	var full *ErrQueueFull
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 1, full.Size)
}

func TestInMemoryQueue_DequeueHonoursContext(t *testing.T) {
	q := NewInMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInMemoryQueue_EnqueueWaitBlocksUntilRoom(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue(1))

	done := make(chan error, 1)
	go func() {
		done <- q.EnqueueWait(context.Background(), 2)
	}()

	select {
	case <-done:
		t.Fatal("EnqueueWait returned while the queue was full")
	case <-time.After(20 * time.Millisecond):
	}

	first, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	require.NoError(t, <-done)

	second, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestInMemoryQueue_EnqueueWaitHonoursContext(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue(1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.EnqueueWait(ctx, 2), context.DeadlineExceeded)
	assert.Equal(t, 1, q.Size())
}
