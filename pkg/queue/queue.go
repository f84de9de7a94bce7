package queue

import "context"

// Queue is the console's inbound event queue. Producers on any goroutine
// enqueue; the console loop is the single consumer.
type Queue interface {
	// Enqueue adds an item without blocking and fails when the queue is full.
	Enqueue(item interface{}) error
	// EnqueueWait blocks until there is room for the item or ctx is done.
	EnqueueWait(ctx context.Context, item interface{}) error
	Dequeue(ctx context.Context) (interface{}, error)
	Size() int
}
