// internal/poller/queue.go
package poller

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrTimeout        = errors.New("queue: receive timeout")
	ErrQueueFull      = errors.New("queue: full")
	ErrMessageTooLong = errors.New("queue: message too long")
	ErrClosed         = errors.New("queue: closed")
)

// Queue is the bounded inbound command queue.
// Many producers, one consumer (the polling task).
type Queue struct {
	mu      sync.Mutex
	items   []string
	depth   int
	maxSize int
	closed  bool

	// notify holds at most one wake-up for the consumer.
	notify chan struct{}
}

// NewQueue creates a queue holding up to depth messages. maxSize is the
// slot size and counts a terminator, so a message holds at most maxSize-1 bytes.
func NewQueue(depth, maxSize int) (*Queue, error) {
	if depth <= 0 {
		return nil, errors.New("queue: depth must be > 0")
	}
	if maxSize <= 0 {
		return nil, errors.New("queue: message size must be > 0")
	}
	return &Queue{
		items:   make([]string, 0, depth),
		depth:   depth,
		maxSize: maxSize,
		notify:  make(chan struct{}, 1),
	}, nil
}

// Send appends msg at the tail.
func (q *Queue) Send(msg string) error {
	return q.put(msg, false)
}

// Urgent inserts msg at the head so it is received next.
func (q *Queue) Urgent(msg string) error {
	return q.put(msg, true)
}

func (q *Queue) put(msg string, front bool) error {
	if len(msg) >= q.maxSize {
		return ErrMessageTooLong
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if len(q.items) >= q.depth {
		q.mu.Unlock()
		return ErrQueueFull
	}
	if front {
		q.items = append(q.items, "")
		copy(q.items[1:], q.items)
		q.items[0] = msg
	} else {
		q.items = append(q.items, msg)
	}
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Receive waits up to timeout for the next message.
// Returns ErrTimeout when nothing arrived, ErrClosed once the queue is closed,
// or the context error.
func (q *Queue) Receive(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return "", ErrClosed
		}
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return msg, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "", ErrTimeout
		case <-q.notify:
		}
	}
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close discards pending messages and fails every later Send/Receive.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}
