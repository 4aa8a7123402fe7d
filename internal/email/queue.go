package email

import (
	"context"
	"fmt"
	"log"
)

// Message is an immutable delivery task. Handlers enqueue one and move
// on; whether delivery eventually succeeds never affects stored
// account state.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Queue accepts messages for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
}

// MemoryQueue is a channel-backed queue consumed by an in-process
// worker. It is the default when no REDIS_URL is configured.
type MemoryQueue struct {
	tasks     chan Message
	deliverer Deliverer
}

func NewMemoryQueue(d Deliverer, buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryQueue{
		tasks:     make(chan Message, buffer),
		deliverer: d,
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	select {
	case q.tasks <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("mail queue is full")
	}
}

// Run consumes tasks until ctx is cancelled. Delivery failures are
// logged and dropped; the state transition that produced the message
// has already been committed.
func (q *MemoryQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.tasks:
			if err := q.deliverer.Send(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
				log.Printf("mail: delivery to %s failed: %v", msg.To, err)
			}
		}
	}
}
