package rmq

import (
	"context"
)

// QueueType identifies how messages sent to a queue are distributed to consumers
type QueueType string

const (
	// QueueTypeWork identifies a queue used to record requests that should be fulfilled
	// by only a single worker process
	QueueTypeWork QueueType = "work"
)

// QueueDeclaration records the canonical details of how a particular queue is to be
// configured
type QueueDeclaration struct {
	Name string
	Type QueueType
}

// Producer can send arbitrary values, serialized as JSON, to a single queue
type Producer interface {
	Send(ctx context.Context, data interface{}) error
}
