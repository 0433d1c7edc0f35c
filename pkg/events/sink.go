package events

import "context"

// Sink receives events after the transition that produced them has been applied.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event) error

// Publish implements Sink.
func (f SinkFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}
