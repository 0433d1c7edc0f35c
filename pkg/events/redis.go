package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "floot:seed-events"

// RedisSink mirrors events into a Redis stream so observers can recover the
// revealed seeds without access to the process that produced them.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink creates a sink backed by Redis.
func NewRedisSink(addr, password string, db int, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSink{client: rdb, stream: stream}
}

// Ping checks connectivity.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

// Publish implements Sink with XADD.
func (s *RedisSink) Publish(ctx context.Context, e Event) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"id":           e.ID.String(),
			"sequence":     strconv.FormatUint(e.Sequence, 10),
			"kind":         string(e.Kind),
			"seed":         e.Seed.Hex(),
			"block_index":  strconv.FormatUint(e.BlockIndex, 10),
			"timestamp":    e.Timestamp.Format(time.RFC3339Nano),
			"prev_hash":    e.PrevHash,
			"content_hash": e.ContentHash,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis publish event %d: %w", e.Sequence, err)
	}
	return nil
}

// Replay reads every event back from the stream in order.
func (s *RedisSink) Replay(ctx context.Context) ([]Event, error) {
	msgs, err := s.client.XRange(ctx, s.stream, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("redis replay: %w", err)
	}
	out := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		e, err := decodeStreamValues(m.Values)
		if err != nil {
			return nil, fmt.Errorf("redis replay %s: %w", m.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeStreamValues(values map[string]interface{}) (Event, error) {
	field := func(name string) string {
		s, _ := values[name].(string)
		return s
	}

	var (
		e   Event
		err error
	)
	if e.ID, err = uuid.Parse(field("id")); err != nil {
		return Event{}, fmt.Errorf("id: %w", err)
	}
	if e.Sequence, err = strconv.ParseUint(field("sequence"), 10, 64); err != nil {
		return Event{}, fmt.Errorf("sequence: %w", err)
	}
	if e.Seed, err = chain.ParseHash(field("seed")); err != nil {
		return Event{}, fmt.Errorf("seed: %w", err)
	}
	if e.BlockIndex, err = strconv.ParseUint(field("block_index"), 10, 64); err != nil {
		return Event{}, fmt.Errorf("block_index: %w", err)
	}
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, field("timestamp")); err != nil {
		return Event{}, fmt.Errorf("timestamp: %w", err)
	}
	e.Kind = Kind(field("kind"))
	e.PrevHash = field("prev_hash")
	e.ContentHash = field("content_hash")
	return e, nil
}
