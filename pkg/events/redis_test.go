package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisSink_Integration requires a running Redis.
// We skip if connection fails.
func TestRedisSink_Integration(t *testing.T) {
	stream := fmt.Sprintf("floot:test:%d", time.Now().UnixNano())
	sink := NewRedisSink("localhost:6379", "", 0, stream)
	defer func() { _ = sink.Close() }()

	ctx := context.Background()
	if err := sink.Ping(ctx); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}
	defer sink.client.Del(ctx, stream)

	l := NewLog()
	auto, _ := l.Append(KindAutomaticSeedSet, seedOf("auto"), 4, t0)
	fallback, _ := l.Append(KindFallbackSeedSet, seedOf("fallback"), 11, t0.Add(25*time.Hour))
	require.NoError(t, sink.Publish(ctx, auto))
	require.NoError(t, sink.Publish(ctx, fallback))

	replayed, err := sink.Replay(ctx)
	require.NoError(t, err)
	require.Len(t, replayed, 2)

	ok, reason := VerifyChain(replayed)
	assert.True(t, ok, reason)
	final, err := Recover(replayed)
	require.NoError(t, err)
	assert.Equal(t, seedOf("auto").Xor(seedOf("fallback")), final)
}

func TestDecodeStreamValues_Rejects(t *testing.T) {
	_, err := decodeStreamValues(map[string]interface{}{"id": "not-a-uuid"})
	assert.Error(t, err)
}
