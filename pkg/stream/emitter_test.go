package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmitterAssignsMonotonicSeq(t *testing.T) {
	em := NewEmitter("chat-1", nil, 8)

	a := em.Emit(context.Background(), EventStart, nil)
	b := em.Emit(context.Background(), EventTextDelta, map[string]interface{}{"delta": "x"})
	c := em.EmitTransient(context.Background(), EventDataTextDelta, map[string]interface{}{"delta": "y"})

	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(2), b.Seq)
	assert.Equal(t, int64(3), c.Seq)
}

func TestEmitterMirrorsToBuffer(t *testing.T) {
	buf := NewMemoryBuffer(time.Minute)
	em := NewEmitter("chat-1", buf, 8)
	ctx := context.Background()

	em.Emit(ctx, EventStart, map[string]interface{}{"messageId": "m-1"})
	em.Emit(ctx, EventTextDelta, map[string]interface{}{"delta": "hi"})
	em.EmitTransient(ctx, EventDataTextDelta, map[string]interface{}{"delta": "draft"})
	em.Emit(ctx, EventFinish, nil)

	events, err := buf.Load(ctx, "chat-1")
	assert.NoError(t, err)
	assert.Len(t, events, 3, "transient events must not be buffered")
	assert.Equal(t, EventStart, events[0].Type)
	assert.Equal(t, EventTextDelta, events[1].Type)
	assert.Equal(t, EventFinish, events[2].Type)
}

func TestEmitterBufferedReplayMatchesLive(t *testing.T) {
	buf := NewMemoryBuffer(time.Minute)
	em := NewEmitter("chat-1", buf, 8)
	ctx := context.Background()

	live := []Event{
		em.Emit(ctx, EventStart, map[string]interface{}{"messageId": "m-1"}),
		em.Emit(ctx, EventTextDelta, map[string]interface{}{"delta": "a"}),
		em.Emit(ctx, EventFinish, nil),
	}

	replayed, err := buf.Load(ctx, "chat-1")
	assert.NoError(t, err)
	assert.Len(t, replayed, len(live))
	for i := range live {
		assert.Equal(t, live[i].Seq, replayed[i].Seq)
		assert.Equal(t, live[i].Type, replayed[i].Type)
	}
}

func TestEmitterCloseEndsLiveChannel(t *testing.T) {
	em := NewEmitter("chat-1", nil, 8)
	em.Emit(context.Background(), EventFinish, nil)
	em.Close()

	var got []Event
	for e := range em.Events() {
		got = append(got, e)
	}
	assert.Len(t, got, 1)
}

func TestMemoryBufferClear(t *testing.T) {
	buf := NewMemoryBuffer(time.Minute)
	ctx := context.Background()

	assert.NoError(t, buf.Append(ctx, "chat-1", Event{Seq: 1, Type: EventStart}))
	assert.NoError(t, buf.Clear(ctx, "chat-1"))

	events, err := buf.Load(ctx, "chat-1")
	assert.NoError(t, err)
	assert.Empty(t, events)
}
