package stream

import (
	"context"
)

// Emitter fans a turn's events out to the live channel and mirrors the
// replayable ones into the resume buffer. Seq numbers are assigned here so
// buffered and live copies of the same event agree.
type Emitter struct {
	streamId string
	buffer   Buffer
	out      chan Event
	seq      int64
}

func NewEmitter(streamId string, buffer Buffer, capacity int) *Emitter {
	return &Emitter{
		streamId: streamId,
		buffer:   buffer,
		out:      make(chan Event, capacity),
	}
}

func (e *Emitter) StreamId() string {
	return e.streamId
}

// Events returns the live channel. Closed once the turn is over.
func (e *Emitter) Events() <-chan Event {
	return e.out
}

// Emit sends a replayable event. Buffer failures do not stop the live
// stream; the worst case is a gap during resume.
func (e *Emitter) Emit(ctx context.Context, eventType string, data map[string]interface{}) Event {
	e.seq++
	event := Event{
		Seq:  e.seq,
		Type: eventType,
		Data: data,
	}

	if e.buffer != nil {
		_ = e.buffer.Append(ctx, e.streamId, event)
	}

	select {
	case e.out <- event:
	case <-ctx.Done():
	}
	return event
}

// EmitTransient sends a live-only event. Never buffered, never replayed.
func (e *Emitter) EmitTransient(ctx context.Context, eventType string, data map[string]interface{}) Event {
	e.seq++
	event := Event{
		Seq:       e.seq,
		Type:      eventType,
		Data:      data,
		Transient: true,
	}

	select {
	case e.out <- event:
	case <-ctx.Done():
	}
	return event
}

// Close ends the live stream. The resume buffer keeps its contents until
// the TTL clears them.
func (e *Emitter) Close() {
	close(e.out)
}
