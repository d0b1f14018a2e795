package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReducerAccumulatesText(t *testing.T) {
	r := NewReducer(0)

	r.Apply(Event{Seq: 1, Type: EventStart, Data: map[string]interface{}{"messageId": "m-1"}})
	r.Apply(Event{Seq: 2, Type: EventTextDelta, Data: map[string]interface{}{"delta": "Hello"}})
	r.Apply(Event{Seq: 3, Type: EventTextDelta, Data: map[string]interface{}{"delta": ", world"}})
	r.Apply(Event{Seq: 4, Type: EventFinish})

	assert.Equal(t, "m-1", r.MessageId)
	assert.Equal(t, "Hello, world", r.Text.String())
	assert.True(t, r.Finished)
	assert.Empty(t, r.ErrCode)
}

func TestReducerDropsReplayedEvents(t *testing.T) {
	r := NewReducer(0)

	first := Event{Seq: 1, Type: EventTextDelta, Data: map[string]interface{}{"delta": "once"}}
	assert.True(t, r.Apply(first))
	// A resumed stream replays the same events with their original Seq.
	assert.False(t, r.Apply(first))
	assert.False(t, r.Apply(Event{Seq: 0, Type: EventTextDelta, Data: map[string]interface{}{"delta": "late"}}))

	assert.Equal(t, "once", r.Text.String())
}

func TestReducerToolLifecycle(t *testing.T) {
	r := NewReducer(0)

	r.Apply(Event{Seq: 1, Type: EventToolInputStart, Data: map[string]interface{}{
		"toolCallId": "call-1",
		"toolName":   "createDocument",
	}})
	r.Apply(Event{Seq: 2, Type: EventToolInputAvailable, Data: map[string]interface{}{
		"toolCallId": "call-1",
		"toolName":   "createDocument",
		"input":      `{"title":"Essay","kind":"text"}`,
	}})
	r.Apply(Event{Seq: 3, Type: EventToolOutputAvailable, Data: map[string]interface{}{
		"toolCallId": "call-1",
		"output":     map[string]interface{}{"id": "doc-1"},
	}})

	tool := r.Tools["call-1"]
	assert.NotNil(t, tool)
	assert.Equal(t, "createDocument", tool.ToolName)
	assert.Equal(t, "output-available", tool.State)
	assert.Contains(t, tool.Input, "Essay")
	assert.Contains(t, tool.Output, "doc-1")
}

func TestReducerArtifactVisibilityThreshold(t *testing.T) {
	r := NewReducer(10)

	r.Apply(Event{Seq: 1, Type: EventDataKind, Data: map[string]interface{}{"kind": "text"}})
	r.Apply(Event{Seq: 2, Type: EventDataId, Data: map[string]interface{}{"id": "doc-1"}})
	r.Apply(Event{Seq: 3, Type: EventDataTitle, Data: map[string]interface{}{"title": "Essay"}})
	r.Apply(Event{Seq: 4, Type: EventDataTextDelta, Data: map[string]interface{}{"delta": "short"}})
	assert.False(t, r.Artifact.Visible)

	r.Apply(Event{Seq: 5, Type: EventDataTextDelta, Data: map[string]interface{}{"delta": "longer than ten"}})
	assert.True(t, r.Artifact.Visible)

	assert.Equal(t, "doc-1", r.Artifact.Id)
	assert.Equal(t, "Essay", r.Artifact.Title)
	assert.Equal(t, "text", r.Artifact.Kind)
	assert.Equal(t, "shortlonger than ten", r.Artifact.Content.String())
}

func TestReducerArtifactFinishForcesVisible(t *testing.T) {
	r := NewReducer(400)

	r.Apply(Event{Seq: 1, Type: EventDataCodeDelta, Data: map[string]interface{}{"delta": "print(1)"}})
	assert.False(t, r.Artifact.Visible)

	r.Apply(Event{Seq: 2, Type: EventDataFinish})
	assert.True(t, r.Artifact.Visible)
}

func TestReducerDataClearResetsContent(t *testing.T) {
	r := NewReducer(0)

	r.Apply(Event{Seq: 1, Type: EventDataTextDelta, Data: map[string]interface{}{"delta": "old draft"}})
	r.Apply(Event{Seq: 2, Type: EventDataClear})
	r.Apply(Event{Seq: 3, Type: EventDataTextDelta, Data: map[string]interface{}{"delta": "new draft"}})

	assert.Equal(t, "new draft", r.Artifact.Content.String())
}

func TestReducerErrorEvent(t *testing.T) {
	r := NewReducer(0)

	r.Apply(Event{Seq: 1, Type: EventError, Data: map[string]interface{}{
		"code":    "timeout:stream",
		"message": "An error occurred while generating the response.",
	}})

	assert.True(t, r.Finished)
	assert.Equal(t, "timeout:stream", r.ErrCode)
	assert.NotEmpty(t, r.ErrMsg)
}
