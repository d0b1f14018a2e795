package stream

import "encoding/json"

// Event is one unit of the typed response stream a chat turn produces.
// Seq is assigned by the emitter and increases monotonically within a
// stream, so clients replaying a resumed stream can drop duplicates.
// Transient events render live UI but are never persisted or replayed.
type Event struct {
	Seq       int64                  `json:"seq"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Transient bool                   `json:"transient,omitempty"`
}

// Lifecycle and content event types.
const (
	EventStart          = "start"           // data: messageId
	EventTextDelta      = "text-delta"      // data: delta
	EventReasoningDelta = "reasoning-delta" // data: delta
	EventFinish         = "finish"          // terminal on success
	EventError          = "error"           // terminal on failure; data: code, message
)

// Tool event types. Input events mark the call lifecycle; the output
// event carries the tool result that lands in the persisted message.
const (
	EventToolInputStart      = "tool-input-start"      // data: toolCallId, toolName
	EventToolInputAvailable  = "tool-input-available"  // data: toolCallId, toolName, input
	EventToolOutputAvailable = "tool-output-available" // data: toolCallId, output
)

// Artifact data events. Delta events are transient; the rest describe the
// artifact envelope the client pins alongside the conversation.
const (
	EventDataKind       = "data-kind"
	EventDataId         = "data-id"
	EventDataTitle      = "data-title"
	EventDataClear      = "data-clear"
	EventDataTextDelta  = "data-textDelta"
	EventDataCodeDelta  = "data-codeDelta"
	EventDataSheetDelta = "data-sheetDelta"
	EventDataFinish     = "data-finish"
)

// Marshal renders the event as a single JSON document.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent parses a JSON document produced by Marshal.
func UnmarshalEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
