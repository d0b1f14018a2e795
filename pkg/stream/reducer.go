package stream

import (
	"encoding/json"
	"strings"
)

// ToolView is the reducer's picture of one tool invocation.
type ToolView struct {
	ToolCallId string
	ToolName   string
	State      string
	Input      string
	Output     string
}

// ArtifactView is the reducer's picture of the side-panel document.
type ArtifactView struct {
	Id      string
	Title   string
	Kind    string
	Content strings.Builder
	Visible bool
}

// Reducer folds a stream of events into the client-side view of a turn.
// Applying the same event twice is a no-op: replayed events from a resumed
// stream carry their original Seq and are dropped once seen.
type Reducer struct {
	lastSeq   int64
	MessageId string
	Text      strings.Builder
	Reasoning strings.Builder
	Tools     map[string]*ToolView
	Artifact  ArtifactView
	Finished  bool
	ErrCode   string
	ErrMsg    string

	// VisibilityThreshold is the streamed-content length at which the
	// artifact panel opens. Zero means open immediately.
	VisibilityThreshold int
}

func NewReducer(visibilityThreshold int) *Reducer {
	return &Reducer{
		Tools:               map[string]*ToolView{},
		VisibilityThreshold: visibilityThreshold,
	}
}

// Apply folds one event in. Returns false when the event was dropped as a
// duplicate or late arrival.
func (r *Reducer) Apply(e Event) bool {
	if e.Seq <= r.lastSeq {
		return false
	}
	r.lastSeq = e.Seq

	switch e.Type {
	case EventStart:
		r.MessageId = str(e.Data, "messageId")

	case EventTextDelta:
		r.Text.WriteString(str(e.Data, "delta"))

	case EventReasoningDelta:
		r.Reasoning.WriteString(str(e.Data, "delta"))

	case EventToolInputStart:
		id := str(e.Data, "toolCallId")
		r.Tools[id] = &ToolView{
			ToolCallId: id,
			ToolName:   str(e.Data, "toolName"),
			State:      "input-streaming",
		}

	case EventToolInputAvailable:
		id := str(e.Data, "toolCallId")
		tool, ok := r.Tools[id]
		if !ok {
			tool = &ToolView{ToolCallId: id, ToolName: str(e.Data, "toolName")}
			r.Tools[id] = tool
		}
		tool.State = "input-available"
		tool.Input = rawStr(e.Data, "input")

	case EventToolOutputAvailable:
		id := str(e.Data, "toolCallId")
		if tool, ok := r.Tools[id]; ok {
			tool.State = "output-available"
			tool.Output = rawStr(e.Data, "output")
		}

	case EventDataId:
		r.Artifact.Id = str(e.Data, "id")
	case EventDataTitle:
		r.Artifact.Title = str(e.Data, "title")
	case EventDataKind:
		r.Artifact.Kind = str(e.Data, "kind")
	case EventDataClear:
		r.Artifact.Content.Reset()
	case EventDataTextDelta, EventDataCodeDelta, EventDataSheetDelta:
		r.Artifact.Content.WriteString(str(e.Data, "delta"))
		if r.Artifact.Content.Len() > r.VisibilityThreshold {
			r.Artifact.Visible = true
		}
	case EventDataFinish:
		r.Artifact.Visible = true

	case EventFinish:
		r.Finished = true

	case EventError:
		r.Finished = true
		r.ErrCode = str(e.Data, "code")
		r.ErrMsg = str(e.Data, "message")
	}

	return true
}

// LastSeq reports the highest sequence number applied so far.
func (r *Reducer) LastSeq() int64 {
	return r.lastSeq
}

func str(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

// rawStr renders a value that may arrive as a string (live emit) or as a
// decoded JSON object (after a buffer round-trip).
func rawStr(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	switch v := data[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
