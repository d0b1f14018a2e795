package entity

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Title      string
	Visibility string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// MessagePart is one element of a message's ordered content sequence.
// Type discriminates the union: "text", "file" or "tool-invocation".
type MessagePart struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// file
	URL       string `json:"url,omitempty"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"mediaType,omitempty"`

	// tool-invocation
	ToolName   string `json:"toolName,omitempty"`
	ToolCallId string `json:"toolCallId,omitempty"`
	State      string `json:"state,omitempty"` // "input-streaming" | "input-available" | "output-available"
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
}

const (
	MessagePartTypeText = "text"
	MessagePartTypeFile = "file"
	MessagePartTypeTool = "tool-invocation"

	ToolStateInputStreaming  = "input-streaming"
	ToolStateInputAvailable  = "input-available"
	ToolStateOutputAvailable = "output-available"
)

type Attachment struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// ChatMessage rows are append-only; parts are immutable once persisted.
type ChatMessage struct {
	Id          uuid.UUID
	ChatId      uuid.UUID
	Role        string
	Parts       []MessagePart
	Attachments []Attachment
	CreatedAt   time.Time
}

type Vote struct {
	ChatId    uuid.UUID
	MessageId uuid.UUID
	IsUpvoted bool
}
