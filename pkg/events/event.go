package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used for publishing and for
// reconstructing events on the consuming side.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the chat backend.
const (
	TypeChatCompleted  = "CHAT_COMPLETED"
	TypeChatFailed     = "CHAT_FAILED"
	TypeTitleGenerated = "TITLE_GENERATED"
	TypeDocumentSaved  = "DOCUMENT_SAVED"
	TypeUserRegistered = "USER_REGISTERED"
	TypeQuotaExceeded  = "QUOTA_EXCEEDED"
)
