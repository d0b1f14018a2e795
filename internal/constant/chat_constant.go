package constant

import "time"

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleTool      = "tool"

	ChatVisibilityPrivate = "private"
	ChatVisibilityPublic  = "public"

	// Model catalog. The reasoning variant runs without artifact tooling.
	DefaultChatModel   = "chat-model"
	ReasoningChatModel = "chat-model-reasoning"

	ArtifactKindText  = "text"
	ArtifactKindCode  = "code"
	ArtifactKindSheet = "sheet"
	ArtifactKindImage = "image"

	// Artifact side panel stays hidden until streamed content is worth surfacing.
	ArtifactVisibilityThreshold = 400

	ToolCreateDocument = "createDocument"
	ToolUpdateDocument = "updateDocument"

	// Resume buffer retention per chat stream.
	StreamBufferTTL = 5 * time.Minute
)
