package prompt

import (
	"testing"

	"ai-chat-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestBuildIncludesArtifactsGuideForDefaultModel(t *testing.T) {
	b := NewSystemBuilder(constant.DefaultChatModel, RequestHints{})
	prompt := b.Build()

	assert.Contains(t, prompt, constant.RegularPrompt)
	assert.Contains(t, prompt, constant.ArtifactsPrompt)
}

func TestBuildOmitsArtifactsGuideForReasoningModel(t *testing.T) {
	b := NewSystemBuilder(constant.ReasoningChatModel, RequestHints{})
	prompt := b.Build()

	assert.Contains(t, prompt, constant.RegularPrompt)
	assert.NotContains(t, prompt, constant.ArtifactsPrompt)
}

func TestBuildRendersRequestHints(t *testing.T) {
	b := NewSystemBuilder(constant.DefaultChatModel, RequestHints{
		Latitude:  "52.52",
		Longitude: "13.40",
		City:      "Berlin",
		Country:   "Germany",
	})
	prompt := b.Build()

	assert.Contains(t, prompt, "52.52")
	assert.Contains(t, prompt, "13.40")
	assert.Contains(t, prompt, "Berlin")
	assert.Contains(t, prompt, "Germany")
}

func TestBuildMissingHintsRenderAsUnknown(t *testing.T) {
	b := NewSystemBuilder(constant.DefaultChatModel, RequestHints{City: "Oslo"})
	prompt := b.Build()

	assert.Contains(t, prompt, "Oslo")
	assert.Contains(t, prompt, "Unknown")
}
