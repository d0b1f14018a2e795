package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"ai-chat-be/pkg/stream"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Interactive terminal client for the chat API. Useful for exercising the
// streaming pipeline end-to-end without a browser: it renders text deltas
// as they arrive and summarizes tool calls and artifacts at the end.

const defaultBaseURL = "http://localhost:3000/api"

func main() {
	baseURL := os.Getenv("CHAT_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	token := os.Getenv("CHAT_API_TOKEN")

	color.Cyan("🚀 Chat streaming client (%s)", baseURL)
	if token == "" {
		color.Yellow("No CHAT_API_TOKEN set; requests run as an IP-derived guest")
	}

	chatId := uuid.New()
	color.Cyan("Chat: %s", chatId)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nUSER> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text == "exit" {
			return
		}

		start := time.Now()
		if err := sendTurn(baseURL, token, chatId, text); err != nil {
			color.Red("Failed: %v", err)
			continue
		}
		color.Green("(%v)", time.Since(start).Round(time.Millisecond))
	}
}

func sendTurn(baseURL, token string, chatId uuid.UUID, text string) error {
	payload := map[string]interface{}{
		"id": chatId,
		"message": map[string]interface{}{
			"id":   uuid.New(),
			"role": "user",
			"parts": []map[string]interface{}{
				{"type": "text", "text": text},
			},
		},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", baseURL+"/chat/v1/", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := json.Marshal(resp.Header)
		return fmt.Errorf("unexpected status %s: %s", resp.Status, raw)
	}

	reducer := stream.NewReducer(0)
	reader := bufio.NewReader(resp.Body)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		raw := strings.TrimPrefix(line, "data: ")
		if raw == "[DONE]" {
			break
		}

		event, err := stream.UnmarshalEvent([]byte(raw))
		if err != nil {
			color.Red("\nbad event: %v", err)
			continue
		}
		render(event)
		reducer.Apply(event)
	}

	summarize(reducer)
	return nil
}

func render(e stream.Event) {
	switch e.Type {
	case stream.EventTextDelta:
		fmt.Print(asString(e.Data["delta"]))
	case stream.EventReasoningDelta:
		color.New(color.Faint).Print(asString(e.Data["delta"]))
	case stream.EventToolInputStart:
		color.Yellow("\n[tool] %s running...", asString(e.Data["toolName"]))
	case stream.EventDataTextDelta, stream.EventDataCodeDelta, stream.EventDataSheetDelta:
		color.New(color.FgMagenta).Print(asString(e.Data["delta"]))
	case stream.EventError:
		color.Red("\n[error] %s: %s", asString(e.Data["code"]), asString(e.Data["message"]))
	}
}

func summarize(r *stream.Reducer) {
	fmt.Println()
	for _, tool := range r.Tools {
		color.Yellow("[tool] %s -> %s", tool.ToolName, tool.State)
	}
	if r.Artifact.Id != "" {
		color.Magenta("[artifact] %s (%s), %d chars", r.Artifact.Title, r.Artifact.Kind, r.Artifact.Content.Len())
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
