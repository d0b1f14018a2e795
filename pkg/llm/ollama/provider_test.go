package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ndjsonServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}))
}

func TestChatStreamDeltasAndThinking(t *testing.T) {
	srv := ndjsonServer(t,
		`{"model":"llama3","message":{"role":"assistant","thinking":"hmm"},"done":false}`,
		`{"model":"llama3","message":{"role":"assistant","content":"Hello"},"done":false}`,
		`{"model":"llama3","message":{"role":"assistant","content":""},"done":true}`,
	)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	ch, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	var chunks []llm.Chunk
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		chunks = append(chunks, chunk)
	}

	require.Len(t, chunks, 3)
	assert.Equal(t, "hmm", chunks[0].Reasoning)
	assert.Equal(t, "Hello", chunks[1].Delta)
	assert.True(t, chunks[2].Done)
}

func TestChatStreamToolCallsGetSyntheticIds(t *testing.T) {
	srv := ndjsonServer(t,
		`{"model":"llama3","message":{"role":"assistant","tool_calls":[{"function":{"name":"createDocument","arguments":{"title":"Essay","kind":"text"}}}]},"done":false}`,
		`{"model":"llama3","message":{"role":"assistant"},"done":true}`,
	)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	ch, err := p.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	var calls []llm.ToolCall
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		calls = append(calls, chunk.ToolCalls...)
	}

	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].Id, "ollama omits call ids; provider must mint one")
	assert.Equal(t, "createDocument", calls[0].Name)
	assert.JSONEq(t, `{"title":"Essay","kind":"text"}`, calls[0].Arguments)
}

func TestChatNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, false, req["stream"])

		fmt.Fprint(w, `{"model":"llama3","message":{"role":"assistant","content":"Oslo"},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	got, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "capital of Norway?"}})
	require.NoError(t, err)
	assert.Equal(t, "Oslo", got)
}

func TestStreamWorkerExitsWhenConsumerCancels(t *testing.T) {
	srv := ndjsonServer(t,
		`{"model":"llama3","message":{"role":"assistant","content":"Hello"},"done":false}`,
		`{not json}`,
	)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewOllamaProvider(srv.URL, "llama3")
	ch, err := p.ChatStream(ctx, nil)
	require.NoError(t, err)

	first := <-ch
	require.NoError(t, first.Err)

	// Abandon the channel mid-stream. The worker must not stay parked on
	// its pending send with the response body still open.
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !streamWorkerRunning() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("stream worker still running after cancel")
}

func streamWorkerRunning() bool {
	buf := make([]byte, 1<<20)
	stacks := string(buf[:runtime.Stack(buf, true)])
	return strings.Contains(stacks, "ChatStream.func")
}

func TestChatStreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing-model")
	_, err := p.ChatStream(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
