package groq

import (
	"context"
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

func sseServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "data: %s\n\n", line)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func collect(t *testing.T, ch <-chan llm.Chunk) []llm.Chunk {
	t.Helper()
	var chunks []llm.Chunk
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestChatStreamTextDeltas(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"content":"Hel"}}]}`,
		`{"choices":[{"delta":{"content":"lo"}}]}`,
		`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
	)
	defer srv.Close()

	p := NewGroqProvider(srv.URL, "test-key", "llama-3.1-8b-instant")
	ch, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	chunks := collect(t, ch)
	require.Len(t, chunks, 3)
	assert.Equal(t, "Hel", chunks[0].Delta)
	assert.Equal(t, "lo", chunks[1].Delta)
	assert.True(t, chunks[2].Done)
}

func TestChatStreamReasoningPassthrough(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"reasoning":"let me think"}}]}`,
		`{"choices":[{"delta":{"content":"42"}}]}`,
	)
	defer srv.Close()

	p := NewGroqProvider(srv.URL, "test-key", "m")
	ch, err := p.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	chunks := collect(t, ch)
	require.Len(t, chunks, 3)
	assert.Equal(t, "let me think", chunks[0].Reasoning)
	assert.Equal(t, "42", chunks[1].Delta)
}

func TestChatStreamAssemblesToolCallFragments(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"createDocument","arguments":"{\"ti"}}]}}]}`,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"tle\":\"Essay\"}"}}]}}]}`,
		`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
	)
	defer srv.Close()

	p := NewGroqProvider(srv.URL, "test-key", "m")
	ch, err := p.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	chunks := collect(t, ch)
	require.Len(t, chunks, 2)

	calls := chunks[0].ToolCalls
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].Id)
	assert.Equal(t, "createDocument", calls[0].Name)
	assert.JSONEq(t, `{"title":"Essay"}`, calls[0].Arguments)
	assert.True(t, chunks[1].Done)
}

func TestChatStreamParallelToolCallsKeepIndexOrder(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"tool_calls":[{"index":1,"id":"call_b","function":{"name":"updateDocument","arguments":"{}"}}]}}]}`,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_a","function":{"name":"createDocument","arguments":"{}"}}]}}]}`,
		`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
	)
	defer srv.Close()

	p := NewGroqProvider(srv.URL, "test-key", "m")
	ch, err := p.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	chunks := collect(t, ch)
	require.Len(t, chunks, 2)

	calls := chunks[0].ToolCalls
	require.Len(t, calls, 2)
	assert.Equal(t, "call_a", calls[0].Id)
	assert.Equal(t, "call_b", calls[1].Id)
}

func TestChatNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Paris"}}]}`)
	}))
	defer srv.Close()

	p := NewGroqProvider(srv.URL, "test-key", "m")
	got, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "capital of France?"}})
	require.NoError(t, err)
	assert.Equal(t, "Paris", got)
}

func TestStreamWorkerExitsWhenConsumerCancels(t *testing.T) {
	srv := sseServer(t,
		`{"choices":[{"delta":{"content":"Hel"}}]}`,
		`{not json}`,
	)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewGroqProvider(srv.URL, "test-key", "m")
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

func TestChatStreamNon200Fails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGroqProvider(srv.URL, "test-key", "m")
	_, err := p.ChatStream(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
