package llm

import (
	"anbsupport/app/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

func newCompletionServer(t *testing.T, status int, captured *capturedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
			return
		}

		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "  The iPhone 15 Pro is R13799.  "},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
		}`))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(baseURL string) config.LLM {
	return config.LLM{
		BaseURL:     baseURL,
		Token:       "sk-test",
		Model:       "gpt-4o",
		Timeout:     5 * time.Second,
		MaxTokens:   100,
		Temperature: 0.5,
	}
}

var conversation = []Message{
	{Role: RoleSystem, Content: "you sell iphones"},
	{Role: RoleUser, Content: "hi"},
	{Role: RoleAssistant, Content: "hello!"},
	{Role: RoleUser, Content: "what does the 15 pro cost"},
}

func TestOpenAI_Complete(t *testing.T) {
	var captured capturedRequest
	srv := newCompletionServer(t, http.StatusOK, &captured)

	reply, err := NewOpenAI(testConfig(srv.URL)).Complete(context.Background(), conversation)
	require.NoError(t, err)
	require.Equal(t, "The iPhone 15 Pro is R13799.", reply)

	require.Equal(t, "gpt-4o", captured.Model)
	require.Len(t, captured.Messages, 4)
	require.Equal(t, "system", captured.Messages[0].Role)
	require.Equal(t, "assistant", captured.Messages[2].Role)
	require.JSONEq(t, `"what does the 15 pro cost"`, string(captured.Messages[3].Content))
}

func TestOpenAI_CompleteError(t *testing.T) {
	srv := newCompletionServer(t, http.StatusTooManyRequests, nil)

	_, err := NewOpenAI(testConfig(srv.URL)).Complete(context.Background(), conversation)
	require.Error(t, err)
}

func TestLangchain_Complete(t *testing.T) {
	var captured capturedRequest
	srv := newCompletionServer(t, http.StatusOK, &captured)

	client, err := NewLangchain(testConfig(srv.URL))
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), conversation)
	require.NoError(t, err)
	require.Equal(t, "The iPhone 15 Pro is R13799.", reply)
	require.Len(t, captured.Messages, 4)
	require.Equal(t, "user", captured.Messages[1].Role)
}

func TestLangchain_UnsupportedRole(t *testing.T) {
	srv := newCompletionServer(t, http.StatusOK, nil)

	client, err := NewLangchain(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: "tool", Content: "x"}})
	require.Error(t, err)
}

func TestFake(t *testing.T) {
	f := &Fake{Reply: "ok"}

	reply, err := f.Complete(context.Background(), conversation)
	require.NoError(t, err)
	require.Equal(t, "ok", reply)
	require.Len(t, f.Calls(), 1)
	require.Len(t, f.Calls()[0], 4)
}
