package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestExcerpt(t *testing.T) {
	var req map[string]any
	srv := completionServer(t, "  \"A short look at\n Go tooling.\"  ", &req)
	c, err := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := c.SuggestExcerpt(context.Background(), "Tooling", "# Tooling\n\nbody", "")
	require.NoError(t, err)
	assert.Equal(t, "A short look at Go tooling.", got)

	assert.Equal(t, "gpt-4o-mini", req["model"])
	msgs, _ := req["messages"].([]any)
	require.Len(t, msgs, 2)
	sys := msgs[0].(map[string]any)["content"].(string)
	assert.Contains(t, sys, "English")
	user := msgs[1].(map[string]any)["content"].(string)
	assert.True(t, strings.HasPrefix(user, "Title: Tooling\n"))
}

func TestSuggestExcerpt_Clamped(t *testing.T) {
	srv := completionServer(t, strings.Repeat("word ", 200), nil)
	c, err := NewOpenAI(Config{APIKey: "sk-test", Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := c.SuggestExcerpt(context.Background(), "t", "b", "German")
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxExcerptLength)
	assert.True(t, strings.HasSuffix(got, "word…"))
}

func TestNewOpenAI_RequiresKeyAndModel(t *testing.T) {
	_, err := NewOpenAI(Config{Model: "m"})
	assert.Error(t, err)
	_, err = NewOpenAI(Config{APIKey: "k"})
	assert.Error(t, err)
}

func TestClampExcerpt(t *testing.T) {
	assert.Equal(t, "short", clampExcerpt("short"))
	assert.Equal(t, "two words", clampExcerpt("two\n\nwords"))
	long := strings.Repeat("ä", 400)
	assert.Equal(t, MaxExcerptLength, utf8.RuneCountInString(clampExcerpt(long)))
}
