package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// MaxExcerptLength is Ghost's limit for custom_excerpt, in characters.
const MaxExcerptLength = 300

// Summarizer suggests post excerpts.
type Summarizer interface {
	// SuggestExcerpt writes a short excerpt for a note in the given language.
	SuggestExcerpt(ctx context.Context, title, body, language string) (string, error)
}

// OpenAIClient implements Summarizer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai.api_key is not set")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai.model is not set")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIClient{client: c, model: cfg.Model}, nil
}

func (o *OpenAIClient) SuggestExcerpt(ctx context.Context, title, body, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	body = strings.TrimSpace(body)
	if body == "" {
		body = title
	}
	// keep tokens reasonable
	if r := []rune(body); len(r) > 4000 {
		body = string(r[:4000])
	}

	sys := fmt.Sprintf(`
		Write an excerpt for a blog post, in %s, 1-2 sentences, at most %d characters.
		Plain text only: no markdown, no quotes, no links.
		Keep the author's voice and say what the reader will get from the post.
		`, langOrDefault(language), MaxExcerptLength)
	user := fmt.Sprintf("Title: %s\nContent: %s", title, body)
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: suggest excerpt error", "err", err)
		return "", err
	}
	return clampExcerpt(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// clampExcerpt flattens whitespace, strips wrapping quotes and cuts to
// MaxExcerptLength runes.
func clampExcerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "\"“”")
	r := []rune(s)
	if len(r) <= MaxExcerptLength {
		return s
	}
	cut := string(r[:MaxExcerptLength-1])
	if i := strings.LastIndex(cut, " "); i > MaxExcerptLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
