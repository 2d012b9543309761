package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goanalysis/internal/cache"
	"github.com/hyperifyio/goanalysis/internal/issue"
)

// ChatClient is the subset of *openai.Client used here so tests and local
// backends can stand in for it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a client for an OpenAI-compatible server.
func NewOpenAIClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

const systemPrompt = "You explain static analysis findings to software engineers. " +
	"Answer with one short paragraph describing what the rule checks and how to fix a violation. " +
	"Do not repeat the file name or line numbers."

// LLM asks a chat model to explain an issue type. When Cache is set answers
// are kept per tool, rule and model.
type LLM struct {
	Client ChatClient
	Model  string
	// Tool is the registry id of the reports being described.
	Tool   string
	Cache  *cache.Store
}

func (l *LLM) Describe(ctx context.Context, i issue.Issue) (string, error) {
	if l == nil || l.Client == nil {
		return "", errors.New("llm describer not configured")
	}
	rule := Key(i)
	if l.Cache != nil {
		if e, ok, err := l.Cache.Lookup(l.Tool, rule, l.Model); err == nil && ok {
			log.Debug().Str("rule", rule).Msg("description cache hit")
			return e.Text, nil
		}
	}

	resp, err := l.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(i)},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if l.Cache != nil && text != "" {
		if err := l.Cache.Put(cache.Entry{Tool: l.Tool, Rule: rule, Model: l.Model, Text: text}); err != nil {
			log.Warn().Err(err).Msg("description cache save failed")
		}
	}
	return text, nil
}

func buildPrompt(i issue.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rule: %s\n", Key(i))
	if i.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", i.Category)
	}
	if i.Origin != "" {
		fmt.Fprintf(&b, "Tool: %s\n", i.Origin)
	}
	fmt.Fprintf(&b, "Example message: %s\n", i.Message)
	return b.String()
}
