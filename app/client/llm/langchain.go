package llm

import (
	"anbsupport/app/config"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var chatMessageTypes = map[Role]llms.ChatMessageType{
	RoleSystem:    llms.ChatMessageTypeSystem,
	RoleUser:      llms.ChatMessageTypeHuman,
	RoleAssistant: llms.ChatMessageTypeAI,
}

type Langchain struct {
	model       llms.Model
	maxTokens   int
	temperature float64
}

func NewLangchain(cfg config.LLM) (*Langchain, error) {
	model, err := openai.New(
		openai.WithToken(cfg.Token),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		openai.WithCallback(LogCallbackHandler{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain openai model: %w", err)
	}

	return &Langchain{
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: float64(cfg.Temperature),
	}, nil
}

func (c *Langchain) Complete(ctx context.Context, messages []Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		msgType, ok := chatMessageTypes[msg.Role]
		if !ok {
			return "", fmt.Errorf("unsupported role %q", msg.Role)
		}
		content = append(content, llms.TextParts(msgType, msg.Content))
	}

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithMaxTokens(c.maxTokens),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
