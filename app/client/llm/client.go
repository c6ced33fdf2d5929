package llm

import (
	"anbsupport/app/config"
	"context"
	"fmt"

	"github.com/samber/do"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Client produces one chat completion for the given conversation.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

func New(di *do.Injector) (Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	switch cfg.LLM.Provider {
	case "openai":
		return NewOpenAI(cfg.LLM), nil
	case "langchain":
		return NewLangchain(cfg.LLM)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
