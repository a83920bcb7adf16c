package ai

import (
	"context"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
)

// Provider answers chat messages for the assistant view.
// To add a new provider:
//  1. Create a file in internal/ai/ (e.g. mymodel.go)
//  2. Implement Provider
//  3. Register it in New()
type Provider interface {
	// Name returns the provider identifier (e.g. "canned").
	Name() string

	// IsAvailable reports whether the provider can answer.
	IsAvailable(ctx context.Context) bool

	// Reply answers msg given the prior conversation.
	Reply(ctx context.Context, history []Message, msg string) (Message, error)
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// New returns the configured Provider. "none" disables the assistant.
func New(cfg config.AssistantConfig) Provider {
	switch cfg.Provider {
	case "none":
		return &NoopProvider{}
	default:
		return NewCanned(time.Duration(cfg.DelayMS) * time.Millisecond)
	}
}
