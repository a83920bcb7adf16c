package ai

import (
	"context"
	"errors"
)

// errNoAI is returned by NoopProvider for every message.
var errNoAI = errors.New("assistant disabled: set assistant.provider to \"canned\" to enable it")

// NoopProvider is used when the assistant is switched off.
type NoopProvider struct{}

func (n *NoopProvider) Name() string                       { return "none" }
func (n *NoopProvider) IsAvailable(_ context.Context) bool { return false }

func (n *NoopProvider) Reply(_ context.Context, _ []Message, _ string) (Message, error) {
	return Message{}, errNoAI
}
