package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Conversation is the chat history of one assistant session.
type Conversation struct {
	provider Provider

	mu       sync.Mutex
	messages []Message
}

// NewConversation starts an empty conversation backed by p.
func NewConversation(p Provider) *Conversation {
	return &Conversation{provider: p}
}

// Send records msg, asks the provider for a reply and records it.
// A failed reply leaves only the user message in the history.
func (c *Conversation) Send(ctx context.Context, msg string) (Message, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Message{}, fmt.Errorf("empty message")
	}

	c.mu.Lock()
	history := append([]Message(nil), c.messages...)
	c.messages = append(c.messages, Message{Role: RoleUser, Content: msg, SentAt: time.Now().UTC()})
	c.mu.Unlock()

	reply, err := c.provider.Reply(ctx, history, msg)
	if err != nil {
		return Message{}, fmt.Errorf("%s: %w", c.provider.Name(), err)
	}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.mu.Unlock()
	return reply, nil
}

// History returns a copy of all recorded messages.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Reset clears the history.
func (c *Conversation) Reset() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}
