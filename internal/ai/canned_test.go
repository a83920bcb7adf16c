package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCannedReplyKeywords(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"How does REENTRANCY work?", "checks-effects-interactions"},
		{"what about flash loans", "Flash loans"},
		{"is this a rug?", "admin keys"},
		{"tell me about bridges", "signature verification"},
		{"gm", "gm."},
		{"this thing", "only know a few topics"},
	}
	p := NewCanned(0)
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			reply, err := p.Reply(context.Background(), nil, tt.msg)
			if err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if reply.Role != RoleAssistant {
				t.Fatalf("role = %s", reply.Role)
			}
			if !strings.Contains(reply.Content, tt.want) {
				t.Fatalf("reply %q does not contain %q", reply.Content, tt.want)
			}
		})
	}
}

func TestCannedReplyCancellable(t *testing.T) {
	p := NewCanned(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Reply(ctx, nil, "hi"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConversationHistory(t *testing.T) {
	c := NewConversation(NewCanned(0))
	if _, err := c.Send(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank message")
	}
	if _, err := c.Send(context.Background(), "audit?"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	h := c.History()
	if len(h) != 2 || h[0].Role != RoleUser || h[1].Role != RoleAssistant {
		t.Fatalf("unexpected history %+v", h)
	}
	c.Reset()
	if len(c.History()) != 0 {
		t.Fatal("Reset did not clear history")
	}
}

func TestNoopConversationKeepsUserMessage(t *testing.T) {
	c := NewConversation(&NoopProvider{})
	if _, err := c.Send(context.Background(), "hello"); !errors.Is(err, errNoAI) {
		t.Fatalf("expected errNoAI, got %v", err)
	}
	if h := c.History(); len(h) != 1 {
		t.Fatalf("expected only the user message, got %d", len(h))
	}
}
