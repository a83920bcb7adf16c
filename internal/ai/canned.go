package ai

import (
	"context"
	"strings"
	"time"
)

type cannedReply struct {
	keywords []string
	answer   string
}

// cannedReplies is checked in order; the first entry with a keyword found in
// the message wins.
var cannedReplies = []cannedReply{
	{
		keywords: []string{"reentrancy", "re-entrancy"},
		answer: "Reentrancy happens when a contract makes an external call before updating its own state. " +
			"Follow checks-effects-interactions and add a reentrancy guard. Try `scan <address>` to look for it.",
	},
	{
		keywords: []string{"flash loan", "flashloan", "oracle"},
		answer: "Flash loans let anyone borrow huge sums for one transaction. " +
			"If your protocol trusts a spot price, assume it can be moved. Use TWAPs and sanity bounds.",
	},
	{
		keywords: []string{"rug", "scam"},
		answer: "Most rugs go through privileged paths: upgradeable proxies, mint functions or owner-only withdrawals. " +
			"Check who holds the admin keys before you deposit.",
	},
	{
		keywords: []string{"bridge"},
		answer: "Bridges hold large pooled balances and rely on signature verification. " +
			"They are the most expensive category on the leaderboard. Run `visualize bridge-signature` for a walkthrough.",
	},
	{
		keywords: []string{"audit", "partner"},
		answer: "Our partners cover formal verification, fuzzing and manual review. Type `partners` in the terminal to see them.",
	},
	{
		keywords: []string{"bounty", "bounties"},
		answer: "Open bounties are listed with `bounties`. Critical findings on bridges pay the most.",
	},
	{
		keywords: []string{"hello", "hi", "gm"},
		answer: "gm. Ask me about reentrancy, flash loans, rugs, bridges, audits or bounties.",
	},
}

const defaultAnswer = "I only know a few topics so far: reentrancy, flash loans, rugs, bridges, audits and bounties. " +
	"Try asking about one of those."

// CannedProvider answers from a fixed keyword table after a simulated
// thinking delay.
type CannedProvider struct {
	delay time.Duration
	now   func() time.Time
}

// NewCanned creates a CannedProvider that waits delay before replying.
func NewCanned(delay time.Duration) *CannedProvider {
	return &CannedProvider{delay: delay, now: func() time.Time { return time.Now().UTC() }}
}

func (c *CannedProvider) Name() string                       { return "canned" }
func (c *CannedProvider) IsAvailable(_ context.Context) bool { return true }

// Reply waits for the configured delay (cancellable) and returns the first
// matching canned answer.
func (c *CannedProvider) Reply(ctx context.Context, _ []Message, msg string) (Message, error) {
	if c.delay > 0 {
		t := time.NewTimer(c.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-t.C:
		}
	}
	return Message{Role: RoleAssistant, Content: match(msg), SentAt: c.now()}, nil
}

func match(msg string) string {
	padded := " " + strings.Join(tokenize(msg), " ") + " "
	for _, r := range cannedReplies {
		for _, kw := range r.keywords {
			if len(kw) <= 2 {
				if strings.Contains(padded, " "+kw+" ") {
					return r.answer
				}
				continue
			}
			if strings.Contains(padded, kw) {
				return r.answer
			}
		}
	}
	return defaultAnswer
}

// tokenize lower-cases msg and strips punctuation so short keywords such as
// "hi" only match whole words.
func tokenize(msg string) []string {
	return strings.FieldsFunc(strings.ToLower(msg), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
}
