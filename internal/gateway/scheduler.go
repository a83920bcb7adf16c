package gateway

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/robfig/cron/v3"
)

const sessionSweepExpr = "@every 5m"

// Scheduler drives the periodic gateway jobs on robfig/cron: the feed
// ticker that rotates through catalog feed items and the idle session sweep.
type Scheduler struct {
	cron      *cron.Cron
	feed      []models.FeedItem
	broadcast func(SSEEvent)
	sweep     func()

	mu   sync.Mutex
	next int
}

func newScheduler(feed []models.FeedItem, broadcast func(SSEEvent), sweep func()) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		feed:      feed,
		broadcast: broadcast,
		sweep:     sweep,
	}
}

// Start registers the jobs and starts the cron runner. An empty feedExpr
// disables the feed ticker.
func (s *Scheduler) Start(feedExpr string) error {
	if feedExpr != "" && len(s.feed) > 0 {
		if _, err := s.cron.AddFunc(feedExpr, s.tick); err != nil {
			return fmt.Errorf("invalid feed ticker expression %q: %w", feedExpr, err)
		}
	}
	if s.sweep != nil {
		if _, err := s.cron.AddFunc(sessionSweepExpr, s.sweep); err != nil {
			return fmt.Errorf("registering session sweep: %w", err)
		}
	}
	s.cron.Start()
	slog.Info("gateway scheduler started", "feed_ticker", feedExpr, "feed_items", len(s.feed))
	return nil
}

// Stop halts the cron runner gracefully.
func (s *Scheduler) Stop() { s.cron.Stop() }

// tick broadcasts the next feed item, wrapping at the end of the feed.
func (s *Scheduler) tick() {
	if len(s.feed) == 0 {
		return
	}
	s.mu.Lock()
	item := s.feed[s.next%len(s.feed)]
	s.next++
	s.mu.Unlock()
	s.broadcast(SSEEvent{Type: EventFeedTick, Payload: item})
}
