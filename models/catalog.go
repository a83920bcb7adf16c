package models

// Article is a news or post-mortem entry in the static catalog.
type Article struct {
	ID      int      `json:"id"                 yaml:"id"`
	Title   string   `json:"title"              yaml:"title"`
	Date    string   `json:"date"               yaml:"date"`
	Author  string   `json:"author"             yaml:"author"`
	Tags    []string `json:"tags"               yaml:"tags"`
	Summary string   `json:"summary"            yaml:"summary"`
	LossUSD int64    `json:"loss_usd,omitempty" yaml:"loss_usd"`
	Content string   `json:"content"            yaml:"-"`
}

// Bounty is an open bug bounty listing.
type Bounty struct {
	ID        string        `json:"id"`
	Project   string        `json:"project"`
	Platform  string        `json:"platform"`
	MaxReward int64         `json:"max_reward_usd"`
	Severity  SeverityLevel `json:"top_severity"`
	Scope     []string      `json:"scope"`
	Status    string        `json:"status"` // open|paused|closed
}

// BountyPlatform is a bounty marketplace.
type BountyPlatform struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Programs    int    `json:"programs"`
	TotalPaidMM int    `json:"total_paid_musd"`
}

// FeedItem is a short ticker-style news line.
type FeedItem struct {
	ID       int           `json:"id"`
	Time     string        `json:"time"`
	Source   string        `json:"source"`
	Headline string        `json:"headline"`
	Severity SeverityLevel `json:"severity"`
}

// Recap summarises a period of incidents.
type Recap struct {
	Period     string   `json:"period"`
	Incidents  int      `json:"incidents"`
	TotalLost  int64    `json:"total_lost_usd"`
	Highlights []string `json:"highlights"`
}

// PointsEntry is one leaderboard row.
type PointsEntry struct {
	Rank   int    `json:"rank"`
	Handle string `json:"handle"`
	Points int    `json:"points"`
	Badge  string `json:"badge,omitempty"`
}

// SubscriptionTier is a paid plan.
type SubscriptionTier struct {
	Name     string   `json:"name"`
	PriceUSD int      `json:"price_usd_month"`
	Features []string `json:"features"`
}

// RoadmapItem is a planned product milestone.
type RoadmapItem struct {
	Quarter string `json:"quarter"`
	Title   string `json:"title"`
	Status  string `json:"status"` // shipped|in_progress|planned
}

// ParlourTopic is a community discussion thread.
type ParlourTopic struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Replies int    `json:"replies"`
}

// ExploitVisualization describes the steps of a well-known exploit.
type ExploitVisualization struct {
	Name    string   `json:"name"`
	Date    string   `json:"date"`
	LossUSD int64    `json:"loss_usd"`
	Vector  string   `json:"vector"`
	Steps   []string `json:"steps"`
}

// PlatformStats is the headline numbers block.
type PlatformStats struct {
	TotalLostUSD     int64 `json:"total_lost_usd"`
	IncidentsTracked int   `json:"incidents_tracked"`
	ArticlesWritten  int   `json:"articles_written"`
	ContractsScanned int   `json:"contracts_scanned"`
	ActiveBounties   int   `json:"active_bounties"`
}
