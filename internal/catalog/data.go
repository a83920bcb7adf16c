package catalog

import "github.com/CosmoTheDev/rekt-terminal/models"

var bounties = []models.Bounty{
	{ID: "b-101", Project: "Aurora Bridge", Platform: "Immunefi", MaxReward: 2_500_000, Severity: models.SeverityCritical, Scope: []string{"bridge contracts", "relayer"}, Status: "open"},
	{ID: "b-102", Project: "Lendly", Platform: "Immunefi", MaxReward: 500_000, Severity: models.SeverityCritical, Scope: []string{"lending pool", "oracle adapter"}, Status: "open"},
	{ID: "b-103", Project: "SwapStation", Platform: "HackenProof", MaxReward: 150_000, Severity: models.SeverityHigh, Scope: []string{"router", "factory"}, Status: "open"},
	{ID: "b-104", Project: "YieldNest", Platform: "Code4rena", MaxReward: 80_000, Severity: models.SeverityHigh, Scope: []string{"vaults"}, Status: "paused"},
	{ID: "b-105", Project: "MemeDAO", Platform: "Sherlock", MaxReward: 20_000, Severity: models.SeverityMedium, Scope: []string{"governor"}, Status: "closed"},
}

var platforms = []models.BountyPlatform{
	{Name: "Immunefi", URL: "https://immunefi.com", Programs: 320, TotalPaidMM: 100},
	{Name: "Code4rena", URL: "https://code4rena.com", Programs: 410, TotalPaidMM: 50},
	{Name: "Sherlock", URL: "https://sherlock.xyz", Programs: 190, TotalPaidMM: 30},
	{Name: "HackenProof", URL: "https://hackenproof.com", Programs: 150, TotalPaidMM: 10},
}

var feed = []models.FeedItem{
	{ID: 1, Time: "09:42", Source: "on-chain", Headline: "Aurora Bridge pauses withdrawals after anomalous mint", Severity: models.SeverityCritical},
	{ID: 2, Time: "09:15", Source: "rekt desk", Headline: "Lendly fork drained via reentrancy in withdraw()", Severity: models.SeverityHigh},
	{ID: 3, Time: "08:51", Source: "community", Headline: "Governance proposal would hand treasury to a fresh EOA", Severity: models.SeverityMedium},
	{ID: 4, Time: "08:20", Source: "on-chain", Headline: "Oracle deviation on thin pool triggers liquidations", Severity: models.SeverityMedium},
	{ID: 5, Time: "07:58", Source: "rekt desk", Headline: "Whitehat returns 90% of frozen funds, keeps bounty", Severity: models.SeverityInfo},
	{ID: 6, Time: "07:30", Source: "community", Headline: "Audit contest opens for cross-chain messaging layer", Severity: models.SeverityLow},
}

var recaps = []models.Recap{
	{Period: "This week", Incidents: 7, TotalLost: 46_300_000, Highlights: []string{"Bridge forgery tops the week at $32M", "Two reentrancy incidents on lending forks", "One whitehat recovery"}},
	{Period: "Last week", Incidents: 4, TotalLost: 9_100_000, Highlights: []string{"Oracle manipulation on a perp DEX", "Phishing drainer hits NFT holders"}},
	{Period: "Q3", Incidents: 58, TotalLost: 412_000_000, Highlights: []string{"Bridges remain the most expensive category", "Access control failures doubled"}},
}

var points = []models.PointsEntry{
	{Rank: 1, Handle: "0xgrumpy", Points: 18_420, Badge: "whale watcher"},
	{Rank: 2, Handle: "anon auditor", Points: 15_310, Badge: "bug slayer"},
	{Rank: 3, Handle: "samczsun-fan", Points: 12_977},
	{Rank: 4, Handle: "rugdetector", Points: 9_804},
	{Rank: 5, Handle: "you", Points: 1_337, Badge: "newcomer"},
}

var tiers = []models.SubscriptionTier{
	{Name: "Free", PriceUSD: 0, Features: []string{"Daily feed", "Public articles", "3 contract scans per day"}},
	{Name: "Degen", PriceUSD: 19, Features: []string{"Real-time alerts", "Unlimited scans", "Weekly recap"}},
	{Name: "Whale", PriceUSD: 99, Features: []string{"Everything in Degen", "Partner audit discounts", "Private parlour", "API access"}},
}

var roadmap = []models.RoadmapItem{
	{Quarter: "Q1", Title: "Terminal launch", Status: "shipped"},
	{Quarter: "Q2", Title: "Contract scanner", Status: "shipped"},
	{Quarter: "Q3", Title: "Bloomberg-style dashboard", Status: "in_progress"},
	{Quarter: "Q4", Title: "Partner audit marketplace", Status: "planned"},
	{Quarter: "Q4", Title: "Points season two", Status: "planned"},
}

var parlour = []models.ParlourTopic{
	{ID: 1, Title: "Was the bridge exploit an inside job?", Author: "rugdetector", Replies: 214},
	{ID: 2, Title: "Best practices for upgradeable proxies in 2024", Author: "anon auditor", Replies: 87},
	{ID: 3, Title: "Post your worst audit finding", Author: "0xgrumpy", Replies: 356},
}

var visualizations = []models.ExploitVisualization{
	{
		Name: "the-dao", Date: "2016-06-17", LossUSD: 60_000_000, Vector: "reentrancy",
		Steps: []string{
			"Attacker calls splitDAO()",
			"DAO sends ether before updating the balance",
			"Fallback re-enters splitDAO()",
			"Loop repeats until the child DAO is drained",
		},
	},
	{
		Name: "flash-loan-oracle", Date: "2020-02-15", LossUSD: 350_000, Vector: "price manipulation",
		Steps: []string{
			"Borrow a large flash loan",
			"Swap into a thin pool to skew the spot price",
			"Borrow against inflated collateral",
			"Repay the flash loan and keep the difference",
		},
	},
	{
		Name: "bridge-signature", Date: "2022-02-02", LossUSD: 320_000_000, Vector: "signature verification bypass",
		Steps: []string{
			"Supply a spoofed sysvar account to the verifier",
			"Verifier accepts forged guardian signatures",
			"Mint wrapped tokens without collateral",
			"Bridge the minted tokens out",
		},
	},
}

var stats = models.PlatformStats{
	TotalLostUSD:     5_120_000_000,
	IncidentsTracked: 1_240,
	ContractsScanned: 48_211,
}
