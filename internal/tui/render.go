package tui

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderResponse turns one dispatcher response into styled text.
// ClearResponse and ViewResponse are handled by the caller and render empty.
func RenderResponse(resp terminal.Response) string {
	var b strings.Builder
	switch r := resp.(type) {
	case terminal.HelpResponse:
		b.WriteString(panelHeaderStyle.Render("Available commands") + "\n")
		for _, c := range r.Commands {
			fmt.Fprintf(&b, "  %s %s\n",
				promptStyle.Width(28).Render(c.Usage),
				dimStyle.Render(c.Summary))
		}

	case terminal.ArticleListResponse:
		title := "Latest articles"
		if r.Query != "" {
			title = fmt.Sprintf("Results for %q", r.Query)
		}
		b.WriteString(panelHeaderStyle.Render(title) + "\n")
		for _, a := range r.Articles {
			fmt.Fprintf(&b, "  %s %s %s\n",
				promptStyle.Render(fmt.Sprintf("[%d]", a.ID)),
				inkStyle.Render(a.Title),
				dimStyle.Render(a.Date))
		}
		b.WriteString(dimStyle.Render("  read <id> to open an article") + "\n")

	case terminal.ArticleResponse:
		a := r.Article
		b.WriteString(panelHeaderStyle.Render(a.Title) + "\n")
		meta := a.Date + " · " + a.Author
		if a.LossUSD > 0 {
			meta += " · " + usd(a.LossUSD) + " lost"
		}
		b.WriteString(dimStyle.Render(meta) + "\n\n")
		b.WriteString(inkStyle.Render(strings.TrimSpace(a.Content)) + "\n")

	case terminal.ScanResponse:
		b.WriteString(renderReport(r))

	case terminal.AnalyzeResponse:
		b.WriteString(inkStyle.Render(r.Message) + "\n")
		b.WriteString(dimStyle.Render("  accepted: "+strings.Join(r.Extensions, " ")) + "\n")

	case terminal.StatsResponse:
		s := r.Stats
		b.WriteString(panelHeaderStyle.Render("Platform stats") + "\n")
		fmt.Fprintf(&b, "  %-20s %s\n", "Total lost", criticalStyle.Render(usd(s.TotalLostUSD)))
		fmt.Fprintf(&b, "  %-20s %d\n", "Incidents tracked", s.IncidentsTracked)
		fmt.Fprintf(&b, "  %-20s %d\n", "Articles", s.ArticlesWritten)
		fmt.Fprintf(&b, "  %-20s %d\n", "Contracts scanned", s.ContractsScanned)
		fmt.Fprintf(&b, "  %-20s %d\n", "Active bounties", s.ActiveBounties)

	case terminal.VisualizeResponse:
		v := r.Visualization
		b.WriteString(panelHeaderStyle.Render(v.Name) + " " + dimStyle.Render(v.Date+" · "+usd(v.LossUSD)) + "\n")
		b.WriteString(dimStyle.Render("  vector: "+v.Vector) + "\n")
		for i, step := range v.Steps {
			fmt.Fprintf(&b, "  %s %s\n", promptStyle.Render(fmt.Sprintf("%d →", i+1)), inkStyle.Render(step))
		}

	case terminal.FeedResponse:
		b.WriteString(panelHeaderStyle.Render("Live feed") + "\n")
		for _, it := range r.Items {
			b.WriteString("  " + renderFeedItem(it) + "\n")
		}

	case terminal.RecapResponse:
		for _, rc := range r.Recaps {
			b.WriteString(panelHeaderStyle.Render(rc.Period) + " " +
				dimStyle.Render(fmt.Sprintf("%d incidents · %s lost", rc.Incidents, usd(rc.TotalLost))) + "\n")
			for _, h := range rc.Highlights {
				b.WriteString("  • " + inkStyle.Render(h) + "\n")
			}
		}

	case terminal.ParlourResponse:
		b.WriteString(panelHeaderStyle.Render("Parlour") + "\n")
		for _, t := range r.Topics {
			fmt.Fprintf(&b, "  %s %s %s\n",
				promptStyle.Render(fmt.Sprintf("#%d", t.ID)),
				inkStyle.Render(t.Title),
				dimStyle.Render(fmt.Sprintf("by %s · %d replies", t.Author, t.Replies)))
		}

	case terminal.PartnersResponse:
		b.WriteString(panelHeaderStyle.Render("Security partners") + "\n")
		for _, p := range r.Partners {
			fmt.Fprintf(&b, "  %s %s\n", promptStyle.Width(16).Render(p.Name), dimStyle.Render(p.Specialty))
		}

	case terminal.BountiesResponse:
		b.WriteString(panelHeaderStyle.Render("Bug bounties") + "\n")
		for _, bt := range r.Bounties {
			fmt.Fprintf(&b, "  %s %s %s %s\n",
				inkStyle.Width(16).Render(bt.Project),
				dimStyle.Width(12).Render(bt.Platform),
				okStyle.Width(10).Render(usd(bt.MaxReward)),
				dimStyle.Render(bt.Status))
		}

	case terminal.PlatformsResponse:
		b.WriteString(panelHeaderStyle.Render("Bounty platforms") + "\n")
		for _, p := range r.Platforms {
			fmt.Fprintf(&b, "  %s %s %s\n",
				inkStyle.Width(14).Render(p.Name),
				dimStyle.Width(28).Render(p.URL),
				dimStyle.Render(fmt.Sprintf("%d programs · $%dM paid", p.Programs, p.TotalPaidMM)))
		}

	case terminal.PointsResponse:
		b.WriteString(panelHeaderStyle.Render("Leaderboard") + "\n")
		for _, p := range r.Leaderboard {
			fmt.Fprintf(&b, "  %3d. %s %s %s\n", p.Rank,
				inkStyle.Width(18).Render(p.Handle),
				okStyle.Width(8).Render(fmt.Sprintf("%d", p.Points)),
				dimStyle.Render(p.Badge))
		}

	case terminal.ReferralResponse:
		b.WriteString(panelHeaderStyle.Render("Your referral code: ") + promptStyle.Render(r.Code) + "\n")
		b.WriteString("  " + inkStyle.Render(r.Link) + "\n")
		b.WriteString("  " + dimStyle.Render(r.Reward) + "\n")

	case terminal.SubscribeResponse:
		for _, t := range r.Tiers {
			b.WriteString(panelHeaderStyle.Render(t.Name) + " " + dimStyle.Render(fmt.Sprintf("$%d/mo", t.PriceUSD)) + "\n")
			for _, f := range t.Features {
				b.WriteString("  • " + inkStyle.Render(f) + "\n")
			}
		}

	case terminal.AboutResponse:
		b.WriteString(panelHeaderStyle.Render(r.Name) + " " + dimStyle.Render(r.Version) + "\n")
		b.WriteString(inkStyle.Render(r.Description) + "\n")

	case terminal.RoadmapResponse:
		b.WriteString(panelHeaderStyle.Render("Roadmap") + "\n")
		for _, it := range r.Items {
			status := dimStyle
			switch it.Status {
			case "shipped":
				status = okStyle
			case "in_progress":
				status = highStyle
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				dimStyle.Width(8).Render(it.Quarter),
				inkStyle.Width(36).Render(it.Title),
				status.Render(it.Status))
		}

	case terminal.ErrorResponse:
		b.WriteString(criticalStyle.Render("✗ "+r.Message) + "\n")
	}
	return b.String()
}

func renderReport(r terminal.ScanResponse) string {
	var b strings.Builder
	rep := r.Report
	target := rep.FileName
	if r.Address != "" {
		target = r.Address + " (" + rep.FileName + ")"
	}
	b.WriteString(panelHeaderStyle.Render("Scan report: "+target) + "\n")
	fmt.Fprintf(&b, "  risk score %s  %s\n",
		riskStyle(rep.RiskScore).Render(fmt.Sprintf("%d/100", rep.RiskScore)),
		dimStyle.Render(fmt.Sprintf("%d lines · %d findings", rep.LineCount, len(rep.Vulnerabilities))))
	for _, v := range rep.Vulnerabilities {
		loc := ""
		if v.Line > 0 {
			loc = fmt.Sprintf("L%d", v.Line)
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			severityStyle(v.Severity).Width(10).Render(string(v.Severity)),
			dimStyle.Width(6).Render(loc),
			inkStyle.Render(v.Name))
		if v.Code != "" {
			b.WriteString("      " + dimStyle.Render(truncate(strings.TrimSpace(v.Code), 72)) + "\n")
		}
	}
	if len(rep.Partners) > 0 {
		names := make([]string, 0, len(rep.Partners))
		for _, p := range rep.Partners {
			names = append(names, p.Name)
		}
		b.WriteString(dimStyle.Render("  flagged by: "+strings.Join(names, ", ")) + "\n")
	}
	return b.String()
}

func renderFeedItem(it models.FeedItem) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		dimStyle.Width(7).Render(it.Time),
		severityStyle(it.Severity).Width(10).Render(string(it.Severity)),
		inkStyle.Render(it.Headline),
	)
}

func riskStyle(score int) lipgloss.Style {
	switch {
	case score >= 75:
		return criticalStyle
	case score >= 40:
		return highStyle
	case score > 0:
		return mediumStyle
	default:
		return okStyle
	}
}

// usd formats whole dollars as $1.2M / $350K / $900.
func usd(v int64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", float64(v)/1e9)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", float64(v)/1e6)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", float64(v)/1e3)
	default:
		return fmt.Sprintf("$%d", v)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
