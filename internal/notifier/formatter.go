package notifier

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"ReviewSentinel/internal/model"
	"ReviewSentinel/internal/recorder"
)

const (
	// Telegram rejects messages longer than 4096 characters.
	maxTelegramRunes = 4000
	maxAlertFindings = 5
	timeLayout       = "2006-01-02 15:04"
)

// HelpText lists the bot commands.
const HelpText = `<b>ReviewSentinel</b> commands:
/analyze &lt;product url&gt; - full analysis with trusted sellers
/quick &lt;product url&gt; - quick analysis (first pages only)
/sellers &lt;product name&gt; - find trusted sellers
/watch &lt;product url&gt; - add a product to the watchlist
/unwatch &lt;product url&gt; - remove a product from the watchlist
/watchlist - watched products and their last score
/help - this message`

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

// FormatReport renders an analysis report as plain-text tables.
func FormatReport(rep *model.Report) string {
	var b strings.Builder

	summary := newTable("Review Analysis")
	summary.AppendRows([]table.Row{
		{"Product", rep.Product.Name},
		{"Price", rep.Product.PriceFmt},
		{"Reviews analyzed", humanize.Comma(int64(rep.ReviewCount))},
		{"Average rating", fmt.Sprintf("%.2f", rep.Ratings.Average)},
		{"Fake score", fmt.Sprintf("%d/100", rep.Score.Score)},
		{"Risk", string(rep.Score.Risk)},
		{"Mode", string(rep.Mode)},
	})
	if rep.RatingTopics != nil {
		summary.AppendRow(table.Row{"Marketplace rating", fmt.Sprintf("%.1f (%s ratings)",
			rep.RatingTopics.Rating.RatingScore.Float(), humanize.Comma(rep.RatingTopics.Rating.TotalRating))})
	}
	b.WriteString(summary.Render())
	b.WriteString("\n\n")

	b.WriteString(FormatFindings(rep.Findings))
	b.WriteString("\n\n")

	if len(rep.Score.Hits) > 0 {
		hits := newTable("Score Breakdown")
		hits.AppendHeader(table.Row{"Rule", "Category", "Points", "Detail"})
		for _, h := range rep.Score.Hits {
			hits.AppendRow(table.Row{h.Rule, h.Category, fmt.Sprintf("+%d", h.Points), h.Detail})
		}
		hits.AppendFooter(table.Row{"", "Total", rep.Score.Score, ""})
		b.WriteString(hits.Render())
		b.WriteString("\n\n")
	}

	if rep.Mode == model.ModeFull && rep.TrustedSellers != nil {
		b.WriteString(FormatTrustedSellers(rep.TrustedSellers))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatFindings renders the findings table.
func FormatFindings(findings []model.Finding) string {
	if len(findings) == 0 {
		return "No suspicious patterns detected."
	}
	t := newTable("Findings")
	t.AppendHeader(table.Row{"#", "Category", "Finding", "Severity"})
	for i, f := range findings {
		t.AppendRow(table.Row{i + 1, f.Category, f.Detail, string(f.Severity)})
	}
	return t.Render()
}

// FormatTrustedSellers renders ranked alternative sellers.
func FormatTrustedSellers(sellers []model.TrustedSeller) string {
	if len(sellers) == 0 {
		return "No trusted alternative sellers found."
	}
	t := newTable("Trusted Sellers")
	t.AppendHeader(table.Row{"#", "Shop", "Trust", "Product", "Price", "Why"})
	for i, s := range sellers {
		shop := s.ShopName
		if s.Trust.IsOfficial {
			shop += " (Official)"
		} else if s.Trust.IsGold {
			shop += " (Gold)"
		}
		t.AppendRow(table.Row{
			i + 1,
			shop,
			fmt.Sprintf("%d/100", s.Trust.TrustScore),
			s.ProductName,
			s.ProductPrice,
			strings.Join(s.Trust.Reasons, "\n"),
		})
	}
	return t.Render()
}

// FormatHistory renders stored analysis runs, newest first.
func FormatHistory(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No analysis history."
	}
	t := newTable("Analysis History")
	t.AppendHeader(table.Row{"Analyzed", "Product", "Mode", "Reviews", "Score", "Risk", "Rules"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.AnalyzedAt.Format(timeLayout),
			r.ProductName,
			string(r.Mode),
			r.ReviewCount,
			r.Score,
			string(r.Risk),
			r.HitCount,
		})
	}
	return t.Render()
}

// FormatWatchlist renders the watched products ordered by last score, highest first.
func FormatWatchlist(products []model.ProductWatch) string {
	if len(products) == 0 {
		return "Watchlist is empty."
	}
	sorted := append([]model.ProductWatch(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].LastScore != sorted[j].LastScore {
			return sorted[i].LastScore > sorted[j].LastScore
		}
		return sorted[i].URL < sorted[j].URL
	})

	t := newTable("Watchlist")
	t.AppendHeader(table.Row{"Product", "Score", "Risk", "Trend", "Checked"})
	for _, p := range sorted {
		name := p.Name
		if name == "" {
			name = p.URL
		}
		checked := "never"
		if !p.LastCheckedAt.IsZero() {
			checked = p.LastCheckedAt.Format(timeLayout)
		}
		t.AppendRow(table.Row{name, p.LastScore, string(p.LastRisk), trend(p.RecentScores), checked})
	}
	return t.Render()
}

func trend(scores []int) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " → ")
}

// Pre wraps plain text in an HTML <pre> block, escaped and cut to the Telegram size limit.
func Pre(text string) string {
	r := []rune(text)
	if len(r) > maxTelegramRunes {
		text = string(r[:maxTelegramRunes]) + "\n…"
	}
	return "<pre>" + html.EscapeString(text) + "</pre>"
}

// FormatAlert formats a high fake-score alert for a watched product.
func FormatAlert(rep *model.Report, consecutiveHigh int) string {
	var b strings.Builder
	b.WriteString("🚨 <b>Fake review alert</b>\n\n")
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(rep.Product.Name))
	fmt.Fprintf(&b, "Fake score: <b>%d/100</b> (%s)\n", rep.Score.Score, rep.Score.Risk)
	fmt.Fprintf(&b, "Reviews analyzed: %s\n", humanize.Comma(int64(rep.ReviewCount)))
	if consecutiveHigh > 1 {
		fmt.Fprintf(&b, "High risk for %d checks in a row\n", consecutiveHigh)
	}

	if len(rep.Findings) > 0 {
		b.WriteString("\n<b>Findings:</b>\n")
		for i, f := range rep.Findings {
			if i == maxAlertFindings {
				fmt.Fprintf(&b, "… and %d more\n", len(rep.Findings)-maxAlertFindings)
				break
			}
			fmt.Fprintf(&b, "• [%s] %s\n", f.Severity, html.EscapeString(f.Detail))
		}
	}
	fmt.Fprintf(&b, "\n%s", html.EscapeString(rep.ProductURL))
	return b.String()
}

// FormatDigest formats the periodic watchlist summary.
func FormatDigest(products []model.ProductWatch, now time.Time) string {
	return fmt.Sprintf("📋 <b>Watchlist digest</b> | %s\n\n%s", now.Format("2006-01-02"), Pre(FormatWatchlist(products)))
}
