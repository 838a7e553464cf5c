package strategy

import (
	"fmt"

	"ReviewSentinel/internal/model"
)

const maxInfluxFindings = 3

// Findings lists the human-readable detections for a report. Thresholds here are
// lower than the scoring rules; a finding does not imply points.
func Findings(in Input) []model.Finding {
	out := []model.Finding{}
	add := func(category, detail string, sev model.Severity) {
		out = append(out, model.Finding{Category: category, Detail: detail, Severity: sev})
	}

	p := in.Patterns
	if p.GenericCount > 5 {
		add(categoryPattern, fmt.Sprintf("%d generic reviews", p.GenericCount), model.SeverityMedium)
	}
	if n := len(p.SimilarPairs); n > 0 {
		add(categoryPattern, fmt.Sprintf("%d similar reviews", n), model.SeverityHigh)
	}
	if p.KeywordStuffingCount > 3 {
		add(categoryPattern, fmt.Sprintf("%d keyword stuffing cases", p.KeywordStuffingCount), model.SeverityMedium)
	}

	b := in.Buyers
	if b.AnonymousPct > 30 {
		add(categoryBuyer, fmt.Sprintf("%.1f%% anonymous buyers", b.AnonymousPct), model.SeverityMedium)
	}
	if n := len(b.BurstReviewerIDs); n > 0 {
		add(categoryBuyer, fmt.Sprintf("%d burst reviewers", n), model.SeverityHigh)
	}

	switch {
	case in.Ratings.AllSameRating:
		add(categoryRating, "All reviews have same rating", model.SeverityHigh)
	case in.Ratings.SuspiciousPattern:
		add(categoryRating, "Suspicious rating pattern detected", model.SeverityMedium)
	}

	for i, d := range in.Ratings.SuddenInfluxDays {
		if i == maxInfluxFindings {
			break
		}
		add(categoryTime, fmt.Sprintf("%d reviews on %s", d.Count, d.Date), model.SeverityMedium)
	}
	if in.Timing.NightPct > 20 {
		add(categoryTime, fmt.Sprintf("%.1f%% reviews at night", in.Timing.NightPct), model.SeverityLow)
	}

	if v := in.Variants; v != nil {
		if v.DominanceFlag {
			add(categoryVariant, "Single variant dominates (>80%)", model.SeverityHigh)
		}
		if v.VariantCount == 1 {
			add(categoryVariant, "Only one variant reviewed", model.SeverityMedium)
		}
	}

	if b.TotalReviews > 0 && b.VerifiedBuyerPct < 20 {
		add(categoryVerification, fmt.Sprintf("Only %.1f%% verified buyers", b.VerifiedBuyerPct), model.SeverityMedium)
	}
	return out
}
