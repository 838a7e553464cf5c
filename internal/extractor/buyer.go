package extractor

import (
	"sort"

	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const (
	burstWindowSeconds = 300
	verifiedBuyerLabel = "Verified Buyer"
)

// AnalyzeBuyers extracts reviewer-behaviour signals.
func AnalyzeBuyers(reviews []model.Review) model.BuyerFeatures {
	total := len(reviews)
	out := model.BuyerFeatures{
		TotalReviews:     total,
		BurstReviewerIDs: []string{},
		LabelCounts:      map[string]int{},
	}

	anonymous := 0
	reviewCounts := make(map[string]int)
	times := make(map[string][]int64)
	var order []string

	for _, r := range reviews {
		if r.IsAnonymous {
			anonymous++
		}
		if r.ReviewerLabel != "" {
			out.LabelCounts[r.ReviewerLabel]++
		}
		if r.ReviewerID == "" {
			continue
		}
		if _, seen := reviewCounts[r.ReviewerID]; !seen {
			order = append(order, r.ReviewerID)
		}
		reviewCounts[r.ReviewerID]++
		if ts, ok := r.CreatedAt.Unix(); ok {
			times[r.ReviewerID] = append(times[r.ReviewerID], ts)
		}
	}

	out.AnonymousPct = calculator.Percent(anonymous, total)
	out.VerifiedBuyerPct = calculator.Percent(out.LabelCounts[verifiedBuyerLabel], total)

	for _, id := range order {
		if reviewCounts[id] == 1 {
			out.SingleReviewAccounts++
		}
		if isBurst(times[id]) {
			out.BurstReviewerIDs = append(out.BurstReviewerIDs, id)
		}
	}

	return out
}

// isBurst reports whether any two consecutive timestamps are closer than the burst window.
func isBurst(ts []int64) bool {
	if len(ts) < 2 {
		return false
	}
	sorted := append([]int64(nil), ts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] < burstWindowSeconds {
			return true
		}
	}
	return false
}
