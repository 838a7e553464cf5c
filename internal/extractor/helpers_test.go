package extractor

import "ReviewSentinel/internal/model"

// saturday is 2024-01-06T00:00:00Z.
const saturday int64 = 1704499200

func at(sec int64) model.Epoch { return model.EpochOf(sec) }

func repeatReview(r model.Review, n int) []model.Review {
	out := make([]model.Review, n)
	for i := range out {
		out[i] = r
	}
	return out
}
