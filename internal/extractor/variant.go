package extractor

import (
	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const variantDominancePct = 80

// AnalyzeVariants extracts product-variant signals. Reviews without a variant count
// toward NoVariantPct only.
func AnalyzeVariants(reviews []model.Review) model.VariantFeatures {
	out := model.VariantFeatures{Distribution: map[string]int{}}

	noVariant := 0
	for _, r := range reviews {
		if r.VariantName == "" {
			noVariant++
			continue
		}
		out.Distribution[r.VariantName]++
	}
	out.VariantCount = len(out.Distribution)

	total := len(reviews)
	if total == 0 {
		return out
	}
	out.NoVariantPct = calculator.Percent(noVariant, total)

	top, topCount := "", 0
	for name, count := range out.Distribution {
		if count > topCount || (count == topCount && name < top) {
			top, topCount = name, count
		}
	}
	if topCount > 0 {
		out.DominantVariant = top
		out.DominanceFlag = calculator.Percent(topCount, total) > variantDominancePct
	}
	return out
}
