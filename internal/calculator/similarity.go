package calculator

import "strings"

// Similarity returns the Jaccard index of the whitespace-separated word sets of a and b,
// compared case-insensitively. Identical texts score 1.0; an empty text scores 0.0.
// Word order is ignored.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
