package extractor

import (
	"sort"
	"strings"

	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const (
	genericMaxWords       = 5   // fewer words than this is a generic review
	stuffingMaxRepeats    = 2   // more occurrences than this is keyword stuffing
	similarPairThreshold  = 0.8 // similarity above this marks a pair
	duplicatePhraseMinHit = 3   // phrase counts above this are duplicates
	phraseWords           = 3
)

// stuffingWords are affirmatives that bought reviews tend to repeat.
var stuffingWords = []string{"bagus", "mantap"}

// praisePhrases are superlatives typical of excessive praise.
var praisePhrases = []string{"terbaik", "sempurna", "luar biasa", "sangat bagus sekali"}

// AnalyzePatterns extracts text-pattern signals from review messages.
// Pair comparison is O(n²) in the number of messages; corpora of a few hundred
// reviews per product are the expected size.
func AnalyzePatterns(reviews []model.Review) model.PatternFeatures {
	out := model.PatternFeatures{
		DuplicatePhrases: []model.PhraseCount{},
		SimilarPairs:     []model.SimilarPair{},
	}

	type message struct {
		index int
		text  string
	}
	messages := make([]message, 0, len(reviews))
	for i, r := range reviews {
		if r.Message != "" {
			messages = append(messages, message{index: i, text: r.Message})
		}
	}

	phrases := make(map[string]int)
	for i, m := range messages {
		lower := strings.ToLower(m.text)
		words := strings.Fields(lower)

		if len(words) < genericMaxWords {
			out.GenericCount++
		}
		if isKeywordStuffed(lower) {
			out.KeywordStuffingCount++
		}
		if containsAny(lower, praisePhrases) {
			out.ExcessivePraiseCount++
		}

		for _, other := range messages[i+1:] {
			if score := calculator.Similarity(m.text, other.text); score > similarPairThreshold {
				out.SimilarPairs = append(out.SimilarPairs, model.SimilarPair{
					IndexA: m.index,
					IndexB: other.index,
					Score:  score,
				})
			}
		}

		for j := 0; j+phraseWords <= len(words); j++ {
			phrases[strings.Join(words[j:j+phraseWords], " ")]++
		}
	}

	for phrase, count := range phrases {
		if count > duplicatePhraseMinHit {
			out.DuplicatePhrases = append(out.DuplicatePhrases, model.PhraseCount{Phrase: phrase, Count: count})
		}
	}
	sort.Slice(out.DuplicatePhrases, func(i, j int) bool {
		a, b := out.DuplicatePhrases[i], out.DuplicatePhrases[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Phrase < b.Phrase
	})

	return out
}

func isKeywordStuffed(lower string) bool {
	for _, w := range stuffingWords {
		if strings.Count(lower, w) > stuffingMaxRepeats {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
