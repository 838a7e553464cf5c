package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewSentinel/internal/model"
)

func TestAnalyzePatterns_IdenticalGenericReviews(t *testing.T) {
	reviews := repeatReview(model.Review{Message: "bagus mantap oke", Rating: 5}, 12)

	p := AnalyzePatterns(reviews)

	assert.Equal(t, 12, p.GenericCount)
	assert.Len(t, p.SimilarPairs, 66) // 12 choose 2
	assert.Equal(t, 0, p.KeywordStuffingCount)
	assert.Equal(t, 0, p.ExcessivePraiseCount)
	require.Len(t, p.DuplicatePhrases, 1)
	assert.Equal(t, model.PhraseCount{Phrase: "bagus mantap oke", Count: 12}, p.DuplicatePhrases[0])
	for _, pair := range p.SimilarPairs {
		assert.Less(t, pair.IndexA, pair.IndexB)
		assert.Equal(t, 1.0, pair.Score)
	}
}

func TestAnalyzePatterns_StuffingAndPraise(t *testing.T) {
	reviews := []model.Review{
		{Message: "Bagus bagus bagus sekali barangnya"},
		{Message: "mantap mantap pengiriman cepat sekali"},
		{Message: "Produk terbaik di kelasnya, saya puas"},
		{Message: "pelayanan luar biasa dan respon penjual cepat"},
	}

	p := AnalyzePatterns(reviews)

	assert.Equal(t, 1, p.KeywordStuffingCount)
	assert.Equal(t, 2, p.ExcessivePraiseCount)
	assert.Equal(t, 0, p.GenericCount)
	assert.Empty(t, p.SimilarPairs)
}

func TestAnalyzePatterns_PairIndicesAreCorpusPositions(t *testing.T) {
	reviews := []model.Review{
		{Message: "barang sampai dengan selamat terima kasih"},
		{Message: ""},
		{Rating: 5},
		{Message: "Barang sampai dengan selamat terima kasih"},
	}

	p := AnalyzePatterns(reviews)

	require.Len(t, p.SimilarPairs, 1)
	assert.Equal(t, 0, p.SimilarPairs[0].IndexA)
	assert.Equal(t, 3, p.SimilarPairs[0].IndexB)
}

func TestAnalyzePatterns_DuplicatePhrasesNeedMoreThanThree(t *testing.T) {
	base := []model.Review{
		{Message: "kualitas oke harga murah sekali"},
		{Message: "kualitas oke harga bersaing"},
		{Message: "kualitas oke harga pas"},
	}
	p := AnalyzePatterns(base)
	assert.Empty(t, p.DuplicatePhrases)

	p = AnalyzePatterns(append(base, model.Review{Message: "jujur kualitas oke harga standar"}))
	require.NotEmpty(t, p.DuplicatePhrases)
	assert.Equal(t, model.PhraseCount{Phrase: "kualitas oke harga", Count: 4}, p.DuplicatePhrases[0])
}

func TestAnalyzePatterns_Empty(t *testing.T) {
	p := AnalyzePatterns(nil)
	assert.Equal(t, 0, p.GenericCount)
	assert.NotNil(t, p.SimilarPairs)
	assert.NotNil(t, p.DuplicatePhrases)
}

func TestAnalyzePatterns_Idempotent(t *testing.T) {
	reviews := []model.Review{
		{Message: "a b c d e f"},
		{Message: "a b c d e f"},
		{Message: "a b c d e g"},
		{Message: "a b c"},
		{Message: "x a b c"},
	}
	assert.Equal(t, AnalyzePatterns(reviews), AnalyzePatterns(reviews))
}
