package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewSentinel/internal/detector"
	"ReviewSentinel/internal/model"
)

type stubAnalyzer struct {
	errs map[string]error
}

func (s stubAnalyzer) Analyze(_ context.Context, productURL string, _ model.AnalysisMode) (*model.Report, error) {
	if err, ok := s.errs[productURL]; ok {
		return nil, err
	}
	return &model.Report{Product: model.ProductInfo{Name: productURL}}, nil
}

func TestAnalyzeBatch_SingleFailureKeepsSentinel(t *testing.T) {
	an := stubAnalyzer{errs: map[string]error{
		"https://shop/a": fmt.Errorf("analyze %q: %w", "https://shop/a", detector.ErrProductNotFound),
	}}
	var out, errOut bytes.Buffer

	err := analyzeBatch(context.Background(), an, []string{"https://shop/a"}, model.ModeQuick, &out, &errOut)
	require.Error(t, err)
	assert.ErrorIs(t, err, detector.ErrProductNotFound)
	assert.Empty(t, errOut.String())
}

func TestAnalyzeBatch_MultipleFailuresAreCounted(t *testing.T) {
	an := stubAnalyzer{errs: map[string]error{
		"https://shop/a": detector.ErrNoReviews,
		"https://shop/b": detector.ErrProductNotFound,
	}}
	var out, errOut bytes.Buffer

	err := analyzeBatch(context.Background(), an, []string{"https://shop/a", "https://shop/b"}, model.ModeQuick, &out, &errOut)
	require.Error(t, err)
	assert.EqualError(t, err, "2 of 2 analyses failed")
	assert.False(t, errors.Is(err, detector.ErrProductNotFound))
	assert.Contains(t, errOut.String(), "https://shop/b: product not found")
	assert.Contains(t, out.String(), "Batch Summary")
}

func TestAnalyzeBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer

	err := analyzeBatch(ctx, stubAnalyzer{}, []string{"https://shop/a"}, model.ModeFull, &out, &errOut)
	assert.ErrorIs(t, err, context.Canceled)
}
