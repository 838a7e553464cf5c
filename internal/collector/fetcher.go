package collector

import (
	"context"
	"errors"

	"ReviewSentinel/internal/model"
)

var (
	// ErrNotFound means the marketplace answered but had no such product or shop.
	ErrNotFound = errors.New("not found")
	// ErrStatus wraps non-200 responses from the marketplace.
	ErrStatus = errors.New("unexpected status")
)

// Fetcher defines the interface for fetching marketplace data.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	FetchProductInfo(ctx context.Context, productURL string) (*model.ProductInfo, error)
	FetchReviews(ctx context.Context, productURL string, page, limit int) (*model.ReviewPage, error)
	FetchRatingTopics(ctx context.Context, productURL string) (*model.RatingTopics, error)
	SearchProducts(ctx context.Context, query string, rows int) ([]model.SearchProduct, error)
	FetchShopDetail(ctx context.Context, domain string) (*model.SellerProfile, error)
	FetchShopRating(ctx context.Context, shopID string) (*model.SellerRatingSummary, error)
	Name() string
}
