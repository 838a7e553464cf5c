package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"ReviewSentinel/internal/model"
)

// ProductURLPrefix is the only accepted product URL origin.
const ProductURLPrefix = "https://www.tokopedia.com/"

// ValidateProductURL checks that u points at a marketplace product page.
func ValidateProductURL(u string) error {
	if !strings.HasPrefix(u, ProductURLPrefix) || len(u) == len(ProductURLPrefix) {
		return fmt.Errorf("invalid product url %q: must start with %s", u, ProductURLPrefix)
	}
	return nil
}

// ShopDomainFromProductURL returns the shop segment of a product URL
// (https://www.tokopedia.com/<shop>/<product>), or "" when absent.
func ShopDomainFromProductURL(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) > 3 {
		return parts[3]
	}
	return ""
}

// ShopDomainFromShopURL returns the last path segment of a shop URL.
func ShopDomainFromShopURL(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Product     *model.ProductInfo
	Topics      *model.RatingTopics
	Pages       [][]model.Review // page n is Pages[n-1]
	Search      []model.SearchProduct
	Shops       map[string]*model.SellerProfile       // by domain
	ShopRatings map[string]*model.SellerRatingSummary // by shop id
	Errors      map[string]error                      // by method name

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times method was invoked.
func (m *MockFetcher) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockFetcher) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[method]++
	return m.Errors[method]
}

func (m *MockFetcher) FetchProductInfo(_ context.Context, _ string) (*model.ProductInfo, error) {
	if err := m.record("FetchProductInfo"); err != nil {
		return nil, err
	}
	if m.Product == nil {
		return nil, ErrNotFound
	}
	return m.Product, nil
}

func (m *MockFetcher) FetchReviews(_ context.Context, _ string, page, _ int) (*model.ReviewPage, error) {
	if err := m.record("FetchReviews"); err != nil {
		return nil, err
	}
	if page < 1 || page > len(m.Pages) {
		return &model.ReviewPage{}, nil
	}
	return &model.ReviewPage{Reviews: m.Pages[page-1], HasNext: page < len(m.Pages)}, nil
}

func (m *MockFetcher) FetchRatingTopics(_ context.Context, _ string) (*model.RatingTopics, error) {
	if err := m.record("FetchRatingTopics"); err != nil {
		return nil, err
	}
	if m.Topics == nil {
		return nil, ErrNotFound
	}
	return m.Topics, nil
}

func (m *MockFetcher) SearchProducts(_ context.Context, _ string, rows int) ([]model.SearchProduct, error) {
	if err := m.record("SearchProducts"); err != nil {
		return nil, err
	}
	if rows < len(m.Search) {
		return m.Search[:rows], nil
	}
	return m.Search, nil
}

func (m *MockFetcher) FetchShopDetail(_ context.Context, domain string) (*model.SellerProfile, error) {
	if err := m.record("FetchShopDetail"); err != nil {
		return nil, err
	}
	if p, ok := m.Shops[domain]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *MockFetcher) FetchShopRating(_ context.Context, shopID string) (*model.SellerRatingSummary, error) {
	if err := m.record("FetchShopRating"); err != nil {
		return nil, err
	}
	if r, ok := m.ShopRatings[shopID]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

// Corpus is everything retrieved for one product.
type Corpus struct {
	Product *model.ProductInfo
	Topics  *model.RatingTopics // nil when unavailable
	Reviews []model.Review
	Pages   int
}

// Collector orchestrates product retrieval and review pagination.
type Collector struct {
	Fetcher  Fetcher
	PageSize int
	logger   *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, pageSize int, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Collector{Fetcher: fetcher, PageSize: pageSize, logger: logger}
}

// Collect fetches the product card, its rating summary and up to maxPages review pages.
// Pagination stops early when the marketplace reports no further page or returns an
// empty one. A failed page after the first keeps what was already fetched.
func (c *Collector) Collect(ctx context.Context, productURL string, maxPages int) (*Corpus, error) {
	product, err := c.Fetcher.FetchProductInfo(ctx, productURL)
	if err != nil {
		return nil, fmt.Errorf("fetch product info: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("fetch product info: %w", ErrNotFound)
	}

	corpus := &Corpus{Product: product}

	topics, err := c.Fetcher.FetchRatingTopics(ctx, productURL)
	switch {
	case err == nil:
		corpus.Topics = topics
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		c.logger.Warn("rating topics unavailable", zap.String("product_url", productURL), zap.Error(err))
	}

	for page := 1; page <= maxPages; page++ {
		rp, err := c.Fetcher.FetchReviews(ctx, productURL, page, c.PageSize)
		if err != nil {
			if page == 1 || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("fetch reviews page %d: %w", page, err)
			}
			c.logger.Warn("stopping pagination after failed page",
				zap.String("product_url", productURL),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}
		if rp == nil || len(rp.Reviews) == 0 {
			break
		}
		corpus.Reviews = append(corpus.Reviews, rp.Reviews...)
		corpus.Pages = page
		if !rp.HasNext {
			break
		}
	}

	c.logger.Info("collected reviews",
		zap.String("product_url", productURL),
		zap.Int("reviews", len(corpus.Reviews)),
		zap.Int("pages", corpus.Pages),
	)
	return corpus, nil
}
