package detector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ReviewSentinel/internal/collector"
	"ReviewSentinel/internal/extractor"
	"ReviewSentinel/internal/model"
)

const searchQueryWords = 5

// SearchQuery shortens a product name to the words used for the alternatives search.
func SearchQuery(productName string) string {
	words := strings.Fields(productName)
	if len(words) > searchQueryWords {
		words = words[:searchQueryWords]
	}
	return strings.Join(words, " ")
}

// FindTrustedSellers searches for the product by name, scores the shop behind each
// candidate and returns the most trusted ones, highest trust first. Candidates sold
// by excludeShop or without a shop are skipped. A candidate whose shop cannot be
// loaded is dropped; only the search itself failing is an error.
func (d *Detector) FindTrustedSellers(ctx context.Context, productName, excludeShop string) ([]model.TrustedSeller, error) {
	query := SearchQuery(productName)
	if query == "" {
		return nil, nil
	}
	fetcher := d.Collector.Fetcher

	results, err := fetcher.SearchProducts(ctx, query, d.opts.SearchRows)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var candidates []model.SearchProduct
	for _, p := range results {
		if len(candidates) == d.opts.MaxCandidates {
			break
		}
		if p.ShopURL == "" && p.ShopID == "" {
			continue
		}
		candidates = append(candidates, p)
	}

	now := d.now()
	found := make([]*model.TrustedSeller, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.SellerConcurrency)

	for i, p := range candidates {
		g.Go(func() error {
			domain := collector.ShopDomainFromShopURL(p.ShopURL)
			if domain == "" || domain == excludeShop {
				return nil
			}
			profile, err := fetcher.FetchShopDetail(gctx, domain)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				d.logger.Warn("shop detail unavailable", zap.String("shop", domain), zap.Error(err))
				return nil
			}

			var rating *model.SellerRatingSummary
			shopID := profile.ShopID
			if shopID == "" {
				shopID = p.ShopID
			}
			if shopID != "" {
				rating, err = fetcher.FetchShopRating(gctx, shopID)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					d.logger.Warn("shop rating unavailable", zap.String("shop", domain), zap.Error(err))
					rating = nil
				}
			}

			name := profile.Name
			if name == "" {
				name = p.ShopName
			}
			found[i] = &model.TrustedSeller{
				ShopName:      name,
				ShopDomain:    domain,
				ShopTier:      p.ShopTier,
				ProductName:   p.Name,
				ProductURL:    p.URL,
				ProductPrice:  p.Price,
				ProductRating: p.Rating,
				Trust:         extractor.AnalyzeTrust(profile, rating, now),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sellers := make([]model.TrustedSeller, 0, len(found))
	for _, s := range found {
		if s != nil {
			sellers = append(sellers, *s)
		}
	}
	sort.SliceStable(sellers, func(a, b int) bool {
		return sellers[a].Trust.TrustScore > sellers[b].Trust.TrustScore
	})
	if len(sellers) > d.opts.TopSellers {
		sellers = sellers[:d.opts.TopSellers]
	}

	d.logger.Info("trusted seller search",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Int("candidates", len(candidates)),
		zap.Int("sellers", len(sellers)),
	)
	return sellers, nil
}
