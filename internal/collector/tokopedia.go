package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ReviewSentinel/internal/model"
)

const (
	defaultGraphQLURL = "https://gql.tokopedia.com"
	siteOrigin        = "https://www.tokopedia.com"
	maxErrorBody      = 512
)

// FetcherOptions configures a TokopediaFetcher. Zero values fall back to defaults.
type FetcherOptions struct {
	BaseURL           string
	ProxyURL          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	BreakerTimeout    time.Duration
	// OnBreakerChange, when set, observes circuit breaker transitions.
	OnBreakerChange func(name string, from, to gobreaker.State)
}

// TokopediaFetcher implements Fetcher against the marketplace GraphQL gateway.
// Requests are paced by a token bucket and guarded by a circuit breaker.
type TokopediaFetcher struct {
	BaseURL string
	Client  *http.Client
	Headers *HeaderGenerator

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// NewTokopediaFetcher creates a fetcher with optional proxy support.
func NewTokopediaFetcher(opts FetcherOptions, logger *zap.Logger) *TokopediaFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultGraphQLURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			logger.Warn("ignoring invalid proxy url", zap.String("proxy", opts.ProxyURL), zap.Error(err))
		}
	}

	settings := gobreaker.Settings{
		Name:        "marketplace",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation is not a marketplace failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if opts.OnBreakerChange != nil {
				opts.OnBreakerChange(name, from, to)
			}
		},
	}

	return &TokopediaFetcher{
		BaseURL: strings.TrimRight(opts.BaseURL, "/"),
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		Headers: NewHeaderGenerator(siteOrigin),
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

func (f *TokopediaFetcher) Name() string { return "tokopedia" }

// post sends one GraphQL operation and returns the raw response body.
func (f *TokopediaFetcher) post(ctx context.Context, op string, vars map[string]any, query string, header http.Header) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal([]gqlRequest{{OperationName: op, Variables: vars, Query: query}})
	if err != nil {
		return nil, fmt.Errorf("%s encode: %w", op, err)
	}

	return f.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/graphql/"+op, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header = header

		start := time.Now()
		resp, err := f.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s fetch: %w", op, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s read body: %w", op, err)
		}
		f.logger.Debug("graphql call",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.Duration("took", time.Since(start)),
		)
		if resp.StatusCode != http.StatusOK {
			if len(body) > maxErrorBody {
				body = body[:maxErrorBody]
			}
			return nil, fmt.Errorf("%s: %w %d: %s", op, ErrStatus, resp.StatusCode, string(body))
		}
		return body, nil
	})
}

// call posts op and decodes the first result's data into T.
func call[T any](ctx context.Context, f *TokopediaFetcher, op, query string, vars map[string]any, header http.Header) (*T, error) {
	body, err := f.post(ctx, op, vars, query, header)
	if err != nil {
		return nil, err
	}
	var results []gqlResult[T]
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%s: empty response", op)
	}
	res := results[0]
	if res.Data == nil {
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("%s api error: %s", op, res.Errors[0].Message)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return res.Data, nil
}

func (f *TokopediaFetcher) FetchProductInfo(ctx context.Context, productURL string) (*model.ProductInfo, error) {
	vars := map[string]any{
		"productURL": productURL,
		"userLocation": map[string]string{
			"addressID":  "",
			"districtID": "2274",
			"postalCode": "",
			"latlon":     "",
		},
	}
	data, err := call[miniProductInfoData](ctx, f, opProductInfo, queryProductInfo, vars, f.Headers.Generate(productURL))
	if err != nil {
		return nil, err
	}
	if data.Info == nil || data.Info.Product == nil {
		return nil, fmt.Errorf("%s: %w", opProductInfo, ErrNotFound)
	}
	p := data.Info.Product
	return &model.ProductInfo{
		ID:       string(p.ID),
		Name:     p.Name,
		PriceFmt: p.PriceFmt,
		Stock:    int64(p.Stock),
		Status:   p.Status,
	}, nil
}

func (f *TokopediaFetcher) FetchReviews(ctx context.Context, productURL string, page, limit int) (*model.ReviewPage, error) {
	vars := map[string]any{
		"productURL": productURL,
		"page":       page,
		"limit":      limit,
		"sortBy":     "informative_score desc",
		"filterBy":   "",
		"opt":        "",
	}
	data, err := call[reviewListData](ctx, f, opReviewList, queryReviewList, vars, f.Headers.Generate(productURL))
	if err != nil {
		return nil, err
	}
	out := &model.ReviewPage{}
	if data.List == nil {
		return out, nil
	}
	out.ProductID = string(data.List.ProductID)
	out.HasNext = data.List.HasNext
	out.Reviews = make([]model.Review, 0, len(data.List.Reviews))
	for _, w := range data.List.Reviews {
		out.Reviews = append(out.Reviews, w.toModel())
	}
	return out, nil
}

func (f *TokopediaFetcher) FetchRatingTopics(ctx context.Context, productURL string) (*model.RatingTopics, error) {
	vars := map[string]any{
		"productURL": productURL,
		"filterBy":   "",
		"pageSource": "filter",
	}
	h := f.Headers.Generate(productURL)
	h.Set("x-theme", "default")
	data, err := call[ratingTopicsData](ctx, f, opRatingTopics, queryRatingTopics, vars, h)
	if err != nil {
		return nil, err
	}
	if data.Topics == nil {
		return nil, fmt.Errorf("%s: %w", opRatingTopics, ErrNotFound)
	}
	return data.Topics.toModel(), nil
}

func (f *TokopediaFetcher) SearchProducts(ctx context.Context, query string, rows int) ([]model.SearchProduct, error) {
	params := url.Values{}
	params.Set("device", "mobile")
	params.Set("enter_method", "normal_search")
	params.Set("navsource", "home")
	params.Set("ob", "23")
	params.Set("page", "1")
	params.Set("q", query)
	params.Set("rows", strconv.Itoa(rows))
	params.Set("source", "search")
	params.Set("use_page", "true")
	params.Set("user_cityId", "176")
	params.Set("user_districtId", "2274")

	h := f.Headers.Generate("")
	h.Set("x-device", "mobile")
	h.Set("x-dark-mode", "false")
	h.Set("bd-web-id", randomDeviceID())

	data, err := call[searchData](ctx, f, opSearch, querySearch, map[string]any{"searchProductV5Param": params.Encode()}, h)
	if err != nil {
		return nil, err
	}
	if data.Search == nil {
		return nil, nil
	}
	out := make([]model.SearchProduct, 0, len(data.Search.Data.Products))
	for _, p := range data.Search.Data.Products {
		sp := model.SearchProduct{
			ID:     string(p.ID),
			Name:   p.Name,
			URL:    p.URL,
			Price:  p.Price.Text,
			Rating: p.Rating.Float(),
		}
		if p.Shop != nil {
			sp.ShopID = string(p.Shop.ID)
			sp.ShopName = p.Shop.Name
			sp.ShopURL = p.Shop.URL
			sp.ShopTier = int(p.Shop.Tier)
		}
		out = append(out, sp)
	}
	return out, nil
}

func (f *TokopediaFetcher) FetchShopDetail(ctx context.Context, domain string) (*model.SellerProfile, error) {
	vars := map[string]any{
		"shopIDs": []int{0},
		"domain":  domain,
		"fields":  shopInfoFields,
	}
	h := f.Headers.Generate("")
	h.Set("x-device", "tokopedia-lite")
	data, err := call[shopInfoData](ctx, f, opShopInfo, queryShopInfo, vars, h)
	if err != nil {
		return nil, err
	}
	if data.ShopInfo == nil || len(data.ShopInfo.Result) == 0 {
		return nil, fmt.Errorf("%s %q: %w", opShopInfo, domain, ErrNotFound)
	}
	return data.ShopInfo.Result[0].toModel(), nil
}

func (f *TokopediaFetcher) FetchShopRating(ctx context.Context, shopID string) (*model.SellerRatingSummary, error) {
	data, err := call[shopRatingData](ctx, f, opShopRating, queryShopRating, map[string]any{"shopId": shopID}, f.Headers.Generate(""))
	if err != nil {
		return nil, err
	}
	if data.Rating == nil {
		return nil, fmt.Errorf("%s %q: %w", opShopRating, shopID, ErrNotFound)
	}
	return &model.SellerRatingSummary{
		RatingScore:  data.Rating.RatingScore,
		TotalReviews: int64(data.Rating.TotalRating),
	}, nil
}
