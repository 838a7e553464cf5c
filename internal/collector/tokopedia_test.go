package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *TokopediaFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTokopediaFetcher(FetcherOptions{BaseURL: srv.URL, RequestsPerSecond: 1000, Burst: 10}, nil)
}

func decodePayload(t *testing.T, r *http.Request) gqlRequest {
	t.Helper()
	var reqs []gqlRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&reqs))
	require.Len(t, reqs, 1)
	return reqs[0]
}

func TestTokopediaFetcher_FetchReviews(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/graphql/productReviewList", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "https://www.tokopedia.com/toko/produk", r.Header.Get("referer"))

		req := decodePayload(t, r)
		assert.Equal(t, "productReviewList", req.OperationName)
		assert.EqualValues(t, 2, req.Variables["page"])
		assert.EqualValues(t, 20, req.Variables["limit"])

		_, _ = w.Write([]byte(`[{"data":{"productrevGetProductReviewList":{
			"productID":"123",
			"hasNext":true,
			"list":[
				{"id":"f1","variantName":"Hitam","message":"bagus","productRating":5,
				 "reviewCreateTimestamp":"1704499200","isAnonymous":false,
				 "user":{"userID":987,"fullName":"Budi","label":"Verified Buyer"}},
				{"id":"f2","message":"","productRating":9,"reviewCreateTimestamp":null,"isAnonymous":true,"user":null}
			]}}}]`))
	})

	page, err := f.FetchReviews(context.Background(), "https://www.tokopedia.com/toko/produk", 2, 20)
	require.NoError(t, err)

	assert.Equal(t, "123", page.ProductID)
	assert.True(t, page.HasNext)
	require.Len(t, page.Reviews, 2)

	first := page.Reviews[0]
	assert.Equal(t, "f1", first.ID)
	assert.Equal(t, "987", first.ReviewerID)
	assert.Equal(t, "Verified Buyer", first.ReviewerLabel)
	assert.Equal(t, 5, first.Rating)
	ts, ok := first.CreatedAt.Unix()
	assert.True(t, ok)
	assert.Equal(t, int64(1704499200), ts)

	second := page.Reviews[1]
	assert.Equal(t, 0, second.Rating, "out of range ratings are dropped")
	assert.True(t, second.IsAnonymous)
	assert.Empty(t, second.ReviewerID)
	_, ok = second.CreatedAt.Unix()
	assert.False(t, ok)
}

func TestTokopediaFetcher_ShopDetailLooseTypes(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql/ShopInfoCoreQuery", r.URL.Path)
		assert.Equal(t, "tokopedia-lite", r.Header.Get("x-device"))
		req := decodePayload(t, r)
		assert.Equal(t, "tokoku", req.Variables["domain"])

		_, _ = w.Write([]byte(`[{"data":{"shopInfoByID":{"result":[{
			"favoriteData":{"totalFavorite":"15000"},
			"goldOS":{"isGold":1,"isOfficial":false,"badge":"gold_badge"},
			"shopCore":{"shopID":"555","name":"Toko Ku","domain":"tokoku","shopScore":92},
			"createInfo":{"epochShopCreated":"1500000000","openSince":"2017"}
		}]}}}]`))
	})

	p, err := f.FetchShopDetail(context.Background(), "tokoku")
	require.NoError(t, err)

	assert.Equal(t, "555", p.ShopID)
	assert.True(t, p.IsGold)
	assert.False(t, p.IsOfficial)
	assert.Equal(t, "gold_badge", p.Badge)
	assert.Equal(t, 92, p.ShopScore)
	assert.Equal(t, int64(1500000000), p.ShopCreatedEpoch)
	assert.Equal(t, int64(15000), p.TotalFavorites)
}

func TestTokopediaFetcher_ShopDetailEmptyResult(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"data":{"shopInfoByID":{"result":[]}}}]`))
	})

	_, err := f.FetchShopDetail(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokopediaFetcher_ShopRatingMalformedScore(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"data":{"productrevGetShopRating":{"ratingScore":"n/a","totalRating":1200}}}]`))
	})

	r, err := f.FetchShopRating(context.Background(), "555")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.RatingScore.Float())
	assert.Equal(t, int64(1200), r.TotalReviews)
}

func TestTokopediaFetcher_Search(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodePayload(t, r)
		param, _ := req.Variables["searchProductV5Param"].(string)
		assert.Contains(t, param, "q=sepatu+lari")
		assert.Contains(t, param, "rows=20")

		_, _ = w.Write([]byte(`[{"data":{"searchProductV5":{"data":{"products":[
			{"id":"1","name":"Sepatu A","url":"https://www.tokopedia.com/a/sepatu","price":{"text":"Rp100.000"},"rating":"4.8",
			 "shop":{"id":"11","name":"Toko A","url":"https://www.tokopedia.com/a","tier":2}},
			{"id":"2","name":"Sepatu B","url":"u","price":{"text":"Rp90.000"},"rating":4.1,"shop":null}
		]}}}}]`))
	})

	products, err := f.SearchProducts(context.Background(), "sepatu lari", 20)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 4.8, products[0].Rating)
	assert.Equal(t, "Toko A", products[0].ShopName)
	assert.Equal(t, 2, products[0].ShopTier)
	assert.Equal(t, "Rp100.000", products[0].Price)
	assert.Empty(t, products[1].ShopURL)
}

func TestTokopediaFetcher_StatusError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	})

	_, err := f.FetchProductInfo(context.Background(), "https://www.tokopedia.com/a/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "429")
	assert.Less(t, len(err.Error()), 700, "error body is truncated")
}

func TestTokopediaFetcher_NullData(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"data":{"productrevGetMiniProductInfo":{"product":null}}}]`))
	})

	_, err := f.FetchProductInfo(context.Background(), "https://www.tokopedia.com/a/b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokopediaFetcher_GraphQLError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"data":null,"errors":[{"message":"rate limited"}]}]`))
	})

	_, err := f.FetchRatingTopics(context.Background(), "https://www.tokopedia.com/a/b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestTokopediaFetcher_RatingTopics(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "default", r.Header.Get("x-theme"))
		_, _ = w.Write([]byte(`[{"data":{"productrevGetProductRatingAndTopics":{
			"productID":"123",
			"rating":{"ratingScore":"4.9","totalRating":250,"positivePercentageFmt":"99%",
				"detail":[{"rate":5,"totalReviews":245,"percentageFloat":98},{"rate":1,"totalReviews":0,"percentageFloat":0}]},
			"topics":[{"formatted":"Kualitas","reviewCountFmt":"120","ratingFmt":"4.9","show":true}],
			"keywords":[{"text":"original","count":40}]
		}}}]`))
	})

	rt, err := f.FetchRatingTopics(context.Background(), "https://www.tokopedia.com/a/b")
	require.NoError(t, err)
	assert.Equal(t, 4.9, rt.Rating.RatingScore.Float())
	five, ok := rt.StarBucket(5)
	require.True(t, ok)
	assert.Equal(t, 98.0, five.Percentage)
	require.Len(t, rt.Keywords, 1)
}

func TestTokopediaFetcher_RatingTopicsLooseNumbers(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"data":{"productrevGetProductRatingAndTopics":{
			"productID":123,
			"rating":{"ratingScore":4.7,"totalRating":"1200","totalRatingWithImage":null,
				"detail":[{"rate":"5","totalReviews":"1150","percentageFloat":"95.8"},{"rate":1,"totalReviews":"n/a","percentageFloat":""}]},
			"topics":[{"formatted":"Kualitas","show":1}],
			"keywords":[{"text":"ori","count":"7"}]
		}}}]`))
	})

	rt, err := f.FetchRatingTopics(context.Background(), "https://www.tokopedia.com/a/b")
	require.NoError(t, err)
	assert.Equal(t, "123", rt.ProductID)
	assert.Equal(t, int64(1200), rt.Rating.TotalRating)

	five, ok := rt.StarBucket(5)
	require.True(t, ok)
	assert.Equal(t, int64(1150), five.TotalReviews)
	assert.Equal(t, 95.8, five.Percentage)

	one, ok := rt.StarBucket(1)
	require.True(t, ok)
	assert.Equal(t, int64(0), one.TotalReviews)
	assert.Equal(t, 0.0, one.Percentage)

	require.Len(t, rt.Topics, 1)
	assert.True(t, rt.Topics[0].Show)
	assert.Equal(t, int64(7), rt.Keywords[0].Count)
}

func TestTokopediaFetcher_CancelledContext(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchShopRating(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeaderGenerator_ClientHintsFollowUserAgent(t *testing.T) {
	tests := []struct {
		ua, mobile, platform string
	}{
		{userAgents[0], "?1", `"Android"`},
		{userAgents[1], "?0", `"Windows"`},
		{userAgents[2], "?1", `"iOS"`},
	}
	for _, tt := range tests {
		g := NewHeaderGenerator(siteOrigin)
		ua := tt.ua
		g.UserAgent = func() string { return ua }

		h := g.Generate("")
		assert.Equal(t, tt.mobile, h.Get("sec-ch-ua-mobile"))
		assert.Equal(t, tt.platform, h.Get("sec-ch-ua-platform"))
		assert.Empty(t, h.Get("referer"))
		assert.Len(t, h.Get("bd-device-id"), 19)
		assert.True(t, strings.HasPrefix(h.Get("bd-device-id"), "7"))
	}
}
