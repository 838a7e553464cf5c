package model

// ProductInfo is the mini product card returned for a product URL.
type ProductInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PriceFmt string `json:"priceFmt"`
	Stock    int64  `json:"stock"`
	Status   string `json:"status"`
}

// RatingDetail is one star bucket of the product-wide rating summary.
type RatingDetail struct {
	Rate         int     `json:"rate"`
	TotalReviews int64   `json:"totalReviews"`
	Percentage   float64 `json:"percentageFloat"`
}

// RatingOverview is the product-wide rating summary.
type RatingOverview struct {
	RatingScore           LooseFloat     `json:"ratingScore"`
	TotalRating           int64          `json:"totalRating"`
	TotalRatingWithImage  int64          `json:"totalRatingWithImage"`
	PositivePercentageFmt string         `json:"positivePercentageFmt"`
	Detail                []RatingDetail `json:"detail"`
}

// Topic is a review topic the marketplace extracted.
type Topic struct {
	Formatted      string `json:"formatted"`
	ReviewCountFmt string `json:"reviewCountFmt"`
	RatingFmt      string `json:"ratingFmt"`
	Show           bool   `json:"show"`
}

// Keyword is a frequent keyword across the product's reviews.
type Keyword struct {
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

// RatingTopics is the external rating/topic summary for a product. It covers every
// review the marketplace holds, not only the fetched pages.
type RatingTopics struct {
	ProductID string         `json:"productID"`
	Rating    RatingOverview `json:"rating"`
	Topics    []Topic        `json:"topics"`
	Keywords  []Keyword      `json:"keywords"`
}

// StarBucket returns the detail entry for the given star value.
func (r *RatingTopics) StarBucket(rate int) (RatingDetail, bool) {
	if r == nil {
		return RatingDetail{}, false
	}
	for _, d := range r.Rating.Detail {
		if d.Rate == rate {
			return d, true
		}
	}
	return RatingDetail{}, false
}

// SearchProduct is one product hit from marketplace search.
type SearchProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
	ShopID   string  `json:"shop_id"`
	ShopName string  `json:"shop_name"`
	ShopURL  string  `json:"shop_url"`
	ShopTier int     `json:"shop_tier"`
}
