package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseFloat decodes from a JSON number or numeric string. Anything else becomes 0.
type LooseFloat float64

// UnmarshalJSON never returns an error; malformed values are coerced to 0.
func (f *LooseFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = 0
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	*f = LooseFloat(v)
	return nil
}

// Float returns the value, with NaN and infinities mapped to 0.
func (f LooseFloat) Float() float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SellerProfile holds the shop metadata used for trust scoring.
type SellerProfile struct {
	ShopID           string `json:"shop_id,omitempty"`
	Name             string `json:"name,omitempty"`
	Domain           string `json:"domain,omitempty"`
	IsOfficial       bool   `json:"is_official"`
	IsGold           bool   `json:"is_gold"`
	Badge            string `json:"badge,omitempty"`
	ShopScore        int    `json:"shop_score"`         // 0-100
	ShopCreatedEpoch int64  `json:"shop_created_epoch"` // 0 when unknown
	OpenSince        string `json:"open_since,omitempty"`
	TotalFavorites   int64  `json:"total_favorites"`
}

// SellerRatingSummary is the shop-wide rating aggregate.
type SellerRatingSummary struct {
	RatingScore  LooseFloat `json:"ratingScore"`
	TotalReviews int64      `json:"totalRating"`
}
