package collector

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"ReviewSentinel/internal/model"
)

// The marketplace is loose about scalar types: ids arrive as numbers or strings,
// flags as booleans or 0/1. These decoders accept every form seen and never fail.

type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*s = ""
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err == nil {
			*s = flexString(v)
		}
		return nil
	}
	*s = flexString(b)
	return nil
}

type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var f model.LooseFloat
	_ = f.UnmarshalJSON(b)
	*n = flexInt(f.Float())
	return nil
}

type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	_ = s.UnmarshalJSON(b)
	raw := strings.ToLower(strings.TrimSpace(string(s)))
	n, err := strconv.ParseFloat(raw, 64)
	*v = flexBool(raw == "true" || (err == nil && n > 0))
	return nil
}

// gqlRequest is one operation of the batched GraphQL payload.
type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResult[T any] struct {
	Data   *T         `json:"data"`
	Errors []gqlError `json:"errors"`
}

type wireProduct struct {
	ID       flexString `json:"id"`
	Name     string     `json:"name"`
	PriceFmt string     `json:"priceFmt"`
	Stock    flexInt    `json:"stock"`
	Status   string     `json:"status"`
}

type miniProductInfoData struct {
	Info *struct {
		Product *wireProduct `json:"product"`
	} `json:"productrevGetMiniProductInfo"`
}

type wireReview struct {
	ID                    flexString  `json:"id"`
	VariantName           string      `json:"variantName"`
	Message               string      `json:"message"`
	ProductRating         flexInt     `json:"productRating"`
	ReviewCreateTimestamp model.Epoch `json:"reviewCreateTimestamp"`
	IsAnonymous           flexBool    `json:"isAnonymous"`
	User                  *struct {
		UserID   flexString `json:"userID"`
		FullName string     `json:"fullName"`
		Label    string     `json:"label"`
	} `json:"user"`
}

func (w wireReview) toModel() model.Review {
	r := model.Review{
		ID:          string(w.ID),
		Message:     w.Message,
		Rating:      int(w.ProductRating),
		CreatedAt:   w.ReviewCreateTimestamp,
		IsAnonymous: bool(w.IsAnonymous),
		VariantName: w.VariantName,
	}
	if r.Rating < 0 || r.Rating > 5 {
		r.Rating = 0
	}
	if w.User != nil {
		r.ReviewerID = string(w.User.UserID)
		r.ReviewerName = w.User.FullName
		r.ReviewerLabel = w.User.Label
	}
	return r
}

type reviewListData struct {
	List *struct {
		ProductID flexString   `json:"productID"`
		Reviews   []wireReview `json:"list"`
		HasNext   bool         `json:"hasNext"`
	} `json:"productrevGetProductReviewList"`
}

type wireRatingTopics struct {
	ProductID flexString `json:"productID"`
	Rating    struct {
		RatingScore           model.LooseFloat `json:"ratingScore"`
		TotalRating           flexInt          `json:"totalRating"`
		TotalRatingWithImage  flexInt          `json:"totalRatingWithImage"`
		PositivePercentageFmt flexString       `json:"positivePercentageFmt"`
		Detail                []struct {
			Rate         flexInt          `json:"rate"`
			TotalReviews flexInt          `json:"totalReviews"`
			Percentage   model.LooseFloat `json:"percentageFloat"`
		} `json:"detail"`
	} `json:"rating"`
	Topics []struct {
		Formatted      flexString `json:"formatted"`
		ReviewCountFmt flexString `json:"reviewCountFmt"`
		RatingFmt      flexString `json:"ratingFmt"`
		Show           flexBool   `json:"show"`
	} `json:"topics"`
	Keywords []struct {
		Text  flexString `json:"text"`
		Count flexInt    `json:"count"`
	} `json:"keywords"`
}

func (w *wireRatingTopics) toModel() *model.RatingTopics {
	out := &model.RatingTopics{
		ProductID: string(w.ProductID),
		Rating: model.RatingOverview{
			RatingScore:           model.LooseFloat(w.Rating.RatingScore.Float()),
			TotalRating:           int64(w.Rating.TotalRating),
			TotalRatingWithImage:  int64(w.Rating.TotalRatingWithImage),
			PositivePercentageFmt: string(w.Rating.PositivePercentageFmt),
		},
	}
	for _, d := range w.Rating.Detail {
		out.Rating.Detail = append(out.Rating.Detail, model.RatingDetail{
			Rate:         int(d.Rate),
			TotalReviews: int64(d.TotalReviews),
			Percentage:   d.Percentage.Float(),
		})
	}
	for _, t := range w.Topics {
		out.Topics = append(out.Topics, model.Topic{
			Formatted:      string(t.Formatted),
			ReviewCountFmt: string(t.ReviewCountFmt),
			RatingFmt:      string(t.RatingFmt),
			Show:           bool(t.Show),
		})
	}
	for _, k := range w.Keywords {
		out.Keywords = append(out.Keywords, model.Keyword{Text: string(k.Text), Count: int64(k.Count)})
	}
	return out
}

type ratingTopicsData struct {
	Topics *wireRatingTopics `json:"productrevGetProductRatingAndTopics"`
}

type wireSearchProduct struct {
	ID    flexString `json:"id"`
	Name  string     `json:"name"`
	URL   string     `json:"url"`
	Price struct {
		Text string `json:"text"`
	} `json:"price"`
	Rating model.LooseFloat `json:"rating"`
	Shop   *struct {
		ID   flexString `json:"id"`
		Name string     `json:"name"`
		URL  string     `json:"url"`
		Tier flexInt    `json:"tier"`
	} `json:"shop"`
}

type searchData struct {
	Search *struct {
		Data struct {
			Products []wireSearchProduct `json:"products"`
		} `json:"data"`
	} `json:"searchProductV5"`
}

type wireShopInfo struct {
	FavoriteData struct {
		TotalFavorite flexInt `json:"totalFavorite"`
	} `json:"favoriteData"`
	GoldOS struct {
		IsGold     flexBool `json:"isGold"`
		IsOfficial flexBool `json:"isOfficial"`
		Badge      string   `json:"badge"`
	} `json:"goldOS"`
	ShopCore struct {
		ShopID    flexString `json:"shopID"`
		Name      string     `json:"name"`
		Domain    string     `json:"domain"`
		ShopScore flexInt    `json:"shopScore"`
	} `json:"shopCore"`
	CreateInfo struct {
		EpochShopCreated flexInt `json:"epochShopCreated"`
		OpenSince        string  `json:"openSince"`
	} `json:"createInfo"`
}

func (w wireShopInfo) toModel() *model.SellerProfile {
	return &model.SellerProfile{
		ShopID:           string(w.ShopCore.ShopID),
		Name:             w.ShopCore.Name,
		Domain:           w.ShopCore.Domain,
		IsOfficial:       bool(w.GoldOS.IsOfficial),
		IsGold:           bool(w.GoldOS.IsGold),
		Badge:            w.GoldOS.Badge,
		ShopScore:        int(w.ShopCore.ShopScore),
		ShopCreatedEpoch: int64(w.CreateInfo.EpochShopCreated),
		OpenSince:        w.CreateInfo.OpenSince,
		TotalFavorites:   int64(w.FavoriteData.TotalFavorite),
	}
}

type shopInfoData struct {
	ShopInfo *struct {
		Result []wireShopInfo `json:"result"`
	} `json:"shopInfoByID"`
}

type shopRatingData struct {
	Rating *struct {
		RatingScore model.LooseFloat `json:"ratingScore"`
		TotalRating flexInt          `json:"totalRating"`
	} `json:"productrevGetShopRating"`
}
