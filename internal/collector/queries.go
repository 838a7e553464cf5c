package collector

// GraphQL operations used against the marketplace. Field selections are trimmed to
// what the wire types decode.

const (
	opProductInfo  = "productrevGetMiniProductInfo"
	opReviewList   = "productReviewList"
	opRatingTopics = "productrevGetProductRatingAndTopics"
	opSearch       = "SearchProductV5Query"
	opShopInfo     = "ShopInfoCoreQuery"
	opShopRating   = "ShopPageGetRating"
)

const queryProductInfo = `query productrevGetMiniProductInfo($productURL: String!, $userLocation: productrevUserLocation) {
  productrevGetMiniProductInfo(productID: "", productURL: $productURL, userLocation: $userLocation) {
    product { id name price status stock priceFmt }
  }
}`

const queryReviewList = `query productReviewList($productURL: String!, $page: Int!, $limit: Int!, $sortBy: String, $filterBy: String, $opt: String) {
  productrevGetProductReviewList(productID: "", productURL: $productURL, page: $page, limit: $limit, sortBy: $sortBy, filterBy: $filterBy, opt: $opt) {
    productID
    list {
      id: feedbackID
      variantName
      message
      productRating
      reviewCreateTimestamp
      isAnonymous
      user { userID fullName label }
    }
    hasNext
  }
}`

const queryRatingTopics = `query productrevGetProductRatingAndTopics($productURL: String!, $filterBy: String, $pageSource: String) {
  productrevGetProductRatingAndTopics(productURL: $productURL, productID: "", filterBy: $filterBy, pageSource: $pageSource) {
    productID
    rating {
      positivePercentageFmt
      ratingScore
      totalRating
      totalRatingWithImage
      detail { rate totalReviews percentageFloat }
    }
    topics { ratingFmt formatted reviewCountFmt show }
    keywords { text count }
  }
}`

const querySearch = `query SearchProductV5Query($searchProductV5Param: String!) {
  searchProductV5(params: $searchProductV5Param) {
    data {
      products {
        id: id_str_auto_
        name
        url
        price { text }
        rating
        shop { id: id_str_auto_ name url tier }
      }
    }
  }
}`

const queryShopInfo = `query ShopInfoCoreQuery($shopIDs: [Int!]!, $fields: [String!]!, $domain: String) {
  shopInfoByID(input: {shopIDs: $shopIDs, fields: $fields, domain: $domain, source: "gql-shoppage-lite"}) {
    result {
      favoriteData { totalFavorite }
      goldOS { isGold isOfficial badge }
      shopCore { shopID name domain shopScore }
      createInfo { epochShopCreated openSince }
    }
    error { message }
  }
}`

const queryShopRating = `query ShopPageGetRating($shopId: String!) {
  productrevGetShopRating(shopID: $shopId) {
    ratingScore
    totalRating
  }
}`

var shopInfoFields = []string{"core", "create_info", "favorite", "other-goldos", "status"}
