package common

// Cache keys. Every analytics key shares KEY_ANALYTICS_PREFIX so writes can
// invalidate them together.
const (
	KEY_ANALYTICS_PREFIX       = "analytics:"
	KEY_SENTIMENT_COUNTS       = "analytics:sentiment"
	KEY_BRAND_SUMMARY          = "analytics:brand_summary"
	KEY_BRAND_SENTIMENT_RATIO  = "analytics:brand_ratio:%s"
	KEY_MARKET_SENTIMENT_SHARE = "analytics:market_share"
	KEY_REGION_DISTRIBUTION    = "analytics:region_distribution"
	KEY_GEO_POINTS             = "analytics:geo_points:%d"
	KEY_COMPANY_SUMMARY        = "analytics:company_summary:%s"
	KEY_PRODUCT_SUMMARY        = "analytics:product_summary:%d"
	KEY_PRODUCT_COMPARISON     = "analytics:compare:%s:%s"
	KEY_BRAND_TREND            = "analytics:trend:%s:%s:%d"
	KEY_PRODUCT_PRICE_HISTORY  = "analytics:price_history:%d"
	KEY_PRODUCT_REVIEWS        = "analytics:reviews:%d:%s:%d"
)

const (
	ORACLE_CLASSIFY = "classify"
	ORACLE_PRICE    = "price"
)
