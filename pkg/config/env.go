package config

const EnvPrefix = "LEADQUOTE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "LEADQUOTE_APP_ENV"
	EnvPort     = "LEADQUOTE_APP_PORT"
	EnvLogLevel = "LEADQUOTE_LOG_LEVEL"

	EnvDBDSN     = "LEADQUOTE_DB_DSN"
	EnvDBHost    = "LEADQUOTE_DB_HOST"
	EnvDBUser    = "LEADQUOTE_DB_USER"
	EnvDBName    = "LEADQUOTE_DB_NAME"
	EnvUseSQLite = "LEADQUOTE_USE_SQLITE"

	EnvRedisURL = "LEADQUOTE_REDIS_URL"

	EnvSalesAPIBaseURL   = "LEADQUOTE_SALES_API_BASE_URL"
	EnvPricingAPIBaseURL = "LEADQUOTE_PRICING_API_BASE_URL"
	EnvPricingOrgID      = "LEADQUOTE_PRICING_ORG_ID"
	EnvPricingBrandID    = "LEADQUOTE_PRICING_BRAND_ID"
	EnvPricingInterval   = "LEADQUOTE_PRICING_BATCH_INTERVAL"

	EnvStockWarehouses = "LEADQUOTE_STOCK_WAREHOUSES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
