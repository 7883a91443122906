package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	SalesAPI     SalesAPIConfig
	PricingAPI   PricingAPIConfig
	Pricing      PricingConfig
	Stock        StockConfig
	Discounts    DiscountsConfig
	Cart         CartConfig
	Metrics      MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Stock.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEADQUOTE_APP_ENV" required:"true"`
	Port         string `envconfig:"LEADQUOTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LEADQUOTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEADQUOTE_LOG_WARN_STACK" default:"false"`
	// CORSOrigins overrides the development origin list.
	CORSOrigins []string `envconfig:"LEADQUOTE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"LEADQUOTE_DB_DSN"`
	SQLitePath string `envconfig:"LEADQUOTE_DB_SQLITE_PATH" default:"file:leadquote.db?cache=shared"`

	LegacyHost     string `envconfig:"LEADQUOTE_DB_HOST"`
	LegacyPort     int    `envconfig:"LEADQUOTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEADQUOTE_DB_USER"`
	LegacyPassword string `envconfig:"LEADQUOTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEADQUOTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEADQUOTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LEADQUOTE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LEADQUOTE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LEADQUOTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEADQUOTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; without a URL or address the batch guard stays in-process.
type RedisConfig struct {
	URL          string        `envconfig:"LEADQUOTE_REDIS_URL"`
	Address      string        `envconfig:"LEADQUOTE_REDIS_ADDR"`
	Password     string        `envconfig:"LEADQUOTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEADQUOTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEADQUOTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEADQUOTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEADQUOTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEADQUOTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEADQUOTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LEADQUOTE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LEADQUOTE_AUTO_MIGRATE" default:"false"`
}

// SalesAPIConfig points at the lead/cart and product stock services.
type SalesAPIConfig struct {
	BaseURL string        `envconfig:"LEADQUOTE_SALES_API_BASE_URL" required:"true"`
	Token   string        `envconfig:"LEADQUOTE_SALES_API_TOKEN"`
	Timeout time.Duration `envconfig:"LEADQUOTE_SALES_API_TIMEOUT" default:"15s"`
}

type PricingAPIConfig struct {
	BaseURL string `envconfig:"LEADQUOTE_PRICING_API_BASE_URL" required:"true"`
	APIKey  string `envconfig:"LEADQUOTE_PRICING_API_KEY"`
	// Timeout of zero leaves the call unbounded; cancellation still flows from the request context.
	Timeout time.Duration `envconfig:"LEADQUOTE_PRICING_API_TIMEOUT" default:"30s"`
	OrgID   string        `envconfig:"LEADQUOTE_PRICING_ORG_ID" required:"true"`
	BrandID string        `envconfig:"LEADQUOTE_PRICING_BRAND_ID" required:"true"`
}

type PricingConfig struct {
	BatchInterval time.Duration `envconfig:"LEADQUOTE_PRICING_BATCH_INTERVAL" default:"300ms"`
	LockTTL       time.Duration `envconfig:"LEADQUOTE_PRICING_LOCK_TTL" default:"10m"`
}

// StockConfig maps a lead's emitting unit to the warehouse used for stock checks.
type StockConfig struct {
	Warehouses map[string]string `envconfig:"LEADQUOTE_STOCK_WAREHOUSES" default:"1:109,2:209,3:309,4:409,5:509"`
}

func (s StockConfig) validate() error {
	for unit, warehouse := range s.Warehouses {
		if strings.TrimSpace(unit) == "" || strings.TrimSpace(warehouse) == "" {
			return fmt.Errorf("%s entries must be unit:warehouse pairs", EnvStockWarehouses)
		}
	}
	return nil
}

type DiscountsConfig struct {
	SourceTTL time.Duration `envconfig:"LEADQUOTE_DISCOUNTS_SOURCE_TTL" default:"5m"`
}

// CartConfig bounds how long an untouched lead cart stays in memory.
type CartConfig struct {
	IdleTTL       time.Duration `envconfig:"LEADQUOTE_CART_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"LEADQUOTE_CART_SWEEP_INTERVAL" default:"5m"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"LEADQUOTE_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"LEADQUOTE_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
