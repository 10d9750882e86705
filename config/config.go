package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	DB        Database  `mapstructure:"database"`
	API       API       `mapstructure:"api"`
	Gemini    Gemini    `mapstructure:"gemini"`
	Cache     Cache     `mapstructure:"cache"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Analytics Analytics `mapstructure:"analytics"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port               int      `mapstructure:"port"`
	CORSAllowOrigins   []string `mapstructure:"cors_allow_origins"`
	MaxRequestPerSec   int      `mapstructure:"max_request_per_sec"`
	MaxRequestBurst    int      `mapstructure:"max_request_burst"`
	RequestBodyLimitKB int      `mapstructure:"request_body_limit_kb"`
}

type Gemini struct {
	APIKey                   string        `mapstructure:"api_key"`
	BaseURL                  string        `mapstructure:"base_url"`
	BaseModel                string        `mapstructure:"base_model"`
	Timeout                  time.Duration `mapstructure:"timeout"`
	PriceTimeout             time.Duration `mapstructure:"price_timeout"`
	MaxRequestPerMinute      int           `mapstructure:"max_request_per_minute"`
	MaxPriceRequestPerMinute int           `mapstructure:"max_price_request_per_minute"`
	MaxTokenPerMinute        int           `mapstructure:"max_token_per_minute"`
	CountTokens              bool          `mapstructure:"count_tokens"`
	PriceLookup              bool          `mapstructure:"price_lookup"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	AnalyticsTTL      time.Duration `mapstructure:"analytics_ttl"`
}

type Scheduler struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxConcurrency   int           `mapstructure:"max_concurrency"`
	TimeoutDuration  time.Duration `mapstructure:"timeout_duration"`
	PriceRefreshCron string        `mapstructure:"price_refresh_cron"`
	PriceRefreshSize int           `mapstructure:"price_refresh_size"`
	RetentionCron    string        `mapstructure:"retention_cron"`
	RetentionDays    int           `mapstructure:"retention_days"`
}

type Analytics struct {
	TrendWindowDays     int     `mapstructure:"trend_window_days"`
	TrendThreshold      float64 `mapstructure:"trend_threshold"`
	FeatureGapThreshold int     `mapstructure:"feature_gap_threshold"`
	GeoPointsLimit      int     `mapstructure:"geo_points_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.time_zone", "UTC")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.name", "geodrive_insight")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "geodrive.db")
	v.SetDefault("database.log_level", "Warn")

	v.SetDefault("api.port", 8000)
	v.SetDefault("api.cors_allow_origins", []string{"*"})
	v.SetDefault("api.max_request_per_sec", 10)
	v.SetDefault("api.max_request_burst", 30)
	v.SetDefault("api.request_body_limit_kb", 64)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("gemini.base_model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", 8*time.Second)
	v.SetDefault("gemini.price_timeout", 5*time.Second)
	v.SetDefault("gemini.max_request_per_minute", 60)
	v.SetDefault("gemini.max_price_request_per_minute", 20)
	v.SetDefault("gemini.max_token_per_minute", 250000)
	v.SetDefault("gemini.count_tokens", false)
	v.SetDefault("gemini.price_lookup", true)

	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.analytics_ttl", 30*time.Second)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.max_concurrency", 4)
	v.SetDefault("scheduler.timeout_duration", 5*time.Minute)
	v.SetDefault("scheduler.price_refresh_cron", "0 */6 * * *")
	v.SetDefault("scheduler.price_refresh_size", 50)
	v.SetDefault("scheduler.retention_cron", "30 2 * * *")
	v.SetDefault("scheduler.retention_days", 365)

	v.SetDefault("analytics.trend_window_days", 30)
	v.SetDefault("analytics.trend_threshold", 0.05)
	v.SetDefault("analytics.feature_gap_threshold", 10)
	v.SetDefault("analytics.geo_points_limit", 500)
}

func Load() (*Config, error) {
	return load("")
}

// LoadFile reads the configuration from path instead of ./config.yaml.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	// .env is optional; real environment variables still win over it.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration with every default applied and nothing
// read from disk or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
