package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger             `mapstructure:"logger"`
	DB           Database           `mapstructure:"database"`
	API          API                `mapstructure:"api"`
	Cache        Cache              `mapstructure:"cache"`
	Quote        Quote              `mapstructure:"quote"`
	AlphaVantage AlphaVantageConfig `mapstructure:"alpha_vantage"`
	YahooFinance YahooFinanceConfig `mapstructure:"yahoo_finance"`
	NewsAPI      NewsAPIConfig      `mapstructure:"news_api"`
	Twitter      TwitterConfig      `mapstructure:"twitter"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Quote holds the cache-freshness and refresh policy for stock quotes.
type Quote struct {
	CacheDuration time.Duration `mapstructure:"cache_duration"`
	MaxRetries    int           `mapstructure:"max_retries"`
	HistoryDays   int           `mapstructure:"history_days"`
}

type AlphaVantageConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Enabled reports whether a real Alpha Vantage key is configured. The public
// "demo" key only serves canned payloads, so it counts as not configured.
func (c AlphaVantageConfig) Enabled() bool {
	return c.APIKey != "" && c.APIKey != "demo"
}

type YahooFinanceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type NewsAPIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TwitterConfig struct {
	BearerToken string        `mapstructure:"bearer_token"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

// TelegramConfig is only used by the logger alert hook.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

func Load() (*Config, error) {
	// .env is optional; viper picks the variables up afterwards.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, env vars are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8000)

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)

	viper.SetDefault("quote.cache_duration", time.Hour)
	viper.SetDefault("quote.max_retries", 3)
	viper.SetDefault("quote.history_days", 30)

	viper.SetDefault("alpha_vantage.base_url", "https://www.alphavantage.co")
	viper.SetDefault("alpha_vantage.timeout", 10*time.Second)
	viper.SetDefault("alpha_vantage.max_request_per_minute", 5)

	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 10*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 60)

	viper.SetDefault("news_api.base_url", "https://newsapi.org/v2")
	viper.SetDefault("news_api.timeout", 10*time.Second)

	viper.SetDefault("twitter.base_url", "https://api.twitter.com/2")
	viper.SetDefault("twitter.timeout", 10*time.Second)

	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 30*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 15)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)
}
