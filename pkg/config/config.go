package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ScraperFirecrawl = "firecrawl"
	ScraperChromedp  = "chromedp"
)

// Config holds the clone service configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	Scraper         string        `mapstructure:"SCRAPER"`
	FirecrawlHost   string        `mapstructure:"FIRECRAWL_HOST"`
	FirecrawlAPIKey string        `mapstructure:"FIRECRAWL_API_KEY"`
	ScrapeTimeout   time.Duration `mapstructure:"SCRAPE_TIMEOUT"`
	PageLoadTimeout time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	MaxConcurrency  int           `mapstructure:"MAX_CONCURRENCY"`

	GeminiAPIKey    string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string        `mapstructure:"GEMINI_MODEL"`
	GenerateTimeout time.Duration `mapstructure:"GENERATE_TIMEOUT"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`
}

var defaults = map[string]any{
	"SERVER_PORT":       "8000",
	"LOG_LEVEL":         "info",
	"SCRAPER":           ScraperFirecrawl,
	"FIRECRAWL_HOST":    "http://localhost:3002",
	"FIRECRAWL_API_KEY": "",
	"SCRAPE_TIMEOUT":    120 * time.Second,
	"PAGE_LOAD_TIMEOUT": 60 * time.Second,
	"MAX_CONCURRENCY":   4,
	"GEMINI_API_KEY":    "",
	"GEMINI_MODEL":      "gemini-2.0-flash",
	"GENERATE_TIMEOUT":  120 * time.Second,
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"CACHE_TTL":         24 * time.Hour,
	"POSTGRES_URL":      "",
}

// Load reads configuration from a .env file (if present) and the environment.
// Environment variables always win over the file.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine, production is configured through the environment.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	c.Scraper = strings.ToLower(strings.TrimSpace(c.Scraper))
	switch c.Scraper {
	case ScraperFirecrawl, ScraperChromedp:
	default:
		return fmt.Errorf("unknown SCRAPER %q (want %q or %q)", c.Scraper, ScraperFirecrawl, ScraperChromedp)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENCY must be positive, got %d", c.MaxConcurrency)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
