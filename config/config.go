package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Postgres configuration
	DatabaseURL string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (rate-limit gate)
	MemcacheAddr string

	// Ingestion configuration
	CrawlSchedule     string
	NavigationTimeout time.Duration
	MaxPages          int
	TargetOffers      int
	FallbackSynthesis bool

	// Merchant entry points
	AmazonSearchURL string
	MercadoLivreURL string
	AffiliateTag    string
	ChromeDBAddr    string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	navTimeout, _ := strconv.Atoi(getEnv("NAVIGATION_TIMEOUT_SECONDS", "30"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "2"))
	targetOffers, _ := strconv.Atoi(getEnv("TARGET_OFFERS", "10"))
	fallback, _ := strconv.ParseBool(getEnv("FALLBACK_SYNTHESIS", "false"))

	return Config{
		DatabaseURL:          getEnv("DATABASE_URL", "postgres://localhost:5432/boradedesconto?sslmode=disable"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "offers"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		CrawlSchedule:        getEnv("CRAWL_SCHEDULE", "@every 1h"),
		NavigationTimeout:    time.Duration(navTimeout) * time.Second,
		MaxPages:             maxPages,
		TargetOffers:         targetOffers,
		FallbackSynthesis:    fallback,
		AmazonSearchURL:      getEnv("AMAZON_SEARCH_URL", "https://www.amazon.com.br/s?k=ofertas+do+dia"),
		MercadoLivreURL:      getEnv("MERCADOLIVRE_URL", "https://www.mercadolivre.com.br/ofertas"),
		AffiliateTag:         getEnv("AFFILIATE_TAG", "wagnermontezu-20"),
		ChromeDBAddr:         getEnv("CHROMEDB_ADDR", ""),
		Environment:          getEnv("DEALS_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must not be empty")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1, got %d", c.MaxPages)
	}
	if c.TargetOffers < 1 {
		return fmt.Errorf("TARGET_OFFERS must be at least 1, got %d", c.TargetOffers)
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("NAVIGATION_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
