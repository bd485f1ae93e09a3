package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	keys := []string{
		"DATABASE_URL", "REDIS_ADDR", "REDIS_DB", "REDIS_STREAM",
		"REDIS_STREAM_COUNT", "REDIS_STREAM_MAX_LENGTH", "MEMCACHE_ADDR",
		"CRAWL_SCHEDULE", "NAVIGATION_TIMEOUT_SECONDS", "MAX_PAGES",
		"TARGET_OFFERS", "FALLBACK_SYNTHESIS", "AMAZON_SEARCH_URL",
		"MERCADOLIVRE_URL", "AFFILIATE_TAG", "CHROMEDB_ADDR", "DEALS_ENVIRONMENT",
	}
	for _, key := range keys {
		os.Unsetenv(key)
	}

	cfg := LoadConfig()

	assert.Equal(t, "postgres://localhost:5432/boradedesconto?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "offers", cfg.RedisStream)
	assert.Equal(t, 1, cfg.RedisStreamCount)
	assert.Equal(t, 500, cfg.RedisStreamMaxLength)
	assert.Equal(t, "localhost:11211", cfg.MemcacheAddr)
	assert.Equal(t, "@every 1h", cfg.CrawlSchedule)
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 2, cfg.MaxPages)
	assert.Equal(t, 10, cfg.TargetOffers)
	assert.False(t, cfg.FallbackSynthesis)
	assert.Equal(t, "wagnermontezu-20", cfg.AffiliateTag)
	assert.Empty(t, cfg.ChromeDBAddr)
	assert.Equal(t, "development", cfg.Environment)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/offers?sslmode=disable")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_STREAM_COUNT", "4")
	t.Setenv("NAVIGATION_TIMEOUT_SECONDS", "10")
	t.Setenv("MAX_PAGES", "5")
	t.Setenv("TARGET_OFFERS", "25")
	t.Setenv("FALLBACK_SYNTHESIS", "true")
	t.Setenv("CHROMEDB_ADDR", "http://chromedb:8080")

	cfg := LoadConfig()

	assert.Equal(t, "postgres://db:5432/offers?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 4, cfg.RedisStreamCount)
	assert.Equal(t, 10*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 25, cfg.TargetOffers)
	assert.True(t, cfg.FallbackSynthesis)
	assert.Equal(t, "http://chromedb:8080", cfg.ChromeDBAddr)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabaseURL:       "postgres://localhost:5432/offers",
			RedisAddr:         "localhost:6379",
			MaxPages:          2,
			TargetOffers:      10,
			NavigationTimeout: 30 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty database url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"empty redis addr", func(c *Config) { c.RedisAddr = "" }, "REDIS_ADDR"},
		{"zero max pages", func(c *Config) { c.MaxPages = 0 }, "MAX_PAGES"},
		{"zero target offers", func(c *Config) { c.TargetOffers = 0 }, "TARGET_OFFERS"},
		{"zero navigation timeout", func(c *Config) { c.NavigationTimeout = 0 }, "NAVIGATION_TIMEOUT_SECONDS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
