package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, ScraperFirecrawl, cfg.Scraper)
	assert.Equal(t, "http://localhost:3002", cfg.FirecrawlHost)
	assert.Equal(t, 120*time.Second, cfg.ScrapeTimeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.PostgresURL)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCRAPER", "ChromeDP")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, ScraperChromedp, cfg.Scraper)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadFile_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_MODEL=gemini-test\nMAX_CONCURRENCY=2\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", cfg.GeminiModel)
	assert.Equal(t, 2, cfg.MaxConcurrency)
}

func TestLoadFile_RejectsUnknownScraper(t *testing.T) {
	t.Setenv("SCRAPER", "wget")

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "unknown SCRAPER")
}
