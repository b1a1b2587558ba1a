package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseEnv(cfg, map[string]string{
		"CAMPUSMARKET_HTTP_ADDR":        ":9999",
		"CAMPUSMARKET_STORAGE":          "postgres",
		"CAMPUSMARKET_UPLOAD_TTL":       "90s",
		"CAMPUSMARKET_EMAIL_SUFFIXES":   ".edu,.ac.uk",
		"CAMPUSMARKET_MAX_UPLOAD_BYTES": "4096",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, 90*time.Second, cfg.UploadTTL)
	assert.Equal(t, []string{".edu", ".ac.uk"}, cfg.AllowedEmailSuffixes)
	assert.Equal(t, 4096, cfg.MaxUploadBytes)

	// untouched
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
}

func TestParseEnv_BadValue(t *testing.T) {
	cfg := &Config{}
	err := parseEnv(cfg, map[string]string{"CAMPUSMARKET_UPLOAD_TTL": "forever"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
