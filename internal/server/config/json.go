package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/flagx"
	"github.com/dmitrijs2005/campusmarket/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Only
// fields present (non-zero) in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	BaseURL                      string         `json:"base_url"`
	LogLevel                     string         `json:"log_level"`
	StorageBackend               string         `json:"storage_backend"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	TokenCodec                   string         `json:"token_codec"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	AllowedEmailSuffixes         []string       `json:"allowed_email_suffixes"`
	DemoAccountEmail             string         `json:"demo_account_email"`
	MediaBackend                 string         `json:"media_backend"`
	MediaURLValidity             timex.Duration `json:"media_url_validity"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	UploadTTL                    timex.Duration `json:"upload_ttl"`
	SweepInterval                timex.Duration `json:"sweep_interval"`
	ConfirmPolicy                string         `json:"confirm_policy"`
	MaxUploadBytes               int            `json:"max_upload_bytes"`
}

// parseJson loads the file named by -c/-config (if any) into config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenCodec, c.TokenCodec)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.AllowedEmailSuffixes) > 0 {
		config.AllowedEmailSuffixes = c.AllowedEmailSuffixes
	}
	setString(&config.DemoAccountEmail, c.DemoAccountEmail)
	setString(&config.MediaBackend, c.MediaBackend)
	setDuration(&config.MediaURLValidity, c.MediaURLValidity)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.UploadTTL, c.UploadTTL)
	setDuration(&config.SweepInterval, c.SweepInterval)
	setString(&config.ConfirmPolicy, c.ConfirmPolicy)
	if c.MaxUploadBytes != 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
