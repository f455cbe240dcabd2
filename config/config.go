package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the service reads from the environment.
// Variables carry an SF6_ prefix (SF6_R2_ENDPOINT_URL and so on); an
// optional .env file in the working directory is merged in first.
type Config struct {
	Port        string
	Environment string

	// R2/S3 connection for presigned URL issuance.
	R2EndpointURL     string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2UseSSL          bool

	// Object keys of the pre-built columnar datasets.
	MatchesKey string
	VideosKey  string

	// PresignExpirySeconds bounds the lifetime of issued URLs.
	PresignExpirySeconds int

	// DataAPIURL, when set, makes the loader fetch presigned URLs from
	// a remote dataset API instead of presigning locally.
	DataAPIURL string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	// .env is optional; a missing file is not an error.
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	v.SetEnvPrefix("SF6")
	v.AutomaticEnv()

	v.SetDefault("port", "8787")
	v.SetDefault("environment", "development")
	v.SetDefault("r2_use_ssl", true)
	v.SetDefault("matches_key", "index/matches.parquet")
	v.SetDefault("videos_key", "index/videos.parquet")
	v.SetDefault("presign_expiry_seconds", 3600)

	cfg := &Config{
		Port:                 v.GetString("port"),
		Environment:          v.GetString("environment"),
		R2EndpointURL:        v.GetString("r2_endpoint_url"),
		R2AccessKeyID:        v.GetString("r2_access_key_id"),
		R2SecretAccessKey:    v.GetString("r2_secret_access_key"),
		R2BucketName:         v.GetString("r2_bucket_name"),
		R2UseSSL:             v.GetBool("r2_use_ssl"),
		MatchesKey:           v.GetString("matches_key"),
		VideosKey:            v.GetString("videos_key"),
		PresignExpirySeconds: v.GetInt("presign_expiry_seconds"),
		DataAPIURL:           v.GetString("data_api_url"),
	}

	if cfg.DataAPIURL == "" && cfg.R2EndpointURL == "" {
		return nil, fmt.Errorf("config: either SF6_R2_ENDPOINT_URL or SF6_DATA_API_URL must be set")
	}
	return cfg, nil
}
