package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultUploadRoot       = "uploads"
	defaultImageQuality     = "100"
	defaultThumbnailQuality = "85"
	defaultMaxUploadBytes   = "5368709120" // 5 GiB
	defaultPort             = "8080"
)

// Config is loaded once at startup and passed into each component
// explicitly; nothing reads the environment after Load returns.
type Config struct {
	UploadRoot       string
	ImageQuality     int
	ThumbnailQuality int
	MaxUploadBytes   int64
	Port             string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.UploadRoot = strings.TrimSpace(getEnv("UPLOAD_ROOT", defaultUploadRoot))
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))

	var err error
	cfg.ImageQuality, err = parseIntEnv("IMAGE_QUALITY", defaultImageQuality)
	if err != nil {
		return nil, err
	}

	cfg.ThumbnailQuality, err = parseIntEnv("THUMBNAIL_QUALITY", defaultThumbnailQuality)
	if err != nil {
		return nil, err
	}

	cfg.MaxUploadBytes, err = parseInt64Env("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.UploadRoot == "" {
		return fmt.Errorf("UPLOAD_ROOT must not be empty")
	}
	if cfg.ImageQuality < 1 || cfg.ImageQuality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be in range 1-100")
	}
	if cfg.ThumbnailQuality < 1 || cfg.ThumbnailQuality > 100 {
		return fmt.Errorf("THUMBNAIL_QUALITY must be in range 1-100")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return v, nil
}

func parseInt64Env(key, fallback string) (int64, error) {
	raw := getEnv(key, fallback)
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return v, nil
}
