package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultLogoURL is the image shown in the page header.
const DefaultLogoURL = "https://lovable-uploads.s3.amazonaws.com/92c68078-1244-4e00-8c95-5b4d93742c71.png"

type Config struct {
	Port string

	// Request limits
	MaxInputBytes  int64
	MaxUploadBytes int64

	// Logo background removal
	LogoURL          string
	LogoEnabled      bool
	LogoFetchTimeout time.Duration
	BGRemoverURL     string // Empty uses the local corner-key remover.
	BGRemoverAPIKey  string
	BGTolerance      int

	// Conversion stats
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		MaxInputBytes:  envInt64("MAX_INPUT_BYTES", 1<<20),   // 1MB
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20<<20), // 20MB

		LogoURL:          envOr("LOGO_URL", DefaultLogoURL),
		LogoEnabled:      envBool("LOGO_ENABLED", true),
		LogoFetchTimeout: envDuration("LOGO_FETCH_TIMEOUT", 30*time.Second),
		BGRemoverURL:     os.Getenv("BG_REMOVER_URL"),
		BGRemoverAPIKey:  os.Getenv("BG_REMOVER_API_KEY"),
		BGTolerance:      envInt("BG_TOLERANCE", 48),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = 1 << 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.LogoFetchTimeout <= 0 {
		cfg.LogoFetchTimeout = 30 * time.Second
	}
	if cfg.BGTolerance < 0 {
		cfg.BGTolerance = 48
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.LogoEnabled {
		if err := validURL(c.LogoURL); err != nil {
			return fmt.Errorf("LOGO_URL: %w", err)
		}
	}
	if c.BGRemoverURL != "" {
		if err := validURL(c.BGRemoverURL); err != nil {
			return fmt.Errorf("BG_REMOVER_URL: %w", err)
		}
	}
	if c.BGTolerance > 441 {
		return fmt.Errorf("BG_TOLERANCE must be at most 441, got %d", c.BGTolerance)
	}
	return nil
}

func validURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
