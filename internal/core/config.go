package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents the main configuration for Medialog
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Features FeatureConfig  `json:"features"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DatabaseConfig contains database-related configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// AuthConfig contains authentication-related configuration
type AuthConfig struct {
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// FeatureConfig contains feature-specific configuration
type FeatureConfig struct {
	Media MediaConfig `json:"media"`
	Blog  BlogConfig  `json:"blog"`
}

// MediaConfig contains media tracker configuration
type MediaConfig struct {
	Enabled bool `json:"enabled"`
	// ArchiveFrequency is the fallback number of recent feed entries between
	// archive insertions for users without a saved setting.
	ArchiveFrequency int  `json:"archive_frequency"`
	ScrapeEnabled    bool `json:"scrape_enabled"`
	ScrapeTimeout    int  `json:"scrape_timeout"`
}

// BlogConfig contains blog configuration
type BlogConfig struct {
	Enabled bool `json:"enabled"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("MEDIALOG_PORT", 4000),
			Host: getEnvOrDefault("MEDIALOG_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnvOrDefault("MEDIALOG_DB_PATH", "./medialog.db"),
		},
		Auth: AuthConfig{
			AdminEmail:    getEnvOrDefault("MEDIALOG_ADMIN_EMAIL", ""),
			AdminPassword: getEnvOrDefault("MEDIALOG_ADMIN_PASSWORD", ""),
		},
		Features: FeatureConfig{
			Media: MediaConfig{
				Enabled:          getEnvAsBool("MEDIALOG_ENABLE_MEDIA", true),
				ArchiveFrequency: getEnvAsInt("MEDIALOG_ARCHIVE_FREQUENCY", 3),
				ScrapeEnabled:    getEnvAsBool("MEDIALOG_ENABLE_TITLE_SCRAPER", true),
				ScrapeTimeout:    getEnvAsInt("MEDIALOG_SCRAPE_TIMEOUT", 10),
			},
			Blog: BlogConfig{
				Enabled: getEnvAsBool("MEDIALOG_ENABLE_BLOG", true),
			},
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Auth.AdminEmail == "" {
		return fmt.Errorf("admin email is required")
	}

	if c.Auth.AdminPassword == "" {
		return fmt.Errorf("admin password is required")
	}

	if c.Features.Media.ScrapeTimeout <= 0 {
		return fmt.Errorf("scrape timeout must be positive: %d", c.Features.Media.ScrapeTimeout)
	}

	return nil
}

// IsFeatureEnabled checks if a feature is enabled
func (c *Config) IsFeatureEnabled(featureName string) bool {
	switch strings.ToLower(featureName) {
	case "media":
		return c.Features.Media.Enabled
	case "blog":
		return c.Features.Blog.Enabled
	default:
		return false
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
