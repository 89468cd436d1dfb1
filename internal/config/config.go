// Package config loads and validates configuration at startup.
// Environment-first with an optional YAML file pointed to by
// JOBSWIPE_CONFIG; environment variables override file values.
// Fail-fast: if the backend URL is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "JOBSWIPE_CONFIG"
	apiURLEnv     = "JOBSWIPE_API_URL"
	userKeyEnv    = "JOBSWIPE_USER_KEY"
	redisURLEnv   = "REDIS_URL"
	stateDirEnv   = "JOBSWIPE_STATE_DIR"
	dailyLimitEnv = "DAILY_SWIPE_LIMIT"
	batchLimitEnv = "BATCH_LIMIT"
	locationEnv   = "JOBSWIPE_LOCATION"
)

// sampleUserKey is the backend's built-in development user, used when no
// identity provider supplied a key.
const sampleUserKey = "sample_user_123"

// Config holds all runtime configuration for the seeker client.
type Config struct {
	APIBaseURL string `yaml:"apiBaseUrl"` // recommendation backend, e.g. http://localhost:3000
	UserKey    string `yaml:"userKey"`    // stable per-user key from the identity provider
	RedisURL   string `yaml:"redisUrl"`   // when set, quota records live in Redis instead of files
	StateDir   string `yaml:"stateDir"`   // file-store directory for device state
	DailyLimit int    `yaml:"dailyLimit"` // like/dislike resolutions per day
	BatchLimit int    `yaml:"batchLimit"` // recommendations requested per fetch
	Location   string `yaml:"location"`   // initial location filter
}

// Load reads the optional YAML file, applies environment overrides, and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		StateDir:   ".jobswipe",
		DailyLimit: 20,
		BatchLimit: 20,
		Location:   "All Locations",
	}

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(apiURLEnv); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(userKeyEnv); v != "" {
		cfg.UserKey = v
	}
	if v := os.Getenv(redisURLEnv); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv(stateDirEnv); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv(dailyLimitEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", dailyLimitEnv, v)
		}
		cfg.DailyLimit = n
	}
	if v := os.Getenv(batchLimitEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", batchLimitEnv, v)
		}
		cfg.BatchLimit = n
	}
	if v := os.Getenv(locationEnv); v != "" {
		cfg.Location = v
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("%s is required", apiURLEnv)
	}
	if cfg.UserKey == "" {
		cfg.UserKey = sampleUserKey
	}
	if cfg.DailyLimit < 1 {
		return nil, fmt.Errorf("dailyLimit must be a positive integer, got %d", cfg.DailyLimit)
	}
	if cfg.BatchLimit < 1 {
		return nil, fmt.Errorf("batchLimit must be a positive integer, got %d", cfg.BatchLimit)
	}

	return cfg, nil
}
