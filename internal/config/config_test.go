package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable Load reads so a test starts from a known
// environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		configPathEnv, apiURLEnv, userKeyEnv, redisURLEnv,
		stateDirEnv, dailyLimitEnv, batchLimitEnv, locationEnv,
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(apiURLEnv, "http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:3000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.UserKey != sampleUserKey {
		t.Errorf("UserKey = %q, want %q", cfg.UserKey, sampleUserKey)
	}
	if cfg.DailyLimit != 20 || cfg.BatchLimit != 20 {
		t.Errorf("limits = %d/%d, want 20/20", cfg.DailyLimit, cfg.BatchLimit)
	}
	if cfg.StateDir != ".jobswipe" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.Location != "All Locations" {
		t.Errorf("Location = %q", cfg.Location)
	}
}

func TestLoad_MissingAPIURLFails(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without a backend URL")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("apiBaseUrl: http://file:3000\nuserKey: file_user\ndailyLimit: 5\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(userKeyEnv, "env_user")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://file:3000" {
		t.Errorf("APIBaseURL = %q, want file value", cfg.APIBaseURL)
	}
	if cfg.UserKey != "env_user" {
		t.Errorf("UserKey = %q, want env override", cfg.UserKey)
	}
	if cfg.DailyLimit != 5 {
		t.Errorf("DailyLimit = %d, want 5 from file", cfg.DailyLimit)
	}
}

func TestLoad_RejectsBadLimits(t *testing.T) {
	cases := []struct {
		env   string
		value string
	}{
		{dailyLimitEnv, "0"},
		{dailyLimitEnv, "abc"},
		{batchLimitEnv, "-1"},
	}
	for _, c := range cases {
		clearEnv(t)
		t.Setenv(apiURLEnv, "http://localhost:3000")
		t.Setenv(c.env, c.value)
		if _, err := Load(); err == nil {
			t.Errorf("Load accepted %s=%q", c.env, c.value)
		}
	}
}
