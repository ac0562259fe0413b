package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got error: %v", err)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "empty server address",
			mutate: func(c *Config) { c.Server.Address = "" },
		},
		{
			name:   "pong timeout not above ping interval",
			mutate: func(c *Config) { c.Signal.PongTimeout = c.Signal.PingInterval },
		},
		{
			name:   "zero send buffer",
			mutate: func(c *Config) { c.Signal.SendBufferSize = 0 },
		},
		{
			name:   "unknown repository backend",
			mutate: func(c *Config) { c.Repositories.Backend = "postgres" },
		},
		{
			name: "redis backend without address",
			mutate: func(c *Config) {
				c.Repositories.Backend = "redis"
				c.Redis.Address = ""
			},
		},
		{
			name:   "empty queue key",
			mutate: func(c *Config) { c.Queue.Key = "" },
		},
		{
			name:   "empty persistence base url",
			mutate: func(c *Config) { c.Persistence.BaseURL = "" },
		},
		{
			name:   "empty jwt secret",
			mutate: func(c *Config) { c.Auth.JWTSecret = "" },
		},
		{
			name: "tracing enabled without jaeger url",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.JaegerURL = ""
			},
		},
		{
			name: "tracing sample rate out of range",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.SampleRate = 1.5
			},
		},
		{
			name: "rate limiting enabled with zero ws rate",
			mutate: func(c *Config) {
				c.RateLimiting.Enabled = true
				c.RateLimiting.WebSocket.MessagesPerSecond = 0
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for case %q, got nil", tc.name)
			}
		})
	}
}

func TestValidate_RateLimitingDisabled_AllowsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.HTTP.RequestsPerSecond = 0
	cfg.RateLimiting.HTTP.Burst = 0
	cfg.RateLimiting.WebSocket.MessagesPerSecond = 0
	cfg.RateLimiting.WebSocket.Burst = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to be valid when rate limiting disabled, got error: %v", err)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected defaults when file missing, got error: %v", err)
	}
	if cfg.Queue.Key != "logs" {
		t.Errorf("expected default queue key %q, got %q", "logs", cfg.Queue.Key)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  address: \":9000\"\nqueue:\n  key: interview-logs\nauth:\n  jwt_secret: test-secret\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("expected server address %q, got %q", ":9000", cfg.Server.Address)
	}
	if cfg.Queue.Key != "interview-logs" {
		t.Errorf("expected queue key %q, got %q", "interview-logs", cfg.Queue.Key)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("expected jwt secret from file, got %q", cfg.Auth.JWTSecret)
	}
	// untouched sections keep defaults
	if cfg.Redis.PoolSize != 10 {
		t.Errorf("expected default redis pool size 10, got %d", cfg.Redis.PoolSize)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROCTORLINK_JWT_SECRET", "from-env")
	t.Setenv("PROCTORLINK_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("expected jwt secret from env, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}
