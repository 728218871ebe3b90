package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8000", AllowedOrigins: []string{"http://localhost:5173"}},
		Database: DatabaseConfig{URL: "postgres://localhost/renov"},
		Auth:     AuthConfig{JWTSecret: testSecret, TokenTTLHours: 24},
		Notify:   NotifyConfig{QueueSize: 10},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "release mode",
			config:   &Config{Server: ServerConfig{GinMode: "release", AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:     "missing database url",
			mutate:   func(c *Config) { c.Database.URL = "" },
			errorMsg: "DATABASE_URL is required",
		},
		{
			name:     "missing jwt secret",
			mutate:   func(c *Config) { c.Auth.JWTSecret = "" },
			errorMsg: "JWT_SECRET is required",
		},
		{
			name:     "short jwt secret",
			mutate:   func(c *Config) { c.Auth.JWTSecret = "short" },
			errorMsg: "at least 32 characters",
		},
		{
			name:     "missing cors origins",
			mutate:   func(c *Config) { c.Server.AllowedOrigins = nil },
			errorMsg: "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name:     "empty mail queue",
			mutate:   func(c *Config) { c.Notify.QueueSize = 0 },
			errorMsg: "MAIL_QUEUE_SIZE must be positive",
		},
		{
			name:     "profiling without endpoint",
			mutate:   func(c *Config) { c.Profiling.Enabled = true },
			errorMsg: "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@renov.ma", "b@renov.ma"}, splitList(" a@renov.ma, ,b@renov.ma,"))
	assert.Empty(t, splitList(""))
}

func TestLoad_WithDefaults(t *testing.T) {
	os.Clearenv()
	t.Setenv("DATABASE_URL", "postgres://localhost/renov")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Empty(t, cfg.Notify.Emails)
	assert.Equal(t, 100, cfg.Notify.QueueSize)
	assert.Equal(t, 300, cfg.Cache.CategoryTTLSeconds)
	assert.Equal(t, "Cabinet RENOV", cfg.Site.AppName)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Clearenv()
	t.Setenv("DATABASE_URL", "postgres://db/renov")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("NOTIFY_EMAIL", "direction@renov.ma, commercial@renov.ma")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("CATEGORY_CACHE_TTL", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"direction@renov.ma", "commercial@renov.ma"}, cfg.Notify.Emails)
	assert.Equal(t, "re_test", cfg.Notify.ResendAPIKey)
	assert.Equal(t, 60, cfg.Cache.CategoryTTLSeconds)
}

func TestLoad_ValidationFailure(t *testing.T) {
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalDir) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	os.Clearenv()

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
