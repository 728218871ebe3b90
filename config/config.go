package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Notify        NotifyConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
	Site          SiteConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	FrontURL       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	TokenTTLHours int
}

// NotifyConfig configures where back-office notifications are mailed.
type NotifyConfig struct {
	Emails       []string // NOTIFY_EMAIL, comma-separated
	MailFrom     string
	ResendAPIKey string // empty means mails are only logged
	QueueSize    int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
	TraceSampleRatio float64
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	CategoryTTLSeconds int
}

// SiteConfig is the public site information served by /api/settings.
type SiteConfig struct {
	AppName      string
	AppVersion   string
	ContactEmail string
	ContactPhone string
	Address      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("FRONT_URL", "http://localhost:5173")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("JWT_ISSUER", "renov-api")
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("MAIL_FROM", "Cabinet RENOV <no-reply@cabinetrenov.ma>")
	v.SetDefault("MAIL_QUEUE_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "renov-api")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_TRACE_SAMPLE_RATIO", 1.0)
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "renov-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("CATEGORY_CACHE_TTL", 300) // 5 minutes in seconds
	v.SetDefault("APP_NAME", "Cabinet RENOV")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("CONTACT_EMAIL", "contact@cabinetrenov.ma")
	v.SetDefault("CONTACT_PHONE", "")
	v.SetDefault("CONTACT_ADDRESS", "")

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			FrontURL:       v.GetString("FRONT_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			MinConns:   v.GetInt32("DB_MIN_CONNS"),
			CACertPath: v.GetString("DB_CA_CERT_PATH"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			JWTIssuer:     v.GetString("JWT_ISSUER"),
			TokenTTLHours: v.GetInt("TOKEN_TTL_HOURS"),
		},
		Notify: NotifyConfig{
			Emails:       splitList(v.GetString("NOTIFY_EMAIL")),
			MailFrom:     v.GetString("MAIL_FROM"),
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			QueueSize:    v.GetInt("MAIL_QUEUE_SIZE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
			TraceSampleRatio: v.GetFloat64("O11Y_TRACE_SAMPLE_RATIO"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			CategoryTTLSeconds: v.GetInt("CATEGORY_CACHE_TTL"),
		},
		Site: SiteConfig{
			AppName:      v.GetString("APP_NAME"),
			AppVersion:   v.GetString("APP_VERSION"),
			ContactEmail: v.GetString("CONTACT_EMAIL"),
			ContactPhone: v.GetString("CONTACT_PHONE"),
			Address:      v.GetString("CONTACT_ADDRESS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Notify.QueueSize <= 0 {
		return fmt.Errorf("MAIL_QUEUE_SIZE must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
