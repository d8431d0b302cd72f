package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Grid       GridConfig       `yaml:"grid"`
	Classifier ClassifierConfig `yaml:"classifier"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token validation settings. Tokens are minted by the
// upstream identity service; this backend only validates them.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"voxsheet"`
	AccessTTL time.Duration `yaml:"access_ttl" env:"AUTH_ACCESS_TTL" env-default:"15m"`
}

// PipelineConfig holds the safety-pipeline policy knobs.
type PipelineConfig struct {
	// ConfidenceThreshold is the classifier confidence below which the
	// conversation is routed to clarification.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"PIPELINE_CONFIDENCE_THRESHOLD" env-default:"0.60"`

	// StaleAfter is how long a conversation may sit in a non-terminal,
	// non-idle state before the sweep forces it to ERROR.
	StaleAfter time.Duration `yaml:"stale_after" env:"PIPELINE_STALE_AFTER" env-default:"30m"`

	// RollbackTTL is the undo validity window measured from snapshot creation.
	RollbackTTL time.Duration `yaml:"rollback_ttl" env:"PIPELINE_ROLLBACK_TTL" env-default:"24h"`

	// AuditRetentionDays is how long audit records are kept before the
	// retention cleanup deletes them.
	AuditRetentionDays int `yaml:"audit_retention_days" env:"PIPELINE_AUDIT_RETENTION_DAYS" env-default:"90"`
}

// GridConfig holds spreadsheet backend client settings.
type GridConfig struct {
	BaseURL string        `yaml:"base_url" env:"GRID_BASE_URL" env-default:"http://localhost:9090"`
	APIKey  string        `yaml:"api_key"  env:"GRID_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"GRID_TIMEOUT"  env-default:"15s"`

	// UseStub replaces the HTTP client with the in-memory stub backend,
	// for local development without a grid service.
	UseStub bool `yaml:"use_stub" env:"GRID_USE_STUB" env-default:"false"`
}

// ClassifierConfig holds intent classifier settings.
type ClassifierConfig struct {
	APIKey string `yaml:"api_key" env:"CLASSIFIER_API_KEY"`
	Model  string `yaml:"model"   env:"CLASSIFIER_MODEL" env-default:"claude-3-5-haiku-latest"`
}

// RateLimitConfig holds per-user request throttling settings.
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"60"`
	Window   time.Duration `yaml:"window"   env:"RATE_LIMIT_WINDOW"   env-default:"1m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
