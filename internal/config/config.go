package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Admin     AdminConfig     `yaml:"admin"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Tenant-ID,X-Request-Id"`
	ExposedHeaders   string `yaml:"exposed_headers"   env:"CORS_EXPOSED_HEADERS"   env-default:"X-Request-Id,Idempotent-Replayed,Retry-After"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"15s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Tenant resolution modes.
const (
	AuthModeToken  = "token"
	AuthModeHeader = "header"
)

// AuthConfig holds tenant authentication settings.
//
// In token mode every request carries a Bearer JWT signed either with
// JWTSecret (HS256) or with the private half of JWTPublicKey (RS256).
// In header mode the tenant is taken from TenantHeader and the service
// must sit behind a gateway that authenticates callers.
type AuthConfig struct {
	Mode           string        `yaml:"mode"             env:"AUTH_MODE"             env-default:"token"`
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTPublicKey   string        `yaml:"jwt_public_key"   env:"AUTH_JWT_PUBLIC_KEY"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"auditlog"`
	TenantClaim    string        `yaml:"tenant_claim"     env:"AUTH_TENANT_CLAIM"     env-default:"tid"`
	TenantHeader   string        `yaml:"tenant_header"    env:"AUTH_TENANT_HEADER"    env-default:"X-Tenant-ID"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"1h"`
}

// UsesRSA reports whether tokens are verified with an RSA public key.
func (c AuthConfig) UsesRSA() bool {
	return strings.TrimSpace(c.JWTPublicKey) != ""
}

// AdminConfig holds settings for the tenant provisioning endpoints.
// Admin routes are not mounted when APIKeyHash is empty.
type AdminConfig struct {
	APIKeyHash string `yaml:"api_key_hash" env:"ADMIN_API_KEY_HASH"`
}

// Enabled reports whether admin routes should be served.
func (c AdminConfig) Enabled() bool {
	return c.APIKeyHash != ""
}

// RateLimitConfig holds per-tenant rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"true"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"RATE_LIMIT_REQUESTS_PER_SECOND" env-default:"50"`
	Burst             int           `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"100"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"1m"`
}

// RedisConfig holds Redis connection settings. An empty Addr keeps rate
// limiting in-process.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// TelemetryConfig holds tracing and metrics settings.
type TelemetryConfig struct {
	TracingEnabled bool    `yaml:"tracing_enabled" env:"TELEMETRY_TRACING_ENABLED" env-default:"false"`
	OTLPEndpoint   string  `yaml:"otlp_endpoint"   env:"TELEMETRY_OTLP_ENDPOINT"   env-default:"localhost:4317"`
	Insecure       bool    `yaml:"insecure"        env:"TELEMETRY_INSECURE"        env-default:"true"`
	ServiceName    string  `yaml:"service_name"    env:"TELEMETRY_SERVICE_NAME"    env-default:"auditlog"`
	SampleRatio    float64 `yaml:"sample_ratio"    env:"TELEMETRY_SAMPLE_RATIO"    env-default:"1.0"`
	MetricsEnabled bool    `yaml:"metrics_enabled" env:"TELEMETRY_METRICS_ENABLED" env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
