// Package config provides configuration for the vendorchat gateway.
//
// Sources are applied in layers, each overriding the previous one:
//  1. Built-in defaults
//  2. YAML config file (explicit path, VENDORCHAT_CONFIG, ./config.yaml,
//     /etc/vendorchat/config.yaml)
//  3. VENDORCHAT_* environment variables
//  4. _file references for secrets
//  5. Validation
package config

import "time"

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageNone     = "none"
)

// Auth modes.
const (
	AuthNone   = "none"
	AuthAPIKey = "apikey"
	AuthJWT    = "jwt"
)

// Config holds all configuration for the vendorchat gateway.
type Config struct {
	Server        ServerConfig              `yaml:"server"`
	Gateway       GatewayConfig             `yaml:"gateway"`
	Providers     map[string]ProviderConfig `yaml:"providers"`
	Storage       StorageConfig             `yaml:"storage"`
	Auth          AuthConfig                `yaml:"auth"`
	Observability ObservabilityConfig       `yaml:"observability"`
	Logging       LoggingConfig             `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 120s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// GatewayConfig controls request routing.
type GatewayConfig struct {
	// DefaultProvider serves requests that do not name a provider.
	DefaultProvider string `yaml:"default_provider"` // default: "deepseek"
}

// ProviderConfig configures one vendor adapter. Empty fields fall back to
// the vendor defaults; an empty api_key falls back to the vendor's
// credential environment variable.
type ProviderConfig struct {
	APIKey       string        `yaml:"api_key"`
	APIKeyFile   string        `yaml:"api_key_file"`
	BaseURL      string        `yaml:"base_url"`
	DefaultModel string        `yaml:"default_model"`
	Timeout      time.Duration `yaml:"timeout"` // default: 30s
}

// StorageConfig selects where completion records are kept.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "memory", "postgres" or "none", default: "memory"
	MaxSize  int            `yaml:"max_size"` // memory store capacity, default: 10000
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`
	MaxConns       int32  `yaml:"max_conns"` // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

// AuthConfig holds gateway authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"` // "none", "apikey" or "jwt", default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"`
	JWT     JWTConfig      `yaml:"jwt"`
}

// APIKeyConfig describes a single static API key.
type APIKeyConfig struct {
	Key      string `json:"key" yaml:"key"`
	KeyFile  string `json:"key_file" yaml:"key_file"`
	Subject  string `json:"subject" yaml:"subject"`
	TenantID string `json:"tenant_id" yaml:"tenant_id"`
}

// JWTConfig configures HS256 bearer token validation.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	SecretFile  string `yaml:"secret_file"`
	Issuer      string `yaml:"issuer"`
	Audience    string `yaml:"audience"`
	TenantClaim string `yaml:"tenant_claim"` // default: "tenant_id"
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig controls slog output and debug categories.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // TRACE, DEBUG, INFO, WARN, ERROR; default: INFO
	Format string `yaml:"format"` // "text" or "json", default: "text"
	Debug  string `yaml:"debug"`  // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Gateway: GatewayConfig{
			DefaultProvider: "deepseek",
		},
		Storage: StorageConfig{
			Type:    StorageMemory,
			MaxSize: 10000,
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Auth: AuthConfig{
			Type: AuthNone,
			JWT: JWTConfig{
				TenantClaim: "tenant_id",
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}
