package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, an optional YAML file,
// environment overrides and _file secret references, then validates it.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if path := discoverConfigFile(configPath); path != "" {
		if err := loadYAMLFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		slog.Debug("config file loaded", "path", path)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// discoverConfigFile returns the first config file candidate, or "" when
// none exists. An explicit path or VENDORCHAT_CONFIG is returned as-is so a
// missing file surfaces as an error.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("VENDORCHAT_CONFIG"); envPath != "" {
		return envPath
	}
	for _, path := range []string{"config.yaml", "/etc/vendorchat/config.yaml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadYAMLFile merges a YAML file over cfg. Unknown keys are rejected.
func loadYAMLFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnvOverrides maps VENDORCHAT_* variables onto cfg. Malformed
// numeric values are reported rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("VENDORCHAT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VENDORCHAT_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("VENDORCHAT_DEFAULT_PROVIDER"); v != "" {
		cfg.Gateway.DefaultProvider = v
	}
	if v := os.Getenv("VENDORCHAT_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("VENDORCHAT_STORAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VENDORCHAT_STORAGE_SIZE: %w", err)
		}
		cfg.Storage.MaxSize = size
	}
	if v := os.Getenv("VENDORCHAT_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("VENDORCHAT_AUTH_TYPE"); v != "" {
		cfg.Auth.Type = v
	}
	if v := os.Getenv("VENDORCHAT_JWT_SECRET"); v != "" {
		cfg.Auth.JWT.Secret = v
	}
	if v := os.Getenv("VENDORCHAT_API_KEYS"); v != "" {
		var keys []APIKeyConfig
		if err := json.Unmarshal([]byte(v), &keys); err != nil {
			return fmt.Errorf("VENDORCHAT_API_KEYS: %w", err)
		}
		cfg.Auth.APIKeys = keys
	}
	if v := os.Getenv("VENDORCHAT_DEBUG"); v != "" {
		cfg.Logging.Debug = v
	}
	if v := os.Getenv("VENDORCHAT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// resolveFileReferences fills secret fields from their _file variants.
// An explicit value always wins over the file.
func resolveFileReferences(cfg *Config) error {
	ids := make([]string, 0, len(cfg.Providers))
	for id := range cfg.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := cfg.Providers[id]
		if p.APIKeyFile == "" || p.APIKey != "" {
			continue
		}
		val, err := readSecretFile(p.APIKeyFile)
		if err != nil {
			return fmt.Errorf("providers.%s.api_key_file: %w", id, err)
		}
		p.APIKey = val
		cfg.Providers[id] = p
	}

	if err := resolveSecret(&cfg.Storage.Postgres.DSN, cfg.Storage.Postgres.DSNFile, "storage.postgres.dsn_file"); err != nil {
		return err
	}
	if err := resolveSecret(&cfg.Auth.JWT.Secret, cfg.Auth.JWT.SecretFile, "auth.jwt.secret_file"); err != nil {
		return err
	}
	for i := range cfg.Auth.APIKeys {
		k := &cfg.Auth.APIKeys[i]
		if err := resolveSecret(&k.Key, k.KeyFile, fmt.Sprintf("auth.api_keys[%d].key_file", i)); err != nil {
			return err
		}
	}
	return nil
}

func resolveSecret(dst *string, path, field string) error {
	if path == "" || *dst != "" {
		return nil
	}
	val, err := readSecretFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = val
	return nil
}

// readSecretFile reads a file and trims surrounding whitespace.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
