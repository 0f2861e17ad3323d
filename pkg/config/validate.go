package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/rhuss/vendorchat/pkg/debug"
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	if c.Gateway.DefaultProvider == "" {
		errs = append(errs, errors.New("gateway.default_provider is required"))
	} else if len(c.Providers) > 0 {
		if _, ok := c.Providers[c.Gateway.DefaultProvider]; !ok {
			errs = append(errs, fmt.Errorf("gateway.default_provider %q is not configured under providers", c.Gateway.DefaultProvider))
		}
	}

	ids := make([]string, 0, len(c.Providers))
	for id := range c.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := c.Providers[id]
		if p.Timeout < 0 {
			errs = append(errs, fmt.Errorf("providers.%s.timeout must not be negative", id))
		}
		if p.BaseURL != "" {
			u, err := url.Parse(p.BaseURL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				errs = append(errs, fmt.Errorf("providers.%s.base_url must be an absolute http(s) URL, got %q", id, p.BaseURL))
			}
		}
	}

	switch c.Storage.Type {
	case StorageMemory:
		if c.Storage.MaxSize <= 0 {
			errs = append(errs, fmt.Errorf("storage.max_size must be > 0, got %d", c.Storage.MaxSize))
		}
	case StoragePostgres:
		if c.Storage.Postgres.DSN == "" {
			errs = append(errs, errors.New("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	case StorageNone:
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\", \"postgres\" or \"none\", got %q", c.Storage.Type))
	}

	switch c.Auth.Type {
	case AuthNone:
	case AuthAPIKey:
		if len(c.Auth.APIKeys) == 0 {
			errs = append(errs, errors.New("auth.api_keys must not be empty when auth.type is \"apikey\""))
		}
		for i, k := range c.Auth.APIKeys {
			if k.Key == "" {
				errs = append(errs, fmt.Errorf("auth.api_keys[%d].key or key_file is required", i))
			}
		}
	case AuthJWT:
		if c.Auth.JWT.Secret == "" {
			errs = append(errs, errors.New("auth.jwt.secret or auth.jwt.secret_file is required when auth.type is \"jwt\""))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\" or \"jwt\", got %q", c.Auth.Type))
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		debug.Log(debug.Config, "validation failed", "problems", len(errs))
	}
	return errors.Join(errs...)
}
