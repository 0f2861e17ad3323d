// Command server runs the vendorchat gateway: one HTTP API in front of the
// builtin chat completion vendors.
//
// Configuration is read from a YAML file (-config, VENDORCHAT_CONFIG,
// ./config.yaml or /etc/vendorchat/config.yaml) and VENDORCHAT_* environment
// overrides. Without a providers section every builtin vendor whose
// credential variable (DEEPSEEK_API_KEY, QWEN_API_KEY, DOUBAO_API_KEY) is set
// is enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/auth"
	"github.com/rhuss/vendorchat/pkg/auth/apikey"
	"github.com/rhuss/vendorchat/pkg/auth/jwt"
	"github.com/rhuss/vendorchat/pkg/auth/noop"
	"github.com/rhuss/vendorchat/pkg/config"
	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/builtin"
	"github.com/rhuss/vendorchat/pkg/storage"
	"github.com/rhuss/vendorchat/pkg/storage/memory"
	"github.com/rhuss/vendorchat/pkg/storage/postgres"
	"github.com/rhuss/vendorchat/pkg/transport"
	transporthttp "github.com/rhuss/vendorchat/pkg/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format)

	providers, defaultProvider, err := buildProviders(builtin.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	defer providers.Close()

	store, err := buildStore(context.Background(), cfg.Storage)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	chain, err := buildAuthChain(cfg.Auth)
	if err != nil {
		return err
	}

	metricsPath := ""
	bypass := []string{"/healthz"}
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
		bypass = append(bypass, metricsPath)
	}

	dispatcher := transport.NewDispatcher(providers, defaultProvider, api.DefaultValidationConfig())
	srv := transporthttp.NewServer(dispatcher, providers, store,
		transporthttp.WithAddr(":"+strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithAdapterConfig(transporthttp.Config{
			MaxBodySize:     10 << 20,
			DefaultProvider: defaultProvider,
			MetricsPath:     metricsPath,
			Wrap:            auth.Middleware(chain, bypass),
		}),
	)

	slog.Info("gateway configured",
		"providers", providers.Len(),
		"default_provider", defaultProvider,
		"storage", cfg.Storage.Type,
		"auth", cfg.Auth.Type)
	return srv.ListenAndServe()
}

// buildProviders instantiates the configured vendors. With an explicit
// providers section every entry must build. Otherwise every builtin vendor
// is tried and those without a credential are skipped. The returned default
// falls back to the first available provider when the configured one was
// skipped.
func buildProviders(reg *provider.Registry, cfg *config.Config) (*provider.Set, string, error) {
	var set *provider.Set

	if len(cfg.Providers) > 0 {
		cfgs := make(map[string]provider.Config, len(cfg.Providers))
		for id, pc := range cfg.Providers {
			cfgs[id] = provider.Config{
				APIKey:       pc.APIKey,
				BaseURL:      pc.BaseURL,
				DefaultModel: pc.DefaultModel,
				Timeout:      pc.Timeout,
			}
		}
		var err error
		if set, err = reg.Instantiate(cfgs); err != nil {
			return nil, "", fmt.Errorf("creating providers: %w", err)
		}
	} else {
		var built []provider.Provider
		for _, m := range reg.Modules() {
			p, err := m.New(provider.Config{})
			if api.IsType(err, api.ErrorTypeConfiguration) {
				slog.Warn("provider disabled", "provider", m.ProviderID, "reason", err)
				continue
			}
			if err != nil {
				for _, b := range built {
					b.Close()
				}
				return nil, "", fmt.Errorf("creating provider %s: %w", m.ProviderID, err)
			}
			built = append(built, p)
		}
		set = provider.NewSet(built...)
	}

	if set.Len() == 0 {
		return nil, "", errors.New("no providers available: configure providers or set a vendor credential variable")
	}

	defaultProvider := cfg.Gateway.DefaultProvider
	if _, ok := set.Get(defaultProvider); !ok {
		fallback := set.List()[0].Name()
		slog.Warn("default provider unavailable, using fallback",
			"configured", defaultProvider, "fallback", fallback)
		defaultProvider = fallback
	}
	return set, defaultProvider, nil
}

// buildStore returns nil when persistence is disabled.
func buildStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case config.StorageNone:
		slog.Info("storage disabled")
		return nil, nil
	case config.StoragePostgres:
		store, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("creating postgres store: %w", err)
		}
		slog.Info("storage enabled", "type", "postgres")
		return store, nil
	default:
		slog.Info("storage enabled", "type", "memory", "max_size", cfg.MaxSize)
		return memory.New(cfg.MaxSize), nil
	}
}

func buildAuthChain(cfg config.AuthConfig) (*auth.Chain, error) {
	switch cfg.Type {
	case config.AuthAPIKey:
		keys := make([]apikey.Key, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			keys = append(keys, apikey.Key{Key: k.Key, Subject: k.Subject, TenantID: k.TenantID})
		}
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{apikey.New(keys)},
			DefaultDecision: auth.No,
		}, nil
	case config.AuthJWT:
		a, err := jwt.New(jwt.Config{
			Secret:      []byte(cfg.JWT.Secret),
			Issuer:      cfg.JWT.Issuer,
			Audience:    cfg.JWT.Audience,
			TenantClaim: cfg.JWT.TenantClaim,
		})
		if err != nil {
			return nil, err
		}
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{a},
			DefaultDecision: auth.No,
		}, nil
	default:
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{noop.Authenticator{}},
			DefaultDecision: auth.No,
		}, nil
	}
}
