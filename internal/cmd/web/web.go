// Package web parses web command configuration and wires the site's
// dependencies.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	entrypoint "github.com/uslusolutions/clinicweb/internal/platform/cmd"
	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/web"
	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	contactsvc "github.com/uslusolutions/clinicweb/internal/services/web/contact"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/integration/msgraph"
	"github.com/uslusolutions/clinicweb/internal/services/web/integration/recaptcha"
	"github.com/uslusolutions/clinicweb/internal/services/web/integration/umbraco"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
	"github.com/uslusolutions/clinicweb/internal/services/web/storage"
	redisstore "github.com/uslusolutions/clinicweb/internal/services/web/storage/redis"
	sqlitestore "github.com/uslusolutions/clinicweb/internal/services/web/storage/sqlite"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string `env:"CLINICWEB_HTTP_ADDR"             envDefault:"localhost:3000"`
	SiteURL             string `env:"CLINICWEB_SITE_URL"              envDefault:"https://uslu.dk"`
	TrustForwardedProto bool   `env:"CLINICWEB_TRUST_FORWARDED_PROTO"`

	UmbracoBaseURL   string `env:"CLINICWEB_UMBRACO_BASE_URL"`
	UmbracoMediaURL  string `env:"CLINICWEB_UMBRACO_MEDIA_URL"`
	UmbracoAPIKey    string `env:"CLINICWEB_UMBRACO_API_KEY"`
	UmbracoStartItem string `env:"CLINICWEB_UMBRACO_START_ITEM"`

	CachePath    string        `env:"CLINICWEB_CACHE_PATH"`
	RedisURL     string        `env:"CLINICWEB_REDIS_URL"`
	CacheTTL     time.Duration `env:"CLINICWEB_CACHE_TTL"      envDefault:"5m"`
	WarmSchedule string        `env:"CLINICWEB_WARM_SCHEDULE"`

	RecaptchaSiteKey   string  `env:"CLINICWEB_RECAPTCHA_SITE_KEY"`
	RecaptchaSecret    string  `env:"CLINICWEB_RECAPTCHA_SECRET"`
	RecaptchaThreshold float64 `env:"CLINICWEB_RECAPTCHA_THRESHOLD" envDefault:"0.5"`

	GraphTenantID     string `env:"CLINICWEB_GRAPH_TENANT_ID"`
	GraphClientID     string `env:"CLINICWEB_GRAPH_CLIENT_ID"`
	GraphClientSecret string `env:"CLINICWEB_GRAPH_CLIENT_SECRET"`
	GraphMailbox      string `env:"CLINICWEB_GRAPH_MAILBOX"`
	GraphRecipient    string `env:"CLINICWEB_GRAPH_RECIPIENT"`
	GraphFromName     string `env:"CLINICWEB_GRAPH_FROM_NAME"`

	Analytics analytics.Settings
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.LoadEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.SiteURL, "site-url", cfg.SiteURL, "public site URL used for canonical links")
	fs.StringVar(&cfg.UmbracoBaseURL, "umbraco-base-url", cfg.UmbracoBaseURL, "Umbraco delivery API base URL")
	fs.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "SQLite CMS cache file")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for a shared CMS cache")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "CMS cache entry lifetime")
	fs.StringVar(&cfg.WarmSchedule, "warm-schedule", cfg.WarmSchedule, "cron spec for CMS cache warming")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "trust X-Forwarded-Proto from the proxy")
	if err := entrypoint.ParseFlags(fs, args); err != nil {
		return Config{}, err
	}
	cfg.SiteURL = urlpath.SanitizeSiteURL(cfg.SiteURL)
	if cfg.UmbracoMediaURL == "" {
		cfg.UmbracoMediaURL = cfg.UmbracoBaseURL
	}
	return cfg, nil
}

// Run builds the site and serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		cache, err := openCache(ctx, cfg)
		if err != nil {
			return err
		}
		if cache != nil {
			defer func() {
				if err := cache.Close(); err != nil {
					log.Printf("web: close cache: %v", err)
				}
			}()
		}

		serverCfg, err := buildServerConfig(cfg, cache)
		if err != nil {
			return err
		}
		server, err := web.NewServer(ctx, serverCfg)
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

func buildServerConfig(cfg Config, cache storage.CacheStore) (web.Config, error) {
	repoOpts := content.Options{
		StartItem: cfg.UmbracoStartItem,
		HasAPIKey: strings.TrimSpace(cfg.UmbracoAPIKey) != "",
		CacheTTL:  cfg.CacheTTL,
	}
	if cache != nil {
		repoOpts.Cache = cache
	}

	var source content.Source
	if strings.TrimSpace(cfg.UmbracoBaseURL) != "" {
		client, err := umbraco.NewClient(umbraco.Config{
			BaseURL:   cfg.UmbracoBaseURL,
			APIKey:    cfg.UmbracoAPIKey,
			StartItem: cfg.UmbracoStartItem,
		})
		if err != nil {
			return web.Config{}, fmt.Errorf("init umbraco client: %w", err)
		}
		source = client
	} else {
		log.Printf("web: umbraco base url not set; pages will be empty")
	}
	repo := content.NewRepository(source, repoOpts)

	verifier := recaptcha.New(recaptcha.Config{
		Secret:    cfg.RecaptchaSecret,
		Threshold: cfg.RecaptchaThreshold,
	})

	var mailer contactsvc.Mailer = msgraph.Unconfigured{}
	graph, err := msgraph.New(msgraph.Config{
		TenantID:     cfg.GraphTenantID,
		ClientID:     cfg.GraphClientID,
		ClientSecret: cfg.GraphClientSecret,
		Mailbox:      cfg.GraphMailbox,
		Recipient:    cfg.GraphRecipient,
		FromName:     cfg.GraphFromName,
	})
	if err != nil {
		log.Printf("web: contact mail disabled: %v", err)
	} else {
		mailer = graph
	}

	scheme := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	renderer := &pagerender.Renderer{
		Site:             repo,
		Analytics:        analytics.NewConfig(cfg.Analytics),
		SiteURL:          cfg.SiteURL,
		CMSBaseURL:       cfg.UmbracoBaseURL,
		MediaBaseURL:     cfg.UmbracoMediaURL,
		RecaptchaSiteKey: cfg.RecaptchaSiteKey,
		Scheme:           scheme,
	}

	serverCfg := web.Config{
		HTTPAddr: cfg.HTTPAddr,
		Content:  repo,
		Renderer: renderer,
		Contact:  contactsvc.NewService(verifier, mailer),
	}
	if schedule := strings.TrimSpace(cfg.WarmSchedule); schedule != "" && repo.Enabled() {
		warmer := web.CacheWarmer{Content: repo}
		if cache != nil {
			warmer.Cache = cache
		}
		serverCfg.Warm = warmer
		serverCfg.WarmSchedule = schedule
	}
	return serverCfg, nil
}

// openCache opens the Redis cache when a URL is set, else the SQLite cache
// when a path is set. No cache is a valid configuration.
func openCache(ctx context.Context, cfg Config) (storage.CacheStore, error) {
	if url := strings.TrimSpace(cfg.RedisURL); url != "" {
		store, err := redisstore.Open(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		log.Printf("web: cms cache backend=redis")
		return store, nil
	}
	if path := strings.TrimSpace(cfg.CachePath); path != "" {
		store, err := sqlitestore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		log.Printf("web: cms cache backend=sqlite path=%s", path)
		return store, nil
	}
	return nil, nil
}
